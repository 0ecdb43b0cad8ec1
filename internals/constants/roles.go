package constants

import "fmt"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

var AllRoles = []string{RoleUser, RoleAdmin}

// Role error message templates
const (
	ErrOnlyAdminsCanAccess = "Only admins may access %s."
	ErrOnlyUsersCanAccess  = "Only signed-in users may access %s."
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorUser(feature string) string {
	return fmt.Sprintf(ErrOnlyUsersCanAccess, feature)
}
