package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"certivo_backend/internals/constants"
	userModel "certivo_backend/internals/features/users/user/model"
	helper "certivo_backend/internals/helpers"
)

var ErrSubjectNotFound = errors.New("subject not found")

// PlaceholderDomain hosts the synthesized addresses for subjects issued a
// certificate without a real email.
const PlaceholderDomain = "placeholder.certivo.local"

type ResolveSubjectInput struct {
	Name   string
	Email  *string
	UserID *uuid.UUID
	// PlaceholderSeed is the certificate code candidate; used to synthesize a
	// deterministic placeholder email when no real email is supplied.
	PlaceholderSeed string
}

// ResolveSubject guarantees a persisted owning subject for a certificate:
//  1. explicit user id  -> must exist, else ErrSubjectNotFound
//  2. email             -> find by email (case-insensitive) or create
//  3. neither           -> create with a placeholder email from the seed
//
// The second return value reports whether a new subject was created.
func ResolveSubject(db *gorm.DB, in ResolveSubjectInput) (*userModel.UserModel, bool, error) {
	if in.UserID != nil {
		var u userModel.UserModel
		if err := db.First(&u, "id = ?", *in.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, false, ErrSubjectNotFound
			}
			return nil, false, err
		}
		return &u, false, nil
	}

	email := ""
	if in.Email != nil {
		email = strings.ToLower(strings.TrimSpace(*in.Email))
	}

	if email != "" {
		var u userModel.UserModel
		err := db.First(&u, "lower(email) = ?", email).Error
		if err == nil {
			return &u, false, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, err
		}
	} else {
		email = PlaceholderEmail(in.PlaceholderSeed)
	}

	u := userModel.UserModel{
		UserName: strings.TrimSpace(in.Name),
		Email:    email,
		Role:     constants.RoleUser,
		IsActive: true,
	}
	if err := db.Create(&u).Error; err != nil {
		// find-or-create race: another request inserted this email first.
		if helper.IsUniqueViolation(err) {
			var existing userModel.UserModel
			if err2 := db.First(&existing, "lower(email) = ?", email).Error; err2 == nil {
				return &existing, false, nil
			}
		}
		return nil, false, err
	}
	return &u, true, nil
}

// PlaceholderEmail derives the synthetic address for subjects without a real
// email, e.g. cert-cert-int-2025-004821@placeholder.certivo.local.
func PlaceholderEmail(code string) string {
	return fmt.Sprintf("cert-%s@%s", strings.ToLower(strings.TrimSpace(code)), PlaceholderDomain)
}
