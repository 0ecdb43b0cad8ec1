package service

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// newTestDB opens GORM over a sqlmock connection. Expectations use sqlmock's
// default regexp matcher, so tests match SQL by fragment.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	return gdb, mock
}

// uniqueViolationErr mimics what the postgres driver returns on a duplicate
// certificate code.
func uniqueViolationErr(constraint string) error {
	return &stubPgError{msg: `ERROR: duplicate key value violates unique constraint "` + constraint + `" (SQLSTATE 23505)`}
}

type stubPgError struct{ msg string }

func (e *stubPgError) Error() string { return e.msg }
