package service

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	settingsModel "certivo_backend/internals/features/settings/model"
)

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

func settingsRows(id uuid.UUID, autoVerify, requireReview, showOrg, allowPdf bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"settings_id", "settings_singleton", "settings_auto_verify_imports", "settings_require_review_for_manual", "settings_show_org_name_on_public", "settings_allow_public_pdf_download", "settings_portal_meta", "created_at", "updated_at"}).
		AddRow(id.String(), true, autoVerify, requireReview, showOrg, allowPdf, nil, time.Now(), time.Now())
}

func TestGetAdminSettings_Existing(t *testing.T) {
	db, mock := newTestDB(t)

	id := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "admin_settings" WHERE settings_singleton =`).
		WillReturnRows(settingsRows(id, false, true, false, false))

	st, err := GetAdminSettings(db)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.SettingsID != id {
		t.Fatalf("loaded wrong row: %s", st.SettingsID)
	}
	if st.SettingsAutoVerifyImports || !st.SettingsRequireReviewForManual {
		t.Fatalf("stored flags not honored: %+v", st)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestGetAdminSettings_FallsBackToDefaults(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectQuery(`SELECT \* FROM "admin_settings" WHERE settings_singleton =`).
		WillReturnRows(sqlmock.NewRows([]string{"settings_id"}))

	st, err := GetAdminSettings(db)
	if err != nil {
		t.Fatalf("missing row must fall back to defaults, got %v", err)
	}
	if !st.SettingsAutoVerifyImports || st.SettingsRequireReviewForManual || !st.SettingsShowOrgNameOnPublic {
		t.Fatalf("defaults are wrong: %+v", st)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSaveAdminSettings_FirstSaveCreates(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectQuery(`SELECT \* FROM "admin_settings" WHERE settings_singleton =`).
		WillReturnRows(sqlmock.NewRows([]string{"settings_id"}))
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "admin_settings"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	st := settingsModel.DefaultAdminSettings()
	if err := SaveAdminSettings(db, &st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSaveAdminSettings_SecondSaveUpdates(t *testing.T) {
	db, mock := newTestDB(t)

	id := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "admin_settings" WHERE settings_singleton =`).
		WillReturnRows(settingsRows(id, true, false, true, true))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "admin_settings"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	st := settingsModel.DefaultAdminSettings()
	st.SettingsAutoVerifyImports = false
	if err := SaveAdminSettings(db, &st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.SettingsID != id {
		t.Fatalf("save must keep the singleton id, got %s", st.SettingsID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
