package service

import (
	"database/sql/driver"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	certDTO "certivo_backend/internals/features/certificates/certificate/dto"
	settingsModel "certivo_backend/internals/features/settings/model"
)

func orgRows(id uuid.UUID, name string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"organization_id", "organization_name", "organization_type", "organization_contact_email", "organization_contact_person", "organization_is_active", "created_at", "updated_at"}).
		AddRow(id.String(), name, "college", nil, nil, true, time.Now(), time.Now())
}

func certRows(id uuid.UUID, code, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"certificate_id", "certificate_code", "certificate_user_id", "certificate_issued_by", "certificate_holder_name", "certificate_program", "certificate_organization_name", "certificate_duration_text", "certificate_status", "certificate_issued_at", "certificate_verified_at", "created_at", "updated_at"}).
		AddRow(id.String(), code, uuid.New().String(), nil, "Jane Doe", "Web Development", "Acme University", nil, status, time.Now(), nil, time.Now(), time.Now())
}

func expectInsert(mock sqlmock.Sqlmock, table string) {
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "` + table + `"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
}

func TestIssueSingle_HappyPath(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewIssuanceService(db)

	orgID := uuid.New()
	subjectID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "organizations" WHERE organization_id =`).
		WillReturnRows(orgRows(orgID, "Acme University"))
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE lower\(email\) =`).
		WillReturnRows(userRows(subjectID, "Jane Doe", "jane@example.com", "user"))
	expectInsert(mock, "certificates")
	expectInsert(mock, "certificate_activities")

	email := "jane@example.com"
	orgStr := orgID.String()
	req := certDTO.CreateCertificateRequest{
		Name:           "Jane Doe",
		Domain:         "Web Development",
		IssuedAt:       "2025-06-01",
		OrganizationID: &orgStr,
		Email:          &email,
	}

	cert, err := svc.IssueSingle(req, uuid.New(), settingsModel.DefaultAdminSettings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !codePattern.MatchString(cert.CertificateCode) {
		t.Fatalf("issued code %q does not match pattern", cert.CertificateCode)
	}
	if cert.CertificateStatus != "verified" {
		t.Fatalf("status = %q, want verified under default settings", cert.CertificateStatus)
	}
	if cert.CertificateUserID != subjectID {
		t.Fatalf("certificate bound to wrong subject: %s", cert.CertificateUserID)
	}
	if cert.CertificateOrganizationName == nil || *cert.CertificateOrganizationName != "Acme University" {
		t.Fatalf("organization snapshot = %v, want Acme University", cert.CertificateOrganizationName)
	}
	if cert.CertificateIssuedAt.Format("2006-01-02") != "2025-06-01" {
		t.Fatalf("issued_at = %s, want the requested date", cert.CertificateIssuedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestIssueSingle_OrganizationNotFound(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewIssuanceService(db)

	mock.ExpectQuery(`SELECT \* FROM "organizations" WHERE organization_id =`).
		WillReturnRows(sqlmock.NewRows([]string{"organization_id"}))

	orgStr := uuid.New().String()
	email := "jane@example.com"
	_, err := svc.IssueSingle(certDTO.CreateCertificateRequest{
		Name:           "Jane Doe",
		Domain:         "Web Development",
		IssuedAt:       "2025-06-01",
		OrganizationID: &orgStr,
		Email:          &email,
	}, uuid.New(), settingsModel.DefaultAdminSettings())
	if !errors.Is(err, ErrOrganizationNotFound) {
		t.Fatalf("got %v, want ErrOrganizationNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestIssueSingle_RetriesOnCodeCollision(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewIssuanceService(db)

	subjectID := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE lower\(email\) =`).
		WillReturnRows(userRows(subjectID, "Jane Doe", "jane@example.com", "user"))

	// first candidate collides, second one sticks
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "certificates"`).
		WillReturnError(uniqueViolationErr("certificates_certificate_code_key"))
	mock.ExpectRollback()
	expectInsert(mock, "certificates")
	expectInsert(mock, "certificate_activities")

	email := "jane@example.com"
	cert, err := svc.IssueSingle(certDTO.CreateCertificateRequest{
		Name:     "Jane Doe",
		Domain:   "Web Development",
		IssuedAt: "2025-06-01",
		Email:    &email,
	}, uuid.New(), settingsModel.DefaultAdminSettings())
	if err != nil {
		t.Fatalf("unexpected error after retry: %v", err)
	}
	if !codePattern.MatchString(cert.CertificateCode) {
		t.Fatalf("issued code %q does not match pattern", cert.CertificateCode)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestIssueSingle_RequireReviewForManual(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewIssuanceService(db)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE lower\(email\) =`).
		WillReturnRows(userRows(uuid.New(), "Jane Doe", "jane@example.com", "user"))
	expectInsert(mock, "certificates")
	expectInsert(mock, "certificate_activities")

	st := settingsModel.DefaultAdminSettings()
	st.SettingsRequireReviewForManual = true

	email := "jane@example.com"
	cert, err := svc.IssueSingle(certDTO.CreateCertificateRequest{
		Name:     "Jane Doe",
		Domain:   "Web Development",
		IssuedAt: "2025-06-01",
		Email:    &email,
	}, uuid.New(), st)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cert.CertificateStatus != "pending" {
		t.Fatalf("status = %q, want pending when manual review is required", cert.CertificateStatus)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestIssueSingle_ActivityLogFailureIsNotSurfaced(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewIssuanceService(db)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE lower\(email\) =`).
		WillReturnRows(userRows(uuid.New(), "Jane Doe", "jane@example.com", "user"))
	expectInsert(mock, "certificates")
	// the certificate is committed, a failing audit row must not undo that
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "certificate_activities"`).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	email := "jane@example.com"
	cert, err := svc.IssueSingle(certDTO.CreateCertificateRequest{
		Name:     "Jane Doe",
		Domain:   "Web Development",
		IssuedAt: "2025-06-01",
		Email:    &email,
	}, uuid.New(), settingsModel.DefaultAdminSettings())
	if err != nil {
		t.Fatalf("audit failure leaked out: %v", err)
	}
	if cert == nil {
		t.Fatal("expected the issued certificate back")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestImportBatch_RowIsolation(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewIssuanceService(db)

	// only row 1 reaches the database
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE lower\(email\) =`).
		WillReturnRows(userRows(uuid.New(), "Jane Doe", "jane@example.com", "user"))
	expectInsert(mock, "certificates")
	expectInsert(mock, "certificate_activities")

	rows := []certDTO.ImportRow{
		{RowNumber: 2, Name: "Jane Doe", Email: "jane@example.com", Program: "Web Development"},
		{RowNumber: 3, Name: "John Roe", Email: "not-an-email", Program: "Data Science"},
		{RowNumber: 4, Name: "", Email: "empty@example.com", Program: "Data Science"},
	}

	summary, rowErrors := svc.ImportBatch(rows, uuid.New(), settingsModel.DefaultAdminSettings())
	if summary.TotalRows != 3 {
		t.Fatalf("total rows = %d, want 3", summary.TotalRows)
	}
	if summary.CreatedCertificates != 1 {
		t.Fatalf("created certificates = %d, want 1", summary.CreatedCertificates)
	}
	if summary.ExistingUsers != 1 || summary.CreatedUsers != 0 {
		t.Fatalf("user counters = existing %d / created %d, want 1 / 0", summary.ExistingUsers, summary.CreatedUsers)
	}
	if summary.ErrorCount != 2 || len(rowErrors) != 2 {
		t.Fatalf("error count = %d (%d strings), want 2", summary.ErrorCount, len(rowErrors))
	}
	if !strings.HasPrefix(rowErrors[0], "Row 3:") {
		t.Fatalf("first error %q not attributed to row 3", rowErrors[0])
	}
	if !strings.HasPrefix(rowErrors[1], "Row 4:") {
		t.Fatalf("second error %q not attributed to row 4", rowErrors[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestImportBatch_CreatesMissingUsers(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewIssuanceService(db)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE lower\(email\) =`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	expectInsert(mock, "users")
	expectInsert(mock, "certificates")
	expectInsert(mock, "certificate_activities")

	rows := []certDTO.ImportRow{
		{RowNumber: 2, Name: "New Person", Email: "new@example.com", Program: "Web Development", OrganizationName: "Acme University", DurationText: "3 months"},
	}

	summary, rowErrors := svc.ImportBatch(rows, uuid.New(), settingsModel.DefaultAdminSettings())
	if len(rowErrors) != 0 {
		t.Fatalf("unexpected row errors: %v", rowErrors)
	}
	if summary.CreatedUsers != 1 || summary.CreatedCertificates != 1 {
		t.Fatalf("summary = %+v, want one created user and one certificate", summary)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestImportBatch_StorageFailureIsRowError(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewIssuanceService(db)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE lower\(email\) =`).
		WillReturnRows(userRows(uuid.New(), "Jane Doe", "jane@example.com", "user"))
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "certificates"`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	rows := []certDTO.ImportRow{
		{RowNumber: 2, Name: "Jane Doe", Email: "jane@example.com", Program: "Web Development"},
	}

	summary, rowErrors := svc.ImportBatch(rows, uuid.New(), settingsModel.DefaultAdminSettings())
	if summary.CreatedCertificates != 0 {
		t.Fatalf("created certificates = %d, want 0", summary.CreatedCertificates)
	}
	if len(rowErrors) != 1 || !strings.HasPrefix(rowErrors[0], "Row 2:") {
		t.Fatalf("row errors = %v, want one error for row 2", rowErrors)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestImportBatch_ErrorsUseSheetRowNumbers(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewIssuanceService(db)

	// only the valid sheet row 2 reaches the database
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE lower\(email\) =`).
		WillReturnRows(userRows(uuid.New(), "Jane Doe", "jane@example.com", "user"))
	expectInsert(mock, "certificates")
	expectInsert(mock, "certificate_activities")

	csv := strings.Join([]string{
		"Name,Email,Program",
		"Jane Doe,jane@example.com,Web Development",
		",missing-name@example.com,Data Science",
	}, "\n")
	rows, err := ParseImportFile("batch.csv", strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	summary, rowErrors := svc.ImportBatch(rows, uuid.New(), settingsModel.DefaultAdminSettings())
	if summary.TotalRows != 2 || summary.CreatedCertificates != 1 {
		t.Fatalf("summary = %+v, want 2 rows and 1 certificate", summary)
	}
	// the malformed entry sits on sheet row 3 (header is row 1)
	if len(rowErrors) != 1 || !strings.HasPrefix(rowErrors[0], "Row 3:") {
		t.Fatalf("row errors = %v, want one error attributed to row 3", rowErrors)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

type stringCapture struct{ got *string }

func (c stringCapture) Match(v driver.Value) bool {
	s, ok := v.(string)
	if ok {
		*c.got = s
	}
	return ok
}

func TestIssueSingle_PlaceholderEmailFollowsFinalCode(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewIssuanceService(db)

	// no email and no user id: a placeholder subject seeded from the first
	// code candidate, which then collides
	expectInsert(mock, "users")
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "certificates"`).
		WillReturnError(uniqueViolationErr("certificates_certificate_code_key"))
	mock.ExpectRollback()
	expectInsert(mock, "certificates")

	var rewritten string
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users"`).
		WithArgs(stringCapture{got: &rewritten}, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	expectInsert(mock, "certificate_activities")

	cert, err := svc.IssueSingle(certDTO.CreateCertificateRequest{
		Name:     "No Email Guy",
		Domain:   "Web Development",
		IssuedAt: "2025-06-01",
	}, uuid.New(), settingsModel.DefaultAdminSettings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := PlaceholderEmail(cert.CertificateCode); rewritten != want {
		t.Fatalf("placeholder email rewritten to %q, want %q (derived from the final code)", rewritten, want)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestIssueSingle_PlaceholderEmailKeptWhenSeedSticks(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewIssuanceService(db)

	// first candidate sticks: the seeded address already matches, no rewrite
	expectInsert(mock, "users")
	expectInsert(mock, "certificates")
	expectInsert(mock, "certificate_activities")

	_, err := svc.IssueSingle(certDTO.CreateCertificateRequest{
		Name:     "No Email Guy",
		Domain:   "Web Development",
		IssuedAt: "2025-06-01",
	}, uuid.New(), settingsModel.DefaultAdminSettings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpdateStatus(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewIssuanceService(db)

	certID := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "certificates" WHERE certificate_id =`).
		WillReturnRows(certRows(certID, "CERT-INT-2025-004821", "pending"))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "certificates"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	expectInsert(mock, "certificate_activities")

	cert, err := svc.UpdateStatus(certID, "verified", uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cert.CertificateStatus != "verified" {
		t.Fatalf("status = %q, want verified", cert.CertificateStatus)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
