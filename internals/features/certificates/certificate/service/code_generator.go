package service

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	helper "certivo_backend/internals/helpers"
)

const (
	// CertCodePrefix is fixed; the full code shape is CERT-INT-<year>-<6 digits>.
	CertCodePrefix = "CERT-INT"

	// maxCodeAttempts bounds the regenerate-on-collision loop. Collision odds
	// are ~1 in 900k per year, so exhausting 5 attempts means something else
	// is wrong (clock, constraint, runaway volume).
	maxCodeAttempts = 5
)

var ErrCodeGenerationExhausted = errors.New("certificate code generation exhausted after max attempts")

// GenerateCertificateCode produces a candidate public code, e.g.
// CERT-INT-2025-004821. Uniqueness is NOT guaranteed by construction; the
// unique index on certificates.certificate_code is the source of truth and
// callers retry through insertWithCodeRetry on conflict.
func GenerateCertificateCode() string {
	return fmt.Sprintf("%s-%d-%06d", CertCodePrefix, time.Now().Year(), rand.IntN(1000000))
}

// NormalizeCode trims and upper-cases a caller-supplied code so lookups match
// the stored convention.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// insertWithCodeRetry generates a candidate code and runs insert with it,
// regenerating on a store-level unique violation up to attempts times.
// Any other insert error is surfaced immediately and not retried.
// Returns the code that finally stuck.
func insertWithCodeRetry(attempts int, generate func() string, insert func(code string) error) (string, error) {
	for i := 0; i < attempts; i++ {
		code := generate()
		err := insert(code)
		if err == nil {
			return code, nil
		}
		if !helper.IsUniqueViolation(err) {
			return "", err
		}
	}
	return "", ErrCodeGenerationExhausted
}
