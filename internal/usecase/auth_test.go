package usecase

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/hunabku/comanda/internal/domain/errors"
	"github.com/hunabku/comanda/internal/pkg/auth"
	"github.com/hunabku/comanda/internal/test"
)

func newAuthFixture(t *testing.T) (*AuthUseCase, *test.StaffRepositoryStub) {
	t.Helper()
	staff := test.NewStaffRepositoryStub()
	hasher := auth.NewBcryptHasher(bcryptTestCost)
	strategy := auth.NewHMACStrategy("test-secret", auth.Options{})
	return NewAuthUseCase(staff, hasher, strategy, discardLogger()), staff
}

// bcryptTestCost keeps the suite fast; production cost comes from the hasher
// default.
const bcryptTestCost = 4

func TestLoginRoundTrip(t *testing.T) {
	uc, staff := newAuthFixture(t)
	if err := uc.EnsureBootstrapAccount(context.Background(), "admin", "s3cret"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, err := uc.Login(context.Background(), "admin", "s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	account := staff.Staff["admin"]
	if account == nil {
		t.Fatal("bootstrap account missing")
	}
	staffID, err := uc.ParseToken(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if staffID != account.ID {
		t.Fatalf("token resolves to staff %d, want %d", staffID, account.ID)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	uc, _ := newAuthFixture(t)
	if err := uc.EnsureBootstrapAccount(context.Background(), "admin", "s3cret"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := uc.Login(context.Background(), "admin", "wrong"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for wrong password, got %v", err)
	}
	if _, err := uc.Login(context.Background(), "ghost", "s3cret"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown login, got %v", err)
	}
}

func TestEnsureBootstrapAccountIdempotent(t *testing.T) {
	uc, staff := newAuthFixture(t)

	if err := uc.EnsureBootstrapAccount(context.Background(), "admin", "s3cret"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	firstHash := staff.Staff["admin"].PasswordHash

	if err := uc.EnsureBootstrapAccount(context.Background(), "admin", "changed"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if staff.Staff["admin"].PasswordHash != firstHash {
		t.Fatal("existing account must not be overwritten")
	}
}

func TestEnsureBootstrapAccountSkippedWithoutPassword(t *testing.T) {
	uc, staff := newAuthFixture(t)

	if err := uc.EnsureBootstrapAccount(context.Background(), "admin", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(staff.Staff) != 0 {
		t.Fatal("seeding must be skipped when no password is configured")
	}
}
