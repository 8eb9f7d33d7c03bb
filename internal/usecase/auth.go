package usecase

import (
	"context"
	"errors"
	"log/slog"

	domainErrors "github.com/hunabku/comanda/internal/domain/errors"
	"github.com/hunabku/comanda/internal/domain/repository"
	"github.com/hunabku/comanda/internal/pkg/auth"
)

// AuthUseCase handles panel account authentication.
type AuthUseCase struct {
	staff    repository.StaffRepository
	hasher   auth.PasswordHasher
	strategy auth.Strategy
	logger   *slog.Logger
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(staff repository.StaffRepository, hasher auth.PasswordHasher, strategy auth.Strategy, logger *slog.Logger) *AuthUseCase {
	return &AuthUseCase{staff: staff, hasher: hasher, strategy: strategy, logger: logger}
}

// Login verifies credentials and issues a session token.
func (u *AuthUseCase) Login(ctx context.Context, login, password string) (string, error) {
	account, err := u.staff.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return "", domainErrors.ErrInvalidCredentials
		}
		return "", err
	}
	if err := u.hasher.Compare(account.PasswordHash, password); err != nil {
		return "", domainErrors.ErrInvalidCredentials
	}
	return u.strategy.IssueToken(account.ID)
}

// ParseToken validates a session token and returns the staff ID.
func (u *AuthUseCase) ParseToken(token string) (int64, error) {
	return u.strategy.ParseToken(token)
}

// EnsureBootstrapAccount seeds the configured panel account on startup so a
// fresh deployment is reachable. A blank password disables seeding.
func (u *AuthUseCase) EnsureBootstrapAccount(ctx context.Context, login, password string) error {
	if login == "" || password == "" {
		return nil
	}
	if _, err := u.staff.GetByLogin(ctx, login); err == nil {
		return nil
	} else if !errors.Is(err, domainErrors.ErrNotFound) {
		return err
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return err
	}
	if _, err := u.staff.Create(ctx, login, hash); err != nil && !errors.Is(err, domainErrors.ErrAlreadyExists) {
		return err
	}
	u.logger.Info("bootstrap staff account ready", slog.String("login", login))
	return nil
}
