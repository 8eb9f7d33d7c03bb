package repository

import (
	"context"

	"github.com/hunabku/comanda/internal/domain/model"
)

// StaffRepository describes persistence operations with panel accounts.
type StaffRepository interface {
	Create(ctx context.Context, login, passwordHash string) (*model.Staff, error)
	GetByLogin(ctx context.Context, login string) (*model.Staff, error)
	GetByID(ctx context.Context, id int64) (*model.Staff, error)
}
