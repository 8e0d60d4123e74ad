package employee

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("employee not found")

type Repository interface {
	// GetAll returns the full roster snapshot, inactive employees included,
	// ordered by display name.
	GetAll(ctx context.Context) ([]Employee, error)
	GetByID(ctx context.Context, id uuid.UUID) (Employee, error)
	Count(ctx context.Context) (int64, error)
}
