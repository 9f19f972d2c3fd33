package ports

import (
	"context"

	"github.com/userhive/account-api/internal/core/domain"
)

// UserDirectory defines the persistence boundary for user accounts. The
// implementation is responsible for enforcing email uniqueness atomically on
// Create and for reporting missing targets on reads and updates.
type UserDirectory interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)

	// List returns a page ordered by creation time descending, plus the
	// total number of users in the directory.
	List(ctx context.Context, limit, offset int64) ([]domain.User, int64, error)

	UpdateStatus(ctx context.Context, id int64, status string) (*domain.User, error)
}

// IDAllocator hands out unique numeric user ids.
type IDAllocator interface {
	NextUserID(ctx context.Context) (int64, error)
}
