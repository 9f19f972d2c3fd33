package ports

import (
	"context"
	"time"

	"github.com/userhive/account-api/internal/core/domain"
)

type UserService interface {
	Register(ctx context.Context, fullName string, dob time.Time, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, limit, offset int64) ([]domain.User, int64, error)
	Block(ctx context.Context, id int64) (*domain.User, error)
}
