package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/userhive/account-api/internal/core/domain"
	"github.com/userhive/account-api/internal/core/ports"
)

// AccountService implements registration, login, lookup, listing, and
// blocking on top of the user directory.
type AccountService struct {
	directory ports.UserDirectory
	ids       ports.IDAllocator
	hasher    *PasswordHasher
	tokens    *TokenManager
	log       zerolog.Logger
}

func NewAccountService(
	directory ports.UserDirectory,
	ids ports.IDAllocator,
	hasher *PasswordHasher,
	tokens *TokenManager,
	log zerolog.Logger,
) *AccountService {
	return &AccountService{
		directory: directory,
		ids:       ids,
		hasher:    hasher,
		tokens:    tokens,
		log:       log,
	}
}

// Register creates a new active account with role "user". The admin role is
// only ever created by the seed binary.
func (s *AccountService) Register(ctx context.Context, fullName string, dob time.Time, email, password string) (*domain.User, error) {
	if _, err := s.directory.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	id, err := s.ids.NextUserID(ctx)
	if err != nil {
		return nil, fmt.Errorf("register: allocate id: %w", err)
	}

	user := &domain.User{
		ID:           id,
		FullName:     fullName,
		DOB:          dob,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		Status:       domain.StatusActive,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.directory.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", created.ID).Msg("user registered")
	return created, nil
}

// Login verifies credentials and issues an access token. Unknown emails and
// wrong passwords both surface as ErrInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.directory.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Check(password, user.PasswordHash) {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, fmt.Errorf("login: issue token: %w", err)
	}

	return token, user, nil
}

func (s *AccountService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.directory.FindByID(ctx, id)
}

func (s *AccountService) List(ctx context.Context, limit, offset int64) ([]domain.User, int64, error) {
	if limit < 1 {
		limit = 1
	}
	if offset < 0 {
		offset = 0
	}
	return s.directory.List(ctx, limit, offset)
}

// Block marks the target account inactive. Outstanding tokens for the target
// are not invalidated; they lapse at their own expiry.
func (s *AccountService) Block(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.directory.UpdateStatus(ctx, id, domain.StatusInactive)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", id).Msg("user blocked")
	return user, nil
}
