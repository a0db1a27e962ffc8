package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"noteful-server/internal/domain"
	"noteful-server/internal/repository"
)

// UserService describes user lifecycle operations. Every User it
// returns is sanitized; the password hash stays inside the service.
type UserService interface {
	Register(ctx context.Context, username, password, fullName string) (*domain.User, error)
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

type userService struct {
	users      repository.UserRepository
	bcryptCost int
}

func NewUserService(users repository.UserRepository, bcryptCost int) UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &userService{
		users:      users,
		bcryptCost: bcryptCost,
	}
}

// HashPassword produces a salted one-way hash. The salt is fresh per
// call, so the same plaintext never hashes to the same output twice.
func (s *userService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches hash. A malformed
// hash is treated as a mismatch rather than an error.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (s *userService) Register(ctx context.Context, username, password, fullName string) (*domain.User, error) {
	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: hash,
	}

	// No pre-check on username: the storage uniqueness constraint is the
	// authoritative duplicate signal, so a race cannot create two users
	// with the same name.
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user.Sanitized(), nil
}

func (s *userService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Indistinguishable from a wrong password to the caller.
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	return user.Sanitized(), nil
}

func (s *userService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	sanitized := make([]domain.User, len(users))
	for i := range users {
		sanitized[i] = *users[i].Sanitized()
	}
	return sanitized, nil
}
