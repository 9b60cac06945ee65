package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAlreadyConfigured  = errors.New("admin user already configured")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Service interface {
	// NeedsBootstrap reports whether no user exists yet.
	NeedsBootstrap(ctx context.Context) (bool, error)
	// Bootstrap creates the single admin account. Blocked once a user exists.
	Bootstrap(ctx context.Context, username, email, password string) (*User, error)
	Login(ctx context.Context, username, password string) (*User, error)
	// RequestResetCode returns a fresh 6-digit code for the user with the
	// given email. Storing the code (session) and delivering it (mail) are
	// the caller's concern, so a failed delivery never leaves dangling state.
	RequestResetCode(ctx context.Context, email string) (string, error)
	ChangePassword(ctx context.Context, email, newPassword string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) NeedsBootstrap(ctx context.Context) (bool, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("service: failed to check for existing users: %w", err)
	}
	return count == 0, nil
}

func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("service: password cannot be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to hash password")
		return "", fmt.Errorf("service: failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func (s *service) Bootstrap(ctx context.Context, username, email, password string) (*User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" {
		return nil, errors.New("service: username and email are required")
	}

	empty, err := s.NeedsBootstrap(ctx)
	if err != nil {
		return nil, err
	}
	if !empty {
		return nil, ErrAlreadyConfigured
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &User{Username: username, Email: email, PasswordHash: hash}
	if _, err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrUserExists) {
			return nil, ErrAlreadyConfigured
		}
		log.Error().Err(err).Msg("service: failed to create admin user")
		return nil, fmt.Errorf("service: failed to create admin user: %w", err)
	}
	return user, nil
}

func (s *service) Login(ctx context.Context, username, password string) (*User, error) {
	user, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("service: failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func newResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("service: failed to generate reset code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func (s *service) RequestResetCode(ctx context.Context, email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.repo.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("service: failed to look up user by email: %w", err)
	}
	return newResetCode()
}

func (s *service) ChangePassword(ctx context.Context, email, newPassword string) error {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("service: failed to look up user by email: %w", err)
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(ctx, user.ID, hash); err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("service: failed to update password")
		return fmt.Errorf("service: failed to update password: %w", err)
	}
	return nil
}
