// Package otp issues and verifies short-lived one-time passcodes backed by Redis.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/MasterBhuvnesh/Kisan-Vikas/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// Purpose distinguishes what a code authorizes once verified.
type Purpose string

const (
	// PurposeVerifyEmail confirms ownership of an email address after signup.
	PurposeVerifyEmail Purpose = "email"
	// PurposeResetPassword authorizes a password reset.
	PurposeResetPassword Purpose = "recovery"
)

var (
	// ErrInvalidCode is returned when the code does not match or has expired.
	ErrInvalidCode = errors.New("invalid or expired code")
	// ErrUnavailable is returned when the backing store cannot be reached.
	ErrUnavailable = errors.New("otp store unavailable")
)

// Store issues and verifies one-time passcodes. Codes are single-use; a
// successful verification deletes the code.
type Store struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewStore returns a Store using the given Redis client and code lifetime.
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{redis: rdb, ttl: ttl}
}

func key(purpose Purpose, email string) string {
	return fmt.Sprintf("otp:%s:%s", purpose, email)
}

// Issue generates a 6-digit code for the email and purpose, replacing any
// outstanding code. The code is returned so the caller can deliver it.
func (s *Store) Issue(ctx context.Context, purpose Purpose, email string) (string, error) {
	if s.redis == nil {
		return "", ErrUnavailable
	}

	code, err := generateCode()
	if err != nil {
		return "", err
	}

	if err := s.redis.Set(ctx, key(purpose, email), code, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("storing otp: %w", err)
	}

	middleware.Logger.InfoContext(ctx, "OTP issued",
		slog.String("purpose", string(purpose)),
		slog.String("email", email),
	)
	return code, nil
}

// Verify checks the code for the email and purpose. On success the code is
// deleted so it cannot be replayed.
func (s *Store) Verify(ctx context.Context, purpose Purpose, email, code string) error {
	if s.redis == nil {
		return ErrUnavailable
	}

	k := key(purpose, email)
	stored, err := s.redis.Get(ctx, k).Result()
	if err == redis.Nil {
		return ErrInvalidCode
	}
	if err != nil {
		return fmt.Errorf("reading otp: %w", err)
	}
	if stored != code {
		return ErrInvalidCode
	}

	s.redis.Del(ctx, k)
	return nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generating otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
