// Package auth holds the login collaborators: the credential store that
// checks an email and password pair, and the issuer of signed session tokens.
package auth

import (
	"context"
	"fmt"

	"best-coupon/internal/model"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// CredentialStore verifies credentials and returns the matching profile.
type CredentialStore interface {
	// Authenticate returns the profile for the given credentials, or
	// model.ErrInvalidCredentials if they do not match.
	Authenticate(ctx context.Context, email, password string) (*model.UserProfile, error)
}

// DemoProfile returns the profile of the built-in demo account.
func DemoProfile(email string) model.UserProfile {
	return model.UserProfile{
		UserID:        "u_demo",
		Email:         email,
		UserTier:      "NEW",
		Country:       "IN",
		LifetimeSpend: decimal.NewFromInt(1200),
		OrdersPlaced:  2,
	}
}

// staticCredentialStore holds a single account with a bcrypt password hash.
type staticCredentialStore struct {
	email        string
	passwordHash []byte
	profile      model.UserProfile
}

// NewStaticCredentialStore creates a store holding one account. The password
// is hashed immediately and the plaintext is not retained.
func NewStaticCredentialStore(profile model.UserProfile, password string) (CredentialStore, error) {
	return newStaticCredentialStore(profile, password, bcrypt.DefaultCost)
}

func newStaticCredentialStore(profile model.UserProfile, password string, cost int) (*staticCredentialStore, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return &staticCredentialStore{
		email:        profile.Email,
		passwordHash: hash,
		profile:      profile,
	}, nil
}

// Authenticate checks the credentials against the stored account.
func (s *staticCredentialStore) Authenticate(ctx context.Context, email, password string) (*model.UserProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The hash is compared even for an unknown email so both failures take the same time.
	passwordErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password))
	if email != s.email || passwordErr != nil {
		return nil, model.ErrInvalidCredentials
	}

	profile := s.profile
	return &profile, nil
}
