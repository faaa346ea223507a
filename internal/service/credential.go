package service

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// CredentialStrategy decides how member passwords are stored and checked.
type CredentialStrategy interface {
	Seal(plain string) (string, error)
	Verify(stored, plain string) bool
}

// PlaintextCredentials stores passwords verbatim. It exists for
// compatibility with databases written by earlier versions and must not be
// used for a real deployment.
type PlaintextCredentials struct{}

func (PlaintextCredentials) Seal(plain string) (string, error) { return plain, nil }

func (PlaintextCredentials) Verify(stored, plain string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(plain)) == 1
}

type BcryptCredentials struct{ Cost int }

func (b BcryptCredentials) Seal(plain string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (BcryptCredentials) Verify(stored, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain)) == nil
}

func NewCredentialStrategy(name string) (CredentialStrategy, error) {
	switch name {
	case "", "plaintext":
		return PlaintextCredentials{}, nil
	case "bcrypt":
		return BcryptCredentials{}, nil
	default:
		return nil, fmt.Errorf("unknown credential strategy %q", name)
	}
}
