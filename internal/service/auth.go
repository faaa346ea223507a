package service

import (
	"context"
	"errors"
	"fmt"

	"garrison/internal/model"

	"gorm.io/gorm"
)

var ErrBadCredentials = errors.New("wrong username or password")

type AuthService struct {
	db    *gorm.DB
	creds CredentialStrategy
}

func NewAuthService(db *gorm.DB, creds CredentialStrategy) *AuthService {
	return &AuthService{db: db, creds: creds}
}

// Login finds the account by exact username and checks the password with
// the configured strategy. Unknown user and wrong password are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.Account, error) {
	var m model.Account
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	if !s.creds.Verify(m.Password, password) {
		return nil, ErrBadCredentials
	}
	return &m, nil
}
