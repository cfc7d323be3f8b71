package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/pkg/crypto"
	apperrors "github.com/taskdeck/taskdeck/pkg/errors"
)

// LoginService verifies credentials against the user store and issues tokens.
type LoginService struct {
	db  *gorm.DB
	jwt *JWTService
}

// NewLoginService constructs a LoginService.
func NewLoginService(db *gorm.DB, jwt *JWTService) (*LoginService, error) {
	if db == nil {
		return nil, errors.New("login service: db is required")
	}
	if jwt == nil {
		return nil, errors.New("login service: jwt service is required")
	}
	return &LoginService{db: db, jwt: jwt}, nil
}

// Login validates the email/password pair and returns a signed access token.
// Unknown email and wrong password share a single failure value so that
// account existence cannot be probed through the response.
func (s *LoginService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", apperrors.NewBadRequest("Email and Password is Required")
	}

	var user models.User
	err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", apperrors.ErrUnauthorized
	}
	if err != nil {
		return "", fmt.Errorf("login service: query user: %w", err)
	}

	if !crypto.VerifyPassword(user.Password, password) {
		return "", apperrors.ErrUnauthorized
	}

	token, err := s.jwt.GenerateAccessToken(user.Email)
	if err != nil {
		return "", fmt.Errorf("login service: issue token: %w", err)
	}

	return token, nil
}
