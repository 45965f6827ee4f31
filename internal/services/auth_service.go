package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hmusa/medcatalog-backend/internal/apperr"
	"github.com/hmusa/medcatalog-backend/internal/models"
	"github.com/hmusa/medcatalog-backend/internal/repositories"
	"github.com/hmusa/medcatalog-backend/pkg/utils"
)

// AuthService owns registration and login against the credential store.
type AuthService struct {
	users  repositories.UserRepository
	tokens *TokenService
}

func NewAuthService(users repositories.UserRepository, tokens *TokenService) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register creates an account and returns it with a fresh token. The
// email is the unique key; the password is stored only as a hash.
func (s *AuthService) Register(ctx context.Context, name, email, password, role string) (*models.User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" || email == "" || password == "" {
		return nil, "", apperr.Validation("name, email, and password are required")
	}
	if role == "" {
		role = models.RoleUser
	}
	if !models.ValidRole(role) {
		return nil, "", apperr.Validation("role must be Admin or User")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		ID:           uuid.New(),
		CreatedAt:    time.Now(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID.String(), user.Role)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Login verifies credentials and returns the account with a fresh
// token. The same error covers unknown email and wrong password so the
// response never reveals which accounts exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", apperr.Validation("email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", apperr.Auth("invalid credentials")
	}

	ok, err := utils.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return nil, "", apperr.Auth("invalid credentials")
	}

	token, err := s.tokens.Issue(user.ID.String(), user.Role)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}
