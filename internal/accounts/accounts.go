// Package accounts registers users and exchanges credentials for tokens.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/ahsanfayaz52/noteservice/internal/auth"
	"github.com/ahsanfayaz52/noteservice/internal/models"
	"github.com/ahsanfayaz52/noteservice/internal/store"
	"github.com/ahsanfayaz52/noteservice/internal/validate"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
)

type UserStore interface {
	Create(ctx context.Context, email, passwordHash, role string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id int64) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

type Service struct {
	users       UserStore
	jwt         *auth.JWTService
	adminEmails []string
	cost        int
}

func NewService(users UserStore, jwtService *auth.JWTService, adminEmails []string) *Service {
	admins := make([]string, 0, len(adminEmails))
	for _, e := range adminEmails {
		admins = append(admins, normalizeEmail(e))
	}
	return &Service{users: users, jwt: jwtService, adminEmails: admins, cost: bcrypt.DefaultCost}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Register(ctx context.Context, email, password string) (models.User, error) {
	email = normalizeEmail(email)
	verr := &validate.ValidationError{}
	if !validate.ValidateEmail(email) {
		verr.Add("email", "Invalid email address")
	}
	if !validate.ValidatePassword(password) {
		verr.Add("password", fmt.Sprintf(
			"Password must be at least %d characters long and contain at least one uppercase letter and one digit",
			validate.MinPasswordLength))
	}
	if err := verr.Err(); err != nil {
		return models.User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	role := models.RoleUser
	if slices.Contains(s.adminEmails, email) {
		role = models.RoleAdmin
	}

	u, err := s.users.Create(ctx, email, string(hashed), role)
	if errors.Is(err, store.ErrDuplicateEmail) {
		return models.User{}, ErrEmailTaken
	}
	return u, err
}

// Login checks the credentials and returns a signed token for the user.
// Unknown emails and wrong passwords both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (string, models.User, error) {
	u, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return "", models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", models.User{}, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(u.ID, u.Role)
	if err != nil {
		return "", models.User{}, err
	}
	return token, u, nil
}

// Profile returns the user behind an authenticated identity.
func (s *Service) Profile(ctx context.Context, id int64) (models.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}
