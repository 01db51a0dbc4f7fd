package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"solarline/solar-portal-backend/internal/apperr"
	"solarline/solar-portal-backend/internal/auth"
	"solarline/solar-portal-backend/pkg/workflow"
)

// Service provides account creation and credential verification.
type Service struct {
	repo     Repository
	secret   string
	tokenTTL time.Duration
	logger   *zap.Logger
}

func NewService(repo Repository, secret string, tokenTTL time.Duration, logger *zap.Logger) *Service {
	return &Service{repo: repo, secret: secret, tokenTTL: tokenTTL, logger: logger}
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
	Role  workflow.Role      `json:"role"`
	Token string             `json:"token"`
}

// Login verifies credentials and issues a token. A missing account and
// a wrong password report the same error.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, apperr.InvalidCredentials()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperr.InvalidCredentials()
	}

	token, err := auth.NewToken(s.secret, s.tokenTTL, auth.Actor{ID: user.ID, Role: user.Role})
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("User logged in",
		zap.String("user_id", user.ID.Hex()),
		zap.String("role", string(user.Role)))

	return &LoginResult{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
		Token: token,
	}, nil
}

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	Name     string        `json:"name"`
	Email    string        `json:"email"`
	Password string        `json:"password"`
	Role     workflow.Role `json:"role"`
	Phone    string        `json:"phone"`
}

// Register creates an account. Only team leaders may register users.
func (s *Service) Register(ctx context.Context, actor auth.Actor, req RegisterRequest) (*User, error) {
	if !workflow.CanManageUsers(actor.Role) {
		return nil, apperr.Forbidden("only team leaders can register users")
	}
	if err := validateRegistration(req); err != nil {
		return nil, err
	}

	user := &User{
		Name:  strings.TrimSpace(req.Name),
		Email: strings.ToLower(strings.TrimSpace(req.Email)),
		Role:  req.Role,
		Phone: strings.TrimSpace(req.Phone),
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hash)

	if err := s.repo.Create(ctx, user); err != nil {
		if err == ErrDuplicateEmail {
			return nil, apperr.Invalid("email", "already exists")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered",
		zap.String("user_id", user.ID.Hex()),
		zap.String("role", string(user.Role)),
		zap.String("registered_by", actor.ID.Hex()))

	return user, nil
}

func validateRegistration(req RegisterRequest) error {
	fields := map[string]string{}
	if strings.TrimSpace(req.Name) == "" {
		fields["name"] = "required"
	}
	if strings.TrimSpace(req.Email) == "" {
		fields["email"] = "required"
	}
	if len(req.Password) < 6 {
		fields["password"] = "must be at least 6 characters"
	}
	if !workflow.ValidRole(req.Role) {
		fields["role"] = "must be one of team_leader, assistant, technical_officer"
	}
	if len(fields) > 0 {
		return &apperr.ValidationError{Fields: fields}
	}
	return nil
}
