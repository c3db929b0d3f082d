package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/classtrack/attendance-api/internal/models"
	appErrors "github.com/classtrack/attendance-api/pkg/errors"
)

type authUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *models.User) error
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	TokenSecret string
	TokenExpiry time.Duration
}

// RegisterRequest holds payload for account registration.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest holds login credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the successful login payload: the user projection the
// desktop shell stores, plus a bearer token for subsequent calls.
type LoginResponse struct {
	models.UserInfo
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// AuthService provides registration and login gating.
type AuthService struct {
	repo      authUserRepository
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authUserRepository, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.TokenExpiry <= 0 {
		config.TokenExpiry = 24 * time.Hour
	}
	return &AuthService{repo: repo, validator: validate, logger: logger, config: config, now: time.Now}
}

// Register creates a new account with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*models.IDResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}

	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to check email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{Name: req.Name, Email: req.Email, PasswordHash: string(hash)}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to create user")
	}

	s.logger.Info("user registered", zap.Int64("user_id", user.ID))
	return &models.IDResult{ID: user.ID}, nil
}

// Login verifies credentials and issues a session token. An unknown email
// and a wrong password fail differently on purpose; the login screen shows
// the distinction.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "User not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to fetch user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "Invalid password")
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create token")
	}

	return &LoginResponse{
		UserInfo:  models.UserInfo{ID: user.ID, Name: user.Name, Email: user.Email},
		Token:     token,
		ExpiresIn: int64(s.config.TokenExpiry.Seconds()),
	}, nil
}

type sessionClaims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"uid"`
	Email  string `json:"email"`
}

func (s *AuthService) generateToken(user *models.User) (string, error) {
	now := s.now().UTC()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "attendance-api",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TokenExpiry)),
		},
		UserID: user.ID,
		Email:  user.Email,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.TokenSecret))
}
