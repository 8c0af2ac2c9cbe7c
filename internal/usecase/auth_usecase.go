package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/country-explorer/internal/domain"
	"github.com/country-explorer/internal/domain/repository"
	"github.com/country-explorer/internal/pkg/errors"
	"github.com/country-explorer/internal/pkg/token"
	"github.com/country-explorer/internal/usecase/dto"
)

// AuthUseCase - account registration and login.
type AuthUseCase struct {
	userRepo repository.UserRepository
	tokens   *token.Manager
	logger   *zap.Logger
}

func NewAuthUseCase(
	userRepo repository.UserRepository,
	tokens *token.Manager,
	logger *zap.Logger,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

// Register creates an account and returns an already-active session: no
// separate login step is required after signup.
func (uc *AuthUseCase) Register(ctx context.Context, req dto.RegisterRequest) (*domain.Session, error) {
	email := normalizeEmail(req.Email)

	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.ErrDuplicateAccount
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		uc.logger.Error("Failed to hash password", zap.Error(err))
		return nil, errors.ErrInternalServer
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     strings.TrimSpace(req.Username),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	signed, err := uc.tokens.Generate(user.ID)
	if err != nil {
		uc.logger.Error("Failed to sign token", zap.Error(err))
		return nil, errors.ErrInternalServer
	}

	uc.logger.Info("User registered", zap.String("user_id", user.ID))

	return &domain.Session{Token: signed, User: user.Info()}, nil
}

// Login verifies credentials. Unknown account and wrong password produce the
// same error so responses do not reveal which one failed.
func (uc *AuthUseCase) Login(ctx context.Context, req dto.LoginRequest) (*domain.Session, error) {
	user, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.ErrInvalidCredentials
	}

	signed, err := uc.tokens.Generate(user.ID)
	if err != nil {
		uc.logger.Error("Failed to sign token", zap.Error(err))
		return nil, errors.ErrInternalServer
	}

	uc.logger.Info("User logged in", zap.String("user_id", user.ID))

	return &domain.Session{Token: signed, User: user.Info()}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
