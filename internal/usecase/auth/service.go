package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/greenpath/logistics/internal/domain"
	"github.com/greenpath/logistics/internal/pkg/hash"
	"github.com/greenpath/logistics/internal/pkg/jwt"
	"github.com/greenpath/logistics/internal/pkg/logger"
	"github.com/greenpath/logistics/internal/repository"
)

// RegisterRequest - запрос на регистрацию
type RegisterRequest struct {
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=8"`
	FullName string      `json:"full_name" validate:"required"`
	Phone    string      `json:"phone,omitempty"`
	Role     domain.Role `json:"role,omitempty"`
}

// LoginRequest - запрос на вход
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse - ответ на вход
type LoginResponse struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresAt    string       `json:"expires_at"`
}

// Account - учетная запись вместе с профилем
type Account struct {
	User    *domain.User    `json:"user"`
	Profile *domain.Profile `json:"profile"`
}

// Service содержит бизнес-логику аутентификации и жизненного цикла учетных записей
type Service struct {
	userRepo     repository.UserRepository
	profileRepo  repository.ProfileRepository
	tokenService *jwt.TokenService
	logger       logger.Logger
}

// NewService создает новый экземпляр AuthService
func NewService(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	tokenService *jwt.TokenService,
	logger logger.Logger,
) *Service {
	return &Service{
		userRepo:     userRepo,
		profileRepo:  profileRepo,
		tokenService: tokenService,
		logger:       logger,
	}
}

// Register регистрирует учетную запись и сразу создает ее профиль
// Создание профиля - явный шаг этого workflow, а не скрытый хук:
// каждая учетная запись выходит отсюда с ровно одним профилем
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*Account, error) {
	s.logger.Info("Registering new user", map[string]interface{}{
		"email": req.Email,
	})

	if len(req.Password) < 8 {
		return nil, domain.ErrInvalidPassword
	}

	// Проверяем, что пользователь с таким email еще не существует
	existingUser, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	if existingUser != nil {
		s.logger.Warn("User already exists", map[string]interface{}{
			"email": req.Email,
		})
		return nil, domain.ErrUserAlreadyExists
	}

	// Хешируем пароль
	passwordHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:        req.Email,
		PasswordHash: passwordHash,
		FullName:     req.FullName,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	// Роль по умолчанию - client; водителем/менеджером становятся
	// при явной регистрации, компанию назначает менеджер
	role := req.Role
	if role == "" {
		role = domain.RoleClient
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("Failed to create user", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	profile := &domain.Profile{
		UserID: user.ID,
		Role:   role,
		Phone:  req.Phone,
	}

	if err := s.profileRepo.Create(ctx, profile); err != nil {
		s.logger.Error("Failed to create profile", map[string]interface{}{
			"user_id": user.ID,
			"error":   err.Error(),
		})
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	s.logger.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    profile.Role,
	})

	// Не возвращаем password_hash
	user.PasswordHash = ""

	return &Account{User: user, Profile: profile}, nil
}

// Login аутентифицирует пользователя и возвращает JWT токены
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	s.logger.Info("User login attempt", map[string]interface{}{
		"email": req.Email,
	})

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Warn("Login failed: user not found", map[string]interface{}{
				"email": req.Email,
			})
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Warn("Login failed: invalid password", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, domain.ErrInvalidCredentials
	}

	tokenPair, err := s.tokenService.GenerateTokenPair(user)
	if err != nil {
		s.logger.Error("Failed to generate tokens", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	s.logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
	})

	// Не возвращаем password_hash
	user.PasswordHash = ""

	return &LoginResponse{
		User:         user,
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresAt:    tokenPair.ExpiresAt.Format(time.RFC3339),
	}, nil
}

// GetAccount возвращает учетную запись с профилем
func (s *Service) GetAccount(ctx context.Context, userID uuid.UUID) (*Account, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrProfileNotFound) {
		return nil, err
	}

	return &Account{User: user, Profile: profile}, nil
}
