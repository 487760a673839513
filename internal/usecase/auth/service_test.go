package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/greenpath/logistics/internal/domain"
	"github.com/greenpath/logistics/internal/pkg/hash"
	"github.com/greenpath/logistics/internal/pkg/jwt"
	"github.com/greenpath/logistics/internal/pkg/logger"
)

// MockUserRepository - мок репозитория учетных записей
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockProfileRepository - мок репозитория профилей
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func newAuthService(userRepo *MockUserRepository, profileRepo *MockProfileRepository) *Service {
	tokenService := jwt.NewTokenService("test-secret", 15*time.Minute, 24*time.Hour)
	return NewService(userRepo, profileRepo, tokenService, logger.NewNoop())
}

func TestService_Register(t *testing.T) {
	t.Run("учетная запись создается вместе с профилем", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		profileRepo := new(MockProfileRepository)
		service := newAuthService(userRepo, profileRepo)

		userRepo.On("GetByEmail", mock.Anything, "driver@example.com").
			Return(nil, domain.ErrUserNotFound)
		userRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).
			Return(nil)
		profileRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Profile) bool {
			return p.Role == domain.RoleDriver && p.CompanyID == nil
		})).Return(nil)

		account, err := service.Register(context.Background(), &RegisterRequest{
			Email:    "driver@example.com",
			Password: "password123",
			FullName: "Test Driver",
			Role:     domain.RoleDriver,
		})

		assert.NoError(t, err)
		assert.Equal(t, "driver@example.com", account.User.Email)
		assert.Equal(t, domain.RoleDriver, account.Profile.Role)
		assert.Equal(t, account.User.ID, account.Profile.UserID)
		assert.Empty(t, account.User.PasswordHash)
		profileRepo.AssertExpectations(t)
	})

	t.Run("роль по умолчанию - client", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		profileRepo := new(MockProfileRepository)
		service := newAuthService(userRepo, profileRepo)

		userRepo.On("GetByEmail", mock.Anything, mock.Anything).
			Return(nil, domain.ErrUserNotFound)
		userRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		profileRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Profile) bool {
			return p.Role == domain.RoleClient
		})).Return(nil)

		account, err := service.Register(context.Background(), &RegisterRequest{
			Email:    "someone@example.com",
			Password: "password123",
			FullName: "Someone",
		})

		assert.NoError(t, err)
		assert.Equal(t, domain.RoleClient, account.Profile.Role)
	})

	t.Run("недопустимая роль отклоняется", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		profileRepo := new(MockProfileRepository)
		service := newAuthService(userRepo, profileRepo)

		userRepo.On("GetByEmail", mock.Anything, mock.Anything).
			Return(nil, domain.ErrUserNotFound)

		_, err := service.Register(context.Background(), &RegisterRequest{
			Email:    "admin@example.com",
			Password: "password123",
			FullName: "Wannabe Admin",
			Role:     domain.Role("superadmin"),
		})

		assert.ErrorIs(t, err, domain.ErrInvalidRole)
		userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("короткий пароль", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		profileRepo := new(MockProfileRepository)
		service := newAuthService(userRepo, profileRepo)

		_, err := service.Register(context.Background(), &RegisterRequest{
			Email:    "short@example.com",
			Password: "1234567",
			FullName: "Short Password",
		})

		assert.ErrorIs(t, err, domain.ErrInvalidPassword)
		userRepo.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	})

	t.Run("email уже занят", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		profileRepo := new(MockProfileRepository)
		service := newAuthService(userRepo, profileRepo)

		userRepo.On("GetByEmail", mock.Anything, "existing@example.com").
			Return(&domain.User{Email: "existing@example.com"}, nil)

		_, err := service.Register(context.Background(), &RegisterRequest{
			Email:    "existing@example.com",
			Password: "password123",
			FullName: "Existing",
		})

		assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
	})
}

func TestService_Login(t *testing.T) {
	password := "password123"
	passwordHash, _ := hash.HashPassword(password)

	t.Run("успешный вход возвращает пару токенов", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		profileRepo := new(MockProfileRepository)
		service := newAuthService(userRepo, profileRepo)

		userRepo.On("GetByEmail", mock.Anything, "client@example.com").
			Return(&domain.User{
				ID:           uuid.New(),
				Email:        "client@example.com",
				PasswordHash: passwordHash,
			}, nil)

		resp, err := service.Login(context.Background(), &LoginRequest{
			Email:    "client@example.com",
			Password: password,
		})

		assert.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.Empty(t, resp.User.PasswordHash)
	})

	t.Run("неверный пароль", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		profileRepo := new(MockProfileRepository)
		service := newAuthService(userRepo, profileRepo)

		userRepo.On("GetByEmail", mock.Anything, "client@example.com").
			Return(&domain.User{
				ID:           uuid.New(),
				Email:        "client@example.com",
				PasswordHash: passwordHash,
			}, nil)

		_, err := service.Login(context.Background(), &LoginRequest{
			Email:    "client@example.com",
			Password: "wrong-password",
		})

		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("несуществующий пользователь неотличим от неверного пароля", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		profileRepo := new(MockProfileRepository)
		service := newAuthService(userRepo, profileRepo)

		userRepo.On("GetByEmail", mock.Anything, "ghost@example.com").
			Return(nil, domain.ErrUserNotFound)

		_, err := service.Login(context.Background(), &LoginRequest{
			Email:    "ghost@example.com",
			Password: password,
		})

		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}

func TestService_GetAccount(t *testing.T) {
	userID := uuid.New()

	t.Run("учетная запись без профиля не ошибка", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		profileRepo := new(MockProfileRepository)
		service := newAuthService(userRepo, profileRepo)

		userRepo.On("GetByID", mock.Anything, userID).
			Return(&domain.User{ID: userID, Email: "legacy@example.com"}, nil)
		profileRepo.On("GetByUserID", mock.Anything, userID).
			Return(nil, domain.ErrProfileNotFound)

		account, err := service.GetAccount(context.Background(), userID)

		assert.NoError(t, err)
		assert.NotNil(t, account.User)
		assert.Nil(t, account.Profile)
	})
}
