package company

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/greenpath/logistics/internal/domain"
	"github.com/greenpath/logistics/internal/pkg/logger"
	"github.com/greenpath/logistics/internal/repository"
)

// Коллизии 10-значного регистрационного номера крайне маловероятны,
// но уникальный индекс может сработать - тогда пробуем новый номер
const maxRegistrationAttempts = 5

// CreateCompanyRequest - запрос на создание компании
type CreateCompanyRequest struct {
	Name string `json:"name" validate:"required"`
}

// AddEmployeeRequest - запрос на добавление сотрудника в компанию
type AddEmployeeRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
}

// Service содержит бизнес-логику работы с компаниями
type Service struct {
	companyRepo repository.CompanyRepository
	profileRepo repository.ProfileRepository
	logger      logger.Logger
}

// NewService создает новый экземпляр CompanyService
func NewService(
	companyRepo repository.CompanyRepository,
	profileRepo repository.ProfileRepository,
	logger logger.Logger,
) *Service {
	return &Service{
		companyRepo: companyRepo,
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// CreateCompany создает компанию и делает создателя ее менеджером
// Регистрационный номер назначается здесь ровно один раз и далее
// никогда не перегенерируется
func (s *Service) CreateCompany(ctx context.Context, actorID uuid.UUID, req *CreateCompanyRequest) (*domain.Company, error) {
	s.logger.Info("Creating new company", map[string]interface{}{
		"name":     req.Name,
		"actor_id": actorID,
	})

	profile, err := s.profileRepo.GetByUserID(ctx, actorID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, fmt.Errorf("failed to get actor profile: %w", err)
	}

	// Актор, уже состоящий в компании, не создает вторую
	if profile.CompanyID != nil {
		return nil, domain.ErrForbidden
	}

	var company *domain.Company
	for attempt := 0; attempt < maxRegistrationAttempts; attempt++ {
		company = &domain.Company{
			Name:               req.Name,
			RegistrationNumber: newRegistrationNumber(),
		}

		if err := company.Validate(); err != nil {
			return nil, err
		}

		err = s.companyRepo.Create(ctx, company)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrCompanyAlreadyExists) {
			s.logger.Error("Failed to create company", map[string]interface{}{
				"error": err.Error(),
			})
			return nil, fmt.Errorf("failed to create company: %w", err)
		}
		company = nil
	}

	if company == nil {
		return nil, fmt.Errorf("failed to assign registration number: %w", domain.ErrCompanyAlreadyExists)
	}

	// Создатель становится менеджером своей компании
	profile.CompanyID = &company.ID
	profile.Role = domain.RoleManager
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to attach creator profile: %w", err)
	}

	s.logger.Info("Company created successfully", map[string]interface{}{
		"company_id":          company.ID,
		"registration_number": company.RegistrationNumber,
	})

	return company, nil
}

// GetCompanyByID возвращает компанию по ID
func (s *Service) GetCompanyByID(ctx context.Context, id uuid.UUID) (*domain.Company, error) {
	return s.companyRepo.GetByID(ctx, id)
}

// ListCompanies возвращает список компаний
func (s *Service) ListCompanies(ctx context.Context, limit, offset int) ([]*domain.Company, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.companyRepo.List(ctx, limit, offset)
}

// AddEmployee добавляет сотрудника в компанию
// Разрешено только менеджеру этой же компании; любая другая роль
// получает отказ авторизации, а не ошибку данных
func (s *Service) AddEmployee(ctx context.Context, actorID, companyID uuid.UUID, req *AddEmployeeRequest) (*domain.Profile, error) {
	actorProfile, err := s.profileRepo.GetByUserID(ctx, actorID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, fmt.Errorf("failed to get actor profile: %w", err)
	}

	if actorProfile.Role != domain.RoleManager {
		s.logger.Warn("Non-manager tried to add employee", map[string]interface{}{
			"actor_id": actorID,
			"role":     actorProfile.Role,
		})
		return nil, domain.ErrForbidden
	}

	if actorProfile.CompanyID == nil || *actorProfile.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	employee, err := s.profileRepo.GetByUserID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	employee.CompanyID = &companyID
	if err := s.profileRepo.Update(ctx, employee); err != nil {
		return nil, fmt.Errorf("failed to update employee profile: %w", err)
	}

	s.logger.Info("Employee added to company", map[string]interface{}{
		"company_id": companyID,
		"user_id":    req.UserID,
	})

	return employee, nil
}

// newRegistrationNumber генерирует регистрационный номер вида REG-XXXXXXXXXX
func newRegistrationNumber() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return "REG-" + raw[:10]
}
