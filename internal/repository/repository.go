package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/greenpath/logistics/internal/domain"
)

// ShipmentFilter - необязательные фильтры и сортировка списка перевозок
// Поле OrderBy ограничено белым списком колонок на уровне реализации
type ShipmentFilter struct {
	VehicleID   *uuid.UUID // Точное совпадение по типу транспорта
	Origin      string     // Точное совпадение (без учета регистра)
	Destination string     // Точное совпадение (без учета регистра)
	Search      string     // Подстрока в origin/destination/id
	OrderBy     string     // created_at | carbon_footprint | weight
	Desc        bool
	Limit       int
	Offset      int
}

// UserRepository определяет методы для работы с учетными записями
type UserRepository interface {
	// Create создает новую учетную запись
	Create(ctx context.Context, user *domain.User) error

	// GetByID возвращает учетную запись по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail возвращает учетную запись по email
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// ProfileRepository определяет методы для работы с профилями
type ProfileRepository interface {
	// Create создает профиль (ровно один на учетную запись)
	Create(ctx context.Context, profile *domain.Profile) error

	// GetByUserID возвращает профиль по ID учетной записи
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)

	// Update обновляет данные профиля
	Update(ctx context.Context, profile *domain.Profile) error
}

// CompanyRepository определяет методы для работы с компаниями
type CompanyRepository interface {
	// Create создает компанию; нарушение уникальности registration_number
	// возвращается как domain.ErrCompanyAlreadyExists
	Create(ctx context.Context, company *domain.Company) error

	// GetByID возвращает компанию по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Company, error)

	// List возвращает список компаний с пагинацией
	List(ctx context.Context, limit, offset int) ([]*domain.Company, error)
}

// VehicleRepository определяет методы для работы со справочником транспорта
type VehicleRepository interface {
	// Create создает тип транспорта; имя уникально
	Create(ctx context.Context, vehicle *domain.Vehicle) error

	// GetByID возвращает тип транспорта по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error)

	// GetByName возвращает тип транспорта по имени
	GetByName(ctx context.Context, name string) (*domain.Vehicle, error)

	// List возвращает список типов транспорта с пагинацией
	List(ctx context.Context, limit, offset int) ([]*domain.Vehicle, error)

	// Delete удаляет тип транспорта; пока на него ссылается хотя бы одна
	// перевозка, возвращается domain.ErrVehicleInUse
	Delete(ctx context.Context, id uuid.UUID) error
}

// ShipmentRepository определяет методы для работы с перевозками
type ShipmentRepository interface {
	// Create создает перевозку
	Create(ctx context.Context, shipment *domain.Shipment) error

	// GetByID возвращает перевозку по ID вместе со связанным Vehicle
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Shipment, error)

	// List возвращает перевозки в рамках scope с учетом фильтров
	List(ctx context.Context, scope domain.ShipmentScope, filter ShipmentFilter) ([]*domain.Shipment, error)

	// Update обновляет изменяемые поля перевозки (кроме производных и created_at)
	Update(ctx context.Context, shipment *domain.Shipment) error

	// UpdateMetrics записывает ровно два производных поля, не трогая остальные
	// Это единственная точка записи distance/carbon_footprint после создания
	UpdateMetrics(ctx context.Context, id uuid.UUID, distance, carbonFootprint decimal.Decimal) error

	// Delete удаляет перевозку
	Delete(ctx context.Context, id uuid.UUID) error
}
