package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role представляет роль профиля в системе
// Набор закрыт: новая роль требует явного изменения политики видимости
type Role string

const (
	RoleDriver  Role = "driver"  // Водитель компании
	RoleManager Role = "manager" // Менеджер компании
	RoleClient  Role = "client"  // Клиент без компании
)

// Valid проверяет, что роль входит в фиксированный набор
func (r Role) Valid() bool {
	return r == RoleDriver || r == RoleManager || r == RoleClient
}

// Profile - профиль актора: роль и принадлежность к компании
// Создается вместе с учетной записью (один-к-одному)
// Смена роли - административное действие, API для нее нет
type Profile struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	CompanyID *uuid.UUID `json:"company_id,omitempty"` // NULL для неаффилированных акторов
	Role      Role       `json:"role"`
	Phone     string     `json:"phone,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Validate проверяет корректность данных профиля
func (p *Profile) Validate() error {
	if p.UserID == uuid.Nil {
		return ErrInvalidUserData
	}
	if !p.Role.Valid() {
		return ErrInvalidRole
	}
	return nil
}
