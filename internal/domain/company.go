package domain

import (
	"time"

	"github.com/google/uuid"
)

// Company - компания-арендатор, владеет профилями сотрудников и перевозками
// RegistrationNumber генерируется системой один раз при создании и больше не меняется
type Company struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	RegistrationNumber string    `json:"registration_number"`
	CreatedAt          time.Time `json:"created_at"`
}

// Validate проверяет корректность данных компании
func (c *Company) Validate() error {
	if c.Name == "" {
		return ErrInvalidCompanyData
	}
	if c.RegistrationNumber == "" {
		return ErrInvalidCompanyData
	}
	return nil
}
