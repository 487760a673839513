package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User - учетная запись актора системы
// Роль и принадлежность к компании живут в Profile, не здесь
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Никогда не возвращаем в JSON
	FullName     string    `json:"full_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Validate проверяет корректность данных пользователя
func (u *User) Validate() error {
	if u.Email == "" || !strings.Contains(u.Email, "@") {
		return ErrInvalidEmail
	}
	if u.FullName == "" {
		return ErrInvalidUserData
	}
	return nil
}
