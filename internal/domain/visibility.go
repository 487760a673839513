package domain

import "github.com/google/uuid"

// ShipmentScope - предикат видимости перевозок для конкретного актора
// Пустые поля означают отсутствие ограничения по этому измерению
type ShipmentScope struct {
	CompanyID        *uuid.UUID // Перевозки только этой компании
	OwnerID          *uuid.UUID // Перевозки только этого владельца
	UnaffiliatedOnly bool       // Только перевозки без компании
	None             bool       // Пустая область видимости: не видно ничего
}

// ScopeFor вычисляет область видимости перевозок для актора
// Таблица ролей:
//
//	manager - все перевозки своей компании
//	driver  - перевозки своей компании, принадлежащие самому водителю
//	client  - собственные перевозки без компании
//
// Актор без профиля обрабатывается как клиент без компании (защитный случай:
// профиль создается вместе с учетной записью и отсутствовать не должен).
// Неизвестная роль - ошибка, а не молчаливый дефолт
func ScopeFor(actorID uuid.UUID, profile *Profile) (ShipmentScope, error) {
	if actorID == uuid.Nil {
		return ShipmentScope{None: true}, ErrUnauthorized
	}

	if profile == nil {
		owner := actorID
		return ShipmentScope{OwnerID: &owner, UnaffiliatedOnly: true}, nil
	}

	switch profile.Role {
	case RoleManager:
		if profile.CompanyID == nil {
			// Менеджер без компании не видит ничего
			return ShipmentScope{None: true}, nil
		}
		return ShipmentScope{CompanyID: profile.CompanyID}, nil

	case RoleDriver:
		if profile.CompanyID == nil {
			return ShipmentScope{None: true}, nil
		}
		owner := actorID
		return ShipmentScope{CompanyID: profile.CompanyID, OwnerID: &owner}, nil

	case RoleClient:
		owner := actorID
		return ShipmentScope{OwnerID: &owner, UnaffiliatedOnly: true}, nil

	default:
		return ShipmentScope{None: true}, ErrInvalidRole
	}
}

// Attribute вычисляет владельца и компанию для новой перевозки актора
// manager/driver создают перевозки от имени своей компании, client - без компании
func Attribute(actorID uuid.UUID, profile *Profile) (ownerID uuid.UUID, companyID *uuid.UUID, err error) {
	if actorID == uuid.Nil {
		return uuid.Nil, nil, ErrUnauthorized
	}

	if profile == nil {
		return actorID, nil, nil
	}

	switch profile.Role {
	case RoleManager, RoleDriver:
		return actorID, profile.CompanyID, nil
	case RoleClient:
		return actorID, nil, nil
	default:
		return uuid.Nil, nil, ErrInvalidRole
	}
}

// Matches проверяет, попадает ли перевозка в область видимости
// Используется для точечных чтений; списки фильтруются на уровне SQL
func (sc ShipmentScope) Matches(s *Shipment) bool {
	if sc.None {
		return false
	}
	if sc.CompanyID != nil {
		if s.CompanyID == nil || *s.CompanyID != *sc.CompanyID {
			return false
		}
	}
	if sc.OwnerID != nil && s.OwnerID != *sc.OwnerID {
		return false
	}
	if sc.UnaffiliatedOnly && s.CompanyID != nil {
		return false
	}
	return true
}

// CanMutate проверяет право актора изменять или удалять перевозку
// Мутация разрешена только владельцу; чтение в рамках scope этим не ограничено
func CanMutate(actorID uuid.UUID, s *Shipment) bool {
	return actorID != uuid.Nil && s.OwnerID == actorID
}
