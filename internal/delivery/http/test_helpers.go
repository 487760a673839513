package http

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/greenpath/logistics/internal/delivery/http/middleware"
	"github.com/greenpath/logistics/internal/domain"
	"github.com/greenpath/logistics/internal/pkg/jwt"
)

// CreateAuthContext создает контекст с claims для тестирования handlers
func CreateAuthContext(userID uuid.UUID, email string) context.Context {
	claims := &jwt.Claims{
		UserID: userID,
		Email:  email,
	}
	return context.WithValue(context.Background(), middleware.UserClaimsKey, claims)
}

// CreateTestVehicle создает тестовый тип транспорта
func CreateTestVehicle(id uuid.UUID, name string, factor string) *domain.Vehicle {
	return &domain.Vehicle{
		ID:             id,
		Name:           name,
		EmissionFactor: decimal.RequireFromString(factor),
	}
}

// CreateTestShipment создает тестовую перевозку
func CreateTestShipment(id, ownerID, vehicleID uuid.UUID) *domain.Shipment {
	return &domain.Shipment{
		ID:          id,
		Origin:      "Paris",
		Destination: "Berlin",
		Weight:      decimal.NewFromInt(2),
		VehicleID:   vehicleID,
		OwnerID:     ownerID,
	}
}
