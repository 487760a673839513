package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validShipment() *Shipment {
	return &Shipment{
		ID:          uuid.New(),
		Origin:      "Paris",
		Destination: "Berlin",
		Weight:      decimal.NewFromInt(2),
		VehicleID:   uuid.New(),
		OwnerID:     uuid.New(),
	}
}

func TestShipment_Validate(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*Shipment)
		expectedErr error
	}{
		{
			name:        "корректная перевозка",
			modify:      func(s *Shipment) {},
			expectedErr: nil,
		},
		{
			name: "пустой origin",
			modify: func(s *Shipment) {
				s.Origin = ""
			},
			expectedErr: ErrInvalidShipmentData,
		},
		{
			name: "пустой destination",
			modify: func(s *Shipment) {
				s.Destination = ""
			},
			expectedErr: ErrInvalidShipmentData,
		},
		{
			name: "origin совпадает с destination",
			modify: func(s *Shipment) {
				s.Origin = "Paris"
				s.Destination = "Paris"
			},
			expectedErr: ErrSameOriginDestination,
		},
		{
			name: "origin совпадает с destination без учета регистра и пробелов",
			modify: func(s *Shipment) {
				s.Origin = "Paris"
				s.Destination = "  paris "
			},
			expectedErr: ErrSameOriginDestination,
		},
		{
			name: "нулевой вес",
			modify: func(s *Shipment) {
				s.Weight = decimal.Zero
			},
			expectedErr: ErrInvalidWeight,
		},
		{
			name: "отрицательный вес",
			modify: func(s *Shipment) {
				s.Weight = decimal.NewFromInt(-5)
			},
			expectedErr: ErrInvalidWeight,
		},
		{
			name: "дробный вес валиден",
			modify: func(s *Shipment) {
				s.Weight = decimal.RequireFromString("0.001")
			},
			expectedErr: nil,
		},
		{
			name: "отрицательная дистанция",
			modify: func(s *Shipment) {
				d := decimal.NewFromInt(-10)
				s.Distance = &d
			},
			expectedErr: ErrInvalidDistance,
		},
		{
			// Ноль пишет воркер при недоступном маршруте - такая строка
			// должна оставаться редактируемой
			name: "нулевая дистанция валидна",
			modify: func(s *Shipment) {
				s.Distance = &decimal.Zero
			},
			expectedErr: nil,
		},
		{
			name: "не указан vehicle",
			modify: func(s *Shipment) {
				s.VehicleID = uuid.Nil
			},
			expectedErr: ErrInvalidShipmentData,
		},
		{
			name: "не указан владелец",
			modify: func(s *Shipment) {
				s.OwnerID = uuid.Nil
			},
			expectedErr: ErrInvalidShipmentData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validShipment()
			tt.modify(s)

			err := s.Validate()

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestShipment_NeedsMetrics(t *testing.T) {
	distance := decimal.NewFromInt(500)
	footprint := decimal.NewFromInt(62)

	tests := []struct {
		name     string
		distance *decimal.Decimal
		foot     *decimal.Decimal
		expected bool
	}{
		{"новая перевозка без метрик", nil, nil, true},
		{"дистанция есть, footprint нет", &distance, nil, true},
		{"footprint есть, дистанции нет", nil, &footprint, true},
		{"метрики рассчитаны", &distance, &footprint, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validShipment()
			s.Distance = tt.distance
			s.CarbonFootprint = tt.foot

			assert.Equal(t, tt.expected, s.NeedsMetrics())
		})
	}
}
