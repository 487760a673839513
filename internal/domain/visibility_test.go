package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestScopeFor(t *testing.T) {
	actorID := uuid.New()
	companyID := uuid.New()

	tests := []struct {
		name        string
		actorID     uuid.UUID
		profile     *Profile
		expectedErr error
		check       func(*testing.T, ShipmentScope)
	}{
		{
			name:    "менеджер видит все перевозки своей компании",
			actorID: actorID,
			profile: &Profile{UserID: actorID, CompanyID: &companyID, Role: RoleManager},
			check: func(t *testing.T, sc ShipmentScope) {
				assert.False(t, sc.None)
				assert.Equal(t, companyID, *sc.CompanyID)
				assert.Nil(t, sc.OwnerID)
				assert.False(t, sc.UnaffiliatedOnly)
			},
		},
		{
			name:    "водитель видит только свои перевозки внутри компании",
			actorID: actorID,
			profile: &Profile{UserID: actorID, CompanyID: &companyID, Role: RoleDriver},
			check: func(t *testing.T, sc ShipmentScope) {
				assert.False(t, sc.None)
				assert.Equal(t, companyID, *sc.CompanyID)
				assert.Equal(t, actorID, *sc.OwnerID)
			},
		},
		{
			name:    "клиент видит только собственные перевозки без компании",
			actorID: actorID,
			profile: &Profile{UserID: actorID, Role: RoleClient},
			check: func(t *testing.T, sc ShipmentScope) {
				assert.False(t, sc.None)
				assert.Nil(t, sc.CompanyID)
				assert.Equal(t, actorID, *sc.OwnerID)
				assert.True(t, sc.UnaffiliatedOnly)
			},
		},
		{
			name:    "актор без профиля обрабатывается как клиент",
			actorID: actorID,
			profile: nil,
			check: func(t *testing.T, sc ShipmentScope) {
				assert.False(t, sc.None)
				assert.Equal(t, actorID, *sc.OwnerID)
				assert.True(t, sc.UnaffiliatedOnly)
			},
		},
		{
			name:    "менеджер без компании не видит ничего",
			actorID: actorID,
			profile: &Profile{UserID: actorID, Role: RoleManager},
			check: func(t *testing.T, sc ShipmentScope) {
				assert.True(t, sc.None)
			},
		},
		{
			name:    "водитель без компании не видит ничего",
			actorID: actorID,
			profile: &Profile{UserID: actorID, Role: RoleDriver},
			check: func(t *testing.T, sc ShipmentScope) {
				assert.True(t, sc.None)
			},
		},
		{
			name:        "неизвестная роль - ошибка",
			actorID:     actorID,
			profile:     &Profile{UserID: actorID, Role: Role("superadmin")},
			expectedErr: ErrInvalidRole,
		},
		{
			name:        "анонимный актор",
			actorID:     uuid.Nil,
			profile:     nil,
			expectedErr: ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scope, err := ScopeFor(tt.actorID, tt.profile)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			assert.NoError(t, err)
			tt.check(t, scope)
		})
	}
}

func TestShipmentScope_Matches(t *testing.T) {
	ownerID := uuid.New()
	companyID := uuid.New()
	otherCompanyID := uuid.New()

	companyShipment := &Shipment{OwnerID: ownerID, CompanyID: &companyID}
	privateShipment := &Shipment{OwnerID: ownerID}

	tests := []struct {
		name     string
		scope    ShipmentScope
		shipment *Shipment
		expected bool
	}{
		{
			name:     "company scope совпадает",
			scope:    ShipmentScope{CompanyID: &companyID},
			shipment: companyShipment,
			expected: true,
		},
		{
			name:     "company scope не совпадает по компании",
			scope:    ShipmentScope{CompanyID: &otherCompanyID},
			shipment: companyShipment,
			expected: false,
		},
		{
			name:     "company scope не видит перевозку без компании",
			scope:    ShipmentScope{CompanyID: &companyID},
			shipment: privateShipment,
			expected: false,
		},
		{
			name:     "owner scope совпадает",
			scope:    ShipmentScope{OwnerID: &ownerID, UnaffiliatedOnly: true},
			shipment: privateShipment,
			expected: true,
		},
		{
			name:     "клиент не видит корпоративные перевозки даже свои",
			scope:    ShipmentScope{OwnerID: &ownerID, UnaffiliatedOnly: true},
			shipment: companyShipment,
			expected: false,
		},
		{
			name:     "пустой scope не видит ничего",
			scope:    ShipmentScope{None: true},
			shipment: companyShipment,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.scope.Matches(tt.shipment))
		})
	}
}

func TestAttribute(t *testing.T) {
	actorID := uuid.New()
	companyID := uuid.New()

	t.Run("водитель атрибутирует перевозку своей компании", func(t *testing.T) {
		profile := &Profile{UserID: actorID, CompanyID: &companyID, Role: RoleDriver}

		owner, company, err := Attribute(actorID, profile)

		assert.NoError(t, err)
		assert.Equal(t, actorID, owner)
		assert.Equal(t, companyID, *company)
	})

	t.Run("клиент создает перевозку без компании", func(t *testing.T) {
		profile := &Profile{UserID: actorID, Role: RoleClient}

		owner, company, err := Attribute(actorID, profile)

		assert.NoError(t, err)
		assert.Equal(t, actorID, owner)
		assert.Nil(t, company)
	})

	t.Run("актор без профиля создает перевозку без компании", func(t *testing.T) {
		owner, company, err := Attribute(actorID, nil)

		assert.NoError(t, err)
		assert.Equal(t, actorID, owner)
		assert.Nil(t, company)
	})

	t.Run("анонимный актор", func(t *testing.T) {
		_, _, err := Attribute(uuid.Nil, nil)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestCanMutate(t *testing.T) {
	ownerID := uuid.New()
	shipment := &Shipment{OwnerID: ownerID}

	assert.True(t, CanMutate(ownerID, shipment))
	assert.False(t, CanMutate(uuid.New(), shipment))
	assert.False(t, CanMutate(uuid.Nil, shipment))
}
