package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/greenpath/logistics/internal/domain"
	"github.com/greenpath/logistics/internal/repository"
)

type vehicleRepository struct {
	db *pgxpool.Pool
}

func NewVehicleRepository(db *pgxpool.Pool) repository.VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	query := `
		INSERT INTO vehicles (id, name, emission_factor, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	vehicle.ID = uuid.New()
	vehicle.CreatedAt = time.Now()

	_, err := r.db.Exec(ctx, query,
		vehicle.ID,
		vehicle.Name,
		vehicle.EmissionFactor,
		vehicle.Description,
		vehicle.CreatedAt,
	)

	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return domain.ErrVehicleAlreadyExists
		}
		return err
	}

	return nil
}

func (r *vehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	query := `
		SELECT id, name, emission_factor, description, created_at
		FROM vehicles
		WHERE id = $1
	`

	vehicle := &domain.Vehicle{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&vehicle.ID,
		&vehicle.Name,
		&vehicle.EmissionFactor,
		&vehicle.Description,
		&vehicle.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, err
	}

	return vehicle, nil
}

func (r *vehicleRepository) GetByName(ctx context.Context, name string) (*domain.Vehicle, error) {
	query := `
		SELECT id, name, emission_factor, description, created_at
		FROM vehicles
		WHERE name = $1
	`

	vehicle := &domain.Vehicle{}
	err := r.db.QueryRow(ctx, query, name).Scan(
		&vehicle.ID,
		&vehicle.Name,
		&vehicle.EmissionFactor,
		&vehicle.Description,
		&vehicle.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, err
	}

	return vehicle, nil
}

func (r *vehicleRepository) List(ctx context.Context, limit, offset int) ([]*domain.Vehicle, error) {
	query := `
		SELECT id, name, emission_factor, description, created_at
		FROM vehicles
		ORDER BY name
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []*domain.Vehicle
	for rows.Next() {
		vehicle := &domain.Vehicle{}
		err := rows.Scan(
			&vehicle.ID,
			&vehicle.Name,
			&vehicle.EmissionFactor,
			&vehicle.Description,
			&vehicle.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, vehicle)
	}

	return vehicles, nil
}

func (r *vehicleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Жесткое удаление: пока на тип ссылается хоть одна перевозка,
	// FK ON DELETE RESTRICT не дает потерять входные данные старых расчетов
	query := `DELETE FROM vehicles WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return domain.ErrVehicleInUse
		}
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrVehicleNotFound
	}

	return nil
}
