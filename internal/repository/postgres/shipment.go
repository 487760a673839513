package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/greenpath/logistics/internal/domain"
	"github.com/greenpath/logistics/internal/repository"
)

// Белый список колонок сортировки: значение OrderBy приходит из запроса
// и не должно попадать в SQL как есть
var shipmentOrderColumns = map[string]string{
	"created_at":       "s.created_at",
	"carbon_footprint": "s.carbon_footprint",
	"weight":           "s.weight",
}

type shipmentRepository struct {
	db *pgxpool.Pool
}

func NewShipmentRepository(db *pgxpool.Pool) repository.ShipmentRepository {
	return &shipmentRepository{db: db}
}

func (r *shipmentRepository) Create(ctx context.Context, shipment *domain.Shipment) error {
	query := `
		INSERT INTO shipments (id, origin, destination, distance, weight, vehicle_id,
		                       carbon_footprint, owner_id, company_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	shipment.ID = uuid.New()
	shipment.CreatedAt = time.Now()

	_, err := r.db.Exec(ctx, query,
		shipment.ID,
		shipment.Origin,
		shipment.Destination,
		nullDecimal(shipment.Distance),
		shipment.Weight,
		shipment.VehicleID,
		nullDecimal(shipment.CarbonFootprint),
		shipment.OwnerID,
		nullUUID(shipment.CompanyID),
		shipment.CreatedAt,
	)

	return err
}

func (r *shipmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Shipment, error) {
	query := `
		SELECT s.id, s.origin, s.destination, s.distance, s.weight, s.vehicle_id,
		       s.carbon_footprint, s.owner_id, s.company_id, s.created_at,
		       v.id, v.name, v.emission_factor, v.description, v.created_at
		FROM shipments s
		JOIN vehicles v ON v.id = s.vehicle_id
		WHERE s.id = $1
	`

	shipment, err := scanShipment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrShipmentNotFound
		}
		return nil, err
	}

	return shipment, nil
}

func (r *shipmentRepository) List(ctx context.Context, scope domain.ShipmentScope, filter repository.ShipmentFilter) ([]*domain.Shipment, error) {
	if scope.None {
		return []*domain.Shipment{}, nil
	}

	var (
		conds []string
		args  []interface{}
	)

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	// Предикат видимости
	if scope.CompanyID != nil {
		conds = append(conds, "s.company_id = "+arg(*scope.CompanyID))
	}
	if scope.OwnerID != nil {
		conds = append(conds, "s.owner_id = "+arg(*scope.OwnerID))
	}
	if scope.UnaffiliatedOnly {
		conds = append(conds, "s.company_id IS NULL")
	}

	// Пользовательские фильтры
	if filter.VehicleID != nil {
		conds = append(conds, "s.vehicle_id = "+arg(*filter.VehicleID))
	}
	if filter.Origin != "" {
		conds = append(conds, "LOWER(s.origin) = LOWER("+arg(filter.Origin)+")")
	}
	if filter.Destination != "" {
		conds = append(conds, "LOWER(s.destination) = LOWER("+arg(filter.Destination)+")")
	}
	if filter.Search != "" {
		p := arg("%" + filter.Search + "%")
		conds = append(conds, "(s.origin ILIKE "+p+" OR s.destination ILIKE "+p+" OR s.id::text ILIKE "+p+")")
	}

	query := `
		SELECT s.id, s.origin, s.destination, s.distance, s.weight, s.vehicle_id,
		       s.carbon_footprint, s.owner_id, s.company_id, s.created_at,
		       v.id, v.name, v.emission_factor, v.description, v.created_at
		FROM shipments s
		JOIN vehicles v ON v.id = s.vehicle_id
	`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	orderCol, ok := shipmentOrderColumns[filter.OrderBy]
	if !ok {
		orderCol = "s.created_at"
	}
	direction := "ASC"
	if filter.Desc {
		direction = "DESC"
	}
	// NULLS LAST, чтобы еще не рассчитанные перевозки не всплывали первыми
	query += fmt.Sprintf(" ORDER BY %s %s NULLS LAST", orderCol, direction)

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query += " LIMIT " + arg(limit) + " OFFSET " + arg(offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shipments := []*domain.Shipment{}
	for rows.Next() {
		shipment, err := scanShipment(rows)
		if err != nil {
			return nil, err
		}
		shipments = append(shipments, shipment)
	}

	return shipments, rows.Err()
}

func (r *shipmentRepository) Update(ctx context.Context, shipment *domain.Shipment) error {
	// created_at и owner/company не обновляются: атрибуция назначается один раз
	query := `
		UPDATE shipments
		SET origin = $2, destination = $3, distance = $4, weight = $5,
		    vehicle_id = $6, carbon_footprint = $7
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		shipment.ID,
		shipment.Origin,
		shipment.Destination,
		nullDecimal(shipment.Distance),
		shipment.Weight,
		shipment.VehicleID,
		nullDecimal(shipment.CarbonFootprint),
	)

	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrShipmentNotFound
	}

	return nil
}

func (r *shipmentRepository) UpdateMetrics(ctx context.Context, id uuid.UUID, distance, carbonFootprint decimal.Decimal) error {
	// Записываем ровно два производных поля: параллельные правки
	// остальных колонок этим апдейтом не затираются
	query := `
		UPDATE shipments
		SET distance = $2, carbon_footprint = $3
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, id, distance, carbonFootprint)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrShipmentNotFound
	}

	return nil
}

func (r *shipmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM shipments WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrShipmentNotFound
	}

	return nil
}

// scanShipment читает строку выборки shipments JOIN vehicles
func scanShipment(row pgx.Row) (*domain.Shipment, error) {
	shipment := &domain.Shipment{Vehicle: &domain.Vehicle{}}
	var (
		distance  decimal.NullDecimal
		footprint decimal.NullDecimal
		companyID uuid.NullUUID
	)

	err := row.Scan(
		&shipment.ID,
		&shipment.Origin,
		&shipment.Destination,
		&distance,
		&shipment.Weight,
		&shipment.VehicleID,
		&footprint,
		&shipment.OwnerID,
		&companyID,
		&shipment.CreatedAt,
		&shipment.Vehicle.ID,
		&shipment.Vehicle.Name,
		&shipment.Vehicle.EmissionFactor,
		&shipment.Vehicle.Description,
		&shipment.Vehicle.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	shipment.Distance = decimalPtr(distance)
	shipment.CarbonFootprint = decimalPtr(footprint)
	shipment.CompanyID = uuidPtr(companyID)

	return shipment, nil
}
