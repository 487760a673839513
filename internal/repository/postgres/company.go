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

type companyRepository struct {
	db *pgxpool.Pool
}

func NewCompanyRepository(db *pgxpool.Pool) repository.CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) Create(ctx context.Context, company *domain.Company) error {
	query := `
		INSERT INTO companies (id, name, registration_number, created_at)
		VALUES ($1, $2, $3, $4)
	`

	company.ID = uuid.New()
	company.CreatedAt = time.Now()

	_, err := r.db.Exec(ctx, query,
		company.ID,
		company.Name,
		company.RegistrationNumber,
		company.CreatedAt,
	)

	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return domain.ErrCompanyAlreadyExists
		}
		return err
	}

	return nil
}

func (r *companyRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Company, error) {
	query := `
		SELECT id, name, registration_number, created_at
		FROM companies
		WHERE id = $1
	`

	company := &domain.Company{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&company.ID,
		&company.Name,
		&company.RegistrationNumber,
		&company.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, err
	}

	return company, nil
}

func (r *companyRepository) List(ctx context.Context, limit, offset int) ([]*domain.Company, error) {
	query := `
		SELECT id, name, registration_number, created_at
		FROM companies
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []*domain.Company
	for rows.Next() {
		company := &domain.Company{}
		err := rows.Scan(
			&company.ID,
			&company.Name,
			&company.RegistrationNumber,
			&company.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		companies = append(companies, company)
	}

	return companies, nil
}
