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

type profileRepository struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	query := `
		INSERT INTO profiles (id, user_id, company_id, role, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	profile.ID = uuid.New()
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = time.Now()

	_, err := r.db.Exec(ctx, query,
		profile.ID,
		profile.UserID,
		nullUUID(profile.CompanyID),
		profile.Role,
		profile.Phone,
		profile.CreatedAt,
		profile.UpdatedAt,
	)

	if err != nil {
		// user_id уникален: профиль один-к-одному с учетной записью
		if isPgError(err, pgUniqueViolation) {
			return domain.ErrProfileAlreadyExists
		}
		return err
	}

	return nil
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	query := `
		SELECT id, user_id, company_id, role, phone, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`

	profile := &domain.Profile{}
	var companyID uuid.NullUUID
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&companyID,
		&profile.Role,
		&profile.Phone,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}

	profile.CompanyID = uuidPtr(companyID)

	return profile, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	query := `
		UPDATE profiles
		SET company_id = $2, role = $3, phone = $4, updated_at = $5
		WHERE id = $1
	`

	profile.UpdatedAt = time.Now()

	result, err := r.db.Exec(ctx, query,
		profile.ID,
		nullUUID(profile.CompanyID),
		profile.Role,
		profile.Phone,
		profile.UpdatedAt,
	)

	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrProfileNotFound
	}

	return nil
}
