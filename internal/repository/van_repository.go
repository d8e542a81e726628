package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fleetdesk/fleetdesk/internal/domain"
)

// VanFilter captures van listing parameters.
type VanFilter struct {
	OwnerID *string
	Limit   int
	Offset  int
}

// VanRepository manages van persistence.
type VanRepository interface {
	Create(ctx context.Context, van *domain.Van) error
	Update(ctx context.Context, van *domain.Van) error
	GetByID(ctx context.Context, id string) (*domain.Van, error)
	List(ctx context.Context, filter VanFilter) ([]domain.Van, error)
	Count(ctx context.Context, filter VanFilter) (int64, error)
	Delete(ctx context.Context, id string) error
}

type vanRepository struct {
	pool *pgxpool.Pool
}

// NewVanRepository builds the repository.
func NewVanRepository(pool *pgxpool.Pool) VanRepository {
	return &vanRepository{pool: pool}
}

func (r *vanRepository) Create(ctx context.Context, van *domain.Van) error {
	const query = `
        INSERT INTO vans (van_number, make, model, year, owner_id)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		van.VanNumber,
		van.Make,
		van.Model,
		van.Year,
		van.OwnerID,
	).Scan(&van.ID, &van.CreatedAt, &van.UpdatedAt)
}

func (r *vanRepository) Update(ctx context.Context, van *domain.Van) error {
	const query = `
        UPDATE vans SET van_number=$1, make=$2, model=$3, year=$4, owner_id=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		van.VanNumber,
		van.Make,
		van.Model,
		van.Year,
		van.OwnerID,
		van.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *vanRepository) GetByID(ctx context.Context, id string) (*domain.Van, error) {
	const query = `
        SELECT id, van_number, make, model, year, owner_id, created_at, updated_at
        FROM vans WHERE id=$1`
	var van domain.Van
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&van.ID,
		&van.VanNumber,
		&van.Make,
		&van.Model,
		&van.Year,
		&van.OwnerID,
		&van.CreatedAt,
		&van.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &van, nil
}

func buildVanWhere(filter VanFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		clauses = append(clauses, fmt.Sprintf("owner_id=$%d", len(args)))
	}

	return strings.Join(clauses, " AND "), args
}

func (r *vanRepository) List(ctx context.Context, filter VanFilter) ([]domain.Van, error) {
	where, args := buildVanWhere(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = 25
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT id, van_number, make, model, year, owner_id, created_at, updated_at
        FROM vans WHERE %s ORDER BY van_number ASC LIMIT %d OFFSET %d`, where, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Van
	for rows.Next() {
		var van domain.Van
		if err := rows.Scan(
			&van.ID,
			&van.VanNumber,
			&van.Make,
			&van.Model,
			&van.Year,
			&van.OwnerID,
			&van.CreatedAt,
			&van.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, van)
	}
	return result, rows.Err()
}

func (r *vanRepository) Count(ctx context.Context, filter VanFilter) (int64, error) {
	where, args := buildVanWhere(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM vans WHERE %s`, where)

	var count int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *vanRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM vans WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
