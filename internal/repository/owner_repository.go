package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fleetdesk/fleetdesk/internal/domain"
)

// OwnerFilter captures owner listing parameters.
type OwnerFilter struct {
	Search *string
	Limit  int
	Offset int
}

// OwnerRepository manages owner persistence.
type OwnerRepository interface {
	Create(ctx context.Context, owner *domain.Owner) error
	Update(ctx context.Context, owner *domain.Owner) error
	GetByID(ctx context.Context, id string) (*domain.Owner, error)
	GetByPhone(ctx context.Context, phone string) (*domain.Owner, error)
	List(ctx context.Context, filter OwnerFilter) ([]domain.Owner, error)
	Count(ctx context.Context, filter OwnerFilter) (int64, error)
	Delete(ctx context.Context, id string) error
	CountDependencies(ctx context.Context, id string) (domain.OwnerDependencies, error)
}

type ownerRepository struct {
	pool *pgxpool.Pool
}

// NewOwnerRepository builds the repository.
func NewOwnerRepository(pool *pgxpool.Pool) OwnerRepository {
	return &ownerRepository{pool: pool}
}

func (r *ownerRepository) Create(ctx context.Context, owner *domain.Owner) error {
	const query = `
        INSERT INTO owners (name, company, phone, email)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		owner.Name,
		owner.Company,
		owner.Phone,
		owner.Email,
	).Scan(&owner.ID, &owner.CreatedAt, &owner.UpdatedAt)
}

func (r *ownerRepository) Update(ctx context.Context, owner *domain.Owner) error {
	const query = `
        UPDATE owners SET name=$1, company=$2, phone=$3, email=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		owner.Name,
		owner.Company,
		owner.Phone,
		owner.Email,
		owner.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ownerRepository) GetByID(ctx context.Context, id string) (*domain.Owner, error) {
	const query = `
        SELECT id, name, company, phone, email, created_at, updated_at
        FROM owners WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *ownerRepository) GetByPhone(ctx context.Context, phone string) (*domain.Owner, error) {
	const query = `
        SELECT id, name, company, phone, email, created_at, updated_at
        FROM owners WHERE phone=$1`
	return r.fetchSingle(ctx, query, phone)
}

func (r *ownerRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Owner, error) {
	var owner domain.Owner
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&owner.ID,
		&owner.Name,
		&owner.Company,
		&owner.Phone,
		&owner.Email,
		&owner.CreatedAt,
		&owner.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &owner, nil
}

func buildOwnerWhere(filter OwnerFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.Search)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(name) LIKE %s OR LOWER(COALESCE(company,'')) LIKE %s OR phone LIKE %s)", placeholder, placeholder, placeholder))
	}

	return strings.Join(clauses, " AND "), args
}

func (r *ownerRepository) List(ctx context.Context, filter OwnerFilter) ([]domain.Owner, error) {
	where, args := buildOwnerWhere(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = 25
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT id, name, company, phone, email, created_at, updated_at
        FROM owners WHERE %s ORDER BY name ASC LIMIT %d OFFSET %d`, where, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Owner
	for rows.Next() {
		var owner domain.Owner
		if err := rows.Scan(
			&owner.ID,
			&owner.Name,
			&owner.Company,
			&owner.Phone,
			&owner.Email,
			&owner.CreatedAt,
			&owner.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, owner)
	}
	return result, rows.Err()
}

func (r *ownerRepository) Count(ctx context.Context, filter OwnerFilter) (int64, error) {
	where, args := buildOwnerWhere(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM owners WHERE %s`, where)

	var count int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ownerRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM owners WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ownerRepository) CountDependencies(ctx context.Context, id string) (domain.OwnerDependencies, error) {
	const query = `
        SELECT
            (SELECT COUNT(*) FROM vans WHERE owner_id=$1),
            (SELECT COUNT(*) FROM tickets WHERE owner_id=$1)`
	var deps domain.OwnerDependencies
	if err := r.pool.QueryRow(ctx, query, id).Scan(&deps.Vans, &deps.Tickets); err != nil {
		return domain.OwnerDependencies{}, err
	}
	return deps, nil
}
