package organization

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines storage access for organizations and memberships.
type Repository interface {
	// CreateWithOwner creates the organization and the owner membership in a
	// single transaction.
	CreateWithOwner(ctx context.Context, org *Organization, ownerUserID string) error
	GetByID(ctx context.Context, id string) (*Organization, error)
	ListByUser(ctx context.Context, userID string) ([]*Organization, error)
	Update(ctx context.Context, org *Organization) error

	GetMember(ctx context.Context, orgID, userID string) (*Member, error)
	ListMembers(ctx context.Context, orgID string) ([]*Member, error)
	AddMember(ctx context.Context, orgID, userID, role string) error
	RemoveMember(ctx context.Context, orgID, userID string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

const orgColumns = "id, name, location, payment_client_key, payment_secret_key, created_at, updated_at"

func scanOrganization(row pgx.Row) (*Organization, error) {
	var o Organization
	if err := row.Scan(
		&o.ID,
		&o.Name,
		&o.Location,
		&o.PaymentClientKey,
		&o.PaymentSecretKey,
		&o.CreatedAt,
		&o.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan organization failed: %w", err)
	}
	return &o, nil
}

func (r *pgxRepository) CreateWithOwner(ctx context.Context, org *Organization, ownerUserID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create organization tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	query, args, err := psql.Insert("public.organizations").
		Columns("name", "location").
		Values(org.Name, org.Location).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create organization query failed: %w", err)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(&org.ID, &org.CreatedAt, &org.UpdatedAt); err != nil {
		return fmt.Errorf("create organization failed: %w", err)
	}

	query, args, err = psql.Insert("public.organization_members").
		Columns("organization_id", "user_id", "role").
		Values(org.ID, ownerUserID, RoleOwner).
		ToSql()
	if err != nil {
		return fmt.Errorf("build create membership query failed: %w", err)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("create owner membership failed: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Organization, error) {
	query := fmt.Sprintf(`SELECT %s FROM public.organizations WHERE id = $1`, orgColumns)
	return scanOrganization(r.pool.QueryRow(ctx, query, id))
}

func (r *pgxRepository) ListByUser(ctx context.Context, userID string) ([]*Organization, error) {
	query, args, err := psql.Select(
		"o.id", "o.name", "o.location", "o.payment_client_key", "o.payment_secret_key",
		"o.created_at", "o.updated_at",
	).
		From("public.organizations o").
		Join("public.organization_members m ON m.organization_id = o.id").
		Where(squirrel.Eq{"m.user_id": userID}).
		OrderBy("o.created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list organizations query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list organizations failed: %w", err)
	}
	defer rows.Close()

	var orgs []*Organization
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		orgs = append(orgs, o)
	}
	return orgs, rows.Err()
}

func (r *pgxRepository) Update(ctx context.Context, org *Organization) error {
	query, args, err := psql.Update("public.organizations").
		Set("name", org.Name).
		Set("location", org.Location).
		Set("payment_client_key", org.PaymentClientKey).
		Set("payment_secret_key", org.PaymentSecretKey).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": org.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update organization query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update organization failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) GetMember(ctx context.Context, orgID, userID string) (*Member, error) {
	query, args, err := psql.Select("m.user_id", "u.email", "u.display_name", "m.role", "m.created_at").
		From("public.organization_members m").
		Join("public.users u ON u.id = m.user_id").
		Where(squirrel.Eq{"m.organization_id": orgID, "m.user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get member query failed: %w", err)
	}

	var m Member
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&m.UserID, &m.Email, &m.DisplayName, &m.Role, &m.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("get member failed: %w", err)
	}
	return &m, nil
}

func (r *pgxRepository) ListMembers(ctx context.Context, orgID string) ([]*Member, error) {
	query, args, err := psql.Select("m.user_id", "u.email", "u.display_name", "m.role", "m.created_at").
		From("public.organization_members m").
		Join("public.users u ON u.id = m.user_id").
		Where(squirrel.Eq{"m.organization_id": orgID}).
		OrderBy("m.created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list members query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list members failed: %w", err)
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.UserID, &m.Email, &m.DisplayName, &m.Role, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan member failed: %w", err)
		}
		members = append(members, &m)
	}
	return members, rows.Err()
}

func (r *pgxRepository) AddMember(ctx context.Context, orgID, userID, role string) error {
	query, args, err := psql.Insert("public.organization_members").
		Columns("organization_id", "user_id", "role").
		Values(orgID, userID, role).
		ToSql()
	if err != nil {
		return fmt.Errorf("build add member query failed: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrAlreadyMember
		}
		return fmt.Errorf("add member failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) RemoveMember(ctx context.Context, orgID, userID string) error {
	query, args, err := psql.Delete("public.organization_members").
		Where(squirrel.Eq{"organization_id": orgID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build remove member query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("remove member failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrMemberNotFound
	}
	return nil
}
