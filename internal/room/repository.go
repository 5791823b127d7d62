package room

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines storage access for rooms and their weekly schedules.
type Repository interface {
	Create(ctx context.Context, rm *Room) error
	// GetByID returns the room including its schedule; soft-deleted rooms are
	// not returned.
	GetByID(ctx context.Context, id string) (*Room, error)
	ListByOrganization(ctx context.Context, orgID string) ([]*Room, error)
	Update(ctx context.Context, rm *Room) error
	SoftDelete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

const roomColumns = `r.id, r.organization_id, r.name, r.description, r.location, r.difficulty,
	r.interval_minutes, r.min_participants, r.max_participants, r.pricing_mode,
	r.price_minor_units, r.currency, r.timezone, r.payment_enabled, r.deleted,
	r.created_at, r.updated_at`

func scanRoom(row pgx.Row) (*Room, error) {
	var rm Room
	if err := row.Scan(
		&rm.ID, &rm.OrganizationID, &rm.Name, &rm.Description, &rm.Location, &rm.Difficulty,
		&rm.IntervalMinutes, &rm.MinParticipants, &rm.MaxParticipants, &rm.PricingMode,
		&rm.PriceMinorUnits, &rm.Currency, &rm.Timezone, &rm.PaymentEnabled, &rm.Deleted,
		&rm.CreatedAt, &rm.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan room failed: %w", err)
	}
	return &rm, nil
}

func (r *pgxRepository) Create(ctx context.Context, rm *Room) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create room tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	query, args, err := psql.Insert("public.rooms").
		Columns(
			"organization_id", "name", "description", "location", "difficulty",
			"interval_minutes", "min_participants", "max_participants", "pricing_mode",
			"price_minor_units", "currency", "timezone", "payment_enabled",
		).
		Values(
			rm.OrganizationID, rm.Name, rm.Description, rm.Location, rm.Difficulty,
			rm.IntervalMinutes, rm.MinParticipants, rm.MaxParticipants, rm.PricingMode,
			rm.PriceMinorUnits, rm.Currency, rm.Timezone, rm.PaymentEnabled,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create room query failed: %w", err)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(&rm.ID, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
		return fmt.Errorf("create room failed: %w", err)
	}

	if err := insertSchedule(ctx, tx, rm.ID, rm.BusinessHours); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func insertSchedule(ctx context.Context, tx pgx.Tx, roomID string, schedule WeekSchedule) error {
	windows := schedule.Windows()
	if len(windows) == 0 {
		return nil
	}

	builder := psql.Insert("public.room_business_hours").
		Columns("room_id", "weekday", "open_minutes", "close_minutes")
	for _, w := range windows {
		builder = builder.Values(roomID, w.Weekday, w.OpenMinutes, w.CloseMinutes)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("build insert schedule query failed: %w", err)
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert schedule failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) loadSchedule(ctx context.Context, roomID string) (WeekSchedule, error) {
	query, args, err := psql.Select("weekday", "open_minutes", "close_minutes").
		From("public.room_business_hours").
		Where(squirrel.Eq{"room_id": roomID}).
		OrderBy("weekday ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build load schedule query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load schedule failed: %w", err)
	}
	defer rows.Close()

	var windows []WeeklyWindow
	for rows.Next() {
		var w WeeklyWindow
		if err := rows.Scan(&w.Weekday, &w.OpenMinutes, &w.CloseMinutes); err != nil {
			return nil, fmt.Errorf("scan schedule window failed: %w", err)
		}
		windows = append(windows, w)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	// The unique (room_id, weekday) constraint guarantees this cannot fail.
	return NewWeekSchedule(windows)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Room, error) {
	query, args, err := psql.Select(roomColumns).
		From("public.rooms r").
		Where(squirrel.Eq{"r.id": id, "r.deleted": false}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get room query failed: %w", err)
	}

	rm, err := scanRoom(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, err
	}

	rm.BusinessHours, err = r.loadSchedule(ctx, rm.ID)
	if err != nil {
		return nil, err
	}
	return rm, nil
}

func (r *pgxRepository) ListByOrganization(ctx context.Context, orgID string) ([]*Room, error) {
	query, args, err := psql.Select(roomColumns).
		From("public.rooms r").
		Where(squirrel.Eq{"r.organization_id": orgID, "r.deleted": false}).
		OrderBy("r.created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list rooms query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list rooms failed: %w", err)
	}
	defer rows.Close()

	var rooms []*Room
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, rm)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	for _, rm := range rooms {
		schedule, err := r.loadSchedule(ctx, rm.ID)
		if err != nil {
			return nil, err
		}
		rm.BusinessHours = schedule
	}
	return rooms, nil
}

func (r *pgxRepository) Update(ctx context.Context, rm *Room) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update room tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	query, args, err := psql.Update("public.rooms").
		Set("name", rm.Name).
		Set("description", rm.Description).
		Set("location", rm.Location).
		Set("difficulty", rm.Difficulty).
		Set("interval_minutes", rm.IntervalMinutes).
		Set("min_participants", rm.MinParticipants).
		Set("max_participants", rm.MaxParticipants).
		Set("pricing_mode", rm.PricingMode).
		Set("price_minor_units", rm.PriceMinorUnits).
		Set("currency", rm.Currency).
		Set("timezone", rm.Timezone).
		Set("payment_enabled", rm.PaymentEnabled).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": rm.ID, "deleted": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update room query failed: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update room failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}

	// Replace the schedule wholesale; the set is tiny (at most 7 rows).
	query, args, err = psql.Delete("public.room_business_hours").
		Where(squirrel.Eq{"room_id": rm.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete schedule query failed: %w", err)
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("delete schedule failed: %w", err)
	}

	if err := insertSchedule(ctx, tx, rm.ID, rm.BusinessHours); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *pgxRepository) SoftDelete(ctx context.Context, id string) error {
	query, args, err := psql.Update("public.rooms").
		Set("deleted", true).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "deleted": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete room query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete room failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
