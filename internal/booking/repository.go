package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// Create inserts the booking while holding the room's advisory lock, so
	// two racing requests for the same room serialize. An accepted booking is
	// rechecked for overlap inside the transaction before insert.
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)

	// UpdateStatus moves the booking from one status to another and fails
	// with ErrInvalidTransition if the stored status no longer matches.
	UpdateStatus(ctx context.Context, id string, from, to Status) error

	// Accept promotes a pending booking to accepted, rechecking under the
	// room's advisory lock that no other accepted booking took the slot.
	Accept(ctx context.Context, id string) (*Booking, error)

	HasOverlap(ctx context.Context, roomID string, start, end time.Time, excludeBookingID string) (bool, error)

	// FindAccepted returns accepted bookings for the room intersecting
	// [from, to), used to mask out availability.
	FindAccepted(ctx context.Context, roomID string, from, to time.Time) ([]*Booking, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

const bookingColumns = `b.id, b.room_id, r.name, r.organization_id,
	b.start_time, b.end_time, b.name, b.email, b.phone_number, b.comment,
	b.participants, b.status, b.price_minor_units, b.currency,
	b.created_at, b.updated_at`

func scanBooking(row pgx.Row, extra ...any) (*Booking, error) {
	var b Booking
	dest := []any{
		&b.ID, &b.RoomID, &b.RoomName, &b.OrganizationID,
		&b.StartTime, &b.EndTime, &b.Name, &b.Email, &b.PhoneNumber, &b.Comment,
		&b.Participants, &b.Status, &b.PriceMinorUnits, &b.Currency,
		&b.CreatedAt, &b.UpdatedAt,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan booking failed: %w", err)
	}
	return &b, nil
}

// lockRoom takes a transaction-scoped advisory lock keyed on the room id.
// Every write that affects the room's accepted set goes through this lock, so
// overlap checks and inserts within the same transaction are race-free.
func lockRoom(ctx context.Context, tx pgx.Tx, roomID string) error {
	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1::text))", roomID); err != nil {
		return fmt.Errorf("lock room failed: %w", err)
	}
	return nil
}

func overlapExists(ctx context.Context, q interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}, roomID string, start, end time.Time, excludeBookingID string) (bool, error) {
	sub := psql.Select("1").
		From("public.bookings").
		Where(squirrel.Eq{"room_id": roomID}).
		Where(squirrel.Eq{"status": StatusAccepted}).
		Where(squirrel.Lt{"start_time": end}).
		Where(squirrel.Gt{"end_time": start})

	if excludeBookingID != "" {
		sub = sub.Where(squirrel.NotEq{"id": excludeBookingID})
	}

	sql, args, err := sub.ToSql()
	if err != nil {
		return false, fmt.Errorf("build check overlap query failed: %w", err)
	}

	var exists bool
	if err := q.QueryRow(ctx, "SELECT EXISTS ("+sql+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check overlap failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create booking tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockRoom(ctx, tx, b.RoomID); err != nil {
		return err
	}

	if b.Status == StatusAccepted {
		conflict, err := overlapExists(ctx, tx, b.RoomID, b.StartTime, b.EndTime, "")
		if err != nil {
			return err
		}
		if conflict {
			return ErrTimeConflict
		}
	}

	query, args, err := psql.Insert("public.bookings").
		Columns(
			"room_id", "start_time", "end_time", "name", "email",
			"phone_number", "comment", "participants", "status",
			"price_minor_units", "currency",
		).
		Values(
			b.RoomID, b.StartTime, b.EndTime, b.Name, b.Email,
			b.PhoneNumber, b.Comment, b.Participants, b.Status,
			b.PriceMinorUnits, b.Currency,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ExclusionViolation {
			return ErrTimeConflict
		}
		return fmt.Errorf("create booking failed: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query, args, err := psql.Select(bookingColumns).
		From("public.bookings b").
		Join("public.rooms r ON b.room_id = r.id").
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	return scanBooking(r.pool.QueryRow(ctx, query, args...))
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	query := psql.Select(bookingColumns, "count(*) OVER() AS total_count").
		From("public.bookings b").
		Join("public.rooms r ON b.room_id = r.id")

	if filter.RoomID != "" {
		query = query.Where(squirrel.Eq{"b.room_id": filter.RoomID})
	}
	if filter.OrganizationID != "" {
		query = query.Where(squirrel.Eq{"r.organization_id": filter.OrganizationID})
	}
	if len(filter.Statuses) > 0 {
		query = query.Where(squirrel.Eq{"b.status": filter.Statuses})
	}
	if filter.From != nil {
		query = query.Where(squirrel.GtOrEq{"b.end_time": *filter.From})
	}
	if filter.To != nil {
		query = query.Where(squirrel.Lt{"b.start_time": *filter.To})
	}
	if filter.CreatedFrom != nil {
		query = query.Where(squirrel.GtOrEq{"b.created_at": *filter.CreatedFrom})
	}
	if filter.CreatedTo != nil {
		query = query.Where(squirrel.Lt{"b.created_at": *filter.CreatedTo})
	}

	query = query.OrderBy("b.end_time DESC")

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	query = query.
		Limit(uint64(filter.PageSize)).
		Offset(uint64((filter.Page - 1) * filter.PageSize))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int

	for rows.Next() {
		b, err := scanBooking(rows, &total)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}

	return bookings, total, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id string, from, to Status) error {
	query, args, err := psql.Update("public.bookings").
		Set("status", to).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking status query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update booking status failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		// Distinguish a missing booking from a lost status race.
		var current Status
		err := r.pool.QueryRow(ctx, "SELECT status FROM public.bookings WHERE id = $1", id).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get booking status failed: %w", err)
		}
		return ErrInvalidTransition
	}
	return nil
}

func (r *pgxRepository) Accept(ctx context.Context, id string) (*Booking, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin accept booking tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	query, args, err := psql.Select(bookingColumns).
		From("public.bookings b").
		Join("public.rooms r ON b.room_id = r.id").
		Where(squirrel.Eq{"b.id": id}).
		Suffix("FOR UPDATE OF b").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build accept booking query failed: %w", err)
	}

	b, err := scanBooking(tx.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, err
	}
	if b.Status != StatusPending {
		return nil, ErrInvalidTransition
	}

	if err := lockRoom(ctx, tx, b.RoomID); err != nil {
		return nil, err
	}
	conflict, err := overlapExists(ctx, tx, b.RoomID, b.StartTime, b.EndTime, b.ID)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, ErrTimeConflict
	}

	if _, err := tx.Exec(ctx,
		"UPDATE public.bookings SET status = $1, updated_at = now() WHERE id = $2",
		StatusAccepted, b.ID,
	); err != nil {
		return nil, fmt.Errorf("accept booking failed: %w", err)
	}
	b.Status = StatusAccepted

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit accept booking tx failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) HasOverlap(ctx context.Context, roomID string, start, end time.Time, excludeBookingID string) (bool, error) {
	return overlapExists(ctx, r.pool, roomID, start, end, excludeBookingID)
}

func (r *pgxRepository) FindAccepted(ctx context.Context, roomID string, from, to time.Time) ([]*Booking, error) {
	query, args, err := psql.Select(bookingColumns).
		From("public.bookings b").
		Join("public.rooms r ON b.room_id = r.id").
		Where(squirrel.Eq{"b.room_id": roomID, "b.status": StatusAccepted}).
		Where(squirrel.Lt{"b.start_time": to}).
		Where(squirrel.Gt{"b.end_time": from}).
		OrderBy("b.start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find accepted bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find accepted bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find accepted bookings failed: %w", err)
	}
	return bookings, nil
}
