package reservation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/resource-booking-backend/internal/clock"
)

// Tx is the part of a Repository available inside WithResourceLock.
type Tx interface {
	// ListByResource returns every reservation of resource, in no particular order.
	ListByResource(ctx context.Context, resource string) ([]*Reservation, error)
	// Insert stores r as given and returns the stored value.
	Insert(ctx context.Context, r *Reservation) (*Reservation, error)
}

type Repository interface {
	Tx
	// GetByID returns ErrNotFound when no reservation has the id.
	GetByID(ctx context.Context, id string) (*Reservation, error)
	// DeleteByID reports whether a reservation was removed.
	DeleteByID(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, filter Filter) ([]*Reservation, int, error)

	// WithResourceLock runs fn while no other WithResourceLock call for the same
	// resource is running, so a check followed by an insert inside fn is atomic.
	// fn must not call WithResourceLock again.
	WithResourceLock(ctx context.Context, resource string, fn func(tx Tx) error) error
}

var sortColumns = map[string]string{
	"start_time": "start_time",
	"end_time":   "end_time",
	"created_at": "created_at",
}

var reservationColumns = []string{"id", "resource", "requested_by", "start_time", "end_time", "created_at"}

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type pgxQueries struct {
	db dbtx
}

type pgxRepository struct {
	pgxQueries
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{
		pgxQueries: pgxQueries{db: pool},
		pool:       pool,
	}
}

func statementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (q *pgxQueries) ListByResource(ctx context.Context, resource string) ([]*Reservation, error) {
	query, args, err := statementBuilder().Select(reservationColumns...).
		From("public.reservations").
		Where(squirrel.Eq{"resource": resource}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list reservations by resource query failed: %w", err)
	}

	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reservations by resource failed: %w", err)
	}
	defer rows.Close()

	var result []*Reservation
	for rows.Next() {
		var r Reservation
		if err := rows.Scan(&r.ID, &r.Resource, &r.RequestedBy, &r.StartTime, &r.EndTime, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reservation failed: %w", err)
		}
		result = append(result, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reservations failed: %w", err)
	}
	return result, nil
}

func (q *pgxQueries) Insert(ctx context.Context, r *Reservation) (*Reservation, error) {
	query, args, err := statementBuilder().Insert("public.reservations").
		Columns(reservationColumns...).
		Values(r.ID, r.Resource, r.RequestedBy, r.StartTime, r.EndTime, r.CreatedAt).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert reservation query failed: %w", err)
	}

	if _, err := q.db.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.ExclusionViolation:
				return nil, ErrOverlap
			case pgerrcode.CheckViolation:
				return nil, ErrEndBeforeStart
			}
		}
		return nil, fmt.Errorf("insert reservation failed: %w", err)
	}
	return r, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Reservation, error) {
	query, args, err := statementBuilder().Select(reservationColumns...).
		From("public.reservations").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get reservation query failed: %w", err)
	}

	var res Reservation
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&res.ID, &res.Resource, &res.RequestedBy, &res.StartTime, &res.EndTime, &res.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get reservation failed: %w", err)
	}
	return &res, nil
}

func (r *pgxRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	query, args, err := statementBuilder().Delete("public.reservations").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build delete reservation query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete reservation failed: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	query := statementBuilder().Select(append(reservationColumns, "count(*) OVER() AS total_count")...).
		From("public.reservations")

	if filter.Resource != "" {
		query = query.Where(squirrel.Eq{"resource": filter.Resource})
	}
	if filter.Date != nil {
		dayStart := clock.StartOfDay(*filter.Date, filter.Location)
		query = query.
			Where(squirrel.GtOrEq{"start_time": dayStart}).
			Where(squirrel.Lt{"start_time": dayStart.AddDate(0, 0, 1)})
	}

	orderBy, ok := sortColumns[filter.SortBy]
	if !ok {
		orderBy = "start_time"
	}
	orderDir := "ASC"
	if strings.EqualFold(filter.SortOrder, "desc") {
		orderDir = "DESC"
	}
	query = query.OrderBy(orderBy+" "+orderDir, "created_at ASC")

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list reservations query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reservations failed: %w", err)
	}
	defer rows.Close()

	var result []*Reservation
	var total int

	for rows.Next() {
		var res Reservation
		if err := rows.Scan(
			&res.ID, &res.Resource, &res.RequestedBy, &res.StartTime, &res.EndTime, &res.CreatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan reservation failed: %w", err)
		}
		result = append(result, &res)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate reservations failed: %w", err)
	}

	return result, total, nil
}

func (r *pgxRepository) WithResourceLock(ctx context.Context, resource string, fn func(tx Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin reservation transaction failed: %w", err)
	}
	// Rollback after a successful commit is a no-op.
	defer func() { _ = tx.Rollback(ctx) }()

	// Released automatically when the transaction ends.
	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", resource); err != nil {
		return fmt.Errorf("acquire resource lock failed: %w", err)
	}

	if err := fn(&pgxQueries{db: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit reservation transaction failed: %w", err)
	}
	return nil
}
