package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/utm-observer/backend/domain"
	"github.com/utm-observer/backend/repository"
)

const flightStripColumns = `name, flight_area, height, takeoff_space, landing_space,
	takeoff_time, landing_time, created_at, updated_at, deleted_at,
	created_by, updated_by, deleted_by`

type flightStripRepository struct {
	pool *pgxpool.Pool
}

// NewFlightStripRepository returns a Postgres-backed implementation of
// FlightStripRepository. The internal bigserial row id never leaves this
// package; the business key is the strip name.
func NewFlightStripRepository(pool *pgxpool.Pool) repository.FlightStripRepository {
	return &flightStripRepository{pool: pool}
}

func (r *flightStripRepository) Create(ctx context.Context, strip *domain.FlightStrip) (*domain.FlightStrip, error) {
	if strip == nil {
		return nil, domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO flight_strips (name, flight_area, height, takeoff_space, landing_space,
		takeoff_time, landing_time, created_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		strip.Name,
		strip.FlightArea,
		strip.Height,
		strip.TakeoffSpace,
		strip.LandingSpace,
		strip.TakeoffTime,
		strip.LandingTime,
		strip.CreatedBy,
	).Scan(&strip.CreatedAt, &strip.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.Errorf(domain.ErrCodeConflict, "flight strip %q already exists", strip.Name)
		}
		return nil, err
	}
	return strip, nil
}

func (r *flightStripRepository) GetByName(ctx context.Context, name string) (*domain.FlightStrip, error) {
	const query = `
	SELECT ` + flightStripColumns + `
	FROM flight_strips
	WHERE name = $1 AND deleted_at IS NULL
	`
	return scanFlightStrip(r.pool.QueryRow(ctx, query, name))
}

func (r *flightStripRepository) List(ctx context.Context, filter repository.FlightStripFilter) ([]domain.FlightStrip, error) {
	const query = `
	SELECT ` + flightStripColumns + `
	FROM flight_strips
	WHERE ($1 OR deleted_at IS NULL)
	ORDER BY created_at DESC
	LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, filter.IncludeDeleted, clampLimit(filter.Limit), filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFlightStrips(rows)
}

func (r *flightStripRepository) ListDeleted(ctx context.Context) ([]domain.FlightStrip, error) {
	const query = `
	SELECT ` + flightStripColumns + `
	FROM flight_strips
	WHERE deleted_at IS NOT NULL
	ORDER BY deleted_at DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFlightStrips(rows)
}

// Search filters by area equality and a takeoff-time range. The time bounds
// are "HH:MM" strings; plain text comparison is chronological for
// zero-padded values within one day.
func (r *flightStripRepository) Search(ctx context.Context, filter repository.FlightStripFilter) ([]domain.FlightStrip, error) {
	const query = `
	SELECT ` + flightStripColumns + `
	FROM flight_strips
	WHERE deleted_at IS NULL
	  AND ($1 = '' OR flight_area = $1)
	  AND ($2 = '' OR takeoff_time >= $2)
	  AND ($3 = '' OR takeoff_time <= $3)
	ORDER BY takeoff_time ASC
	LIMIT $4 OFFSET $5
	`
	rows, err := r.pool.Query(ctx, query,
		filter.FlightArea,
		filter.TakeoffTimeStart,
		filter.TakeoffTimeEnd,
		clampLimit(filter.Limit),
		filter.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFlightStrips(rows)
}

func (r *flightStripRepository) CountByArea(ctx context.Context) (map[domain.FlightArea]int, error) {
	const query = `
	SELECT flight_area, COUNT(*)
	FROM flight_strips
	WHERE deleted_at IS NULL
	GROUP BY flight_area
	ORDER BY flight_area
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.FlightArea]int)
	for rows.Next() {
		var area domain.FlightArea
		var count int
		if err := rows.Scan(&area, &count); err != nil {
			return nil, domain.WrapError(domain.ErrCodeDataIntegrity, "failed to decode area count row", err)
		}
		counts[area] = count
	}
	return counts, rows.Err()
}

func (r *flightStripRepository) Update(ctx context.Context, name string, update repository.FlightStripUpdate) (*domain.FlightStrip, error) {
	const query = `
	UPDATE flight_strips
	SET flight_area = COALESCE($2, flight_area),
		height = COALESCE($3, height),
		takeoff_space = COALESCE($4, takeoff_space),
		landing_space = COALESCE($5, landing_space),
		takeoff_time = COALESCE($6, takeoff_time),
		landing_time = COALESCE($7, landing_time),
		updated_by = COALESCE($8, updated_by),
		updated_at = NOW()
	WHERE name = $1 AND deleted_at IS NULL
	RETURNING ` + flightStripColumns + `
	`
	strip, err := scanFlightStrip(r.pool.QueryRow(ctx, query,
		name,
		update.FlightArea,
		update.Height,
		update.TakeoffSpace,
		update.LandingSpace,
		update.TakeoffTime,
		update.LandingTime,
		update.UpdatedBy,
	))
	if err != nil {
		return nil, err
	}
	return strip, nil
}

func (r *flightStripRepository) SoftDelete(ctx context.Context, name string, deletedBy *string) (bool, error) {
	const query = `
	UPDATE flight_strips
	SET deleted_at = NOW(), deleted_by = $2, updated_at = NOW()
	WHERE name = $1 AND deleted_at IS NULL
	`
	tag, err := r.pool.Exec(ctx, query, name, deletedBy)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *flightStripRepository) Restore(ctx context.Context, name string) (bool, error) {
	const query = `
	UPDATE flight_strips
	SET deleted_at = NULL, deleted_by = NULL, updated_at = NOW()
	WHERE name = $1 AND deleted_at IS NOT NULL
	`
	tag, err := r.pool.Exec(ctx, query, name)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Purge physically removes the row regardless of lifecycle state.
func (r *flightStripRepository) Purge(ctx context.Context, name string) (bool, error) {
	const query = `DELETE FROM flight_strips WHERE name = $1`
	tag, err := r.pool.Exec(ctx, query, name)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *flightStripRepository) Exists(ctx context.Context, name string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM flight_strips WHERE name = $1 AND deleted_at IS NULL)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, name).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func scanFlightStrip(row pgx.Row) (*domain.FlightStrip, error) {
	var strip domain.FlightStrip
	if err := row.Scan(
		&strip.Name,
		&strip.FlightArea,
		&strip.Height,
		&strip.TakeoffSpace,
		&strip.LandingSpace,
		&strip.TakeoffTime,
		&strip.LandingTime,
		&strip.CreatedAt,
		&strip.UpdatedAt,
		&strip.DeletedAt,
		&strip.CreatedBy,
		&strip.UpdatedBy,
		&strip.DeletedBy,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFlightStripNotFound
		}
		return nil, domain.WrapError(domain.ErrCodeDataIntegrity, "failed to decode flight strip row", err)
	}
	if !strip.FlightArea.Valid() {
		return nil, domain.Errorf(domain.ErrCodeDataIntegrity, "stored flight area %q is not a known zone", strip.FlightArea)
	}
	return &strip, nil
}

func collectFlightStrips(rows pgx.Rows) ([]domain.FlightStrip, error) {
	var strips []domain.FlightStrip
	for rows.Next() {
		strip, err := scanFlightStrip(rows)
		if err != nil {
			return nil, err
		}
		strips = append(strips, *strip)
	}
	return strips, rows.Err()
}
