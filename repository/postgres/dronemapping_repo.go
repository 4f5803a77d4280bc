package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/utm-observer/backend/domain"
	"github.com/utm-observer/backend/repository"
)

const droneMappingColumns = `name, serial_number, sisant, created_at, updated_at, deleted_at,
	created_by, updated_by, deleted_by`

type droneMappingRepository struct {
	pool *pgxpool.Pool
}

// NewDroneMappingRepository returns a Postgres-backed implementation of
// DroneMappingRepository.
func NewDroneMappingRepository(pool *pgxpool.Pool) repository.DroneMappingRepository {
	return &droneMappingRepository{pool: pool}
}

func (r *droneMappingRepository) Create(ctx context.Context, mapping *domain.DroneMapping) (*domain.DroneMapping, error) {
	if mapping == nil {
		return nil, domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO drone_mappings (name, serial_number, sisant, created_by)
	VALUES ($1, $2, $3, $4)
	RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		mapping.Name,
		mapping.SerialNumber,
		mapping.Sisant,
		mapping.CreatedBy,
	).Scan(&mapping.CreatedAt, &mapping.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.Errorf(domain.ErrCodeConflict, "drone mapping %q collides with an existing record", mapping.Name)
		}
		return nil, err
	}
	return mapping, nil
}

// BulkCreate inserts the batch inside a single transaction; any failure
// rolls back every row.
func (r *droneMappingRepository) BulkCreate(ctx context.Context, mappings []domain.DroneMapping) ([]domain.DroneMapping, error) {
	if len(mappings) == 0 {
		return nil, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const query = `
	INSERT INTO drone_mappings (name, serial_number, sisant, created_by)
	VALUES ($1, $2, $3, $4)
	RETURNING created_at, updated_at
	`
	for i := range mappings {
		m := &mappings[i]
		if err := tx.QueryRow(ctx, query, m.Name, m.SerialNumber, m.Sisant, m.CreatedBy).
			Scan(&m.CreatedAt, &m.UpdatedAt); err != nil {
			if isUniqueViolation(err) {
				return nil, domain.Errorf(domain.ErrCodeConflict, "drone mapping %q collides with an existing record", m.Name)
			}
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return mappings, nil
}

func (r *droneMappingRepository) GetByName(ctx context.Context, name string) (*domain.DroneMapping, error) {
	return r.getByField(ctx, "name", name)
}

func (r *droneMappingRepository) GetBySerialNumber(ctx context.Context, serialNumber string) (*domain.DroneMapping, error) {
	return r.getByField(ctx, "serial_number", serialNumber)
}

func (r *droneMappingRepository) GetBySisant(ctx context.Context, sisant string) (*domain.DroneMapping, error) {
	return r.getByField(ctx, "sisant", sisant)
}

func (r *droneMappingRepository) getByField(ctx context.Context, field, value string) (*domain.DroneMapping, error) {
	query := `
	SELECT ` + droneMappingColumns + `
	FROM drone_mappings
	WHERE ` + field + ` = $1 AND deleted_at IS NULL
	`
	return scanDroneMapping(r.pool.QueryRow(ctx, query, value))
}

func (r *droneMappingRepository) FindByIdentifier(ctx context.Context, identifier string) (*domain.DroneMapping, error) {
	const query = `
	SELECT ` + droneMappingColumns + `
	FROM drone_mappings
	WHERE (name = $1 OR serial_number = $1 OR sisant = $1) AND deleted_at IS NULL
	`
	return scanDroneMapping(r.pool.QueryRow(ctx, query, identifier))
}

func (r *droneMappingRepository) List(ctx context.Context, includeDeleted bool) ([]domain.DroneMapping, error) {
	const query = `
	SELECT ` + droneMappingColumns + `
	FROM drone_mappings
	WHERE ($1 OR deleted_at IS NULL)
	ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, includeDeleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDroneMappings(rows)
}

func (r *droneMappingRepository) ListDeleted(ctx context.Context) ([]domain.DroneMapping, error) {
	const query = `
	SELECT ` + droneMappingColumns + `
	FROM drone_mappings
	WHERE deleted_at IS NOT NULL
	ORDER BY deleted_at DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDroneMappings(rows)
}

func (r *droneMappingRepository) Update(ctx context.Context, name string, update repository.DroneMappingUpdate) (*domain.DroneMapping, error) {
	const query = `
	UPDATE drone_mappings
	SET serial_number = COALESCE($2, serial_number),
		sisant = COALESCE($3, sisant),
		updated_by = COALESCE($4, updated_by),
		updated_at = NOW()
	WHERE name = $1 AND deleted_at IS NULL
	RETURNING ` + droneMappingColumns + `
	`
	mapping, err := scanDroneMapping(r.pool.QueryRow(ctx, query,
		name,
		update.SerialNumber,
		update.Sisant,
		update.UpdatedBy,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.Errorf(domain.ErrCodeConflict, "drone mapping update for %q collides with an existing record", name)
		}
		return nil, err
	}
	return mapping, nil
}

func (r *droneMappingRepository) SoftDelete(ctx context.Context, name string, deletedBy *string) (bool, error) {
	const query = `
	UPDATE drone_mappings
	SET deleted_at = NOW(), deleted_by = $2, updated_at = NOW()
	WHERE name = $1 AND deleted_at IS NULL
	`
	tag, err := r.pool.Exec(ctx, query, name, deletedBy)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *droneMappingRepository) Restore(ctx context.Context, name string) (bool, error) {
	const query = `
	UPDATE drone_mappings
	SET deleted_at = NULL, deleted_by = NULL, updated_at = NOW()
	WHERE name = $1 AND deleted_at IS NOT NULL
	`
	tag, err := r.pool.Exec(ctx, query, name)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *droneMappingRepository) Exists(ctx context.Context, name string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM drone_mappings WHERE name = $1 AND deleted_at IS NULL)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, name).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func scanDroneMapping(row pgx.Row) (*domain.DroneMapping, error) {
	var mapping domain.DroneMapping
	if err := row.Scan(
		&mapping.Name,
		&mapping.SerialNumber,
		&mapping.Sisant,
		&mapping.CreatedAt,
		&mapping.UpdatedAt,
		&mapping.DeletedAt,
		&mapping.CreatedBy,
		&mapping.UpdatedBy,
		&mapping.DeletedBy,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDroneMappingNotFound
		}
		if isUniqueViolation(err) {
			return nil, err
		}
		return nil, domain.WrapError(domain.ErrCodeDataIntegrity, "failed to decode drone mapping row", err)
	}
	return &mapping, nil
}

func collectDroneMappings(rows pgx.Rows) ([]domain.DroneMapping, error) {
	var mappings []domain.DroneMapping
	for rows.Next() {
		mapping, err := scanDroneMapping(rows)
		if err != nil {
			return nil, err
		}
		mappings = append(mappings, *mapping)
	}
	return mappings, rows.Err()
}
