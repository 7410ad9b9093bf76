package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/identra/identity-service/internal/core/domain"
	"github.com/identra/identity-service/internal/core/port"
	"github.com/identra/identity-service/internal/repository"
)

const permissionsTable = "identity.permissions"

var permissionColumns = []string{
	"id",
	"resource",
	"action",
	"description",
	"created_at",
}

// PermissionRepository implements port.PermissionRepository over PostgreSQL.
type PermissionRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewPermissionRepository constructs a permission repository instance.
func NewPermissionRepository(pool *pgxpool.Pool) *PermissionRepository {
	return &PermissionRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *PermissionRepository) WithTx(tx pgx.Tx) *PermissionRepository {
	if tx == nil {
		return r
	}
	return &PermissionRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// Create inserts a new permission row.
func (r *PermissionRepository) Create(ctx context.Context, permission *domain.Permission) error {
	stmt, args, err := r.builder.Insert(permissionsTable).
		Columns(permissionColumns...).
		Values(
			permission.ID().String(),
			permission.Resource(),
			permission.Action(),
			permission.Description(),
			permission.CreatedAt(),
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert permission sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("insert permission: %w", err)
	}

	return nil
}

// GetByID retrieves a permission by its identifier.
func (r *PermissionRepository) GetByID(ctx context.Context, id string) (*domain.Permission, error) {
	stmt, args, err := r.builder.Select(permissionColumns...).
		From(permissionsTable).
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select permission by id sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	permission, err := scanPermission(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan permission by id: %w", err)
	}

	return permission, nil
}

// GetByIDs bulk-loads permissions. Ids that do not resolve are omitted from
// the result.
func (r *PermissionRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Permission, error) {
	if len(ids) == 0 {
		return []*domain.Permission{}, nil
	}

	stmt, args, err := r.builder.Select(permissionColumns...).
		From(permissionsTable).
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select permissions by ids sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query permissions by ids: %w", err)
	}
	defer rows.Close()

	permissions := make([]*domain.Permission, 0, len(ids))
	for rows.Next() {
		permission, err := scanPermission(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan permission row: %w", err)
		}
		permissions = append(permissions, permission)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate permission rows: %w", err)
	}

	return permissions, nil
}

// ExistsByResourceAction reports whether the resource/action pair is taken.
func (r *PermissionRepository) ExistsByResourceAction(ctx context.Context, resource, action string) (bool, error) {
	stmt, args, err := r.builder.Select("1").
		From(permissionsTable).
		Where(squirrel.Eq{"resource": resource, "action": action}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build select permission exists sql: %w", err)
	}

	var one int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("query permission exists: %w", err)
	}

	return true, nil
}

// List returns permissions ordered by resource then action.
func (r *PermissionRepository) List(ctx context.Context, limit, offset int) ([]*domain.Permission, error) {
	stmt, args, err := r.builder.Select(permissionColumns...).
		From(permissionsTable).
		OrderBy("resource ASC", "action ASC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select permissions sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query permissions: %w", err)
	}
	defer rows.Close()

	permissions := make([]*domain.Permission, 0, limit)
	for rows.Next() {
		permission, err := scanPermission(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan permission row: %w", err)
		}
		permissions = append(permissions, permission)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate permission rows: %w", err)
	}

	return permissions, nil
}

// Count returns the total number of permissions.
func (r *PermissionRepository) Count(ctx context.Context) (int, error) {
	stmt, args, err := r.builder.Select("COUNT(*)").
		From(permissionsTable).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count permissions sql: %w", err)
	}

	var count int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count permissions: %w", err)
	}

	return count, nil
}

// Update persists the permission description. Resource and action are frozen
// after creation so they never appear in the update set.
func (r *PermissionRepository) Update(ctx context.Context, permission *domain.Permission) error {
	stmt, args, err := r.builder.Update(permissionsTable).
		Set("description", permission.Description()).
		Where(squirrel.Eq{"id": permission.ID().String()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update permission sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update permission: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a permission row and reports whether it existed. The
// role_permissions join rows cascade at the schema level.
func (r *PermissionRepository) Delete(ctx context.Context, id string) (bool, error) {
	stmt, args, err := r.builder.Delete(permissionsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build delete permission sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return false, fmt.Errorf("delete permission: %w", err)
	}

	return ct.RowsAffected() > 0, nil
}

func scanPermission(scan func(dest ...any) error) (*domain.Permission, error) {
	var props struct {
		id          string
		resource    string
		action      string
		description string
		createdAt   time.Time
	}

	if err := scan(
		&props.id,
		&props.resource,
		&props.action,
		&props.description,
		&props.createdAt,
	); err != nil {
		return nil, err
	}

	return domain.ReconstitutePermission(domain.PermissionProps{
		ID:          domain.PermissionIDFromStorage(props.id),
		Resource:    props.resource,
		Action:      props.action,
		Description: props.description,
		CreatedAt:   props.createdAt,
	}), nil
}

var _ port.PermissionRepository = (*PermissionRepository)(nil)
