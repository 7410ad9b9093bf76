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

const (
	rolesTable           = "identity.roles"
	rolePermissionsTable = "identity.role_permissions"
)

var roleColumns = []string{
	"id",
	"name",
	"description",
	"is_system",
	"created_at",
	"updated_at",
}

// RoleRepository implements port.RoleRepository using PostgreSQL. The
// permission set lives in a join table and is loaded alongside every role.
type RoleRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewRoleRepository wires a PostgreSQL-backed role repository.
func NewRoleRepository(pool *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *RoleRepository) WithTx(tx pgx.Tx) *RoleRepository {
	if tx == nil {
		return r
	}
	return &RoleRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// inTx runs fn against a transaction-scoped repository. The role row and its
// join rows must move together, so every multi-statement write goes through
// here. When the executor cannot begin a transaction fn runs on it directly.
func (r *RoleRepository) inTx(ctx context.Context, fn func(*RoleRepository) error) error {
	beginner, ok := r.exec.(interface {
		Begin(ctx context.Context) (pgx.Tx, error)
	})
	if !ok {
		return fn(r)
	}

	return pgx.BeginFunc(ctx, beginner, func(tx pgx.Tx) error {
		return fn(r.WithTx(tx))
	})
}

// Create inserts a new role row plus its permission join rows atomically.
func (r *RoleRepository) Create(ctx context.Context, role *domain.Role) error {
	return r.inTx(ctx, func(txr *RoleRepository) error {
		return txr.create(ctx, role)
	})
}

func (r *RoleRepository) create(ctx context.Context, role *domain.Role) error {
	stmt, args, err := r.builder.Insert(rolesTable).
		Columns(roleColumns...).
		Values(
			role.ID().String(),
			role.Name(),
			role.Description(),
			role.IsSystem(),
			role.CreatedAt(),
			role.UpdatedAt(),
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert role sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("insert role: %w", err)
	}

	return r.insertPermissions(ctx, role.ID().String(), role.PermissionIDs())
}

// GetByID retrieves a role and its permission ids.
func (r *RoleRepository) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

// GetByName retrieves a role by its unique normalized name.
func (r *RoleRepository) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	return r.getBy(ctx, squirrel.Eq{"name": name})
}

func (r *RoleRepository) getBy(ctx context.Context, pred squirrel.Eq) (*domain.Role, error) {
	stmt, args, err := r.builder.Select(roleColumns...).
		From(rolesTable).
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select role sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	props, err := scanRoleRow(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan role: %w", err)
	}

	permissionIDs, err := r.loadPermissionIDs(ctx, props.ID.String())
	if err != nil {
		return nil, err
	}
	props.PermissionIDs = permissionIDs

	return domain.ReconstituteRole(*props), nil
}

// ExistsByName reports whether a role with the normalized name exists.
func (r *RoleRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	stmt, args, err := r.builder.Select("1").
		From(rolesTable).
		Where(squirrel.Eq{"name": name}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build select role exists sql: %w", err)
	}

	var one int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("query role exists: %w", err)
	}

	return true, nil
}

// List returns roles ordered by name with their permission ids attached.
func (r *RoleRepository) List(ctx context.Context, limit, offset int) ([]*domain.Role, error) {
	stmt, args, err := r.builder.Select(roleColumns...).
		From(rolesTable).
		OrderBy("name ASC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select roles sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query roles: %w", err)
	}
	defer rows.Close()

	propsList := make([]*domain.RoleProps, 0, limit)
	for rows.Next() {
		props, err := scanRoleRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan role row: %w", err)
		}
		propsList = append(propsList, props)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate role rows: %w", err)
	}

	roles := make([]*domain.Role, 0, len(propsList))
	for _, props := range propsList {
		permissionIDs, err := r.loadPermissionIDs(ctx, props.ID.String())
		if err != nil {
			return nil, err
		}
		props.PermissionIDs = permissionIDs
		roles = append(roles, domain.ReconstituteRole(*props))
	}

	return roles, nil
}

// Count returns the total number of roles.
func (r *RoleRepository) Count(ctx context.Context) (int, error) {
	stmt, args, err := r.builder.Select("COUNT(*)").
		From(rolesTable).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count roles sql: %w", err)
	}

	var count int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count roles: %w", err)
	}

	return count, nil
}

// Update persists the role row and rewrites the permission join rows to
// mirror the entity's current set, all within one transaction so a failed
// re-insert cannot leave the role stripped of its grants.
func (r *RoleRepository) Update(ctx context.Context, role *domain.Role) error {
	return r.inTx(ctx, func(txr *RoleRepository) error {
		return txr.update(ctx, role)
	})
}

func (r *RoleRepository) update(ctx context.Context, role *domain.Role) error {
	stmt, args, err := r.builder.Update(rolesTable).
		Set("name", role.Name()).
		Set("description", role.Description()).
		Set("updated_at", role.UpdatedAt()).
		Where(squirrel.Eq{"id": role.ID().String()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update role sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("update role: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	delStmt, delArgs, err := r.builder.Delete(rolePermissionsTable).
		Where(squirrel.Eq{"role_id": role.ID().String()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete role permissions sql: %w", err)
	}
	if _, err := r.exec.Exec(ctx, delStmt, delArgs...); err != nil {
		return fmt.Errorf("delete role permissions: %w", err)
	}

	return r.insertPermissions(ctx, role.ID().String(), role.PermissionIDs())
}

// Delete removes a role row and reports whether it existed. Join rows cascade
// at the schema level.
func (r *RoleRepository) Delete(ctx context.Context, id string) (bool, error) {
	stmt, args, err := r.builder.Delete(rolesTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build delete role sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return false, fmt.Errorf("delete role: %w", err)
	}

	return ct.RowsAffected() > 0, nil
}

func (r *RoleRepository) insertPermissions(ctx context.Context, roleID string, permissionIDs []domain.PermissionID) error {
	if len(permissionIDs) == 0 {
		return nil
	}

	insert := r.builder.Insert(rolePermissionsTable).Columns("role_id", "permission_id")
	for _, permissionID := range permissionIDs {
		insert = insert.Values(roleID, permissionID.String())
	}

	stmt, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("build insert role permissions sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert role permissions: %w", err)
	}

	return nil
}

func (r *RoleRepository) loadPermissionIDs(ctx context.Context, roleID string) ([]domain.PermissionID, error) {
	stmt, args, err := r.builder.Select("permission_id").
		From(rolePermissionsTable).
		Where(squirrel.Eq{"role_id": roleID}).
		OrderBy("permission_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select role permissions sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query role permissions: %w", err)
	}
	defer rows.Close()

	ids := make([]domain.PermissionID, 0)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan role permission row: %w", err)
		}
		ids = append(ids, domain.PermissionIDFromStorage(raw))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate role permission rows: %w", err)
	}

	return ids, nil
}

func scanRoleRow(scan func(dest ...any) error) (*domain.RoleProps, error) {
	var props struct {
		id          string
		name        string
		description string
		isSystem    bool
		createdAt   time.Time
		updatedAt   time.Time
	}

	if err := scan(
		&props.id,
		&props.name,
		&props.description,
		&props.isSystem,
		&props.createdAt,
		&props.updatedAt,
	); err != nil {
		return nil, err
	}

	return &domain.RoleProps{
		ID:          domain.RoleIDFromStorage(props.id),
		Name:        props.name,
		Description: props.description,
		IsSystem:    props.isSystem,
		CreatedAt:   props.createdAt,
		UpdatedAt:   props.updatedAt,
	}, nil
}

var _ port.RoleRepository = (*RoleRepository)(nil)
