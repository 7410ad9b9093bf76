package postgres

import (
	"context"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/identra/identity-service/internal/core/domain"
	"github.com/identra/identity-service/internal/repository"
)

// Seeder installs the built-in system roles and the root wildcard permission.
// Seeding is idempotent: existing rows are left untouched.
type Seeder struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
	logger  *zap.Logger
}

// NewSeeder constructs a seeder backed by the provided pool.
func NewSeeder(pool *pgxpool.Pool, logger *zap.Logger) *Seeder {
	return &Seeder{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		logger:  logger,
	}
}

type seedRole struct {
	name        string
	description string
	wildcard    bool
}

var systemRoles = []seedRole{
	{name: "ADMIN", description: "Full administrative access", wildcard: true},
	{name: "USER", description: "Standard authenticated user"},
	{name: "GUEST", description: "Unauthenticated visitor"},
}

// Run installs the system roles, creating the wildcard permission for the
// administrative role when it does not exist yet.
func (s *Seeder) Run(ctx context.Context) error {
	roles := NewRoleRepository(s.pool)
	permissions := NewPermissionRepository(s.pool)

	wildcardID, err := s.ensureWildcardPermission(ctx, permissions)
	if err != nil {
		return err
	}

	for _, seed := range systemRoles {
		if _, err := roles.GetByName(ctx, seed.name); err == nil {
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("lookup system role %s: %w", seed.name, err)
		}

		var permissionIDs []domain.PermissionID
		if seed.wildcard {
			permissionIDs = []domain.PermissionID{wildcardID}
		}

		role, err := domain.NewRole(seed.name, seed.description, permissionIDs)
		if err != nil {
			return fmt.Errorf("build system role %s: %w", seed.name, err)
		}

		if err := s.insertSystemRole(ctx, role); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				continue
			}
			return err
		}

		s.logger.Info("seeded system role", zap.String("role", seed.name))
	}

	return nil
}

// findWildcardID looks up the stored *:* permission, if any.
func (s *Seeder) findWildcardID(ctx context.Context) (domain.PermissionID, bool, error) {
	stmt, args, err := s.builder.Select("id").
		From(permissionsTable).
		Where(squirrel.Eq{"resource": domain.Wildcard, "action": domain.Wildcard}).
		Limit(1).
		ToSql()
	if err != nil {
		return domain.PermissionID{}, false, fmt.Errorf("build select wildcard permission sql: %w", err)
	}

	var raw string
	switch err := s.exec.QueryRow(ctx, stmt, args...).Scan(&raw); {
	case err == nil:
		return domain.PermissionIDFromStorage(raw), true, nil
	case errors.Is(err, pgx.ErrNoRows):
		return domain.PermissionID{}, false, nil
	default:
		return domain.PermissionID{}, false, fmt.Errorf("query wildcard permission: %w", err)
	}
}

// ensureWildcardPermission loads or creates the *:* permission. When another
// instance wins the insert race the stored row's id is used, never the local
// entity's.
func (s *Seeder) ensureWildcardPermission(ctx context.Context, permissions *PermissionRepository) (domain.PermissionID, error) {
	if id, found, err := s.findWildcardID(ctx); err != nil {
		return domain.PermissionID{}, err
	} else if found {
		return id, nil
	}

	permission, err := domain.NewPermission(domain.Wildcard, domain.Wildcard, "Grants every action on every resource")
	if err != nil {
		return domain.PermissionID{}, fmt.Errorf("build wildcard permission: %w", err)
	}

	if err := permissions.Create(ctx, permission); err != nil {
		if !errors.Is(err, repository.ErrConflict) {
			return domain.PermissionID{}, fmt.Errorf("create wildcard permission: %w", err)
		}

		id, found, err := s.findWildcardID(ctx)
		if err != nil {
			return domain.PermissionID{}, err
		}
		if !found {
			return domain.PermissionID{}, errors.New("wildcard permission missing after insert conflict")
		}
		return id, nil
	}

	s.logger.Info("seeded wildcard permission", zap.String("permission_id", permission.ID().String()))
	return permission.ID(), nil
}

// insertSystemRole writes the role with is_system forced on. The domain only
// creates custom roles, so the flag is set at the storage boundary.
func (s *Seeder) insertSystemRole(ctx context.Context, role *domain.Role) error {
	stmt, args, err := s.builder.Insert(rolesTable).
		Columns(roleColumns...).
		Values(
			role.ID().String(),
			role.Name(),
			role.Description(),
			true,
			role.CreatedAt(),
			role.UpdatedAt(),
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert system role sql: %w", err)
	}

	if _, err := s.exec.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("insert system role: %w", err)
	}

	ids := role.PermissionIDs()
	if len(ids) == 0 {
		return nil
	}

	insert := s.builder.Insert(rolePermissionsTable).Columns("role_id", "permission_id")
	for _, id := range ids {
		insert = insert.Values(role.ID().String(), id.String())
	}

	joinStmt, joinArgs, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("build insert system role permissions sql: %w", err)
	}
	if _, err := s.exec.Exec(ctx, joinStmt, joinArgs...); err != nil {
		return fmt.Errorf("insert system role permissions: %w", err)
	}

	return nil
}
