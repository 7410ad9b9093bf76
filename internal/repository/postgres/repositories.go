package postgres

import "github.com/jackc/pgx/v5/pgxpool"

// Repositories bundles the PostgreSQL adapters so the composition root can
// construct them in one call.
type Repositories struct {
	Users       *UserRepository
	Roles       *RoleRepository
	Permissions *PermissionRepository
}

// NewRepositories builds every repository on the shared pool.
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Users:       NewUserRepository(pool),
		Roles:       NewRoleRepository(pool),
		Permissions: NewPermissionRepository(pool),
	}
}
