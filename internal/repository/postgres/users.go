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

const usersTable = "identity.users"

var userColumns = []string{
	"id",
	"email",
	"password_hash",
	"first_name",
	"last_name",
	"is_active",
	"role_id",
	"created_at",
	"updated_at",
}

// UserRepository implements port.UserRepository using PostgreSQL.
type UserRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewUserRepository wires a PostgreSQL-backed user repository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *UserRepository) WithTx(tx pgx.Tx) *UserRepository {
	if tx == nil {
		return r
	}
	return &UserRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// Create inserts a new user row.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	stmt, args, err := r.builder.Insert(usersTable).
		Columns(userColumns...).
		Values(
			user.ID().String(),
			user.Email().String(),
			user.PasswordHash(),
			user.FirstName(),
			user.LastName(),
			user.IsActive(),
			user.RoleID().String(),
			user.CreatedAt(),
			user.UpdatedAt(),
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert user sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by identifier.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	stmt, args, err := r.builder.Select(userColumns...).
		From(usersTable).
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user by id sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	user, err := scanUser(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user by id: %w", err)
	}

	return user, nil
}

// GetByEmail retrieves a user by normalized email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	stmt, args, err := r.builder.Select(userColumns...).
		From(usersTable).
		Where(squirrel.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user by email sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	user, err := scanUser(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user by email: %w", err)
	}

	return user, nil
}

// ExistsByEmail reports whether a user with the email already exists.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	stmt, args, err := r.builder.Select("1").
		From(usersTable).
		Where(squirrel.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build select user exists sql: %w", err)
	}

	var one int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("query user exists: %w", err)
	}

	return true, nil
}

// List returns users ordered by creation time, newest first.
func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	stmt, args, err := r.builder.Select(userColumns...).
		From(usersTable).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select users sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := make([]*domain.User, 0, limit)
	for rows.Next() {
		user, err := scanUser(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user rows: %w", err)
	}

	return users, nil
}

// Count returns the total number of users.
func (r *UserRepository) Count(ctx context.Context) (int, error) {
	stmt, args, err := r.builder.Select("COUNT(*)").
		From(usersTable).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count users sql: %w", err)
	}

	var count int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}

	return count, nil
}

// Update persists mutable user fields.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	stmt, args, err := r.builder.Update(usersTable).
		Set("email", user.Email().String()).
		Set("password_hash", user.PasswordHash()).
		Set("first_name", user.FirstName()).
		Set("last_name", user.LastName()).
		Set("is_active", user.IsActive()).
		Set("role_id", user.RoleID().String()).
		Set("updated_at", user.UpdatedAt()).
		Where(squirrel.Eq{"id": user.ID().String()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update user sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("update user: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a user row and reports whether it existed.
func (r *UserRepository) Delete(ctx context.Context, id string) (bool, error) {
	stmt, args, err := r.builder.Delete(usersTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build delete user sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}

	return ct.RowsAffected() > 0, nil
}

func scanUser(scan func(dest ...any) error) (*domain.User, error) {
	var props struct {
		id           string
		email        string
		passwordHash string
		firstName    string
		lastName     string
		isActive     bool
		roleID       string
		createdAt    time.Time
		updatedAt    time.Time
	}

	if err := scan(
		&props.id,
		&props.email,
		&props.passwordHash,
		&props.firstName,
		&props.lastName,
		&props.isActive,
		&props.roleID,
		&props.createdAt,
		&props.updatedAt,
	); err != nil {
		return nil, err
	}

	return domain.ReconstituteUser(domain.UserProps{
		ID:           domain.UserIDFromStorage(props.id),
		Email:        domain.EmailFromStorage(props.email),
		PasswordHash: props.passwordHash,
		FirstName:    props.firstName,
		LastName:     props.lastName,
		IsActive:     props.isActive,
		RoleID:       domain.RoleIDFromStorage(props.roleID),
		CreatedAt:    props.createdAt,
		UpdatedAt:    props.updatedAt,
	}), nil
}

var _ port.UserRepository = (*UserRepository)(nil)
