// Copyright (c) 2026 BCR. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bcr-api/bcr/internal/platform/dberr"
	"github.com/bcr-api/bcr/internal/platform/sec"
)

// Querier is the subset of [pgxpool.Pool] the repository uses.
// pgxmock pools satisfy it as well.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresUserRepository implements [UserRepository] on the users and roles tables.
//
// # Error Mapping
//
// pgx.ErrNoRows becomes [ErrUserNotFound] or [ErrRoleNotFound]; every other
// driver error is wrapped and propagated unchanged in kind.
type PostgresUserRepository struct {
	db Querier
}

// NewUserRepository creates a new PostgreSQL implementation of [UserRepository].
func NewUserRepository(db Querier) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// selectUser is shared by the lookups; the role is always joined in.
const selectUser = `
	SELECT u.id, u.name, u.email, COALESCE(u.image, ''), u.encrypted_password,
	       r.id, r.name, u.created_at, u.updated_at
	FROM users u
	JOIN roles r ON r.id = u.role_id`

// FindByEmail retrieves a user record by their unique email address.
func (repository *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	user, err := scanUser(repository.db.QueryRow(ctx, selectUser+` WHERE u.email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_email_failed: %w", err)
	}
	return user, nil
}

// FindByID retrieves a user record by primary key.
func (repository *PostgresUserRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	user, err := scanUser(repository.db.QueryRow(ctx, selectUser+` WHERE u.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_id_failed: %w", err)
	}
	return user, nil
}

// FindRoleByName resolves a role by its unique name.
func (repository *PostgresUserRepository) FindRoleByName(ctx context.Context, name string) (sec.RoleRef, error) {
	const query = `SELECT id, name FROM roles WHERE name = $1`

	var role sec.RoleRef
	if err := repository.db.QueryRow(ctx, query, name).Scan(&role.ID, &role.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return sec.RoleRef{}, ErrRoleNotFound
		}
		return sec.RoleRef{}, fmt.Errorf("postgres_user_repo_find_role_failed: %w", err)
	}
	return role, nil
}

// Create inserts a new user row and fills in the generated ID and timestamps.
func (repository *PostgresUserRepository) Create(ctx context.Context, user *User) error {
	const query = `
		INSERT INTO users (name, email, encrypted_password, image, role_id)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5)
		RETURNING id, created_at, updated_at`

	err := repository.db.QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Image,
		user.Role.ID,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	return dberr.Wrap(err, "User", "postgres_user_repo_create_failed")
}

// scanUser reads one row produced by [selectUser].
func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Image,
		&user.PasswordHash,
		&user.Role.ID,
		&user.Role.Name,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}
