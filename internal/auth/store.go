// Copyright (c) 2026 BCR. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"

	"github.com/bcr-api/bcr/internal/platform/sec"
)

// ErrUserNotFound is the distinguishable "no such user" result of every lookup.
var ErrUserNotFound = errors.New("auth: user not found")

// ErrRoleNotFound is returned when a role name has no row.
var ErrRoleNotFound = errors.New("auth: role not found")

// UserDirectory is the read port the login protocol depends on.
//
// # Implementations
//
// The canonical implementation is PostgreSQL ([PostgresUserRepository]).
// Tests inject in-memory fakes.
type UserDirectory interface {
	// FindByEmail returns the user with the given email, with its role resolved.
	//
	// Returns [ErrUserNotFound] if no user is registered with this email.
	FindByEmail(ctx context.Context, email string) (*User, error)
}

// UserRegistry is the port for registration and identity refresh.
type UserRegistry interface {
	// FindByID returns the user with the given ID.
	//
	// Returns [ErrUserNotFound] if the account does not exist.
	FindByID(ctx context.Context, id int64) (*User, error)

	// FindRoleByName resolves a role name to its stored reference.
	//
	// Returns [ErrRoleNotFound] if the role does not exist.
	FindRoleByName(ctx context.Context, name string) (sec.RoleRef, error)

	// Create persists a new user and fills in its ID and timestamps.
	//
	// Returns an error wrapping [dberr.ErrUniqueViolation] if the email is taken.
	Create(ctx context.Context, user *User) error
}

// UserRepository is the full storage contract implemented by Postgres.
type UserRepository interface {
	UserDirectory
	UserRegistry
}
