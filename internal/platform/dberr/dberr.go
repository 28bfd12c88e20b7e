// Copyright (c) 2026 BCR. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bcr-api/bcr/internal/platform/apperr"
)

// ErrUniqueViolation marks an insert or update that collided with a unique index.
var ErrUniqueViolation = errors.New("dberr: unique constraint violation")

// Wrap inspects a database error and classifies it.
//
//   - pgx.ErrNoRows becomes a 404 [apperr.ResourceNotFound] for resource.
//   - A unique violation is wrapped with [ErrUniqueViolation].
//   - Anything else is wrapped with the action name and surfaces as a 500.
func Wrap(err error, resource, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.ResourceNotFound(resource)
	}

	// 2. Constraint mapping
	if IsUniqueViolation(err) {
		return fmt.Errorf("%s: %w: %w", action, ErrUniqueViolation, err)
	}

	// 3. Unknown query errors are hidden behind the generic 500
	return fmt.Errorf("%s: %w", action, err)
}

// IsUniqueViolation reports whether err is a Postgres unique violation.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, ErrUniqueViolation) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
