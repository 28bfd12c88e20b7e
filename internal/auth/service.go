// Copyright (c) 2026 BCR. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bcr-api/bcr/internal/platform/apperr"
	"github.com/bcr-api/bcr/internal/platform/ctxutil"
	"github.com/bcr-api/bcr/internal/platform/dberr"
	"github.com/bcr-api/bcr/internal/platform/metrics"
	"github.com/bcr-api/bcr/internal/platform/sec"
	"github.com/bcr-api/bcr/internal/platform/validate"
)

// errRegistrationDisabled is returned by Register and WhoAmI when no registry is wired.
var errRegistrationDisabled = errors.New("auth: user registry is not configured")

// TokenEncoder signs a payload into a bearer token.
type TokenEncoder interface {
	Encode(payload sec.TokenPayload) (string, error)
}

// Service implements the credential verification use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed by the security team.
type Service struct {
	directory UserDirectory
	registry  UserRegistry
	hasher    sec.PasswordHasher
	encoder   TokenEncoder
	metrics   *metrics.Metrics
}

// NewService constructs a new [Service].
//
// registry may be nil for a login-only deployment; recorder may be nil to
// disable metrics.
func NewService(
	directory UserDirectory,
	registry UserRegistry,
	hasher sec.PasswordHasher,
	encoder TokenEncoder,
	recorder *metrics.Metrics,
) *Service {
	return &Service{
		directory: directory,
		registry:  registry,
		hasher:    hasher,
		encoder:   encoder,
		metrics:   recorder,
	}
}

// Login verifies a credential and issues a bearer token.
//
// # Flow
//  1. START: an empty email or password is rejected (500 ValidationError).
//  2. LOOKUP_USER: unknown email becomes a 404 NotFoundError.
//  3. VERIFY_PASSWORD: mismatch becomes a 401 InsufficientAccessError.
//  4. ISSUE_TOKEN: the user snapshot is signed; codec failures propagate as faults.
//
// Steps run strictly in order and nothing is retried. Storage and codec
// errors are wrapped but never reclassified.
func (service *Service) Login(context context.Context, credential Credential) (string, error) {
	logger := ctxutil.GetLogger(context)

	// ── 1. Input Check ────────────────────────────────────────────────────

	email := strings.TrimSpace(credential.Email)
	if email == "" || strings.TrimSpace(credential.Password) == "" {
		service.metrics.RecordLogin(metrics.OutcomeInvalidInput)
		return "", apperr.InvalidInput("Email and password are required")
	}

	// ── 2. Lookup User ────────────────────────────────────────────────────

	user, err := service.directory.FindByEmail(context, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			service.metrics.RecordLogin(metrics.OutcomeNotFound)
			logger.InfoContext(context, "login_failed", slog.String("reason", "user_not_found"))
			return "", apperr.NotFound("login", email)
		}
		service.metrics.RecordLogin(metrics.OutcomeFault)
		return "", fmt.Errorf("auth_service_lookup_failed: %w", err)
	}

	// ── 3. Verify Password ────────────────────────────────────────────────

	if !service.hasher.Verify(context, credential.Password, user.PasswordHash) {
		// A cancelled request never reached the comparison.
		if ctxErr := context.Err(); ctxErr != nil {
			service.metrics.RecordLogin(metrics.OutcomeFault)
			return "", fmt.Errorf("auth_service_verify_aborted: %w", ctxErr)
		}
		service.metrics.RecordLogin(metrics.OutcomeUnauthorized)
		logger.InfoContext(context, "login_failed",
			slog.String("reason", "wrong_password"),
			slog.Int64("user_id", user.ID),
		)
		return "", apperr.InsufficientAccess("Wrong password")
	}

	// ── 4. Issue Token ────────────────────────────────────────────────────

	token, err := service.encoder.Encode(user.Payload())
	if err != nil {
		service.metrics.RecordLogin(metrics.OutcomeFault)
		return "", fmt.Errorf("auth_service_token_failed: %w", err)
	}

	service.metrics.RecordLogin(metrics.OutcomeSuccess)
	logger.InfoContext(context, "login_succeeded", slog.Int64("user_id", user.ID))

	return token, nil
}

// Register creates a CUSTOMER account and returns a token for it.
//
// # Business Rules
//   - Name, email and password are required; the email must be well-formed.
//   - Emails must be unique (422 EmailAlreadyTakenError).
//   - The role is always CUSTOMER.
func (service *Service) Register(context context.Context, input RegisterInput) (string, error) {
	if service.registry == nil {
		return "", errRegistrationDisabled
	}

	// ── 1. Validation ─────────────────────────────────────────────────────

	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)

	validator := &validate.Validator{}
	validator.
		Required("name", input.Name).
		MaxLen("name", input.Name, 255).
		Required("email", input.Email).
		Email("email", input.Email).
		MinLen("password", input.Password, 8).
		Custom("password", len(input.Password) > sec.MaxPasswordBytes, fmt.Sprintf("Maximum %d bytes", sec.MaxPasswordBytes))
	if err := validator.Err(); err != nil {
		return "", err
	}

	// ── 2. Uniqueness Check ───────────────────────────────────────────────

	_, err := service.directory.FindByEmail(context, input.Email)
	if err == nil {
		return "", apperr.EmailAlreadyTaken(input.Email)
	}
	if !errors.Is(err, ErrUserNotFound) {
		return "", fmt.Errorf("auth_service_register_lookup_failed: %w", err)
	}

	// ── 3. Role & Hash ────────────────────────────────────────────────────

	role, err := service.registry.FindRoleByName(context, sec.RoleCustomer)
	if err != nil {
		return "", fmt.Errorf("auth_service_register_role_failed: %w", err)
	}

	hashedPassword, err := service.hasher.Hash(context, input.Password)
	if err != nil {
		return "", fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// ── 4. Persistence ────────────────────────────────────────────────────

	user := &User{
		Name:         input.Name,
		Email:        input.Email,
		Image:        strings.TrimSpace(input.Image),
		PasswordHash: hashedPassword,
		Role:         role,
	}
	if err := service.registry.Create(context, user); err != nil {
		// Lost a race with a concurrent registration of the same email.
		if dberr.IsUniqueViolation(err) {
			return "", apperr.EmailAlreadyTaken(input.Email)
		}
		return "", fmt.Errorf("auth_service_register_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "user_registered", slog.Int64("user_id", user.ID))

	// ── 5. Token Issuance ─────────────────────────────────────────────────

	token, err := service.encoder.Encode(user.Payload())
	if err != nil {
		return "", fmt.Errorf("auth_service_token_failed: %w", err)
	}
	return token, nil
}

// WhoAmI returns the current state of the user a verified token names.
//
// The token's snapshot may be stale; this reads the stored record.
func (service *Service) WhoAmI(context context.Context, payload sec.TokenPayload) (*User, error) {
	if service.registry == nil {
		return nil, errRegistrationDisabled
	}

	user, err := service.registry.FindByID(context, payload.ID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperr.ResourceNotFound("User")
		}
		return nil, fmt.Errorf("auth_service_whoami_failed: %w", err)
	}
	return user, nil
}
