// Copyright (c) 2026 BCR. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package auth implements credential verification and bearer-token issuance.
//
// # Architecture
//
// The [Service] turns an email/password pair into a signed token by walking
// a fixed sequence: look up the user, verify the password, encode the token.
// Each failure exit maps to exactly one typed [apperr.AppError] kind. The
// service knows nothing about HTTP or SQL; it talks to storage through the
// [UserDirectory] and [UserRegistry] ports.
package auth

import (
	"log/slog"
	"time"

	"github.com/bcr-api/bcr/internal/platform/sec"
)

// User is the stored account record as seen by this package.
//
// # Rules
//   - Email is unique.
//   - PasswordHash is a bcrypt string and never leaves the process.
//   - Role is carried by value; tokens snapshot it at issuance.
type User struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Image        string      `json:"image"`
	PasswordHash string      `json:"-"` // Explicitly omitted from JSON for security.
	Role         sec.RoleRef `json:"role"`
	CreatedAt    time.Time   `json:"-"`
	UpdatedAt    time.Time   `json:"-"`
}

// Payload snapshots the user into the claims a token carries.
func (user *User) Payload() sec.TokenPayload {
	return sec.TokenPayload{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Image: user.Image,
		Role:  user.Role,
	}
}

// Credential is a login attempt. It lives for one request only.
type Credential struct {
	Email    string
	Password string
}

// LogValue keeps the password out of structured logs.
func (credential Credential) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("email", credential.Email),
		slog.String("password", "[REDACTED]"),
	)
}

// RegisterInput holds the data required to enroll a new customer.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Image    string
}
