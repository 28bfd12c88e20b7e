// Copyright (c) 2026 BCR. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via the [PasswordHasher] and [TokenCodec] interfaces.
package sec

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bcr-api/bcr/internal/platform/apperr"
)

// ErrEmptySecret is returned when the codec is constructed without a signing key.
var ErrEmptySecret = errors.New("sec: token signing secret is empty")

// errIncompletePayload marks a payload missing its identifying fields.
var errIncompletePayload = errors.New("sec: token payload requires id and email")

// RoleRef is the role snapshot embedded in a token.
type RoleRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TokenPayload is the identity snapshot carried by a bearer token.
//
// It never contains a password or password hash. Later changes to the user
// do not affect tokens that were already issued.
type TokenPayload struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Image string  `json:"image"`
	Role  RoleRef `json:"role"`
}

// Validate reports whether the payload has the fields every token needs.
//
// The jwt parser calls it after signature verification, so a signed token
// with a foreign payload shape is rejected as invalid.
func (payload TokenPayload) Validate() error {
	if payload.ID == 0 || payload.Email == "" {
		return errIncompletePayload
	}
	return nil
}

// tokenClaims is the JWT body: the payload fields at the top level and
// no registered claims (no exp, no iat), so encoding is deterministic.
type tokenClaims struct {
	TokenPayload
	jwt.RegisteredClaims
}

// TokenCodec signs payloads into bearer tokens and verifies them back.
type TokenCodec interface {
	Encode(payload TokenPayload) (string, error)
	Decode(token string) (TokenPayload, error)
}

// JWTCodec implements [TokenCodec] with HS256 JWTs keyed by a process-wide secret.
type JWTCodec struct {
	secret []byte
	parser *jwt.Parser
}

// NewTokenCodec creates a codec bound to secret.
//
// The secret is copied and never exposed again.
func NewTokenCodec(secret string) (*JWTCodec, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	return &JWTCodec{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			// Strict decoding rejects non-zero trailing bits, so every
			// character of the signature segment is significant.
			jwt.WithStrictDecoding(),
		),
	}, nil
}

// Encode signs payload into a compact JWT (header.payload.signature).
func (codec *JWTCodec) Encode(payload TokenPayload) (string, error) {
	if err := payload.Validate(); err != nil {
		return "", fmt.Errorf("sec: failed to encode token: %w", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{TokenPayload: payload})
	signedToken, err := token.SignedString(codec.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Decode verifies token and returns its payload.
//
// Any failure (bad signature, wrong algorithm, malformed string, foreign
// payload shape) is reported as an InvalidTokenError.
func (codec *JWTCodec) Decode(token string) (TokenPayload, error) {
	claims := &tokenClaims{}
	parsedToken, err := codec.parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return codec.secret, nil
	})
	if err != nil {
		return TokenPayload{}, apperr.InvalidToken(err)
	}
	if !parsedToken.Valid {
		return TokenPayload{}, apperr.InvalidToken(errors.New("sec: token failed validation"))
	}

	return claims.TokenPayload, nil
}
