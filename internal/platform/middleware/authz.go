// Copyright (c) 2026 BCR. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bcr-api/bcr/internal/platform/apperr"
	"github.com/bcr-api/bcr/internal/platform/constants"
	"github.com/bcr-api/bcr/internal/platform/ctxutil"
	"github.com/bcr-api/bcr/internal/platform/respond"
	"github.com/bcr-api/bcr/internal/platform/sec"
)

var (
	errMissingToken   = errors.New("middleware: authorization header is missing")
	errMalformedToken = errors.New("middleware: authorization header is not a bearer token")
)

// TokenDecoder defines the interface needed to verify tokens in middleware.
//
// # Why an interface?
//
// Defining TokenDecoder here decouples the middleware from the concrete
// [sec.JWTCodec], allowing us to easily inject fakes during unit testing.
type TokenDecoder interface {
	Decode(token string) (sec.TokenPayload, error)
}

// Authenticate requires a valid bearer token on every request it wraps.
//
// # Flow
//  1. Read the 'Authorization: Bearer <token>' header.
//  2. If absent or ill-formed, abort with 401 InvalidTokenError.
//  3. Verify the token via [TokenDecoder]; failures abort with 401 InvalidTokenError.
//  4. Inject the [*sec.TokenPayload] into the request context for downstream use.
func Authenticate(decoder TokenDecoder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Format Validation ──────────────────────────────────────────
			tokenStr, err := bearerToken(request)
			if err != nil {
				respond.Error(writer, request, apperr.InvalidToken(err))
				return
			}

			// ── 2. Token Verification ─────────────────────────────────────────
			payload, err := decoder.Decode(tokenStr)
			if err != nil {
				if !apperr.IsAppError(err) {
					err = apperr.InvalidToken(err)
				}
				respond.Error(writer, request, err)
				return
			}

			// ── 3. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithAuthUser(request.Context(), &payload)
			ctx = ctxutil.WithLogger(ctx, ctxutil.GetLogger(ctx).With(slog.Int64("user_id", payload.ID)))
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireRole blocks requests if the authenticated user doesn't have the required role.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
//
// # Flow
//  1. Check if [*sec.TokenPayload] exists in context (implies AuthN).
//  2. Check if the token's role meets or exceeds the target using [sec.AtLeast].
//  3. If insufficient, abort with 401 InsufficientAccessError.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			payload := ctxutil.GetAuthUser(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if payload == nil {
				respond.Error(writer, request, apperr.InvalidToken(errMissingToken))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !sec.AtLeast(payload.Role.Name, role) {
				respond.Error(writer, request, apperr.InsufficientAccess("Access forbidden!"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// Authorize chains [Authenticate] and, when role is non-empty, [RequireRole].
func Authorize(decoder TokenDecoder, role string) func(http.Handler) http.Handler {
	authenticate := Authenticate(decoder)
	if role == "" {
		return authenticate
	}
	requireRole := RequireRole(role)
	return func(next http.Handler) http.Handler {
		return authenticate(requireRole(next))
	}
}

// bearerToken extracts the token from an 'Authorization: Bearer <token>' header.
func bearerToken(request *http.Request) (string, error) {
	header := request.Header.Get(constants.HeaderAuthorization)
	if header == "" {
		return "", errMissingToken
	}

	scheme, token, found := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !found || !strings.EqualFold(scheme, "bearer") || token == "" {
		return "", errMalformedToken
	}
	return token, nil
}
