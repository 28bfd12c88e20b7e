// Copyright (c) 2026 BCR. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bcr-api/bcr/internal/platform/apperr"
	"github.com/bcr-api/bcr/internal/platform/ctxutil"
	"github.com/bcr-api/bcr/internal/platform/middleware"
	"github.com/bcr-api/bcr/internal/platform/respond"
	"github.com/bcr-api/bcr/internal/platform/sec"
)

func newCodec(t *testing.T) *sec.JWTCodec {
	t.Helper()
	codec, err := sec.NewTokenCodec("Rahasia")
	require.NoError(t, err)
	return codec
}

func tokenFor(t *testing.T, codec *sec.JWTCodec, role string) string {
	t.Helper()
	token, err := codec.Encode(sec.TokenPayload{
		ID:    1,
		Name:  "radian",
		Email: "radian@gmail.com",
		Image: "radian.jpg",
		Role:  sec.RoleRef{ID: 1, Name: role},
	})
	require.NoError(t, err)
	return token
}

// echoUser writes the authenticated user's email.
var echoUser = http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
	payload := ctxutil.GetAuthUser(request.Context())
	respond.OK(writer, payload.Email)
})

func decodeEnvelope(t *testing.T, recorder *httptest.ResponseRecorder) respond.ErrorEnvelope {
	t.Helper()
	var envelope respond.ErrorEnvelope
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&envelope))
	return envelope
}

/*
TestAuthorize covers the guard's outcomes for every header shape and role.
*/
func TestAuthorize(t *testing.T) {
	codec := newCodec(t)
	otherCodec, err := sec.NewTokenCodec("another-secret")
	require.NoError(t, err)

	tests := []struct {
		name       string
		role       string
		header     string
		wantStatus int
		wantName   string
	}{
		{"missing_header", "", "", http.StatusUnauthorized, apperr.NameInvalidToken},
		{"wrong_scheme", "", "Basic " + tokenFor(t, codec, sec.RoleAdmin), http.StatusUnauthorized, apperr.NameInvalidToken},
		{"bearer_without_token", "", "Bearer ", http.StatusUnauthorized, apperr.NameInvalidToken},
		{"garbage_token", "", "Bearer abc.def.ghi", http.StatusUnauthorized, apperr.NameInvalidToken},
		{"foreign_secret", "", "Bearer " + tokenFor(t, otherCodec, sec.RoleAdmin), http.StatusUnauthorized, apperr.NameInvalidToken},
		{"any_role_ok", "", "Bearer " + tokenFor(t, codec, sec.RoleCustomer), http.StatusOK, ""},
		{"lowercase_scheme", "", "bearer " + tokenFor(t, codec, sec.RoleCustomer), http.StatusOK, ""},
		{"admin_required_admin", sec.RoleAdmin, "Bearer " + tokenFor(t, codec, sec.RoleAdmin), http.StatusOK, ""},
		{"admin_required_customer", sec.RoleAdmin, "Bearer " + tokenFor(t, codec, sec.RoleCustomer), http.StatusUnauthorized, apperr.NameInsufficientAccess},
		{"customer_required_admin", sec.RoleCustomer, "Bearer " + tokenFor(t, codec, sec.RoleAdmin), http.StatusOK, ""},
		{"unknown_role", sec.RoleCustomer, "Bearer " + tokenFor(t, codec, "GUEST"), http.StatusUnauthorized, apperr.NameInsufficientAccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := middleware.Authorize(codec, tt.role)(echoUser)

			request := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			require.Equal(t, tt.wantStatus, recorder.Code)
			if tt.wantName == "" {
				var email string
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&email))
				assert.Equal(t, "radian@gmail.com", email)
				return
			}

			envelope := decodeEnvelope(t, recorder)
			assert.Equal(t, tt.wantName, envelope.Error.Name)
			assert.Nil(t, envelope.Error.Details)
		})
	}
}

/*
TestRequireRole_WithoutAuthenticate rejects when no payload is in context.
*/
func TestRequireRole_WithoutAuthenticate(t *testing.T) {
	handler := middleware.RequireRole(sec.RoleAdmin)(echoUser)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodDelete, "/v1/cars/1", nil))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, apperr.NameInvalidToken, decodeEnvelope(t, recorder).Error.Name)
}
