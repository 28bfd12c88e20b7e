// Copyright (c) 2026 BCR. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bcr-api/bcr/internal/auth"
	"github.com/bcr-api/bcr/internal/platform/apperr"
	"github.com/bcr-api/bcr/internal/platform/dberr"
	"github.com/bcr-api/bcr/internal/platform/metrics"
	"github.com/bcr-api/bcr/internal/platform/sec"
)

type serviceFixture struct {
	users   *fakeUsers
	codec   *sec.JWTCodec
	metrics *metrics.Metrics
	service *auth.Service
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	users := newFakeUsers()
	users.add(radianUser(t))

	codec := newCodec(t)
	recorder := metrics.New(prometheus.NewRegistry())

	return &serviceFixture{
		users:   users,
		codec:   codec,
		metrics: recorder,
		service: auth.NewService(users, users, newHasher(t), codec, recorder),
	}
}

func (fixture *serviceFixture) loginCount(outcome string) float64 {
	return testutil.ToFloat64(fixture.metrics.LoginTotal.WithLabelValues(outcome))
}

/*
TestService_Login_Radian walks the canonical account through the three business outcomes.
*/
func TestService_Login_Radian(t *testing.T) {
	fixture := newServiceFixture(t)
	ctx := context.Background()

	t.Run("correct_password_issues_token", func(t *testing.T) {
		token, err := fixture.service.Login(ctx, auth.Credential{Email: radianEmail, Password: radianPassword})
		require.NoError(t, err)

		payload, err := fixture.codec.Decode(token)
		require.NoError(t, err)
		assert.Equal(t, sec.TokenPayload{
			ID:    1,
			Name:  "radian",
			Email: radianEmail,
			Image: "radian.jpg",
			Role:  sec.RoleRef{ID: 1, Name: "ADMIN"},
		}, payload)
	})

	t.Run("wrong_password_is_unauthorized", func(t *testing.T) {
		_, err := fixture.service.Login(ctx, auth.Credential{Email: radianEmail, Password: "wrong"})

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, apperr.NameInsufficientAccess, ae.Name)
		assert.Equal(t, http.StatusUnauthorized, ae.HTTPStatus)
		assert.NotContains(t, ae.Message, "wrong")
		assert.NotContains(t, ae.Message, "$2a$")
	})

	t.Run("unknown_email_is_not_found", func(t *testing.T) {
		_, err := fixture.service.Login(ctx, auth.Credential{Email: "nobody@x.com", Password: "anything"})

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, apperr.NameNotFound, ae.Name)
		assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)
		assert.Equal(t, apperr.Location{Method: "login", URL: "nobody@x.com"}, ae.Details)
	})

	assert.Equal(t, 1.0, fixture.loginCount(metrics.OutcomeSuccess))
	assert.Equal(t, 1.0, fixture.loginCount(metrics.OutcomeUnauthorized))
	assert.Equal(t, 1.0, fixture.loginCount(metrics.OutcomeNotFound))
}

/*
TestService_Login_TokenIsStable verifies repeated logins yield identical tokens.
*/
func TestService_Login_TokenIsStable(t *testing.T) {
	fixture := newServiceFixture(t)
	credential := auth.Credential{Email: radianEmail, Password: radianPassword}

	first, err := fixture.service.Login(context.Background(), credential)
	require.NoError(t, err)
	second, err := fixture.service.Login(context.Background(), credential)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

/*
TestService_Login_InvalidInput rejects blank credentials before any lookup.
*/
func TestService_Login_InvalidInput(t *testing.T) {
	tests := []struct {
		name       string
		credential auth.Credential
	}{
		{"empty_email", auth.Credential{Password: radianPassword}},
		{"whitespace_email", auth.Credential{Email: "   ", Password: radianPassword}},
		{"empty_password", auth.Credential{Email: radianEmail}},
		{"both_empty", auth.Credential{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixture := newServiceFixture(t)

			_, err := fixture.service.Login(context.Background(), tt.credential)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, apperr.NameValidation, ae.Name)
			assert.Equal(t, http.StatusInternalServerError, ae.HTTPStatus)
			assert.Nil(t, ae.Details)
			assert.Zero(t, fixture.users.lookups)
			assert.Equal(t, 1.0, fixture.loginCount(metrics.OutcomeInvalidInput))
		})
	}
}

/*
TestService_Login_Faults lets storage and codec failures propagate unclassified.
*/
func TestService_Login_Faults(t *testing.T) {
	t.Run("directory_error", func(t *testing.T) {
		fixture := newServiceFixture(t)
		storageErr := errors.New("connection refused")
		fixture.users.findErr = storageErr

		_, err := fixture.service.Login(context.Background(), auth.Credential{Email: radianEmail, Password: radianPassword})

		assert.ErrorIs(t, err, storageErr)
		assert.False(t, apperr.IsAppError(err))
		assert.Equal(t, 1.0, fixture.loginCount(metrics.OutcomeFault))
	})

	t.Run("encoder_error", func(t *testing.T) {
		users := newFakeUsers()
		users.add(radianUser(t))
		service := auth.NewService(users, users, newHasher(t), brokenEncoder{}, nil)

		_, err := service.Login(context.Background(), auth.Credential{Email: radianEmail, Password: radianPassword})

		assert.ErrorIs(t, err, errEncoderBroken)
		assert.False(t, apperr.IsAppError(err))
	})

	t.Run("cancelled_request", func(t *testing.T) {
		// A lane with one slot that is already taken forces Verify to wait on ctx.
		lane := sec.NewLane(1, nil)
		hasher, err := sec.NewBcryptHasher(bcrypt.MinCost, lane)
		require.NoError(t, err)

		users := newFakeUsers()
		users.add(radianUser(t))
		service := auth.NewService(users, users, hasher, newCodec(t), nil)

		release := make(chan struct{})
		started := make(chan struct{})
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = lane.Do(context.Background(), func() {
				close(started)
				<-release
			})
		}()
		<-started

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = service.Login(ctx, auth.Credential{Email: radianEmail, Password: radianPassword})
		close(release)
		wg.Wait()

		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, apperr.IsAppError(err))
	})
}

/*
TestService_Login_Concurrent runs many logins against a small lane.
*/
func TestService_Login_Concurrent(t *testing.T) {
	fixture := newServiceFixture(t)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			password := radianPassword
			if i%2 == 1 {
				password = fmt.Sprintf("wrong-%d", i)
			}
			_, err := fixture.service.Login(context.Background(), auth.Credential{Email: radianEmail, Password: password})
			if i%2 == 0 && err != nil {
				errs <- err
			}
			if i%2 == 1 && !apperr.HasName(err, apperr.NameInsufficientAccess) {
				errs <- fmt.Errorf("login %d: expected InsufficientAccessError, got %v", i, err)
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
	assert.Equal(t, 8.0, fixture.loginCount(metrics.OutcomeSuccess))
	assert.Equal(t, 8.0, fixture.loginCount(metrics.OutcomeUnauthorized))
}

/*
TestService_Register covers validation, uniqueness and the happy path.
*/
func TestService_Register(t *testing.T) {
	t.Run("creates_customer", func(t *testing.T) {
		fixture := newServiceFixture(t)

		token, err := fixture.service.Register(context.Background(), auth.RegisterInput{
			Name:     " dina ",
			Email:    "dina@mail.com",
			Password: "supersecret",
		})
		require.NoError(t, err)

		payload, err := fixture.codec.Decode(token)
		require.NoError(t, err)
		assert.Equal(t, "dina", payload.Name)
		assert.Equal(t, sec.RoleRef{ID: 2, Name: sec.RoleCustomer}, payload.Role)
		assert.NotZero(t, payload.ID)

		// The new account can log in with the same password.
		_, err = fixture.service.Login(context.Background(), auth.Credential{Email: "dina@mail.com", Password: "supersecret"})
		assert.NoError(t, err)
	})

	t.Run("validation_failure", func(t *testing.T) {
		fixture := newServiceFixture(t)

		_, err := fixture.service.Register(context.Background(), auth.RegisterInput{
			Email:    "not-an-email",
			Password: "short",
		})

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, apperr.NameValidation, ae.Name)
		assert.Equal(t, http.StatusUnprocessableEntity, ae.HTTPStatus)
		assert.Len(t, ae.Details, 3)
	})

	t.Run("email_taken", func(t *testing.T) {
		fixture := newServiceFixture(t)

		_, err := fixture.service.Register(context.Background(), auth.RegisterInput{
			Name:     "radian again",
			Email:    radianEmail,
			Password: "supersecret",
		})

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, apperr.NameEmailAlreadyTaken, ae.Name)
		assert.Equal(t, "radian@gmail.com is already taken!", ae.Message)
	})

	t.Run("email_taken_race", func(t *testing.T) {
		fixture := newServiceFixture(t)
		fixture.users.createErr = dberr.Wrap(&pgconn.PgError{Code: "23505"}, "User", "create_user")

		_, err := fixture.service.Register(context.Background(), auth.RegisterInput{
			Name:     "dina",
			Email:    "dina@mail.com",
			Password: "supersecret",
		})

		assert.True(t, apperr.HasName(err, apperr.NameEmailAlreadyTaken))
	})

	t.Run("password_over_72_bytes", func(t *testing.T) {
		fixture := newServiceFixture(t)

		// 40 runes, 80 bytes.
		_, err := fixture.service.Register(context.Background(), auth.RegisterInput{
			Name:     "dina",
			Email:    "dina@mail.com",
			Password: strings.Repeat("é", 40),
		})

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, apperr.NameValidation, ae.Name)
		assert.Equal(t, http.StatusUnprocessableEntity, ae.HTTPStatus)
		assert.Equal(t, []apperr.FieldError{{Field: "password", Message: "Maximum 72 bytes"}}, ae.Details)
	})

	t.Run("longest_password_has_no_prefix_collision", func(t *testing.T) {
		fixture := newServiceFixture(t)
		password := strings.Repeat("a", sec.MaxPasswordBytes)

		_, err := fixture.service.Register(context.Background(), auth.RegisterInput{
			Name:     "dina",
			Email:    "dina@mail.com",
			Password: password,
		})
		require.NoError(t, err)

		_, err = fixture.service.Login(context.Background(), auth.Credential{Email: "dina@mail.com", Password: password})
		require.NoError(t, err)

		_, err = fixture.service.Login(context.Background(), auth.Credential{Email: "dina@mail.com", Password: password + "DIFFERENT"})
		assert.True(t, apperr.HasName(err, apperr.NameInsufficientAccess))
	})

	t.Run("without_registry", func(t *testing.T) {
		users := newFakeUsers()
		service := auth.NewService(users, nil, newHasher(t), newCodec(t), nil)

		_, err := service.Register(context.Background(), auth.RegisterInput{Name: "a", Email: "a@b.co", Password: "supersecret"})
		assert.Error(t, err)
		assert.False(t, apperr.IsAppError(err))
	})
}

/*
TestService_WhoAmI reads the stored record behind a token.
*/
func TestService_WhoAmI(t *testing.T) {
	fixture := newServiceFixture(t)

	user, err := fixture.service.WhoAmI(context.Background(), sec.TokenPayload{ID: 1, Email: radianEmail})
	require.NoError(t, err)
	assert.Equal(t, "radian", user.Name)

	_, err = fixture.service.WhoAmI(context.Background(), sec.TokenPayload{ID: 99, Email: "ghost@mail.com"})
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)
	assert.Equal(t, "User not found", ae.Message)
	assert.Nil(t, ae.Details)
}
