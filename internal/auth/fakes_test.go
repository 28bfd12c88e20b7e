// Copyright (c) 2026 BCR. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bcr-api/bcr/internal/auth"
	"github.com/bcr-api/bcr/internal/platform/sec"
)

const (
	radianEmail    = "radian@gmail.com"
	radianPassword = "radianrasyid"
	testSecret     = "Rahasia"
)

var errEncoderBroken = errors.New("encoder broken")

// fakeUsers is an in-memory [auth.UserRepository].
type fakeUsers struct {
	mu        sync.Mutex
	byEmail   map[string]*auth.User
	roles     map[string]sec.RoleRef
	nextID    int64
	findErr   error
	createErr error
	lookups   int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		byEmail: map[string]*auth.User{},
		roles: map[string]sec.RoleRef{
			sec.RoleAdmin:    {ID: 1, Name: sec.RoleAdmin},
			sec.RoleCustomer: {ID: 2, Name: sec.RoleCustomer},
		},
		nextID: 1,
	}
}

func (fake *fakeUsers) add(user *auth.User) {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	if user.ID == 0 {
		user.ID = fake.nextID
	}
	fake.nextID = user.ID + 1
	fake.byEmail[user.Email] = user
}

func (fake *fakeUsers) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	fake.lookups++
	if fake.findErr != nil {
		return nil, fake.findErr
	}
	user, ok := fake.byEmail[email]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (fake *fakeUsers) FindByID(_ context.Context, id int64) (*auth.User, error) {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	if fake.findErr != nil {
		return nil, fake.findErr
	}
	for _, user := range fake.byEmail {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, auth.ErrUserNotFound
}

func (fake *fakeUsers) FindRoleByName(_ context.Context, name string) (sec.RoleRef, error) {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	role, ok := fake.roles[name]
	if !ok {
		return sec.RoleRef{}, auth.ErrRoleNotFound
	}
	return role, nil
}

func (fake *fakeUsers) Create(_ context.Context, user *auth.User) error {
	if fake.createErr != nil {
		return fake.createErr
	}
	fake.add(user)
	return nil
}

// brokenEncoder always fails to sign.
type brokenEncoder struct{}

func (brokenEncoder) Encode(sec.TokenPayload) (string, error) { return "", errEncoderBroken }

// radianUser is the canonical ADMIN account used across the tests.
func radianUser(t *testing.T) *auth.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(radianPassword), bcrypt.MinCost)
	require.NoError(t, err)
	return &auth.User{
		ID:           1,
		Name:         "radian",
		Email:        radianEmail,
		Image:        "radian.jpg",
		PasswordHash: string(hash),
		Role:         sec.RoleRef{ID: 1, Name: sec.RoleAdmin},
	}
}

func newHasher(t *testing.T) *sec.BcryptHasher {
	t.Helper()
	hasher, err := sec.NewBcryptHasher(bcrypt.MinCost, sec.NewLane(2, nil))
	require.NoError(t, err)
	return hasher
}

func newCodec(t *testing.T) *sec.JWTCodec {
	t.Helper()
	codec, err := sec.NewTokenCodec(testSecret)
	require.NoError(t, err)
	return codec
}
