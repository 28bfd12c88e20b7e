// Copyright (c) 2026 BCR. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = bcrypt.DefaultCost

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	// Hash produces a salted one-way hash of plaintext.
	Hash(ctx context.Context, plaintext string) (string, error)

	// Verify reports whether plaintext matches hashed.
	// A malformed hash never matches.
	Verify(ctx context.Context, plaintext, hashed string) bool
}

// MaxPasswordBytes is the longest plaintext bcrypt accepts.
const MaxPasswordBytes = 72

// BcryptHasher implements [PasswordHasher] with bcrypt.
//
// Every bcrypt computation is scheduled on a [Lane] so hashing bursts
// cannot occupy every CPU at once.
type BcryptHasher struct {
	cost int
	lane *Lane
}

// NewBcryptHasher creates a hasher with the given cost factor.
//
// Costs below bcrypt.MinCost fall back to bcrypt.DefaultCost. Costs above
// bcrypt.MaxCost are rejected. lane may be nil.
func NewBcryptHasher(cost int, lane *Lane) (*BcryptHasher, error) {
	effectiveCost, err := normalizeCost(cost)
	if err != nil {
		return nil, err
	}
	return &BcryptHasher{cost: effectiveCost, lane: lane}, nil
}

// Cost returns the configured work factor.
func (hasher *BcryptHasher) Cost() int {
	return hasher.cost
}

// Hash hashes plaintext with the configured cost.
func (hasher *BcryptHasher) Hash(ctx context.Context, plaintext string) (string, error) {
	return hasher.HashWithCost(ctx, plaintext, hasher.cost)
}

// HashWithCost hashes plaintext with an explicit cost factor.
func (hasher *BcryptHasher) HashWithCost(ctx context.Context, plaintext string, cost int) (string, error) {
	effectiveCost, err := normalizeCost(cost)
	if err != nil {
		return "", err
	}

	var hashedBytes []byte
	var hashErr error
	laneErr := hasher.lane.Do(ctx, func() {
		hashedBytes, hashErr = bcrypt.GenerateFromPassword([]byte(plaintext), effectiveCost)
	})
	if laneErr != nil {
		return "", laneErr
	}
	if hashErr != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", hashErr)
	}

	return string(hashedBytes), nil
}

// Verify compares plaintext with an existing bcrypt hash.
//
// bcrypt recomputes the digest with the embedded salt and cost and compares
// in constant time. Malformed hashes and a cancelled ctx both yield false.
//
// bcrypt only reads the first [MaxPasswordBytes] bytes, and no stored hash
// can come from a longer plaintext, so longer candidates never match.
func (hasher *BcryptHasher) Verify(ctx context.Context, plaintext, hashed string) bool {
	if len(plaintext) > MaxPasswordBytes {
		return false
	}

	var compareErr error
	laneErr := hasher.lane.Do(ctx, func() {
		compareErr = bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext))
	})
	return laneErr == nil && compareErr == nil
}

// normalizeCost applies the bcrypt cost bounds.
func normalizeCost(cost int) (int, error) {
	if cost > bcrypt.MaxCost {
		return 0, fmt.Errorf("sec: bcrypt cost %d exceeds maximum %d", cost, bcrypt.MaxCost)
	}
	if cost < bcrypt.MinCost {
		return bcrypt.DefaultCost, nil
	}
	return cost, nil
}
