// Copyright (c) 2026 BCR. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package car implements the rental fleet resource: listing, lookup and the
// admin-only create, update and delete operations.
//
// # Architecture
//
// Handler → Service → Repository. The Postgres repository is wrapped by a
// Redis read-through cache for single-car lookups.
package car

import (
	"time"

	"github.com/bcr-api/bcr/pkg/pagination"
)

// Size labels accepted for a car.
const (
	SizeSmall  = "SMALL"
	SizeMedium = "MEDIUM"
	SizeLarge  = "LARGE"
)

// Car represents a rentable vehicle.
type Car struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Price             int64     `json:"price"`
	Size              string    `json:"size"`
	Image             string    `json:"image"`
	IsCurrentlyRented bool      `json:"isCurrentlyRented"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Input carries the writable fields of a car.
//
// Price is a pointer so a missing price can be told apart from zero.
type Input struct {
	Name              string `json:"name"`
	Price             *int64 `json:"price"`
	Size              string `json:"size"`
	Image             string `json:"image"`
	IsCurrentlyRented bool   `json:"isCurrentlyRented"`
}

// ListResult is the body of GET /v1/cars.
type ListResult struct {
	Cars []*Car   `json:"cars"`
	Meta ListMeta `json:"meta"`
}

// ListMeta wraps the pagination block of a list response.
type ListMeta struct {
	Pagination pagination.Meta `json:"pagination"`
}
