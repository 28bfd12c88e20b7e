// Copyright (c) 2026 BCR. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package car_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bcr-api/bcr/internal/car"
	"github.com/bcr-api/bcr/internal/platform/apperr"
)

var fixedTime = time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

// fakeCars is an in-memory [car.Repository].
type fakeCars struct {
	mu      sync.Mutex
	cars    map[int64]*car.Car
	nextID  int64
	finds   int
	listErr error
}

func newFakeCars(seed ...*car.Car) *fakeCars {
	fake := &fakeCars{cars: map[int64]*car.Car{}, nextID: 1}
	for _, c := range seed {
		_ = fake.Create(context.Background(), c)
	}
	return fake
}

func (fake *fakeCars) List(_ context.Context, limit, offset int) ([]*car.Car, error) {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	if fake.listErr != nil {
		return nil, fake.listErr
	}

	ids := make([]int64, 0, len(fake.cars))
	for id := range fake.cars {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]*car.Car, 0, limit)
	for i := offset; i < len(ids) && len(out) < limit; i++ {
		copied := *fake.cars[ids[i]]
		out = append(out, &copied)
	}
	return out, nil
}

func (fake *fakeCars) Count(context.Context) (int64, error) {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	return int64(len(fake.cars)), nil
}

func (fake *fakeCars) FindByID(_ context.Context, id int64) (*car.Car, error) {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	fake.finds++
	stored, ok := fake.cars[id]
	if !ok {
		return nil, apperr.ResourceNotFound("Car")
	}
	copied := *stored
	return &copied, nil
}

func (fake *fakeCars) Create(_ context.Context, c *car.Car) error {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	c.ID = fake.nextID
	fake.nextID++
	c.CreatedAt, c.UpdatedAt = fixedTime, fixedTime
	copied := *c
	fake.cars[c.ID] = &copied
	return nil
}

func (fake *fakeCars) Update(_ context.Context, c *car.Car) error {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	stored, ok := fake.cars[c.ID]
	if !ok {
		return apperr.ResourceNotFound("Car")
	}
	c.CreatedAt = stored.CreatedAt
	c.UpdatedAt = fixedTime.Add(time.Hour)
	copied := *c
	fake.cars[c.ID] = &copied
	return nil
}

func (fake *fakeCars) Delete(_ context.Context, id int64) error {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	if _, ok := fake.cars[id]; !ok {
		return apperr.ResourceNotFound("Car")
	}
	delete(fake.cars, id)
	return nil
}

func (fake *fakeCars) findCount() int {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	return fake.finds
}

func brio() *car.Car {
	return &car.Car{Name: "brio", Price: 50000, Size: car.SizeLarge, Image: "brio.jpg"}
}
