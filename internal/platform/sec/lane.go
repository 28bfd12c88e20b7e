// Copyright (c) 2026 BCR. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/semaphore"
)

// Lane is a bounded execution lane for CPU-heavy work (bcrypt).
//
// At most Size() computations run at once; further callers wait for a slot.
// Waiting honours ctx cancellation, but once a slot is acquired the work
// runs to completion. A nil *Lane runs work inline without bounding.
type Lane struct {
	sem          *semaphore.Weighted
	size         int
	waitObserver prometheus.Observer
}

// NewLane creates a lane with the given number of slots.
// A size <= 0 defaults to GOMAXPROCS. waitObserver may be nil.
func NewLane(size int, waitObserver prometheus.Observer) *Lane {
	if size <= 0 {
		size = runtime.GOMAXPROCS(0)
	}
	return &Lane{
		sem:          semaphore.NewWeighted(int64(size)),
		size:         size,
		waitObserver: waitObserver,
	}
}

// Size returns the number of concurrent slots.
func (lane *Lane) Size() int {
	if lane == nil {
		return 0
	}
	return lane.size
}

// Do runs work once a slot is free.
//
// It returns an error only when ctx ends before a slot could be acquired;
// in that case work is never started.
func (lane *Lane) Do(ctx context.Context, work func()) error {
	if lane == nil {
		work()
		return nil
	}

	startTime := time.Now()
	if err := lane.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("sec: cpu lane unavailable: %w", err)
	}
	defer lane.sem.Release(1)

	if lane.waitObserver != nil {
		lane.waitObserver.Observe(time.Since(startTime).Seconds())
	}

	work()
	return nil
}
