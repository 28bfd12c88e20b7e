// Copyright (c) 2026 BCR. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package car

import "context"

// Repository defines persistence operations for cars.
//
// Lookups of a missing id return a 404 NotFoundError for "Car".
type Repository interface {
	List(context context.Context, limit, offset int) ([]*Car, error)
	Count(context context.Context) (int64, error)
	FindByID(context context.Context, id int64) (*Car, error)
	Create(context context.Context, car *Car) error
	Update(context context.Context, car *Car) error
	Delete(context context.Context, id int64) error
}
