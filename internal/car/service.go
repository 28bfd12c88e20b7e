// Copyright (c) 2026 BCR. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package car

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/bcr-api/bcr/internal/platform/ctxutil"
	"github.com/bcr-api/bcr/internal/platform/validate"
	"github.com/bcr-api/bcr/pkg/pagination"
	"github.com/bcr-api/bcr/pkg/pointer"
)

// Service implements the car use cases.
type Service struct {
	repo Repository
}

// NewService constructs a new [Service].
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns one page of cars together with its pagination metadata.
//
// The page and the total count are fetched concurrently.
func (service *Service) List(context context.Context, params pagination.Params) (*ListResult, error) {
	var (
		cars  []*Car
		count int64
	)

	group, groupCtx := errgroup.WithContext(context)
	group.Go(func() error {
		var err error
		cars, err = service.repo.List(groupCtx, params.PageSize, params.Offset())
		return err
	})
	group.Go(func() error {
		var err error
		count, err = service.repo.Count(groupCtx)
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("car_service_list_failed: %w", err)
	}

	return &ListResult{
		Cars: cars,
		Meta: ListMeta{Pagination: pagination.NewMeta(params, count)},
	}, nil
}

// Get returns a single car or a 404 NotFoundError.
func (service *Service) Get(context context.Context, id int64) (*Car, error) {
	return service.repo.FindByID(context, id)
}

// Create validates input and stores a new car.
func (service *Service) Create(context context.Context, input Input) (*Car, error) {
	car, err := fromInput(input)
	if err != nil {
		return nil, err
	}

	if err := service.repo.Create(context, car); err != nil {
		return nil, fmt.Errorf("car_service_create_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "car_created", slog.Int64("car_id", car.ID))
	return car, nil
}

// Update validates input and overwrites car id.
func (service *Service) Update(context context.Context, id int64, input Input) (*Car, error) {
	car, err := fromInput(input)
	if err != nil {
		return nil, err
	}
	car.ID = id

	if err := service.repo.Update(context, car); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "car_updated", slog.Int64("car_id", id))
	return car, nil
}

// Delete removes car id.
func (service *Service) Delete(context context.Context, id int64) error {
	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	ctxutil.GetLogger(context).InfoContext(context, "car_deleted", slog.Int64("car_id", id))
	return nil
}

// CanonicalSize upper-cases a size label ("Small" becomes "SMALL").
func CanonicalSize(size string) string {
	// cases.Caser is stateful; one per call.
	return cases.Upper(language.Und).String(strings.TrimSpace(size))
}

// fromInput validates input and converts it into a [Car].
func fromInput(input Input) (*Car, error) {
	name := strings.TrimSpace(input.Name)
	size := CanonicalSize(input.Size)

	validator := &validate.Validator{}
	validator.
		Required("name", name).
		MaxLen("name", name, 255).
		Custom("price", input.Price == nil, "This field is required").
		OneOf("size", size, SizeSmall, SizeMedium, SizeLarge)
	if input.Price != nil {
		validator.Min("price", *input.Price, 0)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	return &Car{
		Name:              name,
		Price:             pointer.Val(input.Price),
		Size:              size,
		Image:             strings.TrimSpace(input.Image),
		IsCurrentlyRented: input.IsCurrentlyRented,
	}, nil
}
