// Copyright (c) 2026 BCR. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package car

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bcr-api/bcr/internal/platform/apperr"
	"github.com/bcr-api/bcr/internal/platform/dberr"
)

// resourceName labels 404 errors raised by this store.
const resourceName = "Car"

const selectCar = `
	SELECT id, name, price, size, COALESCE(image, ''), is_currently_rented, created_at, updated_at
	FROM cars`

// Querier is the subset of [pgxpool.Pool] the car store needs.
type Querier interface {
	Query(context context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(context context.Context, sql string, args ...any) pgx.Row
	Exec(context context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository implements [Repository] using PostgreSQL.
type PostgresRepository struct {
	db Querier
}

// NewPostgresRepository constructs a new [PostgresRepository].
func NewPostgresRepository(db Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns one page of cars ordered by id.
func (repository *PostgresRepository) List(context context.Context, limit, offset int) ([]*Car, error) {
	rows, err := repository.db.Query(context, selectCar+` ORDER BY id ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, dberr.Wrap(err, resourceName, "postgres_car_repo_list_failed")
	}
	defer rows.Close()

	cars := make([]*Car, 0, limit)
	for rows.Next() {
		car, err := scanCar(rows)
		if err != nil {
			return nil, dberr.Wrap(err, resourceName, "postgres_car_repo_scan_failed")
		}
		cars = append(cars, car)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, resourceName, "postgres_car_repo_list_failed")
	}

	return cars, nil
}

// Count returns the total number of cars.
func (repository *PostgresRepository) Count(context context.Context) (int64, error) {
	var count int64
	if err := repository.db.QueryRow(context, `SELECT COUNT(*) FROM cars`).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres_car_repo_count_failed: %w", err)
	}
	return count, nil
}

// FindByID fetches one car.
func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Car, error) {
	car, err := scanCar(repository.db.QueryRow(context, selectCar+` WHERE id = $1`, id))
	if err != nil {
		return nil, dberr.Wrap(err, resourceName, "postgres_car_repo_find_failed")
	}
	return car, nil
}

// Create inserts car and fills in its id and timestamps.
func (repository *PostgresRepository) Create(context context.Context, car *Car) error {
	query := `
		INSERT INTO cars (name, price, size, image, is_currently_rented)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5)
		RETURNING id, created_at, updated_at`

	err := repository.db.QueryRow(context, query,
		car.Name, car.Price, car.Size, car.Image, car.IsCurrentlyRented,
	).Scan(&car.ID, &car.CreatedAt, &car.UpdatedAt)

	return dberr.Wrap(err, resourceName, "postgres_car_repo_create_failed")
}

// Update overwrites the writable fields of an existing car.
func (repository *PostgresRepository) Update(context context.Context, car *Car) error {
	query := `
		UPDATE cars
		SET name = $1, price = $2, size = $3, image = NULLIF($4, ''), is_currently_rented = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING created_at, updated_at`

	err := repository.db.QueryRow(context, query,
		car.Name, car.Price, car.Size, car.Image, car.IsCurrentlyRented, car.ID,
	).Scan(&car.CreatedAt, &car.UpdatedAt)

	return dberr.Wrap(err, resourceName, "postgres_car_repo_update_failed")
}

// Delete removes a car.
func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	tag, err := repository.db.Exec(context, `DELETE FROM cars WHERE id = $1`, id)
	if err != nil {
		return dberr.Wrap(err, resourceName, "postgres_car_repo_delete_failed")
	}
	if tag.RowsAffected() == 0 {
		return apperr.ResourceNotFound(resourceName)
	}
	return nil
}

func scanCar(row pgx.Row) (*Car, error) {
	car := &Car{}
	err := row.Scan(
		&car.ID, &car.Name, &car.Price, &car.Size, &car.Image,
		&car.IsCurrentlyRented, &car.CreatedAt, &car.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return car, nil
}
