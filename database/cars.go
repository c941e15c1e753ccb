package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"abena-car-sales/models"
)

// EnsureSchema checks that the cars table exists
// Note: the table is provisioned outside this service
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	log.Println("Checking database schema...")

	var exists bool
	err := db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_name = 'cars'
		)
	`).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking cars table: %w", err)
	}

	if !exists {
		return fmt.Errorf("cars table not found")
	}
	return nil
}

// LoadCars reads the full inventory ordered by id
func LoadCars(ctx context.Context, db *sql.DB) ([]models.Car, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, brand, model, year, mileage, transmission, fuel_type, price, image_url
		FROM cars
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying cars: %w", err)
	}
	defer rows.Close()

	var cars []models.Car
	for rows.Next() {
		var c models.Car
		err := rows.Scan(&c.ID, &c.Brand, &c.Model, &c.Year, &c.Mileage,
			&c.Transmission, &c.FuelType, &c.Price, &c.ImageURL)
		if err != nil {
			return nil, fmt.Errorf("scanning car: %w", err)
		}
		cars = append(cars, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.Printf("Loaded %d cars from database", len(cars))
	return cars, nil
}
