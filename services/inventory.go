package services

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"abena-car-sales/database"
	"abena-car-sales/models"
)

// DefaultCars is the built-in dealership stock
var DefaultCars = []models.Car{
	{ID: "1", Brand: "Toyota", Model: "Camry", Year: 2018, Mileage: "62,000 km", Transmission: "Automatic", FuelType: "Petrol", Price: 185000, ImageURL: "https://cdn.abena-motors.example/cars/1-toyota-camry-2018.jpg"},
	{ID: "2", Brand: "Toyota", Model: "Corolla", Year: 2015, Mileage: "88,000 km", Transmission: "Automatic", FuelType: "Petrol", Price: 115000, ImageURL: "https://cdn.abena-motors.example/cars/2-toyota-corolla-2015.jpg"},
	{ID: "3", Brand: "Honda", Model: "CR-V", Year: 2017, Mileage: "71,500 km", Transmission: "Automatic", FuelType: "Petrol", Price: 210000, ImageURL: "https://cdn.abena-motors.example/cars/3-honda-crv-2017.jpg"},
	{ID: "4", Brand: "Hyundai", Model: "Elantra", Year: 2016, Mileage: "94,000 km", Transmission: "Automatic", FuelType: "Petrol", Price: 98000, ImageURL: "https://cdn.abena-motors.example/cars/4-hyundai-elantra-2016.jpg"},
	{ID: "5", Brand: "Toyota", Model: "Land Cruiser Prado", Year: 2019, Mileage: "45,000 km", Transmission: "Automatic", FuelType: "Diesel", Price: 520000, ImageURL: "https://cdn.abena-motors.example/cars/5-toyota-prado-2019.jpg"},
	{ID: "6", Brand: "Mercedes-Benz", Model: "C300", Year: 2018, Mileage: "53,000 km", Transmission: "Automatic", FuelType: "Petrol", Price: 345000, ImageURL: "https://cdn.abena-motors.example/cars/6-mercedes-c300-2018.jpg"},
	{ID: "7", Brand: "Kia", Model: "Picanto", Year: 2020, Mileage: "30,000 km", Transmission: "Manual", FuelType: "Petrol", Price: 82000, ImageURL: "https://cdn.abena-motors.example/cars/7-kia-picanto-2020.jpg"},
	{ID: "8", Brand: "Toyota", Model: "Hilux", Year: 2017, Mileage: "110,000 km", Transmission: "Manual", FuelType: "Diesel", Price: 265000, ImageURL: "https://cdn.abena-motors.example/cars/8-toyota-hilux-2017.jpg"},
}

// Inventory is an immutable, id-indexed set of cars
type Inventory struct {
	cars []models.Car
	byID map[string]models.Car
}

// NewInventory builds an inventory, rejecting empty or duplicate ids
func NewInventory(cars []models.Car) (*Inventory, error) {
	inv := &Inventory{
		cars: make([]models.Car, 0, len(cars)),
		byID: make(map[string]models.Car, len(cars)),
	}
	for _, c := range cars {
		if c.ID == "" {
			return nil, fmt.Errorf("car %s %s has no id", c.Brand, c.Model)
		}
		if _, dup := inv.byID[c.ID]; dup {
			return nil, fmt.Errorf("duplicate car id %q", c.ID)
		}
		inv.cars = append(inv.cars, c)
		inv.byID[c.ID] = c
	}
	return inv, nil
}

// DefaultInventory returns the built-in stock
func DefaultInventory() *Inventory {
	inv, err := NewInventory(DefaultCars)
	if err != nil {
		panic(err)
	}
	return inv
}

// LoadInventoryYAML reads an inventory file with a top-level "cars" list
func LoadInventoryYAML(path string) (*Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading inventory: %w", err)
	}
	return ParseInventoryYAML(data)
}

// ParseInventoryYAML parses inventory YAML content
func ParseInventoryYAML(data []byte) (*Inventory, error) {
	var doc struct {
		Cars []models.Car `yaml:"cars"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing inventory: %w", err)
	}
	if len(doc.Cars) == 0 {
		return nil, fmt.Errorf("inventory has no cars")
	}
	return NewInventory(doc.Cars)
}

// LoadInventoryDB reads the inventory from the cars table
func LoadInventoryDB(ctx context.Context, db *sql.DB) (*Inventory, error) {
	if err := database.EnsureSchema(ctx, db); err != nil {
		return nil, err
	}
	cars, err := database.LoadCars(ctx, db)
	if err != nil {
		return nil, err
	}
	return NewInventory(cars)
}

// All returns the cars in their original order
func (inv *Inventory) All() []models.Car {
	return append([]models.Car(nil), inv.cars...)
}

// Find looks a car up by exact id
func (inv *Inventory) Find(id string) (models.Car, bool) {
	c, ok := inv.byID[id]
	return c, ok
}

// FindMany resolves ids in order, dropping unknown ones
func (inv *Inventory) FindMany(ids []string) []models.Car {
	var out []models.Car
	for _, id := range ids {
		if c, ok := inv.byID[strings.TrimSpace(id)]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Listing renders one prompt line per car
func (inv *Inventory) Listing() string {
	lines := make([]string, len(inv.cars))
	for i, c := range inv.cars {
		lines[i] = fmt.Sprintf("ID: %s | %d %s %s | %s", c.ID, c.Year, c.Brand, c.Model, FormatCedis(c.Price))
	}
	return strings.Join(lines, "\n")
}

// FormatCedis formats an amount as Ghana Cedis with thousands separators
func FormatCedis(amount int64) string {
	return "₵" + humanize.Comma(amount)
}
