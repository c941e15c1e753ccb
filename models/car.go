package models

// Car represents a vehicle in the dealership inventory
type Car struct {
	ID           string `json:"id" yaml:"id"`
	Brand        string `json:"brand" yaml:"brand"`
	Model        string `json:"model" yaml:"model"`
	Year         int    `json:"year" yaml:"year"`
	Mileage      string `json:"mileage" yaml:"mileage"`
	Transmission string `json:"transmission" yaml:"transmission"`
	FuelType     string `json:"fuel_type" yaml:"fuel_type"`
	Price        int64  `json:"price" yaml:"price"`
	ImageURL     string `json:"image_url" yaml:"image_url"`
}

// Name returns the "<brand> <model>" label used in booking proposals
func (c Car) Name() string {
	return c.Brand + " " + c.Model
}

// SummaryCard is a titled list of label/value rows
type SummaryCard struct {
	Title string        `json:"title"`
	Items []SummaryItem `json:"items"`
}

// SummaryItem is a single row of a summary card
type SummaryItem struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// CarComparison lists the cars offered side by side
type CarComparison struct {
	CarIDs []string `json:"carIds"`
	Cars   []Car    `json:"cars"`
}
