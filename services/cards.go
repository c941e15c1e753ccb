package services

import (
	"fmt"

	"abena-car-sales/models"
)

// Compare builds a comparison card for the given ids; unknown ids are dropped
func (inv *Inventory) Compare(ids []string) models.CarComparison {
	cars := inv.FindMany(ids)
	cmp := models.CarComparison{CarIDs: make([]string, 0, len(cars)), Cars: cars}
	for _, c := range cars {
		cmp.CarIDs = append(cmp.CarIDs, c.ID)
	}
	return cmp
}

// Summary builds the summary card shown for a single car
func (inv *Inventory) Summary(id string) (models.SummaryCard, error) {
	c, ok := inv.Find(id)
	if !ok {
		return models.SummaryCard{}, fmt.Errorf("%w: %s", ErrUnknownCar, id)
	}
	return models.SummaryCard{
		Title: fmt.Sprintf("%d %s %s", c.Year, c.Brand, c.Model),
		Items: []models.SummaryItem{
			{Label: "Mileage", Value: c.Mileage},
			{Label: "Transmission", Value: c.Transmission},
			{Label: "Fuel", Value: c.FuelType},
			{Label: "Price", Value: FormatCedis(c.Price)},
		},
	}, nil
}
