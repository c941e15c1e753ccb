package services

import (
	"math"

	"abena-car-sales/models"
)

// Stats is the admin dashboard summary
type Stats struct {
	TotalInteractions int            `json:"totalInteractions"`
	ConfirmedBookings int            `json:"confirmedBookings"`
	HotLeads          int            `json:"hotLeads"`
	ConversionRate    float64        `json:"conversionRate"`
	UniqueIntents     int            `json:"uniqueIntents"`
	Distribution      map[string]int `json:"distribution"`
	Funnel            []FunnelStage  `json:"funnel"`
}

// FunnelStage is one bar of the sales funnel
type FunnelStage struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// ComputeStats aggregates tracking logs and bookings
func ComputeStats(logs []models.TrackingLog, bookings []models.Booking) Stats {
	st := Stats{
		TotalInteractions: len(logs),
		ConfirmedBookings: len(bookings),
		Distribution: map[string]int{
			string(models.LeadCold): 0,
			string(models.LeadWarm): 0,
			string(models.LeadHot):  0,
		},
	}

	intents := make(map[string]struct{})
	engaged := 0
	for _, l := range logs {
		intents[l.Intent] = struct{}{}
		if _, ok := st.Distribution[l.LeadTemperature]; ok {
			st.Distribution[l.LeadTemperature]++
		}
		if l.LeadTemperature == string(models.LeadHot) {
			st.HotLeads++
		}
		if l.LeadTemperature != string(models.LeadCold) {
			engaged++
		}
	}
	st.UniqueIntents = len(intents)

	if len(logs) > 0 {
		rate := float64(st.HotLeads) / float64(len(logs)) * 100
		st.ConversionRate = math.Round(rate*10) / 10
	}

	st.Funnel = []FunnelStage{
		{Label: "Total Visits", Value: len(logs)},
		{Label: "Engaged (Warm)", Value: engaged},
		{Label: "High Intent (Hot)", Value: st.HotLeads},
	}
	return st
}

// Stats computes the dashboard summary from the store's current state
func (s *Store) Stats() Stats {
	return ComputeStats(s.Logs(), s.Bookings())
}
