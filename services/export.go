package services

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"abena-car-sales/models"
)

// SessionsCSVHeader is the column order of ExportSessionsCSV
var SessionsCSVHeader = []string{"Session ID", "Start Time", "Customer Name", "Phone", "Email", "Lead Temp", "Intent", "Messages Count", "Last Activity"}

// BookingsCSVHeader is the column order of ExportBookingsCSV
var BookingsCSVHeader = []string{"Booking ID", "Timestamp", "Customer Name", "Phone", "Email", "Car ID", "Status"}

const csvTimeLayout = "1/2/2006, 3:04:05 PM"

type exportDocument struct {
	ChatSessions []models.ChatSession `json:"chatSessions"`
	Bookings     []models.Booking     `json:"bookings"`
	Logs         []models.TrackingLog `json:"logs"`
	ExportDate   string               `json:"exportDate"`
}

// ExportJSON serializes every session, booking and log
func (s *Store) ExportJSON() ([]byte, error) {
	doc := exportDocument{
		ChatSessions: s.Sessions(),
		Bookings:     s.Bookings(),
		Logs:         s.Logs(),
		ExportDate:   s.now().UTC().Format(time.RFC3339Nano),
	}
	// Empty lists export as [] rather than null.
	if doc.ChatSessions == nil {
		doc.ChatSessions = []models.ChatSession{}
	}
	if doc.Bookings == nil {
		doc.Bookings = []models.Booking{}
	}
	if doc.Logs == nil {
		doc.Logs = []models.TrackingLog{}
	}
	return json.MarshalIndent(doc, "", "  ")
}

// ExportSessionsCSV renders one row per session. Fields are joined with
// commas as-is; values containing commas or quotes are not escaped.
func (s *Store) ExportSessionsCSV() string {
	rows := [][]string{SessionsCSVHeader}
	for _, sess := range s.Sessions() {
		rows = append(rows, []string{
			sess.ID,
			sess.StartTime.Local().Format(csvTimeLayout),
			orNA(sess.UserInfo.Name),
			orNA(sess.UserInfo.Phone),
			orNA(sess.UserInfo.Email),
			string(sess.LeadTemperature),
			sess.Intent,
			strconv.Itoa(len(sess.Messages)),
			sess.LastActivity.Local().Format(csvTimeLayout),
		})
	}
	return joinRows(rows)
}

// ExportBookingsCSV renders one row per booking, unescaped like
// ExportSessionsCSV.
func (s *Store) ExportBookingsCSV() string {
	rows := [][]string{BookingsCSVHeader}
	for _, b := range s.Bookings() {
		rows = append(rows, []string{
			b.ID,
			b.Timestamp.Local().Format(csvTimeLayout),
			orNA(b.CustomerName),
			orNA(b.CustomerPhone),
			orNA(b.CustomerEmail),
			b.CarID,
			string(b.Status),
		})
	}
	return joinRows(rows)
}

func joinRows(rows [][]string) string {
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = strings.Join(r, ",")
	}
	return strings.Join(lines, "\n")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
