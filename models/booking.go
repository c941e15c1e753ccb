package models

import "time"

// BookingStatus is the lifecycle state of an inspection booking
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingPending   BookingStatus = "pending"
)

// Booking represents a car inspection booking
type Booking struct {
	ID            string        `json:"id"`
	Timestamp     time.Time     `json:"timestamp"`
	CarID         string        `json:"car_id"`
	CustomerEmail string        `json:"customer_email"`
	CustomerName  string        `json:"customer_name,omitempty"`
	CustomerPhone string        `json:"customer_phone,omitempty"`
	Status        BookingStatus `json:"status"`
}

// BookingEntry is the caller-supplied part of a Booking
type BookingEntry struct {
	CarID         string
	CustomerEmail string
	Status        BookingStatus
}

// BookingRequest represents a booking confirmation request
type BookingRequest struct {
	CarID   string `json:"car_id" binding:"required"`
	CarName string `json:"car_name"`
}

// BookingResponse represents a booking confirmation response
type BookingResponse struct {
	Success bool     `json:"success"`
	Message *Message `json:"message,omitempty"`
	Booking *Booking `json:"booking,omitempty"`
}
