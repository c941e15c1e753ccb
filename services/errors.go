package services

import "errors"

var (
	// ErrUnknownCar is returned when a car id is not in the inventory
	ErrUnknownCar = errors.New("car not found")
	// ErrBusy is returned while a previous message is still being answered
	ErrBusy = errors.New("a reply is still in progress")
	// ErrEmptyMessage is returned for a message with no text and no attachment
	ErrEmptyMessage = errors.New("message is empty")
)
