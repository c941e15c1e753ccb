package services

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"abena-car-sales/models"
)

// Listener is notified after every store mutation
type Listener func()

// Store is the in-memory registry of chat sessions, tracking logs and
// bookings. Nothing is persisted; the data lives as long as the Store.
type Store struct {
	mu       sync.Mutex
	now      func() time.Time
	sessions []*models.ChatSession // newest first
	current  *models.ChatSession
	logs     []models.TrackingLog // newest first
	bookings []models.Booking     // newest first

	nextListener int
	listeners    []registeredListener
}

type registeredListener struct {
	id int
	fn Listener
}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithClock overrides the time source
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// NewStore returns an empty store
func NewStore(opts ...StoreOption) *Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartSession creates a new session and makes it current. Earlier sessions
// stay in the list untouched.
func (s *Store) StartSession() models.ChatSession {
	s.mu.Lock()
	sess := s.startSessionLocked()
	out := sess.Clone()
	s.mu.Unlock()

	s.notify()
	return out
}

func (s *Store) startSessionLocked() *models.ChatSession {
	now := s.now()
	sess := &models.ChatSession{
		ID:              fmt.Sprintf("SESSION-%d-%s", now.UnixMilli(), randomToken(6)),
		StartTime:       now,
		LastActivity:    now,
		Messages:        []models.Message{},
		LeadTemperature: models.LeadCold,
		Intent:          "browsing",
	}
	s.sessions = append([]*models.ChatSession{sess}, s.sessions...)
	s.current = sess
	return sess
}

// RecordMessage appends msg to the current session, starting one if needed
func (s *Store) RecordMessage(msg models.Message) {
	s.mu.Lock()
	if s.current == nil {
		s.startSessionLocked()
	}
	s.current.Messages = append(s.current.Messages, msg.Clone())
	s.current.LastActivity = s.now()
	s.mu.Unlock()

	s.notify()
}

// UpdateUserInfo merges the non-nil fields of patch into the current
// session's user info, starting a session if needed.
func (s *Store) UpdateUserInfo(patch models.UserInfoPatch) {
	s.mu.Lock()
	if s.current == nil {
		s.startSessionLocked()
	}
	info := &s.current.UserInfo
	if patch.Name != nil {
		info.Name = *patch.Name
	}
	if patch.Phone != nil {
		info.Phone = *patch.Phone
	}
	if patch.Email != nil {
		info.Email = *patch.Email
	}
	s.mu.Unlock()

	s.notify()
}

// RecordTrackingLog prepends a log entry and copies its intent and lead
// temperature onto the current session, if there is one.
func (s *Store) RecordTrackingLog(entry models.TrackingEntry) models.TrackingLog {
	s.mu.Lock()
	log := s.recordTrackingLogLocked(entry)
	s.mu.Unlock()

	s.notify()
	return log
}

func (s *Store) recordTrackingLogLocked(entry models.TrackingEntry) models.TrackingLog {
	log := models.TrackingLog{
		ID:               randomToken(9),
		Timestamp:        s.now(),
		Intent:           entry.Intent,
		LeadTemperature:  entry.LeadTemperature,
		RecommendedCarID: entry.RecommendedCarID,
		MessageText:      entry.MessageText,
	}
	s.logs = append([]models.TrackingLog{log}, s.logs...)

	if s.current != nil {
		if entry.LeadTemperature != "" {
			s.current.LeadTemperature = models.LeadTemperature(entry.LeadTemperature)
		}
		if entry.Intent != "" {
			s.current.Intent = entry.Intent
		}
	}
	return log
}

// RecordBooking stores a booking, snapshotting the current customer's name
// and phone, and adds a booking_confirmed/hot tracking log.
func (s *Store) RecordBooking(entry models.BookingEntry) models.Booking {
	s.mu.Lock()
	b := models.Booking{
		ID:            "BK-" + strings.ToUpper(randomToken(6)),
		Timestamp:     s.now(),
		CarID:         entry.CarID,
		CustomerEmail: entry.CustomerEmail,
		Status:        entry.Status,
	}
	if b.Status == "" {
		b.Status = models.BookingConfirmed
	}
	if s.current != nil {
		b.CustomerName = s.current.UserInfo.Name
		b.CustomerPhone = s.current.UserInfo.Phone
	}
	s.bookings = append([]models.Booking{b}, s.bookings...)
	s.mu.Unlock()

	s.RecordTrackingLog(models.TrackingEntry{
		Intent:           "booking_confirmed",
		LeadTemperature:  string(models.LeadHot),
		RecommendedCarID: entry.CarID,
		MessageText:      "Booking confirmed for car " + entry.CarID,
	})

	s.notify()
	return b
}

// ClearCurrentSession forgets the current session; the next message starts
// a fresh one.
func (s *Store) ClearCurrentSession() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

// Subscribe registers fn and returns a function that removes it
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners = append(s.listeners, registeredListener{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// notify runs listeners in registration order, outside the lock so they can
// read snapshots.
func (s *Store) notify() {
	s.mu.Lock()
	listeners := append([]registeredListener(nil), s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		l.fn()
	}
}

// Sessions returns a snapshot of all sessions, newest first
func (s *Store) Sessions() []models.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ChatSession, len(s.sessions))
	for i, sess := range s.sessions {
		out[i] = sess.Clone()
	}
	return out
}

// CurrentSession returns a snapshot of the active session
func (s *Store) CurrentSession() (models.ChatSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return models.ChatSession{}, false
	}
	return s.current.Clone(), true
}

// Logs returns a snapshot of the tracking logs, newest first
func (s *Store) Logs() []models.TrackingLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.TrackingLog(nil), s.logs...)
}

// Bookings returns a snapshot of the bookings, newest first
func (s *Store) Bookings() []models.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Booking(nil), s.bookings...)
}

// randomToken returns n lowercase alphanumerics taken from a random uuid
func randomToken(n int) string {
	var b strings.Builder
	for b.Len() < n {
		b.WriteString(strings.ReplaceAll(uuid.NewString(), "-", ""))
	}
	return b.String()[:n]
}
