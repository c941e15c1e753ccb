package models

import "time"

// LeadTemperature estimates a prospect's purchase intent
type LeadTemperature string

const (
	LeadCold LeadTemperature = "cold"
	LeadWarm LeadTemperature = "warm"
	LeadHot  LeadTemperature = "hot"
)

// UserInfo holds whatever the customer has told us about themselves
type UserInfo struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// ChatSession is one continuous conversation
type ChatSession struct {
	ID              string          `json:"id"`
	StartTime       time.Time       `json:"startTime"`
	LastActivity    time.Time       `json:"lastActivity"`
	UserInfo        UserInfo        `json:"userInfo"`
	Messages        []Message       `json:"messages"`
	LeadTemperature LeadTemperature `json:"leadTemperature"`
	Intent          string          `json:"intent"`
}

// Clone returns a deep copy of the session
func (s ChatSession) Clone() ChatSession {
	out := s
	out.Messages = make([]Message, len(s.Messages))
	for i, m := range s.Messages {
		out.Messages[i] = m.Clone()
	}
	return out
}

// TrackingLog is one lead-qualification event
type TrackingLog struct {
	ID               string    `json:"id"`
	Timestamp        time.Time `json:"timestamp"`
	Intent           string    `json:"intent"`
	LeadTemperature  string    `json:"lead_temperature"`
	RecommendedCarID string    `json:"recommended_car_id,omitempty"`
	MessageText      string    `json:"messageText"`
}

// TrackingEntry is the caller-supplied part of a TrackingLog
type TrackingEntry struct {
	Intent           string
	LeadTemperature  string
	RecommendedCarID string
	MessageText      string
}
