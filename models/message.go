package models

import "time"

// Sender identifies who authored a message
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// AttachmentType is the kind of media attached to a user message
type AttachmentType string

const (
	AttachmentImage AttachmentType = "image"
	AttachmentAudio AttachmentType = "audio"
)

// Attachment is media sent along with a user message
type Attachment struct {
	Type     AttachmentType `json:"type" binding:"required,oneof=image audio"`
	Data     string         `json:"data" binding:"required,base64"`
	MimeType string         `json:"mimeType" binding:"required"`
	URL      string         `json:"url"`
}

// BookingProposal offers the customer a one-click inspection booking
type BookingProposal struct {
	CarID   string `json:"carId"`
	CarName string `json:"carName"`
}

// Message is a single chat bubble. AI messages grow in place while streaming.
type Message struct {
	ID              string           `json:"id"`
	Text            string           `json:"text"`
	Sender          Sender           `json:"sender"`
	Timestamp       time.Time        `json:"timestamp"`
	Attachment      *Attachment      `json:"attachment,omitempty"`
	AIImages        []string         `json:"aiImages,omitempty"`
	BookingProposal *BookingProposal `json:"bookingProposal,omitempty"`
}

// Clone returns a copy that shares no slices or pointers with m
func (m Message) Clone() Message {
	out := m
	if m.Attachment != nil {
		a := *m.Attachment
		out.Attachment = &a
	}
	if m.AIImages != nil {
		out.AIImages = append([]string(nil), m.AIImages...)
	}
	if m.BookingProposal != nil {
		p := *m.BookingProposal
		out.BookingProposal = &p
	}
	return out
}
