package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"abena-car-sales/models"
)

// ChatHooks observe a Send as it happens
type ChatHooks struct {
	// OnMessage fires when a message is appended to the visible list.
	OnMessage func(models.Message)
	RenderHooks
}

// ConversationStatus mirrors the widget's header and input state
type ConversationStatus struct {
	Loading     bool `json:"loading"`
	Typing      bool `json:"typing"`
	AutoNarrate bool `json:"autoNarrate"`
}

// ConversationDeps wires a Conversation
type ConversationDeps struct {
	Inventory    *Inventory
	Store        *Store
	Completer    Completer
	Renderer     *Renderer
	Narrator     Narrator
	BookingEmail string
	AutoNarrate  bool
	Now          func() time.Time
}

// Conversation is the visible chat: Abena's greeting followed by every
// message sent or received, including error and booking confirmations that
// never reach the store.
type Conversation struct {
	mu          sync.Mutex
	messages    []models.Message
	busy        bool
	loading     bool
	typing      bool
	autoNarrate bool

	inventory    *Inventory
	store        *Store
	completer    Completer
	extractor    *Extractor
	renderer     *Renderer
	narrator     Narrator
	bookingEmail string
	now          func() time.Time
	lastID       atomic.Int64
}

// NewConversation returns a conversation seeded with the greeting
func NewConversation(deps ConversationDeps) *Conversation {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	renderer := deps.Renderer
	if renderer == nil {
		renderer = &Renderer{}
	}
	if renderer.Recorder == nil {
		renderer.Recorder = deps.Store
	}
	if renderer.Narrator == nil {
		renderer.Narrator = deps.Narrator
	}

	c := &Conversation{
		autoNarrate:  deps.AutoNarrate,
		inventory:    deps.Inventory,
		store:        deps.Store,
		completer:    deps.Completer,
		extractor:    NewExtractor(deps.Inventory, deps.Store),
		renderer:     renderer,
		narrator:     deps.Narrator,
		bookingEmail: deps.BookingEmail,
		now:          now,
	}
	c.messages = []models.Message{{
		ID:        "greeting",
		Text:      Greeting,
		Sender:    models.SenderAI,
		Timestamp: now(),
	}}
	return c
}

// Send submits a user message and streams Abena's reply. Upstream failures
// become an apology message rather than an error; errors are returned only
// for rejected input or a cancelled ctx.
func (c *Conversation) Send(ctx context.Context, text string, attachment *models.Attachment, hooks ChatHooks) (models.Message, error) {
	if strings.TrimSpace(text) == "" && attachment == nil {
		return models.Message{}, ErrEmptyMessage
	}

	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return models.Message{}, ErrBusy
	}
	c.busy = true
	c.loading = true
	transcript := append([]models.Message(nil), c.messages...)
	userMsg := models.Message{
		ID:         c.newID(),
		Text:       text,
		Sender:     models.SenderUser,
		Timestamp:  c.now(),
		Attachment: attachment,
	}
	c.messages = append(c.messages, userMsg)
	narrate := c.autoNarrate
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.busy, c.loading, c.typing = false, false, false
		c.mu.Unlock()
	}()

	emit(hooks.OnMessage, userMsg)
	c.store.RecordMessage(userMsg)

	raw, err := c.completer.Complete(ctx, BuildPrompt(c.inventory, transcript, text))
	if err != nil {
		log.Printf("Failed to send message: %v", err)
		errMsg := models.Message{
			ID:        c.newID(),
			Text:      "Sorry, there was an error processing your message. " + err.Error(),
			Sender:    models.SenderAI,
			Timestamp: c.now(),
		}
		c.appendMessage(errMsg)
		emit(hooks.OnMessage, errMsg)
		return errMsg, nil
	}

	ex := c.extractor.Extract(raw)

	aiMsg := models.Message{
		ID:              c.newID(),
		Sender:          models.SenderAI,
		Timestamp:       c.now(),
		AIImages:        ex.Images,
		BookingProposal: ex.BookingProposal,
	}
	c.mu.Lock()
	c.loading = false
	c.typing = true
	c.messages = append(c.messages, aiMsg)
	c.mu.Unlock()
	emit(hooks.OnMessage, aiMsg)

	return c.renderer.Render(ctx, aiMsg, ex.Text, narrate, RenderHooks{
		OnState: hooks.OnState,
		OnUpdate: func(partial string) {
			c.setText(aiMsg.ID, partial)
			if hooks.OnUpdate != nil {
				hooks.OnUpdate(partial)
			}
		},
	})
}

// ConfirmBooking books an inspection for a proposed car and posts the
// confirmation into the chat.
func (c *Conversation) ConfirmBooking(carID, carName string) (models.Booking, models.Message, error) {
	car, ok := c.inventory.Find(carID)
	if !ok {
		return models.Booking{}, models.Message{}, fmt.Errorf("%w: %s", ErrUnknownCar, carID)
	}
	if carName == "" {
		carName = car.Name()
	}

	email := c.bookingEmail
	if sess, ok := c.store.CurrentSession(); ok && sess.UserInfo.Email != "" {
		email = sess.UserInfo.Email
	}

	booking := c.store.RecordBooking(models.BookingEntry{
		CarID:         car.ID,
		CustomerEmail: email,
		Status:        models.BookingConfirmed,
	})

	msg := models.Message{
		ID: c.newID(),
		Text: fmt.Sprintf("✅ **Booking Confirmed!**\n\nYour viewing for the **%s** has been scheduled. "+
			"Our sales manager will contact you shortly at %s to finalize the details.\n\n**Booking ID**: %s",
			carName, SalesPhone, booking.ID),
		Sender:    models.SenderAI,
		Timestamp: c.now(),
	}
	c.appendMessage(msg)

	if c.narrator != nil {
		go c.narrator.Narrate(fmt.Sprintf("Booking confirmed for your %s. We will contact you shortly.", carName))
	}
	return booking, msg, nil
}

// Messages returns a snapshot of the visible messages
func (c *Conversation) Messages() []models.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Message, len(c.messages))
	for i, m := range c.messages {
		out[i] = m.Clone()
	}
	return out
}

// Status reports the loading/typing indicators
func (c *Conversation) Status() ConversationStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ConversationStatus{Loading: c.loading, Typing: c.typing, AutoNarrate: c.autoNarrate}
}

// Clear empties the visible chat. Stored sessions are not touched.
func (c *Conversation) Clear() {
	c.mu.Lock()
	c.messages = nil
	c.mu.Unlock()
}

// SetAutoNarrate turns reading replies aloud on or off
func (c *Conversation) SetAutoNarrate(enabled bool) {
	c.mu.Lock()
	c.autoNarrate = enabled
	c.mu.Unlock()
}

func (c *Conversation) appendMessage(m models.Message) {
	c.mu.Lock()
	c.messages = append(c.messages, m)
	c.mu.Unlock()
}

func (c *Conversation) setText(id, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].ID == id {
			c.messages[i].Text = text
			return
		}
	}
}

// newID derives ids from the clock, bumped so they never repeat
func (c *Conversation) newID() string {
	for {
		last := c.lastID.Load()
		id := c.now().UnixNano()
		if id <= last {
			id = last + 1
		}
		if c.lastID.CompareAndSwap(last, id) {
			return strconv.FormatInt(id, 10)
		}
	}
}

func emit(fn func(models.Message), m models.Message) {
	if fn != nil {
		fn(m.Clone())
	}
}
