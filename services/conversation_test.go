package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"abena-car-sales/models"
)

type convFixture struct {
	conv    *Conversation
	store   *Store
	prompts []string
}

func newConvFixture(t *testing.T, reply func(prompt string) (string, error)) *convFixture {
	t.Helper()
	f := &convFixture{store: newTestStore()}
	f.conv = NewConversation(ConversationDeps{
		Inventory: DefaultInventory(),
		Store:     f.store,
		Completer: CompleterFunc(func(ctx context.Context, prompt string) (string, error) {
			f.prompts = append(f.prompts, prompt)
			return reply(prompt)
		}),
		Renderer:     &Renderer{Sleep: noSleep},
		BookingEmail: "sales@abena-motors.example",
		Now:          func() time.Time { return fixedNow },
	})
	return f
}

func TestNewConversation_StartsWithGreeting(t *testing.T) {
	f := newConvFixture(t, nil)
	msgs := f.conv.Messages()
	if len(msgs) != 1 {
		t.Fatalf("messages = %d, want 1", len(msgs))
	}
	if msgs[0].Sender != models.SenderAI || msgs[0].Text != Greeting {
		t.Errorf("first message = %+v", msgs[0])
	}
	if len(f.store.Sessions()) != 0 {
		t.Error("greeting should not start a session")
	}
}

func TestSend_StreamsAndRecordsReply(t *testing.T) {
	f := newConvFixture(t, func(string) (string, error) {
		return "Sure! ```json\n{\"action\":\"send_car_images\",\"car_id\":\"2\"}\n```\nHere is the Corolla.", nil
	})

	var appended []models.Message
	var partials []string
	final, err := f.conv.Send(context.Background(), "Show me the Corolla", nil, ChatHooks{
		OnMessage:   func(m models.Message) { appended = append(appended, m) },
		RenderHooks: RenderHooks{OnUpdate: func(p string) { partials = append(partials, p) }},
	})
	if err != nil {
		t.Fatal(err)
	}

	if final.Text != "Sure! \nHere is the Corolla." {
		t.Errorf("final.Text = %q", final.Text)
	}
	if len(final.AIImages) != 1 || final.AIImages[0] != imageOf(t, "2") {
		t.Errorf("AIImages = %v", final.AIImages)
	}
	if len(appended) != 2 || appended[0].Sender != models.SenderUser || appended[1].Sender != models.SenderAI {
		t.Fatalf("appended = %+v", appended)
	}
	if appended[1].Text != "" {
		t.Errorf("AI message should start empty, got %q", appended[1].Text)
	}
	if partials[len(partials)-1] != final.Text {
		t.Errorf("last partial = %q", partials[len(partials)-1])
	}

	msgs := f.conv.Messages()
	if len(msgs) != 3 {
		t.Fatalf("visible messages = %d, want 3", len(msgs))
	}
	if msgs[2].Text != final.Text {
		t.Errorf("visible AI text = %q", msgs[2].Text)
	}

	sess, ok := f.store.CurrentSession()
	if !ok || len(sess.Messages) != 2 {
		t.Fatalf("session messages = %+v", sess.Messages)
	}
	if sess.Messages[0].Text != "Show me the Corolla" || sess.Messages[1].Text != final.Text {
		t.Errorf("stored = %q, %q", sess.Messages[0].Text, sess.Messages[1].Text)
	}

	if st := f.conv.Status(); st.Loading || st.Typing {
		t.Errorf("status after send = %+v", st)
	}
}

func TestSend_PromptCarriesTranscript(t *testing.T) {
	f := newConvFixture(t, func(string) (string, error) { return "First answer", nil })
	if _, err := f.conv.Send(context.Background(), "first", nil, ChatHooks{}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.conv.Send(context.Background(), "second", nil, ChatHooks{}); err != nil {
		t.Fatal(err)
	}

	if len(f.prompts) != 2 {
		t.Fatalf("prompts = %d", len(f.prompts))
	}
	p := f.prompts[1]
	for _, want := range []string{"ID: 2 | 2015 Toyota Corolla | ₵115,000", "User: first", "Assistant: First answer", "User: second"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Count(p, "User: second") != 1 {
		t.Error("new message should appear once, after the transcript")
	}
}

func TestSend_CompletionErrorBecomesApology(t *testing.T) {
	f := newConvFixture(t, func(string) (string, error) { return "", errors.New("status 502") })

	msg, err := f.conv.Send(context.Background(), "hello", nil, ChatHooks{})
	if err != nil {
		t.Fatalf("err = %v, want nil", err)
	}
	if msg.Text != "Sorry, there was an error processing your message. status 502" {
		t.Errorf("Text = %q", msg.Text)
	}
	if msg.Sender != models.SenderAI {
		t.Errorf("Sender = %q", msg.Sender)
	}

	if n := len(f.conv.Messages()); n != 3 {
		t.Errorf("visible messages = %d, want 3", n)
	}
	sess, _ := f.store.CurrentSession()
	if len(sess.Messages) != 1 {
		t.Errorf("stored messages = %d, want only the user's", len(sess.Messages))
	}
	if st := f.conv.Status(); st.Loading || st.Typing {
		t.Errorf("status = %+v", st)
	}
}

func TestSend_RejectsEmpty(t *testing.T) {
	f := newConvFixture(t, func(string) (string, error) { return "x", nil })

	if _, err := f.conv.Send(context.Background(), "   ", nil, ChatHooks{}); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("err = %v, want ErrEmptyMessage", err)
	}
	if len(f.prompts) != 0 {
		t.Error("empty message should not be sent")
	}

	att := &models.Attachment{Type: models.AttachmentImage, Data: "aGk=", MimeType: "image/png"}
	if _, err := f.conv.Send(context.Background(), "", att, ChatHooks{}); err != nil {
		t.Errorf("attachment-only send: %v", err)
	}
}

func TestSend_BusyWhileReplying(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once
	f := newConvFixture(t, func(string) (string, error) {
		once.Do(func() { close(started) })
		<-release
		return "done", nil
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := f.conv.Send(context.Background(), "first", nil, ChatHooks{}); err != nil {
			t.Errorf("first send: %v", err)
		}
	}()
	<-started

	if st := f.conv.Status(); !st.Loading {
		t.Errorf("status while waiting = %+v, want loading", st)
	}
	if _, err := f.conv.Send(context.Background(), "second", nil, ChatHooks{}); !errors.Is(err, ErrBusy) {
		t.Errorf("err = %v, want ErrBusy", err)
	}

	close(release)
	wg.Wait()

	if _, err := f.conv.Send(context.Background(), "third", nil, ChatHooks{}); errors.Is(err, ErrBusy) {
		t.Error("conversation still busy after reply finished")
	}
}

func TestSend_CancelledRenderIsNotRecorded(t *testing.T) {
	store := newTestStore()
	ctx, cancel := context.WithCancel(context.Background())
	conv := NewConversation(ConversationDeps{
		Inventory: DefaultInventory(),
		Store:     store,
		Completer: CompleterFunc(func(context.Context, string) (string, error) {
			return "one two three", nil
		}),
		Renderer: &Renderer{Sleep: func(ctx context.Context, d time.Duration) error {
			cancel()
			return ctx.Err()
		}},
	})

	_, err := conv.Send(ctx, "hi", nil, ChatHooks{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	sess, _ := store.CurrentSession()
	if len(sess.Messages) != 1 {
		t.Errorf("stored messages = %d, want 1", len(sess.Messages))
	}
}

func TestSend_AutoNarrate(t *testing.T) {
	narrator := make(chanNarrator, 1)
	conv := NewConversation(ConversationDeps{
		Inventory: DefaultInventory(),
		Store:     newTestStore(),
		Completer: CompleterFunc(func(context.Context, string) (string, error) {
			return "Read this aloud", nil
		}),
		Renderer:    &Renderer{Sleep: noSleep},
		Narrator:    narrator,
		AutoNarrate: true,
	})
	if !conv.Status().AutoNarrate {
		t.Error("AutoNarrate should be on")
	}

	if _, err := conv.Send(context.Background(), "hi", nil, ChatHooks{}); err != nil {
		t.Fatal(err)
	}
	select {
	case got := <-narrator:
		if got != "Read this aloud" {
			t.Errorf("narrated %q", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("reply was not narrated")
	}

	conv.SetAutoNarrate(false)
	if conv.Status().AutoNarrate {
		t.Error("AutoNarrate should be off")
	}
}

func TestConfirmBooking(t *testing.T) {
	f := newConvFixture(t, nil)

	booking, msg, err := f.conv.ConfirmBooking("5", "")
	if err != nil {
		t.Fatal(err)
	}
	if booking.CarID != "5" || booking.CustomerEmail != "sales@abena-motors.example" || booking.Status != models.BookingConfirmed {
		t.Errorf("booking = %+v", booking)
	}
	for _, want := range []string{"**Toyota Land Cruiser Prado**", SalesPhone, "**Booking ID**: " + booking.ID} {
		if !strings.Contains(msg.Text, want) {
			t.Errorf("confirmation missing %q: %q", want, msg.Text)
		}
	}

	msgs := f.conv.Messages()
	if msgs[len(msgs)-1].ID != msg.ID {
		t.Error("confirmation should be appended to the chat")
	}

	bookings := f.store.Bookings()
	if len(bookings) != 1 || bookings[0].ID != booking.ID {
		t.Errorf("store bookings = %+v", bookings)
	}
	logs := f.store.Logs()
	if len(logs) != 1 || logs[0].Intent != "booking_confirmed" {
		t.Errorf("logs = %+v", logs)
	}
}

func TestConfirmBooking_UsesCustomerEmail(t *testing.T) {
	f := newConvFixture(t, nil)
	f.store.UpdateUserInfo(models.UserInfoPatch{Email: strPtr("esi@example.com")})

	booking, msg, err := f.conv.ConfirmBooking("1", "The Camry")
	if err != nil {
		t.Fatal(err)
	}
	if booking.CustomerEmail != "esi@example.com" {
		t.Errorf("CustomerEmail = %q", booking.CustomerEmail)
	}
	if !strings.Contains(msg.Text, "**The Camry**") {
		t.Errorf("confirmation should use the given car name: %q", msg.Text)
	}
}

func TestConfirmBooking_UnknownCar(t *testing.T) {
	f := newConvFixture(t, nil)

	if _, _, err := f.conv.ConfirmBooking("404", ""); !errors.Is(err, ErrUnknownCar) {
		t.Errorf("err = %v, want ErrUnknownCar", err)
	}
	if len(f.store.Bookings()) != 0 {
		t.Error("no booking should be recorded")
	}
}

func TestClear(t *testing.T) {
	f := newConvFixture(t, func(string) (string, error) { return "ok", nil })
	if _, err := f.conv.Send(context.Background(), "hi", nil, ChatHooks{}); err != nil {
		t.Fatal(err)
	}

	f.conv.Clear()
	if n := len(f.conv.Messages()); n != 0 {
		t.Errorf("messages = %d after Clear", n)
	}
	if n := len(f.store.Sessions()); n != 1 {
		t.Errorf("stored sessions = %d, Clear should not touch the store", n)
	}
}

func TestNewID_UniqueUnderFixedClock(t *testing.T) {
	f := newConvFixture(t, nil)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := f.conv.newID()
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}
