package services

import (
	"context"
	"log"
	"strings"
	"time"

	"abena-car-sales/models"
)

// RenderState tracks a reply's progress through the renderer
type RenderState string

const (
	StateIdle      RenderState = "idle"
	StateThinking  RenderState = "thinking"
	StateStreaming RenderState = "streaming"
	StateComplete  RenderState = "complete"
)

// MessageRecorder stores completed messages
type MessageRecorder interface {
	RecordMessage(msg models.Message)
}

// Narrator reads a message aloud. Calls are fire-and-forget.
type Narrator interface {
	Narrate(text string)
}

// LogNarrator stands in for a speech engine by logging what would be said
type LogNarrator struct{}

func (LogNarrator) Narrate(text string) {
	log.Printf("Narrating %d characters", len(text))
}

// RenderHooks observe a render as it happens. Both fields are optional.
type RenderHooks struct {
	OnState  func(RenderState)
	OnUpdate func(partial string)
}

// Renderer reveals a finished reply word by word
type Renderer struct {
	Pacer    Pacer
	Recorder MessageRecorder
	Narrator Narrator
	// Sleep waits for d or until ctx is done. Defaults to a timer.
	Sleep func(ctx context.Context, d time.Duration) error
	Now   func() time.Time
}

// Render streams text into msg. Each update carries the text revealed so far;
// the last one equals text exactly. Once complete, the message is recorded
// and, if narrate is set, handed to the narrator. A cancelled ctx stops the
// reveal where it is and nothing is recorded.
func (r *Renderer) Render(ctx context.Context, msg models.Message, text string, narrate bool, hooks RenderHooks) (models.Message, error) {
	pacer := r.Pacer
	if pacer == nil {
		pacer = InstantPacer{}
	}
	sleep := r.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	now := r.Now
	if now == nil {
		now = time.Now
	}
	state := func(s RenderState) {
		if hooks.OnState != nil {
			hooks.OnState(s)
		}
	}

	state(StateThinking)
	if err := sleep(ctx, pacer.Thinking()); err != nil {
		return msg, err
	}

	state(StateStreaming)
	words := strings.Split(text, " ")
	var current strings.Builder
	for i, word := range words {
		if i > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(word)
		msg.Text = current.String()
		if hooks.OnUpdate != nil {
			hooks.OnUpdate(msg.Text)
		}

		if err := sleep(ctx, pacer.After(word)); err != nil {
			return msg, err
		}
	}
	state(StateComplete)

	final := msg.Clone()
	final.Text = text
	final.Timestamp = now()
	if r.Recorder != nil {
		r.Recorder.RecordMessage(final)
	}

	if narrate && r.Narrator != nil {
		go r.Narrator.Narrate(text)
	}
	return final, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
