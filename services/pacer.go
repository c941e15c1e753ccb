package services

import (
	"math/rand"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// Pacer decides how long the renderer waits before and between words
type Pacer interface {
	// Thinking is the pause before the first word appears.
	Thinking() time.Duration
	// After is the pause once token has been shown.
	After(token string) time.Duration
}

// InstantPacer never waits
type InstantPacer struct{}

func (InstantPacer) Thinking() time.Duration    { return 0 }
func (InstantPacer) After(string) time.Duration { return 0 }

// HumanPacer imitates someone typing on a phone: a thinking pause, then a
// per-word delay that grows with word length and stretches at punctuation,
// with occasional bursts on short words.
type HumanPacer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewHumanPacer returns a pacer; seed 0 picks a time-based seed
func NewHumanPacer(seed int64) *HumanPacer {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &HumanPacer{rng: rand.New(rand.NewSource(seed))}
}

func (p *HumanPacer) float() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.Float64()
}

// Thinking waits 800-2000ms
func (p *HumanPacer) Thinking() time.Duration {
	return ms(800 + p.float()*1200)
}

// After computes the per-word delay in milliseconds:
// 25-75 base, +5 per character, then +600-1000 after . ? !,
// +250-450 after , ; : or +40-100 for words over 8 characters.
// Words under 3 characters have a 30% chance of a flat 10ms instead.
func (p *HumanPacer) After(token string) time.Duration {
	word := strings.ToLower(token)
	n := utf8.RuneCountInString(word)

	delay := 25 + p.float()*50
	delay += float64(n) * 5

	switch {
	case strings.HasSuffix(word, ".") || strings.HasSuffix(word, "?") || strings.HasSuffix(word, "!"):
		delay += 600 + p.float()*400
	case strings.HasSuffix(word, ",") || strings.HasSuffix(word, ";") || strings.HasSuffix(word, ":"):
		delay += 250 + p.float()*200
	case n > 8:
		delay += 40 + p.float()*60
	}

	if n < 3 && p.float() > 0.7 {
		delay = 10
	}
	return ms(delay)
}

func ms(v float64) time.Duration {
	return time.Duration(v * float64(time.Millisecond))
}
