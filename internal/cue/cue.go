// Package cue triggers the sound cues played at narrative milestones.
package cue

import (
	"sync"
	"time"
)

// Cue is the feedback capability: a percussive tick per revealed character,
// a chord on victory and a noise burst on failure. Implementations never block.
type Cue interface {
	Tick(pitch float64)
	Win()
	Fail()
}

// Nop is a silent Cue.
type Nop struct{}

func (Nop) Tick(float64) {}
func (Nop) Win()         {}
func (Nop) Fail()        {}

// Beeper is the part of tcell.Screen a Bell needs.
type Beeper interface {
	Beep() error
}

// Bell rings the terminal bell. A terminal has one pitch, so ticks are silent
// unless TickEvery is set, in which case at most one tick per interval rings.
type Bell struct {
	screen    Beeper
	TickEvery time.Duration

	mu       sync.Mutex
	lastTick time.Time
	now      func() time.Time
}

// NewBell returns a Bell ringing on screen.
func NewBell(screen Beeper) *Bell {
	return &Bell{screen: screen, now: time.Now}
}

func (b *Bell) Tick(float64) {
	if b.TickEvery <= 0 {
		return
	}
	b.mu.Lock()
	now := b.now()
	due := now.Sub(b.lastTick) >= b.TickEvery
	if due {
		b.lastTick = now
	}
	b.mu.Unlock()
	if due {
		_ = b.screen.Beep()
	}
}

// Win rings once.
func (b *Bell) Win() { _ = b.screen.Beep() }

// Fail rings twice.
func (b *Bell) Fail() {
	_ = b.screen.Beep()
	_ = b.screen.Beep()
}

// Multi fans every cue out to several Cues.
type Multi []Cue

func (m Multi) Tick(pitch float64) {
	for _, c := range m {
		c.Tick(pitch)
	}
}

func (m Multi) Win() {
	for _, c := range m {
		c.Win()
	}
}

func (m Multi) Fail() {
	for _, c := range m {
		c.Fail()
	}
}
