package narrate

import (
	"math/rand"
	"time"

	"go.uber.org/zap"
	"k8s.io/utils/clock"
)

// DefaultCadence is the delay between two reveal steps.
const DefaultCadence = 75 * time.Millisecond

// Tick pitches are drawn from [TickPitchLow, TickPitchLow+TickPitchBand), in MIDI notes.
const (
	TickPitchLow  = 40.0
	TickPitchBand = 5.0
)

// Surface receives revealed text.
type Surface interface {
	Reset()
	Put(r rune, emphasis bool)
	Break()
}

// Speaker speaks whole utterances. Voice implements it.
type Speaker interface {
	Speak(text string)
	Cancel()
}

// Percussion receives the per-character tick.
type Percussion interface {
	Tick(pitch float64)
}

// job is one in-flight narration.
type job struct {
	id         uint64
	steps      []Step
	pos        int
	emphasis   bool
	ticker     clock.Ticker
	onComplete func()
}

// Typewriter reveals text onto a Surface on a fixed cadence. At most one job
// is live; Render supersedes whatever was running.
//
// Typewriter never starts goroutines. The owner's event loop selects on C()
// and calls Advance for every tick, so the surface is only touched from that
// loop.
type Typewriter struct {
	clock   clock.WithTicker
	cadence time.Duration
	surface Surface
	voice   Speaker
	tick    Percussion
	rng     *rand.Rand
	logger  *zap.Logger

	job    *job
	nextID uint64
}

// Option configures a Typewriter.
type Option func(*Typewriter)

// WithClock replaces the real clock, mainly for tests.
func WithClock(c clock.WithTicker) Option { return func(t *Typewriter) { t.clock = c } }

// WithCadence sets the delay between reveal steps.
func WithCadence(d time.Duration) Option {
	return func(t *Typewriter) {
		if d > 0 {
			t.cadence = d
		}
	}
}

// WithVoice attaches a speaker. Without one, renders are silent.
func WithVoice(s Speaker) Option { return func(t *Typewriter) { t.voice = s } }

// WithPercussion attaches the per-character tick.
func WithPercussion(p Percussion) Option { return func(t *Typewriter) { t.tick = p } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(t *Typewriter) { t.logger = l } }

// NewTypewriter returns an idle typewriter writing to surface.
func NewTypewriter(surface Surface, rng *rand.Rand, opts ...Option) *Typewriter {
	t := &Typewriter{
		clock:   clock.RealClock{},
		cadence: DefaultCadence,
		surface: surface,
		rng:     rng,
		logger:  zap.NewNop(),
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Render starts a new job. The surface is cleared, speech (if non-empty) is
// spoken once, and the first step is revealed before Render returns.
// onComplete runs exactly once, after the last step; never for a job that is
// superseded.
func (t *Typewriter) Render(text, speech string, onComplete func()) {
	t.Cancel()
	t.surface.Reset()
	if speech != "" && t.voice != nil {
		t.voice.Speak(speech)
	}

	t.nextID++
	j := &job{id: t.nextID, steps: Tokenize(text), onComplete: onComplete}
	t.job = j
	t.logger.Debug("narration started", zap.Uint64("job", j.id), zap.Int("steps", len(j.steps)))

	t.Advance()
	if t.job == j {
		j.ticker = t.clock.NewTicker(t.cadence)
	}
}

// C delivers a value whenever the live job is due for its next step. It is
// nil while idle, which blocks forever in a select.
func (t *Typewriter) C() <-chan time.Time {
	if t.job == nil || t.job.ticker == nil {
		return nil
	}
	return t.job.ticker.C()
}

// Active reports whether a job is live.
func (t *Typewriter) Active() bool { return t.job != nil }

// Advance reveals the next step of the live job, or finishes it when every
// step has been shown. It is a no-op while idle.
func (t *Typewriter) Advance() {
	j := t.job
	if j == nil {
		return
	}
	if j.pos >= len(j.steps) {
		t.finish(j)
		return
	}

	s := j.steps[j.pos]
	j.pos++
	switch s.Kind {
	case StepBreak:
		t.surface.Break()
	case StepEmphasis:
		j.emphasis = !j.emphasis
	default:
		t.surface.Put(s.Rune, j.emphasis)
	}
	if s.Audible() && t.tick != nil {
		t.tick.Tick(TickPitchLow + t.rng.Float64()*TickPitchBand)
	}
}

// Flush reveals every remaining step of the live job and completes it.
func (t *Typewriter) Flush() {
	j := t.job
	for t.job == j && j != nil {
		t.Advance()
	}
}

// Cancel drops the live job without completing it and silences speech.
func (t *Typewriter) Cancel() {
	j := t.job
	if j == nil {
		return
	}
	t.stop(j)
	if t.voice != nil {
		t.voice.Cancel()
	}
	t.logger.Debug("narration superseded", zap.Uint64("job", j.id), zap.Int("revealed", j.pos))
}

func (t *Typewriter) finish(j *job) {
	t.stop(j)
	t.logger.Debug("narration complete", zap.Uint64("job", j.id))
	if j.onComplete != nil {
		j.onComplete()
	}
}

func (t *Typewriter) stop(j *job) {
	if j.ticker != nil {
		j.ticker.Stop()
	}
	if t.job == j {
		t.job = nil
	}
}
