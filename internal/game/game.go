// Package game runs one operator session: it binds the terminal screen to
// the dialogue machine, the typewriter and the side-effect sinks, and drives
// them all from a single event loop.
package game

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"matrix-terminal/internal/cue"
	"matrix-terminal/internal/missionlog"
	"matrix-terminal/internal/narrate"
	"matrix-terminal/internal/render"
	"matrix-terminal/internal/story"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"k8s.io/utils/clock"
)

// DefaultRainFrame is the background animation period.
const DefaultRainFrame = 50 * time.Millisecond

// quitPrompt is shown before the session ends.
const quitPrompt = " Disconnect from the Matrix? (y/n) "

// Recorder accepts mission-log entries without blocking.
// missionlog.Retrying implements it.
type Recorder interface {
	Submit(e missionlog.Entry)
}

// Options wires a Game. Zero values select silent, log-free defaults.
type Options struct {
	Cadence   time.Duration
	RainFrame time.Duration
	NoRain    bool

	Voice    narrate.Speaker
	Cue      cue.Cue
	Recorder Recorder
	Logger   *zap.Logger
	Clock    clock.WithTicker
	Rng      *rand.Rand
}

// Game is the top-level orchestrator of one session.
type Game struct {
	screen     tcell.Screen
	renderer   *render.Renderer
	transcript *render.Transcript
	rain       *render.Rain
	machine    *story.Machine
	writer     *narrate.Typewriter
	cue        cue.Cue
	recorder   Recorder
	logger     *zap.Logger
	clock      clock.WithTicker
	rainFrame  time.Duration

	label      string
	input      inputLine
	confirming bool
}

// New creates a Game on an initialized screen. The machine starts offline;
// Run performs the initial reset.
func New(screen tcell.Screen, opts Options) *Game {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Cue == nil {
		opts.Cue = cue.Nop{}
	}
	if opts.Recorder == nil {
		opts.Recorder = discard{}
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.Rng == nil {
		opts.Rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.RainFrame <= 0 {
		opts.RainFrame = DefaultRainFrame
	}

	g := &Game{
		screen:     screen,
		transcript: render.NewTranscript(),
		machine:    story.NewMachine(opts.Rng),
		cue:        opts.Cue,
		recorder:   opts.Recorder,
		logger:     opts.Logger,
		clock:      opts.Clock,
		rainFrame:  opts.RainFrame,
	}
	if !opts.NoRain {
		g.rain = render.NewRain(opts.Rng)
	}
	g.renderer = render.NewRenderer(screen, g.rain, g.transcript)

	writerOpts := []narrate.Option{
		narrate.WithClock(opts.Clock),
		narrate.WithCadence(opts.Cadence),
		narrate.WithPercussion(opts.Cue),
		narrate.WithLogger(opts.Logger),
	}
	if opts.Voice != nil {
		writerOpts = append(writerOpts, narrate.WithVoice(opts.Voice))
	}
	g.writer = narrate.NewTypewriter(g.transcript, opts.Rng, writerOpts...)
	g.label = story.Prompt(g.machine.Stage())
	return g
}

// Stage returns the current stage.
func (g *Game) Stage() story.Stage { return g.machine.Stage() }

// Label returns the status label next to the command line.
func (g *Game) Label() string { return g.label }

// Transcript returns the display surface.
func (g *Game) Transcript() *render.Transcript { return g.transcript }

// Narrating reports whether a response is still being revealed.
func (g *Game) Narrating() bool { return g.writer.Active() }

// Submit processes one operator submission. Blank input is answered with a
// fixed prompt and never reaches the machine.
func (g *Game) Submit(raw string) story.Outcome {
	query := strings.TrimSpace(raw)
	if query == "" {
		g.writer.Render(story.EmptyDisplay, story.EmptySpeech, nil)
		return story.Outcome{Stage: g.machine.Stage(), From: g.machine.Stage()}
	}

	out := g.machine.Evaluate(query)
	g.label = story.Prompt(out.Stage)
	g.logger.Info("command evaluated",
		zap.String("command", story.Normalize(query)),
		zap.Int("from", int(out.From)),
		zap.Int("to", int(out.Stage)),
		zap.Bool("flavor", out.Flavor),
	)
	g.fire(out)

	if out.Reset {
		g.writer.Render(out.Response, out.Response, nil)
	} else {
		g.writer.Render("> "+query+"\n\n"+out.Response, out.Response, nil)
	}
	return out
}

// fire runs the outcome's side effects. They are not tied to narration.
func (g *Game) fire(out story.Outcome) {
	for _, e := range out.Effects {
		switch e {
		case story.EffectFailCue:
			g.cue.Fail()
		case story.EffectWinCue:
			g.cue.Win()
		case story.EffectLogFailure:
			g.recorder.Submit(missionlog.NewEntry(missionlog.StatusFailure, out.Detail, int(out.From)))
		case story.EffectLogSuccess:
			g.recorder.Submit(missionlog.NewEntry(missionlog.StatusSuccess, out.Detail, int(out.From)))
		}
	}
}

// HandleKey applies one key press. It returns true when the session should end.
func (g *Game) HandleKey(ev *tcell.EventKey) bool {
	if g.confirming {
		g.confirming = false
		return ev.Rune() == 'y' || ev.Rune() == 'Y'
	}
	switch keyToAction(ev) {
	case ActionType:
		g.input.typeRune(ev.Rune())
	case ActionErase:
		g.input.erase()
	case ActionSubmit:
		g.Submit(g.input.take())
	case ActionQuit:
		g.confirming = true
	}
	return false
}

// Draw renders the current frame.
func (g *Game) Draw() {
	g.renderer.Draw(g.label, g.input.String())
	if g.confirming {
		g.renderer.DrawConfirm(quitPrompt)
	}
}

// Run resets the simulation and processes events until the operator quits,
// the screen closes, or ctx is done. The screen is finalized on return.
func (g *Game) Run(ctx context.Context) {
	defer g.screen.Fini()
	defer g.writer.Cancel()

	done := make(chan struct{})
	defer close(done)
	eventCh := make(chan tcell.Event, 32)
	go func() {
		defer close(eventCh)
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventCh <- ev:
			case <-done:
				return
			}
		}
	}()

	var rainC <-chan time.Time
	if g.rain != nil {
		t := g.clock.NewTicker(g.rainFrame)
		defer t.Stop()
		rainC = t.C()
	}

	g.Submit(story.ResetCommand)
	g.logger.Info("session started")
	for {
		g.Draw()
		select {
		case <-ctx.Done():
			g.logger.Info("session cancelled")
			return
		case ev, ok := <-eventCh:
			if !ok {
				g.logger.Info("screen closed")
				return
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				g.screen.Sync()
				g.renderer.Resize()
			case *tcell.EventKey:
				if g.HandleKey(ev) {
					g.logger.Info("session ended by operator", zap.Int("stage", int(g.machine.Stage())))
					return
				}
			}
		case <-g.writer.C():
			g.writer.Advance()
		case <-rainC:
			g.rain.Step()
		}
	}
}

type discard struct{}

func (discard) Submit(missionlog.Entry) {}
