package game

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"matrix-terminal/internal/missionlog"
	"matrix-terminal/internal/story"

	"github.com/gdamore/tcell/v2"
	clocktesting "k8s.io/utils/clock/testing"
)

// ─── helpers ──────────────────────────────────────────────────────────────────

func newSimScreen() tcell.SimulationScreen {
	ss := tcell.NewSimulationScreen("UTF-8")
	ss.SetSize(80, 24)
	_ = ss.Init()
	return ss
}

type recordCue struct {
	mu                 sync.Mutex
	ticks, wins, fails int
}

func (c *recordCue) Tick(float64) { c.mu.Lock(); c.ticks++; c.mu.Unlock() }
func (c *recordCue) Win()         { c.mu.Lock(); c.wins++; c.mu.Unlock() }
func (c *recordCue) Fail()        { c.mu.Lock(); c.fails++; c.mu.Unlock() }

type recordLog struct {
	mu      sync.Mutex
	entries []missionlog.Entry
}

func (r *recordLog) Submit(e missionlog.Entry) {
	r.mu.Lock()
	r.entries = append(r.entries, e)
	r.mu.Unlock()
}

type recordVoice struct{ spoken []string }

func (v *recordVoice) Speak(text string) { v.spoken = append(v.spoken, text) }
func (v *recordVoice) Cancel()           {}

type fixture struct {
	g     *Game
	cue   *recordCue
	log   *recordLog
	voice *recordVoice
	clock *clocktesting.FakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		cue:   &recordCue{},
		log:   &recordLog{},
		voice: &recordVoice{},
		clock: clocktesting.NewFakeClock(time.Unix(0, 0)),
	}
	f.g = New(newSimScreen(), Options{
		Cue:      f.cue,
		Recorder: f.log,
		Voice:    f.voice,
		Clock:    f.clock,
		Rng:      rand.New(rand.NewSource(42)),
	})
	return f
}

// submitAndReveal submits raw and reveals the whole response.
func (f *fixture) submitAndReveal(raw string) story.Outcome {
	out := f.g.Submit(raw)
	f.g.writer.Flush()
	return out
}

func typeString(g *Game, s string) {
	for _, r := range s {
		g.HandleKey(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
}

// ─── scenarios ────────────────────────────────────────────────────────────────

func TestResetFromOffline(t *testing.T) {
	f := newFixture(t)
	if f.g.Stage() != story.StageOffline {
		t.Fatalf("new game should start offline, got stage %d", f.g.Stage())
	}
	f.submitAndReveal("reset")

	if f.g.Stage() != story.StageContact {
		t.Errorf("stage = %d, want 1", f.g.Stage())
	}
	if !strings.Contains(f.g.Transcript().String(), "System Online") {
		t.Errorf("transcript missing intro: %q", f.g.Transcript().String())
	}
	if f.g.Label() != "// STAGE 1 // COMMAND >" {
		t.Errorf("label = %q", f.g.Label())
	}
	if strings.HasPrefix(f.g.Transcript().String(), ">") {
		t.Error("reset shows the intro without echoing the command")
	}
}

func TestAcceptEchoesAndOffersPills(t *testing.T) {
	f := newFixture(t)
	f.submitAndReveal("reset")
	f.submitAndReveal("  accept ")

	text := f.g.Transcript().String()
	if !strings.HasPrefix(text, "> accept\n\n") {
		t.Errorf("transcript should echo the trimmed command, got %q", text)
	}
	if !strings.Contains(text, "red pill") || !strings.Contains(text, "blue pill") {
		t.Errorf("transcript should offer both pills: %q", text)
	}
	if strings.Contains(text, "*") {
		t.Error("emphasis markers leaked into the transcript")
	}
	found := false
	for _, span := range f.g.Transcript().Emphasized() {
		if span == "'RED'" {
			found = true
		}
	}
	if !found {
		t.Errorf("'RED' should be emphasized, spans = %v", f.g.Transcript().Emphasized())
	}
}

func TestLabelUpdatesBeforeNarrationFinishes(t *testing.T) {
	f := newFixture(t)
	f.submitAndReveal("reset")
	f.g.Submit("accept")
	if !f.g.Narrating() {
		t.Fatal("response should still be revealing")
	}
	if f.g.Label() != "// STAGE 2 // COMMAND >" {
		t.Errorf("label = %q, want stage 2 immediately", f.g.Label())
	}
}

func TestSpeechUsesResponseOnly(t *testing.T) {
	f := newFixture(t)
	f.submitAndReveal("reset")
	f.submitAndReveal("accept")
	last := f.voice.spoken[len(f.voice.spoken)-1]
	if strings.HasPrefix(last, ">") {
		t.Errorf("speech should not include the echoed command: %q", last)
	}
}

func TestEmptySubmissionRePrompts(t *testing.T) {
	f := newFixture(t)
	f.submitAndReveal("reset")
	f.submitAndReveal("   ")

	if f.g.Stage() != story.StageContact {
		t.Errorf("stage changed to %d on empty input", f.g.Stage())
	}
	if f.g.Transcript().String() != story.EmptyDisplay {
		t.Errorf("transcript = %q", f.g.Transcript().String())
	}
}

func TestBlueLogsOneFailure(t *testing.T) {
	f := newFixture(t)
	f.submitAndReveal("reset")
	f.submitAndReveal("accept")
	f.g.Submit("blue")

	if f.g.Stage() != story.StageOffline {
		t.Errorf("stage = %d, want 0", f.g.Stage())
	}
	if len(f.log.entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(f.log.entries))
	}
	e := f.log.entries[0]
	if e.Status != missionlog.StatusFailure || e.Stage != int(story.StagePills) {
		t.Errorf("entry = %+v", e)
	}
	if f.cue.fails != 1 {
		t.Errorf("fail cue fired %d times", f.cue.fails)
	}
	if !f.g.Narrating() {
		t.Error("effects should fire before narration completes")
	}
}

func TestFullRunLogsSuccess(t *testing.T) {
	f := newFixture(t)
	for _, cmd := range []string{"reset", "accept", "red", "jump", "rescue", "dodge", "fire", "fight", "believe", "finish"} {
		f.submitAndReveal(cmd)
	}
	if f.g.Stage() != story.StageVictory {
		t.Fatalf("stage = %d, want 9", f.g.Stage())
	}
	if len(f.log.entries) != 1 || f.log.entries[0].Status != missionlog.StatusSuccess {
		t.Fatalf("entries = %+v", f.log.entries)
	}
	if f.log.entries[0].Stage != int(story.StageVictory) {
		t.Errorf("success logged at stage %d", f.log.entries[0].Stage)
	}
	if f.cue.wins != 1 {
		t.Errorf("win cue fired %d times", f.cue.wins)
	}
	if !strings.Contains(f.g.Transcript().String(), "SIMULATION LOGGED") {
		t.Errorf("unexpected final transcript %q", f.g.Transcript().String())
	}
}

func TestNewResponseSupersedesOld(t *testing.T) {
	f := newFixture(t)
	f.submitAndReveal("reset")
	f.g.Submit("accept") // leave mid-reveal
	f.submitAndReveal("red")

	text := f.g.Transcript().String()
	if strings.Contains(text, "accept") || strings.Contains(text, "DILEMMA") {
		t.Errorf("residue of the superseded response: %q", text)
	}
	if !strings.HasPrefix(text, "> red") {
		t.Errorf("transcript = %q", text)
	}
}

func TestTicksFireWhileRevealing(t *testing.T) {
	f := newFixture(t)
	f.submitAndReveal("reset")
	if f.cue.ticks == 0 {
		t.Error("no percussion ticks during narration")
	}
}

// ─── keys ─────────────────────────────────────────────────────────────────────

func TestTypingAndSubmit(t *testing.T) {
	f := newFixture(t)
	f.submitAndReveal("reset")

	typeString(f.g, "acceptx")
	f.g.HandleKey(tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone))
	if got := f.g.input.String(); got != "accept" {
		t.Fatalf("input = %q", got)
	}
	f.g.HandleKey(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	if f.g.Stage() != story.StagePills {
		t.Errorf("stage = %d, want 2", f.g.Stage())
	}
	if f.g.input.String() != "" {
		t.Error("input should clear after submit")
	}
}

func TestInputLengthCapped(t *testing.T) {
	f := newFixture(t)
	typeString(f.g, strings.Repeat("a", MaxInputLength+10))
	if n := len([]rune(f.g.input.String())); n != MaxInputLength {
		t.Errorf("input length = %d, want %d", n, MaxInputLength)
	}
}

func TestQuitNeedsConfirmation(t *testing.T) {
	f := newFixture(t)
	esc := tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)
	if f.g.HandleKey(esc) {
		t.Fatal("escape alone should not quit")
	}
	if f.g.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'n', tcell.ModNone)) {
		t.Fatal("'n' should cancel")
	}
	f.g.HandleKey(esc)
	if !f.g.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'y', tcell.ModNone)) {
		t.Fatal("'y' should confirm")
	}
}

func TestKeyToAction(t *testing.T) {
	cases := []struct {
		name string
		ev   *tcell.EventKey
		want Action
	}{
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), ActionSubmit},
		{"backspace", tcell.NewEventKey(tcell.KeyBackspace, 0, tcell.ModNone), ActionErase},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), ActionQuit},
		{"ctrl-c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), ActionQuit},
		{"rune", tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone), ActionType},
		{"arrow", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), ActionNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := keyToAction(tc.ev); got != tc.want {
				t.Errorf("keyToAction = %v, want %v", got, tc.want)
			}
		})
	}
}

// ─── loop ─────────────────────────────────────────────────────────────────────

func TestRunProcessesKeysUntilQuit(t *testing.T) {
	ss := newSimScreen()
	log := &recordLog{}
	g := New(ss, Options{
		Recorder: log,
		Clock:    clocktesting.NewFakeClock(time.Unix(0, 0)),
		Rng:      rand.New(rand.NewSource(1)),
	})

	done := make(chan struct{})
	go func() {
		g.Run(context.Background())
		close(done)
	}()

	for _, r := range "accept" {
		ss.InjectKey(tcell.KeyRune, r, tcell.ModNone)
	}
	ss.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
	ss.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)
	ss.InjectKey(tcell.KeyRune, 'y', tcell.ModNone)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after quit confirmation")
	}
	if g.Stage() != story.StagePills {
		t.Errorf("stage = %d, want 2", g.Stage())
	}
	if g.Label() != story.Prompt(story.StagePills) {
		t.Errorf("label = %q", g.Label())
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	g := New(newSimScreen(), Options{
		Clock: clocktesting.NewFakeClock(time.Unix(0, 0)),
		Rng:   rand.New(rand.NewSource(1)),
	})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		g.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run ignored context cancellation")
	}
	if g.Stage() != story.StageContact {
		t.Errorf("Run should reset on start, stage = %d", g.Stage())
	}
}
