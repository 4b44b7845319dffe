package story

import (
	"math/rand"
	"strings"
)

// ResetCommand is valid from every stage and is checked before the table.
const ResetCommand = "RESET"

// Transition evaluates a normalized command against stage s. It is pure: the
// flavor fallback needs randomness and lives in Machine.Evaluate.
func Transition(s Stage, cmd string) Outcome {
	if cmd == ResetCommand {
		return Outcome{Stage: StageContact, From: s, Response: Intro, Reset: true}
	}
	if !s.Valid() || s == StageOffline {
		return Outcome{Stage: StageOffline, From: s, Response: Offline}
	}

	b := beats[s]
	switch {
	case cmd == b.advance:
		return Outcome{Stage: b.next, From: s, Response: b.response, Effects: b.effects, Detail: b.detail}
	case b.divert != "" && cmd == b.divert:
		return Outcome{Stage: b.divertNext, From: s, Response: b.divertResponse, Effects: b.divertEffects, Detail: b.divertDetail}
	default:
		return Outcome{Stage: s, From: s, Response: b.nudge}
	}
}

// Machine owns the current stage. It is not safe for concurrent use; the
// game loop is its only caller.
type Machine struct {
	stage Stage
	rng   *rand.Rand
}

// NewMachine returns a machine at StageOffline. rng picks flavor lines.
func NewMachine(rng *rand.Rand) *Machine {
	return &Machine{stage: StageOffline, rng: rng}
}

// Stage returns the current stage.
func (m *Machine) Stage() Stage { return m.stage }

// Evaluate normalizes raw, applies the transition and the fallback policy,
// and commits the resulting stage.
func (m *Machine) Evaluate(raw string) Outcome {
	cmd := Normalize(raw)
	out := Transition(m.stage, cmd)
	m.stage = out.Stage
	if out.Reset {
		return out
	}

	// The containment test runs the command against the flavor text, not the
	// other way round, and uses the stage after the transition.
	if out.Response == "" || (out.Stage.Active() && flavorContains(cmd)) {
		out.Response = FlavorLines[m.rng.Intn(len(FlavorLines))] + CoachingSuffix
		out.Flavor = true
	}
	return out
}

func flavorContains(cmd string) bool {
	for _, line := range FlavorLines {
		if strings.Contains(strings.ToUpper(line), cmd) {
			return true
		}
	}
	return false
}
