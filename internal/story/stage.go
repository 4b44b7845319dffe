// Package story implements the stage-gated dialogue that guides the operator
// through the simulation. It is pure logic: no I/O, no timers. Callers own the
// rendering and fire the returned side effects themselves.
package story

import (
	"fmt"
	"strings"
)

// Stage is a position in the fixed narrative sequence.
type Stage int

const (
	StageOffline Stage = iota // post-failure or pre-start; only RESET is accepted
	StageContact              // 1: ACCEPT
	StagePills                // 2: RED / BLUE
	StageConstruct            // 3: JUMP / HESITATE
	StageLobby                // 4: RESCUE
	StageRoof                 // 5: DODGE
	StageHelicopter           // 6: FIRE
	StageSubway               // 7: FIGHT
	StageRoom303              // 8: BELIEVE
	StageVictory              // 9: FINISH; the run is complete
)

// MaxStage is the highest valid stage.
const MaxStage = StageVictory

// Active reports whether s is one of the narrative beats between start and victory.
func (s Stage) Active() bool { return s > StageOffline && s < StageVictory }

// Valid reports whether s lies in [StageOffline, MaxStage].
func (s Stage) Valid() bool { return s >= StageOffline && s <= MaxStage }

// Prompt returns the status label shown next to the command line.
func Prompt(s Stage) string {
	return fmt.Sprintf("// STAGE %d // COMMAND >", int(s))
}

// Normalize trims surrounding whitespace and upper-cases a raw submission.
func Normalize(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Effect is a side effect requested by a transition. Effects fire when the
// transition is decided, never gated on narration.
type Effect uint8

const (
	EffectFailCue Effect = iota + 1
	EffectWinCue
	EffectLogFailure
	EffectLogSuccess
)

func (e Effect) String() string {
	switch e {
	case EffectFailCue:
		return "fail-cue"
	case EffectWinCue:
		return "win-cue"
	case EffectLogFailure:
		return "log-failure"
	case EffectLogSuccess:
		return "log-success"
	}
	return fmt.Sprintf("effect(%d)", uint8(e))
}

// Outcome is the result of evaluating one command.
type Outcome struct {
	Stage    Stage    // stage after the transition
	From     Stage    // stage the command was evaluated against
	Response string   // text to narrate, with light markup
	Effects  []Effect // in firing order
	Detail   string   // mission-log detail for the log effects, if any
	Reset    bool     // true when the global RESET override fired
	Flavor   bool     // true when the fallback flavor line replaced Response
}

// Has reports whether the outcome requests effect e.
func (o Outcome) Has(e Effect) bool {
	for _, got := range o.Effects {
		if got == e {
			return true
		}
	}
	return false
}
