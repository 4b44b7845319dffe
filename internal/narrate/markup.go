// Package narrate animates response text onto a display surface one step at a
// time and speaks a cleaned copy of it.
package narrate

import (
	"regexp"
	"strings"
)

// StepKind classifies one reveal step.
type StepKind uint8

const (
	StepRune     StepKind = iota // append Rune literally
	StepBreak                    // line break
	StepEmphasis                 // toggle emphasis; the marker itself is not shown
)

// Step is a single scheduled unit of the typewriter.
type Step struct {
	Kind StepKind
	Rune rune
}

// Audible reports whether revealing s triggers the per-character tick.
// Everything but a plain space ticks, markers included.
func (s Step) Audible() bool {
	return !(s.Kind == StepRune && s.Rune == ' ')
}

// Tokenize splits text into reveal steps.
func Tokenize(text string) []Step {
	runes := []rune(text)
	steps := make([]Step, 0, len(runes))
	for i := 0; i < len(runes); i++ {
		switch r := runes[i]; {
		case r == '\n':
			steps = append(steps, Step{Kind: StepBreak})
		case r == '*' && i+1 < len(runes) && runes[i+1] == '*':
			steps = append(steps, Step{Kind: StepEmphasis})
			i++
		default:
			steps = append(steps, Step{Kind: StepRune, Rune: r})
		}
	}
	return steps
}

var (
	breakRun = regexp.MustCompile(`(?:<br>|\n)+`)
	tag      = regexp.MustCompile(`<[^>]*>`)
)

// CleanSpeech turns display text into an utterance: line breaks end a
// sentence, tags and emphasis or prompt characters are dropped.
func CleanSpeech(text string) string {
	s := breakRun.ReplaceAllString(text, ". ")
	s = tag.ReplaceAllString(s, "")
	s = strings.NewReplacer("*", "", ">", "").Replace(s)
	return strings.TrimSpace(s)
}
