package game

import "github.com/gdamore/tcell/v2"

// Action represents an operator key press.
type Action uint8

const (
	ActionNone Action = iota
	ActionType
	ActionErase
	ActionSubmit
	ActionQuit
)

// MaxInputLength caps the command buffer, in runes.
const MaxInputLength = 120

// keyToAction maps a tcell key event to an action.
func keyToAction(ev *tcell.EventKey) Action {
	switch ev.Key() {
	case tcell.KeyEnter:
		return ActionSubmit
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return ActionErase
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit
	case tcell.KeyRune:
		if ev.Modifiers()&tcell.ModCtrl != 0 && (ev.Rune() == 'c' || ev.Rune() == 'C') {
			return ActionQuit
		}
		return ActionType
	}
	return ActionNone
}

// inputLine is the operator's unsent command.
type inputLine struct {
	buf []rune
}

func (l *inputLine) typeRune(r rune) {
	if len(l.buf) < MaxInputLength {
		l.buf = append(l.buf, r)
	}
}

func (l *inputLine) erase() {
	if len(l.buf) > 0 {
		l.buf = l.buf[:len(l.buf)-1]
	}
}

// take returns the buffer and clears it.
func (l *inputLine) take() string {
	s := string(l.buf)
	l.buf = l.buf[:0]
	return s
}

func (l *inputLine) String() string { return string(l.buf) }
