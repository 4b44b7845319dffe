// Package ssh adapts a gliderlabs/ssh session into a tcell terminal so a game
// can be served to remote operators.
package ssh

import (
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	gossh "github.com/gliderlabs/ssh"
)

// DefaultTerm is assumed when the client does not send TERM.
const DefaultTerm = "xterm-256color"

// SessionTty implements tcell.Tty over one SSH session.
type SessionTty struct {
	session gossh.Session
	winCh   <-chan gossh.Window

	mu     sync.Mutex
	window gossh.Window
	resize func()
	once   sync.Once
}

// NewSessionTty wraps s. pty carries the initial window; winCh delivers
// later window changes and is closed when the session ends.
func NewSessionTty(s gossh.Session, pty gossh.Pty, winCh <-chan gossh.Window) *SessionTty {
	return &SessionTty{session: s, window: pty.Window, winCh: winCh}
}

// Read returns operator keystrokes.
func (t *SessionTty) Read(b []byte) (int, error) { return t.session.Read(b) }

// Write sends rendered frames to the client.
func (t *SessionTty) Write(b []byte) (int, error) { return t.session.Write(b) }

// Close ends the session.
func (t *SessionTty) Close() error { return t.session.Close() }

// Start, Stop and Drain are no-ops: the channel is already open and
// the handler owns its lifetime.
func (t *SessionTty) Start() error { return nil }
func (t *SessionTty) Stop() error  { return nil }
func (t *SessionTty) Drain() error { return nil }

// WindowSize returns the latest client window.
func (t *SessionTty) WindowSize() (tcell.WindowSize, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return tcell.WindowSize{Width: t.window.Width, Height: t.window.Height}, nil
}

// NotifyResize registers cb for window changes. The window channel is
// watched by a single goroutine that exits when the session ends.
func (t *SessionTty) NotifyResize(cb func()) {
	t.mu.Lock()
	t.resize = cb
	t.mu.Unlock()
	t.once.Do(func() { go t.watch() })
}

func (t *SessionTty) watch() {
	for win := range t.winCh {
		t.mu.Lock()
		t.window = win
		cb := t.resize
		t.mu.Unlock()
		if cb != nil {
			cb()
		}
	}
}

// Term returns the client's TERM when it is one of allowed, else DefaultTerm.
func Term(environ []string, allowed map[string]bool) string {
	for _, env := range environ {
		if v, ok := strings.CutPrefix(env, "TERM="); ok && allowed[v] {
			return v
		}
	}
	return DefaultTerm
}
