package ssh

import (
	"bytes"
	"testing"
	"time"

	gossh "github.com/gliderlabs/ssh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSession overrides the byte-stream half of gossh.Session.
type fakeSession struct {
	gossh.Session
	in     *bytes.Buffer
	out    bytes.Buffer
	closed bool
}

func (f *fakeSession) Read(b []byte) (int, error)  { return f.in.Read(b) }
func (f *fakeSession) Write(b []byte) (int, error) { return f.out.Write(b) }
func (f *fakeSession) Close() error                { f.closed = true; return nil }

func TestSessionTtyStreams(t *testing.T) {
	s := &fakeSession{in: bytes.NewBufferString("red\r")}
	tty := NewSessionTty(s, gossh.Pty{Window: gossh.Window{Width: 80, Height: 24}}, nil)

	buf := make([]byte, 8)
	n, err := tty.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "red\r", string(buf[:n]))

	_, err = tty.Write([]byte("frame"))
	require.NoError(t, err)
	assert.Equal(t, "frame", s.out.String())

	require.NoError(t, tty.Close())
	assert.True(t, s.closed)
}

func TestSessionTtyResize(t *testing.T) {
	winCh := make(chan gossh.Window)
	tty := NewSessionTty(&fakeSession{}, gossh.Pty{Window: gossh.Window{Width: 80, Height: 24}}, winCh)

	ws, err := tty.WindowSize()
	require.NoError(t, err)
	assert.Equal(t, 80, ws.Width)
	assert.Equal(t, 24, ws.Height)

	called := make(chan struct{}, 4)
	tty.NotifyResize(func() { called <- struct{}{} })
	tty.NotifyResize(func() { called <- struct{}{} })

	winCh <- gossh.Window{Width: 120, Height: 40}
	select {
	case <-called:
	case <-time.After(2 * time.Second):
		t.Fatal("resize callback not invoked")
	}
	ws, _ = tty.WindowSize()
	assert.Equal(t, 120, ws.Width)
	assert.Equal(t, 40, ws.Height)
	close(winCh)
	assert.Len(t, called, 0, "callback should run once per window change")
}

func TestTerm(t *testing.T) {
	allowed := map[string]bool{"xterm-256color": true, "screen": true}
	cases := []struct {
		name    string
		environ []string
		want    string
	}{
		{"allowed", []string{"LANG=C", "TERM=screen"}, "screen"},
		{"unknown", []string{"TERM=evil-term"}, DefaultTerm},
		{"traversal", []string{"TERM=../../../etc/passwd"}, DefaultTerm},
		{"missing", nil, DefaultTerm},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Term(tc.environ, allowed))
		})
	}
}
