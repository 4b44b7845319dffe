// matrix-terminal-server serves the simulation over SSH, one operator at a
// time. Build:
//
//	go build -o matrix-terminal-server ./cmd/server
//
// Usage:
//
//	./matrix-terminal-server [--port 2222] [--key server_host_key]
//
// Connect:
//
//	ssh -t -p 2222 localhost
package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"matrix-terminal/internal/app"
	"matrix-terminal/internal/config"
	"matrix-terminal/internal/game"
	internalssh "matrix-terminal/internal/ssh"

	"github.com/gdamore/tcell/v2"
	gossh "github.com/gliderlabs/ssh"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	xssh "golang.org/x/crypto/ssh"
)

// busyMessage is sent to a client while another operator holds the line.
const busyMessage = "The line is busy. Another operator is already jacked in. Try again later."

// allowedTerms lists the terminfo entries a client may select.
var allowedTerms = map[string]bool{
	"xterm":                 true,
	"xterm-256color":        true,
	"screen":                true,
	"screen-256color":       true,
	"tmux":                  true,
	"tmux-256color":         true,
	"linux":                 true,
	"vt100":                 true,
	"rxvt-unicode-256color": true,
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string
	cmd := &cobra.Command{
		Use:           "matrix-terminal-server",
		Short:         "Serve the operator terminal over SSH",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}
			fs := cmd.Flags()
			if fs.Changed("port") {
				cfg.Port, _ = fs.GetInt("port")
			}
			if fs.Changed("key") {
				cfg.HostKey, _ = fs.GetString("key")
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&envFile, "env", ".env", "optional dotenv file")
	cmd.Flags().Int("port", 2222, "SSH server port")
	cmd.Flags().String("key", "server_host_key", "path to the PEM host key (generated if absent)")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer rt.Close()
	logger := rt.Logger

	signer, err := loadOrCreateHostKey(cfg.HostKey, logger)
	if err != nil {
		return err
	}

	l := &line{rt: rt, logger: logger.Named("line")}
	srv := &gossh.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Port),
		Handler:     l.handleSession,
		PtyCallback: func(gossh.Context, gossh.Pty) bool { return true },
		HostSigners: []gossh.Signer{signer},
	}

	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()

	logger.Info("listening", zap.Int("port", cfg.Port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, gossh.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// ─── line ───────────────────────────────────────────────────────────────────

// line admits one operator at a time. Later callers are told it is busy.
type line struct {
	rt     *app.Runtime
	logger *zap.Logger

	mu   sync.Mutex
	busy bool
}

func (l *line) acquire() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.busy {
		return false
	}
	l.busy = true
	return true
}

func (l *line) release() {
	l.mu.Lock()
	l.busy = false
	l.mu.Unlock()
}

// handleSession is the SSH handler for one connection. It blocks until the
// session ends.
func (l *line) handleSession(s gossh.Session) {
	logger := l.logger.With(zap.String("user", s.User()), zap.String("remote", s.RemoteAddr().String()))

	pty, winCh, hasPTY := s.Pty()
	if !hasPTY {
		fmt.Fprintln(s, "The operator terminal needs a PTY. Connect with: ssh -t -p <port> <host>")
		return
	}
	if !l.acquire() {
		logger.Info("rejected, line busy")
		fmt.Fprintln(s, busyMessage)
		return
	}
	defer l.release()

	screen, err := newSessionScreen(s, pty, winCh)
	if err != nil {
		logger.Warn("terminal setup failed", zap.Error(err))
		fmt.Fprintf(s, "Terminal setup failed: %v\n", err)
		return
	}

	logger.Info("operator connected")
	g := game.New(screen, l.rt.GameOptions(screen, false))
	g.Run(s.Context())
	logger.Info("operator disconnected", zap.Int("stage", int(g.Stage())))
}

// termMu serializes the TERM environment swap around screen creation.
var termMu sync.Mutex

func newSessionScreen(s gossh.Session, pty gossh.Pty, winCh <-chan gossh.Window) (tcell.Screen, error) {
	term := internalssh.Term(append([]string{"TERM=" + pty.Term}, s.Environ()...), allowedTerms)
	tty := internalssh.NewSessionTty(s, pty, winCh)

	termMu.Lock()
	_ = os.Setenv("TERM", term)
	screen, err := tcell.NewTerminfoScreenFromTty(tty)
	termMu.Unlock()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return screen, nil
}

// ─── host key ───────────────────────────────────────────────────────────────

// loadOrCreateHostKey loads a PEM private key from path, or generates and
// persists a new ed25519 key if the file is absent or unreadable.
func loadOrCreateHostKey(path string, logger *zap.Logger) (gossh.Signer, error) {
	if data, err := os.ReadFile(path); err == nil {
		if signer, err := xssh.ParsePrivateKey(data); err == nil {
			logger.Info("loaded host key", zap.String("path", path))
			return signer, nil
		}
	}

	logger.Info("generating host key", zap.String("path", path))
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate host key: %w", err)
	}
	signer, err := xssh.NewSignerFromKey(key)
	if err != nil {
		return nil, fmt.Errorf("create signer: %w", err)
	}
	block, err := xssh.MarshalPrivateKey(key, "matrix-terminal server")
	if err != nil {
		return nil, fmt.Errorf("marshal host key: %w", err)
	}
	if err := os.WriteFile(path, pem.EncodeToMemory(block), 0o600); err != nil {
		logger.Warn("host key not persisted", zap.Error(err))
	}
	return signer, nil
}
