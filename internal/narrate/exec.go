package narrate

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

// engines lists the command-line speech engines we know how to drive, in
// preference order.
var engines = []string{"espeak-ng", "espeak", "say"}

// ExecSynthesizer speaks through a local command-line engine. Each utterance
// is a child process; Cancel kills it.
type ExecSynthesizer struct {
	engine string
	path   string

	mu     sync.Mutex
	cancel context.CancelFunc
	voices []VoiceInfo
	listed bool
}

// LookupSynthesizer returns a synthesizer for the first engine found on PATH,
// or nil when speech is unavailable.
func LookupSynthesizer() *ExecSynthesizer {
	for _, name := range engines {
		if p, err := exec.LookPath(name); err == nil {
			return &ExecSynthesizer{engine: name, path: p}
		}
	}
	return nil
}

// Engine returns the engine command name.
func (s *ExecSynthesizer) Engine() string { return s.engine }

// Voices lists the engine's voices, queried once and cached.
func (s *ExecSynthesizer) Voices() []VoiceInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listed {
		return s.voices
	}
	s.listed = true

	var args []string
	if s.engine == "say" {
		args = []string{"-v", "?"}
	} else {
		args = []string{"--voices"}
	}
	out, err := exec.Command(s.path, args...).Output()
	if err != nil {
		return nil
	}
	if s.engine == "say" {
		s.voices = parseSayVoices(out)
	} else {
		s.voices = parseEspeakVoices(out)
	}
	return s.voices
}

// Speak starts the engine for u and returns without waiting for it.
func (s *ExecSynthesizer) Speak(u Utterance) error {
	ctx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(ctx, s.path, s.args(u)...)
	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("start %s: %w", s.engine, err)
	}

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	s.mu.Unlock()

	go func() {
		_ = cmd.Wait()
		cancel()
	}()
	return nil
}

// Cancel kills the in-flight utterance.
func (s *ExecSynthesizer) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *ExecSynthesizer) args(u Utterance) []string {
	var args []string
	switch s.engine {
	case "say":
		// say has no pitch or volume flags.
		args = append(args, "-r", strconv.Itoa(int(175*u.Rate)))
		if u.Voice != nil {
			args = append(args, "-v", u.Voice.Name)
		}
	default:
		args = append(args,
			"-p", strconv.Itoa(int(50*u.Pitch)),
			"-s", strconv.Itoa(int(175*u.Rate)),
			"-a", strconv.Itoa(int(100*u.Volume)),
		)
		if u.Voice != nil {
			args = append(args, "-v", u.Voice.Name)
		}
	}
	return append(args, "--", u.Text)
}

// parseEspeakVoices reads `espeak --voices` output:
//
//	Pty Language       Age/Gender VoiceName          File                 Other Languages
//	 5  en-us           --/M      English_(America)  gmw/en-US            (en 3)
func parseEspeakVoices(out []byte) []VoiceInfo {
	var voices []VoiceInfo
	sc := bufio.NewScanner(bytes.NewReader(out))
	header := true
	for sc.Scan() {
		if header {
			header = false
			continue
		}
		f := strings.Fields(sc.Text())
		if len(f) < 4 {
			continue
		}
		voices = append(voices, VoiceInfo{Name: f[3], Lang: f[1]})
	}
	return voices
}

// parseSayVoices reads `say -v ?` output:
//
//	Alex                en_US    # Most people recognize me by my voice.
func parseSayVoices(out []byte) []VoiceInfo {
	var voices []VoiceInfo
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line, _, _ := strings.Cut(sc.Text(), "#")
		f := strings.Fields(line)
		if len(f) < 2 {
			continue
		}
		// Names may contain spaces; the locale is the last field.
		voices = append(voices, VoiceInfo{
			Name: strings.Join(f[:len(f)-1], " "),
			Lang: f[len(f)-1],
		})
	}
	return voices
}
