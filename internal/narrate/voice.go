package narrate

import (
	"strings"

	"go.uber.org/zap"
)

// DefaultVoiceName is matched by substring against available voice names.
const DefaultVoiceName = "Google US English"

// Fixed utterance parameters, on the 0..2 pitch/rate and 0..1 volume scale of
// common speech engines. Synthesizers map them onto their own ranges.
const (
	UtterancePitch  = 0.6
	UtteranceRate   = 0.9
	UtteranceVolume = 1.0
)

// VoiceInfo describes one voice offered by a synthesizer.
type VoiceInfo struct {
	Name string
	Lang string
}

// Utterance is one speech request.
type Utterance struct {
	Text   string
	Voice  *VoiceInfo // nil selects the engine default
	Pitch  float64
	Rate   float64
	Volume float64
}

// Synthesizer is a speech capability. Speak must not block until the
// utterance finishes.
type Synthesizer interface {
	Voices() []VoiceInfo
	Speak(u Utterance) error
	Cancel()
}

// Voice speaks display text through a Synthesizer, one utterance at a time.
// A Voice with no synthesizer is silent.
type Voice struct {
	synth     Synthesizer
	preferred string
	logger    *zap.Logger
}

// NewVoice returns a Voice. synth may be nil when no speech engine exists.
// preferred defaults to DefaultVoiceName.
func NewVoice(synth Synthesizer, preferred string, logger *zap.Logger) *Voice {
	if preferred == "" {
		preferred = DefaultVoiceName
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Voice{synth: synth, preferred: preferred, logger: logger}
}

// Enabled reports whether a speech engine is attached.
func (v *Voice) Enabled() bool { return v != nil && v.synth != nil }

// Speak cancels any in-flight utterance and speaks a cleaned copy of text.
func (v *Voice) Speak(text string) {
	if !v.Enabled() {
		return
	}
	clean := CleanSpeech(text)
	v.synth.Cancel()
	if clean == "" {
		return
	}
	u := Utterance{
		Text:   clean,
		Voice:  v.pick(),
		Pitch:  UtterancePitch,
		Rate:   UtteranceRate,
		Volume: UtteranceVolume,
	}
	if err := v.synth.Speak(u); err != nil {
		v.logger.Debug("speech failed", zap.Error(err))
	}
}

// Cancel silences the in-flight utterance, if any.
func (v *Voice) Cancel() {
	if v.Enabled() {
		v.synth.Cancel()
	}
}

// pick returns the preferred voice, else the first one listed, else nil.
func (v *Voice) pick() *VoiceInfo {
	voices := v.synth.Voices()
	for i := range voices {
		if strings.Contains(voices[i].Name, v.preferred) {
			return &voices[i]
		}
	}
	if len(voices) > 0 {
		return &voices[0]
	}
	return nil
}
