package service

import (
	"context"

	"github.com/rs/zerolog/log"
)

// SpeechSynthesizer is the optional utterance playback collaborator. The
// session controller fires it after a coach turn is accepted and never
// waits on it; failures here must not affect turn progression.
type SpeechSynthesizer interface {
	Speak(ctx context.Context, utterance string) error
}

type noopSpeechSynthesizer struct{}

// NewNoopSpeechSynthesizer is the default playback collaborator used when
// no text-to-speech backend is configured.
func NewNoopSpeechSynthesizer() SpeechSynthesizer {
	return noopSpeechSynthesizer{}
}

func (noopSpeechSynthesizer) Speak(ctx context.Context, utterance string) error {
	log.Debug().Int("length", len(utterance)).Msg("Playback requested with no synthesizer configured, skipping.")
	return nil
}
