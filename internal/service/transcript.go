package service

import (
	"strings"

	"github.com/lshigami/InterviewCoach/internal/model"
)

// BuildTranscript renders an ordered message sequence into the canonical
// transcript: one "ROLE: content" line per non-hidden turn, chronological,
// joined by blank lines. Pure and deterministic, so a finalize can be
// reproduced from a frozen message log.
func BuildTranscript(messages []model.Message) string {
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		if m.Hidden {
			continue
		}
		lines = append(lines, strings.ToUpper(m.Role)+": "+m.Content)
	}
	return strings.Join(lines, "\n\n")
}
