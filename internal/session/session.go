package session

import (
	"fmt"
	"strings"

	"github.com/lshigami/InterviewCoach/internal/model"
)

// State of one live session. The machine only ever moves
// INIT -> LIVE -> FINALIZING -> DONE; FAILED is reachable from LIVE or
// FINALIZING and can only re-enter FINALIZING, never LIVE.
type State string

const (
	StateInit       State = "INIT"
	StateLive       State = "LIVE"
	StateFinalizing State = "FINALIZING"
	StateDone       State = "DONE"
	StateFailed     State = "FAILED"
)

// ConclusionPhrase is the fixed termination signal the coach emits when
// wrapping up. Detection is case-insensitive containment over the reply
// text. Substring matching is brittle against incidental phrasing, but it
// is the contract the coach persona is instructed to honor.
const ConclusionPhrase = "the interview has concluded"

// containsConclusion reports whether a coach reply signals the end of the
// interview.
func containsConclusion(utterance string) bool {
	return strings.Contains(strings.ToLower(utterance), ConclusionPhrase)
}

// liveSession holds the ephemeral conversation state for one interview.
// All fields are guarded by the owning Manager's mutex.
type liveSession struct {
	interviewID     string
	field           string
	category        string
	experienceLevel string

	state            State
	messages         []model.Message
	replyOutstanding bool
}

// bootstrapMessage is the synthetic hidden turn that seeds the coach with
// the interview context. It is never rendered and never transcribed.
func bootstrapMessage(interview *model.Interview) model.Message {
	content := fmt.Sprintf(`Hello Alex. I am ready for my interview for the position of %s.
This is a %s interview. My experience level is %s.
Please start the interview by introducing yourself and asking me to introduce myself.`,
		interview.Field, interview.Category, interview.ExperienceLevel)
	return model.Message{Role: model.RoleUser, Content: content, Hidden: true}
}
