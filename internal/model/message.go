package model

// Message roles within a live session.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one conversation turn. Messages live only for the duration of
// a live session and are discarded once finalize completes; they are never
// persisted. Hidden marks the synthetic bootstrap turn that seeds the coach
// with interview context: it stays in the history sent to the coach but is
// excluded from rendering and from the analysis transcript.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Hidden  bool   `json:"hidden,omitempty"`
}
