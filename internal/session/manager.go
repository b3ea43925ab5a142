package session

import (
	"context"
	"sync"

	"github.com/lshigami/InterviewCoach/internal/apperr"
	"github.com/lshigami/InterviewCoach/internal/model"
	"github.com/lshigami/InterviewCoach/internal/service"
	"github.com/rs/zerolog/log"
)

// TurnResult is the outcome of one accepted candidate turn.
type TurnResult struct {
	Reply     model.Message
	Concluded bool
	State     State
}

// Manager owns every live session: turn-taking, conclusion detection and
// the single-writer finalize path. One coach call may be outstanding per
// session at a time; a submission arriving while one is in flight is
// rejected so transcript ordering can never interleave.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*liveSession

	coach     service.InterviewCoachService
	analyzer  service.InterviewAnalyzer
	persister service.ResultPersister
	speech    service.SpeechSynthesizer
}

func NewManager(
	coach service.InterviewCoachService,
	analyzer service.InterviewAnalyzer,
	persister service.ResultPersister,
	speech service.SpeechSynthesizer,
) *Manager {
	return &Manager{
		sessions:  make(map[string]*liveSession),
		coach:     coach,
		analyzer:  analyzer,
		persister: persister,
		speech:    speech,
	}
}

// Start opens a live session for an in-progress interview: it emits the
// hidden bootstrap turn, fetches the coach's opening utterance and moves
// the session to LIVE. Returns the opening reply.
func (m *Manager) Start(ctx context.Context, interview *model.Interview) (model.Message, error) {
	m.mu.Lock()
	if interview.Completed() {
		m.mu.Unlock()
		return model.Message{}, apperr.NewValidationError("interview %s is already completed", interview.ID)
	}
	if _, exists := m.sessions[interview.ID]; exists {
		m.mu.Unlock()
		return model.Message{}, apperr.NewValidationError("a session for interview %s is already active", interview.ID)
	}
	s := &liveSession{
		interviewID:      interview.ID,
		field:            interview.Field,
		category:         interview.Category,
		experienceLevel:  interview.ExperienceLevel,
		state:            StateInit,
		messages:         []model.Message{bootstrapMessage(interview)},
		replyOutstanding: true,
	}
	m.sessions[interview.ID] = s
	history := snapshot(s.messages)
	m.mu.Unlock()

	utterance, err := m.coach.NextUtterance(ctx, history)

	m.mu.Lock()
	defer m.mu.Unlock()
	s.replyOutstanding = false
	if err != nil {
		// Initialization failed before any visible turn existed; drop the
		// session so the caller can start over.
		delete(m.sessions, interview.ID)
		log.Error().Err(err).Str("interviewID", interview.ID).Msg("Session start: coach unavailable.")
		return model.Message{}, err
	}

	reply := model.Message{Role: model.RoleAssistant, Content: utterance}
	s.messages = append(s.messages, reply)
	s.state = StateLive
	m.playback(reply.Content)
	log.Info().Str("interviewID", interview.ID).Msg("Session live.")
	return reply, nil
}

// Submit accepts one candidate message, obtains the coach reply and scans
// it for the conclusion signal. On conclusion the session finalizes within
// the same call; TurnResult.State tells the caller where it ended up.
//
// On a coach failure nothing is appended, so the candidate can resubmit
// the same message without corrupting transcript order.
func (m *Manager) Submit(ctx context.Context, interviewID string, content string) (*TurnResult, error) {
	m.mu.Lock()
	s, ok := m.sessions[interviewID]
	if !ok {
		m.mu.Unlock()
		return nil, apperr.ErrSessionNotFound
	}
	if s.state != StateLive {
		m.mu.Unlock()
		return nil, apperr.ErrSessionConcluded
	}
	if s.replyOutstanding {
		m.mu.Unlock()
		return nil, apperr.ErrReplyOutstanding
	}
	s.replyOutstanding = true
	userMsg := model.Message{Role: model.RoleUser, Content: content}
	history := append(snapshot(s.messages), userMsg)
	m.mu.Unlock()

	utterance, err := m.coach.NextUtterance(ctx, history)

	m.mu.Lock()
	s.replyOutstanding = false
	if err != nil {
		m.mu.Unlock()
		log.Warn().Err(err).Str("interviewID", interviewID).Msg("Coach turn failed, candidate may resubmit.")
		return nil, err
	}
	if s.state != StateLive {
		// A finalize won the race while the reply was in flight; drop the
		// turn rather than append behind the transcript snapshot.
		m.mu.Unlock()
		return nil, apperr.ErrSessionConcluded
	}

	reply := model.Message{Role: model.RoleAssistant, Content: utterance}
	s.messages = append(s.messages, userMsg, reply)
	concluded := containsConclusion(utterance)
	m.playback(reply.Content)
	m.mu.Unlock()

	if concluded {
		if err := m.Finalize(ctx, interviewID); err != nil {
			log.Error().Err(err).Str("interviewID", interviewID).Msg("Finalize after conclusion signal failed, session FAILED.")
		}
	}

	m.mu.Lock()
	state := s.state
	m.mu.Unlock()
	return &TurnResult{Reply: reply, Concluded: concluded, State: state}, nil
}

// Finalize drives the one-time conversion from live conversation to
// persisted report. Duplicate triggers while FINALIZING or DONE collapse
// to a no-op; a FAILED session may re-enter FINALIZING but never LIVE.
func (m *Manager) Finalize(ctx context.Context, interviewID string) error {
	m.mu.Lock()
	s, ok := m.sessions[interviewID]
	if !ok {
		m.mu.Unlock()
		return apperr.ErrSessionNotFound
	}
	switch s.state {
	case StateDone, StateFinalizing:
		// Duplicate or re-entrant trigger, absorbed.
		m.mu.Unlock()
		return nil
	case StateInit:
		m.mu.Unlock()
		return apperr.NewValidationError("interview %s has no conversation to finalize", interviewID)
	}
	s.state = StateFinalizing
	transcript := service.BuildTranscript(s.messages)
	input := service.AnalysisInput{
		Transcript:      transcript,
		Field:           s.field,
		ExperienceLevel: s.experienceLevel,
		Category:        s.category,
	}
	m.mu.Unlock()

	report, err := m.analyzer.Analyze(ctx, input)
	if err != nil {
		m.fail(s, interviewID, err)
		return err
	}
	if err := m.persister.Persist(interviewID, report); err != nil {
		m.fail(s, interviewID, err)
		return err
	}

	m.mu.Lock()
	s.state = StateDone
	s.messages = nil
	m.mu.Unlock()
	log.Info().Str("interviewID", interviewID).Msg("Session finalized.")
	return nil
}

// fail moves the session to FAILED and resets the guard so a manual retry
// can re-enter FINALIZING.
func (m *Manager) fail(s *liveSession, interviewID string, cause error) {
	m.mu.Lock()
	s.state = StateFailed
	m.mu.Unlock()
	log.Error().Err(cause).Str("interviewID", interviewID).Msg("Finalize failed, retry required.")
}

// Messages returns the renderable conversation: every non-hidden turn in
// order.
func (m *Manager) Messages(interviewID string) ([]model.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[interviewID]
	if !ok {
		return nil, apperr.ErrSessionNotFound
	}
	visible := make([]model.Message, 0, len(s.messages))
	for _, msg := range s.messages {
		if msg.Hidden {
			continue
		}
		visible = append(visible, msg)
	}
	return visible, nil
}

// SessionState reports the current machine state for an interview.
func (m *Manager) SessionState(interviewID string) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[interviewID]
	if !ok {
		return "", apperr.ErrSessionNotFound
	}
	return s.state, nil
}

// playback fires the optional utterance side effect detached from the
// turn path. Caller may hold the manager lock; the goroutine must not
// touch session state.
func (m *Manager) playback(utterance string) {
	if m.speech == nil {
		return
	}
	go func() {
		if err := m.speech.Speak(context.Background(), utterance); err != nil {
			log.Debug().Err(err).Msg("Utterance playback failed.")
		}
	}()
}

func snapshot(messages []model.Message) []model.Message {
	out := make([]model.Message, len(messages))
	copy(out, messages)
	return out
}
