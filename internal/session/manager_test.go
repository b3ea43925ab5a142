package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lshigami/InterviewCoach/internal/apperr"
	"github.com/lshigami/InterviewCoach/internal/dto"
	"github.com/lshigami/InterviewCoach/internal/model"
	"github.com/lshigami/InterviewCoach/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const conclusionReply = "Thank you. The Interview Has Concluded. I am now analyzing your performance to provide detailed feedback. Please wait a moment."

type fakeCoach struct {
	mu      sync.Mutex
	replies []string
	calls   [][]model.Message
	err     error
	started chan struct{} // when non-nil, signaled once a call is in flight
	block   chan struct{} // when non-nil, NextUtterance waits on it
}

func (f *fakeCoach) NextUtterance(ctx context.Context, history []model.Message) (string, error) {
	if f.block != nil {
		if f.started != nil {
			f.started <- struct{}{}
		}
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, history)
	if f.err != nil {
		return "", &apperr.AgentError{Err: f.err}
	}
	reply := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return reply, nil
}

func (f *fakeCoach) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeAnalyzer struct {
	mu     sync.Mutex
	inputs []service.AnalysisInput
	report *dto.AnalysisReport
	err    error
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, in service.AnalysisInput) (*dto.AnalysisReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	return f.report, nil
}

func (f *fakeAnalyzer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.inputs)
}

type fakePersister struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakePersister) Persist(interviewID string, report *dto.AnalysisReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, interviewID)
	if f.err != nil {
		return &apperr.PersistenceError{Op: "insert questions", Err: f.err}
	}
	return nil
}

func (f *fakePersister) CheckIntegrity(interviewID string) (bool, error) { return false, nil }

func (f *fakePersister) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type blockingSpeech struct {
	once    sync.Once
	started chan struct{}
}

func (s *blockingSpeech) Speak(ctx context.Context, utterance string) error {
	s.once.Do(func() { close(s.started) })
	select {} // never returns; playback must stay detached
}

func testReport() *dto.AnalysisReport {
	return &dto.AnalysisReport{
		OverallScore: 77,
		Metrics: []dto.MetricScore{
			{Name: "Communication", Score: 75, Description: "d"},
			{Name: "Technical Depth", Score: 80, Description: "d"},
			{Name: "STAR Structure", Score: 70, Description: "d"},
			{Name: "Confidence", Score: 82, Description: "d"},
		},
		Strengths:    []string{"s"},
		Improvements: []string{"i"},
		CoachRemark:  "Good session.",
		Questions: []dto.QuestionReview{
			{Question: "q1", Answer: "a1", Feedback: "f1", Score: 70},
		},
	}
}

func testInterview() *model.Interview {
	return &model.Interview{
		ID:              "iv-1",
		OwnerID:         "owner-1",
		Field:           "Backend Engineer",
		Category:        "Technical",
		ExperienceLevel: "Senior",
		Status:          model.StatusInProgress,
	}
}

func newTestManager(coach *fakeCoach, analyzer *fakeAnalyzer, persister *fakePersister) *Manager {
	return NewManager(coach, analyzer, persister, service.NewNoopSpeechSynthesizer())
}

func TestStartSeedsHiddenBootstrapAndGoesLive(t *testing.T) {
	coach := &fakeCoach{replies: []string{"Hello, I am Alex. Please introduce yourself."}}
	m := newTestManager(coach, &fakeAnalyzer{report: testReport()}, &fakePersister{})

	opening, err := m.Start(context.Background(), testInterview())
	require.NoError(t, err)
	assert.Equal(t, model.RoleAssistant, opening.Role)

	state, err := m.SessionState("iv-1")
	require.NoError(t, err)
	assert.Equal(t, StateLive, state)

	// The bootstrap turn reached the coach but is not renderable.
	require.Equal(t, 1, coach.callCount())
	require.Len(t, coach.calls[0], 1)
	assert.True(t, coach.calls[0][0].Hidden)
	assert.Contains(t, coach.calls[0][0].Content, "Backend Engineer")

	visible, err := m.Messages("iv-1")
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, model.RoleAssistant, visible[0].Role)
}

func TestStartRejectsCompletedInterviewAndDuplicates(t *testing.T) {
	coach := &fakeCoach{replies: []string{"Hi."}}
	m := newTestManager(coach, &fakeAnalyzer{report: testReport()}, &fakePersister{})

	done := testInterview()
	done.Status = model.StatusCompleted
	_, err := m.Start(context.Background(), done)
	var validationErr *apperr.ValidationError
	require.ErrorAs(t, err, &validationErr)

	_, err = m.Start(context.Background(), testInterview())
	require.NoError(t, err)
	_, err = m.Start(context.Background(), testInterview())
	require.ErrorAs(t, err, &validationErr)
}

func TestSubmitPreservesOrdering(t *testing.T) {
	coach := &fakeCoach{replies: []string{"Hi, introduce yourself.", "Tell me about a project."}}
	m := newTestManager(coach, &fakeAnalyzer{report: testReport()}, &fakePersister{})
	_, err := m.Start(context.Background(), testInterview())
	require.NoError(t, err)

	result, err := m.Submit(context.Background(), "iv-1", "I am a backend engineer.")
	require.NoError(t, err)
	assert.False(t, result.Concluded)
	assert.Equal(t, StateLive, result.State)
	assert.Equal(t, "Tell me about a project.", result.Reply.Content)

	visible, err := m.Messages("iv-1")
	require.NoError(t, err)
	require.Len(t, visible, 3)
	assert.Equal(t, model.RoleAssistant, visible[0].Role)
	assert.Equal(t, "I am a backend engineer.", visible[1].Content)
	assert.Equal(t, model.RoleAssistant, visible[2].Role)
}

func TestSubmitRejectsWhileReplyOutstanding(t *testing.T) {
	block := make(chan struct{})
	coach := &fakeCoach{replies: []string{"Hi.", "Next question."}, block: block}
	m := newTestManager(coach, &fakeAnalyzer{report: testReport()}, &fakePersister{})

	close(block) // let Start through immediately
	_, err := m.Start(context.Background(), testInterview())
	require.NoError(t, err)

	coach.block = make(chan struct{})
	coach.started = make(chan struct{}, 1)
	firstDone := make(chan error, 1)
	go func() {
		_, err := m.Submit(context.Background(), "iv-1", "first answer")
		firstDone <- err
	}()

	// Wait until the first submission is holding the outstanding slot.
	<-coach.started
	_, err = m.Submit(context.Background(), "iv-1", "second answer")
	require.ErrorIs(t, err, apperr.ErrReplyOutstanding)

	close(coach.block)
	require.NoError(t, <-firstDone)

	// Ordering survived: only the first answer is in the log.
	visible, err := m.Messages("iv-1")
	require.NoError(t, err)
	for _, msg := range visible {
		assert.NotEqual(t, "second answer", msg.Content)
	}
}

func TestCoachFailureLeavesTranscriptIntact(t *testing.T) {
	coach := &fakeCoach{replies: []string{"Hi."}}
	m := newTestManager(coach, &fakeAnalyzer{report: testReport()}, &fakePersister{})
	_, err := m.Start(context.Background(), testInterview())
	require.NoError(t, err)

	coach.err = errors.New("upstream 503")
	_, err = m.Submit(context.Background(), "iv-1", "my answer")
	var agentErr *apperr.AgentError
	require.ErrorAs(t, err, &agentErr)

	// Nothing appended: resubmitting cannot duplicate the turn.
	visible, mErr := m.Messages("iv-1")
	require.NoError(t, mErr)
	assert.Len(t, visible, 1)

	coach.err = nil
	coach.replies = []string{"Good, go on."}
	result, err := m.Submit(context.Background(), "iv-1", "my answer")
	require.NoError(t, err)
	assert.Equal(t, "Good, go on.", result.Reply.Content)
}

func TestConclusionFinalizesExactlyOnce(t *testing.T) {
	coach := &fakeCoach{replies: []string{"Hi.", conclusionReply}}
	analyzer := &fakeAnalyzer{report: testReport()}
	persister := &fakePersister{}
	m := newTestManager(coach, analyzer, persister)
	_, err := m.Start(context.Background(), testInterview())
	require.NoError(t, err)

	result, err := m.Submit(context.Background(), "iv-1", "No further questions.")
	require.NoError(t, err)
	assert.True(t, result.Concluded, "case-insensitive conclusion detection")
	assert.Equal(t, StateDone, result.State)
	assert.Equal(t, 1, analyzer.callCount())
	assert.Equal(t, 1, persister.callCount())

	// Duplicate triggers collapse to a no-op.
	require.NoError(t, m.Finalize(context.Background(), "iv-1"))
	require.NoError(t, m.Finalize(context.Background(), "iv-1"))
	assert.Equal(t, 1, analyzer.callCount())
	assert.Equal(t, 1, persister.callCount())
}

func TestFinalizeTranscriptExcludesBootstrap(t *testing.T) {
	coach := &fakeCoach{replies: []string{"Hi.", conclusionReply}}
	analyzer := &fakeAnalyzer{report: testReport()}
	m := newTestManager(coach, analyzer, &fakePersister{})
	_, err := m.Start(context.Background(), testInterview())
	require.NoError(t, err)
	_, err = m.Submit(context.Background(), "iv-1", "No further questions.")
	require.NoError(t, err)

	require.Equal(t, 1, analyzer.callCount())
	input := analyzer.inputs[0]
	assert.NotContains(t, input.Transcript, "Hello Alex")
	assert.Contains(t, input.Transcript, "USER: No further questions.")
	assert.Equal(t, "Backend Engineer", input.Field)
	assert.Equal(t, "Technical", input.Category)
	assert.Equal(t, "Senior", input.ExperienceLevel)
	// One line per visible turn.
	assert.Len(t, strings.Split(input.Transcript, "\n\n"), 3)
}

func TestAnalysisFailureMovesToFailedAndRetryRecovers(t *testing.T) {
	coach := &fakeCoach{replies: []string{"Hi.", conclusionReply}}
	analyzer := &fakeAnalyzer{err: &apperr.RequestError{Err: errors.New("network down")}}
	persister := &fakePersister{}
	m := newTestManager(coach, analyzer, persister)
	_, err := m.Start(context.Background(), testInterview())
	require.NoError(t, err)

	result, err := m.Submit(context.Background(), "iv-1", "No further questions.")
	require.NoError(t, err, "the turn itself was accepted")
	assert.True(t, result.Concluded)
	assert.Equal(t, StateFailed, result.State)
	assert.Equal(t, 0, persister.callCount())

	// FAILED never resumes live conversation.
	_, err = m.Submit(context.Background(), "iv-1", "one more thing")
	require.ErrorIs(t, err, apperr.ErrSessionConcluded)

	// Manual retry re-enters FINALIZING and completes once the analyzer is back.
	analyzer.err = nil
	analyzer.report = testReport()
	require.NoError(t, m.Finalize(context.Background(), "iv-1"))
	state, err := m.SessionState("iv-1")
	require.NoError(t, err)
	assert.Equal(t, StateDone, state)
	assert.Equal(t, 1, persister.callCount())
}

func TestPersistenceFailureMovesToFailed(t *testing.T) {
	coach := &fakeCoach{replies: []string{"Hi.", conclusionReply}}
	persister := &fakePersister{err: errors.New("disk full")}
	m := newTestManager(coach, &fakeAnalyzer{report: testReport()}, persister)
	_, err := m.Start(context.Background(), testInterview())
	require.NoError(t, err)

	result, err := m.Submit(context.Background(), "iv-1", "No further questions.")
	require.NoError(t, err)
	assert.Equal(t, StateFailed, result.State)

	persister.err = nil
	require.NoError(t, m.Finalize(context.Background(), "iv-1"))
	state, _ := m.SessionState("iv-1")
	assert.Equal(t, StateDone, state)
}

func TestPlaybackNeverBlocksTurnProgression(t *testing.T) {
	coach := &fakeCoach{replies: []string{"Hi.", "Next."}}
	speech := &blockingSpeech{started: make(chan struct{})}
	m := NewManager(coach, &fakeAnalyzer{report: testReport()}, &fakePersister{}, speech)

	_, err := m.Start(context.Background(), testInterview())
	require.NoError(t, err)

	select {
	case <-speech.started:
	case <-time.After(time.Second):
		t.Fatal("playback side effect never fired")
	}

	// Playback is still hanging; the next turn must go through regardless.
	result, err := m.Submit(context.Background(), "iv-1", "answer")
	require.NoError(t, err)
	assert.Equal(t, "Next.", result.Reply.Content)
}

func TestOperationsOnUnknownSession(t *testing.T) {
	m := newTestManager(&fakeCoach{replies: []string{"Hi."}}, &fakeAnalyzer{report: testReport()}, &fakePersister{})

	_, err := m.Submit(context.Background(), "nope", "hello")
	require.ErrorIs(t, err, apperr.ErrSessionNotFound)
	require.ErrorIs(t, m.Finalize(context.Background(), "nope"), apperr.ErrSessionNotFound)
	_, err = m.Messages("nope")
	require.ErrorIs(t, err, apperr.ErrSessionNotFound)
}
