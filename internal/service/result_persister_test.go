package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/lshigami/InterviewCoach/internal/apperr"
	"github.com/lshigami/InterviewCoach/internal/dto"
	"github.com/lshigami/InterviewCoach/internal/model"
	"github.com/lshigami/InterviewCoach/internal/repository"
	"github.com/lshigami/InterviewCoach/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedInterview(t *testing.T, db *gorm.DB) *model.Interview {
	t.Helper()
	interview := &model.Interview{
		ID:              uuid.NewString(),
		OwnerID:         "owner-1",
		Field:           "Backend Engineer",
		Category:        "Technical",
		ExperienceLevel: "Senior",
		Status:          model.StatusInProgress,
	}
	require.NoError(t, db.Create(interview).Error)
	return interview
}

func sampleReport() *dto.AnalysisReport {
	return &dto.AnalysisReport{
		OverallScore: 85,
		Metrics: []dto.MetricScore{
			{Name: "Communication", Score: 80, Description: "d"},
			{Name: "Technical Depth", Score: 90, Description: "d"},
			{Name: "STAR Structure", Score: 78, Description: "d"},
			{Name: "Confidence", Score: 88, Description: "d"},
		},
		Strengths:    []string{"depth"},
		Improvements: []string{"brevity"},
		CoachRemark:  "Well prepared candidate.",
		Questions: []dto.QuestionReview{
			{Question: "Describe a system you designed.", Answer: "A queueing layer...", Feedback: "Strong tradeoff discussion.", Score: 90},
			{Question: "Tell me about a production incident.", Answer: "We had an outage...", Feedback: "Good ownership, vague metrics.", Score: 75},
			{Question: "Any questions for me?", Answer: "What does success look like?", Feedback: "Thoughtful closing.", Score: 88},
		},
	}
}

func newPersisterForTest(t *testing.T) (ResultPersister, *gorm.DB) {
	t.Helper()
	db := testhelpers.SetupTestDB(t)
	return NewResultPersister(
		repository.NewInterviewRepository(db),
		repository.NewQuestionRepository(db),
		db,
	), db
}

func TestPersistRoundTrip(t *testing.T) {
	persister, db := newPersisterForTest(t)
	interview := seedInterview(t, db)
	report := sampleReport()

	require.NoError(t, persister.Persist(interview.ID, report))

	var stored model.Interview
	require.NoError(t, db.First(&stored, "id = ?", interview.ID).Error)
	assert.Equal(t, model.StatusCompleted, stored.Status)
	require.NotNil(t, stored.Score)
	assert.Equal(t, report.OverallScore, *stored.Score)
	require.NotNil(t, stored.OverallFeedback)
	assert.Equal(t, report.CoachRemark, *stored.OverallFeedback)
	assert.NotEmpty(t, stored.AnalysisReport)

	var questions []model.Question
	require.NoError(t, db.Where("interview_id = ?", interview.ID).Order("order_index ASC").Find(&questions).Error)
	require.Len(t, questions, len(report.Questions))
	for i, q := range questions {
		assert.Equal(t, i, q.OrderIndex)
		assert.Equal(t, report.Questions[i].Question, q.QuestionText)
		assert.Equal(t, report.Questions[i].Answer, q.UserAnswer)
		assert.Equal(t, report.Questions[i].Feedback, q.AIFeedback)
		assert.Equal(t, report.Questions[i].Score, q.Score)
	}
}

func TestPersistIsIdempotent(t *testing.T) {
	persister, db := newPersisterForTest(t)
	interview := seedInterview(t, db)
	report := sampleReport()

	require.NoError(t, persister.Persist(interview.ID, report))
	// Duplicate finalize: must be a no-op success, not a second batch.
	require.NoError(t, persister.Persist(interview.ID, report))

	var count int64
	require.NoError(t, db.Model(&model.Question{}).Where("interview_id = ?", interview.ID).Count(&count).Error)
	assert.Equal(t, int64(len(report.Questions)), count)

	var stored model.Interview
	require.NoError(t, db.First(&stored, "id = ?", interview.ID).Error)
	assert.Equal(t, report.OverallScore, *stored.Score)
	assert.Equal(t, report.CoachRemark, *stored.OverallFeedback)
}

func TestPersistStatusNeverRegresses(t *testing.T) {
	persister, db := newPersisterForTest(t)
	interview := seedInterview(t, db)

	require.NoError(t, persister.Persist(interview.ID, sampleReport()))

	weaker := sampleReport()
	weaker.OverallScore = 10
	require.NoError(t, persister.Persist(interview.ID, weaker))

	var stored model.Interview
	require.NoError(t, db.First(&stored, "id = ?", interview.ID).Error)
	assert.Equal(t, model.StatusCompleted, stored.Status)
	assert.Equal(t, 85, *stored.Score)
}

func TestPersistUnknownInterview(t *testing.T) {
	persister, _ := newPersisterForTest(t)

	err := persister.Persist(uuid.NewString(), sampleReport())
	var persistErr *apperr.PersistenceError
	require.ErrorAs(t, err, &persistErr)
}

func TestPersistDegradedStateIsDetectable(t *testing.T) {
	persister, db := newPersisterForTest(t)
	interview := seedInterview(t, db)

	// Force step two to fail after the interview update lands.
	testhelpers.DropQuestionTable(t, db)

	err := persister.Persist(interview.ID, sampleReport())
	var persistErr *apperr.PersistenceError
	require.ErrorAs(t, err, &persistErr)

	var stored model.Interview
	require.NoError(t, db.First(&stored, "id = ?", interview.ID).Error)
	assert.Equal(t, model.StatusCompleted, stored.Status)

	require.NoError(t, db.AutoMigrate(&model.Question{}))
	degraded, err := persister.CheckIntegrity(interview.ID)
	require.NoError(t, err)
	assert.True(t, degraded, "completed interview with zero question rows must be reported as degraded")
}

func TestCheckIntegrityHealthyAndInProgress(t *testing.T) {
	persister, db := newPersisterForTest(t)
	interview := seedInterview(t, db)

	degraded, err := persister.CheckIntegrity(interview.ID)
	require.NoError(t, err)
	assert.False(t, degraded, "in-progress interviews are never degraded")

	require.NoError(t, persister.Persist(interview.ID, sampleReport()))
	degraded, err = persister.CheckIntegrity(interview.ID)
	require.NoError(t, err)
	assert.False(t, degraded)
}
