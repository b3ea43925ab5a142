package service

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lshigami/InterviewCoach/internal/apperr"
	"github.com/lshigami/InterviewCoach/internal/dto"
	"github.com/lshigami/InterviewCoach/internal/model"
	"github.com/lshigami/InterviewCoach/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ResultPersister writes a validated report as the final interview record
// plus its ordered question rows. Persist is idempotent: a second call for
// an already-completed interview is a no-op success, so a retried finalize
// can never duplicate question rows.
type ResultPersister interface {
	Persist(interviewID string, report *dto.AnalysisReport) error
	// CheckIntegrity reports the degraded state where the interview update
	// landed but the question batch did not (completed with zero rows).
	CheckIntegrity(interviewID string) (degraded bool, err error)
}

type resultPersister struct {
	interviewRepo repository.InterviewRepository
	questionRepo  repository.QuestionRepository
	db            *gorm.DB
}

func NewResultPersister(
	interviewRepo repository.InterviewRepository,
	questionRepo repository.QuestionRepository,
	db *gorm.DB,
) ResultPersister {
	return &resultPersister{
		interviewRepo: interviewRepo,
		questionRepo:  questionRepo,
		db:            db,
	}
}

// Persist performs the two finalize writes. They are deliberately not
// wrapped in one transaction across both steps: the idempotency check on
// the completed status is what makes retries safe. The question batch
// itself is inserted atomically, so a failure there leaves the recognizable
// completed-with-zero-questions state rather than a partial batch.
func (s *resultPersister) Persist(interviewID string, report *dto.AnalysisReport) error {
	interview, err := s.interviewRepo.FindByID(interviewID)
	if err != nil {
		return &apperr.PersistenceError{Op: "load interview", Err: err}
	}

	if interview.Completed() {
		log.Info().Str("interviewID", interviewID).Msg("Persist: interview already completed, skipping duplicate finalize.")
		return nil
	}

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return &apperr.PersistenceError{Op: "serialize report", Err: err}
	}

	score := report.OverallScore
	feedback := report.CoachRemark
	interview.Status = model.StatusCompleted
	interview.Score = &score
	interview.OverallFeedback = &feedback
	interview.AnalysisReport = reportJSON

	if err := s.interviewRepo.Complete(interview); err != nil {
		log.Error().Err(err).Str("interviewID", interviewID).Msg("Persist: failed to update interview record.")
		return &apperr.PersistenceError{Op: "update interview", Err: err}
	}

	questions := make([]model.Question, len(report.Questions))
	for i, q := range report.Questions {
		questions[i] = model.Question{
			ID:           uuid.NewString(),
			InterviewID:  interviewID,
			QuestionText: q.Question,
			UserAnswer:   q.Answer,
			AIFeedback:   q.Feedback,
			Score:        q.Score,
			OrderIndex:   i,
		}
	}
	if len(questions) == 0 {
		log.Warn().Str("interviewID", interviewID).Msg("Persist: report carried no questions, interview completed without question rows.")
		return nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.questionRepo.CreateBatch(tx, questions)
	})
	if err != nil {
		// The interview is now completed with zero questions. Reported, not
		// hidden: the caller can detect it via CheckIntegrity and repair.
		log.Error().Err(err).Str("interviewID", interviewID).Msg("Persist: interview completed but question batch failed.")
		return &apperr.PersistenceError{Op: "insert questions", Err: err}
	}

	log.Info().Str("interviewID", interviewID).Int("questions", len(questions)).Int("score", score).Msg("Persist: interview finalized.")
	return nil
}

func (s *resultPersister) CheckIntegrity(interviewID string) (bool, error) {
	interview, err := s.interviewRepo.FindByID(interviewID)
	if err != nil {
		return false, fmt.Errorf("interview not found with ID %s: %w", interviewID, err)
	}
	if !interview.Completed() {
		return false, nil
	}
	count, err := s.questionRepo.CountByInterview(interviewID)
	if err != nil {
		return false, fmt.Errorf("counting questions for interview %s: %w", interviewID, err)
	}
	return count == 0, nil
}
