package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/lshigami/InterviewCoach/internal/apperr"
	"github.com/lshigami/InterviewCoach/internal/dto"
	"github.com/lshigami/InterviewCoach/internal/model"
	"github.com/lshigami/InterviewCoach/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ErrInterviewNotFound distinguishes a missing record from storage errors.
var ErrInterviewNotFound = errors.New("interview not found")

// InterviewService manages interview configurations and report reads.
type InterviewService interface {
	CreateInterview(req dto.CreateInterviewDTO) (*dto.InterviewSummaryDTO, error)
	GetInterview(id string) (*model.Interview, error)
	GetInterviewDetails(id string) (*dto.InterviewDetailDTO, error)
	GetOwnerInterviews(ownerID string) ([]dto.InterviewSummaryDTO, error)
}

type interviewService struct {
	interviewRepo repository.InterviewRepository
}

func NewInterviewService(interviewRepo repository.InterviewRepository) InterviewService {
	return &interviewService{interviewRepo: interviewRepo}
}

func (s *interviewService) CreateInterview(req dto.CreateInterviewDTO) (*dto.InterviewSummaryDTO, error) {
	if !model.IsValidCategory(req.Category) {
		return nil, apperr.NewValidationError("unknown interview category %q", req.Category)
	}
	if !model.IsValidExperienceLevel(req.ExperienceLevel) {
		return nil, apperr.NewValidationError("unknown experience level %q", req.ExperienceLevel)
	}

	interview := model.Interview{
		ID:              uuid.NewString(),
		OwnerID:         req.OwnerID,
		Field:           req.Field,
		Category:        req.Category,
		ExperienceLevel: req.ExperienceLevel,
		Status:          model.StatusInProgress,
	}
	if err := s.interviewRepo.Create(&interview); err != nil {
		log.Error().Err(err).Str("ownerID", req.OwnerID).Msg("Failed to create interview")
		return nil, fmt.Errorf("error creating interview: %w", err)
	}
	log.Info().Str("interviewID", interview.ID).Str("field", interview.Field).Str("category", interview.Category).Msg("Interview created")

	var resp dto.InterviewSummaryDTO
	if err := copier.Copy(&resp, &interview); err != nil {
		return nil, fmt.Errorf("error preparing interview response: %w", err)
	}
	return &resp, nil
}

func (s *interviewService) GetInterview(id string) (*model.Interview, error) {
	interview, err := s.interviewRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInterviewNotFound
		}
		return nil, fmt.Errorf("error loading interview %s: %w", id, err)
	}
	return interview, nil
}

func (s *interviewService) GetInterviewDetails(id string) (*dto.InterviewDetailDTO, error) {
	interview, err := s.interviewRepo.FindByIDWithQuestions(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInterviewNotFound
		}
		log.Error().Err(err).Str("interviewID", id).Msg("Failed to load interview details")
		return nil, fmt.Errorf("error loading interview %s: %w", id, err)
	}

	var resp dto.InterviewDetailDTO
	if err := copier.Copy(&resp, interview); err != nil {
		return nil, fmt.Errorf("error preparing interview details response: %w", err)
	}
	if len(interview.AnalysisReport) > 0 {
		var report dto.AnalysisReport
		if err := json.Unmarshal(interview.AnalysisReport, &report); err != nil {
			log.Warn().Err(err).Str("interviewID", id).Msg("Stored analysis report is unreadable, omitting from response.")
		} else {
			resp.AnalysisReport = &report
		}
	}
	return &resp, nil
}

func (s *interviewService) GetOwnerInterviews(ownerID string) ([]dto.InterviewSummaryDTO, error) {
	interviews, err := s.interviewRepo.FindAllByOwner(ownerID)
	if err != nil {
		log.Error().Err(err).Str("ownerID", ownerID).Msg("Failed to list interviews")
		return nil, fmt.Errorf("error fetching interviews: %w", err)
	}
	dtos := make([]dto.InterviewSummaryDTO, 0, len(interviews))
	for _, iv := range interviews {
		var summary dto.InterviewSummaryDTO
		if err := copier.Copy(&summary, &iv); err != nil {
			return nil, fmt.Errorf("error preparing interview list response: %w", err)
		}
		dtos = append(dtos, summary)
	}
	return dtos, nil
}
