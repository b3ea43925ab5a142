package service

import (
	"fmt"

	"github.com/lshigami/InterviewCoach/internal/dto"
	"github.com/lshigami/InterviewCoach/internal/model"
	"github.com/lshigami/InterviewCoach/internal/repository"
	"github.com/rs/zerolog/log"
)

// DashboardService computes read-side summaries over an owner's interview
// history. Nothing is cached; every read recomputes from the records.
type DashboardService interface {
	GetSummary(ownerID string) (*dto.DashboardSummaryDTO, error)
}

type dashboardService struct {
	interviewRepo repository.InterviewRepository
}

func NewDashboardService(interviewRepo repository.InterviewRepository) DashboardService {
	return &dashboardService{interviewRepo: interviewRepo}
}

func (s *dashboardService) GetSummary(ownerID string) (*dto.DashboardSummaryDTO, error) {
	interviews, err := s.interviewRepo.FindAllByOwner(ownerID)
	if err != nil {
		log.Error().Err(err).Str("ownerID", ownerID).Msg("Failed to load interviews for dashboard summary")
		return nil, fmt.Errorf("error fetching interviews for owner %s: %w", ownerID, err)
	}
	summary := Summarize(interviews)
	return &summary, nil
}

// Summarize is the pure aggregation over a list of interview records.
// Interviews without a score (still in progress) are excluded from every
// average; when none carry a score the average is nil, meaning "no data",
// never zero.
func Summarize(interviews []model.Interview) dto.DashboardSummaryDTO {
	summary := dto.DashboardSummaryDTO{
		TotalInterviews:  len(interviews),
		CategoryAverages: []dto.CategoryAverageDTO{},
	}

	scoredTotal := 0
	scoredCount := 0
	categorySums := make(map[string]int)
	categoryCounts := make(map[string]int)

	for _, iv := range interviews {
		if iv.Completed() {
			summary.CompletedCount++
		}
		if iv.Score == nil {
			continue
		}
		scoredTotal += *iv.Score
		scoredCount++
		categorySums[iv.Category] += *iv.Score
		categoryCounts[iv.Category]++
	}

	if scoredCount > 0 {
		avg := float64(scoredTotal) / float64(scoredCount)
		summary.AverageScore = &avg
	}

	// Stable category order matching the accepted set.
	for _, category := range model.ValidCategories {
		count := categoryCounts[category]
		if count == 0 {
			continue
		}
		summary.CategoryAverages = append(summary.CategoryAverages, dto.CategoryAverageDTO{
			Category:     category,
			AverageScore: float64(categorySums[category]) / float64(count),
			Count:        count,
		})
	}
	return summary
}
