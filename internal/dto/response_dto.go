package dto

import "time"

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// InterviewSummaryDTO is used for listing an owner's interviews.
type InterviewSummaryDTO struct {
	ID              string    `json:"id"`
	OwnerID         string    `json:"owner_id"`
	Field           string    `json:"field"`
	Category        string    `json:"category"`
	ExperienceLevel string    `json:"experience_level"`
	Status          string    `json:"status"`
	Score           *int      `json:"score,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// QuestionResultDTO is one evaluated Q&A exchange inside a report view.
type QuestionResultDTO struct {
	ID           string `json:"id"`
	QuestionText string `json:"question_text"`
	UserAnswer   string `json:"user_answer"`
	AIFeedback   string `json:"ai_feedback"`
	Score        int    `json:"score"`
	OrderIndex   int    `json:"order_index"`
}

// InterviewDetailDTO is the full report view of an interview. Score,
// OverallFeedback, AnalysisReport and Questions are absent while the
// interview is still in progress.
type InterviewDetailDTO struct {
	ID              string              `json:"id"`
	OwnerID         string              `json:"owner_id"`
	Field           string              `json:"field"`
	Category        string              `json:"category"`
	ExperienceLevel string              `json:"experience_level"`
	Status          string              `json:"status"`
	Score           *int                `json:"score,omitempty"`
	OverallFeedback *string             `json:"overall_feedback,omitempty"`
	AnalysisReport  *AnalysisReport     `json:"analysis_report,omitempty"`
	Questions       []QuestionResultDTO `json:"questions,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
}

// MessageDTO is one visible conversation turn.
type MessageDTO struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TurnResponseDTO is returned after a candidate message is accepted: the
// coach reply plus whether the reply concluded the interview.
type TurnResponseDTO struct {
	Reply     MessageDTO `json:"reply"`
	Concluded bool       `json:"concluded"`
	State     string     `json:"state"`
}

// CategoryAverageDTO is the mean score of one interview category.
type CategoryAverageDTO struct {
	Category     string  `json:"category"`
	AverageScore float64 `json:"average_score"`
	Count        int     `json:"count"`
}

// DashboardSummaryDTO aggregates an owner's interview history for display.
// AverageScore is nil when no completed interview has a score yet.
type DashboardSummaryDTO struct {
	TotalInterviews  int                  `json:"total_interviews"`
	CompletedCount   int                  `json:"completed_count"`
	AverageScore     *float64             `json:"average_score"`
	CategoryAverages []CategoryAverageDTO `json:"category_averages"`
}
