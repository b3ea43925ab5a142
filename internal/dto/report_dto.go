package dto

import (
	"fmt"

	"github.com/lshigami/InterviewCoach/internal/apperr"
)

// MetricCount is the number of metric entries a valid report carries
// (Communication, Technical Depth, STAR Structure, Confidence).
const MetricCount = 4

// MetricScore is one scored evaluation dimension.
type MetricScore struct {
	Name        string `json:"name"`
	Score       int    `json:"score"`
	Description string `json:"description"`
}

// QuestionReview is the analyst's verdict on one Q&A exchange, in the
// order the questions were asked.
type QuestionReview struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Feedback string `json:"feedback"`
	Score    int    `json:"score"`
}

// AnalysisReport is the structured performance report produced from an
// interview transcript. The shape is fixed; Validate enforces it before
// any report is persisted or returned to a caller.
type AnalysisReport struct {
	OverallScore int              `json:"overallScore"`
	Metrics      []MetricScore    `json:"metrics"`
	Strengths    []string         `json:"strengths"`
	Improvements []string         `json:"improvements"`
	CoachRemark  string           `json:"coachRemark"`
	Questions    []QuestionReview `json:"questions"`
}

func scoreInRange(score int) bool {
	return score >= 0 && score <= 100
}

// Validate checks the report against the fixed schema and returns a
// *apperr.SchemaValidationError describing the first violation found.
// A nil slice means the corresponding field was missing from the
// response, which is a violation; empty strengths/improvements are not.
func (r *AnalysisReport) Validate() error {
	if !scoreInRange(r.OverallScore) {
		return &apperr.SchemaValidationError{Detail: fmt.Sprintf("overallScore %d out of [0,100]", r.OverallScore)}
	}
	if r.Metrics == nil {
		return &apperr.SchemaValidationError{Detail: "missing required field: metrics"}
	}
	if len(r.Metrics) != MetricCount {
		return &apperr.SchemaValidationError{Detail: fmt.Sprintf("expected exactly %d metrics, got %d", MetricCount, len(r.Metrics))}
	}
	for i, m := range r.Metrics {
		if m.Name == "" {
			return &apperr.SchemaValidationError{Detail: fmt.Sprintf("metrics[%d]: missing name", i)}
		}
		if m.Description == "" {
			return &apperr.SchemaValidationError{Detail: fmt.Sprintf("metrics[%d] (%s): missing description", i, m.Name)}
		}
		if !scoreInRange(m.Score) {
			return &apperr.SchemaValidationError{Detail: fmt.Sprintf("metrics[%d] (%s): score %d out of [0,100]", i, m.Name, m.Score)}
		}
	}
	if r.Strengths == nil {
		return &apperr.SchemaValidationError{Detail: "missing required field: strengths"}
	}
	if r.Improvements == nil {
		return &apperr.SchemaValidationError{Detail: "missing required field: improvements"}
	}
	if r.CoachRemark == "" {
		return &apperr.SchemaValidationError{Detail: "missing required field: coachRemark"}
	}
	if r.Questions == nil {
		return &apperr.SchemaValidationError{Detail: "missing required field: questions"}
	}
	for i, q := range r.Questions {
		if q.Question == "" {
			return &apperr.SchemaValidationError{Detail: fmt.Sprintf("questions[%d]: missing question", i)}
		}
		if q.Feedback == "" {
			return &apperr.SchemaValidationError{Detail: fmt.Sprintf("questions[%d]: missing feedback", i)}
		}
		if !scoreInRange(q.Score) {
			return &apperr.SchemaValidationError{Detail: fmt.Sprintf("questions[%d]: score %d out of [0,100]", i, q.Score)}
		}
	}
	return nil
}
