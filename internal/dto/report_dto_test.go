package dto

import (
	"encoding/json"
	"testing"

	"github.com/lshigami/InterviewCoach/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validReport() *AnalysisReport {
	return &AnalysisReport{
		OverallScore: 82,
		Metrics: []MetricScore{
			{Name: "Communication", Score: 80, Description: "Clear and structured."},
			{Name: "Technical Depth", Score: 85, Description: "Solid fundamentals."},
			{Name: "STAR Structure", Score: 75, Description: "Results often missing."},
			{Name: "Confidence", Score: 88, Description: "Composed under pressure."},
		},
		Strengths:    []string{"Concrete examples"},
		Improvements: []string{"Quantify outcomes"},
		CoachRemark:  "Strong showing overall.",
		Questions: []QuestionReview{
			{Question: "Tell me about a conflict.", Answer: "At my last role...", Feedback: "Good situation, weak result.", Score: 70},
		},
	}
}

func TestValidateAcceptsWellFormedReport(t *testing.T) {
	assert.NoError(t, validReport().Validate())
}

func TestValidateRejectsMissingQuestions(t *testing.T) {
	// Decoded from a response that simply omitted the questions field.
	raw := `{"overallScore":80,"metrics":[{"name":"Communication","score":80,"description":"d"},{"name":"Technical Depth","score":80,"description":"d"},{"name":"STAR Structure","score":80,"description":"d"},{"name":"Confidence","score":80,"description":"d"}],"strengths":["s"],"improvements":["i"],"coachRemark":"r"}`
	var report AnalysisReport
	require.NoError(t, json.Unmarshal([]byte(raw), &report))

	err := report.Validate()
	require.Error(t, err)
	var schemaErr *apperr.SchemaValidationError
	require.ErrorAs(t, err, &schemaErr)
	assert.Contains(t, schemaErr.Detail, "questions")
}

func TestValidateRejectsWrongMetricCount(t *testing.T) {
	report := validReport()
	report.Metrics = report.Metrics[:3]

	err := report.Validate()
	var schemaErr *apperr.SchemaValidationError
	require.ErrorAs(t, err, &schemaErr)
	assert.Contains(t, schemaErr.Detail, "4 metrics")
}

func TestValidateRejectsScoresOutOfRange(t *testing.T) {
	overall := validReport()
	overall.OverallScore = 101
	assert.Error(t, overall.Validate())

	metric := validReport()
	metric.Metrics[2].Score = -1
	assert.Error(t, metric.Validate())

	question := validReport()
	question.Questions[0].Score = 150
	assert.Error(t, question.Validate())
}

func TestValidateRejectsMissingFields(t *testing.T) {
	remark := validReport()
	remark.CoachRemark = ""
	assert.Error(t, remark.Validate())

	strengths := validReport()
	strengths.Strengths = nil
	assert.Error(t, strengths.Validate())

	improvements := validReport()
	improvements.Improvements = nil
	assert.Error(t, improvements.Validate())
}

func TestValidateAllowsEmptyStrengthLists(t *testing.T) {
	report := validReport()
	report.Strengths = []string{}
	report.Improvements = []string{}
	assert.NoError(t, report.Validate())
}
