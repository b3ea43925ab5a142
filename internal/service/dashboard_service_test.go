package service

import (
	"testing"

	"github.com/lshigami/InterviewCoach/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scored(category string, score int) model.Interview {
	s := score
	return model.Interview{Category: category, Status: model.StatusCompleted, Score: &s}
}

func TestSummarizeExcludesNullScores(t *testing.T) {
	interviews := []model.Interview{
		scored("Technical", 70),
		scored("Technical", 80),
		{Category: "Behavioral", Status: model.StatusInProgress}, // no score yet
	}

	summary := Summarize(interviews)

	assert.Equal(t, 3, summary.TotalInterviews)
	assert.Equal(t, 2, summary.CompletedCount)
	require.NotNil(t, summary.AverageScore)
	assert.InDelta(t, 75.0, *summary.AverageScore, 0.001)
}

func TestSummarizeNoScoredInterviewsMeansNoData(t *testing.T) {
	interviews := []model.Interview{
		{Category: "Behavioral", Status: model.StatusInProgress},
		{Category: "Technical", Status: model.StatusInProgress},
	}

	summary := Summarize(interviews)

	assert.Equal(t, 2, summary.TotalInterviews)
	assert.Nil(t, summary.AverageScore, "no data must be nil, not zero")
	assert.Empty(t, summary.CategoryAverages)
}

func TestSummarizeEmptyList(t *testing.T) {
	summary := Summarize(nil)
	assert.Equal(t, 0, summary.TotalInterviews)
	assert.Nil(t, summary.AverageScore)
}

func TestSummarizePerCategoryAverages(t *testing.T) {
	interviews := []model.Interview{
		scored("Technical", 60),
		scored("Technical", 80),
		scored("Behavioral", 90),
		{Category: "Case Study", Status: model.StatusInProgress},
	}

	summary := Summarize(interviews)

	require.Len(t, summary.CategoryAverages, 2)
	// Stable order: Behavioral before Technical.
	assert.Equal(t, "Behavioral", summary.CategoryAverages[0].Category)
	assert.InDelta(t, 90.0, summary.CategoryAverages[0].AverageScore, 0.001)
	assert.Equal(t, 1, summary.CategoryAverages[0].Count)
	assert.Equal(t, "Technical", summary.CategoryAverages[1].Category)
	assert.InDelta(t, 70.0, summary.CategoryAverages[1].AverageScore, 0.001)
	assert.Equal(t, 2, summary.CategoryAverages[1].Count)
}
