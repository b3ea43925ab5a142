package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lshigami/InterviewCoach/config"
	"github.com/lshigami/InterviewCoach/internal/apperr"
	"github.com/lshigami/InterviewCoach/internal/dto"
	"github.com/rs/zerolog/log"
)

// httpAnalyzer is the client side of the analyze wire contract: it posts
// the transcript and metadata as JSON with a bearer credential and expects
// either a schema-valid report or an {"error": "..."} body.
type httpAnalyzer struct {
	url    string
	token  string
	client *http.Client
}

// NewHTTPAnalyzer builds an InterviewAnalyzer that delegates scoring to a
// remote analyze endpoint, for deployments where analysis runs out of
// process.
func NewHTTPAnalyzer(cfg *config.Config) InterviewAnalyzer {
	return &httpAnalyzer{
		url:    cfg.Analyzer.URL,
		token:  cfg.Analyzer.Token,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

func (a *httpAnalyzer) Analyze(ctx context.Context, in AnalysisInput) (*dto.AnalysisReport, error) {
	body, err := json.Marshal(dto.AnalyzeRequestDTO{
		Transcript:      in.Transcript,
		Field:           in.Field,
		ExperienceLevel: in.ExperienceLevel,
		Category:        in.Category,
	})
	if err != nil {
		return nil, &apperr.RequestError{Err: fmt.Errorf("encoding analyze request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		return nil, &apperr.RequestError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.token)

	resp, err := a.client.Do(req)
	if err != nil {
		log.Error().Err(err).Str("url", a.url).Msg("Failed to reach analyze endpoint")
		return nil, &apperr.RequestError{Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperr.RequestError{Err: fmt.Errorf("reading analyze response: %w", err)}
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		var remote struct {
			Error string `json:"error"`
		}
		reason := fmt.Sprintf("analyzer returned status %d", resp.StatusCode)
		if json.Unmarshal(payload, &remote) == nil && remote.Error != "" {
			reason = remote.Error
		}
		log.Warn().Int("status", resp.StatusCode).Str("reason", reason).Msg("Analyze endpoint reported failure")
		return nil, &apperr.RefusalOrTimeoutError{Reason: reason}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &apperr.RequestError{Err: fmt.Errorf("unexpected analyzer status %d", resp.StatusCode)}
	}

	var report dto.AnalysisReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, &apperr.SchemaValidationError{Detail: "response is not valid JSON: " + err.Error()}
	}
	if err := report.Validate(); err != nil {
		return nil, err
	}
	return &report, nil
}
