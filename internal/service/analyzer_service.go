package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/InterviewCoach/config"
	"github.com/lshigami/InterviewCoach/internal/apperr"
	"github.com/lshigami/InterviewCoach/internal/dto"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// AnalysisInput is everything the analyst needs: the hidden-excluded
// transcript and the session metadata it was recorded under.
type AnalysisInput struct {
	Transcript      string
	Field           string
	ExperienceLevel string
	Category        string
}

// InterviewAnalyzer converts a finished transcript into a validated
// performance report. Implementations perform no retries; a failure halts
// finalize and retry is the caller's explicit decision.
type InterviewAnalyzer interface {
	Analyze(ctx context.Context, in AnalysisInput) (*dto.AnalysisReport, error)
}

type geminiAnalyzer struct {
	client *genai.GenerativeModel
	cfg    *config.Config
}

// NewGeminiAnalyzer builds the model-backed analyzer with JSON output
// constrained to the report schema.
func NewGeminiAnalyzer(cfg *config.Config) (InterviewAnalyzer, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. GeminiAnalyzer will be non-functional.")
		return &geminiAnalyzer{cfg: cfg, client: nil}, nil
	}
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	analyst := client.GenerativeModel("gemini-1.5-flash")
	analyst.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text("You are a professional interview analyzer. Output only valid JSON.")},
	}
	analyst.ResponseMIMEType = "application/json"
	analyst.ResponseSchema = reportSchema()
	return &geminiAnalyzer{client: analyst, cfg: cfg}, nil
}

func reportSchema() *genai.Schema {
	scoredItem := func(props map[string]*genai.Schema, required []string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeObject, Properties: props, Required: required}
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"overallScore": {Type: genai.TypeInteger},
			"metrics": {
				Type: genai.TypeArray,
				Items: scoredItem(map[string]*genai.Schema{
					"name":        {Type: genai.TypeString},
					"score":       {Type: genai.TypeInteger},
					"description": {Type: genai.TypeString},
				}, []string{"name", "score", "description"}),
			},
			"strengths":    {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			"improvements": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			"coachRemark":  {Type: genai.TypeString},
			"questions": {
				Type: genai.TypeArray,
				Items: scoredItem(map[string]*genai.Schema{
					"question": {Type: genai.TypeString},
					"answer":   {Type: genai.TypeString},
					"feedback": {Type: genai.TypeString},
					"score":    {Type: genai.TypeInteger},
				}, []string{"question", "answer", "feedback", "score"}),
			},
		},
		Required: []string{"overallScore", "metrics", "strengths", "improvements", "coachRemark", "questions"},
	}
}

func buildAnalystPrompt(in AnalysisInput) string {
	return fmt.Sprintf(`You are a world-class senior recruiter and interview coach.
Analyze the following interview transcript for a %s position (%s type, %s level).

TRANSCRIPT:
%s

Provide a deep, structured analysis including:
1. An overall score (0-100).
2. Scores for specific metrics: Communication, Technical Depth, STAR Structure, Confidence.
3. Key strengths (bullet points).
4. Areas for improvement (bullet points).
5. A summary coaching remark as "Alex", the senior recruiter.
6. For each question asked, provide specific feedback.

Return the result as a JSON object with fields overallScore, metrics (exactly the four named above, each with name, score and description), strengths, improvements, coachRemark and questions (each with question, answer, feedback and score).`,
		in.Field, in.Category, in.ExperienceLevel, in.Transcript)
}

func (s *geminiAnalyzer) Analyze(ctx context.Context, in AnalysisInput) (*dto.AnalysisReport, error) {
	if s.client == nil {
		return nil, &apperr.RequestError{Err: fmt.Errorf("gemini client not initialized")}
	}

	resp, err := s.client.GenerateContent(ctx, genai.Text(buildAnalystPrompt(in)))
	if err != nil {
		log.Error().Err(err).Str("field", in.Field).Msg("Gemini API error during transcript analysis")
		return nil, &apperr.RequestError{Err: err}
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Warn().Msg("Gemini returned no candidates or parts for analysis.")
		return nil, &apperr.RefusalOrTimeoutError{Reason: "model returned no content"}
	}

	raw := ""
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			raw += string(txt)
		}
	}
	if raw == "" {
		return nil, &apperr.RefusalOrTimeoutError{Reason: "model returned no text content"}
	}

	var report dto.AnalysisReport
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		log.Warn().Err(err).Str("rawResponse", raw).Msg("Failed to parse analysis response as JSON")
		return nil, &apperr.SchemaValidationError{Detail: "response is not valid JSON: " + err.Error()}
	}
	if err := report.Validate(); err != nil {
		log.Warn().Err(err).Msg("Analysis response failed schema validation")
		return nil, err
	}
	return &report, nil
}
