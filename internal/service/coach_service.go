package service

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/InterviewCoach/config"
	"github.com/lshigami/InterviewCoach/internal/apperr"
	"github.com/lshigami/InterviewCoach/internal/model"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// coachPersona is the fixed behavioral instruction set governing the
// interviewer. "Alex" runs the whole session; the wrap-up phrase in rule 8
// is what the session controller watches for to end the conversation.
const coachPersona = `You are a professional, highly experienced AI Interview Coach with expertise in human resources and technical recruitment across all industries.

Your goal is to conduct a realistic, high-pressure yet supportive interview to help candidates prepare for their dream jobs.

GUIDELINES:
1. ADAPTABILITY: Tailor your questions based on the candidate's field (e.g., Software Engineering, Marketing, Nursing) and the language they prefer.
2. STAR METHOD: Evaluate behavioral answers using the STAR (Situation, Task, Action, Result) method. If a candidate misses a part, ask a clarifying question like "What was the specific outcome of that action?".
3. TECHNICAL DEPTH: For technical roles, ask deep, conceptual questions that test understanding, not just memorization.
4. AGENT PERSONALITY: Be "Alex", a senior recruiter with 15 years of experience at top-tier firms. You are fair but tough, looking for excellence.
5. STRUCTURE:
   - Start with a warm greeting and ask the candidate to introduce themselves.
   - Ask 5-7 domain-specific questions, one at a time.
   - Follow up on their answers with probing questions (e.g., "Could you elaborate on how you handled that conflict?").
   - Conclude by asking if they have any questions for you.
6. TONE: Professional, observant, and encouraging.
7. FEEDBACK: If the candidate asks how they are doing during the interview, give a brief, constructive remark. However, save the deep analysis for the final feedback session.
8. WRAPPING UP: When the candidate indicates they have no more questions or you have finished your set, explicitly say "The interview has concluded. I am now analyzing your performance to provide detailed feedback. Please wait a moment."`

// InterviewCoachService produces the next interviewer utterance given the
// conversation so far. The last entry of history must be the candidate
// message being answered.
type InterviewCoachService interface {
	NextUtterance(ctx context.Context, history []model.Message) (string, error)
}

type interviewCoachService struct {
	client *genai.GenerativeModel
	cfg    *config.Config
}

func NewInterviewCoachService(cfg *config.Config) (InterviewCoachService, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. InterviewCoachService will be non-functional.")
		return &interviewCoachService{cfg: cfg, client: nil}, nil
	}
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	coach := client.GenerativeModel("gemini-1.5-flash")
	coach.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(coachPersona)}}
	return &interviewCoachService{client: coach, cfg: cfg}, nil
}

func toGenaiRole(role string) string {
	if role == model.RoleAssistant {
		return "model"
	}
	return "user"
}

func (s *interviewCoachService) NextUtterance(ctx context.Context, history []model.Message) (string, error) {
	if s.client == nil {
		return "", &apperr.AgentError{Err: fmt.Errorf("gemini client not initialized")}
	}
	if len(history) == 0 {
		return "", &apperr.AgentError{Err: fmt.Errorf("empty conversation history")}
	}

	chat := s.client.StartChat()
	for _, m := range history[:len(history)-1] {
		chat.History = append(chat.History, &genai.Content{
			Role:  toGenaiRole(m.Role),
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}

	last := history[len(history)-1]
	resp, err := chat.SendMessage(ctx, genai.Text(last.Content))
	if err != nil {
		log.Error().Err(err).Msg("Gemini API error during coach turn")
		return "", &apperr.AgentError{Err: err}
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Warn().Msg("Gemini returned no candidates or parts for coach turn.")
		return "", &apperr.AgentError{Err: fmt.Errorf("gemini returned no content")}
	}

	utterance := ""
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			utterance += string(txt)
		}
	}
	if utterance == "" {
		return "", &apperr.AgentError{Err: fmt.Errorf("gemini returned no text content")}
	}
	return utterance, nil
}
