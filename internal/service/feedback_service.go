package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/Learnhub/config"
	"github.com/lshigami/Learnhub/internal/model"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// FeedbackService explains wrong short answers to the learner. It never
// affects grading.
type FeedbackService interface {
	Enabled() bool
	ShortAnswerFeedback(ctx context.Context, question *model.Question, acceptedAnswers []string, userAnswer string) (string, error)
	Close() error
}

type geminiFeedbackService struct {
	conn   *genai.Client
	client *genai.GenerativeModel
}

func NewGeminiFeedbackService(cfg *config.Config) (FeedbackService, error) {
	if cfg.Gemini.ApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Short answer feedback is disabled.")
		return &geminiFeedbackService{client: nil}, nil
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.Gemini.ApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	return &geminiFeedbackService{conn: client, client: client.GenerativeModel(cfg.Gemini.Model)}, nil
}

// Close releases the Gemini connection. Safe to call when feedback is disabled.
func (s *geminiFeedbackService) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *geminiFeedbackService) Enabled() bool {
	return s.client != nil
}

func (s *geminiFeedbackService) ShortAnswerFeedback(ctx context.Context, question *model.Question, acceptedAnswers []string, userAnswer string) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("gemini client not initialized")
	}

	resp, err := s.client.GenerateContent(ctx, genai.Text(buildFeedbackPrompt(question, acceptedAnswers, userAnswer)))
	if err != nil {
		log.Error().Err(err).Uint("questionID", question.ID).Msg("Gemini API error during feedback generation")
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no content")
	}

	var raw strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			raw.WriteString(string(txt))
		}
	}
	feedback := parseFeedback(raw.String())
	if feedback == "" {
		return "", fmt.Errorf("gemini returned no text content")
	}
	return feedback, nil
}

func buildFeedbackPrompt(question *model.Question, acceptedAnswers []string, userAnswer string) string {
	var b strings.Builder
	b.WriteString("You are a patient course tutor. A learner answered a short answer quiz question incorrectly.\n")
	b.WriteString("Explain briefly (at most three sentences) why their answer is not accepted and what the key idea is.\n")
	b.WriteString("Do not quote the accepted answers verbatim.\n\n")
	b.WriteString("Question:\n---\n")
	b.WriteString(question.Text)
	b.WriteString("\n---\n")
	b.WriteString("Accepted answers: ")
	b.WriteString(strings.Join(acceptedAnswers, "; "))
	b.WriteString("\nLearner's answer:\n---\n")
	b.WriteString(userAnswer)
	b.WriteString("\n---\n\n")
	b.WriteString("Format your response strictly as:\nFeedback: [your feedback]\n")
	return b.String()
}

// parseFeedback strips the "Feedback:" label when the model followed the format.
func parseFeedback(raw string) string {
	text := strings.TrimSpace(raw)
	const label = "feedback:"
	if idx := indexASCIIFold(text, label); idx != -1 {
		text = strings.TrimSpace(text[idx+len(label):])
	}
	return text
}

// indexASCIIFold finds an ASCII needle ignoring ASCII case. Offsets refer to s
// itself, and a match never starts or ends inside a multi-byte rune.
func indexASCIIFold(s, needle string) int {
	for i := 0; i+len(needle) <= len(s); i++ {
		match := true
		for j := 0; j < len(needle); j++ {
			c := s[i+j]
			if 'A' <= c && c <= 'Z' {
				c += 'a' - 'A'
			}
			if c != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
