package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Learnhub/internal/dto"
	"github.com/lshigami/Learnhub/internal/model"
	"github.com/lshigami/Learnhub/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type QuizService interface {
	GetQuizForLearner(ctx context.Context, quizID uint) (*dto.QuizDTO, error)
}

type quizService struct {
	quizRepo repository.QuizRepository
}

func NewQuizService(quizRepo repository.QuizRepository) QuizService {
	return &quizService{quizRepo: quizRepo}
}

// GetQuizForLearner returns the quiz without anything that reveals the answers.
func (s *quizService) GetQuizForLearner(ctx context.Context, quizID uint) (*dto.QuizDTO, error) {
	quiz, err := s.quizRepo.FindByIDWithQuestions(ctx, quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Uint("quizID", quizID).Msg("Failed to get quiz from repository")
		return nil, fmt.Errorf("error fetching quiz %d: %w", quizID, err)
	}
	return toLearnerQuizDTO(quiz)
}

func toLearnerQuizDTO(quiz *model.Quiz) (*dto.QuizDTO, error) {
	var resp dto.QuizDTO
	shallow := *quiz
	shallow.Questions = nil
	if err := copier.Copy(&resp, &shallow); err != nil {
		log.Error().Err(err).Msg("Failed to copy Quiz model to QuizDTO")
		return nil, fmt.Errorf("error preparing quiz response: %w", err)
	}

	resp.Questions = make([]dto.QuestionDTO, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		item := dto.QuestionDTO{
			ID:      q.ID,
			QuizID:  q.QuizID,
			Text:    q.Text,
			Type:    string(q.Type),
			Points:  q.Points,
			Order:   q.Order,
			Choices: make([]dto.ChoiceDTO, 0, len(q.Choices)),
		}
		// Short answers are typed freely, listing the accepted ones would give them away.
		if q.Type != model.QuestionTypeShortAnswer {
			for _, c := range q.Choices {
				item.Choices = append(item.Choices, dto.ChoiceDTO{ID: c.ID, Text: c.Text, Order: c.Order})
			}
		}
		if q.Type == model.QuestionTypeMatching {
			for _, c := range q.Choices {
				if c.MatchText != nil {
					item.MatchTargets = append(item.MatchTargets, *c.MatchText)
				}
			}
			sort.Strings(item.MatchTargets)
		}
		resp.Questions = append(resp.Questions, item)
		resp.TotalPoints += q.Points
	}
	resp.QuestionCount = len(resp.Questions)
	return &resp, nil
}

type AdminQuizService interface {
	CreateQuiz(ctx context.Context, req dto.QuizCreateDTO) (*dto.QuizDTO, error)
}

type adminQuizService struct {
	quizRepo repository.QuizRepository
}

func NewAdminQuizService(quizRepo repository.QuizRepository) AdminQuizService {
	return &adminQuizService{quizRepo: quizRepo}
}

func (s *adminQuizService) CreateQuiz(ctx context.Context, req dto.QuizCreateDTO) (*dto.QuizDTO, error) {
	quiz := model.Quiz{
		Title:          req.Title,
		Description:    req.Description,
		TimeLimit:      req.TimeLimit,
		PassPercentage: model.DefaultPassPercentage,
		MaxAttempts:    req.MaxAttempts,
	}
	if req.PassPercentage != nil {
		quiz.PassPercentage = *req.PassPercentage
	}

	for i, qDto := range req.Questions {
		if err := validateQuestion(qDto); err != nil {
			return nil, fmt.Errorf("%w: question %d: %s", ErrValidation, i+1, err.Error())
		}
		var question model.Question
		if err := copier.Copy(&question, &qDto); err != nil {
			return nil, fmt.Errorf("error preparing question data: %w", err)
		}
		question.Type = model.QuestionType(qDto.Type)
		if question.Points == 0 {
			question.Points = 1
		}
		quiz.Questions = append(quiz.Questions, question)
	}

	if err := s.quizRepo.Create(ctx, &quiz); err != nil {
		log.Error().Err(err).Msg("Failed to create quiz in database")
		return nil, fmt.Errorf("database error creating quiz: %w", err)
	}
	log.Info().Uint("quizID", quiz.ID).Int("questions", len(quiz.Questions)).Msg("Quiz created")

	created, err := s.quizRepo.FindByIDWithQuestions(ctx, quiz.ID)
	if err != nil {
		log.Error().Err(err).Uint("quizID", quiz.ID).Msg("Failed to retrieve newly created quiz for response")
		return toLearnerQuizDTO(&quiz)
	}
	return toLearnerQuizDTO(created)
}

// validateQuestion checks that the question can be graded at all.
func validateQuestion(q dto.QuestionCreateDTO) error {
	correct := 0
	for _, c := range q.Choices {
		if c.IsCorrect {
			correct++
		}
	}
	switch model.QuestionType(q.Type) {
	case model.QuestionTypeMultipleChoice:
		if len(q.Choices) < 2 {
			return fmt.Errorf("multiple_choice needs at least 2 choices, got %d", len(q.Choices))
		}
		if correct == 0 {
			return errors.New("multiple_choice needs at least one correct choice")
		}
	case model.QuestionTypeTrueFalse:
		if len(q.Choices) != 2 || correct != 1 {
			return errors.New("true_false needs exactly 2 choices with exactly one correct")
		}
	case model.QuestionTypeShortAnswer:
		if correct == 0 {
			return errors.New("short_answer needs at least one correct choice holding an accepted answer")
		}
	case model.QuestionTypeMatching:
		if len(q.Choices) == 0 {
			return errors.New("matching needs at least one choice")
		}
		for _, c := range q.Choices {
			if c.MatchText == nil || *c.MatchText == "" {
				return fmt.Errorf("matching choice %q has no match_text", c.Text)
			}
		}
	default:
		return fmt.Errorf("unknown question type %q", q.Type)
	}
	return nil
}
