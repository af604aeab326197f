package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Learnhub/internal/dto"
	"github.com/lshigami/Learnhub/internal/model"
	"github.com/lshigami/Learnhub/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// QuizAttemptService runs a learner's attempt from start to graded submission.
type QuizAttemptService interface {
	StartAttempt(ctx context.Context, quizID, learnerID uint) (*dto.AttemptDTO, bool, error)
	SubmitAttempt(ctx context.Context, attemptID, learnerID uint, req dto.AttemptSubmitDTO) (*dto.AttemptDTO, error)
	GetAttempt(ctx context.Context, attemptID, learnerID uint) (*dto.AttemptDTO, error)
	ListMyAttempts(ctx context.Context, quizID, learnerID uint) ([]dto.AttemptSummaryDTO, error)
	ListAttemptsForQuiz(ctx context.Context, quizID, instructorID uint, asAdmin bool) ([]dto.AttemptSummaryDTO, error)
}

type quizAttemptService struct {
	quizRepo     repository.QuizRepository
	attemptRepo  repository.QuizAttemptRepository
	responseRepo repository.QuestionResponseRepository
	feedback     FeedbackService
	scoreCalc    ScoreCalculatorService
	db           *gorm.DB

	starts singleflight.Group
	now    func() time.Time
}

func NewQuizAttemptService(
	quizRepo repository.QuizRepository,
	attemptRepo repository.QuizAttemptRepository,
	responseRepo repository.QuestionResponseRepository,
	feedback FeedbackService,
	scoreCalc ScoreCalculatorService,
	db *gorm.DB,
) QuizAttemptService {
	return &quizAttemptService{
		quizRepo:     quizRepo,
		attemptRepo:  attemptRepo,
		responseRepo: responseRepo,
		feedback:     feedback,
		scoreCalc:    scoreCalc,
		db:           db,
		now:          time.Now,
	}
}

type startResult struct {
	attempt *model.QuizAttempt
	created bool
	claimed atomic.Bool
}

// StartAttempt returns the learner's open attempt, or creates one. The bool
// reports whether a new attempt was created.
func (s *quizAttemptService) StartAttempt(ctx context.Context, quizID, learnerID uint) (*dto.AttemptDTO, bool, error) {
	key := fmt.Sprintf("%d:%d", quizID, learnerID)
	// Collapsed callers share this run, so one caller going away must not cancel it for the rest.
	shared := context.WithoutCancel(ctx)
	v, err, _ := s.starts.Do(key, func() (interface{}, error) {
		return s.startAttempt(shared, quizID, learnerID)
	})
	if err != nil {
		return nil, false, err
	}
	res := v.(*startResult)
	// Callers collapsed onto one creation share the row; only one reports it as new.
	created := res.created && res.claimed.CompareAndSwap(false, true)

	attemptDTO, err := toAttemptDTO(res.attempt)
	if err != nil {
		return nil, false, err
	}
	return attemptDTO, created, nil
}

func (s *quizAttemptService) startAttempt(ctx context.Context, quizID, learnerID uint) (*startResult, error) {
	var res *startResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		quiz, err := s.quizRepo.WithTx(tx).FindByID(ctx, quizID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load quiz %d: %w", quizID, err)
		}

		attempts := s.attemptRepo.WithTx(tx)
		if quiz.MaxAttempts > 0 {
			count, err := attempts.CountByQuizAndLearner(ctx, quizID, learnerID)
			if err != nil {
				return fmt.Errorf("failed to count attempts: %w", err)
			}
			if count >= int64(quiz.MaxAttempts) {
				return ErrAttemptLimitExceeded
			}
		}

		open, err := attempts.FindOpen(ctx, quizID, learnerID)
		if err == nil {
			res = &startResult{attempt: open}
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up open attempt: %w", err)
		}

		attempt := &model.QuizAttempt{
			QuizID:    quizID,
			LearnerID: learnerID,
			StartedAt: s.now(),
		}
		if err := attempts.Create(ctx, attempt); err != nil {
			return err
		}
		res = &startResult{attempt: attempt, created: true}
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Another process opened the attempt between our lookup and insert.
		open, findErr := s.attemptRepo.FindOpen(ctx, quizID, learnerID)
		if findErr != nil {
			return nil, fmt.Errorf("failed to load concurrently started attempt: %w", findErr)
		}
		return &startResult{attempt: open}, nil
	}
	if err != nil {
		if !isBusinessError(err) {
			log.Error().Err(err).Uint("quizID", quizID).Uint("learnerID", learnerID).Msg("StartAttempt failed")
		}
		return nil, err
	}
	if res.created {
		log.Info().Uint("attemptID", res.attempt.ID).Uint("quizID", quizID).Uint("learnerID", learnerID).Msg("Quiz attempt started")
	}
	return res, nil
}

// SubmitAttempt grades the submitted responses and completes the attempt.
// Responses and the finalize update commit together.
func (s *quizAttemptService) SubmitAttempt(ctx context.Context, attemptID, learnerID uint, req dto.AttemptSubmitDTO) (*dto.AttemptDTO, error) {
	var questionsByID map[uint]*model.Question
	var graded []model.QuestionResponse

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		attempt, err := s.attemptRepo.WithTx(tx).FindByIDForUpdate(ctx, attemptID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load attempt %d: %w", attemptID, err)
		}
		if attempt.LearnerID != learnerID {
			return ErrForbidden
		}
		if attempt.IsCompleted() {
			return ErrAlreadySubmitted
		}

		quizzes := s.quizRepo.WithTx(tx)
		quiz, err := quizzes.FindByID(ctx, attempt.QuizID)
		if err != nil {
			return fmt.Errorf("failed to load quiz %d: %w", attempt.QuizID, err)
		}
		questions, err := quizzes.FindQuestionsByQuiz(ctx, quiz.ID)
		if err != nil {
			return fmt.Errorf("failed to load questions of quiz %d: %w", quiz.ID, err)
		}
		questionsByID = make(map[uint]*model.Question, len(questions))
		for i := range questions {
			questionsByID[questions[i].ID] = &questions[i]
		}

		var earned, total int64
		processed := make(map[uint]struct{}, len(req.Responses))
		responses := s.responseRepo.WithTx(tx)
		for _, item := range req.Responses {
			question, ok := questionsByID[item.Question]
			if !ok {
				log.Warn().Uint("questionID", item.Question).Uint("attemptID", attemptID).Msg("SubmitAttempt: question is not part of this quiz, skipping")
				continue
			}
			if _, dup := processed[question.ID]; dup {
				log.Warn().Uint("questionID", question.ID).Uint("attemptID", attemptID).Msg("SubmitAttempt: question answered twice, keeping the first response")
				continue
			}
			processed[question.ID] = struct{}{}
			total += int64(question.Points)

			matches := toMatchPairs(item.Matches)
			response := model.QuestionResponse{
				AttemptID:       attempt.ID,
				QuestionID:      question.ID,
				SelectedChoices: validChoices(question, item.SelectedChoices),
				TextResponse:    item.TextResponse,
				MatchPairs:      matches,
				IsCorrect:       GradeResponse(question, item.SelectedChoices, item.TextResponse, matches),
			}
			if response.IsCorrect {
				response.PointsEarned = float64(question.Points)
				earned += int64(question.Points)
			}
			if err := responses.Create(ctx, &response); err != nil {
				return fmt.Errorf("failed to save response for question %d: %w", question.ID, err)
			}
			graded = append(graded, response)
		}

		completedAt := s.now()
		timeSpent := int(completedAt.Sub(attempt.StartedAt) / time.Second)
		if timeSpent < 0 {
			timeSpent = 0
		}
		attempt.CompletedAt = &completedAt
		attempt.TimeSpent = timeSpent
		attempt.Score = s.scoreCalc.ToPercentage(earned, total)
		attempt.Passed = s.scoreCalc.IsPassing(attempt.Score, quiz.PassPercentage)

		ok, err := s.attemptRepo.WithTx(tx).Finalize(ctx, attempt)
		if err != nil {
			return fmt.Errorf("failed to finalize attempt: %w", err)
		}
		if !ok {
			return ErrAlreadySubmitted
		}
		log.Info().
			Uint("attemptID", attempt.ID).
			Int64("earned", earned).
			Int64("total", total).
			Float64("score", attempt.Score).
			Bool("passed", attempt.Passed).
			Msg("Quiz attempt submitted")
		return nil
	})
	if err != nil {
		if !isBusinessError(err) {
			log.Error().Err(err).Uint("attemptID", attemptID).Msg("SubmitAttempt failed")
		}
		return nil, err
	}

	s.generateFeedback(ctx, questionsByID, graded)

	attempt, err := s.attemptRepo.FindByIDWithResponses(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload attempt %d: %w", attemptID, err)
	}
	return toAttemptDTO(attempt)
}

// generateFeedback asks the model about each incorrect short answer in
// parallel. Failures only cost the learner the explanation.
func (s *quizAttemptService) generateFeedback(ctx context.Context, questionsByID map[uint]*model.Question, graded []model.QuestionResponse) {
	if s.feedback == nil || !s.feedback.Enabled() {
		return
	}
	var wg sync.WaitGroup
	for _, r := range graded {
		question := questionsByID[r.QuestionID]
		if r.IsCorrect || question.Type != model.QuestionTypeShortAnswer {
			continue
		}
		var accepted []string
		for _, c := range question.Choices {
			if c.IsCorrect {
				accepted = append(accepted, c.Text)
			}
		}

		wg.Add(1)
		go func(responseID uint, question *model.Question, answer string) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Error().Interface("panic", r).Uint("responseID", responseID).Msg("Short answer feedback panicked")
				}
			}()
			text, err := s.feedback.ShortAnswerFeedback(ctx, question, accepted, answer)
			if err != nil {
				log.Warn().Err(err).Uint("responseID", responseID).Msg("Short answer feedback unavailable")
				return
			}
			if err := s.responseRepo.UpdateFeedback(ctx, responseID, text); err != nil {
				log.Error().Err(err).Uint("responseID", responseID).Msg("Failed to store short answer feedback")
			}
		}(r.ID, question, r.TextResponse)
	}
	wg.Wait()
}

func (s *quizAttemptService) GetAttempt(ctx context.Context, attemptID, learnerID uint) (*dto.AttemptDTO, error) {
	attempt, err := s.attemptRepo.FindByIDWithResponses(ctx, attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if attempt.LearnerID != learnerID {
		return nil, ErrForbidden
	}
	return toAttemptDTO(attempt)
}

func (s *quizAttemptService) ListMyAttempts(ctx context.Context, quizID, learnerID uint) ([]dto.AttemptSummaryDTO, error) {
	if _, err := s.quizRepo.FindByID(ctx, quizID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	attempts, err := s.attemptRepo.FindAllByQuizAndLearner(ctx, quizID, learnerID)
	if err != nil {
		return nil, err
	}
	return toAttemptSummaries(attempts)
}

// ListAttemptsForQuiz lists every learner's attempts on the quiz, newest first.
// Instructors see only quizzes that back a lesson in one of their courses;
// admins see any quiz.
func (s *quizAttemptService) ListAttemptsForQuiz(ctx context.Context, quizID, instructorID uint, asAdmin bool) ([]dto.AttemptSummaryDTO, error) {
	if _, err := s.quizRepo.FindByID(ctx, quizID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !asAdmin {
		owned, err := s.quizRepo.IsOwnedBy(ctx, quizID, instructorID)
		if err != nil {
			return nil, fmt.Errorf("failed to check quiz ownership: %w", err)
		}
		if !owned {
			return nil, ErrForbidden
		}
	}
	attempts, err := s.attemptRepo.FindAllByQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	return toAttemptSummaries(attempts)
}

func toAttemptSummaries(attempts []model.QuizAttempt) ([]dto.AttemptSummaryDTO, error) {
	summaries := make([]dto.AttemptSummaryDTO, 0, len(attempts))
	if err := copier.Copy(&summaries, &attempts); err != nil {
		return nil, fmt.Errorf("failed to map attempts: %w", err)
	}
	return summaries, nil
}

// validChoices keeps the submitted ids that belong to question, once each.
func validChoices(question *model.Question, ids []uint) []model.Choice {
	byID := make(map[uint]model.Choice, len(question.Choices))
	for _, c := range question.Choices {
		byID[c.ID] = c
	}
	var picked []model.Choice
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		c, ok := byID[id]
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		picked = append(picked, c)
	}
	return picked
}

func toMatchPairs(in []dto.MatchPairDTO) []model.MatchPair {
	if len(in) == 0 {
		return nil
	}
	out := make([]model.MatchPair, len(in))
	for i, m := range in {
		out[i] = model.MatchPair{ChoiceID: m.ChoiceID, MatchText: m.MatchText}
	}
	return out
}

func toAttemptDTO(attempt *model.QuizAttempt) (*dto.AttemptDTO, error) {
	shallow := *attempt
	shallow.Responses = nil
	var out dto.AttemptDTO
	if err := copier.Copy(&out, &shallow); err != nil {
		return nil, fmt.Errorf("failed to map attempt: %w", err)
	}
	out.Responses = make([]dto.QuestionResponseDTO, 0, len(attempt.Responses))
	for _, r := range attempt.Responses {
		item := dto.QuestionResponseDTO{
			ID:              r.ID,
			QuestionID:      r.QuestionID,
			SelectedChoices: make([]uint, 0, len(r.SelectedChoices)),
			TextResponse:    r.TextResponse,
			IsCorrect:       r.IsCorrect,
			PointsEarned:    r.PointsEarned,
			Feedback:        r.Feedback,
		}
		for _, c := range r.SelectedChoices {
			item.SelectedChoices = append(item.SelectedChoices, c.ID)
		}
		for _, m := range r.MatchPairs {
			item.Matches = append(item.Matches, dto.MatchPairDTO{ChoiceID: m.ChoiceID, MatchText: m.MatchText})
		}
		out.Responses = append(out.Responses, item)
	}
	return &out, nil
}

func isBusinessError(err error) bool {
	for _, target := range []error{
		ErrNotFound, ErrForbidden, ErrAlreadySubmitted, ErrAttemptLimitExceeded,
		ErrNotEnrolled, ErrAlreadyEnrolled, ErrValidation,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
