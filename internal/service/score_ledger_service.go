package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/studyflow/studyflow-backend/internal/model"
	"github.com/studyflow/studyflow-backend/internal/repository"
	"gorm.io/gorm"
)

// LedgerResult reports how one graded attempt changed the aggregates.
// PointsDifference is the net improvement credited to the lifetime total:
// the full score on a first completion, score minus previous best on a new
// high score, zero otherwise.
type LedgerResult struct {
	IsNewHighScore   bool
	IsNewQuiz        bool
	PointsDifference int
	TotalPoints      int
}

// ScoreLedgerService folds completed attempts into the per-(student, quiz)
// best score and the per-student lifetime total. The fold is difference-based,
// so repeated and non-improving attempts never double-count: after every call,
// total_points equals the sum of best_score over the student's quizzes.
type ScoreLedgerService interface {
	// ApplyAttempt must run inside the caller's transaction; both aggregate
	// rows are read locked so concurrent submissions serialize per student.
	ApplyAttempt(tx *gorm.DB, studentID uuid.UUID, quizID uint, score int, percentage float64, attemptedAt time.Time) (*LedgerResult, error)
}

type scoreLedgerService struct {
	scoreRepo repository.ScoreRepository
}

func NewScoreLedgerService(scoreRepo repository.ScoreRepository) ScoreLedgerService {
	return &scoreLedgerService{scoreRepo: scoreRepo}
}

func (s *scoreLedgerService) ApplyAttempt(tx *gorm.DB, studentID uuid.UUID, quizID uint, score int, percentage float64, attemptedAt time.Time) (*LedgerResult, error) {
	result := &LedgerResult{}

	best, err := s.scoreRepo.FindBestScoreForUpdate(tx, studentID, quizID)
	if err != nil {
		return nil, fmt.Errorf("%w: reading best score: %v", ErrLedgerUpdateFailed, err)
	}

	switch {
	case best == nil:
		// First completed attempt on this quiz: full score is new credit.
		result.IsNewHighScore = true
		result.IsNewQuiz = true
		result.PointsDifference = score
		best = &model.BestScore{
			StudentID:      studentID,
			QuizID:         quizID,
			BestScore:      score,
			BestPercentage: percentage,
			AttemptsCount:  1,
			LastAttemptAt:  attemptedAt,
		}
	case score > best.BestScore:
		result.IsNewHighScore = true
		result.PointsDifference = score - best.BestScore
		best.BestScore = score
		best.BestPercentage = percentage
		best.AttemptsCount++
		best.LastAttemptAt = attemptedAt
	default:
		// Still counts toward activity, contributes no new points.
		best.AttemptsCount++
		best.LastAttemptAt = attemptedAt
	}

	if err := s.scoreRepo.SaveBestScore(tx, best); err != nil {
		return nil, fmt.Errorf("%w: saving best score: %v", ErrLedgerUpdateFailed, err)
	}

	points, err := s.scoreRepo.FindStudentPointsForUpdate(tx, studentID)
	if err != nil {
		return nil, fmt.Errorf("%w: reading student points: %v", ErrLedgerUpdateFailed, err)
	}
	if points == nil {
		points = &model.StudentPoints{
			StudentID:        studentID,
			TotalPoints:      result.PointsDifference,
			QuizzesCompleted: 1,
			LastQuizAt:       attemptedAt,
		}
	} else {
		points.TotalPoints += result.PointsDifference
		if result.IsNewQuiz {
			// A quiz is counted once, on its first completion.
			points.QuizzesCompleted++
		}
		points.LastQuizAt = attemptedAt
	}
	if err := s.scoreRepo.SaveStudentPoints(tx, points); err != nil {
		return nil, fmt.Errorf("%w: saving student points: %v", ErrLedgerUpdateFailed, err)
	}

	result.TotalPoints = points.TotalPoints
	log.Debug().
		Str("student_id", studentID.String()).
		Uint("quiz_id", quizID).
		Bool("new_high_score", result.IsNewHighScore).
		Int("points_difference", result.PointsDifference).
		Int("total_points", result.TotalPoints).
		Msg("score ledger applied")

	return result, nil
}
