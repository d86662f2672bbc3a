package service_test

import (
	"database/sql"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/studyflow/studyflow-backend/internal/model"
	"github.com/studyflow/studyflow-backend/internal/repository"
	"gorm.io/gorm"
)

// In-memory fakes for the repository interfaces. They mimic the gorm
// implementations closely enough for service-level tests: lookups return
// copies, saves assign ids, and the guarded completion update is honored.

type fakeTxRunner struct {
	err error // forced transaction failure
}

func (f *fakeTxRunner) Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error {
	if f.err != nil {
		return f.err
	}
	return fc(nil)
}

type fakeQuizRepo struct {
	quizzes map[uint]*model.Quiz
}

func newFakeQuizRepo() *fakeQuizRepo {
	return &fakeQuizRepo{quizzes: map[uint]*model.Quiz{}}
}

func (f *fakeQuizRepo) add(quiz *model.Quiz) {
	f.quizzes[quiz.ID] = quiz
}

func (f *fakeQuizRepo) FindByID(id uint) (*model.Quiz, error) {
	quiz, ok := f.quizzes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *quiz
	return &copied, nil
}

func (f *fakeQuizRepo) FindByIDWithQuestions(id uint) (*model.Quiz, error) {
	quiz, ok := f.quizzes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *quiz
	copied.Questions = quiz.ActiveQuestions()
	total := 0
	for _, q := range copied.Questions {
		total += q.Points
	}
	copied.TotalPoints = total
	return &copied, nil
}

func (f *fakeQuizRepo) FindAllActiveWithQuestionCount() ([]struct {
	model.Quiz
	QuestionCount int
}, error) {
	var results []struct {
		model.Quiz
		QuestionCount int
	}
	for _, quiz := range f.quizzes {
		if quiz.Status != model.QuizStatusActive {
			continue
		}
		results = append(results, struct {
			model.Quiz
			QuestionCount int
		}{Quiz: *quiz, QuestionCount: len(quiz.ActiveQuestions())})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Quiz.ID < results[j].Quiz.ID })
	return results, nil
}

type fakeAttemptRepo struct {
	nextID   uint
	attempts map[uint]*model.QuizAttempt
}

func newFakeAttemptRepo() *fakeAttemptRepo {
	return &fakeAttemptRepo{nextID: 1, attempts: map[uint]*model.QuizAttempt{}}
}

func (f *fakeAttemptRepo) Create(attempt *model.QuizAttempt) error {
	attempt.ID = f.nextID
	f.nextID++
	copied := *attempt
	f.attempts[attempt.ID] = &copied
	return nil
}

func (f *fakeAttemptRepo) FindByID(id uint) (*model.QuizAttempt, error) {
	attempt, ok := f.attempts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *attempt
	return &copied, nil
}

func (f *fakeAttemptRepo) FindByIDWithAnswers(id uint) (*model.QuizAttempt, error) {
	return f.FindByID(id)
}

func (f *fakeAttemptRepo) FindInProgress(studentID uuid.UUID, quizID uint) (*model.QuizAttempt, error) {
	for _, attempt := range f.attempts {
		if attempt.StudentID == studentID && attempt.QuizID == quizID && attempt.Status == model.AttemptStatusInProgress {
			copied := *attempt
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeAttemptRepo) HasCompleted(studentID uuid.UUID, quizID uint) (bool, error) {
	for _, attempt := range f.attempts {
		if attempt.StudentID == studentID && attempt.QuizID == quizID && attempt.Status == model.AttemptStatusCompleted {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAttemptRepo) FindAllByStudent(studentID uuid.UUID, quizID *uint) ([]model.QuizAttempt, error) {
	var out []model.QuizAttempt
	for _, attempt := range f.attempts {
		if attempt.StudentID != studentID {
			continue
		}
		if quizID != nil && attempt.QuizID != *quizID {
			continue
		}
		out = append(out, *attempt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out, nil
}

func (f *fakeAttemptRepo) CompleteInProgress(tx *gorm.DB, attempt *model.QuizAttempt) (bool, error) {
	stored, ok := f.attempts[attempt.ID]
	if !ok || stored.Status != model.AttemptStatusInProgress {
		return false, nil
	}
	stored.Status = attempt.Status
	stored.Score = attempt.Score
	stored.MaxScore = attempt.MaxScore
	stored.Percentage = attempt.Percentage
	stored.Passed = attempt.Passed
	stored.TimeSpentSeconds = attempt.TimeSpentSeconds
	stored.CompletedAt = attempt.CompletedAt
	return true, nil
}

type fakeAnswerRepo struct {
	nextID  uint
	answers []model.AttemptAnswer
}

func newFakeAnswerRepo() *fakeAnswerRepo {
	return &fakeAnswerRepo{nextID: 1}
}

func (f *fakeAnswerRepo) CreateBatch(tx *gorm.DB, answers []model.AttemptAnswer) error {
	for i := range answers {
		answers[i].ID = f.nextID
		f.nextID++
		f.answers = append(f.answers, answers[i])
	}
	return nil
}

func (f *fakeAnswerRepo) FindByAttemptID(attemptID uint) ([]model.AttemptAnswer, error) {
	var out []model.AttemptAnswer
	for _, ans := range f.answers {
		if ans.AttemptID == attemptID {
			out = append(out, ans)
		}
	}
	return out, nil
}

type bestKey struct {
	student uuid.UUID
	quiz    uint
}

type fakeScoreRepo struct {
	nextID     uint
	bestScores map[bestKey]*model.BestScore
	points     []*model.StudentPoints // creation order, for tie stability
	failSaves  bool                   // simulate a ledger persistence failure
}

func newFakeScoreRepo() *fakeScoreRepo {
	return &fakeScoreRepo{nextID: 1, bestScores: map[bestKey]*model.BestScore{}}
}

func (f *fakeScoreRepo) FindBestScoreForUpdate(tx *gorm.DB, studentID uuid.UUID, quizID uint) (*model.BestScore, error) {
	row, ok := f.bestScores[bestKey{studentID, quizID}]
	if !ok {
		return nil, nil
	}
	copied := *row
	return &copied, nil
}

func (f *fakeScoreRepo) SaveBestScore(tx *gorm.DB, row *model.BestScore) error {
	if f.failSaves {
		return errors.New("forced save failure")
	}
	if row.ID == 0 {
		row.ID = f.nextID
		f.nextID++
	}
	copied := *row
	f.bestScores[bestKey{row.StudentID, row.QuizID}] = &copied
	return nil
}

func (f *fakeScoreRepo) FindStudentPointsForUpdate(tx *gorm.DB, studentID uuid.UUID) (*model.StudentPoints, error) {
	for _, row := range f.points {
		if row.StudentID == studentID {
			copied := *row
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeScoreRepo) SaveStudentPoints(tx *gorm.DB, row *model.StudentPoints) error {
	if f.failSaves {
		return errors.New("forced save failure")
	}
	for i, existing := range f.points {
		if existing.StudentID == row.StudentID {
			copied := *row
			copied.ID = existing.ID
			f.points[i] = &copied
			return nil
		}
	}
	row.ID = f.nextID
	f.nextID++
	copied := *row
	f.points = append(f.points, &copied)
	return nil
}

func (f *fakeScoreRepo) FindBestScoresByStudent(studentID uuid.UUID) ([]model.BestScore, error) {
	var out []model.BestScore
	for _, row := range f.bestScores {
		if row.StudentID == studentID {
			out = append(out, *row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuizID < out[j].QuizID })
	return out, nil
}

func (f *fakeScoreRepo) TopByTotalPoints(limit int) ([]repository.LeaderboardRow, error) {
	rows := make([]repository.LeaderboardRow, 0, len(f.points))
	for _, p := range f.points {
		rows = append(rows, repository.LeaderboardRow{
			StudentID:        p.StudentID,
			TotalPoints:      p.TotalPoints,
			QuizzesCompleted: p.QuizzesCompleted,
			AverageScore:     f.averagePercentage(p.StudentID),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].TotalPoints > rows[j].TotalPoints })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (f *fakeScoreRepo) TopByTotalPointsAmong(studentIDs []uuid.UUID, limit int) ([]repository.LeaderboardRow, error) {
	allowed := map[uuid.UUID]bool{}
	for _, id := range studentIDs {
		allowed[id] = true
	}
	all, _ := f.TopByTotalPoints(len(f.points))
	rows := make([]repository.LeaderboardRow, 0, len(all))
	for _, row := range all {
		if allowed[row.StudentID] {
			rows = append(rows, row)
		}
	}
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (f *fakeScoreRepo) averagePercentage(studentID uuid.UUID) float64 {
	sum, n := 0.0, 0
	for _, row := range f.bestScores {
		if row.StudentID == studentID {
			sum += row.BestPercentage
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// sumBestScores is the ledger invariant check: total_points must equal the sum
// of best_score across the student's quizzes.
func (f *fakeScoreRepo) sumBestScores(studentID uuid.UUID) int {
	total := 0
	for _, row := range f.bestScores {
		if row.StudentID == studentID {
			total += row.BestScore
		}
	}
	return total
}

func (f *fakeScoreRepo) totalPoints(studentID uuid.UUID) int {
	for _, row := range f.points {
		if row.StudentID == studentID {
			return row.TotalPoints
		}
	}
	return 0
}

type fakeEnrollmentRepo struct {
	active map[uuid.UUID][]uuid.UUID
}

func newFakeEnrollmentRepo() *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{active: map[uuid.UUID][]uuid.UUID{}}
}

func (f *fakeEnrollmentRepo) ActiveStudentIDs(classID uuid.UUID) ([]uuid.UUID, error) {
	return f.active[classID], nil
}
