package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/studyflow/studyflow-backend/internal/cache"
	"github.com/studyflow/studyflow-backend/internal/dto"
	"github.com/studyflow/studyflow-backend/internal/repository"
)

const DefaultLeaderboardLimit = 10

// LeaderboardService ranks students by lifetime points. Ranks are 1-based;
// ties keep the store's insertion order. The global board is served through a
// short-TTL cache when redis is configured.
type LeaderboardService interface {
	GlobalLeaderboard(ctx context.Context, limit int) ([]dto.LeaderboardEntryDTO, error)
	ClassLeaderboard(ctx context.Context, classID uuid.UUID, limit int) ([]dto.LeaderboardEntryDTO, error)
}

type leaderboardService struct {
	scoreRepo      repository.ScoreRepository
	enrollmentRepo repository.EnrollmentRepository
	boards         *cache.LeaderboardCache
}

func NewLeaderboardService(
	scoreRepo repository.ScoreRepository,
	enrollmentRepo repository.EnrollmentRepository,
	boards *cache.LeaderboardCache,
) LeaderboardService {
	return &leaderboardService{
		scoreRepo:      scoreRepo,
		enrollmentRepo: enrollmentRepo,
		boards:         boards,
	}
}

func (s *leaderboardService) GlobalLeaderboard(ctx context.Context, limit int) ([]dto.LeaderboardEntryDTO, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}

	key := fmt.Sprintf("leaderboard:global:%d", limit)
	if entries, ok := s.boards.Get(ctx, key); ok {
		return entries, nil
	}

	rows, err := s.scoreRepo.TopByTotalPoints(limit)
	if err != nil {
		log.Error().Err(err).Msg("GlobalLeaderboard: failed to read projection")
		return nil, fmt.Errorf("reading leaderboard: %w", err)
	}
	entries := rankRows(rows)
	s.boards.Set(ctx, key, entries)
	return entries, nil
}

func (s *leaderboardService) ClassLeaderboard(ctx context.Context, classID uuid.UUID, limit int) ([]dto.LeaderboardEntryDTO, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}

	studentIDs, err := s.enrollmentRepo.ActiveStudentIDs(classID)
	if err != nil {
		return nil, fmt.Errorf("reading class roster: %w", err)
	}
	// A class with no active students has an empty board, not an error.
	if len(studentIDs) == 0 {
		return []dto.LeaderboardEntryDTO{}, nil
	}

	rows, err := s.scoreRepo.TopByTotalPointsAmong(studentIDs, limit)
	if err != nil {
		log.Error().Err(err).Str("classID", classID.String()).Msg("ClassLeaderboard: failed to read projection")
		return nil, fmt.Errorf("reading class leaderboard: %w", err)
	}
	return rankRows(rows), nil
}

func rankRows(rows []repository.LeaderboardRow) []dto.LeaderboardEntryDTO {
	entries := make([]dto.LeaderboardEntryDTO, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, dto.LeaderboardEntryDTO{
			Rank:             i + 1,
			StudentID:        row.StudentID,
			TotalPoints:      row.TotalPoints,
			QuizzesCompleted: row.QuizzesCompleted,
			AverageScore:     row.AverageScore,
		})
	}
	return entries
}
