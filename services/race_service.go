package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/kartia-app/kartia-server/models"
	"github.com/kartia-app/kartia-server/repositories"
)

var ErrRaceRecordFailed = errors.New("failed to record race results")

// RaceService applies a finish-order submission to a championship's score
// mapping and to the lifetime race/win counters of every submitted rider.
type RaceService interface {
	RecordRace(ctx context.Context, championshipID, currentUserID int, submission models.RaceSubmission) (models.ScoreMap, error)
}

type raceService struct {
	champRepo repositories.ChampionshipRepository
	userRepo  repositories.UserRepository
	logger    *slog.Logger
}

func NewRaceService(
	champRepo repositories.ChampionshipRepository,
	userRepo repositories.UserRepository,
	logger *slog.Logger,
) RaceService {
	return &raceService{
		champRepo: champRepo,
		userRepo:  userRepo,
		logger:    logger,
	}
}

// RecordRace awards championship points 10, 8, 6, 4, 2, 0, ... to the
// classified finishers in position order and bumps every submitted rider's
// race counter; the winner also gains a win. Duplicate positions are not
// rejected: the sort is stable, so equal positions keep submission order
// and each still takes the next point step.
//
// User counter writes and the final scores write are independent; a
// partial failure is reported but not rolled back.
func (s *raceService) RecordRace(ctx context.Context, championshipID, currentUserID int, submission models.RaceSubmission) (models.ScoreMap, error) {
	champ, err := s.champRepo.GetByID(ctx, championshipID)
	if err != nil {
		if errors.Is(err, repositories.ErrChampionshipNotFound) {
			return nil, ErrChampionshipNotFound
		}
		return nil, fmt.Errorf("failed to get championship %d: %w", championshipID, err)
	}

	if champ.OwnerID != currentUserID {
		return nil, ErrNotOwner
	}

	scores, err := models.DecodeScores(champ.ScoresRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: championship %d: %w", ErrScoresParseFailed, champ.ID, err)
	}

	if err := validateSubmission(champ, submission); err != nil {
		return nil, err
	}

	classified := make([]models.RaceEntry, 0, len(submission))
	for _, entry := range submission {
		if entry.Outcome == models.OutcomeFinished {
			classified = append(classified, entry)
		}
	}
	sort.SliceStable(classified, func(i, j int) bool {
		return classified[i].Position < classified[j].Position
	})

	for i, entry := range classified {
		points := 10 - 2*i
		if points < 0 {
			points = 0
		}
		scores[entry.UserID] += points
	}

	winnerID := 0
	if len(classified) > 0 {
		winnerID = classified[0].UserID
	}

	// Counter updates fan out as independent writes, the same way the
	// client fired them all at once and waited.
	g, gCtx := errgroup.WithContext(ctx)
	for _, entry := range submission {
		userID := entry.UserID
		wins := 0
		if userID == winnerID && len(classified) > 0 && entry.Outcome == models.OutcomeFinished {
			wins = 1
		}
		g.Go(func() error {
			if err := s.userRepo.IncrementStats(gCtx, userID, wins); err != nil {
				return fmt.Errorf("increment stats for user %d: %w", userID, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.ErrorContext(ctx, "race counter update failed",
			slog.Int("championship_id", champ.ID),
			slog.Any("error", err))
		return nil, fmt.Errorf("%w: %w", ErrRaceRecordFailed, err)
	}

	scoresRaw, err := scores.Encode()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRaceRecordFailed, err)
	}
	if err := s.champRepo.UpdateScores(ctx, champ.ID, scoresRaw); err != nil {
		s.logger.ErrorContext(ctx, "score mapping update failed after counters were written",
			slog.Int("championship_id", champ.ID),
			slog.Any("error", err))
		return nil, fmt.Errorf("%w: %w", ErrRaceRecordFailed, err)
	}

	s.logger.InfoContext(ctx, "race recorded",
		slog.Int("championship_id", champ.ID),
		slog.Int("classified", len(classified)),
		slog.Int("submitted", len(submission)))

	return scores, nil
}

func validateSubmission(champ *models.Championship, submission models.RaceSubmission) error {
	for _, entry := range submission {
		if !champ.IsParticipant(entry.UserID) {
			return fmt.Errorf("%w: user %d", ErrResultUnknownPlayer, entry.UserID)
		}
		switch entry.Outcome {
		case models.OutcomeFinished:
			if entry.Position < 1 {
				return fmt.Errorf("%w: user %d has position %d", ErrResultPositionInvalid, entry.UserID, entry.Position)
			}
		case models.OutcomeDidNotRace, models.OutcomeDidNotFinish:
			// no position required
		default:
			return fmt.Errorf("%w: %q", ErrResultOutcomeInvalid, entry.Outcome)
		}
	}
	return nil
}
