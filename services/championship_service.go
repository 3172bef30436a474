package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/kartia-app/kartia-server/models"
	"github.com/kartia-app/kartia-server/repositories"
)

const (
	inviteCodeLength   = 6
	inviteCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeMaxAttempts    = 3
)

var ErrCodeGeneration = errors.New("failed to generate unique championship code")

type ChampionshipService interface {
	Create(ctx context.Context, name string, ownerID int) (*models.Championship, error)
	JoinByCode(ctx context.Context, code string, userID int) (*models.Championship, error)
	Leave(ctx context.Context, championshipID, userID int) error
	Delete(ctx context.Context, championshipID, userID int) error
	ListForUser(ctx context.Context, userID int) ([]*models.Championship, error)
	Get(ctx context.Context, championshipID int) (*models.Championship, error)
	Standings(ctx context.Context, championshipID int) ([]models.Standing, error)
}

type championshipService struct {
	champRepo repositories.ChampionshipRepository
	userRepo  repositories.UserRepository
}

func NewChampionshipService(
	champRepo repositories.ChampionshipRepository,
	userRepo repositories.UserRepository,
) ChampionshipService {
	return &championshipService{
		champRepo: champRepo,
		userRepo:  userRepo,
	}
}

// GenerateCode produces an invite code of the given length drawn uniformly
// from A-Z0-9. Pure generation; uniqueness is the caller's concern.
func GenerateCode(length int) string {
	randomBytes := make([]byte, length)
	if _, err := rand.Read(randomBytes); err != nil {
		panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
	}
	b := make([]byte, length)
	for i, rb := range randomBytes {
		b[i] = inviteCodeAlphabet[int(rb)%len(inviteCodeAlphabet)]
	}
	return string(b)
}

func (s *championshipService) Create(ctx context.Context, name string, ownerID int) (*models.Championship, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrChampionshipNameRequired
	}

	scoresRaw, err := models.ScoreMap{ownerID: 0}.Encode()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrChampionshipCreateFailed, err)
	}

	// The code column is unique; regenerate on conflict.
	for attempt := 0; attempt < codeMaxAttempts; attempt++ {
		champ := &models.Championship{
			Nome:      name,
			OwnerID:   ownerID,
			Code:      GenerateCode(inviteCodeLength),
			Players:   []int{ownerID},
			ScoresRaw: scoresRaw,
		}

		err = s.champRepo.Create(ctx, champ)
		if err == nil {
			champ.Scores = models.ScoreMap{ownerID: 0}
			return champ, nil
		}
		if !errors.Is(err, repositories.ErrChampionshipCodeConflict) {
			return nil, fmt.Errorf("%w: %w", ErrChampionshipCreateFailed, err)
		}
	}

	return nil, fmt.Errorf("%w after %d attempts", ErrCodeGeneration, codeMaxAttempts)
}

func (s *championshipService) JoinByCode(ctx context.Context, code string, userID int) (*models.Championship, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	champ, err := s.champRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repositories.ErrChampionshipNotFound) {
			return nil, ErrChampionshipNotFound
		}
		return nil, fmt.Errorf("failed to look up championship by code: %w", err)
	}

	scores, err := models.DecodeScores(champ.ScoresRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: championship %d: %w", ErrScoresParseFailed, champ.ID, err)
	}

	// Joining twice is a no-op.
	if champ.IsParticipant(userID) {
		champ.Scores = scores
		return champ, nil
	}

	champ.Players = append(champ.Players, userID)
	scores[userID] = 0

	scoresRaw, err := scores.Encode()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrChampionshipJoinFailed, err)
	}
	if err := s.champRepo.UpdateMembers(ctx, champ.ID, champ.Players, scoresRaw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrChampionshipJoinFailed, err)
	}

	champ.ScoresRaw = scoresRaw
	champ.Scores = scores
	return champ, nil
}

func (s *championshipService) Leave(ctx context.Context, championshipID, userID int) error {
	champ, err := s.champRepo.GetByID(ctx, championshipID)
	if err != nil {
		if errors.Is(err, repositories.ErrChampionshipNotFound) {
			return ErrChampionshipNotFound
		}
		return fmt.Errorf("failed to get championship %d: %w", championshipID, err)
	}

	if champ.OwnerID == userID {
		return ErrOwnerCannotLeave
	}

	scores, err := models.DecodeScores(champ.ScoresRaw)
	if err != nil {
		return fmt.Errorf("%w: championship %d: %w", ErrScoresParseFailed, champ.ID, err)
	}

	players := make([]int, 0, len(champ.Players))
	for _, id := range champ.Players {
		if id != userID {
			players = append(players, id)
		}
	}
	delete(scores, userID)

	scoresRaw, err := scores.Encode()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrChampionshipLeaveFailed, err)
	}
	if err := s.champRepo.UpdateMembers(ctx, champ.ID, players, scoresRaw); err != nil {
		return fmt.Errorf("%w: %w", ErrChampionshipLeaveFailed, err)
	}
	return nil
}

func (s *championshipService) Delete(ctx context.Context, championshipID, userID int) error {
	champ, err := s.champRepo.GetByID(ctx, championshipID)
	if err != nil {
		if errors.Is(err, repositories.ErrChampionshipNotFound) {
			return ErrChampionshipNotFound
		}
		return fmt.Errorf("failed to get championship %d: %w", championshipID, err)
	}

	if champ.OwnerID != userID {
		return ErrNotOwner
	}

	if err := s.champRepo.Delete(ctx, championshipID); err != nil {
		if errors.Is(err, repositories.ErrChampionshipNotFound) {
			return ErrChampionshipNotFound
		}
		return fmt.Errorf("%w: %w", ErrChampionshipDeleteFailed, err)
	}
	return nil
}

// ListForUser fetches every championship and filters to those the user
// owns or appears in via the score mapping. No store-side filter is
// applied.
func (s *championshipService) ListForUser(ctx context.Context, userID int) ([]*models.Championship, error) {
	all, err := s.champRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list championships: %w", err)
	}

	mine := make([]*models.Championship, 0)
	for _, champ := range all {
		scores, err := models.DecodeScores(champ.ScoresRaw)
		if err != nil {
			return nil, fmt.Errorf("%w: championship %d: %w", ErrScoresParseFailed, champ.ID, err)
		}
		if _, member := scores[userID]; member || champ.OwnerID == userID {
			champ.Scores = scores
			mine = append(mine, champ)
		}
	}
	return mine, nil
}

func (s *championshipService) Get(ctx context.Context, championshipID int) (*models.Championship, error) {
	champ, err := s.champRepo.GetByID(ctx, championshipID)
	if err != nil {
		if errors.Is(err, repositories.ErrChampionshipNotFound) {
			return nil, ErrChampionshipNotFound
		}
		return nil, fmt.Errorf("failed to get championship %d: %w", championshipID, err)
	}

	scores, err := models.DecodeScores(champ.ScoresRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: championship %d: %w", ErrScoresParseFailed, champ.ID, err)
	}
	champ.Scores = scores
	return champ, nil
}

func (s *championshipService) Standings(ctx context.Context, championshipID int) ([]models.Standing, error) {
	champ, err := s.Get(ctx, championshipID)
	if err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(champ.Scores))
	for id := range champ.Scores {
		ids = append(ids, id)
	}

	names := make(map[int]string, len(ids))
	if len(ids) > 0 {
		users, err := s.userRepo.ListByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to load participant names: %w", err)
		}
		for i := range users {
			names[users[i].ID] = users[i].DisplayName()
		}
	}

	return BuildStandings(champ.Scores, names), nil
}

// BuildStandings derives the ranked table from a score mapping: descending
// by points, ties kept in ascending user-id order, rank is the 1-based
// position in the result.
func BuildStandings(scores models.ScoreMap, names map[int]string) []models.Standing {
	ids := make([]int, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	sort.SliceStable(ids, func(i, j int) bool {
		return scores[ids[i]] > scores[ids[j]]
	})

	standings := make([]models.Standing, len(ids))
	for i, id := range ids {
		name, ok := names[id]
		if !ok || name == "" {
			name = fmt.Sprintf("Piloto %d", id)
		}
		standings[i] = models.Standing{
			Rank:   i + 1,
			UserID: id,
			Name:   name,
			Points: scores[id],
		}
	}
	return standings
}
