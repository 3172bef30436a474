package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kartia-app/kartia-server/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func raceChampionship() *models.Championship {
	return &models.Championship{
		ID:        7,
		OwnerID:   1,
		Players:   []int{1, 2, 3, 4, 5, 6},
		ScoresRaw: `{"1":0,"2":0,"3":0,"4":0,"5":0,"6":0}`,
	}
}

func TestRecordRacePointTable(t *testing.T) {
	champRepo := new(ChampionshipRepositoryMock)
	userRepo := new(UserRepositoryMock)
	svc := NewRaceService(champRepo, userRepo, discardLogger())

	champRepo.On("GetByID", mock.Anything, 7).Return(raceChampionship(), nil).Once()
	userRepo.On("IncrementStats", mock.Anything, 1, 1).Return(nil).Once()
	for _, id := range []int{2, 3, 4, 5, 6} {
		userRepo.On("IncrementStats", mock.Anything, id, 0).Return(nil).Once()
	}
	champRepo.On("UpdateScores", mock.Anything, 7,
		`{"1":10,"2":8,"3":6,"4":4,"5":2,"6":0}`).Return(nil).Once()

	submission := models.RaceSubmission{
		{UserID: 1, Outcome: models.OutcomeFinished, Position: 1},
		{UserID: 2, Outcome: models.OutcomeFinished, Position: 2},
		{UserID: 3, Outcome: models.OutcomeFinished, Position: 3},
		{UserID: 4, Outcome: models.OutcomeFinished, Position: 4},
		{UserID: 5, Outcome: models.OutcomeFinished, Position: 5},
		{UserID: 6, Outcome: models.OutcomeFinished, Position: 6},
	}

	scores, err := svc.RecordRace(context.Background(), 7, 1, submission)
	require.NoError(t, err)

	assert.Equal(t, models.ScoreMap{1: 10, 2: 8, 3: 6, 4: 4, 5: 2, 6: 0}, scores)
	champRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

func TestRecordRaceNonFinishersGetNoPoints(t *testing.T) {
	champRepo := new(ChampionshipRepositoryMock)
	userRepo := new(UserRepositoryMock)
	svc := NewRaceService(champRepo, userRepo, discardLogger())

	champ := &models.Championship{
		ID:        7,
		OwnerID:   1,
		Players:   []int{1, 2, 3},
		ScoresRaw: `{"1":4,"2":0,"3":0}`,
	}
	champRepo.On("GetByID", mock.Anything, 7).Return(champ, nil).Once()
	userRepo.On("IncrementStats", mock.Anything, 2, 1).Return(nil).Once()
	userRepo.On("IncrementStats", mock.Anything, 1, 0).Return(nil).Once()
	userRepo.On("IncrementStats", mock.Anything, 3, 0).Return(nil).Once()
	champRepo.On("UpdateScores", mock.Anything, 7, `{"1":4,"2":10,"3":0}`).Return(nil).Once()

	submission := models.RaceSubmission{
		{UserID: 1, Outcome: models.OutcomeDidNotFinish},
		{UserID: 2, Outcome: models.OutcomeFinished, Position: 1},
		{UserID: 3, Outcome: models.OutcomeDidNotRace},
	}

	scores, err := svc.RecordRace(context.Background(), 7, 1, submission)
	require.NoError(t, err)

	// Riders who did not finish keep their points but still gain a race.
	assert.Equal(t, models.ScoreMap{1: 4, 2: 10, 3: 0}, scores)
	userRepo.AssertExpectations(t)
}

func TestRecordRaceDuplicatePositionsKeepSubmissionOrder(t *testing.T) {
	champRepo := new(ChampionshipRepositoryMock)
	userRepo := new(UserRepositoryMock)
	svc := NewRaceService(champRepo, userRepo, discardLogger())

	champ := &models.Championship{
		ID:        7,
		OwnerID:   1,
		Players:   []int{1, 2, 3},
		ScoresRaw: `{"1":0,"2":0,"3":0}`,
	}
	champRepo.On("GetByID", mock.Anything, 7).Return(champ, nil).Once()
	userRepo.On("IncrementStats", mock.Anything, 2, 1).Return(nil).Once()
	userRepo.On("IncrementStats", mock.Anything, 1, 0).Return(nil).Once()
	userRepo.On("IncrementStats", mock.Anything, 3, 0).Return(nil).Once()
	// Both riders on P1: the first submitted takes 10, the second 8.
	champRepo.On("UpdateScores", mock.Anything, 7, `{"1":0,"2":10,"3":8}`).Return(nil).Once()

	submission := models.RaceSubmission{
		{UserID: 2, Outcome: models.OutcomeFinished, Position: 1},
		{UserID: 3, Outcome: models.OutcomeFinished, Position: 1},
		{UserID: 1, Outcome: models.OutcomeDidNotRace},
	}

	scores, err := svc.RecordRace(context.Background(), 7, 1, submission)
	require.NoError(t, err)
	assert.Equal(t, models.ScoreMap{1: 0, 2: 10, 3: 8}, scores)
}

func TestRecordRaceNotOwner(t *testing.T) {
	champRepo := new(ChampionshipRepositoryMock)
	userRepo := new(UserRepositoryMock)
	svc := NewRaceService(champRepo, userRepo, discardLogger())

	champRepo.On("GetByID", mock.Anything, 7).Return(raceChampionship(), nil).Once()

	_, err := svc.RecordRace(context.Background(), 7, 2, models.RaceSubmission{
		{UserID: 2, Outcome: models.OutcomeFinished, Position: 1},
	})
	assert.ErrorIs(t, err, ErrNotOwner)
	userRepo.AssertNotCalled(t, "IncrementStats", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordRaceUnknownPlayer(t *testing.T) {
	champRepo := new(ChampionshipRepositoryMock)
	userRepo := new(UserRepositoryMock)
	svc := NewRaceService(champRepo, userRepo, discardLogger())

	champRepo.On("GetByID", mock.Anything, 7).Return(raceChampionship(), nil).Once()

	_, err := svc.RecordRace(context.Background(), 7, 1, models.RaceSubmission{
		{UserID: 99, Outcome: models.OutcomeFinished, Position: 1},
	})
	assert.ErrorIs(t, err, ErrResultUnknownPlayer)
	userRepo.AssertNotCalled(t, "IncrementStats", mock.Anything, mock.Anything, mock.Anything)
	champRepo.AssertNotCalled(t, "UpdateScores", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordRaceInvalidPosition(t *testing.T) {
	champRepo := new(ChampionshipRepositoryMock)
	svc := NewRaceService(champRepo, new(UserRepositoryMock), discardLogger())

	champRepo.On("GetByID", mock.Anything, 7).Return(raceChampionship(), nil).Once()

	_, err := svc.RecordRace(context.Background(), 7, 1, models.RaceSubmission{
		{UserID: 2, Outcome: models.OutcomeFinished, Position: 0},
	})
	assert.ErrorIs(t, err, ErrResultPositionInvalid)
}

func TestRecordRaceInvalidOutcome(t *testing.T) {
	champRepo := new(ChampionshipRepositoryMock)
	svc := NewRaceService(champRepo, new(UserRepositoryMock), discardLogger())

	champRepo.On("GetByID", mock.Anything, 7).Return(raceChampionship(), nil).Once()

	_, err := svc.RecordRace(context.Background(), 7, 1, models.RaceSubmission{
		{UserID: 2, Outcome: "teleported"},
	})
	assert.ErrorIs(t, err, ErrResultOutcomeInvalid)
}

func TestRecordRaceCounterFailureSkipsScoreWrite(t *testing.T) {
	champRepo := new(ChampionshipRepositoryMock)
	userRepo := new(UserRepositoryMock)
	svc := NewRaceService(champRepo, userRepo, discardLogger())

	champ := &models.Championship{
		ID:        7,
		OwnerID:   1,
		Players:   []int{1, 2},
		ScoresRaw: `{"1":0,"2":0}`,
	}
	champRepo.On("GetByID", mock.Anything, 7).Return(champ, nil).Once()
	userRepo.On("IncrementStats", mock.Anything, 2, 1).Return(errors.New("connection reset"))
	userRepo.On("IncrementStats", mock.Anything, 1, 0).Return(nil).Maybe()

	_, err := svc.RecordRace(context.Background(), 7, 1, models.RaceSubmission{
		{UserID: 2, Outcome: models.OutcomeFinished, Position: 1},
		{UserID: 1, Outcome: models.OutcomeDidNotRace},
	})
	assert.ErrorIs(t, err, ErrRaceRecordFailed)
	champRepo.AssertNotCalled(t, "UpdateScores", mock.Anything, mock.Anything, mock.Anything)
}
