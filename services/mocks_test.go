package services

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/kartia-app/kartia-server/models"
	"github.com/kartia-app/kartia-server/storage"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepositoryMock) GetByID(ctx context.Context, id int) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepositoryMock) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepositoryMock) GetByPasswordResetToken(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepositoryMock) ListByIDs(ctx context.Context, ids []int) ([]models.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *UserRepositoryMock) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepositoryMock) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *UserRepositoryMock) IncrementStats(ctx context.Context, id int, wins int) error {
	args := m.Called(ctx, id, wins)
	return args.Error(0)
}

func (m *UserRepositoryMock) SetPasswordResetToken(ctx context.Context, id int, token string, expiresAt time.Time) error {
	args := m.Called(ctx, id, token, expiresAt)
	return args.Error(0)
}

func (m *UserRepositoryMock) ClearExpiredResetTokens(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type ChampionshipRepositoryMock struct {
	mock.Mock
}

func (m *ChampionshipRepositoryMock) Create(ctx context.Context, champ *models.Championship) error {
	args := m.Called(ctx, champ)
	return args.Error(0)
}

func (m *ChampionshipRepositoryMock) GetByID(ctx context.Context, id int) (*models.Championship, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Championship), args.Error(1)
}

func (m *ChampionshipRepositoryMock) GetByCode(ctx context.Context, code string) (*models.Championship, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Championship), args.Error(1)
}

func (m *ChampionshipRepositoryMock) List(ctx context.Context) ([]*models.Championship, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Championship), args.Error(1)
}

func (m *ChampionshipRepositoryMock) UpdateMembers(ctx context.Context, id int, players []int, scoresRaw string) error {
	args := m.Called(ctx, id, players, scoresRaw)
	return args.Error(0)
}

func (m *ChampionshipRepositoryMock) UpdateScores(ctx context.Context, id int, scoresRaw string) error {
	args := m.Called(ctx, id, scoresRaw)
	return args.Error(0)
}

func (m *ChampionshipRepositoryMock) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type TeamRepositoryMock struct {
	mock.Mock
}

func (m *TeamRepositoryMock) Create(ctx context.Context, team *models.Team) error {
	args := m.Called(ctx, team)
	return args.Error(0)
}

func (m *TeamRepositoryMock) GetByID(ctx context.Context, id int) (*models.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *TeamRepositoryMock) List(ctx context.Context) ([]*models.Team, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Team), args.Error(1)
}

func (m *TeamRepositoryMock) FindForUser(ctx context.Context, userID int) (*models.Team, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *TeamRepositoryMock) UpdateRoster(ctx context.Context, id int, pilotos, joinRequests []int) error {
	args := m.Called(ctx, id, pilotos, joinRequests)
	return args.Error(0)
}

func (m *TeamRepositoryMock) UpdateIcon(ctx context.Context, id int, icon string) error {
	args := m.Called(ctx, id, icon)
	return args.Error(0)
}

func (m *TeamRepositoryMock) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type GarageRepositoryMock struct {
	mock.Mock
}

func (m *GarageRepositoryMock) GetNotes(ctx context.Context, userID int) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *GarageRepositoryMock) SaveNotes(ctx context.Context, userID int, notes []string) error {
	args := m.Called(ctx, userID, notes)
	return args.Error(0)
}

func (m *GarageRepositoryMock) GetLaps(ctx context.Context, userID int) ([]models.LapTime, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LapTime), args.Error(1)
}

func (m *GarageRepositoryMock) SaveLaps(ctx context.Context, userID int, laps []models.LapTime) error {
	args := m.Called(ctx, userID, laps)
	return args.Error(0)
}

func (m *GarageRepositoryMock) GetVideos(ctx context.Context, userID int) ([]models.Video, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Video), args.Error(1)
}

func (m *GarageRepositoryMock) SaveVideos(ctx context.Context, userID int, videos []models.Video) error {
	args := m.Called(ctx, userID, videos)
	return args.Error(0)
}

func (m *GarageRepositoryMock) DeleteAll(ctx context.Context, userID int) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type FileUploaderMock struct {
	mock.Mock
}

func (m *FileUploaderMock) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	args := m.Called(ctx, key, contentType, reader)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.UploadResult), args.Error(1)
}

func (m *FileUploaderMock) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *FileUploaderMock) GetPublicURL(key string) string {
	args := m.Called(key)
	return args.String(0)
}
