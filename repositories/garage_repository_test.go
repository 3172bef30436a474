package repositories

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/kartia-app/kartia-server/models"
)

type GarageRepositorySuite struct {
	suite.Suite
	mini *miniredis.Miniredis
	repo GarageRepository
	ctx  context.Context
}

func TestGarageRepositorySuite(t *testing.T) {
	suite.Run(t, new(GarageRepositorySuite))
}

func (s *GarageRepositorySuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.repo = NewRedisGarageRepository(client)
	s.ctx = context.Background()
}

func (s *GarageRepositorySuite) TearDownTest() {
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *GarageRepositorySuite) TestNotesEmptyByDefault() {
	notes, err := s.repo.GetNotes(s.ctx, 1)
	s.Require().NoError(err)
	s.NotNil(notes)
	s.Empty(notes)
}

func (s *GarageRepositorySuite) TestSaveAndGetNotes() {
	err := s.repo.SaveNotes(s.ctx, 1, []string{"trocar pneus", "ajustar banco"})
	s.Require().NoError(err)

	notes, err := s.repo.GetNotes(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal([]string{"trocar pneus", "ajustar banco"}, notes)
}

func (s *GarageRepositorySuite) TestNotesAreScopedPerUser() {
	s.Require().NoError(s.repo.SaveNotes(s.ctx, 1, []string{"minha nota"}))

	notes, err := s.repo.GetNotes(s.ctx, 2)
	s.Require().NoError(err)
	s.Empty(notes)
}

func (s *GarageRepositorySuite) TestSaveAndGetLaps() {
	laps := []models.LapTime{
		{ID: "lap-1", Ms: 92500, Label: "01:32.500", CreatedAt: 1700000000000},
		{ID: "lap-2", Ms: 91200, Label: "01:31.200", CreatedAt: 1700000100000},
	}
	s.Require().NoError(s.repo.SaveLaps(s.ctx, 1, laps))

	got, err := s.repo.GetLaps(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(laps, got)
}

func (s *GarageRepositorySuite) TestSaveAndGetVideos() {
	videos := []models.Video{
		{ID: "vid-1", Key: "garage/videos/1/a.mp4", CreatedAt: 1700000000000},
	}
	s.Require().NoError(s.repo.SaveVideos(s.ctx, 1, videos))

	got, err := s.repo.GetVideos(s.ctx, 1)
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal("garage/videos/1/a.mp4", got[0].Key)
}

func (s *GarageRepositorySuite) TestDeleteAll() {
	s.Require().NoError(s.repo.SaveNotes(s.ctx, 1, []string{"nota"}))
	s.Require().NoError(s.repo.SaveLaps(s.ctx, 1, []models.LapTime{{ID: "lap-1", Ms: 92500}}))
	s.Require().NoError(s.repo.SaveVideos(s.ctx, 1, []models.Video{{ID: "vid-1", Key: "k"}}))

	s.Require().NoError(s.repo.DeleteAll(s.ctx, 1))

	notes, err := s.repo.GetNotes(s.ctx, 1)
	s.Require().NoError(err)
	s.Empty(notes)

	laps, err := s.repo.GetLaps(s.ctx, 1)
	s.Require().NoError(err)
	s.Empty(laps)

	videos, err := s.repo.GetVideos(s.ctx, 1)
	s.Require().NoError(err)
	s.Empty(videos)
}
