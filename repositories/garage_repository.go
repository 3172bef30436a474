package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/kartia-app/kartia-server/models"
)

// Key prefix for all garage data
const garageKeyPrefix = "kartia:garage"

func garageNotesKey(userID int) string {
	return fmt.Sprintf("%s:notes:%d", garageKeyPrefix, userID)
}

func garageLapsKey(userID int) string {
	return fmt.Sprintf("%s:laps:%d", garageKeyPrefix, userID)
}

func garageVideosKey(userID int) string {
	return fmt.Sprintf("%s:videos:%d", garageKeyPrefix, userID)
}

// GarageRepository stores the per-user personal sections (notes, lap
// times, video gallery). Each section is one document per user, mirroring
// the single-key layout the mobile client kept on-device.
type GarageRepository interface {
	GetNotes(ctx context.Context, userID int) ([]string, error)
	SaveNotes(ctx context.Context, userID int, notes []string) error

	GetLaps(ctx context.Context, userID int) ([]models.LapTime, error)
	SaveLaps(ctx context.Context, userID int, laps []models.LapTime) error

	GetVideos(ctx context.Context, userID int) ([]models.Video, error)
	SaveVideos(ctx context.Context, userID int, videos []models.Video) error

	// DeleteAll removes every garage section for the user. Used on
	// account deletion.
	DeleteAll(ctx context.Context, userID int) error
}

type redisGarageRepository struct {
	client *redis.Client
}

func NewRedisGarageRepository(client *redis.Client) GarageRepository {
	return &redisGarageRepository{client: client}
}

func (r *redisGarageRepository) GetNotes(ctx context.Context, userID int) ([]string, error) {
	var notes []string
	if err := r.getJSON(ctx, garageNotesKey(userID), &notes); err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []string{}
	}
	return notes, nil
}

func (r *redisGarageRepository) SaveNotes(ctx context.Context, userID int, notes []string) error {
	return r.setJSON(ctx, garageNotesKey(userID), notes)
}

func (r *redisGarageRepository) GetLaps(ctx context.Context, userID int) ([]models.LapTime, error) {
	var laps []models.LapTime
	if err := r.getJSON(ctx, garageLapsKey(userID), &laps); err != nil {
		return nil, err
	}
	if laps == nil {
		laps = []models.LapTime{}
	}
	return laps, nil
}

func (r *redisGarageRepository) SaveLaps(ctx context.Context, userID int, laps []models.LapTime) error {
	return r.setJSON(ctx, garageLapsKey(userID), laps)
}

func (r *redisGarageRepository) GetVideos(ctx context.Context, userID int) ([]models.Video, error) {
	var videos []models.Video
	if err := r.getJSON(ctx, garageVideosKey(userID), &videos); err != nil {
		return nil, err
	}
	if videos == nil {
		videos = []models.Video{}
	}
	return videos, nil
}

func (r *redisGarageRepository) SaveVideos(ctx context.Context, userID int, videos []models.Video) error {
	return r.setJSON(ctx, garageVideosKey(userID), videos)
}

func (r *redisGarageRepository) DeleteAll(ctx context.Context, userID int) error {
	return r.client.Del(ctx,
		garageNotesKey(userID),
		garageLapsKey(userID),
		garageVideosKey(userID),
	).Err()
}

func (r *redisGarageRepository) getJSON(ctx context.Context, key string, dst interface{}) error {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, dst)
}

func (r *redisGarageRepository) setJSON(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, 0).Err()
}
