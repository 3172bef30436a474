package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kartia-app/kartia-server/models"
	"github.com/kartia-app/kartia-server/repositories"
	"github.com/kartia-app/kartia-server/storage"
)

// Lap times are entered as a run of digits read as MMSSmmm, so the
// longest valid entry is seven digits.
const maxLapDigits = 7

type GarageService interface {
	ListNotes(ctx context.Context, userID int) ([]string, error)
	AddNote(ctx context.Context, userID int, text string) ([]string, error)
	RemoveNote(ctx context.Context, userID, index int) ([]string, error)

	ListLaps(ctx context.Context, userID int) ([]models.LapTime, error)
	AddLap(ctx context.Context, userID int, digits string) (*models.LapTime, error)
	RemoveLap(ctx context.Context, userID int, lapID string) error
	BestLap(ctx context.Context, userID int) (*models.LapTime, error)

	ListVideos(ctx context.Context, userID int) ([]models.Video, error)
	UploadVideo(ctx context.Context, userID int, contentType string, reader io.Reader) (*models.Video, error)
	RemoveVideo(ctx context.Context, userID int, videoID string) error
}

type garageService struct {
	garageRepo repositories.GarageRepository
	uploader   storage.FileUploader
	logger     *slog.Logger
}

func NewGarageService(garageRepo repositories.GarageRepository, uploader storage.FileUploader, logger *slog.Logger) GarageService {
	return &garageService{
		garageRepo: garageRepo,
		uploader:   uploader,
		logger:     logger,
	}
}

func (s *garageService) ListNotes(ctx context.Context, userID int) ([]string, error) {
	notes, err := s.garageRepo.GetNotes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get notes for user %d: %w", userID, err)
	}
	return notes, nil
}

func (s *garageService) AddNote(ctx context.Context, userID int, text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrNoteEmpty
	}

	notes, err := s.garageRepo.GetNotes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get notes for user %d: %w", userID, err)
	}

	notes = append(notes, text)
	if err := s.garageRepo.SaveNotes(ctx, userID, notes); err != nil {
		return nil, fmt.Errorf("failed to save notes for user %d: %w", userID, err)
	}
	return notes, nil
}

func (s *garageService) RemoveNote(ctx context.Context, userID, index int) ([]string, error) {
	notes, err := s.garageRepo.GetNotes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get notes for user %d: %w", userID, err)
	}
	if index < 0 || index >= len(notes) {
		return nil, ErrNoteIndexOutOfRange
	}

	notes = append(notes[:index], notes[index+1:]...)
	if err := s.garageRepo.SaveNotes(ctx, userID, notes); err != nil {
		return nil, fmt.Errorf("failed to save notes for user %d: %w", userID, err)
	}
	return notes, nil
}

func (s *garageService) ListLaps(ctx context.Context, userID int) ([]models.LapTime, error) {
	laps, err := s.garageRepo.GetLaps(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lap times for user %d: %w", userID, err)
	}
	return laps, nil
}

func (s *garageService) AddLap(ctx context.Context, userID int, digits string) (*models.LapTime, error) {
	ms, err := ParseLapDigits(digits)
	if err != nil {
		return nil, err
	}

	laps, err := s.garageRepo.GetLaps(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lap times for user %d: %w", userID, err)
	}

	lap := models.LapTime{
		ID:        uuid.NewString(),
		Ms:        ms,
		Label:     FormatLapMillis(ms),
		CreatedAt: time.Now().UnixMilli(),
	}
	laps = append(laps, lap)
	if err := s.garageRepo.SaveLaps(ctx, userID, laps); err != nil {
		return nil, fmt.Errorf("failed to save lap times for user %d: %w", userID, err)
	}
	return &lap, nil
}

func (s *garageService) RemoveLap(ctx context.Context, userID int, lapID string) error {
	laps, err := s.garageRepo.GetLaps(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get lap times for user %d: %w", userID, err)
	}

	kept := make([]models.LapTime, 0, len(laps))
	found := false
	for _, lap := range laps {
		if lap.ID == lapID {
			found = true
			continue
		}
		kept = append(kept, lap)
	}
	if !found {
		return ErrLapNotFound
	}

	if err := s.garageRepo.SaveLaps(ctx, userID, kept); err != nil {
		return fmt.Errorf("failed to save lap times for user %d: %w", userID, err)
	}
	return nil
}

func (s *garageService) BestLap(ctx context.Context, userID int) (*models.LapTime, error) {
	laps, err := s.garageRepo.GetLaps(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lap times for user %d: %w", userID, err)
	}
	if len(laps) == 0 {
		return nil, ErrLapNotFound
	}

	sort.SliceStable(laps, func(i, j int) bool { return laps[i].Ms < laps[j].Ms })
	best := laps[0]
	return &best, nil
}

func (s *garageService) ListVideos(ctx context.Context, userID int) ([]models.Video, error) {
	videos, err := s.garageRepo.GetVideos(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get videos for user %d: %w", userID, err)
	}
	for i := range videos {
		videos[i].URL = s.uploader.GetPublicURL(videos[i].Key)
	}
	return videos, nil
}

func (s *garageService) UploadVideo(ctx context.Context, userID int, contentType string, reader io.Reader) (*models.Video, error) {
	ext, err := extensionFromContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	key := fmt.Sprintf("garage/videos/%d/%s%s", userID, uuid.NewString(), ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, reader); err != nil {
		return nil, fmt.Errorf("failed to upload video: %w", err)
	}

	videos, err := s.garageRepo.GetVideos(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get videos for user %d: %w", userID, err)
	}

	video := models.Video{
		ID:        uuid.NewString(),
		Key:       key,
		URL:       s.uploader.GetPublicURL(key),
		CreatedAt: time.Now().UnixMilli(),
	}
	videos = append(videos, video)
	if err := s.garageRepo.SaveVideos(ctx, userID, videos); err != nil {
		return nil, fmt.Errorf("failed to save videos for user %d: %w", userID, err)
	}
	return &video, nil
}

func (s *garageService) RemoveVideo(ctx context.Context, userID int, videoID string) error {
	videos, err := s.garageRepo.GetVideos(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get videos for user %d: %w", userID, err)
	}

	kept := make([]models.Video, 0, len(videos))
	var removed *models.Video
	for i := range videos {
		if videos[i].ID == videoID {
			removed = &videos[i]
			continue
		}
		kept = append(kept, videos[i])
	}
	if removed == nil {
		return ErrVideoNotFound
	}

	if err := s.garageRepo.SaveVideos(ctx, userID, kept); err != nil {
		return fmt.Errorf("failed to save videos for user %d: %w", userID, err)
	}

	if removed.Key != "" {
		if err := s.uploader.Delete(ctx, removed.Key); err != nil {
			s.logger.WarnContext(ctx, "failed to delete removed video object",
				slog.Int("user_id", userID), slog.Any("error", err))
		}
	}
	return nil
}

// ParseLapDigits converts a raw lap entry into milliseconds. Anything
// that is not a digit is stripped first, then the remaining run is read
// right-aligned as MMSSmmm: "132500" means 1:32.500.
func ParseLapDigits(raw string) (int, error) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	d := digits.String()
	if d == "" || len(d) > maxLapDigits {
		return 0, ErrLapTimeInvalid
	}
	d = strings.Repeat("0", maxLapDigits-len(d)) + d

	minutes := int(d[0]-'0')*10 + int(d[1]-'0')
	seconds := int(d[2]-'0')*10 + int(d[3]-'0')
	millis := int(d[4]-'0')*100 + int(d[5]-'0')*10 + int(d[6]-'0')
	if seconds > 59 {
		return 0, ErrLapTimeInvalid
	}

	total := minutes*60000 + seconds*1000 + millis
	if total == 0 {
		return 0, ErrLapTimeInvalid
	}
	return total, nil
}

// FormatLapMillis renders milliseconds as MM:SS.mmm.
func FormatLapMillis(ms int) string {
	minutes := ms / 60000
	seconds := (ms % 60000) / 1000
	millis := ms % 1000
	return fmt.Sprintf("%02d:%02d.%03d", minutes, seconds, millis)
}
