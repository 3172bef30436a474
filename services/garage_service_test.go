package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kartia-app/kartia-server/models"
)

func TestParseLapDigits(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "full entry", input: "0132500", want: 92500},
		{name: "short entry pads left", input: "32500", want: 32500},
		{name: "formatted input", input: "01:32.500", want: 92500},
		{name: "millis only", input: "500", want: 500},
		{name: "empty", input: "", wantErr: true},
		{name: "no digits", input: "ab:cd", wantErr: true},
		{name: "too long", input: "12345678", wantErr: true},
		{name: "seconds over 59", input: "0199000", wantErr: true},
		{name: "zero time", input: "0000000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLapDigits(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrLapTimeInvalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatLapMillis(t *testing.T) {
	assert.Equal(t, "01:32.500", FormatLapMillis(92500))
	assert.Equal(t, "00:00.500", FormatLapMillis(500))
	assert.Equal(t, "10:00.000", FormatLapMillis(600000))
}

func TestAddNote(t *testing.T) {
	garageRepo := new(GarageRepositoryMock)
	svc := NewGarageService(garageRepo, new(FileUploaderMock), discardLogger())

	garageRepo.On("GetNotes", mock.Anything, 5).Return([]string{"trocar pneus"}, nil).Once()
	garageRepo.On("SaveNotes", mock.Anything, 5, []string{"trocar pneus", "ajustar banco"}).
		Return(nil).Once()

	notes, err := svc.AddNote(context.Background(), 5, "  ajustar banco  ")
	require.NoError(t, err)
	assert.Equal(t, []string{"trocar pneus", "ajustar banco"}, notes)
	garageRepo.AssertExpectations(t)
}

func TestAddNoteEmpty(t *testing.T) {
	garageRepo := new(GarageRepositoryMock)
	svc := NewGarageService(garageRepo, new(FileUploaderMock), discardLogger())

	_, err := svc.AddNote(context.Background(), 5, "   ")
	assert.ErrorIs(t, err, ErrNoteEmpty)
	garageRepo.AssertNotCalled(t, "SaveNotes", mock.Anything, mock.Anything, mock.Anything)
}

func TestRemoveNote(t *testing.T) {
	garageRepo := new(GarageRepositoryMock)
	svc := NewGarageService(garageRepo, new(FileUploaderMock), discardLogger())

	garageRepo.On("GetNotes", mock.Anything, 5).Return([]string{"a", "b", "c"}, nil).Once()
	garageRepo.On("SaveNotes", mock.Anything, 5, []string{"a", "c"}).Return(nil).Once()

	notes, err := svc.RemoveNote(context.Background(), 5, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, notes)
}

func TestRemoveNoteOutOfRange(t *testing.T) {
	garageRepo := new(GarageRepositoryMock)
	svc := NewGarageService(garageRepo, new(FileUploaderMock), discardLogger())

	garageRepo.On("GetNotes", mock.Anything, 5).Return([]string{"a"}, nil).Once()

	_, err := svc.RemoveNote(context.Background(), 5, 3)
	assert.ErrorIs(t, err, ErrNoteIndexOutOfRange)
	garageRepo.AssertNotCalled(t, "SaveNotes", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddLap(t *testing.T) {
	garageRepo := new(GarageRepositoryMock)
	svc := NewGarageService(garageRepo, new(FileUploaderMock), discardLogger())

	garageRepo.On("GetLaps", mock.Anything, 5).Return([]models.LapTime{}, nil).Once()
	garageRepo.On("SaveLaps", mock.Anything, 5, mock.AnythingOfType("[]models.LapTime")).
		Return(nil).Once()

	lap, err := svc.AddLap(context.Background(), 5, "132500")
	require.NoError(t, err)

	assert.NotEmpty(t, lap.ID)
	assert.Equal(t, 92500, lap.Ms)
	assert.Equal(t, "01:32.500", lap.Label)
	garageRepo.AssertExpectations(t)
}

func TestRemoveLapNotFound(t *testing.T) {
	garageRepo := new(GarageRepositoryMock)
	svc := NewGarageService(garageRepo, new(FileUploaderMock), discardLogger())

	garageRepo.On("GetLaps", mock.Anything, 5).Return([]models.LapTime{
		{ID: "lap-1", Ms: 92500},
	}, nil).Once()

	err := svc.RemoveLap(context.Background(), 5, "lap-2")
	assert.ErrorIs(t, err, ErrLapNotFound)
	garageRepo.AssertNotCalled(t, "SaveLaps", mock.Anything, mock.Anything, mock.Anything)
}

func TestBestLap(t *testing.T) {
	garageRepo := new(GarageRepositoryMock)
	svc := NewGarageService(garageRepo, new(FileUploaderMock), discardLogger())

	garageRepo.On("GetLaps", mock.Anything, 5).Return([]models.LapTime{
		{ID: "lap-1", Ms: 95000},
		{ID: "lap-2", Ms: 91200},
		{ID: "lap-3", Ms: 99999},
	}, nil).Once()

	best, err := svc.BestLap(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "lap-2", best.ID)
}

func TestBestLapEmpty(t *testing.T) {
	garageRepo := new(GarageRepositoryMock)
	svc := NewGarageService(garageRepo, new(FileUploaderMock), discardLogger())

	garageRepo.On("GetLaps", mock.Anything, 5).Return([]models.LapTime{}, nil).Once()

	_, err := svc.BestLap(context.Background(), 5)
	assert.ErrorIs(t, err, ErrLapNotFound)
}

func TestRemoveVideoDeletesObject(t *testing.T) {
	garageRepo := new(GarageRepositoryMock)
	uploader := new(FileUploaderMock)
	svc := NewGarageService(garageRepo, uploader, discardLogger())

	garageRepo.On("GetVideos", mock.Anything, 5).Return([]models.Video{
		{ID: "vid-1", Key: "garage/videos/5/a.mp4"},
		{ID: "vid-2", Key: "garage/videos/5/b.mp4"},
	}, nil).Once()
	garageRepo.On("SaveVideos", mock.Anything, 5, mock.MatchedBy(func(videos []models.Video) bool {
		return len(videos) == 1 && videos[0].ID == "vid-2"
	})).Return(nil).Once()
	uploader.On("Delete", mock.Anything, "garage/videos/5/a.mp4").Return(nil).Once()

	err := svc.RemoveVideo(context.Background(), 5, "vid-1")
	require.NoError(t, err)
	uploader.AssertExpectations(t)
}

func TestRemoveVideoNotFound(t *testing.T) {
	garageRepo := new(GarageRepositoryMock)
	uploader := new(FileUploaderMock)
	svc := NewGarageService(garageRepo, uploader, discardLogger())

	garageRepo.On("GetVideos", mock.Anything, 5).Return([]models.Video{}, nil).Once()

	err := svc.RemoveVideo(context.Background(), 5, "vid-9")
	assert.ErrorIs(t, err, ErrVideoNotFound)
	uploader.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
