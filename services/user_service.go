package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kartia-app/kartia-server/models"
	"github.com/kartia-app/kartia-server/repositories"
	"github.com/kartia-app/kartia-server/storage"
)

// ProfileView is a user plus the age derived from birthdate (or the
// legacy idade field for accounts that predate birthdate).
type ProfileView struct {
	*models.User
	Age *int `json:"age,omitempty"`
}

type UpdateProfileInput struct {
	Nome      *string `json:"nome,omitempty"`
	Apelido   *string `json:"apelido,omitempty"`
	Birthdate *string `json:"birthdate,omitempty"`
}

type UserService interface {
	Profile(ctx context.Context, id int) (*ProfileView, error)
	Update(ctx context.Context, id int, input UpdateProfileInput) (*models.User, error)
	Delete(ctx context.Context, id int) error
	UploadAvatar(ctx context.Context, userID int, contentType string, reader io.Reader) (*models.User, error)
}

type userService struct {
	userRepo   repositories.UserRepository
	garageRepo repositories.GarageRepository
	uploader   storage.FileUploader
	logger     *slog.Logger
}

func NewUserService(
	userRepo repositories.UserRepository,
	garageRepo repositories.GarageRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) UserService {
	return &userService{
		userRepo:   userRepo,
		garageRepo: garageRepo,
		uploader:   uploader,
		logger:     logger,
	}
}

func (s *userService) Profile(ctx context.Context, id int) (*ProfileView, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}

	user.PasswordHash = ""
	populateUserAvatarURL(user, s.uploader)

	return &ProfileView{
		User: user,
		Age:  AgeOf(user, time.Now()),
	}, nil
}

func (s *userService) Update(ctx context.Context, id int, input UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}

	if input.Nome != nil {
		if *input.Nome == "" {
			return nil, fmt.Errorf("%w: nome cannot be empty", ErrValidationFailed)
		}
		user.Nome = *input.Nome
	}
	if input.Apelido != nil {
		user.Apelido = input.Apelido
	}
	if input.Birthdate != nil {
		if _, err := time.Parse("02/01/2006", *input.Birthdate); err != nil {
			return nil, fmt.Errorf("%w: birthdate must be DD/MM/YYYY", ErrValidationFailed)
		}
		user.Birthdate = input.Birthdate
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user %d: %w", id, err)
	}

	user.PasswordHash = ""
	populateUserAvatarURL(user, s.uploader)
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id int) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user %d: %w", id, err)
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}

	// Best-effort cleanup: the account row is already gone, so failures
	// here are logged, not surfaced.
	if err := s.garageRepo.DeleteAll(ctx, id); err != nil {
		s.logger.WarnContext(ctx, "failed to delete garage data for removed user",
			slog.Int("user_id", id), slog.Any("error", err))
	}
	if user.AvatarKey != nil && *user.AvatarKey != "" {
		if err := s.uploader.Delete(ctx, *user.AvatarKey); err != nil {
			s.logger.WarnContext(ctx, "failed to delete avatar for removed user",
				slog.Int("user_id", id), slog.Any("error", err))
		}
	}

	return nil
}

func (s *userService) UploadAvatar(ctx context.Context, userID int, contentType string, reader io.Reader) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}

	ext, err := extensionFromContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	key := fmt.Sprintf("avatars/%d/%s%s", userID, uuid.NewString(), ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, reader); err != nil {
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}

	oldKey := user.AvatarKey
	user.AvatarKey = &key
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user %d: %w", userID, err)
	}

	if oldKey != nil && *oldKey != "" {
		if err := s.uploader.Delete(ctx, *oldKey); err != nil {
			s.logger.WarnContext(ctx, "failed to delete replaced avatar",
				slog.Int("user_id", userID), slog.Any("error", err))
		}
	}

	user.PasswordHash = ""
	populateUserAvatarURL(user, s.uploader)
	return user, nil
}

// AgeOf derives the age in full years from the DD/MM/YYYY birthdate,
// falling back to the legacy stored idade when no birthdate is set.
// Returns nil when neither is available or the birthdate does not parse.
func AgeOf(user *models.User, now time.Time) *int {
	if user.Birthdate != nil && *user.Birthdate != "" {
		born, err := time.Parse("02/01/2006", *user.Birthdate)
		if err != nil {
			return user.Idade
		}
		age := now.Year() - born.Year()
		if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
			age--
		}
		return &age
	}
	return user.Idade
}
