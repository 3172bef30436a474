package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/kartia-app/kartia-server/models"
	"github.com/kartia-app/kartia-server/repositories"
	"github.com/kartia-app/kartia-server/storage"
)

const defaultTeamName = "Minha Equipe"

// TeamMember is the roster entry shape returned to clients.
type TeamMember struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

// TeamView is a team with its roster resolved to member summaries.
// Requests is populated only when the viewer owns the team.
type TeamView struct {
	*models.Team
	IconURL  *string      `json:"iconUrl,omitempty"`
	Members  []TeamMember `json:"members"`
	Requests []TeamMember `json:"requests,omitempty"`
}

type TeamService interface {
	Create(ctx context.Context, ownerID int, nome string) (*models.Team, error)
	Get(ctx context.Context, teamID, viewerID int) (*TeamView, error)
	MyTeam(ctx context.Context, userID int) (*TeamView, error)
	List(ctx context.Context, query string) ([]*models.Team, error)
	RequestJoin(ctx context.Context, teamID, userID int) error
	AcceptRequest(ctx context.Context, teamID, ownerID, applicantID int) error
	RejectRequest(ctx context.Context, teamID, ownerID, applicantID int) error
	Leave(ctx context.Context, teamID, userID int) error
	Delete(ctx context.Context, teamID, ownerID int) error
	UploadIcon(ctx context.Context, teamID, ownerID int, contentType string, reader io.Reader) (*models.Team, error)
}

type teamService struct {
	teamRepo repositories.TeamRepository
	userRepo repositories.UserRepository
	uploader storage.FileUploader
	logger   *slog.Logger
}

func NewTeamService(
	teamRepo repositories.TeamRepository,
	userRepo repositories.UserRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TeamService {
	return &teamService{
		teamRepo: teamRepo,
		userRepo: userRepo,
		uploader: uploader,
		logger:   logger,
	}
}

func (s *teamService) Create(ctx context.Context, ownerID int, nome string) (*models.Team, error) {
	nome = strings.TrimSpace(nome)
	if nome == "" {
		nome = defaultTeamName
	}

	if _, err := s.teamRepo.FindForUser(ctx, ownerID); err == nil {
		return nil, ErrAlreadyInTeam
	} else if !errors.Is(err, repositories.ErrTeamNotFound) {
		return nil, fmt.Errorf("failed to check existing team for user %d: %w", ownerID, err)
	}

	team := &models.Team{
		Nome:         nome,
		OwnerID:      ownerID,
		Pilotos:      []int{},
		JoinRequests: []int{},
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamOwnerInvalid) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return team, nil
}

func (s *teamService) Get(ctx context.Context, teamID, viewerID int) (*TeamView, error) {
	team, err := s.getTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, team, viewerID)
}

func (s *teamService) MyTeam(ctx context.Context, userID int) (*TeamView, error) {
	team, err := s.teamRepo.FindForUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team for user %d: %w", userID, err)
	}
	return s.buildView(ctx, team, userID)
}

func (s *teamService) List(ctx context.Context, query string) ([]*models.Team, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return teams, nil
	}

	filtered := make([]*models.Team, 0, len(teams))
	for _, t := range teams {
		if strings.Contains(strings.ToLower(t.Nome), query) {
			filtered = append(filtered, t)
		}
	}
	return filtered, nil
}

func (s *teamService) RequestJoin(ctx context.Context, teamID, userID int) error {
	team, err := s.getTeam(ctx, teamID)
	if err != nil {
		return err
	}

	if team.OwnerID == userID || team.HasPilot(userID) {
		return ErrAlreadyInTeam
	}
	if team.HasJoinRequest(userID) {
		return ErrJoinRequestPending
	}
	if _, err := s.teamRepo.FindForUser(ctx, userID); err == nil {
		return ErrAlreadyInTeam
	} else if !errors.Is(err, repositories.ErrTeamNotFound) {
		return fmt.Errorf("failed to check existing team for user %d: %w", userID, err)
	}

	requests := append(team.JoinRequests, userID)
	if err := s.teamRepo.UpdateRoster(ctx, teamID, team.Pilotos, requests); err != nil {
		return fmt.Errorf("failed to record join request for team %d: %w", teamID, err)
	}
	return nil
}

func (s *teamService) AcceptRequest(ctx context.Context, teamID, ownerID, applicantID int) error {
	team, err := s.getTeam(ctx, teamID)
	if err != nil {
		return err
	}
	if team.OwnerID != ownerID {
		return ErrNotOwner
	}
	if !team.HasJoinRequest(applicantID) {
		return ErrNoJoinRequest
	}

	requests := removeID(team.JoinRequests, applicantID)
	pilotos := team.Pilotos
	if !team.HasPilot(applicantID) {
		pilotos = append(pilotos, applicantID)
	}
	if err := s.teamRepo.UpdateRoster(ctx, teamID, pilotos, requests); err != nil {
		return fmt.Errorf("failed to accept join request for team %d: %w", teamID, err)
	}
	return nil
}

func (s *teamService) RejectRequest(ctx context.Context, teamID, ownerID, applicantID int) error {
	team, err := s.getTeam(ctx, teamID)
	if err != nil {
		return err
	}
	if team.OwnerID != ownerID {
		return ErrNotOwner
	}
	if !team.HasJoinRequest(applicantID) {
		return ErrNoJoinRequest
	}

	requests := removeID(team.JoinRequests, applicantID)
	if err := s.teamRepo.UpdateRoster(ctx, teamID, team.Pilotos, requests); err != nil {
		return fmt.Errorf("failed to reject join request for team %d: %w", teamID, err)
	}
	return nil
}

func (s *teamService) Leave(ctx context.Context, teamID, userID int) error {
	team, err := s.getTeam(ctx, teamID)
	if err != nil {
		return err
	}
	if team.OwnerID == userID {
		return ErrOwnerCannotLeave
	}
	if !team.HasPilot(userID) {
		return ErrNotTeamMember
	}

	pilotos := removeID(team.Pilotos, userID)
	if err := s.teamRepo.UpdateRoster(ctx, teamID, pilotos, team.JoinRequests); err != nil {
		return fmt.Errorf("failed to leave team %d: %w", teamID, err)
	}
	return nil
}

func (s *teamService) Delete(ctx context.Context, teamID, ownerID int) error {
	team, err := s.getTeam(ctx, teamID)
	if err != nil {
		return err
	}
	if team.OwnerID != ownerID {
		return ErrNotOwner
	}

	if err := s.teamRepo.Delete(ctx, teamID); err != nil {
		return fmt.Errorf("failed to delete team %d: %w", teamID, err)
	}

	if team.Icon != "" {
		if err := s.uploader.Delete(ctx, team.Icon); err != nil {
			s.logger.WarnContext(ctx, "failed to delete icon for removed team",
				slog.Int("team_id", teamID), slog.Any("error", err))
		}
	}
	return nil
}

func (s *teamService) UploadIcon(ctx context.Context, teamID, ownerID int, contentType string, reader io.Reader) (*models.Team, error) {
	team, err := s.getTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.OwnerID != ownerID {
		return nil, ErrNotOwner
	}

	ext, err := extensionFromContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	key := fmt.Sprintf("teams/%d/%s%s", teamID, uuid.NewString(), ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, reader); err != nil {
		return nil, fmt.Errorf("failed to upload team icon: %w", err)
	}

	oldKey := team.Icon
	if err := s.teamRepo.UpdateIcon(ctx, teamID, key); err != nil {
		return nil, fmt.Errorf("failed to update icon for team %d: %w", teamID, err)
	}
	team.Icon = key

	if oldKey != "" {
		if err := s.uploader.Delete(ctx, oldKey); err != nil {
			s.logger.WarnContext(ctx, "failed to delete replaced team icon",
				slog.Int("team_id", teamID), slog.Any("error", err))
		}
	}
	return team, nil
}

func (s *teamService) getTeam(ctx context.Context, teamID int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", teamID, err)
	}
	return team, nil
}

func (s *teamService) buildView(ctx context.Context, team *models.Team, viewerID int) (*TeamView, error) {
	ids := make([]int, 0, len(team.Pilotos)+len(team.JoinRequests)+1)
	ids = append(ids, team.OwnerID)
	ids = append(ids, team.Pilotos...)
	if team.OwnerID == viewerID {
		ids = append(ids, team.JoinRequests...)
	}

	users, err := s.userRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load members for team %d: %w", team.ID, err)
	}
	byID := make(map[int]*models.User, len(users))
	for i := range users {
		populateUserAvatarURL(&users[i], s.uploader)
		byID[users[i].ID] = &users[i]
	}

	view := &TeamView{Team: team, Members: []TeamMember{}}
	if team.Icon != "" {
		url := s.uploader.GetPublicURL(team.Icon)
		view.IconURL = &url
	}

	view.Members = append(view.Members, memberFor(team.OwnerID, byID))
	for _, id := range team.Pilotos {
		view.Members = append(view.Members, memberFor(id, byID))
	}
	if team.OwnerID == viewerID {
		view.Requests = make([]TeamMember, 0, len(team.JoinRequests))
		for _, id := range team.JoinRequests {
			view.Requests = append(view.Requests, memberFor(id, byID))
		}
	}
	return view, nil
}

func memberFor(id int, byID map[int]*models.User) TeamMember {
	if u, ok := byID[id]; ok {
		return TeamMember{ID: id, Name: u.DisplayName(), AvatarURL: u.AvatarURL}
	}
	return TeamMember{ID: id, Name: fmt.Sprintf("Piloto %d", id)}
}

func removeID(ids []int, target int) []int {
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}
