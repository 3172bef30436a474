package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kartia-app/kartia-server/models"
	"github.com/kartia-app/kartia-server/repositories"
)

func TestCreateTeamDefaultName(t *testing.T) {
	teamRepo := new(TeamRepositoryMock)
	svc := NewTeamService(teamRepo, new(UserRepositoryMock), new(FileUploaderMock), discardLogger())

	teamRepo.On("FindForUser", mock.Anything, 3).Return(nil, repositories.ErrTeamNotFound).Once()
	teamRepo.On("Create", mock.Anything, mock.MatchedBy(func(team *models.Team) bool {
		return team.Nome == "Minha Equipe" && team.OwnerID == 3 && len(team.Pilotos) == 0
	})).Return(nil).Once()

	team, err := svc.Create(context.Background(), 3, "   ")
	require.NoError(t, err)
	assert.Equal(t, "Minha Equipe", team.Nome)
	teamRepo.AssertExpectations(t)
}

func TestCreateTeamWhileInAnother(t *testing.T) {
	teamRepo := new(TeamRepositoryMock)
	svc := NewTeamService(teamRepo, new(UserRepositoryMock), new(FileUploaderMock), discardLogger())

	teamRepo.On("FindForUser", mock.Anything, 3).Return(&models.Team{ID: 9}, nil).Once()

	_, err := svc.Create(context.Background(), 3, "Equipe Azul")
	assert.ErrorIs(t, err, ErrAlreadyInTeam)
	teamRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRequestJoin(t *testing.T) {
	teamRepo := new(TeamRepositoryMock)
	svc := NewTeamService(teamRepo, new(UserRepositoryMock), new(FileUploaderMock), discardLogger())

	teamRepo.On("GetByID", mock.Anything, 9).Return(&models.Team{
		ID:           9,
		OwnerID:      1,
		Pilotos:      []int{2},
		JoinRequests: []int{},
	}, nil).Once()
	teamRepo.On("FindForUser", mock.Anything, 5).Return(nil, repositories.ErrTeamNotFound).Once()
	teamRepo.On("UpdateRoster", mock.Anything, 9, []int{2}, []int{5}).Return(nil).Once()

	err := svc.RequestJoin(context.Background(), 9, 5)
	require.NoError(t, err)
	teamRepo.AssertExpectations(t)
}

func TestRequestJoinAlreadyPending(t *testing.T) {
	teamRepo := new(TeamRepositoryMock)
	svc := NewTeamService(teamRepo, new(UserRepositoryMock), new(FileUploaderMock), discardLogger())

	teamRepo.On("GetByID", mock.Anything, 9).Return(&models.Team{
		ID:           9,
		OwnerID:      1,
		JoinRequests: []int{5},
	}, nil).Once()

	err := svc.RequestJoin(context.Background(), 9, 5)
	assert.ErrorIs(t, err, ErrJoinRequestPending)
	teamRepo.AssertNotCalled(t, "UpdateRoster", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestJoinAlreadyMember(t *testing.T) {
	teamRepo := new(TeamRepositoryMock)
	svc := NewTeamService(teamRepo, new(UserRepositoryMock), new(FileUploaderMock), discardLogger())

	teamRepo.On("GetByID", mock.Anything, 9).Return(&models.Team{
		ID:      9,
		OwnerID: 1,
		Pilotos: []int{5},
	}, nil).Once()

	err := svc.RequestJoin(context.Background(), 9, 5)
	assert.ErrorIs(t, err, ErrAlreadyInTeam)
}

func TestAcceptRequestMovesApplicant(t *testing.T) {
	teamRepo := new(TeamRepositoryMock)
	svc := NewTeamService(teamRepo, new(UserRepositoryMock), new(FileUploaderMock), discardLogger())

	teamRepo.On("GetByID", mock.Anything, 9).Return(&models.Team{
		ID:           9,
		OwnerID:      1,
		Pilotos:      []int{2},
		JoinRequests: []int{5, 6},
	}, nil).Once()
	teamRepo.On("UpdateRoster", mock.Anything, 9, []int{2, 5}, []int{6}).Return(nil).Once()

	err := svc.AcceptRequest(context.Background(), 9, 1, 5)
	require.NoError(t, err)
	teamRepo.AssertExpectations(t)
}

func TestAcceptRequestNotOwner(t *testing.T) {
	teamRepo := new(TeamRepositoryMock)
	svc := NewTeamService(teamRepo, new(UserRepositoryMock), new(FileUploaderMock), discardLogger())

	teamRepo.On("GetByID", mock.Anything, 9).Return(&models.Team{
		ID:           9,
		OwnerID:      1,
		JoinRequests: []int{5},
	}, nil).Once()

	err := svc.AcceptRequest(context.Background(), 9, 2, 5)
	assert.ErrorIs(t, err, ErrNotOwner)
	teamRepo.AssertNotCalled(t, "UpdateRoster", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRejectRequestWithoutRequest(t *testing.T) {
	teamRepo := new(TeamRepositoryMock)
	svc := NewTeamService(teamRepo, new(UserRepositoryMock), new(FileUploaderMock), discardLogger())

	teamRepo.On("GetByID", mock.Anything, 9).Return(&models.Team{
		ID:           9,
		OwnerID:      1,
		JoinRequests: []int{},
	}, nil).Once()

	err := svc.RejectRequest(context.Background(), 9, 1, 5)
	assert.ErrorIs(t, err, ErrNoJoinRequest)
}

func TestLeaveTeam(t *testing.T) {
	teamRepo := new(TeamRepositoryMock)
	svc := NewTeamService(teamRepo, new(UserRepositoryMock), new(FileUploaderMock), discardLogger())

	teamRepo.On("GetByID", mock.Anything, 9).Return(&models.Team{
		ID:           9,
		OwnerID:      1,
		Pilotos:      []int{2, 5},
		JoinRequests: []int{},
	}, nil).Once()
	teamRepo.On("UpdateRoster", mock.Anything, 9, []int{2}, []int{}).Return(nil).Once()

	err := svc.Leave(context.Background(), 9, 5)
	require.NoError(t, err)
}

func TestLeaveTeamAsOwner(t *testing.T) {
	teamRepo := new(TeamRepositoryMock)
	svc := NewTeamService(teamRepo, new(UserRepositoryMock), new(FileUploaderMock), discardLogger())

	teamRepo.On("GetByID", mock.Anything, 9).Return(&models.Team{
		ID:      9,
		OwnerID: 1,
	}, nil).Once()

	err := svc.Leave(context.Background(), 9, 1)
	assert.ErrorIs(t, err, ErrOwnerCannotLeave)
}

func TestLeaveTeamNotMember(t *testing.T) {
	teamRepo := new(TeamRepositoryMock)
	svc := NewTeamService(teamRepo, new(UserRepositoryMock), new(FileUploaderMock), discardLogger())

	teamRepo.On("GetByID", mock.Anything, 9).Return(&models.Team{
		ID:      9,
		OwnerID: 1,
		Pilotos: []int{2},
	}, nil).Once()

	err := svc.Leave(context.Background(), 9, 5)
	assert.ErrorIs(t, err, ErrNotTeamMember)
}

func TestDeleteTeamNotOwner(t *testing.T) {
	teamRepo := new(TeamRepositoryMock)
	svc := NewTeamService(teamRepo, new(UserRepositoryMock), new(FileUploaderMock), discardLogger())

	teamRepo.On("GetByID", mock.Anything, 9).Return(&models.Team{
		ID:      9,
		OwnerID: 1,
	}, nil).Once()

	err := svc.Delete(context.Background(), 9, 2)
	assert.ErrorIs(t, err, ErrNotOwner)
	teamRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestListTeamsFiltersByName(t *testing.T) {
	teamRepo := new(TeamRepositoryMock)
	svc := NewTeamService(teamRepo, new(UserRepositoryMock), new(FileUploaderMock), discardLogger())

	teamRepo.On("List", mock.Anything).Return([]*models.Team{
		{ID: 1, Nome: "Equipe Azul"},
		{ID: 2, Nome: "Velozes"},
		{ID: 3, Nome: "azulzinha"},
	}, nil).Once()

	teams, err := svc.List(context.Background(), "azul")
	require.NoError(t, err)

	require.Len(t, teams, 2)
	assert.Equal(t, 1, teams[0].ID)
	assert.Equal(t, 3, teams[1].ID)
}
