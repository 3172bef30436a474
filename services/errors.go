package services

import "errors"

// Shared errors used across services and the HTTP mapping.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrValidationFailed         = errors.New("validation failed")
	ErrPasswordTooShort         = errors.New("password is too short")
	ErrChampionshipNameRequired = errors.New("championship name is required")
	ErrResultPositionInvalid    = errors.New("finishing position must be a positive integer")
	ErrResultUnknownPlayer      = errors.New("race result names a user who is not a participant")
	ErrResultOutcomeInvalid     = errors.New("invalid race result outcome")
	ErrLapTimeInvalid           = errors.New("lap time is not a valid MMSSmmm value")
	ErrNoteEmpty                = errors.New("note text is required")
	ErrNoteIndexOutOfRange      = errors.New("note index out of range")

	// Authorization-shaped preconditions, enforced here at the service
	// boundary rather than in the client.
	ErrNotOwner           = errors.New("only the owner can perform this action")
	ErrOwnerCannotLeave   = errors.New("the owner cannot leave")
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")

	// Store write failures
	ErrChampionshipCreateFailed = errors.New("failed to create championship")
	ErrChampionshipJoinFailed   = errors.New("failed to join championship")
	ErrChampionshipLeaveFailed  = errors.New("failed to leave championship")
	ErrChampionshipDeleteFailed = errors.New("failed to delete championship")

	// Corrupt stored data
	ErrScoresParseFailed = errors.New("failed to parse championship scores")

	// Entity lookups
	ErrUserNotFound         = errors.New("user not found")
	ErrChampionshipNotFound = errors.New("championship not found")
	ErrTeamNotFound         = errors.New("team not found")
	ErrLapNotFound          = errors.New("lap time not found")
	ErrVideoNotFound        = errors.New("video not found")

	// Teams
	ErrAlreadyInTeam      = errors.New("user already belongs to a team")
	ErrJoinRequestPending = errors.New("join request is already pending")
	ErrNoJoinRequest      = errors.New("user has no pending join request")
	ErrNotTeamMember      = errors.New("user is not a member of this team")
)
