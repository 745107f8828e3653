package services

import "errors"

var (
	// Validation and business rules
	ErrValidationFailed      = errors.New("validation failed")
	ErrEventNameRequired     = errors.New("event name is required")
	ErrInvalidEventDates     = errors.New("event end date must not be before start date")
	ErrTeamNameRequired      = errors.New("team name is required")
	ErrInvalidMemberCount    = errors.New("a team must have between 1 and 5 members")
	ErrInvalidTeamLeader     = errors.New("a team can have only one leader")
	ErrDuplicateMemberEmail  = errors.New("team member emails must be unique")
	ErrInvalidApprovalStatus = errors.New("invalid approval status")
	ErrInvalidSponsorTier    = errors.New("invalid sponsor tier")
	ErrUnsupportedFileType   = errors.New("unsupported file type")

	// Conflicts
	ErrParticipantAlreadyExists = errors.New("user is already registered for this event")
	ErrTeamAlreadyExists        = errors.New("a team with this name already exists in the event")
	ErrJudgeAlreadyAssigned     = errors.New("judge is already assigned to this event")
	ErrOrganiserAlreadyAssigned = errors.New("organiser is already assigned to this event")
	ErrProposalTeamExists       = errors.New("user has already submitted a team")

	// Removal of links that do not exist
	ErrJudgeNotAssigned     = errors.New("judge is not assigned to this event")
	ErrOrganiserNotAssigned = errors.New("organiser is not assigned to this event")

	// Authorization
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")

	// Not found
	ErrEventNotFound        = errors.New("event not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrTeamNotFound         = errors.New("team not found")
	ErrParticipantNotFound  = errors.New("participant not found")
	ErrSponsorNotFound      = errors.New("sponsor not found")
	ErrProposalTeamNotFound = errors.New("team not found")

	// Infrastructure
	ErrStorageUnavailable = errors.New("file storage is not available")
)

var domainErrors = []error{
	ErrValidationFailed, ErrEventNameRequired, ErrInvalidEventDates, ErrTeamNameRequired,
	ErrInvalidMemberCount, ErrInvalidTeamLeader, ErrDuplicateMemberEmail, ErrInvalidApprovalStatus,
	ErrInvalidSponsorTier, ErrUnsupportedFileType,
	ErrParticipantAlreadyExists, ErrTeamAlreadyExists, ErrJudgeAlreadyAssigned, ErrOrganiserAlreadyAssigned,
	ErrProposalTeamExists, ErrJudgeNotAssigned, ErrOrganiserNotAssigned, ErrForbiddenOperation,
	ErrEventNotFound, ErrUserNotFound, ErrTeamNotFound, ErrParticipantNotFound, ErrSponsorNotFound,
	ErrProposalTeamNotFound,
}

// IsDomainError reports whether err is an expected business-rule failure rather than an infrastructure error.
func IsDomainError(err error) bool {
	for _, d := range domainErrors {
		if errors.Is(err, d) {
			return true
		}
	}
	return false
}
