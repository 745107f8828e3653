package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Dosada05/hackathon-hub/applog"
	"github.com/Dosada05/hackathon-hub/models"
	"github.com/Dosada05/hackathon-hub/repositories"
	"github.com/Dosada05/hackathon-hub/storage"
)

const proposalLogSource = "ProposalService"

// ProposalService runs the standalone team submission and approval flow.
type ProposalService interface {
	SubmitTeam(ctx context.Context, userID int, input SubmitTeamInput) (*models.TeamDetails, error)
	UploadProposal(ctx context.Context, actor *models.User, teamID int, contentType string, reader io.Reader) (*models.TeamDetails, error)
	GetMyTeam(ctx context.Context, userID int) (*models.TeamDetails, error)
	GetTeam(ctx context.Context, teamID int) (*models.TeamDetails, error)
	ListProposals(ctx context.Context, filter models.ProposalFilter) ([]models.TeamDetails, error)
	SetApprovalStatus(ctx context.Context, actor *models.User, teamID int, status models.ApprovalStatus) (*models.TeamDetails, error)
}

type SubmitTeamInput struct {
	TeamName  string            `json:"teamName" validate:"required,max=100"`
	IdeaTitle *string           `json:"ideaTitle" validate:"omitempty,max=200"`
	Members   []TeamMemberInput `json:"members" validate:"required,min=1,max=5,dive"`
}

type TeamMemberInput struct {
	Name              string  `json:"name" validate:"required,max=100"`
	Email             string  `json:"email" validate:"required,email"`
	Phone             *string `json:"phone" validate:"omitempty,max=30"`
	Institution       *string `json:"institution" validate:"omitempty,max=200"`
	DietaryPreference *string `json:"dietaryPreference" validate:"omitempty,max=50"`
	TShirtSize        *string `json:"tshirtSize" validate:"omitempty,oneof=XS S M L XL XXL"`
	IsLeader          bool    `json:"isLeader"`
}

type proposalService struct {
	proposalRepo repositories.ProposalRepository
	tx           repositories.Transactor
	uploader     storage.FileUploader
	logger       applog.Logger
}

func NewProposalService(
	proposalRepo repositories.ProposalRepository,
	tx repositories.Transactor,
	uploader storage.FileUploader,
	logger applog.Logger,
) ProposalService {
	return &proposalService{
		proposalRepo: proposalRepo,
		tx:           tx,
		uploader:     uploader,
		logger:       logger,
	}
}

var proposalNotFound = map[error]error{repositories.ErrProposalTeamNotFound: ErrProposalTeamNotFound}

func buildMembers(input []TeamMemberInput) ([]models.TeamMember, error) {
	if len(input) < models.MinTeamMembers || len(input) > models.MaxTeamMembers {
		return nil, ErrInvalidMemberCount
	}

	members := make([]models.TeamMember, 0, len(input))
	seen := make(map[string]bool, len(input))
	leaders := 0
	for _, m := range input {
		email := strings.ToLower(strings.TrimSpace(m.Email))
		if seen[email] {
			return nil, ErrDuplicateMemberEmail
		}
		seen[email] = true
		if m.IsLeader {
			leaders++
		}
		members = append(members, models.TeamMember{
			Name:              strings.TrimSpace(m.Name),
			Email:             email,
			Phone:             m.Phone,
			Institution:       m.Institution,
			DietaryPreference: m.DietaryPreference,
			TShirtSize:        m.TShirtSize,
			IsLeader:          m.IsLeader,
		})
	}
	if leaders > 1 {
		return nil, ErrInvalidTeamLeader
	}
	if leaders == 0 {
		members[0].IsLeader = true
	}
	return members, nil
}

func (s *proposalService) SubmitTeam(ctx context.Context, userID int, input SubmitTeamInput) (*models.TeamDetails, error) {
	name := strings.TrimSpace(input.TeamName)
	if name == "" {
		return nil, ErrTeamNameRequired
	}
	members, err := buildMembers(input.Members)
	if err != nil {
		return nil, err
	}

	fields := applog.Fields{"userId": userID, "team": name, "members": len(members)}
	s.logger.Info(ctx, proposalLogSource, "submit team attempt", fields)

	team := &models.TeamDetails{
		UserID:    userID,
		TeamName:  name,
		IdeaTitle: input.IdeaTitle,
		Status:    models.ApprovalPending,
		Members:   members,
	}
	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		_, err := s.proposalRepo.GetByUserID(ctx, exec, userID)
		if err == nil {
			return ErrProposalTeamExists
		}
		if !errors.Is(err, repositories.ErrProposalTeamNotFound) {
			return err
		}
		return mapRepoErr(s.proposalRepo.CreateWithMembers(ctx, exec, team), map[error]error{
			repositories.ErrProposalTeamConflict: ErrProposalTeamExists,
			repositories.ErrProposalUserInvalid:  ErrUserNotFound,
		})
	})
	fields["teamId"] = team.ID
	finishOperation(ctx, s.logger, proposalLogSource, "submit_team", fields, err)
	if err != nil {
		return nil, err
	}
	return team, nil
}

// UploadProposal stores the PDF and sends the team back to pending review.
func (s *proposalService) UploadProposal(ctx context.Context, actor *models.User, teamID int, contentType string, reader io.Reader) (*models.TeamDetails, error) {
	if actor == nil {
		return nil, ErrForbiddenOperation
	}
	ext, err := storage.PDFExtension(contentType)
	if err != nil {
		return nil, ErrUnsupportedFileType
	}
	fields := applog.Fields{"teamId": teamID, "actorId": actor.ID}

	team, err := s.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.UserID != actor.ID && !actor.IsAdmin {
		finishOperation(ctx, s.logger, proposalLogSource, "upload_proposal", fields, ErrForbiddenOperation)
		return nil, ErrForbiddenOperation
	}

	key := storage.ProposalKey(teamID, ext)
	if err := uploadObject(ctx, s.uploader, key, contentType, reader); err != nil {
		finishOperation(ctx, s.logger, proposalLogSource, "upload_proposal", fields, err)
		return nil, err
	}
	if err := s.proposalRepo.UpdateProposal(ctx, nil, teamID, &key, models.ApprovalPending); err != nil {
		if delErr := s.uploader.Delete(ctx, key); delErr != nil {
			s.logger.Warn(ctx, proposalLogSource, "failed to delete orphaned proposal", applog.Fields{"key": key, "error": delErr.Error()})
		}
		err = mapRepoErr(err, proposalNotFound)
		finishOperation(ctx, s.logger, proposalLogSource, "upload_proposal", fields, err)
		return nil, err
	}
	if team.ProposalKey != nil && *team.ProposalKey != "" {
		if delErr := s.uploader.Delete(ctx, *team.ProposalKey); delErr != nil {
			s.logger.Warn(ctx, proposalLogSource, "failed to delete previous proposal", applog.Fields{"key": *team.ProposalKey, "error": delErr.Error()})
		}
	}

	team.ProposalKey = &key
	team.Status = models.ApprovalPending
	populateProposalURL(team, s.uploader)
	fields["key"] = key
	finishOperation(ctx, s.logger, proposalLogSource, "upload_proposal", fields, nil)
	return team, nil
}

func (s *proposalService) GetMyTeam(ctx context.Context, userID int) (*models.TeamDetails, error) {
	team, err := s.proposalRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, mapRepoErr(err, proposalNotFound)
	}
	populateProposalURL(team, s.uploader)
	return team, nil
}

func (s *proposalService) GetTeam(ctx context.Context, teamID int) (*models.TeamDetails, error) {
	team, err := s.proposalRepo.GetByID(ctx, nil, teamID)
	if err != nil {
		return nil, mapRepoErr(err, proposalNotFound)
	}
	populateProposalURL(team, s.uploader)
	return team, nil
}

func (s *proposalService) ListProposals(ctx context.Context, filter models.ProposalFilter) ([]models.TeamDetails, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, ErrInvalidApprovalStatus
	}
	teams, err := s.proposalRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}
	for i := range teams {
		populateProposalURL(&teams[i], s.uploader)
	}
	return teams, nil
}

func (s *proposalService) SetApprovalStatus(ctx context.Context, actor *models.User, teamID int, status models.ApprovalStatus) (*models.TeamDetails, error) {
	if actor == nil || !(actor.IsJudge || actor.IsAdmin) {
		return nil, ErrForbiddenOperation
	}
	if !status.Valid() {
		return nil, ErrInvalidApprovalStatus
	}
	fields := applog.Fields{"teamId": teamID, "status": string(status), "actorId": actor.ID}

	err := mapRepoErr(s.proposalRepo.UpdateStatus(ctx, nil, teamID, status), proposalNotFound)
	finishOperation(ctx, s.logger, proposalLogSource, "set_approval_status", fields, err)
	if err != nil {
		return nil, err
	}
	return s.GetTeam(ctx, teamID)
}
