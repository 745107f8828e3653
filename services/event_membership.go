package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/hackathon-hub/applog"
	"github.com/Dosada05/hackathon-hub/models"
	"github.com/Dosada05/hackathon-hub/realtime"
	"github.com/Dosada05/hackathon-hub/repositories"
)

func (s *eventService) RegisterParticipantForEvent(ctx context.Context, eventID, userID int) (*models.EventParticipant, error) {
	fields := applog.Fields{"eventId": eventID, "userId": userID}
	s.logger.Info(ctx, eventLogSource, "register participant attempt", fields)

	participant := &models.EventParticipant{EventID: eventID, UserID: userID}
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if _, err := s.requireEvent(ctx, exec, eventID); err != nil {
			return err
		}
		if _, err := s.requireUser(ctx, exec, userID); err != nil {
			return err
		}
		_, err := s.repos.Participants.FindByEventAndUser(ctx, exec, eventID, userID)
		if err == nil {
			return ErrParticipantAlreadyExists
		}
		if !errors.Is(err, repositories.ErrParticipantNotFound) {
			return err
		}
		return mapRepoErr(s.repos.Participants.Create(ctx, exec, participant), map[error]error{
			repositories.ErrParticipantConflict:     ErrParticipantAlreadyExists,
			repositories.ErrParticipantEventInvalid: ErrEventNotFound,
			repositories.ErrParticipantUserInvalid:  ErrUserNotFound,
		})
	})
	finishOperation(ctx, s.logger, eventLogSource, "register_participant", fields, err)
	if err != nil {
		return nil, err
	}
	notify(s.notifier, eventID, realtime.MessageParticipantRegistered, participant)
	return participant, nil
}

func (s *eventService) UnregisterParticipant(ctx context.Context, eventID, userID int) error {
	fields := applog.Fields{"eventId": eventID, "userId": userID}
	err := mapRepoErr(s.repos.Participants.Delete(ctx, nil, eventID, userID),
		map[error]error{repositories.ErrParticipantNotFound: ErrParticipantNotFound})
	finishOperation(ctx, s.logger, eventLogSource, "unregister_participant", fields, err)
	if err != nil {
		return err
	}
	notify(s.notifier, eventID, realtime.MessageParticipantUnregistered, fields)
	return nil
}

func (s *eventService) CreateTeamForEvent(ctx context.Context, eventID int, name string) (*models.EventTeam, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}
	fields := applog.Fields{"eventId": eventID, "team": name}
	s.logger.Info(ctx, eventLogSource, "create team attempt", fields)

	team := &models.EventTeam{EventID: eventID, Name: name}
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if _, err := s.requireEvent(ctx, exec, eventID); err != nil {
			return err
		}
		_, err := s.repos.Teams.FindByEventAndName(ctx, exec, eventID, name)
		if err == nil {
			return ErrTeamAlreadyExists
		}
		if !errors.Is(err, repositories.ErrTeamNotFound) {
			return err
		}
		return mapRepoErr(s.repos.Teams.Create(ctx, exec, team), map[error]error{
			repositories.ErrTeamNameConflict: ErrTeamAlreadyExists,
			repositories.ErrTeamEventInvalid: ErrEventNotFound,
		})
	})
	finishOperation(ctx, s.logger, eventLogSource, "create_team", fields, err)
	if err != nil {
		return nil, err
	}
	team.Members = make([]models.SafeUser, 0)
	notify(s.notifier, eventID, realtime.MessageTeamCreated, team)
	return team, nil
}

func (s *eventService) ListEventTeams(ctx context.Context, eventID int) ([]models.EventTeam, error) {
	if _, err := s.requireEvent(ctx, nil, eventID); err != nil {
		return nil, err
	}
	teams, err := s.repos.Teams.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for event %d: %w", eventID, err)
	}
	participants, err := s.repos.Participants.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants for event %d: %w", eventID, err)
	}
	attachTeamMembers(teams, participants)
	return teams, nil
}

// requireEventTeam treats a team of another event the same as a missing team.
func (s *eventService) requireEventTeam(ctx context.Context, exec repositories.SQLExecutor, eventID, teamID int) (*models.EventTeam, error) {
	team, err := s.repos.Teams.GetByID(ctx, exec, teamID)
	if err != nil {
		return nil, mapRepoErr(err, map[error]error{repositories.ErrTeamNotFound: ErrTeamNotFound})
	}
	if team.EventID != eventID {
		return nil, ErrTeamNotFound
	}
	return team, nil
}

func (s *eventService) DeleteTeam(ctx context.Context, eventID, teamID int) error {
	fields := applog.Fields{"eventId": eventID, "teamId": teamID}
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if _, err := s.requireEventTeam(ctx, exec, eventID, teamID); err != nil {
			return err
		}
		return mapRepoErr(s.repos.Teams.Delete(ctx, exec, teamID),
			map[error]error{repositories.ErrTeamNotFound: ErrTeamNotFound})
	})
	finishOperation(ctx, s.logger, eventLogSource, "delete_team", fields, err)
	if err != nil {
		return err
	}
	notify(s.notifier, eventID, realtime.MessageTeamDeleted, fields)
	return nil
}

func (s *eventService) AssignParticipantToTeam(ctx context.Context, eventID, userID, teamID int) error {
	fields := applog.Fields{"eventId": eventID, "userId": userID, "teamId": teamID}
	s.logger.Info(ctx, eventLogSource, "assign participant to team attempt", fields)

	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if _, err := s.requireEventTeam(ctx, exec, eventID, teamID); err != nil {
			return err
		}
		if _, err := s.repos.Participants.FindByEventAndUser(ctx, exec, eventID, userID); err != nil {
			return mapRepoErr(err, map[error]error{repositories.ErrParticipantNotFound: ErrParticipantNotFound})
		}
		return mapRepoErr(s.repos.Participants.UpdateTeam(ctx, exec, eventID, userID, &teamID), map[error]error{
			repositories.ErrParticipantNotFound:    ErrParticipantNotFound,
			repositories.ErrParticipantTeamInvalid: ErrTeamNotFound,
		})
	})
	finishOperation(ctx, s.logger, eventLogSource, "assign_participant_to_team", fields, err)
	if err != nil {
		return err
	}
	notify(s.notifier, eventID, realtime.MessageTeamMembershipChanged, fields)
	return nil
}

func (s *eventService) RemoveParticipantFromTeam(ctx context.Context, eventID, userID int) error {
	fields := applog.Fields{"eventId": eventID, "userId": userID}
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if _, err := s.repos.Participants.FindByEventAndUser(ctx, exec, eventID, userID); err != nil {
			return mapRepoErr(err, map[error]error{repositories.ErrParticipantNotFound: ErrParticipantNotFound})
		}
		return mapRepoErr(s.repos.Participants.UpdateTeam(ctx, exec, eventID, userID, nil),
			map[error]error{repositories.ErrParticipantNotFound: ErrParticipantNotFound})
	})
	finishOperation(ctx, s.logger, eventLogSource, "remove_participant_from_team", fields, err)
	if err != nil {
		return err
	}
	notify(s.notifier, eventID, realtime.MessageTeamMembershipChanged, fields)
	return nil
}

// assignmentOps abstracts over the judge and organiser link tables.
type assignmentOps struct {
	name       string
	message    string
	add        func(ctx context.Context, exec repositories.SQLExecutor, eventID, userID int) error
	remove     func(ctx context.Context, exec repositories.SQLExecutor, eventID, userID int) error
	find       func(ctx context.Context, exec repositories.SQLExecutor, eventID, userID int) (*models.EventAssignment, error)
	repoAbsent error
	repoExists error
	assigned   error
	unassigned error
}

func (s *eventService) judgeOps() assignmentOps {
	return assignmentOps{
		name:       "judge",
		message:    realtime.MessageJudgesChanged,
		add:        s.repos.Judges.AddJudgeToEvent,
		remove:     s.repos.Judges.RemoveJudgeFromEvent,
		find:       s.repos.Judges.FindJudge,
		repoAbsent: repositories.ErrJudgeNotFound,
		repoExists: repositories.ErrJudgeConflict,
		assigned:   ErrJudgeAlreadyAssigned,
		unassigned: ErrJudgeNotAssigned,
	}
}

func (s *eventService) organiserOps() assignmentOps {
	return assignmentOps{
		name:       "organiser",
		message:    realtime.MessageOrganisersChanged,
		add:        s.repos.Organisers.AddOrganiserToEvent,
		remove:     s.repos.Organisers.RemoveOrganiserFromEvent,
		find:       s.repos.Organisers.FindOrganiser,
		repoAbsent: repositories.ErrOrganiserNotFound,
		repoExists: repositories.ErrOrganiserConflict,
		assigned:   ErrOrganiserAlreadyAssigned,
		unassigned: ErrOrganiserNotAssigned,
	}
}

func (s *eventService) assign(ctx context.Context, ops assignmentOps, eventID, userID int) error {
	fields := applog.Fields{"eventId": eventID, "userId": userID}
	s.logger.Info(ctx, eventLogSource, "add "+ops.name+" attempt", fields)

	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if _, err := s.requireEvent(ctx, exec, eventID); err != nil {
			return err
		}
		if _, err := s.requireUser(ctx, exec, userID); err != nil {
			return err
		}
		_, err := ops.find(ctx, exec, eventID, userID)
		if err == nil {
			return ops.assigned
		}
		if !errors.Is(err, ops.repoAbsent) {
			return err
		}
		return mapRepoErr(ops.add(ctx, exec, eventID, userID), map[error]error{
			ops.repoExists:                       ops.assigned,
			repositories.ErrAssignmentRefInvalid: ErrEventNotFound,
		})
	})
	finishOperation(ctx, s.logger, eventLogSource, "add_"+ops.name, fields, err)
	if err != nil {
		return err
	}
	notify(s.notifier, eventID, ops.message, fields)
	return nil
}

func (s *eventService) unassign(ctx context.Context, ops assignmentOps, eventID, userID int) error {
	fields := applog.Fields{"eventId": eventID, "userId": userID}
	s.logger.Info(ctx, eventLogSource, "remove "+ops.name+" attempt", fields)

	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if _, err := s.requireEvent(ctx, exec, eventID); err != nil {
			return err
		}
		if _, err := s.requireUser(ctx, exec, userID); err != nil {
			return err
		}
		return mapRepoErr(ops.remove(ctx, exec, eventID, userID), map[error]error{ops.repoAbsent: ops.unassigned})
	})
	finishOperation(ctx, s.logger, eventLogSource, "remove_"+ops.name, fields, err)
	if err != nil {
		return err
	}
	notify(s.notifier, eventID, ops.message, fields)
	return nil
}

func (s *eventService) AddJudgeToEvent(ctx context.Context, eventID, userID int) error {
	return s.assign(ctx, s.judgeOps(), eventID, userID)
}

func (s *eventService) RemoveJudgeFromEvent(ctx context.Context, eventID, userID int) error {
	return s.unassign(ctx, s.judgeOps(), eventID, userID)
}

func (s *eventService) AddOrganiserToEvent(ctx context.Context, eventID, userID int) error {
	return s.assign(ctx, s.organiserOps(), eventID, userID)
}

func (s *eventService) RemoveOrganiserFromEvent(ctx context.Context, eventID, userID int) error {
	return s.unassign(ctx, s.organiserOps(), eventID, userID)
}
