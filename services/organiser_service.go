package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/hackathon-hub/models"
	"github.com/Dosada05/hackathon-hub/repositories"
	"github.com/Dosada05/hackathon-hub/storage"
)

// OrganiserService answers who may manage or take part in an event.
type OrganiserService interface {
	IsEventManager(ctx context.Context, eventID int, user *models.User) (bool, error)
	IsEventParticipant(ctx context.Context, eventID, userID int) (bool, error)
	ListOrganisedEvents(ctx context.Context, userID int) ([]models.Event, error)
	ListJudgedEvents(ctx context.Context, userID int) ([]models.Event, error)
}

type organiserService struct {
	eventRepo       repositories.EventRepository
	organiserRepo   repositories.EventOrganiserRepository
	participantRepo repositories.EventParticipantRepository
	uploader        storage.FileUploader
}

func NewOrganiserService(
	eventRepo repositories.EventRepository,
	organiserRepo repositories.EventOrganiserRepository,
	participantRepo repositories.EventParticipantRepository,
	uploader storage.FileUploader,
) OrganiserService {
	return &organiserService{
		eventRepo:       eventRepo,
		organiserRepo:   organiserRepo,
		participantRepo: participantRepo,
		uploader:        uploader,
	}
}

func (s *organiserService) IsEventManager(ctx context.Context, eventID int, user *models.User) (bool, error) {
	if user == nil {
		return false, nil
	}
	if user.IsAdmin {
		return true, nil
	}
	_, err := s.organiserRepo.FindOrganiser(ctx, nil, eventID, user.ID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repositories.ErrOrganiserNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("failed to check organiser %d for event %d: %w", user.ID, eventID, err)
	}
}

func (s *organiserService) IsEventParticipant(ctx context.Context, eventID, userID int) (bool, error) {
	_, err := s.participantRepo.FindByEventAndUser(ctx, nil, eventID, userID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repositories.ErrParticipantNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("failed to check participant %d for event %d: %w", userID, eventID, err)
	}
}

func (s *organiserService) ListOrganisedEvents(ctx context.Context, userID int) ([]models.Event, error) {
	events, err := s.eventRepo.ListByOrganiser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events organised by user %d: %w", userID, err)
	}
	populateEventListPosterURLs(events, s.uploader)
	return events, nil
}

func (s *organiserService) ListJudgedEvents(ctx context.Context, userID int) ([]models.Event, error) {
	events, err := s.eventRepo.ListByJudge(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events judged by user %d: %w", userID, err)
	}
	populateEventListPosterURLs(events, s.uploader)
	return events, nil
}
