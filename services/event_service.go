package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/hackathon-hub/applog"
	"github.com/Dosada05/hackathon-hub/models"
	"github.com/Dosada05/hackathon-hub/realtime"
	"github.com/Dosada05/hackathon-hub/repositories"
	"github.com/Dosada05/hackathon-hub/storage"
)

const eventLogSource = "EventService"

type EventService interface {
	CreateEvent(ctx context.Context, input CreateEventInput) (*models.Event, error)
	GetEventList(ctx context.Context, opts models.EventListOptions) ([]models.Event, error)
	GetEventDetails(ctx context.Context, eventID int) (*models.EventDetails, error)
	UpdateEvent(ctx context.Context, eventID int, input UpdateEventInput) (*models.Event, error)
	DeleteEvent(ctx context.Context, eventID int) error
	UploadEventPoster(ctx context.Context, eventID int, contentType string, reader io.Reader) (*models.Event, error)
	AddEventPhoto(ctx context.Context, eventID int, contentType string, reader io.Reader) (*models.EventPhoto, error)

	RegisterParticipantForEvent(ctx context.Context, eventID, userID int) (*models.EventParticipant, error)
	UnregisterParticipant(ctx context.Context, eventID, userID int) error
	CreateTeamForEvent(ctx context.Context, eventID int, name string) (*models.EventTeam, error)
	ListEventTeams(ctx context.Context, eventID int) ([]models.EventTeam, error)
	DeleteTeam(ctx context.Context, eventID, teamID int) error
	AssignParticipantToTeam(ctx context.Context, eventID, userID, teamID int) error
	RemoveParticipantFromTeam(ctx context.Context, eventID, userID int) error

	AddJudgeToEvent(ctx context.Context, eventID, userID int) error
	RemoveJudgeFromEvent(ctx context.Context, eventID, userID int) error
	AddOrganiserToEvent(ctx context.Context, eventID, userID int) error
	RemoveOrganiserFromEvent(ctx context.Context, eventID, userID int) error

	AddSponsor(ctx context.Context, eventID int, input SponsorInput) (*models.Sponsor, error)
	ListSponsors(ctx context.Context, eventID int) ([]models.Sponsor, error)
	RemoveSponsor(ctx context.Context, eventID, sponsorID int) error
}

type CreateEventInput struct {
	Name        string    `json:"name" validate:"required,max=200"`
	Description *string   `json:"description" validate:"omitempty,max=5000"`
	StartDate   time.Time `json:"startDate" validate:"required"`
	EndDate     time.Time `json:"endDate" validate:"required"`
	Location    *string   `json:"location" validate:"omitempty,max=300"`
	IsActive    *bool     `json:"isActive"`
}

// UpdateEventInput holds a partial update; nil fields are left unchanged.
type UpdateEventInput struct {
	Name        *string    `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=5000"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	Location    *string    `json:"location" validate:"omitempty,max=300"`
	IsActive    *bool      `json:"isActive"`
}

type SponsorInput struct {
	Name    string             `json:"name" validate:"required,max=200"`
	Website *string            `json:"website" validate:"omitempty,url"`
	Tier    models.SponsorTier `json:"tier" validate:"required,oneof=gold silver bronze partner"`
}

// EventRepositories groups the stores EventService writes to.
type EventRepositories struct {
	Events       repositories.EventRepository
	Users        repositories.UserRepository
	Teams        repositories.EventTeamRepository
	Participants repositories.EventParticipantRepository
	Judges       repositories.EventJudgeRepository
	Organisers   repositories.EventOrganiserRepository
	Sponsors     repositories.SponsorRepository
}

type eventService struct {
	repos    EventRepositories
	tx       repositories.Transactor
	uploader storage.FileUploader
	notifier realtime.Notifier
	logger   applog.Logger
}

func NewEventService(
	repos EventRepositories,
	tx repositories.Transactor,
	uploader storage.FileUploader,
	notifier realtime.Notifier,
	logger applog.Logger,
) EventService {
	return &eventService{
		repos:    repos,
		tx:       tx,
		uploader: uploader,
		notifier: notifier,
		logger:   logger,
	}
}

var eventNotFound = map[error]error{repositories.ErrEventNotFound: ErrEventNotFound}

func (s *eventService) requireEvent(ctx context.Context, exec repositories.SQLExecutor, eventID int) (*models.Event, error) {
	event, err := s.repos.Events.GetByID(ctx, exec, eventID)
	if err != nil {
		return nil, mapRepoErr(err, eventNotFound)
	}
	return event, nil
}

func (s *eventService) requireUser(ctx context.Context, exec repositories.SQLExecutor, userID int) (*models.User, error) {
	user, err := s.repos.Users.GetByID(ctx, exec, userID)
	if err != nil {
		return nil, mapRepoErr(err, map[error]error{repositories.ErrUserNotFound: ErrUserNotFound})
	}
	return user, nil
}

func (s *eventService) CreateEvent(ctx context.Context, input CreateEventInput) (*models.Event, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrEventNameRequired
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return nil, fmt.Errorf("%w: start and end dates are required", ErrValidationFailed)
	}
	if input.EndDate.Before(input.StartDate) {
		return nil, ErrInvalidEventDates
	}

	event := &models.Event{
		Name:        name,
		Description: input.Description,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Location:    input.Location,
		IsActive:    true,
	}
	if input.IsActive != nil {
		event.IsActive = *input.IsActive
	}

	s.logger.Info(ctx, eventLogSource, "create event attempt", applog.Fields{"name": name})
	err := s.repos.Events.Create(ctx, nil, event)
	err = mapRepoErr(err, map[error]error{repositories.ErrEventInvalidDates: ErrInvalidEventDates})
	finishOperation(ctx, s.logger, eventLogSource, "create_event", applog.Fields{"eventId": event.ID}, err)
	if err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventService) GetEventList(ctx context.Context, opts models.EventListOptions) ([]models.Event, error) {
	events, err := s.repos.Events.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	populateEventListPosterURLs(events, s.uploader)
	return events, nil
}

// GetEventDetails loads the event, then its attached collections concurrently.
func (s *eventService) GetEventDetails(ctx context.Context, eventID int) (*models.EventDetails, error) {
	event, err := s.requireEvent(ctx, nil, eventID)
	if err != nil {
		return nil, err
	}
	populateEventPosterURL(event, s.uploader)

	details := &models.EventDetails{Event: *event}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		details.Photos, err = s.repos.Events.ListPhotos(gctx, eventID)
		return err
	})
	g.Go(func() (err error) {
		details.Organisers, err = s.repos.Organisers.FindOrganisersByEvent(gctx, eventID)
		return err
	})
	g.Go(func() (err error) {
		details.Participants, err = s.repos.Participants.ListByEvent(gctx, eventID)
		return err
	})
	g.Go(func() (err error) {
		details.Judges, err = s.repos.Judges.FindJudgesByEvent(gctx, eventID)
		return err
	})
	g.Go(func() (err error) {
		details.Teams, err = s.repos.Teams.ListByEvent(gctx, eventID)
		return err
	})
	g.Go(func() (err error) {
		details.Sponsors, err = s.repos.Sponsors.ListByEvent(gctx, eventID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load details for event %d: %w", eventID, err)
	}

	for i := range details.Photos {
		details.Photos[i].URL = s.uploader.GetPublicURL(details.Photos[i].ObjectKey)
	}
	attachTeamMembers(details.Teams, details.Participants)
	return details, nil
}

func attachTeamMembers(teams []models.EventTeam, participants []models.ParticipantView) {
	index := make(map[int]int, len(teams))
	for i := range teams {
		teams[i].Members = make([]models.SafeUser, 0)
		index[teams[i].ID] = i
	}
	for _, p := range participants {
		if p.TeamID == nil {
			continue
		}
		if i, ok := index[*p.TeamID]; ok {
			teams[i].Members = append(teams[i].Members, p.SafeUser)
		}
	}
}

func (s *eventService) UpdateEvent(ctx context.Context, eventID int, input UpdateEventInput) (*models.Event, error) {
	var updated *models.Event
	s.logger.Info(ctx, eventLogSource, "update event attempt", applog.Fields{"eventId": eventID})
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		event, err := s.requireEvent(ctx, exec, eventID)
		if err != nil {
			return err
		}
		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" {
				return ErrEventNameRequired
			}
			event.Name = name
		}
		if input.Description != nil {
			event.Description = input.Description
		}
		if input.StartDate != nil {
			event.StartDate = *input.StartDate
		}
		if input.EndDate != nil {
			event.EndDate = *input.EndDate
		}
		if input.Location != nil {
			event.Location = input.Location
		}
		if input.IsActive != nil {
			event.IsActive = *input.IsActive
		}
		if event.EndDate.Before(event.StartDate) {
			return ErrInvalidEventDates
		}
		if err := s.repos.Events.Update(ctx, exec, event); err != nil {
			return mapRepoErr(err, map[error]error{
				repositories.ErrEventNotFound:     ErrEventNotFound,
				repositories.ErrEventInvalidDates: ErrInvalidEventDates,
			})
		}
		updated = event
		return nil
	})
	finishOperation(ctx, s.logger, eventLogSource, "update_event", applog.Fields{"eventId": eventID}, err)
	if err != nil {
		return nil, err
	}
	populateEventPosterURL(updated, s.uploader)
	notify(s.notifier, eventID, realtime.MessageEventUpdated, updated)
	return updated, nil
}

// DeleteEvent removes the event row (dependent rows cascade) and then its stored files.
func (s *eventService) DeleteEvent(ctx context.Context, eventID int) error {
	s.logger.Info(ctx, eventLogSource, "delete event attempt", applog.Fields{"eventId": eventID})

	var objectKeys []string
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		event, err := s.requireEvent(ctx, exec, eventID)
		if err != nil {
			return err
		}
		photos, err := s.repos.Events.ListPhotos(ctx, eventID)
		if err != nil {
			return err
		}
		if event.PosterKey != nil && *event.PosterKey != "" {
			objectKeys = append(objectKeys, *event.PosterKey)
		}
		for _, p := range photos {
			objectKeys = append(objectKeys, p.ObjectKey)
		}
		return mapRepoErr(s.repos.Events.Delete(ctx, exec, eventID), eventNotFound)
	})
	finishOperation(ctx, s.logger, eventLogSource, "delete_event", applog.Fields{"eventId": eventID}, err)
	if err != nil {
		return err
	}

	for _, key := range objectKeys {
		s.deleteObject(ctx, key)
	}
	notify(s.notifier, eventID, realtime.MessageEventDeleted, map[string]int{"eventId": eventID})
	return nil
}

func (s *eventService) deleteObject(ctx context.Context, key string) {
	if err := s.uploader.Delete(ctx, key); err != nil {
		s.logger.Warn(ctx, eventLogSource, "failed to delete stored object", applog.Fields{"key": key, "error": err.Error()})
	}
}

func (s *eventService) UploadEventPoster(ctx context.Context, eventID int, contentType string, reader io.Reader) (*models.Event, error) {
	ext, err := storage.ImageExtension(contentType)
	if err != nil {
		return nil, ErrUnsupportedFileType
	}
	event, err := s.requireEvent(ctx, nil, eventID)
	if err != nil {
		return nil, err
	}

	key := storage.EventPosterKey(eventID, ext)
	if err := uploadObject(ctx, s.uploader, key, contentType, reader); err != nil {
		finishOperation(ctx, s.logger, eventLogSource, "upload_poster", applog.Fields{"eventId": eventID}, err)
		return nil, err
	}

	if err := s.repos.Events.UpdatePosterKey(ctx, nil, eventID, &key); err != nil {
		s.deleteObject(ctx, key)
		err = mapRepoErr(err, eventNotFound)
		finishOperation(ctx, s.logger, eventLogSource, "upload_poster", applog.Fields{"eventId": eventID}, err)
		return nil, err
	}

	if event.PosterKey != nil && *event.PosterKey != "" && *event.PosterKey != key {
		s.deleteObject(ctx, *event.PosterKey)
	}
	event.PosterKey = &key
	populateEventPosterURL(event, s.uploader)
	finishOperation(ctx, s.logger, eventLogSource, "upload_poster", applog.Fields{"eventId": eventID, "key": key}, nil)
	notify(s.notifier, eventID, realtime.MessageEventUpdated, event)
	return event, nil
}

func (s *eventService) AddEventPhoto(ctx context.Context, eventID int, contentType string, reader io.Reader) (*models.EventPhoto, error) {
	ext, err := storage.ImageExtension(contentType)
	if err != nil {
		return nil, ErrUnsupportedFileType
	}
	if _, err := s.requireEvent(ctx, nil, eventID); err != nil {
		return nil, err
	}

	key := storage.EventPhotoKey(eventID, ext)
	if err := uploadObject(ctx, s.uploader, key, contentType, reader); err != nil {
		finishOperation(ctx, s.logger, eventLogSource, "add_photo", applog.Fields{"eventId": eventID}, err)
		return nil, err
	}

	photo := &models.EventPhoto{EventID: eventID, ObjectKey: key}
	if err := s.repos.Events.AddPhoto(ctx, nil, photo); err != nil {
		s.deleteObject(ctx, key)
		err = mapRepoErr(err, eventNotFound)
		finishOperation(ctx, s.logger, eventLogSource, "add_photo", applog.Fields{"eventId": eventID}, err)
		return nil, err
	}
	photo.URL = s.uploader.GetPublicURL(key)
	finishOperation(ctx, s.logger, eventLogSource, "add_photo", applog.Fields{"eventId": eventID, "photoId": photo.ID}, nil)
	notify(s.notifier, eventID, realtime.MessageEventUpdated, photo)
	return photo, nil
}

func (s *eventService) AddSponsor(ctx context.Context, eventID int, input SponsorInput) (*models.Sponsor, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: sponsor name is required", ErrValidationFailed)
	}
	switch input.Tier {
	case models.SponsorTierGold, models.SponsorTierSilver, models.SponsorTierBronze, models.SponsorTierPartner:
	default:
		return nil, ErrInvalidSponsorTier
	}

	sponsor := &models.Sponsor{EventID: eventID, Name: name, Website: input.Website, Tier: input.Tier}
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if _, err := s.requireEvent(ctx, exec, eventID); err != nil {
			return err
		}
		return mapRepoErr(s.repos.Sponsors.Create(ctx, exec, sponsor), eventNotFound)
	})
	finishOperation(ctx, s.logger, eventLogSource, "add_sponsor", applog.Fields{"eventId": eventID, "sponsor": name}, err)
	if err != nil {
		return nil, err
	}
	notify(s.notifier, eventID, realtime.MessageSponsorsChanged, sponsor)
	return sponsor, nil
}

func (s *eventService) ListSponsors(ctx context.Context, eventID int) ([]models.Sponsor, error) {
	if _, err := s.requireEvent(ctx, nil, eventID); err != nil {
		return nil, err
	}
	sponsors, err := s.repos.Sponsors.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sponsors for event %d: %w", eventID, err)
	}
	return sponsors, nil
}

func (s *eventService) RemoveSponsor(ctx context.Context, eventID, sponsorID int) error {
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if _, err := s.requireEvent(ctx, exec, eventID); err != nil {
			return err
		}
		return mapRepoErr(s.repos.Sponsors.Delete(ctx, exec, eventID, sponsorID),
			map[error]error{repositories.ErrSponsorNotFound: ErrSponsorNotFound})
	})
	finishOperation(ctx, s.logger, eventLogSource, "remove_sponsor", applog.Fields{"eventId": eventID, "sponsorId": sponsorID}, err)
	if err != nil {
		return err
	}
	notify(s.notifier, eventID, realtime.MessageSponsorsChanged, map[string]int{"removedSponsorId": sponsorID})
	return nil
}
