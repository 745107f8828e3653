package services

import (
	"context"
	"errors"
	"io"

	"github.com/Dosada05/hackathon-hub/applog"
	"github.com/Dosada05/hackathon-hub/metrics"
	"github.com/Dosada05/hackathon-hub/models"
	"github.com/Dosada05/hackathon-hub/realtime"
	"github.com/Dosada05/hackathon-hub/storage"
)

// mapRepoErr returns the service error registered for the first matching repository sentinel.
func mapRepoErr(err error, mapping map[error]error) error {
	if err == nil {
		return nil
	}
	for from, to := range mapping {
		if errors.Is(err, from) {
			return to
		}
	}
	return err
}

// finishOperation writes the outcome log row and counts it.
func finishOperation(ctx context.Context, logger applog.Logger, source, op string, fields applog.Fields, err error) {
	switch {
	case err == nil:
		logger.Info(ctx, source, op+" succeeded", fields)
		metrics.RecordOperation(op, "ok")
	case IsDomainError(err):
		f := applog.Fields{"error": err.Error()}
		for k, v := range fields {
			f[k] = v
		}
		logger.Warn(ctx, source, op+" rejected", f)
		metrics.RecordOperation(op, "rejected")
	default:
		f := applog.Fields{"error": err.Error()}
		for k, v := range fields {
			f[k] = v
		}
		logger.Error(ctx, source, op+" failed", f)
		metrics.RecordOperation(op, "error")
	}
}

func notify(n realtime.Notifier, eventID int, msgType string, payload interface{}) {
	if n == nil {
		return
	}
	n.BroadcastToRoom(realtime.EventRoom(eventID), realtime.Message{Type: msgType, Payload: payload})
}

func uploadObject(ctx context.Context, uploader storage.FileUploader, key, contentType string, reader io.Reader) error {
	if _, err := uploader.Upload(ctx, key, contentType, reader); err != nil {
		if errors.Is(err, storage.ErrStorageDisabled) {
			return ErrStorageUnavailable
		}
		return err
	}
	return nil
}

func publicURL(uploader storage.FileUploader, key *string) *string {
	if key == nil || *key == "" {
		return nil
	}
	u := uploader.GetPublicURL(*key)
	if u == "" {
		return nil
	}
	return &u
}

func populateEventPosterURL(event *models.Event, uploader storage.FileUploader) {
	if event != nil {
		event.PosterURL = publicURL(uploader, event.PosterKey)
	}
}

func populateEventListPosterURLs(events []models.Event, uploader storage.FileUploader) {
	for i := range events {
		populateEventPosterURL(&events[i], uploader)
	}
}

func populateProposalURL(team *models.TeamDetails, uploader storage.FileUploader) {
	if team != nil {
		team.ProposalURL = publicURL(uploader, team.ProposalKey)
	}
}
