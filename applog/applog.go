// Package applog persists structured application log rows tagged with the request correlation ID.
package applog

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Dosada05/hackathon-hub/metrics"
	"github.com/Dosada05/hackathon-hub/models"
)

type Fields map[string]interface{}

// Logger is the logging port handed to services.
type Logger interface {
	Debug(ctx context.Context, source, message string, fields Fields)
	Info(ctx context.Context, source, message string, fields Fields)
	Warn(ctx context.Context, source, message string, fields Fields)
	Error(ctx context.Context, source, message string, fields Fields)
}

type Store interface {
	Insert(ctx context.Context, entry *models.LogEntry) error
	List(ctx context.Context, filter models.LogFilter) ([]models.LogEntry, error)
}

const (
	defaultBufferSize = 256
	writeTimeout      = 5 * time.Second

	DefaultListLimit = 50
	MaxListLimit     = 200
)

var ErrClosed = errors.New("applog: service closed")

type Service struct {
	store      Store
	fallback   *slog.Logger
	production bool

	queue    chan models.LogEntry
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func NewService(store Store, fallback *slog.Logger, production bool, bufferSize int) *Service {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return &Service{
		store:      store,
		fallback:   fallback,
		production: production,
		queue:      make(chan models.LogEntry, bufferSize),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

func (s *Service) Debug(ctx context.Context, source, message string, fields Fields) {
	if s.production {
		return
	}
	s.enqueue(ctx, models.LogLevelDebug, source, message, fields)
}

func (s *Service) Info(ctx context.Context, source, message string, fields Fields) {
	s.enqueue(ctx, models.LogLevelInfo, source, message, fields)
}

func (s *Service) Warn(ctx context.Context, source, message string, fields Fields) {
	s.enqueue(ctx, models.LogLevelWarn, source, message, fields)
}

func (s *Service) Error(ctx context.Context, source, message string, fields Fields) {
	s.enqueue(ctx, models.LogLevelError, source, message, fields)
}

func (s *Service) enqueue(ctx context.Context, level models.LogLevel, source, message string, fields Fields) {
	entry := models.LogEntry{
		Level:         level,
		Message:       message,
		CorrelationID: CorrelationID(ctx),
		Context:       source,
		CreatedAt:     time.Now().UTC(),
	}
	if uid, ok := UserID(ctx); ok {
		entry.UserID = &uid
	}
	if len(fields) > 0 {
		meta, err := json.Marshal(fields)
		if err != nil {
			s.fallback.Warn("applog: unserializable fields dropped", slog.String("source", source), slog.Any("error", err))
		} else {
			entry.Meta = meta
		}
	}

	select {
	case <-s.stop:
		s.reportFailure(entry, "closed", ErrClosed)
		return
	default:
	}

	select {
	case s.queue <- entry:
	default:
		s.reportFailure(entry, "buffer_full", nil)
	}
}

// Run writes queued entries until ctx is cancelled or Close is called, then drains the queue.
func (s *Service) Run(ctx context.Context) {
	defer close(s.done)
	for {
		select {
		case entry := <-s.queue:
			s.write(entry)
		case <-ctx.Done():
			s.drain()
			return
		case <-s.stop:
			s.drain()
			return
		}
	}
}

func (s *Service) drain() {
	for {
		select {
		case entry := <-s.queue:
			s.write(entry)
		default:
			return
		}
	}
}

func (s *Service) write(entry models.LogEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := s.store.Insert(ctx, &entry); err != nil {
		s.reportFailure(entry, "insert", err)
	}
}

func (s *Service) reportFailure(entry models.LogEntry, reason string, err error) {
	metrics.RecordLogFailure(reason)
	attrs := []any{
		slog.String("reason", reason),
		slog.String("level", string(entry.Level)),
		slog.String("source", entry.Context),
		slog.String("message", entry.Message),
		slog.String("correlation_id", entry.CorrelationID),
	}
	if err != nil {
		attrs = append(attrs, slog.Any("error", err))
	}
	s.fallback.Error("applog: entry not persisted", attrs...)
}

// Close stops accepting entries and waits for Run to flush what is queued.
func (s *Service) Close(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.stop) })
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) GetLogs(ctx context.Context, filter models.LogFilter) ([]models.LogEntry, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultListLimit
	}
	if filter.Limit > MaxListLimit {
		filter.Limit = MaxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.store.List(ctx, filter)
}

type nopLogger struct{}

// Nop returns a Logger that discards everything.
func Nop() Logger { return nopLogger{} }

func (nopLogger) Debug(context.Context, string, string, Fields) {}
func (nopLogger) Info(context.Context, string, string, Fields)  {}
func (nopLogger) Warn(context.Context, string, string, Fields)  {}
func (nopLogger) Error(context.Context, string, string, Fields) {}
