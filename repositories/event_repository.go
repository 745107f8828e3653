package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/hackathon-hub/models"
)

var (
	ErrEventNotFound     = errors.New("event not found")
	ErrEventInvalidDates = errors.New("event end date precedes start date")
)

type EventRepository interface {
	Create(ctx context.Context, exec SQLExecutor, event *models.Event) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Event, error)
	List(ctx context.Context, opts models.EventListOptions) ([]models.Event, error)
	ListByOrganiser(ctx context.Context, userID int) ([]models.Event, error)
	ListByJudge(ctx context.Context, userID int) ([]models.Event, error)
	Update(ctx context.Context, exec SQLExecutor, event *models.Event) error
	UpdatePosterKey(ctx context.Context, exec SQLExecutor, id int, posterKey *string) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	AddPhoto(ctx context.Context, exec SQLExecutor, photo *models.EventPhoto) error
	ListPhotos(ctx context.Context, eventID int) ([]models.EventPhoto, error)
	Count(ctx context.Context, activeOnly bool) (int, error)
}

type postgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) EventRepository {
	return &postgresEventRepository{db: db}
}

const eventColumns = `e.id, e.name, e.description, e.start_date, e.end_date, e.location, e.poster_key, e.is_active, e.created_at, e.updated_at`

func scanEvent(row rowScanner, e *models.Event) error {
	return row.Scan(&e.ID, &e.Name, &e.Description, &e.StartDate, &e.EndDate, &e.Location,
		&e.PosterKey, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
}

func (r *postgresEventRepository) handleEventError(err error, op string) error {
	if code, constraint, ok := pqConstraint(err); ok && code == pqCheckViolation && constraint == "chk_event_dates" {
		return ErrEventInvalidDates
	}
	return fmt.Errorf("failed to %s event: %w", op, err)
}

func (r *postgresEventRepository) Create(ctx context.Context, exec SQLExecutor, e *models.Event) error {
	query := `
		INSERT INTO events (name, description, start_date, end_date, location, poster_key, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := pick(r.db, exec).QueryRowContext(ctx, query,
		e.Name, e.Description, e.StartDate, e.EndDate, e.Location, e.PosterKey, e.IsActive,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return r.handleEventError(err, "create")
	}
	return nil
}

func (r *postgresEventRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events e WHERE e.id = $1`

	e := &models.Event{}
	if err := scanEvent(pick(r.db, exec).QueryRowContext(ctx, query, id), e); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return e, nil
}

func (r *postgresEventRepository) List(ctx context.Context, opts models.EventListOptions) ([]models.Event, error) {
	limit, offset := normalizePage(opts.Limit, opts.Offset, 20, 100)

	query := `SELECT ` + eventColumns + ` FROM events e`
	if opts.ActiveOnly {
		query += ` WHERE e.is_active`
	}
	query += ` ORDER BY e.start_date DESC, e.id DESC LIMIT $1 OFFSET $2`

	return r.queryEvents(ctx, query, limit, offset)
}

func (r *postgresEventRepository) ListByOrganiser(ctx context.Context, userID int) ([]models.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events e
		JOIN event_organisers o ON o.event_id = e.id
		WHERE o.user_id = $1
		ORDER BY e.start_date DESC, e.id DESC`
	return r.queryEvents(ctx, query, userID)
}

func (r *postgresEventRepository) ListByJudge(ctx context.Context, userID int) ([]models.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events e
		JOIN event_judges j ON j.event_id = e.id
		WHERE j.user_id = $1
		ORDER BY e.start_date DESC, e.id DESC`
	return r.queryEvents(ctx, query, userID)
}

func (r *postgresEventRepository) queryEvents(ctx context.Context, query string, args ...interface{}) ([]models.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		var e models.Event
		if err := scanEvent(rows, &e); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}
	return events, nil
}

func (r *postgresEventRepository) Update(ctx context.Context, exec SQLExecutor, e *models.Event) error {
	query := `
		UPDATE events SET
			name = $1,
			description = $2,
			start_date = $3,
			end_date = $4,
			location = $5,
			is_active = $6,
			updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at`

	err := pick(r.db, exec).QueryRowContext(ctx, query,
		e.Name, e.Description, e.StartDate, e.EndDate, e.Location, e.IsActive, e.ID,
	).Scan(&e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrEventNotFound
		}
		return r.handleEventError(err, "update")
	}
	return nil
}

func (r *postgresEventRepository) UpdatePosterKey(ctx context.Context, exec SQLExecutor, id int, posterKey *string) error {
	query := `UPDATE events SET poster_key = $1, updated_at = NOW() WHERE id = $2`
	result, err := pick(r.db, exec).ExecContext(ctx, query, posterKey, id)
	if err != nil {
		return fmt.Errorf("failed to update event poster: %w", err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

// Delete removes the event; teams, participant, judge, organiser, photo and sponsor rows go with it via ON DELETE CASCADE.
func (r *postgresEventRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	result, err := pick(r.db, exec).ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) AddPhoto(ctx context.Context, exec SQLExecutor, photo *models.EventPhoto) error {
	query := `INSERT INTO event_photos (event_id, object_key) VALUES ($1, $2) RETURNING id, created_at`
	err := pick(r.db, exec).QueryRowContext(ctx, query, photo.EventID, photo.ObjectKey).Scan(&photo.ID, &photo.CreatedAt)
	if err != nil {
		if code, _, ok := pqConstraint(err); ok && code == pqForeignKeyViolation {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to add event photo: %w", err)
	}
	return nil
}

func (r *postgresEventRepository) ListPhotos(ctx context.Context, eventID int) ([]models.EventPhoto, error) {
	query := `SELECT id, event_id, object_key, created_at FROM event_photos WHERE event_id = $1 ORDER BY created_at ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list event photos: %w", err)
	}
	defer rows.Close()

	photos := make([]models.EventPhoto, 0)
	for rows.Next() {
		var p models.EventPhoto
		if err := rows.Scan(&p.ID, &p.EventID, &p.ObjectKey, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event photo row: %w", err)
		}
		photos = append(photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event photo rows: %w", err)
	}
	return photos, nil
}

func (r *postgresEventRepository) Count(ctx context.Context, activeOnly bool) (int, error) {
	query := `SELECT COUNT(*) FROM events`
	if activeOnly {
		query += ` WHERE is_active`
	}
	var n int
	if err := r.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return n, nil
}
