package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/hackathon-hub/models"
)

var (
	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamNameConflict = errors.New("team name already used in this event")
	ErrTeamEventInvalid = errors.New("team event conflict or invalid")
)

type EventTeamRepository interface {
	Create(ctx context.Context, exec SQLExecutor, team *models.EventTeam) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.EventTeam, error)
	// FindByEventAndName matches the name case-insensitively.
	FindByEventAndName(ctx context.Context, exec SQLExecutor, eventID int, name string) (*models.EventTeam, error)
	ListByEvent(ctx context.Context, eventID int) ([]models.EventTeam, error)
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresEventTeamRepository struct {
	db *sql.DB
}

func NewPostgresEventTeamRepository(db *sql.DB) EventTeamRepository {
	return &postgresEventTeamRepository{db: db}
}

func (r *postgresEventTeamRepository) Create(ctx context.Context, exec SQLExecutor, team *models.EventTeam) error {
	query := `INSERT INTO event_teams (event_id, name) VALUES ($1, $2) RETURNING id, created_at`

	err := pick(r.db, exec).QueryRowContext(ctx, query, team.EventID, team.Name).Scan(&team.ID, &team.CreatedAt)
	if err != nil {
		if code, constraint, ok := pqConstraint(err); ok {
			switch {
			case code == pqUniqueViolation && constraint == "event_teams_event_id_lower_name_key":
				return ErrTeamNameConflict
			case code == pqForeignKeyViolation:
				return ErrTeamEventInvalid
			}
		}
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

func (r *postgresEventTeamRepository) findOne(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) (*models.EventTeam, error) {
	t := &models.EventTeam{}
	err := pick(r.db, exec).QueryRowContext(ctx, query, args...).Scan(&t.ID, &t.EventID, &t.Name, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}
	return t, nil
}

func (r *postgresEventTeamRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.EventTeam, error) {
	query := `SELECT id, event_id, name, created_at FROM event_teams WHERE id = $1`
	return r.findOne(ctx, exec, query, id)
}

func (r *postgresEventTeamRepository) FindByEventAndName(ctx context.Context, exec SQLExecutor, eventID int, name string) (*models.EventTeam, error) {
	query := `SELECT id, event_id, name, created_at FROM event_teams WHERE event_id = $1 AND LOWER(name) = LOWER($2)`
	return r.findOne(ctx, exec, query, eventID, strings.TrimSpace(name))
}

func (r *postgresEventTeamRepository) ListByEvent(ctx context.Context, eventID int) ([]models.EventTeam, error) {
	query := `SELECT id, event_id, name, created_at FROM event_teams WHERE event_id = $1 ORDER BY created_at ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	teams := make([]models.EventTeam, 0)
	for rows.Next() {
		var t models.EventTeam
		if err := rows.Scan(&t.ID, &t.EventID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team rows: %w", err)
	}
	return teams, nil
}

// Delete removes the team. Participants keep their event registration; their team_id becomes NULL.
func (r *postgresEventTeamRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	result, err := pick(r.db, exec).ExecContext(ctx, `DELETE FROM event_teams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}
