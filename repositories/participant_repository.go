package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/hackathon-hub/models"
)

var (
	ErrParticipantNotFound     = errors.New("participant not found")
	ErrParticipantConflict     = errors.New("participant conflict: user already registered for this event")
	ErrParticipantUserInvalid  = errors.New("participant user conflict or invalid")
	ErrParticipantEventInvalid = errors.New("participant event conflict or invalid")
	ErrParticipantTeamInvalid  = errors.New("participant team conflict or invalid")
)

type EventParticipantRepository interface {
	Create(ctx context.Context, exec SQLExecutor, p *models.EventParticipant) error
	FindByEventAndUser(ctx context.Context, exec SQLExecutor, eventID, userID int) (*models.EventParticipant, error)
	// ListByEvent returns participants joined with their public user projection.
	ListByEvent(ctx context.Context, eventID int) ([]models.ParticipantView, error)
	UpdateTeam(ctx context.Context, exec SQLExecutor, eventID, userID int, teamID *int) error
	Delete(ctx context.Context, exec SQLExecutor, eventID, userID int) error
}

type postgresEventParticipantRepository struct {
	db *sql.DB
}

func NewPostgresEventParticipantRepository(db *sql.DB) EventParticipantRepository {
	return &postgresEventParticipantRepository{db: db}
}

func (r *postgresEventParticipantRepository) Create(ctx context.Context, exec SQLExecutor, p *models.EventParticipant) error {
	query := `
		INSERT INTO event_participants (event_id, user_id, team_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := pick(r.db, exec).QueryRowContext(ctx, query, p.EventID, p.UserID, p.TeamID).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if code, constraint, ok := pqConstraint(err); ok {
			switch code {
			case pqUniqueViolation:
				if constraint == "event_participants_event_id_user_id_key" {
					return ErrParticipantConflict
				}
			case pqForeignKeyViolation:
				switch constraint {
				case "event_participants_user_id_fkey":
					return ErrParticipantUserInvalid
				case "event_participants_event_id_fkey":
					return ErrParticipantEventInvalid
				case "event_participants_team_id_fkey":
					return ErrParticipantTeamInvalid
				}
			}
		}
		return fmt.Errorf("failed to create participant: %w", err)
	}
	return nil
}

func (r *postgresEventParticipantRepository) FindByEventAndUser(ctx context.Context, exec SQLExecutor, eventID, userID int) (*models.EventParticipant, error) {
	query := `SELECT id, event_id, user_id, team_id, created_at FROM event_participants WHERE event_id = $1 AND user_id = $2`

	p := &models.EventParticipant{}
	err := pick(r.db, exec).QueryRowContext(ctx, query, eventID, userID).Scan(&p.ID, &p.EventID, &p.UserID, &p.TeamID, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to find participant: %w", err)
	}
	return p, nil
}

func (r *postgresEventParticipantRepository) ListByEvent(ctx context.Context, eventID int) ([]models.ParticipantView, error) {
	query := `
		SELECT u.id, u.name, u.image, p.team_id
		FROM event_participants p
		JOIN users u ON u.id = p.user_id
		WHERE p.event_id = $1
		ORDER BY p.created_at ASC, p.id ASC`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants by event: %w", err)
	}
	defer rows.Close()

	participants := make([]models.ParticipantView, 0)
	for rows.Next() {
		var v models.ParticipantView
		if err := rows.Scan(&v.ID, &v.Name, &v.Image, &v.TeamID); err != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", err)
		}
		participants = append(participants, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participant rows: %w", err)
	}
	return participants, nil
}

func (r *postgresEventParticipantRepository) UpdateTeam(ctx context.Context, exec SQLExecutor, eventID, userID int, teamID *int) error {
	query := `UPDATE event_participants SET team_id = $1 WHERE event_id = $2 AND user_id = $3`
	result, err := pick(r.db, exec).ExecContext(ctx, query, teamID, eventID, userID)
	if err != nil {
		if code, _, ok := pqConstraint(err); ok && code == pqForeignKeyViolation {
			return ErrParticipantTeamInvalid
		}
		return fmt.Errorf("failed to update participant team: %w", err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresEventParticipantRepository) Delete(ctx context.Context, exec SQLExecutor, eventID, userID int) error {
	query := `DELETE FROM event_participants WHERE event_id = $1 AND user_id = $2`
	result, err := pick(r.db, exec).ExecContext(ctx, query, eventID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}
