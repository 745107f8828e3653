package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/hackathon-hub/models"
)

var ErrSponsorNotFound = errors.New("sponsor not found")

type SponsorRepository interface {
	Create(ctx context.Context, exec SQLExecutor, sponsor *models.Sponsor) error
	ListByEvent(ctx context.Context, eventID int) ([]models.Sponsor, error)
	Delete(ctx context.Context, exec SQLExecutor, eventID, sponsorID int) error
}

type postgresSponsorRepository struct {
	db *sql.DB
}

func NewPostgresSponsorRepository(db *sql.DB) SponsorRepository {
	return &postgresSponsorRepository{db: db}
}

func (r *postgresSponsorRepository) Create(ctx context.Context, exec SQLExecutor, s *models.Sponsor) error {
	query := `INSERT INTO sponsors (event_id, name, website, tier) VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	err := pick(r.db, exec).QueryRowContext(ctx, query, s.EventID, s.Name, s.Website, s.Tier).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		if code, _, ok := pqConstraint(err); ok && code == pqForeignKeyViolation {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to create sponsor: %w", err)
	}
	return nil
}

func (r *postgresSponsorRepository) ListByEvent(ctx context.Context, eventID int) ([]models.Sponsor, error) {
	query := `
		SELECT id, event_id, name, website, tier, created_at
		FROM sponsors
		WHERE event_id = $1
		ORDER BY CASE tier WHEN 'gold' THEN 0 WHEN 'silver' THEN 1 WHEN 'bronze' THEN 2 ELSE 3 END, name ASC`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sponsors: %w", err)
	}
	defer rows.Close()

	sponsors := make([]models.Sponsor, 0)
	for rows.Next() {
		var s models.Sponsor
		if err := rows.Scan(&s.ID, &s.EventID, &s.Name, &s.Website, &s.Tier, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sponsor row: %w", err)
		}
		sponsors = append(sponsors, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sponsor rows: %w", err)
	}
	return sponsors, nil
}

func (r *postgresSponsorRepository) Delete(ctx context.Context, exec SQLExecutor, eventID, sponsorID int) error {
	result, err := pick(r.db, exec).ExecContext(ctx, `DELETE FROM sponsors WHERE id = $1 AND event_id = $2`, sponsorID, eventID)
	if err != nil {
		return fmt.Errorf("failed to delete sponsor: %w", err)
	}
	return checkAffectedRows(result, ErrSponsorNotFound)
}
