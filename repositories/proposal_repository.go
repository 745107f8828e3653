package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/hackathon-hub/models"
)

var (
	ErrProposalTeamNotFound = errors.New("proposal team not found")
	ErrProposalTeamConflict = errors.New("user already owns a proposal team")
	ErrProposalUserInvalid  = errors.New("proposal team owner conflict or invalid")
)

// ProposalRepository stores teams submitted through the proposal flow (team_details + team_members).
type ProposalRepository interface {
	CreateWithMembers(ctx context.Context, exec SQLExecutor, team *models.TeamDetails) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.TeamDetails, error)
	GetByUserID(ctx context.Context, exec SQLExecutor, userID int) (*models.TeamDetails, error)
	UpdateProposal(ctx context.Context, exec SQLExecutor, id int, proposalKey *string, status models.ApprovalStatus) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.ApprovalStatus) error
	List(ctx context.Context, filter models.ProposalFilter) ([]models.TeamDetails, error)
	CountByStatus(ctx context.Context) (models.StatusBreakdown, error)
	Count(ctx context.Context) (int, error)
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error)
}

type postgresProposalRepository struct {
	db *sql.DB
}

func NewPostgresProposalRepository(db *sql.DB) ProposalRepository {
	return &postgresProposalRepository{db: db}
}

const teamDetailsColumns = `id, user_id, team_name, idea_title, proposal_key, status, created_at, updated_at`

func scanTeamDetails(row rowScanner, t *models.TeamDetails) error {
	return row.Scan(&t.ID, &t.UserID, &t.TeamName, &t.IdeaTitle, &t.ProposalKey, &t.Status, &t.CreatedAt, &t.UpdatedAt)
}

// CreateWithMembers inserts the team header and every member using exec, which should be a transaction.
func (r *postgresProposalRepository) CreateWithMembers(ctx context.Context, exec SQLExecutor, team *models.TeamDetails) error {
	executor := pick(r.db, exec)

	query := `
		INSERT INTO team_details (user_id, team_name, idea_title, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	if team.Status == "" {
		team.Status = models.ApprovalPending
	}
	err := executor.QueryRowContext(ctx, query, team.UserID, team.TeamName, team.IdeaTitle, team.Status).
		Scan(&team.ID, &team.CreatedAt, &team.UpdatedAt)
	if err != nil {
		if code, constraint, ok := pqConstraint(err); ok {
			switch {
			case code == pqUniqueViolation && constraint == "team_details_user_id_key":
				return ErrProposalTeamConflict
			case code == pqForeignKeyViolation:
				return ErrProposalUserInvalid
			}
		}
		return fmt.Errorf("failed to create proposal team: %w", err)
	}

	memberQuery := `
		INSERT INTO team_members (team_id, name, email, phone, institution, dietary_preference, tshirt_size, is_leader)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	for i := range team.Members {
		m := &team.Members[i]
		m.TeamID = team.ID
		err := executor.QueryRowContext(ctx, memberQuery,
			m.TeamID, m.Name, m.Email, m.Phone, m.Institution, m.DietaryPreference, m.TShirtSize, m.IsLeader,
		).Scan(&m.ID, &m.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create team member %d: %w", i+1, err)
		}
	}
	return nil
}

func (r *postgresProposalRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.TeamDetails, error) {
	return r.getOne(ctx, pick(r.db, exec), `SELECT `+teamDetailsColumns+` FROM team_details WHERE id = $1`, id)
}

func (r *postgresProposalRepository) GetByUserID(ctx context.Context, exec SQLExecutor, userID int) (*models.TeamDetails, error) {
	return r.getOne(ctx, pick(r.db, exec), `SELECT `+teamDetailsColumns+` FROM team_details WHERE user_id = $1`, userID)
}

func (r *postgresProposalRepository) getOne(ctx context.Context, exec SQLExecutor, query string, arg int) (*models.TeamDetails, error) {
	t := &models.TeamDetails{}
	if err := scanTeamDetails(exec.QueryRowContext(ctx, query, arg), t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProposalTeamNotFound
		}
		return nil, fmt.Errorf("failed to get proposal team: %w", err)
	}
	members, err := r.listMembers(ctx, exec, t.ID)
	if err != nil {
		return nil, err
	}
	t.Members = members
	return t, nil
}

func (r *postgresProposalRepository) listMembers(ctx context.Context, exec SQLExecutor, teamID int) ([]models.TeamMember, error) {
	query := `
		SELECT id, team_id, name, email, phone, institution, dietary_preference, tshirt_size, is_leader, created_at
		FROM team_members
		WHERE team_id = $1
		ORDER BY is_leader DESC, id ASC`

	rows, err := exec.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	defer rows.Close()

	members := make([]models.TeamMember, 0)
	for rows.Next() {
		var m models.TeamMember
		if err := rows.Scan(&m.ID, &m.TeamID, &m.Name, &m.Email, &m.Phone, &m.Institution,
			&m.DietaryPreference, &m.TShirtSize, &m.IsLeader, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team member row: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team member rows: %w", err)
	}
	return members, nil
}

func (r *postgresProposalRepository) UpdateProposal(ctx context.Context, exec SQLExecutor, id int, proposalKey *string, status models.ApprovalStatus) error {
	query := `UPDATE team_details SET proposal_key = $1, status = $2, updated_at = NOW() WHERE id = $3`
	result, err := pick(r.db, exec).ExecContext(ctx, query, proposalKey, status, id)
	if err != nil {
		return fmt.Errorf("failed to update proposal: %w", err)
	}
	return checkAffectedRows(result, ErrProposalTeamNotFound)
}

func (r *postgresProposalRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.ApprovalStatus) error {
	query := `UPDATE team_details SET status = $1, updated_at = NOW() WHERE id = $2`
	result, err := pick(r.db, exec).ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update proposal status: %w", err)
	}
	return checkAffectedRows(result, ErrProposalTeamNotFound)
}

func (r *postgresProposalRepository) List(ctx context.Context, filter models.ProposalFilter) ([]models.TeamDetails, error) {
	limit, offset := normalizePage(filter.Limit, filter.Offset, 20, 100)

	query := `SELECT ` + teamDetailsColumns + ` FROM team_details`
	args := []interface{}{}
	if filter.Status != nil {
		query += ` WHERE status = $1`
		args = append(args, *filter.Status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}
	defer rows.Close()

	teams := make([]models.TeamDetails, 0)
	for rows.Next() {
		var t models.TeamDetails
		if err := scanTeamDetails(rows, &t); err != nil {
			return nil, fmt.Errorf("failed to scan proposal row: %w", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating proposal rows: %w", err)
	}
	return teams, nil
}

func (r *postgresProposalRepository) CountByStatus(ctx context.Context) (models.StatusBreakdown, error) {
	var b models.StatusBreakdown
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM team_details GROUP BY status`)
	if err != nil {
		return b, fmt.Errorf("failed to count proposals by status: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status models.ApprovalStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return b, fmt.Errorf("failed to scan status count: %w", err)
		}
		switch status {
		case models.ApprovalPending:
			b.Pending = n
		case models.ApprovalApproved:
			b.Approved = n
		case models.ApprovalRejected:
			b.Rejected = n
		}
	}
	if err := rows.Err(); err != nil {
		return b, fmt.Errorf("error iterating status counts: %w", err)
	}
	return b, nil
}

func (r *postgresProposalRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM team_details`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count proposal teams: %w", err)
	}
	return n, nil
}

func (r *postgresProposalRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM team_details WHERE created_at >= $1 AND created_at < $2`
	if err := r.db.QueryRowContext(ctx, query, from, to).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count proposal teams created in window: %w", err)
	}
	return n, nil
}
