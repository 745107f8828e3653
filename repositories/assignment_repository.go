package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/hackathon-hub/models"
)

var (
	ErrJudgeNotFound        = errors.New("judge assignment not found")
	ErrJudgeConflict        = errors.New("judge already assigned to this event")
	ErrOrganiserNotFound    = errors.New("organiser assignment not found")
	ErrOrganiserConflict    = errors.New("organiser already assigned to this event")
	ErrAssignmentRefInvalid = errors.New("assignment references a missing event or user")
)

type EventJudgeRepository interface {
	AddJudgeToEvent(ctx context.Context, exec SQLExecutor, eventID, userID int) error
	RemoveJudgeFromEvent(ctx context.Context, exec SQLExecutor, eventID, userID int) error
	FindJudge(ctx context.Context, exec SQLExecutor, eventID, userID int) (*models.EventAssignment, error)
	FindJudgesByEvent(ctx context.Context, eventID int) ([]models.SafeUser, error)
}

type EventOrganiserRepository interface {
	AddOrganiserToEvent(ctx context.Context, exec SQLExecutor, eventID, userID int) error
	RemoveOrganiserFromEvent(ctx context.Context, exec SQLExecutor, eventID, userID int) error
	FindOrganiser(ctx context.Context, exec SQLExecutor, eventID, userID int) (*models.EventAssignment, error)
	FindOrganisersByEvent(ctx context.Context, eventID int) ([]models.SafeUser, error)
}

// assignmentTable holds the SQL shared by the judge and organiser junction tables.
type assignmentTable struct {
	db       *sql.DB
	table    string
	pkey     string
	notFound error
	conflict error
}

func (a *assignmentTable) add(ctx context.Context, exec SQLExecutor, eventID, userID int) error {
	query := fmt.Sprintf(`INSERT INTO %s (event_id, user_id) VALUES ($1, $2)`, a.table)
	if _, err := pick(a.db, exec).ExecContext(ctx, query, eventID, userID); err != nil {
		if code, constraint, ok := pqConstraint(err); ok {
			switch {
			case code == pqUniqueViolation && constraint == a.pkey:
				return a.conflict
			case code == pqForeignKeyViolation:
				return ErrAssignmentRefInvalid
			}
		}
		return fmt.Errorf("failed to insert into %s: %w", a.table, err)
	}
	return nil
}

func (a *assignmentTable) remove(ctx context.Context, exec SQLExecutor, eventID, userID int) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE event_id = $1 AND user_id = $2`, a.table)
	result, err := pick(a.db, exec).ExecContext(ctx, query, eventID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", a.table, err)
	}
	return checkAffectedRows(result, a.notFound)
}

func (a *assignmentTable) find(ctx context.Context, exec SQLExecutor, eventID, userID int) (*models.EventAssignment, error) {
	query := fmt.Sprintf(`SELECT event_id, user_id, created_at FROM %s WHERE event_id = $1 AND user_id = $2`, a.table)
	var as models.EventAssignment
	err := pick(a.db, exec).QueryRowContext(ctx, query, eventID, userID).Scan(&as.EventID, &as.UserID, &as.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, a.notFound
		}
		return nil, fmt.Errorf("failed to query %s: %w", a.table, err)
	}
	return &as, nil
}

func (a *assignmentTable) usersByEvent(ctx context.Context, eventID int) ([]models.SafeUser, error) {
	query := fmt.Sprintf(`
		SELECT u.id, u.name, u.image
		FROM %s x
		JOIN users u ON u.id = x.user_id
		WHERE x.event_id = $1
		ORDER BY x.created_at ASC, u.id ASC`, a.table)

	rows, err := a.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", a.table, err)
	}
	defer rows.Close()

	users := make([]models.SafeUser, 0)
	for rows.Next() {
		var u models.SafeUser
		if err := rows.Scan(&u.ID, &u.Name, &u.Image); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", a.table, err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", a.table, err)
	}
	return users, nil
}

type postgresEventJudgeRepository struct {
	t assignmentTable
}

func NewPostgresEventJudgeRepository(db *sql.DB) EventJudgeRepository {
	return &postgresEventJudgeRepository{t: assignmentTable{
		db: db, table: "event_judges", pkey: "event_judges_pkey",
		notFound: ErrJudgeNotFound, conflict: ErrJudgeConflict,
	}}
}

func (r *postgresEventJudgeRepository) AddJudgeToEvent(ctx context.Context, exec SQLExecutor, eventID, userID int) error {
	return r.t.add(ctx, exec, eventID, userID)
}

func (r *postgresEventJudgeRepository) RemoveJudgeFromEvent(ctx context.Context, exec SQLExecutor, eventID, userID int) error {
	return r.t.remove(ctx, exec, eventID, userID)
}

func (r *postgresEventJudgeRepository) FindJudge(ctx context.Context, exec SQLExecutor, eventID, userID int) (*models.EventAssignment, error) {
	return r.t.find(ctx, exec, eventID, userID)
}

func (r *postgresEventJudgeRepository) FindJudgesByEvent(ctx context.Context, eventID int) ([]models.SafeUser, error) {
	return r.t.usersByEvent(ctx, eventID)
}

type postgresEventOrganiserRepository struct {
	t assignmentTable
}

func NewPostgresEventOrganiserRepository(db *sql.DB) EventOrganiserRepository {
	return &postgresEventOrganiserRepository{t: assignmentTable{
		db: db, table: "event_organisers", pkey: "event_organisers_pkey",
		notFound: ErrOrganiserNotFound, conflict: ErrOrganiserConflict,
	}}
}

func (r *postgresEventOrganiserRepository) AddOrganiserToEvent(ctx context.Context, exec SQLExecutor, eventID, userID int) error {
	return r.t.add(ctx, exec, eventID, userID)
}

func (r *postgresEventOrganiserRepository) RemoveOrganiserFromEvent(ctx context.Context, exec SQLExecutor, eventID, userID int) error {
	return r.t.remove(ctx, exec, eventID, userID)
}

func (r *postgresEventOrganiserRepository) FindOrganiser(ctx context.Context, exec SQLExecutor, eventID, userID int) (*models.EventAssignment, error) {
	return r.t.find(ctx, exec, eventID, userID)
}

func (r *postgresEventOrganiserRepository) FindOrganisersByEvent(ctx context.Context, eventID int) ([]models.SafeUser, error) {
	return r.t.usersByEvent(ctx, eventID)
}
