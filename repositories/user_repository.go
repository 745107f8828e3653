package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dosada05/hackathon-hub/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserEmailConflict = errors.New("user email conflict")
)

type UserRepository interface {
	Create(ctx context.Context, exec SQLExecutor, user *models.User) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// UpsertByEmail inserts the user on first sign-in, otherwise refreshes name and image.
	UpsertByEmail(ctx context.Context, user *models.User) error
	UpdateRoles(ctx context.Context, id int, isAdmin, isJudge bool) (*models.User, error)
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	Count(ctx context.Context) (int, error)
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error)
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

const userColumns = `id, name, email, image, is_admin, is_judge, created_at`

func scanUser(row rowScanner, u *models.User) error {
	return row.Scan(&u.ID, &u.Name, &u.Email, &u.Image, &u.IsAdmin, &u.IsJudge, &u.CreatedAt)
}

func (r *postgresUserRepository) Create(ctx context.Context, exec SQLExecutor, user *models.User) error {
	query := `
		INSERT INTO users (name, email, image, is_admin, is_judge)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := pick(r.db, exec).QueryRowContext(ctx, query,
		user.Name, user.Email, user.Image, user.IsAdmin, user.IsJudge,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if code, constraint, ok := pqConstraint(err); ok && code == pqUniqueViolation && constraint == "users_email_key" {
			return ErrUserEmailConflict
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *postgresUserRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.findOne(ctx, pick(r.db, exec), query, id)
}

func (r *postgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.findOne(ctx, r.db, query, strings.ToLower(email))
}

func (r *postgresUserRepository) findOne(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) (*models.User, error) {
	u := &models.User{}
	if err := scanUser(exec.QueryRowContext(ctx, query, args...), u); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return u, nil
}

func (r *postgresUserRepository) UpsertByEmail(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (name, email, image)
		VALUES ($1, $2, $3)
		ON CONFLICT ON CONSTRAINT users_email_key DO UPDATE SET
			name = COALESCE(NULLIF(EXCLUDED.name, ''), users.name),
			image = COALESCE(EXCLUDED.image, users.image)
		RETURNING ` + userColumns

	user.Email = strings.ToLower(user.Email)
	if err := scanUser(r.db.QueryRowContext(ctx, query, user.Name, user.Email, user.Image), user); err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

func (r *postgresUserRepository) UpdateRoles(ctx context.Context, id int, isAdmin, isJudge bool) (*models.User, error) {
	query := `UPDATE users SET is_admin = $1, is_judge = $2 WHERE id = $3 RETURNING ` + userColumns
	return r.findOne(ctx, r.db, query, isAdmin, isJudge, id)
}

func (r *postgresUserRepository) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	limit, offset := normalizePage(filter.Limit, filter.Offset, 20, 100)

	where := ""
	args := []interface{}{}
	if s := strings.TrimSpace(filter.Search); s != "" {
		where = " WHERE name ILIKE $1 OR email ILIKE $1"
		args = append(args, "%"+s+"%")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM users%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		userColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var u models.User
		if err := scanUser(rows, &u); err != nil {
			return nil, 0, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, total, nil
}

func (r *postgresUserRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

func (r *postgresUserRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM users WHERE created_at >= $1 AND created_at < $2`
	if err := r.db.QueryRowContext(ctx, query, from, to).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users created in window: %w", err)
	}
	return n, nil
}
