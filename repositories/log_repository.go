package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Dosada05/hackathon-hub/models"
)

type LogRepository interface {
	Insert(ctx context.Context, entry *models.LogEntry) error
	List(ctx context.Context, filter models.LogFilter) ([]models.LogEntry, error)
}

type postgresLogRepository struct {
	db *sql.DB
}

func NewPostgresLogRepository(db *sql.DB) LogRepository {
	return &postgresLogRepository{db: db}
}

func (r *postgresLogRepository) Insert(ctx context.Context, e *models.LogEntry) error {
	query := `
		INSERT INTO logs (level, message, correlation_id, context, user_id, meta)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	var meta interface{}
	if len(e.Meta) > 0 {
		meta = []byte(e.Meta)
	}
	err := r.db.QueryRowContext(ctx, query, e.Level, e.Message, e.CorrelationID, e.Context, e.UserID, meta).
		Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert log entry: %w", err)
	}
	return nil
}

func (r *postgresLogRepository) List(ctx context.Context, filter models.LogFilter) ([]models.LogEntry, error) {
	limit, offset := normalizePage(filter.Limit, filter.Offset, 50, 200)

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT id, level, message, correlation_id, context, user_id, meta, created_at FROM logs WHERE 1=1`)
	args := []interface{}{}
	argID := 1

	if filter.UserID != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND user_id = $%d", argID))
		args = append(args, *filter.UserID)
		argID++
	}
	if filter.Level != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND level = $%d", argID))
		args = append(args, *filter.Level)
		argID++
	}
	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}
	defer rows.Close()

	entries := make([]models.LogEntry, 0)
	for rows.Next() {
		var e models.LogEntry
		var meta []byte
		if err := rows.Scan(&e.ID, &e.Level, &e.Message, &e.CorrelationID, &e.Context, &e.UserID, &meta, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan log row: %w", err)
		}
		if len(meta) > 0 {
			e.Meta = meta
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating log rows: %w", err)
	}
	return entries, nil
}
