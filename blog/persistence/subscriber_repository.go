package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dfryer1193/inkwell/blog/domain"
	"github.com/dfryer1193/inkwell/shared/db"
)

var _ domain.SubscriberRepository = (*SQLiteSubscriberRepository)(nil)

// SQLiteSubscriberRepository implements domain.SubscriberRepository using SQL database (SQLite)
type SQLiteSubscriberRepository struct {
	db *sql.DB
}

// NewSubscriberRepository creates a new SQLiteSubscriberRepository from a standard sql.DB
func NewSubscriberRepository(sqlDB *sql.DB) *SQLiteSubscriberRepository {
	return &SQLiteSubscriberRepository{
		db: sqlDB,
	}
}

const insertSubscriberQuery = `
	INSERT INTO subscribers (email, subscribed_at)
	VALUES (?, ?)
`

// Insert persists a new subscriber. The UNIQUE constraint on email is the
// source of truth for duplicates; a constraint violation surfaces as
// domain.ErrDuplicateEmail.
func (r *SQLiteSubscriberRepository) Insert(ctx context.Context, s *domain.Subscriber) error {
	if s == nil {
		return fmt.Errorf("subscriber cannot be nil")
	}

	if s.Email == "" {
		return fmt.Errorf("subscriber email cannot be empty")
	}

	executor := db.GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, insertSubscriberQuery, s.Email, s.SubscribedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%q: %w", s.Email, domain.ErrDuplicateEmail)
		}
		return fmt.Errorf("failed to insert subscriber: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted subscriber id: %w", err)
	}
	s.ID = id

	return nil
}

const listSubscribersQuery = `
	SELECT id, email, subscribed_at
	FROM subscribers
	ORDER BY subscribed_at DESC, id DESC
`

// List retrieves all subscribers, most recent first.
func (r *SQLiteSubscriberRepository) List(ctx context.Context) ([]*domain.Subscriber, error) {
	executor := db.GetExecutor(ctx, r.db)

	rows, err := executor.QueryContext(ctx, listSubscribersQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	defer rows.Close()

	subscribers := make([]*domain.Subscriber, 0)
	for rows.Next() {
		var row subscriberRow
		if err := rows.Scan(&row.ID, &row.Email, &row.SubscribedAt); err != nil {
			return nil, fmt.Errorf("failed to scan subscriber row: %w", err)
		}
		subscribers = append(subscribers, row.toDomain())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscriber rows: %w", err)
	}

	return subscribers, nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure. The modernc driver exposes no typed constraint error, so this
// matches the stable message text.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// subscriberRow is a private struct used to scan database rows
type subscriberRow struct {
	ID           int64        `db:"id"`
	Email        string       `db:"email"`
	SubscribedAt sql.NullTime `db:"subscribed_at"`
}

// toDomain converts a subscriberRow to a domain.Subscriber
func (sr *subscriberRow) toDomain() *domain.Subscriber {
	sub := &domain.Subscriber{
		ID:    sr.ID,
		Email: sr.Email,
	}

	if sr.SubscribedAt.Valid {
		sub.SubscribedAt = sr.SubscribedAt.Time
	}

	return sub
}
