package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dfryer1193/inkwell/blog/domain"
	"github.com/dfryer1193/inkwell/shared/db"
)

var _ domain.PostRepository = (*SQLitePostRepository)(nil)

// SQLitePostRepository implements domain.PostRepository using SQL database (SQLite).
// It owns the posts relation only; artifact I/O lives behind domain.ImageStore.
type SQLitePostRepository struct {
	db *sql.DB
}

// NewPostRepository creates a new SQLitePostRepository from a standard sql.DB
func NewPostRepository(db *sql.DB) *SQLitePostRepository {
	return &SQLitePostRepository{
		db: db,
	}
}

const insertPostQuery = `
	INSERT INTO posts (title, excerpt, content, image_path, post_date, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
`

// Insert persists a new post and assigns the generated row id.
func (r *SQLitePostRepository) Insert(ctx context.Context, p *domain.Post) error {
	if p == nil {
		return fmt.Errorf("post cannot be nil")
	}

	executor := db.GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, insertPostQuery,
		p.Title,
		p.Excerpt,
		p.Content,
		nullableString(p.ImagePath),
		p.PostDate,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted post id: %w", err)
	}
	p.ID = id

	return nil
}

const getPostQuery = `
	SELECT id, title, excerpt, content, image_path, post_date, created_at, updated_at
	FROM posts
	WHERE id = ?
`

// Get retrieves a single post by ID
func (r *SQLitePostRepository) Get(ctx context.Context, id int64) (*domain.Post, error) {
	executor := db.GetExecutor(ctx, r.db)

	var row postRow
	err := executor.QueryRowContext(ctx, getPostQuery, id).Scan(
		&row.ID,
		&row.Title,
		&row.Excerpt,
		&row.Content,
		&row.ImagePath,
		&row.PostDate,
		&row.CreatedAt,
		&row.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("post %d: %w", id, domain.ErrPostNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return row.toDomain(), nil
}

const listPostsQuery = `
	SELECT id, title, excerpt, content, image_path, post_date, created_at, updated_at
	FROM posts
	ORDER BY post_date DESC, created_at DESC
`

// List retrieves all posts ordered by logical date descending, with the most
// recently created first among posts sharing a date.
func (r *SQLitePostRepository) List(ctx context.Context) ([]*domain.Post, error) {
	executor := db.GetExecutor(ctx, r.db)

	rows, err := executor.QueryContext(ctx, listPostsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]*domain.Post, 0)
	for rows.Next() {
		var row postRow
		err := rows.Scan(
			&row.ID,
			&row.Title,
			&row.Excerpt,
			&row.Content,
			&row.ImagePath,
			&row.PostDate,
			&row.CreatedAt,
			&row.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, row.toDomain())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}

	return posts, nil
}

const updatePostQuery = `
	UPDATE posts
	SET title = ?, excerpt = ?, content = ?, image_path = ?, post_date = ?, updated_at = ?
	WHERE id = ?
`

// Update overwrites the mutable fields of the post identified by p.ID.
// created_at is never touched.
func (r *SQLitePostRepository) Update(ctx context.Context, p *domain.Post) error {
	if p == nil {
		return fmt.Errorf("post cannot be nil")
	}

	executor := db.GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, updatePostQuery,
		p.Title,
		p.Excerpt,
		p.Content,
		nullableString(p.ImagePath),
		p.PostDate,
		p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("post %d: %w", p.ID, domain.ErrPostNotFound)
	}

	return nil
}

const deletePostQuery = `
	DELETE FROM posts WHERE id = ?
`

// Delete removes a post row by ID
func (r *SQLitePostRepository) Delete(ctx context.Context, id int64) error {
	executor := db.GetExecutor(ctx, r.db)

	result, err := executor.ExecContext(ctx, deletePostQuery, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("post %d: %w", id, domain.ErrPostNotFound)
	}

	return nil
}

// postRow is a private struct used to scan database rows
// It uses sql.NullString to handle the nullable image_path column
// and provides a method to convert to the domain.Post model
type postRow struct {
	ID        int64          `db:"id"`
	Title     string         `db:"title"`
	Excerpt   string         `db:"excerpt"`
	Content   string         `db:"content"`
	ImagePath sql.NullString `db:"image_path"`
	PostDate  sql.NullTime   `db:"post_date"`
	CreatedAt sql.NullTime   `db:"created_at"`
	UpdatedAt sql.NullTime   `db:"updated_at"`
}

// toDomain converts a postRow to a domain.Post, handling nullable columns
func (pr *postRow) toDomain() *domain.Post {
	post := &domain.Post{
		ID:      pr.ID,
		Title:   pr.Title,
		Excerpt: pr.Excerpt,
		Content: pr.Content,
	}

	if pr.ImagePath.Valid {
		path := pr.ImagePath.String
		post.ImagePath = &path
	}
	if pr.PostDate.Valid {
		post.PostDate = pr.PostDate.Time
	}
	if pr.CreatedAt.Valid {
		post.CreatedAt = pr.CreatedAt.Time
	}
	if pr.UpdatedAt.Valid {
		post.UpdatedAt = pr.UpdatedAt.Time
	}

	return post
}

// nullableString maps an optional string to its SQL representation.
func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
