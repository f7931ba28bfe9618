package domain

import (
	"context"
	"time"
)

// Post represents a blog post.
// ImagePath is nil when the post has no attached image; when set it names an
// artifact managed by the ImageStore. PostDate is the caller-supplied logical
// date used for ordering, distinct from the store-assigned timestamps.
type Post struct {
	ID        int64
	Title     string
	Excerpt   string
	Content   string
	ImagePath *string
	PostDate  time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

type PostRepository interface {
	// Insert persists a new post and assigns its ID.
	Insert(ctx context.Context, p *Post) error

	// Get retrieves a single post by ID, returning ErrPostNotFound if absent.
	Get(ctx context.Context, id int64) (*Post, error)

	// List returns all posts ordered by post_date descending,
	// ties broken by created_at descending.
	List(ctx context.Context) ([]*Post, error)

	// Update overwrites all mutable fields of the post identified by p.ID,
	// returning ErrPostNotFound if absent.
	Update(ctx context.Context, p *Post) error

	// Delete removes a post row, returning ErrPostNotFound if absent.
	Delete(ctx context.Context, id int64) error
}
