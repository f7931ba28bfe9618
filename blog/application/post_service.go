package application

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/dfryer1193/inkwell/blog/domain"
	"github.com/dfryer1193/inkwell/shared/db"
	"github.com/rs/zerolog/log"
)

// PostFields carries the caller-supplied fields of a post, without the
// store-assigned identity and timestamps.
type PostFields struct {
	Title    string
	Excerpt  string
	Content  string
	PostDate time.Time
}

// PostService owns the post lifecycle, including the coupling between a
// post row and its image artifact. All artifact I/O goes through the
// ImageStore; all row I/O through the repository. Mutations to a single
// post are serialized so the read-image-path / write-image-path sequence
// is atomic with respect to other mutators of the same id.
type PostService struct {
	db     *sql.DB
	repo   domain.PostRepository
	images domain.ImageStore
	locks  *postLocks
}

func NewPostService(sqlDB *sql.DB, repo domain.PostRepository, images domain.ImageStore) *PostService {
	return &PostService{
		db:     sqlDB,
		repo:   repo,
		images: images,
		locks:  newPostLocks(),
	}
}

// Create stores the optional image first and only then inserts the row, so
// a failed upload never leaves a partial post. If the insert itself fails,
// the freshly stored artifact is cleaned up best-effort.
func (s *PostService) Create(ctx context.Context, fields PostFields, image *domain.ImageUpload) (*domain.Post, error) {
	if err := validateFields(fields); err != nil {
		return nil, err
	}

	var imagePath *string
	if image != nil {
		ref, err := s.images.Store(image)
		if err != nil {
			return nil, err
		}
		imagePath = &ref
	}

	now := time.Now().UTC()
	post := &domain.Post{
		Title:     fields.Title,
		Excerpt:   fields.Excerpt,
		Content:   fields.Content,
		ImagePath: imagePath,
		PostDate:  fields.PostDate,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, post); err != nil {
		if imagePath != nil {
			s.discardArtifact(*imagePath)
		}
		return nil, err
	}

	return post, nil
}

// Get retrieves a single post by id.
func (s *PostService) Get(ctx context.Context, id int64) (*domain.Post, error) {
	return s.repo.Get(ctx, id)
}

// List returns all posts, most recent logical date first.
func (s *PostService) List(ctx context.Context) ([]*domain.Post, error) {
	return s.repo.List(ctx)
}

// Update applies new field values and the image directive to a post.
//
// For a replacement the new artifact is written before the old one is
// deleted, so a failure partway never leaves the post without a valid
// image. A genuine storage failure while deleting the old artifact aborts
// the row update (the transaction rolls back) and the new artifact is
// discarded; the post keeps its previous state.
func (s *PostService) Update(ctx context.Context, id int64, fields PostFields, directive domain.ImageDirective) (*domain.Post, error) {
	if err := validateFields(fields); err != nil {
		return nil, err
	}

	s.locks.lock(id)
	defer s.locks.unlock(id)

	var updated *domain.Post
	var storedRef string

	err := db.RunInTransaction(ctx, s.db, func(txCtx context.Context) error {
		current, err := s.repo.Get(txCtx, id)
		if err != nil {
			return err
		}

		imagePath := current.ImagePath

		switch {
		case directive.Replacement() != nil:
			ref, err := s.images.Store(directive.Replacement())
			if err != nil {
				return err
			}
			storedRef = ref

			// Old artifact goes only after the new one is safely on disk.
			if current.ImagePath != nil {
				if err := s.images.Delete(*current.ImagePath); err != nil {
					return err
				}
			}
			imagePath = &ref

		case directive.Removes():
			if current.ImagePath != nil {
				if err := s.images.Delete(*current.ImagePath); err != nil {
					return err
				}
			}
			imagePath = nil
		}

		post := &domain.Post{
			ID:        id,
			Title:     fields.Title,
			Excerpt:   fields.Excerpt,
			Content:   fields.Content,
			ImagePath: imagePath,
			PostDate:  fields.PostDate,
			CreatedAt: current.CreatedAt,
			UpdatedAt: time.Now().UTC(),
		}

		if err := s.repo.Update(txCtx, post); err != nil {
			return err
		}

		updated = post
		return nil
	})

	if err != nil {
		if storedRef != "" {
			s.discardArtifact(storedRef)
		}
		return nil, err
	}

	return updated, nil
}

// Delete removes a post and its artifact together. The artifact is deleted
// first; an already-missing artifact is fine, but a genuine storage failure
// aborts the row deletion so the post is never silently severed from a file
// we could not confirm gone.
func (s *PostService) Delete(ctx context.Context, id int64) error {
	s.locks.lock(id)
	defer s.locks.unlock(id)

	return db.RunInTransaction(ctx, s.db, func(txCtx context.Context) error {
		current, err := s.repo.Get(txCtx, id)
		if err != nil {
			return err
		}

		if current.ImagePath != nil {
			if err := s.images.Delete(*current.ImagePath); err != nil {
				return err
			}
		}

		return s.repo.Delete(txCtx, id)
	})
}

// discardArtifact removes an artifact whose owning row mutation did not
// commit. Failure here only leaks a file no row references, so it is
// logged rather than surfaced.
func (s *PostService) discardArtifact(ref string) {
	if err := s.images.Delete(ref); err != nil {
		log.Warn().Err(err).Str("artifact", ref).Msg("Failed to discard orphaned artifact")
	}
}

func validateFields(fields PostFields) error {
	if strings.TrimSpace(fields.Title) == "" {
		return &domain.ValidationError{Field: "title", Reason: "required"}
	}
	if strings.TrimSpace(fields.Excerpt) == "" {
		return &domain.ValidationError{Field: "excerpt", Reason: "required"}
	}
	if strings.TrimSpace(fields.Content) == "" {
		return &domain.ValidationError{Field: "content", Reason: "required"}
	}
	if fields.PostDate.IsZero() {
		return &domain.ValidationError{Field: "post_date", Reason: "required"}
	}
	return nil
}
