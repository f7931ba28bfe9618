package rest

import (
	"errors"
	"net/http"
	"time"

	"github.com/dfryer1193/inkwell/blog/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const postDateFormat = "2006-01-02"

// postView is the JSON shape of a post.
type postView struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Excerpt   string  `json:"excerpt"`
	Content   string  `json:"content"`
	ImagePath *string `json:"image_path"`
	PostDate  string  `json:"post_date"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

func toPostView(p *domain.Post) postView {
	return postView{
		ID:        p.ID,
		Title:     p.Title,
		Excerpt:   p.Excerpt,
		Content:   p.Content,
		ImagePath: p.ImagePath,
		PostDate:  p.PostDate.Format(postDateFormat),
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
}

// subscriberView is the JSON shape of a subscriber.
type subscriberView struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	SubscribedAt string `json:"subscribed_at"`
}

func toSubscriberView(s *domain.Subscriber) subscriberView {
	return subscriberView{
		ID:           s.ID,
		Email:        s.Email,
		SubscribedAt: s.SubscribedAt.Format(time.RFC3339),
	}
}

// respondError maps domain errors onto HTTP statuses: absent post -> 404,
// caller mistakes -> 400, everything else -> generic 500 with the detail
// logged, not leaked.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrPostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
	case domain.IsBadRequest(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
