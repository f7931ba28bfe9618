package rest

import (
	"net/http"
	"strings"
	"time"

	"github.com/dfryer1193/inkwell/blog/domain"
	"github.com/gin-gonic/gin"
)

// SubscriberHandler translates HTTP requests into subscriber repository calls.
type SubscriberHandler struct {
	subscribers domain.SubscriberRepository
}

func NewSubscriberHandler(subscribers domain.SubscriberRepository) *SubscriberHandler {
	return &SubscriberHandler{subscribers: subscribers}
}

type subscribeRequest struct {
	Email string `json:"email"`
}

func (h *SubscriberHandler) Subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		respondError(c, &domain.ValidationError{Field: "email", Reason: "required"})
		return
	}

	sub := &domain.Subscriber{
		Email:        email,
		SubscribedAt: time.Now().UTC(),
	}

	if err := h.subscribers.Insert(c.Request.Context(), sub); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toSubscriberView(sub))
}

func (h *SubscriberHandler) List(c *gin.Context) {
	subs, err := h.subscribers.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]subscriberView, 0, len(subs))
	for _, s := range subs {
		views = append(views, toSubscriberView(s))
	}
	c.JSON(http.StatusOK, views)
}
