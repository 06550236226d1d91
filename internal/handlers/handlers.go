package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/votebox/internal/middleware"
	"github.com/emilythestrangee/votebox/internal/store"
)

// Handler combines all handler types
type Handler struct {
	Topic *TopicHandler
	Vote  *VoteHandler
	Query *QueryHandler
}

// NewHandler creates a unified handler with all sub-handlers sharing one store
func NewHandler(s store.Store) *Handler {
	return &Handler{
		Topic: NewTopicHandler(s),
		Vote:  NewVoteHandler(s),
		Query: NewQueryHandler(s),
	}
}

// respondError maps store errors onto the HTTP contract. Anything unknown is
// logged and reported as a 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
	case errors.Is(err, store.ErrConflict):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Vote already exists"})
	case errors.Is(err, store.ErrInvalidState):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Voting closed"})
	case errors.Is(err, store.ErrInvalidChoice):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid choice"})
	default:
		middleware.LoggerFrom(c).WithError(err).Error("unhandled store error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// invalidRequest reports a body or query that failed binding.
func invalidRequest(c *gin.Context, err error) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
}
