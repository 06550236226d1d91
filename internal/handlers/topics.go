package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/votebox/internal/models"
	"github.com/emilythestrangee/votebox/internal/store"
)

type TopicHandler struct {
	store store.Store
}

func NewTopicHandler(s store.Store) *TopicHandler {
	return &TopicHandler{store: s}
}

// CreateTopic handles POST /addvote. The choice list is stored as given,
// empty or with repeated labels included.
func (h *TopicHandler) CreateTopic(c *gin.Context) {
	var input models.CreateTopicRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		invalidRequest(c, err)
		return
	}

	if _, err := h.store.CreateTopic(c.Request.Context(), input.Content, input.Choices); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "Vote created"})
}
