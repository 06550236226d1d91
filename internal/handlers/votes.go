package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/votebox/internal/models"
	"github.com/emilythestrangee/votebox/internal/store"
)

type VoteHandler struct {
	store store.Store
}

func NewVoteHandler(s store.Store) *VoteHandler {
	return &VoteHandler{store: s}
}

// CastVote handles POST /vote. There is no voter identity, so every request
// adds one vote.
func (h *VoteHandler) CastVote(c *gin.Context) {
	var input models.CastVoteRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		invalidRequest(c, err)
		return
	}

	if err := h.store.CastVote(c.Request.Context(), *input.TopicID, *input.Choice); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "Vote added"})
}
