package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/votebox/internal/models"
	"github.com/emilythestrangee/votebox/internal/store"
)

type QueryHandler struct {
	store store.Store
}

func NewQueryHandler(s store.Store) *QueryHandler {
	return &QueryHandler{store: s}
}

var errEmptyTopicID = errors.New("topic_id must not be empty")

func (h *QueryHandler) loadTopic(c *gin.Context) (models.Topic, bool) {
	// Form binding turns ?topic_id= into 0; treat it like a missing value.
	if raw, ok := c.GetQuery("topic_id"); ok && strings.TrimSpace(raw) == "" {
		invalidRequest(c, errEmptyTopicID)
		return models.Topic{}, false
	}

	var q models.TopicQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		invalidRequest(c, err)
		return models.Topic{}, false
	}

	topic, err := h.store.GetTopic(c.Request.Context(), *q.TopicID)
	if err != nil {
		respondError(c, err)
		return models.Topic{}, false
	}
	if topic.Choices == nil {
		topic.Choices = []models.Choice{}
	}
	return topic, true
}

// GetVote handles GET /getvote?topic_id=
func (h *QueryHandler) GetVote(c *gin.Context) {
	topic, ok := h.loadTopic(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, models.GetVoteResponse{
		Question: topic.Content,
		Options:  topic.Choices,
		Active:   topic.Active,
	})
}

// Status handles GET /status?topic_id=
func (h *QueryHandler) Status(c *gin.Context) {
	topic, ok := h.loadTopic(c)
	if !ok {
		return
	}

	choices := make([]models.ChoiceStatus, 0, len(topic.Choices))
	for _, ch := range topic.Choices {
		choices = append(choices, models.ChoiceStatus{
			ID:      ch.ID,
			Content: ch.Content,
			Votes:   ch.Votes,
		})
	}

	c.JSON(http.StatusOK, models.StatusResponse{
		Question:  topic.Content,
		Status:    topic.Active,
		Choices:   choices,
		CreatedAt: topic.Created,
		EndAt:     topic.Ends,
	})
}
