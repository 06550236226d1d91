package models

import "time"

type CreateTopicRequest struct {
	Content string   `json:"content" binding:"required"`
	Choices []string `json:"choices" binding:"required"`
}

// Both fields are pointers so that an explicit 0 or "" still reaches the
// store: 0 comes back as not found and "" is a legal choice label.
type CastVoteRequest struct {
	TopicID *int    `json:"topic_id" binding:"required"`
	Choice  *string `json:"choice" binding:"required"`
}

// TopicQuery binds ?topic_id= on the read endpoints
type TopicQuery struct {
	TopicID *int `form:"topic_id" binding:"required"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// GetVoteResponse mirrors GET /getvote
type GetVoteResponse struct {
	Question string   `json:"question"`
	Options  []Choice `json:"options"`
	Active   bool     `json:"active"`
}

type ChoiceStatus struct {
	ID      int    `json:"id"`
	Content string `json:"content"`
	Votes   int    `json:"votes"`
}

// StatusResponse mirrors GET /status
type StatusResponse struct {
	Question  string         `json:"question"`
	Status    bool           `json:"status"`
	Choices   []ChoiceStatus `json:"choices"`
	CreatedAt time.Time      `json:"created_at"`
	EndAt     time.Time      `json:"end_at"`
}
