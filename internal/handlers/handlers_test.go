package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/votebox/internal/models"
	"github.com/emilythestrangee/votebox/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(s store.Store) *gin.Engine {
	h := NewHandler(s)
	r := gin.New()
	r.POST("/addvote", h.Topic.CreateTopic)
	r.POST("/vote", h.Vote.CastVote)
	r.GET("/getvote", h.Query.GetVote)
	r.GET("/status", h.Query.Status)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}

func TestScenario_BestColor(t *testing.T) {
	s := store.NewMemoryStore(48 * time.Hour)
	r := newTestRouter(s)

	w := doJSON(t, r, http.MethodPost, "/addvote", gin.H{"content": "Best color?", "choices": []string{"Red", "Blue"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Vote created", decode[models.MessageResponse](t, w).Message)

	w = doJSON(t, r, http.MethodGet, "/getvote?topic_id=1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decode[models.GetVoteResponse](t, w)
	assert.Equal(t, "Best color?", got.Question)
	assert.True(t, got.Active)
	require.Len(t, got.Options, 2)
	assert.Equal(t, "Red", got.Options[0].Content)
	assert.Equal(t, 0, got.Options[0].Votes)
	assert.Equal(t, "Blue", got.Options[1].Content)
	assert.Equal(t, 0, got.Options[1].Votes)

	for i := 0; i < 2; i++ {
		w = doJSON(t, r, http.MethodPost, "/vote", gin.H{"topic_id": 1, "choice": "Blue"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "Vote added", decode[models.MessageResponse](t, w).Message)
	}

	w = doJSON(t, r, http.MethodGet, "/status?topic_id=1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	status := decode[models.StatusResponse](t, w)
	assert.Equal(t, "Best color?", status.Question)
	assert.True(t, status.Status)
	require.Len(t, status.Choices, 2)
	assert.Equal(t, models.ChoiceStatus{ID: got.Options[0].ID, Content: "Red", Votes: 0}, status.Choices[0])
	assert.Equal(t, models.ChoiceStatus{ID: got.Options[1].ID, Content: "Blue", Votes: 2}, status.Choices[1])
	assert.Equal(t, 48*time.Hour, status.EndAt.Sub(status.CreatedAt))
}

func TestStatus_ResponseKeys(t *testing.T) {
	s := store.NewMemoryStore(time.Hour)
	_, err := s.CreateTopic(context.Background(), "Keys?", []string{"Yes"})
	require.NoError(t, err)

	w := doJSON(t, newTestRouter(s), http.MethodGet, "/status?topic_id=1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	raw := decode[map[string]json.RawMessage](t, w)
	for _, key := range []string{"question", "status", "choices", "created_at", "end_at"} {
		assert.Contains(t, raw, key)
	}
}

func TestCreateTopic_Conflict(t *testing.T) {
	r := newTestRouter(store.NewMemoryStore(time.Hour))

	w := doJSON(t, r, http.MethodPost, "/addvote", gin.H{"content": "Lunch?", "choices": []string{"Pizza"}})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/addvote", gin.H{"content": "Lunch?", "choices": []string{"Sushi", "Ramen"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Vote already exists", decode[models.ErrorResponse](t, w).Error)
}

func TestCreateTopic_EmptyChoicesAccepted(t *testing.T) {
	r := newTestRouter(store.NewMemoryStore(time.Hour))

	w := doJSON(t, r, http.MethodPost, "/addvote", gin.H{"content": "Empty", "choices": []string{}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/getvote?topic_id=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	raw := decode[map[string]json.RawMessage](t, w)
	assert.JSONEq(t, `[]`, string(raw["options"]))
}

func TestCreateTopic_InvalidBody(t *testing.T) {
	r := newTestRouter(store.NewMemoryStore(time.Hour))

	tests := []struct {
		name string
		body any
	}{
		{"missing content", gin.H{"choices": []string{"A"}}},
		{"missing choices", gin.H{"content": "No choices"}},
		{"wrong type", gin.H{"content": 7, "choices": []string{"A"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/addvote", tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
		})
	}
}

func TestCastVote_Errors(t *testing.T) {
	s := store.NewMemoryStore(time.Hour)
	r := newTestRouter(s)
	open, err := s.CreateTopic(context.Background(), "Open", []string{"Yes", "No"})
	require.NoError(t, err)
	closed, err := s.CreateTopic(context.Background(), "Closed", []string{"Yes", "No"})
	require.NoError(t, err)
	require.NoError(t, s.SetActive(closed.ID, false))

	tests := []struct {
		name    string
		body    any
		code    int
		message string
	}{
		{"missing topic", gin.H{"topic_id": 999, "choice": "Yes"}, http.StatusNotFound, "Not Found"},
		{"zero topic id", gin.H{"topic_id": 0, "choice": "Yes"}, http.StatusNotFound, "Not Found"},
		{"inactive topic", gin.H{"topic_id": closed.ID, "choice": "Yes"}, http.StatusBadRequest, "Voting closed"},
		{"unknown choice", gin.H{"topic_id": open.ID, "choice": "Maybe"}, http.StatusBadRequest, "Invalid choice"},
		{"case mismatch", gin.H{"topic_id": open.ID, "choice": "yes"}, http.StatusBadRequest, "Invalid choice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/vote", tt.body)
			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, tt.message, decode[models.ErrorResponse](t, w).Error)
		})
	}

	for _, id := range []int{open.ID, closed.ID} {
		topic, err := s.GetTopic(context.Background(), id)
		require.NoError(t, err)
		for _, c := range topic.Choices {
			assert.Zero(t, c.Votes)
		}
	}
}

func TestCastVote_EmptyLabel(t *testing.T) {
	s := store.NewMemoryStore(time.Hour)
	r := newTestRouter(s)

	w := doJSON(t, r, http.MethodPost, "/addvote", gin.H{"content": "Blank?", "choices": []string{"", "X"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/vote", gin.H{"topic_id": 1, "choice": ""})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/status?topic_id=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	status := decode[models.StatusResponse](t, w)
	require.Len(t, status.Choices, 2)
	assert.Equal(t, "", status.Choices[0].Content)
	assert.Equal(t, 1, status.Choices[0].Votes)
	assert.Equal(t, 0, status.Choices[1].Votes)
}

func TestCastVote_InvalidBody(t *testing.T) {
	r := newTestRouter(store.NewMemoryStore(time.Hour))

	for name, body := range map[string]any{
		"missing topic":   gin.H{"choice": "Yes"},
		"missing choice":  gin.H{"topic_id": 1},
		"null choice":     gin.H{"topic_id": 1, "choice": nil},
		"string topic id": gin.H{"topic_id": "one", "choice": "Yes"},
	} {
		t.Run(name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/vote", body)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
		})
	}
}

func TestQueries_NotFoundAndInvalid(t *testing.T) {
	r := newTestRouter(store.NewMemoryStore(time.Hour))

	for _, path := range []string{"/getvote", "/status"} {
		w := doJSON(t, r, http.MethodGet, path+"?topic_id=42", nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)

		w = doJSON(t, r, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, path)

		w = doJSON(t, r, http.MethodGet, path+"?topic_id=abc", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, path)

		w = doJSON(t, r, http.MethodGet, path+"?topic_id=", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, path)
		assert.Equal(t, errEmptyTopicID.Error(), decode[models.ErrorResponse](t, w).Error)
	}
}

type failingStore struct{}

var errBroken = errors.New("connection refused")

func (failingStore) CreateTopic(context.Context, string, []string) (models.Topic, error) {
	return models.Topic{}, errBroken
}

func (failingStore) CastVote(context.Context, int, string) error {
	return errBroken
}

func (failingStore) GetTopic(context.Context, int) (models.Topic, error) {
	return models.Topic{}, errBroken
}

func TestStoreFailureIsInternalError(t *testing.T) {
	r := newTestRouter(failingStore{})

	requests := []struct {
		method, path string
		body         any
	}{
		{http.MethodPost, "/addvote", gin.H{"content": "x", "choices": []string{"a"}}},
		{http.MethodPost, "/vote", gin.H{"topic_id": 1, "choice": "a"}},
		{http.MethodGet, "/getvote?topic_id=1", nil},
		{http.MethodGet, "/status?topic_id=1", nil},
	}
	for _, rq := range requests {
		w := doJSON(t, r, rq.method, rq.path, rq.body)
		assert.Equal(t, http.StatusInternalServerError, w.Code, rq.path)
		assert.NotContains(t, w.Body.String(), errBroken.Error())
	}
}
