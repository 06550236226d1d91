package store

import (
	"context"
	"sync"
	"time"

	"github.com/emilythestrangee/votebox/internal/models"
)

// MemoryStore keeps topics in process memory. Every operation holds one
// mutex, so votes never race.
type MemoryStore struct {
	mu sync.RWMutex

	topics   map[int]*models.Topic
	byText   map[string]int
	nextID   int
	nextChID int
	duration time.Duration
	now      func() time.Time
}

func NewMemoryStore(duration time.Duration) *MemoryStore {
	return &MemoryStore{
		topics:   make(map[int]*models.Topic),
		byText:   make(map[string]int),
		duration: duration,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) CreateTopic(_ context.Context, content string, choices []string) (models.Topic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byText[content]; exists {
		return models.Topic{}, ErrConflict
	}

	s.nextID++
	now := s.now()
	topic := &models.Topic{
		ID:      s.nextID,
		Content: content,
		Active:  true,
		Created: now,
		Ends:    now.Add(s.duration),
		Choices: make([]models.Choice, 0, len(choices)),
	}
	for _, c := range choices {
		s.nextChID++
		topic.Choices = append(topic.Choices, models.Choice{
			ID:      s.nextChID,
			TopicID: topic.ID,
			Content: c,
		})
	}

	s.topics[topic.ID] = topic
	s.byText[content] = topic.ID
	return cloneTopic(topic), nil
}

func (s *MemoryStore) CastVote(_ context.Context, topicID int, choice string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	topic, ok := s.topics[topicID]
	if !ok {
		return ErrNotFound
	}
	if !topic.Active {
		return ErrInvalidState
	}
	target, ok := topic.Choice(choice)
	if !ok {
		return ErrInvalidChoice
	}
	target.Votes++
	return nil
}

func (s *MemoryStore) GetTopic(_ context.Context, topicID int) (models.Topic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	topic, ok := s.topics[topicID]
	if !ok {
		return models.Topic{}, ErrNotFound
	}
	return cloneTopic(topic), nil
}

// SetActive flips a topic's active flag. No HTTP route reaches it; it exists
// for operators and tests that need a closed topic.
func (s *MemoryStore) SetActive(topicID int, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	topic, ok := s.topics[topicID]
	if !ok {
		return ErrNotFound
	}
	topic.Active = active
	return nil
}

func cloneTopic(t *models.Topic) models.Topic {
	out := *t
	out.Choices = append([]models.Choice(nil), t.Choices...)
	if out.Choices == nil {
		out.Choices = []models.Choice{}
	}
	return out
}

var _ Store = (*MemoryStore)(nil)
