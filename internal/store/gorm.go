package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/votebox/internal/models"
)

// GormStore keeps topics in PostgreSQL.
type GormStore struct {
	db       *gorm.DB
	duration time.Duration
	log      logrus.FieldLogger
}

// NewGormStore wraps an open gorm handle. duration is how far past creation
// a new topic's ends timestamp is set.
func NewGormStore(db *gorm.DB, duration time.Duration, log logrus.FieldLogger) *GormStore {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &GormStore{
		db:       db,
		duration: duration,
		log:      log.WithField("component", "store"),
	}
}

func (s *GormStore) CreateTopic(ctx context.Context, content string, choices []string) (models.Topic, error) {
	now := s.db.NowFunc()
	topic := models.Topic{
		Content: content,
		Active:  true,
		Created: now,
		Ends:    now.Add(s.duration),
		Choices: make([]models.Choice, 0, len(choices)),
	}
	for _, c := range choices {
		topic.Choices = append(topic.Choices, models.Choice{Content: c})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Topic{}).Where("content = ?", content).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrConflict
		}
		return tx.Create(&topic).Error
	})
	if err != nil {
		// A concurrent insert can pass the count check; the unique index
		// catches it.
		if errors.Is(err, ErrConflict) || isUniqueViolation(err) {
			return models.Topic{}, ErrConflict
		}
		return models.Topic{}, s.logError("create_topic_failed", err, "content", content)
	}

	s.log.WithFields(logrus.Fields{
		"topic_id": topic.ID,
		"choices":  len(topic.Choices),
	}).Debug("topic created")
	return topic, nil
}

func (s *GormStore) CastVote(ctx context.Context, topicID int, choice string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var topic models.Topic
		err := tx.Clauses(clause.Locking{Strength: "SHARE"}).
			Preload("Choices", orderChoices).
			First(&topic, topicID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !topic.Active {
			return ErrInvalidState
		}

		target, ok := topic.Choice(choice)
		if !ok {
			return ErrInvalidChoice
		}

		res := tx.Model(&models.Choice{}).
			Where("id = ?", target.ID).
			UpdateColumn("votes", gorm.Expr("votes + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return fmt.Errorf("choice %d: expected 1 row updated, got %d", target.ID, res.RowsAffected)
		}
		return nil
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidState), errors.Is(err, ErrInvalidChoice):
		return err
	default:
		return s.logError("cast_vote_failed", err, "topic_id", topicID, "choice", choice)
	}
}

func (s *GormStore) GetTopic(ctx context.Context, topicID int) (models.Topic, error) {
	var topic models.Topic
	err := s.db.WithContext(ctx).
		Preload("Choices", orderChoices).
		First(&topic, topicID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Topic{}, ErrNotFound
		}
		return models.Topic{}, s.logError("get_topic_failed", err, "topic_id", topicID)
	}
	return topic, nil
}

// orderChoices keeps preloaded choices in insertion order.
func orderChoices(db *gorm.DB) *gorm.DB {
	return db.Order("vote_choices.id ASC")
}

func (s *GormStore) logError(event string, err error, kv ...any) error {
	fields := logrus.Fields{"event": event}
	for i := 0; i+1 < len(kv); i += 2 {
		if key, ok := kv[i].(string); ok {
			fields[key] = kv[i+1]
		}
	}
	s.log.WithFields(fields).WithError(err).Error("store operation failed")
	return fmt.Errorf("%s: %w", event, err)
}

// isUniqueViolation recognises SQLSTATE 23505 from either database/sql
// driver.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

var _ Store = (*GormStore)(nil)
