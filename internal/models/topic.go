package models

import "time"

// Topic is a question with a fixed set of choices
type Topic struct {
	ID      int       `gorm:"primaryKey" json:"id"`
	Content string    `gorm:"not null;uniqueIndex:idx_vote_topics_content" json:"content"`
	Active  bool      `gorm:"not null;default:true" json:"active"`
	Created time.Time `gorm:"not null" json:"created"`
	Ends    time.Time `gorm:"not null" json:"ends"`
	Choices []Choice  `gorm:"foreignKey:TopicID;constraint:OnDelete:CASCADE" json:"choices"`
}

func (Topic) TableName() string {
	return "vote_topics"
}

// Choice looks up the first choice whose content matches label exactly,
// walking choices in declared order.
func (t *Topic) Choice(label string) (*Choice, bool) {
	for i := range t.Choices {
		if t.Choices[i].Content == label {
			return &t.Choices[i], true
		}
	}
	return nil, false
}
