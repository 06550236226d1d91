package models

// Choice is one selectable option under a Topic
type Choice struct {
	ID      int    `gorm:"primaryKey" json:"id"`
	TopicID int    `gorm:"not null;index" json:"topic_id"`
	Content string `json:"content"`
	Votes   int    `gorm:"not null;default:0;check:votes >= 0" json:"votes"`
}

func (Choice) TableName() string {
	return "vote_choices"
}
