package models

import "time"

// TimelineEvent is one entry of a manuscript's append-only audit trail.
// Rows are only ever inserted, through services.AppendTimelineEvent.
type TimelineEvent struct {
	EventID      int       `gorm:"primaryKey;column:event_id" json:"event_id"`
	ManuscriptID int       `gorm:"column:manuscript_id;index" json:"manuscript_id"`
	Event        string    `gorm:"column:event" json:"event"`
	ActorID      int       `gorm:"column:actor_id" json:"actor_id"`
	CreateAt     time.Time `gorm:"column:create_at" json:"create_at"`

	Actor *User `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
}

func (TimelineEvent) TableName() string {
	return "manuscript_timeline"
}
