package models

import "time"

// Normalized decision values stored in the append-only decision log.
const (
	DecisionAccept   = "accept"
	DecisionReject   = "reject"
	DecisionRevision = "revision"
)

// Revision types required when the decision is a revision request.
const (
	RevisionMinor = "minor"
	RevisionMajor = "major"
)

// EditorialDecision is one immutable entry of a manuscript's decision log.
// Rows are only ever inserted.
type EditorialDecision struct {
	DecisionID   int       `gorm:"primaryKey;column:decision_id" json:"decision_id"`
	ManuscriptID int       `gorm:"column:manuscript_id" json:"manuscript_id"`
	EditorID     int       `gorm:"column:editor_id" json:"editor_id"`
	Decision     string    `gorm:"column:decision" json:"decision"`
	RevisionType *string   `gorm:"column:revision_type" json:"revision_type,omitempty"`
	Comments     string    `gorm:"column:comments;type:text" json:"comments"`
	CreateAt     time.Time `gorm:"column:create_at" json:"create_at"`

	Editor *User `gorm:"foreignKey:EditorID" json:"editor,omitempty"`
}

func (EditorialDecision) TableName() string {
	return "editorial_decisions"
}
