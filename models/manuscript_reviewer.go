package models

import "time"

// Reviewer invitation sub-states. invited may move to accepted or declined;
// accepted moves to completed when the review is submitted. declined and
// completed are terminal.
const (
	ReviewerInvited   = "invited"
	ReviewerAccepted  = "accepted"
	ReviewerDeclined  = "declined"
	ReviewerCompleted = "completed"
)

// ManuscriptReviewer is a manuscript's per-reviewer relationship record,
// distinct from the Review content itself. One row per (manuscript, user).
type ManuscriptReviewer struct {
	EntryID      int        `gorm:"primaryKey;column:entry_id" json:"entry_id"`
	ManuscriptID int        `gorm:"column:manuscript_id;uniqueIndex:idx_manuscript_reviewer" json:"manuscript_id"`
	ReviewerID   int        `gorm:"column:reviewer_id;uniqueIndex:idx_manuscript_reviewer" json:"reviewer_id"`
	Status       string     `gorm:"column:status" json:"status"`
	InvitedAt    time.Time  `gorm:"column:invited_at" json:"invited_at"`
	Deadline     time.Time  `gorm:"column:deadline" json:"deadline"`
	RespondedAt  *time.Time `gorm:"column:responded_at" json:"responded_at,omitempty"`
	CompletedAt  *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`

	Reviewer *User `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

func (ManuscriptReviewer) TableName() string {
	return "manuscript_reviewers"
}

// Responded reports whether the invitation has left the invited state.
func (r *ManuscriptReviewer) Responded() bool {
	return r.Status != ReviewerInvited
}
