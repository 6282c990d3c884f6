package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Review statuses. invited → in_progress/submitted → completed.
const (
	ReviewInvited    = "invited"
	ReviewInProgress = "in_progress"
	ReviewSubmitted  = "submitted"
	ReviewCompleted  = "completed"
)

// Overall recommendation values a reviewer may submit.
const (
	RecommendAccept        = "accept"
	RecommendMinorRevision = "minor_revision"
	RecommendMajorRevision = "major_revision"
	RecommendReject        = "reject"
)

// Ratings are the five 1-5 integer scores of a review.
type Ratings struct {
	Originality  int `json:"originality"`
	Methodology  int `json:"methodology"`
	Clarity      int `json:"clarity"`
	Significance int `json:"significance"`
	References   int `json:"references"`
}

// ReviewComments are the textual sections of a review. ConfidentialComments
// are editor-only and must be stripped before any author-facing
// serialization (see SanitizedContent).
type ReviewComments struct {
	Strengths            string `json:"strengths"`
	Weaknesses           string `json:"weaknesses"`
	Suggestions          string `json:"suggestions"`
	ConfidentialComments string `json:"confidential_comments,omitempty"`
}

// ReviewContent is the structured body of a review, stored as a JSON column
// so revision snapshots can capture it verbatim.
type ReviewContent struct {
	OverallRecommendation string         `json:"overall_recommendation"`
	Ratings               Ratings        `json:"ratings"`
	Comments              ReviewComments `json:"comments"`
}

// MeanRating averages the five scores of one review.
func (c *ReviewContent) MeanRating() float64 {
	sum := c.Ratings.Originality + c.Ratings.Methodology + c.Ratings.Clarity +
		c.Ratings.Significance + c.Ratings.References
	return float64(sum) / 5
}

// Review holds one (manuscript, reviewer) pair's review document.
type Review struct {
	ReviewID     int `gorm:"primaryKey;column:review_id" json:"review_id"`
	ManuscriptID int `gorm:"column:manuscript_id;uniqueIndex:idx_review_pair" json:"manuscript_id"`
	ReviewerID   int `gorm:"column:reviewer_id;uniqueIndex:idx_review_pair" json:"reviewer_id"`

	// Invitation metadata copied from the reviewer entry at creation time.
	InvitationSentAt   time.Time `gorm:"column:invitation_sent_at" json:"invitation_sent_at"`
	InvitationDeadline time.Time `gorm:"column:invitation_deadline" json:"invitation_deadline"`

	Content      json.RawMessage `gorm:"column:content;type:json" json:"content,omitempty"`
	CurrentRound int             `gorm:"column:current_round" json:"current_round"`
	Status       string          `gorm:"column:status" json:"status"`
	SubmittedAt  *time.Time      `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	CompletedAt  *time.Time      `gorm:"column:completed_at" json:"completed_at,omitempty"`

	// Derived at read time, never stored.
	IsLate bool `gorm:"-" json:"is_late"`

	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`

	Reviewer  *User            `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	Revisions []ReviewRevision `gorm:"foreignKey:ReviewID" json:"revisions,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}

// AfterFind derives the lateness flag from the persisted fields.
func (r *Review) AfterFind(tx *gorm.DB) error {
	r.IsLate = r.ComputeIsLate(time.Now())
	return nil
}

// ComputeIsLate is a pure function of (deadline, status, now): a review is
// late while unsubmitted past its invitation deadline.
func (r *Review) ComputeIsLate(now time.Time) bool {
	if r.Status == ReviewSubmitted || r.Status == ReviewCompleted {
		return false
	}
	return now.After(r.InvitationDeadline)
}

// DecodeContent unmarshals the stored content, or returns nil when the
// review has not been submitted yet.
func (r *Review) DecodeContent() (*ReviewContent, error) {
	if len(r.Content) == 0 {
		return nil, nil
	}
	var content ReviewContent
	if err := json.Unmarshal(r.Content, &content); err != nil {
		return nil, err
	}
	return &content, nil
}

// SanitizedContent returns the content with confidential comments removed,
// for serialization toward the authoring side of the workflow.
func (r *Review) SanitizedContent() (*ReviewContent, error) {
	content, err := r.DecodeContent()
	if err != nil || content == nil {
		return content, err
	}
	content.Comments.ConfidentialComments = ""
	return content, nil
}

// ReviewRevision snapshots one prior submission of a review. Versions are
// sequential per review, starting at 1.
type ReviewRevision struct {
	RevisionID  int             `gorm:"primaryKey;column:revision_id" json:"revision_id"`
	ReviewID    int             `gorm:"column:review_id;uniqueIndex:idx_review_revision" json:"review_id"`
	Version     int             `gorm:"column:version;uniqueIndex:idx_review_revision" json:"version"`
	Content     json.RawMessage `gorm:"column:content;type:json" json:"content"`
	SubmittedAt time.Time       `gorm:"column:submitted_at" json:"submitted_at"`
}

func (ReviewRevision) TableName() string {
	return "review_revisions"
}
