package models

import (
	"encoding/json"
	"time"
)

// Manuscript workflow statuses. Transitions between them are governed by
// services.CanTransition; nothing writes manuscripts.status directly.
const (
	StatusDraft            = "draft"
	StatusSubmitted        = "submitted"
	StatusUnderReview      = "under_review"
	StatusRevisionRequired = "revision_required"
	StatusAccepted         = "accepted"
	StatusRejected         = "rejected"
	StatusPublished        = "published"
)

// Manuscript types accepted at submission.
const (
	TypeResearch           = "research"
	TypeReview             = "review"
	TypeCaseStudy          = "case-study"
	TypeShortCommunication = "short-communication"
)

type Manuscript struct {
	ManuscriptID     int     `gorm:"primaryKey;column:manuscript_id" json:"manuscript_id"`
	ManuscriptNumber string  `gorm:"column:manuscript_number;unique" json:"manuscript_number"`
	Title            string  `gorm:"column:title" json:"title"`
	Abstract         string  `gorm:"column:abstract;type:text" json:"abstract"`
	ManuscriptType   string  `gorm:"column:manuscript_type" json:"manuscript_type"`
	Category         *string `gorm:"column:category" json:"category,omitempty"`
	Status           string  `gorm:"column:status" json:"status"`

	// Free-form author-supplied data kept as JSON.
	Keywords           json.RawMessage `gorm:"column:keywords;type:json" json:"keywords"`
	SuggestedReviewers json.RawMessage `gorm:"column:suggested_reviewers;type:json" json:"suggested_reviewers,omitempty"`

	SubmittedBy      int  `gorm:"column:submitted_by" json:"submitted_by"`
	AssignedEditorID *int `gorm:"column:assigned_editor_id" json:"assigned_editor_id,omitempty"`
	CurrentVersion   int  `gorm:"column:current_version" json:"current_version"`

	// Publication metadata, populated only after acceptance/publication.
	DOI         *string    `gorm:"column:doi" json:"doi,omitempty"`
	Volume      *string    `gorm:"column:volume" json:"volume,omitempty"`
	Issue       *string    `gorm:"column:issue" json:"issue,omitempty"`
	Pages       *string    `gorm:"column:pages" json:"pages,omitempty"`
	PublishedAt *time.Time `gorm:"column:published_at" json:"published_at,omitempty"`

	SubmittedAt *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	CreateAt    *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt    *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Submitter          *User                `gorm:"foreignKey:SubmittedBy" json:"submitter,omitempty"`
	AssignedEditor     *User                `gorm:"foreignKey:AssignedEditorID" json:"assigned_editor,omitempty"`
	Authors            []ManuscriptAuthor   `gorm:"foreignKey:ManuscriptID" json:"authors,omitempty"`
	Reviewers          []ManuscriptReviewer `gorm:"foreignKey:ManuscriptID" json:"reviewers,omitempty"`
	Versions           []ManuscriptVersion  `gorm:"foreignKey:ManuscriptID" json:"versions,omitempty"`
	EditorialDecisions []EditorialDecision  `gorm:"foreignKey:ManuscriptID" json:"editorial_decisions,omitempty"`
	Timeline           []TimelineEvent      `gorm:"foreignKey:ManuscriptID" json:"timeline,omitempty"`
	Documents          []ManuscriptDocument `gorm:"foreignKey:ManuscriptID" json:"documents,omitempty"`
}

func (Manuscript) TableName() string {
	return "manuscripts"
}

// KeywordList decodes the stored keywords JSON array.
func (m *Manuscript) KeywordList() []string {
	if len(m.Keywords) == 0 {
		return nil
	}
	var keywords []string
	if err := json.Unmarshal(m.Keywords, &keywords); err != nil {
		return nil
	}
	return keywords
}

// ReviewerEntry returns the reviewer entry for the given user, if any.
func (m *Manuscript) ReviewerEntry(userID int) *ManuscriptReviewer {
	for i := range m.Reviewers {
		if m.Reviewers[i].ReviewerID == userID {
			return &m.Reviewers[i]
		}
	}
	return nil
}

// ManuscriptAuthor is one entry of the typed author list. Authors are
// free-text contact records, not user references.
type ManuscriptAuthor struct {
	AuthorID      int     `gorm:"primaryKey;column:author_id" json:"author_id"`
	ManuscriptID  int     `gorm:"column:manuscript_id" json:"manuscript_id"`
	Name          string  `gorm:"column:name" json:"name"`
	Email         string  `gorm:"column:email" json:"email"`
	Affiliation   *string `gorm:"column:affiliation" json:"affiliation,omitempty"`
	Corresponding bool    `gorm:"column:corresponding" json:"corresponding"`
	AuthorOrder   int     `gorm:"column:author_order" json:"author_order"`
}

func (ManuscriptAuthor) TableName() string {
	return "manuscript_authors"
}

// SuggestedReviewer is an author-supplied, non-authoritative suggestion
// serialized into manuscripts.suggested_reviewers.
type SuggestedReviewer struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Affiliation string `json:"affiliation,omitempty"`
	Expertise   string `json:"expertise,omitempty"`
}
