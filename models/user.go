package models

import (
	"encoding/json"
	"time"
)

// Role values stored in users.role.
const (
	RoleAuthor   = "author"
	RoleReviewer = "reviewer"
	RoleEditor   = "editor"
	RoleAdmin    = "admin"
)

type User struct {
	UserID   int    `gorm:"primaryKey;column:user_id" json:"user_id"`
	Name     string `gorm:"column:name" json:"name"`
	Email    string `gorm:"column:email;unique" json:"email"`
	Password string `gorm:"column:password" json:"-"`
	Role     string `gorm:"column:role" json:"role"`

	Affiliation *string         `gorm:"column:affiliation" json:"affiliation,omitempty"`
	Orcid       *string         `gorm:"column:orcid" json:"orcid,omitempty"`
	Bio         *string         `gorm:"column:bio" json:"bio,omitempty"`
	Website     *string         `gorm:"column:website" json:"website,omitempty"`
	Expertise   json.RawMessage `gorm:"column:expertise;type:json" json:"expertise,omitempty"`

	// Aggregate counters maintained by the workflow.
	SubmissionCount int `gorm:"column:submission_count" json:"submission_count"`
	ReviewCount     int `gorm:"column:review_count" json:"review_count"`
	CitationCount   int `gorm:"column:citation_count" json:"citation_count"`

	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(role string) bool {
	return u.Role == role
}

// ExpertiseTags decodes the stored expertise JSON array.
func (u *User) ExpertiseTags() []string {
	if len(u.Expertise) == 0 {
		return nil
	}
	var tags []string
	if err := json.Unmarshal(u.Expertise, &tags); err != nil {
		return nil
	}
	return tags
}

// ValidRole reports whether role is one of the known role values.
func ValidRole(role string) bool {
	switch role {
	case RoleAuthor, RoleReviewer, RoleEditor, RoleAdmin:
		return true
	}
	return false
}
