package models

import (
	"encoding/json"
	"time"
)

// ManuscriptVersion is an immutable snapshot of the manuscript's file set
// taken at submission time. The snapshot is stored as JSON because it is
// never queried field-by-field and must not change when the live file set
// does.
type ManuscriptVersion struct {
	VersionID    int             `gorm:"primaryKey;column:version_id" json:"version_id"`
	ManuscriptID int             `gorm:"column:manuscript_id;uniqueIndex:idx_manuscript_version" json:"manuscript_id"`
	Version      int             `gorm:"column:version;uniqueIndex:idx_manuscript_version" json:"version"`
	Files        json.RawMessage `gorm:"column:files;type:json" json:"files"`
	Changelog    *string         `gorm:"column:changelog" json:"changelog,omitempty"`
	CreateAt     time.Time       `gorm:"column:create_at" json:"create_at"`
}

func (ManuscriptVersion) TableName() string {
	return "manuscript_versions"
}

// FileDescriptor is the opaque blob descriptor recorded in version snapshots
// and exposed for the live file set.
type FileDescriptor struct {
	Filename   string    `json:"filename"`
	URL        string    `json:"url"`
	Size       int64     `json:"size"`
	MimeType   string    `json:"mime_type"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// FileSet groups the descriptors captured in one version snapshot.
type FileSet struct {
	Manuscript    *FileDescriptor  `json:"manuscript,omitempty"`
	CoverLetter   *FileDescriptor  `json:"cover_letter,omitempty"`
	Supplementary []FileDescriptor `json:"supplementary"`
}
