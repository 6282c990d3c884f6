package models

import "time"

// FileUpload represents the file_uploads table: one physical stored blob.
type FileUpload struct {
	FileID       int        `gorm:"primaryKey;column:file_id" json:"file_id"`
	OriginalName string     `gorm:"column:original_name" json:"original_name"`
	StoredPath   string     `gorm:"column:stored_path" json:"stored_path"`
	FileSize     int64      `gorm:"column:file_size" json:"file_size"`
	MimeType     string     `gorm:"column:mime_type" json:"mime_type"`
	UploadedBy   int        `gorm:"column:uploaded_by" json:"uploaded_by"`
	UploadedAt   time.Time  `gorm:"column:uploaded_at" json:"uploaded_at"`
	CreateAt     time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt     time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Uploader User `gorm:"foreignKey:UploadedBy" json:"uploader,omitempty"`
}

func (FileUpload) TableName() string {
	return "file_uploads"
}

func (f *FileUpload) GetFileSizeInMB() float64 {
	return float64(f.FileSize) / (1024 * 1024)
}

// Descriptor converts the upload record into the opaque blob descriptor used
// in version snapshots and API responses.
func (f *FileUpload) Descriptor() FileDescriptor {
	return FileDescriptor{
		Filename:   f.OriginalName,
		URL:        "/files/" + f.StoredPath,
		Size:       f.FileSize,
		MimeType:   f.MimeType,
		UploadedAt: f.UploadedAt,
	}
}

// Roles a document plays in a manuscript's file record.
const (
	DocumentManuscript    = "manuscript"
	DocumentCoverLetter   = "cover_letter"
	DocumentSupplementary = "supplementary"
)

// ManuscriptDocument links an uploaded file to a manuscript's live file set.
type ManuscriptDocument struct {
	DocumentID   int        `gorm:"primaryKey;column:document_id" json:"document_id"`
	ManuscriptID int        `gorm:"column:manuscript_id;index" json:"manuscript_id"`
	FileID       int        `gorm:"column:file_id" json:"file_id"`
	DocumentRole string     `gorm:"column:document_role" json:"document_role"`
	UploadedBy   int        `gorm:"column:uploaded_by" json:"uploaded_by"`
	UploadedAt   *time.Time `gorm:"column:uploaded_at" json:"uploaded_at,omitempty"`
	CreateAt     *time.Time `gorm:"column:create_at" json:"create_at,omitempty"`

	File *FileUpload `gorm:"foreignKey:FileID" json:"file,omitempty"`
}

func (ManuscriptDocument) TableName() string {
	return "manuscript_documents"
}

// ValidDocumentRole reports whether role names one of the file slots.
func ValidDocumentRole(role string) bool {
	switch role {
	case DocumentManuscript, DocumentCoverLetter, DocumentSupplementary:
		return true
	}
	return false
}
