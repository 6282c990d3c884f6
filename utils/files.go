package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// UploadRoot returns the configured upload directory.
func UploadRoot() string {
	uploadPath := os.Getenv("UPLOAD_PATH")
	if uploadPath == "" {
		uploadPath = "./uploads"
	}
	return uploadPath
}

// ManuscriptFolder creates (if needed) and returns the per-manuscript upload
// folder.
func ManuscriptFolder(manuscriptNumber string) (string, error) {
	folder := filepath.Join(UploadRoot(), manuscriptNumber)
	if err := os.MkdirAll(folder, os.ModePerm); err != nil {
		return "", err
	}
	return folder, nil
}

// StoredFilename builds a collision-free stored name that keeps the original
// extension.
func StoredFilename(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("%s%s", uuid.NewString(), ext)
}

// AllowedDocumentExt reports whether the file extension is accepted for
// manuscript uploads.
func AllowedDocumentExt(filename string) bool {
	allowed := map[string]bool{
		".pdf":  true,
		".doc":  true,
		".docx": true,
		".tex":  true,
		".xls":  true,
		".xlsx": true,
		".png":  true,
		".jpg":  true,
		".jpeg": true,
		".zip":  true,
	}
	return allowed[strings.ToLower(filepath.Ext(filename))]
}
