package utils

import "testing"

func TestValidateEmail(t *testing.T) {
	valid := []string{"ana@example.edu", "a.b+tag@sub.domain.org"}
	for _, email := range valid {
		if !ValidateEmail(email) {
			t.Errorf("expected %q to be valid", email)
		}
	}
	invalid := []string{"", "no-at.example.com", "user@nodot", "user @example.com"}
	for _, email := range invalid {
		if ValidateEmail(email) {
			t.Errorf("expected %q to be invalid", email)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if ok, _ := ValidatePassword("short"); ok {
		t.Error("expected short password to fail")
	}
	if ok, msg := ValidatePassword("longenough"); !ok {
		t.Errorf("expected password to pass, got %q", msg)
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := SanitizeInput("  title \x00here  "); got != "title here" {
		t.Errorf("unexpected sanitized value %q", got)
	}
}

func TestStoredFilename_KeepsExtension(t *testing.T) {
	name := StoredFilename("Draft Paper.PDF")
	if len(name) <= len(".pdf") {
		t.Fatalf("expected generated name, got %q", name)
	}
	if name[len(name)-4:] != ".pdf" {
		t.Errorf("expected lowercase .pdf extension, got %q", name)
	}
}

func TestAllowedDocumentExt(t *testing.T) {
	for _, name := range []string{"paper.pdf", "paper.DOCX", "data.zip"} {
		if !AllowedDocumentExt(name) {
			t.Errorf("expected %q to be allowed", name)
		}
	}
	for _, name := range []string{"script.sh", "binary.exe", "noext"} {
		if AllowedDocumentExt(name) {
			t.Errorf("expected %q to be rejected", name)
		}
	}
}
