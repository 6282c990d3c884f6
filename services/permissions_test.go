package services

import (
	"errors"
	"testing"

	"manuscript-review-api/models"
)

func TestCan_CapabilityTable(t *testing.T) {
	cases := []struct {
		role   string
		action string
		want   bool
	}{
		{models.RoleAuthor, ActionCreateManuscript, true},
		{models.RoleAuthor, ActionSubmitManuscript, true},
		{models.RoleAuthor, ActionUploadDocument, true},
		{models.RoleAuthor, ActionDecide, false},
		{models.RoleAuthor, ActionInviteReviewers, false},
		{models.RoleAuthor, ActionSubmitReview, false},
		{models.RoleReviewer, ActionRespondInvitation, true},
		{models.RoleReviewer, ActionSubmitReview, true},
		{models.RoleReviewer, ActionCreateManuscript, false},
		{models.RoleReviewer, ActionListReviews, false},
		{models.RoleEditor, ActionInviteReviewers, true},
		{models.RoleEditor, ActionDecide, true},
		{models.RoleEditor, ActionPublish, true},
		{models.RoleEditor, ActionSearchReviewers, true},
		{models.RoleEditor, ActionCreateManuscript, false},
		{models.RoleEditor, ActionSubmitReview, false},
		{models.RoleAdmin, ActionDecide, true},
		{models.RoleAdmin, ActionSubmitReview, true},
		{"", ActionReadManuscript, false},
		{"visitor", ActionReadManuscript, false},
	}
	for _, tc := range cases {
		if got := Can(tc.role, tc.action); got != tc.want {
			t.Errorf("Can(%q, %q) = %v, want %v", tc.role, tc.action, got, tc.want)
		}
	}
}

func TestAuthorize(t *testing.T) {
	if err := Authorize(Identity{}, ActionReadManuscript); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected unauthorized for missing identity, got %v", err)
	}
	if err := Authorize(Identity{UserID: 3, Role: models.RoleAuthor}, ActionDecide); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected forbidden for author deciding, got %v", err)
	}
	if err := Authorize(Identity{UserID: 3, Role: models.RoleEditor}, ActionDecide); err != nil {
		t.Errorf("expected editor to decide, got %v", err)
	}
}

func TestCanReadManuscript_Scoping(t *testing.T) {
	m := &models.Manuscript{
		ManuscriptID: 11,
		SubmittedBy:  3,
		Status:       models.StatusUnderReview,
		Reviewers: []models.ManuscriptReviewer{
			{ManuscriptID: 11, ReviewerID: 8, Status: models.ReviewerAccepted},
		},
	}

	if err := CanReadManuscript(Identity{UserID: 3, Role: models.RoleAuthor}, m); err != nil {
		t.Errorf("owning author must read own manuscript, got %v", err)
	}
	if err := CanReadManuscript(Identity{UserID: 4, Role: models.RoleAuthor}, m); !errors.Is(err, ErrForbidden) {
		t.Errorf("other authors must be denied, got %v", err)
	}
	if err := CanReadManuscript(Identity{UserID: 8, Role: models.RoleReviewer}, m); err != nil {
		t.Errorf("invited reviewer must read, got %v", err)
	}
	if err := CanReadManuscript(Identity{UserID: 9, Role: models.RoleReviewer}, m); !errors.Is(err, ErrForbidden) {
		t.Errorf("uninvited reviewer must be denied, got %v", err)
	}
	if err := CanReadManuscript(Identity{UserID: 5, Role: models.RoleEditor}, m); err != nil {
		t.Errorf("editor must read non-draft manuscripts, got %v", err)
	}
	if err := CanReadManuscript(Identity{UserID: 99, Role: models.RoleAdmin}, m); err != nil {
		t.Errorf("admin must read anything, got %v", err)
	}
}

func TestCanReadManuscript_EditorCannotReadDrafts(t *testing.T) {
	draft := &models.Manuscript{ManuscriptID: 12, SubmittedBy: 3, Status: models.StatusDraft}
	if err := CanReadManuscript(Identity{UserID: 5, Role: models.RoleEditor}, draft); !errors.Is(err, ErrForbidden) {
		t.Errorf("drafts must be invisible to editors, got %v", err)
	}
	if err := CanReadManuscript(Identity{UserID: 3, Role: models.RoleAuthor}, draft); err != nil {
		t.Errorf("owning author must read own draft, got %v", err)
	}
}

func TestCanEditManuscript(t *testing.T) {
	m := &models.Manuscript{ManuscriptID: 11, SubmittedBy: 3}

	if err := CanEditManuscript(Identity{}, m); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected unauthorized, got %v", err)
	}
	if err := CanEditManuscript(Identity{UserID: 3, Role: models.RoleAuthor}, m); err != nil {
		t.Errorf("owner must edit, got %v", err)
	}
	if err := CanEditManuscript(Identity{UserID: 4, Role: models.RoleAuthor}, m); !errors.Is(err, ErrForbidden) {
		t.Errorf("non-owner must be denied, got %v", err)
	}
	if err := CanEditManuscript(Identity{UserID: 99, Role: models.RoleAdmin}, m); err != nil {
		t.Errorf("admin must edit, got %v", err)
	}
}

func TestSelfSelectableRole(t *testing.T) {
	for _, role := range []string{models.RoleAuthor, models.RoleReviewer, models.RoleEditor} {
		if !SelfSelectableRole(role) {
			t.Errorf("expected %s to be self-selectable", role)
		}
	}
	if SelfSelectableRole(models.RoleAdmin) {
		t.Error("admin must never be self-selectable")
	}
	if SelfSelectableRole("root") {
		t.Error("unknown roles must never be self-selectable")
	}
}
