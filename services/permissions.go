package services

import "manuscript-review-api/models"

// Actions checked against the capability table. Resource-level ownership is
// checked separately (CanReadManuscript, CanEditManuscript).
const (
	ActionCreateManuscript  = "manuscript:create"
	ActionSubmitManuscript  = "manuscript:submit"
	ActionReadManuscript    = "manuscript:read"
	ActionInviteReviewers   = "manuscript:invite_reviewers"
	ActionRespondInvitation = "manuscript:respond_invitation"
	ActionDecide            = "manuscript:decide"
	ActionPublish           = "manuscript:publish"
	ActionUploadDocument    = "manuscript:upload"
	ActionSubmitReview      = "review:submit"
	ActionListReviews       = "review:list"
	ActionSearchReviewers   = "users:search"
)

// capabilities is the role → permitted-actions table. Keeping the policy in
// one table keeps it auditable; controllers never test roles inline.
var capabilities = map[string]map[string]bool{
	models.RoleAuthor: {
		ActionCreateManuscript: true,
		ActionSubmitManuscript: true,
		ActionReadManuscript:   true,
		ActionUploadDocument:   true,
	},
	models.RoleReviewer: {
		ActionReadManuscript:    true,
		ActionRespondInvitation: true,
		ActionSubmitReview:      true,
	},
	models.RoleEditor: {
		ActionReadManuscript:  true,
		ActionInviteReviewers: true,
		ActionDecide:          true,
		ActionPublish:         true,
		ActionListReviews:     true,
		ActionSearchReviewers: true,
	},
	models.RoleAdmin: {
		ActionCreateManuscript:  true,
		ActionSubmitManuscript:  true,
		ActionReadManuscript:    true,
		ActionInviteReviewers:   true,
		ActionRespondInvitation: true,
		ActionDecide:            true,
		ActionPublish:           true,
		ActionUploadDocument:    true,
		ActionSubmitReview:      true,
		ActionListReviews:       true,
		ActionSearchReviewers:   true,
	},
}

// Identity is the verified {userId, role} pair attached to a request. It is
// passed explicitly into every check; there is no ambient session state.
type Identity struct {
	UserID int
	Role   string
}

// Can consults the capability table.
func Can(role, action string) bool {
	return capabilities[role][action]
}

// Authorize rejects the action for missing identities (Unauthorized) and for
// roles the capability table does not permit (Forbidden).
func Authorize(id Identity, action string) error {
	if id.UserID == 0 {
		return Errorf(ErrUnauthorized, "Authentication required")
	}
	if !Can(id.Role, action) {
		return Errorf(ErrForbidden, "Insufficient permissions")
	}
	return nil
}

// CanReadManuscript enforces the read scoping rules: authors read their own
// manuscripts, reviewers read manuscripts they are invited to, editors read
// anything past draft, admins are unconstrained.
func CanReadManuscript(id Identity, m *models.Manuscript) error {
	if err := Authorize(id, ActionReadManuscript); err != nil {
		return err
	}

	switch id.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleAuthor:
		if m.SubmittedBy != id.UserID {
			return Errorf(ErrForbidden, "Access denied")
		}
	case models.RoleReviewer:
		if m.ReviewerEntry(id.UserID) == nil {
			return Errorf(ErrForbidden, "Access denied")
		}
	case models.RoleEditor:
		if m.Status == models.StatusDraft {
			return Errorf(ErrForbidden, "Access denied")
		}
	default:
		return Errorf(ErrForbidden, "Access denied")
	}
	return nil
}

// CanEditManuscript enforces ownership for author mutations (save-draft,
// submit, upload).
func CanEditManuscript(id Identity, m *models.Manuscript) error {
	if id.UserID == 0 {
		return Errorf(ErrUnauthorized, "Authentication required")
	}
	if id.Role == models.RoleAdmin {
		return nil
	}
	if m.SubmittedBy != id.UserID {
		return Errorf(ErrForbidden, "Only the submitting author can modify this manuscript")
	}
	return nil
}

// SelfSelectableRole reports whether a role may be chosen at registration.
// Admin is never self-assignable.
func SelfSelectableRole(role string) bool {
	switch role {
	case models.RoleAuthor, models.RoleReviewer, models.RoleEditor:
		return true
	}
	return false
}
