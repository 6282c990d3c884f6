package services

import (
	"strings"
	"time"

	"manuscript-review-api/models"

	"gorm.io/gorm"
)

// DefaultReviewPeriod is the invitation deadline applied when the inviting
// editor does not set one.
const DefaultReviewPeriod = 14 * 24 * time.Hour

// manuscriptTransitions enumerates every legal status edge. Anything not in
// this table is a conflict, and nothing ever regresses to draft.
var manuscriptTransitions = map[string][]string{
	models.StatusDraft:            {models.StatusSubmitted},
	models.StatusSubmitted:        {models.StatusUnderReview},
	models.StatusUnderReview:      {models.StatusAccepted, models.StatusRevisionRequired, models.StatusRejected},
	models.StatusRevisionRequired: {models.StatusUnderReview, models.StatusAccepted, models.StatusRejected},
	models.StatusAccepted:         {models.StatusPublished},
	models.StatusRejected:         {},
	models.StatusPublished:        {},
}

// CanTransition reports whether from → to is a legal status edge.
func CanTransition(from, to string) bool {
	for _, next := range manuscriptTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionStatus applies from → to with a status-guarded update inside the
// given transaction. Zero affected rows means another writer moved the
// manuscript first; the caller's transaction must then roll back.
func TransitionStatus(tx *gorm.DB, manuscriptID int, from, to string) error {
	if !CanTransition(from, to) {
		return Errorf(ErrConflict, "Cannot move manuscript from %s to %s", from, to)
	}

	now := time.Now()
	result := tx.Model(&models.Manuscript{}).
		Where("manuscript_id = ? AND status = ?", manuscriptID, from).
		Updates(map[string]interface{}{
			"status":    to,
			"update_at": now,
		})
	if result.Error != nil {
		return Errorf(ErrStorage, "Failed to update manuscript status")
	}
	if result.RowsAffected == 0 {
		return Errorf(ErrConflict, "Manuscript status changed concurrently, expected %s", from)
	}
	return nil
}

// AppendTimelineEvent is the only way timeline rows are written. The table
// is insert-only; nothing updates or deletes entries.
func AppendTimelineEvent(tx *gorm.DB, manuscriptID, actorID int, event string) error {
	entry := models.TimelineEvent{
		ManuscriptID: manuscriptID,
		Event:        event,
		ActorID:      actorID,
		CreateAt:     time.Now(),
	}
	if err := tx.Create(&entry).Error; err != nil {
		return Errorf(ErrStorage, "Failed to record timeline event")
	}
	return nil
}

// AuthorInput is one entry of the typed author list on a submission payload.
type AuthorInput struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Affiliation   string `json:"affiliation"`
	Corresponding bool   `json:"corresponding"`
}

// ManuscriptInput is the validated portion of a create/save payload.
type ManuscriptInput struct {
	Title              string                     `json:"title"`
	Abstract           string                     `json:"abstract"`
	ManuscriptType     string                     `json:"manuscriptType"`
	Category           string                     `json:"category"`
	Authors            []AuthorInput              `json:"authors"`
	Keywords           []string                   `json:"keywords"`
	SuggestedReviewers []models.SuggestedReviewer `json:"suggestedReviewers"`
	Status             string                     `json:"status"`
}

func validManuscriptType(t string) bool {
	switch t {
	case models.TypeResearch, models.TypeReview, models.TypeCaseStudy, models.TypeShortCommunication:
		return true
	}
	return false
}

// ValidateManuscriptInput checks the submission payload field by field.
// Drafts and submissions validate the same constraints; only the manuscript
// file requirement is submission-specific (requireFile).
func ValidateManuscriptInput(in ManuscriptInput, requireFile, hasManuscriptFile bool) error {
	verr := &ValidationError{}

	title := strings.TrimSpace(in.Title)
	if len(title) < 10 {
		verr.add("title", "Title must be at least 10 characters")
	} else if len(title) > 500 {
		verr.add("title", "Title cannot exceed 500 characters")
	}

	abstract := strings.TrimSpace(in.Abstract)
	if len(abstract) < 50 {
		verr.add("abstract", "Abstract must be at least 50 characters")
	} else if len(abstract) > 3000 {
		verr.add("abstract", "Abstract cannot exceed 3000 characters")
	}

	if !validManuscriptType(in.ManuscriptType) {
		verr.add("manuscriptType", "Please select a valid manuscript type")
	}

	if len(in.Keywords) < 1 {
		verr.add("keywords", "At least 1 keyword is required")
	} else if len(in.Keywords) > 10 {
		verr.add("keywords", "Maximum 10 keywords allowed")
	}
	for _, keyword := range in.Keywords {
		if len(strings.TrimSpace(keyword)) < 2 {
			verr.add("keywords", "Keywords must be at least 2 characters")
			break
		}
	}

	if len(in.Authors) == 0 {
		verr.add("authors", "At least one author is required")
	} else {
		corresponding := false
		for _, author := range in.Authors {
			if len(strings.TrimSpace(author.Name)) < 2 {
				verr.add("authors", "Author name must be at least 2 characters")
			}
			if !validEmailShape(author.Email) {
				verr.add("authors", "Author "+author.Name+" has an invalid email address")
			}
			if author.Corresponding {
				corresponding = true
			}
		}
		if !corresponding {
			verr.add("authors", "At least one corresponding author is required")
		}
	}

	if len(in.SuggestedReviewers) > 5 {
		verr.add("suggestedReviewers", "Maximum 5 suggested reviewers allowed")
	}

	if in.Status != "" && in.Status != models.StatusDraft && in.Status != models.StatusSubmitted {
		verr.add("status", "Status must be draft or submitted")
	}

	if requireFile && !hasManuscriptFile {
		verr.add("files", "A manuscript file is required for submission")
	}

	return verr.orNil()
}

func validEmailShape(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 {
		return false
	}
	domain := email[at+1:]
	return strings.Contains(domain, ".") && !strings.ContainsAny(email, " \t")
}

// InviteRequest is one invitee of an invitation batch.
type InviteRequest struct {
	UserID   int        `json:"userId"`
	Deadline *time.Time `json:"deadline"`
}

// InvitationPlan is the computed effect of an invitation batch: the entries
// to insert, the invitees filtered out as duplicates, and the status
// transition the batch triggers (empty when none).
type InvitationPlan struct {
	NewEntries     []models.ManuscriptReviewer
	AlreadyInvited []int
	NextStatus     string
}

// PlanInvitations validates an invitation batch against the manuscript's
// current state. Duplicate invitees (already in reviewers, or repeated in
// the batch) are filtered per-invitee; a batch with nothing left fails as a
// conflict rather than silently doing nothing.
func PlanInvitations(m *models.Manuscript, reqs []InviteRequest, now time.Time) (*InvitationPlan, error) {
	if len(reqs) == 0 {
		return nil, Errorf(ErrValidation, "At least one reviewer is required")
	}
	if m.Status == models.StatusDraft {
		return nil, Errorf(ErrConflict, "Cannot assign reviewers to draft manuscripts")
	}

	existing := make(map[int]bool, len(m.Reviewers))
	for _, entry := range m.Reviewers {
		existing[entry.ReviewerID] = true
	}

	plan := &InvitationPlan{}
	for _, req := range reqs {
		if req.UserID <= 0 {
			return nil, Errorf(ErrValidation, "Invalid reviewer id")
		}
		if existing[req.UserID] {
			plan.AlreadyInvited = append(plan.AlreadyInvited, req.UserID)
			continue
		}
		existing[req.UserID] = true

		deadline := now.Add(DefaultReviewPeriod)
		if req.Deadline != nil {
			deadline = *req.Deadline
		}
		plan.NewEntries = append(plan.NewEntries, models.ManuscriptReviewer{
			ManuscriptID: m.ManuscriptID,
			ReviewerID:   req.UserID,
			Status:       models.ReviewerInvited,
			InvitedAt:    now,
			Deadline:     deadline,
		})
	}

	if len(plan.NewEntries) == 0 {
		return nil, Errorf(ErrConflict, "All selected reviewers have already been invited")
	}

	// The first successful invitation moves a submitted manuscript under
	// review; a revision-required manuscript cycles back the same way.
	if m.Status == models.StatusSubmitted || m.Status == models.StatusRevisionRequired {
		plan.NextStatus = models.StatusUnderReview
	}

	return plan, nil
}

// Invitation responses.
const (
	InvitationAccept  = "accept"
	InvitationDecline = "decline"
)

// ApplyInvitationResponse moves one reviewer entry out of the invited state.
// Re-responding to a resolved invitation is a conflict naming the current
// status; the entry is left untouched in that case.
func ApplyInvitationResponse(entry *models.ManuscriptReviewer, action string, now time.Time) error {
	if action != InvitationAccept && action != InvitationDecline {
		return Errorf(ErrValidation, "Action must be either 'accept' or 'decline'")
	}
	if entry.Status != models.ReviewerInvited {
		return Errorf(ErrConflict, "You have already %s this invitation", entry.Status)
	}

	if action == InvitationAccept {
		entry.Status = models.ReviewerAccepted
	} else {
		entry.Status = models.ReviewerDeclined
	}
	responded := now
	entry.RespondedAt = &responded
	return nil
}

// DecisionRequest is the editor's decision payload. Decision uses the
// request vocabulary (accepted / revision_required / rejected); the log
// stores the normalized form.
type DecisionRequest struct {
	Decision     string `json:"decision"`
	Feedback     string `json:"feedback"`
	RevisionType string `json:"revisionType"`
}

// DecisionOutcome is a validated decision ready to apply. TimelineEvent
// keeps the request vocabulary (accepted / revision_required / rejected)
// while the decision log stores the normalized form.
type DecisionOutcome struct {
	NewStatus     string
	Normalized    string
	RevisionType  *string
	TimelineEvent string
}

// PlanDecision validates an editorial decision against the manuscript's
// current status. Decisions are only legal from under_review or
// revision_required.
func PlanDecision(status string, req DecisionRequest) (*DecisionOutcome, error) {
	verr := &ValidationError{}

	var normalized string
	switch req.Decision {
	case models.StatusAccepted:
		normalized = models.DecisionAccept
	case models.StatusRejected:
		normalized = models.DecisionReject
	case models.StatusRevisionRequired:
		normalized = models.DecisionRevision
	default:
		verr.add("decision", "Decision must be accepted, revision_required or rejected")
	}

	if len(strings.TrimSpace(req.Feedback)) < 50 {
		verr.add("feedback", "Please provide detailed feedback (at least 50 characters)")
	}

	var revisionType *string
	if req.Decision == models.StatusRevisionRequired {
		switch req.RevisionType {
		case models.RevisionMinor, models.RevisionMajor:
			value := req.RevisionType
			revisionType = &value
		default:
			verr.add("revisionType", "Revision type must be minor or major")
		}
	}

	if err := verr.orNil(); err != nil {
		return nil, err
	}

	if status != models.StatusUnderReview && status != models.StatusRevisionRequired {
		return nil, Errorf(ErrConflict, "Manuscript is not ready for editorial decision")
	}

	return &DecisionOutcome{
		NewStatus:     req.Decision,
		Normalized:    normalized,
		RevisionType:  revisionType,
		TimelineEvent: "Editorial decision: " + req.Decision,
	}, nil
}

// PlanPublish validates the manual accepted → published transition.
func PlanPublish(status string) error {
	if status != models.StatusAccepted {
		return Errorf(ErrConflict, "Only accepted manuscripts can be published")
	}
	return nil
}
