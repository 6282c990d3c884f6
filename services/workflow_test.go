package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"manuscript-review-api/models"
)

func TestCanTransition_LegalEdges(t *testing.T) {
	legal := [][2]string{
		{models.StatusDraft, models.StatusSubmitted},
		{models.StatusSubmitted, models.StatusUnderReview},
		{models.StatusUnderReview, models.StatusAccepted},
		{models.StatusUnderReview, models.StatusRevisionRequired},
		{models.StatusUnderReview, models.StatusRejected},
		{models.StatusRevisionRequired, models.StatusUnderReview},
		{models.StatusRevisionRequired, models.StatusAccepted},
		{models.StatusRevisionRequired, models.StatusRejected},
		{models.StatusAccepted, models.StatusPublished},
	}
	for _, edge := range legal {
		if !CanTransition(edge[0], edge[1]) {
			t.Errorf("expected %s -> %s to be legal", edge[0], edge[1])
		}
	}
}

func TestCanTransition_IllegalEdges(t *testing.T) {
	illegal := [][2]string{
		{models.StatusDraft, models.StatusUnderReview},
		{models.StatusSubmitted, models.StatusAccepted},
		{models.StatusSubmitted, models.StatusDraft},
		{models.StatusUnderReview, models.StatusDraft},
		{models.StatusRejected, models.StatusUnderReview},
		{models.StatusRejected, models.StatusSubmitted},
		{models.StatusPublished, models.StatusAccepted},
		{models.StatusAccepted, models.StatusUnderReview},
	}
	for _, edge := range illegal {
		if CanTransition(edge[0], edge[1]) {
			t.Errorf("expected %s -> %s to be rejected", edge[0], edge[1])
		}
	}
}

func validInput() ManuscriptInput {
	return ManuscriptInput{
		Title:          "Adaptive Routing in Delay Tolerant Networks",
		Abstract:       strings.Repeat("A thorough study of adaptive routing strategies. ", 3),
		ManuscriptType: models.TypeResearch,
		Keywords:       []string{"routing", "networks"},
		Authors: []AuthorInput{
			{Name: "Ana Silva", Email: "ana@example.edu", Corresponding: true},
		},
	}
}

func TestValidateManuscriptInput_Valid(t *testing.T) {
	if err := ValidateManuscriptInput(validInput(), false, false); err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}
}

func TestValidateManuscriptInput_CollectsAllFailures(t *testing.T) {
	in := ManuscriptInput{
		Title:          "short",
		Abstract:       "too short",
		ManuscriptType: "memoir",
		Keywords:       nil,
		Authors:        nil,
	}
	err := ValidateManuscriptInput(in, false, false)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	fields := map[string]bool{}
	for _, f := range verr.Fields {
		fields[f.Field] = true
	}
	for _, want := range []string{"title", "abstract", "manuscriptType", "keywords", "authors"} {
		if !fields[want] {
			t.Errorf("expected a failure on %s, got %v", want, verr.Fields)
		}
	}
}

func TestValidateManuscriptInput_RequiresCorrespondingAuthor(t *testing.T) {
	in := validInput()
	in.Authors = []AuthorInput{
		{Name: "Ana Silva", Email: "ana@example.edu"},
		{Name: "Ben Okafor", Email: "ben@example.edu"},
	}
	err := ValidateManuscriptInput(in, false, false)
	if err == nil {
		t.Fatal("expected validation error without a corresponding author")
	}
}

func TestValidateManuscriptInput_FileRequiredOnlyForSubmission(t *testing.T) {
	in := validInput()
	if err := ValidateManuscriptInput(in, false, false); err != nil {
		t.Fatalf("draft without file should pass, got %v", err)
	}
	if err := ValidateManuscriptInput(in, true, false); err == nil {
		t.Fatal("submission without a manuscript file should fail")
	}
	if err := ValidateManuscriptInput(in, true, true); err != nil {
		t.Fatalf("submission with file should pass, got %v", err)
	}
}

func TestValidateManuscriptInput_SuggestedReviewerCap(t *testing.T) {
	in := validInput()
	in.SuggestedReviewers = make([]models.SuggestedReviewer, 6)
	if err := ValidateManuscriptInput(in, false, false); err == nil {
		t.Fatal("expected failure with six suggested reviewers")
	}
}

func manuscriptWith(status string, reviewerIDs ...int) *models.Manuscript {
	m := &models.Manuscript{ManuscriptID: 7, Status: status}
	for _, id := range reviewerIDs {
		m.Reviewers = append(m.Reviewers, models.ManuscriptReviewer{
			ManuscriptID: 7,
			ReviewerID:   id,
			Status:       models.ReviewerInvited,
		})
	}
	return m
}

func TestPlanInvitations_DefaultsDeadline(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	plan, err := PlanInvitations(manuscriptWith(models.StatusSubmitted), []InviteRequest{{UserID: 42}}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.NewEntries) != 1 {
		t.Fatalf("expected one new entry, got %d", len(plan.NewEntries))
	}
	entry := plan.NewEntries[0]
	if entry.Status != models.ReviewerInvited {
		t.Errorf("expected invited status, got %s", entry.Status)
	}
	want := now.Add(DefaultReviewPeriod)
	if !entry.Deadline.Equal(want) {
		t.Errorf("expected deadline %v, got %v", want, entry.Deadline)
	}
	if plan.NextStatus != models.StatusUnderReview {
		t.Errorf("expected transition to under_review, got %q", plan.NextStatus)
	}
}

func TestPlanInvitations_ExplicitDeadlineWins(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	deadline := now.Add(30 * 24 * time.Hour)
	plan, err := PlanInvitations(manuscriptWith(models.StatusSubmitted),
		[]InviteRequest{{UserID: 42, Deadline: &deadline}}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !plan.NewEntries[0].Deadline.Equal(deadline) {
		t.Errorf("expected explicit deadline %v, got %v", deadline, plan.NewEntries[0].Deadline)
	}
}

func TestPlanInvitations_DraftRejected(t *testing.T) {
	_, err := PlanInvitations(manuscriptWith(models.StatusDraft), []InviteRequest{{UserID: 42}}, time.Now())
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict for draft manuscript, got %v", err)
	}
}

func TestPlanInvitations_FiltersDuplicates(t *testing.T) {
	now := time.Now()
	plan, err := PlanInvitations(manuscriptWith(models.StatusUnderReview, 42),
		[]InviteRequest{{UserID: 42}, {UserID: 43}, {UserID: 43}}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.NewEntries) != 1 || plan.NewEntries[0].ReviewerID != 43 {
		t.Fatalf("expected only reviewer 43 to be new, got %+v", plan.NewEntries)
	}
	if len(plan.AlreadyInvited) != 2 {
		t.Fatalf("expected two filtered duplicates, got %v", plan.AlreadyInvited)
	}
	// Already under review, nothing moves.
	if plan.NextStatus != "" {
		t.Errorf("expected no status transition, got %q", plan.NextStatus)
	}
}

func TestPlanInvitations_AllDuplicatesConflict(t *testing.T) {
	_, err := PlanInvitations(manuscriptWith(models.StatusUnderReview, 42),
		[]InviteRequest{{UserID: 42}}, time.Now())
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict when every invitee is a duplicate, got %v", err)
	}
}

func TestPlanInvitations_RevisionRequiredCyclesBack(t *testing.T) {
	plan, err := PlanInvitations(manuscriptWith(models.StatusRevisionRequired),
		[]InviteRequest{{UserID: 42}}, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.NextStatus != models.StatusUnderReview {
		t.Errorf("expected revision_required to cycle back to under_review, got %q", plan.NextStatus)
	}
}

func TestApplyInvitationResponse_Accept(t *testing.T) {
	now := time.Now()
	entry := &models.ManuscriptReviewer{Status: models.ReviewerInvited}
	if err := ApplyInvitationResponse(entry, InvitationAccept, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Status != models.ReviewerAccepted {
		t.Errorf("expected accepted, got %s", entry.Status)
	}
	if entry.RespondedAt == nil || !entry.RespondedAt.Equal(now) {
		t.Errorf("expected responded_at %v, got %v", now, entry.RespondedAt)
	}
}

func TestApplyInvitationResponse_Decline(t *testing.T) {
	entry := &models.ManuscriptReviewer{Status: models.ReviewerInvited}
	if err := ApplyInvitationResponse(entry, InvitationDecline, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Status != models.ReviewerDeclined {
		t.Errorf("expected declined, got %s", entry.Status)
	}
}

func TestApplyInvitationResponse_DoubleResponseConflict(t *testing.T) {
	entry := &models.ManuscriptReviewer{Status: models.ReviewerDeclined}
	err := ApplyInvitationResponse(entry, InvitationAccept, time.Now())
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict on double response, got %v", err)
	}
	if entry.Status != models.ReviewerDeclined {
		t.Errorf("entry must stay declined, got %s", entry.Status)
	}
	if !strings.Contains(err.Error(), "declined") {
		t.Errorf("conflict message should name the current status, got %q", err.Error())
	}
}

func TestApplyInvitationResponse_UnknownAction(t *testing.T) {
	entry := &models.ManuscriptReviewer{Status: models.ReviewerInvited}
	if err := ApplyInvitationResponse(entry, "maybe", time.Now()); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func decisionFeedback() string {
	return strings.Repeat("The methodology needs clearer justification. ", 3)
}

func TestPlanDecision_Accept(t *testing.T) {
	outcome, err := PlanDecision(models.StatusUnderReview, DecisionRequest{
		Decision: models.StatusAccepted,
		Feedback: decisionFeedback(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.NewStatus != models.StatusAccepted {
		t.Errorf("expected new status accepted, got %s", outcome.NewStatus)
	}
	if outcome.Normalized != models.DecisionAccept {
		t.Errorf("expected normalized accept, got %s", outcome.Normalized)
	}
	if outcome.RevisionType != nil {
		t.Errorf("expected no revision type, got %v", *outcome.RevisionType)
	}
	// The timeline keeps the request vocabulary, not the normalized form.
	if outcome.TimelineEvent != "Editorial decision: accepted" {
		t.Errorf("unexpected timeline event %q", outcome.TimelineEvent)
	}
}

func TestPlanDecision_RevisionRequiresType(t *testing.T) {
	_, err := PlanDecision(models.StatusUnderReview, DecisionRequest{
		Decision: models.StatusRevisionRequired,
		Feedback: decisionFeedback(),
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error without revision type, got %v", err)
	}

	outcome, err := PlanDecision(models.StatusUnderReview, DecisionRequest{
		Decision:     models.StatusRevisionRequired,
		Feedback:     decisionFeedback(),
		RevisionType: models.RevisionMajor,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Normalized != models.DecisionRevision {
		t.Errorf("expected normalized revision, got %s", outcome.Normalized)
	}
	if outcome.RevisionType == nil || *outcome.RevisionType != models.RevisionMajor {
		t.Errorf("expected major revision type, got %v", outcome.RevisionType)
	}
	if outcome.TimelineEvent != "Editorial decision: revision_required" {
		t.Errorf("unexpected timeline event %q", outcome.TimelineEvent)
	}
}

func TestPlanDecision_ShortFeedbackRejected(t *testing.T) {
	_, err := PlanDecision(models.StatusUnderReview, DecisionRequest{
		Decision: models.StatusRejected,
		Feedback: "too thin",
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error on short feedback, got %v", err)
	}
}

func TestPlanDecision_WrongStatusConflict(t *testing.T) {
	for _, status := range []string{models.StatusDraft, models.StatusSubmitted, models.StatusAccepted, models.StatusPublished} {
		_, err := PlanDecision(status, DecisionRequest{
			Decision: models.StatusAccepted,
			Feedback: decisionFeedback(),
		})
		if !errors.Is(err, ErrConflict) {
			t.Errorf("expected conflict from %s, got %v", status, err)
		}
	}
}

func TestPlanPublish(t *testing.T) {
	if err := PlanPublish(models.StatusAccepted); err != nil {
		t.Fatalf("accepted manuscripts must publish, got %v", err)
	}
	for _, status := range []string{models.StatusDraft, models.StatusUnderReview, models.StatusRejected, models.StatusPublished} {
		if err := PlanPublish(status); !errors.Is(err, ErrConflict) {
			t.Errorf("expected conflict publishing from %s, got %v", status, err)
		}
	}
}
