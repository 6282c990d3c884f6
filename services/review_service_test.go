package services

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"manuscript-review-api/models"
)

func validReviewContent() models.ReviewContent {
	return models.ReviewContent{
		OverallRecommendation: models.RecommendMinorRevision,
		Ratings: models.Ratings{
			Originality:  4,
			Methodology:  3,
			Clarity:      4,
			Significance: 3,
			References:   5,
		},
		Comments: models.ReviewComments{
			Strengths:   strings.Repeat("The experimental design is sound and well motivated. ", 2),
			Weaknesses:  strings.Repeat("The related work section misses recent results. ", 2),
			Suggestions: strings.Repeat("Expand the evaluation to larger datasets. ", 2),
		},
	}
}

func TestValidateReviewContent_Valid(t *testing.T) {
	if err := ValidateReviewContent(validReviewContent()); err != nil {
		t.Fatalf("expected valid review, got %v", err)
	}
}

func TestValidateReviewContent_ShortCommentSection(t *testing.T) {
	content := validReviewContent()
	content.Comments.Strengths = strings.Repeat("x", 40)
	err := ValidateReviewContent(content)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(verr.Fields) != 1 || verr.Fields[0].Field != "comments.strengths" {
		t.Fatalf("expected exactly one strengths failure, got %v", verr.Fields)
	}
}

func TestValidateReviewContent_RatingsOutOfRange(t *testing.T) {
	content := validReviewContent()
	content.Ratings.Clarity = 0
	content.Ratings.References = 6
	err := ValidateReviewContent(content)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if len(verr.Fields) != 2 {
		t.Fatalf("expected two rating failures, got %v", verr.Fields)
	}
}

func TestValidateReviewContent_UnknownRecommendation(t *testing.T) {
	content := validReviewContent()
	content.OverallRecommendation = "publish_immediately"
	if err := ValidateReviewContent(content); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestValidateReviewContent_ConfidentialCommentsOptional(t *testing.T) {
	content := validReviewContent()
	content.Comments.ConfidentialComments = ""
	if err := ValidateReviewContent(content); err != nil {
		t.Fatalf("confidential comments must stay optional, got %v", err)
	}
}

func TestEnsureReviewable(t *testing.T) {
	if err := EnsureReviewable(nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected not-found for an uninvited reviewer, got %v", err)
	}

	accepted := &models.ManuscriptReviewer{Status: models.ReviewerAccepted}
	if err := EnsureReviewable(accepted); err != nil {
		t.Errorf("accepted invitation must allow submission, got %v", err)
	}

	for _, status := range []string{models.ReviewerInvited, models.ReviewerDeclined, models.ReviewerCompleted} {
		entry := &models.ManuscriptReviewer{Status: status}
		if err := EnsureReviewable(entry); !errors.Is(err, ErrConflict) {
			t.Errorf("expected conflict for %s entry, got %v", status, err)
		}
	}
}

func TestEnsureReviewable_CompletedCannotResubmit(t *testing.T) {
	entry := &models.ManuscriptReviewer{Status: models.ReviewerCompleted}
	err := EnsureReviewable(entry)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("completed entry must not submit again, got %v", err)
	}
	if !strings.Contains(err.Error(), "already submitted") {
		t.Errorf("conflict should say the review was already submitted, got %q", err.Error())
	}
}

func TestNextRevisionVersion(t *testing.T) {
	if got := NextRevisionVersion(nil); got != 1 {
		t.Errorf("expected first version 1, got %d", got)
	}
	revisions := []models.ReviewRevision{{Version: 1}, {Version: 3}, {Version: 2}}
	if got := NextRevisionVersion(revisions); got != 4 {
		t.Errorf("expected max+1 = 4, got %d", got)
	}
}

func TestApplyResubmission_FirstSubmissionHasNoSnapshot(t *testing.T) {
	now := time.Now()
	review := &models.Review{ReviewID: 5, CurrentRound: 1}

	snapshot, err := ApplyResubmission(review, validReviewContent(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshot != nil {
		t.Fatalf("first submission must not snapshot, got %+v", snapshot)
	}
	if review.CurrentRound != 1 {
		t.Errorf("round must stay 1 on first submission, got %d", review.CurrentRound)
	}
	if review.Status != models.ReviewCompleted {
		t.Errorf("expected completed status, got %s", review.Status)
	}
	if review.SubmittedAt == nil || review.CompletedAt == nil {
		t.Error("expected submission timestamps to be set")
	}
}

func TestApplyResubmission_SnapshotsPreviousContent(t *testing.T) {
	now := time.Now()
	previous := validReviewContent()
	previous.OverallRecommendation = models.RecommendMajorRevision
	encoded, _ := json.Marshal(previous)

	review := &models.Review{
		ReviewID:     5,
		Content:      encoded,
		CurrentRound: 1,
		Status:       models.ReviewCompleted,
	}

	updated := validReviewContent()
	updated.OverallRecommendation = models.RecommendAccept

	snapshot, err := ApplyResubmission(review, updated, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshot == nil {
		t.Fatal("resubmission must snapshot the previous content")
	}
	if snapshot.Version != 1 {
		t.Errorf("expected snapshot version 1, got %d", snapshot.Version)
	}

	var archived models.ReviewContent
	if err := json.Unmarshal(snapshot.Content, &archived); err != nil {
		t.Fatalf("snapshot content must decode: %v", err)
	}
	if archived.OverallRecommendation != models.RecommendMajorRevision {
		t.Errorf("snapshot must hold the previous content, got %s", archived.OverallRecommendation)
	}

	current, err := review.DecodeContent()
	if err != nil {
		t.Fatalf("current content must decode: %v", err)
	}
	if current.OverallRecommendation != models.RecommendAccept {
		t.Errorf("live content must hold the new submission, got %s", current.OverallRecommendation)
	}
	if review.CurrentRound != 2 {
		t.Errorf("expected round bump to 2, got %d", review.CurrentRound)
	}
}

func TestSummarize(t *testing.T) {
	first := validReviewContent() // mean (4+3+4+3+5)/5 = 3.8
	second := validReviewContent()
	second.OverallRecommendation = models.RecommendAccept
	second.Ratings = models.Ratings{Originality: 5, Methodology: 5, Clarity: 5, Significance: 5, References: 5}

	firstJSON, _ := json.Marshal(first)
	secondJSON, _ := json.Marshal(second)

	reviews := []models.Review{
		{ReviewID: 1, Content: firstJSON},
		{ReviewID: 2, Content: secondJSON},
		{ReviewID: 3}, // not yet submitted, skipped
	}

	summary, err := Summarize(reviews)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.ReviewCount != 2 {
		t.Errorf("expected two counted reviews, got %d", summary.ReviewCount)
	}
	want := (3.8 + 5.0) / 2
	if diff := summary.MeanRating - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected mean %.2f, got %.2f", want, summary.MeanRating)
	}
	if summary.Recommendations[models.RecommendMinorRevision] != 1 ||
		summary.Recommendations[models.RecommendAccept] != 1 {
		t.Errorf("unexpected recommendation tally: %v", summary.Recommendations)
	}
}

func TestSummarize_Empty(t *testing.T) {
	summary, err := Summarize(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.ReviewCount != 0 || summary.MeanRating != 0 {
		t.Errorf("expected zero summary, got %+v", summary)
	}
}

func TestSummarize_CorruptContent(t *testing.T) {
	reviews := []models.Review{{ReviewID: 9, Content: json.RawMessage(`{`)}}
	if _, err := Summarize(reviews); !errors.Is(err, ErrStorage) {
		t.Fatalf("expected storage error on corrupt content, got %v", err)
	}
}
