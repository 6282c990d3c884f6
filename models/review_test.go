package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestComputeIsLate(t *testing.T) {
	deadline := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	before := deadline.Add(-time.Hour)
	after := deadline.Add(time.Hour)

	cases := []struct {
		name   string
		status string
		now    time.Time
		want   bool
	}{
		{"pending before deadline", ReviewInProgress, before, false},
		{"pending past deadline", ReviewInProgress, after, true},
		{"invited past deadline", ReviewInvited, after, true},
		{"submitted past deadline", ReviewSubmitted, after, false},
		{"completed past deadline", ReviewCompleted, after, false},
	}
	for _, tc := range cases {
		review := Review{Status: tc.status, InvitationDeadline: deadline}
		if got := review.ComputeIsLate(tc.now); got != tc.want {
			t.Errorf("%s: ComputeIsLate = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestSanitizedContent_StripsConfidentialComments(t *testing.T) {
	content := ReviewContent{
		OverallRecommendation: RecommendAccept,
		Ratings:               Ratings{Originality: 5, Methodology: 5, Clarity: 5, Significance: 5, References: 5},
		Comments: ReviewComments{
			Strengths:            "strong theoretical grounding",
			Weaknesses:           "narrow evaluation",
			Suggestions:          "add a second dataset",
			ConfidentialComments: "I suspect undisclosed overlap with a prior paper",
		},
	}
	encoded, err := json.Marshal(content)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	review := Review{Content: encoded}
	sanitized, err := review.SanitizedContent()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sanitized.Comments.ConfidentialComments != "" {
		t.Error("confidential comments must be stripped")
	}
	if sanitized.Comments.Strengths != content.Comments.Strengths {
		t.Error("public comment sections must survive sanitization")
	}

	// The stored content is untouched.
	full, err := review.DecodeContent()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if full.Comments.ConfidentialComments == "" {
		t.Error("stored content must keep confidential comments")
	}
}

func TestSanitizedContent_EmptyReview(t *testing.T) {
	review := Review{}
	sanitized, err := review.SanitizedContent()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sanitized != nil {
		t.Errorf("expected nil content for unsubmitted review, got %+v", sanitized)
	}
}

func TestMeanRating(t *testing.T) {
	content := ReviewContent{Ratings: Ratings{Originality: 4, Methodology: 3, Clarity: 4, Significance: 3, References: 5}}
	if got := content.MeanRating(); got != 3.8 {
		t.Errorf("expected 3.8, got %v", got)
	}
}
