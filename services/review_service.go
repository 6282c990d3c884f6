package services

import (
	"encoding/json"
	"strings"
	"time"

	"manuscript-review-api/models"
)

func validRecommendation(value string) bool {
	switch value {
	case models.RecommendAccept, models.RecommendMinorRevision,
		models.RecommendMajorRevision, models.RecommendReject:
		return true
	}
	return false
}

func validScore(score int) bool {
	return score >= 1 && score <= 5
}

// ValidateReviewContent checks a submitted review body: a known
// recommendation, five 1-5 integer scores, and the three mandatory comment
// sections of at least 50 characters. Confidential comments stay optional.
func ValidateReviewContent(content models.ReviewContent) error {
	verr := &ValidationError{}

	if !validRecommendation(content.OverallRecommendation) {
		verr.add("overallRecommendation", "Recommendation must be accept, minor_revision, major_revision or reject")
	}

	scores := map[string]int{
		"ratings.originality":  content.Ratings.Originality,
		"ratings.methodology":  content.Ratings.Methodology,
		"ratings.clarity":      content.Ratings.Clarity,
		"ratings.significance": content.Ratings.Significance,
		"ratings.references":   content.Ratings.References,
	}
	for _, field := range []string{
		"ratings.originality", "ratings.methodology", "ratings.clarity",
		"ratings.significance", "ratings.references",
	} {
		if !validScore(scores[field]) {
			verr.add(field, "Rating must be an integer between 1 and 5")
		}
	}

	comments := map[string]string{
		"comments.strengths":   content.Comments.Strengths,
		"comments.weaknesses":  content.Comments.Weaknesses,
		"comments.suggestions": content.Comments.Suggestions,
	}
	for _, field := range []string{"comments.strengths", "comments.weaknesses", "comments.suggestions"} {
		if len(strings.TrimSpace(comments[field])) < 50 {
			verr.add(field, "Please provide at least 50 characters")
		}
	}

	return verr.orNil()
}

// EnsureReviewable gates review submission on the reviewer entry: only an
// accepted invitation may submit. A completed entry cannot resubmit without
// being accepted again.
func EnsureReviewable(entry *models.ManuscriptReviewer) error {
	if entry == nil {
		return Errorf(ErrNotFound, "You are not invited to review this manuscript")
	}
	switch entry.Status {
	case models.ReviewerAccepted:
		return nil
	case models.ReviewerCompleted:
		return Errorf(ErrConflict, "You have already submitted a review for this manuscript")
	default:
		return Errorf(ErrConflict, "You must accept the invitation before submitting a review")
	}
}

// NextRevisionVersion returns previous max version + 1, starting at 1.
// Versions are never reused or skipped.
func NextRevisionVersion(revisions []models.ReviewRevision) int {
	max := 0
	for _, rev := range revisions {
		if rev.Version > max {
			max = rev.Version
		}
	}
	return max + 1
}

// ApplyResubmission overwrites the review content with the new submission,
// snapshotting the previous content into the revision history first. It
// returns the snapshot to insert, or nil on a first submission.
func ApplyResubmission(review *models.Review, content models.ReviewContent, now time.Time) (*models.ReviewRevision, error) {
	encoded, err := json.Marshal(content)
	if err != nil {
		return nil, Errorf(ErrStorage, "Failed to encode review content")
	}

	var snapshot *models.ReviewRevision
	if len(review.Content) > 0 {
		snapshot = &models.ReviewRevision{
			ReviewID:    review.ReviewID,
			Version:     NextRevisionVersion(review.Revisions),
			Content:     review.Content,
			SubmittedAt: now,
		}
		review.CurrentRound++
	}

	review.Content = encoded
	review.Status = models.ReviewCompleted
	submitted := now
	review.SubmittedAt = &submitted
	review.CompletedAt = &submitted
	return snapshot, nil
}

// ReviewSummary is the read-only decision aid computed from submitted
// reviews. The editor's decision is never derived from it.
type ReviewSummary struct {
	ReviewCount     int            `json:"review_count"`
	MeanRating      float64        `json:"mean_rating"`
	Recommendations map[string]int `json:"recommendations"`
}

// Summarize averages each review's five ratings, then averages across
// reviews, and tallies recommendations. Reviews without content (not yet
// submitted) are skipped.
func Summarize(reviews []models.Review) (ReviewSummary, error) {
	summary := ReviewSummary{Recommendations: make(map[string]int)}

	var total float64
	for i := range reviews {
		content, err := reviews[i].DecodeContent()
		if err != nil {
			return ReviewSummary{}, Errorf(ErrStorage, "Corrupt review content for review %d", reviews[i].ReviewID)
		}
		if content == nil {
			continue
		}
		summary.ReviewCount++
		total += content.MeanRating()
		summary.Recommendations[content.OverallRecommendation]++
	}

	if summary.ReviewCount > 0 {
		summary.MeanRating = total / float64(summary.ReviewCount)
	}
	return summary, nil
}
