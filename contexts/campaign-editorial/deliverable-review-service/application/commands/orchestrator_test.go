package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"deliverables/contexts/campaign-editorial/deliverable-review-service/domain/entities"
	domainerrors "deliverables/contexts/campaign-editorial/deliverable-review-service/domain/errors"
)

func finalDraftAwaitingReview(at time.Time) []entities.Submission {
	return []entities.Submission{
		{
			SubmissionID: "sub-final",
			CampaignID:   adminCampaign.CampaignID,
			CreatorID:    creator.UserID,
			Type:         entities.SubmissionTypeFinalDraft,
			Status:       entities.SubmissionStatusPendingReview,
			Media: []entities.MediaItem{{
				MediaID:      "media-final",
				SubmissionID: "sub-final",
				Kind:         entities.MediaKindVideo,
				URL:          "https://cdn.example.com/final.mp4",
				Status:       entities.MediaStatusPendingReview,
				CreatedAt:    at,
				UpdatedAt:    at,
			}},
			CreatedAt: at,
			UpdatedAt: at,
		},
		{
			SubmissionID: "sub-posting",
			CampaignID:   adminCampaign.CampaignID,
			CreatorID:    creator.UserID,
			Type:         entities.SubmissionTypePosting,
			Status:       entities.SubmissionStatusNotStarted,
			CreatedAt:    at,
			UpdatedAt:    at,
		},
	}
}

func TestFinalDraftApprovalOpensPosting(t *testing.T) {
	seededAt := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	f := newFixture(t, finalDraftAwaitingReview(seededAt)...)

	result, err := f.review.Approve(context.Background(), ApproveCommand{
		Actor:        admin,
		SubmissionID: "sub-final",
		MediaID:      "media-final",
	})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if result.Submission.Status != entities.SubmissionStatusApproved {
		t.Fatalf("expected APPROVED final draft, got %s", result.Submission.Status)
	}
	if result.Unlocked == nil || result.Unlocked.SubmissionID != "sub-posting" {
		t.Fatalf("expected existing posting to be unlocked, got %+v", result.Unlocked)
	}

	posting := f.get(t, "sub-posting")
	if posting.Status != entities.SubmissionStatusInProgress {
		t.Fatalf("expected posting IN_PROGRESS, got %s", posting.Status)
	}
	wantDue := f.clock.Now().Add(7 * 24 * time.Hour)
	if posting.DueDate == nil || !posting.DueDate.Equal(wantDue) {
		t.Fatalf("expected due %s, got %v", wantDue, posting.DueDate)
	}
}

func TestReviewerDueDateOverridesWindow(t *testing.T) {
	seededAt := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	f := newFixture(t, finalDraftAwaitingReview(seededAt)...)
	due := time.Date(2026, 4, 20, 17, 0, 0, 0, time.UTC)

	result, err := f.review.Approve(context.Background(), ApproveCommand{
		Actor:        admin,
		SubmissionID: "sub-final",
		MediaID:      "media-final",
		DueDate:      &due,
	})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if result.Unlocked == nil || result.Unlocked.DueDate == nil || !result.Unlocked.DueDate.Equal(due) {
		t.Fatalf("expected due %s, got %+v", due, result.Unlocked)
	}
}

func TestStageUnlocksAtMostOnce(t *testing.T) {
	seededAt := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	f := newFixture(t, finalDraftAwaitingReview(seededAt)...)
	ctx := context.Background()

	if _, err := f.review.Approve(ctx, ApproveCommand{Actor: admin, SubmissionID: "sub-final", MediaID: "media-final"}); err != nil {
		t.Fatalf("approve: %v", err)
	}
	opened := f.get(t, "sub-posting")

	f.clock.Advance(48 * time.Hour)
	result, err := f.orchestrator.RetryUnlock(ctx, RetryUnlockCommand{Actor: admin, SubmissionID: "sub-final"})
	if err != nil {
		t.Fatalf("retry unlock: %v", err)
	}
	if !result.NoOp || result.Unlocked != nil {
		t.Fatalf("expected no-op retry, got %+v", result)
	}
	again := f.get(t, "sub-posting")
	if again.Version != opened.Version || !again.DueDate.Equal(*opened.DueDate) {
		t.Fatalf("posting changed on second unlock: %+v", again)
	}
}

func TestDependencyFailureKeepsCommittedReview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	draftID := f.openDraft(t, adminCampaign.CampaignID)
	f.uploadVideos(t, draftID, "a.mp4")
	f.flaky.failType = entities.SubmissionTypePosting

	result, err := f.review.Approve(ctx, ApproveCommand{Actor: admin, SubmissionID: draftID})
	if !errors.Is(err, domainerrors.ErrDependencyFailure) {
		t.Fatalf("expected ErrDependencyFailure, got %v", err)
	}
	if !errors.Is(err, errStoreUnavailable) {
		t.Fatalf("expected cause to be kept, got %v", err)
	}
	var depErr *domainerrors.DependencyError
	if !errors.As(err, &depErr) || depErr.Target != string(entities.SubmissionTypePosting) {
		t.Fatalf("expected dependency error for POSTING, got %v", err)
	}
	if result.Submission.Status != entities.SubmissionStatusApproved {
		t.Fatalf("expected committed APPROVED state, got %s", result.Submission.Status)
	}
	if got := f.get(t, draftID).Status; got != entities.SubmissionStatusApproved {
		t.Fatalf("expected stored APPROVED state, got %s", got)
	}

	f.flaky.failType = ""
	retried, err := f.orchestrator.RetryUnlock(ctx, RetryUnlockCommand{Actor: admin, SubmissionID: draftID})
	if err != nil {
		t.Fatalf("retry unlock: %v", err)
	}
	if retried.Unlocked == nil || retried.Unlocked.Type != entities.SubmissionTypePosting {
		t.Fatalf("expected posting after retry, got %+v", retried)
	}
	if retried.Unlocked.Status != entities.SubmissionStatusInProgress {
		t.Fatalf("expected IN_PROGRESS posting, got %s", retried.Unlocked.Status)
	}
}

func TestRetryUnlockRequiresWritableAdmin(t *testing.T) {
	f := newFixture(t)
	draftID := f.openDraft(t, adminCampaign.CampaignID)

	for _, actor := range []entities.Actor{finance, client, creator} {
		_, err := f.orchestrator.RetryUnlock(context.Background(), RetryUnlockCommand{Actor: actor, SubmissionID: draftID})
		if !errors.Is(err, domainerrors.ErrForbidden) {
			t.Fatalf("expected ErrForbidden for %s, got %v", actor.UserID, err)
		}
	}
}

func TestRetryUnlockWithNothingDue(t *testing.T) {
	f := newFixture(t)
	draftID := f.openDraft(t, adminCampaign.CampaignID)

	result, err := f.orchestrator.RetryUnlock(context.Background(), RetryUnlockCommand{Actor: admin, SubmissionID: draftID})
	if err != nil {
		t.Fatalf("retry unlock: %v", err)
	}
	if !result.NoOp {
		t.Fatalf("expected no-op, got %+v", result)
	}
}
