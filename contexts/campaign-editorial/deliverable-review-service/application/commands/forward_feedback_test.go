package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"deliverables/contexts/campaign-editorial/deliverable-review-service/domain/entities"
	domainerrors "deliverables/contexts/campaign-editorial/deliverable-review-service/domain/errors"
)

// clientRejected drives a client campaign draft to CLIENT_FEEDBACK on its only video.
func clientRejected(t *testing.T, f *fixture, feedback string) (string, string) {
	t.Helper()
	ctx := context.Background()
	draftID := f.openDraft(t, clientCampaign.CampaignID)
	ids := f.uploadVideos(t, draftID, "a.mp4")
	if _, err := f.review.Approve(ctx, ApproveCommand{Actor: admin, SubmissionID: draftID, MediaID: ids[0]}); err != nil {
		t.Fatalf("admin approve: %v", err)
	}
	_, err := f.review.RequestChanges(ctx, RequestChangesCommand{
		Actor:        client,
		SubmissionID: draftID,
		Feedback:     feedback,
		Reasons:      []string{"Lighting"},
	})
	if err != nil {
		t.Fatalf("client reject: %v", err)
	}
	return draftID, ids[0]
}

func TestForwardFeedbackWithEditKeepsOriginal(t *testing.T) {
	f := newFixture(t)
	draftID, mediaID := clientRejected(t, f, "too dark")
	if got := f.get(t, draftID).DisplayStatus; got != entities.SubmissionStatusSentToAdmin {
		t.Fatalf("expected SENT_TO_ADMIN before forwarding, got %s", got)
	}

	f.clock.Advance(30 * time.Minute)
	result, err := f.forward.Execute(context.Background(), ForwardFeedbackCommand{
		Actor:          admin,
		SubmissionID:   draftID,
		EditedFeedback: "Please brighten the indoor scenes",
	})
	if err != nil {
		t.Fatalf("forward: %v", err)
	}
	entry := result.Submission.Feedback[len(result.Submission.Feedback)-1]
	if entry.Content != "Please brighten the indoor scenes" || entry.OriginalContent != "too dark" {
		t.Fatalf("unexpected edited entry %+v", entry)
	}
	if entry.EditedAt == nil || !entry.EditedAt.Equal(f.clock.Now()) {
		t.Fatalf("expected EditedAt %s, got %v", f.clock.Now(), entry.EditedAt)
	}
	if !entry.Forwarded || entry.ForwardedByID != admin.UserID {
		t.Fatalf("expected entry forwarded by admin, got %+v", entry)
	}
	if got := mediaStatus(t, result.Submission, mediaID); got != entities.MediaStatusChangesRequired {
		t.Fatalf("expected CHANGES_REQUIRED, got %s", got)
	}
	if result.Submission.Status != entities.SubmissionStatusChangesRequired {
		t.Fatalf("expected CHANGES_REQUIRED, got %s", result.Submission.Status)
	}
	if !containsEvent(f.store.OutboxEventTypes(), EventFeedbackEdited) {
		t.Fatalf("expected %s in outbox", EventFeedbackEdited)
	}
}

func TestForwardFeedbackTwiceFails(t *testing.T) {
	f := newFixture(t)
	draftID, _ := clientRejected(t, f, "too dark")
	ctx := context.Background()

	if _, err := f.forward.Execute(ctx, ForwardFeedbackCommand{Actor: admin, SubmissionID: draftID}); err != nil {
		t.Fatalf("first forward: %v", err)
	}
	_, err := f.forward.Execute(ctx, ForwardFeedbackCommand{Actor: admin, SubmissionID: draftID})
	if !errors.Is(err, domainerrors.ErrInvalidStatusTransition) {
		t.Fatalf("expected ErrInvalidStatusTransition, got %v", err)
	}
}

func TestForwardFeedbackIsAdminOnly(t *testing.T) {
	f := newFixture(t)
	draftID, _ := clientRejected(t, f, "too dark")
	ctx := context.Background()

	for _, actor := range []entities.Actor{client, creator, finance} {
		_, err := f.forward.Execute(ctx, ForwardFeedbackCommand{Actor: actor, SubmissionID: draftID})
		if !errors.Is(err, domainerrors.ErrForbidden) {
			t.Fatalf("expected ErrForbidden for %s, got %v", actor.UserID, err)
		}
	}
}

func TestForwardFeedbackRejectedOnAdminCampaign(t *testing.T) {
	f := newFixture(t)
	draftID := f.openDraft(t, adminCampaign.CampaignID)
	f.uploadVideos(t, draftID, "a.mp4")

	_, err := f.forward.Execute(context.Background(), ForwardFeedbackCommand{Actor: admin, SubmissionID: draftID})
	if !errors.Is(err, domainerrors.ErrInvalidStatusTransition) {
		t.Fatalf("expected ErrInvalidStatusTransition, got %v", err)
	}
}
