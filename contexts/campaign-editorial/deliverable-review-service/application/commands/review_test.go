package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"deliverables/contexts/campaign-editorial/deliverable-review-service/domain/entities"
	domainerrors "deliverables/contexts/campaign-editorial/deliverable-review-service/domain/errors"
)

func TestClientCampaignDraftRoutesThroughClient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	draftID := f.openDraft(t, clientCampaign.CampaignID)
	ids := f.uploadVideos(t, draftID, "a.mp4", "b.mp4")
	videoA, videoB := ids[0], ids[1]

	result, err := f.review.Approve(ctx, ApproveCommand{Actor: admin, SubmissionID: draftID, MediaID: videoA})
	if err != nil {
		t.Fatalf("approve A: %v", err)
	}
	if got := mediaStatus(t, result.Submission, videoA); got != entities.MediaStatusSentToClient {
		t.Fatalf("expected A SENT_TO_CLIENT, got %s", got)
	}
	if result.Submission.Status != entities.SubmissionStatusPendingReview {
		t.Fatalf("expected PENDING_REVIEW while B is pending, got %s", result.Submission.Status)
	}

	result, err = f.review.Approve(ctx, ApproveCommand{Actor: admin, SubmissionID: draftID, MediaID: videoB})
	if err != nil {
		t.Fatalf("approve B: %v", err)
	}
	for _, id := range ids {
		if got := mediaStatus(t, result.Submission, id); got != entities.MediaStatusSentToClient {
			t.Fatalf("expected %s SENT_TO_CLIENT, got %s", id, got)
		}
	}
	if result.Submission.DisplayStatus != entities.SubmissionStatusSentToClient {
		t.Fatalf("expected display SENT_TO_CLIENT, got %s", result.Submission.DisplayStatus)
	}

	f.clock.Advance(time.Hour)
	result, err = f.review.RequestChanges(ctx, RequestChangesCommand{
		Actor:        client,
		SubmissionID: draftID,
		MediaIDs:     []string{videoB},
		Feedback:     "too dark",
	})
	if err != nil {
		t.Fatalf("client reject B: %v", err)
	}
	if got := mediaStatus(t, result.Submission, videoB); got != entities.MediaStatusClientFeedback {
		t.Fatalf("expected B CLIENT_FEEDBACK, got %s", got)
	}
	if result.Submission.DisplayStatus != entities.SubmissionStatusClientFeedback {
		t.Fatalf("expected display CLIENT_FEEDBACK, got %s", result.Submission.DisplayStatus)
	}
	if result.Unlocked != nil {
		t.Fatalf("client feedback must not unlock a stage, got %+v", result.Unlocked)
	}

	f.clock.Advance(time.Hour)
	forwarded, err := f.forward.Execute(ctx, ForwardFeedbackCommand{Actor: admin, SubmissionID: draftID})
	if err != nil {
		t.Fatalf("forward: %v", err)
	}
	if got := mediaStatus(t, forwarded.Submission, videoB); got != entities.MediaStatusChangesRequired {
		t.Fatalf("expected B CHANGES_REQUIRED, got %s", got)
	}
	if got := mediaStatus(t, forwarded.Submission, videoA); got != entities.MediaStatusSentToClient {
		t.Fatalf("expected A untouched, got %s", got)
	}
	if forwarded.Submission.DisplayStatus != entities.SubmissionStatusChangesRequired {
		t.Fatalf("expected display CHANGES_REQUIRED, got %s", forwarded.Submission.DisplayStatus)
	}
	if !forwarded.Submission.ChangesRequested {
		t.Fatalf("expected ChangesRequested to be set")
	}
	if forwarded.Unlocked == nil || forwarded.Unlocked.Type != entities.SubmissionTypeFinalDraft {
		t.Fatalf("expected final draft to be unlocked, got %+v", forwarded.Unlocked)
	}

	feedback := forwarded.Submission.Feedback
	if len(feedback) != 1 || !feedback[0].Forwarded || feedback[0].Content != "too dark" || feedback[0].Edited() {
		t.Fatalf("expected one unedited forwarded entry, got %+v", feedback)
	}
	if len(feedback[0].VideosToUpdate) != 1 || feedback[0].VideosToUpdate[0] != videoB {
		t.Fatalf("expected feedback scoped to B, got %+v", feedback[0].VideosToUpdate)
	}
}

func TestClientCannotReviewAdminCampaign(t *testing.T) {
	f := newFixture(t)
	draftID := f.openDraft(t, adminCampaign.CampaignID)
	ids := f.uploadVideos(t, draftID, "a.mp4")

	_, err := f.review.Approve(context.Background(), ApproveCommand{Actor: client, SubmissionID: draftID, MediaID: ids[0]})
	if !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestClientCannotActBeforeAdmin(t *testing.T) {
	f := newFixture(t)
	draftID := f.openDraft(t, clientCampaign.CampaignID)
	ids := f.uploadVideos(t, draftID, "a.mp4")

	_, err := f.review.Approve(context.Background(), ApproveCommand{Actor: client, SubmissionID: draftID, MediaID: ids[0]})
	if !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for pending item, got %v", err)
	}
}

func TestFinanceAdminIsReadOnly(t *testing.T) {
	f := newFixture(t)
	draftID := f.openDraft(t, adminCampaign.CampaignID)
	ids := f.uploadVideos(t, draftID, "a.mp4")
	ctx := context.Background()

	if _, err := f.review.Approve(ctx, ApproveCommand{Actor: finance, SubmissionID: draftID, MediaID: ids[0]}); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden on approve, got %v", err)
	}
	_, err := f.review.RequestChanges(ctx, RequestChangesCommand{
		Actor:        finance,
		SubmissionID: draftID,
		Feedback:     "needs work",
	})
	if !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden on request changes, got %v", err)
	}
	if got := mediaStatus(t, f.get(t, draftID), ids[0]); got != entities.MediaStatusPendingReview {
		t.Fatalf("expected item untouched, got %s", got)
	}
}

func TestRejectionWithoutFeedbackLeavesStateUnchanged(t *testing.T) {
	f := newFixture(t)
	draftID := f.openDraft(t, adminCampaign.CampaignID)
	ids := f.uploadVideos(t, draftID, "a.mp4")
	before := f.get(t, draftID)
	outboxBefore := len(f.store.OutboxEventTypes())

	_, err := f.review.RequestChanges(context.Background(), RequestChangesCommand{
		Actor:        admin,
		SubmissionID: draftID,
		MediaIDs:     []string{ids[0]},
		Reasons:      []string{},
	})
	if !errors.Is(err, domainerrors.ErrFeedbackRequired) {
		t.Fatalf("expected ErrFeedbackRequired, got %v", err)
	}
	if domainerrors.KindOf(err) != domainerrors.KindValidation {
		t.Fatalf("expected validation kind, got %s", domainerrors.KindOf(err))
	}

	after := f.get(t, draftID)
	if got := mediaStatus(t, after, ids[0]); got != entities.MediaStatusPendingReview {
		t.Fatalf("expected PENDING_REVIEW, got %s", got)
	}
	if after.Version != before.Version || len(after.Feedback) != 0 {
		t.Fatalf("expected no write, got version %d feedback %d", after.Version, len(after.Feedback))
	}
	if got := len(f.store.OutboxEventTypes()); got != outboxBefore {
		t.Fatalf("expected no outbox rows, got %d new", got-outboxBefore)
	}
}

func TestRejectionWithUnknownReasonFails(t *testing.T) {
	f := newFixture(t)
	draftID := f.openDraft(t, adminCampaign.CampaignID)
	f.uploadVideos(t, draftID, "a.mp4")

	_, err := f.review.RequestChanges(context.Background(), RequestChangesCommand{
		Actor:        admin,
		SubmissionID: draftID,
		Feedback:     "reshoot",
		Reasons:      []string{"Too quiet"},
	})
	if !errors.Is(err, domainerrors.ErrInvalidReason) {
		t.Fatalf("expected ErrInvalidReason, got %v", err)
	}
}

func TestAdminRejectionUnlocksFinalDraft(t *testing.T) {
	f := newFixture(t)
	draftID := f.openDraft(t, adminCampaign.CampaignID)
	ids := f.uploadVideos(t, draftID, "a.mp4", "b.mp4")

	if _, err := f.review.Approve(context.Background(), ApproveCommand{Actor: admin, SubmissionID: draftID, MediaID: ids[0]}); err != nil {
		t.Fatalf("approve A: %v", err)
	}
	result, err := f.review.RequestChanges(context.Background(), RequestChangesCommand{
		Actor:        admin,
		SubmissionID: draftID,
		MediaIDs:     []string{ids[1]},
		Feedback:     "Reframe the opening shot",
		Reasons:      []string{"framing"},
	})
	if err != nil {
		t.Fatalf("request changes: %v", err)
	}
	if got := mediaStatus(t, result.Submission, ids[1]); got != entities.MediaStatusRevisionRequested {
		t.Fatalf("expected REVISION_REQUESTED, got %s", got)
	}
	if result.Submission.Status != entities.SubmissionStatusChangesRequired {
		t.Fatalf("expected CHANGES_REQUIRED once A is approved, got %s", result.Submission.Status)
	}
	if result.Unlocked == nil || result.Unlocked.Type != entities.SubmissionTypeFinalDraft {
		t.Fatalf("expected final draft unlock, got %+v", result.Unlocked)
	}
	wantDue := f.clock.Now().Add(DefaultStageDueIn)
	if result.Unlocked.DueDate == nil || !result.Unlocked.DueDate.Equal(wantDue) {
		t.Fatalf("expected due %s, got %v", wantDue, result.Unlocked.DueDate)
	}
	entry := result.Submission.Feedback[0]
	if entry.Type != entities.FeedbackTypeRequest || entry.AuthorRole != entities.ActorRoleAdmin {
		t.Fatalf("unexpected ledger entry %+v", entry)
	}
}

func TestApproveWholeDraftApprovesEveryPendingItem(t *testing.T) {
	f := newFixture(t)
	draftID := f.openDraft(t, adminCampaign.CampaignID)
	ids := f.uploadVideos(t, draftID, "a.mp4", "b.mp4")

	result, err := f.review.Approve(context.Background(), ApproveCommand{Actor: admin, SubmissionID: draftID, Feedback: "Great work"})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	for _, id := range ids {
		if got := mediaStatus(t, result.Submission, id); got != entities.MediaStatusApproved {
			t.Fatalf("expected %s APPROVED, got %s", id, got)
		}
	}
	if result.Submission.Status != entities.SubmissionStatusApproved {
		t.Fatalf("expected APPROVED, got %s", result.Submission.Status)
	}
	if len(result.Submission.Feedback) != 1 || result.Submission.Feedback[0].Type != entities.FeedbackTypeComment {
		t.Fatalf("expected one comment, got %+v", result.Submission.Feedback)
	}
	if result.Unlocked == nil || result.Unlocked.Type != entities.SubmissionTypePosting {
		t.Fatalf("expected posting unlock, got %+v", result.Unlocked)
	}
}

func TestRepeatedApprovalIsNoOp(t *testing.T) {
	f := newFixture(t)
	draftID := f.openDraft(t, adminCampaign.CampaignID)
	f.uploadVideos(t, draftID, "a.mp4")
	ctx := context.Background()

	first, err := f.review.Approve(ctx, ApproveCommand{Actor: admin, SubmissionID: draftID})
	if err != nil {
		t.Fatalf("first approve: %v", err)
	}
	second, err := f.review.Approve(ctx, ApproveCommand{Actor: admin, SubmissionID: draftID})
	if err != nil {
		t.Fatalf("second approve: %v", err)
	}
	if !second.NoOp || second.Unlocked != nil {
		t.Fatalf("expected no-op without unlock, got %+v", second)
	}
	if second.Submission.Version != first.Submission.Version {
		t.Fatalf("expected version %d to stay, got %d", first.Submission.Version, second.Submission.Version)
	}
}

func TestLegacyDraftReviewedAsWhole(t *testing.T) {
	f := newFixture(t)
	draftID := f.openDraft(t, adminCampaign.CampaignID)
	ctx := context.Background()

	submitted, err := f.submit.Execute(ctx, SubmitCommand{
		Actor:        creator,
		SubmissionID: draftID,
		Content:      "https://drive.example.com/draft",
	})
	if err != nil {
		t.Fatalf("submit legacy draft: %v", err)
	}
	if submitted.Status != entities.SubmissionStatusPendingReview {
		t.Fatalf("expected PENDING_REVIEW, got %s", submitted.Status)
	}

	result, err := f.review.RequestChanges(ctx, RequestChangesCommand{Actor: admin, SubmissionID: draftID, Feedback: "Shorter please"})
	if err != nil {
		t.Fatalf("reject legacy draft: %v", err)
	}
	if result.Submission.Status != entities.SubmissionStatusChangesRequired || !result.Submission.ChangesRequested {
		t.Fatalf("expected CHANGES_REQUIRED, got %+v", result.Submission)
	}
	if result.Unlocked == nil || result.Unlocked.Type != entities.SubmissionTypeFinalDraft {
		t.Fatalf("expected final draft unlock, got %+v", result.Unlocked)
	}
}

func TestReviewRecordsOutboxEvents(t *testing.T) {
	f := newFixture(t)
	draftID := f.openDraft(t, adminCampaign.CampaignID)
	f.uploadVideos(t, draftID, "a.mp4")

	if _, err := f.review.Approve(context.Background(), ApproveCommand{Actor: admin, SubmissionID: draftID}); err != nil {
		t.Fatalf("approve: %v", err)
	}
	types := f.store.OutboxEventTypes()
	for _, want := range []string{
		EventSubmissionCreated,
		EventMediaUploaded,
		EventSubmissionSent,
		EventMediaReviewed,
		EventStatusChanged,
		EventStageUnlocked,
	} {
		if !containsEvent(types, want) {
			t.Fatalf("expected %s in outbox, got %v", want, types)
		}
	}
}
