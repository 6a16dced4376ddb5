package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"deliverables/contexts/campaign-editorial/deliverable-review-service/domain/entities"
	domainerrors "deliverables/contexts/campaign-editorial/deliverable-review-service/domain/errors"
)

func TestUploadMediaValidatesInput(t *testing.T) {
	f := newFixture(t)
	draftID := f.openDraft(t, adminCampaign.CampaignID)

	cases := []struct {
		name string
		cmd  UploadMediaCommand
		want error
	}{
		{
			name: "relative url",
			cmd:  UploadMediaCommand{Actor: creator, SubmissionID: draftID, Kind: entities.MediaKindVideo, URL: "/uploads/a.mp4"},
			want: domainerrors.ErrInvalidSubmissionInput,
		},
		{
			name: "kind disabled for campaign",
			cmd:  UploadMediaCommand{Actor: creator, SubmissionID: draftID, Kind: entities.MediaKindPhoto, URL: "https://cdn.example.com/a.jpg"},
			want: domainerrors.ErrInvalidSubmissionInput,
		},
		{
			name: "other creator",
			cmd:  UploadMediaCommand{Actor: entities.Actor{UserID: "creator-2", Role: entities.ActorRoleCreator}, SubmissionID: draftID, Kind: entities.MediaKindVideo, URL: "https://cdn.example.com/a.mp4"},
			want: domainerrors.ErrForbidden,
		},
		{
			name: "client",
			cmd:  UploadMediaCommand{Actor: client, SubmissionID: draftID, Kind: entities.MediaKindVideo, URL: "https://cdn.example.com/a.mp4"},
			want: domainerrors.ErrForbidden,
		},
		{
			name: "unknown submission",
			cmd:  UploadMediaCommand{Actor: creator, SubmissionID: "missing", Kind: entities.MediaKindVideo, URL: "https://cdn.example.com/a.mp4"},
			want: domainerrors.ErrSubmissionNotFound,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := f.upload.Execute(context.Background(), tc.cmd)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
	if media := f.get(t, draftID).Media; len(media) != 0 {
		t.Fatalf("expected no media after rejected uploads, got %d", len(media))
	}
}

func TestUploadRejectedBeforeStageUnlock(t *testing.T) {
	f := newFixture(t)
	created, err := f.create.Execute(context.Background(), CreateSubmissionCommand{
		Actor:      admin,
		CampaignID: adminCampaign.CampaignID,
		CreatorID:  creator.UserID,
		Type:       entities.SubmissionTypeFinalDraft,
	})
	if err != nil {
		t.Fatalf("create final draft: %v", err)
	}

	_, _, err = f.upload.Execute(context.Background(), UploadMediaCommand{
		Actor:        creator,
		SubmissionID: created.SubmissionID,
		Kind:         entities.MediaKindVideo,
		URL:          "https://cdn.example.com/final.mp4",
	})
	if !errors.Is(err, domainerrors.ErrInvalidStatusTransition) {
		t.Fatalf("expected ErrInvalidStatusTransition, got %v", err)
	}
}

func TestReuploadAfterRevisionReturnsItemToCreator(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	draftID := f.openDraft(t, adminCampaign.CampaignID)
	ids := f.uploadVideos(t, draftID, "a.mp4")

	if _, err := f.review.RequestChanges(ctx, RequestChangesCommand{Actor: admin, SubmissionID: draftID, Feedback: "Audio clips"}); err != nil {
		t.Fatalf("request changes: %v", err)
	}

	_, item, err := f.upload.Execute(ctx, UploadMediaCommand{
		Actor:           creator,
		SubmissionID:    draftID,
		Kind:            entities.MediaKindVideo,
		URL:             "https://cdn.example.com/a-v2.mp4",
		FileName:        "a-v2.mp4",
		ReplacesMediaID: ids[0],
	})
	if err != nil {
		t.Fatalf("reupload: %v", err)
	}
	if item.MediaID != ids[0] || item.Status != entities.MediaStatusInProgress || item.FileName != "a-v2.mp4" {
		t.Fatalf("unexpected replaced item %+v", item)
	}
	submission := f.get(t, draftID)
	if len(submission.Media) != 1 || submission.Status != entities.SubmissionStatusInProgress {
		t.Fatalf("expected one IN_PROGRESS item, got %+v", submission)
	}
	if !submission.ChangesRequested {
		t.Fatalf("ChangesRequested must stay set after reupload")
	}

	submitted, err := f.submit.Execute(ctx, SubmitCommand{Actor: creator, SubmissionID: draftID})
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if submitted.Status != entities.SubmissionStatusPendingReview {
		t.Fatalf("expected PENDING_REVIEW, got %s", submitted.Status)
	}
}

func TestReuploadOfPendingItemFails(t *testing.T) {
	f := newFixture(t)
	draftID := f.openDraft(t, adminCampaign.CampaignID)
	ids := f.uploadVideos(t, draftID, "a.mp4")

	_, _, err := f.upload.Execute(context.Background(), UploadMediaCommand{
		Actor:           creator,
		SubmissionID:    draftID,
		Kind:            entities.MediaKindVideo,
		URL:             "https://cdn.example.com/a-v2.mp4",
		ReplacesMediaID: ids[0],
	})
	if !errors.Is(err, domainerrors.ErrInvalidStatusTransition) {
		t.Fatalf("expected ErrInvalidStatusTransition, got %v", err)
	}
}

func TestSubmitWithoutMediaFails(t *testing.T) {
	f := newFixture(t)
	draftID := f.openDraft(t, adminCampaign.CampaignID)

	_, err := f.submit.Execute(context.Background(), SubmitCommand{Actor: creator, SubmissionID: draftID})
	if !errors.Is(err, domainerrors.ErrInvalidStatusTransition) {
		t.Fatalf("expected ErrInvalidStatusTransition, got %v", err)
	}
}

func TestPostingLinkFlow(t *testing.T) {
	seededAt := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	f := newFixture(t, entities.Submission{
		SubmissionID: "sub-post",
		CampaignID:   clientCampaign.CampaignID,
		CreatorID:    creator.UserID,
		Type:         entities.SubmissionTypePosting,
		Status:       entities.SubmissionStatusInProgress,
		CreatedAt:    seededAt,
		UpdatedAt:    seededAt,
	})
	ctx := context.Background()

	if _, err := f.submit.Execute(ctx, SubmitCommand{Actor: creator, SubmissionID: "sub-post", Content: "not a link"}); !errors.Is(err, domainerrors.ErrInvalidSubmissionInput) {
		t.Fatalf("expected ErrInvalidSubmissionInput, got %v", err)
	}
	submitted, err := f.submit.Execute(ctx, SubmitCommand{Actor: creator, SubmissionID: "sub-post", Content: "https://social.example.com/p/1"})
	if err != nil {
		t.Fatalf("submit posting: %v", err)
	}
	if submitted.Status != entities.SubmissionStatusPendingReview || submitted.SubmissionDate == nil {
		t.Fatalf("unexpected submitted posting %+v", submitted)
	}

	result, err := f.review.Approve(ctx, ApproveCommand{Actor: admin, SubmissionID: "sub-post"})
	if err != nil {
		t.Fatalf("admin approve posting: %v", err)
	}
	if result.Submission.Status != entities.SubmissionStatusSentToClient {
		t.Fatalf("expected SENT_TO_CLIENT, got %s", result.Submission.Status)
	}
	result, err = f.review.Approve(ctx, ApproveCommand{Actor: client, SubmissionID: "sub-post"})
	if err != nil {
		t.Fatalf("client approve posting: %v", err)
	}
	if result.Submission.Status != entities.SubmissionStatusClientApproved {
		t.Fatalf("expected CLIENT_APPROVED, got %s", result.Submission.Status)
	}
}
