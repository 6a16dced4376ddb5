package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	"deliverables/contexts/campaign-editorial/deliverable-review-service/adapters/memory"
	"deliverables/contexts/campaign-editorial/deliverable-review-service/domain/entities"
	domainerrors "deliverables/contexts/campaign-editorial/deliverable-review-service/domain/errors"
)

var (
	admin   = entities.Actor{UserID: "admin-1", Role: entities.ActorRoleAdmin}
	finance = entities.Actor{UserID: "admin-2", Role: entities.ActorRoleAdmin, AdminMode: entities.AdminModeFinance}
	creator = entities.Actor{UserID: "creator-1", Role: entities.ActorRoleCreator}
)

func seededQueries(t *testing.T) QueryUseCase {
	t.Helper()
	at := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	campaigns := []entities.Campaign{
		{CampaignID: "camp-v3", Name: "Summer", Origin: entities.CampaignOriginClient, PhotosEnabled: true},
	}
	seed := []entities.Submission{
		{
			SubmissionID:  "sub-1-first",
			CampaignID:    "camp-v3",
			CreatorID:     "creator-1",
			Type:          entities.SubmissionTypeFirstDraft,
			Status:        entities.SubmissionStatusPendingReview,
			DisplayStatus: entities.SubmissionStatusSentToAdmin,
			Media: []entities.MediaItem{
				{MediaID: "m-1", Kind: entities.MediaKindVideo, Status: entities.MediaStatusClientFeedback, CreatedAt: at},
				{MediaID: "m-2", Kind: entities.MediaKindPhoto, Status: entities.MediaStatusApproved, CreatedAt: at},
				{MediaID: "m-3", Kind: entities.MediaKindRawFootage, Status: entities.MediaStatusInProgress, CreatedAt: at},
			},
			CreatedAt: at,
			UpdatedAt: at,
		},
		{
			SubmissionID: "sub-1-posting",
			CampaignID:   "camp-v3",
			CreatorID:    "creator-1",
			Type:         entities.SubmissionTypePosting,
			Status:       entities.SubmissionStatusNotStarted,
			CreatedAt:    at,
			UpdatedAt:    at,
		},
		{
			SubmissionID:     "sub-2-first",
			CampaignID:       "camp-v3",
			CreatorID:        "creator-2",
			Type:             entities.SubmissionTypeFirstDraft,
			Status:           entities.SubmissionStatusChangesRequired,
			ChangesRequested: true,
			CreatedAt:        at,
			UpdatedAt:        at,
		},
		{
			SubmissionID: "sub-2-final",
			CampaignID:   "camp-v3",
			CreatorID:    "creator-2",
			Type:         entities.SubmissionTypeFinalDraft,
			Status:       entities.SubmissionStatusInProgress,
			CreatedAt:    at,
			UpdatedAt:    at,
		},
	}
	store := memory.NewStore(campaigns, seed)
	return QueryUseCase{Repository: store, Campaigns: store}
}

func TestGetStatusCountsInScopeMediaOnly(t *testing.T) {
	uc := seededQueries(t)

	view, err := uc.GetStatus(context.Background(), creator, "sub-1-first")
	if err != nil {
		t.Fatalf("get status: %v", err)
	}
	if view.DisplayStatus != entities.SubmissionStatusSentToAdmin {
		t.Fatalf("expected SENT_TO_ADMIN, got %s", view.DisplayStatus)
	}
	if view.MediaCounts[entities.MediaStatusClientFeedback] != 1 || view.MediaCounts[entities.MediaStatusApproved] != 1 {
		t.Fatalf("unexpected counts %+v", view.MediaCounts)
	}
	if _, ok := view.MediaCounts[entities.MediaStatusInProgress]; ok {
		t.Fatalf("raw footage is disabled and must not be counted: %+v", view.MediaCounts)
	}
}

func TestGetSubmissionRestrictsCreators(t *testing.T) {
	uc := seededQueries(t)
	other := entities.Actor{UserID: "creator-2", Role: entities.ActorRoleCreator}

	if _, err := uc.GetSubmission(context.Background(), other, "sub-1-first"); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := uc.GetSubmission(context.Background(), finance, "sub-1-first"); err != nil {
		t.Fatalf("finance admin may read: %v", err)
	}
	if _, err := uc.GetSubmission(context.Background(), admin, "missing"); !errors.Is(err, domainerrors.ErrSubmissionNotFound) {
		t.Fatalf("expected ErrSubmissionNotFound, got %v", err)
	}
}

func TestListSubmissionsScopesCreatorsToThemselves(t *testing.T) {
	uc := seededQueries(t)
	ctx := context.Background()

	items, err := uc.ListSubmissions(ctx, ListSubmissionsQuery{Actor: creator, CampaignID: "camp-v3"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 || items[0].SubmissionID != "sub-1-first" || items[1].SubmissionID != "sub-1-posting" {
		t.Fatalf("unexpected creator listing %+v", items)
	}
	if _, err := uc.ListSubmissions(ctx, ListSubmissionsQuery{Actor: creator, CreatorID: "creator-2"}); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	items, err = uc.ListSubmissions(ctx, ListSubmissionsQuery{Actor: admin, Type: "first_draft", Status: "changes_required"})
	if err != nil {
		t.Fatalf("filtered list: %v", err)
	}
	if len(items) != 1 || items[0].SubmissionID != "sub-2-first" {
		t.Fatalf("unexpected filtered listing %+v", items)
	}
	if _, err := uc.ListSubmissions(ctx, ListSubmissionsQuery{Actor: admin, Type: "draft"}); !errors.Is(err, domainerrors.ErrInvalidSubmissionInput) {
		t.Fatalf("expected ErrInvalidSubmissionInput, got %v", err)
	}
}

func TestCreatorStatusAggregatesStages(t *testing.T) {
	uc := seededQueries(t)
	ctx := context.Background()

	first, err := uc.CreatorStatus(ctx, creator, "camp-v3", "creator-1")
	if err != nil {
		t.Fatalf("creator status: %v", err)
	}
	if first.Status != entities.SubmissionStatusSentToAdmin || first.ActionableStage != entities.SubmissionTypeFirstDraft {
		t.Fatalf("unexpected creator-1 view %+v", first)
	}
	if first.Variant != entities.WorkflowVariantV3 || len(first.Stages) != 2 {
		t.Fatalf("unexpected creator-1 stages %+v", first)
	}

	second, err := uc.CreatorStatus(ctx, admin, "camp-v3", "creator-2")
	if err != nil {
		t.Fatalf("creator status: %v", err)
	}
	if second.Status != entities.SubmissionStatusInProgress || second.ActionableStage != entities.SubmissionTypeFinalDraft {
		t.Fatalf("unexpected creator-2 view %+v", second)
	}

	if _, err := uc.CreatorStatus(ctx, creator, "camp-v3", "creator-2"); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := uc.CreatorStatus(ctx, admin, "missing", "creator-2"); !errors.Is(err, domainerrors.ErrCampaignNotFound) {
		t.Fatalf("expected ErrCampaignNotFound, got %v", err)
	}
}

func TestCreatorStatusesListsEveryCreator(t *testing.T) {
	uc := seededQueries(t)
	ctx := context.Background()

	views, err := uc.CreatorStatuses(ctx, admin, "camp-v3")
	if err != nil {
		t.Fatalf("creator statuses: %v", err)
	}
	if len(views) != 2 || views[0].CreatorID != "creator-1" || views[1].CreatorID != "creator-2" {
		t.Fatalf("unexpected views %+v", views)
	}
	counts := StatusCounts(views)
	if counts[entities.SubmissionStatusSentToAdmin] != 1 || counts[entities.SubmissionStatusInProgress] != 1 {
		t.Fatalf("unexpected counts %+v", counts)
	}
	if _, err := uc.CreatorStatuses(ctx, creator, "camp-v3"); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for creator, got %v", err)
	}
}

func TestClientReadsOnlyClientReviewedCampaigns(t *testing.T) {
	at := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	store := memory.NewStore(
		[]entities.Campaign{
			{CampaignID: "camp-v2", Origin: entities.CampaignOriginAdmin},
			{CampaignID: "camp-v3", Origin: entities.CampaignOriginClient},
		},
		[]entities.Submission{
			{SubmissionID: "sub-v2", CampaignID: "camp-v2", CreatorID: "creator-1", Type: entities.SubmissionTypeFirstDraft, Status: entities.SubmissionStatusNotStarted, CreatedAt: at, UpdatedAt: at},
			{SubmissionID: "sub-v3", CampaignID: "camp-v3", CreatorID: "creator-1", Type: entities.SubmissionTypeFirstDraft, Status: entities.SubmissionStatusNotStarted, CreatedAt: at, UpdatedAt: at},
		},
	)
	uc := QueryUseCase{Repository: store, Campaigns: store}
	client := entities.Actor{UserID: "brand-1", Role: entities.ActorRoleClient}
	ctx := context.Background()

	if _, err := uc.GetSubmission(ctx, client, "sub-v2"); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden on an admin-only campaign, got %v", err)
	}
	if _, err := uc.GetStatus(ctx, client, "sub-v3"); err != nil {
		t.Fatalf("client reads its own campaign: %v", err)
	}
	if _, err := uc.CreatorStatus(ctx, client, "camp-v2", "creator-1"); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for creator status, got %v", err)
	}
	if _, err := uc.CreatorStatuses(ctx, client, "camp-v2"); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for creator statuses, got %v", err)
	}
	if _, err := uc.ListSubmissions(ctx, ListSubmissionsQuery{Actor: client, CampaignID: "camp-v2"}); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for a filtered list, got %v", err)
	}

	items, err := uc.ListSubmissions(ctx, ListSubmissionsQuery{Actor: client})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].SubmissionID != "sub-v3" {
		t.Fatalf("expected only the client-reviewed submission, got %+v", items)
	}
}
