package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"deliverables/contexts/campaign-editorial/deliverable-review-service/adapters/memory"
	"deliverables/contexts/campaign-editorial/deliverable-review-service/domain/entities"
	"deliverables/contexts/campaign-editorial/deliverable-review-service/ports"
)

var (
	admin   = entities.Actor{UserID: "admin-1", Role: entities.ActorRoleAdmin}
	finance = entities.Actor{UserID: "admin-2", Role: entities.ActorRoleAdmin, AdminMode: entities.AdminModeFinance}
	client  = entities.Actor{UserID: "client-1", Role: entities.ActorRoleClient}
	creator = entities.Actor{UserID: "creator-1", Role: entities.ActorRoleCreator}

	adminCampaign  = entities.Campaign{CampaignID: "camp-v2", Name: "Spring", Origin: entities.CampaignOriginAdmin}
	clientCampaign = entities.Campaign{CampaignID: "camp-v3", Name: "Summer", Origin: entities.CampaignOriginClient}
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// flakyRepository fails stage creation for one submission type until healed.
type flakyRepository struct {
	ports.Repository
	failType entities.SubmissionType
}

var errStoreUnavailable = errors.New("store unavailable")

func (r *flakyRepository) CreateSubmission(ctx context.Context, submission entities.Submission, events []ports.EventEnvelope) error {
	if r.failType != "" && submission.Type == r.failType {
		return errStoreUnavailable
	}
	return r.Repository.CreateSubmission(ctx, submission, events)
}

type fixture struct {
	store        *memory.Store
	clock        *fixedClock
	flaky        *flakyRepository
	create       CreateSubmissionUseCase
	upload       UploadMediaUseCase
	submit       SubmitUseCase
	review       ReviewUseCase
	forward      ForwardFeedbackUseCase
	orchestrator StageOrchestrator
}

func newFixture(t *testing.T, seed ...entities.Submission) *fixture {
	t.Helper()
	store := memory.NewStore([]entities.Campaign{adminCampaign, clientCampaign}, seed)
	clock := &fixedClock{now: time.Date(2026, 4, 6, 10, 0, 0, 0, time.UTC)}
	flaky := &flakyRepository{Repository: store}
	orchestrator := StageOrchestrator{
		Repository: flaky,
		Locker:     store,
		Clock:      clock,
		IDGen:      store,
	}
	return &fixture{
		store:        store,
		clock:        clock,
		flaky:        flaky,
		create:       CreateSubmissionUseCase{Repository: store, Campaigns: store, Clock: clock, IDGen: store},
		upload:       UploadMediaUseCase{Repository: store, Campaigns: store, Locker: store, Clock: clock, IDGen: store},
		submit:       SubmitUseCase{Repository: store, Campaigns: store, Locker: store, Clock: clock, IDGen: store},
		review:       ReviewUseCase{Repository: store, Campaigns: store, Locker: store, Clock: clock, IDGen: store, Orchestrator: orchestrator},
		forward:      ForwardFeedbackUseCase{Repository: store, Campaigns: store, Locker: store, Clock: clock, IDGen: store, Orchestrator: orchestrator},
		orchestrator: orchestrator,
	}
}

// openDraft creates a first draft for creator-1 and returns its id.
func (f *fixture) openDraft(t *testing.T, campaignID string) string {
	t.Helper()
	created, err := f.create.Execute(context.Background(), CreateSubmissionCommand{
		Actor:      admin,
		CampaignID: campaignID,
		CreatorID:  creator.UserID,
		Type:       entities.SubmissionTypeFirstDraft,
	})
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}
	return created.SubmissionID
}

// uploadVideos uploads and submits one video per file name.
func (f *fixture) uploadVideos(t *testing.T, submissionID string, fileNames ...string) []string {
	t.Helper()
	ids := make([]string, 0, len(fileNames))
	for _, name := range fileNames {
		_, item, err := f.upload.Execute(context.Background(), UploadMediaCommand{
			Actor:        creator,
			SubmissionID: submissionID,
			Kind:         entities.MediaKindVideo,
			URL:          "https://cdn.example.com/" + name,
			FileName:     name,
		})
		if err != nil {
			t.Fatalf("upload %s: %v", name, err)
		}
		ids = append(ids, item.MediaID)
	}
	if _, err := f.submit.Execute(context.Background(), SubmitCommand{Actor: creator, SubmissionID: submissionID}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	return ids
}

func (f *fixture) get(t *testing.T, submissionID string) entities.Submission {
	t.Helper()
	submission, err := f.store.GetSubmission(context.Background(), submissionID)
	if err != nil {
		t.Fatalf("get %s: %v", submissionID, err)
	}
	return submission
}

func mediaStatus(t *testing.T, submission entities.Submission, mediaID string) entities.MediaStatus {
	t.Helper()
	item, err := submission.FindMedia(mediaID)
	if err != nil {
		t.Fatalf("find media %s: %v", mediaID, err)
	}
	return item.Status
}

func containsEvent(types []string, eventType string) bool {
	for _, item := range types {
		if item == eventType {
			return true
		}
	}
	return false
}
