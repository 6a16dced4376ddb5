package workers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"deliverables/contexts/campaign-editorial/deliverable-review-service/adapters/memory"
	"deliverables/contexts/campaign-editorial/deliverable-review-service/application/commands"
	"deliverables/contexts/campaign-editorial/deliverable-review-service/domain/entities"
	domainerrors "deliverables/contexts/campaign-editorial/deliverable-review-service/domain/errors"
	"deliverables/contexts/campaign-editorial/deliverable-review-service/ports"
)

type recordingPublisher struct {
	topics  []string
	failOn  string
	failErr error
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, _ ports.EventEnvelope) error {
	if p.failOn != "" && topic == p.failOn {
		return p.failErr
	}
	p.topics = append(p.topics, topic)
	return nil
}

func seededStore() *memory.Store {
	at := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	return memory.NewStore(
		[]entities.Campaign{{CampaignID: "camp-1", Name: "Spring", Origin: entities.CampaignOriginAdmin}},
		[]entities.Submission{{
			SubmissionID: "sub-1",
			CampaignID:   "camp-1",
			CreatorID:    "creator-1",
			Type:         entities.SubmissionTypeFirstDraft,
			Status:       entities.SubmissionStatusNotStarted,
			CreatedAt:    at,
			UpdatedAt:    at,
		}},
	)
}

func uploadUseCase(store *memory.Store) commands.UploadMediaUseCase {
	return commands.UploadMediaUseCase{
		Repository: store,
		Campaigns:  store,
		Locker:     store,
		Clock:      store,
		IDGen:      store,
	}
}

func progressEvent(t *testing.T, fileName string, submissionID string, percent int) ports.EventEnvelope {
	t.Helper()
	data, err := json.Marshal(map[string]any{
		"file_name":     fileName,
		"submission_id": submissionID,
		"media_kind":    "video",
		"url":           "https://cdn.example.com/" + fileName,
		"uploader_id":   "creator-1",
		"uploader_role": "creator",
		"percent":       percent,
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return ports.EventEnvelope{EventID: fileName + "-progress", EventType: UploadProgressTopic, Data: data}
}

func TestOutboxRelayPublishesInCommitOrder(t *testing.T) {
	store := seededStore()
	ctx := context.Background()
	for _, name := range []string{"a.mp4", "b.mp4"} {
		_, _, err := uploadUseCase(store).Execute(ctx, commands.UploadMediaCommand{
			Actor:        entities.Actor{UserID: "creator-1", Role: entities.ActorRoleCreator},
			SubmissionID: "sub-1",
			Kind:         entities.MediaKindVideo,
			URL:          "https://cdn.example.com/" + name,
			FileName:     name,
		})
		if err != nil {
			t.Fatalf("upload %s: %v", name, err)
		}
	}
	want := store.OutboxEventTypes()
	if len(want) == 0 {
		t.Fatalf("expected outbox rows after uploads")
	}

	publisher := &recordingPublisher{}
	relay := OutboxRelay{Outbox: store, Publisher: publisher, Clock: store}
	published, err := relay.RunOnce(ctx)
	if err != nil {
		t.Fatalf("relay: %v", err)
	}
	if published != len(want) || len(publisher.topics) != len(want) {
		t.Fatalf("expected %d published, got %d", len(want), published)
	}
	for i := range want {
		if publisher.topics[i] != want[i] {
			t.Fatalf("expected topic %s at %d, got %s", want[i], i, publisher.topics[i])
		}
	}

	again, err := relay.RunOnce(ctx)
	if err != nil || again != 0 {
		t.Fatalf("expected nothing left to publish, got %d %v", again, err)
	}
}

func TestOutboxRelayStopsAtFirstFailure(t *testing.T) {
	store := seededStore()
	ctx := context.Background()
	_, _, err := uploadUseCase(store).Execute(ctx, commands.UploadMediaCommand{
		Actor:        entities.Actor{UserID: "creator-1", Role: entities.ActorRoleCreator},
		SubmissionID: "sub-1",
		Kind:         entities.MediaKindVideo,
		URL:          "https://cdn.example.com/a.mp4",
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	brokerDown := errors.New("broker down")
	publisher := &recordingPublisher{failOn: commands.EventMediaUploaded, failErr: brokerDown}
	relay := OutboxRelay{Outbox: store, Publisher: publisher, Clock: store}
	if _, err := relay.RunOnce(ctx); !errors.Is(err, brokerDown) {
		t.Fatalf("expected broker error, got %v", err)
	}
	pending, err := store.ListPendingOutbox(ctx, 0)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) == 0 || pending[0].EventType != commands.EventMediaUploaded {
		t.Fatalf("expected failed row to stay first in line, got %+v", pending)
	}

	publisher.failOn = ""
	if _, err := relay.RunOnce(ctx); err != nil {
		t.Fatalf("second cycle: %v", err)
	}
	pending, _ = store.ListPendingOutbox(ctx, 0)
	if len(pending) != 0 {
		t.Fatalf("expected outbox drained, got %d rows", len(pending))
	}
}

func TestUploadProgressRegistersOnceAtCompletion(t *testing.T) {
	store := seededStore()
	ctx := context.Background()
	consumer := UploadProgressConsumer{Progress: store, Uploads: uploadUseCase(store), Clock: store}

	if err := consumer.Handle(ctx, progressEvent(t, "a.mp4", "sub-1", 40)); err != nil {
		t.Fatalf("partial progress: %v", err)
	}
	if media := mustGet(t, store, "sub-1").Media; len(media) != 0 {
		t.Fatalf("partial upload must not register media, got %d", len(media))
	}
	progress, ok, err := store.GetProgress(ctx, "a.mp4")
	if err != nil || !ok || progress.Percent != 40 {
		t.Fatalf("expected 40%% progress, got %+v %v %v", progress, ok, err)
	}

	for i := 0; i < 2; i++ {
		if err := consumer.Handle(ctx, progressEvent(t, "a.mp4", "sub-1", 100)); err != nil {
			t.Fatalf("completion %d: %v", i, err)
		}
	}
	submission := mustGet(t, store, "sub-1")
	if len(submission.Media) != 1 {
		t.Fatalf("expected exactly one media item, got %d", len(submission.Media))
	}
	if submission.Media[0].FileName != "a.mp4" || submission.Media[0].Status != entities.MediaStatusInProgress {
		t.Fatalf("unexpected media %+v", submission.Media[0])
	}
	if submission.Status != entities.SubmissionStatusInProgress {
		t.Fatalf("expected IN_PROGRESS, got %s", submission.Status)
	}
}

func TestUploadProgressReleasesFailedRegistration(t *testing.T) {
	store := seededStore()
	ctx := context.Background()
	consumer := UploadProgressConsumer{Progress: store, Uploads: uploadUseCase(store), Clock: store}

	err := consumer.Handle(ctx, progressEvent(t, "lost.mp4", "missing", 100))
	if !errors.Is(err, domainerrors.ErrSubmissionNotFound) {
		t.Fatalf("expected ErrSubmissionNotFound, got %v", err)
	}
	first, err := store.MarkRegistered(ctx, "lost.mp4", time.Hour)
	if err != nil || !first {
		t.Fatalf("expected registration to be released, got %v %v", first, err)
	}
}

func TestUploadProgressIgnoresMalformedEvents(t *testing.T) {
	store := seededStore()
	consumer := UploadProgressConsumer{Progress: store, Uploads: uploadUseCase(store), Clock: store}

	if err := consumer.Handle(context.Background(), ports.EventEnvelope{EventID: "bad", Data: []byte("{")}); err == nil {
		t.Fatalf("expected decode error")
	}
	data, _ := json.Marshal(map[string]any{"file_name": "a.bin", "media_kind": "audio", "percent": 100})
	if err := consumer.Handle(context.Background(), ports.EventEnvelope{EventID: "audio", Data: data}); err != nil {
		t.Fatalf("unknown kinds are skipped, got %v", err)
	}
	if _, ok, _ := store.GetProgress(context.Background(), "a.bin"); ok {
		t.Fatalf("skipped events must not record progress")
	}
}

func TestUploadProgressConsumerDisabled(t *testing.T) {
	consumer := UploadProgressConsumer{Disabled: true}
	if err := consumer.Start(context.Background()); err != nil {
		t.Fatalf("disabled consumer must start cleanly: %v", err)
	}
}

func mustGet(t *testing.T, store *memory.Store, submissionID string) entities.Submission {
	t.Helper()
	submission, err := store.GetSubmission(context.Background(), submissionID)
	if err != nil {
		t.Fatalf("get %s: %v", submissionID, err)
	}
	return submission
}
