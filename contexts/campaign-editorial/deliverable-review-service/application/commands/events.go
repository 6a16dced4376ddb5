package commands

import (
	"context"
	"encoding/json"
	"time"

	"deliverables/contexts/campaign-editorial/deliverable-review-service/domain/entities"
	"deliverables/contexts/campaign-editorial/deliverable-review-service/ports"
)

const (
	EventSubmissionCreated  = "deliverable.submission_created"
	EventMediaUploaded      = "deliverable.media_uploaded"
	EventSubmissionSent     = "deliverable.submitted"
	EventMediaReviewed      = "deliverable.media_reviewed"
	EventStatusChanged      = "deliverable.status_changed"
	EventFeedbackRecorded   = "deliverable.feedback_recorded"
	EventFeedbackForwarded  = "deliverable.feedback_forwarded"
	EventFeedbackEdited     = "deliverable.feedback_edited"
	EventStageUnlocked      = "deliverable.stage_unlocked"
	moduleName              = "campaign-editorial/deliverable-review-service"
	sourceServiceName       = "deliverable-review-service"
	partitionKeySubmissions = "submission_id"
)

func newDeliverableEnvelope(
	eventID string,
	eventType string,
	submissionID string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    sourceServiceName,
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: partitionKeySubmissions,
		PartitionKey:     submissionID,
		Data:             payload,
	}, nil
}

// eventBuffer collects the envelopes one mutation commits alongside its state.
type eventBuffer struct {
	idGen        ports.IDGenerator
	submissionID string
	occurredAt   time.Time
	events       []ports.EventEnvelope
}

func newEventBuffer(idGen ports.IDGenerator, submissionID string, occurredAt time.Time) *eventBuffer {
	return &eventBuffer{idGen: idGen, submissionID: submissionID, occurredAt: occurredAt}
}

func (b *eventBuffer) add(ctx context.Context, eventType string, data map[string]any) error {
	eventID, err := b.idGen.NewID(ctx)
	if err != nil {
		return err
	}
	if data == nil {
		data = map[string]any{}
	}
	data["submission_id"] = b.submissionID
	envelope, err := newDeliverableEnvelope(eventID, eventType, b.submissionID, b.occurredAt, data)
	if err != nil {
		return err
	}
	b.events = append(b.events, envelope)
	return nil
}

func (b *eventBuffer) mediaReviewed(
	ctx context.Context,
	actor entities.Actor,
	item entities.MediaItem,
	previous entities.MediaStatus,
) error {
	return b.add(ctx, EventMediaReviewed, map[string]any{
		"media_id":        item.MediaID,
		"media_kind":      string(item.Kind),
		"previous_status": string(previous),
		"status":          string(item.Status),
		"actor_id":        actor.UserID,
		"actor_role":      string(actor.Role),
	})
}

// statusChanged is a no-op when neither the canonical nor the display status moved.
func (b *eventBuffer) statusChanged(ctx context.Context, before entities.Submission, after entities.Submission) error {
	if before.Status == after.Status && before.DisplayStatus == after.DisplayStatus {
		return nil
	}
	return b.add(ctx, EventStatusChanged, map[string]any{
		"campaign_id":     after.CampaignID,
		"creator_id":      after.CreatorID,
		"submission_type": string(after.Type),
		"previous_status": string(before.Status),
		"status":          string(after.Status),
		"display_status":  string(after.DisplayStatus),
	})
}
