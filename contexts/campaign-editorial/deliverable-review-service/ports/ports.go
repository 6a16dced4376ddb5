package ports

import (
	"context"
	"time"

	"deliverables/contexts/campaign-editorial/deliverable-review-service/domain/entities"
	contractsv1 "deliverables/contracts/gen/events/v1"
)

type SubmissionFilter struct {
	CampaignID string
	CreatorID  string
	Type       entities.SubmissionType
	Status     entities.SubmissionStatus
}

// Repository persists submissions together with the media items and feedback they own.
type Repository interface {
	CreateSubmission(ctx context.Context, submission entities.Submission, events []EventEnvelope) error
	GetSubmission(ctx context.Context, submissionID string) (entities.Submission, error)
	FindSubmission(
		ctx context.Context,
		campaignID string,
		creatorID string,
		submissionType entities.SubmissionType,
	) (entities.Submission, error)
	ListSubmissions(ctx context.Context, filter SubmissionFilter) ([]entities.Submission, error)
	// SaveSubmission commits the submission row, its media, its feedback and
	// the outbox events in one transaction. It fails with ErrVersionConflict
	// when the stored version differs from submission.Version.
	SaveSubmission(
		ctx context.Context,
		submission entities.Submission,
		events []EventEnvelope,
	) (entities.Submission, error)
}

// CampaignDirectory resolves the campaign settings a review depends on.
type CampaignDirectory interface {
	GetCampaign(ctx context.Context, campaignID string) (entities.Campaign, error)
}

// Locker serializes mutations of one submission. The returned func releases the lock.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// EventEnvelope reuses the canonical cross-runtime envelope contract.
type EventEnvelope = contractsv1.Envelope

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type EventSubscriber interface {
	Subscribe(
		ctx context.Context,
		topic string,
		consumerGroup string,
		handler func(context.Context, EventEnvelope) error,
	) error
}

// UploadProgress is the latest upload notification seen for one file name.
type UploadProgress struct {
	FileName        string
	SubmissionID    string
	Kind            entities.MediaKind
	URL             string
	ReplacesMediaID string
	UploaderID      string
	Percent         int
	UpdatedAt       time.Time
}

type UploadProgressStore interface {
	SaveProgress(ctx context.Context, progress UploadProgress) error
	GetProgress(ctx context.Context, fileName string) (UploadProgress, bool, error)
	// MarkRegistered returns true only for the first caller per file name.
	MarkRegistered(ctx context.Context, fileName string, ttl time.Duration) (bool, error)
	ReleaseRegistration(ctx context.Context, fileName string) error
}
