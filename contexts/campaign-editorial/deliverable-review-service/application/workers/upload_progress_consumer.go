package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	application "deliverables/contexts/campaign-editorial/deliverable-review-service/application"
	"deliverables/contexts/campaign-editorial/deliverable-review-service/application/commands"
	"deliverables/contexts/campaign-editorial/deliverable-review-service/domain/entities"
	"deliverables/contexts/campaign-editorial/deliverable-review-service/ports"
)

const (
	moduleName             = "campaign-editorial/deliverable-review-service"
	UploadProgressTopic    = "media.upload_progress"
	defaultUploadCG        = "deliverable-review-upload-cg"
	defaultRegistrationTTL = 24 * time.Hour
)

type uploadProgressPayload struct {
	FileName        string `json:"file_name"`
	SubmissionID    string `json:"submission_id"`
	MediaKind       string `json:"media_kind"`
	URL             string `json:"url"`
	ReplacesMediaID string `json:"replaces_media_id"`
	UploaderID      string `json:"uploader_id"`
	UploaderRole    string `json:"uploader_role"`
	Percent         int    `json:"percent"`
}

// UploadProgressConsumer tracks upload notifications and registers the media
// item once a file reaches 100%. Each file name registers at most once.
type UploadProgressConsumer struct {
	Subscriber      ports.EventSubscriber
	Progress        ports.UploadProgressStore
	Uploads         commands.UploadMediaUseCase
	Clock           ports.Clock
	ConsumerGroup   string
	RegistrationTTL time.Duration
	Disabled        bool
	Logger          *slog.Logger
}

func (c UploadProgressConsumer) Start(ctx context.Context) error {
	logger := application.ResolveLogger(c.Logger)
	if c.Disabled {
		logger.Info("upload progress consumer disabled by feature flag",
			"event", "deliverable_upload_consumer_disabled",
			"module", moduleName,
			"layer", "worker",
		)
		return nil
	}
	group := strings.TrimSpace(c.ConsumerGroup)
	if group == "" {
		group = defaultUploadCG
	}
	if err := c.Subscriber.Subscribe(ctx, UploadProgressTopic, group, c.Handle); err != nil {
		logger.Error("upload progress consumer subscribe failed",
			"event", "deliverable_upload_consumer_subscribe_failed",
			"module", moduleName,
			"layer", "worker",
			"topic", UploadProgressTopic,
			"consumer_group", group,
			"error", err.Error(),
		)
		return err
	}
	logger.Info("upload progress consumer subscribed",
		"event", "deliverable_upload_consumer_started",
		"module", moduleName,
		"layer", "worker",
		"topic", UploadProgressTopic,
		"consumer_group", group,
	)
	return nil
}

func (c UploadProgressConsumer) Handle(ctx context.Context, event ports.EventEnvelope) error {
	logger := application.ResolveLogger(c.Logger)
	var payload uploadProgressPayload
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		logger.Error("upload progress payload decode failed",
			"event", "deliverable_upload_progress_decode_failed",
			"module", moduleName,
			"layer", "worker",
			"event_id", event.EventID,
			"error", err.Error(),
		)
		return err
	}
	fileName := strings.TrimSpace(payload.FileName)
	kind, ok := entities.ParseMediaKind(payload.MediaKind)
	if fileName == "" || !ok {
		logger.Warn("upload progress event ignored",
			"event", "deliverable_upload_progress_ignored",
			"module", moduleName,
			"layer", "worker",
			"event_id", event.EventID,
			"file_name", fileName,
			"media_kind", payload.MediaKind,
		)
		return nil
	}

	progress := ports.UploadProgress{
		FileName:        fileName,
		SubmissionID:    strings.TrimSpace(payload.SubmissionID),
		Kind:            kind,
		URL:             strings.TrimSpace(payload.URL),
		ReplacesMediaID: strings.TrimSpace(payload.ReplacesMediaID),
		UploaderID:      strings.TrimSpace(payload.UploaderID),
		Percent:         clampPercent(payload.Percent),
		UpdatedAt:       c.now(),
	}
	if err := c.Progress.SaveProgress(ctx, progress); err != nil {
		return err
	}
	if progress.Percent < 100 {
		return nil
	}

	ttl := c.RegistrationTTL
	if ttl <= 0 {
		ttl = defaultRegistrationTTL
	}
	first, err := c.Progress.MarkRegistered(ctx, fileName, ttl)
	if err != nil {
		return err
	}
	if !first {
		logger.Debug("upload completion replay skipped",
			"event", "deliverable_upload_completion_replayed",
			"module", moduleName,
			"layer", "worker",
			"event_id", event.EventID,
			"file_name", fileName,
		)
		return nil
	}

	role := entities.ActorRole(strings.ToLower(strings.TrimSpace(payload.UploaderRole)))
	if role == "" {
		role = entities.ActorRoleCreator
	}
	_, item, err := c.Uploads.Execute(ctx, commands.UploadMediaCommand{
		Actor:           entities.Actor{UserID: progress.UploaderID, Role: role},
		SubmissionID:    progress.SubmissionID,
		Kind:            progress.Kind,
		URL:             progress.URL,
		FileName:        progress.FileName,
		ReplacesMediaID: progress.ReplacesMediaID,
	})
	if err != nil {
		if releaseErr := c.Progress.ReleaseRegistration(ctx, fileName); releaseErr != nil {
			logger.Error("upload registration release failed",
				"event", "deliverable_upload_release_failed",
				"module", moduleName,
				"layer", "worker",
				"file_name", fileName,
				"error", releaseErr.Error(),
			)
		}
		logger.Error("upload completion registration failed",
			"event", "deliverable_upload_registration_failed",
			"module", moduleName,
			"layer", "worker",
			"event_id", event.EventID,
			"file_name", fileName,
			"submission_id", progress.SubmissionID,
			"error", err.Error(),
		)
		return err
	}
	logger.Info("upload completion registered",
		"event", "deliverable_upload_registered",
		"module", moduleName,
		"layer", "worker",
		"event_id", event.EventID,
		"file_name", fileName,
		"submission_id", progress.SubmissionID,
		"media_id", item.MediaID,
	)
	return nil
}

func (c UploadProgressConsumer) now() time.Time {
	if c.Clock != nil {
		return c.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func clampPercent(value int) int {
	switch {
	case value < 0:
		return 0
	case value > 100:
		return 100
	default:
		return value
	}
}
