package commands

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	application "deliverables/contexts/campaign-editorial/deliverable-review-service/application"
	"deliverables/contexts/campaign-editorial/deliverable-review-service/domain/entities"
	domainerrors "deliverables/contexts/campaign-editorial/deliverable-review-service/domain/errors"
	"deliverables/contexts/campaign-editorial/deliverable-review-service/domain/services"
	"deliverables/contexts/campaign-editorial/deliverable-review-service/ports"
)

type UploadMediaCommand struct {
	Actor           entities.Actor
	SubmissionID    string
	Kind            entities.MediaKind
	URL             string
	FileName        string
	ReplacesMediaID string
}

// UploadMediaUseCase registers a finished upload as a media item, or swaps
// the file behind an item that needs revision.
type UploadMediaUseCase struct {
	Repository ports.Repository
	Campaigns  ports.CampaignDirectory
	Locker     ports.Locker
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc UploadMediaUseCase) Execute(ctx context.Context, cmd UploadMediaCommand) (entities.Submission, entities.MediaItem, error) {
	logger := application.ResolveLogger(uc.Logger)
	var registered entities.MediaItem
	mutator := submissionMutator{
		Repository: uc.Repository,
		Campaigns:  uc.Campaigns,
		Locker:     uc.Locker,
		Clock:      uc.Clock,
		IDGen:      uc.IDGen,
	}
	saved, _, err := mutator.run(ctx, cmd.SubmissionID, func(ctx context.Context, scope mutationScope) (bool, error) {
		submission := scope.Submission
		if err := services.AuthorizeCreatorAction(cmd.Actor, *submission); err != nil {
			return false, err
		}
		if !submission.Type.CarriesMedia() || !scope.Campaign.KindInScope(cmd.Kind) {
			return false, domainerrors.ErrInvalidSubmissionInput
		}
		if !validMediaURL(cmd.URL) {
			return false, domainerrors.ErrInvalidSubmissionInput
		}
		if err := ensureStageOpen(*submission); err != nil {
			return false, err
		}
		if err := ensureDraftEditable(*submission); err != nil {
			return false, err
		}

		fileName := strings.TrimSpace(cmd.FileName)
		previous := entities.MediaStatus("")
		if replaces := strings.TrimSpace(cmd.ReplacesMediaID); replaces != "" {
			item, err := submission.FindMedia(replaces)
			if err != nil {
				return false, err
			}
			if item.Kind != cmd.Kind {
				return false, domainerrors.ErrInvalidSubmissionInput
			}
			next, err := services.NextMediaStatus(scope.Campaign.Variant(), cmd.Actor.Role, services.ActionReupload, item.Status)
			if err != nil {
				return false, err
			}
			previous = item.Status
			for i := range submission.Media {
				if submission.Media[i].MediaID != item.MediaID {
					continue
				}
				submission.Media[i].URL = strings.TrimSpace(cmd.URL)
				submission.Media[i].FileName = fileName
				submission.Media[i].Status = next
				submission.Media[i].UpdatedAt = scope.Now
				registered = submission.Media[i]
			}
		} else {
			mediaID, err := uc.IDGen.NewID(ctx)
			if err != nil {
				return false, err
			}
			registered = entities.MediaItem{
				MediaID:      mediaID,
				SubmissionID: submission.SubmissionID,
				Kind:         cmd.Kind,
				URL:          strings.TrimSpace(cmd.URL),
				FileName:     fileName,
				Status:       entities.MediaStatusInProgress,
				CreatedAt:    scope.Now,
				UpdatedAt:    scope.Now,
			}
			submission.Media = append(submission.Media, registered)
		}

		services.Recompute(submission, scope.Campaign)
		return true, scope.Events.add(ctx, EventMediaUploaded, map[string]any{
			"media_id":        registered.MediaID,
			"media_kind":      string(registered.Kind),
			"file_name":       registered.FileName,
			"previous_status": string(previous),
			"replaced":        previous != "",
			"uploader_id":     cmd.Actor.UserID,
		})
	})
	if err != nil {
		return entities.Submission{}, entities.MediaItem{}, err
	}

	logger.Info("deliverable media uploaded",
		"event", "deliverable_media_uploaded",
		"module", moduleName,
		"layer", "application",
		"submission_id", saved.SubmissionID,
		"media_id", registered.MediaID,
		"media_kind", string(registered.Kind),
		"status", string(saved.Status),
	)
	return saved, registered, nil
}

// ensureStageOpen keeps creators out of a Final Draft or Posting stage the
// orchestrator has not unlocked yet.
func ensureStageOpen(submission entities.Submission) error {
	if submission.Type != entities.SubmissionTypeFinalDraft && submission.Type != entities.SubmissionTypePosting {
		return nil
	}
	if services.NeedsUnlock(submission.Status) {
		return domainerrors.ErrInvalidStatusTransition
	}
	return nil
}

// ensureDraftEditable freezes an approved draft. Its approval may already
// have opened the next stage, and a new item would roll the status back.
func ensureDraftEditable(submission entities.Submission) error {
	if submission.Status.IsApproved() {
		return domainerrors.ErrInvalidStatusTransition
	}
	return nil
}

func validMediaURL(raw string) bool {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed.Host == "" {
		return false
	}
	return parsed.Scheme == "https" || parsed.Scheme == "http"
}
