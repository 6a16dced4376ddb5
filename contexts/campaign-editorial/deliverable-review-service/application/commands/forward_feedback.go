package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "deliverables/contexts/campaign-editorial/deliverable-review-service/application"
	"deliverables/contexts/campaign-editorial/deliverable-review-service/domain/entities"
	domainerrors "deliverables/contexts/campaign-editorial/deliverable-review-service/domain/errors"
	"deliverables/contexts/campaign-editorial/deliverable-review-service/domain/services"
	"deliverables/contexts/campaign-editorial/deliverable-review-service/ports"
)

// ForwardFeedbackCommand relays client change requests to the creator.
// EditedFeedback, when set, replaces the text of the newest client request.
type ForwardFeedbackCommand struct {
	Actor          entities.Actor
	SubmissionID   string
	EditedFeedback string
	DueDate        *time.Time
}

type ForwardFeedbackUseCase struct {
	Repository   ports.Repository
	Campaigns    ports.CampaignDirectory
	Locker       ports.Locker
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	Orchestrator StageOrchestrator
	Logger       *slog.Logger
}

func (uc ForwardFeedbackUseCase) Execute(ctx context.Context, cmd ForwardFeedbackCommand) (ReviewResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	mutator := submissionMutator{
		Repository: uc.Repository,
		Campaigns:  uc.Campaigns,
		Locker:     uc.Locker,
		Clock:      uc.Clock,
		IDGen:      uc.IDGen,
	}
	edited := false
	forwarded := 0
	saved, _, err := mutator.run(ctx, cmd.SubmissionID, func(ctx context.Context, scope mutationScope) (bool, error) {
		submission := scope.Submission
		if cmd.Actor.Role != entities.ActorRoleAdmin {
			return false, domainerrors.ErrForbidden
		}
		if err := services.AuthorizeReview(cmd.Actor, scope.Campaign, *submission); err != nil {
			return false, err
		}
		if scope.Campaign.Variant() != entities.WorkflowVariantV3 || !submission.Type.CarriesMedia() {
			return false, domainerrors.ErrInvalidStatusTransition
		}
		display := submission.EffectiveDisplayStatus()
		if display != entities.SubmissionStatusSentToAdmin && display != entities.SubmissionStatusClientFeedback {
			return false, domainerrors.ErrInvalidStatusTransition
		}
		latest := submission.LatestClientFeedback()
		if latest < 0 {
			return false, domainerrors.ErrFeedbackNotFound
		}

		if text := strings.TrimSpace(cmd.EditedFeedback); text != "" && text != submission.Feedback[latest].Content {
			entry := &submission.Feedback[latest]
			if entry.OriginalContent == "" {
				entry.OriginalContent = entry.Content
			}
			entry.Content = text
			editedAt := scope.Now
			entry.EditedAt = &editedAt
			edited = true
			if err := scope.Events.add(ctx, EventFeedbackEdited, map[string]any{
				"feedback_id": entry.FeedbackID,
				"editor_id":   cmd.Actor.UserID,
			}); err != nil {
				return false, err
			}
		}

		forwardedIDs := make([]string, 0)
		for i := range submission.Feedback {
			entry := &submission.Feedback[i]
			if entry.AuthorRole != entities.ActorRoleClient || entry.Type != entities.FeedbackTypeRequest || entry.Forwarded {
				continue
			}
			forwardedAt := scope.Now
			entry.Forwarded = true
			entry.ForwardedAt = &forwardedAt
			entry.ForwardedByID = cmd.Actor.UserID
			forwardedIDs = append(forwardedIDs, entry.FeedbackID)
		}

		for _, item := range services.InScopeMedia(*submission, scope.Campaign) {
			if item.Status != entities.MediaStatusClientFeedback {
				continue
			}
			next, err := services.NextMediaStatus(scope.Campaign.Variant(), cmd.Actor.Role, services.ActionForward, item.Status)
			if err != nil {
				return false, err
			}
			if err := submission.UpdateMediaStatus(item.MediaID, next, scope.Now); err != nil {
				return false, err
			}
			updated, err := submission.FindMedia(item.MediaID)
			if err != nil {
				return false, err
			}
			if err := scope.Events.mediaReviewed(ctx, cmd.Actor, updated, item.Status); err != nil {
				return false, err
			}
			forwarded++
		}

		services.Recompute(submission, scope.Campaign)
		return true, scope.Events.add(ctx, EventFeedbackForwarded, map[string]any{
			"feedback_ids": forwardedIDs,
			"media_count":  forwarded,
			"edited":       edited,
			"forwarder_id": cmd.Actor.UserID,
		})
	})
	if err != nil {
		return ReviewResult{}, err
	}

	logger.Info("client feedback forwarded to creator",
		"event", "deliverable_feedback_forwarded",
		"module", moduleName,
		"layer", "application",
		"submission_id", saved.SubmissionID,
		"actor_id", cmd.Actor.UserID,
		"media_count", forwarded,
		"edited", edited,
		"display_status", string(saved.DisplayStatus),
	)
	result := ReviewResult{Submission: saved}
	unlocked, err := uc.Orchestrator.Reconcile(ctx, saved, cmd.DueDate)
	if err != nil {
		return result, err
	}
	result.Unlocked = unlocked
	return result, nil
}
