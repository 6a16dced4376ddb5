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

// ApproveCommand approves one media item when MediaID is set, otherwise the
// whole submission. Feedback is an optional comment kept in the ledger.
type ApproveCommand struct {
	Actor        entities.Actor
	SubmissionID string
	MediaID      string
	Feedback     string
	DueDate      *time.Time
}

// RequestChangesCommand rejects the listed media items, or every item the
// actor may currently act on when MediaIDs is empty.
type RequestChangesCommand struct {
	Actor        entities.Actor
	SubmissionID string
	MediaIDs     []string
	Feedback     string
	Reasons      []string
	DueDate      *time.Time
}

type ReviewUseCase struct {
	Repository   ports.Repository
	Campaigns    ports.CampaignDirectory
	Locker       ports.Locker
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	Orchestrator StageOrchestrator
	Logger       *slog.Logger
}

func (uc ReviewUseCase) mutator() submissionMutator {
	return submissionMutator{
		Repository: uc.Repository,
		Campaigns:  uc.Campaigns,
		Locker:     uc.Locker,
		Clock:      uc.Clock,
		IDGen:      uc.IDGen,
	}
}

func (uc ReviewUseCase) Approve(ctx context.Context, cmd ApproveCommand) (ReviewResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	saved, changed, err := uc.mutator().run(ctx, cmd.SubmissionID, func(ctx context.Context, scope mutationScope) (bool, error) {
		submission := scope.Submission
		if err := services.AuthorizeReview(cmd.Actor, scope.Campaign, *submission); err != nil {
			return false, err
		}
		variant := scope.Campaign.Variant()

		switch {
		case submission.Type == entities.SubmissionTypeAgreementForm:
			next, err := services.NextAgreementStatus(cmd.Actor.Role, services.ActionApprove, submission.Status)
			if err != nil {
				return false, err
			}
			submission.Status = next
		case submission.Type == entities.SubmissionTypePosting:
			if submission.Status.IsApproved() {
				return false, nil
			}
			next, err := services.NextPostingStatus(variant, cmd.Actor.Role, services.ActionApprove, submission.Status)
			if err != nil {
				return false, err
			}
			submission.Status = next
		case isLegacyDraft(*submission, scope.Campaign, ""):
			next, err := services.NextPostingStatus(variant, cmd.Actor.Role, services.ActionApprove, submission.Status)
			if err != nil {
				return false, err
			}
			if next == entities.SubmissionStatusClientApproved {
				next = entities.SubmissionStatusApproved
			}
			submission.Status = next
		default:
			if strings.TrimSpace(cmd.MediaID) == "" && submission.Status == entities.SubmissionStatusApproved {
				return false, nil
			}
			targets, err := reviewTargets(*submission, scope.Campaign, cmd.Actor, services.ActionApprove, singleTarget(cmd.MediaID))
			if err != nil {
				return false, err
			}
			if err := applyMediaAction(ctx, scope, cmd.Actor, services.ActionApprove, targets); err != nil {
				return false, err
			}
			if err := recordFeedback(ctx, scope, uc.IDGen, cmd.Actor, entities.FeedbackTypeComment, cmd.Feedback, nil, targets); err != nil {
				return false, err
			}
			services.Recompute(submission, scope.Campaign)
			submission.IsReview = true
			return true, nil
		}

		submission.IsReview = true
		return true, recordFeedback(ctx, scope, uc.IDGen, cmd.Actor, entities.FeedbackTypeComment, cmd.Feedback, nil, nil)
	})
	if err != nil {
		return ReviewResult{}, err
	}

	logger.Info("deliverable approved",
		"event", "deliverable_approved",
		"module", moduleName,
		"layer", "application",
		"submission_id", saved.SubmissionID,
		"media_id", strings.TrimSpace(cmd.MediaID),
		"actor_id", cmd.Actor.UserID,
		"actor_role", string(cmd.Actor.Role),
		"status", string(saved.Status),
		"display_status", string(saved.DisplayStatus),
		"no_op", !changed,
	)
	return uc.reconcile(ctx, saved, !changed, cmd.DueDate)
}

func (uc ReviewUseCase) RequestChanges(ctx context.Context, cmd RequestChangesCommand) (ReviewResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	saved, _, err := uc.mutator().run(ctx, cmd.SubmissionID, func(ctx context.Context, scope mutationScope) (bool, error) {
		submission := scope.Submission
		if err := services.AuthorizeReview(cmd.Actor, scope.Campaign, *submission); err != nil {
			return false, err
		}
		if err := services.ValidateRejection(cmd.Feedback, cmd.Reasons); err != nil {
			return false, err
		}
		variant := scope.Campaign.Variant()

		var targets []entities.MediaItem
		switch {
		case submission.Type == entities.SubmissionTypeAgreementForm:
			next, err := services.NextAgreementStatus(cmd.Actor.Role, services.ActionReject, submission.Status)
			if err != nil {
				return false, err
			}
			submission.Status = next
		case submission.Type == entities.SubmissionTypePosting:
			next, err := services.NextPostingStatus(variant, cmd.Actor.Role, services.ActionReject, submission.Status)
			if err != nil {
				return false, err
			}
			submission.Status = next
		case isLegacyDraft(*submission, scope.Campaign, ""):
			if _, err := services.NextPostingStatus(variant, cmd.Actor.Role, services.ActionReject, submission.Status); err != nil {
				return false, err
			}
			submission.Status = entities.SubmissionStatusChangesRequired
			submission.ChangesRequested = true
		default:
			var err error
			targets, err = reviewTargets(*submission, scope.Campaign, cmd.Actor, services.ActionReject, cmd.MediaIDs)
			if err != nil {
				return false, err
			}
			if err := applyMediaAction(ctx, scope, cmd.Actor, services.ActionReject, targets); err != nil {
				return false, err
			}
		}

		if err := recordFeedback(ctx, scope, uc.IDGen, cmd.Actor, entities.FeedbackTypeRequest, cmd.Feedback, cmd.Reasons, targets); err != nil {
			return false, err
		}
		services.Recompute(submission, scope.Campaign)
		submission.IsReview = true
		return true, nil
	})
	if err != nil {
		return ReviewResult{}, err
	}

	logger.Info("deliverable changes requested",
		"event", "deliverable_changes_requested",
		"module", moduleName,
		"layer", "application",
		"submission_id", saved.SubmissionID,
		"media_count", len(cmd.MediaIDs),
		"actor_id", cmd.Actor.UserID,
		"actor_role", string(cmd.Actor.Role),
		"status", string(saved.Status),
		"display_status", string(saved.DisplayStatus),
	)
	return uc.reconcile(ctx, saved, false, cmd.DueDate)
}

// reconcile hands the committed state to the stage orchestrator. A failure
// there is returned with the committed primary state intact.
func (uc ReviewUseCase) reconcile(
	ctx context.Context,
	saved entities.Submission,
	noOp bool,
	dueDate *time.Time,
) (ReviewResult, error) {
	result := ReviewResult{Submission: saved, NoOp: noOp}
	unlocked, err := uc.Orchestrator.Reconcile(ctx, saved, dueDate)
	if err != nil {
		application.ResolveLogger(uc.Logger).Warn("stage unlock failed after review",
			"event", "deliverable_stage_unlock_failed",
			"module", moduleName,
			"layer", "application",
			"submission_id", saved.SubmissionID,
			"error", err.Error(),
		)
		return result, err
	}
	result.Unlocked = unlocked
	return result, nil
}

func singleTarget(mediaID string) []string {
	if strings.TrimSpace(mediaID) == "" {
		return nil
	}
	return []string{mediaID}
}

// reviewTargets resolves the media items a review decision applies to. With
// explicit ids every item must accept the action. Without ids, every in-scope
// item the actor may act on is selected, and the first refusal is returned
// when there is none.
func reviewTargets(
	submission entities.Submission,
	campaign entities.Campaign,
	actor entities.Actor,
	action services.Action,
	mediaIDs []string,
) ([]entities.MediaItem, error) {
	variant := campaign.Variant()
	if len(mediaIDs) > 0 {
		targets := make([]entities.MediaItem, 0, len(mediaIDs))
		seen := make(map[string]struct{}, len(mediaIDs))
		for _, mediaID := range mediaIDs {
			item, err := submission.FindMedia(mediaID)
			if err != nil {
				return nil, err
			}
			if _, ok := seen[item.MediaID]; ok {
				continue
			}
			seen[item.MediaID] = struct{}{}
			if !campaign.KindInScope(item.Kind) {
				return nil, domainerrors.ErrInvalidSubmissionInput
			}
			if _, err := services.NextMediaStatus(variant, actor.Role, action, item.Status); err != nil {
				return nil, err
			}
			targets = append(targets, item)
		}
		return targets, nil
	}

	targets := make([]entities.MediaItem, 0)
	var refusal error
	for _, item := range services.InScopeMedia(submission, campaign) {
		if _, err := services.NextMediaStatus(variant, actor.Role, action, item.Status); err != nil {
			if refusal == nil {
				refusal = err
			}
			continue
		}
		targets = append(targets, item)
	}
	if len(targets) == 0 {
		if refusal == nil {
			refusal = domainerrors.ErrInvalidStatusTransition
		}
		return nil, refusal
	}
	return targets, nil
}

func applyMediaAction(
	ctx context.Context,
	scope mutationScope,
	actor entities.Actor,
	action services.Action,
	targets []entities.MediaItem,
) error {
	variant := scope.Campaign.Variant()
	for _, item := range targets {
		next, err := services.NextMediaStatus(variant, actor.Role, action, item.Status)
		if err != nil {
			return err
		}
		if err := scope.Submission.UpdateMediaStatus(item.MediaID, next, scope.Now); err != nil {
			return err
		}
		updated, err := scope.Submission.FindMedia(item.MediaID)
		if err != nil {
			return err
		}
		if err := scope.Events.mediaReviewed(ctx, actor, updated, item.Status); err != nil {
			return err
		}
	}
	return nil
}

// recordFeedback appends a ledger entry scoped to targets. Empty comments are skipped.
func recordFeedback(
	ctx context.Context,
	scope mutationScope,
	idGen ports.IDGenerator,
	actor entities.Actor,
	feedbackType entities.FeedbackType,
	content string,
	reasons []string,
	targets []entities.MediaItem,
) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}
	feedbackID, err := idGen.NewID(ctx)
	if err != nil {
		return err
	}
	feedback := entities.Feedback{
		FeedbackID: feedbackID,
		AuthorID:   actor.UserID,
		AuthorRole: actor.Role,
		Type:       feedbackType,
		Content:    content,
		Reasons:    append([]string(nil), reasons...),
		CreatedAt:  scope.Now,
	}
	for _, item := range targets {
		feedback.ScopeTo(item)
		if err := scope.Submission.AttachFeedback(item.MediaID, feedbackID); err != nil {
			return err
		}
	}
	scope.Submission.AppendFeedback(feedback)
	return scope.Events.add(ctx, EventFeedbackRecorded, map[string]any{
		"feedback_id":   feedbackID,
		"feedback_type": string(feedbackType),
		"author_id":     actor.UserID,
		"author_role":   string(actor.Role),
		"media_ids":     feedback.Targets(),
		"reasons":       feedback.Reasons,
	})
}
