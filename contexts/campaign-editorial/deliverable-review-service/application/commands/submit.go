package commands

import (
	"context"
	"log/slog"
	"strings"

	application "deliverables/contexts/campaign-editorial/deliverable-review-service/application"
	"deliverables/contexts/campaign-editorial/deliverable-review-service/domain/entities"
	domainerrors "deliverables/contexts/campaign-editorial/deliverable-review-service/domain/errors"
	"deliverables/contexts/campaign-editorial/deliverable-review-service/domain/services"
	"deliverables/contexts/campaign-editorial/deliverable-review-service/ports"
)

// SubmitCommand hands work to the reviewer. For drafts, MediaIDs narrows the
// items sent; empty means every item still IN_PROGRESS. Content carries the
// agreement reference, the posting link or a legacy draft link.
type SubmitCommand struct {
	Actor        entities.Actor
	SubmissionID string
	Content      string
	MediaIDs     []string
}

type SubmitUseCase struct {
	Repository ports.Repository
	Campaigns  ports.CampaignDirectory
	Locker     ports.Locker
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc SubmitUseCase) Execute(ctx context.Context, cmd SubmitCommand) (entities.Submission, error) {
	logger := application.ResolveLogger(uc.Logger)
	mutator := submissionMutator{
		Repository: uc.Repository,
		Campaigns:  uc.Campaigns,
		Locker:     uc.Locker,
		Clock:      uc.Clock,
		IDGen:      uc.IDGen,
	}
	submitted := make([]string, 0)
	saved, _, err := mutator.run(ctx, cmd.SubmissionID, func(ctx context.Context, scope mutationScope) (bool, error) {
		submission := scope.Submission
		if err := services.AuthorizeCreatorAction(cmd.Actor, *submission); err != nil {
			return false, err
		}
		if err := ensureStageOpen(*submission); err != nil {
			return false, err
		}
		content := strings.TrimSpace(cmd.Content)
		variant := scope.Campaign.Variant()

		switch {
		case submission.Type == entities.SubmissionTypePosting:
			if !validMediaURL(content) {
				return false, domainerrors.ErrInvalidSubmissionInput
			}
			next, err := services.NextPostingStatus(variant, cmd.Actor.Role, services.ActionSubmit, submission.Status)
			if err != nil {
				return false, err
			}
			submission.Content = content
			submission.Status = next
		case submission.Type == entities.SubmissionTypeAgreementForm || isLegacyDraft(*submission, scope.Campaign, content):
			if content == "" {
				return false, domainerrors.ErrInvalidSubmissionInput
			}
			if submission.Type != entities.SubmissionTypeAgreementForm && !validMediaURL(content) {
				return false, domainerrors.ErrInvalidSubmissionInput
			}
			next, err := services.NextAgreementStatus(cmd.Actor.Role, services.ActionSubmit, submission.Status)
			if err != nil {
				return false, err
			}
			submission.Content = content
			submission.Status = next
		default:
			targets := cmd.MediaIDs
			if len(targets) == 0 {
				for _, item := range services.InScopeMedia(*submission, scope.Campaign) {
					if item.Status == entities.MediaStatusInProgress {
						targets = append(targets, item.MediaID)
					}
				}
			}
			if len(targets) == 0 {
				return false, domainerrors.ErrInvalidStatusTransition
			}
			for _, mediaID := range targets {
				item, err := submission.FindMedia(mediaID)
				if err != nil {
					return false, err
				}
				next, err := services.NextMediaStatus(variant, cmd.Actor.Role, services.ActionSubmit, item.Status)
				if err != nil {
					return false, err
				}
				if err := submission.UpdateMediaStatus(item.MediaID, next, scope.Now); err != nil {
					return false, err
				}
				submitted = append(submitted, item.MediaID)
			}
			services.Recompute(submission, scope.Campaign)
		}

		submittedAt := scope.Now
		submission.SubmissionDate = &submittedAt
		return true, scope.Events.add(ctx, EventSubmissionSent, map[string]any{
			"submission_type": string(submission.Type),
			"media_ids":       submitted,
			"actor_id":        cmd.Actor.UserID,
		})
	})
	if err != nil {
		return entities.Submission{}, err
	}
	logger.Info("deliverable submitted for review",
		"event", "deliverable_submitted",
		"module", moduleName,
		"layer", "application",
		"submission_id", saved.SubmissionID,
		"submission_type", string(saved.Type),
		"media_count", len(submitted),
		"status", string(saved.Status),
	)
	return saved, nil
}

// isLegacyDraft reports a draft reviewed as a whole link instead of per item.
// Once a draft holds media it is never legacy again.
func isLegacyDraft(submission entities.Submission, campaign entities.Campaign, content string) bool {
	if !submission.Type.CarriesMedia() || len(services.InScopeMedia(submission, campaign)) > 0 {
		return false
	}
	return content != "" || submission.Content != ""
}
