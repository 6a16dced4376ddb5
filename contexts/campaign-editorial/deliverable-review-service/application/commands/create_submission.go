package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "deliverables/contexts/campaign-editorial/deliverable-review-service/application"
	"deliverables/contexts/campaign-editorial/deliverable-review-service/domain/entities"
	domainerrors "deliverables/contexts/campaign-editorial/deliverable-review-service/domain/errors"
	"deliverables/contexts/campaign-editorial/deliverable-review-service/ports"
)

type CreateSubmissionCommand struct {
	Actor      entities.Actor
	CampaignID string
	CreatorID  string
	Type       entities.SubmissionType
	DueDate    *time.Time
}

// CreateSubmissionUseCase opens a stage slot for a creator. Stages start
// NOT_STARTED; later stages are opened by the stage orchestrator.
type CreateSubmissionUseCase struct {
	Repository ports.Repository
	Campaigns  ports.CampaignDirectory
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc CreateSubmissionUseCase) Execute(ctx context.Context, cmd CreateSubmissionCommand) (entities.Submission, error) {
	logger := application.ResolveLogger(uc.Logger)
	if cmd.Actor.Role != entities.ActorRoleAdmin || cmd.Actor.ReadOnly() || !cmd.Actor.Valid() {
		return entities.Submission{}, domainerrors.ErrForbidden
	}
	campaignID := strings.TrimSpace(cmd.CampaignID)
	if _, err := uc.Campaigns.GetCampaign(ctx, campaignID); err != nil {
		return entities.Submission{}, err
	}

	submissionID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Submission{}, err
	}
	now := uc.Clock.Now().UTC()
	submission := entities.Submission{
		SubmissionID: submissionID,
		CampaignID:   campaignID,
		CreatorID:    strings.TrimSpace(cmd.CreatorID),
		Type:         cmd.Type,
		Status:       entities.SubmissionStatusNotStarted,
		DueDate:      cmd.DueDate,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if !submission.ValidateCreate() {
		return entities.Submission{}, domainerrors.ErrInvalidSubmissionInput
	}

	events := newEventBuffer(uc.IDGen, submission.SubmissionID, now)
	if err := events.add(ctx, EventSubmissionCreated, map[string]any{
		"campaign_id":     submission.CampaignID,
		"creator_id":      submission.CreatorID,
		"submission_type": string(submission.Type),
	}); err != nil {
		return entities.Submission{}, err
	}
	if err := uc.Repository.CreateSubmission(ctx, submission, events.events); err != nil {
		return entities.Submission{}, err
	}
	logger.Info("deliverable submission created",
		"event", "deliverable_submission_created",
		"module", moduleName,
		"layer", "application",
		"submission_id", submission.SubmissionID,
		"campaign_id", submission.CampaignID,
		"creator_id", submission.CreatorID,
		"submission_type", string(submission.Type),
	)
	return submission, nil
}
