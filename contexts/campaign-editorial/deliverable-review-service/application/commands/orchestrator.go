package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "deliverables/contexts/campaign-editorial/deliverable-review-service/application"
	"deliverables/contexts/campaign-editorial/deliverable-review-service/domain/entities"
	domainerrors "deliverables/contexts/campaign-editorial/deliverable-review-service/domain/errors"
	"deliverables/contexts/campaign-editorial/deliverable-review-service/domain/services"
	"deliverables/contexts/campaign-editorial/deliverable-review-service/ports"
)

const DefaultStageDueIn = 7 * 24 * time.Hour

// StageOrchestrator opens the next stage of a creator's workflow once a
// committed draft state calls for it. Every unlock runs under the target
// submission's own lock and is skipped when the target is already open.
type StageOrchestrator struct {
	Repository      ports.Repository
	Locker          ports.Locker
	Clock           ports.Clock
	IDGen           ports.IDGenerator
	PostingDueIn    time.Duration
	FinalDraftDueIn time.Duration
	Logger          *slog.Logger
}

type RetryUnlockCommand struct {
	Actor        entities.Actor
	SubmissionID string
	DueDate      *time.Time
}

// Reconcile returns the submission it unlocked, or nil when nothing was due.
// Failures are wrapped in *DependencyError.
func (o StageOrchestrator) Reconcile(
	ctx context.Context,
	trigger entities.Submission,
	dueDate *time.Time,
) (*entities.Submission, error) {
	target, ok := services.UnlockTarget(trigger)
	if !ok {
		return nil, nil
	}
	unlocked, err := o.unlockStage(ctx, trigger, target, dueDate)
	if err != nil {
		return nil, &domainerrors.DependencyError{
			SubmissionID: trigger.SubmissionID,
			Target:       string(target),
			Err:          err,
		}
	}
	return unlocked, nil
}

// RetryUnlock re-runs only the dependent unlock for an already committed review.
func (o StageOrchestrator) RetryUnlock(ctx context.Context, cmd RetryUnlockCommand) (ReviewResult, error) {
	if cmd.Actor.Role != entities.ActorRoleAdmin || cmd.Actor.ReadOnly() || !cmd.Actor.Valid() {
		return ReviewResult{}, domainerrors.ErrForbidden
	}
	trigger, err := o.Repository.GetSubmission(ctx, strings.TrimSpace(cmd.SubmissionID))
	if err != nil {
		return ReviewResult{}, err
	}
	unlocked, err := o.Reconcile(ctx, trigger, cmd.DueDate)
	result := ReviewResult{Submission: trigger, Unlocked: unlocked, NoOp: unlocked == nil}
	return result, err
}

func (o StageOrchestrator) unlockStage(
	ctx context.Context,
	trigger entities.Submission,
	target entities.SubmissionType,
	dueDate *time.Time,
) (*entities.Submission, error) {
	logger := application.ResolveLogger(o.Logger)
	due := o.dueDate(trigger, target, dueDate)

	existing, err := o.Repository.FindSubmission(ctx, trigger.CampaignID, trigger.CreatorID, target)
	if errors.Is(err, domainerrors.ErrSubmissionNotFound) {
		created, createErr := o.createOpenStage(ctx, trigger, target, due)
		if createErr == nil {
			logger.Info("deliverable stage unlocked",
				"event", "deliverable_stage_unlocked",
				"module", moduleName,
				"layer", "application",
				"trigger_submission_id", trigger.SubmissionID,
				"submission_id", created.SubmissionID,
				"submission_type", string(target),
				"due_date", due.Format(time.RFC3339),
				"created", true,
			)
			return &created, nil
		}
		if !errors.Is(createErr, domainerrors.ErrDuplicateSubmission) {
			return nil, createErr
		}
		existing, err = o.Repository.FindSubmission(ctx, trigger.CampaignID, trigger.CreatorID, target)
	}
	if err != nil {
		return nil, err
	}

	release, err := o.Locker.Lock(ctx, lockKey(existing.SubmissionID))
	if err != nil {
		return nil, err
	}
	defer release()

	current, err := o.Repository.GetSubmission(ctx, existing.SubmissionID)
	if err != nil {
		return nil, err
	}
	if !services.NeedsUnlock(current.Status) {
		return nil, nil
	}

	now := o.Clock.Now().UTC()
	working := current.Clone()
	working.Status = entities.SubmissionStatusInProgress
	working.DueDate = &due
	working.UpdatedAt = now
	events := newEventBuffer(o.IDGen, working.SubmissionID, now)
	if err := events.add(ctx, EventStageUnlocked, stageUnlockedData(trigger, working)); err != nil {
		return nil, err
	}
	if err := events.statusChanged(ctx, current, working); err != nil {
		return nil, err
	}
	saved, err := o.Repository.SaveSubmission(ctx, working, events.events)
	if err != nil {
		return nil, err
	}
	logger.Info("deliverable stage unlocked",
		"event", "deliverable_stage_unlocked",
		"module", moduleName,
		"layer", "application",
		"trigger_submission_id", trigger.SubmissionID,
		"submission_id", saved.SubmissionID,
		"submission_type", string(target),
		"due_date", due.Format(time.RFC3339),
		"created", false,
	)
	return &saved, nil
}

func (o StageOrchestrator) createOpenStage(
	ctx context.Context,
	trigger entities.Submission,
	target entities.SubmissionType,
	due time.Time,
) (entities.Submission, error) {
	submissionID, err := o.IDGen.NewID(ctx)
	if err != nil {
		return entities.Submission{}, err
	}
	now := o.Clock.Now().UTC()
	submission := entities.Submission{
		SubmissionID: submissionID,
		CampaignID:   trigger.CampaignID,
		CreatorID:    trigger.CreatorID,
		Type:         target,
		Status:       entities.SubmissionStatusInProgress,
		DueDate:      &due,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	events := newEventBuffer(o.IDGen, submission.SubmissionID, now)
	if err := events.add(ctx, EventStageUnlocked, stageUnlockedData(trigger, submission)); err != nil {
		return entities.Submission{}, err
	}
	if err := o.Repository.CreateSubmission(ctx, submission, events.events); err != nil {
		return entities.Submission{}, err
	}
	return submission, nil
}

// dueDate prefers the reviewer's date, else counts from the commit that
// triggered the unlock.
func (o StageOrchestrator) dueDate(
	trigger entities.Submission,
	target entities.SubmissionType,
	requested *time.Time,
) time.Time {
	if requested != nil && !requested.IsZero() {
		return requested.UTC()
	}
	dueIn := o.PostingDueIn
	if target == entities.SubmissionTypeFinalDraft {
		dueIn = o.FinalDraftDueIn
	}
	if dueIn <= 0 {
		dueIn = DefaultStageDueIn
	}
	from := trigger.UpdatedAt
	if from.IsZero() {
		from = o.Clock.Now()
	}
	return from.UTC().Add(dueIn)
}

func stageUnlockedData(trigger entities.Submission, unlocked entities.Submission) map[string]any {
	data := map[string]any{
		"campaign_id":           unlocked.CampaignID,
		"creator_id":            unlocked.CreatorID,
		"submission_type":       string(unlocked.Type),
		"trigger_submission_id": trigger.SubmissionID,
		"trigger_type":          string(trigger.Type),
	}
	if unlocked.DueDate != nil {
		data["due_date"] = unlocked.DueDate.UTC().Format(time.RFC3339)
	}
	return data
}
