package commands

import (
	"context"
	"strings"
	"time"

	"deliverables/contexts/campaign-editorial/deliverable-review-service/domain/entities"
	domainerrors "deliverables/contexts/campaign-editorial/deliverable-review-service/domain/errors"
	"deliverables/contexts/campaign-editorial/deliverable-review-service/ports"
)

// ReviewResult carries the committed primary state plus the stage the
// orchestrator opened, if any.
type ReviewResult struct {
	Submission entities.Submission
	Unlocked   *entities.Submission
	NoOp       bool
}

type mutationScope struct {
	Submission *entities.Submission
	Campaign   entities.Campaign
	Now        time.Time
	Events     *eventBuffer
}

type mutateFunc func(ctx context.Context, scope mutationScope) (changed bool, err error)

// submissionMutator runs one locked load-validate-mutate-save cycle.
type submissionMutator struct {
	Repository ports.Repository
	Campaigns  ports.CampaignDirectory
	Locker     ports.Locker
	Clock      ports.Clock
	IDGen      ports.IDGenerator
}

func lockKey(submissionID string) string {
	return "deliverable:submission:" + submissionID
}

func (m submissionMutator) run(
	ctx context.Context,
	submissionID string,
	fn mutateFunc,
) (entities.Submission, bool, error) {
	submissionID = strings.TrimSpace(submissionID)
	if submissionID == "" {
		return entities.Submission{}, false, domainerrors.ErrSubmissionNotFound
	}
	release, err := m.Locker.Lock(ctx, lockKey(submissionID))
	if err != nil {
		return entities.Submission{}, false, err
	}
	defer release()

	current, err := m.Repository.GetSubmission(ctx, submissionID)
	if err != nil {
		return entities.Submission{}, false, err
	}
	campaign, err := m.Campaigns.GetCampaign(ctx, current.CampaignID)
	if err != nil {
		return entities.Submission{}, false, err
	}

	now := m.Clock.Now().UTC()
	working := current.Clone()
	events := newEventBuffer(m.IDGen, submissionID, now)
	changed, err := fn(ctx, mutationScope{
		Submission: &working,
		Campaign:   campaign,
		Now:        now,
		Events:     events,
	})
	if err != nil {
		return entities.Submission{}, false, err
	}
	if !changed {
		return current, false, nil
	}
	if err := events.statusChanged(ctx, current, working); err != nil {
		return entities.Submission{}, false, err
	}
	working.UpdatedAt = now
	saved, err := m.Repository.SaveSubmission(ctx, working, events.events)
	if err != nil {
		return entities.Submission{}, false, err
	}
	return saved, true, nil
}
