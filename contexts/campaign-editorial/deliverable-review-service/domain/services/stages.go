package services

import (
	"sort"

	"deliverables/contexts/campaign-editorial/deliverable-review-service/domain/entities"
)

// CreatorStages holds one creator's submissions within one campaign.
type CreatorStages struct {
	CreatorID  string
	Agreement  *entities.Submission
	FirstDraft *entities.Submission
	FinalDraft *entities.Submission
	Posting    *entities.Submission
}

func (c *CreatorStages) Set(submission entities.Submission) {
	item := submission
	switch submission.Type {
	case entities.SubmissionTypeAgreementForm:
		c.Agreement = &item
	case entities.SubmissionTypeFirstDraft:
		c.FirstDraft = &item
	case entities.SubmissionTypeFinalDraft:
		c.FinalDraft = &item
	case entities.SubmissionTypePosting:
		c.Posting = &item
	}
}

// GroupByCreator buckets a campaign's submissions per creator, sorted by creator id.
func GroupByCreator(submissions []entities.Submission) []CreatorStages {
	byCreator := make(map[string]*CreatorStages)
	for _, submission := range submissions {
		stages, ok := byCreator[submission.CreatorID]
		if !ok {
			stages = &CreatorStages{CreatorID: submission.CreatorID}
			byCreator[submission.CreatorID] = stages
		}
		stages.Set(submission)
	}
	out := make([]CreatorStages, 0, len(byCreator))
	for _, stages := range byCreator {
		out = append(out, *stages)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatorID < out[j].CreatorID
	})
	return out
}

// AggregateCreatorStatus picks the single status shown for a creator: the
// first of Posting, Final Draft, First Draft that has moved past NOT_STARTED.
func AggregateCreatorStatus(stages CreatorStages, variant entities.WorkflowVariant) entities.SubmissionStatus {
	for _, submission := range []*entities.Submission{stages.Posting, stages.FinalDraft, stages.FirstDraft} {
		if submission == nil || submission.Status == "" || submission.Status == entities.SubmissionStatusNotStarted {
			continue
		}
		if variant == entities.WorkflowVariantV3 && submission.DisplayStatus != "" {
			return submission.DisplayStatus
		}
		return submission.Status
	}
	return entities.SubmissionStatusNotStarted
}

// ActionableStage reports which stage the creator is expected to work on.
// Final Draft only matters once the first draft had changes requested.
func ActionableStage(stages CreatorStages) entities.SubmissionType {
	if stages.Agreement != nil && !stages.Agreement.Status.IsApproved() {
		return entities.SubmissionTypeAgreementForm
	}
	first := stages.FirstDraft
	if first == nil || (!first.ChangesRequested && !first.Status.IsApproved()) {
		return entities.SubmissionTypeFirstDraft
	}
	if first.ChangesRequested && (stages.FinalDraft == nil || !stages.FinalDraft.Status.IsApproved()) {
		return entities.SubmissionTypeFinalDraft
	}
	return entities.SubmissionTypePosting
}

// UnlockTarget returns the stage a committed submission state opens up, if any.
func UnlockTarget(submission entities.Submission) (entities.SubmissionType, bool) {
	switch submission.Type {
	case entities.SubmissionTypeFirstDraft:
		if submission.ChangesRequested {
			return entities.SubmissionTypeFinalDraft, true
		}
		if submission.Status.IsApproved() {
			return entities.SubmissionTypePosting, true
		}
	case entities.SubmissionTypeFinalDraft:
		if submission.Status.IsApproved() {
			return entities.SubmissionTypePosting, true
		}
	}
	return "", false
}

// NeedsUnlock is false once a stage is IN_PROGRESS or later.
func NeedsUnlock(status entities.SubmissionStatus) bool {
	return status == "" || status == entities.SubmissionStatusNotStarted
}
