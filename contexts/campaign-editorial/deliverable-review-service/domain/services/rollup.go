package services

import "deliverables/contexts/campaign-editorial/deliverable-review-service/domain/entities"

type mediaTally struct {
	total          int
	approved       int
	pending        int
	sentToClient   int
	clientFeedback int
	inProgress     int
	needsRevision  int
}

// InScopeMedia filters a submission's media down to the kinds the campaign reviews.
func InScopeMedia(submission entities.Submission, campaign entities.Campaign) []entities.MediaItem {
	items := make([]entities.MediaItem, 0, len(submission.Media))
	for _, kind := range entities.MediaKinds {
		if !campaign.KindInScope(kind) {
			continue
		}
		items = append(items, submission.MediaByKind(kind)...)
	}
	return items
}

func tally(items []entities.MediaItem) mediaTally {
	out := mediaTally{total: len(items)}
	for _, item := range items {
		switch item.Status {
		case entities.MediaStatusApproved:
			out.approved++
		case entities.MediaStatusPendingReview:
			out.pending++
		case entities.MediaStatusSentToClient:
			out.sentToClient++
		case entities.MediaStatusClientFeedback:
			out.clientFeedback++
		case entities.MediaStatusInProgress:
			out.inProgress++
		case entities.MediaStatusChangesRequired, entities.MediaStatusRevisionRequested:
			out.needsRevision++
		}
	}
	return out
}

// RollUpStatus derives a draft submission's canonical status from its media.
// Submissions without in-scope media keep their stored status when they
// carry legacy content, since that status is then the only record.
func RollUpStatus(submission entities.Submission, campaign entities.Campaign) entities.SubmissionStatus {
	counts := tally(InScopeMedia(submission, campaign))
	switch {
	case counts.total == 0:
		if submission.Content == "" {
			return entities.SubmissionStatusNotStarted
		}
		if submission.Status == "" {
			return entities.SubmissionStatusPendingReview
		}
		return submission.Status
	case counts.approved == counts.total:
		return entities.SubmissionStatusApproved
	case counts.pending+counts.sentToClient+counts.clientFeedback > 0:
		return entities.SubmissionStatusPendingReview
	case counts.inProgress > 0:
		return entities.SubmissionStatusInProgress
	case counts.needsRevision > 0:
		return entities.SubmissionStatusChangesRequired
	default:
		return entities.SubmissionStatusPendingReview
	}
}

// DeriveDisplayStatus computes the reviewer-facing status for client-reviewed
// drafts. It is empty whenever it would add nothing over the canonical status.
func DeriveDisplayStatus(submission entities.Submission, campaign entities.Campaign) entities.SubmissionStatus {
	if campaign.Variant() != entities.WorkflowVariantV3 || !submission.Type.CarriesMedia() {
		return ""
	}
	counts := tally(InScopeMedia(submission, campaign))
	if counts.total == 0 {
		return ""
	}
	switch {
	case counts.clientFeedback > 0 && counts.sentToClient > 0:
		return entities.SubmissionStatusClientFeedback
	case counts.clientFeedback > 0:
		return entities.SubmissionStatusSentToAdmin
	case counts.needsRevision > 0 && counts.inProgress == 0 && counts.pending == 0:
		return entities.SubmissionStatusChangesRequired
	case counts.approved == counts.total:
		return entities.SubmissionStatusClientApproved
	case counts.pending > 0:
		return entities.SubmissionStatusPendingReview
	case counts.sentToClient > 0:
		return entities.SubmissionStatusSentToClient
	default:
		return RollUpStatus(submission, campaign)
	}
}

// Recompute reapplies roll-up to a draft submission in place.
// ChangesRequested is raised only when the draft as a whole reaches
// CHANGES_REQUIRED as the creator sees it: the canonical status on admin-only
// campaigns, the display status on client-reviewed ones. A rejected item next
// to items the admin has not reviewed yet does not count.
func Recompute(submission *entities.Submission, campaign entities.Campaign) {
	if !submission.Type.CarriesMedia() {
		return
	}
	submission.Status = RollUpStatus(*submission, campaign)
	submission.DisplayStatus = DeriveDisplayStatus(*submission, campaign)
	if submission.Status == entities.SubmissionStatusChangesRequired ||
		submission.DisplayStatus == entities.SubmissionStatusChangesRequired {
		submission.ChangesRequested = true
	}
}
