package services

import (
	"strings"

	"deliverables/contexts/campaign-editorial/deliverable-review-service/domain/entities"
	domainerrors "deliverables/contexts/campaign-editorial/deliverable-review-service/domain/errors"
)

// AuthorizeReview decides whether the actor may review the submission at all.
// State-dependent checks belong to the transition functions.
func AuthorizeReview(actor entities.Actor, campaign entities.Campaign, submission entities.Submission) error {
	if !actor.Valid() || actor.ReadOnly() {
		return domainerrors.ErrForbidden
	}
	switch actor.Role {
	case entities.ActorRoleAdmin:
		return nil
	case entities.ActorRoleClient:
		if campaign.Variant() != entities.WorkflowVariantV3 || submission.Type == entities.SubmissionTypeAgreementForm {
			return domainerrors.ErrForbidden
		}
		return nil
	default:
		return domainerrors.ErrForbidden
	}
}

// AuthorizeCreatorAction allows the owning creator, or an admin acting on
// their behalf, to upload and submit content.
func AuthorizeCreatorAction(actor entities.Actor, submission entities.Submission) error {
	if !actor.Valid() || actor.ReadOnly() {
		return domainerrors.ErrForbidden
	}
	switch actor.Role {
	case entities.ActorRoleAdmin:
		return nil
	case entities.ActorRoleCreator:
		if strings.TrimSpace(actor.UserID) != submission.CreatorID {
			return domainerrors.ErrForbidden
		}
		return nil
	default:
		return domainerrors.ErrForbidden
	}
}

// AuthorizeView lets creators read only their own submissions and keeps
// clients out of admin-only campaigns.
func AuthorizeView(actor entities.Actor, campaign entities.Campaign, creatorID string) error {
	if !actor.Valid() {
		return domainerrors.ErrForbidden
	}
	switch actor.Role {
	case entities.ActorRoleCreator:
		if strings.TrimSpace(actor.UserID) != creatorID {
			return domainerrors.ErrForbidden
		}
	case entities.ActorRoleClient:
		if campaign.Variant() != entities.WorkflowVariantV3 {
			return domainerrors.ErrForbidden
		}
	}
	return nil
}

// ValidateRejection checks the change request payload before anything mutates.
func ValidateRejection(feedback string, reasons []string) error {
	if strings.TrimSpace(feedback) == "" {
		return domainerrors.ErrFeedbackRequired
	}
	for _, reason := range reasons {
		if !entities.IsKnownFeedbackReason(reason) {
			return domainerrors.ErrInvalidReason
		}
	}
	return nil
}
