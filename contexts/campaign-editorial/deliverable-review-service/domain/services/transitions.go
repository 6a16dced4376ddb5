package services

import (
	"deliverables/contexts/campaign-editorial/deliverable-review-service/domain/entities"
	domainerrors "deliverables/contexts/campaign-editorial/deliverable-review-service/domain/errors"
)

type Action string

const (
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionForward  Action = "forward"
	ActionSubmit   Action = "submit"
	ActionReupload Action = "reupload"
)

// NextMediaStatus is the media item state machine. Role and variant are
// checked before the current state so that a reviewer who may never act
// gets ErrForbidden rather than ErrInvalidStatusTransition.
func NextMediaStatus(
	variant entities.WorkflowVariant,
	role entities.ActorRole,
	action Action,
	current entities.MediaStatus,
) (entities.MediaStatus, error) {
	switch action {
	case ActionApprove:
		switch role {
		case entities.ActorRoleAdmin:
			if current != entities.MediaStatusPendingReview {
				return current, domainerrors.ErrInvalidStatusTransition
			}
			if variant == entities.WorkflowVariantV3 {
				return entities.MediaStatusSentToClient, nil
			}
			return entities.MediaStatusApproved, nil
		case entities.ActorRoleClient:
			if variant != entities.WorkflowVariantV3 || current != entities.MediaStatusSentToClient {
				return current, domainerrors.ErrForbidden
			}
			return entities.MediaStatusApproved, nil
		}
	case ActionReject:
		switch role {
		case entities.ActorRoleAdmin:
			if variant == entities.WorkflowVariantV3 {
				if current == entities.MediaStatusPendingReview || current == entities.MediaStatusSentToClient {
					return entities.MediaStatusChangesRequired, nil
				}
				return current, domainerrors.ErrInvalidStatusTransition
			}
			if current != entities.MediaStatusPendingReview {
				return current, domainerrors.ErrInvalidStatusTransition
			}
			return entities.MediaStatusRevisionRequested, nil
		case entities.ActorRoleClient:
			if variant != entities.WorkflowVariantV3 || current != entities.MediaStatusSentToClient {
				return current, domainerrors.ErrForbidden
			}
			return entities.MediaStatusClientFeedback, nil
		}
	case ActionForward:
		if role != entities.ActorRoleAdmin {
			return current, domainerrors.ErrForbidden
		}
		if variant != entities.WorkflowVariantV3 || current != entities.MediaStatusClientFeedback {
			return current, domainerrors.ErrInvalidStatusTransition
		}
		return entities.MediaStatusChangesRequired, nil
	case ActionSubmit:
		if role != entities.ActorRoleCreator && role != entities.ActorRoleAdmin {
			return current, domainerrors.ErrForbidden
		}
		if current == entities.MediaStatusInProgress || current.NeedsRevision() {
			return entities.MediaStatusPendingReview, nil
		}
		return current, domainerrors.ErrInvalidStatusTransition
	case ActionReupload:
		if role != entities.ActorRoleCreator && role != entities.ActorRoleAdmin {
			return current, domainerrors.ErrForbidden
		}
		if current == entities.MediaStatusInProgress || current.NeedsRevision() {
			return entities.MediaStatusInProgress, nil
		}
		return current, domainerrors.ErrInvalidStatusTransition
	}
	return current, domainerrors.ErrForbidden
}

// NextPostingStatus drives the single-link posting stage.
func NextPostingStatus(
	variant entities.WorkflowVariant,
	role entities.ActorRole,
	action Action,
	current entities.SubmissionStatus,
) (entities.SubmissionStatus, error) {
	switch action {
	case ActionApprove:
		switch role {
		case entities.ActorRoleAdmin:
			if current != entities.SubmissionStatusPendingReview {
				return current, domainerrors.ErrInvalidStatusTransition
			}
			if variant == entities.WorkflowVariantV3 {
				return entities.SubmissionStatusSentToClient, nil
			}
			return entities.SubmissionStatusApproved, nil
		case entities.ActorRoleClient:
			if variant != entities.WorkflowVariantV3 || current != entities.SubmissionStatusSentToClient {
				return current, domainerrors.ErrForbidden
			}
			return entities.SubmissionStatusClientApproved, nil
		}
	case ActionReject:
		switch role {
		case entities.ActorRoleAdmin:
			if current == entities.SubmissionStatusPendingReview ||
				(variant == entities.WorkflowVariantV3 && current == entities.SubmissionStatusSentToClient) {
				return entities.SubmissionStatusRejected, nil
			}
			return current, domainerrors.ErrInvalidStatusTransition
		case entities.ActorRoleClient:
			if variant != entities.WorkflowVariantV3 || current != entities.SubmissionStatusSentToClient {
				return current, domainerrors.ErrForbidden
			}
			return entities.SubmissionStatusRejected, nil
		}
	case ActionSubmit:
		if role != entities.ActorRoleCreator && role != entities.ActorRoleAdmin {
			return current, domainerrors.ErrForbidden
		}
		if current == entities.SubmissionStatusInProgress || current == entities.SubmissionStatusRejected {
			return entities.SubmissionStatusPendingReview, nil
		}
		return current, domainerrors.ErrInvalidStatusTransition
	}
	return current, domainerrors.ErrForbidden
}

// NextAgreementStatus drives the admin-only agreement form stage.
func NextAgreementStatus(
	role entities.ActorRole,
	action Action,
	current entities.SubmissionStatus,
) (entities.SubmissionStatus, error) {
	switch action {
	case ActionApprove, ActionReject:
		if role != entities.ActorRoleAdmin {
			return current, domainerrors.ErrForbidden
		}
		if current != entities.SubmissionStatusPendingReview {
			return current, domainerrors.ErrInvalidStatusTransition
		}
		if action == ActionApprove {
			return entities.SubmissionStatusApproved, nil
		}
		return entities.SubmissionStatusChangesRequired, nil
	case ActionSubmit:
		if role != entities.ActorRoleCreator && role != entities.ActorRoleAdmin {
			return current, domainerrors.ErrForbidden
		}
		switch current {
		case entities.SubmissionStatusNotStarted,
			entities.SubmissionStatusInProgress,
			entities.SubmissionStatusChangesRequired:
			return entities.SubmissionStatusPendingReview, nil
		}
		return current, domainerrors.ErrInvalidStatusTransition
	}
	return current, domainerrors.ErrForbidden
}
