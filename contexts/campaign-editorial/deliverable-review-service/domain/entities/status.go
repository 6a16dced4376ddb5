package entities

import "strings"

type SubmissionType string

const (
	SubmissionTypeAgreementForm SubmissionType = "AGREEMENT_FORM"
	SubmissionTypeFirstDraft    SubmissionType = "FIRST_DRAFT"
	SubmissionTypeFinalDraft    SubmissionType = "FINAL_DRAFT"
	SubmissionTypePosting       SubmissionType = "POSTING"
)

// SubmissionTypes lists the stages in workflow order.
var SubmissionTypes = []SubmissionType{
	SubmissionTypeAgreementForm,
	SubmissionTypeFirstDraft,
	SubmissionTypeFinalDraft,
	SubmissionTypePosting,
}

// Order returns the stage position, or -1 for unknown types.
func (t SubmissionType) Order() int {
	for i, item := range SubmissionTypes {
		if item == t {
			return i
		}
	}
	return -1
}

func (t SubmissionType) Valid() bool {
	return t.Order() >= 0
}

// CarriesMedia reports whether the stage is reviewed per media item.
func (t SubmissionType) CarriesMedia() bool {
	return t == SubmissionTypeFirstDraft || t == SubmissionTypeFinalDraft
}

func ParseSubmissionType(raw string) (SubmissionType, bool) {
	value := SubmissionType(strings.ToUpper(strings.TrimSpace(raw)))
	return value, value.Valid()
}

type SubmissionStatus string

const (
	SubmissionStatusNotStarted      SubmissionStatus = "NOT_STARTED"
	SubmissionStatusInProgress      SubmissionStatus = "IN_PROGRESS"
	SubmissionStatusPendingReview   SubmissionStatus = "PENDING_REVIEW"
	SubmissionStatusChangesRequired SubmissionStatus = "CHANGES_REQUIRED"
	SubmissionStatusRejected        SubmissionStatus = "REJECTED"
	SubmissionStatusApproved        SubmissionStatus = "APPROVED"
	SubmissionStatusSentToAdmin     SubmissionStatus = "SENT_TO_ADMIN"
	SubmissionStatusClientFeedback  SubmissionStatus = "CLIENT_FEEDBACK"
	SubmissionStatusSentToClient    SubmissionStatus = "SENT_TO_CLIENT"
	SubmissionStatusClientApproved  SubmissionStatus = "CLIENT_APPROVED"
)

// IsApproved covers both the admin and the client approval outcome.
func (s SubmissionStatus) IsApproved() bool {
	return s == SubmissionStatusApproved || s == SubmissionStatusClientApproved
}

type MediaKind string

const (
	MediaKindVideo      MediaKind = "video"
	MediaKindRawFootage MediaKind = "raw_footage"
	MediaKindPhoto      MediaKind = "photo"
)

var MediaKinds = []MediaKind{MediaKindVideo, MediaKindRawFootage, MediaKindPhoto}

func ParseMediaKind(raw string) (MediaKind, bool) {
	value := MediaKind(strings.ToLower(strings.TrimSpace(raw)))
	switch value {
	case MediaKindVideo, MediaKindRawFootage, MediaKindPhoto:
		return value, true
	default:
		return "", false
	}
}

type MediaStatus string

const (
	MediaStatusInProgress        MediaStatus = "IN_PROGRESS"
	MediaStatusPendingReview     MediaStatus = "PENDING_REVIEW"
	MediaStatusSentToClient      MediaStatus = "SENT_TO_CLIENT"
	MediaStatusApproved          MediaStatus = "APPROVED"
	MediaStatusRevisionRequested MediaStatus = "REVISION_REQUESTED"
	MediaStatusChangesRequired   MediaStatus = "CHANGES_REQUIRED"
	MediaStatusClientFeedback    MediaStatus = "CLIENT_FEEDBACK"
)

// NeedsRevision reports whether the creator has to act on the item.
func (s MediaStatus) NeedsRevision() bool {
	return s == MediaStatusChangesRequired || s == MediaStatusRevisionRequested
}

// AwaitingReviewer reports whether an admin or client still has to act on the item.
func (s MediaStatus) AwaitingReviewer() bool {
	return s == MediaStatusPendingReview || s == MediaStatusSentToClient || s == MediaStatusClientFeedback
}

type ActorRole string

const (
	ActorRoleAdmin   ActorRole = "admin"
	ActorRoleClient  ActorRole = "client"
	ActorRoleCreator ActorRole = "creator"
)

// AdminModeFinance marks admins that may view submissions but never mutate them.
const AdminModeFinance = "finance"

type Actor struct {
	UserID    string
	Role      ActorRole
	AdminMode string
}

func (a Actor) ReadOnly() bool {
	return a.Role == ActorRoleAdmin && strings.EqualFold(strings.TrimSpace(a.AdminMode), AdminModeFinance)
}

func (a Actor) Valid() bool {
	if strings.TrimSpace(a.UserID) == "" {
		return false
	}
	switch a.Role {
	case ActorRoleAdmin, ActorRoleClient, ActorRoleCreator:
		return true
	default:
		return false
	}
}
