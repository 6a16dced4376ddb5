package entities

import (
	"sort"
	"strings"
	"time"

	domainerrors "deliverables/contexts/campaign-editorial/deliverable-review-service/domain/errors"
)

type MediaItem struct {
	MediaID      string
	SubmissionID string
	Kind         MediaKind
	URL          string
	FileName     string
	Status       MediaStatus
	FeedbackIDs  []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Submission struct {
	SubmissionID     string
	CampaignID       string
	CreatorID        string
	Type             SubmissionType
	Status           SubmissionStatus
	DisplayStatus    SubmissionStatus
	Content          string
	Media            []MediaItem
	Feedback         []Feedback
	DueDate          *time.Time
	SubmissionDate   *time.Time
	IsReview         bool
	ChangesRequested bool
	Version          int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (s Submission) ValidateCreate() bool {
	return strings.TrimSpace(s.SubmissionID) != "" &&
		strings.TrimSpace(s.CampaignID) != "" &&
		strings.TrimSpace(s.CreatorID) != "" &&
		s.Type.Valid()
}

// EffectiveDisplayStatus is the reviewer-facing status; it falls back to Status when unset.
func (s Submission) EffectiveDisplayStatus() SubmissionStatus {
	if s.DisplayStatus != "" {
		return s.DisplayStatus
	}
	return s.Status
}

// MediaByKind returns the submission's items of one kind in upload order.
func (s Submission) MediaByKind(kind MediaKind) []MediaItem {
	items := make([]MediaItem, 0, len(s.Media))
	for _, item := range s.Media {
		if item.Kind == kind {
			items = append(items, item)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].MediaID < items[j].MediaID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items
}

func (s Submission) FindMedia(mediaID string) (MediaItem, error) {
	mediaID = strings.TrimSpace(mediaID)
	for _, item := range s.Media {
		if item.MediaID == mediaID {
			return item, nil
		}
	}
	return MediaItem{}, domainerrors.ErrMediaNotFound
}

func (s *Submission) UpdateMediaStatus(mediaID string, status MediaStatus, at time.Time) error {
	mediaID = strings.TrimSpace(mediaID)
	for i := range s.Media {
		if s.Media[i].MediaID == mediaID {
			s.Media[i].Status = status
			s.Media[i].UpdatedAt = at
			return nil
		}
	}
	return domainerrors.ErrMediaNotFound
}

func (s *Submission) AttachFeedback(mediaID string, feedbackID string) error {
	mediaID = strings.TrimSpace(mediaID)
	for i := range s.Media {
		if s.Media[i].MediaID == mediaID {
			s.Media[i].FeedbackIDs = append(s.Media[i].FeedbackIDs, feedbackID)
			return nil
		}
	}
	return domainerrors.ErrMediaNotFound
}

func (s *Submission) AppendFeedback(feedback Feedback) {
	feedback.SubmissionID = s.SubmissionID
	s.Feedback = append(s.Feedback, feedback)
}

// IndividualFeedback returns the ledger entries scoped to one media item.
func (s Submission) IndividualFeedback(mediaID string) []Feedback {
	items := make([]Feedback, 0)
	for _, feedback := range s.Feedback {
		for _, target := range feedback.Targets() {
			if target == mediaID {
				items = append(items, feedback)
				break
			}
		}
	}
	return items
}

// LatestClientFeedback returns the index of the newest client request that
// has not been forwarded to the creator yet, or -1.
func (s Submission) LatestClientFeedback() int {
	latest := -1
	for i, feedback := range s.Feedback {
		if feedback.AuthorRole != ActorRoleClient || feedback.Type != FeedbackTypeRequest || feedback.Forwarded {
			continue
		}
		if latest < 0 || !feedback.CreatedAt.Before(s.Feedback[latest].CreatedAt) {
			latest = i
		}
	}
	return latest
}

// Clone returns a copy that shares no slices with the receiver.
func (s Submission) Clone() Submission {
	out := s
	out.DueDate = cloneTime(s.DueDate)
	out.SubmissionDate = cloneTime(s.SubmissionDate)
	out.Media = make([]MediaItem, len(s.Media))
	for i, item := range s.Media {
		item.FeedbackIDs = append([]string(nil), item.FeedbackIDs...)
		out.Media[i] = item
	}
	out.Feedback = make([]Feedback, len(s.Feedback))
	for i, feedback := range s.Feedback {
		feedback.Reasons = append([]string(nil), feedback.Reasons...)
		feedback.VideosToUpdate = append([]string(nil), feedback.VideosToUpdate...)
		feedback.RawFootageToUpdate = append([]string(nil), feedback.RawFootageToUpdate...)
		feedback.PhotosToUpdate = append([]string(nil), feedback.PhotosToUpdate...)
		feedback.ForwardedAt = cloneTime(feedback.ForwardedAt)
		feedback.EditedAt = cloneTime(feedback.EditedAt)
		out.Feedback[i] = feedback
	}
	return out
}

func cloneTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}
