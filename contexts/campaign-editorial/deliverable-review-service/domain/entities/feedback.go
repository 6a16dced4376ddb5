package entities

import (
	"strings"
	"time"
)

type FeedbackType string

const (
	FeedbackTypeComment FeedbackType = "COMMENT"
	FeedbackTypeRequest FeedbackType = "REQUEST"
)

// FeedbackReasons is the predefined set reviewers pick change reasons from.
var FeedbackReasons = []string{
	"Audio quality",
	"Lighting",
	"Framing",
	"Brand guidelines not followed",
	"Missing key message",
	"Missing call to action",
	"Video length",
	"Wrong aspect ratio",
	"Product not visible",
	"Script deviation",
	"Other",
}

func IsKnownFeedbackReason(reason string) bool {
	reason = strings.TrimSpace(reason)
	for _, item := range FeedbackReasons {
		if strings.EqualFold(item, reason) {
			return true
		}
	}
	return false
}

type Feedback struct {
	FeedbackID         string
	SubmissionID       string
	AuthorID           string
	AuthorRole         ActorRole
	Type               FeedbackType
	Content            string
	Reasons            []string
	VideosToUpdate     []string
	RawFootageToUpdate []string
	PhotosToUpdate     []string
	CreatedAt          time.Time

	Forwarded       bool
	ForwardedAt     *time.Time
	ForwardedByID   string
	OriginalContent string
	EditedAt        *time.Time
}

// Targets returns every media id the feedback is scoped to.
func (f Feedback) Targets() []string {
	targets := make([]string, 0, len(f.VideosToUpdate)+len(f.RawFootageToUpdate)+len(f.PhotosToUpdate))
	targets = append(targets, f.VideosToUpdate...)
	targets = append(targets, f.RawFootageToUpdate...)
	targets = append(targets, f.PhotosToUpdate...)
	return targets
}

func (f Feedback) Edited() bool {
	return f.EditedAt != nil
}

// ScopeTo records the media item as a target under the list matching its kind.
func (f *Feedback) ScopeTo(item MediaItem) {
	switch item.Kind {
	case MediaKindVideo:
		f.VideosToUpdate = append(f.VideosToUpdate, item.MediaID)
	case MediaKindRawFootage:
		f.RawFootageToUpdate = append(f.RawFootageToUpdate, item.MediaID)
	case MediaKindPhoto:
		f.PhotosToUpdate = append(f.PhotosToUpdate, item.MediaID)
	}
}
