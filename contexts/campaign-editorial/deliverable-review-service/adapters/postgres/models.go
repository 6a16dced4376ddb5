package postgresadapter

import (
	"encoding/json"
	"strings"
	"time"

	"deliverables/contexts/campaign-editorial/deliverable-review-service/domain/entities"
)

type submissionModel struct {
	SubmissionID     string     `gorm:"column:submission_id;primaryKey"`
	CampaignID       string     `gorm:"column:campaign_id;uniqueIndex:ux_deliverable_stage"`
	CreatorID        string     `gorm:"column:creator_id;uniqueIndex:ux_deliverable_stage"`
	SubmissionType   string     `gorm:"column:submission_type;uniqueIndex:ux_deliverable_stage"`
	Status           string     `gorm:"column:status"`
	DisplayStatus    string     `gorm:"column:display_status"`
	Content          string     `gorm:"column:content"`
	DueDate          *time.Time `gorm:"column:due_date"`
	SubmissionDate   *time.Time `gorm:"column:submission_date"`
	IsReview         bool       `gorm:"column:is_review"`
	ChangesRequested bool       `gorm:"column:changes_requested"`
	Version          int        `gorm:"column:version"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at"`
}

func (submissionModel) TableName() string {
	return "deliverable_submissions"
}

type mediaModel struct {
	MediaID      string    `gorm:"column:media_id;primaryKey"`
	SubmissionID string    `gorm:"column:submission_id;index"`
	Kind         string    `gorm:"column:media_kind"`
	URL          string    `gorm:"column:url"`
	FileName     string    `gorm:"column:file_name"`
	Status       string    `gorm:"column:status"`
	FeedbackIDs  []byte    `gorm:"column:feedback_ids;type:jsonb"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (mediaModel) TableName() string {
	return "deliverable_media_items"
}

type feedbackModel struct {
	FeedbackID         string     `gorm:"column:feedback_id;primaryKey"`
	SubmissionID       string     `gorm:"column:submission_id;index"`
	AuthorID           string     `gorm:"column:author_id"`
	AuthorRole         string     `gorm:"column:author_role"`
	FeedbackType       string     `gorm:"column:feedback_type"`
	Content            string     `gorm:"column:content"`
	Reasons            []byte     `gorm:"column:reasons;type:jsonb"`
	VideosToUpdate     []byte     `gorm:"column:videos_to_update;type:jsonb"`
	RawFootageToUpdate []byte     `gorm:"column:raw_footage_to_update;type:jsonb"`
	PhotosToUpdate     []byte     `gorm:"column:photos_to_update;type:jsonb"`
	Forwarded          bool       `gorm:"column:forwarded"`
	ForwardedAt        *time.Time `gorm:"column:forwarded_at"`
	ForwardedByID      string     `gorm:"column:forwarded_by_id"`
	OriginalContent    string     `gorm:"column:original_content"`
	EditedAt           *time.Time `gorm:"column:edited_at"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
}

func (feedbackModel) TableName() string {
	return "deliverable_feedback"
}

type campaignModel struct {
	CampaignID        string    `gorm:"column:campaign_id;primaryKey"`
	Name              string    `gorm:"column:name"`
	Origin            string    `gorm:"column:origin"`
	RawFootageEnabled bool      `gorm:"column:raw_footage_enabled"`
	PhotosEnabled     bool      `gorm:"column:photos_enabled"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (campaignModel) TableName() string {
	return "deliverable_campaigns"
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload;type:jsonb"`
	Status       string     `gorm:"column:status;index"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "deliverable_outbox"
}

func submissionModelFromEntity(item entities.Submission) submissionModel {
	return submissionModel{
		SubmissionID:     strings.TrimSpace(item.SubmissionID),
		CampaignID:       strings.TrimSpace(item.CampaignID),
		CreatorID:        strings.TrimSpace(item.CreatorID),
		SubmissionType:   string(item.Type),
		Status:           string(item.Status),
		DisplayStatus:    string(item.DisplayStatus),
		Content:          item.Content,
		DueDate:          normalizeOptionalTime(item.DueDate),
		SubmissionDate:   normalizeOptionalTime(item.SubmissionDate),
		IsReview:         item.IsReview,
		ChangesRequested: item.ChangesRequested,
		Version:          item.Version,
		CreatedAt:        item.CreatedAt.UTC(),
		UpdatedAt:        item.UpdatedAt.UTC(),
	}
}

func (m submissionModel) toEntity(media []mediaModel, feedback []feedbackModel) entities.Submission {
	item := entities.Submission{
		SubmissionID:     m.SubmissionID,
		CampaignID:       m.CampaignID,
		CreatorID:        m.CreatorID,
		Type:             entities.SubmissionType(m.SubmissionType),
		Status:           entities.SubmissionStatus(m.Status),
		DisplayStatus:    entities.SubmissionStatus(m.DisplayStatus),
		Content:          m.Content,
		DueDate:          normalizeOptionalTime(m.DueDate),
		SubmissionDate:   normalizeOptionalTime(m.SubmissionDate),
		IsReview:         m.IsReview,
		ChangesRequested: m.ChangesRequested,
		Version:          m.Version,
		CreatedAt:        m.CreatedAt.UTC(),
		UpdatedAt:        m.UpdatedAt.UTC(),
		Media:            make([]entities.MediaItem, 0, len(media)),
		Feedback:         make([]entities.Feedback, 0, len(feedback)),
	}
	for _, row := range media {
		item.Media = append(item.Media, entities.MediaItem{
			MediaID:      row.MediaID,
			SubmissionID: row.SubmissionID,
			Kind:         entities.MediaKind(row.Kind),
			URL:          row.URL,
			FileName:     row.FileName,
			Status:       entities.MediaStatus(row.Status),
			FeedbackIDs:  decodeStrings(row.FeedbackIDs),
			CreatedAt:    row.CreatedAt.UTC(),
			UpdatedAt:    row.UpdatedAt.UTC(),
		})
	}
	for _, row := range feedback {
		item.Feedback = append(item.Feedback, entities.Feedback{
			FeedbackID:         row.FeedbackID,
			SubmissionID:       row.SubmissionID,
			AuthorID:           row.AuthorID,
			AuthorRole:         entities.ActorRole(row.AuthorRole),
			Type:               entities.FeedbackType(row.FeedbackType),
			Content:            row.Content,
			Reasons:            decodeStrings(row.Reasons),
			VideosToUpdate:     decodeStrings(row.VideosToUpdate),
			RawFootageToUpdate: decodeStrings(row.RawFootageToUpdate),
			PhotosToUpdate:     decodeStrings(row.PhotosToUpdate),
			CreatedAt:          row.CreatedAt.UTC(),
			Forwarded:          row.Forwarded,
			ForwardedAt:        normalizeOptionalTime(row.ForwardedAt),
			ForwardedByID:      row.ForwardedByID,
			OriginalContent:    row.OriginalContent,
			EditedAt:           normalizeOptionalTime(row.EditedAt),
		})
	}
	return item
}

func mediaModelsFromEntity(item entities.Submission) []mediaModel {
	rows := make([]mediaModel, 0, len(item.Media))
	for _, media := range item.Media {
		rows = append(rows, mediaModel{
			MediaID:      media.MediaID,
			SubmissionID: item.SubmissionID,
			Kind:         string(media.Kind),
			URL:          media.URL,
			FileName:     media.FileName,
			Status:       string(media.Status),
			FeedbackIDs:  encodeStrings(media.FeedbackIDs),
			CreatedAt:    media.CreatedAt.UTC(),
			UpdatedAt:    media.UpdatedAt.UTC(),
		})
	}
	return rows
}

func feedbackModelsFromEntity(item entities.Submission) []feedbackModel {
	rows := make([]feedbackModel, 0, len(item.Feedback))
	for _, feedback := range item.Feedback {
		rows = append(rows, feedbackModel{
			FeedbackID:         feedback.FeedbackID,
			SubmissionID:       item.SubmissionID,
			AuthorID:           feedback.AuthorID,
			AuthorRole:         string(feedback.AuthorRole),
			FeedbackType:       string(feedback.Type),
			Content:            feedback.Content,
			Reasons:            encodeStrings(feedback.Reasons),
			VideosToUpdate:     encodeStrings(feedback.VideosToUpdate),
			RawFootageToUpdate: encodeStrings(feedback.RawFootageToUpdate),
			PhotosToUpdate:     encodeStrings(feedback.PhotosToUpdate),
			Forwarded:          feedback.Forwarded,
			ForwardedAt:        normalizeOptionalTime(feedback.ForwardedAt),
			ForwardedByID:      feedback.ForwardedByID,
			OriginalContent:    feedback.OriginalContent,
			EditedAt:           normalizeOptionalTime(feedback.EditedAt),
			CreatedAt:          feedback.CreatedAt.UTC(),
		})
	}
	return rows
}

func (m campaignModel) toEntity() entities.Campaign {
	return entities.Campaign{
		CampaignID:        m.CampaignID,
		Name:              m.Name,
		Origin:            entities.CampaignOrigin(m.Origin),
		RawFootageEnabled: m.RawFootageEnabled,
		PhotosEnabled:     m.PhotosEnabled,
	}
}

func encodeStrings(values []string) []byte {
	if values == nil {
		values = []string{}
	}
	raw, _ := json.Marshal(values)
	return raw
}

func decodeStrings(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil || len(values) == 0 {
		return nil
	}
	return values
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	timestamp := value.UTC()
	return &timestamp
}
