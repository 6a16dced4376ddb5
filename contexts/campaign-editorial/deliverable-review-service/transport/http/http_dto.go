package http

type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}

// DependencyFailureResponse is returned when the review committed but the
// next stage could not be opened.
type DependencyFailureResponse struct {
	Code       string        `json:"code"`
	Message    string        `json:"message"`
	Retryable  bool          `json:"retryable"`
	Submission SubmissionDTO `json:"submission"`
}

type CreateSubmissionRequest struct {
	CampaignID     string `json:"campaign_id"`
	CreatorID      string `json:"creator_id"`
	SubmissionType string `json:"submission_type"`
	DueDate        string `json:"due_date,omitempty"`
}

type UploadMediaRequest struct {
	MediaKind       string `json:"media_kind"`
	URL             string `json:"url"`
	FileName        string `json:"file_name"`
	ReplacesMediaID string `json:"replaces_media_id,omitempty"`
}

type SubmitRequest struct {
	Content  string   `json:"content,omitempty"`
	MediaIDs []string `json:"media_ids,omitempty"`
}

type ApproveRequest struct {
	MediaID  string `json:"media_id,omitempty"`
	Feedback string `json:"feedback,omitempty"`
	DueDate  string `json:"due_date,omitempty"`
}

type RequestChangesRequest struct {
	MediaIDs []string `json:"media_ids,omitempty"`
	Feedback string   `json:"feedback"`
	Reasons  []string `json:"reasons,omitempty"`
	DueDate  string   `json:"due_date,omitempty"`
}

type ForwardFeedbackRequest struct {
	EditedFeedback string `json:"edited_feedback,omitempty"`
	DueDate        string `json:"due_date,omitempty"`
}

type UnlockRequest struct {
	DueDate string `json:"due_date,omitempty"`
}

type MediaItemDTO struct {
	MediaID     string   `json:"media_id"`
	Kind        string   `json:"media_kind"`
	URL         string   `json:"url"`
	FileName    string   `json:"file_name,omitempty"`
	Status      string   `json:"status"`
	FeedbackIDs []string `json:"feedback_ids,omitempty"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

type FeedbackDTO struct {
	FeedbackID         string   `json:"feedback_id"`
	AuthorID           string   `json:"author_id"`
	AuthorRole         string   `json:"author_role"`
	Type               string   `json:"type"`
	Content            string   `json:"content"`
	Reasons            []string `json:"reasons,omitempty"`
	VideosToUpdate     []string `json:"videos_to_update,omitempty"`
	RawFootageToUpdate []string `json:"raw_footage_to_update,omitempty"`
	PhotosToUpdate     []string `json:"photos_to_update,omitempty"`
	CreatedAt          string   `json:"created_at"`
	Forwarded          bool     `json:"forwarded"`
	ForwardedAt        string   `json:"forwarded_at,omitempty"`
	OriginalContent    string   `json:"original_content,omitempty"`
	EditedAt           string   `json:"edited_at,omitempty"`
}

type SubmissionDTO struct {
	SubmissionID     string         `json:"submission_id"`
	CampaignID       string         `json:"campaign_id"`
	CreatorID        string         `json:"creator_id"`
	SubmissionType   string         `json:"submission_type"`
	Status           string         `json:"status"`
	DisplayStatus    string         `json:"display_status"`
	Content          string         `json:"content,omitempty"`
	ChangesRequested bool           `json:"changes_requested"`
	IsReview         bool           `json:"is_review"`
	DueDate          string         `json:"due_date,omitempty"`
	SubmissionDate   string         `json:"submission_date,omitempty"`
	Version          int            `json:"version"`
	Media            []MediaItemDTO `json:"media"`
	Feedback         []FeedbackDTO  `json:"feedback"`
	CreatedAt        string         `json:"created_at"`
	UpdatedAt        string         `json:"updated_at"`
}

type SubmissionResponse struct {
	Submission SubmissionDTO `json:"submission"`
}

type UploadMediaResponse struct {
	Submission SubmissionDTO `json:"submission"`
	Media      MediaItemDTO  `json:"media"`
}

type ReviewResponse struct {
	Submission SubmissionDTO  `json:"submission"`
	Unlocked   *SubmissionDTO `json:"unlocked,omitempty"`
	NoOp       bool           `json:"no_op,omitempty"`
}

type StatusResponse struct {
	SubmissionID     string         `json:"submission_id"`
	CampaignID       string         `json:"campaign_id"`
	CreatorID        string         `json:"creator_id"`
	SubmissionType   string         `json:"submission_type"`
	Status           string         `json:"status"`
	DisplayStatus    string         `json:"display_status"`
	ChangesRequested bool           `json:"changes_requested"`
	MediaCounts      map[string]int `json:"media_counts,omitempty"`
}

type CreatorStatusResponse struct {
	CampaignID      string           `json:"campaign_id"`
	CreatorID       string           `json:"creator_id"`
	WorkflowVariant string           `json:"workflow_variant"`
	Status          string           `json:"status"`
	ActionableStage string           `json:"actionable_stage"`
	Stages          []StatusResponse `json:"stages"`
}

type ActionableStageResponse struct {
	CampaignID      string `json:"campaign_id"`
	CreatorID       string `json:"creator_id"`
	ActionableStage string `json:"actionable_stage"`
}

type CreatorStatusesResponse struct {
	CampaignID string                  `json:"campaign_id"`
	Items      []CreatorStatusResponse `json:"items"`
	Counts     map[string]int          `json:"counts"`
}

type ListSubmissionsResponse struct {
	Items []SubmissionDTO `json:"items"`
}
