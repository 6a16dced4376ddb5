package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "deliverables/contexts/campaign-editorial/deliverable-review-service/application"
	"deliverables/contexts/campaign-editorial/deliverable-review-service/application/commands"
	"deliverables/contexts/campaign-editorial/deliverable-review-service/application/queries"
	"deliverables/contexts/campaign-editorial/deliverable-review-service/domain/entities"
	domainerrors "deliverables/contexts/campaign-editorial/deliverable-review-service/domain/errors"
	httptransport "deliverables/contexts/campaign-editorial/deliverable-review-service/transport/http"
)

type Handler struct {
	CreateSubmission commands.CreateSubmissionUseCase
	UploadMedia      commands.UploadMediaUseCase
	Submit           commands.SubmitUseCase
	Review           commands.ReviewUseCase
	ForwardFeedback  commands.ForwardFeedbackUseCase
	Orchestrator     commands.StageOrchestrator
	Queries          queries.QueryUseCase
	Logger           *slog.Logger
}

func (h Handler) CreateSubmissionHandler(
	ctx context.Context,
	actor entities.Actor,
	req httptransport.CreateSubmissionRequest,
) (httptransport.SubmissionResponse, error) {
	submissionType, ok := entities.ParseSubmissionType(req.SubmissionType)
	if !ok {
		return httptransport.SubmissionResponse{}, domainerrors.ErrInvalidSubmissionInput
	}
	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return httptransport.SubmissionResponse{}, err
	}
	item, err := h.CreateSubmission.Execute(ctx, commands.CreateSubmissionCommand{
		Actor:      actor,
		CampaignID: req.CampaignID,
		CreatorID:  req.CreatorID,
		Type:       submissionType,
		DueDate:    dueDate,
	})
	if err != nil {
		return httptransport.SubmissionResponse{}, err
	}
	return httptransport.SubmissionResponse{Submission: MapSubmission(item)}, nil
}

func (h Handler) GetSubmissionHandler(
	ctx context.Context,
	actor entities.Actor,
	submissionID string,
) (httptransport.SubmissionResponse, error) {
	item, err := h.Queries.GetSubmission(ctx, actor, submissionID)
	if err != nil {
		return httptransport.SubmissionResponse{}, err
	}
	return httptransport.SubmissionResponse{Submission: MapSubmission(item)}, nil
}

func (h Handler) ListSubmissionsHandler(
	ctx context.Context,
	actor entities.Actor,
	campaignID string,
	creatorID string,
	submissionType string,
	status string,
) (httptransport.ListSubmissionsResponse, error) {
	items, err := h.Queries.ListSubmissions(ctx, queries.ListSubmissionsQuery{
		Actor:      actor,
		CampaignID: campaignID,
		CreatorID:  creatorID,
		Type:       submissionType,
		Status:     status,
	})
	if err != nil {
		return httptransport.ListSubmissionsResponse{}, err
	}
	result := make([]httptransport.SubmissionDTO, 0, len(items))
	for _, item := range items {
		result = append(result, MapSubmission(item))
	}
	return httptransport.ListSubmissionsResponse{Items: result}, nil
}

func (h Handler) GetStatusHandler(
	ctx context.Context,
	actor entities.Actor,
	submissionID string,
) (httptransport.StatusResponse, error) {
	view, err := h.Queries.GetStatus(ctx, actor, submissionID)
	if err != nil {
		return httptransport.StatusResponse{}, err
	}
	return mapStatus(view), nil
}

func (h Handler) UploadMediaHandler(
	ctx context.Context,
	actor entities.Actor,
	submissionID string,
	req httptransport.UploadMediaRequest,
) (httptransport.UploadMediaResponse, error) {
	kind, ok := entities.ParseMediaKind(req.MediaKind)
	if !ok {
		return httptransport.UploadMediaResponse{}, domainerrors.ErrInvalidSubmissionInput
	}
	submission, item, err := h.UploadMedia.Execute(ctx, commands.UploadMediaCommand{
		Actor:           actor,
		SubmissionID:    submissionID,
		Kind:            kind,
		URL:             req.URL,
		FileName:        req.FileName,
		ReplacesMediaID: req.ReplacesMediaID,
	})
	if err != nil {
		return httptransport.UploadMediaResponse{}, err
	}
	return httptransport.UploadMediaResponse{
		Submission: MapSubmission(submission),
		Media:      mapMedia(item),
	}, nil
}

func (h Handler) SubmitHandler(
	ctx context.Context,
	actor entities.Actor,
	submissionID string,
	req httptransport.SubmitRequest,
) (httptransport.SubmissionResponse, error) {
	item, err := h.Submit.Execute(ctx, commands.SubmitCommand{
		Actor:        actor,
		SubmissionID: submissionID,
		Content:      req.Content,
		MediaIDs:     req.MediaIDs,
	})
	if err != nil {
		return httptransport.SubmissionResponse{}, err
	}
	return httptransport.SubmissionResponse{Submission: MapSubmission(item)}, nil
}

// The review handlers return the committed state alongside a dependency
// failure so the caller can show it and retry only the unlock.

func (h Handler) ApproveHandler(
	ctx context.Context,
	actor entities.Actor,
	submissionID string,
	req httptransport.ApproveRequest,
) (httptransport.ReviewResponse, error) {
	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return httptransport.ReviewResponse{}, err
	}
	result, err := h.Review.Approve(ctx, commands.ApproveCommand{
		Actor:        actor,
		SubmissionID: submissionID,
		MediaID:      req.MediaID,
		Feedback:     req.Feedback,
		DueDate:      dueDate,
	})
	return mapReview(result), err
}

func (h Handler) RequestChangesHandler(
	ctx context.Context,
	actor entities.Actor,
	submissionID string,
	req httptransport.RequestChangesRequest,
) (httptransport.ReviewResponse, error) {
	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return httptransport.ReviewResponse{}, err
	}
	result, err := h.Review.RequestChanges(ctx, commands.RequestChangesCommand{
		Actor:        actor,
		SubmissionID: submissionID,
		MediaIDs:     req.MediaIDs,
		Feedback:     req.Feedback,
		Reasons:      req.Reasons,
		DueDate:      dueDate,
	})
	return mapReview(result), err
}

func (h Handler) ForwardFeedbackHandler(
	ctx context.Context,
	actor entities.Actor,
	submissionID string,
	req httptransport.ForwardFeedbackRequest,
) (httptransport.ReviewResponse, error) {
	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return httptransport.ReviewResponse{}, err
	}
	result, err := h.ForwardFeedback.Execute(ctx, commands.ForwardFeedbackCommand{
		Actor:          actor,
		SubmissionID:   submissionID,
		EditedFeedback: req.EditedFeedback,
		DueDate:        dueDate,
	})
	return mapReview(result), err
}

func (h Handler) RetryUnlockHandler(
	ctx context.Context,
	actor entities.Actor,
	submissionID string,
	req httptransport.UnlockRequest,
) (httptransport.ReviewResponse, error) {
	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return httptransport.ReviewResponse{}, err
	}
	result, err := h.Orchestrator.RetryUnlock(ctx, commands.RetryUnlockCommand{
		Actor:        actor,
		SubmissionID: submissionID,
		DueDate:      dueDate,
	})
	return mapReview(result), err
}

func (h Handler) CreatorStatusHandler(
	ctx context.Context,
	actor entities.Actor,
	campaignID string,
	creatorID string,
) (httptransport.CreatorStatusResponse, error) {
	view, err := h.Queries.CreatorStatus(ctx, actor, campaignID, creatorID)
	if err != nil {
		return httptransport.CreatorStatusResponse{}, err
	}
	return mapCreatorStatus(view), nil
}

func (h Handler) ActionableStageHandler(
	ctx context.Context,
	actor entities.Actor,
	campaignID string,
	creatorID string,
) (httptransport.ActionableStageResponse, error) {
	view, err := h.Queries.CreatorStatus(ctx, actor, campaignID, creatorID)
	if err != nil {
		return httptransport.ActionableStageResponse{}, err
	}
	return httptransport.ActionableStageResponse{
		CampaignID:      view.CampaignID,
		CreatorID:       view.CreatorID,
		ActionableStage: string(view.ActionableStage),
	}, nil
}

func (h Handler) CreatorStatusesHandler(
	ctx context.Context,
	actor entities.Actor,
	campaignID string,
) (httptransport.CreatorStatusesResponse, error) {
	views, err := h.Queries.CreatorStatuses(ctx, actor, campaignID)
	if err != nil {
		return httptransport.CreatorStatusesResponse{}, err
	}
	items := make([]httptransport.CreatorStatusResponse, 0, len(views))
	for _, view := range views {
		items = append(items, mapCreatorStatus(view))
	}
	counts := make(map[string]int)
	for status, count := range queries.StatusCounts(views) {
		counts[string(status)] = count
	}
	h.logDebug("creator statuses served", campaignID, len(items))
	return httptransport.CreatorStatusesResponse{
		CampaignID: strings.TrimSpace(campaignID),
		Items:      items,
		Counts:     counts,
	}, nil
}

func parseDueDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, domainerrors.ErrInvalidSubmissionInput
	}
	parsed = parsed.UTC()
	return &parsed, nil
}

func MapSubmission(item entities.Submission) httptransport.SubmissionDTO {
	dto := httptransport.SubmissionDTO{
		SubmissionID:     item.SubmissionID,
		CampaignID:       item.CampaignID,
		CreatorID:        item.CreatorID,
		SubmissionType:   string(item.Type),
		Status:           string(item.Status),
		DisplayStatus:    string(item.EffectiveDisplayStatus()),
		Content:          item.Content,
		ChangesRequested: item.ChangesRequested,
		IsReview:         item.IsReview,
		Version:          item.Version,
		Media:            make([]httptransport.MediaItemDTO, 0, len(item.Media)),
		Feedback:         make([]httptransport.FeedbackDTO, 0, len(item.Feedback)),
		CreatedAt:        item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        item.UpdatedAt.Format(time.RFC3339),
	}
	dto.DueDate = formatOptional(item.DueDate)
	dto.SubmissionDate = formatOptional(item.SubmissionDate)
	for _, kind := range entities.MediaKinds {
		for _, media := range item.MediaByKind(kind) {
			dto.Media = append(dto.Media, mapMedia(media))
		}
	}
	for _, feedback := range item.Feedback {
		dto.Feedback = append(dto.Feedback, httptransport.FeedbackDTO{
			FeedbackID:         feedback.FeedbackID,
			AuthorID:           feedback.AuthorID,
			AuthorRole:         string(feedback.AuthorRole),
			Type:               string(feedback.Type),
			Content:            feedback.Content,
			Reasons:            feedback.Reasons,
			VideosToUpdate:     feedback.VideosToUpdate,
			RawFootageToUpdate: feedback.RawFootageToUpdate,
			PhotosToUpdate:     feedback.PhotosToUpdate,
			CreatedAt:          feedback.CreatedAt.Format(time.RFC3339),
			Forwarded:          feedback.Forwarded,
			ForwardedAt:        formatOptional(feedback.ForwardedAt),
			OriginalContent:    feedback.OriginalContent,
			EditedAt:           formatOptional(feedback.EditedAt),
		})
	}
	return dto
}

func mapMedia(item entities.MediaItem) httptransport.MediaItemDTO {
	return httptransport.MediaItemDTO{
		MediaID:     item.MediaID,
		Kind:        string(item.Kind),
		URL:         item.URL,
		FileName:    item.FileName,
		Status:      string(item.Status),
		FeedbackIDs: item.FeedbackIDs,
		CreatedAt:   item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   item.UpdatedAt.Format(time.RFC3339),
	}
}

func mapReview(result commands.ReviewResult) httptransport.ReviewResponse {
	resp := httptransport.ReviewResponse{
		Submission: MapSubmission(result.Submission),
		NoOp:       result.NoOp,
	}
	if result.Unlocked != nil {
		unlocked := MapSubmission(*result.Unlocked)
		resp.Unlocked = &unlocked
	}
	return resp
}

func mapStatus(view queries.StatusView) httptransport.StatusResponse {
	counts := make(map[string]int, len(view.MediaCounts))
	for status, count := range view.MediaCounts {
		counts[string(status)] = count
	}
	return httptransport.StatusResponse{
		SubmissionID:     view.SubmissionID,
		CampaignID:       view.CampaignID,
		CreatorID:        view.CreatorID,
		SubmissionType:   string(view.Type),
		Status:           string(view.Status),
		DisplayStatus:    string(view.DisplayStatus),
		ChangesRequested: view.ChangesRequested,
		MediaCounts:      counts,
	}
}

func mapCreatorStatus(view queries.CreatorStatusView) httptransport.CreatorStatusResponse {
	stages := make([]httptransport.StatusResponse, 0, len(view.Stages))
	for _, stage := range view.Stages {
		stages = append(stages, mapStatus(stage))
	}
	return httptransport.CreatorStatusResponse{
		CampaignID:      view.CampaignID,
		CreatorID:       view.CreatorID,
		WorkflowVariant: string(view.Variant),
		Status:          string(view.Status),
		ActionableStage: string(view.ActionableStage),
		Stages:          stages,
	}
}

func formatOptional(value *time.Time) string {
	if value == nil {
		return ""
	}
	return value.UTC().Format(time.RFC3339)
}

func (h Handler) logDebug(message string, campaignID string, count int) {
	application.ResolveLogger(h.Logger).Debug(message,
		"event", "deliverable_transport_debug",
		"module", "campaign-editorial/deliverable-review-service",
		"layer", "transport",
		"campaign_id", strings.TrimSpace(campaignID),
		"count", count,
	)
}
