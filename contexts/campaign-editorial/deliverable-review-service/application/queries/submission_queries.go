package queries

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	application "deliverables/contexts/campaign-editorial/deliverable-review-service/application"
	"deliverables/contexts/campaign-editorial/deliverable-review-service/domain/entities"
	domainerrors "deliverables/contexts/campaign-editorial/deliverable-review-service/domain/errors"
	"deliverables/contexts/campaign-editorial/deliverable-review-service/domain/services"
	"deliverables/contexts/campaign-editorial/deliverable-review-service/ports"
)

type ListSubmissionsQuery struct {
	Actor      entities.Actor
	CampaignID string
	CreatorID  string
	Type       string
	Status     string
}

type QueryUseCase struct {
	Repository ports.Repository
	Campaigns  ports.CampaignDirectory
	Logger     *slog.Logger
}

// StatusView is what reviewers and creators see for one submission.
type StatusView struct {
	SubmissionID     string
	CampaignID       string
	CreatorID        string
	Type             entities.SubmissionType
	Status           entities.SubmissionStatus
	DisplayStatus    entities.SubmissionStatus
	ChangesRequested bool
	MediaCounts      map[entities.MediaStatus]int
}

type CreatorStatusView struct {
	CampaignID      string
	CreatorID       string
	Variant         entities.WorkflowVariant
	Status          entities.SubmissionStatus
	ActionableStage entities.SubmissionType
	Stages          []StatusView
}

func (uc QueryUseCase) GetSubmission(ctx context.Context, actor entities.Actor, submissionID string) (entities.Submission, error) {
	submission, _, err := uc.load(ctx, actor, submissionID)
	return submission, err
}

func (uc QueryUseCase) GetStatus(ctx context.Context, actor entities.Actor, submissionID string) (StatusView, error) {
	submission, campaign, err := uc.load(ctx, actor, submissionID)
	if err != nil {
		return StatusView{}, err
	}
	return statusView(submission, campaign), nil
}

func (uc QueryUseCase) load(
	ctx context.Context,
	actor entities.Actor,
	submissionID string,
) (entities.Submission, entities.Campaign, error) {
	submission, err := uc.Repository.GetSubmission(ctx, strings.TrimSpace(submissionID))
	if err != nil {
		return entities.Submission{}, entities.Campaign{}, err
	}
	campaign, err := uc.Campaigns.GetCampaign(ctx, submission.CampaignID)
	if err != nil {
		return entities.Submission{}, entities.Campaign{}, err
	}
	if err := services.AuthorizeView(actor, campaign, submission.CreatorID); err != nil {
		return entities.Submission{}, entities.Campaign{}, err
	}
	return submission, campaign, nil
}

func (uc QueryUseCase) ListSubmissions(ctx context.Context, query ListSubmissionsQuery) ([]entities.Submission, error) {
	filter := ports.SubmissionFilter{
		CampaignID: strings.TrimSpace(query.CampaignID),
		CreatorID:  strings.TrimSpace(query.CreatorID),
	}
	if query.Actor.Role == entities.ActorRoleCreator {
		if filter.CreatorID != "" && filter.CreatorID != query.Actor.UserID {
			return nil, domainerrors.ErrForbidden
		}
		filter.CreatorID = query.Actor.UserID
	}
	if !query.Actor.Valid() {
		return nil, domainerrors.ErrForbidden
	}
	if raw := strings.TrimSpace(query.Type); raw != "" {
		submissionType, ok := entities.ParseSubmissionType(raw)
		if !ok {
			return nil, domainerrors.ErrInvalidSubmissionInput
		}
		filter.Type = submissionType
	}
	if strings.TrimSpace(query.Status) != "" {
		filter.Status = entities.SubmissionStatus(strings.ToUpper(strings.TrimSpace(query.Status)))
	}
	if query.Actor.Role == entities.ActorRoleClient && filter.CampaignID != "" {
		campaign, err := uc.Campaigns.GetCampaign(ctx, filter.CampaignID)
		if err != nil {
			return nil, err
		}
		if err := services.AuthorizeView(query.Actor, campaign, filter.CreatorID); err != nil {
			return nil, err
		}
	}
	items, err := uc.Repository.ListSubmissions(ctx, filter)
	if err != nil {
		return nil, err
	}
	if query.Actor.Role != entities.ActorRoleClient {
		return items, nil
	}
	return uc.clientVisible(ctx, query.Actor, items)
}

// clientVisible drops submissions of campaigns the client does not review.
func (uc QueryUseCase) clientVisible(
	ctx context.Context,
	actor entities.Actor,
	items []entities.Submission,
) ([]entities.Submission, error) {
	campaigns := make(map[string]entities.Campaign)
	visible := make([]entities.Submission, 0, len(items))
	for _, item := range items {
		campaign, ok := campaigns[item.CampaignID]
		if !ok {
			loaded, err := uc.Campaigns.GetCampaign(ctx, item.CampaignID)
			if err != nil {
				return nil, err
			}
			campaign = loaded
			campaigns[item.CampaignID] = campaign
		}
		if services.AuthorizeView(actor, campaign, item.CreatorID) == nil {
			visible = append(visible, item)
		}
	}
	return visible, nil
}

// CreatorStatus aggregates one creator's stages into the single status shown
// on campaign dashboards.
func (uc QueryUseCase) CreatorStatus(
	ctx context.Context,
	actor entities.Actor,
	campaignID string,
	creatorID string,
) (CreatorStatusView, error) {
	creatorID = strings.TrimSpace(creatorID)
	if !actor.Valid() {
		return CreatorStatusView{}, domainerrors.ErrForbidden
	}
	campaign, err := uc.Campaigns.GetCampaign(ctx, strings.TrimSpace(campaignID))
	if err != nil {
		return CreatorStatusView{}, err
	}
	if err := services.AuthorizeView(actor, campaign, creatorID); err != nil {
		return CreatorStatusView{}, err
	}
	items, err := uc.Repository.ListSubmissions(ctx, ports.SubmissionFilter{
		CampaignID: campaign.CampaignID,
		CreatorID:  creatorID,
	})
	if err != nil {
		return CreatorStatusView{}, err
	}
	stages := services.CreatorStages{CreatorID: creatorID}
	for _, item := range items {
		stages.Set(item)
	}
	return creatorView(campaign, stages, items), nil
}

// CreatorStatuses lists every creator with work in the campaign. Creators
// cannot list their peers.
func (uc QueryUseCase) CreatorStatuses(
	ctx context.Context,
	actor entities.Actor,
	campaignID string,
) ([]CreatorStatusView, error) {
	logger := application.ResolveLogger(uc.Logger)
	if !actor.Valid() || actor.Role == entities.ActorRoleCreator {
		return nil, domainerrors.ErrForbidden
	}
	campaign, err := uc.Campaigns.GetCampaign(ctx, strings.TrimSpace(campaignID))
	if err != nil {
		return nil, err
	}
	if err := services.AuthorizeView(actor, campaign, ""); err != nil {
		return nil, err
	}
	items, err := uc.Repository.ListSubmissions(ctx, ports.SubmissionFilter{CampaignID: campaign.CampaignID})
	if err != nil {
		return nil, err
	}
	byCreator := make(map[string][]entities.Submission)
	for _, item := range items {
		byCreator[item.CreatorID] = append(byCreator[item.CreatorID], item)
	}
	grouped := services.GroupByCreator(items)
	views := make([]CreatorStatusView, 0, len(grouped))
	for _, stages := range grouped {
		views = append(views, creatorView(campaign, stages, byCreator[stages.CreatorID]))
	}
	logger.Debug("creator statuses aggregated",
		"event", "deliverable_creator_statuses_aggregated",
		"module", "campaign-editorial/deliverable-review-service",
		"layer", "application",
		"campaign_id", campaign.CampaignID,
		"creators", len(views),
	)
	return views, nil
}

// StatusCounts tallies creators per aggregated status.
func StatusCounts(views []CreatorStatusView) map[entities.SubmissionStatus]int {
	counts := make(map[entities.SubmissionStatus]int, len(views))
	for _, view := range views {
		counts[view.Status]++
	}
	return counts
}

func creatorView(
	campaign entities.Campaign,
	stages services.CreatorStages,
	items []entities.Submission,
) CreatorStatusView {
	sorted := append([]entities.Submission(nil), items...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Type.Order() < sorted[j].Type.Order()
	})
	views := make([]StatusView, 0, len(sorted))
	for _, item := range sorted {
		views = append(views, statusView(item, campaign))
	}
	return CreatorStatusView{
		CampaignID:      campaign.CampaignID,
		CreatorID:       stages.CreatorID,
		Variant:         campaign.Variant(),
		Status:          services.AggregateCreatorStatus(stages, campaign.Variant()),
		ActionableStage: services.ActionableStage(stages),
		Stages:          views,
	}
}

func statusView(submission entities.Submission, campaign entities.Campaign) StatusView {
	counts := make(map[entities.MediaStatus]int)
	for _, item := range services.InScopeMedia(submission, campaign) {
		counts[item.Status]++
	}
	return StatusView{
		SubmissionID:     submission.SubmissionID,
		CampaignID:       submission.CampaignID,
		CreatorID:        submission.CreatorID,
		Type:             submission.Type,
		Status:           submission.Status,
		DisplayStatus:    submission.EffectiveDisplayStatus(),
		ChangesRequested: submission.ChangesRequested,
		MediaCounts:      counts,
	}
}
