package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"deliverables/contexts/campaign-editorial/deliverable-review-service/domain/entities"
	domainerrors "deliverables/contexts/campaign-editorial/deliverable-review-service/domain/errors"
	"deliverables/contexts/campaign-editorial/deliverable-review-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

// Repository stores submissions with their media and feedback rows. Every
// write also commits its outbox rows in the same transaction.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Migrate creates or updates the tables this adapter owns.
func (r *Repository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(
		&campaignModel{},
		&submissionModel{},
		&mediaModel{},
		&feedbackModel{},
		&outboxModel{},
	)
}

func (r *Repository) PutCampaign(ctx context.Context, campaign entities.Campaign) error {
	if !campaign.Validate() {
		return domainerrors.ErrInvalidSubmissionInput
	}
	row := campaignModel{
		CampaignID:        strings.TrimSpace(campaign.CampaignID),
		Name:              strings.TrimSpace(campaign.Name),
		Origin:            string(campaign.Origin),
		RawFootageEnabled: campaign.RawFootageEnabled,
		PhotosEnabled:     campaign.PhotosEnabled,
		UpdatedAt:         time.Now().UTC(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "campaign_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "origin", "raw_footage_enabled", "photos_enabled", "updated_at"}),
		}).
		Create(&row).
		Error
}

func (r *Repository) GetCampaign(ctx context.Context, campaignID string) (entities.Campaign, error) {
	var row campaignModel
	if err := r.db.WithContext(ctx).
		Where("campaign_id = ?", strings.TrimSpace(campaignID)).
		First(&row).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Campaign{}, domainerrors.ErrCampaignNotFound
		}
		return entities.Campaign{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) CreateSubmission(ctx context.Context, submission entities.Submission, events []ports.EventEnvelope) error {
	if submission.Version == 0 {
		submission.Version = 1
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := submissionModelFromEntity(submission)
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrDuplicateSubmission
			}
			return err
		}
		if err := writeChildren(tx, submission); err != nil {
			return err
		}
		return appendOutbox(tx, events)
	})
}

func (r *Repository) GetSubmission(ctx context.Context, submissionID string) (entities.Submission, error) {
	var row submissionModel
	err := r.db.WithContext(ctx).
		Where("submission_id = ?", strings.TrimSpace(submissionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Submission{}, domainerrors.ErrSubmissionNotFound
		}
		return entities.Submission{}, err
	}
	return r.hydrate(ctx, row)
}

func (r *Repository) FindSubmission(
	ctx context.Context,
	campaignID string,
	creatorID string,
	submissionType entities.SubmissionType,
) (entities.Submission, error) {
	var row submissionModel
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", strings.TrimSpace(campaignID)).
		Where("creator_id = ?", strings.TrimSpace(creatorID)).
		Where("submission_type = ?", string(submissionType)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Submission{}, domainerrors.ErrSubmissionNotFound
		}
		return entities.Submission{}, err
	}
	return r.hydrate(ctx, row)
}

func (r *Repository) ListSubmissions(ctx context.Context, filter ports.SubmissionFilter) ([]entities.Submission, error) {
	tx := r.db.WithContext(ctx).Model(&submissionModel{})
	if strings.TrimSpace(filter.CampaignID) != "" {
		tx = tx.Where("campaign_id = ?", strings.TrimSpace(filter.CampaignID))
	}
	if strings.TrimSpace(filter.CreatorID) != "" {
		tx = tx.Where("creator_id = ?", strings.TrimSpace(filter.CreatorID))
	}
	if filter.Type != "" {
		tx = tx.Where("submission_type = ?", string(filter.Type))
	}
	if filter.Status != "" {
		tx = tx.Where("status = ? OR display_status = ?", string(filter.Status), string(filter.Status))
	}

	var rows []submissionModel
	if err := tx.Order("creator_id ASC").Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []entities.Submission{}, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.SubmissionID)
	}
	var media []mediaModel
	if err := r.db.WithContext(ctx).Where("submission_id IN ?", ids).Order("created_at ASC").Find(&media).Error; err != nil {
		return nil, err
	}
	var feedback []feedbackModel
	if err := r.db.WithContext(ctx).Where("submission_id IN ?", ids).Order("created_at ASC").Find(&feedback).Error; err != nil {
		return nil, err
	}
	mediaBySubmission := make(map[string][]mediaModel, len(rows))
	for _, item := range media {
		mediaBySubmission[item.SubmissionID] = append(mediaBySubmission[item.SubmissionID], item)
	}
	feedbackBySubmission := make(map[string][]feedbackModel, len(rows))
	for _, item := range feedback {
		feedbackBySubmission[item.SubmissionID] = append(feedbackBySubmission[item.SubmissionID], item)
	}

	items := make([]entities.Submission, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity(mediaBySubmission[row.SubmissionID], feedbackBySubmission[row.SubmissionID]))
	}
	return items, nil
}

// SaveSubmission bumps the version only when the caller loaded the current one.
func (r *Repository) SaveSubmission(
	ctx context.Context,
	submission entities.Submission,
	events []ports.EventEnvelope,
) (entities.Submission, error) {
	saved := submission.Clone()
	saved.Version = submission.Version + 1
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := submissionModelFromEntity(saved)
		result := tx.Model(&submissionModel{}).
			Where("submission_id = ?", strings.TrimSpace(submission.SubmissionID)).
			Where("version = ?", submission.Version).
			Updates(map[string]any{
				"status":            row.Status,
				"display_status":    row.DisplayStatus,
				"content":           row.Content,
				"due_date":          row.DueDate,
				"submission_date":   row.SubmissionDate,
				"is_review":         row.IsReview,
				"changes_requested": row.ChangesRequested,
				"version":           row.Version,
				"updated_at":        row.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&submissionModel{}).
				Where("submission_id = ?", strings.TrimSpace(submission.SubmissionID)).
				Count(&count).
				Error; err != nil {
				return err
			}
			if count == 0 {
				return domainerrors.ErrSubmissionNotFound
			}
			return domainerrors.ErrVersionConflict
		}
		if err := writeChildren(tx, saved); err != nil {
			return err
		}
		return appendOutbox(tx, events)
	})
	if err != nil {
		r.logger.Debug("deliverable submission save failed",
			"event", "deliverable_submission_save_failed",
			"module", "campaign-editorial/deliverable-review-service",
			"layer", "adapter",
			"submission_id", submission.SubmissionID,
			"version", submission.Version,
			"error", err.Error(),
		)
		return entities.Submission{}, err
	}
	return saved, nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      append([]byte(nil), row.Payload...),
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrInvalidSubmissionInput
	}
	return nil
}

func (r *Repository) hydrate(ctx context.Context, row submissionModel) (entities.Submission, error) {
	var media []mediaModel
	if err := r.db.WithContext(ctx).
		Where("submission_id = ?", row.SubmissionID).
		Order("created_at ASC").
		Find(&media).
		Error; err != nil {
		return entities.Submission{}, err
	}
	var feedback []feedbackModel
	if err := r.db.WithContext(ctx).
		Where("submission_id = ?", row.SubmissionID).
		Order("created_at ASC").
		Find(&feedback).
		Error; err != nil {
		return entities.Submission{}, err
	}
	return row.toEntity(media, feedback), nil
}

// writeChildren upserts media and feedback. Neither is ever deleted.
func writeChildren(tx *gorm.DB, submission entities.Submission) error {
	if media := mediaModelsFromEntity(submission); len(media) > 0 {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "media_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"url", "file_name", "status", "feedback_ids", "updated_at"}),
		}).Create(&media).Error; err != nil {
			return err
		}
	}
	if feedback := feedbackModelsFromEntity(submission); len(feedback) > 0 {
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "feedback_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"content", "forwarded", "forwarded_at", "forwarded_by_id", "original_content", "edited_at",
			}),
		}).Create(&feedback).Error; err != nil {
			return err
		}
	}
	return nil
}

func appendOutbox(tx *gorm.DB, events []ports.EventEnvelope) error {
	for _, envelope := range events {
		payload, err := json.Marshal(envelope)
		if err != nil {
			return err
		}
		row := outboxModel{
			OutboxID:     strings.TrimSpace(envelope.EventID),
			EventType:    strings.TrimSpace(envelope.EventType),
			PartitionKey: strings.TrimSpace(envelope.PartitionKey),
			Payload:      payload,
			Status:       outboxStatusPending,
			CreatedAt:    envelope.OccurredAt.UTC(),
		}
		if row.CreatedAt.IsZero() {
			row.CreatedAt = time.Now().UTC()
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "outbox_id"}},
			DoNothing: true,
		}).Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
