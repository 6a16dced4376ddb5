package redisadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"deliverables/contexts/campaign-editorial/deliverable-review-service/domain/entities"
	"deliverables/contexts/campaign-editorial/deliverable-review-service/ports"

	"github.com/redis/go-redis/v9"
)

const (
	progressKeyPrefix     = "deliverable:upload:progress:"
	registeredKeyPrefix   = "deliverable:upload:registered:"
	defaultProgressExpiry = 24 * time.Hour
)

type progressRecord struct {
	FileName        string    `json:"file_name"`
	SubmissionID    string    `json:"submission_id"`
	MediaKind       string    `json:"media_kind"`
	URL             string    `json:"url"`
	ReplacesMediaID string    `json:"replaces_media_id,omitempty"`
	UploaderID      string    `json:"uploader_id"`
	Percent         int       `json:"percent"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// UploadProgressStore keeps the latest upload percentage per file name.
type UploadProgressStore struct {
	client *redis.Client
	expiry time.Duration
}

func NewUploadProgressStore(client *redis.Client, expiry time.Duration) *UploadProgressStore {
	if expiry <= 0 {
		expiry = defaultProgressExpiry
	}
	return &UploadProgressStore{client: client, expiry: expiry}
}

func (s *UploadProgressStore) SaveProgress(ctx context.Context, progress ports.UploadProgress) error {
	existing, found, err := s.GetProgress(ctx, progress.FileName)
	if err != nil {
		return err
	}
	if found && existing.Percent > progress.Percent {
		progress.Percent = existing.Percent
	}
	raw, err := json.Marshal(progressRecord{
		FileName:        progress.FileName,
		SubmissionID:    progress.SubmissionID,
		MediaKind:       string(progress.Kind),
		URL:             progress.URL,
		ReplacesMediaID: progress.ReplacesMediaID,
		UploaderID:      progress.UploaderID,
		Percent:         progress.Percent,
		UpdatedAt:       progress.UpdatedAt.UTC(),
	})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, progressKeyPrefix+strings.TrimSpace(progress.FileName), raw, s.expiry).Err()
}

func (s *UploadProgressStore) GetProgress(ctx context.Context, fileName string) (ports.UploadProgress, bool, error) {
	raw, err := s.client.Get(ctx, progressKeyPrefix+strings.TrimSpace(fileName)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ports.UploadProgress{}, false, nil
	}
	if err != nil {
		return ports.UploadProgress{}, false, err
	}
	var record progressRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return ports.UploadProgress{}, false, err
	}
	return ports.UploadProgress{
		FileName:        record.FileName,
		SubmissionID:    record.SubmissionID,
		Kind:            entities.MediaKind(record.MediaKind),
		URL:             record.URL,
		ReplacesMediaID: record.ReplacesMediaID,
		UploaderID:      record.UploaderID,
		Percent:         record.Percent,
		UpdatedAt:       record.UpdatedAt,
	}, true, nil
}

func (s *UploadProgressStore) MarkRegistered(ctx context.Context, fileName string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = s.expiry
	}
	return s.client.SetNX(ctx, registeredKeyPrefix+strings.TrimSpace(fileName), time.Now().UTC().Format(time.RFC3339), ttl).Result()
}

func (s *UploadProgressStore) ReleaseRegistration(ctx context.Context, fileName string) error {
	return s.client.Del(ctx, registeredKeyPrefix+strings.TrimSpace(fileName)).Err()
}
