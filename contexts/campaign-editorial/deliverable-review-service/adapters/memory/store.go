package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"deliverables/contexts/campaign-editorial/deliverable-review-service/domain/entities"
	domainerrors "deliverables/contexts/campaign-editorial/deliverable-review-service/domain/errors"
	"deliverables/contexts/campaign-editorial/deliverable-review-service/ports"

	"github.com/google/uuid"
)

type outboxRow struct {
	message     ports.OutboxMessage
	publishedAt *time.Time
}

type registration struct {
	expiresAt time.Time
}

// Store is the in-memory adapter used by tests and the local API. It keeps
// submissions, campaigns, the outbox and upload progress behind one mutex and
// hands out per-key locks for submission mutations.
type Store struct {
	mu sync.RWMutex

	submissions   map[string]entities.Submission
	campaigns     map[string]entities.Campaign
	outbox        []outboxRow
	progress      map[string]ports.UploadProgress
	registrations map[string]registration

	locksMu sync.Mutex
	locks   map[string]chan struct{}
}

func NewStore(campaigns []entities.Campaign, seed []entities.Submission) *Store {
	store := &Store{
		submissions:   make(map[string]entities.Submission, len(seed)),
		campaigns:     make(map[string]entities.Campaign, len(campaigns)),
		progress:      make(map[string]ports.UploadProgress),
		registrations: make(map[string]registration),
		locks:         make(map[string]chan struct{}),
	}
	for _, campaign := range campaigns {
		store.campaigns[campaign.CampaignID] = campaign
	}
	for _, item := range seed {
		if item.Version == 0 {
			item.Version = 1
		}
		store.submissions[item.SubmissionID] = item.Clone()
	}
	return store
}

func (s *Store) PutCampaign(_ context.Context, campaign entities.Campaign) error {
	if !campaign.Validate() {
		return domainerrors.ErrInvalidSubmissionInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.campaigns[campaign.CampaignID] = campaign
	return nil
}

func (s *Store) GetCampaign(_ context.Context, campaignID string) (entities.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	campaign, exists := s.campaigns[strings.TrimSpace(campaignID)]
	if !exists {
		return entities.Campaign{}, domainerrors.ErrCampaignNotFound
	}
	return campaign, nil
}

func (s *Store) CreateSubmission(_ context.Context, submission entities.Submission, events []ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.submissions {
		if existing.CampaignID == submission.CampaignID &&
			existing.CreatorID == submission.CreatorID &&
			existing.Type == submission.Type {
			return domainerrors.ErrDuplicateSubmission
		}
	}
	if submission.Version == 0 {
		submission.Version = 1
	}
	rows, err := outboxRows(events)
	if err != nil {
		return err
	}
	s.submissions[submission.SubmissionID] = submission.Clone()
	s.outbox = append(s.outbox, rows...)
	return nil
}

func (s *Store) GetSubmission(_ context.Context, submissionID string) (entities.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.submissions[strings.TrimSpace(submissionID)]
	if !exists {
		return entities.Submission{}, domainerrors.ErrSubmissionNotFound
	}
	return item.Clone(), nil
}

func (s *Store) FindSubmission(
	_ context.Context,
	campaignID string,
	creatorID string,
	submissionType entities.SubmissionType,
) (entities.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.submissions {
		if item.CampaignID == strings.TrimSpace(campaignID) &&
			item.CreatorID == strings.TrimSpace(creatorID) &&
			item.Type == submissionType {
			return item.Clone(), nil
		}
	}
	return entities.Submission{}, domainerrors.ErrSubmissionNotFound
}

func (s *Store) ListSubmissions(_ context.Context, filter ports.SubmissionFilter) ([]entities.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Submission, 0, len(s.submissions))
	for _, item := range s.submissions {
		if strings.TrimSpace(filter.CreatorID) != "" && item.CreatorID != strings.TrimSpace(filter.CreatorID) {
			continue
		}
		if strings.TrimSpace(filter.CampaignID) != "" && item.CampaignID != strings.TrimSpace(filter.CampaignID) {
			continue
		}
		if filter.Type != "" && item.Type != filter.Type {
			continue
		}
		if filter.Status != "" && item.Status != filter.Status && item.DisplayStatus != filter.Status {
			continue
		}
		items = append(items, item.Clone())
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatorID != items[j].CreatorID {
			return items[i].CreatorID < items[j].CreatorID
		}
		return items[i].Type.Order() < items[j].Type.Order()
	})
	return items, nil
}

func (s *Store) SaveSubmission(
	_ context.Context,
	submission entities.Submission,
	events []ports.EventEnvelope,
) (entities.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.submissions[submission.SubmissionID]
	if !exists {
		return entities.Submission{}, domainerrors.ErrSubmissionNotFound
	}
	if stored.Version != submission.Version {
		return entities.Submission{}, domainerrors.ErrVersionConflict
	}
	rows, err := outboxRows(events)
	if err != nil {
		return entities.Submission{}, err
	}
	saved := submission.Clone()
	saved.Version = stored.Version + 1
	s.submissions[saved.SubmissionID] = saved
	s.outbox = append(s.outbox, rows...)
	return saved.Clone(), nil
}

// Lock hands out one holder per key; waiters give up when ctx ends.
func (s *Store) Lock(ctx context.Context, key string) (func(), error) {
	s.locksMu.Lock()
	slot, exists := s.locks[key]
	if !exists {
		slot = make(chan struct{}, 1)
		s.locks[key] = slot
	}
	s.locksMu.Unlock()

	select {
	case slot <- struct{}{}:
	case <-ctx.Done():
		return nil, domainerrors.ErrLockNotAcquired
	}
	var once sync.Once
	return func() {
		once.Do(func() { <-slot })
	}, nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.OutboxMessage, 0)
	for _, row := range s.outbox {
		if row.publishedAt != nil {
			continue
		}
		items = append(items, row.message)
		if limit > 0 && len(items) >= limit {
			break
		}
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.outbox {
		if s.outbox[i].message.OutboxID == outboxID {
			at := publishedAt.UTC()
			s.outbox[i].publishedAt = &at
			return nil
		}
	}
	return nil
}

// OutboxEventTypes lists every event type written so far, in commit order.
func (s *Store) OutboxEventTypes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	types := make([]string, 0, len(s.outbox))
	for _, row := range s.outbox {
		types = append(types, row.message.EventType)
	}
	return types
}

func (s *Store) SaveProgress(_ context.Context, progress ports.UploadProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.progress[progress.FileName]
	if exists && existing.Percent > progress.Percent {
		progress.Percent = existing.Percent
	}
	s.progress[progress.FileName] = progress
	return nil
}

func (s *Store) GetProgress(_ context.Context, fileName string) (ports.UploadProgress, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	progress, exists := s.progress[strings.TrimSpace(fileName)]
	return progress, exists, nil
}

func (s *Store) MarkRegistered(_ context.Context, fileName string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if existing, exists := s.registrations[fileName]; exists && existing.expiresAt.After(now) {
		return false, nil
	}
	s.registrations[fileName] = registration{expiresAt: now.Add(ttl)}
	return true, nil
}

func (s *Store) ReleaseRegistration(_ context.Context, fileName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.registrations, fileName)
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func outboxRows(events []ports.EventEnvelope) ([]outboxRow, error) {
	rows := make([]outboxRow, 0, len(events))
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			return nil, err
		}
		rows = append(rows, outboxRow{message: ports.OutboxMessage{
			OutboxID:     event.EventID,
			EventType:    event.EventType,
			PartitionKey: event.PartitionKey,
			Payload:      payload,
			CreatedAt:    event.OccurredAt,
		}})
	}
	return rows, nil
}
