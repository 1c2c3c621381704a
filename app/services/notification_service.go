package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// NotificationService publishes domain events for downstream consumers
type NotificationService interface {
	PublishOutcomeEvent(ctx context.Context, event OutcomeEvent) error
}

// OutcomeEvent describes an outcome classification on a send record
type OutcomeEvent struct {
	CampaignUUID string    `json:"campaign_uuid"`
	EntryIndex   int       `json:"entry_index"`
	Outcome      string    `json:"outcome"`
	Terminal     bool      `json:"terminal"`
	MarkedAt     time.Time `json:"marked_at"`
}

// NotificationServiceImpl implements NotificationService on top of redis pub/sub
type NotificationServiceImpl struct {
	redisClient redis.UniversalClient
	channel     string
}

// NewNotificationService creates a new notification service. The channel name
// is prefixed so multiple deployments can share one redis instance.
func NewNotificationService(redisClient redis.UniversalClient, prefix string) NotificationService {
	return &NotificationServiceImpl{
		redisClient: redisClient,
		channel:     prefix + "events:outcomes",
	}
}

// PublishOutcomeEvent publishes an outcome event. Publishing is best effort
// for callers; they decide whether a publish failure is fatal.
func (s *NotificationServiceImpl) PublishOutcomeEvent(ctx context.Context, event OutcomeEvent) error {
	if s.redisClient == nil {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal outcome event: %w", err)
	}

	if err := s.redisClient.Publish(ctx, s.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish outcome event: %w", err)
	}
	return nil
}

// MockNotificationService implements NotificationService for testing
type MockNotificationService struct {
	Events []OutcomeEvent
}

// NewMockNotificationService creates a new mock notification service
func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{
		Events: make([]OutcomeEvent, 0),
	}
}

func (m *MockNotificationService) PublishOutcomeEvent(ctx context.Context, event OutcomeEvent) error {
	m.Events = append(m.Events, event)
	return nil
}
