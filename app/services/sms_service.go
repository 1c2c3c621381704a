package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/salesloop/outreach/config"
	"github.com/salesloop/outreach/utils"
)

// SMSService dispatches SMS messages through the provider API
type SMSService interface {
	SendSMS(ctx context.Context, recipient, message string, customerID *int64) (string, error)
}

// SMSServiceImpl implements SMSService
type SMSServiceImpl struct {
	config *config.SMSConfig
	client *http.Client
}

// SMSRequest represents the request payload for SMS API
type SMSRequest struct {
	SrcNum         string `json:"srcNum"`               // Format: 98**********
	Recipient      string `json:"recipient"`            // Format: 98**********
	Body           string `json:"body"`                 // Message content
	CustomerID     *int64 `json:"customerId,omitempty"` // Optional customer ID
	RetryCount     int    `json:"retryCount"`           // Number of retries
	Type           int    `json:"type"`                 // Always 1
	ValidityPeriod int    `json:"validityPeriod"`       // Validity in seconds
}

// SMSResponse represents individual message result from SMS API
type SMSResponse struct {
	MessageID  int64  `json:"messageId"`
	SrcNum     string `json:"srcNum"`
	Recipient  string `json:"recipient"`
	CustomerID *int64 `json:"customerId,omitempty"`
	Status     string `json:"status"`
	StatusCode int    `json:"statusCode"`
}

// NewSMSService creates a new SMS service instance
func NewSMSService(cfg *config.SMSConfig) SMSService {
	return &SMSServiceImpl{
		config: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// SendSMS sends an SMS message and returns the provider message ID
func (s *SMSServiceImpl) SendSMS(ctx context.Context, recipient, message string, customerID *int64) (string, error) {
	request := []SMSRequest{{
		SrcNum:         s.config.SourceNumber,
		Recipient:      recipient,
		Body:           message,
		CustomerID:     customerID,
		RetryCount:     s.config.RetryCount,
		Type:           1,
		ValidityPeriod: s.config.ValidityPeriod,
	}}

	requestBody, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal SMS request: %w", err)
	}

	url := fmt.Sprintf("https://%s/api/v3.0.1/send", s.config.ProviderDomain)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send SMS request: %w", err)
	}
	defer resp.Body.Close()

	var results []SMSResponse
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return "", fmt.Errorf("failed to decode SMS response: %w", err)
	}
	if len(results) == 0 {
		return "", fmt.Errorf("empty SMS response for %s", recipient)
	}
	r := results[0]
	if r.StatusCode != 200 || r.Status != "ACCEPTED" {
		return "", fmt.Errorf("SMS delivery failed for %s: %s (%d): %w", r.Recipient, r.Status, r.StatusCode, ErrDeliveryRejected)
	}
	return strconv.FormatInt(r.MessageID, 10), nil
}

// MockSMSService implements SMSService for testing
type MockSMSService struct {
	SentMessages []MockSMSMessage

	// FailFor makes SendSMS fail for the listed recipients
	FailFor map[string]error
}

// MockSMSMessage represents a mock SMS message
type MockSMSMessage struct {
	Recipient  string
	Message    string
	CustomerID *int64
	SentAt     time.Time
}

// NewMockSMSService creates a new mock SMS service
func NewMockSMSService() *MockSMSService {
	return &MockSMSService{
		SentMessages: make([]MockSMSMessage, 0),
	}
}

// SendSMS records a mock SMS message
func (m *MockSMSService) SendSMS(ctx context.Context, recipient, message string, customerID *int64) (string, error) {
	if err, ok := m.FailFor[recipient]; ok {
		return "", err
	}
	m.SentMessages = append(m.SentMessages, MockSMSMessage{
		Recipient:  recipient,
		Message:    message,
		CustomerID: customerID,
		SentAt:     utils.UTCNow(),
	})
	return fmt.Sprintf("mock-sms-%d", len(m.SentMessages)), nil
}

// ClearSentMessages clears the sent messages list
func (m *MockSMSService) ClearSentMessages() {
	m.SentMessages = make([]MockSMSMessage, 0)
}
