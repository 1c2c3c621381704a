package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/salesloop/outreach/config"
	"github.com/salesloop/outreach/utils"
)

// ErrDeliveryRejected marks a provider response that refused the message
// outright. A rejection is permanent, unlike a transport or timeout failure,
// so callers must not retry the same payload.
var ErrDeliveryRejected = errors.New("delivery rejected by provider")

// EmailService dispatches email messages through the provider API
type EmailService interface {
	SendEmail(ctx context.Context, toEmail, toName, subject, body string) (string, error)
}

// EmailServiceImpl implements EmailService
type EmailServiceImpl struct {
	config *config.EmailConfig
	client *http.Client
}

// EmailRequest represents the request payload for the email API
type EmailRequest struct {
	FromEmail string `json:"fromEmail"`
	FromName  string `json:"fromName"`
	ToEmail   string `json:"toEmail"`
	ToName    string `json:"toName,omitempty"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	Retries   int    `json:"retries"`
}

// EmailResponse represents the result from the email API
type EmailResponse struct {
	MessageID  string `json:"messageId"`
	Status     string `json:"status"`
	StatusCode int    `json:"statusCode"`
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg *config.EmailConfig) EmailService {
	return &EmailServiceImpl{
		config: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// SendEmail sends an email and returns the provider message ID
func (s *EmailServiceImpl) SendEmail(ctx context.Context, toEmail, toName, subject, body string) (string, error) {
	request := EmailRequest{
		FromEmail: s.config.FromEmail,
		FromName:  s.config.FromName,
		ToEmail:   toEmail,
		ToName:    toName,
		Subject:   subject,
		Body:      body,
		Retries:   s.config.RetryAttempts,
	}

	requestBody, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal email request: %w", err)
	}

	url := fmt.Sprintf("https://%s/api/v1/send", s.config.ProviderDomain)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send email request: %w", err)
	}
	defer resp.Body.Close()

	var result EmailResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode email response: %w", err)
	}
	if result.StatusCode != 200 || result.Status != "ACCEPTED" {
		return "", fmt.Errorf("email delivery failed for %s: %s (%d): %w", toEmail, result.Status, result.StatusCode, ErrDeliveryRejected)
	}
	return result.MessageID, nil
}

// MockEmailService implements EmailService for testing
type MockEmailService struct {
	SentMessages []MockEmailMessage

	// FailFor makes SendEmail fail for the listed addresses
	FailFor map[string]error
}

// MockEmailMessage represents a mock email message
type MockEmailMessage struct {
	ToEmail string
	ToName  string
	Subject string
	Body    string
	SentAt  time.Time
}

// NewMockEmailService creates a new mock email service
func NewMockEmailService() *MockEmailService {
	return &MockEmailService{
		SentMessages: make([]MockEmailMessage, 0),
	}
}

// SendEmail records a mock email message
func (m *MockEmailService) SendEmail(ctx context.Context, toEmail, toName, subject, body string) (string, error) {
	if err, ok := m.FailFor[toEmail]; ok {
		return "", err
	}
	m.SentMessages = append(m.SentMessages, MockEmailMessage{
		ToEmail: toEmail,
		ToName:  toName,
		Subject: subject,
		Body:    body,
		SentAt:  utils.UTCNow(),
	})
	return fmt.Sprintf("mock-email-%d", len(m.SentMessages)), nil
}

// ClearSentMessages clears the sent messages list
func (m *MockEmailService) ClearSentMessages() {
	m.SentMessages = make([]MockEmailMessage, 0)
}
