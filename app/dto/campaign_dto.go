package dto

import (
	"time"
)

// CampaignEntryRequest represents one contact plus its message content in a
// campaign creation request
type CampaignEntryRequest struct {
	ContactUUID string `json:"contact_uuid" validate:"required,uuid4"`
	Subject     string `json:"subject,omitempty" validate:"omitempty,max=300"`
	Body        string `json:"body" validate:"required,max=10000"`
}

// CreateCampaignRequest represents the request to create a new campaign.
// The channel keeps its historical wire name "weapon".
type CreateCampaignRequest struct {
	CustomerID uint                   `json:"-"`
	Name       string                 `json:"name" validate:"required,min=1,max=255"`
	Channel    string                 `json:"weapon" validate:"required,oneof=email sms"`
	Intent     string                 `json:"intent" validate:"required,oneof=cold warm hot followup"`
	Entries    []CampaignEntryRequest `json:"entries" validate:"required,min=1,dive"`
}

// CampaignEntryResult represents the outcome of dispatching one entry
type CampaignEntryResult struct {
	EntryIndex        int    `json:"entry_index"`
	ContactUUID       string `json:"contact_uuid"`
	Destination       string `json:"destination"`
	ProviderMessageID string `json:"provider_message_id"`
	SentAt            string `json:"sent_at"`
}

// CreateCampaignResponse represents the response to create a new campaign
type CreateCampaignResponse struct {
	Message   string                `json:"message"`
	UUID      string                `json:"uuid"`
	Channel   string                `json:"weapon"`
	Entries   []CampaignEntryResult `json:"entries"`
	Skipped   []string              `json:"skipped,omitempty"`
	Failed    []string              `json:"failed,omitempty"`
	CreatedAt string                `json:"created_at"`
}

// GetCampaignRequest represents the request to get an existing campaign
type GetCampaignRequest struct {
	UUID       string `json:"-"`
	CustomerID uint   `json:"-"`
}

// SendRecordDTO represents one send entry of a campaign
type SendRecordDTO struct {
	EntryIndex        int        `json:"entry_index"`
	Name              string     `json:"name"`
	Destination       string     `json:"destination"`
	Subject           string     `json:"subject,omitempty"`
	Body              string     `json:"body"`
	Status            string     `json:"status"`
	SentAt            time.Time  `json:"sent_at"`
	ProviderMessageID string     `json:"provider_message_id"`
	Outcome           *string    `json:"outcome,omitempty"`
	OutcomeMarkedAt   *time.Time `json:"outcome_marked_at,omitempty"`
	OutcomeLocked     bool       `json:"outcome_locked"`
	OutcomeLockedAt   *time.Time `json:"outcome_locked_at,omitempty"`
}

// GetCampaignResponse represents a campaign with its send entries
type GetCampaignResponse struct {
	UUID               string          `json:"uuid"`
	Name               string          `json:"name"`
	Channel            string          `json:"weapon"`
	Intent             string          `json:"intent"`
	ParentCampaignUUID *string         `json:"parent_campaign_uuid,omitempty"`
	Entries            []SendRecordDTO `json:"entries"`
	CreatedAt          time.Time       `json:"created_at"`
}

// ListCampaignsRequest represents the request to list campaigns
type ListCampaignsRequest struct {
	CustomerID uint `json:"-"`
	Page       int  `json:"page" validate:"omitempty,min=1"`
	PageSize   int  `json:"page_size" validate:"omitempty,min=1,max=100"`
}

// CampaignSummaryDTO represents a campaign in list responses
type CampaignSummaryDTO struct {
	UUID       string    `json:"uuid"`
	Name       string    `json:"name"`
	Channel    string    `json:"weapon"`
	Intent     string    `json:"intent"`
	EntryCount int64     `json:"entry_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// ListCampaignsResponse represents the response to list campaigns
type ListCampaignsResponse struct {
	Campaigns  []CampaignSummaryDTO `json:"campaigns"`
	Pagination PaginationInfo       `json:"pagination"`
}

// ExportCampaignReportRequest represents the request to export a campaign report
type ExportCampaignReportRequest struct {
	UUID       string `json:"-"`
	CustomerID uint   `json:"-"`
}

// ExportCampaignReportResponse carries the generated xlsx report
type ExportCampaignReportResponse struct {
	FileName string `json:"file_name"`
	Content  []byte `json:"-"`
}
