package dto

// GenerateBatchRequest represents the request to generate drafts for a set of contacts
type GenerateBatchRequest struct {
	CustomerID   uint     `json:"-"`
	ContactUUIDs []string `json:"contact_uuids" validate:"required,min=1,dive,uuid4"`
	Intent       string   `json:"intent" validate:"required"`
	TextType     string   `json:"text_type" validate:"required,oneof=email sms"`
}

// BatchDraft represents one generated draft in a batch
type BatchDraft struct {
	ContactUUID string `json:"contact_uuid"`
	Name        string `json:"name"`
	Destination string `json:"destination"`
	Draft       string `json:"draft"`
}

// GenerateBatchResponse represents the response to a batch draft generation
type GenerateBatchResponse struct {
	Drafts  []BatchDraft `json:"drafts"`
	Skipped []string     `json:"skipped,omitempty"`
}
