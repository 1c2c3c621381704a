package dto

// DraftFollowUpRequest represents the request to draft a follow-up message
type DraftFollowUpRequest struct {
	CustomerID           uint   `json:"-"`
	ContactUUID          string `json:"contact_uuid" validate:"required,uuid4"`
	OriginalCampaignUUID string `json:"original_campaign_uuid" validate:"required,uuid4"`
	Outcome              string `json:"outcome" validate:"required,oneof=replied meeting_booked opportunity_created no_response unsubscribed"`
	OriginalMessage      string `json:"original_message" validate:"required"`
}

// DraftFollowUpResponse represents the generated follow-up draft
type DraftFollowUpResponse struct {
	Draft string `json:"draft"`
}

// SendFollowUpRequest represents the request to send a follow-up email
type SendFollowUpRequest struct {
	CustomerID           uint   `json:"-"`
	ContactUUID          string `json:"contact_uuid" validate:"required,uuid4"`
	OriginalCampaignUUID string `json:"original_campaign_uuid" validate:"required,uuid4"`
	Subject              string `json:"subject" validate:"required,max=300"`
	Body                 string `json:"body" validate:"required,max=10000"`
	ToEmail              string `json:"to_email" validate:"required,email"`
	ToName               string `json:"to_name,omitempty" validate:"omitempty,max=255"`
}

// SendFollowUpResponse represents the response after sending a follow-up
type SendFollowUpResponse struct {
	Message           string `json:"message"`
	CampaignUUID      string `json:"campaign_uuid"`
	ProviderMessageID string `json:"provider_message_id"`
	SentAt            string `json:"sent_at"`
}
