package dto

// SetOutcomeRequest represents the request to classify a send entry
type SetOutcomeRequest struct {
	CustomerID   uint   `json:"-"`
	CampaignUUID string `json:"-"`
	EntryIndex   int    `json:"-"`
	Outcome      string `json:"outcome" validate:"required,oneof=replied meeting_booked opportunity_created no_response unsubscribed"`
}

// SetOutcomeResponse represents the response after classifying a send entry
type SetOutcomeResponse struct {
	Message string        `json:"message"`
	Record  SendRecordDTO `json:"record"`
}
