package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// SendStatus enumerates status of a send record
type SendStatus string

const (
	SendStatusSent SendStatus = "sent"
)

// String returns the string representation of the status
func (s SendStatus) String() string {
	return string(s)
}

// Outcome classifies how a contact responded to a send. Some values are
// terminal: once recorded they lock the record against reclassification.
type Outcome string

const (
	OutcomeReplied            Outcome = "replied"
	OutcomeMeetingBooked      Outcome = "meeting_booked"
	OutcomeOpportunityCreated Outcome = "opportunity_created"
	OutcomeNoResponse         Outcome = "no_response"
	OutcomeUnsubscribed       Outcome = "unsubscribed"
)

// String returns the string representation of the outcome
func (o Outcome) String() string {
	return string(o)
}

// Valid checks if the outcome is valid
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeReplied, OutcomeMeetingBooked, OutcomeOpportunityCreated,
		OutcomeNoResponse, OutcomeUnsubscribed:
		return true
	default:
		return false
	}
}

// Terminal reports whether recording this outcome locks the record.
// replied and no_response stay unlocked so they can be reclassified later
// or chained into a follow-up.
func (o Outcome) Terminal() bool {
	switch o {
	case OutcomeMeetingBooked, OutcomeOpportunityCreated, OutcomeUnsubscribed:
		return true
	case OutcomeReplied, OutcomeNoResponse:
		return false
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for Outcome
func (o *Outcome) Scan(value any) error {
	if value == nil {
		*o = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*o = Outcome(v)
	case []byte:
		*o = Outcome(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Outcome", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for Outcome
func (o Outcome) Value() (driver.Value, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("invalid Outcome: %s", o)
	}
	return string(o), nil
}

// SendRecord records one contact's send attempt and outcome within a
// campaign. Entries are ordered by EntryIndex within their campaign.
type SendRecord struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	CampaignID uint   `gorm:"not null;uniqueIndex:uk_send_records_campaign_entry,priority:1;index:idx_send_records_campaign_id" json:"campaign_id"`
	EntryIndex int    `gorm:"not null;uniqueIndex:uk_send_records_campaign_entry,priority:2" json:"entry_index"`
	ContactID  uint   `gorm:"not null;index:idx_send_records_contact_id" json:"contact_id"`
	Name       string `gorm:"size:255;not null" json:"name"`

	// Destination is the email address or phone number the message went to,
	// depending on the campaign channel.
	Destination       string     `gorm:"size:255;not null" json:"destination"`
	Subject           string     `gorm:"size:255" json:"subject"`
	Body              string     `gorm:"type:text;not null" json:"body"`
	Status            SendStatus `gorm:"type:send_status;not null;default:'sent'" json:"status"`
	SentAt            time.Time  `gorm:"not null" json:"sent_at"`
	ProviderMessageID string     `gorm:"size:128;not null;index:idx_send_records_provider_message_id" json:"provider_message_id"`

	// Outcome tracking. Once OutcomeLocked is set the outcome is immutable.
	Outcome         *Outcome   `gorm:"type:send_outcome" json:"outcome,omitempty"`
	OutcomeMarkedAt *time.Time `json:"outcome_marked_at,omitempty"`
	OutcomeLocked   bool       `gorm:"not null;default:false;index:idx_send_records_outcome_locked" json:"outcome_locked"`
	OutcomeLockedAt *time.Time `json:"outcome_locked_at,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (SendRecord) TableName() string { return "send_records" }

// SendRecordFilter provides filter fields for repository queries
type SendRecordFilter struct {
	ID            *uint
	CampaignID    *uint
	EntryIndex    *int
	ContactID     *uint
	Outcome       *Outcome
	OutcomeLocked *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
