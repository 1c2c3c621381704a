package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/salesloop/outreach/utils"
	"gorm.io/gorm"
)

// CampaignChannel represents the delivery channel of a campaign
type CampaignChannel string

const (
	CampaignChannelEmail CampaignChannel = "email"
	CampaignChannelSMS   CampaignChannel = "sms"
)

// String returns the string representation of the channel
func (c CampaignChannel) String() string {
	return string(c)
}

// Valid checks if the channel is valid
func (c CampaignChannel) Valid() bool {
	switch c {
	case CampaignChannelEmail, CampaignChannelSMS:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for CampaignChannel
func (c *CampaignChannel) Scan(value any) error {
	if value == nil {
		*c = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*c = CampaignChannel(v)
	case []byte:
		*c = CampaignChannel(string(v))
	default:
		return fmt.Errorf("cannot scan %T into CampaignChannel", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for CampaignChannel
func (c CampaignChannel) Value() (driver.Value, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid CampaignChannel: %s", c)
	}
	return string(c), nil
}

// EngagementIntent classifies the temperature of an outreach campaign and
// drives tone selection during draft generation.
type EngagementIntent string

const (
	EngagementIntentCold     EngagementIntent = "cold"
	EngagementIntentWarm     EngagementIntent = "warm"
	EngagementIntentHot      EngagementIntent = "hot"
	EngagementIntentFollowup EngagementIntent = "followup"
)

// String returns the string representation of the intent
func (i EngagementIntent) String() string {
	return string(i)
}

// Valid checks if the intent is valid
func (i EngagementIntent) Valid() bool {
	switch i {
	case EngagementIntentCold, EngagementIntentWarm, EngagementIntentHot, EngagementIntentFollowup:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for EngagementIntent
func (i *EngagementIntent) Scan(value any) error {
	if value == nil {
		*i = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*i = EngagementIntent(v)
	case []byte:
		*i = EngagementIntent(string(v))
	default:
		return fmt.Errorf("cannot scan %T into EngagementIntent", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for EngagementIntent
func (i EngagementIntent) Value() (driver.Value, error) {
	if !i.Valid() {
		return nil, fmt.Errorf("invalid EngagementIntent: %s", i)
	}
	return string(i), nil
}

// Campaign represents a batch of outreach sends sharing a channel and
// engagement intent. Per-contact send entries live in their own table
// (SendRecord) so a large audience does not grow the campaign row itself.
type Campaign struct {
	ID               uint             `gorm:"primaryKey" json:"id"`
	UUID             uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:uk_campaigns_uuid;index:idx_campaigns_uuid" json:"uuid"`
	CustomerID       uint             `gorm:"not null;index:idx_campaigns_customer_id" json:"customer_id"`
	Name             string           `gorm:"size:255;not null" json:"name"`
	Channel          CampaignChannel  `gorm:"type:campaign_channel;not null;index:idx_campaigns_channel" json:"weapon"`
	EngagementIntent EngagementIntent `gorm:"type:engagement_intent;not null" json:"engagement_intent"`
	ParentCampaignID *uint            `gorm:"index:idx_campaigns_parent_campaign_id" json:"parent_campaign_id,omitempty"`
	CreatedAt        time.Time        `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_campaigns_created_at" json:"created_at"`

	// Relations
	Customer       *Customer    `gorm:"foreignKey:CustomerID;references:ID" json:"customer,omitempty"`
	ParentCampaign *Campaign    `gorm:"foreignKey:ParentCampaignID;references:ID" json:"parent_campaign,omitempty"`
	SendRecords    []SendRecord `gorm:"foreignKey:CampaignID" json:"send_records,omitempty"`
}

// TableName returns the table name for the model
func (Campaign) TableName() string {
	return "campaigns"
}

// BeforeCreate is called before creating a new record
func (c *Campaign) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = utils.UTCNow()
	}
	return nil
}

// IsFollowUp reports whether this campaign was chained off an earlier one.
func (c *Campaign) IsFollowUp() bool {
	return c.ParentCampaignID != nil
}

// CampaignFilter represents filter criteria for campaigns
type CampaignFilter struct {
	ID               *uint
	UUID             *uuid.UUID
	CustomerID       *uint
	Channel          *CampaignChannel
	EngagementIntent *EngagementIntent
	ParentCampaignID *uint
	CreatedAfter     *time.Time
	CreatedBefore    *time.Time
}
