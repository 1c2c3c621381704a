package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/salesloop/outreach/utils"
	"gorm.io/gorm"
)

// Contact is a person targeted by outreach campaigns, owned by one customer.
type Contact struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UUID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_contacts_uuid" json:"uuid"`
	CustomerID uint      `gorm:"not null;index:idx_contacts_customer_id" json:"customer_id"`

	FirstName string  `gorm:"size:255;not null" json:"first_name"`
	LastName  string  `gorm:"size:255;not null" json:"last_name"`
	Title     *string `gorm:"size:255" json:"title,omitempty"`
	Company   *string `gorm:"size:255" json:"company,omitempty"`
	Phone     *string `gorm:"size:20;index:idx_contacts_phone" json:"phone,omitempty"`
	Email     *string `gorm:"size:255;index:idx_contacts_email" json:"email,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_contacts_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`

	// Relations
	Customer   *Customer  `gorm:"foreignKey:CustomerID;references:ID" json:"customer,omitempty"`
	Activities []Activity `gorm:"foreignKey:ContactID" json:"activities,omitempty"`
}

func (Contact) TableName() string {
	return "contacts"
}

// BeforeCreate is called before creating a new record
func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = utils.UTCNow()
	}
	return nil
}

// FullName returns the contact's display name.
func (c *Contact) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// HasEmail reports whether the contact can be reached over email.
func (c *Contact) HasEmail() bool {
	return c.Email != nil && *c.Email != ""
}

// HasPhone reports whether the contact can be reached over SMS.
func (c *Contact) HasPhone() bool {
	return c.Phone != nil && *c.Phone != ""
}

// DestinationFor returns the contact's destination for the given channel and
// whether it is present.
func (c *Contact) DestinationFor(channel CampaignChannel) (string, bool) {
	switch channel {
	case CampaignChannelEmail:
		if c.HasEmail() {
			return *c.Email, true
		}
	case CampaignChannelSMS:
		if c.HasPhone() {
			return *c.Phone, true
		}
	}
	return "", false
}

// ContactFilter represents filter criteria for contact queries
type ContactFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	CustomerID    *uint
	Email         *string
	Phone         *string
	Company       *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
