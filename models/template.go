package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/salesloop/outreach/utils"
	"gorm.io/gorm"
)

// Template is a reusable message template owned by exactly one customer.
type Template struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UUID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_templates_uuid" json:"uuid"`
	CustomerID uint      `gorm:"not null;index:idx_templates_customer_id" json:"customer_id"`

	Name    string           `gorm:"size:255;not null" json:"name"`
	Subject string           `gorm:"size:255;not null" json:"subject"`
	Body    string           `gorm:"type:text;not null" json:"body"`
	Intent  EngagementIntent `gorm:"type:engagement_intent;not null" json:"intent"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_templates_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`

	// Relations
	Customer *Customer `gorm:"foreignKey:CustomerID;references:ID" json:"customer,omitempty"`
}

func (Template) TableName() string {
	return "templates"
}

// BeforeCreate is called before creating a new record
func (t *Template) BeforeCreate(tx *gorm.DB) error {
	if t.UUID == uuid.Nil {
		t.UUID = uuid.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = utils.UTCNow()
	}
	return nil
}

// MissingFields returns the names of required fields that are empty.
// A template needs all of name, subject, body and intent before it can be
// saved.
func (t *Template) MissingFields() []string {
	var missing []string
	if t.Name == "" {
		missing = append(missing, "name")
	}
	if t.Subject == "" {
		missing = append(missing, "subject")
	}
	if t.Body == "" {
		missing = append(missing, "body")
	}
	if t.Intent == "" {
		missing = append(missing, "intent")
	}
	return missing
}

// TemplateFilter represents filter criteria for template queries
type TemplateFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	CustomerID    *uint
	Name          *string
	Intent        *EngagementIntent
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
