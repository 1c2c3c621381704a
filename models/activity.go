package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// ActivityType enumerates the events recorded on a contact's activity log
type ActivityType string

const (
	ActivityNoteAdded      ActivityType = "note_added"
	ActivityNoteEdited     ActivityType = "note_edited"
	ActivityNoteDeleted    ActivityType = "note_deleted"
	ActivityEnriched       ActivityType = "enriched"
	ActivityProfileViewed  ActivityType = "profile_viewed"
	ActivityEmailDrafted   ActivityType = "email_drafted"
	ActivityEmailSent      ActivityType = "email_sent"
	ActivityContactCreated ActivityType = "contact_created"
)

// String returns the string representation of the activity type
func (t ActivityType) String() string {
	return string(t)
}

// Valid checks if the activity type is valid
func (t ActivityType) Valid() bool {
	switch t {
	case ActivityNoteAdded, ActivityNoteEdited, ActivityNoteDeleted,
		ActivityEnriched, ActivityProfileViewed, ActivityEmailDrafted,
		ActivityEmailSent, ActivityContactCreated:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for ActivityType
func (t *ActivityType) Scan(value any) error {
	if value == nil {
		*t = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*t = ActivityType(v)
	case []byte:
		*t = ActivityType(string(v))
	default:
		return fmt.Errorf("cannot scan %T into ActivityType", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for ActivityType
func (t ActivityType) Value() (driver.Value, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid ActivityType: %s", t)
	}
	return string(t), nil
}

// Activity is one entry in a contact's append-only history. Entries are
// never updated or deleted: a note deletion appends a note_deleted entry
// rather than removing anything. Stored in insertion order, presented
// newest-first.
type Activity struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	ContactID uint         `gorm:"not null;index:idx_activities_contact_id" json:"contact_id"`
	Type      ActivityType `gorm:"type:activity_type;not null;index:idx_activities_type" json:"type"`
	Details   string       `gorm:"type:text;not null" json:"details"`
	CreatedAt time.Time    `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_activities_created_at" json:"created_at"`
}

func (Activity) TableName() string { return "activities" }

// ActivityFilter provides filter fields for repository queries
type ActivityFilter struct {
	ID            *uint
	ContactID     *uint
	Type          *ActivityType
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
