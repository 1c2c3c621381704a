package models

import (
	"fmt"

	"gorm.io/gorm"
)

// enumDefinitions maps postgres enum type names to their allowed values.
// AutoMigrate cannot create these, so they are created up front.
var enumDefinitions = map[string][]string{
	"campaign_channel":  {string(CampaignChannelEmail), string(CampaignChannelSMS)},
	"engagement_intent": {string(EngagementIntentCold), string(EngagementIntentWarm), string(EngagementIntentHot), string(EngagementIntentFollowup)},
	"send_status":       {string(SendStatusSent)},
	"send_outcome":      {string(OutcomeReplied), string(OutcomeMeetingBooked), string(OutcomeOpportunityCreated), string(OutcomeNoResponse), string(OutcomeUnsubscribed)},
	"activity_type": {
		string(ActivityNoteAdded), string(ActivityNoteEdited), string(ActivityNoteDeleted),
		string(ActivityEnriched), string(ActivityProfileViewed),
		string(ActivityEmailDrafted), string(ActivityEmailSent), string(ActivityContactCreated),
	},
}

// AutoMigrate creates the enum types and migrates all model tables
func AutoMigrate(db *gorm.DB) error {
	for name, values := range enumDefinitions {
		stmt := fmt.Sprintf(
			"DO $$ BEGIN CREATE TYPE %s AS ENUM (%s); EXCEPTION WHEN duplicate_object THEN NULL; END $$;",
			name, quoteList(values),
		)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create enum type %s: %w", name, err)
		}
	}

	return db.AutoMigrate(
		&Customer{},
		&Contact{},
		&Template{},
		&Campaign{},
		&SendRecord{},
		&Activity{},
		&AuditLog{},
	)
}

func quoteList(values []string) string {
	out := ""
	for i, v := range values {
		if i > 0 {
			out += ", "
		}
		out += "'" + v + "'"
	}
	return out
}
