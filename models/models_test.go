package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/salesloop/outreach/utils"
)

func TestCampaignChannelValid(t *testing.T) {
	assert.True(t, CampaignChannelEmail.Valid())
	assert.True(t, CampaignChannelSMS.Valid())
	assert.False(t, CampaignChannel("fax").Valid())
	assert.False(t, CampaignChannel("").Valid())
}

func TestEngagementIntentValid(t *testing.T) {
	for _, intent := range []EngagementIntent{EngagementIntentCold, EngagementIntentWarm, EngagementIntentHot, EngagementIntentFollowup} {
		assert.True(t, intent.Valid(), string(intent))
	}
	assert.False(t, EngagementIntent("lukewarm").Valid())
}

func TestOutcomeTerminal(t *testing.T) {
	tests := []struct {
		outcome  Outcome
		terminal bool
	}{
		{OutcomeReplied, false},
		{OutcomeNoResponse, false},
		{OutcomeMeetingBooked, true},
		{OutcomeOpportunityCreated, true},
		{OutcomeUnsubscribed, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.outcome), func(t *testing.T) {
			assert.True(t, tt.outcome.Valid())
			assert.Equal(t, tt.terminal, tt.outcome.Terminal())
		})
	}
	assert.False(t, Outcome("ghosted").Valid())
	assert.False(t, Outcome("ghosted").Terminal())
}

func TestOutcomeScanAndValue(t *testing.T) {
	var o Outcome
	assert.NoError(t, o.Scan("replied"))
	assert.Equal(t, OutcomeReplied, o)

	assert.NoError(t, o.Scan([]byte("unsubscribed")))
	assert.Equal(t, OutcomeUnsubscribed, o)

	v, err := OutcomeMeetingBooked.Value()
	assert.NoError(t, err)
	assert.Equal(t, "meeting_booked", v)

	_, err = Outcome("ghosted").Value()
	assert.Error(t, err)
}

func TestTemplateMissingFields(t *testing.T) {
	complete := Template{Name: "Cold intro", Subject: "Hi", Body: "Hello", Intent: EngagementIntentCold}
	assert.Empty(t, complete.MissingFields())

	empty := Template{}
	assert.ElementsMatch(t, []string{"name", "subject", "body", "intent"}, empty.MissingFields())

	partial := Template{Name: "Cold intro", Intent: EngagementIntentCold}
	assert.ElementsMatch(t, []string{"subject", "body"}, partial.MissingFields())
}

func TestContactFullName(t *testing.T) {
	c := Contact{FirstName: "Avery", LastName: "Kim"}
	assert.Equal(t, "Avery Kim", c.FullName())

	mononym := Contact{FirstName: "Avery"}
	assert.Equal(t, "Avery", mononym.FullName())
}

func TestContactDestinationFor(t *testing.T) {
	both := Contact{
		Email: utils.ToPtr("avery.kim@example.com"),
		Phone: utils.ToPtr("+14155550142"),
	}
	dest, ok := both.DestinationFor(CampaignChannelEmail)
	assert.True(t, ok)
	assert.Equal(t, "avery.kim@example.com", dest)

	dest, ok = both.DestinationFor(CampaignChannelSMS)
	assert.True(t, ok)
	assert.Equal(t, "+14155550142", dest)

	emailOnly := Contact{Email: utils.ToPtr("avery.kim@example.com")}
	_, ok = emailOnly.DestinationFor(CampaignChannelSMS)
	assert.False(t, ok)
	assert.True(t, emailOnly.HasEmail())
	assert.False(t, emailOnly.HasPhone())

	// Empty strings count as absent, not as destinations
	blank := Contact{Email: utils.ToPtr(""), Phone: utils.ToPtr("")}
	_, ok = blank.DestinationFor(CampaignChannelEmail)
	assert.False(t, ok)
	_, ok = blank.DestinationFor(CampaignChannelSMS)
	assert.False(t, ok)
}

func TestCampaignIsFollowUp(t *testing.T) {
	root := Campaign{}
	assert.False(t, root.IsFollowUp())

	parentID := uint(1)
	child := Campaign{ParentCampaignID: &parentID}
	assert.True(t, child.IsFollowUp())
}
