package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUTCNowRFC3339(t *testing.T) {
	stamp := UTCNowRFC3339()
	parsed, err := time.Parse(time.RFC3339, stamp)
	assert.NoError(t, err)
	assert.Equal(t, time.UTC, parsed.Location())
}

func TestIsExpired(t *testing.T) {
	assert.True(t, IsExpired(UTCNow().Add(-time.Minute)))
	assert.False(t, IsExpired(UTCNow().Add(time.Minute)))
}

func TestTimeToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	local := time.Date(2026, 8, 29, 15, 0, 0, 0, loc)

	utc := TimeToUTC(local)
	assert.Equal(t, time.UTC, utc.Location())
	assert.True(t, local.Equal(utc))
}
