package terminal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatStamp(t *testing.T) {
	ts := time.Date(2024, 1, 2, 13, 45, 7, 250000000, time.UTC)
	assert.Equal(t, "[13:45 7.250000]", FormatStamp(ts))
}

func TestFormatStampIsUTC(t *testing.T) {
	zone := time.FixedZone("UTC+2", 2*60*60)
	ts := time.Date(2024, 1, 2, 15, 5, 59, 0, zone)
	assert.Equal(t, "[13:05 59.000000]", FormatStamp(ts))
}
