package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCompactTimestamp_RoundTrip(t *testing.T) {
	ts, err := ParseCompactTimestamp("20240115_103045")
	require.NoError(t, err)

	assert.Equal(t, 2024, ts.Year())
	assert.Equal(t, time.January, ts.Month())
	assert.Equal(t, 15, ts.Day())
	assert.Equal(t, 10, ts.Hour())
	assert.Equal(t, 30, ts.Minute())
	assert.Equal(t, 45, ts.Second())
}

func TestParseCompactTimestamp_SeparatorByteNotValidated(t *testing.T) {
	// Index 8 is skipped no matter what it holds.
	for _, sep := range []string{"_", "-", "T", "x"} {
		ts, err := ParseCompactTimestamp("20240115" + sep + "103045")
		require.NoError(t, err)
		assert.Equal(t, 10, ts.Hour())
	}
}

func TestParseCompactTimestamp_TrailingBytesIgnored(t *testing.T) {
	ts, err := ParseCompactTimestamp("20240115_103045_cam2.jpg")
	require.NoError(t, err)
	assert.Equal(t, 45, ts.Second())
}

func TestParseCompactTimestamp_Rejects(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"too short", "20240115_1030"},
		{"empty", ""},
		{"non-digit year", "2o240115_103045"},
		{"non-digit second", "20240115_1030xx"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCompactTimestamp(tc.input)
			assert.Error(t, err)
		})
	}
}

func TestDetection_Key_CoversAllFiveFields(t *testing.T) {
	base := Detection{
		Timestamp: "20240115_103045",
		Location:  Location{Lat: 12.9716, Lng: 77.59457},
		Severity:  SeverityHigh,
		ImageRef:  "http://pi.local/images/detected_cracks/1.jpg",
	}

	same := base
	assert.Equal(t, base.Key(), same.Key())

	severityDiffers := base
	severityDiffers.Severity = SeverityLow
	assert.NotEqual(t, base.Key(), severityDiffers.Key())

	imgDiffers := base
	imgDiffers.ImageRef = ""
	assert.NotEqual(t, base.Key(), imgDiffers.Key())

	// Description is deliberately not part of the key.
	descDiffers := base
	descDiffers.Description = "hairline crack on left rail"
	assert.Equal(t, base.Key(), descDiffers.Key())
}
