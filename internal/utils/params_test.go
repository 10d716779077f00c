package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gtfs-tools/transitaccess/internal/models"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "08:00", want: 28800},
		{in: "08:00:30", want: 28830},
		{in: "23:59:59", want: 86399},
		{in: "24:10", want: 87000},
		{in: "8:5", want: 29100},
		{in: "08", wantErr: true},
		{in: "08:60", wantErr: true},
		{in: "08:00:60", wantErr: true},
		{in: "-1:00", wantErr: true},
		{in: "ab:cd", wantErr: true},
		{in: "01:02:03:04", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "08:00:00", FormatClock(28800))
	assert.Equal(t, "24:10:00", FormatClock(87000))
	assert.Equal(t, "-00:10:00", FormatClock(-600))
}

func TestParseClockParam(t *testing.T) {
	params := url.Values{"start": {"07:30"}, "end": {"bogus"}}

	start, fieldErrors := ParseClockParam(params, "start", 0, nil)
	assert.Equal(t, 27000, start)
	assert.Empty(t, fieldErrors)

	missing, fieldErrors := ParseClockParam(params, "missing", 3600, fieldErrors)
	assert.Equal(t, 3600, missing)
	assert.Empty(t, fieldErrors)

	_, fieldErrors = ParseClockParam(params, "end", 0, fieldErrors)
	assert.Equal(t, map[string][]string{"end": {`Invalid field value for field "end".`}}, fieldErrors)
}

func TestParseCalendarModeParam(t *testing.T) {
	mode, fieldErrors := ParseCalendarModeParam(url.Values{"mode": {"date"}}, "mode", nil)
	assert.Equal(t, models.SpecificDate, mode)
	assert.Empty(t, fieldErrors)

	mode, fieldErrors = ParseCalendarModeParam(url.Values{}, "mode", nil)
	assert.Equal(t, models.GenericWeekday, mode)
	assert.Empty(t, fieldErrors)

	_, fieldErrors = ParseCalendarModeParam(url.Values{"mode": {"lunar"}}, "mode", nil)
	assert.Contains(t, fieldErrors, "mode")
}

func TestParseTimeFieldParam(t *testing.T) {
	field, fieldErrors := ParseTimeFieldParam(url.Values{"field": {"Arrival"}}, "field", nil)
	assert.Equal(t, models.ArrivalTime, field)
	assert.Empty(t, fieldErrors)

	field, _ = ParseTimeFieldParam(url.Values{}, "field", nil)
	assert.Equal(t, models.DepartureTime, field)

	_, fieldErrors = ParseTimeFieldParam(url.Values{"field": {"both"}}, "field", nil)
	assert.Contains(t, fieldErrors, "field")
}

func TestParseBoolParam(t *testing.T) {
	v, fieldErrors := ParseBoolParam(url.Values{"occurrences": {"true"}}, "occurrences", false, nil)
	assert.True(t, v)
	assert.Empty(t, fieldErrors)

	v, _ = ParseBoolParam(url.Values{}, "occurrences", true, nil)
	assert.True(t, v)

	_, fieldErrors = ParseBoolParam(url.Values{"occurrences": {"maybe"}}, "occurrences", false, nil)
	assert.Contains(t, fieldErrors, "occurrences")
}

func TestParseFloatParam(t *testing.T) {
	v, fieldErrors := ParseFloatParam(url.Values{"anchor": {"480.5"}}, "anchor", nil)
	assert.Equal(t, 480.5, v)
	assert.Empty(t, fieldErrors)

	_, fieldErrors = ParseFloatParam(url.Values{"anchor": {"x"}}, "anchor", nil)
	assert.Contains(t, fieldErrors, "anchor")
}
