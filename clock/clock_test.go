package clock

import (
	"errors"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sammcj/mcp-time-server/config"
	"github.com/sammcj/mcp-time-server/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func session(tz string) config.SessionConfig {
	return config.SessionConfig{Timezone: tz}
}

func TestCurrentTimeAtKnownInstant(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		instant  time.Time
		want     string
	}{
		{
			name:     "utc",
			timezone: "UTC",
			instant:  time.Date(2024, 3, 15, 12, 34, 56, 0, time.UTC),
			want:     "The current time in UTC is:\n2024-03-15 12:34:56 UTC (Friday)",
		},
		{
			name:     "tokyo",
			timezone: "Asia/Tokyo",
			instant:  time.Date(2024, 3, 15, 12, 34, 56, 0, time.UTC),
			want:     "The current time in Asia/Tokyo is:\n2024-03-15 21:34:56 JST (Friday)",
		},
		{
			name:     "new york daylight time",
			timezone: "America/New_York",
			instant:  time.Date(2024, 7, 4, 16, 0, 0, 0, time.UTC),
			want:     "The current time in America/New_York is:\n2024-07-04 12:00:00 EDT (Thursday)",
		},
		{
			name:     "new york standard time",
			timezone: "America/New_York",
			instant:  time.Date(2024, 1, 15, 17, 0, 0, 0, time.UTC),
			want:     "The current time in America/New_York is:\n2024-01-15 12:00:00 EST (Monday)",
		},
		{
			name:     "sydney crosses midnight",
			timezone: "Australia/Sydney",
			instant:  time.Date(2024, 3, 15, 20, 0, 0, 0, time.UTC),
			want:     "The current time in Australia/Sydney is:\n2024-03-16 07:00:00 AEDT (Saturday)",
		},
		{
			name:     "leap day",
			timezone: "Europe/London",
			instant:  time.Date(2024, 2, 29, 9, 5, 7, 0, time.UTC),
			want:     "The current time in Europe/London is:\n2024-02-29 09:05:07 GMT (Thursday)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CurrentTime(Fixed(tt.instant), session(tt.timezone))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCurrentTimeShape(t *testing.T) {
	shape := regexp.MustCompile(`\n\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} \S+ \((Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday)\)$`)

	zones := []string{"Etc/UTC", "Asia/Kolkata", "America/Sao_Paulo", "Pacific/Chatham", "Africa/Cairo"}
	for _, z := range CommonZones {
		zones = append(zones, z.ID)
	}

	for _, tz := range zones {
		t.Run(tz, func(t *testing.T) {
			got := CurrentTime(SystemClock{}, session(tz))
			assert.True(t, strings.HasPrefix(got, "The current time in "+tz+" is:\n"), got)
			assert.Regexp(t, shape, got)
		})
	}
}

func TestCurrentTimeInvalidTimezone(t *testing.T) {
	inputs := []string{
		"Not/AZone",
		"Mars/Phobos",
		"",
		"utc ",
		" UTC",
		"Local",
		"../../etc/passwd",
		"/etc/localtime",
		"America/New York",
	}

	for _, tz := range inputs {
		t.Run(tz, func(t *testing.T) {
			want := "Error: Invalid timezone '" + tz + "'. Please use a valid timezone like 'America/New_York', 'Europe/London', or 'Asia/Tokyo'."
			assert.Equal(t, want, CurrentTime(SystemClock{}, session(tz)))
		})
	}
}

func TestDefaultSessionMatchesExplicitUTC(t *testing.T) {
	at := Fixed(time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC))
	assert.Equal(t,
		CurrentTime(at, session("UTC")),
		CurrentTime(at, config.DefaultSessionConfig()),
	)
}

func TestTokyoHasNoDaylightSaving(t *testing.T) {
	loc, err := Resolve("Asia/Tokyo")
	require.NoError(t, err)

	for month := time.January; month <= time.December; month++ {
		name, offset := time.Date(2024, month, 15, 0, 0, 0, 0, time.UTC).In(loc).Zone()
		assert.Equal(t, "JST", name)
		assert.Equal(t, 9*60*60, offset, month.String())
	}
}

func TestResolveError(t *testing.T) {
	_, err := Resolve("Mars/Phobos")
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrInvalidTimezone))

	var tzErr *types.TimezoneError
	require.True(t, errors.As(err, &tzErr))
	assert.Equal(t, "Mars/Phobos", tzErr.Timezone)
	assert.Contains(t, err.Error(), "Mars/Phobos")
}

func TestNow(t *testing.T) {
	instant := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	got, err := Now(Fixed(instant), session("Europe/Paris"))
	require.NoError(t, err)
	assert.True(t, got.Equal(instant), "zone conversion must not move the instant")
	assert.Equal(t, "Europe/Paris", got.Location().String())

	_, err = Now(Fixed(instant), session(""))
	assert.Error(t, err)
}

func TestCurrentTimeConcurrent(t *testing.T) {
	at := Fixed(time.Date(2024, 3, 15, 12, 34, 56, 0, time.UTC))
	want := CurrentTime(at, session("Asia/Tokyo"))

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, CurrentTime(at, session("Asia/Tokyo")))
		}()
	}
	wg.Wait()
}

func TestTimezoneInfo(t *testing.T) {
	info := TimezoneInfo()

	assert.Equal(t, info, TimezoneInfo())
	assert.True(t, strings.HasPrefix(info, "Common Timezones:\n"))
	assert.Contains(t, info, "America/New_York")
	assert.True(t, strings.HasSuffix(info, "For a full list, see: https://en.wikipedia.org/wiki/List_of_tz_database_time_zones"))

	for _, z := range CommonZones {
		assert.Contains(t, info, "- "+z.ID+" ("+z.Label+")")

		_, err := Resolve(z.ID)
		assert.NoError(t, err, z.ID)
	}
}
