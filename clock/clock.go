// Package clock reports the current time in a configured timezone.
package clock

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/sammcj/mcp-time-server/config"
	"github.com/sammcj/mcp-time-server/types"
)

// Layout is the date and time layout used in tool output
const Layout = "2006-01-02 15:04:05 MST"

// Clock abstracts time.Now so output can be tested against a fixed instant
type Clock interface {
	Now() time.Time
}

// SystemClock reads the system clock
type SystemClock struct{}

// Now returns the current time
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Fixed is a Clock that always returns the same instant
type Fixed time.Time

// Now returns the fixed instant
func (f Fixed) Now() time.Time {
	return time.Time(f)
}

// Resolve looks name up in the timezone database.
//
// time.LoadLocation treats "" as UTC and "Local" as the host zone; neither is
// an IANA identifier, so both are rejected here.
func Resolve(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return nil, &types.TimezoneError{Timezone: name}
	}
	if strings.TrimSpace(name) != name {
		return nil, &types.TimezoneError{Timezone: name, Err: fmt.Errorf("surrounding whitespace")}
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, &types.TimezoneError{Timezone: name, Err: err}
	}
	return loc, nil
}

// Format renders t as "YYYY-MM-DD HH:MM:SS ZONE (Weekday)"
func Format(t time.Time) string {
	return fmt.Sprintf("%s (%s)", t.Format(Layout), t.Weekday())
}

// InvalidTimezoneMessage is the tool result for a timezone that does not resolve
func InvalidTimezoneMessage(timezone string) string {
	return fmt.Sprintf("Error: Invalid timezone '%s'. Please use a valid timezone like 'America/New_York', 'Europe/London', or 'Asia/Tokyo'.", timezone)
}

// Now returns the instant from c in the zone named by cfg
func Now(c Clock, cfg config.SessionConfig) (time.Time, error) {
	loc, err := Resolve(cfg.Timezone)
	if err != nil {
		return time.Time{}, err
	}
	return c.Now().In(loc), nil
}

// Report produces the get_current_time result for cfg along with the
// resolution error, if any. The text is always usable as the tool result.
func Report(c Clock, cfg config.SessionConfig) (string, error) {
	now, err := Now(c, cfg)
	if err != nil {
		return InvalidTimezoneMessage(cfg.Timezone), err
	}
	return fmt.Sprintf("The current time in %s is:\n%s", cfg.Timezone, Format(now)), nil
}

// CurrentTime produces the get_current_time result for cfg. It never fails:
// an unknown timezone yields InvalidTimezoneMessage.
func CurrentTime(c Clock, cfg config.SessionConfig) string {
	text, _ := Report(c, cfg)
	return text
}
