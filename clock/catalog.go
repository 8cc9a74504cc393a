package clock

// InfoURI is the resource URI of the timezone catalog
const InfoURI = "timezone://info"

// ReferenceURL lists every identifier in the tz database
const ReferenceURL = "https://en.wikipedia.org/wiki/List_of_tz_database_time_zones"

// Zone is a catalog entry
type Zone struct {
	ID    string
	Label string
}

// CommonZones are the identifiers listed by TimezoneInfo, in display order
var CommonZones = []Zone{
	{"UTC", "Coordinated Universal Time"},
	{"America/New_York", "Eastern Time"},
	{"America/Chicago", "Central Time"},
	{"America/Denver", "Mountain Time"},
	{"America/Los_Angeles", "Pacific Time"},
	{"Europe/London", "GMT/BST"},
	{"Europe/Paris", "CET/CEST"},
	{"Asia/Tokyo", "JST"},
	{"Asia/Shanghai", "CST"},
	{"Australia/Sydney", "AEST/AEDT"},
}

const timezoneInfo = `Common Timezones:
- UTC (Coordinated Universal Time)
- America/New_York (Eastern Time)
- America/Chicago (Central Time)
- America/Denver (Mountain Time)
- America/Los_Angeles (Pacific Time)
- Europe/London (GMT/BST)
- Europe/Paris (CET/CEST)
- Asia/Tokyo (JST)
- Asia/Shanghai (CST)
- Australia/Sydney (AEST/AEDT)

For a full list, see: ` + ReferenceURL

// TimezoneInfo returns the static catalog served at InfoURI
func TimezoneInfo() string {
	return timezoneInfo
}
