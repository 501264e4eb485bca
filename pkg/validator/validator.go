package validator

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

type ValidationErrors map[string]string

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

// Error makes ValidationErrors usable as an error return from services.
func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, v[field]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v ValidationErrors) Add(field, message string) {
	v[field] = message
}

var dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
var timeRegex = regexp.MustCompile(`^\d{2}:\d{2}$`)

// ValidateMeeting checks scheduling input. Instant meetings need no
// date/time; everything else does. Agenda items are not validated -
// blank slots are allowed to survive as entered.
func ValidateMeeting(title, mtype, date, timeOfDay string, durationMinutes int, isInstant bool) ValidationErrors {
	errs := make(ValidationErrors)

	title = strings.TrimSpace(title)
	if title == "" {
		errs.Add("title", "Title is required")
	} else if len(title) > 200 {
		errs.Add("title", "Title is too long")
	}

	if mtype != "" && mtype != "virtual" && mtype != "physical" && mtype != "hybrid" && mtype != "instant" {
		errs.Add("type", "Meeting type must be virtual, physical, hybrid, or instant")
	}

	if !isInstant {
		if date == "" {
			errs.Add("date", "Date is required for scheduled meetings")
		} else if !dateRegex.MatchString(date) {
			errs.Add("date", "Date must be in YYYY-MM-DD format")
		}

		if timeOfDay == "" {
			errs.Add("time", "Time is required for scheduled meetings")
		} else if !timeRegex.MatchString(timeOfDay) {
			errs.Add("time", "Time must be in HH:MM format")
		}

		if durationMinutes < 15 {
			errs.Add("duration_minutes", "Duration must be at least 15 minutes")
		}
	}

	return errs
}
