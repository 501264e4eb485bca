package validator

import "testing"

func TestValidateMeeting(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		mtype     string
		date      string
		timeOfDay string
		duration  int
		isInstant bool
		wantField string // empty means valid
	}{
		{
			name: "valid scheduled meeting",
			title: "Monthly Review", date: "2024-08-15", timeOfDay: "14:00", duration: 120,
		},
		{
			name: "valid instant meeting needs nothing but a title",
			title: "Emergency", isInstant: true,
		},
		{
			name:      "missing title",
			date:      "2024-08-15",
			timeOfDay: "14:00", duration: 60,
			wantField: "title",
		},
		{
			name:  "title only whitespace",
			title: "   ", date: "2024-08-15", timeOfDay: "14:00", duration: 60,
			wantField: "title",
		},
		{
			name:  "missing date on scheduled",
			title: "Review", timeOfDay: "14:00", duration: 60,
			wantField: "date",
		},
		{
			name:  "bad date format",
			title: "Review", date: "15/08/2024", timeOfDay: "14:00", duration: 60,
			wantField: "date",
		},
		{
			name:  "missing time on scheduled",
			title: "Review", date: "2024-08-15", duration: 60,
			wantField: "time",
		},
		{
			name:  "bad time format",
			title: "Review", date: "2024-08-15", timeOfDay: "2pm", duration: 60,
			wantField: "time",
		},
		{
			name:  "duration below minimum",
			title: "Review", date: "2024-08-15", timeOfDay: "14:00", duration: 14,
			wantField: "duration_minutes",
		},
		{
			name:  "unknown type",
			title: "Review", mtype: "telepathic", date: "2024-08-15", timeOfDay: "14:00", duration: 60,
			wantField: "type",
		},
		{
			name:  "instant skips duration check",
			title: "Emergency", duration: 0, isInstant: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateMeeting(tt.title, tt.mtype, tt.date, tt.timeOfDay, tt.duration, tt.isInstant)
			if tt.wantField == "" {
				if errs.HasErrors() {
					t.Errorf("unexpected errors: %v", errs)
				}
				return
			}
			if _, ok := errs[tt.wantField]; !ok {
				t.Errorf("missing error for field %q, got: %v", tt.wantField, errs)
			}
		})
	}
}

func TestValidationErrorsError(t *testing.T) {
	errs := make(ValidationErrors)
	errs.Add("title", "Title is required")
	errs.Add("date", "Date is required for scheduled meetings")

	msg := errs.Error()
	if msg != "validation failed: date: Date is required for scheduled meetings; title: Title is required" {
		t.Errorf("Error() = %q", msg)
	}
}
