package domain

import (
	"errors"
	"testing"
)

func TestMeetingTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    MeetingStatus
		op      func(*Meeting) error
		want    MeetingStatus
		wantErr bool
	}{
		{name: "upcoming starts", from: StatusUpcoming, op: (*Meeting).Start, want: StatusLive},
		{name: "live cannot start", from: StatusLive, op: (*Meeting).Start, want: StatusLive, wantErr: true},
		{name: "completed cannot start", from: StatusCompleted, op: (*Meeting).Start, want: StatusCompleted, wantErr: true},
		{name: "live completes", from: StatusLive, op: (*Meeting).Complete, want: StatusCompleted},
		{name: "upcoming cannot complete", from: StatusUpcoming, op: (*Meeting).Complete, want: StatusUpcoming, wantErr: true},
		{name: "completed cannot complete", from: StatusCompleted, op: (*Meeting).Complete, want: StatusCompleted, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Meeting{Status: tt.from}
			err := tt.op(m)
			if tt.wantErr && !errors.Is(err, ErrBadTransition) {
				t.Errorf("err = %v, want ErrBadTransition", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("err = %v, want nil", err)
			}
			if m.Status != tt.want {
				t.Errorf("status = %q, want %q", m.Status, tt.want)
			}
		})
	}
}

func TestEditable(t *testing.T) {
	for status, want := range map[MeetingStatus]bool{
		StatusUpcoming:  true,
		StatusLive:      false,
		StatusCompleted: false,
	} {
		m := &Meeting{Status: status}
		if got := m.Editable(); got != want {
			t.Errorf("Editable() with status %q = %v, want %v", status, got, want)
		}
	}
}
