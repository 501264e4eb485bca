package permission

import "testing"

func TestCan(t *testing.T) {
	tests := []struct {
		name   string
		role   string
		action Action
		want   bool
	}{
		{name: "chairperson creates", role: RoleChairperson, action: ActionCreateMeeting, want: true},
		{name: "chairperson ends", role: RoleChairperson, action: ActionEndMeeting, want: true},
		{name: "secretary approves minutes", role: RoleSecretary, action: ActionApproveMinutes, want: true},
		{name: "treasurer creates", role: RoleTreasurer, action: ActionCreateMeeting, want: true},
		{name: "treasurer cannot end", role: RoleTreasurer, action: ActionEndMeeting, want: false},
		{name: "member joins", role: RoleMember, action: ActionJoinMeeting, want: true},
		{name: "member cannot create", role: RoleMember, action: ActionCreateMeeting, want: false},
		{name: "member cannot approve minutes", role: RoleMember, action: ActionApproveMinutes, want: false},
		{name: "unknown role has nothing", role: "guest", action: ActionJoinMeeting, want: false},
		{name: "empty role has nothing", role: "", action: ActionJoinMeeting, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Can(tt.role, tt.action); got != tt.want {
				t.Errorf("Can(%q, %q) = %v, want %v", tt.role, tt.action, got, tt.want)
			}
		})
	}
}
