// Package permission maps chama roles to the meeting actions they may
// perform. The policy itself is deliberately small; services only ask a
// boolean question before executing an operation.
package permission

type Action string

const (
	ActionCreateMeeting  Action = "meeting.create"
	ActionJoinMeeting    Action = "meeting.join"
	ActionEndMeeting     Action = "meeting.end"
	ActionApproveMinutes Action = "minutes.approve"
)

const (
	RoleChairperson = "chairperson"
	RoleSecretary   = "secretary"
	RoleTreasurer   = "treasurer"
	RoleMember      = "member"
)

var rolePermissions = map[string]map[Action]bool{
	RoleChairperson: {
		ActionCreateMeeting:  true,
		ActionJoinMeeting:    true,
		ActionEndMeeting:     true,
		ActionApproveMinutes: true,
	},
	RoleSecretary: {
		ActionCreateMeeting:  true,
		ActionJoinMeeting:    true,
		ActionEndMeeting:     true,
		ActionApproveMinutes: true,
	},
	RoleTreasurer: {
		ActionCreateMeeting: true,
		ActionJoinMeeting:   true,
	},
	RoleMember: {
		ActionJoinMeeting: true,
	},
}

// Can reports whether a role may perform an action. Unknown roles get no
// permissions.
func Can(role string, action Action) bool {
	perms, ok := rolePermissions[role]
	if !ok {
		return false
	}
	return perms[action]
}
