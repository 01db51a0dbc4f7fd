package workflow

// Role is a portal user role.
type Role string

const (
	RoleTeamLeader       Role = "team_leader"
	RoleAssistant        Role = "assistant"
	RoleTechnicalOfficer Role = "technical_officer"
)

// Roles lists all valid roles.
var Roles = []Role{RoleTeamLeader, RoleAssistant, RoleTechnicalOfficer}

// stageEditors maps each stage to the roles allowed to mutate it.
var stageEditors = map[Stage]map[Role]bool{
	StageClearance: {
		RoleTeamLeader: true,
		RoleAssistant:  true,
	},
	StageInstallation: {
		RoleTeamLeader:       true,
		RoleTechnicalOfficer: true,
	},
	StageConnection: {
		RoleTeamLeader:       true,
		RoleAssistant:        true,
		RoleTechnicalOfficer: true,
	},
}

// ValidRole reports whether r names a known role.
func ValidRole(r Role) bool {
	for _, known := range Roles {
		if known == r {
			return true
		}
	}
	return false
}

// CanEditStage reports whether the role may mutate the given stage.
func CanEditStage(role Role, stage Stage) bool {
	return stageEditors[stage][role]
}

// StageEditors returns the roles allowed to mutate the stage, in a
// stable order, for authorization error messages.
func StageEditors(stage Stage) []Role {
	var out []Role
	for _, r := range Roles {
		if stageEditors[stage][r] {
			out = append(out, r)
		}
	}
	return out
}

// CanEditProjectFields reports whether the role may change a project's
// identity and technical fields, including officer assignment. Only
// team leaders may, matching project creation rights.
func CanEditProjectFields(role Role) bool {
	return role == RoleTeamLeader
}

// CanCreateProject reports whether the role may create projects.
func CanCreateProject(role Role) bool {
	return role == RoleTeamLeader
}

// CanManageUsers reports whether the role may list users and register
// new accounts.
func CanManageUsers(role Role) bool {
	return role == RoleTeamLeader
}
