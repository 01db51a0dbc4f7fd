package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultStatuses(t *testing.T) {
	assert.Equal(t, ClearancePending, DefaultStatus(StageClearance))
	assert.Equal(t, ClearanceReceived, DefaultStatus(StageInstallation))
	assert.Equal(t, DocumentSubmission, DefaultStatus(StageConnection))
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StageClearance, ClearanceApplied))
	assert.True(t, ValidStatus(StageInstallation, SixtyPercentPaid))
	assert.True(t, ValidStatus(StageConnection, Procedure))

	// Values from a sibling stage are rejected.
	assert.False(t, ValidStatus(StageClearance, InstallationCompleted))
	assert.False(t, ValidStatus(StageConnection, ClearanceApproved))
	assert.False(t, ValidStatus(StageInstallation, Status("")))
}

func TestValidStage(t *testing.T) {
	assert.True(t, ValidStage(StageClearance))
	assert.True(t, ValidStage(StageInstallation))
	assert.True(t, ValidStage(StageConnection))
	assert.False(t, ValidStage(Stage("commissioning")))
}

func TestCanEditStage(t *testing.T) {
	assert.True(t, CanEditStage(RoleTeamLeader, StageClearance))
	assert.True(t, CanEditStage(RoleAssistant, StageClearance))
	assert.False(t, CanEditStage(RoleTechnicalOfficer, StageClearance))

	assert.True(t, CanEditStage(RoleTeamLeader, StageInstallation))
	assert.True(t, CanEditStage(RoleTechnicalOfficer, StageInstallation))
	assert.False(t, CanEditStage(RoleAssistant, StageInstallation))

	for _, role := range Roles {
		assert.True(t, CanEditStage(role, StageConnection), "connection is editable by %s", role)
	}

	assert.False(t, CanEditStage(Role("auditor"), StageClearance))
}

func TestCanEditProjectFields(t *testing.T) {
	assert.True(t, CanEditProjectFields(RoleTeamLeader))
	assert.False(t, CanEditProjectFields(RoleAssistant))
	assert.False(t, CanEditProjectFields(RoleTechnicalOfficer))
}

func TestCanAdvanceClearance(t *testing.T) {
	// Clearance has no upstream gate.
	assert.True(t, CanAdvance(StageClearance, Snapshot{
		Clearance:    ClearancePending,
		Installation: ClearanceReceived,
		Connection:   DocumentSubmission,
	}))
}

func TestCanAdvanceInstallation(t *testing.T) {
	blocked := Snapshot{
		Clearance:    ClearanceApplied,
		Installation: ClearanceReceived,
		Connection:   DocumentSubmission,
	}
	assert.False(t, CanAdvance(StageInstallation, blocked))

	approved := blocked
	approved.Clearance = ClearanceApproved
	assert.True(t, CanAdvance(StageInstallation, approved))

	// An already-advanced installation stays editable even if clearance
	// was later downgraded.
	downgraded := Snapshot{
		Clearance:    ClearanceRejected,
		Installation: OngoingInstallation,
		Connection:   DocumentSubmission,
	}
	assert.True(t, CanAdvance(StageInstallation, downgraded))
}

func TestCanAdvanceConnection(t *testing.T) {
	blocked := Snapshot{
		Clearance:    ClearanceApproved,
		Installation: OngoingInstallation,
		Connection:   DocumentSubmission,
	}
	assert.False(t, CanAdvance(StageConnection, blocked))

	done := blocked
	done.Installation = InstallationCompleted
	assert.True(t, CanAdvance(StageConnection, done))
}

func TestGateFor(t *testing.T) {
	g, ok := GateFor(StageInstallation)
	assert.True(t, ok)
	assert.Equal(t, StageClearance, g.Blocking)
	assert.Equal(t, ClearanceApproved, g.Required)

	g, ok = GateFor(StageConnection)
	assert.True(t, ok)
	assert.Equal(t, StageInstallation, g.Blocking)
	assert.Equal(t, InstallationCompleted, g.Required)

	_, ok = GateFor(StageClearance)
	assert.False(t, ok)
}

func TestOverallStatusPrecedence(t *testing.T) {
	assert.Equal(t, OverallClearance, OverallStatus(Snapshot{
		Clearance:    ClearanceApplied,
		Installation: ClearanceReceived,
		Connection:   DocumentSubmission,
	}))

	assert.Equal(t, OverallInstallation, OverallStatus(Snapshot{
		Clearance:    ClearanceApproved,
		Installation: SiteVisitCompleted,
		Connection:   DocumentSubmission,
	}))

	assert.Equal(t, OverallConnection, OverallStatus(Snapshot{
		Clearance:    ClearanceApproved,
		Installation: InstallationCompleted,
		Connection:   EstimatePaid,
	}))
}

func TestOverallStatusCompletedWinsRegardless(t *testing.T) {
	// connection_complete always reads as completed, whatever the
	// earlier stages currently say.
	for _, clearance := range StatusValues[StageClearance] {
		for _, installation := range StatusValues[StageInstallation] {
			snap := Snapshot{
				Clearance:    clearance,
				Installation: installation,
				Connection:   ConnectionComplete,
			}
			assert.Equal(t, OverallCompleted, OverallStatus(snap))
		}
	}
}
