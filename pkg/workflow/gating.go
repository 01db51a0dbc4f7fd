package workflow

// Snapshot is the minimal view of a project the gating engine and
// aggregator operate on: the current status of each stage.
type Snapshot struct {
	Clearance    Status
	Installation Status
	Connection   Status
}

// Gate describes the upstream condition a stage is blocked on.
type Gate struct {
	Blocking Stage  // stage whose state blocks progress
	Required Status // status the blocking stage must reach
}

// gates encodes the cross-stage dependencies. Clearance has no
// upstream gate.
var gates = map[Stage]Gate{
	StageInstallation: {Blocking: StageClearance, Required: ClearanceApproved},
	StageConnection:   {Blocking: StageInstallation, Required: InstallationCompleted},
}

// CanAdvance reports whether the stage may currently be mutated given
// the state of the preceding stages. Installation stays editable once
// it has moved past its default, so re-saving an already-advanced
// project is allowed even if clearance was later downgraded.
func CanAdvance(stage Stage, snap Snapshot) bool {
	switch stage {
	case StageClearance:
		return true
	case StageInstallation:
		return snap.Clearance == ClearanceApproved ||
			snap.Installation != DefaultStatus(StageInstallation)
	case StageConnection:
		return snap.Installation == InstallationCompleted
	}
	return false
}

// GateFor returns the upstream condition for a stage, ok=false for
// stages with no gate.
func GateFor(stage Stage) (Gate, bool) {
	g, ok := gates[stage]
	return g, ok
}
