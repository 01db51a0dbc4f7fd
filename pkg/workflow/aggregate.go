package workflow

// Overall is the derived, human-facing summary of a project's
// furthest-progressed stage. It is recomputed on every read and never
// stored.
type Overall string

const (
	OverallClearance    Overall = "clearance"
	OverallInstallation Overall = "installation"
	OverallConnection   Overall = "connection"
	OverallCompleted    Overall = "completed"
)

// OverallStatus derives the summary from the three stage statuses.
// Precedence runs backwards from connection: a completed connection
// wins regardless of what the earlier stages currently say.
func OverallStatus(snap Snapshot) Overall {
	switch {
	case snap.Connection == ConnectionComplete:
		return OverallCompleted
	case snap.Installation == InstallationCompleted:
		return OverallConnection
	case snap.Clearance == ClearanceApproved:
		return OverallInstallation
	default:
		return OverallClearance
	}
}
