package workflow

// Stage identifies one of the three administrative phases a solar
// project moves through.
type Stage string

const (
	StageClearance    Stage = "clearance"
	StageInstallation Stage = "installation"
	StageConnection   Stage = "connection"
)

// Stages lists the stages in lifecycle order.
var Stages = []Stage{StageClearance, StageInstallation, StageConnection}

// Status is a stage status token. Tokens are opaque to the store; the
// gating engine and clients attach meaning.
type Status string

// Clearance statuses.
const (
	ClearancePending  Status = "pending_to_apply_clearance_application"
	ClearanceApplied  Status = "clearance_applied"
	ClearanceApproved Status = "clearance_approved"
	ClearanceRejected Status = "clearance_rejected"
	CapacityReduced   Status = "capacity_reduced"
)

// Installation statuses.
const (
	ClearanceReceived     Status = "clearance_received"
	SiteVisitCompleted    Status = "site_visit_completed"
	SixtyPercentPaid      Status = "60_percent_payment_received"
	OngoingInstallation   Status = "ongoing_installation"
	InstallationCompleted Status = "installation_completed"
)

// Connection statuses.
const (
	DocumentSubmission Status = "document_submission"
	EstimatePaid       Status = "estimate_paid"
	ConnectionComplete Status = "connection_complete"
	Procedure          Status = "procedure"
)

// StatusValues holds the closed vocabulary per stage. Order matches the
// usual progression but is not enforced within a stage: an authorized
// actor may set any value at any time, only cross-stage gating applies.
var StatusValues = map[Stage][]Status{
	StageClearance: {
		ClearancePending,
		ClearanceApplied,
		ClearanceApproved,
		ClearanceRejected,
		CapacityReduced,
	},
	StageInstallation: {
		ClearanceReceived,
		SiteVisitCompleted,
		SixtyPercentPaid,
		OngoingInstallation,
		InstallationCompleted,
	},
	StageConnection: {
		DocumentSubmission,
		EstimatePaid,
		ConnectionComplete,
		Procedure,
	},
}

var defaultStatus = map[Stage]Status{
	StageClearance:    ClearancePending,
	StageInstallation: ClearanceReceived,
	StageConnection:   DocumentSubmission,
}

// ValidStage reports whether s names a known stage.
func ValidStage(s Stage) bool {
	_, ok := defaultStatus[s]
	return ok
}

// ValidStatus reports whether value belongs to the stage's vocabulary.
func ValidStatus(stage Stage, value Status) bool {
	for _, v := range StatusValues[stage] {
		if v == value {
			return true
		}
	}
	return false
}

// DefaultStatus returns the initial status a new stage record carries.
func DefaultStatus(stage Stage) Status {
	return defaultStatus[stage]
}
