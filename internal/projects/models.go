package projects

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"solarline/solar-portal-backend/internal/users"
	"solarline/solar-portal-backend/pkg/workflow"
)

// SystemType classifies the installation's grid arrangement.
type SystemType string

const (
	SystemOnGrid  SystemType = "on_grid"
	SystemOffGrid SystemType = "off_grid"
	SystemHybrid  SystemType = "hybrid"
)

// ValidSystemType reports whether t is a known system type.
func ValidSystemType(t SystemType) bool {
	switch t {
	case SystemOnGrid, SystemOffGrid, SystemHybrid:
		return true
	}
	return false
}

// StageRecord tracks one administrative stage of a project. Which date
// fields apply depends on the stage: clearance carries appliedDate and
// receivedDate, installation and connection carry completedDate.
// Dates are set once when the matching status is first reached and
// never cleared by later status changes.
type StageRecord struct {
	Status        workflow.Status     `bson:"status" json:"status"`
	AppliedDate   *time.Time          `bson:"appliedDate,omitempty" json:"appliedDate,omitempty"`
	ReceivedDate  *time.Time          `bson:"receivedDate,omitempty" json:"receivedDate,omitempty"`
	CompletedDate *time.Time          `bson:"completedDate,omitempty" json:"completedDate,omitempty"`
	UpdatedBy     *primitive.ObjectID `bson:"updatedBy,omitempty" json:"updatedBy,omitempty"`
	UpdatedAt     time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// NewStageRecord returns a stage record at the stage's default status.
func NewStageRecord(stage workflow.Stage, now time.Time) StageRecord {
	return StageRecord{
		Status:    workflow.DefaultStatus(stage),
		UpdatedAt: now,
	}
}

// Project is a solar installation tracked through the three-stage
// workflow.
type Project struct {
	ID                       primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ProjectNumber            string              `bson:"projectNumber" json:"projectNumber"`
	Name                     string              `bson:"name" json:"name"`
	Location                 string              `bson:"location" json:"location"`
	SystemType               SystemType          `bson:"systemType" json:"systemType"`
	Size                     float64             `bson:"size" json:"size"` // kW
	Inverter                 string              `bson:"inverter" json:"inverter"`
	PVPanel                  string              `bson:"pvPanel" json:"pvPanel"`
	Battery                  string              `bson:"battery,omitempty" json:"battery,omitempty"`
	AssignedTechnicalOfficer *primitive.ObjectID `bson:"assignedTechnicalOfficer,omitempty" json:"assignedTechnicalOfficer,omitempty"`
	CreatedBy                primitive.ObjectID  `bson:"createdBy" json:"createdBy"`
	Clearance                StageRecord         `bson:"clearance" json:"clearance"`
	Installation             StageRecord         `bson:"installation" json:"installation"`
	Connection               StageRecord         `bson:"connection" json:"connection"`
	CreatedAt                time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt                time.Time           `bson:"updatedAt" json:"updatedAt"`

	// OverallStatus is derived from the stage statuses on every read
	// and never persisted.
	OverallStatus workflow.Overall `bson:"-" json:"overallStatus"`
}

// Stage returns the record for the given stage.
func (p *Project) Stage(stage workflow.Stage) *StageRecord {
	switch stage {
	case workflow.StageClearance:
		return &p.Clearance
	case workflow.StageInstallation:
		return &p.Installation
	case workflow.StageConnection:
		return &p.Connection
	}
	return nil
}

// Snapshot extracts the stage statuses for the gating engine and the
// status aggregator.
func (p *Project) Snapshot() workflow.Snapshot {
	return workflow.Snapshot{
		Clearance:    p.Clearance.Status,
		Installation: p.Installation.Status,
		Connection:   p.Connection.Status,
	}
}

// RecomputeOverall refreshes the derived overall status.
func (p *Project) RecomputeOverall() {
	p.OverallStatus = workflow.OverallStatus(p.Snapshot())
}

// ListItem is a project with creator and officer identity expanded for
// listings.
type ListItem struct {
	Project `bson:",inline"`
	Officer *users.Ref `bson:"officer,omitempty" json:"assignedTechnicalOfficerInfo,omitempty"`
	Creator *users.Ref `bson:"creator,omitempty" json:"createdByInfo,omitempty"`
}

// GroupCount is one bucket of a grouped count aggregation.
type GroupCount struct {
	Key   string `bson:"_id" json:"key"`
	Count int64  `bson:"count" json:"count"`
}

// Statistics is the payload of the stats overview endpoint.
type Statistics struct {
	TotalProjects     int64        `json:"totalProjects"`
	BySystemType      []GroupCount `json:"projectsBySystemType"`
	ClearanceStats    []GroupCount `json:"clearanceStats"`
	InstallationStats []GroupCount `json:"installationStats"`
	ConnectionStats   []GroupCount `json:"connectionStats"`
}
