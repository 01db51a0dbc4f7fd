package projects

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"solarline/solar-portal-backend/internal/apperr"
	"solarline/solar-portal-backend/internal/auth"
	"solarline/solar-portal-backend/pkg/workflow"
)

// Service provides business logic for project tracking. Every mutation
// path runs the same permission and gating checks; there is no broad
// path that skips them.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateRequest is the payload for creating a project.
type CreateRequest struct {
	ProjectNumber            string     `json:"projectNumber"`
	Name                     string     `json:"name"`
	Location                 string     `json:"location"`
	SystemType               SystemType `json:"systemType"`
	Size                     float64    `json:"size"`
	Inverter                 string     `json:"inverter"`
	PVPanel                  string     `json:"pvPanel"`
	Battery                  string     `json:"battery"`
	AssignedTechnicalOfficer string     `json:"assignedTechnicalOfficer"`
}

// Create creates a project with all three stage records at their
// defaults. Only team leaders may create projects.
func (s *Service) Create(ctx context.Context, actor auth.Actor, req CreateRequest) (*Project, error) {
	if !workflow.CanCreateProject(actor.Role) {
		return nil, apperr.Forbidden("only team leaders can create projects")
	}

	officer, err := validateCreate(req)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	project := &Project{
		ProjectNumber:            strings.TrimSpace(req.ProjectNumber),
		Name:                     strings.TrimSpace(req.Name),
		Location:                 strings.TrimSpace(req.Location),
		SystemType:               req.SystemType,
		Size:                     req.Size,
		Inverter:                 strings.TrimSpace(req.Inverter),
		PVPanel:                  strings.TrimSpace(req.PVPanel),
		Battery:                  strings.TrimSpace(req.Battery),
		AssignedTechnicalOfficer: officer,
		CreatedBy:                actor.ID,
		Clearance:                NewStageRecord(workflow.StageClearance, now),
		Installation:             NewStageRecord(workflow.StageInstallation, now),
		Connection:               NewStageRecord(workflow.StageConnection, now),
	}

	if err := s.repo.Create(ctx, project); err != nil {
		if err == ErrDuplicateNumber {
			return nil, apperr.Invalid("projectNumber", "already exists")
		}
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.logger.Info("Project created",
		zap.String("project_id", project.ID.Hex()),
		zap.String("project_number", project.ProjectNumber),
		zap.String("created_by", actor.ID.Hex()))

	project.RecomputeOverall()
	return project, nil
}

// Get returns a project by id.
func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*Project, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	if project == nil {
		return nil, apperr.NotFound("project")
	}
	project.RecomputeOverall()
	return project, nil
}

// List returns all projects newest first with identities expanded.
func (s *Service) List(ctx context.Context) ([]ListItem, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	for i := range items {
		items[i].RecomputeOverall()
	}
	return items, nil
}

// StagePatch is the only accepted shape for mutating a stage: a status
// token. Everything else on the stage record is recomputed here.
type StagePatch struct {
	Status workflow.Status `json:"status" binding:"required"`
}

// UpdateStage applies a single-stage status change: permission check,
// gating check, then the stage record is rewritten with the new
// status, actor and timestamp. The persisted update is scoped to the
// one stage sub-document.
func (s *Service) UpdateStage(ctx context.Context, actor auth.Actor, id primitive.ObjectID, stage workflow.Stage, patch StagePatch) (*Project, error) {
	if !workflow.ValidStage(stage) {
		return nil, apperr.Invalid("stage", fmt.Sprintf("unknown stage %q", stage))
	}

	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	if project == nil {
		return nil, apperr.NotFound("project")
	}

	now := time.Now().UTC()
	if err := applyStatus(project, stage, patch.Status, actor, now); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateFields(ctx, id, map[string]any{
		string(stage): *project.Stage(stage),
		"updatedAt":   now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update stage: %w", err)
	}
	if updated == nil {
		return nil, apperr.NotFound("project")
	}

	s.logger.Info("Stage updated",
		zap.String("project_id", id.Hex()),
		zap.String("stage", string(stage)),
		zap.String("status", string(patch.Status)),
		zap.String("updated_by", actor.ID.Hex()))

	updated.RecomputeOverall()
	return updated, nil
}

// UpdateRequest is the payload for a full project update. Stage
// sub-objects carry only a status and are routed through the same
// logic as single-stage patches. projectNumber and createdBy are
// immutable.
type UpdateRequest struct {
	Name                     *string     `json:"name"`
	Location                 *string     `json:"location"`
	SystemType               *SystemType `json:"systemType"`
	Size                     *float64    `json:"size"`
	Inverter                 *string     `json:"inverter"`
	PVPanel                  *string     `json:"pvPanel"`
	Battery                  *string     `json:"battery"`
	AssignedTechnicalOfficer *string     `json:"assignedTechnicalOfficer"`
	Clearance                *StagePatch `json:"clearance"`
	Installation             *StagePatch `json:"installation"`
	Connection               *StagePatch `json:"connection"`
}

func (r *UpdateRequest) hasBasicFields() bool {
	return r.Name != nil || r.Location != nil || r.SystemType != nil ||
		r.Size != nil || r.Inverter != nil || r.PVPanel != nil ||
		r.Battery != nil || r.AssignedTechnicalOfficer != nil
}

func (r *UpdateRequest) stagePatch(stage workflow.Stage) *StagePatch {
	switch stage {
	case workflow.StageClearance:
		return r.Clearance
	case workflow.StageInstallation:
		return r.Installation
	case workflow.StageConnection:
		return r.Connection
	}
	return nil
}

// Update applies a partial update. Basic fields require the team
// leader role; each stage patch runs the full permission and gating
// checks. All checks pass before anything is persisted, so a rejected
// request has no effect.
func (s *Service) Update(ctx context.Context, actor auth.Actor, id primitive.ObjectID, req UpdateRequest) (*Project, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	if project == nil {
		return nil, apperr.NotFound("project")
	}

	if req.hasBasicFields() && !workflow.CanEditProjectFields(actor.Role) {
		return nil, apperr.Forbidden("only team leaders can edit project details")
	}

	now := time.Now().UTC()
	fields := map[string]any{}

	if err := applyBasicFields(project, &req, fields); err != nil {
		return nil, err
	}

	// Stages apply in lifecycle order, so a request that approves
	// clearance may advance installation in the same call.
	for _, stage := range workflow.Stages {
		patch := req.stagePatch(stage)
		if patch == nil {
			continue
		}
		if err := applyStatus(project, stage, patch.Status, actor, now); err != nil {
			return nil, err
		}
		fields[string(stage)] = *project.Stage(stage)
	}

	if len(fields) == 0 {
		project.RecomputeOverall()
		return project, nil
	}
	fields["updatedAt"] = now

	updated, err := s.repo.UpdateFields(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	if updated == nil {
		return nil, apperr.NotFound("project")
	}

	s.logger.Info("Project updated",
		zap.String("project_id", id.Hex()),
		zap.Int("fields", len(fields)),
		zap.String("updated_by", actor.ID.Hex()))

	updated.RecomputeOverall()
	return updated, nil
}

// Stats returns the overview counts for the reports dashboard.
func (s *Service) Stats(ctx context.Context) (*Statistics, error) {
	total, err := s.repo.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}

	stats := &Statistics{TotalProjects: total}

	groups := []struct {
		field string
		dest  *[]GroupCount
	}{
		{"systemType", &stats.BySystemType},
		{"clearance.status", &stats.ClearanceStats},
		{"installation.status", &stats.InstallationStats},
		{"connection.status", &stats.ConnectionStats},
	}
	for _, g := range groups {
		counts, err := s.repo.CountByGroup(ctx, g.field)
		if err != nil {
			return nil, fmt.Errorf("failed to group by %s: %w", g.field, err)
		}
		*g.dest = counts
	}

	return stats, nil
}

// applyStatus is the single stage-mutation path: vocabulary check,
// permission check, gating check, then status, actor, timestamp and
// set-once derived dates. Dates already set are never overwritten or
// cleared, so re-applying a status refreshes updatedAt/updatedBy only.
func applyStatus(p *Project, stage workflow.Stage, status workflow.Status, actor auth.Actor, now time.Time) error {
	if !workflow.ValidStatus(stage, status) {
		return apperr.Invalid(string(stage)+".status", fmt.Sprintf("%q is not a valid %s status", status, stage))
	}
	if !workflow.CanEditStage(actor.Role, stage) {
		return apperr.Forbidden("only %s can edit the %s stage", roleList(stage), stage)
	}
	if !workflow.CanAdvance(stage, p.Snapshot()) {
		gate, _ := workflow.GateFor(stage)
		return &apperr.PreconditionError{
			Stage:    string(stage),
			Blocking: string(gate.Blocking),
			Required: string(gate.Required),
		}
	}

	rec := p.Stage(stage)
	rec.Status = status
	actorID := actor.ID
	rec.UpdatedBy = &actorID
	rec.UpdatedAt = now

	switch {
	case stage == workflow.StageClearance && status == workflow.ClearanceApplied && rec.AppliedDate == nil:
		rec.AppliedDate = &now
	case stage == workflow.StageClearance && status == workflow.ClearanceApproved && rec.ReceivedDate == nil:
		rec.ReceivedDate = &now
	case stage == workflow.StageInstallation && status == workflow.InstallationCompleted && rec.CompletedDate == nil:
		rec.CompletedDate = &now
	case stage == workflow.StageConnection && status == workflow.ConnectionComplete && rec.CompletedDate == nil:
		rec.CompletedDate = &now
	}

	return nil
}

func roleList(stage workflow.Stage) string {
	editors := workflow.StageEditors(stage)
	parts := make([]string, len(editors))
	for i, r := range editors {
		parts[i] = string(r)
	}
	return strings.Join(parts, ", ")
}

func applyBasicFields(p *Project, req *UpdateRequest, fields map[string]any) error {
	invalid := map[string]string{}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			invalid["name"] = "required"
		} else {
			p.Name = strings.TrimSpace(*req.Name)
			fields["name"] = p.Name
		}
	}
	if req.Location != nil {
		if strings.TrimSpace(*req.Location) == "" {
			invalid["location"] = "required"
		} else {
			p.Location = strings.TrimSpace(*req.Location)
			fields["location"] = p.Location
		}
	}
	if req.SystemType != nil {
		if !ValidSystemType(*req.SystemType) {
			invalid["systemType"] = "must be one of on_grid, off_grid, hybrid"
		} else {
			p.SystemType = *req.SystemType
			fields["systemType"] = p.SystemType
		}
	}
	if req.Size != nil {
		if *req.Size < 0 {
			invalid["size"] = "must be non-negative"
		} else {
			p.Size = *req.Size
			fields["size"] = p.Size
		}
	}
	if req.Inverter != nil {
		if strings.TrimSpace(*req.Inverter) == "" {
			invalid["inverter"] = "required"
		} else {
			p.Inverter = strings.TrimSpace(*req.Inverter)
			fields["inverter"] = p.Inverter
		}
	}
	if req.PVPanel != nil {
		if strings.TrimSpace(*req.PVPanel) == "" {
			invalid["pvPanel"] = "required"
		} else {
			p.PVPanel = strings.TrimSpace(*req.PVPanel)
			fields["pvPanel"] = p.PVPanel
		}
	}
	if req.Battery != nil {
		p.Battery = strings.TrimSpace(*req.Battery)
		fields["battery"] = p.Battery
	}
	if req.AssignedTechnicalOfficer != nil {
		raw := strings.TrimSpace(*req.AssignedTechnicalOfficer)
		if raw == "" {
			p.AssignedTechnicalOfficer = nil
			fields["assignedTechnicalOfficer"] = nil
		} else if oid, err := primitive.ObjectIDFromHex(raw); err != nil {
			invalid["assignedTechnicalOfficer"] = "must be a valid user id"
		} else {
			p.AssignedTechnicalOfficer = &oid
			fields["assignedTechnicalOfficer"] = oid
		}
	}

	if len(invalid) > 0 {
		return &apperr.ValidationError{Fields: invalid}
	}
	return nil
}

func validateCreate(req CreateRequest) (*primitive.ObjectID, error) {
	invalid := map[string]string{}

	if strings.TrimSpace(req.ProjectNumber) == "" {
		invalid["projectNumber"] = "required"
	}
	if strings.TrimSpace(req.Name) == "" {
		invalid["name"] = "required"
	}
	if strings.TrimSpace(req.Location) == "" {
		invalid["location"] = "required"
	}
	if !ValidSystemType(req.SystemType) {
		invalid["systemType"] = "must be one of on_grid, off_grid, hybrid"
	}
	if req.Size < 0 {
		invalid["size"] = "must be non-negative"
	}
	if strings.TrimSpace(req.Inverter) == "" {
		invalid["inverter"] = "required"
	}
	if strings.TrimSpace(req.PVPanel) == "" {
		invalid["pvPanel"] = "required"
	}

	var officer *primitive.ObjectID
	if raw := strings.TrimSpace(req.AssignedTechnicalOfficer); raw != "" {
		oid, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			invalid["assignedTechnicalOfficer"] = "must be a valid user id"
		} else {
			officer = &oid
		}
	}

	if len(invalid) > 0 {
		return nil, &apperr.ValidationError{Fields: invalid}
	}
	return officer, nil
}
