package projects

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"solarline/solar-portal-backend/internal/apperr"
	"solarline/solar-portal-backend/internal/auth"
	"solarline/solar-portal-backend/pkg/workflow"
)

// Handler handles HTTP requests for project operations
type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers project routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/projects")
	{
		group.GET("", h.listProjects)
		group.POST("", h.createProject)
		group.GET("/stats/overview", h.statsOverview)
		group.GET("/:id", h.getProject)
		group.PUT("/:id", h.updateProject)
		group.PATCH("/:id/stages/:stage", h.updateStage)
	}
}

// listProjects handles GET /api/projects
func (h *Handler) listProjects(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list projects", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list projects"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// createProject handles POST /api/projects (team leaders only)
func (h *Handler) createProject(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	project, err := h.service.Create(c.Request.Context(), auth.MustActor(c), req)
	if err != nil {
		h.respondError(c, err, "Failed to create project")
		return
	}

	c.JSON(http.StatusCreated, project)
}

// getProject handles GET /api/projects/:id
func (h *Handler) getProject(c *gin.Context) {
	id, ok := h.projectID(c)
	if !ok {
		return
	}

	project, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "Failed to get project")
		return
	}

	c.JSON(http.StatusOK, project)
}

// updateProject handles PUT /api/projects/:id
func (h *Handler) updateProject(c *gin.Context) {
	id, ok := h.projectID(c)
	if !ok {
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	project, err := h.service.Update(c.Request.Context(), auth.MustActor(c), id, req)
	if err != nil {
		h.respondError(c, err, "Failed to update project")
		return
	}

	c.JSON(http.StatusOK, project)
}

// updateStage handles PATCH /api/projects/:id/stages/:stage, the
// quick-update path. It runs the same checks as the full update.
func (h *Handler) updateStage(c *gin.Context) {
	id, ok := h.projectID(c)
	if !ok {
		return
	}

	stage := workflow.Stage(c.Param("stage"))

	var patch StagePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	project, err := h.service.UpdateStage(c.Request.Context(), auth.MustActor(c), id, stage, patch)
	if err != nil {
		h.respondError(c, err, "Failed to update stage")
		return
	}

	c.JSON(http.StatusOK, project)
}

// statsOverview handles GET /api/projects/stats/overview
func (h *Handler) statsOverview(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to compute statistics", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute statistics"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) projectID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return primitive.NilObjectID, false
	}
	return id, true
}

func (h *Handler) respondError(c *gin.Context, err error, logMsg string) {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(logMsg, zap.Error(err))
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
