package reports

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"solarline/solar-portal-backend/internal/projects"
)

// Handler handles HTTP requests for report downloads
type Handler struct {
	projects *projects.Service
	exporter *RegisterExporter
	logger   *zap.Logger
}

func NewHandler(projectService *projects.Service, logger *zap.Logger) *Handler {
	return &Handler{
		projects: projectService,
		exporter: NewRegisterExporter(),
		logger:   logger,
	}
}

// RegisterRoutes registers report routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/reports")
	{
		group.GET("/projects/export", h.exportRegister)
	}
}

// exportRegister handles GET /api/reports/projects/export and streams
// the project register as an xlsx attachment.
func (h *Handler) exportRegister(c *gin.Context) {
	items, err := h.projects.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to load projects for export", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export projects"})
		return
	}

	filename := fmt.Sprintf("projects-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := h.exporter.Export(items, c.Writer); err != nil {
		h.logger.Error("Failed to write export", zap.Error(err))
	}
}
