package users

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"solarline/solar-portal-backend/internal/apperr"
	"solarline/solar-portal-backend/internal/auth"
	"solarline/solar-portal-backend/pkg/workflow"
)

// Handler handles HTTP requests for accounts and authentication
type Handler struct {
	service *Service
	repo    Repository
	logger  *zap.Logger
}

func NewHandler(service *Service, repo Repository, logger *zap.Logger) *Handler {
	return &Handler{service: service, repo: repo, logger: logger}
}

// RegisterAuthRoutes registers the unauthenticated login endpoint and
// the token-guarded register endpoint.
func (h *Handler) RegisterAuthRoutes(router *gin.RouterGroup, secret string) {
	group := router.Group("/auth")
	{
		group.POST("/login", h.login)
		group.POST("/register", auth.RequireAuth(secret), h.register)
	}
}

// RegisterRoutes registers user listing routes (token-guarded by the
// caller).
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/users")
	{
		group.GET("", h.listUsers)
		group.GET("/technical-officers", h.listTechnicalOfficers)
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// login handles POST /api/auth/login
func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		status := apperr.Status(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("Login failed", zap.Error(err))
			c.JSON(status, gin.H{"error": "login failed"})
			return
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// register handles POST /api/auth/register (team leaders only)
func (h *Handler) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.service.Register(c.Request.Context(), auth.MustActor(c), req)
	if err != nil {
		status := apperr.Status(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("Registration failed", zap.Error(err))
			c.JSON(status, gin.H{"error": "registration failed"})
			return
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, user)
}

// listUsers handles GET /api/users (team leaders only)
func (h *Handler) listUsers(c *gin.Context) {
	actor := auth.MustActor(c)
	if !workflow.CanManageUsers(actor.Role) {
		err := apperr.Forbidden("only team leaders can list users")
		c.JSON(apperr.Status(err), gin.H{"error": err.Error()})
		return
	}

	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}

	c.JSON(http.StatusOK, list)
}

// listTechnicalOfficers handles GET /api/users/technical-officers,
// used by assignment pickers. Any authenticated user may call it.
func (h *Handler) listTechnicalOfficers(c *gin.Context) {
	officers, err := h.repo.ListByRole(c.Request.Context(), workflow.RoleTechnicalOfficer)
	if err != nil {
		h.logger.Error("Failed to list technical officers", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list technical officers"})
		return
	}

	refs := make([]Ref, 0, len(officers))
	for _, u := range officers {
		refs = append(refs, Ref{ID: u.ID, Name: u.Name, Email: u.Email})
	}

	c.JSON(http.StatusOK, refs)
}
