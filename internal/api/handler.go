// Package api exposes the job tracker over HTTP.
package api

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/north-cloud/job-tracker/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/job-tracker/internal/domain"
	"github.com/jonesrussell/north-cloud/job-tracker/internal/service"
	"github.com/jonesrussell/north-cloud/job-tracker/internal/spreadsheet"
)

const exportFilename = "applications.xlsx"

// ApplicationHandler serves the application endpoints.
type ApplicationHandler struct {
	handlers *service.Handlers
	owners   OwnerResolver
	ids      service.IDGenerator
	logger   logger.Logger
}

// NewApplicationHandler creates the handler. A nil owners uses JWTOwnerResolver and
// a nil ids uses service.UUIDGenerator.
func NewApplicationHandler(
	handlers *service.Handlers,
	owners OwnerResolver,
	ids service.IDGenerator,
	log logger.Logger,
) *ApplicationHandler {
	if owners == nil {
		owners = JWTOwnerResolver{}
	}
	if ids == nil {
		ids = service.UUIDGenerator{}
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &ApplicationHandler{handlers: handlers, owners: owners, ids: ids, logger: log}
}

// List handles GET /api/v1/applications.
func (h *ApplicationHandler) List(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}

	apps, err := h.handlers.ListApplications.Handle(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toApplicationResponses(apps))
}

// Create handles POST /api/v1/applications.
func (h *ApplicationHandler) Create(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}

	var req createApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	appliedAt, err := domain.ParseAppliedDate(req.AppliedAt)
	if err != nil {
		respondError(c, err)
		return
	}
	app, err := h.handlers.CreateApplication.Handle(c.Request.Context(), service.CreateApplicationInput{
		ID:              h.ids.NewID(),
		OwnerID:         ownerID,
		CompanyName:     req.CompanyName,
		RoleTitle:       req.RoleTitle,
		RoleDescription: req.RoleDescription,
		URL:             req.URL,
		AppliedAt:       appliedAt,
		Status:          domain.Status(req.Status),
		InitialComment:  strings.TrimSpace(req.InitialComment),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toApplicationResponse(app))
}

// Get handles GET /api/v1/applications/:id.
func (h *ApplicationHandler) Get(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}

	h.respondWithApplication(c, c.Param("id"), ownerID)
}

// UpdateStatus handles PATCH /api/v1/applications/:id.
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	id := c.Param("id")
	err = h.handlers.UpdateApplicationStatus.Handle(c.Request.Context(), service.UpdateApplicationStatusInput{
		ID:      id,
		OwnerID: ownerID,
		Status:  status,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondWithApplication(c, id, ownerID)
}

// AddComment handles POST /api/v1/applications/:id/comments.
func (h *ApplicationHandler) AddComment(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}

	var req addCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	id := c.Param("id")
	err := h.handlers.AddComment.Handle(c.Request.Context(), service.AddCommentInput{
		ID:      id,
		OwnerID: ownerID,
		Message: req.Comment,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondWithApplication(c, id, ownerID)
}

// Statuses handles GET /api/v1/statuses.
func (h *ApplicationHandler) Statuses(c *gin.Context) {
	statuses := domain.AllStatuses()
	out := make([]statusResponse, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, statusResponse{Value: s, Label: s.Label()})
	}
	c.JSON(http.StatusOK, out)
}

// Export handles GET /api/v1/exports/applications.
func (h *ApplicationHandler) Export(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}

	apps, err := h.handlers.ListApplications.Handle(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err = spreadsheet.Write(&buf, apps); err != nil {
		respondError(c, err)
		return
	}

	h.logger.Info("Applications exported",
		logger.String("owner_id", ownerID),
		logger.Int("count", len(apps)),
	)

	c.Header("Content-Disposition", `attachment; filename="`+exportFilename+`"`)
	c.Data(http.StatusOK, spreadsheet.ContentType, buf.Bytes())
}

func (h *ApplicationHandler) owner(c *gin.Context) (string, bool) {
	ownerID, err := h.owners.ResolveOwner(c)
	if err != nil {
		respondError(c, err)
		return "", false
	}
	return ownerID, true
}

func (h *ApplicationHandler) respondWithApplication(c *gin.Context, id, ownerID string) {
	app, found, err := h.handlers.GetApplicationByID.Handle(c.Request.Context(), id, ownerID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !found {
		respondError(c, domain.NewNotFoundError(id))
		return
	}

	c.JSON(http.StatusOK, toApplicationResponse(app))
}
