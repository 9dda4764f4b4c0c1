package handler

import (
	"net/http"
	"strconv"

	"autoassist_backend/internal/adapters/storage"
	"autoassist_backend/internal/leads/repository"
	"autoassist_backend/internal/leads/service"
	"autoassist_backend/internal/leads/transport"
	"autoassist_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const msgInvalidRequest = "invalid request"

type Handler struct {
	svc         *service.Service
	storageSvc  storage.StorageService
	mediaBucket string
}

// New creates the leads handler. storageSvc may be nil when object storage
// is not configured; the media endpoint then reports it as unavailable.
func New(svc *service.Service, storageSvc storage.StorageService, mediaBucket string) *Handler {
	return &Handler{svc: svc, storageSvc: storageSvc, mediaBucket: mediaBucket}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.GET("/:id/messages", h.ListMessages)
	rg.GET("/:id/messages/:messageId/media", h.MessageMedia)
	rg.POST("/:id/rescore", h.Rescore)
}

func (h *Handler) List(c *gin.Context) {
	orgID, ok := tenantID(c)
	if !ok {
		return
	}

	params := repository.ListParams{
		OrganizationID: orgID,
		Quality:        c.Query("quality"),
		MinScore:       intQuery(c, "minScore", 0),
		Limit:          intQuery(c, "limit", 50),
		Offset:         intQuery(c, "offset", 0),
	}

	leads, err := h.svc.ListLeads(c.Request.Context(), params)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, gin.H{"leads": transport.ToLeadResponses(leads)})
}

func (h *Handler) GetByID(c *gin.Context) {
	lead, ok := h.loadLead(c)
	if !ok {
		return
	}

	httpkit.OK(c, transport.ToLeadResponse(lead))
}

func (h *Handler) ListMessages(c *gin.Context) {
	lead, ok := h.loadLead(c)
	if !ok {
		return
	}

	messages, err := h.svc.ListMessages(c.Request.Context(), lead.ID,
		intQuery(c, "limit", 100), intQuery(c, "offset", 0))
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, gin.H{"messages": transport.ToMessageResponses(messages)})
}

// MessageMedia returns a short-lived presigned download URL for the media
// attached to a conversation message.
func (h *Handler) MessageMedia(c *gin.Context) {
	lead, ok := h.loadLead(c)
	if !ok {
		return
	}

	messageID, err := uuid.Parse(c.Param("messageId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	msg, err := h.svc.GetMessage(c.Request.Context(), lead.ID, messageID)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	if msg.MediaKey == nil {
		httpkit.Error(c, http.StatusNotFound, "message has no media", nil)
		return
	}
	if h.storageSvc == nil {
		httpkit.Error(c, http.StatusServiceUnavailable, "media storage is not configured", nil)
		return
	}

	presigned, err := h.storageSvc.GenerateDownloadURL(c.Request.Context(), h.mediaBucket, *msg.MediaKey)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, gin.H{
		"url":       presigned.URL,
		"expiresAt": presigned.ExpiresAt,
	})
}

func (h *Handler) Rescore(c *gin.Context) {
	lead, ok := h.loadLead(c)
	if !ok {
		return
	}

	result, err := h.svc.Rescore(c.Request.Context(), lead.ID)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, transport.RescoreResponse{
		Lead:       transport.ToLeadResponse(result.Lead),
		TimeWaster: result.TimeWaster,
		Tags:       result.Tags,
	})
}

// loadLead parses the :id param, loads the lead, and enforces the caller's
// organization scope.
func (h *Handler) loadLead(c *gin.Context) (repository.Lead, bool) {
	orgID, ok := tenantID(c)
	if !ok {
		return repository.Lead{}, false
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return repository.Lead{}, false
	}

	lead, err := h.svc.GetLead(c.Request.Context(), id)
	if err != nil {
		httpkit.HandleError(c, err)
		return repository.Lead{}, false
	}
	if lead.OrganizationID != orgID {
		httpkit.Error(c, http.StatusNotFound, "lead not found", nil)
		return repository.Lead{}, false
	}

	return lead, true
}

func tenantID(c *gin.Context) (uuid.UUID, bool) {
	value, ok := c.Get(httpkit.ContextTenantIDKey)
	if !ok {
		httpkit.Error(c, http.StatusForbidden, "organization scope missing", nil)
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	if !ok {
		httpkit.Error(c, http.StatusForbidden, "organization scope missing", nil)
		return uuid.Nil, false
	}
	return id, true
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
