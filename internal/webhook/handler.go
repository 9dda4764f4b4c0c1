package webhook

import (
	"errors"
	"net/http"
	"time"

	"autoassist_backend/platform/httpkit"
	"autoassist_backend/platform/logger"
	"autoassist_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	errNoOrgContext   = "no organization context"
	errInvalidRequest = "invalid request body"
	errValidation     = "validation error"
)

// Handler handles webhook HTTP requests.
type Handler struct {
	service *Service
	repo    *Repository
	val     *validator.Validator
	log     *logger.Logger
}

// NewHandler creates a new webhook handler.
func NewHandler(service *Service, repo *Repository, val *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{service: service, repo: repo, val: val, log: log}
}

// ---- Inbound WhatsApp (public, API-key authenticated) ----

// HandleWhatsAppMessage processes an inbound WhatsApp gateway delivery.
// POST /api/v1/webhook/whatsapp
// Authenticated via X-Webhook-API-Key header (set by middleware).
func (h *Handler) HandleWhatsAppMessage(c *gin.Context) {
	orgID, ok := h.getWebhookOrgID(c)
	if !ok {
		return
	}

	var payload InboundPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}

	// The gateway also reports the assistant's own sends; those become
	// history turns, not scored messages.
	if payload.FromMe {
		if err := h.service.RecordReply(c.Request.Context(), payload, orgID); httpkit.HandleError(c, err) {
			return
		}
		httpkit.OK(c, gin.H{"status": "reply recorded"})
		return
	}

	resp, err := h.service.ProcessInbound(c.Request.Context(), payload, orgID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, resp)
}

// ---- Admin API Key Management (JWT authenticated) ----

// CreateAPIKeyRequest is the request body for creating a new API key.
type CreateAPIKeyRequest struct {
	Name           string   `json:"name" validate:"required,min=1,max=100"`
	AllowedDomains []string `json:"allowedDomains" validate:"max=20,dive,max=200"`
}

// APIKeyResponse is returned when listing or creating API keys.
type APIKeyResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	KeyPrefix      string    `json:"keyPrefix"`
	AllowedDomains []string  `json:"allowedDomains"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      string    `json:"createdAt"`
}

// CreateAPIKeyResponse includes the plaintext key (shown only once).
type CreateAPIKeyResponse struct {
	APIKeyResponse
	Key string `json:"key"` // plaintext, shown only once
}

// HandleCreateAPIKey creates a new webhook API key.
// POST /api/v1/admin/webhook/keys
func (h *Handler) HandleCreateAPIKey(c *gin.Context) {
	var req CreateAPIKeyRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	orgID, ok := h.getTenantID(c)
	if !ok {
		return
	}

	plaintext, hash, prefix, err := GenerateAPIKey()
	if err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "failed to generate API key", nil)
		return
	}

	domains := req.AllowedDomains
	if domains == nil {
		domains = []string{}
	}

	key, err := h.repo.Create(c.Request.Context(), orgID, req.Name, hash, prefix, domains)
	if httpkit.HandleError(c, err) {
		return
	}

	h.log.Info("webhook API key created",
		"keyId", key.ID, "organizationId", orgID,
		"createdBy", httpkit.GetIdentity(c).UserID())

	c.JSON(http.StatusCreated, CreateAPIKeyResponse{
		APIKeyResponse: toAPIKeyResponse(key),
		Key:            plaintext,
	})
}

// HandleListAPIKeys lists all webhook API keys for the organization.
// GET /api/v1/admin/webhook/keys
func (h *Handler) HandleListAPIKeys(c *gin.Context) {
	orgID, ok := h.getTenantID(c)
	if !ok {
		return
	}

	keys, err := h.repo.ListByOrganization(c.Request.Context(), orgID)
	if httpkit.HandleError(c, err) {
		return
	}

	result := make([]APIKeyResponse, len(keys))
	for i, k := range keys {
		result[i] = toAPIKeyResponse(k)
	}

	httpkit.OK(c, result)
}

// HandleRevokeAPIKey deactivates a webhook API key.
// DELETE /api/v1/admin/webhook/keys/:keyId
func (h *Handler) HandleRevokeAPIKey(c *gin.Context) {
	orgID, ok := h.getTenantID(c)
	if !ok {
		return
	}

	keyID, err := uuid.Parse(c.Param("keyId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid key ID", nil)
		return
	}

	if err := h.repo.Revoke(c.Request.Context(), keyID, orgID); err != nil {
		if errors.Is(err, ErrAPIKeyNotFound) {
			httpkit.Error(c, http.StatusNotFound, "API key not found", nil)
			return
		}
		httpkit.HandleError(c, err)
		return
	}

	h.log.Info("webhook API key revoked",
		"keyId", keyID, "organizationId", orgID,
		"revokedBy", httpkit.GetIdentity(c).UserID())

	c.JSON(http.StatusOK, gin.H{"message": "API key revoked"})
}

func toAPIKeyResponse(key APIKey) APIKeyResponse {
	return APIKeyResponse{
		ID:             key.ID,
		Name:           key.Name,
		KeyPrefix:      key.KeyPrefix,
		AllowedDomains: key.AllowedDomains,
		IsActive:       key.IsActive,
		CreatedAt:      key.CreatedAt.Format(time.RFC3339),
	}
}

func (h *Handler) getTenantID(c *gin.Context) (uuid.UUID, bool) {
	value, ok := c.Get(httpkit.ContextTenantIDKey)
	if !ok {
		httpkit.Error(c, http.StatusForbidden, errNoOrgContext, nil)
		return uuid.UUID{}, false
	}
	orgID, ok := value.(uuid.UUID)
	if !ok {
		httpkit.Error(c, http.StatusForbidden, errNoOrgContext, nil)
		return uuid.UUID{}, false
	}
	return orgID, true
}

func (h *Handler) getWebhookOrgID(c *gin.Context) (uuid.UUID, bool) {
	orgID, ok := c.Get(ctxWebhookOrgID)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "missing organization context", nil)
		return uuid.UUID{}, false
	}
	return orgID.(uuid.UUID), true
}

func (h *Handler) bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, errInvalidRequest, err.Error())
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, errValidation, err.Error())
		return false
	}
	return true
}
