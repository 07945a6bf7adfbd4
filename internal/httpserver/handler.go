package httpserver

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dsgov-acme/devstream-notification-service/internal/errs"
	"github.com/dsgov-acme/devstream-notification-service/internal/localization"
	"github.com/dsgov-acme/devstream-notification-service/internal/model"
	"github.com/dsgov-acme/devstream-notification-service/internal/service"
)

// Handler delegates HTTP requests into the services. All domain logic
// lives behind it.
type Handler struct {
	messages      *service.MessageService
	templates     *service.TemplateService
	layouts       *service.EmailLayoutService
	localization  *localization.Service
	defaultLocale string
	logger        *zap.Logger
}

func NewHandler(
	messages *service.MessageService,
	templates *service.TemplateService,
	layouts *service.EmailLayoutService,
	loc *localization.Service,
	defaultLocale string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		messages:      messages,
		templates:     templates,
		layouts:       layouts,
		localization:  loc,
		defaultLocale: defaultLocale,
		logger:        logger,
	}
}

type sendMessageRequest struct {
	UserID             string            `json:"userId" binding:"required"`
	MessageTemplateKey string            `json:"messageTemplateKey" binding:"required"`
	Parameters         map[string]string `json:"parameters"`
}

func (h *Handler) SendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	msg := &model.Message{
		UserID:             req.UserID,
		MessageTemplateKey: req.MessageTemplateKey,
		Parameters:         req.Parameters,
	}
	if msg.Parameters == nil {
		msg.Parameters = map[string]string{}
	}

	saved, err := h.messages.Send(c.Request.Context(), msg)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, saved)
}

func (h *Handler) GetMessage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid message id"})
		return
	}

	msg, err := h.messages.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

func (h *Handler) PutTemplate(c *gin.Context) {
	var tpl model.Template
	if err := c.ShouldBindJSON(&tpl); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	saved, err := h.templates.CreateOrUpdate(c.Request.Context(), c.Param("key"), &tpl)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (h *Handler) GetTemplate(c *gin.Context) {
	tpl, err := h.templates.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tpl)
}

func (h *Handler) PutLayout(c *gin.Context) {
	var layout model.EmailLayout
	if err := c.ShouldBindJSON(&layout); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	saved, err := h.layouts.CreateOrUpdate(c.Request.Context(), c.Param("key"), &layout)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (h *Handler) GetLayout(c *gin.Context) {
	layout, err := h.layouts.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, layout)
}

func (h *Handler) ExportLocalizationData(c *gin.Context) {
	targetLocale := c.Query("locale")

	data, err := h.localization.Export(c.Request.Context(), targetLocale, h.defaultLocale)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/xliff+xml", data)
}

func (h *Handler) ImportLocalizationData(c *gin.Context) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "failed to read request body"})
		return
	}

	targetLocale, updated, err := h.localization.Import(c.Request.Context(), data)
	if err != nil {
		h.writeError(c, err)
		return
	}

	// The parser mutates templates in memory only; persistence happens
	// here, after the whole document validated.
	for _, tpl := range updated {
		if _, err := h.templates.CreateOrUpdate(c.Request.Context(), tpl.Key, tpl); err != nil {
			h.writeError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"targetLocale":     targetLocale,
		"updatedTemplates": len(updated),
	})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errs.IsBadData(err):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errs.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	default:
		h.logger.Error("Internal error handling request", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
	}
}
