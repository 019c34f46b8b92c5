package email

import (
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shibbu04/scaler-apm/internal/email/transport"
	"github.com/shibbu04/scaler-apm/platform/httpkit"
	"github.com/shibbu04/scaler-apm/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// trackingPixel is a 1x1 transparent PNG served on open tracking.
var trackingPixel, _ = base64.StdEncoding.DecodeString(
	"iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8/5+hHgAHggJ/PchI7wAAAABJRU5ErkJggg==")

type Handler struct {
	svc *Service
	val *validator.Validator
}

func NewHandler(svc *Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts the email routes. The tracking endpoints accept
// GET too, since email clients fetch pixels and links with plain requests.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/subscribe", h.Subscribe)
	rg.POST("/track-open", h.TrackOpen)
	rg.GET("/track-open", h.TrackOpen)
	rg.POST("/track-click", h.TrackClick)
	rg.GET("/track-click", h.TrackClick)
	rg.POST("/send-nurture", h.SendNurture)
	rg.GET("/templates", h.Templates)
	rg.POST("/bulk-send", h.BulkSend)
}

func (h *Handler) Subscribe(c *gin.Context) {
	var req transport.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	resp, err := h.svc.Subscribe(c.Request.Context(), req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, resp)
}

// TrackOpen serves the pixel unconditionally so a rendering failure in the
// client never shows a broken image.
func (h *Handler) TrackOpen(c *gin.Context) {
	var req transport.TrackOpenRequest
	if c.Request.Method == http.MethodGet {
		req.Email = c.Query("email")
	} else {
		_ = c.ShouldBindJSON(&req)
	}

	h.svc.TrackOpen(c.Request.Context(), req.Email)

	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
	c.Data(http.StatusOK, "image/png", trackingPixel)
}

func (h *Handler) TrackClick(c *gin.Context) {
	var req transport.TrackClickRequest
	if c.Request.Method == http.MethodGet {
		req.Email = c.Query("email")
		req.URL = c.Query("url")
	} else if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	target, err := h.svc.TrackClick(c.Request.Context(), req.Email, req.URL)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	c.Redirect(http.StatusFound, target)
}

func (h *Handler) SendNurture(c *gin.Context) {
	var req transport.NurtureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	resp, err := h.svc.SendNurture(c.Request.Context(), req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Templates(c *gin.Context) {
	httpkit.OK(c, h.svc.Templates())
}

func (h *Handler) BulkSend(c *gin.Context) {
	var req transport.BulkSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	resp, err := h.svc.BulkSend(c.Request.Context(), req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, resp)
}
