// Package handler exposes the analytics reports over HTTP.
package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shibbu04/scaler-apm/internal/analytics/repository"
	"github.com/shibbu04/scaler-apm/internal/analytics/service"
	"github.com/shibbu04/scaler-apm/platform/httpkit"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.Dashboard)
	rg.GET("/funnel", h.Funnel)
	rg.GET("/cohort", h.Cohort)
	rg.GET("/attribution", h.Attribution)
	rg.GET("/leads/:id", h.LeadTimeline)
}

// dateLayouts are the accepted formats for startDate/endDate query params.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseRange resolves the caller-supplied window, defaulting to the
// trailing 30 days. A malformed date is a hard 400, never a silent
// full-range query.
func parseRange(c *gin.Context) (repository.DateRange, bool) {
	dr := service.DefaultRange()

	if raw := c.Query("startDate"); raw != "" {
		t, ok := parseDate(raw)
		if !ok {
			httpkit.Error(c, http.StatusBadRequest, "invalid startDate", raw)
			return repository.DateRange{}, false
		}
		dr.From = t
	}
	if raw := c.Query("endDate"); raw != "" {
		t, ok := parseDate(raw)
		if !ok {
			httpkit.Error(c, http.StatusBadRequest, "invalid endDate", raw)
			return repository.DateRange{}, false
		}
		// A bare date means the whole day.
		if len(raw) == len("2006-01-02") {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		dr.To = t
	}
	if dr.To.Before(dr.From) {
		httpkit.Error(c, http.StatusBadRequest, "endDate before startDate", nil)
		return repository.DateRange{}, false
	}
	return dr, true
}

func (h *Handler) Dashboard(c *gin.Context) {
	dr, ok := parseRange(c)
	if !ok {
		return
	}
	resp, err := h.svc.Dashboard(c.Request.Context(), dr)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Funnel(c *gin.Context) {
	dr, ok := parseRange(c)
	if !ok {
		return
	}
	resp, err := h.svc.Funnel(c.Request.Context(), dr, c.Query("segmentBy"))
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Cohort(c *gin.Context) {
	resp, err := h.svc.Cohorts(c.Request.Context(), c.Query("period"))
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Attribution(c *gin.Context) {
	resp, err := h.svc.Attribution(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) LeadTimeline(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead id", nil)
		return
	}
	resp, err := h.svc.LeadTimeline(c.Request.Context(), id)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, resp)
}
