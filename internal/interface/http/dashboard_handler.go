package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Gitsandu/taskmanagementBackend/internal/application"
	"github.com/Gitsandu/taskmanagementBackend/internal/domain/apperror"
	"github.com/Gitsandu/taskmanagementBackend/internal/interface/middleware"
	"github.com/Gitsandu/taskmanagementBackend/pkg/response"
)

type DashboardHandler struct {
	Svc    *application.AnalyticsService
	Logger *logrus.Logger
}

func NewDashboardHandler(svc *application.AnalyticsService, logger *logrus.Logger) *DashboardHandler {
	return &DashboardHandler{Svc: svc, Logger: logger}
}

// daysParam reads ?days=N. Absent means the default window; range checks happen in the service.
func daysParam(c *gin.Context) (int, error) {
	v, ok := c.GetQuery("days")
	if !ok {
		return application.DefaultWindowDays, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, apperror.Validation("days must be an integer", map[string]string{"days": "must be an integer"})
	}
	return n, nil
}

// PriorityDistribution GET /api/dashboard/priority-distribution
func (h *DashboardHandler) PriorityDistribution(c *gin.Context) {
	out, err := h.Svc.PriorityDistribution(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, out, "priority distribution", nil)
}

// CompletionRate GET /api/dashboard/completion-rate?days=N
func (h *DashboardHandler) CompletionRate(c *gin.Context) {
	days, err := daysParam(c)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	out, err := h.Svc.CompletionRate(c.Request.Context(), middleware.UserID(c), days)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, out, "completion rate", gin.H{"days": days})
}

// UpcomingDeadlines GET /api/dashboard/upcoming-deadlines?days=N
func (h *DashboardHandler) UpcomingDeadlines(c *gin.Context) {
	days, err := daysParam(c)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	out, err := h.Svc.UpcomingDeadlines(c.Request.Context(), middleware.UserID(c), days)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, out, "upcoming deadlines", gin.H{"days": days, "count": len(out)})
}
