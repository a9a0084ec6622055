// controllers/dashboard.go
package controllers

import (
	"net/http"

	"tlbc-notify-backend/models"
	"tlbc-notify-backend/services"
	"tlbc-notify-backend/utils"

	"github.com/gin-gonic/gin"
)

// DashboardController serves read-only views over the run logs.
type DashboardController struct {
	Logs map[string]*services.RunLog // keyed by job name
}

type dashboardStats struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

// GetDashboard renders the selected (default: latest) day's log with
// aggregate counts. Query params: job (birthday|sms|easter), date.
func (dc *DashboardController) GetDashboard(c *gin.Context) {
	runLog, ok := dc.Logs[c.DefaultQuery("job", "birthday")]
	if !ok {
		utils.RespondWithError(c, http.StatusBadRequest, "Unknown job; expected birthday, sms or easter")
		return
	}

	logDates := runLog.ListDays()

	selectedDate := c.Query("date")
	if selectedDate == "" && len(logDates) > 0 {
		selectedDate = logDates[len(logDates)-1]
	}

	logs := []models.DeliveryAttempt{}
	if selectedDate != "" {
		logs = runLog.ReadDay(selectedDate)
	}

	stats := dashboardStats{Total: len(logs)}
	for _, entry := range logs {
		switch entry.Status {
		case models.AttemptStatusSuccess:
			stats.Success++
		case models.AttemptStatusFailed:
			stats.Failed++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":         logs,
		"logDates":     logDates,
		"selectedDate": selectedDate,
		"stats":        stats,
	})
}

// GetLogDates lists the days that have any logged attempts for a job.
func (dc *DashboardController) GetLogDates(c *gin.Context) {
	runLog, ok := dc.Logs[c.DefaultQuery("job", "birthday")]
	if !ok {
		utils.RespondWithError(c, http.StatusBadRequest, "Unknown job; expected birthday, sms or easter")
		return
	}
	c.JSON(http.StatusOK, gin.H{"logDates": runLog.ListDays()})
}
