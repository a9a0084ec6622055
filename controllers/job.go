// controllers/job.go
package controllers

import (
	"net/http"

	"tlbc-notify-backend/services"
	"tlbc-notify-backend/utils"

	"github.com/gin-gonic/gin"
)

// JobController exposes on-demand triggers for the notification jobs.
type JobController struct {
	Jobs *services.JobService
}

// RunJob triggers one full dispatch run. Query param job selects which
// (birthday|sms|easter, default birthday).
func (jc *JobController) RunJob(c *gin.Context) {
	ctx := c.Request.Context()

	var result services.DispatchResult
	var err error

	switch c.DefaultQuery("job", "birthday") {
	case "birthday":
		result, err = jc.Jobs.RunBirthdayEmails(ctx)
	case "sms":
		result, err = jc.Jobs.RunBirthdaySMS(ctx)
	case "easter":
		result, err = jc.Jobs.RunEasterBlast(ctx)
	default:
		utils.RespondWithError(c, http.StatusBadRequest, "Unknown job; expected birthday, sms or easter")
		return
	}

	if err != nil {
		utils.RespondWithError(c, http.StatusBadGateway, "Job failed: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Job completed",
		"result":  result,
	})
}

// TestEmail sends a single ad-hoc birthday email to the given address.
func (jc *JobController) TestEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Email is required")
		return
	}

	result := jc.Jobs.SendTestEmail(email)
	if result.Failed > 0 {
		utils.RespondWithError(c, http.StatusBadGateway, "Failed to send test email")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Test email sent", "result": result})
}
