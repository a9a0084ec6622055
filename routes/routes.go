package routes

import (
	"tlbc-notify-backend/config"
	"tlbc-notify-backend/controllers"
	"tlbc-notify-backend/services"
	"tlbc-notify-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter(cfg *config.Config, jobs *services.JobService) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
	}))

	r.Use(config.PerformanceLogger())

	dashboard := &controllers.DashboardController{
		Logs: map[string]*services.RunLog{
			"birthday": jobs.EmailLog,
			"sms":      jobs.SMSLog,
			"easter":   jobs.EasterLog,
		},
	}
	job := &controllers.JobController{Jobs: jobs}

	r.GET("/", dashboard.GetDashboard)
	r.GET("/logs/dates", dashboard.GetLogDates)

	admin := r.Group("/", utils.AdminGuard(cfg.AdminTokenHash))
	{
		admin.GET("/test-email", job.TestEmail)
		admin.GET("/run-job", job.RunJob)
	}

	return r
}
