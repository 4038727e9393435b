package routes

import (
	"net/http"
	"time"

	"cutine-backend/config"
	"cutine-backend/controllers"
	"cutine-backend/metrics"
	"cutine-backend/services"
	"cutine-backend/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Deps are the long-lived objects the handlers work on.
type Deps struct {
	Config    *config.Config
	Log       *config.Logger
	Records   *store.RecordStore
	Profiles  *store.ProfileStore
	Reminders *services.ReminderService
	Partners  *services.PartnerService
	Now       func() time.Time
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	origins := []string{"http://localhost:3000"}
	if d.Config != nil && len(d.Config.AllowedOrigins) > 0 {
		origins = d.Config.AllowedOrigins
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	log := d.Log
	if log == nil {
		log = config.NopLogger()
	}
	r.Use(config.PerformanceLogger(log))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	{
		onboarding := controllers.OnboardingController{Profiles: d.Profiles, Records: d.Records}
		api.POST("/onboarding", onboarding.Onboard)

		// Profile routes
		profileController := controllers.ProfileController{Profiles: d.Profiles}
		profile := api.Group("/profile")
		{
			profile.GET("", profileController.GetProfile)
			profile.PUT("", profileController.UpdateProfile)
			profile.PUT("/notifications", profileController.UpdateNotifications)
		}

		// Record routes
		recordController := controllers.RecordController{Records: d.Records, Now: d.Now}
		records := api.Group("/records")
		{
			records.GET("", recordController.GetRecords)
			records.POST("", recordController.AddRecord)
			records.PUT("/latest", recordController.ReplaceLatestRecord)
			records.GET("/:id", recordController.GetRecord)
			records.PUT("/:id", recordController.UpdateRecord)
			records.DELETE("/:id", recordController.DeleteRecord)
		}

		// Dashboard routes
		dashboardController := controllers.DashboardController{Records: d.Records, Profiles: d.Profiles, Now: d.Now}
		api.GET("/dashboard", dashboardController.GetDashboardOverview)
		api.GET("/recommendations/:hairLength", controllers.GetRecommendation)

		api.GET("/tips", controllers.GetTips)

		// Reports routes
		reportController := controllers.ReportController{Records: d.Records, Now: d.Now}
		api.GET("/reports", reportController.GetReportAnalytics)

		if d.Reminders != nil {
			reminderController := controllers.ReminderController{Reminders: d.Reminders}
			api.GET("/reminders", reminderController.GetReminderLogs)
			api.POST("/reminders/run", reminderController.RunReminders)
		}

		if d.Partners != nil {
			partnerController := controllers.PartnerController{Partners: d.Partners}
			api.POST("/partners", partnerController.SubmitApplication)
			api.GET("/partners/local", partnerController.GetLocalApplications)
		}

		dataController := controllers.DataController{Records: d.Records, Profiles: d.Profiles, Reminders: d.Reminders, Partners: d.Partners}
		api.DELETE("/data", dataController.ResetData)
	}

	return r
}
