package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/opencampus/lms-core/internal/pkg/cron"
	"github.com/opencampus/lms-core/internal/pkg/response"
	"gorm.io/gorm"
)

var processStart = time.Now()

// RegisterRoutes wires the liveness endpoint and the admin-only cron
// inspection endpoints.
func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB, sched *cron.Scheduler, authMW gin.HandlerFunc) {
	rg.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		dbOK := err == nil && sqlDB.Ping() == nil

		status := "ok"
		code := http.StatusOK
		if !dbOK {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status":   status,
			"database": dbOK,
			"uptime":   time.Since(processStart).Milliseconds(),
		})
	})

	adminHealth := rg.Group("/health", authMW)
	cronGroup := adminHealth.Group("/cron")
	{
		cronGroup.GET("", func(c *gin.Context) {
			items := sched.List()
			byName := make(map[string]cron.ListItem, len(items))
			for _, item := range items {
				byName[item.Name] = item
			}
			response.OK(c, byName)
		})

		cronGroup.POST("/run/:name", func(c *gin.Context) {
			if err := sched.Run(c.Request.Context(), c.Param("name")); err != nil {
				response.NotFoundMsg(c, err.Error())
				return
			}
			response.OK(c, gin.H{"message": "job triggered"})
		})
	}
}
