package app

import (
	"time"

	"github.com/opencampus/lms-core/internal/middleware"
	"github.com/opencampus/lms-core/internal/modules/auth"
	"github.com/opencampus/lms-core/internal/modules/health"
	"github.com/opencampus/lms-core/internal/modules/session"
	"github.com/opencampus/lms-core/internal/modules/user"
	"github.com/opencampus/lms-core/internal/pkg/geoip"
	"github.com/opencampus/lms-core/internal/pkg/querycache"
	pkgredis "github.com/opencampus/lms-core/internal/pkg/redis"
	"github.com/opencampus/lms-core/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const queryCacheTTL = time.Minute

func (a *App) registerRoutes(rc *pkgredis.Client) {
	r := a.router
	db := a.db
	authMW := middleware.Auth(db)

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	// Rate limiting and idempotence run on every route (requires Redis).
	r.Use(middleware.RateLimit(rc.Raw()))
	r.Use(middleware.Idempotence(rc.Raw()))

	api := r.Group("/api")

	cache := querycache.New(querycache.NewRedisStore(rc), queryCacheTTL)
	sessionSvc := session.NewService(db, cache, a.logger)

	var geo *geoip.Resolver
	if a.cfg.Session.GeoLookup {
		geo = geoip.New()
	}
	authSvc := auth.NewService(db, sessionSvc, geo, a.cfg.SessionTTL(), a.logger)
	auth.NewHandler(authSvc).RegisterRoutes(api, authMW)

	health.RegisterRoutes(api, db, a.sched, authMW)

	// Admin surface: session administration and per-user reporting.
	admin := api.Group("/admin", authMW, middleware.RequireAdmin())
	session.NewHandler(sessionSvc).RegisterRoutes(admin)
	user.NewHandler(user.NewService(db)).RegisterRoutes(admin)

	registerCronJobs(a.sched, sessionSvc, a.cfg, a.logger)
}
