package app

import (
	"context"
	"fmt"
	"time"

	"github.com/opencampus/lms-core/internal/config"
	"github.com/opencampus/lms-core/internal/modules/session"
	pkgcron "github.com/opencampus/lms-core/internal/pkg/cron"
	"go.uber.org/zap"
)

// registerCronJobs registers all scheduled background jobs.
func registerCronJobs(sched *pkgcron.Scheduler, sessions *session.Service, cfg *config.AppConfig, logger *zap.Logger) {
	cronLogger := logger.Named("CronService")

	sched.Register(pkgcron.Job{
		Name:        "sweep_inactive_sessions",
		Description: "mark idle active sessions as inactive",
		Interval:    5 * time.Minute,
		Fn: func(ctx context.Context) error {
			n, err := sessions.SweepInactive(ctx, cfg.InactiveAfter())
			if err != nil {
				cronLogger.Warn("inactive sweep failed", zap.Error(err))
				return err
			}
			if n > 0 {
				cronLogger.Info(fmt.Sprintf("inactive sweep marked %d sessions", n))
			}
			return nil
		},
	})

}
