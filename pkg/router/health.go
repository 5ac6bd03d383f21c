package router

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"support-bot-demo/backend/pkg/config"
	"support-bot-demo/backend/pkg/health"
)

// healthHandler starts the periodic component checker on first use and
// serves its aggregate. The database check pings the underlying pool;
// the redis check only degrades the report.
func (r *Router) healthHandler() gin.HandlerFunc {
	checker := health.NewChecker(r.Logger, 30*time.Second)

	checker.RegisterDatabaseCheck(func() error {
		return config.TestConnection(r.Container.DB)
	})

	if r.Container.Redis != nil {
		checker.RegisterRedisCheck(func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return r.Container.Redis.Ping(ctx)
		})
	}

	checker.Start()

	return gin.WrapF(checker.HTTPHandler())
}
