package api

import (
	"net/http"
	"time"

	"github.com/getplenum/plenum-backend/usecases"

	limits "github.com/gin-contrib/size"
	"github.com/gin-contrib/timeout"
	"github.com/gin-gonic/gin"
)

func timeoutMiddleware(duration time.Duration) gin.HandlerFunc {
	return timeout.New(
		timeout.WithTimeout(duration),
		timeout.WithHandler(func(c *gin.Context) {
			c.Next()
		}),
		timeout.WithResponse(func(c *gin.Context) {
			c.String(http.StatusRequestTimeout, "timeout")
		}),
	)
}

func addRoutes(r *gin.Engine, conf Configuration, uc usecases.Usecases) {
	r.GET("/liveness", handleLivenessProbe(uc))
	r.GET("/version", handleVersion(conf))

	r.POST("/deliberations",
		limits.RequestSizeLimiter(conf.MaxAttachmentsSize),
		timeoutMiddleware(conf.DeliberationTimeout),
		handlePostDeliberation(uc))
	r.GET("/deliberations/:deliberation_id", handleGetDeliberation(uc))
}
