// Copyright 2026 The sysmond Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opensysmon/sysmond/pkg/log"
	"github.com/opensysmon/sysmond/pkg/web/controller"
	"github.com/opensysmon/sysmond/pkg/web/model"
)

// NewRouter builds a Gin engine with all sysmond routes.
func NewRouter(accessToken string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logMiddleware(), accessTokenMiddleware(accessToken))

	r.GET("/ping", controller.PingHandler)

	mon := r.Group("/monitor")
	{
		mon.GET("/status", withMonitor(func(c *controller.MonitorController) { c.GetStatus() }))
		mon.GET("/system", withMonitor(func(c *controller.MonitorController) { c.GetSystemInfo() }))
		mon.POST("/run", withMonitor(func(c *controller.MonitorController) { c.RunCycle() }))
	}

	metrics := r.Group("/metrics")
	{
		metrics.GET("/watch", withMonitor(func(c *controller.MonitorController) { c.WatchReports() }))
		metrics.GET("/ws", withMonitor(func(c *controller.MonitorController) { c.WatchReportsWS() }))
	}

	return r
}

func withMonitor(fn func(*controller.MonitorController)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		fn(controller.NewMonitorController(ctx))
	}
}

func accessTokenMiddleware(token string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if token == "" {
			ctx.Next()
			return
		}

		requestedToken := ctx.GetHeader(model.ApiAccessTokenHeader)
		if requestedToken == "" || requestedToken != token {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, map[string]any{
				"error": "Unauthorized: invalid or missing header " + model.ApiAccessTokenHeader,
			})
			return
		}

		ctx.Next()
	}
}

func logMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		log.Debug("Requested: %v - %v", ctx.Request.Method, ctx.Request.URL.String())
		ctx.Next()
	}
}
