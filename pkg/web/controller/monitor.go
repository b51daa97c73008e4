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

package controller

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/opensysmon/sysmond/pkg/monitor"
	"github.com/opensysmon/sysmond/pkg/web/model"
)

// adHocRunTimeout bounds one request-scoped collect/analyze cycle. The CPU
// probe alone blocks for two one-second sampling windows.
const adHocRunTimeout = 30 * time.Second

// ReportProvider exposes the latest published cycle report.
type ReportProvider interface {
	Latest() *monitor.Report
}

var reportProvider ReportProvider

// InitMonitor wires the running monitor into the web layer.
func InitMonitor(provider ReportProvider) {
	reportProvider = provider
}

// MonitorController serves monitoring status and ad-hoc runs.
type MonitorController struct {
	*basicController
}

func NewMonitorController(ctx *gin.Context) *MonitorController {
	return &MonitorController{basicController: newBasicController(ctx)}
}

// GetStatus returns the latest published report.
func (c *MonitorController) GetStatus() {
	if reportProvider == nil {
		c.RespondError(http.StatusServiceUnavailable, model.ErrorCodeNotReady, "monitor not initialized")
		return
	}

	report := reportProvider.Latest()
	if report == nil {
		c.RespondError(http.StatusServiceUnavailable, model.ErrorCodeNotReady, "no cycle has completed yet")
		return
	}

	c.RespondSuccess(report)
}

// GetSystemInfo returns basic host identification.
func (c *MonitorController) GetSystemInfo() {
	info, err := monitor.SystemInfo(c.ctx.Request.Context())
	if err != nil {
		c.RespondError(
			http.StatusInternalServerError,
			model.ErrorCodeHostInfoFailed,
			fmt.Sprintf("error reading host info. %v", err),
		)
		return
	}

	c.RespondSuccess(info)
}

// RunCycle performs one request-scoped collect/analyze cycle with a fresh
// analyzer. With no history behind it, anomaly rules stay silent; only
// threshold rules apply.
func (c *MonitorController) RunCycle() {
	var request model.RunRequest
	if c.ctx.Request.Body != nil && c.ctx.Request.ContentLength > 0 {
		if err := c.bindJSON(&request); err != nil {
			c.RespondError(
				http.StatusBadRequest,
				model.ErrorCodeInvalidRequest,
				fmt.Sprintf("error parsing request, MAYBE invalid body format. %v", err),
			)
			return
		}
	}

	if err := request.Validate(); err != nil {
		c.RespondError(
			http.StatusBadRequest,
			model.ErrorCodeInvalidRequest,
			fmt.Sprintf("invalid run request. %v", err),
		)
		return
	}

	config := request.ToConfig()

	ctx, cancel := context.WithTimeout(c.ctx.Request.Context(), adHocRunTimeout)
	defer cancel()

	collector := monitor.NewCollector(config)
	snap, err := collector.Collect(ctx)
	if err != nil {
		c.RespondError(
			http.StatusInternalServerError,
			model.ErrorCodeCollectFailed,
			fmt.Sprintf("error collecting metrics. %v", err),
		)
		return
	}

	analyzer := monitor.NewAnalyzer(config)
	alerts := analyzer.AnalyzeMetrics(snap)
	recommendations := analyzer.GenerateRecommendations(snap, alerts)

	c.RespondSuccess(model.RunResponse{
		Snapshot:        snap,
		Alerts:          alerts,
		Recommendations: recommendations,
		TopCPU:          monitor.GetTopProcesses(snap, false, 5),
		TopMemory:       monitor.GetTopProcesses(snap, true, 5),
	})
}
