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
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/opensysmon/sysmond/pkg/log"
	"github.com/opensysmon/sysmond/pkg/web/model"
)

// streamTick is how often watch endpoints push the latest report.
const streamTick = time.Second

var sseHeaders = map[string]string{
	"Content-Type":      "text/event-stream",
	"Cache-Control":     "no-cache",
	"Connection":        "keep-alive",
	"X-Accel-Buffering": "no",
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(*http.Request) bool {
		return true
	},
}

func (c *basicController) setupSSEResponse() {
	for key, value := range sseHeaders {
		c.ctx.Writer.Header().Set(key, value)
	}
	if flusher, ok := c.ctx.Writer.(http.Flusher); ok {
		flusher.Flush()
	}
}

// WatchReports streams the latest published report via SSE until the
// client disconnects.
func (c *MonitorController) WatchReports() {
	c.setupSSEResponse()

	ticker := time.NewTicker(streamTick)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Request.Context().Done():
			return
		case <-ticker.C:
			event := c.nextEvent()
			payload := append(event.ToJSON(), '\n')
			if _, err := c.ctx.Writer.Write(payload); err != nil {
				log.Error("WatchReports write error: %v", err)
				return
			}
			if flusher, ok := c.ctx.Writer.(http.Flusher); ok {
				flusher.Flush()
			}
		}
	}
}

// WatchReportsWS streams the latest published report over a websocket.
func (c *MonitorController) WatchReportsWS() {
	conn, err := wsUpgrader.Upgrade(c.ctx.Writer, c.ctx.Request, nil)
	if err != nil {
		log.Error("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// Drain client frames so close messages are noticed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(streamTick)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Request.Context().Done():
			return
		case <-done:
			return
		case <-ticker.C:
			event := c.nextEvent()
			if err := conn.WriteMessage(websocket.TextMessage, event.ToJSON()); err != nil {
				log.Debug("websocket client gone: %v", err)
				return
			}
		}
	}
}

func (c *MonitorController) nextEvent() model.StreamEvent {
	event := model.StreamEvent{
		Type:      model.StreamEventTypePing,
		Timestamp: time.Now().UnixMilli(),
	}
	if reportProvider != nil {
		if report := reportProvider.Latest(); report != nil {
			event.Type = model.StreamEventTypeReport
			event.Report = report
		}
	}
	return event
}
