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

package model

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"

	"github.com/opensysmon/sysmond/pkg/monitor"
)

// ApiAccessTokenHeader carries the access token on API requests.
const ApiAccessTokenHeader = "X-Access-Token"

type ErrorCode string

const (
	ErrorCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	ErrorCodeCollectFailed  ErrorCode = "COLLECT_FAILED"
	ErrorCodeHostInfoFailed ErrorCode = "HOST_INFO_FAILED"
	ErrorCodeNotReady       ErrorCode = "NOT_READY"
)

// ErrorResponse is the uniform error payload for failed requests.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message,omitempty"`
}

// RunRequest triggers an ad-hoc collect/analyze cycle. Zero values fall
// back to the daemon defaults, mirroring the task-input convention of
// "only positive fields override".
type RunRequest struct {
	CPUThreshold        float64  `json:"cpu_threshold,omitempty" validate:"gte=0,lte=100"`
	MemoryThreshold     float64  `json:"memory_threshold,omitempty" validate:"gte=0,lte=100"`
	DiskThreshold       float64  `json:"disk_threshold,omitempty" validate:"gte=0,lte=100"`
	TopProcessCount     int      `json:"top_process_count,omitempty" validate:"gte=0"`
	DiskExcludePatterns []string `json:"disk_exclude_patterns,omitempty"`
}

func (r *RunRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// ToConfig overlays the request onto the default configuration.
func (r *RunRequest) ToConfig() monitor.Config {
	config := monitor.DefaultConfig()
	if r.CPUThreshold > 0 {
		config.CPUThreshold = r.CPUThreshold
	}
	if r.MemoryThreshold > 0 {
		config.MemoryThreshold = r.MemoryThreshold
	}
	if r.DiskThreshold > 0 {
		config.DiskThreshold = r.DiskThreshold
	}
	if r.TopProcessCount > 0 {
		config.TopProcessCount = r.TopProcessCount
	}
	config.DiskExcludePatterns = r.DiskExcludePatterns
	return config
}

// RunResponse is the result of an ad-hoc cycle.
type RunResponse struct {
	Snapshot        *monitor.Snapshot      `json:"snapshot"`
	Alerts          []monitor.Alert        `json:"alerts"`
	Recommendations []string               `json:"recommendations"`
	TopCPU          []monitor.ProcessStats `json:"top_cpu_processes"`
	TopMemory       []monitor.ProcessStats `json:"top_memory_processes"`
}

type StreamEventType string

const (
	StreamEventTypeReport StreamEventType = "report"
	StreamEventTypeError  StreamEventType = "error"
	StreamEventTypePing   StreamEventType = "ping"
)

// StreamEvent wraps a report for SSE and websocket delivery.
type StreamEvent struct {
	Type      StreamEventType `json:"type"`
	Report    *monitor.Report `json:"report,omitempty"`
	Message   string          `json:"message,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// ToJSON serializes the event for streaming.
func (e StreamEvent) ToJSON() []byte {
	bytes, _ := json.Marshal(e)
	return bytes
}
