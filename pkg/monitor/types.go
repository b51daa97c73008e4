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

package monitor

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Snapshot is one complete measurement of host telemetry at a point in
// time. It is immutable once the Collector returns it.
type Snapshot struct {
	Timestamp time.Time      `json:"timestamp"`
	CPU       CPUStats       `json:"cpu"`
	Memory    MemoryStats    `json:"memory"`
	Disks     []DiskStats    `json:"disks"`
	Load      LoadStats      `json:"load"`
	Processes []ProcessStats `json:"processes"`
}

// CPUStats holds CPU usage sampled over the collection window.
type CPUStats struct {
	UsagePercent float64   `json:"usage_percent"`
	Cores        int       `json:"cores"`
	PerCore      []float64 `json:"per_core"`
}

// MemoryStats holds virtual memory and swap usage.
type MemoryStats struct {
	TotalGB     float64 `json:"total_gb"`
	UsedGB      float64 `json:"used_gb"`
	AvailableGB float64 `json:"available_gb"`
	UsedPercent float64 `json:"percent"`
	SwapTotalGB float64 `json:"swap_total_gb"`
	SwapUsedGB  float64 `json:"swap_used_gb"`
	SwapPercent float64 `json:"swap_percent"`
}

// DiskStats holds usage for a single mounted partition.
type DiskStats struct {
	MountPoint  string  `json:"mount_point"`
	Device      string  `json:"device"`
	TotalGB     float64 `json:"total_gb"`
	UsedGB      float64 `json:"used_gb"`
	FreeGB      float64 `json:"free_gb"`
	UsedPercent float64 `json:"percent"`
}

// LoadStats holds host load averages. Semantics are OS-dependent;
// the field is best-effort and stays zero where unavailable.
type LoadStats struct {
	Load1  float64 `json:"load1"`
	Load5  float64 `json:"load5"`
	Load15 float64 `json:"load15"`
}

// ProcessStats holds metrics for a single process.
type ProcessStats struct {
	PID           int32   `json:"pid"`
	Name          string  `json:"name"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryMB      float64 `json:"memory_mb"`
	MemoryPercent float64 `json:"memory_percent"`
}

// AlertLevel is the severity of an alert.
type AlertLevel string

const (
	LevelWarning  AlertLevel = "warning"
	LevelCritical AlertLevel = "critical"
)

// AlertCategory names the metric domain an alert belongs to.
type AlertCategory string

const (
	CategoryCPU    AlertCategory = "cpu"
	CategoryMemory AlertCategory = "memory"
	CategoryDisk   AlertCategory = "disk"
)

// Alert is a threshold breach or anomaly produced by the Analyzer.
// Alerts are ephemeral analytical output, never errors.
type Alert struct {
	Level     AlertLevel    `json:"level"`
	Category  AlertCategory `json:"category"`
	Message   string        `json:"message"`
	Value     float64       `json:"value"`
	Threshold float64       `json:"threshold"`
	Timestamp time.Time     `json:"timestamp"`
}

// Config holds the thresholds and limits for one monitoring run.
// It is immutable for the lifetime of a Collector/Analyzer pair.
type Config struct {
	CPUThreshold    float64 `json:"cpu_threshold" validate:"gte=0,lte=100"`
	MemoryThreshold float64 `json:"memory_threshold" validate:"gte=0,lte=100"`
	DiskThreshold   float64 `json:"disk_threshold" validate:"gte=0,lte=100"`
	TopProcessCount int     `json:"top_process_count" validate:"gte=1"`

	// DiskExcludePatterns holds doublestar globs matched against mount
	// points; matching partitions are skipped by the disk probe.
	DiskExcludePatterns []string `json:"disk_exclude_patterns,omitempty"`

	// BaselineExcludesCurrent drops the just-collected snapshot from the
	// CPU spike baseline. The default keeps it in, matching the
	// append-then-evaluate history semantics.
	BaselineExcludesCurrent bool `json:"baseline_excludes_current,omitempty"`
}

// DefaultConfig returns the default monitoring thresholds.
func DefaultConfig() Config {
	return Config{
		CPUThreshold:    80.0,
		MemoryThreshold: 90.0,
		DiskThreshold:   90.0,
		TopProcessCount: 10,
	}
}

func (c *Config) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// Report is the structured record handed to the report sink after each
// collect/analyze cycle.
type Report struct {
	RunID           string         `json:"run_id"`
	Iteration       int            `json:"iteration"`
	Snapshot        *Snapshot      `json:"snapshot"`
	Alerts          []Alert        `json:"alerts"`
	Recommendations []string       `json:"recommendations"`
	TopCPU          []ProcessStats `json:"top_cpu_processes"`
	TopMemory       []ProcessStats `json:"top_memory_processes"`
	GeneratedAt     time.Time      `json:"generated_at"`
}

// ActionItem is the actionable record raised for every critical alert,
// distinct from the per-cycle report.
type ActionItem struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Category  AlertCategory `json:"category"`
	Level     AlertLevel    `json:"level"`
	Message   string        `json:"message"`
	Value     float64       `json:"value"`
	Threshold float64       `json:"threshold"`
	Timestamp time.Time     `json:"timestamp"`
}

// NewActionItem derives an actionable record from a critical alert.
func NewActionItem(alert Alert) *ActionItem {
	return &ActionItem{
		ID:        uuid.New().String(),
		Title:     "System Alert: " + string(alert.Category),
		Category:  alert.Category,
		Level:     alert.Level,
		Message:   alert.Message,
		Value:     alert.Value,
		Threshold: alert.Threshold,
		Timestamp: alert.Timestamp,
	}
}
