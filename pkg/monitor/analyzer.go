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
	"fmt"
	"sort"
)

const (
	// historyCapacity bounds the rolling snapshot window.
	historyCapacity = 10

	// anomalyMinHistory gates the statistical rules until enough
	// snapshots have accumulated.
	anomalyMinHistory = 5

	// criticalCutoff escalates a threshold breach to critical.
	criticalCutoff = 95.0

	// sustainedWindow is how many consecutive breaches escalate a CPU
	// alert to critical regardless of magnitude.
	sustainedWindow = 3

	// spikeDelta and spikeFloor define the CPU spike rule: the current
	// usage must exceed the history mean by spikeDelta and be above
	// spikeFloor in absolute terms.
	spikeDelta = 30.0
	spikeFloor = 50.0

	// leakWindow and leakRise define the memory leak rule: strictly
	// increasing usage across leakWindow snapshots with a total rise
	// above leakRise percentage points.
	leakWindow = 4
	leakRise   = 10.0
)

// Analyzer evaluates snapshots against thresholds and a bounded rolling
// history. It is not synchronized: one instance per monitored target,
// driven from a single goroutine.
type Analyzer struct {
	config  Config
	history []Snapshot
}

// NewAnalyzer creates an analyzer with an empty history window.
func NewAnalyzer(config Config) *Analyzer {
	return &Analyzer{
		config:  config,
		history: make([]Snapshot, 0, historyCapacity),
	}
}

// HistoryLen reports how many snapshots the rolling window currently holds.
func (a *Analyzer) HistoryLen() int {
	return len(a.history)
}

// AnalyzeMetrics appends the snapshot to the history window, evicting the
// oldest entry at capacity, then evaluates every rule against the
// post-append window. The current snapshot therefore participates in its
// own historical baselines.
func (a *Analyzer) AnalyzeMetrics(snap *Snapshot) []Alert {
	a.addToHistory(snap)

	var alerts []Alert

	if alert := a.checkCPUUsage(snap); alert != nil {
		alerts = append(alerts, *alert)
	}

	if alert := a.checkMemoryUsage(snap); alert != nil {
		alerts = append(alerts, *alert)
	}

	alerts = append(alerts, a.checkDiskUsage(snap)...)

	if len(a.history) >= anomalyMinHistory {
		alerts = append(alerts, a.detectAnomalies(snap)...)
	}

	return alerts
}

func (a *Analyzer) addToHistory(snap *Snapshot) {
	a.history = append(a.history, *snap)
	if len(a.history) > historyCapacity {
		a.history = a.history[1:]
	}
}

func (a *Analyzer) checkCPUUsage(snap *Snapshot) *Alert {
	if snap.CPU.UsagePercent <= a.config.CPUThreshold {
		return nil
	}

	level := LevelWarning
	if snap.CPU.UsagePercent > criticalCutoff {
		level = LevelCritical
	}

	message := fmt.Sprintf("CPU usage is %.1f%% (threshold: %.1f%%)",
		snap.CPU.UsagePercent, a.config.CPUThreshold)

	if a.isSustainedHighCPU() {
		message = fmt.Sprintf("Sustained high CPU usage: %.1f%% for %d measurements",
			snap.CPU.UsagePercent, len(a.history))
		level = LevelCritical
	}

	return &Alert{
		Level:     level,
		Category:  CategoryCPU,
		Message:   message,
		Value:     snap.CPU.UsagePercent,
		Threshold: a.config.CPUThreshold,
		Timestamp: snap.Timestamp,
	}
}

func (a *Analyzer) checkMemoryUsage(snap *Snapshot) *Alert {
	if snap.Memory.UsedPercent <= a.config.MemoryThreshold {
		return nil
	}

	level := LevelWarning
	if snap.Memory.UsedPercent > criticalCutoff {
		level = LevelCritical
	}

	return &Alert{
		Level:    level,
		Category: CategoryMemory,
		Message: fmt.Sprintf("Memory usage is %.1f%% (%.1f GB / %.1f GB)",
			snap.Memory.UsedPercent, snap.Memory.UsedGB, snap.Memory.TotalGB),
		Value:     snap.Memory.UsedPercent,
		Threshold: a.config.MemoryThreshold,
		Timestamp: snap.Timestamp,
	}
}

func (a *Analyzer) checkDiskUsage(snap *Snapshot) []Alert {
	var alerts []Alert

	for _, d := range snap.Disks {
		if d.UsedPercent <= a.config.DiskThreshold {
			continue
		}

		level := LevelWarning
		if d.UsedPercent > criticalCutoff {
			level = LevelCritical
		}

		alerts = append(alerts, Alert{
			Level:    level,
			Category: CategoryDisk,
			Message: fmt.Sprintf("Disk %s usage is %.1f%% (%.1f GB free)",
				d.MountPoint, d.UsedPercent, d.FreeGB),
			Value:     d.UsedPercent,
			Threshold: a.config.DiskThreshold,
			Timestamp: snap.Timestamp,
		})
	}

	return alerts
}

// isSustainedHighCPU reports whether the last sustainedWindow history
// entries, including the current snapshot, all breached the threshold.
func (a *Analyzer) isSustainedHighCPU() bool {
	if len(a.history) < sustainedWindow {
		return false
	}

	for i := len(a.history) - sustainedWindow; i < len(a.history); i++ {
		if a.history[i].CPU.UsagePercent <= a.config.CPUThreshold {
			return false
		}
	}

	return true
}

func (a *Analyzer) detectAnomalies(snap *Snapshot) []Alert {
	var alerts []Alert

	avgCPU := a.baselineCPU()
	cpuDelta := snap.CPU.UsagePercent - avgCPU

	if cpuDelta > spikeDelta && snap.CPU.UsagePercent > spikeFloor {
		alerts = append(alerts, Alert{
			Level:    LevelWarning,
			Category: CategoryCPU,
			Message: fmt.Sprintf("CPU spike detected: %.1f%% (%.1f%% above average)",
				snap.CPU.UsagePercent, cpuDelta),
			Value:     snap.CPU.UsagePercent,
			Threshold: avgCPU,
			Timestamp: snap.Timestamp,
		})
	}

	if a.isMemoryIncreasing() {
		alerts = append(alerts, Alert{
			Level:     LevelWarning,
			Category:  CategoryMemory,
			Message:   "Potential memory leak detected: memory usage consistently increasing",
			Value:     snap.Memory.UsedPercent,
			Threshold: a.config.MemoryThreshold,
			Timestamp: snap.Timestamp,
		})
	}

	return alerts
}

// baselineCPU averages CPU usage across the history window. The current
// snapshot is part of the window unless BaselineExcludesCurrent is set.
func (a *Analyzer) baselineCPU() float64 {
	window := a.history
	if a.config.BaselineExcludesCurrent && len(window) > 0 {
		window = window[:len(window)-1]
	}
	if len(window) == 0 {
		return 0
	}

	sum := 0.0
	for _, snap := range window {
		sum += snap.CPU.UsagePercent
	}
	return sum / float64(len(window))
}

// isMemoryIncreasing reports a strictly increasing memory trend across
// the last leakWindow history entries with a total rise above leakRise.
func (a *Analyzer) isMemoryIncreasing() bool {
	if len(a.history) < leakWindow {
		return false
	}

	for i := len(a.history) - leakWindow + 1; i < len(a.history); i++ {
		if a.history[i].Memory.UsedPercent <= a.history[i-1].Memory.UsedPercent {
			return false
		}
	}

	first := a.history[len(a.history)-leakWindow].Memory.UsedPercent
	last := a.history[len(a.history)-1].Memory.UsedPercent
	return last-first > leakRise
}

// GetTopProcesses returns up to count processes ordered descending by the
// requested metric. The sort is stable, so CPU-ordered ties keep their
// collector-assigned relative order.
func GetTopProcesses(snap *Snapshot, byMemory bool, count int) []ProcessStats {
	if count > len(snap.Processes) {
		count = len(snap.Processes)
	}
	if count < 0 {
		count = 0
	}

	processes := make([]ProcessStats, len(snap.Processes))
	copy(processes, snap.Processes)

	if byMemory {
		sort.SliceStable(processes, func(i, j int) bool {
			return processes[i].MemoryMB > processes[j].MemoryMB
		})
	}
	// Already CPU-sorted by the collector otherwise.

	return processes[:count]
}

// GenerateRecommendations derives advisory strings from the alert set just
// produced. It never re-reads the history window.
func (a *Analyzer) GenerateRecommendations(snap *Snapshot, alerts []Alert) []string {
	var recommendations []string

	for _, alert := range alerts {
		if alert.Category == CategoryCPU && alert.Level == LevelCritical {
			top := GetTopProcesses(snap, false, 3)
			if len(top) > 0 {
				recommendations = append(recommendations,
					fmt.Sprintf("Consider terminating or optimizing high CPU process: %s (%.1f%% CPU)",
						top[0].Name, top[0].CPUPercent))
			}
		}

		if alert.Category == CategoryDisk && alert.Level == LevelCritical {
			recommendations = append(recommendations,
				"Critical: Clean up disk space immediately to prevent system issues",
				"Run disk cleanup tools or remove unnecessary files")
		}

		if alert.Category == CategoryMemory && alert.Level == LevelWarning {
			top := GetTopProcesses(snap, true, 3)
			if len(top) > 0 {
				recommendations = append(recommendations,
					fmt.Sprintf("High memory consumer: %s (%.1f MB)",
						top[0].Name, top[0].MemoryMB))
			}
		}
	}

	return recommendations
}
