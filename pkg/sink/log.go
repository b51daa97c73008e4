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

// Package sink provides delivery targets for cycle reports and actionable
// alerts. The wire protocol of remote consumers is out of scope; sinks only
// define the shape handed over.
package sink

import (
	"context"

	"github.com/opensysmon/sysmond/pkg/log"
	"github.com/opensysmon/sysmond/pkg/monitor"
)

// LogSink writes reports and actions to the process log. It is the default
// delivery target when no webhook is configured.
type LogSink struct{}

func NewLogSink() *LogSink {
	return &LogSink{}
}

func (s *LogSink) Publish(_ context.Context, report *monitor.Report) error {
	snap := report.Snapshot
	log.Info("iteration %d: cpu=%.1f%% (%d cores) mem=%.1f%% (%.1f/%.1f GB) load=%.2f/%.2f/%.2f disks=%d procs=%d alerts=%d",
		report.Iteration,
		snap.CPU.UsagePercent, snap.CPU.Cores,
		snap.Memory.UsedPercent, snap.Memory.UsedGB, snap.Memory.TotalGB,
		snap.Load.Load1, snap.Load.Load5, snap.Load.Load15,
		len(snap.Disks), len(snap.Processes), len(report.Alerts))

	for _, rec := range report.Recommendations {
		log.Info("recommendation: %s", rec)
	}

	return nil
}

func (s *LogSink) RaiseAction(_ context.Context, item *monitor.ActionItem) error {
	log.Warn("action %s: %s - %s (value=%.1f threshold=%.1f)",
		item.ID, item.Title, item.Message, item.Value, item.Threshold)
	return nil
}
