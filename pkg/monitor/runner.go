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
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/opensysmon/sysmond/pkg/log"
)

const (
	defaultInterval = 30 * time.Second

	// reportTopCount is how many top-CPU and top-memory processes each
	// cycle report carries.
	reportTopCount = 5
)

// MetricsSource produces one snapshot per call. *Collector is the
// production implementation; tests substitute stubs.
type MetricsSource interface {
	Collect(ctx context.Context) (*Snapshot, error)
}

// ReportSink receives the structured record of one completed cycle.
type ReportSink interface {
	Publish(ctx context.Context, report *Report) error
}

// ActionSink receives one actionable record per critical alert.
type ActionSink interface {
	RaiseAction(ctx context.Context, item *ActionItem) error
}

// Options controls the cycle cadence of a Runner.
type Options struct {
	// Interval is the pause between cycles in continuous mode.
	Interval time.Duration

	// RunOnce terminates after one successful cycle.
	RunOnce bool
}

// Runner drives repeated or single-shot collect, analyze, emit cycles.
type Runner struct {
	source   MetricsSource
	analyzer *Analyzer
	reports  ReportSink
	actions  ActionSink
	opts     Options

	mu        sync.RWMutex
	latest    *Report
	iteration int
}

// NewRunner wires a metrics source, analyzer, and sinks into a runner.
// A non-positive interval falls back to 30 seconds.
func NewRunner(source MetricsSource, analyzer *Analyzer, reports ReportSink, actions ActionSink, opts Options) *Runner {
	if opts.Interval <= 0 {
		opts.Interval = defaultInterval
	}
	return &Runner{
		source:   source,
		analyzer: analyzer,
		reports:  reports,
		actions:  actions,
		opts:     opts,
	}
}

// Latest returns the most recently published report, or nil before the
// first successful cycle.
func (r *Runner) Latest() *Report {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.latest
}

// Run executes cycles until the context is canceled or, in run-once mode,
// after the first cycle. A hard collection failure aborts a run-once run;
// in continuous mode it is logged and retried after the normal interval.
func (r *Runner) Run(ctx context.Context) error {
	runID := uuid.New().String()
	start := time.Now()

	log.Info("monitoring run %s starting (interval=%s run_once=%t)",
		runID, r.opts.Interval, r.opts.RunOnce)

	for {
		if err := r.cycle(ctx, runID); err != nil {
			if r.opts.RunOnce {
				return fmt.Errorf("collection cycle failed: %w", err)
			}
			log.Error("collection cycle failed: %v; retrying in %s", err, r.opts.Interval)
			if err := r.sleep(ctx); err != nil {
				return err
			}
			continue
		}

		if r.opts.RunOnce {
			break
		}

		if err := r.sleep(ctx); err != nil {
			log.Info("monitoring run %s stopped after %d iterations (%s)",
				runID, r.iteration, time.Since(start).Round(time.Second))
			return err
		}
	}

	log.Info("monitoring run %s completed: %d iterations in %s",
		runID, r.iteration, time.Since(start).Round(time.Second))
	return nil
}

func (r *Runner) cycle(ctx context.Context, runID string) error {
	r.iteration++

	snap, err := r.source.Collect(ctx)
	if err != nil {
		return err
	}

	alerts := r.analyzer.AnalyzeMetrics(snap)
	recommendations := r.analyzer.GenerateRecommendations(snap, alerts)

	report := &Report{
		RunID:           runID,
		Iteration:       r.iteration,
		Snapshot:        snap,
		Alerts:          alerts,
		Recommendations: recommendations,
		TopCPU:          GetTopProcesses(snap, false, reportTopCount),
		TopMemory:       GetTopProcesses(snap, true, reportTopCount),
		GeneratedAt:     time.Now(),
	}

	// Sink trouble never fails the cycle: alerts and reports are output,
	// not control flow.
	if err := r.reports.Publish(ctx, report); err != nil {
		log.Warn("failed to publish report for iteration %d: %v", r.iteration, err)
	}

	for _, alert := range alerts {
		log.Warn("[%s] %s (level=%s value=%.1f threshold=%.1f)",
			alert.Category, alert.Message, alert.Level, alert.Value, alert.Threshold)

		if alert.Level != LevelCritical {
			continue
		}
		if err := r.actions.RaiseAction(ctx, NewActionItem(alert)); err != nil {
			log.Error("failed to raise action for %s alert: %v", alert.Category, err)
		}
	}

	r.mu.Lock()
	r.latest = report
	r.mu.Unlock()

	return nil
}

func (r *Runner) sleep(ctx context.Context) error {
	timer := time.NewTimer(r.opts.Interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
