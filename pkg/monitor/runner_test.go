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
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSource replays canned snapshots and errors, one per Collect call.
// The last entry repeats once the script is exhausted.
type stubSource struct {
	mu    sync.Mutex
	snaps []*Snapshot
	errs  []error
	calls int

	// onCollect, when set, runs after each call with the call count.
	onCollect func(calls int)
}

func (s *stubSource) Collect(context.Context) (*Snapshot, error) {
	s.mu.Lock()
	idx := s.calls
	s.calls++
	if idx >= len(s.snaps) {
		idx = len(s.snaps) - 1
	}
	snap, err := s.snaps[idx], s.errs[idx]
	calls := s.calls
	hook := s.onCollect
	s.mu.Unlock()

	if hook != nil {
		hook(calls)
	}
	return snap, err
}

// captureSink records everything published to it.
type captureSink struct {
	mu      sync.Mutex
	reports []*Report
	actions []*ActionItem
}

func (s *captureSink) Publish(_ context.Context, report *Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, report)
	return nil
}

func (s *captureSink) RaiseAction(_ context.Context, item *ActionItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions = append(s.actions, item)
	return nil
}

func (s *captureSink) counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reports), len(s.actions)
}

func TestRunnerSingleShot(t *testing.T) {
	snap := testSnapshot(96, 40)
	snap.Processes = []ProcessStats{{PID: 1, Name: "cruncher", CPUPercent: 88, MemoryMB: 512}}
	source := &stubSource{snaps: []*Snapshot{snap}, errs: []error{nil}}
	sinks := &captureSink{}

	runner := NewRunner(source, NewAnalyzer(DefaultConfig()), sinks, sinks, Options{RunOnce: true})
	err := runner.Run(context.Background())

	require.NoError(t, err)
	require.Len(t, sinks.reports, 1)

	report := sinks.reports[0]
	assert.Equal(t, 1, report.Iteration)
	assert.NotEmpty(t, report.RunID)
	assert.Same(t, snap, report.Snapshot)
	require.Len(t, report.Alerts, 1)
	assert.Equal(t, LevelCritical, report.Alerts[0].Level)
	assert.NotEmpty(t, report.Recommendations)
	assert.Len(t, report.TopCPU, 1)

	// The critical alert fans out as one actionable item.
	require.Len(t, sinks.actions, 1)
	assert.Equal(t, CategoryCPU, sinks.actions[0].Category)
	assert.NotEmpty(t, sinks.actions[0].ID)

	assert.Same(t, report, runner.Latest())
}

func TestRunnerSingleShotHardError(t *testing.T) {
	source := &stubSource{
		snaps: []*Snapshot{testSnapshot(10, 40)},
		errs:  []error{errors.New("cpu probe: unreadable")},
	}
	sinks := &captureSink{}

	runner := NewRunner(source, NewAnalyzer(DefaultConfig()), sinks, sinks, Options{RunOnce: true})
	err := runner.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "cpu probe")

	reports, actions := sinks.counts()
	assert.Zero(t, reports)
	assert.Zero(t, actions)
	assert.Nil(t, runner.Latest())
}

// TestRunnerContinuousRetriesAfterError: a failing cycle in continuous mode
// is retried on the next interval instead of aborting.
func TestRunnerContinuousRetriesAfterError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source := &stubSource{
		snaps: []*Snapshot{nil, testSnapshot(10, 40)},
		errs:  []error{errors.New("memory probe: transient"), nil},
	}
	source.onCollect = func(calls int) {
		if calls >= 2 {
			cancel()
		}
	}
	sinks := &captureSink{}

	runner := NewRunner(source, NewAnalyzer(DefaultConfig()), sinks, sinks, Options{
		Interval: 5 * time.Millisecond,
		RunOnce:  false,
	})
	err := runner.Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)

	reports, _ := sinks.counts()
	assert.Equal(t, 1, reports)
	require.NotNil(t, runner.Latest())
	assert.Equal(t, 2, runner.Latest().Iteration)
}

func TestRunnerContinuousStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source := &stubSource{snaps: []*Snapshot{testSnapshot(10, 40)}, errs: []error{nil}}
	source.onCollect = func(calls int) {
		if calls >= 3 {
			cancel()
		}
	}
	sinks := &captureSink{}

	runner := NewRunner(source, NewAnalyzer(DefaultConfig()), sinks, sinks, Options{
		Interval: time.Millisecond,
		RunOnce:  false,
	})
	err := runner.Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)

	reports, _ := sinks.counts()
	assert.GreaterOrEqual(t, reports, 3)
}

// TestRunnerDefaultInterval: a zero interval falls back to 30 seconds
// rather than spinning.
func TestRunnerDefaultInterval(t *testing.T) {
	source := &stubSource{snaps: []*Snapshot{testSnapshot(10, 40)}, errs: []error{nil}}
	sinks := &captureSink{}

	runner := NewRunner(source, NewAnalyzer(DefaultConfig()), sinks, sinks, Options{RunOnce: true})
	assert.Equal(t, 30*time.Second, runner.opts.Interval)
}
