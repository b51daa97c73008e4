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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCollectSmoke exercises a full collection against the live host.
func TestCollectSmoke(t *testing.T) {
	c := NewCollector(DefaultConfig())

	snap, err := c.Collect(context.Background())

	require.NoError(t, err)
	require.NotNil(t, snap)

	// Timestamp is assigned before the probes run.
	assert.WithinDuration(t, time.Now(), snap.Timestamp, time.Minute)

	assert.Greater(t, snap.CPU.Cores, 0)
	assert.Len(t, snap.CPU.PerCore, snap.CPU.Cores)
	assert.GreaterOrEqual(t, snap.CPU.UsagePercent, 0.0)
	assert.Less(t, snap.CPU.UsagePercent, 100.1)

	assert.Greater(t, snap.Memory.TotalGB, 0.0)
	assert.GreaterOrEqual(t, snap.Memory.UsedGB, 0.0)
	assert.LessOrEqual(t, snap.Memory.UsedGB, snap.Memory.TotalGB)
	assert.GreaterOrEqual(t, snap.Memory.UsedPercent, 0.0)
	assert.LessOrEqual(t, snap.Memory.UsedPercent, 100.0)

	for _, d := range snap.Disks {
		assert.NotEmpty(t, d.MountPoint)
		assert.GreaterOrEqual(t, d.TotalGB, 1.0)
	}

	assert.LessOrEqual(t, len(snap.Processes), DefaultConfig().TopProcessCount)
	for i := 1; i < len(snap.Processes); i++ {
		assert.GreaterOrEqual(t, snap.Processes[i-1].CPUPercent, snap.Processes[i].CPUPercent)
	}
}

// TestCollectExcludesMounts verifies the glob-based partition filter.
func TestCollectExcludesMounts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DiskExcludePatterns = []string{"/**"}
	c := NewCollector(cfg)

	snap, err := c.Collect(context.Background())

	require.NoError(t, err)
	assert.Empty(t, snap.Disks)
}

func TestMountExcluded(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		mount    string
		want     bool
	}{
		{"no patterns", nil, "/", false},
		{"exact match", []string{"/boot"}, "/boot", true},
		{"no match", []string{"/boot"}, "/", false},
		{"single star", []string{"/snap/*"}, "/snap/core", true},
		{"single star stops at separator", []string{"/snap/*"}, "/snap/core/x1", false},
		{"double star", []string{"/snap/**"}, "/snap/core/x1", true},
		{"invalid pattern never matches", []string{"[unclosed"}, "/data", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCollector(Config{DiskExcludePatterns: tt.patterns})
			assert.Equal(t, tt.want, c.mountExcluded(tt.mount))
		})
	}
}

func TestTopByCPU(t *testing.T) {
	stats := []ProcessStats{
		{PID: 1, Name: "low", CPUPercent: 1},
		{PID: 2, Name: "high", CPUPercent: 90},
		{PID: 3, Name: "mid", CPUPercent: 45},
	}

	top := topByCPU(stats, 2)

	require.Len(t, top, 2)
	assert.Equal(t, "high", top[0].Name)
	assert.Equal(t, "mid", top[1].Name)

	// Truncation never fabricates entries.
	assert.Len(t, topByCPU([]ProcessStats{{PID: 1}}, 5), 1)
	assert.Empty(t, topByCPU(nil, 5))
}

// TestSystemInfo reads host identification from the live system.
func TestSystemInfo(t *testing.T) {
	info, err := SystemInfo(context.Background())

	require.NoError(t, err)
	require.NotNil(t, info)
	assert.NotEmpty(t, info.Hostname)
	assert.NotEmpty(t, info.OS)
	assert.GreaterOrEqual(t, info.UptimeHours, 0.0)
}
