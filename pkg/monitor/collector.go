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
	"sort"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/disk"
	"github.com/shirou/gopsutil/load"
	"github.com/shirou/gopsutil/mem"
	"github.com/shirou/gopsutil/process"
	"go.uber.org/multierr"

	"github.com/opensysmon/sysmond/pkg/log"
)

const (
	// cpuSampleWindow is the blocking measurement window for CPU usage.
	// It dominates per-cycle latency and bounds the polling frequency.
	cpuSampleWindow = time.Second

	// minPartitionBytes excludes tiny pseudo partitions from disk stats.
	minPartitionBytes = 1 << 30

	bytesPerGB = float64(1 << 30)
	bytesPerMB = float64(1 << 20)
)

// Collector gathers one host telemetry snapshot per Collect call.
type Collector struct {
	config Config
}

// NewCollector creates a collector bound to one configuration.
func NewCollector(config Config) *Collector {
	return &Collector{config: config}
}

// Collect runs the five telemetry probes concurrently and merges their
// results into a single snapshot. CPU and memory probe failures are hard
// errors and are aggregated into the returned error; the snapshot is still
// returned best-effort so callers can decide policy. Disk, load, and
// process failures are soft: the affected fields stay empty.
func (c *Collector) Collect(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{
		Timestamp: time.Now(),
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var hardErr error

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := c.collectCPU(ctx, snap, &mu); err != nil {
			mu.Lock()
			hardErr = multierr.Append(hardErr, fmt.Errorf("cpu probe: %w", err))
			mu.Unlock()
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := c.collectMemory(ctx, snap, &mu); err != nil {
			mu.Lock()
			hardErr = multierr.Append(hardErr, fmt.Errorf("memory probe: %w", err))
			mu.Unlock()
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := c.collectDisks(ctx, snap, &mu); err != nil {
			log.Warn("disk probe failed, partitions omitted: %v", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := c.collectLoad(ctx, snap, &mu); err != nil {
			log.Warn("load probe failed, load averages unavailable: %v", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := c.collectProcesses(ctx, snap, &mu); err != nil {
			log.Warn("process probe failed, process list omitted: %v", err)
		}
	}()

	wg.Wait()

	return snap, hardErr
}

func (c *Collector) collectCPU(ctx context.Context, snap *Snapshot, mu *sync.Mutex) error {
	overall, err := cpu.PercentWithContext(ctx, cpuSampleWindow, false)
	if err != nil {
		return err
	}

	perCore, err := cpu.PercentWithContext(ctx, cpuSampleWindow, true)
	if err != nil {
		return err
	}

	var usage float64
	if len(overall) > 0 {
		usage = overall[0]
	}

	mu.Lock()
	snap.CPU = CPUStats{
		UsagePercent: usage,
		Cores:        len(perCore),
		PerCore:      perCore,
	}
	mu.Unlock()

	return nil
}

func (c *Collector) collectMemory(ctx context.Context, snap *Snapshot, mu *sync.Mutex) error {
	vmStat, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return err
	}

	swapStat, err := mem.SwapMemoryWithContext(ctx)
	if err != nil {
		return err
	}

	mu.Lock()
	snap.Memory = MemoryStats{
		TotalGB:     float64(vmStat.Total) / bytesPerGB,
		UsedGB:      float64(vmStat.Used) / bytesPerGB,
		AvailableGB: float64(vmStat.Available) / bytesPerGB,
		UsedPercent: vmStat.UsedPercent,
		SwapTotalGB: float64(swapStat.Total) / bytesPerGB,
		SwapUsedGB:  float64(swapStat.Used) / bytesPerGB,
		SwapPercent: swapStat.UsedPercent,
	}
	mu.Unlock()

	return nil
}

func (c *Collector) collectDisks(ctx context.Context, snap *Snapshot, mu *sync.Mutex) error {
	partitions, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return err
	}

	var disks []DiskStats
	for _, partition := range partitions {
		if c.mountExcluded(partition.Mountpoint) {
			continue
		}

		usage, err := disk.UsageWithContext(ctx, partition.Mountpoint)
		if err != nil {
			// Inaccessible partitions are skipped, not fatal.
			continue
		}

		if usage.Total < minPartitionBytes {
			continue
		}

		disks = append(disks, DiskStats{
			MountPoint:  partition.Mountpoint,
			Device:      partition.Device,
			TotalGB:     float64(usage.Total) / bytesPerGB,
			UsedGB:      float64(usage.Used) / bytesPerGB,
			FreeGB:      float64(usage.Free) / bytesPerGB,
			UsedPercent: usage.UsedPercent,
		})
	}

	mu.Lock()
	snap.Disks = disks
	mu.Unlock()

	return nil
}

// mountExcluded reports whether a mount point matches any configured
// exclude pattern. Invalid patterns never match.
func (c *Collector) mountExcluded(mountPoint string) bool {
	for _, pattern := range c.config.DiskExcludePatterns {
		ok, err := doublestar.Match(pattern, mountPoint)
		if err != nil {
			log.Warn("invalid disk exclude pattern %q: %v", pattern, err)
			continue
		}
		if ok {
			return true
		}
	}
	return false
}

func (c *Collector) collectLoad(ctx context.Context, snap *Snapshot, mu *sync.Mutex) error {
	loadStat, err := load.AvgWithContext(ctx)
	if err != nil {
		return err
	}

	mu.Lock()
	snap.Load = LoadStats{
		Load1:  loadStat.Load1,
		Load5:  loadStat.Load5,
		Load15: loadStat.Load15,
	}
	mu.Unlock()

	return nil
}

func (c *Collector) collectProcesses(ctx context.Context, snap *Snapshot, mu *sync.Mutex) error {
	processes, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return err
	}

	var stats []ProcessStats
	for _, p := range processes {
		// A process may exit mid-scan; skip anything that no longer answers.
		name, err := p.NameWithContext(ctx)
		if err != nil || name == "" {
			continue
		}

		cpuPercent, err := p.CPUPercentWithContext(ctx)
		if err != nil {
			continue
		}

		memInfo, err := p.MemoryInfoWithContext(ctx)
		if err != nil || memInfo == nil {
			continue
		}

		memPercent, err := p.MemoryPercentWithContext(ctx)
		if err != nil {
			continue
		}

		stats = append(stats, ProcessStats{
			PID:           p.Pid,
			Name:          name,
			CPUPercent:    cpuPercent,
			MemoryMB:      float64(memInfo.RSS) / bytesPerMB,
			MemoryPercent: float64(memPercent),
		})
	}

	stats = topByCPU(stats, c.config.TopProcessCount)

	mu.Lock()
	snap.Processes = stats
	mu.Unlock()

	return nil
}

// topByCPU sorts descending by CPU usage and truncates to n entries.
func topByCPU(stats []ProcessStats, n int) []ProcessStats {
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].CPUPercent > stats[j].CPUPercent
	})
	if n >= 0 && len(stats) > n {
		stats = stats[:n]
	}
	return stats
}
