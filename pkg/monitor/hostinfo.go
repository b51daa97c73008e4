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

	"github.com/shirou/gopsutil/host"
)

// HostInfo describes the monitored host, gathered once at startup.
type HostInfo struct {
	Hostname       string  `json:"hostname"`
	Platform       string  `json:"platform"`
	PlatformFamily string  `json:"platform_family"`
	OS             string  `json:"os"`
	KernelVersion  string  `json:"kernel_version"`
	UptimeHours    float64 `json:"uptime_hours"`
}

// SystemInfo reads basic host identification. Failure here means the
// environment cannot be inspected at all and should abort the run.
func SystemInfo(ctx context.Context) (*HostInfo, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return nil, err
	}

	return &HostInfo{
		Hostname:       info.Hostname,
		Platform:       info.Platform,
		PlatformFamily: info.PlatformFamily,
		OS:             info.OS,
		KernelVersion:  info.KernelVersion,
		UptimeHours:    float64(info.Uptime) / 3600,
	}, nil
}
