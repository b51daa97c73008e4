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

package flag

import "time"

var (
	// Interval is the pause between collection cycles in continuous mode.
	Interval time.Duration

	// RunOnce terminates after one successful cycle when set.
	RunOnce bool

	// CPUThreshold is the CPU usage alert threshold in percent.
	CPUThreshold float64

	// MemoryThreshold is the memory usage alert threshold in percent.
	MemoryThreshold float64

	// DiskThreshold is the per-partition disk usage alert threshold in percent.
	DiskThreshold float64

	// TopProcessCount bounds the per-snapshot process list.
	TopProcessCount int

	// DiskExcludePatterns holds comma-separated glob patterns for mount
	// points the disk probe must skip.
	DiskExcludePatterns string

	// WebhookURL enables webhook delivery of reports and actions when set.
	WebhookURL string

	// ServerPort controls the HTTP listener port in continuous mode.
	ServerPort int

	// ServerAccessToken guards API entrypoints when set.
	ServerAccessToken string

	// ServerLogLevel controls the log verbosity ("debug", "info", "warn", "error").
	ServerLogLevel string
)
