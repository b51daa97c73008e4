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

import (
	"flag"
	stdlog "log"
	"os"
	"strings"
	"time"
)

const (
	intervalEnv    = "SYSMOND_INTERVAL"
	webhookURLEnv  = "SYSMOND_WEBHOOK_URL"
	accessTokenEnv = "SYSMOND_ACCESS_TOKEN"
	logLevelEnv    = "SYSMOND_LOG_LEVEL"
)

// InitFlags registers CLI flags and env overrides.
func InitFlags() {
	// Set default values
	Interval = 30 * time.Second
	RunOnce = true
	CPUThreshold = 80.0
	MemoryThreshold = 90.0
	DiskThreshold = 90.0
	TopProcessCount = 10
	ServerPort = 48600
	ServerAccessToken = ""
	ServerLogLevel = "info"

	// First, set default values from environment variables
	if intervalFromEnv := os.Getenv(intervalEnv); intervalFromEnv != "" {
		duration, err := time.ParseDuration(intervalFromEnv)
		if err != nil {
			stdlog.Panicf("Failed to parse %s: %v", intervalEnv, err)
		}
		Interval = duration
	}

	if webhookFromEnv := os.Getenv(webhookURLEnv); webhookFromEnv != "" {
		if !strings.HasPrefix(webhookFromEnv, "http://") && !strings.HasPrefix(webhookFromEnv, "https://") {
			stdlog.Panicf("Invalid %s format: must start with http:// or https://", webhookURLEnv)
		}
		WebhookURL = webhookFromEnv
	}

	if tokenFromEnv := os.Getenv(accessTokenEnv); tokenFromEnv != "" {
		ServerAccessToken = tokenFromEnv
	}

	if levelFromEnv := os.Getenv(logLevelEnv); levelFromEnv != "" {
		ServerLogLevel = levelFromEnv
	}

	// Then define flags with current values as defaults
	flag.DurationVar(&Interval, "interval", Interval, "Pause between collection cycles in continuous mode (default: 30s)")
	flag.BoolVar(&RunOnce, "run-once", RunOnce, "Run a single collection cycle and exit (default: true)")
	flag.Float64Var(&CPUThreshold, "cpu-threshold", CPUThreshold, "CPU usage alert threshold in percent (default: 80)")
	flag.Float64Var(&MemoryThreshold, "memory-threshold", MemoryThreshold, "Memory usage alert threshold in percent (default: 90)")
	flag.Float64Var(&DiskThreshold, "disk-threshold", DiskThreshold, "Disk usage alert threshold in percent (default: 90)")
	flag.IntVar(&TopProcessCount, "top-processes", TopProcessCount, "Number of top-CPU processes kept per snapshot (default: 10)")
	flag.StringVar(&DiskExcludePatterns, "disk-exclude", DiskExcludePatterns, "Comma-separated glob patterns for mount points to skip (e.g. /snap/*,/boot/**)")
	flag.StringVar(&WebhookURL, "webhook-url", WebhookURL, "Base URL for webhook delivery of reports and actionable alerts")
	flag.IntVar(&ServerPort, "port", ServerPort, "HTTP listener port in continuous mode (default: 48600)")
	flag.StringVar(&ServerAccessToken, "access-token", ServerAccessToken, "Server access token for API authentication")
	flag.StringVar(&ServerLogLevel, "log-level", ServerLogLevel, "Log level: debug, info, warn, error (default: info)")

	// Parse flags - these will override environment variables if provided
	flag.Parse()
}

// SplitPatterns turns the comma-separated -disk-exclude value into a slice,
// dropping empty segments.
func SplitPatterns(raw string) []string {
	if raw == "" {
		return nil
	}
	var patterns []string
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			patterns = append(patterns, p)
		}
	}
	return patterns
}
