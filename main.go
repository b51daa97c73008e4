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

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "go.uber.org/automaxprocs"

	"github.com/opensysmon/sysmond/pkg/flag"
	"github.com/opensysmon/sysmond/pkg/log"
	"github.com/opensysmon/sysmond/pkg/monitor"
	"github.com/opensysmon/sysmond/pkg/sink"
	"github.com/opensysmon/sysmond/pkg/util/safego"
	"github.com/opensysmon/sysmond/pkg/web"
	"github.com/opensysmon/sysmond/pkg/web/controller"
)

// main initializes and starts the sysmond monitor.
func main() {
	flag.InitFlags()
	log.SetLevel(flag.ServerLogLevel)
	defer log.Sync()

	config := monitor.Config{
		CPUThreshold:        flag.CPUThreshold,
		MemoryThreshold:     flag.MemoryThreshold,
		DiskThreshold:       flag.DiskThreshold,
		TopProcessCount:     flag.TopProcessCount,
		DiskExcludePatterns: flag.SplitPatterns(flag.DiskExcludePatterns),
	}
	if err := config.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Failure to identify the host at all is fatal; no probe would fare better.
	info, err := monitor.SystemInfo(ctx)
	if err != nil {
		log.Error("cannot read host info: %v", err)
		os.Exit(1)
	}
	log.Info("monitoring host %s (%s %s, kernel %s, up %.1fh)",
		info.Hostname, info.OS, info.Platform, info.KernelVersion, info.UptimeHours)

	reports, actions := buildSinks()

	collector := monitor.NewCollector(config)
	analyzer := monitor.NewAnalyzer(config)
	runner := monitor.NewRunner(collector, analyzer, reports, actions, monitor.Options{
		Interval: flag.Interval,
		RunOnce:  flag.RunOnce,
	})

	// The status API only makes sense while cycles keep running.
	if !flag.RunOnce {
		controller.InitMonitor(runner)
		engine := web.NewRouter(flag.ServerAccessToken)
		addr := fmt.Sprintf(":%d", flag.ServerPort)
		log.Info("sysmond API listening on %s", addr)
		safego.Go(func() {
			if err := engine.Run(addr); err != nil {
				log.Error("failed to start sysmond API server: %v", err)
			}
		})
	}

	if err := runner.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error("monitoring run failed: %v", err)
		os.Exit(1)
	}
}

func buildSinks() (monitor.ReportSink, monitor.ActionSink) {
	if flag.WebhookURL != "" {
		log.Info("delivering reports to webhook %s", flag.WebhookURL)
		hook := sink.NewWebhookSink(flag.WebhookURL)
		return hook, hook
	}
	logSink := sink.NewLogSink()
	return logSink, logSink
}
