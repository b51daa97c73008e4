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

package sink

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opensysmon/sysmond/pkg/monitor"
)

func testReport() *monitor.Report {
	return &monitor.Report{
		RunID:     "run-1",
		Iteration: 3,
		Snapshot: &monitor.Snapshot{
			Timestamp: time.Now(),
			CPU:       monitor.CPUStats{UsagePercent: 42.5, Cores: 4},
			Memory:    monitor.MemoryStats{TotalGB: 16, UsedGB: 8, UsedPercent: 50},
		},
		GeneratedAt: time.Now(),
	}
}

func TestWebhookSinkPublish(t *testing.T) {
	var gotPath string
	var gotContentType string
	var gotReport monitor.Report

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReport))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	hook := NewWebhookSink(server.URL)
	err := hook.Publish(context.Background(), testReport())

	require.NoError(t, err)
	assert.Equal(t, "/reports", gotPath)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "run-1", gotReport.RunID)
	assert.Equal(t, 3, gotReport.Iteration)
	assert.Equal(t, 42.5, gotReport.Snapshot.CPU.UsagePercent)
}

func TestWebhookSinkRaiseAction(t *testing.T) {
	var gotPath string
	var gotItem monitor.ActionItem

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotItem))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	item := monitor.NewActionItem(monitor.Alert{
		Level:     monitor.LevelCritical,
		Category:  monitor.CategoryDisk,
		Message:   "Disk / usage is 97.0% (3.0 GB free)",
		Value:     97,
		Threshold: 90,
		Timestamp: time.Now(),
	})

	hook := NewWebhookSink(server.URL + "/") // trailing slash must not double up
	err := hook.RaiseAction(context.Background(), item)

	require.NoError(t, err)
	assert.Equal(t, "/actions", gotPath)
	assert.Equal(t, item.ID, gotItem.ID)
	assert.Equal(t, monitor.CategoryDisk, gotItem.Category)
	assert.Equal(t, "System Alert: disk", gotItem.Title)
}

func TestWebhookSinkRejectsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	hook := NewWebhookSink(server.URL)
	err := hook.Publish(context.Background(), testReport())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestLogSink(t *testing.T) {
	s := NewLogSink()

	report := testReport()
	report.Recommendations = []string{"Run disk cleanup tools or remove unnecessary files"}
	assert.NoError(t, s.Publish(context.Background(), report))

	item := monitor.NewActionItem(monitor.Alert{
		Level:    monitor.LevelCritical,
		Category: monitor.CategoryCPU,
		Message:  "Sustained high CPU usage: 99.0% for 10 measurements",
		Value:    99, Threshold: 80,
	})
	assert.NoError(t, s.RaiseAction(context.Background(), item))
}
