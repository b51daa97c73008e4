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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/opensysmon/sysmond/pkg/monitor"
)

const (
	reportsPath = "/reports"
	actionsPath = "/actions"
)

// WebhookSink delivers reports and actionable alerts as JSON POSTs to a
// remote endpoint. Only the payload shape is defined here; what the
// receiver does with it is its own business.
type WebhookSink struct {
	baseURL    string
	httpClient *http.Client
}

type WebhookOption func(*WebhookSink)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) WebhookOption {
	return func(s *WebhookSink) {
		s.httpClient = client
	}
}

// NewWebhookSink creates a webhook sink posting to baseURL.
func NewWebhookSink(baseURL string, options ...WebhookOption) *WebhookSink {
	s := &WebhookSink{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	for _, option := range options {
		option(s)
	}

	return s
}

func (s *WebhookSink) Publish(ctx context.Context, report *monitor.Report) error {
	return s.post(ctx, s.baseURL+reportsPath, report)
}

func (s *WebhookSink) RaiseAction(ctx context.Context, item *monitor.ActionItem) error {
	return s.post(ctx, s.baseURL+actionsPath, item)
}

func (s *WebhookSink) post(ctx context.Context, url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("webhook %s returned status %d", url, resp.StatusCode)
	}

	return nil
}
