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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitPatterns(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"single", "/snap/*", []string{"/snap/*"}},
		{"multiple", "/snap/*,/boot/**", []string{"/snap/*", "/boot/**"}},
		{"whitespace trimmed", " /snap/* , /boot ", []string{"/snap/*", "/boot"}},
		{"empty segments dropped", ",/snap/*,,", []string{"/snap/*"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitPatterns(tt.raw))
		})
	}
}
