// Copyright 2019 Bull S.A.S. Atos Technologies - Bull, Rue Jean Jaures, B.P.68, 78340, Les Clayes-sous-Bois, France.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sizeutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseGB(t *testing.T) {
	var testData = []struct {
		test          string
		inputSize     string
		expectedSize  float64
		expectedError bool
	}{
		{"plain", "5", 5, false},
		{"plainFloat", "2.5", 2.5, false},
		{"spaces", "  48 ", 48, false},
		{"GB", "5GB", 5, false},
		{"GBWithSpaces", "5      GB", 5, false},
		{"GiB", "5 GiB", 5.37, false},
		{"MB", "1500 MB", 1.5, false},
		{"MiB", "512MiB", 0.54, false},
		{"TB", "1 tb", 1000, false},
		{"negative", "-1", 0, true},
		{"error", "1 deca", 0, true},
	}
	for _, tt := range testData {
		t.Run(tt.test, func(t *testing.T) {
			s, err := ParseGB(tt.inputSize)
			if tt.expectedError {
				assert.Error(t, err, "Expected an error")
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedSize, s)
		})
	}
}

func TestFormatGB(t *testing.T) {
	assert.Equal(t, "5", FormatGB(5))
	assert.Equal(t, "2.5", FormatGB(2.5))
}
