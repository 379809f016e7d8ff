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

package petakit

import (
	"testing"

	multierror "github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClusterConfigValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		modify  func(c *ClusterConfig)
		wantErr int
	}{
		{"Valid", func(c *ClusterConfig) {}, 0},
		{"RelativePath", func(c *ClusterConfig) { c.ConfigFilePath = "pypetakit_config.json" }, 1},
		{"HomePath", func(c *ClusterConfig) { c.ConfigFilePath = "~/pypetakit_config.json" }, 0},
		{"OtherUserHome", func(c *ClusterConfig) { c.ConfigFilePath = "~jdoe/pypetakit_config.json" }, 1},
		{"NoCPU", func(c *ClusterConfig) { c.MaxCPUCount = 0 }, 1},
		{"NegativeMemory", func(c *ClusterConfig) { c.MemoryPerCPUGB = -1 }, 1},
		{"AllWrong", func(c *ClusterConfig) {
			c.ConfigFilePath = ""
			c.MaxCPUCount = -2
			c.MemoryPerCPUGB = 0
		}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := SampleClusterConfig()
			tt.modify(&c)
			err := c.Validate()
			if tt.wantErr == 0 {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			merr, ok := err.(*multierror.Error)
			require.True(t, ok, "expecting a multierror, got %T", err)
			assert.Len(t, merr.Errors, tt.wantErr)
		})
	}
}

func TestProcessingRequestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		modify  func(r *ProcessingRequest)
		wantErr int
	}{
		{"Valid", func(r *ProcessingRequest) {}, 0},
		{"NoDataset", func(r *ProcessingRequest) { r.DatasetPaths = nil }, 1},
		{"EmptyDataset", func(r *ProcessingRequest) { r.DatasetPaths = []string{"/data/a", " "} }, 1},
		{"ZeroBlock", func(r *ProcessingRequest) { r.BlockSize = [3]int{256, 0, 256} }, 1},
		{"BadInterp", func(r *ProcessingRequest) { r.Interpolation = InterpolationMethod(42) }, 1},
		{"Several", func(r *ProcessingRequest) {
			r.DatasetPaths = []string{}
			r.BlockSize = [3]int{-1, -1, 3}
		}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := SampleProcessingRequest()
			tt.modify(&r)
			err := r.Validate()
			if tt.wantErr == 0 {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			merr, ok := err.(*multierror.Error)
			require.True(t, ok, "expecting a multierror, got %T", err)
			assert.Len(t, merr.Errors, tt.wantErr)
		})
	}
}

func TestParseBlockSize(t *testing.T) {
	t.Parallel()
	bs, err := ParseBlockSize([]int{128, 256, 64})
	require.NoError(t, err)
	assert.Equal(t, [3]int{128, 256, 64}, bs)

	_, err = ParseBlockSize([]int{256, 256})
	assert.Error(t, err)
	_, err = ParseBlockSize([]int{1, 2, 3, 4})
	assert.Error(t, err)
}

func TestInterpolationMethod(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"linear", "cubic", "nearest"} {
		m, err := ParseInterpolationMethod(name)
		require.NoError(t, err)
		assert.Equal(t, name, m.String())
	}
	_, err := ParseInterpolationMethod("spline")
	assert.Error(t, err)
	assert.Equal(t, "InterpolationMethod(7)", InterpolationMethod(7).String())

	var m InterpolationMethod
	require.NoError(t, m.UnmarshalText([]byte("cubic")))
	assert.Equal(t, InterpolationMethodCubic, m)
}
