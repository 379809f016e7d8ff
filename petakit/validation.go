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
	"path/filepath"
	"strings"

	multierror "github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Validate checks the ClusterConfig invariants and reports every violation
func (c ClusterConfig) Validate() error {
	var result *multierror.Error
	if !isAbsOrHomePath(c.ConfigFilePath) {
		result = multierror.Append(result, errors.Errorf("configuration file path %q is not absolute", c.ConfigFilePath))
	}
	if c.MaxCPUCount <= 0 {
		result = multierror.Append(result, errors.Errorf("maximum CPU count must be positive, got %d", c.MaxCPUCount))
	}
	if c.MemoryPerCPUGB <= 0 {
		result = multierror.Append(result, errors.Errorf("memory per CPU must be positive, got %vGB", c.MemoryPerCPUGB))
	}
	return result.ErrorOrNil()
}

// isAbsOrHomePath accepts absolute paths and paths relative to the home directory of the toolkit host
func isAbsOrHomePath(p string) bool {
	return filepath.IsAbs(p) || p == "~" || strings.HasPrefix(p, "~/")
}

// Validate checks the ProcessingRequest invariants and reports every violation
func (r ProcessingRequest) Validate() error {
	var result *multierror.Error
	if len(r.DatasetPaths) == 0 {
		result = multierror.Append(result, errors.New("at least one dataset path is required"))
	}
	for i, p := range r.DatasetPaths {
		if strings.TrimSpace(p) == "" {
			result = multierror.Append(result, errors.Errorf("dataset path #%d is empty", i))
		}
	}
	for i, b := range r.BlockSize {
		if b <= 0 {
			result = multierror.Append(result, errors.Errorf("block size dimension #%d must be positive, got %d", i, b))
		}
	}
	if _, ok := _InterpolationMethodMap[r.Interpolation]; !ok {
		result = multierror.Append(result, errors.Errorf("unsupported interpolation method %s", r.Interpolation))
	}
	return result.ErrorOrNil()
}

// ParseBlockSize converts a list of exactly three dimensions into a block size
func ParseBlockSize(dims []int) ([3]int, error) {
	var bs [3]int
	if len(dims) != 3 {
		return bs, errors.Errorf("block size expects exactly 3 dimensions, got %d", len(dims))
	}
	copy(bs[:], dims)
	return bs, nil
}
