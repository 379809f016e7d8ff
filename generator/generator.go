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

// Package generator writes the toolkit cluster configuration file.
package generator

import (
	"context"

	metrics "github.com/armon/go-metrics"
	"github.com/pkg/errors"

	"github.com/ystia/dsrctl/log"
	"github.com/ystia/dsrctl/petakit"
	"github.com/ystia/dsrctl/toolkit"
)

// Generate writes cfg at path through the toolkit generate_config_file entry point,
// overwriting any existing file.
//
// There is no recovery: the toolkit error is returned with the path as context.
func Generate(ctx context.Context, tk toolkit.Toolkit, path string, cfg petakit.ClusterConfig) error {
	log.Debugf("Generating toolkit configuration %q with %+v", path, cfg)
	if err := tk.GenerateConfigFile(ctx, path, cfg); err != nil {
		metrics.IncrCounter([]string{"generate", "failure"}, 1)
		return errors.Wrapf(err, "failed to generate configuration file %q", path)
	}
	metrics.IncrCounter([]string{"generate", "success"}, 1)
	return nil
}
