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

// Package toolkit is the boundary with the external deskew/rotate toolkit.
//
// The toolkit is a Python package wrapping compiled code. It is reached through a process boundary:
// a small Python driver is staged next to a JSON payload describing the call, then run by a Runner
// either on the local host or on a cluster login node.
package toolkit

import (
	"context"

	"github.com/ystia/dsrctl/petakit"
)

// DefaultModule is the Python module exposing the toolkit entry points
const DefaultModule = "PyPetaKit5D"

// DefaultPython is the Python interpreter used to run the driver
const DefaultPython = "python3"

// Toolkit exposes the two toolkit entry points used by dsrctl
type Toolkit interface {
	// GenerateConfigFile writes the cluster configuration file at path, overwriting it if present
	GenerateConfigFile(ctx context.Context, path string, cfg petakit.ClusterConfig) error
	// DeskewRotateDataWrapper runs or submits the processing of a request.
	// It returns once submission (not completion) succeeded.
	DeskewRotateDataWrapper(ctx context.Context, req petakit.ProcessingRequest) error
}

// Call is the payload sent to the driver
type Call struct {
	Module   string                 `json:"module" yaml:"module"`
	Function string                 `json:"function,omitempty" yaml:"function,omitempty"`
	Args     []interface{}          `json:"args" yaml:"args"`
	Kwargs   map[string]interface{} `json:"kwargs" yaml:"kwargs"`
}

// NewGenerateConfigFileCall builds the generate_config_file call of a ClusterConfig written at path
func NewGenerateConfigFileCall(module, path string, cfg petakit.ClusterConfig) Call {
	return Call{
		Module:   module,
		Function: petakit.GenerateConfigFileFunction,
		Args:     []interface{}{path},
		Kwargs:   cfg.Kwargs(),
	}
}

// NewDeskewRotateDataWrapperCall builds the XR_deskew_rotate_data_wrapper call of a ProcessingRequest
func NewDeskewRotateDataWrapperCall(module string, req petakit.ProcessingRequest) Call {
	return Call{
		Module:   module,
		Function: petakit.DeskewRotateDataWrapperFunction,
		Args:     req.Args(),
		Kwargs:   req.Kwargs(),
	}
}
