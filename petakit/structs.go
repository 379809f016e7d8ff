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

// Package petakit defines the records exchanged with the PetaKit5D toolkit entry points.
package petakit

//go:generate go-enum -f=structs.go --lower

// InterpolationMethod x ENUM(
// linear,
// cubic,
// nearest
// )
type InterpolationMethod int

// ClusterConfig describes the cluster resources used by the toolkit when it runs compiled code.
//
// It is written once by generate_config_file and read back by the toolkit at submission time.
type ClusterConfig struct {
	// ConfigFilePath is the absolute path of the configuration file to write
	ConfigFilePath string
	// MCCMasterScriptPath is the path to the compiled-binary master launcher script
	MCCMasterScriptPath string
	// MCRRootPath is the root of the compiled runtime installation
	MCRRootPath string
	// MemoryPerCPUGB is the memory requested per CPU, in GB
	MemoryPerCPUGB float64
	// JobTimeLimitHours is the Slurm time limit of a job, in hours
	JobTimeLimitHours int
	// MaxCPUCount is the maximum number of CPUs a job may request
	MaxCPUCount int
	UseGNUParallel bool
	// RunOnMasterNode makes the toolkit compute on the node it runs on
	RunOnMasterNode bool
	// SubmitSubJobs makes the toolkit submit sub-jobs to Slurm
	SubmitSubJobs bool
	// SlurmExtraParams is appended verbatim to the toolkit's sbatch command lines
	SlurmExtraParams string
}

// ProcessingFlags selects the processing steps and output products of a request
type ProcessingFlags struct {
	Deskew              bool
	Rotate              bool
	CombineDeskewRotate bool
	FlatFieldCorrection bool
	BackgroundRemoval   bool
	Save16Bit           bool
	Save3DStack         bool
	SaveMIP             bool
	SaveZarr            bool
	LargeFile           bool
}

// NumericParams holds the flat-field numeric parameters
type NumericParams struct {
	LowerLimit  float64
	ConstOffset float64
}

// ProcessingRequest describes one deskew/rotate processing request.
//
// All dataset paths are submitted in a single toolkit call.
type ProcessingRequest struct {
	DatasetPaths []string

	// Instrument parameters
	PixelSizeXY      float64
	ZStepSize        float64
	SkewAngleDegrees float64
	ChannelPatterns  []string
	ObjectiveScan    bool
	Reverse          bool

	// Cluster parameters
	UseClusterSubmission bool
	RunOnMasterNode      bool
	ConfigFilePath       string
	MCCMode              bool

	FlatFieldImagePaths []string
	BackgroundPaths     []string
	// ZarrInput tells the toolkit the input data is stored as Zarr
	ZarrInput bool

	Flags         ProcessingFlags
	Numeric       NumericParams
	BlockSize     [3]int
	Interpolation InterpolationMethod
}
