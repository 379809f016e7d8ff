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

// Package config defines configuration structures
package config

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/ystia/dsrctl/helper/pathutil"
	"github.com/ystia/dsrctl/helper/sizeutil"
	"github.com/ystia/dsrctl/petakit"
)

// DefaultConfigFilePath is the default location of the toolkit cluster configuration file
const DefaultConfigFilePath = "~/pypetakit_config.json"

// DefaultMCCMasterScriptPath is the default path of the compiled toolkit launcher on the cluster
const DefaultMCCMasterScriptPath = "/mmfs2/cm/shared/apps_local/petakit5d/mcc/linux/run_mccMaster.sh"

// DefaultMCRRootPath is the default root of the MATLAB runtime on the cluster
const DefaultMCRRootPath = "/cm/shared/apps_local/matlab/R2024B"

// DefaultMemoryPerCPU is the default memory allotted to each CPU, in GB
const DefaultMemoryPerCPU = "5"

// DefaultJobTimeLimitHours is the default wall time limit of a cluster job
const DefaultJobTimeLimitHours = 48

// DefaultMaxCPUCount is the default maximum number of CPUs a job may use
const DefaultMaxCPUCount = 48

// Default cluster behavior flags
const (
	DefaultUseGNUParallel  = true
	DefaultRunOnMasterNode = true
	DefaultSubmitSubJobs   = false
)

// Default acquisition geometry of the microscope
const (
	DefaultPixelSizeXY      = 0.108
	DefaultZStepSize        = 0.5
	DefaultSkewAngleDegrees = 32.8
)

// Default numeric processing parameters
const (
	DefaultLowerLimit  = 0.4
	DefaultConstOffset = 1.0
)

// DefaultInterpolation is the default interpolation method of the deskew/rotate step
const DefaultInterpolation = "linear"

// DefaultChannelPatterns are the default file name patterns selecting channels
var DefaultChannelPatterns = []string{"CamA", "CamB"}

// DefaultBlockSize is the default processing block size
var DefaultBlockSize = []int{256, 256, 256}

// Configuration holds config information filled by Cobra and Viper (see commands package for more information)
type Configuration struct {
	Cluster   Cluster
	Request   Request
	Toolkit   DynamicMap
	Telemetry Telemetry
}

// Cluster holds the values written into the toolkit cluster configuration file
type Cluster struct {
	ConfigFile      string
	MCCMasterScript string
	MCRRoot         string
	// MemoryPerCPU is either a number of GB or a human readable size like "5GB"
	MemoryPerCPU  string
	JobTimeLimit  int
	MaxCPU        int
	GNUParallel   bool
	MasterCompute bool
	ParseCluster  bool
	SlurmParams   string
}

// Request holds the processing parameters of a submission
type Request struct {
	PixelSize       float64
	ZStep           float64
	SkewAngle       float64
	ChannelPatterns []string
	ObjectiveScan   bool
	Reverse         bool
	ParseCluster    bool
	MasterCompute   bool
	// ConfigFile defaults to the cluster configuration file when empty
	ConfigFile      string
	MCCMode         bool
	FFImagePaths    []string
	BackgroundPaths []string
	ZarrInput       bool
	Deskew          bool
	Rotate          bool
	DSRCombined     bool
	FFCorrection    bool
	BKRemoval       bool
	Save16Bit       bool
	Save3DStack     bool
	SaveMIP         bool
	SaveZarr        bool
	LargeFile       bool
	LowerLimit      float64
	ConstOffset     float64
	BlockSize       []int
	Interpolation   string
}

// Telemetry holds the configuration for the telemetry service
type Telemetry struct {
	StatsdAddress   string
	StatsiteAddress string
	ServiceName     string
	DisableHostName bool
}

// RemoteToolkit reports whether the toolkit runs on a cluster login node reached over SSH
func (c Configuration) RemoteToolkit() bool {
	return c.Toolkit.GetString("host") != ""
}

// toolkitPath resolves a path seen by the toolkit.
// A leading ~ is kept for a remote toolkit, it is expanded on the login node by the driver.
func (c Configuration) toolkitPath(p string) (string, error) {
	if c.RemoteToolkit() {
		return p, nil
	}
	return pathutil.Expand(p)
}

// ClusterConfig converts the cluster section into the toolkit record
func (c Configuration) ClusterConfig() (petakit.ClusterConfig, error) {
	path, err := c.toolkitPath(c.Cluster.ConfigFile)
	if err != nil {
		return petakit.ClusterConfig{}, errors.Wrapf(err, "invalid configuration file path %q", c.Cluster.ConfigFile)
	}
	mem, err := sizeutil.ParseGB(c.Cluster.MemoryPerCPU)
	if err != nil {
		return petakit.ClusterConfig{}, errors.Wrap(err, "invalid memory per CPU")
	}
	return petakit.ClusterConfig{
		ConfigFilePath:      path,
		MCCMasterScriptPath: c.Cluster.MCCMasterScript,
		MCRRootPath:         c.Cluster.MCRRoot,
		MemoryPerCPUGB:      mem,
		JobTimeLimitHours:   c.Cluster.JobTimeLimit,
		MaxCPUCount:         c.Cluster.MaxCPU,
		UseGNUParallel:      c.Cluster.GNUParallel,
		RunOnMasterNode:     c.Cluster.MasterCompute,
		SubmitSubJobs:       c.Cluster.ParseCluster,
		SlurmExtraParams:    c.Cluster.SlurmParams,
	}, nil
}

// ProcessingRequest converts the request section into the toolkit record processing the given datasets
func (c Configuration) ProcessingRequest(datasets []string) (petakit.ProcessingRequest, error) {
	r := c.Request
	cfgFile := r.ConfigFile
	if cfgFile == "" {
		cfgFile = c.Cluster.ConfigFile
	}
	cfgFile, err := c.toolkitPath(cfgFile)
	if err != nil {
		return petakit.ProcessingRequest{}, errors.Wrapf(err, "invalid configuration file path %q", cfgFile)
	}
	blockSize, err := petakit.ParseBlockSize(r.BlockSize)
	if err != nil {
		return petakit.ProcessingRequest{}, err
	}
	interp, err := petakit.ParseInterpolationMethod(strings.ToLower(r.Interpolation))
	if err != nil {
		return petakit.ProcessingRequest{}, errors.Wrap(err, "invalid interpolation method")
	}
	return petakit.ProcessingRequest{
		DatasetPaths:         append([]string(nil), datasets...),
		PixelSizeXY:          r.PixelSize,
		ZStepSize:            r.ZStep,
		SkewAngleDegrees:     r.SkewAngle,
		ChannelPatterns:      append([]string(nil), r.ChannelPatterns...),
		ObjectiveScan:        r.ObjectiveScan,
		Reverse:              r.Reverse,
		UseClusterSubmission: r.ParseCluster,
		RunOnMasterNode:      r.MasterCompute,
		ConfigFilePath:       cfgFile,
		MCCMode:              r.MCCMode,
		FlatFieldImagePaths:  append([]string(nil), r.FFImagePaths...),
		BackgroundPaths:      append([]string(nil), r.BackgroundPaths...),
		ZarrInput:            r.ZarrInput,
		Flags: petakit.ProcessingFlags{
			Deskew:              r.Deskew,
			Rotate:              r.Rotate,
			CombineDeskewRotate: r.DSRCombined,
			FlatFieldCorrection: r.FFCorrection,
			BackgroundRemoval:   r.BKRemoval,
			Save16Bit:           r.Save16Bit,
			Save3DStack:         r.Save3DStack,
			SaveMIP:             r.SaveMIP,
			SaveZarr:            r.SaveZarr,
			LargeFile:           r.LargeFile,
		},
		Numeric: petakit.NumericParams{
			LowerLimit:  r.LowerLimit,
			ConstOffset: r.ConstOffset,
		},
		BlockSize:     blockSize,
		Interpolation: interp,
	}, nil
}

// DynamicMap holds loosely typed parameters, like the toolkit connection settings.
//
// It has methods to automatically cast data to the desired type.
type DynamicMap map[string]interface{}

// Keys returns the sorted keys of the map
func (dm DynamicMap) Keys() []string {
	keys := make([]string, 0, len(dm))
	for k := range dm {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsSet checks if a given configuration key is defined
func (dm DynamicMap) IsSet(name string) bool {
	_, ok := dm[name]
	return ok
}

// Get returns the raw value of a given configuration key
func (dm DynamicMap) Get(name string) interface{} {
	return dm[name]
}

// GetString returns the value of the given key casted into a string.
// An empty string is returned if not found.
func (dm DynamicMap) GetString(name string) string {
	return cast.ToString(dm[name])
}

// GetStringOrDefault returns the value of the given key casted into a string.
// The given default value is returned if not found.
func (dm DynamicMap) GetStringOrDefault(name, defaultValue string) string {
	if res := dm.GetString(name); res != "" {
		return res
	}
	return defaultValue
}

// GetBool returns the value of the given key casted into a boolean.
// False is returned if not found.
func (dm DynamicMap) GetBool(name string) bool {
	return cast.ToBool(dm[name])
}

// GetInt returns the value of the given key casted into an int.
// 0 is returned if not found.
func (dm DynamicMap) GetInt(name string) int {
	return cast.ToInt(dm[name])
}

// GetStringSlice returns the value of the given key casted into a slice of string.
// If the corresponding raw value is a string, it is splited on comas.
// A nil or empty slice is returned if not found.
func (dm DynamicMap) GetStringSlice(name string) []string {
	switch v := dm[name].(type) {
	case string:
		if v == "" {
			return nil
		}
		return strings.Split(v, ",")
	default:
		return cast.ToStringSlice(v)
	}
}
