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

// Names of the toolkit entry points
const (
	GenerateConfigFileFunction      = "generate_config_file"
	DeskewRotateDataWrapperFunction = "XR_deskew_rotate_data_wrapper"
)

// Args returns the positional arguments of generate_config_file
func (c ClusterConfig) Args() []interface{} {
	return []interface{}{c.ConfigFilePath}
}

// Kwargs returns the keyword arguments of generate_config_file
func (c ClusterConfig) Kwargs() map[string]interface{} {
	return map[string]interface{}{
		"MCCMasterStr":  c.MCCMasterScriptPath,
		"MCRParam":      c.MCRRootPath,
		"memPerCPU":     c.MemoryPerCPUGB,
		"jobTimeLimit":  c.JobTimeLimitHours,
		"maxCPUNum":     c.MaxCPUCount,
		"GNUparallel":   c.UseGNUParallel,
		"masterCompute": c.RunOnMasterNode,
		"parseCluster":  c.SubmitSubJobs,
		"SlurmParam":    c.SlurmExtraParams,
	}
}

// Args returns the positional arguments of XR_deskew_rotate_data_wrapper
func (r ProcessingRequest) Args() []interface{} {
	return []interface{}{stringSlice(r.DatasetPaths)}
}

// Kwargs returns the keyword arguments of XR_deskew_rotate_data_wrapper
func (r ProcessingRequest) Kwargs() map[string]interface{} {
	return map[string]interface{}{
		"deskew":          r.Flags.Deskew,
		"rotate":          r.Flags.Rotate,
		"DSRCombined":     r.Flags.CombineDeskewRotate,
		"xyPixelSize":     r.PixelSizeXY,
		"dz":              r.ZStepSize,
		"skewAngle":       r.SkewAngleDegrees,
		"objectiveScan":   r.ObjectiveScan,
		"reverse":         r.Reverse,
		"channelPatterns": stringSlice(r.ChannelPatterns),
		"FFCorrection":    r.Flags.FlatFieldCorrection,
		"lowerLimit":      r.Numeric.LowerLimit,
		"constOffset":     r.Numeric.ConstOffset,
		"FFImagePaths":    stringSlice(r.FlatFieldImagePaths),
		"backgroundPaths": stringSlice(r.BackgroundPaths),
		"largeFile":       r.Flags.LargeFile,
		"zarrFile":        r.ZarrInput,
		"saveZarr":        r.Flags.SaveZarr,
		"blockSize":       r.BlockSize[:],
		"save16bit":       r.Flags.Save16Bit,
		"parseCluster":    r.UseClusterSubmission,
		"masterCompute":   r.RunOnMasterNode,
		"configFile":      r.ConfigFilePath,
		"mccMode":         r.MCCMode,
		"BKRemoval":       r.Flags.BackgroundRemoval,
		"save3DStack":     r.Flags.Save3DStack,
		"saveMIP":         r.Flags.SaveMIP,
		"interpMethod":    r.Interpolation.String(),
	}
}

// stringSlice makes sure a nil slice is sent as an empty list rather than None
func stringSlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	res := make([]string, len(s))
	copy(res, s)
	return res
}
