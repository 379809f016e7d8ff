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

// SampleClusterConfig returns a ClusterConfig with every field set to a non zero value
func SampleClusterConfig() ClusterConfig {
	return ClusterConfig{
		ConfigFilePath:      "/home/jdoe/pypetakit_config.json",
		MCCMasterScriptPath: "/opt/petakit5d/mcc/linux/run_mccMaster.sh",
		MCRRootPath:         "/opt/matlab/R2024B",
		MemoryPerCPUGB:      5.0,
		JobTimeLimitHours:   48,
		MaxCPUCount:         48,
		UseGNUParallel:      true,
		RunOnMasterNode:     true,
		SubmitSubJobs:       false,
		SlurmExtraParams:    "-p gpu",
	}
}

// SampleProcessingRequest returns a valid ProcessingRequest on a single dataset
func SampleProcessingRequest() ProcessingRequest {
	return ProcessingRequest{
		DatasetPaths:         []string{"/data/cell1/"},
		PixelSizeXY:          0.108,
		ZStepSize:            0.5,
		SkewAngleDegrees:     32.8,
		ChannelPatterns:      []string{"CamA", "CamB"},
		ObjectiveScan:        false,
		Reverse:              true,
		UseClusterSubmission: true,
		RunOnMasterNode:      false,
		ConfigFilePath:       "/home/jdoe/pypetakit_config.json",
		MCCMode:              true,
		FlatFieldImagePaths:  []string{""},
		BackgroundPaths:      []string{""},
		Flags: ProcessingFlags{
			Deskew:              true,
			Rotate:              true,
			CombineDeskewRotate: true,
			Save16Bit:           true,
			Save3DStack:         true,
			SaveMIP:             true,
		},
		Numeric:       NumericParams{LowerLimit: 0.4, ConstOffset: 1.0},
		BlockSize:     [3]int{256, 256, 256},
		Interpolation: InterpolationMethodLinear,
	}
}
