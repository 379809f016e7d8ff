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
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keys(m map[string]interface{}) []string {
	res := make([]string, 0, len(m))
	for k := range m {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}

func TestClusterConfigKwargs(t *testing.T) {
	t.Parallel()
	c := SampleClusterConfig()
	kw := c.Kwargs()
	assert.ElementsMatch(t, []string{"MCCMasterStr", "MCRParam", "memPerCPU", "jobTimeLimit", "maxCPUNum",
		"GNUparallel", "masterCompute", "parseCluster", "SlurmParam"}, keys(kw))
	assert.Equal(t, "/opt/petakit5d/mcc/linux/run_mccMaster.sh", kw["MCCMasterStr"])
	assert.Equal(t, "/opt/matlab/R2024B", kw["MCRParam"])
	assert.Equal(t, 5.0, kw["memPerCPU"])
	assert.Equal(t, 48, kw["jobTimeLimit"])
	assert.Equal(t, 48, kw["maxCPUNum"])
	assert.Equal(t, true, kw["GNUparallel"])
	assert.Equal(t, true, kw["masterCompute"])
	assert.Equal(t, false, kw["parseCluster"])
	assert.Equal(t, "-p gpu", kw["SlurmParam"])
	assert.Equal(t, []interface{}{"/home/jdoe/pypetakit_config.json"}, c.Args())
}

func TestProcessingRequestKwargs(t *testing.T) {
	t.Parallel()
	r := SampleProcessingRequest()
	kw := r.Kwargs()
	require.Len(t, kw, 27)
	assert.ElementsMatch(t, []string{"deskew", "rotate", "DSRCombined", "xyPixelSize", "dz", "skewAngle",
		"objectiveScan", "reverse", "channelPatterns", "FFCorrection", "lowerLimit", "constOffset",
		"FFImagePaths", "backgroundPaths", "largeFile", "zarrFile", "saveZarr", "blockSize", "save16bit",
		"parseCluster", "masterCompute", "configFile", "mccMode", "BKRemoval", "save3DStack", "saveMIP",
		"interpMethod"}, keys(kw))

	assert.Equal(t, true, kw["deskew"])
	assert.Equal(t, true, kw["rotate"])
	assert.Equal(t, true, kw["DSRCombined"])
	assert.Equal(t, 0.108, kw["xyPixelSize"])
	assert.Equal(t, 0.5, kw["dz"])
	assert.Equal(t, 32.8, kw["skewAngle"])
	assert.Equal(t, []string{"CamA", "CamB"}, kw["channelPatterns"])
	assert.Equal(t, 0.4, kw["lowerLimit"])
	assert.Equal(t, 1.0, kw["constOffset"])
	assert.Equal(t, []string{""}, kw["FFImagePaths"])
	assert.Equal(t, []int{256, 256, 256}, kw["blockSize"])
	assert.Equal(t, "/home/jdoe/pypetakit_config.json", kw["configFile"])
	assert.Equal(t, true, kw["mccMode"])
	assert.Equal(t, "linear", kw["interpMethod"])
	assert.Equal(t, []interface{}{[]string{"/data/cell1/"}}, r.Args())
}

func TestProcessingRequestKwargsNilSlices(t *testing.T) {
	t.Parallel()
	r := SampleProcessingRequest()
	r.ChannelPatterns = nil
	r.FlatFieldImagePaths = nil
	kw := r.Kwargs()
	assert.Equal(t, []string{}, kw["channelPatterns"])
	assert.Equal(t, []string{}, kw["FFImagePaths"])
}

func TestProcessingRequestKwargsDoNotAlias(t *testing.T) {
	t.Parallel()
	r := SampleProcessingRequest()
	kw := r.Kwargs()
	kw["channelPatterns"].([]string)[0] = "changed"
	kw["blockSize"].([]int)[0] = 1
	assert.Equal(t, "CamA", r.ChannelPatterns[0])
	assert.Equal(t, 256, r.BlockSize[0])
}
