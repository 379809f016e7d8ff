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

package commands

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"

	"github.com/ystia/dsrctl/config"
	"github.com/ystia/dsrctl/helper/sshutil"
	"github.com/ystia/dsrctl/slurm"
	"github.com/ystia/dsrctl/toolkit"
)

func captureOutputs(t *testing.T) (*bytes.Buffer, *bytes.Buffer, func()) {
	var out, errOut bytes.Buffer
	oldOut, oldErr := stdout, stderr
	stdout, stderr = &out, &errOut
	return &out, &errOut, func() {
		stdout, stderr = oldOut, oldErr
	}
}

func TestGetConfigDefaults(t *testing.T) {
	cfg := getConfig()

	assert.Equal(t, config.DefaultConfigFilePath, cfg.Cluster.ConfigFile)
	assert.Equal(t, config.DefaultMCCMasterScriptPath, cfg.Cluster.MCCMasterScript)
	assert.Equal(t, config.DefaultMCRRootPath, cfg.Cluster.MCRRoot)
	assert.Equal(t, "5", cfg.Cluster.MemoryPerCPU)
	assert.Equal(t, 48, cfg.Cluster.JobTimeLimit)
	assert.Equal(t, 48, cfg.Cluster.MaxCPU)
	assert.True(t, cfg.Cluster.GNUParallel)
	assert.True(t, cfg.Cluster.MasterCompute)
	assert.False(t, cfg.Cluster.ParseCluster)

	assert.Equal(t, 0.108, cfg.Request.PixelSize)
	assert.Equal(t, 0.5, cfg.Request.ZStep)
	assert.Equal(t, 32.8, cfg.Request.SkewAngle)
	assert.Equal(t, []string{"CamA", "CamB"}, cfg.Request.ChannelPatterns)
	assert.Equal(t, []string{""}, cfg.Request.FFImagePaths)
	assert.Equal(t, []int{256, 256, 256}, cfg.Request.BlockSize)
	assert.Equal(t, "linear", cfg.Request.Interpolation)
	assert.True(t, cfg.Request.Reverse)
	assert.True(t, cfg.Request.ParseCluster)
	assert.False(t, cfg.Request.MasterCompute)
	assert.True(t, cfg.Request.MCCMode)
	assert.Equal(t, "dsrctl", cfg.Telemetry.ServiceName)

	clusterCfg, err := cfg.ClusterConfig()
	require.NoError(t, err)
	assert.NoError(t, clusterCfg.Validate())
	req, err := cfg.ProcessingRequest([]string{"/data/cell1/"})
	require.NoError(t, err)
	assert.NoError(t, req.Validate())
}

func TestGetConfigOverrides(t *testing.T) {
	envs := map[string]string{
		"DSRCTL_REQUEST_BLOCK_SIZE":       "128, 128,64",
		"DSRCTL_REQUEST_CHANNEL_PATTERNS": "CamA",
		"DSRCTL_TOOLKIT_HOST":             "login1",
		"DSRCTL_TOOLKIT_PORT":             "2222",
		"DSRCTL_CLUSTER_MEMORY_PER_CPU":   "8GB",
	}
	for k, v := range envs {
		os.Setenv(k, v)
	}
	defer func() {
		for k := range envs {
			os.Unsetenv(k)
		}
	}()

	cfg := getConfig()
	assert.Equal(t, []int{128, 128, 64}, cfg.Request.BlockSize)
	assert.Equal(t, []string{"CamA"}, cfg.Request.ChannelPatterns)
	assert.Equal(t, "login1", cfg.Toolkit.GetString("host"))
	assert.Equal(t, 2222, cfg.Toolkit.GetInt("port"))
	clusterCfg, err := cfg.ClusterConfig()
	require.NoError(t, err)
	assert.Equal(t, 8.0, clusterCfg.MemoryPerCPUGB)
	assert.Equal(t, "~/pypetakit_config.json", clusterCfg.ConfigFilePath)
	assert.NoError(t, clusterCfg.Validate())
}

func TestToIntSlice(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		input   interface{}
		want    []int
		wantErr bool
	}{
		{"IntSlice", []int{1, 2, 3}, []int{1, 2, 3}, false},
		{"InterfaceSlice", []interface{}{1, "2", 3.0}, []int{1, 2, 3}, false},
		{"CommaSeparated", "256,256,256", []int{256, 256, 256}, false},
		{"Brackets", "[64, 64, 32]", []int{64, 64, 32}, false},
		{"Empty", "", nil, false},
		{"NotANumber", "256,x,256", nil, true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := toIntSlice(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSubmitDryRun(t *testing.T) {
	out, _, restore := captureOutputs(t)
	defer restore()
	defer func() { dryRun = false }()

	RootCmd.SetArgs([]string{"submit", "--dry-run", "--block-size", "128,128,128", "/data/cell1/", "/data/cell2/"})
	require.NoError(t, RootCmd.Execute())

	var call struct {
		Module   string                 `yaml:"module"`
		Function string                 `yaml:"function"`
		Args     []interface{}          `yaml:"args"`
		Kwargs   map[string]interface{} `yaml:"kwargs"`
	}
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &call))
	assert.Equal(t, toolkit.DefaultModule, call.Module)
	assert.Equal(t, "XR_deskew_rotate_data_wrapper", call.Function)
	assert.Equal(t, []interface{}{[]interface{}{"/data/cell1/", "/data/cell2/"}}, call.Args)
	assert.Len(t, call.Kwargs, 27)
	assert.Equal(t, []interface{}{128, 128, 128}, call.Kwargs["blockSize"])
	assert.Equal(t, true, call.Kwargs["deskew"])
	assert.Equal(t, 32.8, call.Kwargs["skewAngle"])
	assert.Equal(t, "linear", call.Kwargs["interpMethod"])
	assert.NotContains(t, out.String(), "Submitting job")
}

func TestSubmitInvalidRequest(t *testing.T) {
	_, _, restore := captureOutputs(t)
	defer restore()
	defer func() { dryRun = false }()

	RootCmd.SetArgs([]string{"submit", "--dry-run", "--block-size", "128,128", "/data/cell1/"})
	err := RootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "3 dimensions")
}

func TestSubmitFailureExitCode(t *testing.T) {
	out, errOut, restore := captureOutputs(t)
	defer restore()
	var code int
	oldExit := osExit
	osExit = func(c int) { code = c }
	defer func() { osExit = oldExit }()
	dryRun = false

	RootCmd.SetArgs([]string{"submit", "--python", "/nonexistent/dsrctl-python", "--block-size", "256,256,256", "/data/cell1/"})
	require.NoError(t, RootCmd.Execute())
	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "Submitting job to cluster for: /data/cell1/")
	assert.Contains(t, errOut.String(), "Error in script:")
	assert.NotContains(t, out.String(), "successfully")
}

func TestConfigGenerateErrorPropagates(t *testing.T) {
	_, _, restore := captureOutputs(t)
	defer restore()

	RootCmd.SetArgs([]string{"config", "generate", "--python", "/nonexistent/dsrctl-python", "--config-file", "/tmp/dsrctl_test_config.json"})
	err := RootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/tmp/dsrctl_test_config.json")
}

func TestConfigGenerateInvalid(t *testing.T) {
	_, _, restore := captureOutputs(t)
	defer restore()

	RootCmd.SetArgs([]string{"config", "generate", "--config-file", "relative.json", "--max-cpu=-1"})
	err := RootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not absolute")
	assert.Contains(t, err.Error(), "maximum CPU count")
}

func TestRunChecks(t *testing.T) {
	out, _, restore := captureOutputs(t)
	defer restore()
	color.NoColor = true

	err := runChecks(context.Background(), []check{
		{"Python interpreter", func(ctx context.Context) (string, error) { return "Python 3.11.4", nil }},
		{"Toolkit module", func(ctx context.Context) (string, error) { return "", errors.New("No module named 'PyPetaKit5D'") }},
		{"Cluster configuration file", func(ctx context.Context) (string, error) { return "", errors.New("missing") }},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "toolkit module check failed")
	assert.Contains(t, err.Error(), "cluster configuration file check failed")
	assert.Contains(t, out.String(), "✔ Python interpreter: Python 3.11.4")
	assert.Contains(t, out.String(), "✘ Toolkit module: No module named 'PyPetaKit5D'")

	out.Reset()
	require.NoError(t, runChecks(context.Background(), []check{
		{"Python interpreter", func(ctx context.Context) (string, error) { return "Python 3.11.4", nil }},
	}))
}

func TestCheckPythonVersion(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		out     string
		wantErr bool
	}{
		{"Recent", "Python 3.11.4", false},
		{"Minimum", "Python 3.8", false},
		{"ReleaseCandidate", "Python 3.12.0rc1", false},
		{"TooOld", "Python 2.7.18", true},
		{"Garbage", "command not found", true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := checkPythonVersion(tt.out)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRemoteProber(t *testing.T) {
	t.Parallel()
	var cmds []string
	p := &remoteProber{client: &sshutil.MockSSHClient{MockRunCommand: func(cmd string) (string, error) {
		cmds = append(cmds, cmd)
		if strings.HasPrefix(cmd, "test -e") {
			return "no\n", nil
		}
		return "Python 3.9.2\n", nil
	}}}
	out, err := p.Output(context.Background(), "python3", "--version")
	require.NoError(t, err)
	assert.Equal(t, "Python 3.9.2", out)
	ok, err := p.FileExists(context.Background(), "/home/jdoe/pypetakit_config.json")
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = p.FileExists(context.Background(), "~/pypetakit_config.json")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"python3 --version",
		"test -e /home/jdoe/pypetakit_config.json && echo yes || echo no",
		`test -e "$HOME"/pypetakit_config.json && echo yes || echo no`,
	}, cmds)
}

func TestNewBridge(t *testing.T) {
	t.Parallel()
	b, err := newBridge(config.Configuration{Toolkit: config.DynamicMap{"python": "python3.11", "keep_files": "true"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "python3.11", b.Python)
	assert.Equal(t, toolkit.DefaultModule, b.Module)
	require.IsType(t, &toolkit.LocalRunner{}, b.Runner)
	assert.True(t, b.Runner.(*toolkit.LocalRunner).KeepFiles)

	b, err = newBridge(config.Configuration{Toolkit: config.DynamicMap{"host": "login1", "user": "jdoe", "password": "secret", "port": 2222}}, nil)
	require.NoError(t, err)
	require.IsType(t, &toolkit.SSHRunner{}, b.Runner)
	r := b.Runner.(*toolkit.SSHRunner)
	assert.Equal(t, toolkit.DefaultRemoteDir, r.RemoteDir)
	client := r.Client.(*sshutil.SSHClient)
	assert.Equal(t, "login1", client.Host)
	assert.Equal(t, 2222, client.Port)
	assert.Equal(t, "jdoe", client.Config.User)

	_, err = newBridge(config.Configuration{Toolkit: config.DynamicMap{"host": "login1", "user": "jdoe"}}, nil)
	assert.Error(t, err)
}

func TestJobsClient(t *testing.T) {
	t.Parallel()
	c, err := jobsClient(context.Background(), config.DynamicMap{})
	require.NoError(t, err)
	assert.IsType(t, &slurm.LocalClient{}, c)
}

func TestRenderJobs(t *testing.T) {
	color.NoColor = true
	s := renderJobs([]slurm.Job{
		{ID: "1234", Name: "dsr_cell1", State: "RUNNING", RunTime: "1:02", Partition: "gpu"},
		{ID: "1235", Name: "dsr_cell2", State: "PENDING", RunTime: "0:00", Partition: "gpu"},
	})
	assert.Contains(t, s, "Jobs:")
	assert.Contains(t, s, "Job ID")
	assert.Contains(t, s, "1234")
	assert.Contains(t, s, "dsr_cell2")
	assert.Contains(t, s, "PENDING")
}
