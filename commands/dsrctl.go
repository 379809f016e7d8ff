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
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	metrics "github.com/armon/go-metrics"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ystia/dsrctl/config"
	"github.com/ystia/dsrctl/log"
	"github.com/ystia/dsrctl/telemetry"
)

// Outputs of the commands, replaced in tests
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
	osExit           = os.Exit
)

// toolkitKeys are the toolkit settings, see newToolkit
var toolkitKeys = []string{"python", "module", "host", "port", "user", "private_key", "password", "remote_dir", "temp_dir", "keep_files"}

// Colored text helpers, disabled by --no-color
var (
	green  = color.New(color.FgHiGreen, color.Bold).SprintFunc()
	yellow = color.New(color.FgHiYellow, color.Bold).SprintFunc()
	red    = color.New(color.FgHiRed, color.Bold).SprintFunc()
)

var cfgFile string
var memSink *metrics.InmemSink

// RootCmd is the root of dsrctl commands tree
var RootCmd = &cobra.Command{
	Use:   "dsrctl",
	Short: "Deskew/rotate light-sheet datasets on a Slurm cluster",
	Long: `dsrctl drives the PetaKit5D deskew/rotate toolkit on a Slurm cluster.
It writes the toolkit cluster configuration file and submits processing jobs.
`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetBool("debug") {
			log.SetDebug(true)
		}
		if viper.GetBool("json_logs") {
			log.UseJSONOutput(stderr)
		}
		color.NoColor = color.NoColor || viper.GetBool("no_color")
		var err error
		memSink, err = telemetry.Setup(getConfig().Telemetry)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log.IsDebug() {
			telemetry.Dump(stderr, memSink)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		err := cmd.Help()
		if err != nil {
			fmt.Print(err)
		}
	},
}

func init() {
	setConfig()
	cobra.OnInitialize(initConfig)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// enable ability to specify config file via flag
		viper.SetConfigFile(cfgFile)
	}
	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); cfgFile != "" || !ok {
			fmt.Fprintln(stderr, "Can't use config file:", err)
		}
		return
	}
	log.Debugln("Using config file:", viper.ConfigFileUsed())
}

func setConfig() {
	RootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is config.dsrctl.[json|yaml|toml] in the current directory or in ~/.dsrctl)")
	RootCmd.PersistentFlags().Bool("debug", false, "Enable debug logs")
	RootCmd.PersistentFlags().Bool("json-logs", false, "Print logs as JSON lines")
	RootCmd.PersistentFlags().Bool("no-color", false, "Disable coloring output")
	viper.BindPFlag("debug", RootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json_logs", RootCmd.PersistentFlags().Lookup("json-logs"))
	viper.BindPFlag("no_color", RootCmd.PersistentFlags().Lookup("no-color"))
	RootCmd.PersistentFlags().String("python", "", "Python interpreter running the toolkit (default \"python3\")")
	RootCmd.PersistentFlags().String("login-host", "", "Cluster login node reached through SSH to run the toolkit (runs locally if empty)")
	RootCmd.PersistentFlags().String("login-user", "", "SSH user on the cluster login node (default is the current user)")
	RootCmd.PersistentFlags().String("private-key", "", "SSH private key path or content used to connect to the login node")
	viper.BindPFlag("toolkit.python", RootCmd.PersistentFlags().Lookup("python"))
	viper.BindPFlag("toolkit.host", RootCmd.PersistentFlags().Lookup("login-host"))
	viper.BindPFlag("toolkit.user", RootCmd.PersistentFlags().Lookup("login-user"))
	viper.BindPFlag("toolkit.private_key", RootCmd.PersistentFlags().Lookup("private-key"))

	//Environment Variables
	viper.SetEnvPrefix("dsrctl") // will be uppercased automatically - Become "DSRCTL_"
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// Setting Defaults
	setDefaults()

	//Configuration file directories
	viper.SetConfigName("config.dsrctl") // name of config file (without extension)
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.dsrctl")
}

func setDefaults() {
	viper.SetDefault("cluster.config_file", config.DefaultConfigFilePath)
	viper.SetDefault("cluster.mcc_master_script", config.DefaultMCCMasterScriptPath)
	viper.SetDefault("cluster.mcr_root", config.DefaultMCRRootPath)
	viper.SetDefault("cluster.memory_per_cpu", config.DefaultMemoryPerCPU)
	viper.SetDefault("cluster.job_time_limit", config.DefaultJobTimeLimitHours)
	viper.SetDefault("cluster.max_cpu", config.DefaultMaxCPUCount)
	viper.SetDefault("cluster.gnu_parallel", config.DefaultUseGNUParallel)
	viper.SetDefault("cluster.master_compute", config.DefaultRunOnMasterNode)
	viper.SetDefault("cluster.parse_cluster", config.DefaultSubmitSubJobs)
	viper.SetDefault("cluster.slurm_params", "")

	viper.SetDefault("request.pixel_size", config.DefaultPixelSizeXY)
	viper.SetDefault("request.z_step", config.DefaultZStepSize)
	viper.SetDefault("request.skew_angle", config.DefaultSkewAngleDegrees)
	viper.SetDefault("request.channel_patterns", config.DefaultChannelPatterns)
	viper.SetDefault("request.objective_scan", false)
	viper.SetDefault("request.reverse", true)
	viper.SetDefault("request.parse_cluster", true)
	viper.SetDefault("request.master_compute", false)
	viper.SetDefault("request.config_file", "")
	viper.SetDefault("request.mcc_mode", true)
	viper.SetDefault("request.ff_image_paths", []string{""})
	viper.SetDefault("request.background_paths", []string{""})
	viper.SetDefault("request.zarr_input", false)
	viper.SetDefault("request.deskew", true)
	viper.SetDefault("request.rotate", true)
	viper.SetDefault("request.dsr_combined", true)
	viper.SetDefault("request.ff_correction", false)
	viper.SetDefault("request.bk_removal", false)
	viper.SetDefault("request.save_16bit", true)
	viper.SetDefault("request.save_3d_stack", true)
	viper.SetDefault("request.save_mip", true)
	viper.SetDefault("request.save_zarr", false)
	viper.SetDefault("request.large_file", false)
	viper.SetDefault("request.lower_limit", config.DefaultLowerLimit)
	viper.SetDefault("request.const_offset", config.DefaultConstOffset)
	viper.SetDefault("request.block_size", config.DefaultBlockSize)
	viper.SetDefault("request.interp_method", config.DefaultInterpolation)

	viper.SetDefault("telemetry.service_name", telemetry.DefaultServiceName)
}

func getConfig() config.Configuration {
	configuration := config.Configuration{}
	configuration.Cluster = config.Cluster{
		ConfigFile:      viper.GetString("cluster.config_file"),
		MCCMasterScript: viper.GetString("cluster.mcc_master_script"),
		MCRRoot:         viper.GetString("cluster.mcr_root"),
		MemoryPerCPU:    viper.GetString("cluster.memory_per_cpu"),
		JobTimeLimit:    viper.GetInt("cluster.job_time_limit"),
		MaxCPU:          viper.GetInt("cluster.max_cpu"),
		GNUParallel:     viper.GetBool("cluster.gnu_parallel"),
		MasterCompute:   viper.GetBool("cluster.master_compute"),
		ParseCluster:    viper.GetBool("cluster.parse_cluster"),
		SlurmParams:     viper.GetString("cluster.slurm_params"),
	}
	configuration.Request = config.Request{
		PixelSize:       viper.GetFloat64("request.pixel_size"),
		ZStep:           viper.GetFloat64("request.z_step"),
		SkewAngle:       viper.GetFloat64("request.skew_angle"),
		ChannelPatterns: getStringSlice("request.channel_patterns"),
		ObjectiveScan:   viper.GetBool("request.objective_scan"),
		Reverse:         viper.GetBool("request.reverse"),
		ParseCluster:    viper.GetBool("request.parse_cluster"),
		MasterCompute:   viper.GetBool("request.master_compute"),
		ConfigFile:      viper.GetString("request.config_file"),
		MCCMode:         viper.GetBool("request.mcc_mode"),
		FFImagePaths:    getStringSlice("request.ff_image_paths"),
		BackgroundPaths: getStringSlice("request.background_paths"),
		ZarrInput:       viper.GetBool("request.zarr_input"),
		Deskew:          viper.GetBool("request.deskew"),
		Rotate:          viper.GetBool("request.rotate"),
		DSRCombined:     viper.GetBool("request.dsr_combined"),
		FFCorrection:    viper.GetBool("request.ff_correction"),
		BKRemoval:       viper.GetBool("request.bk_removal"),
		Save16Bit:       viper.GetBool("request.save_16bit"),
		Save3DStack:     viper.GetBool("request.save_3d_stack"),
		SaveMIP:         viper.GetBool("request.save_mip"),
		SaveZarr:        viper.GetBool("request.save_zarr"),
		LargeFile:       viper.GetBool("request.large_file"),
		LowerLimit:      viper.GetFloat64("request.lower_limit"),
		ConstOffset:     viper.GetFloat64("request.const_offset"),
		BlockSize:       getIntSlice("request.block_size"),
		Interpolation:   viper.GetString("request.interp_method"),
	}
	configuration.Toolkit = getToolkitConfig()
	configuration.Telemetry = config.Telemetry{
		StatsdAddress:   viper.GetString("telemetry.statsd_address"),
		StatsiteAddress: viper.GetString("telemetry.statsite_address"),
		ServiceName:     viper.GetString("telemetry.service_name"),
		DisableHostName: viper.GetBool("telemetry.disable_hostname"),
	}
	return configuration
}

// getToolkitConfig merges the toolkit section of the config file with the well known toolkit keys
// that may also come from flags or env variables
func getToolkitConfig() config.DynamicMap {
	tc := config.DynamicMap{}
	for k, v := range viper.GetStringMap("toolkit") {
		tc[k] = v
	}
	for _, k := range toolkitKeys {
		if v := viper.Get("toolkit." + k); v != nil {
			tc[k] = v
		}
	}
	return tc
}

// getStringSlice reads a list from any source, strings coming from env variables are comma separated
func getStringSlice(key string) []string {
	return config.DynamicMap{key: viper.Get(key)}.GetStringSlice(key)
}

// getIntSlice reads a list of integers from any source, strings may be comma separated and enclosed by brackets
func getIntSlice(key string) []int {
	res, err := toIntSlice(viper.Get(key))
	if err != nil {
		log.Printf("Ignoring invalid value for %q: %v", key, err)
		return nil
	}
	return res
}

func toIntSlice(v interface{}) ([]int, error) {
	s, ok := v.(string)
	if !ok {
		return cast.ToIntSliceE(v)
	}
	s = strings.Trim(strings.TrimSpace(s), "[]")
	if s == "" {
		return nil, nil
	}
	var res []int
	for _, f := range strings.Split(s, ",") {
		i, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, errors.Wrapf(err, "invalid integer list %q", s)
		}
		res = append(res, i)
	}
	return res, nil
}
