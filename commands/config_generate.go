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

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ystia/dsrctl/generator"
)

func init() {
	RootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configGenerateCmd)

	flags := configGenerateCmd.Flags()
	flags.String("config-file", "", "Path of the toolkit configuration file to write (default \"~/pypetakit_config.json\")")
	flags.String("mcc-master-script", "", "Path of the compiled toolkit launcher on the cluster")
	flags.String("mcr-root", "", "Root directory of the MATLAB runtime on the cluster")
	flags.String("memory-per-cpu", "", "Memory per CPU, in GB or as a human readable size like \"5GB\" (default \"5\")")
	flags.Int("job-time-limit", 0, "Job wall time limit in hours (default 48)")
	flags.Int("max-cpu", 0, "Maximum number of CPUs per job (default 48)")
	flags.Bool("gnu-parallel", true, "Use GNU parallel to run tasks within a job")
	flags.Bool("master-compute", true, "Allow computation on the master node")
	flags.Bool("parse-cluster", false, "Let the toolkit submit its own sub-jobs")
	flags.String("slurm-params", "", "Extra parameters given to sbatch")
	for key, flag := range map[string]string{
		"cluster.config_file":       "config-file",
		"cluster.mcc_master_script": "mcc-master-script",
		"cluster.mcr_root":          "mcr-root",
		"cluster.memory_per_cpu":    "memory-per-cpu",
		"cluster.job_time_limit":    "job-time-limit",
		"cluster.max_cpu":           "max-cpu",
		"cluster.gnu_parallel":      "gnu-parallel",
		"cluster.master_compute":    "master-compute",
		"cluster.parse_cluster":     "parse-cluster",
		"cluster.slurm_params":      "slurm-params",
	} {
		viper.BindPFlag(key, flags.Lookup(flag))
	}
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the toolkit cluster configuration",
	Long:  `Manage the cluster configuration file read by the toolkit when it submits jobs.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := cmd.Help()
		if err != nil {
			fmt.Print(err)
		}
	},
}

var configGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write the toolkit cluster configuration file",
	Long: `Write the toolkit cluster configuration file.
An existing file is overwritten.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		clusterCfg, err := cfg.ClusterConfig()
		if err != nil {
			return err
		}
		if err = clusterCfg.Validate(); err != nil {
			return err
		}
		tk, err := newBridge(cfg, stdout)
		if err != nil {
			return err
		}
		ctx, cancel := signalContext()
		defer cancel()

		fmt.Fprintln(stdout, "--- Toolkit configuration generator ---")
		fmt.Fprintf(stdout, "It will create %s on the cluster.\n", clusterCfg.ConfigFilePath)
		if err = generator.Generate(ctx, tk, clusterCfg.ConfigFilePath, clusterCfg); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s Config saved to %s\n", green("✔"), clusterCfg.ConfigFilePath)
		return nil
	},
}
