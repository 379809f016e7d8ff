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

	"github.com/ystia/dsrctl/helper/tabutil"
	"github.com/ystia/dsrctl/slurm"
)

var statusUser string

func init() {
	RootCmd.AddCommand(statusCmd)
	statusCmd.Flags().StringVarP(&statusUser, "user", "u", "", "Cluster user whose jobs are listed (default is $USER)")
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List cluster jobs",
	Long: `List the Slurm jobs of a user as reported by squeue.
squeue runs on the configured login node, or locally if no login node is configured.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		ctx, cancel := signalContext()
		defer cancel()
		client, err := jobsClient(ctx, cfg.Toolkit)
		if err != nil {
			return err
		}
		u := statusUser
		if u == "" {
			u = currentUser()
		}
		jobs, err := slurm.ListJobs(client, u)
		if err != nil {
			if slurm.IsNoJobFoundError(err) {
				fmt.Fprintf(stdout, "No job found for user %s\n", u)
				return nil
			}
			return err
		}
		fmt.Fprintln(stdout, renderJobs(jobs))
		return nil
	},
}

func renderJobs(jobs []slurm.Job) string {
	table := tabutil.NewTable("Job ID", "Name", "State", "Time", "Partition")
	for _, j := range jobs {
		table.AddRow(j.ID, j.Name, coloredState(j.State), j.RunTime, j.Partition)
	}
	return fmt.Sprintf("Jobs:\n%s", table.Render())
}

func coloredState(state string) string {
	switch {
	case state == "RUNNING" || state == "COMPLETED":
		return green(state)
	case slurm.IsActiveState(state):
		return yellow(state)
	default:
		return red(state)
	}
}
