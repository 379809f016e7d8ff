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

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	"github.com/ystia/dsrctl/submitter"
	"github.com/ystia/dsrctl/toolkit"
)

var dryRun bool

func init() {
	RootCmd.AddCommand(submitCmd)

	flags := submitCmd.Flags()
	flags.BoolVar(&dryRun, "dry-run", false, "Print the toolkit call without submitting it")
	flags.String("job-user", "", "User shown in the progress hint (default is $USER)")
	flags.Float64("pixel-size", 0, "XY pixel size in microns (default 0.108)")
	flags.Float64("z-step", 0, "Z step size in microns (default 0.5)")
	flags.Float64("skew-angle", 0, "Skew angle in degrees (default 32.8)")
	flags.StringSlice("channel-patterns", nil, "File name patterns selecting channels (default [CamA,CamB])")
	flags.Bool("objective-scan", false, "Data was acquired with an objective scan")
	flags.Bool("reverse", true, "Reverse the Z order")
	flags.Bool("parse-cluster", true, "Submit the processing as cluster jobs")
	flags.Bool("master-compute", false, "Allow computation on the master node")
	flags.String("config-file", "", "Toolkit configuration file read by the toolkit (default is the cluster configuration file)")
	flags.Bool("mcc-mode", true, "Use the compiled toolkit")
	flags.StringSlice("ff-image-paths", nil, "Flat field image paths")
	flags.StringSlice("background-paths", nil, "Background image paths")
	flags.Bool("zarr-input", false, "Input datasets are Zarr files")
	flags.Bool("deskew", true, "Deskew the data")
	flags.Bool("rotate", true, "Rotate the deskewed data")
	flags.Bool("dsr-combined", true, "Combine deskew and rotation in a single step")
	flags.Bool("ff-correction", false, "Apply flat field correction")
	flags.Bool("bk-removal", false, "Remove the background")
	flags.Bool("save-16bit", true, "Save results as 16 bits images")
	flags.Bool("save-3d-stack", true, "Save 3D stacks")
	flags.Bool("save-mip", true, "Save maximum intensity projections")
	flags.Bool("save-zarr", false, "Save results as Zarr")
	flags.Bool("large-file", false, "Process data as large files")
	flags.Float64("lower-limit", 0, "Lower limit of the flat field correction (default 0.4)")
	flags.Float64("const-offset", 0, "Constant offset of the flat field correction (default 1)")
	flags.String("block-size", "", "Processing block size as 3 comma separated dimensions (default 256,256,256)")
	flags.String("interp-method", "", "Interpolation method: linear, cubic or nearest (default linear)")
	viper.BindPFlag("submit.user", flags.Lookup("job-user"))
	for key, flag := range map[string]string{
		"request.pixel_size":       "pixel-size",
		"request.z_step":           "z-step",
		"request.skew_angle":       "skew-angle",
		"request.channel_patterns": "channel-patterns",
		"request.objective_scan":   "objective-scan",
		"request.reverse":          "reverse",
		"request.parse_cluster":    "parse-cluster",
		"request.master_compute":   "master-compute",
		"request.config_file":      "config-file",
		"request.mcc_mode":         "mcc-mode",
		"request.ff_image_paths":   "ff-image-paths",
		"request.background_paths": "background-paths",
		"request.zarr_input":       "zarr-input",
		"request.deskew":           "deskew",
		"request.rotate":           "rotate",
		"request.dsr_combined":     "dsr-combined",
		"request.ff_correction":    "ff-correction",
		"request.bk_removal":       "bk-removal",
		"request.save_16bit":       "save-16bit",
		"request.save_3d_stack":    "save-3d-stack",
		"request.save_mip":         "save-mip",
		"request.save_zarr":        "save-zarr",
		"request.large_file":       "large-file",
		"request.lower_limit":      "lower-limit",
		"request.const_offset":     "const-offset",
		"request.block_size":       "block-size",
		"request.interp_method":    "interp-method",
	} {
		viper.BindPFlag(key, flags.Lookup(flag))
	}
}

var submitCmd = &cobra.Command{
	Use:   "submit <dataset_path> [dataset_path...]",
	Short: "Submit datasets processing to the cluster",
	Long: `Submit the deskew/rotate processing of datasets to the cluster.
The command returns once the toolkit accepted the submission, use 'dsrctl status' to follow the jobs.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		req, err := cfg.ProcessingRequest(args)
		if err != nil {
			return err
		}
		if err = req.Validate(); err != nil {
			return err
		}
		if dryRun {
			call := toolkit.NewDeskewRotateDataWrapperCall(cfg.Toolkit.GetStringOrDefault("module", toolkit.DefaultModule), req)
			b, err := yaml.Marshal(call)
			if err != nil {
				return errors.Wrap(err, "failed to render toolkit call")
			}
			fmt.Fprint(stdout, string(b))
			return nil
		}

		tk, err := newBridge(cfg, stdout)
		if err != nil {
			return err
		}
		ctx, cancel := signalContext()
		defer cancel()
		code := submitter.Submit(ctx, tk, req, submitter.Options{
			Stdout: stdout,
			Stderr: stderr,
			User:   viper.GetString("submit.user"),
		})
		if code != 0 {
			cancel()
			osExit(code)
		}
		return nil
	},
}
