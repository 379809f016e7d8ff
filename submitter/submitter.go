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

// Package submitter submits a processing request to the cluster through the toolkit.
package submitter

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"os/user"

	metrics "github.com/armon/go-metrics"
	"github.com/fatih/color"
	"github.com/pkg/errors"

	"github.com/ystia/dsrctl/log"
	"github.com/ystia/dsrctl/petakit"
	"github.com/ystia/dsrctl/slurm"
	"github.com/ystia/dsrctl/toolkit"
)

var (
	red   = color.New(color.FgHiRed, color.Bold).SprintFunc()
	green = color.New(color.FgHiGreen, color.Bold).SprintFunc()
)

// Options control where Submit reports its outcome
type Options struct {
	Stdout io.Writer
	Stderr io.Writer
	// User is the cluster user shown in the progress hint, resolved from the environment if empty
	User string
}

// Submit sends req to the toolkit XR_deskew_rotate_data_wrapper entry point exactly once.
//
// It never returns an error: any failure, panics included, is reported on opts.Stderr with
// its stack trace and Submit returns 1. It returns 0 once the submission is accepted, not
// when processing completes.
func Submit(ctx context.Context, tk toolkit.Toolkit, req petakit.ProcessingRequest, opts Options) int {
	stdout := opts.Stdout
	if stdout == nil {
		stdout = ioutil.Discard
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = ioutil.Discard
	}

	var first string
	if len(req.DatasetPaths) > 0 {
		first = req.DatasetPaths[0]
	}
	fmt.Fprintf(stdout, "Submitting job to cluster for: %s\n", first)

	if err := submit(ctx, tk, req); err != nil {
		metrics.IncrCounter([]string{"submit", "failure"}, 1)
		fmt.Fprintln(stderr, red("Error in script: "+err.Error()))
		fmt.Fprintf(stderr, "%+v\n", err)
		return 1
	}
	metrics.IncrCounter([]string{"submit", "success"}, 1)
	fmt.Fprintln(stdout, green("Job submitted to cluster successfully!"))
	fmt.Fprintf(stdout, "Check progress with: %s\n", slurm.ProgressCommand(resolveUser(opts.User)))
	return 0
}

func submit(ctx context.Context, tk toolkit.Toolkit, req petakit.ProcessingRequest) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("panic during submission: %v", r)
		}
	}()
	err = tk.DeskewRotateDataWrapper(ctx, req)
	if _, ok := err.(stackTracer); err != nil && !ok {
		err = errors.WithStack(err)
	}
	return err
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

func resolveUser(u string) string {
	if u != "" {
		return u
	}
	if u = os.Getenv("USER"); u != "" {
		return u
	}
	cu, err := user.Current()
	if err != nil {
		log.Debugf("failed to resolve current user: %v", err)
		return ""
	}
	return cu.Username
}
