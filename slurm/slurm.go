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

// Package slurm reads the state of the Slurm jobs submitted by the toolkit.
//
// dsrctl never submits Slurm jobs itself, the toolkit does. This package parses what the
// toolkit prints and queries squeue so that the operator can follow the submitted jobs.
package slurm

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/ystia/dsrctl/helper/collections"
	"github.com/ystia/dsrctl/helper/executil"
	"github.com/ystia/dsrctl/helper/sshutil"
	"github.com/ystia/dsrctl/helper/stringutil"
	"github.com/ystia/dsrctl/log"
)

const squeueFormat = "%i,%j,%T,%M,%P"

var batchOutputRegexp = regexp.MustCompile(`Submitted batch job (\d+)`)

// Job is a line of squeue
type Job struct {
	ID        string
	Name      string
	State     string
	RunTime   string
	Partition string
}

type noJobFound struct {
	msg string
}

func (jid *noJobFound) Error() string {
	return jid.msg
}

// IsNoJobFoundError checks if an error means that squeue returned no job
func IsNoJobFoundError(err error) bool {
	_, ok := errors.Cause(err).(*noJobFound)
	return ok
}

var activeStates = []string{"RUNNING", "PENDING", "COMPLETING", "CONFIGURING", "SIGNALING", "RESIZING"}

// IsActiveState returns true if the job state is about to change or the job is still running
func IsActiveState(state string) bool {
	return collections.ContainsString(activeStates, state)
}

// ProgressCommand returns the command an operator runs to follow its jobs
func ProgressCommand(user string) string {
	return fmt.Sprintf("squeue -u %s", user)
}

// ParseJobIDFromBatchOutput returns the job ID printed by sbatch
func ParseJobIDFromBatchOutput(output string) (string, error) {
	m := batchOutputRegexp.FindStringSubmatch(output)
	if m == nil {
		return "", errors.Errorf("no job ID found in sbatch output %q", output)
	}
	return m[1], nil
}

// ParseJobIDs returns every distinct job ID printed by sbatch in an output, in order
func ParseJobIDs(output string) []string {
	var ids []string
	for _, m := range batchOutputRegexp.FindAllStringSubmatch(output, -1) {
		ids = append(ids, m[1])
	}
	return collections.UniqueStrings(ids)
}

// ListJobs returns the jobs of a user as reported by squeue
func ListJobs(client sshutil.Client, user string) ([]Job, error) {
	if user == "" {
		return nil, errors.New("user is required to list jobs")
	}
	cmd := fmt.Sprintf("squeue -u %s -h -o %s", stringutil.ShellQuote(user), stringutil.ShellQuote(squeueFormat))
	out, err := client.RunCommand(cmd)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list jobs of user %q: %s", user, strings.TrimSpace(out))
	}
	jobs, err := parseSqueueOutput(out)
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, &noJobFound{msg: fmt.Sprintf("no job found for user %q", user)}
	}
	return jobs, nil
}

func parseSqueueOutput(out string) ([]Job, error) {
	var jobs []Job
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		// Job names may contain commas, other fields may not
		fields := strings.Split(line, ",")
		if len(fields) < 5 {
			return nil, errors.Errorf("unexpected squeue output line %q", line)
		}
		n := len(fields)
		jobs = append(jobs, Job{
			ID:        fields[0],
			Name:      strings.Join(fields[1:n-3], ","),
			State:     fields[n-3],
			RunTime:   fields[n-2],
			Partition: fields[n-1],
		})
	}
	log.Debugf("squeue returned %d jobs", len(jobs))
	return jobs, nil
}

// LocalClient runs commands with the local shell.
//
// It allows to use the same code paths when dsrctl runs directly on a login node.
type LocalClient struct {
	Ctx context.Context
}

// RunCommand implements sshutil.Client
func (c *LocalClient) RunCommand(cmd string) (string, error) {
	ctx := c.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	var b bytes.Buffer
	ec := executil.Command(ctx, "sh", "-c", cmd)
	ec.Stdout = &b
	ec.Stderr = &b
	err := ec.Run()
	return b.String(), err
}
