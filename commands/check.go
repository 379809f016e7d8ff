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
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/blang/semver"
	multierror "github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ystia/dsrctl/helper/executil"
	"github.com/ystia/dsrctl/helper/pathutil"
	"github.com/ystia/dsrctl/helper/sshutil"
	"github.com/ystia/dsrctl/helper/stringutil"
	"github.com/ystia/dsrctl/toolkit"
)

func init() {
	RootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the toolkit can be used",
	Long: `Check that the python interpreter runs, that the toolkit module can be imported
and that the cluster configuration file exists.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		clusterCfg, err := cfg.ClusterConfig()
		if err != nil {
			return err
		}
		b, err := newBridge(cfg, nil)
		if err != nil {
			return err
		}
		client, err := newSSHClient(cfg.Toolkit)
		if err != nil {
			return err
		}
		var p prober = &localProber{}
		if client != nil {
			p = &remoteProber{client: client}
		}
		ctx, cancel := signalContext()
		defer cancel()
		return runChecks(ctx, checks(b, p, clusterCfg.ConfigFilePath))
	},
}

type check struct {
	name string
	run  func(ctx context.Context) (string, error)
}

// prober runs the checks that do not go through the toolkit bridge
type prober interface {
	Output(ctx context.Context, cmd ...string) (string, error)
	FileExists(ctx context.Context, path string) (bool, error)
}

type localProber struct{}

func (p *localProber) Output(ctx context.Context, cmd ...string) (string, error) {
	return executil.Output(ctx, cmd[0], cmd[1:]...)
}

func (p *localProber) FileExists(ctx context.Context, path string) (bool, error) {
	return pathutil.IsValidPath(path)
}

type remoteProber struct {
	client sshutil.Client
}

func (p *remoteProber) Output(ctx context.Context, cmd ...string) (string, error) {
	out, err := p.client.RunCommand(stringutil.ShellJoin(cmd...))
	return strings.TrimSpace(out), err
}

func (p *remoteProber) FileExists(ctx context.Context, path string) (bool, error) {
	out, err := p.client.RunCommand(fmt.Sprintf("test -e %s && echo yes || echo no", remoteShellPath(path)))
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) == "yes", nil
}

// remoteShellPath quotes path for the remote shell, leaving a leading ~ to be expanded there
func remoteShellPath(path string) string {
	switch {
	case path == "~":
		return `"$HOME"`
	case strings.HasPrefix(path, "~/"):
		return `"$HOME"/` + stringutil.ShellQuote(path[2:])
	}
	return stringutil.ShellQuote(path)
}

func checks(b *toolkit.Bridge, p prober, configFile string) []check {
	return []check{
		{"Python interpreter", func(ctx context.Context) (string, error) {
			out, err := p.Output(ctx, b.Python, "--version")
			if err != nil {
				return "", err
			}
			return out, checkPythonVersion(out)
		}},
		{"Toolkit module", b.Probe},
		{"Cluster configuration file", func(ctx context.Context) (string, error) {
			ok, err := p.FileExists(ctx, configFile)
			if err != nil {
				return "", err
			}
			if !ok {
				return "", errors.Errorf("%s does not exist, run 'dsrctl config generate' to create it", configFile)
			}
			return configFile, nil
		}},
	}
}

// minPythonVersion is the oldest interpreter supported by the toolkit Python package
var minPythonVersion = semver.MustParse("3.8.0")

var pythonVersionRegexp = regexp.MustCompile(`\d+\.\d+(\.\d+)?`)

func checkPythonVersion(out string) error {
	raw := pythonVersionRegexp.FindString(out)
	if raw == "" {
		return errors.Errorf("can't read python version from %q", out)
	}
	v, err := semver.ParseTolerant(raw)
	if err != nil {
		return errors.Wrapf(err, "can't parse python version %q", raw)
	}
	if v.LT(minPythonVersion) {
		return errors.Errorf("python %s is too old, at least %s is required", v, minPythonVersion)
	}
	return nil
}

// runChecks runs every check concurrently and reports all failures
func runChecks(ctx context.Context, checks []check) error {
	results := make([]string, len(checks))
	errs := make([]error, len(checks))
	g, ctx := errgroup.WithContext(ctx)
	for i, c := range checks {
		i, c := i, c
		g.Go(func() error {
			results[i], errs[i] = c.run(ctx)
			return nil
		})
	}
	g.Wait()

	var result *multierror.Error
	for i, c := range checks {
		if errs[i] != nil {
			fmt.Fprintf(stdout, "%s %s: %v\n", red("✘"), c.name, errs[i])
			result = multierror.Append(result, errors.Wrapf(errs[i], "%s check failed", strings.ToLower(c.name)))
			continue
		}
		fmt.Fprintf(stdout, "%s %s: %s\n", green("✔"), c.name, results[i])
	}
	return result.ErrorOrNil()
}
