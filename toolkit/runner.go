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

package toolkit

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/ystia/dsrctl/helper/executil"
	"github.com/ystia/dsrctl/helper/sshutil"
	"github.com/ystia/dsrctl/helper/stringutil"
	"github.com/ystia/dsrctl/log"
)

// DefaultRemoteDir is the directory, relative to the remote user home, where driver files are staged
const DefaultRemoteDir = ".dsrctl"

// A Runner runs the driver script with a payload using the given python interpreter
type Runner interface {
	Run(ctx context.Context, python string, script, payload []byte, stdout, stderr io.Writer) error
}

// LocalRunner runs the driver on the local host
type LocalRunner struct {
	// TempDir is where driver files are staged, the system default temporary directory is used if empty
	TempDir string
	// KeepFiles disables the removal of staged files
	KeepFiles bool
}

// Run implements Runner
func (r *LocalRunner) Run(ctx context.Context, python string, script, payload []byte, stdout, stderr io.Writer) error {
	dir, err := ioutil.TempDir(r.TempDir, "dsrctl_")
	if err != nil {
		return errors.Wrap(err, "failed to create staging directory")
	}
	if !r.KeepFiles {
		defer os.RemoveAll(dir)
	}
	scriptPath := filepath.Join(dir, "driver.py")
	payloadPath := filepath.Join(dir, "payload.json")
	if err = ioutil.WriteFile(scriptPath, script, 0700); err != nil {
		return errors.Wrapf(err, "failed to write driver to %q", scriptPath)
	}
	if err = ioutil.WriteFile(payloadPath, payload, 0600); err != nil {
		return errors.Wrapf(err, "failed to write payload to %q", payloadPath)
	}

	cmd := executil.Command(ctx, python, scriptPath, payloadPath)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// SSHRunner runs the driver on a remote host, typically the cluster login node
type SSHRunner struct {
	Client sshutil.Executor
	// RemoteDir is where driver files are staged, DefaultRemoteDir is used if empty
	RemoteDir string
	// KeepFiles disables the removal of staged files
	KeepFiles bool
}

// Run implements Runner
func (r *SSHRunner) Run(ctx context.Context, python string, script, payload []byte, stdout, stderr io.Writer) error {
	remoteDir := r.RemoteDir
	if remoteDir == "" {
		remoteDir = DefaultRemoteDir
	}
	name := stringutil.UniqueName("bridge_", "")
	scriptPath := path.Join(remoteDir, name+".py")
	payloadPath := path.Join(remoteDir, name+".json")

	if err := r.Client.CopyFile(bytes.NewReader(script), scriptPath, "0700"); err != nil {
		return errors.Wrap(err, "failed to stage driver on remote host")
	}
	if err := r.Client.CopyFile(bytes.NewReader(payload), payloadPath, "0600"); err != nil {
		return errors.Wrap(err, "failed to stage payload on remote host")
	}

	cmd := stringutil.ShellJoin(python, scriptPath, payloadPath)
	if !r.KeepFiles {
		cmd = fmt.Sprintf("%s; rc=$?; rm -f %s; exit $rc", cmd, stringutil.ShellJoin(scriptPath, payloadPath))
	}
	log.Debugf("Running toolkit driver on remote host: %q", cmd)
	return r.Client.StreamCommand(ctx, cmd, stdout, stderr)
}
