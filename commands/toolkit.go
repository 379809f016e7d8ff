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
	"io"
	"os"
	"os/signal"
	"os/user"
	"syscall"

	"github.com/pkg/errors"

	"github.com/ystia/dsrctl/config"
	"github.com/ystia/dsrctl/helper/sshutil"
	"github.com/ystia/dsrctl/log"
	"github.com/ystia/dsrctl/slurm"
	"github.com/ystia/dsrctl/toolkit"
)

// newBridge builds the toolkit bridge described by the toolkit configuration.
//
// The driver runs through SSH on toolkit.host when it is set, on the local host otherwise.
func newBridge(cfg config.Configuration, out io.Writer) (*toolkit.Bridge, error) {
	tc := cfg.Toolkit
	b := &toolkit.Bridge{
		Python: tc.GetStringOrDefault("python", toolkit.DefaultPython),
		Module: tc.GetStringOrDefault("module", toolkit.DefaultModule),
		Stdout: out,
	}
	client, err := newSSHClient(tc)
	if err != nil {
		return nil, err
	}
	if client == nil {
		log.Debugf("Running toolkit %s locally with %s", b.Module, b.Python)
		b.Runner = &toolkit.LocalRunner{TempDir: tc.GetString("temp_dir"), KeepFiles: tc.GetBool("keep_files")}
		return b, nil
	}
	log.Debugf("Running toolkit %s with %s on %s", b.Module, b.Python, client.Host)
	b.Runner = &toolkit.SSHRunner{
		Client:    client,
		RemoteDir: tc.GetStringOrDefault("remote_dir", toolkit.DefaultRemoteDir),
		KeepFiles: tc.GetBool("keep_files"),
	}
	return b, nil
}

// newSSHClient returns nil if no login host is configured
func newSSHClient(tc config.DynamicMap) (*sshutil.SSHClient, error) {
	host := tc.GetString("host")
	if host == "" {
		return nil, nil
	}
	u := tc.GetString("user")
	if u == "" {
		u = currentUser()
	}
	client, err := sshutil.NewSSHClient(u, host, tc.GetInt("port"), tc.GetString("private_key"), tc.GetString("password"))
	return client, errors.Wrapf(err, "failed to configure SSH access to login node %q", host)
}

// jobsClient returns where squeue should run: on the login node if configured, locally otherwise
func jobsClient(ctx context.Context, tc config.DynamicMap) (sshutil.Client, error) {
	client, err := newSSHClient(tc)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return &slurm.LocalClient{Ctx: ctx}, nil
	}
	return client, nil
}

func currentUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return ""
}

// signalContext returns a context cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case s := <-ch:
			log.Printf("Received %v signal, cancelling", s)
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, func() {
		signal.Stop(ch)
		cancel()
	}
}
