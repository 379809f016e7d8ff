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

package sshutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"github.com/pkg/errors"
	"golang.org/x/crypto/ssh"

	"github.com/ystia/dsrctl/helper/stringutil"
	"github.com/ystia/dsrctl/log"
)

// Client is interface allowing running command
type Client interface {
	RunCommand(string) (string, error)
}

// Executor is a Client able to stage files and to stream the output of long running commands
type Executor interface {
	Client
	CopyFile(source io.Reader, remotePath, permissions string) error
	StreamCommand(ctx context.Context, cmd string, stdout, stderr io.Writer) error
}

// SSHClient is a client SSH
type SSHClient struct {
	Config *ssh.ClientConfig
	Host   string
	Port   int
}

// NewSSHClient returns a SSHClient authenticated either by a private key (path or content) or by a password
func NewSSHClient(user, host string, port int, privateKey, password string) (*SSHClient, error) {
	if host == "" {
		return nil, errors.New("ssh host is required")
	}
	if port == 0 {
		port = 22
	}
	var auth []ssh.AuthMethod
	if privateKey != "" {
		k, err := GetPrivateKey(privateKey)
		if err != nil {
			return nil, err
		}
		keyAuth, err := ReadSSHPrivateKey(k)
		if err != nil {
			return nil, err
		}
		auth = append(auth, keyAuth)
	}
	if password != "" {
		auth = append(auth, ssh.Password(password))
	}
	if len(auth) == 0 {
		return nil, errors.Errorf("no ssh private key nor password provided to connect to %s@%s", user, host)
	}
	hostKeyCallback, err := hostKeyCallback()
	if err != nil {
		return nil, err
	}
	return &SSHClient{
		Config: &ssh.ClientConfig{
			User:            user,
			Auth:            auth,
			HostKeyCallback: hostKeyCallback,
		},
		Host: host,
		Port: port,
	}, nil
}

// RunCommand allows to run a specified command
func (client *SSHClient) RunCommand(cmd string) (string, error) {
	session, closeFn, err := client.newSession()
	if err != nil {
		return "", errors.Wrap(err, "Unable to setup stdout for session")
	}
	defer closeFn()
	var b bytes.Buffer
	session.Stderr = &b
	session.Stdout = &b

	log.Debugf("[SSHSession] %q", cmd)
	err = session.Run(cmd)
	return b.String(), err
}

// StreamCommand runs a command and copies its stdout and stderr to the given writers while it runs.
//
// If the context is cancelled a SIGKILL signal is sent to the remote process.
func (client *SSHClient) StreamCommand(ctx context.Context, cmd string, stdout, stderr io.Writer) error {
	session, closeFn, err := client.newSession()
	if err != nil {
		return errors.Wrap(err, "Unable to prepare SSH command")
	}
	session.Stdout = stdout
	session.Stderr = stderr

	chClosed := make(chan struct{})
	defer func() {
		closeFn()
		close(chClosed)
	}()
	go func() {
		select {
		case <-ctx.Done():
			log.Debug("[SSHSession] Cancellation has been sent: a sigkill signal is sent to remote process")
			session.Signal(ssh.SIGKILL)
			session.Close()
		case <-chClosed:
		}
	}()
	log.Debugf("[SSHSession] running command: %q", cmd)
	err = session.Run(cmd)
	if ctx.Err() != nil {
		return errors.Wrapf(ctx.Err(), "command %q interrupted", cmd)
	}
	return err
}

// CopyFile allows to copy a reader over SSH with defined remote path and specific permissions
func (client *SSHClient) CopyFile(source io.Reader, remotePath, permissions string) error {
	session, closeFn, err := client.newSession()
	if err != nil {
		return errors.Wrap(err, "Unable to prepare SSH copy")
	}
	defer closeFn()
	var b bytes.Buffer
	session.Stdin = source
	session.Stderr = &b

	cmd := fmt.Sprintf("mkdir -p %s && cat > %s && chmod %s %s", stringutil.ShellQuote(path.Dir(remotePath)),
		stringutil.ShellQuote(remotePath), permissions, stringutil.ShellQuote(remotePath))
	log.Debugf("Copy source over SSH to remote path:%s", remotePath)
	if err = session.Run(cmd); err != nil {
		return errors.Wrapf(err, "failed to copy file to remote path %q: %s", remotePath, b.String())
	}
	return nil
}

// newSession opens a dedicated connection, the returned function closes both the session and the connection
func (client *SSHClient) newSession() (*ssh.Session, func(), error) {
	connection, err := ssh.Dial("tcp", fmt.Sprintf("%s:%d", client.Host, client.Port), client.Config)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "Failed to open SSH connection")
	}

	session, err := connection.NewSession()
	if err != nil {
		connection.Close()
		return nil, nil, errors.Wrapf(err, "Failed to create session")
	}

	return session, func() {
		session.Close()
		connection.Close()
	}, nil
}
