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
	"io/ioutil"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/ystia/dsrctl/log"
)

// DefaultKnownHostsFilePath is the known_hosts file used to check the login node key
const DefaultKnownHostsFilePath = "~/.ssh/known_hosts"

// PrivateKey represent a parsed ssh Private Key.
// Content is always set but Path is populated only if the key content was read from a filesystem path (not provided directly)
type PrivateKey struct {
	Content []byte
	Path    string
}

// ReadSSHPrivateKey returns an authentication method relying on private/public key pairs
func ReadSSHPrivateKey(pk *PrivateKey) (ssh.AuthMethod, error) {
	signer, err := ssh.ParsePrivateKey(pk.Content)
	if err != nil {
		p := pk.Path
		if p == "" {
			p = "<private key content redacted>"
		}
		return nil, errors.Wrapf(err, "Failed to parse key file %q", p)
	}
	return ssh.PublicKeys(signer), nil
}

func isPrivateKey(key []byte) bool {
	_, err := ssh.ParsePrivateKey(key)
	return err == nil
}

func isFilePath(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// GetPrivateKey returns a parsed PrivateKey
//
// The argument is :
// - either a path to the private key file,
// - or the content or this private key file
func GetPrivateKey(pathOrContent string) (*PrivateKey, error) {
	// By default consider that it is a key content
	k := &PrivateKey{Content: []byte(pathOrContent)}
	path, err := homedir.Expand(pathOrContent)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read private key file, error in fs home expansion")
	}
	if isFilePath(path) {
		k.Path = path
		k.Content, err = ioutil.ReadFile(k.Path)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read file")
		}
	}
	if !isPrivateKey(k.Content) {
		return nil, errors.New(`invalid key content`)
	}
	return k, nil
}

// hostKeyCallback checks host keys against the user known_hosts file when there is one
func hostKeyCallback() (ssh.HostKeyCallback, error) {
	khPath, err := homedir.Expand(DefaultKnownHostsFilePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to expand known_hosts path")
	}
	if !isFilePath(khPath) {
		log.Warnf("No known_hosts file found at %q, host key will not be checked", khPath)
		return ssh.InsecureIgnoreHostKey(), nil
	}
	cb, err := knownhosts.New(khPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load known hosts from %q", khPath)
	}
	return cb, nil
}
