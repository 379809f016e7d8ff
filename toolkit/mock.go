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
	"context"
	"sync"

	"github.com/ystia/dsrctl/petakit"
)

// ConfigFileCall records a GenerateConfigFile call
type ConfigFileCall struct {
	Path   string
	Config petakit.ClusterConfig
}

// Mock is a Toolkit recording its calls.
//
// MockGenerateConfigFile and MockDeskewRotateDataWrapper are called when set.
type Mock struct {
	MockGenerateConfigFile      func(ctx context.Context, path string, cfg petakit.ClusterConfig) error
	MockDeskewRotateDataWrapper func(ctx context.Context, req petakit.ProcessingRequest) error

	lock        sync.Mutex
	configCalls []ConfigFileCall
	submitCalls []petakit.ProcessingRequest
}

// GenerateConfigFile implements Toolkit
func (m *Mock) GenerateConfigFile(ctx context.Context, path string, cfg petakit.ClusterConfig) error {
	m.lock.Lock()
	m.configCalls = append(m.configCalls, ConfigFileCall{Path: path, Config: cfg})
	m.lock.Unlock()
	if m.MockGenerateConfigFile != nil {
		return m.MockGenerateConfigFile(ctx, path, cfg)
	}
	return nil
}

// DeskewRotateDataWrapper implements Toolkit
func (m *Mock) DeskewRotateDataWrapper(ctx context.Context, req petakit.ProcessingRequest) error {
	m.lock.Lock()
	m.submitCalls = append(m.submitCalls, req)
	m.lock.Unlock()
	if m.MockDeskewRotateDataWrapper != nil {
		return m.MockDeskewRotateDataWrapper(ctx, req)
	}
	return nil
}

// ConfigFileCalls returns the recorded GenerateConfigFile calls
func (m *Mock) ConfigFileCalls() []ConfigFileCall {
	m.lock.Lock()
	defer m.lock.Unlock()
	return append([]ConfigFileCall(nil), m.configCalls...)
}

// DeskewRotateDataWrapperCalls returns the recorded DeskewRotateDataWrapper calls
func (m *Mock) DeskewRotateDataWrapperCalls() []petakit.ProcessingRequest {
	m.lock.Lock()
	defer m.lock.Unlock()
	return append([]petakit.ProcessingRequest(nil), m.submitCalls...)
}
