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
	"encoding/json"
	"io"
	"io/ioutil"
	"strings"
	"time"

	metrics "github.com/armon/go-metrics"
	"github.com/pkg/errors"

	"github.com/ystia/dsrctl/helper/metricsutil"
	"github.com/ystia/dsrctl/log"
	"github.com/ystia/dsrctl/petakit"
	"github.com/ystia/dsrctl/slurm"
)

// Bridge is the Toolkit reached through the Python driver
type Bridge struct {
	Runner Runner
	// Python is the interpreter used to run the driver, DefaultPython if empty
	Python string
	// Module is the toolkit Python module, DefaultModule if empty
	Module string
	// Stdout receives the toolkit standard output while it runs, it is discarded if nil
	Stdout io.Writer
}

// GenerateConfigFile implements Toolkit
func (b *Bridge) GenerateConfigFile(ctx context.Context, path string, cfg petakit.ClusterConfig) error {
	_, err := b.Call(ctx, NewGenerateConfigFileCall(b.module(), path, cfg))
	return err
}

// DeskewRotateDataWrapper implements Toolkit
func (b *Bridge) DeskewRotateDataWrapper(ctx context.Context, req petakit.ProcessingRequest) error {
	out, err := b.Call(ctx, NewDeskewRotateDataWrapperCall(b.module(), req))
	for _, id := range slurm.ParseJobIDs(out) {
		log.Printf("Slurm job %s submitted by the toolkit", id)
	}
	return err
}

// Probe checks that the interpreter runs and that the toolkit module can be imported
func (b *Bridge) Probe(ctx context.Context) (string, error) {
	out, err := b.Call(ctx, Call{Module: b.module(), Args: []interface{}{}, Kwargs: map[string]interface{}{}})
	return strings.TrimSpace(out), err
}

// Call runs a toolkit call through the driver and returns its standard output.
//
// A failed call returns an error carrying the driver standard error, i.e. the toolkit traceback.
func (b *Bridge) Call(ctx context.Context, call Call) (string, error) {
	if b.Runner == nil {
		return "", errors.New("no runner configured for the toolkit bridge")
	}
	payload, err := json.Marshal(call)
	if err != nil {
		return "", errors.Wrapf(err, "failed to encode %s call", call.Function)
	}
	name := call.Function
	if name == "" {
		name = "import"
	}
	log.Debugf("Calling %s.%s with payload %s", call.Module, name, payload)

	var stdout, stderr bytes.Buffer
	out := io.Writer(ioutil.Discard)
	if b.Stdout != nil {
		out = b.Stdout
	}
	labels := []metrics.Label{{Name: "function", Value: metricsutil.FunctionLabel(name)}}
	start := time.Now()
	err = b.Runner.Run(ctx, b.python(), []byte(driverScript), payload, io.MultiWriter(&stdout, out), &stderr)
	metrics.MeasureSinceWithLabels([]string{"toolkit", "call"}, start, labels)
	if err != nil {
		metrics.IncrCounterWithLabels([]string{"toolkit", "failure"}, 1, labels)
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return stdout.String(), errors.Wrapf(err, "toolkit call %s.%s failed", call.Module, name)
		}
		return stdout.String(), errors.Wrapf(err, "toolkit call %s.%s failed:\n%s", call.Module, name, msg)
	}
	if stderr.Len() > 0 {
		log.Debugf("%s.%s stderr: %s", call.Module, name, stderr.String())
	}
	return stdout.String(), nil
}

func (b *Bridge) python() string {
	if b.Python == "" {
		return DefaultPython
	}
	return b.Python
}

func (b *Bridge) module() string {
	if b.Module == "" {
		return DefaultModule
	}
	return b.Module
}
