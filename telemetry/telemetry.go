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

// Package telemetry sets up the global metrics registry.
package telemetry

import (
	"fmt"
	"io"
	"sort"
	"time"

	metrics "github.com/armon/go-metrics"
	"github.com/pkg/errors"

	"github.com/ystia/dsrctl/config"
	"github.com/ystia/dsrctl/log"
)

// DefaultServiceName prefixes every metric key
const DefaultServiceName = "dsrctl"

// Setup installs the global metrics registry.
//
// Metrics are always kept in memory for the lifetime of the command and are also sent to
// statsd and statsite when their addresses are configured.
func Setup(cfg config.Telemetry) (*metrics.InmemSink, error) {
	memSink := metrics.NewInmemSink(time.Minute, time.Hour)
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = DefaultServiceName
	}
	metricsConf := metrics.DefaultConfig(serviceName)
	metricsConf.EnableHostname = !cfg.DisableHostName
	metricsConf.EnableRuntimeMetrics = false
	var sinks metrics.FanoutSink

	if cfg.StatsdAddress != "" {
		log.Debugf("Setting up a statsd telemetry service on %q", cfg.StatsdAddress)
		statsdSink, err := metrics.NewStatsdSink(cfg.StatsdAddress)
		if err != nil {
			return nil, errors.Wrap(err, "Failed to create Statsd telemetry service")
		}
		sinks = append(sinks, statsdSink)
	}

	if cfg.StatsiteAddress != "" {
		log.Debugf("Setting up a statsite telemetry service on %q", cfg.StatsiteAddress)
		statsitedSink, err := metrics.NewStatsiteSink(cfg.StatsiteAddress)
		if err != nil {
			return nil, errors.Wrap(err, "Failed to create Statsite telemetry service")
		}
		sinks = append(sinks, statsitedSink)
	}

	var err error
	if len(sinks) > 0 {
		sinks = append(sinks, memSink)
		_, err = metrics.NewGlobal(metricsConf, sinks)
	} else {
		log.Debugln("Using InMemory only telemetry")
		_, err = metrics.NewGlobal(metricsConf, memSink)
	}
	return memSink, errors.Wrap(err, "Failed to setup telemetry")
}

// Dump writes the counters and samples collected by sink, sorted by name
func Dump(w io.Writer, sink *metrics.InmemSink) {
	if sink == nil {
		return
	}
	for _, interval := range sink.Data() {
		interval.RLock()
		lines := make([]string, 0, len(interval.Counters)+len(interval.Samples))
		for name, c := range interval.Counters {
			lines = append(lines, fmt.Sprintf("%s count=%d", name, c.Count))
		}
		for name, s := range interval.Samples {
			lines = append(lines, fmt.Sprintf("%s count=%d mean=%.3fms max=%.3fms", name, s.Count, s.AggregateSample.Mean(), s.Max))
		}
		interval.RUnlock()
		sort.Strings(lines)
		for _, l := range lines {
			fmt.Fprintln(w, l)
		}
	}
}
