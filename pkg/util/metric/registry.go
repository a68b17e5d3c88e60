// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package metric

import (
	"reflect"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/maxwellito/comdb2/pkg/util/syncutil"
	"github.com/prometheus/client_golang/prometheus"
)

// A Registry is a set of metrics exposed through a single Prometheus
// registry.
type Registry struct {
	prom *prometheus.Registry

	mu struct {
		syncutil.Mutex
		tracked map[string]Iterable
	}
}

// NewRegistry creates a new Registry.
func NewRegistry() *Registry {
	r := &Registry{prom: prometheus.NewRegistry()}
	r.mu.tracked = make(map[string]Iterable)
	return r
}

// AddMetric adds the passed-in metric to the registry. It panics if a metric
// with the same name was already added.
func (r *Registry) AddMetric(metric Iterable) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.mu.tracked[metric.GetName()]; ok {
		panic(errors.AssertionFailedf("metric %q already registered", metric.GetName()))
	}
	r.prom.MustRegister(metric.collector())
	r.mu.tracked[metric.GetName()] = metric
}

// AddMetricStruct examines all exported fields of metricsStruct and adds
// all Iterable fields to the registry. Nil fields are skipped.
func (r *Registry) AddMetricStruct(metricsStruct interface{}) {
	v := reflect.Indirect(reflect.ValueOf(metricsStruct))
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		if !t.Field(i).IsExported() {
			continue
		}
		vfield := v.Field(i)
		if vfield.Kind() == reflect.Ptr && vfield.IsNil() {
			continue
		}
		if m, ok := vfield.Interface().(Iterable); ok {
			r.AddMetric(m)
		}
	}
}

// Names returns the sorted names of every tracked metric.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.mu.tracked))
	for name := range r.mu.tracked {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Gatherer exposes the registry for scraping, e.g. with promhttp.HandlerFor.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.prom
}
