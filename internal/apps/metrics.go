/*
Copyright 2025 Flant JSC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package apps

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts converge operations per target kind.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	convergeTotal *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		convergeTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "simple_operator",
				Name:      "converge_total",
				Help:      "Total number of converge operations by target kind and operation.",
			},
			[]string{"kind", "operation"},
		),
	}
}

// MustRegister registers the collectors, typically with the controller-runtime
// metrics registry served by the manager.
func (m *Metrics) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(m.convergeTotal)
}

// Converged returns the counter for the given kind and operation.
func (m *Metrics) Converged(kind string, op Operation) prometheus.Counter {
	return m.convergeTotal.WithLabelValues(kind, string(op))
}

func (m *Metrics) observe(kind string, op Operation) {
	if m == nil {
		return
	}
	m.Converged(kind, op).Inc()
}
