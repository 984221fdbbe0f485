// Copyright © 2019, Oleksandr Krykovliuk <k33nice@gmail.com>.
// Use of this source code is governed by the
// MIT license that can be found in the LICENSE file.

package firewall

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	rules          prometheus.Gauge
	lookups        *prometheus.CounterVec
	defaultLookups prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	return &metrics{
		rules: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace: "patricia",
			Subsystem: "firewall",
			Name:      "rules",
			Help:      "Number of rules in the firewall table.",
		}),
		lookups: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "patricia",
			Subsystem: "firewall",
			Name:      "lookups_total",
			Help:      "Total number of classified addresses by resulting action.",
		}, []string{"action"}),
		defaultLookups: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "patricia",
			Subsystem: "firewall",
			Name:      "default_lookups_total",
			Help:      "Total number of addresses that matched no rule.",
		}),
	}
}
