// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package metrics counts SCD register accesses for prometheus.
package metrics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/platinasystems/scd/internal/mmio"
)

var (
	RegisterAccessesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scd_register_accesses_total",
			Help: "Number of SCD register reads and writes",
		},
		[]string{"device", "op"},
	)

	RegisterErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scd_register_errors_total",
			Help: "Number of failed SCD register reads and writes",
		},
		[]string{"device", "op"},
	)
)

func init() {
	prometheus.MustRegister(RegisterAccessesTotal)
	prometheus.MustRegister(RegisterErrorsTotal)
}

// Observer counts the accesses of the device at its PCI address.
type Observer string

func (o Observer) Observe(op mmio.Op, off uint32, err error) {
	RegisterAccessesTotal.WithLabelValues(string(o), string(op)).Inc()
	if err != nil {
		RegisterErrorsTotal.WithLabelValues(string(o), string(op)).Inc()
	}
}

// Snapshot gathers g into name{label="value",...} keys.
func Snapshot(g prometheus.Gatherer) (map[string]float64, error) {
	mfs, err := g.Gather()
	if err != nil {
		return nil, err
	}
	m := make(map[string]float64)
	for _, mf := range mfs {
		if !strings.HasPrefix(mf.GetName(), "scd_") {
			continue
		}
		for _, metric := range mf.GetMetric() {
			var labels []string
			for _, l := range metric.GetLabel() {
				labels = append(labels,
					fmt.Sprintf("%s=%q", l.GetName(), l.GetValue()))
			}
			sort.Strings(labels)
			k := mf.GetName()
			if len(labels) > 0 {
				k += "{" + strings.Join(labels, ",") + "}"
			}
			switch {
			case metric.Counter != nil:
				m[k] = metric.GetCounter().GetValue()
			case metric.Gauge != nil:
				m[k] = metric.GetGauge().GetValue()
			}
		}
	}
	return m, nil
}
