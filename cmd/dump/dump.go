// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package dump prints the SCD diagnostics.
package dump

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/platinasystems/flags"
	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/yaml.v3"

	"github.com/platinasystems/scd/diag"
	"github.com/platinasystems/scd/lang"
	"github.com/platinasystems/scd/metrics"
	"github.com/platinasystems/scd/scd"
)

const (
	Name    = "dump"
	Apropos = "print SCD diagnostics"
	Usage   = "[show ]dump [-unsafe] [-noio] [-metrics] [-flat]"
	Man     = `
DESCRIPTION
	Probe every declared SCD component and print the results as YAML.
	A failed probe is listed with its reason and the dump goes on.

	-unsafe	stop at the first failed probe and return its error
	-noio	leave out everything read from hardware
	-metrics
		add the register access counters
	-flat	print name: value pairs, the default when stdout isn't a
		terminal`
)

var (
	apropos = lang.Alt{
		lang.EnUS: Apropos,
	}
	man = lang.Alt{
		lang.EnUS: Man,
	}
)

type Command struct {
	Open     func() (*scd.Device, error)
	W        io.Writer
	Gatherer prometheus.Gatherer
}

type report struct {
	Diag    []diag.Result      `yaml:"diag"`
	Metrics map[string]float64 `yaml:"metrics,omitempty"`
}

type flatReport struct {
	Diag    map[string]string  `yaml:"diag"`
	Metrics map[string]float64 `yaml:"metrics,omitempty"`
}

func (*Command) String() string    { return Name }
func (*Command) Usage() string     { return Usage }
func (*Command) Apropos() lang.Alt { return apropos }
func (*Command) Man() lang.Alt     { return man }

func (c *Command) Main(args ...string) error {
	flag, args := flags.New(args, "-unsafe", "-noio", "-metrics", "-flat")
	if len(args) > 0 {
		return fmt.Errorf("%v: unexpected", args)
	}
	d, err := c.Open()
	if err != nil {
		return err
	}
	col := &diag.Collector{Strict: flag.ByName["-unsafe"]}
	if err = d.Diag(col, flag.ByName["-noio"]); err != nil {
		return err
	}
	var m map[string]float64
	if flag.ByName["-metrics"] {
		g := c.Gatherer
		if g == nil {
			g = prometheus.DefaultGatherer
		}
		if m, err = metrics.Snapshot(g); err != nil {
			return err
		}
	}
	w := c.W
	flat := flag.ByName["-flat"]
	if w == nil {
		w = os.Stdout
		flat = flat || !isatty.IsTerminal(os.Stdout.Fd())
	}
	var v interface{} = report{col.Results, m}
	if flat {
		v = flatReport{col.Flatten(), m}
	}
	b, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
