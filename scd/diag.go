// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package scd

import (
	"fmt"

	"github.com/platinasystems/scd/diag"
	"github.com/platinasystems/scd/internal/hwerr"
)

// Diag probes every declared component into c. Unless noIo, component
// state is read from hardware. With a strict collector the first failure
// is returned.
func (d *Device) Diag(c *diag.Collector, noIo bool) error {
	probe := func(name string, f diag.Probe) error {
		return c.Probe(d.cfg.Addr+"/"+name, f)
	}
	if err := probe("state", func() (interface{}, error) {
		return d.state.String(), nil
	}); err != nil {
		return err
	}
	if err := probe("simulation", func() (interface{}, error) {
		return d.cfg.Simulation, nil
	}); err != nil {
		return err
	}
	if err := probe("masters", func() (interface{}, error) {
		return map[string]int{
			"smbus": len(d.smbus.masters),
			"mdio":  len(d.mdio.masters),
			"uart":  len(d.uart.masters),
		}, nil
	}); err != nil {
		return err
	}
	if noIo {
		return nil
	}
	if err := probe("version", func() (interface{}, error) {
		v, err := d.Version()
		if err != nil {
			return nil, err
		}
		return fmt.Sprintf("0x%x", v), nil
	}); err != nil {
		return err
	}
	for _, g := range d.gpios {
		g := g
		if err := probe("gpio/"+g.Name(), func() (interface{}, error) {
			return g.IsActive()
		}); err != nil {
			return err
		}
	}
	for _, r := range d.resets {
		r := r
		if err := probe("reset/"+r.Name(), func() (interface{}, error) {
			return r.Read()
		}); err != nil {
			return err
		}
	}
	for _, l := range d.leds {
		l := l
		if err := probe("led/"+l.name, func() (interface{}, error) {
			c, err := l.led.Color()
			return string(c), err
		}); err != nil {
			return err
		}
	}
	for _, r := range d.interrupts {
		r := r
		if err := probe(fmt.Sprint("interrupt", r.Num), func() (interface{}, error) {
			mask, err := r.Masked()
			if err != nil {
				return nil, err
			}
			status, err := r.Status()
			if err != nil {
				return nil, err
			}
			return map[string]string{
				"mask":   fmt.Sprintf("0x%08x", mask),
				"status": fmt.Sprintf("0x%08x", status),
			}, nil
		}); err != nil {
			return err
		}
	}
	for i, w := range d.watchdogs {
		w := w
		if err := probe(fmt.Sprint("watchdog", i), func() (interface{}, error) {
			st := w.Status()
			if st == nil {
				return nil, hwerr.Io(nil, "watchdog status")
			}
			return st, nil
		}); err != nil {
			return err
		}
	}
	for _, p := range d.inv.ReloadCauseProviders() {
		p := p
		if err := probe("reload_causes", func() (interface{}, error) {
			return p.ReloadCauses()
		}); err != nil {
			return err
		}
	}
	return nil
}
