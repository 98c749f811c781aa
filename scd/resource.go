// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package scd

import (
	"github.com/platinasystems/scd/desc"
	"github.com/platinasystems/scd/inventory"
	"github.com/platinasystems/scd/register"
)

// Gpio is a named SCD register bit. Active low gpios read active when the
// bit is clear.
type Gpio struct {
	desc  desc.GpioDesc
	field *register.FieldRef
}

func (g *Gpio) Name() string              { return g.desc.Name }
func (g *Gpio) Desc() desc.GpioDesc       { return g.desc }
func (g *Gpio) ReadOnly() bool            { return g.field.ReadOnly() }
func (g *Gpio) Inverted() bool            { return g.field.Inverted() }
func (g *Gpio) IsActive() (bool, error)   { return g.field.IsActive() }
func (g *Gpio) SetActive(v bool) error    { return g.field.SetActive(v) }
func (g *Gpio) Field() *register.FieldRef { return g.field }

// Reset is a reset line; asserting writes the active level.
type Reset struct {
	desc  desc.ResetDesc
	field *register.FieldRef
}

func (r *Reset) Name() string         { return r.desc.Name }
func (r *Reset) Desc() desc.ResetDesc { return r.desc }
func (r *Reset) Auto() bool           { return r.desc.Auto }
func (r *Reset) Assert() error        { return r.field.SetActive(true) }
func (r *Reset) Deassert() error      { return r.field.SetActive(false) }
func (r *Reset) Read() (bool, error)  { return r.field.IsActive() }

func (d *Device) bit(name string, addr uint32, bit uint, ro, flip bool) (*register.FieldRef, error) {
	reg, err := d.regs.At(addr)
	if err != nil {
		return nil, err
	}
	var opts []register.Option
	if ro {
		opts = append(opts, register.RO)
	}
	if flip {
		opts = append(opts, register.Flip)
	}
	return reg.Add(register.Bit(name, bit, opts...))
}

func (d *Device) newGpio(g desc.GpioDesc) (*Gpio, error) {
	if err := d.build("gpio " + g.Name); err != nil {
		return nil, err
	}
	f, err := d.bit(g.Name, g.Addr, g.Bit, g.RO, g.ActiveLow)
	if err != nil {
		return nil, err
	}
	gpio := &Gpio{desc: g, field: f}
	return gpio, d.inv.AddGpio(gpio)
}

func (d *Device) newReset(r desc.ResetDesc) (*Reset, error) {
	if err := d.build("reset " + r.Name); err != nil {
		return nil, err
	}
	f, err := d.bit(r.Name, r.Addr, r.Bit, false, r.ActiveLow)
	if err != nil {
		return nil, err
	}
	reset := &Reset{desc: r, field: f}
	return reset, d.inv.AddReset(reset)
}

// AddGpio declares a gpio that is also handed to the kernel driver.
func (d *Device) AddGpio(g desc.GpioDesc) (*Gpio, error) {
	gpios, err := d.AddGpios(g)
	if err != nil {
		return nil, err
	}
	return gpios[0], nil
}

// AddGpios declares all of descs or, on error, none of them.
func (d *Device) AddGpios(descs ...desc.GpioDesc) ([]*Gpio, error) {
	gpios := make([]*Gpio, 0, len(descs))
	err := d.atomically(func() error {
		for _, g := range descs {
			gpio, err := d.newGpio(g)
			if err != nil {
				return err
			}
			d.gpios = append(d.gpios, gpio)
			gpios = append(gpios, gpio)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return gpios, nil
}

// AddReset declares a reset that is also handed to the kernel driver.
func (d *Device) AddReset(r desc.ResetDesc) (*Reset, error) {
	resets, err := d.AddResets(r)
	if err != nil {
		return nil, err
	}
	return resets[0], nil
}

// AddResets declares all of descs or, on error, none of them.
func (d *Device) AddResets(descs ...desc.ResetDesc) ([]*Reset, error) {
	resets := make([]*Reset, 0, len(descs))
	err := d.atomically(func() error {
		for _, r := range descs {
			reset, err := d.newReset(r)
			if err != nil {
				return err
			}
			d.resets = append(d.resets, reset)
			resets = append(resets, reset)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resets, nil
}

// Resets returns the declared resets, only the auto ones if autoOnly, then
// the qsfp and osfp slot resets if xcvrs.
func (d *Device) Resets(xcvrs, autoOnly bool) []inventory.Reset {
	var resets []inventory.Reset
	for _, r := range d.resets {
		if !autoOnly || r.Auto() {
			resets = append(resets, r)
		}
	}
	if xcvrs {
		for _, kind := range []desc.Kind{desc.Qsfp, desc.Osfp} {
			for _, s := range d.xcvrs {
				if s.driverKind() == kind.String() && s.reset != nil {
					resets = append(resets, s.reset)
				}
			}
		}
	}
	return resets
}
