// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package scd

import (
	"fmt"

	"github.com/platinasystems/i2c"
)

// Tweak is the SCD SMBus timing for one device.
type Tweak struct {
	T, Datr, Datw, Ed int
}

var (
	DefaultTweak = Tweak{T: 1, Datr: 3, Datw: 3, Ed: 0}
	XcvrTweak    = Tweak{T: 1, Datr: 0, Datw: 3, Ed: 0}
)

type tweakKey struct{ bus, addr int }

type BusTweak struct {
	Bus, Addr int
	Tweak
}

// I2cAddr is a device behind one of the SCD SMBus masters.
type I2cAddr struct {
	d       *Device
	ScdBus  int
	Address int
}

// I2cAddr returns the device at addr on SCD bus and records its timing for
// the driver. A later tweak for the same device replaces the former.
func (d *Device) I2cAddr(bus, addr int, t Tweak) (*I2cAddr, error) {
	if err := d.build(fmt.Sprintf("i2c %d-%04x", bus, addr)); err != nil {
		return nil, err
	}
	k := tweakKey{bus, addr}
	if _, found := d.tweaks[k]; !found {
		d.tweakKeys = append(d.tweakKeys, k)
	}
	d.tweaks[k] = &BusTweak{Bus: bus, Addr: addr, Tweak: t}
	return &I2cAddr{d: d, ScdBus: bus, Address: addr}, nil
}

// Tweaks returns the recorded bus tweaks in declaration order.
func (d *Device) Tweaks() []BusTweak {
	tweaks := make([]BusTweak, 0, len(d.tweakKeys))
	for _, k := range d.tweakKeys {
		tweaks = append(tweaks, *d.tweaks[k])
	}
	return tweaks
}

// Bus is the Linux i2c adapter number.
func (a *I2cAddr) Bus() int { return a.d.i2cOffset + a.ScdBus }

func (a *I2cAddr) String() string {
	return fmt.Sprintf("%d-%04x", a.Bus(), a.Address)
}

// Do runs f on the device; in simulation f isn't run.
func (a *I2cAddr) Do(f func(*i2c.Bus) error) error {
	if a.d.cfg.Simulation {
		return nil
	}
	return i2c.Do(a.Bus(), a.Address, f)
}

// Smbus is one SCD bus.
type Smbus struct {
	d   *Device
	Bus int
}

func (d *Device) Smbus(bus int) Smbus { return Smbus{d, bus} }

func (s Smbus) I2cAddr(addr int) (*I2cAddr, error) {
	return s.d.I2cAddr(s.Bus, addr, DefaultTweak)
}
