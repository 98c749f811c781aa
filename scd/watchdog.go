// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package scd

import (
	"fmt"

	"github.com/platinasystems/log"

	"github.com/platinasystems/scd/inventory"
	"github.com/platinasystems/scd/register"
)

const (
	WatchdogReg = 0x0120
	// In 10ms ticks.
	MaxWatchdogTimeout = 0xffff
)

var (
	wdEnable  = register.Bit("enable", 31)
	wdAction  = register.Range("action", 29, 30)
	wdTimeout = register.Range("timeout", 0, 15)
)

const wdPowerCycle = 2

// Watchdog is the SCD hardware watchdog. Timeouts are in 10ms ticks.
type Watchdog struct {
	d   *Device
	reg *register.Register

	enable, action, timeout *register.FieldRef
}

// CreateWatchdog declares the watchdog at addr. With an interrupt register
// the watchdog line is allocated at bit.
func (d *Device) CreateWatchdog(addr uint32, intr *InterruptRegister, bit uint) (*Watchdog, error) {
	if err := d.build("watchdog"); err != nil {
		return nil, err
	}
	var w *Watchdog
	err := d.atomically(func() error {
		reg, err := d.regs.Add(fmt.Sprint("watchdog", len(d.watchdogs)), addr,
			wdEnable, wdAction, wdTimeout)
		if err != nil {
			return err
		}
		w = &Watchdog{d: d, reg: reg}
		for _, x := range []struct {
			ref  **register.FieldRef
			name string
		}{
			{&w.enable, wdEnable.Name},
			{&w.action, wdAction.Name},
			{&w.timeout, wdTimeout.Name},
		} {
			if *x.ref, err = reg.Field(x.name); err != nil {
				return err
			}
		}
		if intr != nil {
			_, err = intr.InterruptBit(WatchdogIntr, bit)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	d.watchdogs = append(d.watchdogs, w)
	d.inv.AddWatchdog(w)
	return w, nil
}

func (w *Watchdog) MaxTimeout() uint32 { return MaxWatchdogTimeout }

// armValue is the register word that arms the watchdog for ticks.
func (w *Watchdog) armValue(ticks uint32) uint32 {
	if ticks == 0 {
		return 0
	}
	v := w.enable.Encode(0, 1)
	v = w.action.Encode(v, wdPowerCycle)
	return w.timeout.Encode(v, ticks)
}

// Arm starts the countdown; zero ticks disables it. Timeouts over
// MaxTimeout fail without touching hardware.
func (w *Watchdog) Arm(ticks uint32) bool {
	if ticks > MaxWatchdogTimeout {
		log.Print("err", "watchdog: timeout ", ticks, " exceeds ",
			MaxWatchdogTimeout)
		return false
	}
	v := w.armValue(ticks)
	log.Printf("info", "watchdog: arm reg=%032b", v)
	if err := w.reg.Set(v); err != nil {
		log.Print("err", "watchdog: arm/stop: ", err)
		return false
	}
	return true
}

func (w *Watchdog) Stop() bool { return w.Arm(0) }

// Status is nil if the register can't be read.
func (w *Watchdog) Status() *inventory.WatchdogStatus {
	v, err := w.reg.Get()
	if err != nil {
		log.Print("err", "watchdog: status: ", err)
		return nil
	}
	timeout := w.timeout.Decode(v)
	return &inventory.WatchdogStatus{
		Enabled:       w.enable.Decode(v) != 0,
		Timeout:       timeout,
		RemainingTime: timeout,
	}
}
