// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package scd

import (
	"fmt"

	"github.com/platinasystems/log"

	"github.com/platinasystems/scd/register"
)

const (
	PowerCycleReg   = 0x7000
	PowerCycleValue = 0xdead
)

// PowerCycle writes a magic value that makes the SCD cut and restore
// system power.
type PowerCycle struct {
	d     *Device
	reg   *register.Register
	Value uint32
}

func (d *Device) CreatePowerCycle(addr, value uint32) (*PowerCycle, error) {
	if err := d.build("powercycle"); err != nil {
		return nil, err
	}
	reg, err := d.regs.Add(fmt.Sprint("powercycle", len(d.powerCycles)), addr)
	if err != nil {
		return nil, err
	}
	p := &PowerCycle{d: d, reg: reg, Value: value}
	d.powerCycles = append(d.powerCycles, p)
	d.inv.AddPowerCycle(p)
	return p, nil
}

func (d *Device) PowerCycles() []*PowerCycle { return d.powerCycles }

// Trigger makes one attempt and reports whether the write went through.
func (p *PowerCycle) Trigger() bool {
	log.Print("info", "initiating powercycle through ", p.d)
	if err := p.reg.Set(p.Value); err != nil {
		log.Print("err", "powercycle: ", err)
		return false
	}
	log.Print("info", "powercycle triggered by ", p.d)
	return true
}
