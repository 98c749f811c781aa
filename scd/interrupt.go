// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package scd

import (
	"fmt"
	"strconv"

	"github.com/platinasystems/log"

	"github.com/platinasystems/scd/internal/mmio"
	"github.com/platinasystems/scd/register"
)

const (
	intrClearOffset  = 0x10
	intrStatusOffset = 0x20
	WatchdogIntr     = "watchdog"
)

// InterruptRegister is the mask/status cluster of one SCD interrupt
// controller. The mask reads back at the set address.
type InterruptRegister struct {
	d          *Device
	Num        int
	ReadAddr   uint32
	SetAddr    uint32
	ClearAddr  uint32
	StatusAddr uint32
	Mask       uint32
	// Set when the watchdog line is allocated.
	WatchdogMask uint32

	pair   *register.SetClear
	status *register.Register
	bits   []*Interrupt
}

// CreateInterrupt declares interrupt controller num at addr. Mask is the
// initial interrupt mask handed to the driver, usually 0xffffffff.
func (d *Device) CreateInterrupt(addr uint32, num int, mask uint32) (*InterruptRegister, error) {
	if err := d.build("interrupt"); err != nil {
		return nil, err
	}
	name := fmt.Sprint("interrupt", num)
	pair, err := d.regs.AddSetClear(name, addr, addr+intrClearOffset)
	if err != nil {
		return nil, err
	}
	status, err := d.regs.Add(name+"_status", addr+intrStatusOffset)
	if err != nil {
		return nil, err
	}
	r := &InterruptRegister{
		d:          d,
		Num:        num,
		ReadAddr:   addr,
		SetAddr:    addr,
		ClearAddr:  addr + intrClearOffset,
		StatusAddr: addr + intrStatusOffset,
		Mask:       mask,
		pair:       pair,
		status:     status,
	}
	d.interrupts = append(d.interrupts, r)
	return r, nil
}

func (d *Device) Interrupts() []*InterruptRegister { return d.interrupts }

// SetMask masks bit. Failures are logged, not returned.
func (r *InterruptRegister) SetMask(bit uint) {
	err := r.d.Do(func(a mmio.Accessor) error {
		cur, err := a.Read32(r.SetAddr)
		if err != nil {
			return err
		}
		return a.Write32(r.SetAddr, cur|1<<bit)
	})
	if err != nil {
		log.Print("err", r.d, ": interrupt", r.Num, " set mask bit ", bit,
			": ", err)
	}
}

// ClearMask unmasks bit. The clear register takes the bit along with the
// complement of the current mask.
func (r *InterruptRegister) ClearMask(bit uint) {
	err := r.d.Do(func(a mmio.Accessor) error {
		cur, err := a.Read32(r.SetAddr)
		if err != nil {
			return err
		}
		return a.Write32(r.ClearAddr, 1<<bit|^cur)
	})
	if err != nil {
		log.Print("err", r.d, ": interrupt", r.Num, " clear mask bit ", bit,
			": ", err)
	}
}

// Status reads the pending interrupt word.
func (r *InterruptRegister) Status() (uint32, error) { return r.status.Get() }

// Masked reads the current mask.
func (r *InterruptRegister) Masked() (uint32, error) { return r.pair.Read() }

// InterruptBit allocates a named bit and adds it to the inventory. Without
// interrupt init it allocates nothing and returns nil.
func (r *InterruptRegister) InterruptBit(name string, bit uint) (*Interrupt, error) {
	if !r.d.cfg.InitIrq {
		return nil, nil
	}
	if err := r.d.build("interrupt bit " + name); err != nil {
		return nil, err
	}
	i := &Interrupt{reg: r, name: name, Bit: bit}
	if err := r.d.inv.AddInterrupt(i); err != nil {
		return nil, err
	}
	if name == WatchdogIntr {
		r.WatchdogMask = 1 << bit
	}
	r.bits = append(r.bits, i)
	return i, nil
}

func (r *InterruptRegister) setup() error {
	if !r.d.cfg.InitIrq {
		return nil
	}
	if r.d.cfg.Simulation {
		return nil
	}
	dir := r.d.SysfsPath()
	n := strconv.Itoa(r.Num)
	for _, attr := range []struct {
		name  string
		value uint32
	}{
		{"interrupt_mask_read_offset", r.ReadAddr},
		{"interrupt_mask_set_offset", r.SetAddr},
		{"interrupt_mask_clear_offset", r.ClearAddr},
		{"interrupt_mask_watchdog", r.WatchdogMask},
		{"interrupt_status_offset", r.StatusAddr},
		{"interrupt_mask", r.Mask},
	} {
		err := writeAttr(dir, attr.name+n,
			strconv.FormatUint(uint64(attr.value), 10))
		if err != nil {
			return err
		}
	}
	return nil
}

// Interrupt is one allocated bit of an interrupt controller.
type Interrupt struct {
	reg  *InterruptRegister
	name string
	Bit  uint
}

func (i *Interrupt) Name() string { return i.name }
func (i *Interrupt) Set()         { i.reg.SetMask(i.Bit) }
func (i *Interrupt) Clear()       { i.reg.ClearMask(i.Bit) }

// File is the uio device that signals this interrupt, or empty if it can't
// be resolved.
func (i *Interrupt) File() string {
	fn, err := i.reg.d.Uio(i.reg.Num, i.Bit)
	if err != nil {
		log.Print("err", i.name, ": ", err)
	}
	return fn
}
