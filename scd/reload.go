// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package scd

import (
	"fmt"

	"github.com/platinasystems/scd/inventory"
	"github.com/platinasystems/scd/register"
)

// Reload cause registers.
const (
	LatchedCauseReg     = 0x4f80
	LatchedCauseRtc0Reg = 0x4f84
	LatchedCauseRtc1Reg = 0x4f88
	LastCauseReg        = 0x4f8c
	LastCauseRtc0Reg    = 0x4f90
	LastCauseRtc1Reg    = 0x4f94
	CauseCtrlReg        = 0x4f98
	Rtc0Reg             = 0x4fa8
	Rtc1Reg             = 0x4fac
)

// ReloadCauses reads the cause the SCD latched at the last reboot and the
// most recent cause it saw, named from its code table.
type ReloadCauses struct {
	d     *Device
	Names map[uint32]string

	latched, latchedFrac, latchedSec *register.FieldRef
	last, lastFrac, lastSec          *register.FieldRef
	rtcFrac, rtcSec                  *register.FieldRef
	clearFault, faultTest            *register.FieldRef
}

func (d *Device) AddReloadCauseProvider(names map[uint32]string) (*ReloadCauses, error) {
	if err := d.build("reload causes"); err != nil {
		return nil, err
	}
	for _, r := range []struct {
		name   string
		addr   uint32
		fields []register.Field
	}{
		{"latched_cause", LatchedCauseReg,
			[]register.Field{register.Range("latchedCause", 0, 7, register.RO)}},
		{"latched_cause_rtc0", LatchedCauseRtc0Reg,
			[]register.Field{register.Range("latchedFractional", 0, 15, register.RO)}},
		{"latched_cause_rtc1", LatchedCauseRtc1Reg, nil},
		{"last_cause", LastCauseReg,
			[]register.Field{register.Range("lastCause", 0, 7, register.RO)}},
		{"last_cause_rtc0", LastCauseRtc0Reg,
			[]register.Field{register.Range("lastFractional", 0, 15, register.RO)}},
		{"last_cause_rtc1", LastCauseRtc1Reg, nil},
		{"rtc0", Rtc0Reg,
			[]register.Field{register.Range("rtcFractional", 0, 15)}},
		{"rtc1", Rtc1Reg, nil},
		{"cause_ctrl", CauseCtrlReg,
			[]register.Field{
				register.Bit("clearFault", 0),
				register.Range("faultTest", 16, 31),
			}},
	} {
		if _, err := d.regs.Add(r.name, r.addr, r.fields...); err != nil {
			return nil, err
		}
	}
	rc := &ReloadCauses{d: d, Names: names}
	for _, x := range []struct {
		p          **register.FieldRef
		reg, field string
	}{
		{&rc.latched, "latched_cause", "latchedCause"},
		{&rc.latchedFrac, "latched_cause_rtc0", "latchedFractional"},
		{&rc.latchedSec, "latched_cause_rtc1", ""},
		{&rc.last, "last_cause", "lastCause"},
		{&rc.lastFrac, "last_cause_rtc0", "lastFractional"},
		{&rc.lastSec, "last_cause_rtc1", ""},
		{&rc.rtcFrac, "rtc0", "rtcFractional"},
		{&rc.rtcSec, "rtc1", ""},
		{&rc.clearFault, "cause_ctrl", "clearFault"},
		{&rc.faultTest, "cause_ctrl", "faultTest"},
	} {
		f, err := d.regs.Field(x.reg, x.field)
		if err != nil {
			return nil, err
		}
		*x.p = f
	}
	d.inv.AddReloadCauseProvider(rc)
	return rc, nil
}

func (rc *ReloadCauses) name(code uint32) string {
	if s, found := rc.Names[code]; found {
		return s
	}
	return fmt.Sprintf("unknown(0x%02x)", code)
}

// timestamp is seconds with a 16 bit binary fraction.
func timestamp(sec, frac *register.FieldRef) (float64, error) {
	s, err := sec.Get()
	if err != nil {
		return 0, err
	}
	f, err := frac.Get()
	if err != nil {
		return 0, err
	}
	return float64(s) + float64(f)/(1<<16), nil
}

func (rc *ReloadCauses) read(cause string, code, sec, frac *register.FieldRef) (inventory.ReloadCause, error) {
	c, err := code.Get()
	if err != nil {
		return inventory.ReloadCause{}, err
	}
	t, err := timestamp(sec, frac)
	if err != nil {
		return inventory.ReloadCause{}, err
	}
	return inventory.ReloadCause{
		Code:  c,
		Name:  rc.name(c),
		Time:  t,
		Cause: cause,
	}, nil
}

// ReloadCauses returns the latched cause then the last one.
func (rc *ReloadCauses) ReloadCauses() ([]inventory.ReloadCause, error) {
	latched, err := rc.read("latched", rc.latched, rc.latchedSec, rc.latchedFrac)
	if err != nil {
		return nil, err
	}
	last, err := rc.read("last", rc.last, rc.lastSec, rc.lastFrac)
	if err != nil {
		return nil, err
	}
	return []inventory.ReloadCause{latched, last}, nil
}

// Rtc is the SCD real time clock.
func (rc *ReloadCauses) Rtc() (float64, error) {
	return timestamp(rc.rtcSec, rc.rtcFrac)
}

// SetRtc loads the real time clock, e.g. from the system time.
func (rc *ReloadCauses) SetRtc(sec, frac uint32) error {
	if err := rc.rtcFrac.Set(frac); err != nil {
		return err
	}
	return rc.rtcSec.Set(sec)
}

// Clear acknowledges the latched cause.
func (rc *ReloadCauses) Clear() error { return rc.clearFault.Set(1) }

// FaultTest injects code as a test fault.
func (rc *ReloadCauses) FaultTest(code uint32) error {
	return rc.faultTest.Set(code)
}
