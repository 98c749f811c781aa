// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package scd

import (
	"fmt"

	"github.com/platinasystems/scd/desc"
	"github.com/platinasystems/scd/internal/hwerr"
	"github.com/platinasystems/scd/inventory"
)

const (
	XcvrAddrOffset = 0x10
	XcvrBusOffset  = 1
	LedAddrOffset  = 0x10
	Rj45Prefix     = "rj45_"
	XcvrEepromAddr = 0x50
)

// Xcvr register bits.
const (
	sfpRxLosBit     = 0
	sfpTxFaultBit   = 1
	presentBit      = 2
	lpModeBit       = 6
	sfpTxDisableBit = 6
	resetBit        = 7
	modSelBit       = 8
)

// XcvrPlacement says where consecutive ports are wired. Nil Addr, Bus or
// LedAddr leave that part of the slot out.
type XcvrPlacement struct {
	Addr    *uint32
	Bus     *int
	LedAddr *uint32

	// Zero means XcvrAddrOffset.
	AddrOffset uint32
	// Zero means XcvrBusOffset.
	BusOffset int
	// Nil means LedAddrOffset for every port.
	LedAddrOffsetFn func(index int) uint32

	IntrRegs   []*InterruptRegister
	IntrRegIdx func(index int) int
	IntrBit    func(index int) uint

	NoLpMode bool
	NoModSel bool
	// Defaults to Rj45Prefix.
	EthernetPrefix string
}

func Uint32(v uint32) *uint32 { return &v }
func Int(v int) *int          { return &v }

// Slot is one transceiver cage.
type Slot struct {
	d     *Device
	name  string
	Kind  desc.Kind
	Index int
	Lanes int

	addr    *uint32
	bus     *int
	present *Gpio
	reset   *Reset
	intr    *Interrupt
	leds    []inventory.Led

	LpMode    *Gpio
	ModSel    *Gpio
	RxLos     *Gpio
	TxDisable *Gpio
	TxFault   *Gpio
}

func (s *Slot) Name() string { return s.name }

func (s *Slot) Presence() inventory.Gpio {
	if s.present == nil {
		return nil
	}
	return s.present
}

func (s *Slot) Reset() inventory.Reset {
	if s.reset == nil {
		return nil
	}
	return s.reset
}

func (s *Slot) Interrupt() inventory.Interrupt {
	if s.intr == nil {
		return nil
	}
	return s.intr
}

func (s *Slot) Leds() []inventory.Led { return s.leds }

// I2cAddr returns the slot's device at addr, nil for slots without i2c.
func (s *Slot) I2cAddr(addr int) *I2cAddr {
	if s.addr == nil || s.bus == nil {
		return nil
	}
	return &I2cAddr{d: s.d, ScdBus: *s.bus, Address: addr}
}

func (s *Slot) HasI2c() bool { return s.addr != nil && s.bus != nil }

// driverKind is how the kernel driver knows the slot; qsfp-dd cages are
// osfp to it.
func (s *Slot) driverKind() string {
	if s.Kind == desc.QsfpDD {
		return desc.Osfp.String()
	}
	return s.Kind.String()
}

func (d *Device) Xcvrs() []*Slot { return d.xcvrs }

func slotName(p desc.Port, pl *XcvrPlacement) (string, error) {
	switch p.Kind {
	case desc.Rj45:
		prefix := pl.EthernetPrefix
		if len(prefix) == 0 {
			prefix = Rj45Prefix
		}
		return fmt.Sprint(prefix, p.Index), nil
	case desc.Sfp:
		return fmt.Sprint("sfp", p.Index), nil
	case desc.Qsfp:
		return fmt.Sprint("qsfp", p.Index), nil
	case desc.QsfpDD, desc.Osfp:
		return fmt.Sprint("osfp", p.Index), nil
	}
	return "", hwerr.Config("port %v: unsupported by scd", p)
}

// AddXcvrSlots wires ports one after the other, stepping the gpio address
// by AddrOffset, the bus by BusOffset and the LED address by the port's
// LED count times its LED offset. Either every port is wired or none is.
func (d *Device) AddXcvrSlots(ports []desc.Port, pl XcvrPlacement) ([]*Slot, error) {
	if err := d.build("xcvr slots"); err != nil {
		return nil, err
	}
	for _, p := range ports {
		if _, err := slotName(p, &pl); err != nil {
			return nil, err
		}
	}
	if len(pl.IntrRegs) > 0 && (pl.IntrRegIdx == nil || pl.IntrBit == nil) {
		return nil, hwerr.Config("xcvr slots: interrupt registers without index and bit functions")
	}
	if pl.AddrOffset == 0 {
		pl.AddrOffset = XcvrAddrOffset
	}
	if pl.BusOffset == 0 {
		pl.BusOffset = XcvrBusOffset
	}
	if pl.LedAddrOffsetFn == nil {
		pl.LedAddrOffsetFn = func(int) uint32 { return LedAddrOffset }
	}
	var (
		addr, ledAddr *uint32
		bus           *int
	)
	if pl.Addr != nil {
		addr = Uint32(*pl.Addr)
	}
	if pl.LedAddr != nil {
		ledAddr = Uint32(*pl.LedAddr)
	}
	if pl.Bus != nil {
		bus = Int(*pl.Bus)
	}
	slots := make([]*Slot, 0, len(ports))
	err := d.atomically(func() error {
		for _, p := range ports {
			s, err := d.addXcvrSlot(p, &pl, addr, bus, ledAddr)
			if err != nil {
				return err
			}
			slots = append(slots, s)
			if addr != nil {
				addr = Uint32(*addr + pl.AddrOffset)
			}
			if ledAddr != nil {
				ledAddr = Uint32(*ledAddr + uint32(p.Leds)*pl.LedAddrOffsetFn(p.Index))
			}
			if bus != nil {
				bus = Int(*bus + pl.BusOffset)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (d *Device) addXcvrSlot(p desc.Port, pl *XcvrPlacement, addr *uint32, bus *int, ledAddr *uint32) (*Slot, error) {
	name, err := slotName(p, pl)
	if err != nil {
		return nil, err
	}
	s := &Slot{
		d:     d,
		name:  name,
		Kind:  p.Kind,
		Index: p.Index,
		Lanes: p.Leds,
		addr:  addr,
		bus:   bus,
	}
	gpio := func(suffix string, bit uint, ro, activeLow bool) (*Gpio, error) {
		if addr == nil {
			return nil, hwerr.Config("%s: %s without an address", name, suffix)
		}
		return d.newGpio(desc.GpioDesc{
			Name:      name + "_" + suffix,
			Addr:      *addr,
			Bit:       bit,
			RO:        ro,
			ActiveLow: activeLow,
		})
	}

	switch p.Kind {
	case desc.Sfp:
		if s.RxLos, err = gpio("rxlos", sfpRxLosBit, true, false); err != nil {
			return nil, err
		}
		if s.TxDisable, err = gpio("txdisable", sfpTxDisableBit, false, false); err != nil {
			return nil, err
		}
		if s.TxFault, err = gpio("txfault", sfpTxFaultBit, true, false); err != nil {
			return nil, err
		}
	case desc.Qsfp, desc.QsfpDD, desc.Osfp:
		if !pl.NoLpMode {
			if s.LpMode, err = gpio("lp_mode", lpModeBit, false, false); err != nil {
				return nil, err
			}
		}
		if !pl.NoModSel {
			if s.ModSel, err = gpio("modsel", modSelBit, false, true); err != nil {
				return nil, err
			}
		}
		if addr == nil {
			return nil, hwerr.Config("%s: reset without an address", name)
		}
		s.reset, err = d.newReset(desc.ResetDesc{
			Name: name + "_reset",
			Addr: *addr,
			Bit:  resetBit,
		})
		if err != nil {
			return nil, err
		}
	}

	if len(pl.IntrRegs) > 0 {
		idx := pl.IntrRegIdx(p.Index)
		if idx < 0 || idx >= len(pl.IntrRegs) {
			return nil, hwerr.Config("%s: interrupt register %d out of range",
				name, idx)
		}
		s.intr, err = pl.IntrRegs[idx].InterruptBit(name, pl.IntrBit(p.Index))
		if err != nil {
			return nil, err
		}
	}

	if addr != nil && bus != nil {
		if s.present, err = gpio("present", presentBit, true, true); err != nil {
			return nil, err
		}
		if _, err = d.I2cAddr(*bus, XcvrEepromAddr, XcvrTweak); err != nil {
			return nil, err
		}
	}

	if ledAddr != nil {
		var leds []desc.LedDesc
		a := *ledAddr
		for lane := 1; lane <= p.Leds; lane++ {
			laneName := name
			if p.Leds > 1 {
				laneName = fmt.Sprintf("%s_%d", name, lane)
			}
			leds = append(leds, desc.LedDesc{Name: laneName, Addr: a})
			a += pl.LedAddrOffsetFn(p.Index)
		}
		if s.leds, err = d.AddLedGroup(name, leds...); err != nil {
			return nil, err
		}
	}

	if err = d.inv.AddXcvr(s); err != nil {
		return nil, err
	}
	d.xcvrs = append(d.xcvrs, s)
	return s, nil
}
