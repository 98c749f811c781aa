// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package scd

import (
	"fmt"

	"github.com/platinasystems/scd/internal/hwerr"
)

const (
	SmbusBuses   = 8
	SmbusSpacing = 0x100
	MdioSpacing  = 0x40
	UartSpacing  = 0x10
)

// Master is a bus master at a fixed BAR offset. The per bus device counts
// only name devices; they never address anything.
type Master struct {
	Addr  uint32
	Id    int
	Buses int
	Speed MdioSpeed
	devs  []int
}

// MasterTable maps logical master ids to masters.
type MasterTable struct {
	Kind    string
	masters []*Master
}

func (t *MasterTable) Add(addr uint32, id, buses int) (*Master, error) {
	if buses < 1 {
		return nil, hwerr.Config("%s master 0x%x: %d buses", t.Kind, addr,
			buses)
	}
	for _, m := range t.masters {
		if m.Addr == addr {
			return nil, hwerr.Config("%s master 0x%x: already declared",
				t.Kind, addr)
		}
	}
	m := &Master{Addr: addr, Id: id, Buses: buses, devs: make([]int, buses)}
	t.masters = append(t.masters, m)
	return m, nil
}

// AddRange declares count masters spacing apart with ids 0 through
// count-1.
func (t *MasterTable) AddRange(start uint32, count int, spacing uint32, buses int) ([]*Master, error) {
	masters := make([]*Master, 0, count)
	for i := 0; i < count; i++ {
		m, err := t.Add(start+uint32(i)*spacing, i, buses)
		if err != nil {
			return nil, err
		}
		masters = append(masters, m)
	}
	return masters, nil
}

// Lookup returns the one master with id.
func (t *MasterTable) Lookup(id int) (*Master, error) {
	var found *Master
	for _, m := range t.masters {
		if m.Id != id {
			continue
		}
		if found != nil {
			return nil, hwerr.Config("%s master id %d: not unique",
				t.Kind, id)
		}
		found = m
	}
	if found == nil {
		return nil, hwerr.Config("%s master id %d: not found", t.Kind, id)
	}
	return found, nil
}

// Allocate returns the next device index on bus of master id.
func (t *MasterTable) Allocate(id, bus int) (*Master, int, error) {
	m, err := t.Lookup(id)
	if err != nil {
		return nil, 0, err
	}
	if bus < 0 || bus >= m.Buses {
		return nil, 0, hwerr.Config("%s master %d: bus %d out of range [0, %d)",
			t.Kind, id, bus, m.Buses)
	}
	idx := m.devs[bus]
	m.devs[bus]++
	return m, idx, nil
}

func (t *MasterTable) Masters() []*Master {
	return append([]*Master(nil), t.masters...)
}

func (d *Device) AddSmbusMaster(addr uint32, id, buses int) (*Master, error) {
	if err := d.build("smbus master"); err != nil {
		return nil, err
	}
	return d.smbus.Add(addr, id, buses)
}

func (d *Device) AddSmbusMasterRange(start uint32, count int, spacing uint32, buses int) ([]*Master, error) {
	if err := d.build("smbus masters"); err != nil {
		return nil, err
	}
	return d.smbus.AddRange(start, count, spacing, buses)
}

func (d *Device) SmbusMasters() []*Master { return d.smbus.Masters() }

type MdioSpeed int

const (
	MdioSpeed2_5 MdioSpeed = iota
	MdioSpeed5
	MdioSpeed10
	MdioSpeed20
)

type MdioClause int

const (
	MdioC22 MdioClause = iota
	MdioC45
)

// Mdio is a device on an MDIO master bus, named mdio<master>_<bus>_<id>.
type Mdio struct {
	Name     string
	Master   int
	Bus      int
	Id       int
	PortAddr int
	DevAddr  int
	Clause   MdioClause
}

func (d *Device) AddMdioMaster(addr uint32, id, buses int, speed MdioSpeed) (*Master, error) {
	if err := d.build("mdio master"); err != nil {
		return nil, err
	}
	m, err := d.mdio.Add(addr, id, buses)
	if err != nil {
		return nil, err
	}
	m.Speed = speed
	return m, nil
}

func (d *Device) AddMdioMasterRange(start uint32, count int, spacing uint32, buses int, speed MdioSpeed) ([]*Master, error) {
	if err := d.build("mdio masters"); err != nil {
		return nil, err
	}
	masters, err := d.mdio.AddRange(start, count, spacing, buses)
	for _, m := range masters {
		m.Speed = speed
	}
	return masters, err
}

// AddMdio declares a device on bus of master.
func (d *Device) AddMdio(master, bus, portAddr, devAddr int, clause MdioClause) (*Mdio, error) {
	if err := d.build("mdio"); err != nil {
		return nil, err
	}
	_, idx, err := d.mdio.Allocate(master, bus)
	if err != nil {
		return nil, err
	}
	m := &Mdio{
		Name:     fmt.Sprintf("mdio%d_%d_%d", master, bus, idx),
		Master:   master,
		Bus:      bus,
		Id:       idx,
		PortAddr: portAddr,
		DevAddr:  devAddr,
		Clause:   clause,
	}
	d.mdios = append(d.mdios, m)
	return m, nil
}

func (d *Device) MdioMasters() []*Master { return d.mdio.Masters() }
func (d *Device) Mdios() []*Mdio         { return d.mdios }

func (d *Device) AddUartPort(addr uint32, id int) (*Master, error) {
	if err := d.build("uart"); err != nil {
		return nil, err
	}
	return d.uart.Add(addr, id, 1)
}

func (d *Device) AddUartPortRange(start uint32, count int, spacing uint32) ([]*Master, error) {
	if err := d.build("uarts"); err != nil {
		return nil, err
	}
	return d.uart.AddRange(start, count, spacing, 1)
}

func (d *Device) UartPorts() []*Master { return d.uart.Masters() }

// FanGroup is handed to the driver as is.
type FanGroup struct {
	Addr     uint32
	Platform int
	Slots    int
	Count    int
}

func (d *Device) AddFanGroup(addr uint32, platform, slots, count int) error {
	if err := d.build("fan group"); err != nil {
		return err
	}
	d.fanGroups = append(d.fanGroups, FanGroup{addr, platform, slots, count})
	return nil
}

func (d *Device) SetMsiRearmOffset(offset uint32) error {
	if err := d.build("msi rearm offset"); err != nil {
		return err
	}
	d.msiRearm = &offset
	return nil
}
