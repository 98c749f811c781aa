// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package register

import (
	"fmt"

	"github.com/platinasystems/scd/internal/hwerr"
	"github.com/platinasystems/scd/internal/mmio"
)

// Map is an ordered namespace of registers. It holds no hardware state;
// every access goes through the accessor given to New.
type Map struct {
	acc    mmio.Accessor
	regs   []*Register
	byName map[string]*Register
	byAddr map[uint32]*Register
	pairs  []*SetClear
	clears map[uint32]*SetClear
}

func New(acc mmio.Accessor) *Map {
	return &Map{
		acc:    acc,
		byName: make(map[string]*Register),
		byAddr: make(map[uint32]*Register),
		clears: make(map[uint32]*SetClear),
	}
}

// Add declares a register. Names and addresses are unique within the map.
func (m *Map) Add(name string, addr uint32, fields ...Field) (*Register, error) {
	if _, found := m.byName[name]; found {
		return nil, hwerr.Config("register %q: duplicate name", name)
	}
	if o, found := m.byAddr[addr]; found {
		return nil, hwerr.Config("register %q: address 0x%x used by %q",
			name, addr, o.Name)
	}
	if p, found := m.clears[addr]; found {
		return nil, hwerr.Config("register %q: address 0x%x is the clear address of %q",
			name, addr, p.Name)
	}
	reg := &Register{Name: name, Addr: addr, m: m}
	for _, f := range fields {
		if _, err := reg.Add(f); err != nil {
			return nil, err
		}
	}
	m.regs = append(m.regs, reg)
	m.byName[name] = reg
	m.byAddr[addr] = reg
	return reg, nil
}

// At returns the register at addr, declaring an anonymous one if needed.
func (m *Map) At(addr uint32) (*Register, error) {
	if reg, found := m.byAddr[addr]; found {
		return reg, nil
	}
	return m.Add(fmt.Sprintf("0x%04x", addr), addr)
}

func (m *Map) Register(name string) (*Register, error) {
	if reg, found := m.byName[name]; found {
		return reg, nil
	}
	return nil, hwerr.Config("no register %q", name)
}

// Field resolves reg.field now; unknown names fail immediately.
func (m *Map) Field(reg, field string) (*FieldRef, error) {
	r, err := m.Register(reg)
	if err != nil {
		return nil, err
	}
	return r.Field(field)
}

// Get reads field of reg. An empty field name reads a raw register.
func (m *Map) Get(reg, field string) (uint32, error) {
	f, err := m.Field(reg, field)
	if err != nil {
		return 0, err
	}
	return f.Get()
}

func (m *Map) Set(reg, field string, v uint32) error {
	f, err := m.Field(reg, field)
	if err != nil {
		return err
	}
	return f.Set(v)
}

// Registers returns the declared registers in order.
func (m *Map) Registers() []*Register {
	return append([]*Register(nil), m.regs...)
}

// Accessor returns the accessor all registers perform I/O through.
func (m *Map) Accessor() mmio.Accessor { return m.acc }

// Mark records how much of the map is declared.
type Mark struct {
	regs   int
	fields []int
	pairs  int
}

func (m *Map) Mark() Mark {
	mk := Mark{
		regs:   len(m.regs),
		fields: make([]int, len(m.regs)),
		pairs:  len(m.pairs),
	}
	for i, reg := range m.regs {
		mk.fields[i] = len(reg.fields)
	}
	return mk
}

// Rollback forgets every register, field and pair declared after mk.
func (m *Map) Rollback(mk Mark) {
	for _, reg := range m.regs[mk.regs:] {
		delete(m.byName, reg.Name)
		delete(m.byAddr, reg.Addr)
	}
	m.regs = m.regs[:mk.regs]
	for i, reg := range m.regs {
		reg.fields = reg.fields[:mk.fields[i]]
	}
	for _, p := range m.pairs[mk.pairs:] {
		delete(m.clears, p.ClearAddr)
	}
	m.pairs = m.pairs[:mk.pairs]
}
