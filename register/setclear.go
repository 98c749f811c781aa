// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package register

import (
	"github.com/platinasystems/scd/internal/hwerr"
)

// SetClear is a write-1-to-set, write-1-to-clear register pair. Neither
// operation reads; only the addressed bit changes.
type SetClear struct {
	Name      string
	SetAddr   uint32
	ClearAddr uint32
	m         *Map
}

// AddSetClear declares a pair. The set address may alias an existing
// register (usually the one read back); the clear address must be unused.
func (m *Map) AddSetClear(name string, setAddr, clearAddr uint32) (*SetClear, error) {
	if setAddr == clearAddr {
		return nil, hwerr.Config("%s: set and clear address 0x%x alias",
			name, setAddr)
	}
	for _, addr := range []uint32{setAddr, clearAddr} {
		if p, found := m.clears[addr]; found {
			return nil, hwerr.Config("%s: address 0x%x is the clear address of %q",
				name, addr, p.Name)
		}
	}
	if reg, found := m.byAddr[clearAddr]; found {
		return nil, hwerr.Config("%s: clear address 0x%x used by %q",
			name, clearAddr, reg.Name)
	}
	if _, found := m.byAddr[setAddr]; !found {
		if _, err := m.Add(name, setAddr); err != nil {
			return nil, err
		}
	}
	p := &SetClear{Name: name, SetAddr: setAddr, ClearAddr: clearAddr, m: m}
	m.pairs = append(m.pairs, p)
	m.clears[clearAddr] = p
	return p, nil
}

func (p *SetClear) Set(bit uint) error {
	if bit > 31 {
		return hwerr.Config("%s: bit %d out of range", p.Name, bit)
	}
	return p.m.acc.Write32(p.SetAddr, 1<<bit)
}

func (p *SetClear) Clear(bit uint) error {
	if bit > 31 {
		return hwerr.Config("%s: bit %d out of range", p.Name, bit)
	}
	return p.m.acc.Write32(p.ClearAddr, 1<<bit)
}

// Read returns the word at the set address.
func (p *SetClear) Read() (uint32, error) {
	return p.m.acc.Read32(p.SetAddr)
}

// Pairs returns the declared set/clear pairs in order.
func (m *Map) Pairs() []*SetClear {
	return append([]*SetClear(nil), m.pairs...)
}
