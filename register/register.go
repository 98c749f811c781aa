// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package register describes 32-bit registers as named bit fields and
// resolves field names to accessors once, when the map is built.
package register

import (
	"github.com/platinasystems/scd/internal/hwerr"
)

// Register is an address with zero or more non-overlapping named fields.
// With no fields it's a raw register accessed as a whole word.
type Register struct {
	Name   string
	Addr   uint32
	m      *Map
	fields []Field
}

func (reg *Register) raw() bool { return len(reg.fields) == 0 }

// Fields returns the register fields in declaration order.
func (reg *Register) Fields() []Field {
	return append([]Field(nil), reg.fields...)
}

// Add declares another field. Overlapping ranges and duplicate names are
// configuration errors.
func (reg *Register) Add(f Field) (*FieldRef, error) {
	if err := f.valid(); err != nil {
		return nil, err
	}
	for _, o := range reg.fields {
		if o.Name == f.Name {
			return nil, hwerr.Config("%s: duplicate field %q",
				reg.Name, f.Name)
		}
		if o.overlaps(f) {
			return nil, hwerr.Config("%s: field %q bits %d..%d overlap %q",
				reg.Name, f.Name, f.Lo, f.Hi, o.Name)
		}
	}
	reg.fields = append(reg.fields, f)
	return newFieldRef(reg.m, reg, f), nil
}

// Field resolves a declared field by name. The empty name resolves to the
// whole word of a raw register.
func (reg *Register) Field(name string) (*FieldRef, error) {
	if name == "" && reg.raw() {
		return newFieldRef(reg.m, reg, Word(reg.Name)), nil
	}
	for _, f := range reg.fields {
		if f.Name == name {
			return newFieldRef(reg.m, reg, f), nil
		}
	}
	return nil, hwerr.Config("%s: no field %q", reg.Name, name)
}

// Get reads the whole word.
func (reg *Register) Get() (uint32, error) {
	return reg.m.acc.Read32(reg.Addr)
}

// Set writes the whole word.
func (reg *Register) Set(v uint32) error {
	return reg.m.acc.Write32(reg.Addr, v)
}
