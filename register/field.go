// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package register

import (
	"github.com/platinasystems/scd/internal/hwerr"
	"github.com/platinasystems/scd/internal/mmio"
)

// Field is a named bit range [Lo, Hi] of a 32-bit register.
type Field struct {
	Name string
	Lo   uint
	Hi   uint
	RO   bool
	// Flip makes the logical value the complement of the raw bits.
	Flip bool
}

type Option func(*Field)

var (
	RO   Option = func(f *Field) { f.RO = true }
	Flip Option = func(f *Field) { f.Flip = true }
)

// Bit is a single bit field.
func Bit(name string, bit uint, opts ...Option) Field {
	return Range(name, bit, bit, opts...)
}

// Range is a multi-bit field spanning lo through hi inclusive.
func Range(name string, lo, hi uint, opts ...Option) Field {
	f := Field{Name: name, Lo: lo, Hi: hi}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// Word is the whole-register pseudo field of a raw register.
func Word(name string) Field { return Field{Name: name, Lo: 0, Hi: 31} }

func (f Field) Width() uint { return f.Hi - f.Lo + 1 }

// Mask is the unshifted value mask of f.
func (f Field) Mask() uint32 { return uint32(uint64(1)<<f.Width() - 1) }

func (f Field) valid() error {
	if f.Hi > 31 || f.Lo > f.Hi {
		return hwerr.Config("field %q: invalid bit range %d..%d",
			f.Name, f.Lo, f.Hi)
	}
	return nil
}

func (f Field) overlaps(o Field) bool {
	return f.Lo <= o.Hi && o.Lo <= f.Hi
}

// Readable is anything with a current unsigned value.
type Readable interface {
	Get() (uint32, error)
}

// Writable values may also be stored.
type Writable interface {
	Readable
	Set(v uint32) error
}

// Invertible values report whether the logical sense is the complement of
// the raw bits.
type Invertible interface {
	Inverted() bool
}

// FieldRef is a field resolved against its register and map.
type FieldRef struct {
	m   *Map
	reg *Register
	f   Field
	set func(v uint32) error
}

func newFieldRef(m *Map, reg *Register, f Field) *FieldRef {
	r := &FieldRef{m: m, reg: reg, f: f}
	if f.RO {
		r.set = r.denied
	} else {
		r.set = r.store
	}
	return r
}

func (r *FieldRef) Name() string        { return r.f.Name }
func (r *FieldRef) Field() Field        { return r.f }
func (r *FieldRef) Register() *Register { return r.reg }
func (r *FieldRef) Addr() uint32        { return r.reg.Addr }
func (r *FieldRef) ReadOnly() bool      { return r.f.RO }
func (r *FieldRef) Inverted() bool      { return r.f.Flip }

// Get returns the logical field value, truncated to the field width.
func (r *FieldRef) Get() (uint32, error) {
	w, err := r.m.acc.Read32(r.reg.Addr)
	if err != nil {
		return 0, err
	}
	return r.Decode(w), nil
}

// Set read-modify-writes the field, preserving every other bit. Values
// wider than the field are masked, never sign extended.
func (r *FieldRef) Set(v uint32) error { return r.set(v) }

func (r *FieldRef) IsActive() (bool, error) {
	v, err := r.Get()
	return v != 0, err
}

func (r *FieldRef) SetActive(active bool) error {
	if active {
		return r.Set(1)
	}
	return r.Set(0)
}

// Decode extracts the logical field value from a word of its register.
func (r *FieldRef) Decode(w uint32) uint32 {
	v := (w >> r.f.Lo) & r.f.Mask()
	if r.f.Flip {
		v = ^v & r.f.Mask()
	}
	return v
}

// Encode returns w with the field replaced by v.
func (r *FieldRef) Encode(w, v uint32) uint32 {
	mask := r.f.Mask()
	v &= mask
	if r.f.Flip {
		v = ^v & mask
	}
	return w&^(mask<<r.f.Lo) | v<<r.f.Lo
}

func (r *FieldRef) denied(uint32) error {
	return hwerr.Permission("%s.%s: read only", r.reg.Name, r.f.Name)
}

func (r *FieldRef) store(v uint32) error {
	return mmio.Do(r.m.acc, func(a mmio.Accessor) error {
		if r.reg.raw() {
			return a.Write32(r.reg.Addr, r.Encode(0, v))
		}
		w, err := a.Read32(r.reg.Addr)
		if err != nil {
			return err
		}
		return a.Write32(r.reg.Addr, r.Encode(w, v))
	})
}
