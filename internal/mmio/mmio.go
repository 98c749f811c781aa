// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package mmio provides bounded 32-bit access to a memory mapped PCI BAR or
// to a simulated equivalent.
package mmio

import (
	"github.com/platinasystems/scd/internal/hwerr"
)

const Width = 4

// Accessor performs 32-bit loads and stores at byte offsets that must be
// Width aligned.
type Accessor interface {
	Read32(off uint32) (uint32, error)
	Write32(off, v uint32) error
}

// Region is a bounded Accessor.
type Region interface {
	Accessor
	Size() uint32
}

// Doer is implemented by accessors that acquire a resource per access. Do
// holds one acquisition for the duration of f and releases it on return.
type Doer interface {
	Do(f func(Accessor) error) error
}

// Do runs f with one scoped acquisition of a when a supports it.
func Do(a Accessor, f func(Accessor) error) error {
	if d, ok := a.(Doer); ok {
		return d.Do(f)
	}
	return f(a)
}

// Check returns an i/o error if a Width access at off doesn't fit size.
func Check(off, size uint32) error {
	if off%Width != 0 {
		return hwerr.Io(nil, "offset 0x%x: misaligned", off)
	}
	if uint64(off)+Width > uint64(size) {
		return hwerr.Io(nil, "offset 0x%x: out of bounds [0, 0x%x)",
			off, size)
	}
	return nil
}
