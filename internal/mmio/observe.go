// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package mmio

type Op string

const (
	Read  Op = "read"
	Write Op = "write"
)

// Observer is told the outcome of every access through an observed region.
type Observer interface {
	Observe(op Op, off uint32, err error)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(op Op, off uint32, err error)

func (f ObserverFunc) Observe(op Op, off uint32, err error) { f(op, off, err) }

// Observe wraps r so that o sees every access.
func Observe(r Region, o Observer) Region {
	if o == nil {
		return r
	}
	return &observed{observedAccessor{r, o}, r}
}

type observedAccessor struct {
	a Accessor
	o Observer
}

func (p observedAccessor) Read32(off uint32) (uint32, error) {
	v, err := p.a.Read32(off)
	p.o.Observe(Read, off, err)
	return v, err
}

func (p observedAccessor) Write32(off, v uint32) error {
	err := p.a.Write32(off, v)
	p.o.Observe(Write, off, err)
	return err
}

func (p observedAccessor) Do(f func(Accessor) error) error {
	return Do(p.a, func(a Accessor) error {
		return f(observedAccessor{a, p.o})
	})
}

type observed struct {
	observedAccessor
	r Region
}

func (p *observed) Size() uint32 { return p.r.Size() }
