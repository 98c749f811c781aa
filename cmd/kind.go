// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package cmd

const (
	// Not listed by apropos or complete.
	Hidden Kind = 1 << iota
	// May change hardware state; the dispatcher logs each run.
	Mutating
)

func WhatKind(v Cmd) Kind {
	if m, found := v.(kinder); found {
		return m.Kind()
	}
	return 0
}

type kinder interface {
	Kind() Kind
}

type Kind uint16

func (k Kind) IsHidden() bool   { return (k & Hidden) == Hidden }
func (k Kind) IsMutating() bool { return (k & Mutating) == Mutating }

func (k Kind) String() string {
	s := "unknown"
	switch k {
	case 0:
		s = "query"
	case Hidden:
		s = "hidden"
	case Mutating:
		s = "mutating"
	case Hidden | Mutating:
		s = "hidden, mutating"
	}
	return s
}
