// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package scd

import "github.com/platinasystems/scd/register"

// fieldGpio is a register bit used internally, not listed in the inventory.
type fieldGpio struct {
	name  string
	field *register.FieldRef
}

func (g fieldGpio) Name() string            { return g.name }
func (g fieldGpio) ReadOnly() bool          { return g.field.ReadOnly() }
func (g fieldGpio) IsActive() (bool, error) { return g.field.IsActive() }
func (g fieldGpio) SetActive(v bool) error  { return g.field.SetActive(v) }
