// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package reg

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/platinasystems/parms"

	"github.com/platinasystems/scd/cmd"
	"github.com/platinasystems/scd/lang"
	"github.com/platinasystems/scd/register"
	"github.com/platinasystems/scd/scd"
)

type Command struct {
	Open func() (*scd.Device, error)
	W    io.Writer
}

func (*Command) String() string { return "reg" }

func (*Command) Usage() string {
	return "reg [ADDRESS | NAME [-f FIELD]] [VALUE]"
}

func (*Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "read/write SCD registers",
	}
}

func (*Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	Without arguments, list the declared registers.

	With an ADDRESS, read or write that 32-bit word of the BAR.
	With a register NAME, read or write the whole register, or with
	-f just its FIELD. Read only fields refuse writes.

	ADDRESS and VALUE are decimal, or hex with a 0x prefix.`,
	}
}

func (*Command) Kind() cmd.Kind { return cmd.Mutating }

func (c *Command) Main(args ...string) error {
	parm, args := parms.New(args, "-f")
	if len(args) > 2 {
		return fmt.Errorf("%v: unexpected", args[2:])
	}
	d, err := c.Open()
	if err != nil {
		return err
	}
	w := c.W
	if w == nil {
		w = os.Stdout
	}
	if len(args) == 0 {
		for _, r := range d.Registers().Registers() {
			fmt.Fprintf(w, "0x%04x %s\n", r.Addr, r.Name)
		}
		return nil
	}
	var f *register.FieldRef
	if addr, err := strconv.ParseUint(args[0], 0, 32); err == nil {
		if len(parm.ByName["-f"]) > 0 {
			return fmt.Errorf("-f: needs a register NAME")
		}
		if addr%4 != 0 {
			return fmt.Errorf("%s: unaligned", args[0])
		}
		if len(args) == 1 {
			v, err := d.Read32(uint32(addr))
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "0x%08x\n", v)
			return nil
		}
		v, err := parseValue(args[1])
		if err != nil {
			return err
		}
		return d.Write32(uint32(addr), v)
	}
	reg, err := d.Registers().Register(args[0])
	if err != nil {
		return err
	}
	if field := parm.ByName["-f"]; len(field) > 0 {
		if f, err = reg.Field(field); err != nil {
			return err
		}
	}
	if len(args) == 1 {
		var v uint32
		if f != nil {
			v, err = f.Get()
		} else {
			v, err = reg.Get()
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "0x%x\n", v)
		return nil
	}
	v, err := parseValue(args[1])
	if err != nil {
		return err
	}
	if f != nil {
		return f.Set(v)
	}
	return reg.Set(v)
}

func parseValue(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid VALUE", s)
	}
	return uint32(v), nil
}
