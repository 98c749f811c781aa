// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package xcvr

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/platinasystems/flags"
	"github.com/platinasystems/i2c"

	"github.com/platinasystems/scd/internal/hwerr"
	"github.com/platinasystems/scd/lang"
	"github.com/platinasystems/scd/scd"
)

// SFF-8024 identifier byte.
const idReg = 0

var identifiers = map[byte]string{
	0x03: "sfp",
	0x0c: "qsfp",
	0x0d: "qsfp+",
	0x11: "qsfp28",
	0x18: "qsfp-dd",
	0x19: "osfp",
}

type Command struct {
	Open func() (*scd.Device, error)
	W    io.Writer
}

func (*Command) String() string { return "xcvr" }

func (*Command) Usage() string { return "[show ]xcvr [-id] [NAME]..." }

func (*Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "print transceiver slot status",
	}
}

func (*Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	Print the kind and presence of the named, or all, transceiver
	slots. With -id, also read the SFF-8024 identifier of each present
	module from its eeprom.`,
	}
}

func (c *Command) Main(args ...string) error {
	flag, args := flags.New(args, "-id")
	d, err := c.Open()
	if err != nil {
		return err
	}
	slots := d.Xcvrs()
	if len(args) > 0 {
		slots = slots[:0:0]
		for _, name := range args {
			s := lookup(d, name)
			if s == nil {
				return hwerr.Config("%s: no such xcvr", name)
			}
			slots = append(slots, s)
		}
	}
	w := c.W
	if w == nil {
		w = os.Stdout
	}
	tw := tabwriter.NewWriter(w, 0, 8, 1, ' ', 0)
	defer tw.Flush()
	for _, s := range slots {
		present := "-"
		if g := s.Presence(); g != nil {
			if on, err := g.IsActive(); err != nil {
				present = "error"
			} else {
				present = fmt.Sprint(on)
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s", s.Name(), s.Kind, present)
		if flag.ByName["-id"] {
			fmt.Fprintf(tw, "\t%s", identify(s, present == "true"))
		}
		fmt.Fprintln(tw)
	}
	return nil
}

func lookup(d *scd.Device, name string) *scd.Slot {
	for _, s := range d.Xcvrs() {
		if s.Name() == name {
			return s
		}
	}
	return nil
}

func identify(s *scd.Slot, present bool) string {
	a := s.I2cAddr(scd.XcvrEepromAddr)
	if a == nil || !present {
		return "-"
	}
	var data i2c.SMBusData
	read := false
	err := a.Do(func(bus *i2c.Bus) error {
		read = true
		return bus.Read(idReg, i2c.ByteData, &data)
	})
	switch {
	case err != nil:
		return "error"
	case !read:
		return "-"
	}
	if id, found := identifiers[data[0]]; found {
		return id
	}
	return fmt.Sprintf("0x%02x", data[0])
}
