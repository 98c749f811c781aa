// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package watchdog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/platinasystems/flags"
	"gopkg.in/yaml.v3"

	"github.com/platinasystems/scd/cmd"
	"github.com/platinasystems/scd/internal/hwerr"
	"github.com/platinasystems/scd/lang"
	"github.com/platinasystems/scd/scd"
)

const (
	Name    = "watchdog"
	Apropos = "show, arm or stop the SCD watchdog"
	Usage   = "watchdog [-status | -stop | -arm [SECONDS]]"
	Man     = `
DESCRIPTION
	Without options, or with -status, print whether the watchdog is
	enabled and its timeout in 10ms ticks.

	-arm [SECONDS]
		start the countdown, 300 seconds by default; the SCD power
		cycles the system unless it is re-armed or stopped in time

	-stop	disable the watchdog`

	DefaultSeconds = 300
)

var (
	apropos = lang.Alt{
		lang.EnUS: Apropos,
	}
	man = lang.Alt{
		lang.EnUS: Man,
	}
)

type Command struct {
	Open func() (*scd.Device, error)
	W    io.Writer
}

func (*Command) String() string    { return Name }
func (*Command) Usage() string     { return Usage }
func (*Command) Apropos() lang.Alt { return apropos }
func (*Command) Man() lang.Alt     { return man }
func (*Command) Kind() cmd.Kind    { return cmd.Mutating }

func (c *Command) Main(args ...string) error {
	flag, args := flags.New(args, "-status", "-stop", "-arm")
	seconds := DefaultSeconds
	switch len(args) {
	case 0:
	case 1:
		if !flag.ByName["-arm"] {
			return fmt.Errorf("%v: unexpected", args)
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return fmt.Errorf("%s: invalid SECONDS", args[0])
		}
		seconds = n
	default:
		return fmt.Errorf("%v: unexpected", args[1:])
	}
	if flag.ByName["-stop"] && flag.ByName["-arm"] {
		return errors.New("-stop and -arm are exclusive")
	}
	d, err := c.Open()
	if err != nil {
		return err
	}
	wds := d.Inventory().Watchdogs()
	if len(wds) == 0 {
		return hwerr.Config("%s: no watchdog", d)
	}
	wd := wds[0]
	switch {
	case flag.ByName["-arm"]:
		if uint64(seconds)*100 > uint64(wd.MaxTimeout()) {
			return hwerr.Config("%d seconds: over the %d second limit",
				seconds, wd.MaxTimeout()/100)
		}
		if !wd.Arm(uint32(seconds) * 100) {
			return hwerr.Io(nil, "%s: arm failed", d)
		}
	case flag.ByName["-stop"]:
		if !wd.Stop() {
			return hwerr.Io(nil, "%s: stop failed", d)
		}
	default:
		status := wd.Status()
		if status == nil {
			return hwerr.Io(nil, "%s: watchdog status unavailable", d)
		}
		b, err := yaml.Marshal(status)
		if err != nil {
			return err
		}
		_, err = c.out().Write(b)
		return err
	}
	return nil
}

func (c *Command) out() io.Writer {
	if c.W == nil {
		return os.Stdout
	}
	return c.W
}
