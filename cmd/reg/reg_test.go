// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package reg

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinasystems/scd/internal/hwerr"
	"github.com/platinasystems/scd/internal/mmio"
	"github.com/platinasystems/scd/scd"
)

func newCommand(t *testing.T) (*Command, *mmio.Sim, *bytes.Buffer) {
	t.Helper()
	sim := mmio.NewSim(scd.SimSize)
	d := scd.New(scd.Config{Addr: "0000:04:00.0", Simulation: true, Region: sim})
	_, err := d.CreateWatchdog(scd.WatchdogReg, nil, 0)
	require.NoError(t, err)
	_, err = d.AddReloadCauseProvider(nil)
	require.NoError(t, err)
	require.NoError(t, d.Setup())
	buf := new(bytes.Buffer)
	return &Command{
		Open: func() (*scd.Device, error) { return d, nil },
		W:    buf,
	}, sim, buf
}

func TestList(t *testing.T) {
	c, _, buf := newCommand(t)
	require.NoError(t, c.Main())
	assert.Contains(t, buf.String(), "0x0120 watchdog0\n")
}

func TestRaw(t *testing.T) {
	c, sim, buf := newCommand(t)
	require.NoError(t, c.Main("0x6000", "0xabcd"))
	assert.Equal(t, uint32(0xabcd), sim.Peek(0x6000))
	require.NoError(t, c.Main("0x6000"))
	assert.Equal(t, "0x0000abcd\n", buf.String())

	assert.Error(t, c.Main("0x6002"))
	assert.Error(t, c.Main("0x6000", "zz"))
	assert.Error(t, c.Main("0x6000", "-f", "timeout"))
}

func TestField(t *testing.T) {
	c, sim, buf := newCommand(t)
	require.NoError(t, c.Main("watchdog0", "-f", "timeout", "0x1f4"))
	assert.Equal(t, uint32(0x1f4), sim.Peek(scd.WatchdogReg))
	require.NoError(t, c.Main("watchdog0", "-f", "timeout"))
	assert.Equal(t, "0x1f4\n", buf.String())

	buf.Reset()
	require.NoError(t, c.Main("watchdog0"))
	assert.Equal(t, "0x1f4\n", buf.String())

	err := c.Main("latched_cause", "-f", "latchedCause", "1")
	assert.True(t, errors.Is(err, hwerr.ErrPermission))
	assert.True(t, errors.Is(c.Main("nosuch"), hwerr.ErrConfig))
	assert.True(t, errors.Is(c.Main("watchdog0", "-f", "nosuch"), hwerr.ErrConfig))
}
