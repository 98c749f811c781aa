// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package watchdog

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinasystems/scd/cmd"
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
	require.NoError(t, d.Setup())
	buf := new(bytes.Buffer)
	return &Command{
		Open: func() (*scd.Device, error) { return d, nil },
		W:    buf,
	}, sim, buf
}

func TestStatus(t *testing.T) {
	c, sim, buf := newCommand(t)
	sim.Poke(scd.WatchdogReg, 1<<31|1<<30|0x1f4)
	require.NoError(t, c.Main())
	assert.Equal(t, "enabled: true\ntimeout: 500\nremainingTime: 500\n",
		buf.String())
	assert.True(t, cmd.WhatKind(c).IsMutating())
}

func TestArmStop(t *testing.T) {
	c, sim, _ := newCommand(t)
	require.NoError(t, c.Main("-arm", "10"))
	assert.Equal(t, uint32(1<<31|2<<29|1000), sim.Peek(scd.WatchdogReg))

	require.NoError(t, c.Main("-stop"))
	assert.Zero(t, sim.Peek(scd.WatchdogReg))

	require.NoError(t, c.Main("-arm"))
	assert.Equal(t, uint32(1<<31|2<<29|30000), sim.Peek(scd.WatchdogReg))
}

func TestArmLimit(t *testing.T) {
	c, sim, _ := newCommand(t)
	err := c.Main("-arm", "656")
	assert.True(t, errors.Is(err, hwerr.ErrConfig))
	assert.Zero(t, sim.Peek(scd.WatchdogReg))

	assert.Error(t, c.Main("-arm", "x"))
	assert.Error(t, c.Main("-stop", "-arm"))
	assert.Error(t, c.Main("10"))
}

func TestNoWatchdog(t *testing.T) {
	d := scd.New(scd.Config{Addr: "0000:04:00.0", Simulation: true})
	c := &Command{Open: func() (*scd.Device, error) { return d, nil }}
	assert.True(t, errors.Is(c.Main(), hwerr.ErrConfig))
}
