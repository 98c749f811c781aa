// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package xcvr

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinasystems/scd/desc"
	"github.com/platinasystems/scd/internal/hwerr"
	"github.com/platinasystems/scd/internal/mmio"
	"github.com/platinasystems/scd/scd"
)

func newCommand(t *testing.T) (*Command, *mmio.Sim, *bytes.Buffer) {
	t.Helper()
	sim := mmio.NewSim(scd.SimSize)
	d := scd.New(scd.Config{Addr: "0000:04:00.0", Simulation: true, Region: sim})
	_, err := d.AddXcvrSlots(desc.Ports(desc.Qsfp, 1, 2, 1), scd.XcvrPlacement{
		Addr: scd.Uint32(0xa010),
		Bus:  scd.Int(8),
	})
	require.NoError(t, err)
	_, err = d.AddXcvrSlots(desc.Ports(desc.Rj45, 3, 1, 1), scd.XcvrPlacement{
		LedAddr: scd.Uint32(0x6100),
	})
	require.NoError(t, err)
	require.NoError(t, d.Setup())
	buf := new(bytes.Buffer)
	return &Command{
		Open: func() (*scd.Device, error) { return d, nil },
		W:    buf,
	}, sim, buf
}

func TestList(t *testing.T) {
	c, sim, buf := newCommand(t)
	// presence is active low
	sim.Poke(0xa010, 0)
	sim.Poke(0xa020, 1<<2)
	require.NoError(t, c.Main())
	assert.Equal(t, ""+
		"qsfp1  qsfp true\n"+
		"qsfp2  qsfp false\n"+
		"rj45_3 rj45 -\n", buf.String())
}

func TestIdentify(t *testing.T) {
	c, sim, buf := newCommand(t)
	sim.Poke(0xa010, 0)
	require.NoError(t, c.Main("-id", "qsfp1"))
	assert.Equal(t, "qsfp1 qsfp true -\n", buf.String())

	err := c.Main("qsfp9")
	assert.True(t, errors.Is(err, hwerr.ErrConfig))
}

func TestPresenceError(t *testing.T) {
	c, sim, buf := newCommand(t)
	sim.Err = errors.New("bus error")
	require.NoError(t, c.Main("qsfp2"))
	assert.Equal(t, "qsfp2 qsfp error\n", buf.String())
}
