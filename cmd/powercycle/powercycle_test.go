// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package powercycle

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinasystems/scd/internal/hwerr"
	"github.com/platinasystems/scd/internal/mmio"
	"github.com/platinasystems/scd/scd"
)

func TestPowerCycle(t *testing.T) {
	sim := mmio.NewSim(scd.SimSize)
	d := scd.New(scd.Config{Addr: "0000:04:00.0", Simulation: true, Region: sim})
	_, err := d.CreatePowerCycle(scd.PowerCycleReg, scd.PowerCycleValue)
	require.NoError(t, err)
	require.NoError(t, d.Setup())
	c := &Command{Open: func() (*scd.Device, error) { return d, nil }}

	assert.Error(t, c.Main())
	assert.Zero(t, sim.Peek(scd.PowerCycleReg))
	require.NoError(t, c.Main("-f"))
	assert.Equal(t, uint32(scd.PowerCycleValue), sim.Peek(scd.PowerCycleReg))

	sim.Err = errors.New("bus error")
	assert.True(t, errors.Is(c.Main("-f"), hwerr.ErrIo))
}
