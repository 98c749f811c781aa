// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package scd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinasystems/scd/internal/hwerr"
	"github.com/platinasystems/scd/inventory"
)

func TestReloadCauses(t *testing.T) {
	d, sim, _ := newSim(t, false)
	rc, err := d.AddReloadCauseProvider(map[uint32]string{0x0b: "powerloss"})
	require.NoError(t, err)
	require.Len(t, d.Inventory().ReloadCauseProviders(), 1)

	sim.Poke(LatchedCauseReg, 0x0b)
	sim.Poke(LatchedCauseRtc0Reg, 0x8000)
	sim.Poke(LatchedCauseRtc1Reg, 100)
	sim.Poke(LastCauseReg, 0x22)

	causes, err := rc.ReloadCauses()
	require.NoError(t, err)
	assert.Equal(t, []inventory.ReloadCause{
		{Code: 0x0b, Name: "powerloss", Time: 100.5, Cause: "latched"},
		{Code: 0x22, Name: "unknown(0x22)", Time: 0, Cause: "last"},
	}, causes)

	require.NoError(t, rc.SetRtc(1600000000, 0x4000))
	rtc, err := rc.Rtc()
	require.NoError(t, err)
	assert.Equal(t, 1600000000.25, rtc)

	require.NoError(t, rc.Clear())
	require.NoError(t, rc.FaultTest(0x12))
	assert.Equal(t, uint32(0x12<<16|1), sim.Peek(CauseCtrlReg))

	err = d.Registers().Set("latched_cause", "latchedCause", 0)
	assert.True(t, errors.Is(err, hwerr.ErrPermission))
}
