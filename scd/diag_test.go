// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package scd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinasystems/scd/desc"
	"github.com/platinasystems/scd/diag"
	"github.com/platinasystems/scd/internal/hwerr"
)

func result(c *diag.Collector, name string) (diag.Result, bool) {
	for _, r := range c.Results {
		if r.Name == testAddr+"/"+name {
			return r, true
		}
	}
	return diag.Result{}, false
}

func TestDiag(t *testing.T) {
	d, sim, _ := newSim(t, false)
	_, err := d.AddGpio(desc.GpioDesc{Name: "psu1_present", Addr: 0x5000})
	require.NoError(t, err)
	_, err = d.CreateWatchdog(WatchdogReg, nil, 0)
	require.NoError(t, err)

	c := &diag.Collector{}
	require.NoError(t, d.Diag(c, false))
	assert.Empty(t, c.Failed())
	r, found := result(c, "version")
	require.True(t, found)
	assert.Equal(t, "0x420001", r.Data)
	_, found = result(c, "watchdog0")
	assert.True(t, found)

	c = &diag.Collector{}
	require.NoError(t, d.Diag(c, true))
	assert.Len(t, c.Results, 3)

	sim.Err = errors.New("bus error")
	c = &diag.Collector{}
	require.NoError(t, d.Diag(c, false))
	assert.Len(t, c.Failed(), 2)

	c = &diag.Collector{Strict: true}
	err = d.Diag(c, false)
	assert.True(t, errors.Is(err, hwerr.ErrIo))
}
