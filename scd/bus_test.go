// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package scd

import (
	"errors"
	"testing"

	"github.com/platinasystems/i2c"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinasystems/scd/internal/hwerr"
)

func TestSmbusRange(t *testing.T) {
	d, _, _ := newSim(t, false)
	masters, err := d.AddSmbusMasterRange(0x8000, 8, 0x80, SmbusBuses)
	require.NoError(t, err)
	require.Len(t, masters, 8)
	for i, m := range d.SmbusMasters() {
		assert.Equal(t, i, m.Id)
		assert.Equal(t, uint32(0x8000+i*0x80), m.Addr)
		assert.Equal(t, SmbusBuses, m.Buses)
	}
	_, err = d.AddSmbusMaster(0x8080, 9, 8)
	assert.True(t, errors.Is(err, hwerr.ErrConfig))
	_, err = d.AddSmbusMaster(0x9000, 9, 0)
	assert.True(t, errors.Is(err, hwerr.ErrConfig))
}

func TestMdio(t *testing.T) {
	d, _, _ := newSim(t, false)
	_, err := d.AddMdioMasterRange(0x9000, 2, MdioSpacing, 2, MdioSpeed10)
	require.NoError(t, err)

	_, err = d.AddMdio(0, 2, 0, 1, MdioC45)
	assert.True(t, errors.Is(err, hwerr.ErrConfig))
	_, err = d.AddMdio(5, 0, 0, 1, MdioC45)
	assert.True(t, errors.Is(err, hwerr.ErrConfig))

	a, err := d.AddMdio(0, 0, 0, 1, MdioC45)
	require.NoError(t, err)
	b, err := d.AddMdio(0, 0, 1, 1, MdioC22)
	require.NoError(t, err)
	c, err := d.AddMdio(1, 1, 0, 1, MdioC45)
	require.NoError(t, err)
	assert.Equal(t, 0, a.Id)
	assert.Equal(t, 1, b.Id)
	assert.Equal(t, 0, c.Id)
	assert.Equal(t, "mdio0_0_1", b.Name)
	assert.Equal(t, "mdio1_1_0", c.Name)
	assert.Len(t, d.Mdios(), 3)
	assert.Equal(t, MdioSpeed10, d.MdioMasters()[1].Speed)
}

func TestMasterLookup(t *testing.T) {
	var tbl MasterTable
	tbl.Kind = "uart"
	_, err := tbl.Add(0x100, 3, 1)
	require.NoError(t, err)
	_, err = tbl.Add(0x110, 3, 1)
	require.NoError(t, err)
	_, err = tbl.Lookup(3)
	assert.True(t, errors.Is(err, hwerr.ErrConfig))
	_, err = tbl.Lookup(4)
	assert.True(t, errors.Is(err, hwerr.ErrConfig))
}

func TestUart(t *testing.T) {
	d, _, _ := newSim(t, false)
	ports, err := d.AddUartPortRange(0x6800, 4, UartSpacing)
	require.NoError(t, err)
	require.Len(t, ports, 4)
	assert.Equal(t, uint32(0x6830), ports[3].Addr)
	assert.Equal(t, 3, ports[3].Id)
	assert.Len(t, d.UartPorts(), 4)
}

func TestTweaks(t *testing.T) {
	d, _, _ := newSim(t, false)
	eeprom, err := d.Smbus(3).I2cAddr(0x50)
	require.NoError(t, err)
	assert.Equal(t, "3-0050", eeprom.String())
	_, err = d.I2cAddr(5, 0x50, XcvrTweak)
	require.NoError(t, err)
	_, err = d.I2cAddr(3, 0x50, XcvrTweak)
	require.NoError(t, err)
	assert.Equal(t, []BusTweak{
		{Bus: 3, Addr: 0x50, Tweak: XcvrTweak},
		{Bus: 5, Addr: 0x50, Tweak: XcvrTweak},
	}, d.Tweaks())

	called := false
	require.NoError(t, eeprom.Do(func(*i2c.Bus) error {
		called = true
		return nil
	}))
	assert.False(t, called)

	require.NoError(t, d.Setup())
	_, err = d.I2cAddr(6, 0x50, XcvrTweak)
	assert.True(t, errors.Is(err, hwerr.ErrConfig))
	assert.Len(t, d.Tweaks(), 2)
}
