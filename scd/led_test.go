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
	"github.com/platinasystems/scd/internal/hwerr"
	"github.com/platinasystems/scd/inventory"
)

func TestMultiLed(t *testing.T) {
	d, sim, _ := newSim(t, false)
	l, err := d.AddLed(desc.LedDesc{Name: "status", Addr: 0x6050})
	require.NoError(t, err)

	color := func() inventory.Color {
		c, err := l.Color()
		require.NoError(t, err)
		return c
	}

	require.NoError(t, l.SetColor(inventory.Amber))
	assert.Equal(t, uint32(3), sim.Peek(0x6050))
	assert.Equal(t, inventory.Amber, color())

	require.NoError(t, l.SetColor(inventory.Blue))
	assert.Zero(t, sim.Peek(0x6050))
	assert.Equal(t, inventory.Off, color())

	for i := 0; i < 2; i++ {
		require.NoError(t, l.SetColor(inventory.Green))
		assert.Equal(t, uint32(1), sim.Peek(0x6050))
		assert.Equal(t, inventory.Green, color())
	}

	sim.Poke(0x6050, 2)
	assert.Equal(t, inventory.Red, color())

	_, err = d.AddLed(desc.LedDesc{Name: "status", Addr: 0x6060})
	assert.True(t, errors.Is(err, hwerr.ErrConfig))
	assert.Equal(t, []string{"led 0x6050 status"}, d.DriverConfig())
	assert.Len(t, d.Registers().Registers(), 1)
}

func TestColorLaw(t *testing.T) {
	for _, x := range []struct {
		on   []inventory.Color
		want inventory.Color
	}{
		{nil, inventory.Off},
		{[]inventory.Color{inventory.Blue}, inventory.Blue},
		{[]inventory.Color{inventory.Red, inventory.Green}, inventory.Amber},
		{[]inventory.Color{inventory.Red, inventory.Blue}, inventory.Off},
	} {
		assert.Equal(t, x.want, colorFrom(x.on), "%v", x.on)
	}
	assert.Empty(t, colorTo(inventory.Off))
	assert.Empty(t, colorTo("purple"))
}

func TestGpioLed(t *testing.T) {
	d, sim, _ := newSim(t, false)
	g, err := d.AddGpio(desc.GpioDesc{Name: "fault", Addr: 0x5000, Bit: 2})
	require.NoError(t, err)
	l := NewGpioLed("fault_led", g)

	require.NoError(t, l.SetColor(inventory.Red))
	assert.Equal(t, uint32(4), sim.Peek(0x5000))
	c, err := l.Color()
	require.NoError(t, err)
	assert.Equal(t, inventory.Red, c)

	require.NoError(t, l.SetColor(inventory.Green))
	c, err = l.Color()
	require.NoError(t, err)
	assert.Equal(t, inventory.Off, c)
}
