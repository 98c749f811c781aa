// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package scd

import (
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinasystems/scd/desc"
	"github.com/platinasystems/scd/internal/hwerr"
	"github.com/platinasystems/scd/internal/mmio"
)

const testAddr = "0000:04:00.0"

type accesses struct {
	reads, writes int
}

func (a *accesses) Observe(op mmio.Op, off uint32, err error) {
	if op == mmio.Read {
		a.reads++
	} else {
		a.writes++
	}
}

func newSim(t *testing.T, initIrq bool) (*Device, *mmio.Sim, *accesses) {
	t.Helper()
	sim := mmio.NewSim(SimSize)
	acc := &accesses{}
	d := New(Config{
		Addr:       testAddr,
		Simulation: true,
		InitIrq:    initIrq,
		Region:     sim,
		Observer:   acc,
	})
	return d, sim, acc
}

func TestSimVersion(t *testing.T) {
	d, _, acc := newSim(t, false)
	v, err := d.Version()
	require.NoError(t, err)
	assert.Equal(t, uint32(SimVersion), v)
	assert.Zero(t, acc.reads)

	progs := d.Inventory().Programmables()
	require.Len(t, progs, 1)
	assert.Equal(t, "scd", progs[0].Name())
}

func TestNotReady(t *testing.T) {
	d := New(Config{Addr: testAddr, Region: mmio.NewSim(SimSize)})
	assert.Equal(t, Constructed, d.State())
	_, err := d.Version()
	assert.True(t, errors.Is(err, hwerr.ErrNotReady))

	g, err := d.AddGpio(desc.GpioDesc{Name: "psu1_present", Addr: 0x5000})
	require.NoError(t, err)
	assert.Equal(t, ResourcesAllocated, d.State())
	_, err = g.IsActive()
	assert.True(t, errors.Is(err, hwerr.ErrNotReady))
	assert.True(t, errors.Is(g.SetActive(true), hwerr.ErrNotReady))
}

func TestBuildAfterSetup(t *testing.T) {
	d, _, _ := newSim(t, false)
	require.NoError(t, d.Setup())
	assert.Equal(t, Operational, d.State())
	require.NoError(t, d.Setup())

	_, err := d.AddGpio(desc.GpioDesc{Name: "late", Addr: 0x5000})
	assert.True(t, errors.Is(err, hwerr.ErrConfig))
	_, err = d.AddSmbusMaster(0x8000, 0, 8)
	assert.True(t, errors.Is(err, hwerr.ErrConfig))
	_, err = d.CreateWatchdog(WatchdogReg, nil, 0)
	assert.True(t, errors.Is(err, hwerr.ErrConfig))
	_, found := d.Inventory().Gpio("late")
	assert.False(t, found)
}

func TestSetupRetry(t *testing.T) {
	root, procModules := fakeSysfs(t)
	d := New(Config{
		Addr:        "0000:05:00.0",
		SysfsRoot:   root,
		ProcModules: procModules,
		Region:      mmio.NewSim(SimSize),
	})
	_, err := d.AddGpio(desc.GpioDesc{Name: "psu1_present", Addr: 0x5000})
	require.NoError(t, err)

	assert.Error(t, d.Setup())
	assert.Equal(t, ResourcesAllocated, d.State())
	_, err = d.Version()
	assert.True(t, errors.Is(err, hwerr.ErrNotReady))

	require.NoError(t, os.MkdirAll(d.SysfsPath(), 0755))
	require.NoError(t, d.Setup())
	assert.Equal(t, Operational, d.State())
	b, err := ioutil.ReadFile(filepath.Join(d.SysfsPath(), InitTrigger))
	require.NoError(t, err)
	assert.Equal(t, "1\n", string(b))
	b, err = ioutil.ReadFile(filepath.Join(d.SysfsPath(), NewObject))
	require.NoError(t, err)
	assert.Equal(t, "gpio 0x5000 psu1_present 0 0 0\n", string(b))
}

func TestPowerCycle(t *testing.T) {
	d, sim, _ := newSim(t, false)
	p, err := d.CreatePowerCycle(PowerCycleReg, PowerCycleValue)
	require.NoError(t, err)
	require.Len(t, d.Inventory().PowerCycles(), 1)

	assert.True(t, p.Trigger())
	assert.Equal(t, uint32(0xdead), sim.Peek(PowerCycleReg))

	sim.Poke(PowerCycleReg, 0)
	sim.Err = errors.New("bus error")
	assert.False(t, p.Trigger())
	sim.Err = nil
	assert.Zero(t, sim.Peek(PowerCycleReg))
}

func TestWatchdog(t *testing.T) {
	d, sim, acc := newSim(t, false)
	w, err := d.CreateWatchdog(WatchdogReg, nil, 0)
	require.NoError(t, err)

	require.True(t, w.Arm(MaxWatchdogTimeout))
	assert.Equal(t, uint32(1<<31|2<<29|0xffff), sim.Peek(WatchdogReg))
	st := w.Status()
	require.NotNil(t, st)
	assert.True(t, st.Enabled)
	assert.Equal(t, uint32(0xffff), st.Timeout)
	assert.Equal(t, st.Timeout, st.RemainingTime)

	writes := acc.writes
	assert.False(t, w.Arm(MaxWatchdogTimeout+1))
	assert.Equal(t, writes, acc.writes)
	assert.Equal(t, uint32(1<<31|2<<29|0xffff), sim.Peek(WatchdogReg))

	require.True(t, w.Stop())
	assert.Zero(t, sim.Peek(WatchdogReg))
	st = w.Status()
	require.NotNil(t, st)
	assert.False(t, st.Enabled)
	assert.Zero(t, st.Timeout)

	sim.Poke(WatchdogReg, 1<<31|0x1234)
	st = w.Status()
	require.NotNil(t, st)
	assert.True(t, st.Enabled)
	assert.Equal(t, uint32(0x1234), st.Timeout)

	sim.Err = errors.New("bus error")
	assert.Nil(t, w.Status())
}

func TestResets(t *testing.T) {
	d, sim, _ := newSim(t, false)
	_, err := d.AddResets(
		desc.ResetDesc{Name: "switch_chip_reset", Addr: 0x4000, Bit: 0, Auto: true},
		desc.ResetDesc{Name: "phy_reset", Addr: 0x4000, Bit: 1, ActiveLow: true},
	)
	require.NoError(t, err)
	_, err = d.AddXcvrSlots(desc.Ports(desc.Osfp, 1, 1, 0),
		XcvrPlacement{Addr: Uint32(0xa010)})
	require.NoError(t, err)
	_, err = d.AddXcvrSlots(desc.Ports(desc.Qsfp, 2, 1, 0),
		XcvrPlacement{Addr: Uint32(0xa020)})
	require.NoError(t, err)

	names := func(xcvrs, autoOnly bool) []string {
		var s []string
		for _, r := range d.Resets(xcvrs, autoOnly) {
			s = append(s, r.Name())
		}
		return s
	}
	assert.Equal(t, []string{"switch_chip_reset"}, names(false, true))
	assert.Equal(t, []string{"switch_chip_reset", "phy_reset"},
		names(false, false))
	assert.Equal(t, []string{"switch_chip_reset", "phy_reset",
		"qsfp2_reset", "osfp1_reset"}, names(true, false))

	r, found := d.Inventory().Reset("phy_reset")
	require.True(t, found)
	require.NoError(t, r.Assert())
	assert.Zero(t, sim.Peek(0x4000)&2)
	active, err := r.Read()
	require.NoError(t, err)
	assert.True(t, active)
	require.NoError(t, r.Deassert())
	assert.Equal(t, uint32(2), sim.Peek(0x4000)&2)
}

func TestGpio(t *testing.T) {
	d, sim, _ := newSim(t, false)
	gpios, err := d.AddGpios(
		desc.GpioDesc{Name: "psu1_present", Addr: 0x5000, Bit: 0, RO: true, ActiveLow: true},
		desc.GpioDesc{Name: "mux_sel", Addr: 0x5000, Bit: 4},
	)
	require.NoError(t, err)

	sim.Poke(0x5000, 0)
	active, err := gpios[0].IsActive()
	require.NoError(t, err)
	assert.True(t, active)
	assert.True(t, errors.Is(gpios[0].SetActive(false), hwerr.ErrPermission))

	require.NoError(t, gpios[1].SetActive(true))
	assert.Equal(t, uint32(0x10), sim.Peek(0x5000))

	_, err = d.AddGpio(desc.GpioDesc{Name: "psu1_present", Addr: 0x5004})
	assert.True(t, errors.Is(err, hwerr.ErrConfig))
	_, err = d.AddGpio(desc.GpioDesc{Name: "overlap", Addr: 0x5000, Bit: 4})
	assert.True(t, errors.Is(err, hwerr.ErrConfig))
	assert.Equal(t, []string{"psu1_present", "mux_sel"},
		d.Inventory().Names("gpio"))
}
