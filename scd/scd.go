// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package scd models the System Control Device, a PCI FPGA that exposes
// resets, gpios, LEDs, interrupt controllers, bus masters and transceiver
// slot wiring through one memory mapped BAR.
//
// Platform wiring declares the static topology with the Add and Create
// methods, then calls Setup. Register access is not serialized; the device
// assumes a single control plane owner.
package scd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/platinasystems/log"

	"github.com/platinasystems/scd/internal/hwerr"
	"github.com/platinasystems/scd/internal/kmod"
	"github.com/platinasystems/scd/internal/mmio"
	"github.com/platinasystems/scd/internal/waitfile"
	"github.com/platinasystems/scd/inventory"
	"github.com/platinasystems/scd/register"
)

const (
	VersionReg = 0x100
	SimVersion = 0x420001
	SimSize    = 0x80000
	Module     = "scd"
)

type Config struct {
	// PCI address, e.g. 0000:04:00.0
	Addr       string
	Simulation bool
	// Defaults to /sys
	SysfsRoot   string
	ProcModules string
	Modprobe    string
	// Allocate interrupt bits and export interrupt registers.
	InitIrq     bool
	WaitTimeout time.Duration
	// Region replaces the BAR, or the in-memory region in simulation.
	Region   mmio.Region
	Observer mmio.Observer
}

type State int

const (
	Constructed State = iota
	ResourcesAllocated
	SetupComplete
	Operational
)

var stateNames = []string{
	Constructed:        "constructed",
	ResourcesAllocated: "resources allocated",
	SetupComplete:      "setup complete",
	Operational:        "operational",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

type Device struct {
	cfg    Config
	state  State
	region mmio.Region
	regs   *register.Map
	inv    *inventory.Inventory
	module kmod.Module

	i2cOffset int
	uioMap    map[string]string

	interrupts  []*InterruptRegister
	resets      []*Reset
	gpios       []*Gpio
	leds        []*ledEntry
	powerCycles []*PowerCycle
	watchdogs   []*Watchdog
	xcvrs       []*Slot

	smbus MasterTable
	mdio  MasterTable
	uart  MasterTable
	mdios []*Mdio

	tweaks    map[tweakKey]*BusTweak
	tweakKeys []tweakKey
	fanGroups []FanGroup
	msiRearm  *uint32
}

func New(cfg Config) *Device {
	if len(cfg.SysfsRoot) == 0 {
		cfg.SysfsRoot = "/sys"
	}
	if cfg.WaitTimeout == 0 {
		cfg.WaitTimeout = waitfile.DefaultTimeout
	}
	d := &Device{
		cfg: cfg,
		inv: inventory.New(),
		module: kmod.Module{
			Name:       Module,
			Proc:       cfg.ProcModules,
			Simulation: cfg.Simulation,
			Modprobe:   cfg.Modprobe,
		},
		smbus:  MasterTable{Kind: "smbus"},
		mdio:   MasterTable{Kind: "mdio"},
		uart:   MasterTable{Kind: "uart"},
		tweaks: make(map[tweakKey]*BusTweak),
	}
	region := cfg.Region
	if region == nil {
		if cfg.Simulation {
			region = mmio.NewSim(SimSize)
		} else {
			region = mmio.NewResource(d.ResourcePath(), 0)
		}
	}
	d.region = mmio.Observe(region, cfg.Observer)
	d.regs = register.New(d)
	d.inv.AddProgrammable(programmable{d})
	return d
}

func (d *Device) String() string { return fmt.Sprintf("scd(%s)", d.cfg.Addr) }

func (d *Device) Config() Config                  { return d.cfg }
func (d *Device) State() State                    { return d.state }
func (d *Device) Inventory() *inventory.Inventory { return d.inv }
func (d *Device) Registers() *register.Map        { return d.regs }
func (d *Device) Simulation() bool                { return d.cfg.Simulation }

// SysfsPath is the PCI device directory.
func (d *Device) SysfsPath() string {
	return filepath.Join(d.cfg.SysfsRoot, "bus", "pci", "devices", d.cfg.Addr)
}

func (d *Device) ResourcePath() string {
	return filepath.Join(d.SysfsPath(), "resource0")
}

// build admits a topology declaration.
func (d *Device) build(what string) error {
	if d.state >= SetupComplete {
		return hwerr.Config("%s: %s after setup", d, what)
	}
	d.state = ResourcesAllocated
	return nil
}

// atomically runs a declaration that touches several tables; if it fails
// everything it declared is dropped again.
func (d *Device) atomically(f func() error) error {
	var (
		state  = d.state
		regs   = d.regs.Mark()
		inv    = d.inv.Mark()
		resets = len(d.resets)
		gpios  = len(d.gpios)
		leds   = len(d.leds)
		xcvrs  = len(d.xcvrs)
		tweaks = len(d.tweakKeys)
		intrs  = len(d.interrupts)
		bits   = make([]int, intrs)
	)
	for i, r := range d.interrupts {
		bits[i] = len(r.bits)
	}
	err := f()
	if err == nil {
		return nil
	}
	d.state = state
	d.regs.Rollback(regs)
	d.inv.Rollback(inv)
	d.resets = d.resets[:resets]
	d.gpios = d.gpios[:gpios]
	d.leds = d.leds[:leds]
	d.xcvrs = d.xcvrs[:xcvrs]
	for _, k := range d.tweakKeys[tweaks:] {
		delete(d.tweaks, k)
	}
	d.tweakKeys = d.tweakKeys[:tweaks]
	d.interrupts = d.interrupts[:intrs]
	for i, r := range d.interrupts {
		r.bits = r.bits[:bits[i]]
	}
	return err
}

func (d *Device) ready() error {
	if d.cfg.Simulation || d.state >= SetupComplete {
		return nil
	}
	return hwerr.NotReady("%s: %s", d, d.state)
}

func (d *Device) Read32(off uint32) (uint32, error) {
	if err := d.ready(); err != nil {
		return 0, err
	}
	return d.region.Read32(off)
}

func (d *Device) Write32(off, v uint32) error {
	if err := d.ready(); err != nil {
		return err
	}
	return d.region.Write32(off, v)
}

// Do holds one mapping of the BAR for the duration of f.
func (d *Device) Do(f func(mmio.Accessor) error) error {
	if err := d.ready(); err != nil {
		return err
	}
	return mmio.Do(d.region, f)
}

func (d *Device) Size() uint32 { return d.region.Size() }

// Version returns the firmware revision word.
func (d *Device) Version() (uint32, error) {
	if d.cfg.Simulation {
		return SimVersion, nil
	}
	return d.Read32(VersionReg)
}

// Setup loads the kernel driver, waits for the BAR, then exports the
// topology to the driver. Declarations are refused from here on. A failed
// Setup leaves the device in its previous state so it may be retried.
func (d *Device) Setup() error {
	if d.state >= SetupComplete {
		return nil
	}
	if err := d.module.Load(); err != nil {
		return err
	}
	if !d.cfg.Simulation && d.cfg.Region == nil {
		if err := waitfile.Wait(d.ResourcePath(), d.cfg.WaitTimeout); err != nil {
			return err
		}
	}
	prev := d.state
	d.state = SetupComplete
	if err := d.finishSetup(); err != nil {
		d.state = prev
		log.Print("err", d, ": setup: ", err)
		return err
	}
	d.state = Operational
	log.Print("info", d, ": ", d.state)
	return nil
}

func (d *Device) finishSetup() error {
	if err := d.discoverI2cOffset(); err != nil {
		return err
	}
	for _, intr := range d.interrupts {
		if err := intr.setup(); err != nil {
			return err
		}
	}
	return d.exportDriverConfig()
}

type programmable struct{ d *Device }

func (p programmable) Name() string { return Module }

func (p programmable) Version() (uint32, error) { return p.d.Version() }
