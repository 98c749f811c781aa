// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package topology declares an SCD's static wiring from a YAML file.
package topology

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/platinasystems/log"
	"gopkg.in/yaml.v3"

	"github.com/platinasystems/scd/desc"
	"github.com/platinasystems/scd/internal/gpiopin"
	"github.com/platinasystems/scd/internal/hwerr"
	"github.com/platinasystems/scd/inventory"
	"github.com/platinasystems/scd/metrics"
	"github.com/platinasystems/scd/scd"
)

const DefaultPath = "/etc/scd/topology.yaml"

type Topology struct {
	Addr    string `yaml:"addr"`
	InitIrq bool   `yaml:"initIrq"`

	Interrupts   []Interrupt       `yaml:"interrupts"`
	Watchdog     *Watchdog         `yaml:"watchdog"`
	PowerCycle   *PowerCycle       `yaml:"powercycle"`
	ReloadCauses map[uint32]string `yaml:"reloadCauses"`

	Smbus       []Masters    `yaml:"smbus"`
	Mdio        []Masters    `yaml:"mdio"`
	MdioDevices []MdioDevice `yaml:"mdioDevices"`
	Uart        []Masters    `yaml:"uart"`
	I2c         []I2cDevice  `yaml:"i2c"`
	FanGroups   []FanGroup   `yaml:"fanGroups"`

	MsiRearmOffset *uint32 `yaml:"msiRearmOffset"`

	Leds     []desc.LedDesc   `yaml:"leds"`
	Resets   []desc.ResetDesc `yaml:"resets"`
	Gpios    []desc.GpioDesc  `yaml:"gpios"`
	Xcvrs    []Xcvrs          `yaml:"xcvrs"`
	CpuGpios []CpuGpio        `yaml:"cpuGpios"`
	GpioLeds []GpioLed        `yaml:"gpioLeds"`
	// Device tree naming the cpu gpio pins, gpiopin.File if empty.
	Dtb string `yaml:"dtb"`
}

type Interrupt struct {
	Addr uint32 `yaml:"addr"`
	Num  int    `yaml:"num"`
	// Defaults to 0xffffffff.
	Mask *uint32 `yaml:"mask"`
}

type Watchdog struct {
	Addr *uint32 `yaml:"addr"`
	// Number of the interrupt register with the watchdog line.
	Interrupt *int `yaml:"interrupt"`
	Bit       uint `yaml:"bit"`
}

type PowerCycle struct {
	Addr  *uint32 `yaml:"addr"`
	Value *uint32 `yaml:"value"`
}

// Masters is one master, or Count of them Spacing apart.
type Masters struct {
	Addr    uint32 `yaml:"addr"`
	Id      int    `yaml:"id"`
	Count   int    `yaml:"count"`
	Spacing uint32 `yaml:"spacing"`
	Buses   int    `yaml:"buses"`
	// MDIO only: 2.5, 5, 10 or 20 MHz.
	Speed string `yaml:"speed"`
}

type MdioDevice struct {
	Master   int  `yaml:"master"`
	Bus      int  `yaml:"bus"`
	PortAddr int  `yaml:"portAddr"`
	DevAddr  int  `yaml:"devAddr"`
	Clause45 bool `yaml:"clause45"`
}

type I2cDevice struct {
	Bus  int        `yaml:"bus"`
	Addr int        `yaml:"addr"`
	Tw   *scd.Tweak `yaml:"tweak"`
}

type FanGroup struct {
	Addr     uint32 `yaml:"addr"`
	Platform int    `yaml:"platform"`
	Slots    int    `yaml:"slots"`
	Count    int    `yaml:"count"`
}

// Xcvrs is a run of Count ports of Kind numbered from First. The
// interrupt register of a port is Interrupts[IntrRegBase + n/IntrPerReg]
// and its bit IntrBitOffset + n%IntrPerReg, where n is the port's offset
// in the run.
type Xcvrs struct {
	Kind  string `yaml:"kind"`
	First int    `yaml:"first"`
	Count int    `yaml:"count"`
	Leds  int    `yaml:"leds"`

	Addr    *uint32 `yaml:"addr"`
	Bus     *int    `yaml:"bus"`
	LedAddr *uint32 `yaml:"ledAddr"`

	AddrOffset    uint32 `yaml:"addrOffset"`
	BusOffset     int    `yaml:"busOffset"`
	LedAddrOffset uint32 `yaml:"ledAddrOffset"`

	Interrupts    []int `yaml:"interrupts"`
	IntrRegBase   int   `yaml:"intrRegBase"`
	IntrPerReg    int   `yaml:"intrPerReg"`
	IntrBitOffset uint  `yaml:"intrBitOffset"`

	NoLpMode       bool   `yaml:"noLpMode"`
	NoModSel       bool   `yaml:"noModSel"`
	EthernetPrefix string `yaml:"ethernetPrefix"`
}

// CpuGpio is a host gpio pin listed in the device inventory.
type CpuGpio struct {
	Name      string `yaml:"name"`
	Pin       string `yaml:"pin"`
	ActiveLow bool   `yaml:"activeLow"`
	RO        bool   `yaml:"ro"`
}

// GpioLed is an LED driven by a single gpio of the inventory. Color is
// what it shows when the gpio is active, red if empty.
type GpioLed struct {
	Name  string          `yaml:"name"`
	Gpio  string          `yaml:"gpio"`
	Color inventory.Color `yaml:"color"`
}

func Parse(b []byte) (*Topology, error) {
	t := new(Topology)
	if err := yaml.Unmarshal(b, t); err != nil {
		return nil, hwerr.Config("topology: %v", err)
	}
	if len(t.Addr) == 0 {
		return nil, hwerr.Config("topology: missing addr")
	}
	return t, nil
}

func Load(fn string) (*Topology, error) {
	b, err := ioutil.ReadFile(fn)
	if err != nil {
		return nil, hwerr.Config("%v", err)
	}
	t, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	return t, nil
}

// Open loads the topology at fn, declares it and sets the device up.
// Register accesses are counted in the scd metrics.
func Open(fn string, simulation bool) (*scd.Device, error) {
	t, err := Load(fn)
	if err != nil {
		return nil, err
	}
	d := scd.New(scd.Config{
		Addr:       t.Addr,
		Simulation: simulation,
		InitIrq:    t.InitIrq,
		Observer:   metrics.Observer(t.Addr),
	})
	if err = t.Apply(d); err != nil {
		return nil, err
	}
	if err = d.Setup(); err != nil {
		return nil, err
	}
	return d, nil
}

// Apply declares everything in t on d.
func (t *Topology) Apply(d *scd.Device) error {
	intrs := make(map[int]*scd.InterruptRegister)
	for _, x := range t.Interrupts {
		mask := uint32(0xffffffff)
		if x.Mask != nil {
			mask = *x.Mask
		}
		r, err := d.CreateInterrupt(x.Addr, x.Num, mask)
		if err != nil {
			return err
		}
		intrs[x.Num] = r
	}
	for _, x := range t.Smbus {
		if err := addMasters(x, scd.SmbusBuses, scd.SmbusSpacing,
			d.AddSmbusMaster, d.AddSmbusMasterRange); err != nil {
			return err
		}
	}
	for _, x := range t.Mdio {
		speed, err := mdioSpeed(x.Speed)
		if err != nil {
			return err
		}
		err = addMasters(x, 1, scd.MdioSpacing,
			func(addr uint32, id, buses int) (*scd.Master, error) {
				return d.AddMdioMaster(addr, id, buses, speed)
			},
			func(start uint32, count int, spacing uint32, buses int) ([]*scd.Master, error) {
				return d.AddMdioMasterRange(start, count, spacing, buses, speed)
			})
		if err != nil {
			return err
		}
	}
	for _, x := range t.MdioDevices {
		clause := scd.MdioC22
		if x.Clause45 {
			clause = scd.MdioC45
		}
		if _, err := d.AddMdio(x.Master, x.Bus, x.PortAddr, x.DevAddr, clause); err != nil {
			return err
		}
	}
	for _, x := range t.Uart {
		err := addMasters(x, 1, scd.UartSpacing,
			func(addr uint32, id, _ int) (*scd.Master, error) {
				return d.AddUartPort(addr, id)
			},
			func(start uint32, count int, spacing uint32, _ int) ([]*scd.Master, error) {
				return d.AddUartPortRange(start, count, spacing)
			})
		if err != nil {
			return err
		}
	}
	for _, x := range t.I2c {
		tw := scd.DefaultTweak
		if x.Tw != nil {
			tw = *x.Tw
		}
		if _, err := d.I2cAddr(x.Bus, x.Addr, tw); err != nil {
			return err
		}
	}
	for _, x := range t.FanGroups {
		if err := d.AddFanGroup(x.Addr, x.Platform, x.Slots, x.Count); err != nil {
			return err
		}
	}
	if t.MsiRearmOffset != nil {
		if err := d.SetMsiRearmOffset(*t.MsiRearmOffset); err != nil {
			return err
		}
	}
	if _, err := d.AddLeds(t.Leds...); err != nil {
		return err
	}
	if _, err := d.AddResets(t.Resets...); err != nil {
		return err
	}
	if _, err := d.AddGpios(t.Gpios...); err != nil {
		return err
	}
	for _, x := range t.Xcvrs {
		if err := x.apply(d, intrs); err != nil {
			return err
		}
	}
	if w := t.Watchdog; w != nil {
		addr := uint32(scd.WatchdogReg)
		if w.Addr != nil {
			addr = *w.Addr
		}
		var intr *scd.InterruptRegister
		if w.Interrupt != nil {
			var found bool
			if intr, found = intrs[*w.Interrupt]; !found {
				return hwerr.Config("watchdog: no interrupt register %d",
					*w.Interrupt)
			}
		}
		if _, err := d.CreateWatchdog(addr, intr, w.Bit); err != nil {
			return err
		}
	}
	if p := t.PowerCycle; p != nil {
		addr, value := uint32(scd.PowerCycleReg), uint32(scd.PowerCycleValue)
		if p.Addr != nil {
			addr = *p.Addr
		}
		if p.Value != nil {
			value = *p.Value
		}
		if _, err := d.CreatePowerCycle(addr, value); err != nil {
			return err
		}
	}
	if t.ReloadCauses != nil {
		if _, err := d.AddReloadCauseProvider(t.ReloadCauses); err != nil {
			return err
		}
	}
	if len(t.CpuGpios) > 0 && !gpiopin.Loaded() {
		fn := t.Dtb
		if len(fn) == 0 {
			fn = gpiopin.File
		}
		if err := gpiopin.Load(fn); err != nil {
			return err
		}
	}
	for _, x := range t.CpuGpios {
		pin, err := gpiopin.Lookup(x.Name, x.Pin, x.ActiveLow, x.RO)
		if err != nil {
			return err
		}
		if err = d.Inventory().AddGpio(pin); err != nil {
			return err
		}
	}
	for _, x := range t.GpioLeds {
		g, found := d.Inventory().Gpio(x.Gpio)
		if !found {
			return hwerr.Config("led %s: no gpio %q", x.Name, x.Gpio)
		}
		l := scd.NewGpioLed(x.Name, g)
		if len(x.Color) > 0 {
			l.Active = x.Color
		}
		if err := d.Inventory().AddLed(l); err != nil {
			return err
		}
	}
	log.Print("debug", d, ": ", len(d.Xcvrs()), " xcvrs from topology")
	return nil
}

func addMasters(x Masters, buses int, spacing uint32,
	add func(addr uint32, id, buses int) (*scd.Master, error),
	addRange func(start uint32, count int, spacing uint32, buses int) ([]*scd.Master, error),
) error {
	if x.Buses > 0 {
		buses = x.Buses
	}
	if x.Spacing > 0 {
		spacing = x.Spacing
	}
	var err error
	if x.Count > 0 {
		_, err = addRange(x.Addr, x.Count, spacing, buses)
	} else {
		_, err = add(x.Addr, x.Id, buses)
	}
	return err
}

func mdioSpeed(s string) (scd.MdioSpeed, error) {
	switch s {
	case "2.5", "":
		return scd.MdioSpeed2_5, nil
	case "5":
		return scd.MdioSpeed5, nil
	case "10":
		return scd.MdioSpeed10, nil
	case "20":
		return scd.MdioSpeed20, nil
	}
	return 0, hwerr.Config("mdio speed %q: not one of 2.5, 5, 10, 20", s)
}

func (x Xcvrs) apply(d *scd.Device, intrs map[int]*scd.InterruptRegister) error {
	kind, err := desc.ParseKind(x.Kind)
	if err != nil {
		return hwerr.Config("xcvrs: %v", err)
	}
	pl := scd.XcvrPlacement{
		Addr:           x.Addr,
		Bus:            x.Bus,
		LedAddr:        x.LedAddr,
		AddrOffset:     x.AddrOffset,
		BusOffset:      x.BusOffset,
		NoLpMode:       x.NoLpMode,
		NoModSel:       x.NoModSel,
		EthernetPrefix: x.EthernetPrefix,
	}
	if x.LedAddrOffset > 0 {
		off := x.LedAddrOffset
		pl.LedAddrOffsetFn = func(int) uint32 { return off }
	}
	if len(x.Interrupts) > 0 {
		for _, num := range x.Interrupts {
			r, found := intrs[num]
			if !found {
				return hwerr.Config("%s xcvrs: no interrupt register %d",
					kind, num)
			}
			pl.IntrRegs = append(pl.IntrRegs, r)
		}
		perReg := x.IntrPerReg
		if perReg <= 0 {
			perReg = 32
		}
		first, base, bitOffset := x.First, x.IntrRegBase, x.IntrBitOffset
		pl.IntrRegIdx = func(i int) int { return base + (i-first)/perReg }
		pl.IntrBit = func(i int) uint {
			return bitOffset + uint((i-first)%perReg)
		}
	}
	_, err = d.AddXcvrSlots(desc.Ports(kind, x.First, x.Count, x.Leds), pl)
	return err
}

// Path is SCD_TOPOLOGY or DefaultPath.
func Path() string {
	if fn := os.Getenv("SCD_TOPOLOGY"); len(fn) > 0 {
		return fn
	}
	return DefaultPath
}

// Simulation is true if SCD_SIMULATION is 1.
func Simulation() bool { return os.Getenv("SCD_SIMULATION") == "1" }

// Opener returns a function that opens the device of the environment's
// topology on first call and returns the same device after.
func Opener() func() (*scd.Device, error) {
	var (
		d   *scd.Device
		err error
	)
	return func() (*scd.Device, error) {
		if d == nil && err == nil {
			d, err = Open(Path(), Simulation())
		}
		return d, err
	}
}
