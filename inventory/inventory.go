// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package inventory is the by-name registry of the logical resources a
// device exposes. It only references resources; their owner is the device
// that made them.
package inventory

import (
	"github.com/platinasystems/scd/internal/hwerr"
)

type Color string

const (
	Off   Color = "off"
	Green Color = "green"
	Red   Color = "red"
	Amber Color = "amber"
	Blue  Color = "blue"
)

type Reset interface {
	Name() string
	Assert() error
	Deassert() error
	Read() (bool, error)
	Auto() bool
}

type Gpio interface {
	Name() string
	IsActive() (bool, error)
	SetActive(active bool) error
	ReadOnly() bool
}

type Led interface {
	Name() string
	Color() (Color, error)
	SetColor(c Color) error
}

type Interrupt interface {
	Name() string
	Set()
	Clear()
	File() string
}

type PowerCycle interface {
	Trigger() bool
}

type WatchdogStatus struct {
	Enabled       bool   `yaml:"enabled"`
	Timeout       uint32 `yaml:"timeout"`
	RemainingTime uint32 `yaml:"remainingTime"`
}

type Watchdog interface {
	Arm(ticks uint32) bool
	Stop() bool
	Status() *WatchdogStatus
	MaxTimeout() uint32
}

type Programmable interface {
	Name() string
	Version() (uint32, error)
}

type ReloadCause struct {
	Code  uint32  `yaml:"code"`
	Name  string  `yaml:"name"`
	Time  float64 `yaml:"time"`
	Cause string  `yaml:"cause"`
}

type ReloadCauseProvider interface {
	ReloadCauses() ([]ReloadCause, error)
}

// Xcvr is a transceiver slot. Any accessor may return nil for wiring the
// slot doesn't have.
type Xcvr interface {
	Name() string
	Presence() Gpio
	Reset() Reset
	Interrupt() Interrupt
	Leds() []Led
}

type Inventory struct {
	resets     map[string]Reset
	gpios      map[string]Gpio
	leds       map[string]Led
	ledGroups  map[string][]Led
	interrupts map[string]Interrupt
	xcvrs      map[string]Xcvr

	// insertion order per kind
	order map[string][]string

	powerCycles   []PowerCycle
	watchdogs     []Watchdog
	programmables []Programmable
	reloadCauses  []ReloadCauseProvider
}

func New() *Inventory {
	return &Inventory{
		resets:     make(map[string]Reset),
		gpios:      make(map[string]Gpio),
		leds:       make(map[string]Led),
		ledGroups:  make(map[string][]Led),
		interrupts: make(map[string]Interrupt),
		xcvrs:      make(map[string]Xcvr),
		order:      make(map[string][]string),
	}
}

func (inv *Inventory) claim(kind, name string, taken bool) error {
	if taken {
		return hwerr.Config("%s %q: already in inventory", kind, name)
	}
	inv.order[kind] = append(inv.order[kind], name)
	return nil
}

func (inv *Inventory) AddReset(r Reset) error {
	_, taken := inv.resets[r.Name()]
	if err := inv.claim("reset", r.Name(), taken); err != nil {
		return err
	}
	inv.resets[r.Name()] = r
	return nil
}

func (inv *Inventory) AddGpio(g Gpio) error {
	_, taken := inv.gpios[g.Name()]
	if err := inv.claim("gpio", g.Name(), taken); err != nil {
		return err
	}
	inv.gpios[g.Name()] = g
	return nil
}

func (inv *Inventory) AddLed(l Led) error {
	_, taken := inv.leds[l.Name()]
	if err := inv.claim("led", l.Name(), taken); err != nil {
		return err
	}
	inv.leds[l.Name()] = l
	return nil
}

// AddLedGroup registers a named group; the member LEDs are added too.
func (inv *Inventory) AddLedGroup(name string, leds []Led) error {
	_, taken := inv.ledGroups[name]
	if err := inv.claim("led group", name, taken); err != nil {
		return err
	}
	for _, l := range leds {
		if err := inv.AddLed(l); err != nil {
			return err
		}
	}
	inv.ledGroups[name] = leds
	return nil
}

func (inv *Inventory) AddInterrupt(i Interrupt) error {
	_, taken := inv.interrupts[i.Name()]
	if err := inv.claim("interrupt", i.Name(), taken); err != nil {
		return err
	}
	inv.interrupts[i.Name()] = i
	return nil
}

func (inv *Inventory) AddXcvr(x Xcvr) error {
	_, taken := inv.xcvrs[x.Name()]
	if err := inv.claim("xcvr", x.Name(), taken); err != nil {
		return err
	}
	inv.xcvrs[x.Name()] = x
	return nil
}

func (inv *Inventory) AddPowerCycle(p PowerCycle) {
	inv.powerCycles = append(inv.powerCycles, p)
}

func (inv *Inventory) AddWatchdog(w Watchdog) {
	inv.watchdogs = append(inv.watchdogs, w)
}

func (inv *Inventory) AddProgrammable(p Programmable) {
	inv.programmables = append(inv.programmables, p)
}

func (inv *Inventory) AddReloadCauseProvider(p ReloadCauseProvider) {
	inv.reloadCauses = append(inv.reloadCauses, p)
}

func (inv *Inventory) Reset(name string) (r Reset, found bool) {
	r, found = inv.resets[name]
	return
}

func (inv *Inventory) Gpio(name string) (g Gpio, found bool) {
	g, found = inv.gpios[name]
	return
}

func (inv *Inventory) Led(name string) (l Led, found bool) {
	l, found = inv.leds[name]
	return
}

func (inv *Inventory) LedGroup(name string) (leds []Led, found bool) {
	leds, found = inv.ledGroups[name]
	return
}

func (inv *Inventory) Interrupt(name string) (i Interrupt, found bool) {
	i, found = inv.interrupts[name]
	return
}

func (inv *Inventory) Xcvr(name string) (x Xcvr, found bool) {
	x, found = inv.xcvrs[name]
	return
}

// Names lists the resources of a kind ("reset", "gpio", "led", "led group",
// "interrupt", "xcvr") in the order they were added.
func (inv *Inventory) Names(kind string) []string {
	return append([]string(nil), inv.order[kind]...)
}

// Mark records how many resources of each kind are registered.
type Mark struct {
	order map[string]int

	powerCycles, watchdogs, programmables, reloadCauses int
}

func (inv *Inventory) Mark() Mark {
	mk := Mark{
		order:         make(map[string]int, len(inv.order)),
		powerCycles:   len(inv.powerCycles),
		watchdogs:     len(inv.watchdogs),
		programmables: len(inv.programmables),
		reloadCauses:  len(inv.reloadCauses),
	}
	for kind, names := range inv.order {
		mk.order[kind] = len(names)
	}
	return mk
}

// Rollback drops everything registered after mk.
func (inv *Inventory) Rollback(mk Mark) {
	for kind, names := range inv.order {
		n := mk.order[kind]
		for _, name := range names[n:] {
			switch kind {
			case "reset":
				delete(inv.resets, name)
			case "gpio":
				delete(inv.gpios, name)
			case "led":
				delete(inv.leds, name)
			case "led group":
				delete(inv.ledGroups, name)
			case "interrupt":
				delete(inv.interrupts, name)
			case "xcvr":
				delete(inv.xcvrs, name)
			}
		}
		inv.order[kind] = names[:n]
	}
	inv.powerCycles = inv.powerCycles[:mk.powerCycles]
	inv.watchdogs = inv.watchdogs[:mk.watchdogs]
	inv.programmables = inv.programmables[:mk.programmables]
	inv.reloadCauses = inv.reloadCauses[:mk.reloadCauses]
}

func (inv *Inventory) PowerCycles() []PowerCycle { return inv.powerCycles }
func (inv *Inventory) Watchdogs() []Watchdog     { return inv.watchdogs }

func (inv *Inventory) Programmables() []Programmable { return inv.programmables }

func (inv *Inventory) ReloadCauseProviders() []ReloadCauseProvider {
	return inv.reloadCauses
}
