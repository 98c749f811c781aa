// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package gpiopin adapts host CPU gpio pins to the inventory so platform
// signals outside the SCD are looked up the same way. Pin names come from
// the machine's device tree.
package gpiopin

import (
	"io/ioutil"
	"strconv"
	"strings"

	"github.com/platinasystems/fdt"
	"github.com/platinasystems/gpio"

	"github.com/platinasystems/scd/internal/hwerr"
)

var File = "/boot/linux.dtb"

// Load replaces gpio.Pins with the pins of every gpio controller in the
// device tree blob fn.
func Load(fn string) error {
	b, err := ioutil.ReadFile(fn)
	if err != nil {
		return hwerr.Io(err, "gpio")
	}
	gpio.Aliases = make(gpio.GpioAliasMap)
	gpio.Pins = make(gpio.PinMap)
	t := &fdt.Tree{Debug: false, IsLittleEndian: false}
	t.Parse(b)
	t.MatchNode("aliases", gatherAliases)
	t.EachProperty("gpio-controller", "", gatherPins)
	return nil
}

func Loaded() bool { return len(gpio.Pins) > 0 }

// gatherAliases maps bank names, e.g. gpio0, to controller node names.
func gatherAliases(n *fdt.Node) {
	for p, v := range n.Properties {
		if !strings.Contains(p, "gpio") {
			continue
		}
		path := strings.Split(string(v), "\x00")[0]
		gpio.Aliases[p] = path[strings.LastIndex(path, "/")+1:]
	}
}

// gatherPins adds the described children of controller n; a child named
// NAME@INDEX is pin INDEX of the bank aliased to n.
func gatherPins(n *fdt.Node, name string, value string) {
	for bank, node := range gpio.Aliases {
		if node != n.Name {
			continue
		}
		for _, c := range n.Children {
			if _, found := c.Properties["gpio-pin-desc"]; !found {
				continue
			}
			var mode string
			for _, m := range []string{"output-high", "output-low", "input"} {
				if _, found := c.Properties[m]; found {
					mode = m
				}
			}
			at := strings.SplitN(c.Name, "@", 2)
			if len(mode) == 0 || len(at) != 2 {
				continue
			}
			i, err := strconv.Atoi(at[1])
			if err != nil {
				continue
			}
			gpio.Pins[at[0]] = gpio.GpioPinMode[mode] |
				gpio.GpioBankToBase[bank] | gpio.Pin(i)
		}
	}
}

type Pin struct {
	name string
	pin  gpio.Pin

	ActiveLow bool
	RO        bool
}

func New(name string, pin gpio.Pin, activeLow, ro bool) *Pin {
	return &Pin{name: name, pin: pin, ActiveLow: activeLow, RO: ro}
}

// Lookup finds pinName in gpio.Pins, as filled by Load, and names it name.
func Lookup(name, pinName string, activeLow, ro bool) (*Pin, error) {
	pin, found := gpio.Pins[pinName]
	if !found {
		return nil, hwerr.Config("%s: gpio pin %q not found", name, pinName)
	}
	return New(name, pin, activeLow, ro), nil
}

func (p *Pin) Name() string   { return p.name }
func (p *Pin) ReadOnly() bool { return p.RO }

func (p *Pin) IsActive() (bool, error) {
	v, err := p.pin.Value()
	if err != nil {
		return false, hwerr.Io(err, "%s", p.name)
	}
	return v != p.ActiveLow, nil
}

func (p *Pin) SetActive(active bool) error {
	if p.RO {
		return hwerr.Permission("%s: read only", p.name)
	}
	if err := p.pin.SetValue(active != p.ActiveLow); err != nil {
		return hwerr.Io(err, "%s", p.name)
	}
	return nil
}
