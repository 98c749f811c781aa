// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package scd

import (
	"github.com/platinasystems/scd/desc"
	"github.com/platinasystems/scd/inventory"
)

const (
	LedGreenBit = 0
	LedRedBit   = 1
)

// GpioLed is one gpio showing Active when set and Inactive otherwise.
type GpioLed struct {
	name     string
	gpio     inventory.Gpio
	Active   inventory.Color
	Inactive inventory.Color
}

func NewGpioLed(name string, gpio inventory.Gpio) *GpioLed {
	return &GpioLed{
		name:     name,
		gpio:     gpio,
		Active:   inventory.Red,
		Inactive: inventory.Off,
	}
}

func (l *GpioLed) Name() string { return l.name }

func (l *GpioLed) Color() (inventory.Color, error) {
	active, err := l.gpio.IsActive()
	if err != nil {
		return inventory.Off, err
	}
	if active {
		return l.Active, nil
	}
	return l.Inactive, nil
}

func (l *GpioLed) SetColor(c inventory.Color) error {
	return l.gpio.SetActive(c == l.Active)
}

type ColorPin struct {
	Color inventory.Color
	Gpio  inventory.Gpio
}

// MultiLed derives one color from a gpio per primary color. Green with red
// is amber; anything else but a single color is off.
type MultiLed struct {
	name string
	pins []ColorPin
}

func NewMultiLed(name string, pins ...ColorPin) *MultiLed {
	return &MultiLed{name: name, pins: pins}
}

func (l *MultiLed) Name() string { return l.name }

func (l *MultiLed) Color() (inventory.Color, error) {
	var on []inventory.Color
	for _, p := range l.pins {
		active, err := p.Gpio.IsActive()
		if err != nil {
			return inventory.Off, err
		}
		if active {
			on = append(on, p.Color)
		}
	}
	return colorFrom(on), nil
}

// SetColor drives every pin. Colors the pins can't make turn the LED off.
func (l *MultiLed) SetColor(c inventory.Color) error {
	want := colorTo(c)
	for _, p := range l.pins {
		if err := p.Gpio.SetActive(hasColor(want, p.Color)); err != nil {
			return err
		}
	}
	return nil
}

func colorFrom(on []inventory.Color) inventory.Color {
	if len(on) == 1 {
		return on[0]
	}
	if hasColor(on, inventory.Green) && hasColor(on, inventory.Red) {
		return inventory.Amber
	}
	return inventory.Off
}

func colorTo(c inventory.Color) []inventory.Color {
	switch c {
	case inventory.Green, inventory.Red, inventory.Blue:
		return []inventory.Color{c}
	case inventory.Amber:
		return []inventory.Color{inventory.Green, inventory.Red}
	}
	return nil
}

func hasColor(colors []inventory.Color, c inventory.Color) bool {
	for _, x := range colors {
		if x == c {
			return true
		}
	}
	return false
}

type ledEntry struct {
	addr uint32
	name string
	led  *MultiLed
}

// newLed makes the LED at addr from its green and red register bits.
func (d *Device) newLed(l desc.LedDesc) (*ledEntry, error) {
	if err := d.build("led " + l.Name); err != nil {
		return nil, err
	}
	green, err := d.bit(l.Name+"_green", l.Addr, LedGreenBit, false, false)
	if err != nil {
		return nil, err
	}
	red, err := d.bit(l.Name+"_red", l.Addr, LedRedBit, false, false)
	if err != nil {
		return nil, err
	}
	e := &ledEntry{
		addr: l.Addr,
		name: l.Name,
		led: NewMultiLed(l.Name,
			ColorPin{inventory.Green, fieldGpio{l.Name + "_green", green}},
			ColorPin{inventory.Red, fieldGpio{l.Name + "_red", red}}),
	}
	d.leds = append(d.leds, e)
	return e, nil
}

func (d *Device) AddLed(l desc.LedDesc) (*MultiLed, error) {
	leds, err := d.AddLeds(l)
	if err != nil {
		return nil, err
	}
	return leds[0], nil
}

// AddLeds declares all of leds or, on error, none of them.
func (d *Device) AddLeds(leds ...desc.LedDesc) ([]*MultiLed, error) {
	out := make([]*MultiLed, 0, len(leds))
	err := d.atomically(func() error {
		for _, l := range leds {
			e, err := d.newLed(l)
			if err != nil {
				return err
			}
			if err = d.inv.AddLed(e.led); err != nil {
				return err
			}
			out = append(out, e.led)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AddLedGroup declares the LEDs and registers them as one named group.
func (d *Device) AddLedGroup(group string, leds ...desc.LedDesc) ([]inventory.Led, error) {
	out := make([]inventory.Led, 0, len(leds))
	err := d.atomically(func() error {
		for _, l := range leds {
			e, err := d.newLed(l)
			if err != nil {
				return err
			}
			out = append(out, e.led)
		}
		return d.inv.AddLedGroup(group, out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
