// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package desc has the static descriptors platform wiring hands to the SCD
// builder.
package desc

import (
	"fmt"
	"strings"
)

// GpioDesc is one bit of an SCD register surfaced as a named gpio.
type GpioDesc struct {
	Name      string `yaml:"name"`
	Addr      uint32 `yaml:"addr"`
	Bit       uint   `yaml:"bit"`
	RO        bool   `yaml:"ro"`
	ActiveLow bool   `yaml:"activeLow"`
}

// ResetDesc is one reset line. Auto resets are released by hardware on
// power good and are left out of manual reset sweeps.
type ResetDesc struct {
	Name      string `yaml:"name"`
	Addr      uint32 `yaml:"addr"`
	Bit       uint   `yaml:"bit"`
	ActiveLow bool   `yaml:"activeLow"`
	Auto      bool   `yaml:"auto"`
}

// LedDesc is an SCD LED register.
type LedDesc struct {
	Name string `yaml:"name"`
	Addr uint32 `yaml:"addr"`
}

type Kind int

const (
	Rj45 Kind = iota
	Sfp
	Qsfp
	QsfpDD
	Osfp
)

var kindNames = []string{
	Rj45:   "rj45",
	Sfp:    "sfp",
	Qsfp:   "qsfp",
	QsfpDD: "qsfpdd",
	Osfp:   "osfp",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(s, name) {
			return Kind(k), nil
		}
	}
	return -1, fmt.Errorf("%s: unknown port kind", s)
}

// Port is a front panel cage. Leds is the number of LED lanes.
type Port struct {
	Kind  Kind
	Index int
	Leds  int
}

func (p Port) String() string { return fmt.Sprintf("%s%d", p.Kind, p.Index) }

// Ports returns count ports of one kind with consecutive indices.
func Ports(kind Kind, first, count, leds int) []Port {
	ports := make([]Port, 0, count)
	for i := 0; i < count; i++ {
		ports = append(ports, Port{Kind: kind, Index: first + i, Leds: leds})
	}
	return ports
}
