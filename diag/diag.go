// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package diag collects per component diagnostics as results rather than
// errors so one broken component doesn't hide the rest.
package diag

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Result is a probe outcome: data on success, a reason on failure.
type Result struct {
	Name   string      `yaml:"name"`
	Ok     bool        `yaml:"ok"`
	Data   interface{} `yaml:"data,omitempty"`
	Reason string      `yaml:"reason,omitempty"`
}

func Success(name string, data interface{}) Result {
	return Result{Name: name, Ok: true, Data: data}
}

func Failure(name string, err error) Result {
	return Result{Name: name, Reason: err.Error()}
}

// Collector runs probes. In the default safe mode a failed or panicking
// probe is recorded and collection goes on; in Strict mode the first
// failure is returned and a panic is not recovered.
type Collector struct {
	Strict  bool
	Results []Result
}

type Probe func() (interface{}, error)

func (c *Collector) Probe(name string, probe Probe) (err error) {
	if !c.Strict {
		defer func() {
			if r := recover(); r != nil {
				c.Results = append(c.Results,
					Failure(name, fmt.Errorf("panic: %v", r)))
				err = nil
			}
		}()
	}
	data, err := probe()
	if err != nil {
		c.Results = append(c.Results, Failure(name, err))
		if c.Strict {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	}
	c.Results = append(c.Results, Success(name, data))
	return nil
}

// Failed returns the failed results.
func (c *Collector) Failed() []Result {
	var failed []Result
	for _, r := range c.Results {
		if !r.Ok {
			failed = append(failed, r)
		}
	}
	return failed
}

func (c *Collector) YAML() ([]byte, error) {
	return yaml.Marshal(c.Results)
}

// Flatten returns name: value pairs, failures as "error: reason".
func (c *Collector) Flatten() map[string]string {
	m := make(map[string]string, len(c.Results))
	for _, r := range c.Results {
		if !r.Ok {
			m[r.Name] = "error: " + r.Reason
			continue
		}
		switch v := r.Data.(type) {
		case string:
			m[r.Name] = v
		case fmt.Stringer:
			m[r.Name] = v.String()
		default:
			b, err := yaml.Marshal(v)
			if err != nil {
				m[r.Name] = fmt.Sprint(v)
			} else {
				m[r.Name] = string(trimNewline(b))
			}
		}
	}
	return m
}

func trimNewline(b []byte) []byte {
	for len(b) > 0 && b[len(b)-1] == '\n' {
		b = b[:len(b)-1]
	}
	return b
}
