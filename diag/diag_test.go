// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package diag

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var errGone = errors.New("device gone")

func probes(c *Collector) error {
	if err := c.Probe("version", func() (interface{}, error) {
		return "0x420001", nil
	}); err != nil {
		return err
	}
	if err := c.Probe("led", func() (interface{}, error) {
		return nil, errGone
	}); err != nil {
		return err
	}
	return c.Probe("fan", func() (interface{}, error) {
		var m map[string]int
		m["x"] = 1
		return m, nil
	})
}

func TestSafe(t *testing.T) {
	c := &Collector{}
	require.NoError(t, probes(c))
	require.Len(t, c.Results, 3)
	assert.True(t, c.Results[0].Ok)
	assert.Equal(t, "device gone", c.Results[1].Reason)
	assert.Contains(t, c.Results[2].Reason, "panic")
	assert.Len(t, c.Failed(), 2)

	m := c.Flatten()
	assert.Equal(t, "0x420001", m["version"])
	assert.Equal(t, "error: device gone", m["led"])
}

func TestStrict(t *testing.T) {
	c := &Collector{Strict: true}
	err := probes(c)
	assert.True(t, errors.Is(err, errGone))
	assert.Len(t, c.Results, 2)
}

func TestYAML(t *testing.T) {
	c := &Collector{}
	c.Probe("watchdog", func() (interface{}, error) {
		return map[string]interface{}{"enabled": true, "timeout": 30000}, nil
	})
	b, err := c.YAML()
	require.NoError(t, err)
	var out []Result
	require.NoError(t, yaml.Unmarshal(b, &out))
	require.Len(t, out, 1)
	assert.Equal(t, "watchdog", out[0].Name)
	assert.True(t, out[0].Ok)
}
