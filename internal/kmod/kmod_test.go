// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package kmod

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinasystems/scd/internal/hwerr"
)

const modules = `scd_hwmon 45056 0 - Live 0x0000000000000000
scd 28672 1 scd_hwmon, Live 0x0000000000000000
i2c_dev 24576 0 - Live 0x0000000000000000
`

func TestLoaded(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "modules")
	require.NoError(t, os.WriteFile(fn, []byte(modules), 0644))

	for name, want := range map[string]bool{
		"scd":       true,
		"scd-hwmon": true,
		"i2c-dev":   true,
		"sonic":     false,
	} {
		m := &Module{Name: name, Proc: fn}
		got, err := m.Loaded()
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}

	m := &Module{Name: "scd", Proc: fn}
	assert.NoError(t, m.Load(), "loaded module must not run modprobe")
}

func TestLoadFails(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "modules")
	require.NoError(t, os.WriteFile(fn, nil, 0644))
	m := &Module{
		Name:     "scd",
		Proc:     fn,
		Modprobe: filepath.Join(t.TempDir(), "no-such-modprobe"),
	}
	assert.True(t, hwerr.IsIo(m.Load()))
}

func TestSimulation(t *testing.T) {
	m := &Module{Name: "scd", Proc: "/nonexistent", Simulation: true}
	loaded, err := m.Loaded()
	require.NoError(t, err)
	assert.True(t, loaded)
	assert.NoError(t, m.Load())
}
