// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package mmio

import "github.com/platinasystems/scd/internal/hwerr"

// Sim is a deterministic in-memory region for use without hardware. All
// words read as zero until written.
type Sim struct {
	words []uint32
	// Err, if set, fails every access.
	Err error
}

func NewSim(size uint32) *Sim {
	return &Sim{words: make([]uint32, size/Width)}
}

func (s *Sim) Size() uint32 { return uint32(len(s.words)) * Width }

func (s *Sim) Read32(off uint32) (uint32, error) {
	if s.Err != nil {
		return 0, hwerr.Io(s.Err, "read 0x%x", off)
	}
	if err := Check(off, s.Size()); err != nil {
		return 0, err
	}
	return s.words[off/Width], nil
}

func (s *Sim) Write32(off, v uint32) error {
	if s.Err != nil {
		return hwerr.Io(s.Err, "write 0x%x", off)
	}
	if err := Check(off, s.Size()); err != nil {
		return err
	}
	s.words[off/Width] = v
	return nil
}

// Peek returns the stored word without bounds errors; tests use this to
// inspect what was written.
func (s *Sim) Peek(off uint32) uint32 {
	if i := off / Width; i < uint32(len(s.words)) {
		return s.words[i]
	}
	return 0
}

// Poke stores a word as if hardware had changed it.
func (s *Sim) Poke(off, v uint32) {
	if i := off / Width; i < uint32(len(s.words)) {
		s.words[i] = v
	}
}
