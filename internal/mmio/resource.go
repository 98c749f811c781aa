// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package mmio

import (
	"os"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/platinasystems/scd/internal/hwerr"
)

// Resource is a sysfs PCI resource file, e.g.
//
//	/sys/bus/pci/devices/0000:04:00.0/resource0
//
// The file is opened and mapped for every access then unmapped and closed so
// that no stale mapping survives a device reset or bus rescan.
type Resource struct {
	Path string
	// Zero size means use the size of the file.
	Len uint32
}

func NewResource(path string, size uint32) *Resource {
	return &Resource{Path: path, Len: size}
}

func (r *Resource) Size() uint32 {
	if r.Len != 0 {
		return r.Len
	}
	fi, err := os.Stat(r.Path)
	if err != nil {
		return 0
	}
	return uint32(fi.Size())
}

func (r *Resource) Read32(off uint32) (v uint32, err error) {
	err = r.Do(func(m Accessor) (err error) {
		v, err = m.Read32(off)
		return
	})
	return
}

func (r *Resource) Write32(off, v uint32) error {
	return r.Do(func(m Accessor) error {
		return m.Write32(off, v)
	})
}

func (r *Resource) Do(f func(Accessor) error) (err error) {
	fd, err := os.OpenFile(r.Path, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return hwerr.Io(err, "open %s", r.Path)
	}
	defer fd.Close()

	size := r.Len
	if size == 0 {
		fi, err := fd.Stat()
		if err != nil {
			return hwerr.Io(err, "stat %s", r.Path)
		}
		size = uint32(fi.Size())
	}
	if size == 0 {
		return hwerr.Io(nil, "%s: empty resource", r.Path)
	}

	mem, err := unix.Mmap(int(fd.Fd()), 0, int(size),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return hwerr.Io(err, "mmap %s", r.Path)
	}
	defer func() {
		if uerr := unix.Munmap(mem); uerr != nil && err == nil {
			err = hwerr.Io(uerr, "munmap %s", r.Path)
		}
	}()
	return f(mapping(mem))
}

type mapping []byte

func (m mapping) Size() uint32 { return uint32(len(m)) }

func (m mapping) Read32(off uint32) (uint32, error) {
	if err := Check(off, m.Size()); err != nil {
		return 0, err
	}
	return atomic.LoadUint32((*uint32)(unsafe.Pointer(&m[off]))), nil
}

func (m mapping) Write32(off, v uint32) error {
	if err := Check(off, m.Size()); err != nil {
		return err
	}
	atomic.StoreUint32((*uint32)(unsafe.Pointer(&m[off])), v)
	return nil
}
