// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package hwerr classifies hardware access failures.
//
// Every error returned by the register, region and device layers wraps one
// of the sentinel kinds below so callers may test with errors.Is.
package hwerr

import (
	stderrors "errors"

	"github.com/pkg/errors"
)

var (
	// ErrIo is an underlying read, write or mmap failure.
	ErrIo = stderrors.New("i/o error")
	// ErrConfig is an invalid static topology.
	ErrConfig = stderrors.New("configuration error")
	// ErrPermission is a write to a read-only field or gpio.
	ErrPermission = stderrors.New("permission denied")
	// ErrNotReady is i/o attempted before device setup.
	ErrNotReady = stderrors.New("not ready")
)

func Io(err error, format string, args ...interface{}) error {
	if err == nil {
		return errors.Wrapf(ErrIo, format, args...)
	}
	return &wrapped{kind: ErrIo, err: errors.Wrapf(err, format, args...)}
}

func Config(format string, args ...interface{}) error {
	return errors.Wrapf(ErrConfig, format, args...)
}

func Permission(format string, args ...interface{}) error {
	return errors.Wrapf(ErrPermission, format, args...)
}

func NotReady(format string, args ...interface{}) error {
	return errors.Wrapf(ErrNotReady, format, args...)
}

// IsIo reports whether err is, or wraps, an i/o failure.
func IsIo(err error) bool { return stderrors.Is(err, ErrIo) }

// wrapped keeps the syscall cause reachable while classifying it as kind.
type wrapped struct {
	kind error
	err  error
}

func (w *wrapped) Error() string { return w.err.Error() + ": " + w.kind.Error() }

func (w *wrapped) Unwrap() error { return w.err }

func (w *wrapped) Is(target error) bool { return target == w.kind }
