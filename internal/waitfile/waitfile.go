// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package waitfile polls for a file that a kernel driver creates
// asynchronously.
package waitfile

import (
	"os"
	"time"

	"github.com/jpillora/backoff"

	"github.com/platinasystems/scd/internal/hwerr"
)

const DefaultTimeout = 5 * time.Second

// Wait returns once path exists, or a not ready error after timeout.
func Wait(path string, timeout time.Duration) error {
	b := &backoff.Backoff{
		Min:    10 * time.Millisecond,
		Max:    500 * time.Millisecond,
		Factor: 2,
		Jitter: false,
	}
	deadline := time.Now().Add(timeout)
	for {
		_, err := os.Stat(path)
		if err == nil {
			return nil
		}
		if !os.IsNotExist(err) {
			return hwerr.Io(err, "stat %s", path)
		}
		d := b.Duration()
		if left := time.Until(deadline); left <= 0 {
			return hwerr.NotReady("%s: not present after %v", path, timeout)
		} else if d > left {
			d = left
		}
		time.Sleep(d)
	}
}
