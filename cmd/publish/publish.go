// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package publish copies the SCD diagnostics into a redis hash.
package publish

import (
	"fmt"
	"sort"
	"time"

	"github.com/garyburd/redigo/redis"
	"github.com/jpillora/backoff"
	"github.com/platinasystems/flags"
	"github.com/platinasystems/log"
	"github.com/platinasystems/parms"

	"github.com/platinasystems/scd/diag"
	"github.com/platinasystems/scd/lang"
	"github.com/platinasystems/scd/scd"
)

const (
	DefaultSocket = "/run/goes/socks/redisd"
	DefaultHash   = "platina"
	Attempts      = 4
	Timeout       = 500 * time.Millisecond
)

type Command struct {
	Open func() (*scd.Device, error)
	// Dial defaults to redis.Dial of the unix socket.
	Dial func(socket string) (redis.Conn, error)
}

func (*Command) String() string { return "publish" }

func (*Command) Usage() string {
	return "publish [-noio] [-socket PATH] [-hash NAME]"
}

func (*Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "copy SCD diagnostics to redis",
	}
}

func (*Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	HSET each SCD diagnostic as a field of the redis hash NAME,
	"platina" by default, through the unix socket PATH,
	` + DefaultSocket + ` by default. Failed probes are published as
	"error: REASON".`,
	}
}

func (c *Command) Main(args ...string) error {
	flag, args := flags.New(args, "-noio")
	parm, args := parms.New(args, "-socket", "-hash")
	if len(args) > 0 {
		return fmt.Errorf("%v: unexpected", args)
	}
	socket, hash := parm.ByName["-socket"], parm.ByName["-hash"]
	if len(socket) == 0 {
		socket = DefaultSocket
	}
	if len(hash) == 0 {
		hash = DefaultHash
	}
	d, err := c.Open()
	if err != nil {
		return err
	}
	col := new(diag.Collector)
	if err = d.Diag(col, flag.ByName["-noio"]); err != nil {
		return err
	}
	conn, err := c.dial(socket)
	if err != nil {
		return err
	}
	defer conn.Close()
	m := col.Flatten()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, err = conn.Do("HSET", hash, k, m[k]); err != nil {
			return fmt.Errorf("HSET %s %s: %v", hash, k, err)
		}
	}
	log.Print("debug", "published ", len(keys), " fields to ", hash)
	return nil
}

// dial retries a refused connection, as redisd may still be starting.
func (c *Command) dial(socket string) (conn redis.Conn, err error) {
	dial := c.Dial
	if dial == nil {
		dial = func(socket string) (redis.Conn, error) {
			return redis.Dial("unix", socket,
				redis.DialConnectTimeout(Timeout),
				redis.DialReadTimeout(Timeout),
				redis.DialWriteTimeout(Timeout))
		}
	}
	b := &backoff.Backoff{
		Min:    10 * time.Millisecond,
		Max:    time.Second,
		Factor: 2,
		Jitter: false,
	}
	for i := 0; i < Attempts; i++ {
		if conn, err = dial(socket); err == nil {
			return conn, nil
		}
		if i < Attempts-1 {
			time.Sleep(b.Duration())
		}
	}
	return nil, fmt.Errorf("%s: %v", socket, err)
}
