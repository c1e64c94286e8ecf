// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"sync"
	"time"
)

// Clock provides the current timestamp in seconds. It never goes backwards.
type Clock interface {
	Now() uint64
}

// SystemClock reads the wall clock, holding its last reading if the wall clock steps back.
type SystemClock struct {
	mu   sync.Mutex
	last uint64
}

func NewSystemClock() *SystemClock {
	return &SystemClock{}
}

func (c *SystemClock) Now() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if now := uint64(time.Now().Unix()); now > c.last {
		c.last = now
	}
	return c.last
}

// ManualClock is moved by hand, for tests and replays.
type ManualClock struct {
	mu  sync.Mutex
	now uint64
}

func NewManualClock(now uint64) *ManualClock {
	return &ManualClock{now: now}
}

func (c *ManualClock) Now() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t. Moving it backwards is ignored.
func (c *ManualClock) Set(t uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t > c.now {
		c.now = t
	}
}

// Advance moves the clock forward by d seconds.
func (c *ManualClock) Advance(d uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += d
}
