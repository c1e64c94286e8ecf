// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import "sync/atomic"

// Snapshot is the state of Stats at the time it was taken.
type Snapshot struct {
	Hit  int64
	Miss int64
	// HitRate is the number of hits per thousand lookups.
	HitRate int64
	// Changed reports whether HitRate moved since the previous snapshot.
	Changed bool
}

// Stats counts cache lookups.
type Stats struct {
	hit, miss atomic.Int64
	lastRate  atomic.Int64
}

// Hit records a hit.
func (cs *Stats) Hit() int64 { return cs.hit.Add(1) }

// Miss records a miss.
func (cs *Stats) Miss() int64 { return cs.miss.Add(1) }

// Snapshot returns the current counters. Each call becomes the baseline of
// the next one's Changed flag.
func (cs *Stats) Snapshot() Snapshot {
	snap := Snapshot{
		Hit:  cs.hit.Load(),
		Miss: cs.miss.Load(),
	}
	if lookups := snap.Hit + snap.Miss; lookups > 0 {
		snap.HitRate = snap.Hit * 1000 / lookups
	}
	snap.Changed = cs.lastRate.Swap(snap.HitRate) != snap.HitRate
	return snap
}
