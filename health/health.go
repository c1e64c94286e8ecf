// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"sync"
	"time"
)

type Commit struct {
	Timestamp *time.Time `json:"timestamp"`
	Error     string     `json:"error,omitempty"`
}

type Clock struct {
	Offset  string `json:"offset"`
	Checked bool   `json:"checked"`
}

type Status struct {
	Healthy bool    `json:"healthy"`
	Commit  *Commit `json:"commit"`
	Clock   *Clock  `json:"clock"`
}

// Health tracks whether the store accepts commits and whether the local clock
// is close enough to the network time for reward accrual.
type Health struct {
	lock           sync.RWMutex
	lastCommit     time.Time
	commitErr      error
	clockOffset    time.Duration
	clockChecked   bool
	maxClockOffset time.Duration
}

func New(maxClockOffset time.Duration) *Health {
	return &Health{maxClockOffset: maxClockOffset}
}

func (h *Health) NewCommit() {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.lastCommit = time.Now()
	h.commitErr = nil
}

func (h *Health) CommitFailed(err error) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.commitErr = err
}

func (h *Health) ClockOffset(offset time.Duration) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.clockOffset = offset
	h.clockChecked = true
}

func (h *Health) Status() *Status {
	h.lock.RLock()
	defer h.lock.RUnlock()

	commit := &Commit{}
	if !h.lastCommit.IsZero() {
		ts := h.lastCommit
		commit.Timestamp = &ts
	}
	if h.commitErr != nil {
		commit.Error = h.commitErr.Error()
	}

	offset := h.clockOffset
	if offset < 0 {
		offset = -offset
	}
	clockOK := !h.clockChecked || offset <= h.maxClockOffset

	return &Status{
		Healthy: h.commitErr == nil && clockOK,
		Commit:  commit,
		Clock: &Clock{
			Offset:  h.clockOffset.String(),
			Checked: h.clockChecked,
		},
	}
}
