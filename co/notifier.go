// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import "sync"

// Notifier wakes every waiter when an event happens. Unlike sync.Cond the
// wait side is a channel, so it can be used in a select.
type Notifier struct {
	mu sync.Mutex
	ch chan struct{}
}

func (n *Notifier) current() chan struct{} {
	if n.ch == nil {
		n.ch = make(chan struct{})
	}
	return n.ch
}

// C returns a channel that is closed by the next Notify.
func (n *Notifier) C() <-chan struct{} {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current()
}

// Notify wakes all goroutines waiting on a channel obtained from C.
func (n *Notifier) Notify() {
	n.mu.Lock()
	defer n.mu.Unlock()
	close(n.current())
	n.ch = make(chan struct{})
}
