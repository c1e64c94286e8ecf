// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHealth_Initial(t *testing.T) {
	h := New(time.Second)

	status := h.Status()
	assert.True(t, status.Healthy)
	assert.Nil(t, status.Commit.Timestamp)
	assert.Empty(t, status.Commit.Error)
	assert.False(t, status.Clock.Checked)
}

func TestHealth_NewCommit(t *testing.T) {
	h := New(time.Second)
	h.NewCommit()

	status := h.Status()
	assert.True(t, status.Healthy)
	if assert.NotNil(t, status.Commit.Timestamp) {
		assert.WithinDuration(t, time.Now(), *status.Commit.Timestamp, time.Second)
	}
}

func TestHealth_CommitFailed(t *testing.T) {
	h := New(time.Second)
	h.NewCommit()
	h.CommitFailed(errors.New("disk full"))

	status := h.Status()
	assert.False(t, status.Healthy)
	assert.Equal(t, "disk full", status.Commit.Error)
	assert.NotNil(t, status.Commit.Timestamp)

	// recovers on the next commit
	h.NewCommit()
	assert.True(t, h.Status().Healthy)
}

func TestHealth_ClockOffset(t *testing.T) {
	h := New(time.Second)

	h.ClockOffset(500 * time.Millisecond)
	status := h.Status()
	assert.True(t, status.Healthy)
	assert.True(t, status.Clock.Checked)
	assert.Equal(t, "500ms", status.Clock.Offset)

	h.ClockOffset(-2 * time.Second)
	assert.False(t, h.Status().Healthy)

	h.ClockOffset(time.Second)
	assert.True(t, h.Status().Healthy)
}
