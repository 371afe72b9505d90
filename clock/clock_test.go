// Copyright (c) 2026, Kiln Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const step = time.Second / 60

func TestAdvanceFixedSteps(t *testing.T) {
	ck := New(step, step)
	t0 := time.Now()

	steps, due := ck.Advance(t0)
	assert.Equal(t, 0, steps)
	assert.True(t, due)

	// half a step: nothing to simulate yet
	steps, due = ck.Advance(t0.Add(step / 2))
	assert.Equal(t, 0, steps)
	assert.False(t, due)

	// another full step elapsed: one update, remainder carried
	steps, due = ck.Advance(t0.Add(step / 2).Add(step))
	assert.Equal(t, 1, steps)
	assert.True(t, due)
	assert.Equal(t, step, ck.Time)
	assert.InDelta(t, 0.5, ck.Blend(), 1e-9)
}

func TestAdvanceCatchUp(t *testing.T) {
	ck := New(step, step)
	t0 := time.Now()
	ck.Advance(t0)

	steps, _ := ck.Advance(t0.Add(3 * step))
	assert.Equal(t, 3, steps)
	assert.Equal(t, 3*step, ck.Time)

	// never more steps than the accumulated time covers
	steps, _ = ck.Advance(t0.Add(3 * step))
	assert.Equal(t, 0, steps)
}

func TestAdvanceCatchUpCap(t *testing.T) {
	ck := New(step, step)
	t0 := time.Now()
	ck.Advance(t0)

	// a long stall is capped and the remainder dropped
	steps, _ := ck.Advance(t0.Add(time.Minute))
	assert.Equal(t, MaxCatchUpSteps, steps)
	assert.Equal(t, 0.0, ck.Blend())
}

func TestFrameLimiter(t *testing.T) {
	ck := New(step, 2*step)
	t0 := time.Now()
	ck.Advance(t0)

	_, due := ck.Advance(t0.Add(step))
	assert.False(t, due)
	_, due = ck.Advance(t0.Add(2 * step))
	assert.True(t, due)
	// granted frames reset the limiter
	_, due = ck.Advance(t0.Add(3 * step))
	assert.False(t, due)
}
