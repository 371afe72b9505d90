// Copyright (c) 2026, Kiln Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package clock provides the two-phase tick driving the main
// loop: a fixed-step simulation accumulator and a frame limiter.
package clock

import "time"

// MaxCatchUpSteps bounds how many fixed update steps a single
// Advance can request after a long stall, so a stop-the-world
// pause does not trigger a catch-up spiral. The uncovered time
// is dropped.
const MaxCatchUpSteps = 8

// Clock gates the two phases of the main loop. The update phase
// runs a fixed step zero or more times per tick, consuming
// accumulated real time; the frame phase runs at most once per
// frame interval. Not safe for concurrent use; the main loop owns
// it.
type Clock struct {
	// UpdateStep is the fixed simulation step.
	UpdateStep time.Duration

	// FrameStep is the minimum interval between frames.
	FrameStep time.Duration

	// Time is the total simulated time: the number of update
	// steps taken so far times UpdateStep.
	Time time.Duration

	acc       time.Duration
	last      time.Time
	lastFrame time.Time
	started   bool
}

// New returns a clock with the given fixed update step and frame
// interval. The first Advance starts the accumulated time at zero.
func New(updateStep, frameStep time.Duration) *Clock {
	return &Clock{UpdateStep: updateStep, FrameStep: frameStep}
}

// Advance consumes the real time elapsed since the previous call
// and returns the number of fixed update steps to run plus
// whether a frame is due. Steps never exceed what the accumulated
// time covers; after [MaxCatchUpSteps] the remainder is dropped.
func (ck *Clock) Advance(now time.Time) (steps int, frameDue bool) {
	if !ck.started {
		ck.last = now
		ck.lastFrame = now
		ck.started = true
		return 0, true
	}
	ck.acc += now.Sub(ck.last)
	ck.last = now

	steps = int(ck.acc / ck.UpdateStep)
	if steps > MaxCatchUpSteps {
		steps = MaxCatchUpSteps
		ck.acc = 0
	} else {
		ck.acc -= time.Duration(steps) * ck.UpdateStep
	}
	ck.Time += time.Duration(steps) * ck.UpdateStep

	if now.Sub(ck.lastFrame) >= ck.FrameStep {
		ck.lastFrame = now
		frameDue = true
	}
	return steps, frameDue
}

// Blend returns the fraction of an update step accumulated but
// not yet simulated, in [0, 1), for interpolated drawing.
func (ck *Clock) Blend() float64 {
	if ck.UpdateStep <= 0 {
		return 0
	}
	return float64(ck.acc) / float64(ck.UpdateStep)
}
