/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package timesource

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

const (
	psPerMs = int64(1_000_000_000)

	// how often we resample the wall clock
	syncIntervalPs = 250 * psPerMs
	// error at or above this is stepped immediately instead of slewed
	hardResyncThresholdPs = 150 * psPerMs
	// bounded correction rate: at most 4ms of correction per second elapsed
	maxSlewPsPerSec = 4 * psPerMs
)

// SoftwareProvider synthesizes a picosecond-resolution clock from a monotonic
// counter anchored to the wall clock at construction. A signed correction
// accumulator absorbs wall-clock drift: small errors are folded in at 25% per
// resync, rate-limited by maxSlewPsPerSec, while errors past the hard resync
// threshold are stepped in full. Whatever the correction does, the output
// never regresses: a mutex-guarded watermark floors every reading at the
// largest value ever returned.
//
// Safe for concurrent use. The wall clock is resampled at most once per sync
// interval system-wide; concurrent callers race for the claim with a single
// compare-and-swap and losers proceed without blocking.
type SoftwareProvider struct {
	wallAnchor pico
	counter    elapsedCounter
	wallNow    func() time.Time

	correctionPs      atomic.Int64
	lastSyncElapsedPs atomic.Int64

	mu         sync.Mutex
	lastOutput pico
}

// NewSoftwareProvider anchors a new engine against the current wall clock.
func NewSoftwareProvider() (*SoftwareProvider, error) {
	counter, err := newElapsedCounter()
	if err != nil {
		return nil, err
	}
	return newSoftwareProvider(time.Now, counter)
}

func newSoftwareProvider(wallNow func() time.Time, counter elapsedCounter) (*SoftwareProvider, error) {
	now := wallNow()
	if now.Unix() < 0 {
		return nil, fmt.Errorf("wall clock reports %v, before the Unix epoch", now)
	}
	anchor := picoFromTime(now)
	return &SoftwareProvider{
		wallAnchor: anchor,
		counter:    counter,
		wallNow:    wallNow,
		lastOutput: anchor,
	}, nil
}

// Now returns the current time estimate as a validated sample.
func (p *SoftwareProvider) Now() (TimeSample, error) {
	elapsed, err := p.counter.Elapsed()
	if err != nil {
		return TimeSample{}, err
	}
	estimated := p.wallAnchor.add(elapsed).addPs(p.correctionPs.Load())
	adjustment := p.maybeResync(elapsed, estimated)
	output := p.clampMonotonic(estimated.addPs(adjustment))

	sample := sampleFromPico(output, SourceSoftware, false)
	if err := sample.Validate(); err != nil {
		return TimeSample{}, fmt.Errorf("software clock produced invalid sample: %w", err)
	}
	return sample, nil
}

// ResolutionPs reports the calibrated tick of the underlying counter.
func (p *SoftwareProvider) ResolutionPs() uint64 {
	return uint64(p.counter.TickPs())
}

// HardwareBacked is always false for the software engine.
func (p *SoftwareProvider) HardwareBacked() bool {
	return false
}

// maybeResync runs the resync gate: once per sync interval exactly one caller
// resamples the wall clock and folds a correction into the accumulator. The
// winner's adjustment is returned so it lands in that caller's own reading;
// everybody else gets zero.
func (p *SoftwareProvider) maybeResync(elapsed, estimated pico) int64 {
	elapsedPs := elapsed.clampPs()
	prev := p.lastSyncElapsedPs.Load()
	sincePs := elapsedPs - prev
	if sincePs < syncIntervalPs {
		return 0
	}
	if !p.lastSyncElapsedPs.CompareAndSwap(prev, elapsedPs) {
		// another caller claimed this interval
		return 0
	}

	wall := picoFromTime(p.wallNow())
	errorPs := wall.subPs(estimated)
	var adjustmentPs int64
	if errorPs >= hardResyncThresholdPs || errorPs <= -hardResyncThresholdPs {
		adjustmentPs = errorPs
	} else {
		maxStep := mulDiv(sincePs, maxSlewPsPerSec, PsPerSec)
		adjustmentPs = errorPs / 4
		if adjustmentPs > maxStep {
			adjustmentPs = maxStep
		} else if adjustmentPs < -maxStep {
			adjustmentPs = -maxStep
		}
	}
	if adjustmentPs == 0 {
		return 0
	}
	for {
		current := p.correctionPs.Load()
		if p.correctionPs.CompareAndSwap(current, saturatingAdd(current, adjustmentPs)) {
			break
		}
	}
	return adjustmentPs
}

// clampMonotonic floors the candidate at the largest value ever returned and
// advances the watermark.
func (p *SoftwareProvider) clampMonotonic(candidate pico) pico {
	p.mu.Lock()
	defer p.mu.Unlock()
	if candidate.before(p.lastOutput) {
		return p.lastOutput
	}
	p.lastOutput = candidate
	return candidate
}
