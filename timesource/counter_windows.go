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

//go:build windows

package timesource

import (
	"fmt"
	"sync/atomic"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	kernel32                      = windows.NewLazySystemDLL("kernel32.dll")
	procQueryPerformanceCounter   = kernel32.NewProc("QueryPerformanceCounter")
	procQueryPerformanceFrequency = kernel32.NewProc("QueryPerformanceFrequency")
)

// qpcCounter uses QueryPerformanceCounter as the coarse counter and the
// runtime monotonic clock as a secondary finer one. The fractional remainder
// of the fine counter since the last coarse tick is blended in to recover
// sub-tick resolution; the blend is calibrated once at construction against
// the reported QPC frequency.
type qpcCounter struct {
	anchor     int64
	freq       int64
	tickPs     int64
	fineAnchor time.Time
	// monotonic floor on the blended reading, CAS-updated
	lastPs atomic.Int64
}

func newElapsedCounter() (elapsedCounter, error) {
	freq, err := queryPerformanceFrequency()
	if err != nil {
		return nil, err
	}
	anchor, err := queryPerformanceCounter()
	if err != nil {
		return nil, err
	}
	tickPs := PsPerSec / freq
	if tickPs < 1 {
		tickPs = 1
	}
	return &qpcCounter{
		anchor:     anchor,
		freq:       freq,
		tickPs:     tickPs,
		fineAnchor: time.Now(),
	}, nil
}

func (c *qpcCounter) Elapsed() (pico, error) {
	counter, err := queryPerformanceCounter()
	if err != nil {
		return pico{}, err
	}
	delta := counter - c.anchor
	if delta < 0 {
		delta = 0
	}
	coarse := pico{sec: delta / c.freq, ps: mulDiv(delta%c.freq, PsPerSec, c.freq)}.norm()

	// Blend in the fine counter's remainder within the current coarse tick.
	fine := picoFromDuration(time.Since(c.fineAnchor))
	sub := fine.subPs(coarse)
	if sub > 0 {
		if sub >= c.tickPs {
			sub = c.tickPs - 1
		}
		coarse = coarse.addPs(sub)
	}

	// The blended value may wobble between callers, clamp it monotonic.
	target := coarse.clampPs()
	for {
		observed := c.lastPs.Load()
		if target < observed {
			target = observed
		}
		if c.lastPs.CompareAndSwap(observed, target) {
			break
		}
	}
	return pico{sec: target / PsPerSec, ps: target % PsPerSec}, nil
}

func (c *qpcCounter) TickPs() int64 {
	return c.tickPs
}

func queryPerformanceCounter() (int64, error) {
	var value int64
	r, _, err := procQueryPerformanceCounter.Call(uintptr(unsafe.Pointer(&value)))
	if r == 0 {
		return 0, fmt.Errorf("QueryPerformanceCounter: %w", err)
	}
	return value, nil
}

func queryPerformanceFrequency() (int64, error) {
	var value int64
	r, _, err := procQueryPerformanceFrequency.Call(uintptr(unsafe.Pointer(&value)))
	if r == 0 || value <= 0 {
		return 0, fmt.Errorf("QueryPerformanceFrequency: %w", err)
	}
	return value, nil
}
