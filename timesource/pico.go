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
	"math"
	"math/bits"
	"time"
)

// PsPerSec is the number of picoseconds in a second.
const PsPerSec = int64(1_000_000_000_000)

// maxSecDelta is the largest whole-second difference that still converts to
// picoseconds without overflowing int64.
const maxSecDelta = math.MaxInt64/PsPerSec - 1

// pico is an instant or duration split into whole seconds and a picosecond
// remainder in [0, PsPerSec). Absolute picoseconds-since-epoch values don't
// fit in int64, so all clock math is done on this split form.
type pico struct {
	sec int64
	ps  int64
}

func picoFromTime(t time.Time) pico {
	return pico{sec: t.Unix(), ps: int64(t.Nanosecond()) * 1000}
}

func picoFromDuration(d time.Duration) pico {
	p := pico{sec: int64(d / time.Second), ps: int64(d%time.Second) * 1000}
	return p.norm()
}

func (p pico) norm() pico {
	if p.ps < 0 {
		p.sec--
		p.ps += PsPerSec
	} else if p.ps >= PsPerSec {
		p.sec++
		p.ps -= PsPerSec
	}
	return p
}

func (p pico) add(q pico) pico {
	return pico{sec: p.sec + q.sec, ps: p.ps + q.ps}.norm()
}

func (p pico) addPs(d int64) pico {
	return pico{sec: p.sec + d/PsPerSec, ps: p.ps + d%PsPerSec}.norm()
}

// subPs returns p-q in picoseconds, saturating at the int64 range.
func (p pico) subPs(q pico) int64 {
	dsec := p.sec - q.sec
	if dsec > maxSecDelta {
		return math.MaxInt64
	}
	if dsec < -maxSecDelta {
		return math.MinInt64
	}
	return dsec*PsPerSec + (p.ps - q.ps)
}

func (p pico) before(q pico) bool {
	if p.sec != q.sec {
		return p.sec < q.sec
	}
	return p.ps < q.ps
}

// clampPs collapses p into plain int64 picoseconds, saturating. Only the
// resync gate uses this form; the actual time math stays on the split type.
func (p pico) clampPs() int64 {
	if p.sec > maxSecDelta {
		return math.MaxInt64
	}
	if p.sec < -maxSecDelta {
		return math.MinInt64
	}
	return p.sec*PsPerSec + p.ps
}

func saturatingAdd(a, b int64) int64 {
	s := a + b
	if b > 0 && s < a {
		return math.MaxInt64
	}
	if b < 0 && s > a {
		return math.MinInt64
	}
	return s
}

// mulDiv computes a*b/c using 128-bit intermediates. b and c must be
// positive; the result saturates at the int64 range.
func mulDiv(a, b, c int64) int64 {
	neg := a < 0
	ua := uint64(a)
	if neg {
		ua = uint64(-a)
	}
	hi, lo := bits.Mul64(ua, uint64(b))
	if hi >= uint64(c) {
		if neg {
			return math.MinInt64
		}
		return math.MaxInt64
	}
	q, _ := bits.Div64(hi, lo, uint64(c))
	if q > math.MaxInt64 {
		q = math.MaxInt64
	}
	if neg {
		return -int64(q)
	}
	return int64(q)
}
