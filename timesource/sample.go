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
	"time"
)

// Source labels attached to samples so consumers know how the reading was
// obtained.
const (
	// SourceSoftware marks samples synthesized from a monotonic counter with
	// periodic wall-clock reconciliation. Sub-nanosecond digits are
	// extrapolated, not measured.
	SourceSoftware = "SW_NANO_DERIVED"
	// SourceHardware marks samples taken from a real timing card.
	SourceHardware = "HW_PICO"
)

// TimeSample is one immutable clock reading.
type TimeSample struct {
	UnixSeconds   int64
	Nanos         uint32
	Picos         uint32
	Source        string
	MeasuredPicos bool
}

// Validate checks the range invariants of the sample fields. A violation can
// only come from an arithmetic bug in the provider that produced the sample,
// so callers treat it as fatal.
func (s TimeSample) Validate() error {
	if s.Nanos > 999_999_999 {
		return fmt.Errorf("nanos field out of range: %d", s.Nanos)
	}
	if s.Picos > 999 {
		return fmt.Errorf("picos field out of range: %d", s.Picos)
	}
	return nil
}

// Local converts the sample into a calendar datetime in loc, dropping the
// picosecond remainder. A nil loc means the system local zone.
func (s TimeSample) Local(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Unix(s.UnixSeconds, int64(s.Nanos)).In(loc)
}

func sampleFromPico(p pico, source string, measured bool) TimeSample {
	return TimeSample{
		UnixSeconds:   p.sec,
		Nanos:         uint32(p.ps / 1000),
		Picos:         uint32(p.ps % 1000),
		Source:        source,
		MeasuredPicos: measured,
	}
}
