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

package bell

import (
	"math"
	"time"
)

// Status is the derived lifecycle state of a runtime alarm.
type Status string

// Alarm lifecycle states. Disabled is sticky until the alarm is re-enabled
// externally; the rest are derived from runtime state on demand.
const (
	StatusDisabled  Status = "disabled"
	StatusArmed     Status = "armed"
	StatusNext      Status = "next"
	StatusWarning   Status = "warning"
	StatusTriggered Status = "triggered"
)

// RuntimeAlarm wraps an Alarm with the scheduler's mutable derived state.
type RuntimeAlarm struct {
	Alarm Alarm
	// NextOccurrence is the zero time while no occurrence is known.
	NextOccurrence time.Time
	WarningActive  bool
	Triggered      bool
	// TriggeredUntil is the zero time while not triggered.
	TriggeredUntil time.Time

	pulseSlot    int64
	pulseSlotSet bool
}

// Status derives the lifecycle state.
func (r *RuntimeAlarm) Status() Status {
	switch {
	case !r.Alarm.Enabled:
		return StatusDisabled
	case r.Triggered:
		return StatusTriggered
	case r.WarningActive:
		return StatusWarning
	case !r.NextOccurrence.IsZero():
		return StatusNext
	default:
		return StatusArmed
	}
}

func (r *RuntimeAlarm) reset() {
	r.Triggered = false
	r.TriggeredUntil = time.Time{}
	r.WarningActive = false
	r.pulseSlotSet = false
}

// triggerTime is the nominal occurrence plus the deliberate late offset.
func (r *RuntimeAlarm) triggerTime() (time.Time, bool) {
	if r.NextOccurrence.IsZero() {
		return time.Time{}, false
	}
	return r.NextOccurrence.Add(msDuration(r.Alarm.LateTriggerMs)), true
}

func (r *RuntimeAlarm) ringDuration() time.Duration {
	ms := r.Alarm.RingDurationMs
	if ms < 1 {
		ms = 1
	}
	return msDuration(ms)
}

// TickOutcome reports what one scheduler pass did.
type TickOutcome struct {
	Triggered int
	// AutoAcknowledged is carried for API compatibility; the tick path
	// clears every alarm after its ring duration regardless of the
	// auto_acknowledge flag, so nothing increments this today.
	AutoAcknowledged int
}

// WarningOutcome reports warning window evaluation.
type WarningOutcome struct {
	Active int
	Pulses int
}

// Scheduler owns a collection of runtime alarms and advances their state on
// each tick. It is single-owner: callers must serialize access externally,
// the scheduler itself holds no locks.
type Scheduler struct {
	loc    *time.Location
	alarms []*RuntimeAlarm
}

// NewScheduler builds runtime state for the given alarms, computing the next
// occurrence of every enabled alarm against the supplied now. A nil loc means
// the system local zone.
func NewScheduler(alarms []Alarm, now time.Time, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	s := &Scheduler{loc: loc}
	for _, alarm := range alarms {
		s.AddAlarm(alarm, now)
	}
	return s
}

// Location returns the zone the scheduler resolves naive datetimes in.
func (s *Scheduler) Location() *time.Location {
	return s.loc
}

// Tick advances every alarm's trigger state to the supplied now.
func (s *Scheduler) Tick(now time.Time) TickOutcome {
	var out TickOutcome
	for _, r := range s.alarms {
		if !r.Alarm.Enabled {
			r.reset()
			continue
		}

		if r.Triggered {
			if !r.TriggeredUntil.IsZero() && now.Before(r.TriggeredUntil) {
				// still ringing
				continue
			}
			r.reset()
			s.recomputeAfterClear(r, now)
		}

		if r.NextOccurrence.IsZero() {
			r.NextOccurrence, _ = nextOccurrence(r.Alarm, now, s.loc)
		}

		if triggerAt, ok := r.triggerTime(); ok && !now.Before(triggerAt) {
			r.WarningActive = false
			r.pulseSlotSet = false
			r.Triggered = true
			r.TriggeredUntil = triggerAt.Add(r.ringDuration())
			out.Triggered++
		}
	}
	return out
}

// RefreshWarnings recomputes the advisory warning window for every alarm and
// counts pulse-slot transitions. Warnings are measured against the trigger
// time (occurrence plus late offset), not the nominal occurrence.
func (s *Scheduler) RefreshWarnings(now time.Time, settings Settings) WarningOutcome {
	var out WarningOutcome
	if !settings.WarningEnabled || settings.WarningLeadTimeMs == 0 {
		s.clearAllWarnings()
		return out
	}
	lead := msDuration(settings.WarningLeadTimeMs)

	pulseMs := settings.WarningPulseTimeMs
	if pulseMs < 1 {
		pulseMs = 1
	}
	slot := floorDiv(now.UnixMilli(), clampToInt64(pulseMs))

	for _, r := range s.alarms {
		if !r.Alarm.Enabled || r.Triggered {
			r.WarningActive = false
			r.pulseSlotSet = false
			continue
		}

		if r.NextOccurrence.IsZero() {
			r.NextOccurrence, _ = nextOccurrence(r.Alarm, now, s.loc)
		}

		active := false
		if triggerAt, ok := r.triggerTime(); ok && triggerAt.After(now) {
			active = triggerAt.Sub(now) <= lead
		}

		r.WarningActive = active
		if active {
			out.Active++
			if !r.pulseSlotSet || r.pulseSlot != slot {
				r.pulseSlot = slot
				r.pulseSlotSet = true
				out.Pulses++
			}
		} else {
			r.pulseSlotSet = false
		}
	}
	return out
}

// AcknowledgeTriggered force-clears every currently-triggered alarm, cutting
// the ring short, and returns how many were cleared.
func (s *Scheduler) AcknowledgeTriggered(now time.Time) int {
	acknowledged := 0
	for _, r := range s.alarms {
		if !r.Triggered {
			continue
		}
		r.Triggered = false
		r.TriggeredUntil = time.Time{}
		acknowledged++
		s.recomputeAfterClear(r, now)
	}
	return acknowledged
}

// recomputeAfterClear applies the shared post-ring rule: a one-time alarm is
// exhausted and never recurs, a recurring alarm probes strictly after now so
// the same instant cannot re-match.
func (s *Scheduler) recomputeAfterClear(r *RuntimeAlarm, now time.Time) {
	switch r.Alarm.Schedule.Kind {
	case OneTime:
		r.NextOccurrence = time.Time{}
	case Recurring:
		r.NextOccurrence, _ = nextOccurrence(r.Alarm, now.Add(time.Nanosecond), s.loc)
	}
}

// AddAlarm appends a runtime alarm, computing its next occurrence right away
// when enabled.
func (s *Scheduler) AddAlarm(alarm Alarm, now time.Time) {
	r := &RuntimeAlarm{Alarm: alarm}
	if alarm.Enabled {
		r.NextOccurrence, _ = nextOccurrence(alarm, now, s.loc)
	}
	s.alarms = append(s.alarms, r)
}

// RemoveAlarmAt removes and returns the alarm at index, or nil when the index
// is out of range. Out of range is a no-op, not an error.
func (s *Scheduler) RemoveAlarmAt(index int) *Alarm {
	if index < 0 || index >= len(s.alarms) {
		return nil
	}
	removed := s.alarms[index].Alarm
	s.alarms = append(s.alarms[:index], s.alarms[index+1:]...)
	return &removed
}

// Alarms exposes the runtime alarms for status reporting. Callers share the
// scheduler's single-owner contract and must not mutate concurrently.
func (s *Scheduler) Alarms() []*RuntimeAlarm {
	return s.alarms
}

// Len returns the number of alarms.
func (s *Scheduler) Len() int {
	return len(s.alarms)
}

// ExportAlarms snapshots the static configuration for persistence.
func (s *Scheduler) ExportAlarms() []Alarm {
	out := make([]Alarm, 0, len(s.alarms))
	for _, r := range s.alarms {
		out = append(out, r.Alarm)
	}
	return out
}

func (s *Scheduler) clearAllWarnings() {
	for _, r := range s.alarms {
		r.WarningActive = false
		r.pulseSlotSet = false
	}
}

func msDuration(ms uint64) time.Duration {
	if ms > uint64(math.MaxInt64/int64(time.Millisecond)) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(ms) * time.Millisecond
}

func clampToInt64(v uint64) int64 {
	if v > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}

// floorDiv divides rounding toward negative infinity, so pre-epoch
// timestamps still bucket into well-ordered pulse slots.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
