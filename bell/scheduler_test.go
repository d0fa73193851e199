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
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// base is a Monday morning in New York, far from any DST transition.
func schedulerBase(t *testing.T) (time.Time, *time.Location) {
	t.Helper()
	ny := newYork(t)
	return time.Date(2026, time.January, 5, 7, 0, 0, 0, ny), ny
}

func oneTimeAt(id string, at time.Time) Alarm {
	return Alarm{
		ID:             id,
		Enabled:        true,
		RingDurationMs: 5000,
		Schedule:       Schedule{Kind: OneTime, DateTime: LocalDateTimeOf(at)},
	}
}

func recurringAt(id string, at time.Time, ringMs uint64) Alarm {
	return Alarm{
		ID:             id,
		Enabled:        true,
		RingDurationMs: ringMs,
		Schedule: Schedule{
			Kind:      Recurring,
			TimeOfDay: TimeOfDayOf(at),
			Days:      []time.Weekday{at.Weekday()},
		},
	}
}

func TestOneTimeAlarmTriggersExactlyOnce(t *testing.T) {
	base, ny := schedulerBase(t)
	s := NewScheduler([]Alarm{oneTimeAt("once", base.Add(2*time.Second))}, base, ny)

	require.Equal(t, StatusNext, s.Alarms()[0].Status())
	out := s.Tick(base.Add(time.Second))
	require.Equal(t, 0, out.Triggered)

	out = s.Tick(base.Add(3 * time.Second))
	require.Equal(t, 1, out.Triggered)
	require.Equal(t, 0, out.AutoAcknowledged)
	require.Equal(t, StatusTriggered, s.Alarms()[0].Status())

	acknowledged := s.AcknowledgeTriggered(base.Add(3 * time.Second))
	require.Equal(t, 1, acknowledged)
	require.Equal(t, StatusArmed, s.Alarms()[0].Status())

	out = s.Tick(base.Add(13 * time.Second))
	require.Equal(t, 0, out.Triggered)
}

func TestMissedOneTimeAlarmIsSkipped(t *testing.T) {
	base, ny := schedulerBase(t)
	s := NewScheduler([]Alarm{oneTimeAt("past", base.Add(-2*time.Second))}, base, ny)

	require.Equal(t, StatusArmed, s.Alarms()[0].Status())
	out := s.Tick(base.Add(2 * time.Second))
	require.Equal(t, 0, out.Triggered)
}

func TestLateTriggerOffsetDelaysDue(t *testing.T) {
	base, ny := schedulerBase(t)
	alarm := oneTimeAt("late", base.Add(2*time.Second))
	alarm.LateTriggerMs = 1500
	s := NewScheduler([]Alarm{alarm}, base, ny)

	// nominal occurrence passed, late offset not yet
	out := s.Tick(base.Add(2500 * time.Millisecond))
	require.Equal(t, 0, out.Triggered)

	out = s.Tick(base.Add(3500 * time.Millisecond))
	require.Equal(t, 1, out.Triggered)
	require.Equal(t, base.Add(3500*time.Millisecond).Add(5*time.Second), s.Alarms()[0].TriggeredUntil)
}

func TestRecurringAutoClearsAfterRingAndReschedules(t *testing.T) {
	base, ny := schedulerBase(t)
	s := NewScheduler([]Alarm{recurringAt("weekly", base.Add(time.Second), 500)}, base, ny)

	out := s.Tick(base.Add(2 * time.Second))
	require.Equal(t, 1, out.Triggered)
	require.True(t, s.Alarms()[0].Triggered)

	// ring duration elapsed with no acknowledge: clears on its own and the
	// next occurrence lands strictly after the clear instant
	out = s.Tick(base.Add(3 * time.Second))
	require.Equal(t, 0, out.Triggered)
	require.False(t, s.Alarms()[0].Triggered)
	require.Equal(t, StatusNext, s.Alarms()[0].Status())
	require.Equal(t, base.AddDate(0, 0, 7).Add(time.Second), s.Alarms()[0].NextOccurrence)
}

func TestAcknowledgeCutsRingShort(t *testing.T) {
	base, ny := schedulerBase(t)
	s := NewScheduler([]Alarm{recurringAt("weekly", base.Add(time.Second), 5000)}, base, ny)

	out := s.Tick(base.Add(2 * time.Second))
	require.Equal(t, 1, out.Triggered)

	// ring would last until base+6s, acknowledge at base+2.5s
	acknowledged := s.AcknowledgeTriggered(base.Add(2500 * time.Millisecond))
	require.Equal(t, 1, acknowledged)
	require.False(t, s.Alarms()[0].Triggered)
	require.Equal(t, base.AddDate(0, 0, 7).Add(time.Second), s.Alarms()[0].NextOccurrence)

	out = s.Tick(base.Add(3 * time.Second))
	require.Equal(t, 0, out.Triggered)
}

func TestDisabledAlarmIsResetAndSkipped(t *testing.T) {
	base, ny := schedulerBase(t)
	s := NewScheduler([]Alarm{oneTimeAt("off", base.Add(time.Second))}, base, ny)

	out := s.Tick(base.Add(2 * time.Second))
	require.Equal(t, 1, out.Triggered)

	s.Alarms()[0].Alarm.Enabled = false
	out = s.Tick(base.Add(3 * time.Second))
	require.Equal(t, 0, out.Triggered)
	require.False(t, s.Alarms()[0].Triggered)
	require.False(t, s.Alarms()[0].WarningActive)
	require.Equal(t, StatusDisabled, s.Alarms()[0].Status())
}

func TestWarningActivatesInsideLeadWindow(t *testing.T) {
	base, ny := schedulerBase(t)
	s := NewScheduler([]Alarm{oneTimeAt("warn", base.Add(10*time.Second))}, base, ny)
	settings := Settings{WarningEnabled: true, WarningLeadTimeMs: 5000, WarningPulseTimeMs: 250}

	out := s.RefreshWarnings(base.Add(4*time.Second), settings)
	require.Equal(t, 0, out.Active)
	require.Equal(t, 0, out.Pulses)
	require.False(t, s.Alarms()[0].WarningActive)

	out = s.RefreshWarnings(base.Add(6*time.Second), settings)
	require.Equal(t, 1, out.Active)
	require.Equal(t, 1, out.Pulses)
	require.Equal(t, StatusWarning, s.Alarms()[0].Status())
}

func TestWarningPulseCountsOncePerSlot(t *testing.T) {
	base, ny := schedulerBase(t)
	s := NewScheduler([]Alarm{oneTimeAt("pulse", base.Add(10*time.Second))}, base, ny)
	settings := Settings{WarningEnabled: true, WarningLeadTimeMs: 5000, WarningPulseTimeMs: 200}

	first := base.Add(6 * time.Second)
	out := s.RefreshWarnings(first, settings)
	require.Equal(t, 1, out.Active)
	require.Equal(t, 1, out.Pulses)

	// 100ms later, same 200ms slot: no new pulse
	out = s.RefreshWarnings(first.Add(100*time.Millisecond), settings)
	require.Equal(t, 1, out.Active)
	require.Equal(t, 0, out.Pulses)

	// crossing into the next slot pulses again
	out = s.RefreshWarnings(first.Add(200*time.Millisecond), settings)
	require.Equal(t, 1, out.Active)
	require.Equal(t, 1, out.Pulses)
}

func TestWarningWindowMeasuredAgainstLateTrigger(t *testing.T) {
	base, ny := schedulerBase(t)
	alarm := oneTimeAt("late-offset", base.Add(10*time.Second))
	alarm.LateTriggerMs = 5000
	s := NewScheduler([]Alarm{alarm}, base, ny)
	settings := Settings{WarningEnabled: true, WarningLeadTimeMs: 6000, WarningPulseTimeMs: 250}

	// 7s from the effective trigger time (occurrence + 5s), outside the lead
	out := s.RefreshWarnings(base.Add(8*time.Second), settings)
	require.Equal(t, 0, out.Active)

	out = s.RefreshWarnings(base.Add(10*time.Second), settings)
	require.Equal(t, 1, out.Active)
}

func TestWarningsDisabledClearsState(t *testing.T) {
	base, ny := schedulerBase(t)
	s := NewScheduler([]Alarm{oneTimeAt("warn", base.Add(10*time.Second))}, base, ny)
	active := Settings{WarningEnabled: true, WarningLeadTimeMs: 5000, WarningPulseTimeMs: 250}

	out := s.RefreshWarnings(base.Add(6*time.Second), active)
	require.Equal(t, 1, out.Active)

	out = s.RefreshWarnings(base.Add(6*time.Second), Settings{WarningEnabled: false, WarningLeadTimeMs: 5000, WarningPulseTimeMs: 250})
	require.Equal(t, WarningOutcome{}, out)
	require.False(t, s.Alarms()[0].WarningActive)

	// zero lead time behaves like disabled
	out = s.RefreshWarnings(base.Add(6*time.Second), Settings{WarningEnabled: true, WarningPulseTimeMs: 250})
	require.Equal(t, WarningOutcome{}, out)
}

func TestAddAndRemoveAlarms(t *testing.T) {
	base, ny := schedulerBase(t)
	s := NewScheduler(nil, base, ny)
	require.Equal(t, 0, s.Len())

	s.AddAlarm(oneTimeAt("a", base.Add(time.Hour)), base)
	disabled := oneTimeAt("b", base.Add(time.Hour))
	disabled.Enabled = false
	s.AddAlarm(disabled, base)
	require.Equal(t, 2, s.Len())
	require.Equal(t, StatusNext, s.Alarms()[0].Status())
	require.Equal(t, StatusDisabled, s.Alarms()[1].Status())
	require.True(t, s.Alarms()[1].NextOccurrence.IsZero())

	require.Nil(t, s.RemoveAlarmAt(5))
	require.Nil(t, s.RemoveAlarmAt(-1))
	removed := s.RemoveAlarmAt(0)
	require.NotNil(t, removed)
	require.Equal(t, "a", removed.ID)
	require.Equal(t, 1, s.Len())

	exported := s.ExportAlarms()
	require.Len(t, exported, 1)
	require.Equal(t, "b", exported[0].ID)
}

func TestExhaustedOneTimeNeverRecurs(t *testing.T) {
	base, ny := schedulerBase(t)
	s := NewScheduler([]Alarm{oneTimeAt("once", base.Add(time.Second))}, base, ny)

	out := s.Tick(base.Add(2 * time.Second))
	require.Equal(t, 1, out.Triggered)

	// let the full ring elapse without acknowledging
	out = s.Tick(base.Add(10 * time.Second))
	require.Equal(t, 0, out.Triggered)
	require.False(t, s.Alarms()[0].Triggered)
	require.True(t, s.Alarms()[0].NextOccurrence.IsZero())

	out = s.Tick(base.Add(time.Hour))
	require.Equal(t, 0, out.Triggered)
}
