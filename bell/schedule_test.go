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

func newYork(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return loc
}

func TestResolveLocalPlainTime(t *testing.T) {
	ny := newYork(t)
	resolved, ok := resolveLocal(LocalDateTime{Year: 2026, Month: time.January, Day: 5, Hour: 7, Minute: 30}, ny)
	require.True(t, ok)
	require.Equal(t, time.Date(2026, time.January, 5, 7, 30, 0, 0, ny), resolved)
}

func TestResolveLocalSpringForwardGap(t *testing.T) {
	// 02:30 on 2026-03-08 does not exist in New York, clocks jump 02:00->03:00
	ny := newYork(t)
	_, ok := resolveLocal(LocalDateTime{Year: 2026, Month: time.March, Day: 8, Hour: 2, Minute: 30}, ny)
	require.False(t, ok)
}

func TestResolveLocalFallBackPicksEarlierInstant(t *testing.T) {
	// 01:30 on 2026-11-01 happens twice in New York, first in EDT then in EST
	ny := newYork(t)
	resolved, ok := resolveLocal(LocalDateTime{Year: 2026, Month: time.November, Day: 1, Hour: 1, Minute: 30}, ny)
	require.True(t, ok)
	_, offset := resolved.Zone()
	require.Equal(t, -4*3600, offset)
	require.Equal(t, time.Date(2026, time.November, 1, 5, 30, 0, 0, time.UTC), resolved.UTC())
}

func TestOneTimeInGapHasNoOccurrence(t *testing.T) {
	ny := newYork(t)
	alarm := Alarm{
		ID:             "gap",
		Enabled:        true,
		RingDurationMs: 5000,
		Schedule: Schedule{
			Kind:     OneTime,
			DateTime: LocalDateTime{Year: 2026, Month: time.March, Day: 8, Hour: 2, Minute: 30},
		},
	}
	now := time.Date(2026, time.March, 7, 12, 0, 0, 0, ny)
	_, ok := nextOccurrence(alarm, now, ny)
	require.False(t, ok)
}

func TestRecurringSkipsGapDate(t *testing.T) {
	ny := newYork(t)
	alarm := Alarm{
		ID:             "spring",
		Enabled:        true,
		RingDurationMs: 5000,
		Schedule: Schedule{
			Kind:      Recurring,
			TimeOfDay: TimeOfDay{Hour: 2, Minute: 30},
			Days:      []time.Weekday{time.Sunday},
		},
	}
	now := time.Date(2026, time.March, 8, 0, 30, 0, 0, ny)
	next, ok := nextOccurrence(alarm, now, ny)
	require.True(t, ok)
	require.Equal(t, time.Date(2026, time.March, 15, 2, 30, 0, 0, ny), next)
}

func TestRecurringSameDayLaterTime(t *testing.T) {
	ny := newYork(t)
	now := time.Date(2026, time.January, 5, 7, 0, 0, 0, ny) // a Monday
	alarm := Alarm{
		ID:             "tonight",
		Enabled:        true,
		RingDurationMs: 5000,
		Schedule: Schedule{
			Kind:      Recurring,
			TimeOfDay: TimeOfDay{Hour: 23, Minute: 59, Second: 59},
			Days:      []time.Weekday{time.Monday},
		},
	}
	next, ok := nextOccurrence(alarm, now, ny)
	require.True(t, ok)
	require.Equal(t, time.Date(2026, time.January, 5, 23, 59, 59, 0, ny), next)
}

func TestRecurringIsStrictlyAfterNow(t *testing.T) {
	ny := newYork(t)
	now := time.Date(2026, time.January, 5, 8, 0, 0, 0, ny)
	alarm := Alarm{
		ID:             "exact",
		Enabled:        true,
		RingDurationMs: 5000,
		Schedule: Schedule{
			Kind:      Recurring,
			TimeOfDay: TimeOfDay{Hour: 8},
			Days:      []time.Weekday{time.Monday},
		},
	}
	next, ok := nextOccurrence(alarm, now, ny)
	require.True(t, ok)
	require.Equal(t, time.Date(2026, time.January, 12, 8, 0, 0, 0, ny), next)
}

func TestPastOneTimeHasNoOccurrence(t *testing.T) {
	ny := newYork(t)
	now := time.Date(2026, time.January, 5, 8, 0, 0, 0, ny)
	alarm := Alarm{
		ID:             "past",
		Enabled:        true,
		RingDurationMs: 5000,
		Schedule: Schedule{
			Kind:     OneTime,
			DateTime: LocalDateTime{Year: 2026, Month: time.January, Day: 5, Hour: 7},
		},
	}
	_, ok := nextOccurrence(alarm, now, ny)
	require.False(t, ok)
}
