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

import "time"

// recurringScanDays bounds the forward scan for the next recurring
// occurrence. Two weeks covers any weekday set plus a skipped DST gap day.
const recurringScanDays = 14

// resolveLocal maps a naive local datetime onto an absolute instant in loc.
// A local time made ambiguous by a DST fall-back resolves to the earlier of
// the two instants; a local time that does not exist (spring-forward gap)
// resolves to nothing.
//
// time.Date alone picks an arbitrary side of a transition, so candidates are
// built explicitly from the zone offsets in force around the target and
// checked by round-trip.
func resolveLocal(d LocalDateTime, loc *time.Location) (time.Time, bool) {
	naive := time.Date(d.Year, d.Month, d.Day, d.Hour, d.Minute, d.Second, d.Nanosecond, time.UTC)
	_, offBefore := naive.Add(-24 * time.Hour).In(loc).Zone()
	_, offAfter := naive.Add(24 * time.Hour).In(loc).Zone()

	var resolved time.Time
	found := false
	consider := func(offset int) {
		candidate := naive.Add(-time.Duration(offset) * time.Second).In(loc)
		if LocalDateTimeOf(candidate) != d {
			return
		}
		if !found || candidate.Before(resolved) {
			resolved = candidate
			found = true
		}
	}
	consider(offBefore)
	if offAfter != offBefore {
		consider(offAfter)
	}
	return resolved, found
}

// nextOccurrence computes the next instant strictly after now at which the
// alarm's schedule matches, or reports that there is none. Missed occurrences
// are dropped, never caught up retroactively.
func nextOccurrence(a Alarm, now time.Time, loc *time.Location) (time.Time, bool) {
	switch a.Schedule.Kind {
	case OneTime:
		candidate, ok := resolveLocal(a.Schedule.DateTime, loc)
		if !ok || !candidate.After(now) {
			return time.Time{}, false
		}
		return candidate, true
	case Recurring:
		return nextRecurring(a.Schedule.TimeOfDay, a.Schedule.Days, now, loc)
	}
	return time.Time{}, false
}

func nextRecurring(tod TimeOfDay, days []time.Weekday, now time.Time, loc *time.Location) (time.Time, bool) {
	local := now.In(loc)
	for offset := 0; offset < recurringScanDays; offset++ {
		date := local.AddDate(0, 0, offset)
		if !containsWeekday(days, date.Weekday()) {
			continue
		}
		naive := LocalDateTime{
			Year:       date.Year(),
			Month:      date.Month(),
			Day:        date.Day(),
			Hour:       tod.Hour,
			Minute:     tod.Minute,
			Second:     tod.Second,
			Nanosecond: tod.Nanosecond,
		}
		candidate, ok := resolveLocal(naive, loc)
		if !ok {
			// the local time does not exist on this date, try next match
			continue
		}
		if candidate.After(now) {
			return candidate, true
		}
	}
	return time.Time{}, false
}

func containsWeekday(days []time.Weekday, day time.Weekday) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}
