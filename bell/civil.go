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
	"fmt"
	"time"
)

// Wire formats for naive datetimes. The fractional part is optional on input
// and always written with nanosecond width on output.
const (
	dateTimeLayout  = "2006-01-02T15:04:05.999999999"
	timeOfDayLayout = "15:04:05.999999999"
)

// LocalDateTime is a naive calendar datetime with no timezone attached.
// Resolution against a concrete zone happens at scheduling time.
type LocalDateTime struct {
	Year       int
	Month      time.Month
	Day        int
	Hour       int
	Minute     int
	Second     int
	Nanosecond int
}

// ParseLocalDateTime parses an ISO local datetime like
// "2026-02-07T07:30:00.000000000" (fraction optional).
func ParseLocalDateTime(s string) (LocalDateTime, error) {
	t, err := time.Parse(dateTimeLayout, s)
	if err != nil {
		return LocalDateTime{}, fmt.Errorf("invalid local_datetime %q, expected ISO local datetime", s)
	}
	return LocalDateTimeOf(t), nil
}

// LocalDateTimeOf strips the zone off t.
func LocalDateTimeOf(t time.Time) LocalDateTime {
	return LocalDateTime{
		Year:       t.Year(),
		Month:      t.Month(),
		Day:        t.Day(),
		Hour:       t.Hour(),
		Minute:     t.Minute(),
		Second:     t.Second(),
		Nanosecond: t.Nanosecond(),
	}
}

func (d LocalDateTime) String() string {
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d.%09d",
		d.Year, int(d.Month), d.Day, d.Hour, d.Minute, d.Second, d.Nanosecond)
}

// TimeOfDay is a naive wall-clock time used by recurring schedules.
type TimeOfDay struct {
	Hour       int
	Minute     int
	Second     int
	Nanosecond int
}

// ParseTimeOfDay parses "HH:MM:SS" with an optional nanosecond fraction.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse(timeOfDayLayout, s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time_local %q, expected HH:MM:SS(.nnnnnnnnn)", s)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(), Nanosecond: t.Nanosecond()}, nil
}

// TimeOfDayOf strips the date and zone off t.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(), Nanosecond: t.Nanosecond()}
}

func (d TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d.%09d", d.Hour, d.Minute, d.Second, d.Nanosecond)
}

var weekdayTokens = map[time.Weekday]string{
	time.Monday:    "Mon",
	time.Tuesday:   "Tue",
	time.Wednesday: "Wed",
	time.Thursday:  "Thu",
	time.Friday:    "Fri",
	time.Saturday:  "Sat",
	time.Sunday:    "Sun",
}

func parseWeekday(token string) (time.Weekday, error) {
	for day, tok := range weekdayTokens {
		if tok == token {
			return day, nil
		}
	}
	return 0, fmt.Errorf("invalid day_of_week %q", token)
}

func weekdayToken(day time.Weekday) string {
	return weekdayTokens[day]
}
