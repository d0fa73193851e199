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
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// File format defaults applied when fields are omitted.
const (
	defaultRingDurationMs = 5000
	defaultPulseTimeMs    = 250
)

// Settings control the advisory warning window shared by all alarms.
type Settings struct {
	WarningEnabled     bool   `json:"warning_enabled"`
	WarningLeadTimeMs  uint64 `json:"warning_lead_time_ms"`
	WarningPulseTimeMs uint64 `json:"warning_pulse_time_ms"`
}

// DefaultSettings returns the settings used when the alarm file has none.
func DefaultSettings() Settings {
	return Settings{WarningPulseTimeMs: defaultPulseTimeMs}
}

// UnmarshalJSON applies the pulse time default when the field is omitted.
func (s *Settings) UnmarshalJSON(data []byte) error {
	var raw struct {
		WarningEnabled     bool    `json:"warning_enabled"`
		WarningLeadTimeMs  uint64  `json:"warning_lead_time_ms"`
		WarningPulseTimeMs *uint64 `json:"warning_pulse_time_ms"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.WarningEnabled = raw.WarningEnabled
	s.WarningLeadTimeMs = raw.WarningLeadTimeMs
	s.WarningPulseTimeMs = defaultPulseTimeMs
	if raw.WarningPulseTimeMs != nil {
		s.WarningPulseTimeMs = *raw.WarningPulseTimeMs
	}
	return nil
}

// ScheduleKind tags the schedule union.
type ScheduleKind string

// The two schedule variants.
const (
	OneTime   ScheduleKind = "one_time"
	Recurring ScheduleKind = "recurring"
)

// Schedule is a tagged union: a one-shot naive datetime, or a time of day
// repeated on a set of weekdays. Every switch over Kind must handle both
// variants.
type Schedule struct {
	Kind ScheduleKind
	// DateTime is set for OneTime schedules.
	DateTime LocalDateTime
	// TimeOfDay and Days are set for Recurring schedules; Days is never
	// empty once validated.
	TimeOfDay TimeOfDay
	Days      []time.Weekday
}

// Alarm is the static configuration of one bell.
type Alarm struct {
	ID      string
	Enabled bool
	// AutoAcknowledge is stored and reported but not consulted by the
	// tick auto-clear path; see the scheduler notes.
	AutoAcknowledge bool
	LateTriggerMs   uint64
	RingDurationMs  uint64
	Schedule        Schedule
}

type alarmFile struct {
	ID              string   `json:"id"`
	Enabled         *bool    `json:"enabled"`
	AutoAcknowledge bool     `json:"auto_acknowledge"`
	LateTriggerMs   uint64   `json:"late_trigger_ms"`
	RingDurationMs  *uint64  `json:"ring_duration_ms"`
	Kind            string   `json:"kind"`
	LocalDateTime   string   `json:"local_datetime,omitempty"`
	TimeLocal       string   `json:"time_local,omitempty"`
	DaysOfWeek      []string `json:"days_of_week,omitempty"`
}

// MarshalJSON writes the flattened wire form used by the alarm file and API.
func (a Alarm) MarshalJSON() ([]byte, error) {
	enabled := a.Enabled
	ring := a.RingDurationMs
	f := alarmFile{
		ID:              a.ID,
		Enabled:         &enabled,
		AutoAcknowledge: a.AutoAcknowledge,
		LateTriggerMs:   a.LateTriggerMs,
		RingDurationMs:  &ring,
		Kind:            string(a.Schedule.Kind),
	}
	switch a.Schedule.Kind {
	case OneTime:
		f.LocalDateTime = a.Schedule.DateTime.String()
	case Recurring:
		f.TimeLocal = a.Schedule.TimeOfDay.String()
		f.DaysOfWeek = make([]string, 0, len(a.Schedule.Days))
		for _, day := range a.Schedule.Days {
			f.DaysOfWeek = append(f.DaysOfWeek, weekdayToken(day))
		}
	default:
		return nil, fmt.Errorf("alarm %q has unknown schedule kind %q", a.ID, a.Schedule.Kind)
	}
	return json.Marshal(f)
}

// UnmarshalJSON parses the wire form, applies defaults and validates the
// schedule fields.
func (a *Alarm) UnmarshalJSON(data []byte) error {
	var f alarmFile
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	if f.ID == "" {
		return errors.New("alarm is missing an id")
	}
	enabled := true
	if f.Enabled != nil {
		enabled = *f.Enabled
	}
	ring := uint64(defaultRingDurationMs)
	if f.RingDurationMs != nil {
		ring = *f.RingDurationMs
	}
	if ring == 0 {
		return fmt.Errorf("alarm %q must have ring_duration_ms > 0", f.ID)
	}

	var schedule Schedule
	switch ScheduleKind(f.Kind) {
	case OneTime:
		dt, err := ParseLocalDateTime(f.LocalDateTime)
		if err != nil {
			return fmt.Errorf("alarm %q: %w", f.ID, err)
		}
		schedule = Schedule{Kind: OneTime, DateTime: dt}
	case Recurring:
		tod, err := ParseTimeOfDay(f.TimeLocal)
		if err != nil {
			return fmt.Errorf("alarm %q: %w", f.ID, err)
		}
		if len(f.DaysOfWeek) == 0 {
			return fmt.Errorf("recurring alarm %q must include at least one day_of_week", f.ID)
		}
		days := make([]time.Weekday, 0, len(f.DaysOfWeek))
		for _, token := range f.DaysOfWeek {
			day, err := parseWeekday(token)
			if err != nil {
				return fmt.Errorf("alarm %q: %w", f.ID, err)
			}
			days = append(days, day)
		}
		schedule = Schedule{Kind: Recurring, TimeOfDay: tod, Days: days}
	default:
		return fmt.Errorf("alarm %q has unknown schedule kind %q", f.ID, f.Kind)
	}

	*a = Alarm{
		ID:              f.ID,
		Enabled:         enabled,
		AutoAcknowledge: f.AutoAcknowledge,
		LateTriggerMs:   f.LateTriggerMs,
		RingDurationMs:  ring,
		Schedule:        schedule,
	}
	return nil
}
