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

package daemon

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"

	"github.com/caden4314/BetterClockSystem/timesource"
)

// Config represents configuration we expect to read from file
type Config struct {
	Interval       time.Duration // how often we sample the clock and advance alarms
	TimeSource     string        // auto, software or hardware
	AlarmsPath     string        // versioned JSON alarm file
	Timezone       string        // IANA zone for alarm resolution, empty means system local
	MonitoringPort int           // json counters + prometheus, 0 disables
	APIPort        int           // http control api
	DiscoveryPort  int           // udp discovery responder, 0 disables
	MDNS           bool          // additionally advertise the api over mdns
	MDNSInstance   string        // instance name for the mdns advertisement
}

// DefaultConfig returns Config initialized with the defaults we ship.
func DefaultConfig() *Config {
	return &Config{
		Interval:      50 * time.Millisecond,
		TimeSource:    string(timesource.KindAuto),
		AlarmsPath:    "alarms.json",
		APIPort:       8723,
		DiscoveryPort: 8724,
		MDNSInstance:  "betterclock",
	}
}

// Validate makes sure config is usable before we start anything.
func (c *Config) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("bad config: 'interval' must be >0")
	}
	if c.Interval > time.Minute {
		return fmt.Errorf("bad config: 'interval' is over a minute")
	}
	if _, err := timesource.ParseKind(c.TimeSource); err != nil {
		return fmt.Errorf("bad config: %w", err)
	}
	if c.AlarmsPath == "" {
		return fmt.Errorf("bad config: 'alarmspath' must be specified")
	}
	if c.APIPort <= 0 {
		return fmt.Errorf("bad config: 'apiport' must be >0")
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("bad config: 'timezone': %w", err)
		}
	}
	return nil
}

// ReadConfig reads config and unmarshals it from yaml into Config
func ReadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := DefaultConfig()
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return nil, err
	}
	return c, nil
}
