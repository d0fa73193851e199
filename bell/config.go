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
	"fmt"
	"os"
)

// ConfigVersion is the only alarm file version we read or write.
const ConfigVersion = 1

// Config is the parsed on-disk alarm file.
type Config struct {
	Version  int
	Settings Settings
	Alarms   []Alarm
}

type configFile struct {
	Version  int       `json:"version"`
	Settings *Settings `json:"settings"`
	Alarms   []Alarm   `json:"alarms"`
}

// Parse validates and decodes an alarm file. Per-alarm field validation
// happens during unmarshaling; this layer checks the file version and id
// uniqueness.
func Parse(data []byte) (*Config, error) {
	var f configFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid alarm config JSON: %w", err)
	}
	if f.Version != ConfigVersion {
		return nil, fmt.Errorf("unsupported alarm config version %d; expected version %d", f.Version, ConfigVersion)
	}
	seen := make(map[string]bool, len(f.Alarms))
	for _, a := range f.Alarms {
		if seen[a.ID] {
			return nil, fmt.Errorf("duplicate alarm id found: %s", a.ID)
		}
		seen[a.ID] = true
	}
	settings := DefaultSettings()
	if f.Settings != nil {
		settings = *f.Settings
	}
	return &Config{Version: f.Version, Settings: settings, Alarms: f.Alarms}, nil
}

// Load reads and parses the alarm file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read alarm file %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("alarm file %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the alarm file at path in the versioned wire format.
func Save(path string, alarms []Alarm, settings Settings) error {
	if alarms == nil {
		alarms = []Alarm{}
	}
	payload := struct {
		Version  int      `json:"version"`
		Settings Settings `json:"settings"`
		Alarms   []Alarm  `json:"alarms"`
	}{Version: ConfigVersion, Settings: settings, Alarms: alarms}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("unable to write alarm file %s: %w", path, err)
	}
	return nil
}
