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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	c := &Config{}
	require.ErrorContains(t, c.Validate(), "'interval' must be >0")

	c.Interval = 2 * time.Minute
	require.ErrorContains(t, c.Validate(), "'interval' is over a minute")

	c.Interval = 50 * time.Millisecond
	require.ErrorContains(t, c.Validate(), "unknown time source")

	c.TimeSource = "software"
	require.ErrorContains(t, c.Validate(), "'alarmspath' must be specified")

	c.AlarmsPath = "alarms.json"
	require.ErrorContains(t, c.Validate(), "'apiport' must be >0")

	c.APIPort = 8723
	require.NoError(t, c.Validate())

	c.Timezone = "Mars/Olympus_Mons"
	require.ErrorContains(t, c.Validate(), "'timezone'")

	c.Timezone = "America/New_York"
	require.NoError(t, c.Validate())
}

func TestReadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daemon.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
interval: 25ms
timesource: software
alarmspath: /var/lib/betterclock/alarms.json
timezone: America/New_York
monitoringport: 8080
apiport: 9000
discoveryport: 9001
mdns: true
mdnsinstance: kitchen-clock
`), 0644))

	c, err := ReadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 25*time.Millisecond, c.Interval)
	require.Equal(t, "software", c.TimeSource)
	require.Equal(t, "/var/lib/betterclock/alarms.json", c.AlarmsPath)
	require.Equal(t, "America/New_York", c.Timezone)
	require.Equal(t, 8080, c.MonitoringPort)
	require.Equal(t, 9000, c.APIPort)
	require.Equal(t, 9001, c.DiscoveryPort)
	require.True(t, c.MDNS)
	require.Equal(t, "kitchen-clock", c.MDNSInstance)
	require.NoError(t, c.Validate())
}

func TestReadConfigKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daemon.yaml")
	require.NoError(t, os.WriteFile(path, []byte("apiport: 9000\n"), 0644))

	c, err := ReadConfig(path)
	require.NoError(t, err)
	require.Equal(t, DefaultConfig().Interval, c.Interval)
	require.Equal(t, DefaultConfig().TimeSource, c.TimeSource)
	require.Equal(t, 9000, c.APIPort)
}

func TestReadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daemon.yaml")
	require.NoError(t, os.WriteFile(path, []byte("nosuchoption: 1\n"), 0644))

	_, err := ReadConfig(path)
	require.Error(t, err)
}
