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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelectSoftware(t *testing.T) {
	sel, err := Select(KindSoftware)
	require.NoError(t, err)
	require.Equal(t, SourceSoftware, sel.Label)
	require.Empty(t, sel.FallbackReason)
	require.False(t, sel.Provider.HardwareBacked())
}

func TestSelectHardwareUnavailable(t *testing.T) {
	_, err := Select(KindHardware)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrNoTimingHardware)
}

func TestSelectAutoFallsBackToSoftware(t *testing.T) {
	sel, err := Select(KindAuto)
	require.NoError(t, err)
	require.Equal(t, SourceSoftware, sel.Label)
	require.NotEmpty(t, sel.FallbackReason)

	s, err := sel.Provider.Now()
	require.NoError(t, err)
	require.Equal(t, SourceSoftware, s.Source)
}

func TestSelectUnknownKind(t *testing.T) {
	_, err := Select(Kind("quartz"))
	require.Error(t, err)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("auto")
	require.NoError(t, err)
	require.Equal(t, KindAuto, k)
	_, err = ParseKind("sundial")
	require.Error(t, err)
}

func TestSampleValidate(t *testing.T) {
	good := TimeSample{UnixSeconds: 1, Nanos: 999_999_999, Picos: 999}
	require.NoError(t, good.Validate())
	require.Error(t, TimeSample{Nanos: 1_000_000_000}.Validate())
	require.Error(t, TimeSample{Picos: 1000}.Validate())
}

func TestSampleLocal(t *testing.T) {
	s := TimeSample{UnixSeconds: 1_700_000_000, Nanos: 123_456_789, Picos: 42}
	local := s.Local(nil)
	require.Equal(t, int64(1_700_000_000), local.Unix())
	require.Equal(t, 123_456_789, local.Nanosecond())
}
