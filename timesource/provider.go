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

import "fmt"

// TimeProvider is a clock capability. Implementations must be safe for
// concurrent use and complete every call without blocking on I/O.
type TimeProvider interface {
	// Now returns the current time estimate.
	Now() (TimeSample, error)
	// ResolutionPs is a hint of the provider's resolution in picoseconds.
	ResolutionPs() uint64
	// HardwareBacked reports whether samples come from real timing hardware.
	HardwareBacked() bool
}

// Kind selects which provider implementation to construct.
type Kind string

// Supported provider kinds.
const (
	KindAuto     Kind = "auto"
	KindSoftware Kind = "software"
	KindHardware Kind = "hardware"
)

// ParseKind validates a provider kind from config or flags.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindAuto, KindSoftware, KindHardware:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown time source %q, want %s, %s or %s", s, KindAuto, KindSoftware, KindHardware)
}

// Selected is the outcome of provider selection.
type Selected struct {
	Provider TimeProvider
	Label    string
	// FallbackReason is set when KindAuto degraded to the software engine.
	FallbackReason string
}

// Select constructs the requested provider. Explicit kinds propagate
// construction failures as-is; KindAuto tries hardware first and silently
// degrades to software, recording why.
func Select(kind Kind) (*Selected, error) {
	switch kind {
	case KindSoftware:
		sw, err := NewSoftwareProvider()
		if err != nil {
			return nil, err
		}
		return &Selected{Provider: sw, Label: SourceSoftware}, nil
	case KindHardware:
		hw, err := NewHardwareProvider()
		if err != nil {
			return nil, fmt.Errorf("hardware timing source unavailable: %w", err)
		}
		return &Selected{Provider: hw, Label: SourceHardware}, nil
	case KindAuto:
		hw, err := NewHardwareProvider()
		if err == nil {
			return &Selected{Provider: hw, Label: SourceHardware}, nil
		}
		sw, swErr := NewSoftwareProvider()
		if swErr != nil {
			return nil, swErr
		}
		return &Selected{
			Provider:       sw,
			Label:          SourceSoftware,
			FallbackReason: fmt.Sprintf("hardware provider not detected, using software timing: %v", err),
		}, nil
	}
	return nil, fmt.Errorf("unknown time source %q", kind)
}
