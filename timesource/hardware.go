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

import "errors"

// ErrNoTimingHardware is returned while no hardware timestamping backend is
// implemented.
var ErrNoTimingHardware = errors.New("no supported timing hardware detected")

// HardwareProvider is the integration seam for a future timing card backend.
// Construction always fails today; the type exists so provider selection and
// labeling are already correct when a real implementation lands.
type HardwareProvider struct{}

// NewHardwareProvider always fails.
func NewHardwareProvider() (*HardwareProvider, error) {
	return nil, ErrNoTimingHardware
}

// Now always fails.
func (p *HardwareProvider) Now() (TimeSample, error) {
	return TimeSample{}, ErrNoTimingHardware
}

// ResolutionPs would be the card's measured resolution.
func (p *HardwareProvider) ResolutionPs() uint64 {
	return 1
}

// HardwareBacked is true so a future real implementation is labeled
// correctly.
func (p *HardwareProvider) HardwareBacked() bool {
	return true
}
