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

// Package timesource synthesizes a continuously-available, drift-corrected
// wall-clock estimate at picosecond granularity. The software provider blends
// a monotonic counter with periodic wall-clock resyncs and never lets the
// output regress; the hardware provider is an integration seam for timing
// hardware we don't support yet.
package timesource
