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

// elapsedCounter measures time since its own creation using the best
// free-running counter the platform offers. Implementations are selected at
// build time; see counter_generic.go and counter_windows.go.
type elapsedCounter interface {
	// Elapsed returns the time passed since the counter was created.
	Elapsed() (pico, error)
	// TickPs returns the duration of one coarse counter tick in picoseconds.
	TickPs() int64
}
