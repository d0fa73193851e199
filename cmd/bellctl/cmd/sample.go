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

package cmd

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/caden4314/BetterClockSystem/daemon"
)

func init() {
	RootCmd.AddCommand(sampleCmd)
}

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Take one clock sample from the daemon",
	Run: func(_ *cobra.Command, _ []string) {
		ConfigureVerbosity()
		var view daemon.SampleView
		if err := apiGet("/sample", &view); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%d.%09d%03d %s (measured picos: %v)\n",
			view.UnixSeconds, view.Nanos, view.Picos, view.Source, view.MeasuredPicos)
		fmt.Printf("local: %s\n", view.Local)
	},
}
