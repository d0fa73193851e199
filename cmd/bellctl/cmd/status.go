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

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/caden4314/BetterClockSystem/bell"
	"github.com/caden4314/BetterClockSystem/daemon"
)

func init() {
	RootCmd.AddCommand(statusCmd)
}

func coloredStatus(status string) string {
	switch bell.Status(status) {
	case bell.StatusTriggered:
		return color.RedString(status)
	case bell.StatusWarning:
		return color.YellowString(status)
	case bell.StatusNext:
		return color.GreenString(status)
	case bell.StatusDisabled:
		return color.HiBlackString(status)
	}
	return status
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print daemon clock source and alarm state",
	Run: func(_ *cobra.Command, _ []string) {
		ConfigureVerbosity()
		var view daemon.StatusView
		if err := apiGet("/status", &view); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("source: %s\n", view.Source)
		if view.FallbackReason != "" {
			fmt.Printf("fallback: %s\n", color.YellowString(view.FallbackReason))
		}
		fmt.Printf("hardware backed: %v\n", view.HardwareBacked)
		fmt.Printf("resolution: %d ps\n", view.ResolutionPs)
		fmt.Printf("timezone: %s\n", view.Timezone)
		for _, a := range view.Alarms {
			line := fmt.Sprintf("alarm %q: %s", a.ID, coloredStatus(a.Status))
			if a.NextOccurrence != "" {
				line += fmt.Sprintf(", next %s", a.NextOccurrence)
			}
			if a.TriggeredUntil != "" {
				line += fmt.Sprintf(", ringing until %s", a.TriggeredUntil)
			}
			fmt.Println(line)
		}
	},
}
