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
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/caden4314/BetterClockSystem/bell"
)

func init() {
	RootCmd.AddCommand(alarmsCmd)
	RootCmd.AddCommand(addCmd)
	RootCmd.AddCommand(delCmd)
	addCmd.Flags().StringVarP(&addFileFlag, "file", "f", "", "read the alarm JSON from this file instead of the argument")
}

var addFileFlag string

type alarmsResponse struct {
	Settings bell.Settings `json:"settings"`
	Alarms   []bell.Alarm  `json:"alarms"`
}

func scheduleColumns(s bell.Schedule) (kind, when, days string) {
	switch s.Kind {
	case bell.OneTime:
		return string(s.Kind), s.DateTime.String(), "-"
	case bell.Recurring:
		tokens := make([]string, 0, len(s.Days))
		for _, day := range s.Days {
			tokens = append(tokens, day.String()[:3])
		}
		return string(s.Kind), s.TimeOfDay.String(), strings.Join(tokens, ",")
	}
	return string(s.Kind), "?", "?"
}

func renderAlarms(w io.Writer, alarms []bell.Alarm) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "id", "enabled", "kind", "when", "days", "ring", "late"})
	for i, a := range alarms {
		kind, when, days := scheduleColumns(a.Schedule)
		if err := table.Append([]string{
			strconv.Itoa(i),
			a.ID,
			strconv.FormatBool(a.Enabled),
			kind,
			when,
			days,
			(time.Duration(a.RingDurationMs) * time.Millisecond).String(),
			(time.Duration(a.LateTriggerMs) * time.Millisecond).String(),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

var alarmsCmd = &cobra.Command{
	Use:   "alarms",
	Short: "List configured alarms",
	Run: func(_ *cobra.Command, _ []string) {
		ConfigureVerbosity()
		var resp alarmsResponse
		if err := apiGet("/alarms", &resp); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("warnings: enabled=%v lead=%s pulse=%s\n",
			resp.Settings.WarningEnabled,
			time.Duration(resp.Settings.WarningLeadTimeMs)*time.Millisecond,
			time.Duration(resp.Settings.WarningPulseTimeMs)*time.Millisecond)

		if err := renderAlarms(os.Stdout, resp.Alarms); err != nil {
			log.Fatal(err)
		}
	},
}

var addCmd = &cobra.Command{
	Use:   "add [alarm JSON]",
	Short: "Add an alarm from its JSON definition",
	Args:  cobra.MaximumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		ConfigureVerbosity()
		var body []byte
		switch {
		case addFileFlag != "":
			data, err := os.ReadFile(addFileFlag)
			if err != nil {
				log.Fatal(err)
			}
			body = data
		case len(args) == 1:
			body = []byte(args[0])
		default:
			log.Fatal("provide the alarm JSON as an argument or via --file")
		}
		var added bell.Alarm
		if err := apiPost("/alarms", body, &added); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("added alarm %q\n", added.ID)
	},
}

var delCmd = &cobra.Command{
	Use:   "del <index>",
	Short: "Delete the alarm at the given index (see 'alarms')",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		ConfigureVerbosity()
		index, err := strconv.Atoi(args[0])
		if err != nil {
			log.Fatalf("invalid index %q", args[0])
		}
		if err := apiDelete(fmt.Sprintf("/alarms?index=%d", index)); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("deleted alarm at index %d\n", index)
	},
}
