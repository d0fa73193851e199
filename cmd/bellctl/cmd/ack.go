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
)

func init() {
	RootCmd.AddCommand(ackCmd)
}

var ackCmd = &cobra.Command{
	Use:   "ack",
	Short: "Acknowledge all ringing alarms",
	Run: func(_ *cobra.Command, _ []string) {
		ConfigureVerbosity()
		var out struct {
			Acknowledged int `json:"acknowledged"`
		}
		if err := apiPost("/acknowledge", nil, &out); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("acknowledged %d alarm(s)\n", out.Acknowledged)
	},
}
