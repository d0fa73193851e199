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

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/caden4314/BetterClockSystem/daemon"
)

func main() {
	var (
		cfg     = daemon.DefaultConfig()
		err     error
		cfgPath string
		verbose bool
	)

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "betterclock daemon\n\nFlags:\n")
		flag.PrintDefaults()
	}

	flag.DurationVar(&cfg.Interval, "i", cfg.Interval, "Interval at which we sample the clock and advance alarm state")
	flag.StringVar(&cfg.TimeSource, "timesource", cfg.TimeSource, "Time source to use: auto, software or hardware")
	flag.StringVar(&cfg.AlarmsPath, "alarms", cfg.AlarmsPath, "Path to the JSON alarm file")
	flag.StringVar(&cfg.Timezone, "timezone", cfg.Timezone, "IANA timezone for alarm resolution, empty means system local")
	flag.IntVar(&cfg.MonitoringPort, "monitoringport", cfg.MonitoringPort, "Port to run monitoring server on, 0 disables")
	flag.IntVar(&cfg.APIPort, "apiport", cfg.APIPort, "Port to run the control api on")
	flag.IntVar(&cfg.DiscoveryPort, "discoveryport", cfg.DiscoveryPort, "Port to answer discovery probes on, 0 disables")
	flag.BoolVar(&cfg.MDNS, "mdns", cfg.MDNS, "Advertise the api over multicast dns")

	flag.StringVar(&cfgPath, "cfg", "", "Path to config")
	flag.BoolVar(&verbose, "verbose", false, "Verbose logging")

	flag.Parse()

	log.SetReportCaller(true)
	if verbose {
		log.SetLevel(log.DebugLevel)
	}
	if cfgPath != "" {
		log.Warningf("using config from %s, flag values are ignored", cfgPath)
		cfg, err = daemon.ReadConfig(cfgPath)
		if err != nil {
			log.Fatal(err)
		}
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	log.Debugf("Config: %+v", *cfg)

	stats := daemon.NewJSONStats()
	d, err := daemon.New(cfg, stats)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := d.Run(ctx); err != nil && err != context.Canceled {
		log.Fatal(err)
	}
}
