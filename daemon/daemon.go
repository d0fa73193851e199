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

// Package daemon ties the clock engine and the alarm scheduler into a long
// running service: a tick loop advancing alarm state from clock samples, an
// http control api, monitoring counters and lan discovery.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/caden4314/BetterClockSystem/bell"
	"github.com/caden4314/BetterClockSystem/timesource"
)

// Daemon is the assembled service. The scheduler is single-owner, so every
// access to it (tick loop and api handlers alike) goes through mux.
type Daemon struct {
	cfg   *Config
	stats *JSONStats
	sel   *timesource.Selected
	loc   *time.Location

	mux      sync.Mutex
	sched    *bell.Scheduler
	settings bell.Settings
}

// New selects a time provider, loads the alarm file and builds the daemon.
// A missing alarm file is not an error: we start empty and create it on the
// first mutation.
func New(cfg *Config, stats *JSONStats) (*Daemon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	kind, err := timesource.ParseKind(cfg.TimeSource)
	if err != nil {
		return nil, err
	}
	sel, err := timesource.Select(kind)
	if err != nil {
		return nil, err
	}
	if sel.FallbackReason != "" {
		log.Warning(sel.FallbackReason)
	}

	loc := time.Local
	if cfg.Timezone != "" {
		loc, err = time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("loading timezone %q: %w", cfg.Timezone, err)
		}
	}

	settings := bell.DefaultSettings()
	var alarms []bell.Alarm
	alarmCfg, err := bell.Load(cfg.AlarmsPath)
	switch {
	case err == nil:
		settings = alarmCfg.Settings
		alarms = alarmCfg.Alarms
	case errors.Is(err, os.ErrNotExist):
		log.Warningf("alarm file %s does not exist, starting with no alarms", cfg.AlarmsPath)
	default:
		return nil, err
	}

	sample, err := sel.Provider.Now()
	if err != nil {
		return nil, fmt.Errorf("initial clock sample: %w", err)
	}
	d := &Daemon{
		cfg:      cfg,
		stats:    stats,
		sel:      sel,
		loc:      loc,
		sched:    bell.NewScheduler(alarms, sample.Local(loc), loc),
		settings: settings,
	}
	stats.SetCounter(CounterAlarms, int64(d.sched.Len()))
	stats.SetCounter(CounterResolutionPs, int64(sel.Provider.ResolutionPs()))
	if sel.Provider.HardwareBacked() {
		stats.SetCounter(CounterHardwareBacked, 1)
	} else {
		stats.SetCounter(CounterHardwareBacked, 0)
	}
	log.Infof("time source: %s, resolution %d ps", sel.Label, sel.Provider.ResolutionPs())
	return d, nil
}

// Run drives the daemon until ctx is cancelled or a component fails.
func (d *Daemon) Run(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		return d.tickLoop(ctx)
	})
	eg.Go(func() error {
		return d.serveAPI(ctx)
	})
	if d.cfg.MonitoringPort > 0 {
		eg.Go(func() error {
			return d.stats.Serve(ctx, d.cfg.MonitoringPort)
		})
	}
	if d.cfg.DiscoveryPort > 0 {
		eg.Go(func() error {
			return d.serveDiscovery(ctx)
		})
	}
	return eg.Wait()
}

func (d *Daemon) tickLoop(ctx context.Context) error {
	ticker := time.NewTicker(d.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := d.doTick(); err != nil {
				d.stats.UpdateCounterBy(CounterTickErrors, 1)
				log.Errorf("tick: %v", err)
			}
		}
	}
}

// doTick takes one clock sample and advances the scheduler to it.
func (d *Daemon) doTick() error {
	sample, err := d.sel.Provider.Now()
	if err != nil {
		return err
	}
	now := sample.Local(d.loc)

	d.mux.Lock()
	tickOut := d.sched.Tick(now)
	warnOut := d.sched.RefreshWarnings(now, d.settings)
	alarms := d.sched.Len()
	d.mux.Unlock()

	d.stats.UpdateCounterBy(CounterTicks, 1)
	d.stats.UpdateCounterBy(CounterTriggered, int64(tickOut.Triggered))
	d.stats.UpdateCounterBy(CounterAutoAcknowledged, int64(tickOut.AutoAcknowledged))
	d.stats.UpdateCounterBy(CounterWarningPulses, int64(warnOut.Pulses))
	d.stats.SetCounter(CounterWarningActive, int64(warnOut.Active))
	d.stats.SetCounter(CounterAlarms, int64(alarms))
	if tickOut.Triggered > 0 {
		log.Infof("%d alarm(s) triggered at %s", tickOut.Triggered, now)
	}
	return nil
}

// persist writes the current alarm set back to the alarm file.
// Caller must hold d.mux.
func (d *Daemon) persist() error {
	return bell.Save(d.cfg.AlarmsPath, d.sched.ExportAlarms(), d.settings)
}
