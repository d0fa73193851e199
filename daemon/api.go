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

package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/caden4314/BetterClockSystem/bell"
)

// AlarmView is the per-alarm slice of a status response.
type AlarmView struct {
	ID             string `json:"id"`
	Enabled        bool   `json:"enabled"`
	Status         string `json:"status"`
	NextOccurrence string `json:"next_occurrence,omitempty"`
	TriggeredUntil string `json:"triggered_until,omitempty"`
	WarningActive  bool   `json:"warning_active"`
}

// StatusView is the GET /status response.
type StatusView struct {
	Source         string      `json:"source"`
	FallbackReason string      `json:"fallback_reason,omitempty"`
	HardwareBacked bool        `json:"hardware_backed"`
	ResolutionPs   uint64      `json:"resolution_ps"`
	Timezone       string      `json:"timezone"`
	Alarms         []AlarmView `json:"alarms"`
}

// SampleView is the GET /sample response.
type SampleView struct {
	UnixSeconds   int64  `json:"unix_seconds"`
	Nanos         uint32 `json:"nanos"`
	Picos         uint32 `json:"picos"`
	Source        string `json:"source"`
	MeasuredPicos bool   `json:"measured_picos"`
	Local         string `json:"local"`
}

func (d *Daemon) apiMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", d.handleStatus)
	mux.HandleFunc("/sample", d.handleSample)
	mux.HandleFunc("/alarms", d.handleAlarms)
	mux.HandleFunc("/acknowledge", d.handleAcknowledge)
	return mux
}

func (d *Daemon) serveAPI(ctx context.Context) error {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", d.cfg.APIPort),
		Handler: d.apiMux(),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Errorf("api shutdown: %v", err)
		}
	}()
	log.Infof("Starting control api on %s", server.Addr)
	err := server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (d *Daemon) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	view := StatusView{
		Source:         d.sel.Label,
		FallbackReason: d.sel.FallbackReason,
		HardwareBacked: d.sel.Provider.HardwareBacked(),
		ResolutionPs:   d.sel.Provider.ResolutionPs(),
		Timezone:       d.loc.String(),
	}
	d.mux.Lock()
	for _, ra := range d.sched.Alarms() {
		av := AlarmView{
			ID:            ra.Alarm.ID,
			Enabled:       ra.Alarm.Enabled,
			Status:        string(ra.Status()),
			WarningActive: ra.WarningActive,
		}
		if !ra.NextOccurrence.IsZero() {
			av.NextOccurrence = ra.NextOccurrence.Format(time.RFC3339Nano)
		}
		if !ra.TriggeredUntil.IsZero() {
			av.TriggeredUntil = ra.TriggeredUntil.Format(time.RFC3339Nano)
		}
		view.Alarms = append(view.Alarms, av)
	}
	d.mux.Unlock()
	writeJSON(w, view)
}

func (d *Daemon) handleSample(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sample, err := d.sel.Provider.Now()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, SampleView{
		UnixSeconds:   sample.UnixSeconds,
		Nanos:         sample.Nanos,
		Picos:         sample.Picos,
		Source:        sample.Source,
		MeasuredPicos: sample.MeasuredPicos,
		Local:         sample.Local(d.loc).Format(time.RFC3339Nano),
	})
}

func (d *Daemon) handleAlarms(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		d.mux.Lock()
		alarms := d.sched.ExportAlarms()
		settings := d.settings
		d.mux.Unlock()
		writeJSON(w, struct {
			Settings bell.Settings `json:"settings"`
			Alarms   []bell.Alarm  `json:"alarms"`
		}{Settings: settings, Alarms: alarms})
	case http.MethodPost:
		d.addAlarm(w, r)
	case http.MethodDelete:
		d.removeAlarm(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (d *Daemon) addAlarm(w http.ResponseWriter, r *http.Request) {
	var alarm bell.Alarm
	if err := json.NewDecoder(r.Body).Decode(&alarm); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sample, err := d.sel.Provider.Now()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	d.mux.Lock()
	defer d.mux.Unlock()
	for _, existing := range d.sched.Alarms() {
		if existing.Alarm.ID == alarm.ID {
			http.Error(w, fmt.Sprintf("duplicate alarm id found: %s", alarm.ID), http.StatusConflict)
			return
		}
	}
	d.sched.AddAlarm(alarm, sample.Local(d.loc))
	if err := d.persist(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	d.stats.SetCounter(CounterAlarms, int64(d.sched.Len()))
	log.Infof("added alarm %q", alarm.ID)
	writeJSON(w, alarm)
}

func (d *Daemon) removeAlarm(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.URL.Query().Get("index"))
	if err != nil {
		http.Error(w, "invalid index", http.StatusBadRequest)
		return
	}
	d.mux.Lock()
	defer d.mux.Unlock()
	removed := d.sched.RemoveAlarmAt(index)
	if removed == nil {
		http.Error(w, fmt.Sprintf("no alarm at index %d", index), http.StatusNotFound)
		return
	}
	if err := d.persist(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	d.stats.SetCounter(CounterAlarms, int64(d.sched.Len()))
	log.Infof("removed alarm %q", removed.ID)
	writeJSON(w, removed)
}

func (d *Daemon) handleAcknowledge(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sample, err := d.sel.Provider.Now()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	d.mux.Lock()
	acknowledged := d.sched.AcknowledgeTriggered(sample.Local(d.loc))
	d.mux.Unlock()
	d.stats.UpdateCounterBy(CounterAcknowledged, int64(acknowledged))
	writeJSON(w, struct {
		Acknowledged int `json:"acknowledged"`
	}{Acknowledged: acknowledged})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("Failed to reply: %v", err)
	}
}
