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
	"net"

	log "github.com/sirupsen/logrus"
	mdns "github.com/vanadium/go-mdns-sd"

	"github.com/caden4314/BetterClockSystem/bell"
)

// DiscoveryProbe is the datagram clients broadcast to find a running daemon.
const DiscoveryProbe = "BETTERCLOCK_DISCOVER?"

// mdnsService is the service name we advertise over multicast dns.
const mdnsService = "betterclock"

// Announcement is the reply to a discovery probe.
type Announcement struct {
	Service string `json:"service"`
	APIPort int    `json:"api_port"`
	Version int    `json:"version"`
}

// serveDiscovery answers broadcast probes on the discovery port so clients on
// the same lan can locate the api without configuration. When enabled it also
// registers an mdns service pointing at the api port.
func (d *Daemon) serveDiscovery(ctx context.Context) error {
	conn, err := net.ListenPacket("udp", fmt.Sprintf(":%d", d.cfg.DiscoveryPort))
	if err != nil {
		return fmt.Errorf("discovery listener: %w", err)
	}
	log.Infof("Starting discovery responder on %s", conn.LocalAddr())

	if d.cfg.MDNS {
		m, err := mdns.NewMDNS(d.cfg.MDNSInstance, "", "", false, 0)
		if err != nil {
			log.Errorf("mdns startup failed: %v", err)
		} else {
			txt := fmt.Sprintf("api_port=%d", d.cfg.APIPort)
			if err := m.AddService(mdnsService, "", uint16(d.cfg.APIPort), txt); err != nil {
				log.Errorf("mdns service registration failed: %v", err)
			}
			defer m.Stop()
		}
	}

	reply, err := json.Marshal(Announcement{
		Service: mdnsService,
		APIPort: d.cfg.APIPort,
		Version: bell.ConfigVersion,
	})
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	buf := make([]byte, 512)
	for {
		n, addr, err := conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		if string(buf[:n]) != DiscoveryProbe {
			continue
		}
		if _, err := conn.WriteTo(reply, addr); err != nil {
			log.Errorf("discovery reply to %s: %v", addr, err)
		}
	}
}
