// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package webapp

import (
	"os"

	"rivaas.dev/webapp/config"
)

// FromConfig builds an App from a loaded configuration. Options passed
// explicitly are applied after the configuration, so they win over it.
//
// The configuration's static prefix and public directories, if set, are
// registered with Static before the App is returned.
//
// Example:
//
//	cfg, err := config.Load("webapp.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	a, err := webapp.FromConfig(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	a.GET("/", home)
//	a.Serve(cfg.Addr)
func FromConfig(cfg *config.Config, opts ...Option) (*App, error) {
	base := []Option{
		WithLogger(cfg.Logging.NewLogger(os.Stderr)),
		WithH2C(cfg.H2C),
		WithServerTimeouts(
			cfg.Timeouts.ReadHeader,
			cfg.Timeouts.Read,
			cfg.Timeouts.Write,
			cfg.Timeouts.Idle,
		),
	}
	if cfg.Metrics {
		base = append(base, WithMetrics())
	}

	a, err := New(append(base, opts...)...)
	if err != nil {
		return nil, err
	}

	if cfg.StaticPrefix != "" && len(cfg.PublicDirs) > 0 {
		a.Static(cfg.StaticPrefix, cfg.PublicDirs...)
	}

	return a, nil
}
