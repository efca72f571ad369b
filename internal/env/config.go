/*
Copyright 2025 Flant JSC

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

package env

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	PodNamespaceEnvVar            = "POD_NAMESPACE"
	WatchNamespaceEnvVar          = "WATCH_NAMESPACE"
	HealthProbeBindAddressEnvVar  = "HEALTH_PROBE_BIND_ADDRESS"
	MetricsPortEnvVar             = "METRICS_BIND_ADDRESS"
	EnabledControllersEnvVar      = "ENABLED_CONTROLLERS"
	ResyncPeriodEnvVar            = "RESYNC_PERIOD"
	MaxConcurrentReconcilesEnvVar = "MAX_CONCURRENT_RECONCILES"

	DefaultHealthProbeBindAddress  = ":4271"
	DefaultMetricsBindAddress      = ":4272"
	DefaultMaxConcurrentReconciles = 4
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	podNamespace            string
	watchNamespace          string
	healthProbeBindAddress  string
	metricsBindAddress      string
	resyncPeriod            time.Duration // zero means controller-runtime default
	maxConcurrentReconciles int
	enabledControllers      map[string]struct{} // nil means all enabled
}

// PodNamespace is the namespace the operator runs in. Leader election is
// enabled only when it is known.
func (c *Config) PodNamespace() string {
	return c.podNamespace
}

// WatchNamespace restricts the cache to one namespace. Empty means all.
func (c *Config) WatchNamespace() string {
	return c.watchNamespace
}

func (c *Config) HealthProbeBindAddress() string {
	return c.healthProbeBindAddress
}

func (c *Config) MetricsBindAddress() string {
	return c.metricsBindAddress
}

func (c *Config) ResyncPeriod() time.Duration {
	return c.resyncPeriod
}

func (c *Config) MaxConcurrentReconciles() int {
	return c.maxConcurrentReconciles
}

// IsControllerEnabled reports whether the named controller should be started.
// When ENABLED_CONTROLLERS is not set (or empty), all controllers are enabled.
// When set, only the listed controllers (comma-separated) are enabled.
func (c *Config) IsControllerEnabled(name string) bool {
	if c.enabledControllers == nil {
		return true
	}
	_, ok := c.enabledControllers[name]
	return ok
}

// ConfigProvider is what the manager setup reads from the environment.
type ConfigProvider interface {
	PodNamespace() string
	WatchNamespace() string
	HealthProbeBindAddress() string
	MetricsBindAddress() string
	ResyncPeriod() time.Duration
	MaxConcurrentReconciles() int
	IsControllerEnabled(name string) bool
}

var _ ConfigProvider = &Config{}

func GetConfig() (*Config, error) {
	cfg := &Config{}

	cfg.podNamespace = os.Getenv(PodNamespaceEnvVar)
	cfg.watchNamespace = os.Getenv(WatchNamespaceEnvVar)

	cfg.healthProbeBindAddress = os.Getenv(HealthProbeBindAddressEnvVar)
	if cfg.healthProbeBindAddress == "" {
		cfg.healthProbeBindAddress = DefaultHealthProbeBindAddress
	}

	cfg.metricsBindAddress = os.Getenv(MetricsPortEnvVar)
	if cfg.metricsBindAddress == "" {
		cfg.metricsBindAddress = DefaultMetricsBindAddress
	}

	if raw := os.Getenv(ResyncPeriodEnvVar); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, ResyncPeriodEnvVar, err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("%w: %s must be positive, got %s", ErrInvalidConfig, ResyncPeriodEnvVar, raw)
		}
		cfg.resyncPeriod = d
	}

	cfg.maxConcurrentReconciles = DefaultMaxConcurrentReconciles
	if raw := os.Getenv(MaxConcurrentReconcilesEnvVar); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%w: %s must be a positive integer, got %q", ErrInvalidConfig, MaxConcurrentReconcilesEnvVar, raw)
		}
		cfg.maxConcurrentReconciles = n
	}

	if raw := os.Getenv(EnabledControllersEnvVar); raw != "" {
		cfg.enabledControllers = make(map[string]struct{})
		for _, name := range strings.Split(raw, ",") {
			name = strings.TrimSpace(name)
			if name != "" {
				cfg.enabledControllers[name] = struct{}{}
			}
		}
		if len(cfg.enabledControllers) == 0 {
			cfg.enabledControllers = nil
		}
	}

	return cfg, nil
}
