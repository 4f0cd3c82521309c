package config

import (
	"errors"
	"fmt"
	"strings"
)

// ServiceMode selects which long-running loops a process hosts. One
// binary can run both, or each can be deployed separately.
type ServiceMode string

const (
	// ServiceModeHTTP runs the HTTP server (API + webhook receiver).
	ServiceModeHTTP ServiceMode = "http"
	// ServiceModeReconciler runs the stale-job reconciler loop.
	ServiceModeReconciler ServiceMode = "reconciler"
)

// ValidServiceModes returns all valid service mode names.
func ValidServiceModes() []ServiceMode {
	return []ServiceMode{
		ServiceModeHTTP,
		ServiceModeReconciler,
	}
}

// ParseServices turns the comma-separated SERVICES value into the set
// of enabled modes. Blank entries are skipped; an unknown name fails
// the whole parse rather than silently running a partial deployment.
func ParseServices(servicesStr string) (map[ServiceMode]bool, error) {
	enabled := make(map[ServiceMode]bool)
	if servicesStr == "" {
		return enabled, errors.New("at least one service must be specified")
	}

	valid := make(map[ServiceMode]bool, len(ValidServiceModes()))
	for _, mode := range ValidServiceModes() {
		valid[mode] = true
	}

	for _, part := range strings.Split(servicesStr, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		mode := ServiceMode(name)
		if !valid[mode] {
			return nil, fmt.Errorf("invalid service name: %q (valid options: http, reconciler)", name)
		}
		enabled[mode] = true
	}

	if len(enabled) == 0 {
		return nil, errors.New("at least one valid service must be specified")
	}
	return enabled, nil
}
