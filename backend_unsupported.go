//go:build !linux && !darwin && !mock

package main

import (
	"fmt"
	"log/slog"

	"github.com/shazow/wifisnap/wifi"
)

// GetBackend returns an error for unsupported operating systems.
func GetBackend(logger *slog.Logger) (wifi.Backend, error) {
	return nil, fmt.Errorf("unsupported operating system: %w", wifi.ErrNotSupported)
}
