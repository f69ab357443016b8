//go:build darwin && !mock

package main

import (
	"log/slog"

	"github.com/shazow/wifisnap/wifi"
	"github.com/shazow/wifisnap/wifi/darwin"
)

func GetBackend(logger *slog.Logger) (wifi.Backend, error) {
	return darwin.New(logger)
}
