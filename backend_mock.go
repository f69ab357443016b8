//go:build mock

package main

import (
	"log/slog"

	"github.com/shazow/wifisnap/wifi"
	mockBackend "github.com/shazow/wifisnap/wifi/mock"
)

func GetBackend(logger *slog.Logger) (wifi.Backend, error) {
	logger.Debug("using mock backend")
	return mockBackend.New(), nil
}
