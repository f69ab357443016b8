//go:build linux && !mock

package main

import (
	"errors"
	"log/slog"

	"github.com/shazow/wifisnap/wifi"
	"github.com/shazow/wifisnap/wifi/iwd"
	"github.com/shazow/wifisnap/wifi/networkmanager"
)

// GetBackend prefers NetworkManager and falls back to iwd, which is what
// runs on systems without NetworkManager.
func GetBackend(logger *slog.Logger) (wifi.Backend, error) {
	nm, nmErr := networkmanager.New(logger)
	if nmErr == nil {
		return nm, nil
	}
	logger.Debug("networkmanager unavailable, trying iwd", "error", nmErr)

	b, iwdErr := iwd.New(logger)
	if iwdErr != nil {
		return nil, errors.Join(nmErr, iwdErr)
	}
	return b, nil
}
