//go:build darwin

package darwin

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/shazow/wifisnap/wifi"
)

// runWithOutput wraps exec.Cmd to capture stderr and wrap errors.
func runWithOutput(c *exec.Cmd) ([]byte, error) {
	var stderr strings.Builder
	c.Stderr = &stderr
	out, err := c.Output()
	if err != nil {
		return out, fmt.Errorf("failed to run command: %s: %w: %s", c.String(), err, stderr.String())
	}
	return out, nil
}

// Backend implements wifi.Backend for macOS by shelling out to networksetup
// and system_profiler.
type Backend struct {
	WifiInterface string
	logger        *slog.Logger
}

var _ wifi.Backend = (*Backend)(nil)

// New finds the Wi-Fi interface (e.g. en0).
func New(logger *slog.Logger) (*Backend, error) {
	out, err := runWithOutput(exec.Command("networksetup", "-listallhardwareports"))
	if err != nil {
		return nil, fmt.Errorf("failed to list hardware ports: %w", wifi.ErrOperationFailed)
	}
	device, err := findWifiDevice(string(out))
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{WifiInterface: device, logger: logger}, nil
}

func (b *Backend) isWirelessEnabled(ctx context.Context) (bool, error) {
	out, err := runWithOutput(exec.CommandContext(ctx, "networksetup", "-getairportpower", b.WifiInterface))
	if err != nil {
		return false, err
	}
	return strings.Contains(string(out), ": On"), nil
}

// Scan lists visible networks using system_profiler, since the airport
// command is deprecated.
func (b *Backend) Scan(ctx context.Context) ([]wifi.Network, error) {
	enabled, err := b.isWirelessEnabled(ctx)
	if err != nil {
		return nil, err
	}
	if !enabled {
		return nil, wifi.ErrWirelessDisabled
	}

	out, err := runWithOutput(exec.CommandContext(ctx, "system_profiler", "SPAirPortDataType"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan for networks: %w: %w", wifi.ErrOperationFailed, err)
	}
	nets := parseSystemProfilerOutput(string(out))
	now := time.Now()
	for i := range nets {
		nets[i].ObservedAt = &now
	}
	b.logger.Debug("scan complete", "networks", len(nets))
	return nets, nil
}

// Connect joins ssid with networksetup, which picks the security type itself.
func (b *Backend) Connect(ctx context.Context, ssid string, password string, isWPA bool) (bool, error) {
	args := []string{"-setairportnetwork", b.WifiInterface, ssid}
	if password != "" {
		args = append(args, password)
	}
	out, err := runWithOutput(exec.CommandContext(ctx, "networksetup", args...))
	if err != nil {
		return false, err
	}
	if !parseJoinOutput(string(out)) {
		b.logger.Info("connection failed", "ssid", ssid, "output", strings.TrimSpace(string(out)))
		return false, nil
	}
	return true, nil
}
