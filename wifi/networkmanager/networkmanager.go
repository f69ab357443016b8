//go:build linux

package networkmanager

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	gonetworkmanager "github.com/Wifx/gonetworkmanager/v3"
	"github.com/google/uuid"

	"github.com/shazow/wifisnap/wifi"
)

const (
	connectionTimeout = 30 * time.Second
	// scanSettle is how long results are given to come in after a scan request.
	scanSettle = 2 * time.Second
)

// Key management bits of the WpaFlags and RsnFlags access point properties.
const (
	keyMgmtPSK   = 0x100
	keyMgmt8021X = 0x200
	keyMgmtSAE   = 0x400
)

// Backend implements wifi.Backend using D-Bus to communicate with NetworkManager.
type Backend struct {
	NM     gonetworkmanager.NetworkManager
	logger *slog.Logger

	mu     sync.Mutex
	device gonetworkmanager.DeviceWireless
}

var _ wifi.Backend = (*Backend)(nil)

// New connects to NetworkManager on the system bus.
func New(logger *slog.Logger) (*Backend, error) {
	nm, err := gonetworkmanager.NewNetworkManager()
	if err != nil {
		return nil, fmt.Errorf("failed to create network manager client: %w", wifi.ErrNotAvailable)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{NM: nm, logger: logger}, nil
}

// getWirelessDevice returns the first wireless device, looked up once.
func (b *Backend) getWirelessDevice() (gonetworkmanager.DeviceWireless, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.device != nil {
		return b.device, nil
	}

	devices, err := b.NM.GetDevices()
	if err != nil {
		return nil, err
	}
	for _, device := range devices {
		if dev, ok := device.(gonetworkmanager.DeviceWireless); ok {
			b.device = dev
			return dev, nil
		}
	}
	return nil, fmt.Errorf("no wireless device found: %w", wifi.ErrNotFound)
}

// Scan requests a fresh scan and returns every access point NetworkManager
// knows about. A rejected scan request (NetworkManager rate limits them) still
// returns the cached results.
func (b *Backend) Scan(ctx context.Context) ([]wifi.Network, error) {
	enabled, err := b.NM.GetPropertyWirelessEnabled()
	if err != nil {
		return nil, err
	}
	if !enabled {
		return nil, wifi.ErrWirelessDisabled
	}

	dev, err := b.getWirelessDevice()
	if err != nil {
		return nil, err
	}

	if err := dev.RequestScan(); err != nil {
		b.logger.Debug("scan request rejected, using cached results", "err", err)
	} else {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(scanSettle):
		}
	}

	accessPoints, err := dev.GetAccessPoints()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	nets := make([]wifi.Network, 0, len(accessPoints))
	for _, ap := range accessPoints {
		n, err := toNetwork(ap)
		if err != nil {
			b.logger.Debug("skipping access point", "path", ap.GetPath(), "err", err)
			continue
		}
		n.ObservedAt = &now
		nets = append(nets, n)
	}
	b.logger.Debug("scan complete", "access_points", len(nets))
	return nets, nil
}

func toNetwork(ap gonetworkmanager.AccessPoint) (wifi.Network, error) {
	ssid, err := ap.GetPropertySSID()
	if err != nil {
		return wifi.Network{}, err
	}
	n := wifi.Network{SSID: ssid}

	if bssid, err := ap.GetPropertyHWAddress(); err == nil {
		n.BSSID = strings.ToLower(bssid)
	}
	if freq, err := ap.GetPropertyFrequency(); err == nil {
		n.FrequencyMHz = int(freq)
	}
	if strength, err := ap.GetPropertyStrength(); err == nil {
		n.Level = wifi.DBm(strengthToDBm(strength))
	}

	flags, _ := ap.GetPropertyFlags()
	wpaFlags, _ := ap.GetPropertyWPAFlags()
	rsnFlags, _ := ap.GetPropertyRSNFlags()
	n.Capabilities = capabilities(uint32(flags), uint32(wpaFlags), uint32(rsnFlags))
	return n, nil
}

// strengthToDBm estimates dBm from NetworkManager's 0-100 quality percentage.
func strengthToDBm(strength uint8) int {
	return int(strength)/2 - 100
}

// capabilities renders access point flags in the bracketed token form used by
// Android scan results, e.g. "[RSN-PSK][ESS]".
func capabilities(flags, wpaFlags, rsnFlags uint32) string {
	var b strings.Builder
	keyMgmt := func(prefix string, f uint32) {
		if f&keyMgmtPSK != 0 {
			b.WriteString("[" + prefix + "-PSK]")
		}
		if f&keyMgmtSAE != 0 {
			b.WriteString("[" + prefix + "-SAE]")
		}
		if f&keyMgmt8021X != 0 {
			b.WriteString("[" + prefix + "-EAP]")
		}
	}
	keyMgmt("WPA", wpaFlags)
	keyMgmt("RSN", rsnFlags)

	privacy := flags&uint32(gonetworkmanager.Nm80211APFlagsPrivacy) != 0
	if privacy && wpaFlags == 0 && rsnFlags == 0 {
		b.WriteString("[WEP]")
	}
	b.WriteString("[ESS]")
	return b.String()
}

// connectionSettings builds the profile passed to AddAndActivateConnection.
func connectionSettings(ssid, password string, isWPA, hidden bool, iface string) map[string]map[string]interface{} {
	connection := map[string]map[string]interface{}{
		"connection": {
			"id":          ssid,
			"uuid":        uuid.New().String(),
			"type":        "802-11-wireless",
			"autoconnect": true,
		},
		"802-11-wireless": {
			"mode": "infrastructure",
			"ssid": []byte(ssid),
		},
		"ipv4": {"method": "auto"},
		"ipv6": {"method": "auto"},
	}
	if iface != "" {
		connection["connection"]["interface-name"] = iface
	}
	if hidden {
		connection["802-11-wireless"]["hidden"] = true
	}

	switch {
	case password == "":
		// Open network, no security settings needed.
	case isWPA:
		connection["802-11-wireless"]["security"] = "802-11-wireless-security"
		connection["802-11-wireless-security"] = map[string]interface{}{
			"key-mgmt": "wpa-psk",
			"psk":      password,
		}
	default:
		connection["802-11-wireless"]["security"] = "802-11-wireless-security"
		connection["802-11-wireless-security"] = map[string]interface{}{
			"key-mgmt": "none",
			"wep-key0": password,
		}
	}
	return connection
}

// findAccessPoint returns the strongest access point broadcasting ssid.
func findAccessPoint(dev gonetworkmanager.DeviceWireless, ssid string) (gonetworkmanager.AccessPoint, error) {
	accessPoints, err := dev.GetAccessPoints()
	if err != nil {
		return nil, err
	}
	var best gonetworkmanager.AccessPoint
	var bestStrength uint8
	for _, ap := range accessPoints {
		s, err := ap.GetPropertySSID()
		if err != nil || s != ssid {
			continue
		}
		strength, _ := ap.GetPropertyStrength()
		if best == nil || strength > bestStrength {
			best, bestStrength = ap, strength
		}
	}
	return best, nil
}

// Connect adds a new connection profile for ssid and activates it, waiting
// until NetworkManager reports it activated or deactivated. An SSID that is
// not currently visible is joined as a hidden network.
func (b *Backend) Connect(ctx context.Context, ssid string, password string, isWPA bool) (bool, error) {
	dev, err := b.getWirelessDevice()
	if err != nil {
		return false, err
	}
	iface, _ := dev.GetPropertyInterface()

	ap, err := findAccessPoint(dev, ssid)
	if err != nil {
		return false, err
	}

	var activeConn gonetworkmanager.ActiveConnection
	if ap == nil {
		b.logger.Debug("network not visible, joining as hidden", "ssid", ssid)
		activeConn, err = b.NM.AddAndActivateConnection(connectionSettings(ssid, password, isWPA, true, iface), dev)
	} else {
		activeConn, err = b.NM.AddAndActivateWirelessConnection(connectionSettings(ssid, password, isWPA, false, iface), dev, ap)
	}
	if err != nil {
		return false, err
	}
	return b.waitActivated(ctx, activeConn, ssid)
}

func (b *Backend) waitActivated(ctx context.Context, activeConn gonetworkmanager.ActiveConnection, ssid string) (bool, error) {
	// Subscribe before checking the initial state so no change is missed.
	stateChanges := make(chan gonetworkmanager.StateChange, 1)
	done := make(chan struct{})
	defer close(done)
	if err := activeConn.SubscribeState(stateChanges, done); err != nil {
		return false, err
	}

	initialState, err := activeConn.GetPropertyState()
	if err != nil {
		return false, err
	}
	if initialState == gonetworkmanager.NmActiveConnectionStateActivated {
		return true, nil
	}

	timeout := time.NewTimer(connectionTimeout)
	defer timeout.Stop()
	for {
		select {
		case change := <-stateChanges:
			switch change.State {
			case gonetworkmanager.NmActiveConnectionStateActivated:
				return true, nil
			case gonetworkmanager.NmActiveConnectionStateDeactivated:
				b.logger.Info("connection failed", "ssid", ssid, "reason", change.Reason)
				return false, nil
			}
		case <-timeout.C:
			b.logger.Info("connection timed out", "ssid", ssid, "timeout", connectionTimeout)
			return false, nil
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
}
