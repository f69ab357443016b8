package mock

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/shazow/wifisnap/wifi"
)

var DefaultActionSleep = 500 * time.Millisecond

// MockBackend is a wifi.Backend over a fixed set of networks, for demos and
// tests. Connect succeeds when the network is in range and the password
// matches its entry in Secrets; networks without an entry accept any password.
type MockBackend struct {
	mu sync.Mutex

	Networks        []wifi.Network
	Secrets         map[string]string
	WirelessEnabled bool
	ScanError       error
	ConnectError    error
	// Jitter re-randomizes signal levels on every scan.
	Jitter bool

	// ActionSleep is a delay before every action, to better emulate a
	// real-world backend. Set to 0 during testing.
	ActionSleep time.Duration

	ScanCalls    int
	ConnectCalls int
	// Connected is the SSID of the last successful Connect.
	Connected string
}

var _ wifi.Backend = (*MockBackend)(nil)

func ago(duration time.Duration) *time.Time {
	t := time.Now().Add(-duration)
	return &t
}

// New creates a mock backend with a list of fun wifi networks, including
// duplicates, hidden entries and open networks for the catalog to clean up.
func New() *MockBackend {
	wpa2 := "[WPA2-PSK-CCMP][RSN-PSK-CCMP][ESS]"
	networks := []wifi.Network{
		{SSID: "HideYoKidsHideYoWiFi", BSSID: "02:00:00:00:00:01", Capabilities: wpa2, FrequencyMHz: 2412, Level: wifi.DBm(-48)},
		{SSID: "HideYoKidsHideYoWiFi", BSSID: "02:00:00:00:00:02", Capabilities: wpa2, FrequencyMHz: 5180, Level: wifi.DBm(-71)},
		{SSID: "NeverGonnaGiveYouIP", BSSID: "02:00:00:00:00:03", Capabilities: "[WEP][ESS]", FrequencyMHz: 2437, Level: wifi.DBm(-80)},
		{SSID: "Unencrypted_Honeypot", BSSID: "02:00:00:00:00:04", Capabilities: "[ESS]", FrequencyMHz: 2462, Level: wifi.DBm(-55)},
		{SSID: "Dunder MiffLAN", BSSID: "02:00:00:00:00:05", Capabilities: "[WPA-PSK-TKIP][ESS]", FrequencyMHz: 2412, Level: wifi.DBm(-66)},
		{SSID: "Police Surveillance 2", BSSID: "02:00:00:00:00:06", Capabilities: wpa2, FrequencyMHz: 5240, Level: wifi.DBm(-76)},
		{SSID: "Password is password", BSSID: "02:00:00:00:00:07", Capabilities: "[RSN-SAE-CCMP][ESS]", FrequencyMHz: 5180, Level: wifi.DBm(-56)},
		{SSID: "TacoBoutAGoodSignal", BSSID: "02:00:00:00:00:08", Capabilities: wpa2, FrequencyMHz: 2437, Level: wifi.DBm(-50)},
		{SSID: "Multi-AP Network", BSSID: "00:11:22:33:44:55", Capabilities: wpa2, FrequencyMHz: 2412, Level: wifi.DBm(-60)},
		{SSID: "Multi-AP Network", BSSID: "aa:bb:cc:dd:ee:ff", Capabilities: wpa2, FrequencyMHz: 5180, Level: wifi.DBm(-70)},
		{SSID: "Multi-AP Network", BSSID: "11:22:33:44:55:66", Capabilities: wpa2, FrequencyMHz: 5240},
		{SSID: "CorpNet", BSSID: "02:00:00:00:00:09", Capabilities: "[WPA2-EAP-CCMP][ESS]", FrequencyMHz: 5745, Level: wifi.DBm(-82)},
		{SSID: "", BSSID: "02:00:00:00:00:0a", Capabilities: wpa2, FrequencyMHz: 2462, Level: wifi.DBm(-62)},
		{SSID: "<unknown ssid>", BSSID: "02:00:00:00:00:0b", Capabilities: wpa2, FrequencyMHz: 2412, Level: wifi.DBm(-90)},
	}
	return &MockBackend{
		Networks: networks,
		Secrets: map[string]string{
			"Password is password": "password",
			"HideYoKidsHideYoWiFi": "hidden",
			"Multi-AP Network":     "manyaps1",
		},
		WirelessEnabled: true,
		ActionSleep:     DefaultActionSleep,
	}
}

func (m *MockBackend) sleep(ctx context.Context) error {
	if m.ActionSleep <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(m.ActionSleep):
		return nil
	}
}

// Scan returns a copy of Networks, stamped with the current time.
func (m *MockBackend) Scan(ctx context.Context) ([]wifi.Network, error) {
	m.mu.Lock()
	m.ScanCalls++
	m.mu.Unlock()

	if err := m.sleep(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.WirelessEnabled {
		return nil, wifi.ErrWirelessDisabled
	}
	if m.ScanError != nil {
		return nil, m.ScanError
	}

	var r *rand.Rand
	if m.Jitter {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	now := time.Now()
	nets := make([]wifi.Network, len(m.Networks))
	for i, n := range m.Networks {
		if r != nil && n.Level != nil {
			n.Level = wifi.DBm(-30 - r.Intn(60))
		}
		n.ObservedAt = &now
		nets[i] = n
	}
	return nets, nil
}

// Connect pretends to join ssid.
func (m *MockBackend) Connect(ctx context.Context, ssid string, password string, isWPA bool) (bool, error) {
	m.mu.Lock()
	m.ConnectCalls++
	m.mu.Unlock()

	if err := m.sleep(ctx); err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ConnectError != nil {
		return false, m.ConnectError
	}
	if !m.WirelessEnabled || !m.inRange(ssid) {
		return false, nil
	}
	if secret, ok := m.Secrets[ssid]; ok && secret != password {
		return false, nil
	}
	m.Connected = ssid
	return true, nil
}

func (m *MockBackend) inRange(ssid string) bool {
	for _, n := range m.Networks {
		if n.SSID == ssid {
			return true
		}
	}
	return false
}
