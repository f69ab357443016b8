package darwin

import (
	"testing"

	"github.com/shazow/wifisnap/wifi"
)

func TestFindWifiDevice(t *testing.T) {
	mockedOutput := `Hardware Port: Wi-Fi
Device: en0
Ethernet Address: a1:b2:c3:d4:e5:f6

Hardware Port: Bluetooth PAN
Device: en8
Ethernet Address: a1:b2:c3:d4:e5:f7

Hardware Port: Thunderbolt Bridge
Device: bridge0
Ethernet Address: a1:b2:c3:d4:e5:f8`

	device, err := findWifiDevice(mockedOutput)
	if err != nil {
		t.Fatalf("findWifiDevice returned an error: %v", err)
	}
	if device != "en0" {
		t.Fatalf(`findWifiDevice returned "%s", want "en0"`, device)
	}

	if _, err := findWifiDevice("Hardware Port: Ethernet\nDevice: en1"); err == nil {
		t.Fatal("expected an error without a Wi-Fi port")
	}
}

func TestParseSystemProfilerOutput(t *testing.T) {
	mockedOutput := `Wi-Fi:

      Software Versions:
          CoreWLAN: 16.0 (1657)
      Interfaces:
        en0:
          Card Type: Wi-Fi
          Status: Connected
          Current Network Information:
            MyHomeNetwork:
              PHY Mode: 802.11ac
              Channel: 36 (5GHz, 80MHz)
              Network Type: Infrastructure
              Security: WPA2 Personal
              Signal / Noise: -55 dBm / -95 dBm
              Transmit Rate: 866
          Other Local Wi-Fi Networks:
            NeighborWiFi:
              PHY Mode: 802.11n
              Channel: 6 (2GHz, 20MHz)
              Network Type: Infrastructure
              Security: WPA2 Personal
              Signal / Noise: -75 dBm / -90 dBm
            OpenCafe:
              PHY Mode: 802.11g
              Channel: 11 (2GHz, 20MHz)
              Network Type: Infrastructure
              Security: Open
            MyHomeNetwork:
              Channel: 1 (2GHz, 20MHz)
              Security: WPA2/WPA3 Personal
              Signal / Noise: -80 dBm / -90 dBm
        awdl0:
          MAC Address: 00:11:22:33:44:55`

	networks := parseSystemProfilerOutput(mockedOutput)

	if len(networks) != 4 {
		t.Fatalf("expected 4 networks, got %d: %+v", len(networks), networks)
	}

	tests := []struct {
		ssid  string
		level *int
		freq  int
		label wifi.SecurityLabel
	}{
		{"MyHomeNetwork", wifi.DBm(-55), 5180, wifi.LabelWPA2},
		{"NeighborWiFi", wifi.DBm(-75), 2437, wifi.LabelWPA2},
		{"OpenCafe", nil, 2462, wifi.LabelUnsecured},
		{"MyHomeNetwork", wifi.DBm(-80), 2412, wifi.LabelWPA3},
	}
	for i, tt := range tests {
		n := networks[i]
		if n.SSID != tt.ssid {
			t.Errorf("networks[%d].SSID = %q, want %q", i, n.SSID, tt.ssid)
		}
		if (n.Level == nil) != (tt.level == nil) || (n.Level != nil && *n.Level != *tt.level) {
			t.Errorf("%s: unexpected level %v", tt.ssid, n.Level)
		}
		if n.FrequencyMHz != tt.freq {
			t.Errorf("%s: frequency = %d, want %d", tt.ssid, n.FrequencyMHz, tt.freq)
		}
		if got := n.Security(); got != tt.label {
			t.Errorf("%s: security = %v (%s), want %v", tt.ssid, got, n.Capabilities, tt.label)
		}
	}

	// Duplicates are collapsed by the catalog, strongest first.
	catalog := wifi.BuildCatalog(networks)
	if len(catalog) != 2 {
		t.Fatalf("expected 2 secured networks in catalog, got %d", len(catalog))
	}
	if *catalog[0].Level != -55 {
		t.Errorf("expected strongest MyHomeNetwork to be kept, got %d", *catalog[0].Level)
	}
}

func TestSecurityCapabilities(t *testing.T) {
	tests := map[string]wifi.SecurityLabel{
		"WPA2 Personal":     wifi.LabelWPA2,
		"WPA/WPA2 Personal": wifi.LabelWPA2,
		"WPA3 Personal":     wifi.LabelWPA3,
		"WPA2 Enterprise":   wifi.LabelWPA2,
		"WPA Personal":      wifi.LabelWPA,
		"WEP":               wifi.LabelWEP,
		"Open":              wifi.LabelUnsecured,
		"None":              wifi.LabelUnsecured,
	}
	for desc, want := range tests {
		if got := wifi.ClassifySecurity(securityCapabilities(desc)); got != want {
			t.Errorf("%q: got %v, want %v", desc, got, want)
		}
	}
}

func TestParseJoinOutput(t *testing.T) {
	if !parseJoinOutput("") {
		t.Error("empty output means success")
	}
	if parseJoinOutput("Failed to join network HomeNet.\nError: -3900  The operation couldn’t be completed.") {
		t.Error("expected failure")
	}
	if parseJoinOutput("Could not find network HomeNet.") {
		t.Error("expected failure")
	}
}
