package darwin

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shazow/wifisnap/wifi"
)

var (
	signalRe   = regexp.MustCompile(`Signal / Noise:\s*(-?\d+)\s*dBm`)
	securityRe = regexp.MustCompile(`Security:\s*(.+)`)
	channelRe  = regexp.MustCompile(`Channel:\s*(\d+)\s*\((\d)GHz`)
)

// parseSystemProfilerOutput parses the output of `system_profiler SPAirPortDataType`
// into scan results. Every network listed is returned, including duplicates
// and the currently associated one.
func parseSystemProfilerOutput(output string) []wifi.Network {
	var networks []wifi.Network
	inSection := false
	var current *wifi.Network

	flush := func() {
		if current != nil && current.SSID != "" {
			networks = append(networks, *current)
		}
		current = nil
	}

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		// Section headers
		if strings.Contains(line, "Current Network Information:") || strings.Contains(line, "Other Local Wi-Fi Networks:") {
			flush()
			inSection = true
			continue
		}

		// Stop parsing if we hit another interface (like awdl0)
		if strings.HasPrefix(trimmed, "awdl") {
			break
		}
		if !inSection {
			continue
		}

		// Network names are at 12-space indent under the section headers.
		leadingSpaces := len(line) - len(strings.TrimLeft(line, " "))
		if leadingSpaces == 12 && strings.HasSuffix(trimmed, ":") && !strings.Contains(trimmed, ": ") {
			flush()
			current = &wifi.Network{
				SSID:         strings.TrimSuffix(trimmed, ":"),
				Capabilities: "[ESS]",
			}
			continue
		}
		if current == nil {
			continue
		}

		if m := signalRe.FindStringSubmatch(line); m != nil {
			rssi, _ := strconv.Atoi(m[1])
			current.Level = wifi.DBm(rssi)
		}
		if m := securityRe.FindStringSubmatch(line); m != nil {
			current.Capabilities = securityCapabilities(strings.TrimSpace(m[1]))
		}
		if m := channelRe.FindStringSubmatch(line); m != nil {
			ch, _ := strconv.Atoi(m[1])
			current.FrequencyMHz = channelFrequency(ch, m[2])
		}
	}
	flush()
	return networks
}

// securityCapabilities maps a macOS security description such as
// "WPA2 Personal" or "WPA/WPA2 Enterprise" onto capability tokens.
func securityCapabilities(s string) string {
	s = strings.ToUpper(s)
	if strings.Contains(s, "WEP") {
		return "[WEP][ESS]"
	}
	auth := "PSK"
	if strings.Contains(s, "ENTERPRISE") {
		auth = "EAP"
	}

	var b strings.Builder
	for _, version := range strings.FieldsFunc(s, func(r rune) bool { return r == '/' || r == ' ' }) {
		switch version {
		case "WPA", "WPA2":
			b.WriteString("[" + version + "-" + auth + "]")
		case "WPA3":
			if auth == "PSK" {
				b.WriteString("[WPA3-SAE]")
			} else {
				b.WriteString("[WPA3-EAP]")
			}
		}
	}
	b.WriteString("[ESS]")
	return b.String()
}

// channelFrequency returns the centre frequency in MHz of a channel in the
// given band ("2", "5" or "6" GHz).
func channelFrequency(channel int, band string) int {
	switch band {
	case "2":
		if channel == 14 {
			return 2484
		}
		return 2407 + 5*channel
	case "5":
		return 5000 + 5*channel
	case "6":
		return 5950 + 5*channel
	}
	return 0
}

// parseJoinOutput reports whether `networksetup -setairportnetwork` joined.
// It exits 0 even when it fails, printing the reason instead.
func parseJoinOutput(output string) bool {
	output = strings.TrimSpace(output)
	for _, prefix := range []string{"Failed", "Could not find", "Error"} {
		if strings.Contains(output, prefix) {
			return false
		}
	}
	return true
}

// findWifiDevice parses the output of `networksetup -listallhardwareports` to find the Wi-Fi device.
func findWifiDevice(output string) (string, error) {
	// The output is a series of stanzas, separated by blank lines.
	for _, stanza := range strings.Split(output, "\n\n") {
		var device string
		isWifiPort := false
		for _, line := range strings.Split(stanza, "\n") {
			if port, ok := strings.CutPrefix(line, "Hardware Port: "); ok {
				isWifiPort = strings.Contains(port, "Wi-Fi") || strings.Contains(port, "AirPort")
			}
			if d, ok := strings.CutPrefix(line, "Device: "); ok {
				device = d
			}
		}
		if isWifiPort && device != "" {
			return device, nil
		}
	}
	return "", fmt.Errorf("no Wi-Fi interface found: %w", wifi.ErrNotFound)
}
