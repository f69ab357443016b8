package wifi

import (
	"context"
	"time"
)

//go:generate go tool stringer -type=SecurityKind -trimprefix=Security -output=securitykind_string.go

// SecurityKind represents the security protocol used to join a network.
type SecurityKind int

const (
	SecurityUnknown SecurityKind = iota
	SecurityOpen
	SecurityWEP
	SecurityWPA
)

// Credentials are what a user needs to join a network.
type Credentials struct {
	SSID     string       `json:"ssid"`
	Password string       `json:"password"`
	Security SecurityKind `json:"security"`
	// Hidden is only carried through QR round-trips, connectors ignore it.
	Hidden bool `json:"hidden,omitempty"`
}

// IsWPA reports the flag handed to a Connector. Unknown is treated as WPA
// since that is what most labels and QR codes mean when they omit it.
func (c Credentials) IsWPA() bool {
	return c.Security == SecurityWPA || c.Security == SecurityUnknown
}

// Network is a single scan result as reported by a Scanner.
type Network struct {
	SSID  string `json:"ssid"`
	BSSID string `json:"bssid,omitempty"`
	// Capabilities is a token string describing security, e.g. "[WPA2-PSK-CCMP][ESS]".
	Capabilities string `json:"capabilities,omitempty"`
	FrequencyMHz int    `json:"frequency_mhz,omitempty"`
	// Level is the signal in dBm, nil when the scanner did not report one.
	Level      *int       `json:"level_dbm,omitempty"`
	ObservedAt *time.Time `json:"observed_at,omitempty"`
}

// DBm returns a pointer suitable for Network.Level.
func DBm(level int) *int {
	return &level
}

// Stronger reports whether n has a stronger signal than other. A defined level
// always beats an undefined one.
func (n Network) Stronger(other Network) bool {
	if n.Level == nil {
		return false
	}
	if other.Level == nil {
		return true
	}
	// dBm: -40 is stronger than -70.
	return *n.Level > *other.Level
}

// Security classifies the network's capabilities.
func (n Network) Security() SecurityLabel {
	return ClassifySecurity(n.Capabilities)
}

// Scanner returns the networks currently visible to the device. Platforms
// without active scanning may return only the associated network, or nothing.
type Scanner interface {
	Scan(ctx context.Context) ([]Network, error)
}

// Connector attempts to join a network. A rejected attempt is reported as
// false with a nil error; errors are reserved for transport failures.
type Connector interface {
	Connect(ctx context.Context, ssid string, password string, isWPA bool) (bool, error)
}

// Backend is a radio that can both scan and connect.
type Backend interface {
	Scanner
	Connector
}
