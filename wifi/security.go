package wifi

import (
	"fmt"
	"strings"
)

//go:generate go tool stringer -type=SecurityLabel -trimprefix=Label -output=securitylabel_string.go

// SecurityLabel is the strongest security marker advertised by a network,
// ordered from weakest to strongest.
type SecurityLabel int

const (
	LabelUnknown SecurityLabel = iota
	LabelUnsecured
	LabelEnterprise
	LabelPSK
	LabelWEP
	LabelWPA
	LabelWPA2
	LabelWPA3
)

// markers are checked strongest first; the first hit wins.
var markers = []struct {
	label  SecurityLabel
	tokens []string
}{
	{LabelWPA3, []string{"WPA3", "SAE"}},
	{LabelWPA2, []string{"WPA2", "RSN"}},
	{LabelWPA, []string{"WPA"}},
	{LabelWEP, []string{"WEP"}},
	{LabelPSK, []string{"PSK"}},
	{LabelEnterprise, []string{"EAP"}},
}

// ClassifySecurity returns the strongest recognized marker in a capabilities
// token string. Empty capabilities are Unknown.
func ClassifySecurity(capabilities string) SecurityLabel {
	if capabilities == "" {
		return LabelUnknown
	}
	caps := strings.ToUpper(capabilities)
	for _, m := range markers {
		for _, tok := range m.tokens {
			if strings.Contains(caps, tok) {
				return m.label
			}
		}
	}
	return LabelUnsecured
}

// Secured reports whether the label carries any recognized security marker.
func (l SecurityLabel) Secured() bool {
	return l > LabelUnsecured
}

// Kind maps a label to the kind a Connector needs.
func (l SecurityLabel) Kind() SecurityKind {
	switch l {
	case LabelUnknown:
		return SecurityUnknown
	case LabelUnsecured:
		return SecurityOpen
	case LabelWEP:
		return SecurityWEP
	default:
		return SecurityWPA
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l SecurityLabel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// ParseSecurityKind parses "open", "wep" or "wpa", case-insensitively.
func ParseSecurityKind(s string) (SecurityKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "open", "none", "nopass":
		return SecurityOpen, nil
	case "wep":
		return SecurityWEP, nil
	case "wpa", "wpa2", "wpa3":
		return SecurityWPA, nil
	case "unknown", "":
		return SecurityUnknown, nil
	}
	return SecurityUnknown, fmt.Errorf("invalid security type: %s", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k SecurityKind) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(k.String())), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *SecurityKind) UnmarshalText(text []byte) error {
	parsed, err := ParseSecurityKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
