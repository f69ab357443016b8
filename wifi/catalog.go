package wifi

import (
	"strings"
	"unicode"
)

// DefaultHiddenSentinels are SSIDs that scanners report in place of a hidden network's name.
var DefaultHiddenSentinels = []string{"<hidden>", "<unknown>", "<unknown ssid>"}

// securedTokens are the capability markers that make a network worth offering
// to a flow that always supplies a password.
var securedTokens = []string{"WEP", "WPA", "PSK", "EAP", "SAE", "RSN"}

// CatalogOptions configures BuildCatalog.
type CatalogOptions struct {
	// IncludeUnsecured keeps networks that advertise no security marker.
	IncludeUnsecured bool
	// HiddenSentinels overrides DefaultHiddenSentinels when non-nil.
	HiddenSentinels []string
}

// DefaultCatalogOptions drops unsecured networks.
var DefaultCatalogOptions = CatalogOptions{}

// BuildCatalog cleans raw scan results using DefaultCatalogOptions.
func BuildCatalog(raw []Network) []Network {
	return DefaultCatalogOptions.Build(raw)
}

// Build runs the catalog pipeline. The stage order is load-bearing: dedup
// assumes placeholders are already gone.
//  1. Drop hidden and placeholder SSIDs.
//  2. Drop unsecured networks, unless IncludeUnsecured.
//  3. Collapse access points sharing an SSID, keeping the strongest.
func (o CatalogOptions) Build(raw []Network) []Network {
	sentinels := o.HiddenSentinels
	if sentinels == nil {
		sentinels = DefaultHiddenSentinels
	}
	nets := FilterHidden(raw, sentinels)
	if !o.IncludeUnsecured {
		nets = FilterUnsecured(nets)
	}
	return DedupeBySSID(nets)
}

// IsHiddenSSID reports whether ssid is blank, all NUL bytes, or a sentinel.
func IsHiddenSSID(ssid string, sentinels []string) bool {
	trimmed := strings.TrimFunc(ssid, func(r rune) bool {
		return r == 0 || unicode.IsSpace(r)
	})
	if trimmed == "" {
		return true
	}
	for _, s := range sentinels {
		if ssid == s {
			return true
		}
	}
	return false
}

// FilterHidden returns the networks with a usable SSID.
func FilterHidden(nets []Network, sentinels []string) []Network {
	out := make([]Network, 0, len(nets))
	for _, n := range nets {
		if IsHiddenSSID(n.SSID, sentinels) {
			continue
		}
		out = append(out, n)
	}
	return out
}

// HasSecurityMarker reports whether capabilities mention any recognized
// security token.
func HasSecurityMarker(capabilities string) bool {
	caps := strings.ToUpper(capabilities)
	for _, tok := range securedTokens {
		if strings.Contains(caps, tok) {
			return true
		}
	}
	return false
}

// FilterUnsecured returns the networks that advertise a security marker.
func FilterUnsecured(nets []Network) []Network {
	out := make([]Network, 0, len(nets))
	for _, n := range nets {
		if !HasSecurityMarker(n.Capabilities) {
			continue
		}
		out = append(out, n)
	}
	return out
}

// DedupeBySSID keeps one entry per SSID: the strongest signal, or the first
// seen on ties. Output follows the order each SSID was first seen.
func DedupeBySSID(nets []Network) []Network {
	index := make(map[string]int, len(nets))
	out := make([]Network, 0, len(nets))
	for _, n := range nets {
		i, seen := index[n.SSID]
		if !seen {
			index[n.SSID] = len(out)
			out = append(out, n)
			continue
		}
		if n.Stronger(out[i]) {
			out[i] = n
		}
	}
	return out
}
