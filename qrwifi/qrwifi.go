// Package qrwifi reads and writes the WIFI: payload carried by network
// sharing QR codes, e.g. WIFI:S:HomeNet;T:WPA;P:secret;;
package qrwifi

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/shazow/wifisnap/wifi"
)

// Prefix starts every payload. It is matched case-sensitively.
const Prefix = "WIFI:"

var escaper = strings.NewReplacer(
	`\`, `\\`,
	`;`, `\;`,
	`,`, `\,`,
	`:`, `\:`,
	`"`, `\"`,
)

// Escape handles the special character escaping for SSID and Password.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Unescape reverses Escape. A backslash escapes whatever follows it; a
// dangling backslash is kept as is.
func Unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// Parse decodes a WIFI: payload.
//
// S is required. T defaults to WPA when missing or unrecognized, and nopass
// means an open network. Unknown fields are ignored and the final field may be
// left unterminated.
func Parse(data string) (wifi.Credentials, error) {
	data = strings.TrimRight(data, "\r\n")
	if !strings.HasPrefix(data, Prefix) {
		return wifi.Credentials{}, fmt.Errorf("missing %q prefix: %w", Prefix, wifi.ErrMalformedPayload)
	}

	var (
		c       wifi.Credentials
		seen    = map[string]bool{}
		secType string
	)
	for _, field := range splitUnescaped(data[len(Prefix):], ';') {
		key, value, ok := cutUnescaped(field, ':')
		if !ok || seen[key] {
			continue
		}
		seen[key] = true
		switch key {
		case "S":
			c.SSID = Unescape(unquote(value))
		case "P":
			c.Password = Unescape(unquote(value))
		case "T":
			secType = Unescape(value)
		case "H":
			c.Hidden = strings.EqualFold(Unescape(value), "true")
		}
	}

	if c.SSID == "" {
		return wifi.Credentials{}, fmt.Errorf("missing network name: %w", wifi.ErrMalformedPayload)
	}
	c.Security = parseType(secType)
	return c, nil
}

func parseType(t string) wifi.SecurityKind {
	switch strings.ToUpper(strings.TrimSpace(t)) {
	case "WEP":
		return wifi.SecurityWEP
	case "NOPASS":
		return wifi.SecurityOpen
	default:
		// WPA, WPA2, WPA3, SAE, empty and anything unrecognized.
		return wifi.SecurityWPA
	}
}

// splitUnescaped splits s on every sep not preceded by an escaping backslash.
// Escapes are preserved in the returned parts.
func splitUnescaped(s string, sep byte) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case sep:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		parts = append(parts, s[start:])
	}
	return parts
}

func cutUnescaped(s string, sep byte) (before, after string, found bool) {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case sep:
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}

// unquote strips one pair of surrounding double quotes. The closing quote
// must not be escaped.
func unquote(raw string) string {
	n := len(raw)
	if n < 2 || raw[0] != '"' || raw[n-1] != '"' {
		return raw
	}
	backslashes := 0
	for i := n - 2; i >= 0 && raw[i] == '\\'; i-- {
		backslashes++
	}
	if backslashes%2 == 1 {
		return raw
	}
	return raw[1 : n-1]
}

// Encode builds the payload for c. Open networks carry no password.
// SecurityUnknown omits T, which readers take to mean WPA.
func Encode(c wifi.Credentials) string {
	var b strings.Builder

	b.WriteString(Prefix)
	b.WriteString("S:")
	b.WriteString(Escape(c.SSID))
	b.WriteString(";")

	switch c.Security {
	case wifi.SecurityWPA:
		b.WriteString("T:WPA;P:")
		b.WriteString(Escape(c.Password))
		b.WriteString(";")
	case wifi.SecurityWEP:
		b.WriteString("T:WEP;P:")
		b.WriteString(Escape(c.Password))
		b.WriteString(";")
	case wifi.SecurityOpen:
		b.WriteString("T:nopass;")
	default:
		if c.Password != "" {
			b.WriteString("P:")
			b.WriteString(Escape(c.Password))
			b.WriteString(";")
		}
	}

	if c.Hidden {
		b.WriteString("H:true;")
	}

	b.WriteString(";")
	return b.String()
}

// GenerateQRCode returns a terminal-friendly rendering of Encode(c).
func GenerateQRCode(c wifi.Credentials) (string, error) {
	q, err := qrcode.New(Encode(c), qrcode.Medium)
	if err != nil {
		return "", err
	}
	return q.ToSmallString(false), nil
}
