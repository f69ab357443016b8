package qrwifi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shazow/wifisnap/wifi"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    wifi.Credentials
	}{
		{
			name:    "basic wpa",
			payload: "WIFI:S:HomeNet;T:WPA;P:secret123;;",
			want:    wifi.Credentials{SSID: "HomeNet", Password: "secret123", Security: wifi.SecurityWPA},
		},
		{
			name:    "wep",
			payload: "WIFI:T:WEP;S:Old;P:abcde;;",
			want:    wifi.Credentials{SSID: "Old", Password: "abcde", Security: wifi.SecurityWEP},
		},
		{
			name:    "empty type means wpa",
			payload: "WIFI:S:HomeNet;T:;P:pw;;",
			want:    wifi.Credentials{SSID: "HomeNet", Password: "pw", Security: wifi.SecurityWPA},
		},
		{
			name:    "missing type means wpa",
			payload: "WIFI:S:HomeNet;P:pw;;",
			want:    wifi.Credentials{SSID: "HomeNet", Password: "pw", Security: wifi.SecurityWPA},
		},
		{
			name:    "sae is wpa",
			payload: "WIFI:S:New;T:SAE;P:pw;;",
			want:    wifi.Credentials{SSID: "New", Password: "pw", Security: wifi.SecurityWPA},
		},
		{
			name:    "nopass is open",
			payload: "WIFI:S:Lobby;T:nopass;;",
			want:    wifi.Credentials{SSID: "Lobby", Security: wifi.SecurityOpen},
		},
		{
			name:    "missing password",
			payload: "WIFI:S:HomeNet;T:WPA;;",
			want:    wifi.Credentials{SSID: "HomeNet", Security: wifi.SecurityWPA},
		},
		{
			name:    "escaped separators",
			payload: `WIFI:S:My\;Net\:5G;T:WPA;P:a\,b\\c\"d;;`,
			want:    wifi.Credentials{SSID: "My;Net:5G", Password: `a,b\c"d`, Security: wifi.SecurityWPA},
		},
		{
			name:    "quoted values",
			payload: `WIFI:S:"Quoted Net";T:WPA;P:"pw";;`,
			want:    wifi.Credentials{SSID: "Quoted Net", Password: "pw", Security: wifi.SecurityWPA},
		},
		{
			name:    "hidden",
			payload: "WIFI:S:Secret;T:WPA;P:pw;H:true;;",
			want:    wifi.Credentials{SSID: "Secret", Password: "pw", Security: wifi.SecurityWPA, Hidden: true},
		},
		{
			name:    "unterminated final field",
			payload: "WIFI:S:HomeNet;T:WPA;P:pw",
			want:    wifi.Credentials{SSID: "HomeNet", Password: "pw", Security: wifi.SecurityWPA},
		},
		{
			name:    "trailing newline",
			payload: "WIFI:S:HomeNet;T:WPA;P:pw;;\r\n",
			want:    wifi.Credentials{SSID: "HomeNet", Password: "pw", Security: wifi.SecurityWPA},
		},
		{
			name:    "unknown fields ignored",
			payload: "WIFI:S:HomeNet;X:zzz;T:WPA;P:pw;;",
			want:    wifi.Credentials{SSID: "HomeNet", Password: "pw", Security: wifi.SecurityWPA},
		},
		{
			name:    "password containing colons",
			payload: "WIFI:S:HomeNet;T:WPA;P:a:b:c;;",
			want:    wifi.Credentials{SSID: "HomeNet", Password: "a:b:c", Security: wifi.SecurityWPA},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.payload)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMalformed(t *testing.T) {
	for _, payload := range []string{
		"",
		"hello",
		"wifi:S:HomeNet;;",
		" WIFI:S:HomeNet;;",
		"WIFI:",
		"WIFI:T:WPA;P:pw;;",
		"WIFI:S:;T:WPA;;",
		`WIFI:S:"";;`,
		`WIFI:\`,
	} {
		t.Run(payload, func(t *testing.T) {
			_, err := Parse(payload)
			assert.ErrorIs(t, err, wifi.ErrMalformedPayload)
		})
	}
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		c    wifi.Credentials
		want string
	}{
		{
			name: "wpa",
			c:    wifi.Credentials{SSID: "HomeNet", Password: "secret123", Security: wifi.SecurityWPA},
			want: "WIFI:S:HomeNet;T:WPA;P:secret123;;",
		},
		{
			name: "open",
			c:    wifi.Credentials{SSID: "Lobby", Security: wifi.SecurityOpen},
			want: "WIFI:S:Lobby;T:nopass;;",
		},
		{
			name: "hidden with escapes",
			c:    wifi.Credentials{SSID: `a;b`, Password: `c"d`, Security: wifi.SecurityWEP, Hidden: true},
			want: `WIFI:S:a\;b;T:WEP;P:c\"d;H:true;;`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Encode(tt.c))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for _, c := range []wifi.Credentials{
		{SSID: "HomeNet", Password: "secret123", Security: wifi.SecurityWPA},
		{SSID: "Café ☕", Password: "pässwörd", Security: wifi.SecurityWPA},
		{SSID: `we\ird;:,"`, Password: `\;\`, Security: wifi.SecurityWEP},
		{SSID: "Lobby", Security: wifi.SecurityOpen},
		{SSID: "Secret", Password: "x", Security: wifi.SecurityWPA, Hidden: true},
		{SSID: "网络", Password: "密码1234", Security: wifi.SecurityWPA},
	} {
		t.Run(c.SSID, func(t *testing.T) {
			got, err := Parse(Encode(c))
			require.NoError(t, err)
			assert.Equal(t, c, got)
		})
	}
}

func TestGenerateQRCode(t *testing.T) {
	out, err := GenerateQRCode(wifi.Credentials{SSID: "HomeNet", Password: "pw", Security: wifi.SecurityWPA})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
