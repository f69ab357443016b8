package labeltext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shazow/wifisnap/wifi"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		ssid     string
		password string
	}{
		{
			name:     "slash separated pair",
			text:     "Network: Guest5G / Password: abcd1234",
			ssid:     "Guest5G",
			password: "abcd1234",
		},
		{
			name:     "english lines",
			text:     "SSID: HomeNet\nPassword: secret123",
			ssid:     "HomeNet",
			password: "secret123",
		},
		{
			name:     "windows line endings",
			text:     "SSID: HomeNet\r\nPassword: secret123\r\n",
			ssid:     "HomeNet",
			password: "secret123",
		},
		{
			name:     "no colon",
			text:     "SSID HomeNet\nPassword secret123",
			ssid:     "HomeNet",
			password: "secret123",
		},
		{
			name:     "quoted values",
			text:     "SSID: \"My Home\"\nPassword: 'p@ss w0rd'",
			ssid:     "My Home",
			password: "p@ss w0rd",
		},
		{
			name: "network name only",
			text: "WiFi: Lobby",
			ssid: "Lobby",
		},
		{
			name:     "label as value is skipped",
			text:     "WiFi Password: hunter22\nWiFi: Attic",
			ssid:     "Attic",
			password: "hunter22",
		},
		{
			name:     "simplified chinese",
			text:     "无线网络名称：CafeNet\n密码：88888888",
			ssid:     "CafeNet",
			password: "88888888",
		},
		{
			name:     "traditional chinese",
			text:     "網路名稱：茶館\n密碼：abc12345",
			ssid:     "茶館",
			password: "abc12345",
		},
		{
			name:     "spanish",
			text:     "Nombre de red: Hotel_Sol\nContraseña: playa2024",
			ssid:     "Hotel_Sol",
			password: "playa2024",
		},
		{
			name:     "french",
			text:     "Nom du réseau : MaBox\nClé de sécurité : 1234abcd",
			ssid:     "MaBox",
			password: "1234abcd",
		},
		{
			name:     "german",
			text:     "WLAN-Name: FritzBox 7590\nWLAN-Schlüssel: 1234 5678 9012",
			ssid:     "FritzBox 7590",
			password: "1234 5678 9012",
		},
		{
			name:     "japanese",
			text:     "ネットワーク名：HomeAP\nパスワード：abcdefgh",
			ssid:     "HomeAP",
			password: "abcdefgh",
		},
		{
			name:     "korean",
			text:     "네트워크 이름: KT_GiGA\n비밀번호: qwer1234",
			ssid:     "KT_GiGA",
			password: "qwer1234",
		},
		{
			name:     "unlabeled pair",
			text:     "Name: CoffeeBar / Code: 55554444",
			ssid:     "CoffeeBar",
			password: "55554444",
		},
		{
			name:     "unlabeled pair on separate lines",
			text:     "Welcome: hello\nName: CoffeeBar\nCode: 55554444",
			ssid:     "CoffeeBar",
			password: "55554444",
		},
		{
			name:     "network key is a password",
			text:     "Name: Guest / Network key: 12345678",
			ssid:     "Guest",
			password: "12345678",
		},
		{
			name:     "second label after one space",
			text:     "SSID: Home Password: pw",
			ssid:     "Home",
			password: "pw",
		},
		{
			name:     "unlabeled pair with compound keyword",
			text:     "Name: Haus / Zugangsschlüssel: geheim99",
			ssid:     "Haus",
			password: "geheim99",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Extract(tt.text)
			require.True(t, ok)
			assert.Equal(t, wifi.Credentials{SSID: tt.ssid, Password: tt.password, Security: wifi.SecurityWPA}, got)
		})
	}
}

func TestExtractNothing(t *testing.T) {
	for _, text := range []string{
		"",
		"Welcome to our cafe\nEnjoy your stay",
		"Password: onlyapassword",
		"Name: A / Location: B",
		"SSID:   \nPassword: x",
		"Username: bob / Password: x",
	} {
		t.Run(text, func(t *testing.T) {
			got, ok := Extract(text)
			assert.False(t, ok)
			assert.Equal(t, wifi.Credentials{}, got)
		})
	}
}

func TestExtractDeterministic(t *testing.T) {
	text := "SSID: HomeNet\nWiFi: Other\nPassword: one\nPass: two"
	first, ok := Extract(text)
	require.True(t, ok)
	for i := 0; i < 10; i++ {
		got, _ := Extract(text)
		assert.Equal(t, first, got)
	}
	assert.Equal(t, "HomeNet", first.SSID)
	assert.Equal(t, "one", first.Password)
}

func TestNewExtractorInvalid(t *testing.T) {
	_, err := NewExtractor(Table{})
	assert.Error(t, err)

	_, err = NewExtractor(Table{Rules: []Rule{{Lang: "en", Field: FieldSSID, Label: " "}}})
	assert.Error(t, err)

	_, err = NewExtractor(Table{Rules: []Rule{{Lang: "en", Field: Field(7), Label: "x"}}})
	assert.Error(t, err)
}

func TestLoadRules(t *testing.T) {
	const extra = `
[[rule]]
lang = "it"
field = "ssid"
label = "Nome rete"

[[rule]]
lang = "it"
field = "password"
label = "Chiave"
`
	text := "Nome rete: Casa\nChiave: ciao1234"

	_, ok := Extract(text)
	require.False(t, ok)

	table, err := LoadRules(strings.NewReader(extra))
	require.NoError(t, err)
	assert.Len(t, table.Rules, len(DefaultTable().Rules)+2)

	e, err := NewExtractor(table)
	require.NoError(t, err)
	got, ok := e.Extract(text)
	require.True(t, ok)
	assert.Equal(t, "Casa", got.SSID)
	assert.Equal(t, "ciao1234", got.Password)
}

func TestLoadRulesInvalid(t *testing.T) {
	for name, data := range map[string]string{
		"bad toml":      `[[rule]`,
		"bad field":     "[[rule]]\nfield = \"bogus\"\nlabel = \"x\"",
		"missing field": "[[rule]]\nlabel = \"x\"",
		"unknown key":   "[[rule]]\nfield = \"ssid\"\nlabel = \"x\"\ncolour = \"red\"",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := LoadRules(strings.NewReader(data))
			assert.Error(t, err)
		})
	}
}

func TestLoadRulesNil(t *testing.T) {
	table, err := LoadRules(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultTable(), table)
}
