package labeltext

import "fmt"

// Field is the credential a label introduces.
type Field int

const (
	FieldSSID Field = iota
	FieldPassword
)

func (f Field) String() string {
	switch f {
	case FieldSSID:
		return "ssid"
	case FieldPassword:
		return "password"
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// MarshalText implements encoding.TextMarshaler.
func (f Field) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Field) UnmarshalText(text []byte) error {
	switch string(text) {
	case "ssid", "network":
		*f = FieldSSID
	case "password", "key":
		*f = FieldPassword
	default:
		return fmt.Errorf("unknown field %q", text)
	}
	return nil
}

// Rule is a label printed in front of a credential, e.g. "Password" in
// "Password: hunter2".
type Rule struct {
	Lang  string `toml:"lang"`
	Field Field  `toml:"field"`
	Label string `toml:"label"`
}

// Keyword classifies the label of an unlabeled "label: value" pair. A label
// containing the word is taken to introduce Field.
type Keyword struct {
	Lang  string `toml:"lang"`
	Field Field  `toml:"field"`
	Word  string `toml:"word"`
}

// Table is the full set of rules, in priority order.
type Table struct {
	Rules    []Rule    `toml:"rule"`
	Keywords []Keyword `toml:"keyword"`
}

// Append returns a new table with other's entries after t's.
func (t Table) Append(other Table) Table {
	return Table{
		Rules:    append(append([]Rule{}, t.Rules...), other.Rules...),
		Keywords: append(append([]Keyword{}, t.Keywords...), other.Keywords...),
	}
}

func ssid(lang string, labels ...string) []Rule {
	return rules(lang, FieldSSID, labels)
}

func password(lang string, labels ...string) []Rule {
	return rules(lang, FieldPassword, labels)
}

func rules(lang string, field Field, labels []string) []Rule {
	out := make([]Rule, 0, len(labels))
	for _, l := range labels {
		out = append(out, Rule{Lang: lang, Field: field, Label: l})
	}
	return out
}

func keywords(lang string, field Field, words ...string) []Keyword {
	out := make([]Keyword, 0, len(words))
	for _, w := range words {
		out = append(out, Keyword{Lang: lang, Field: field, Word: w})
	}
	return out
}

func concat[T any](groups ...[]T) []T {
	var out []T
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// DefaultTable returns the built-in labels. Within a language, longer labels
// come before the labels they start with.
func DefaultTable() Table {
	return Table{
		Rules: concat(
			ssid("en", "SSID", "Network name", "WiFi name", "Wi-Fi name", "WLAN name", "Network", "WiFi", "Wi-Fi", "WLAN"),
			ssid("zh-Hans", "无线网络名称", "网络名称", "无线网络", "网络", "名称"),
			ssid("zh-Hant", "無線網路名稱", "網路名稱", "無線網路", "網路", "名稱"),
			ssid("es", "Nombre de la red", "Nombre de red", "Red"),
			ssid("fr", "Nom du réseau", "Réseau"),
			ssid("de", "Netzwerkname", "WLAN-Name", "Netzwerk"),
			ssid("ja", "ネットワーク名", "ネットワーク"),
			ssid("ko", "네트워크 이름", "네트워크"),

			password("en", "WiFi password", "Wi-Fi password", "Network password", "Password", "Passphrase", "Passcode", "Pass", "Network key", "Security key", "WPA key", "Key"),
			password("zh-Hans", "无线密码", "网络密码", "密码", "口令"),
			password("zh-Hant", "無線密碼", "網路密碼", "密碼"),
			password("es", "Clave de red", "Contraseña", "Clave"),
			password("fr", "Clé de sécurité", "Clé réseau", "Mot de passe", "Clé"),
			password("de", "WLAN-Schlüssel", "Netzwerkschlüssel", "Passwort", "Kennwort"),
			password("ja", "パスワード", "暗号化キー", "暗号キー"),
			password("ko", "네트워크 키", "비밀번호", "암호"),
		),
		Keywords: concat(
			keywords("en", FieldSSID, "ssid", "network", "wifi", "wi-fi", "wlan", "name"),
			keywords("zh-Hans", FieldSSID, "网络", "名称"),
			keywords("zh-Hant", FieldSSID, "網路", "名稱"),
			keywords("es", FieldSSID, "red"),
			keywords("fr", FieldSSID, "réseau", "nom"),
			keywords("de", FieldSSID, "netzwerk"),
			keywords("ja", FieldSSID, "ネットワーク"),
			keywords("ko", FieldSSID, "네트워크", "이름"),

			keywords("en", FieldPassword, "password", "pass", "pwd", "key", "code"),
			keywords("zh-Hans", FieldPassword, "密码", "口令"),
			keywords("zh-Hant", FieldPassword, "密碼"),
			keywords("es", FieldPassword, "contraseña", "clave"),
			keywords("fr", FieldPassword, "mot de passe", "clé"),
			keywords("de", FieldPassword, "passwort", "kennwort", "schlüssel"),
			keywords("ja", FieldPassword, "パスワード", "暗号", "キー"),
			keywords("ko", FieldPassword, "비밀번호", "암호", "키"),
		),
	}
}
