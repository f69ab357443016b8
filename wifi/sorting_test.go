package wifi

import (
	"reflect"
	"testing"
)

func TestSortBySignal(t *testing.T) {
	strong, weak := DBm(-40), DBm(-80)

	tests := []struct {
		name     string
		networks []Network
		expected []Network
	}{
		{
			name: "Sort by level",
			networks: []Network{
				{SSID: "Weak", Level: weak},
				{SSID: "Strong", Level: strong},
			},
			expected: []Network{
				{SSID: "Strong", Level: strong},
				{SSID: "Weak", Level: weak},
			},
		},
		{
			name: "Negative levels are not magnitudes",
			networks: []Network{
				{SSID: "Far", Level: DBm(-90)},
				{SSID: "Near", Level: DBm(-30)},
				{SSID: "Middle", Level: DBm(-60)},
			},
			expected: []Network{
				{SSID: "Near", Level: DBm(-30)},
				{SSID: "Middle", Level: DBm(-60)},
				{SSID: "Far", Level: DBm(-90)},
			},
		},
		{
			name: "Unknown level last",
			networks: []Network{
				{SSID: "NoLevel"},
				{SSID: "Weak", Level: weak},
			},
			expected: []Network{
				{SSID: "Weak", Level: weak},
				{SSID: "NoLevel"},
			},
		},
		{
			name: "Sort by SSID",
			networks: []Network{
				{SSID: "B"},
				{SSID: "A"},
			},
			expected: []Network{
				{SSID: "A"},
				{SSID: "B"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SortBySignal(tt.networks)
			if !reflect.DeepEqual(tt.networks, tt.expected) {
				t.Errorf("SortBySignal() got = %v, want %v", tt.networks, tt.expected)
			}
		})
	}
}
