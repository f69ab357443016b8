package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shazow/wifisnap/wifi"
)

func nets(ssids ...string) []wifi.Network {
	out := make([]wifi.Network, 0, len(ssids))
	for _, s := range ssids {
		out = append(out, wifi.Network{SSID: s})
	}
	return out
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("HomeNet", "HomeNet"))
	assert.Equal(t, 1.0, Similarity("", ""))
	assert.Equal(t, 0.0, Similarity("abc", ""))

	caseOnly := Similarity("homenet", "HomeNet")
	assert.Less(t, caseOnly, 1.0)
	assert.Greater(t, caseOnly, 0.9)

	// Fullwidth letters, as some OCR engines emit them.
	assert.Equal(t, 1.0, Similarity("ＨｏｍｅＮｅｔ", "HomeNet"))

	assert.Equal(t, Similarity("a", "b"), Similarity("b", "a"))
	assert.Equal(t, Similarity("Cafe", "Cafe Free WiFi"), Similarity("Cafe Free WiFi", "Cafe"))
}

func TestRank(t *testing.T) {
	results := Rank("Cafe Free Wifi", nets("Airport Lounge", "Cafe Free WiFi"))
	require.Len(t, results, 1)
	assert.Equal(t, "Cafe Free WiFi", results[0].Network.SSID)

	results = New(0).Rank("Cafe Free Wifi", nets("Airport Lounge", "Cafe Free WiFi"))
	require.Len(t, results, 2)
	assert.Equal(t, "Cafe Free WiFi", results[0].Network.SSID)
	assert.Equal(t, "Airport Lounge", results[1].Network.SSID)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
}

func TestRankExactBeatsNearMiss(t *testing.T) {
	catalog := []wifi.Network{
		{SSID: "HomeNett", Level: wifi.DBm(-60)},
		{SSID: "HomeNet", Level: wifi.DBm(-55)},
	}
	best, ok := Best("HomeNet", catalog)
	require.True(t, ok)
	assert.Equal(t, "HomeNet", best.SSID)

	results := Rank("HomeNet", catalog)
	require.Len(t, results, 2)
	assert.Equal(t, 1.0, results[0].Score)
	assert.Equal(t, "HomeNett", results[1].Network.SSID)
}

func TestRankTypo(t *testing.T) {
	// One OCR error in a short name still clears the default threshold.
	best, ok := Best("H0me", nets("Home", "Office"))
	require.True(t, ok)
	assert.Equal(t, "Home", best.SSID)
}

func TestRankShortName(t *testing.T) {
	best, ok := Best("AC", nets("AB", "Office"))
	require.True(t, ok)
	assert.Equal(t, "AB", best.SSID)

	assert.Empty(t, Rank("AC", nets("BD", "A", "ABCD")))
	assert.Empty(t, New(0.9).Rank("AC", nets("AB")))
}

func TestRankStable(t *testing.T) {
	results := New(0).Rank("ab", nets("ax", "ay", "az"))
	require.Len(t, results, 3)
	assert.Equal(t, []string{"ax", "ay", "az"}, []string{
		results[0].Network.SSID, results[1].Network.SSID, results[2].Network.SSID,
	})
}

func TestRankEmpty(t *testing.T) {
	assert.Empty(t, Rank("", nets("HomeNet")))
	assert.Empty(t, Rank("   ", nets("HomeNet")))
	assert.Empty(t, Rank("HomeNet", nil))
	assert.NotNil(t, Rank("HomeNet", nil))

	_, ok := Best("HomeNet", nil)
	assert.False(t, ok)
	_, ok = Best("Zzzzzz", nets("HomeNet"))
	assert.False(t, ok)
}

func TestNewClamps(t *testing.T) {
	assert.Equal(t, 0.0, New(-1).Threshold)
	assert.Equal(t, 1.0, New(2).Threshold)
	assert.Equal(t, 0.75, New(0.75).Threshold)

	results := New(1).Rank("HomeNet", nets("HomeNet", "homenet"))
	require.Len(t, results, 1)
	assert.Equal(t, "HomeNet", results[0].Network.SSID)
}
