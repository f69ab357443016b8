package wifi

import "sort"

// SortBySignal sorts a slice of Network structs in place.
// The sorting order is:
// 1. Networks with a known level, strongest first.
// 2. Networks without a level.
// 3. Fallback to SSID alphabetically.
func SortBySignal(nets []Network) {
	sort.SliceStable(nets, func(i, j int) bool {
		a := nets[i]
		b := nets[j]

		if a.Stronger(b) {
			return true
		}
		if b.Stronger(a) {
			return false
		}

		// Fallback to sorting by SSID.
		return a.SSID < b.SSID
	})
}
