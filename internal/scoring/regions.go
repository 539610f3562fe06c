package scoring

import "strings"

// Region groups give partial location credit when candidate and position
// are in the same metro area without an exact city match.
var regionGroups = [][]string{
	{"tel aviv", "tel-aviv", "ramat gan", "givatayim", "herzliya", "petah tikva", "bnei brak", "holon", "bat yam", "rishon lezion"},
	{"haifa", "nesher", "tirat carmel", "kiryat ata", "kiryat bialik", "kiryat motzkin", "kiryat yam"},
	{"jerusalem", "mevaseret zion", "maale adumim", "beit shemesh"},
}

func regionIndex(location string) int {
	location = strings.ToLower(strings.TrimSpace(location))
	if location == "" {
		return -1
	}

	for idx, group := range regionGroups {
		for _, city := range group {
			if strings.Contains(location, city) {
				return idx
			}
		}
	}
	return -1
}

// sameRegion reports whether both locations fall into the same region group.
func sameRegion(a, b string) bool {
	ai := regionIndex(a)
	if ai == -1 {
		return false
	}
	return ai == regionIndex(b)
}
