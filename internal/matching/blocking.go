package matching

import "strings"

// blockedBy reports whether the position employer conflicts with any employer
// from the candidate's history: a case-insensitive substring relationship in
// either direction. Returns the matching employer name.
func blockedBy(positionEmployer string, candidateEmployers []string) (string, bool) {
	employer := strings.ToLower(strings.TrimSpace(positionEmployer))
	if employer == "" {
		return "", false
	}

	for _, known := range candidateEmployers {
		k := strings.ToLower(strings.TrimSpace(known))
		if k == "" {
			continue
		}
		if strings.Contains(employer, k) || strings.Contains(k, employer) {
			return known, true
		}
	}

	return "", false
}
