package crm

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
)

// ProfileVersion is the current shape of the cached analysis. Stored blobs
// carry their own version so old cached data can coexist with newer analyzer
// output; readers branch on the discriminant instead of assuming shape.
const ProfileVersion = 1

// Profile is a cached structured summary of a candidate resume or a position
// description, produced by the text-understanding service.
type Profile struct {
	Version    int       `json:"profile_version" mapstructure:"profile_version"`
	Skills     []string  `json:"skills,omitempty" mapstructure:"skills"`
	Seniority  string    `json:"seniority,omitempty" mapstructure:"seniority"`
	Industries []string  `json:"industries,omitempty" mapstructure:"industries"`
	Keywords   []string  `json:"keywords,omitempty" mapstructure:"keywords"`
	Summary    string    `json:"summary,omitempty" mapstructure:"summary"`
	AnalyzedAt time.Time `json:"analyzed_at" mapstructure:"-"`
}

// ErrUnknownProfileVersion is returned by DecodeProfile when the stored blob
// carries a version this build does not understand. Callers treat it as a
// cache miss and recompute.
var ErrUnknownProfileVersion = fmt.Errorf("unknown profile version")

// DecodeProfile turns a raw stored blob into a Profile, branching on the
// profile_version discriminant.
func DecodeProfile(raw map[string]any, analyzedAt time.Time) (*Profile, error) {
	if raw == nil {
		return nil, fmt.Errorf("profile blob is empty")
	}

	version := 0
	switch v := raw["profile_version"].(type) {
	case float64:
		version = int(v)
	case int:
		version = v
	}

	switch version {
	case ProfileVersion:
		var profile Profile
		if err := mapstructure.Decode(raw, &profile); err != nil {
			return nil, fmt.Errorf("decode profile v%d: %w", version, err)
		}
		profile.Version = ProfileVersion
		profile.AnalyzedAt = analyzedAt
		return &profile, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownProfileVersion, version)
	}
}

// Valid reports whether the cached profile can be served without recompute.
// Staleness is caller-driven: there is no TTL, only forceRefresh.
func (p *Profile) Valid(forceRefresh bool) bool {
	return p != nil && p.Version == ProfileVersion && !forceRefresh
}
