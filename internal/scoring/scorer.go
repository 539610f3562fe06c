// Package scoring computes the deterministic attribute-based compatibility
// score between a candidate and a position. It is a pure function over the
// two records: no I/O, no external services.
package scoring

import (
	"math"
	"strings"
	"time"

	"github.com/matchwell/matchwell/internal/crm"
)

const maxTotal = 100

// Breakdown holds the per-factor components. Each component lies within its
// configured cap; the total is the clamped sum.
type Breakdown struct {
	TagOverlap          int `json:"tag_overlap"`
	PartialTagOverlap   int `json:"partial_tag_overlap"`
	Experience          int `json:"experience"`
	Rating              int `json:"rating"`
	Location            int `json:"location"`
	TitleOverlap        int `json:"title_overlap"`
	Freshness           int `json:"freshness"`
	ContactCompleteness int `json:"contact_completeness"`
	ResumePresent       int `json:"resume_present"`
	SocialPresent       int `json:"social_present"`
}

func (b Breakdown) Sum() int {
	return b.TagOverlap + b.PartialTagOverlap + b.Experience + b.Rating +
		b.Location + b.TitleOverlap + b.Freshness + b.ContactCompleteness +
		b.ResumePresent + b.SocialPresent
}

// Score is the result of one scoring call.
type Score struct {
	Breakdown Breakdown `json:"breakdown"`
	Total     int       `json:"total"`
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithClock overrides the time source used for the freshness factor.
func WithClock(now func() time.Time) Option {
	return func(s *Scorer) {
		if now != nil {
			s.now = now
		}
	}
}

type Scorer struct {
	weights Weights
	now     func() time.Time
}

func NewScorer(weights Weights, opts ...Option) *Scorer {
	s := &Scorer{
		weights: weights,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score computes the factor breakdown for the pair. Total is the sum of all
// components clamped to 100.
func (s *Scorer) Score(candidate *crm.Candidate, position *crm.Position) Score {
	b := Breakdown{
		Experience:          s.experienceScore(candidate),
		Rating:              s.ratingScore(candidate),
		Location:            s.locationScore(candidate.City, position.Location),
		TitleOverlap:        s.titleScore(candidate.CurrentTitle, position.Title),
		Freshness:           s.freshnessScore(position.CreatedAt),
		ContactCompleteness: s.contactScore(candidate),
	}

	// A no-tag candidate still gets a breakdown; only the tag components
	// are forced to zero.
	if candidate.Tags.Len() > 0 {
		b.TagOverlap, b.PartialTagOverlap = s.tagScores(candidate.Tags, position.Tags)
	}

	if candidate.ResumeURL != "" {
		b.ResumePresent = s.weights.ResumePresent
	}
	if candidate.LinkedinURL != "" {
		b.SocialPresent = s.weights.SocialPresent
	}

	total := b.Sum()
	if total > maxTotal {
		total = maxTotal
	}

	return Score{Breakdown: b, Total: total}
}

func (s *Scorer) tagScores(candidateTags, positionTags crm.Tags) (exact, partial int) {
	if positionTags.Len() == 0 {
		return 0, 0
	}

	candidateIDs := candidateTags.IDs()
	matchedPosition := make(map[int64]bool)
	overlap := 0
	for _, tag := range positionTags {
		if candidateIDs[tag.ID] {
			overlap++
			matchedPosition[tag.ID] = true
		}
	}

	exact = int(math.Round(float64(overlap) / float64(positionTags.Len()) * float64(s.weights.TagOverlapMax)))

	// Partial credit only for tags not already counted by id.
	pairs := 0
	for _, ct := range candidateTags {
		if matchedPosition[ct.ID] {
			continue
		}
		for _, pt := range positionTags {
			if matchedPosition[pt.ID] {
				continue
			}
			if crm.NamesPartiallyMatch(ct.Name, pt.Name) {
				pairs++
			}
		}
	}

	partial = pairs * s.weights.PartialTagPerPair
	if partial > s.weights.PartialTagMax {
		partial = s.weights.PartialTagMax
	}

	return exact, partial
}

func (s *Scorer) experienceScore(candidate *crm.Candidate) int {
	if candidate.YearsOfExperience == nil {
		return 0
	}

	years := *candidate.YearsOfExperience
	switch {
	case years >= 5:
		return s.weights.ExperienceSenior
	case years >= 3:
		return s.weights.ExperienceMid
	case years >= 1:
		return s.weights.ExperienceJunior
	default:
		return s.weights.ExperienceEntry
	}
}

func (s *Scorer) ratingScore(candidate *crm.Candidate) int {
	if candidate.Rating == nil {
		return 0
	}
	return int(math.Round(*candidate.Rating / 5 * float64(s.weights.RatingMax)))
}

func (s *Scorer) locationScore(city, location string) int {
	city = strings.ToLower(strings.TrimSpace(city))
	location = strings.ToLower(strings.TrimSpace(location))
	if city == "" || location == "" {
		return 0
	}

	if strings.Contains(city, location) || strings.Contains(location, city) {
		return s.weights.LocationExact
	}
	if sameRegion(city, location) {
		return s.weights.LocationRegion
	}
	return 0
}

func (s *Scorer) titleScore(candidateTitle, positionTitle string) int {
	candidateTokens := strings.Fields(strings.ToLower(candidateTitle))
	positionTokens := strings.Fields(strings.ToLower(positionTitle))
	if len(candidateTokens) == 0 || len(positionTokens) == 0 {
		return 0
	}

	matches := 0
	for _, ct := range candidateTokens {
		for _, pt := range positionTokens {
			if strings.Contains(ct, pt) || strings.Contains(pt, ct) {
				matches++
				break
			}
		}
	}

	score := matches * s.weights.TitlePerToken
	if score > s.weights.TitleMax {
		score = s.weights.TitleMax
	}
	return score
}

func (s *Scorer) freshnessScore(createdAt time.Time) int {
	if createdAt.IsZero() {
		return 0
	}

	days := int(s.now().Sub(createdAt).Hours() / 24)
	switch {
	case days <= 7:
		return s.weights.FreshnessWeek
	case days <= 14:
		return s.weights.FreshnessFortnight
	case days <= 21:
		return s.weights.FreshnessThreeWeeks
	default:
		return 0
	}
}

func (s *Scorer) contactScore(candidate *crm.Candidate) int {
	email, phone := candidate.HasContact()
	switch {
	case email && phone:
		return s.weights.ContactFull
	case email || phone:
		return s.weights.ContactPartial
	default:
		return 0
	}
}
