package scoring

import (
	"testing"
	"time"

	"github.com/matchwell/matchwell/internal/crm"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func fixedClock(t time.Time) Option {
	return WithClock(func() time.Time { return t })
}

func TestScoreFullScenario(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	scorer := NewScorer(DefaultWeights(), fixedClock(now))

	candidate := &crm.Candidate{
		ID:                1,
		Email:             "dana@example.com",
		Phone:             "+972-50-0000000",
		City:              "Tel Aviv",
		CurrentTitle:      "Senior Backend Engineer",
		ResumeURL:         "https://files.example.com/dana.pdf",
		LinkedinURL:       "https://linkedin.com/in/dana",
		YearsOfExperience: intPtr(5),
		Rating:            floatPtr(4),
		Tags: crm.Tags{
			{ID: 1, Name: "Go"},
			{ID: 2, Name: "PostgreSQL"},
			{ID: 3, Name: "Kubernetes"},
		},
	}

	position := &crm.Position{
		ID:        10,
		Title:     "Backend Engineer",
		Location:  "Tel Aviv",
		CreatedAt: now,
		Active:    true,
		Tags: crm.Tags{
			{ID: 1, Name: "Go"},
			{ID: 2, Name: "PostgreSQL"},
			{ID: 3, Name: "Kubernetes"},
			{ID: 4, Name: "AWS"},
			{ID: 5, Name: "Terraform"},
		},
	}

	result := scorer.Score(candidate, position)

	b := result.Breakdown
	if b.TagOverlap != 24 {
		t.Fatalf("expected tag overlap 24, got %d", b.TagOverlap)
	}
	if b.PartialTagOverlap != 0 {
		t.Fatalf("expected partial overlap 0, got %d", b.PartialTagOverlap)
	}
	if b.Experience != 15 {
		t.Fatalf("expected experience 15, got %d", b.Experience)
	}
	if b.Rating != 8 {
		t.Fatalf("expected rating 8, got %d", b.Rating)
	}
	if b.Location != 5 {
		t.Fatalf("expected location 5, got %d", b.Location)
	}
	if b.TitleOverlap != 6 {
		t.Fatalf("expected title overlap 6, got %d", b.TitleOverlap)
	}
	if b.Freshness != 5 {
		t.Fatalf("expected freshness 5, got %d", b.Freshness)
	}
	if b.ContactCompleteness != 2 {
		t.Fatalf("expected contact 2, got %d", b.ContactCompleteness)
	}
	if b.ResumePresent != 2 || b.SocialPresent != 1 {
		t.Fatalf("expected resume 2 and social 1, got %d/%d", b.ResumePresent, b.SocialPresent)
	}
	if result.Total != 68 {
		t.Fatalf("expected total 68, got %d", result.Total)
	}
}

func TestScoreNoTagCandidate(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	scorer := NewScorer(DefaultWeights(), fixedClock(now))

	candidate := &crm.Candidate{ID: 2}
	position := &crm.Position{
		ID:        11,
		Title:     "Data Engineer",
		CreatedAt: now,
		Tags:      crm.Tags{{ID: 1, Name: "Spark"}, {ID: 2, Name: "Python"}},
	}

	result := scorer.Score(candidate, position)

	if result.Breakdown.TagOverlap != 0 || result.Breakdown.PartialTagOverlap != 0 {
		t.Fatalf("tag components must be zero for a no-tag candidate, got %d/%d",
			result.Breakdown.TagOverlap, result.Breakdown.PartialTagOverlap)
	}
	// Brand-new posting: only the freshness bonus applies.
	if result.Total != 5 {
		t.Fatalf("expected total 5, got %d", result.Total)
	}
}

func TestScoreExactTagEquality(t *testing.T) {
	scorer := NewScorer(DefaultWeights())

	tags := crm.Tags{{ID: 1, Name: "Go"}, {ID: 2, Name: "gRPC"}, {ID: 3, Name: "Redis"}}
	candidate := &crm.Candidate{ID: 3, Tags: tags}
	position := &crm.Position{ID: 12, Tags: tags, CreatedAt: time.Now().AddDate(0, 0, -60)}

	result := scorer.Score(candidate, position)
	if result.Breakdown.TagOverlap != 40 {
		t.Fatalf("expected full tag overlap 40, got %d", result.Breakdown.TagOverlap)
	}
}

func TestScorePositionWithoutTags(t *testing.T) {
	scorer := NewScorer(DefaultWeights())

	candidate := &crm.Candidate{ID: 4, Tags: crm.Tags{{ID: 1, Name: "Go"}}}
	position := &crm.Position{ID: 13, CreatedAt: time.Now().AddDate(0, 0, -60)}

	result := scorer.Score(candidate, position)
	if result.Breakdown.TagOverlap != 0 || result.Breakdown.PartialTagOverlap != 0 {
		t.Fatalf("expected zero tag components when position has no tags")
	}
}

func TestScorePartialTagOverlap(t *testing.T) {
	scorer := NewScorer(DefaultWeights())

	candidate := &crm.Candidate{ID: 5, Tags: crm.Tags{
		{ID: 10, Name: "Java"},
		{ID: 11, Name: "React"},
	}}
	position := &crm.Position{ID: 14, CreatedAt: time.Now().AddDate(0, 0, -60), Tags: crm.Tags{
		{ID: 20, Name: "JavaScript"},
		{ID: 21, Name: "React Native"},
	}}

	result := scorer.Score(candidate, position)
	// Two substring pairs: Java/JavaScript and React/React Native.
	if result.Breakdown.PartialTagOverlap != 6 {
		t.Fatalf("expected partial overlap 6, got %d", result.Breakdown.PartialTagOverlap)
	}
	if result.Breakdown.TagOverlap != 0 {
		t.Fatalf("expected no exact overlap, got %d", result.Breakdown.TagOverlap)
	}
}

func TestScorePartialTagCap(t *testing.T) {
	scorer := NewScorer(DefaultWeights())

	var candidateTags, positionTags crm.Tags
	for i := int64(0); i < 5; i++ {
		candidateTags = append(candidateTags, crm.Tag{ID: 100 + i, Name: "devops"})
		positionTags = append(positionTags, crm.Tag{ID: 200 + i, Name: "devops engineer"})
	}

	candidate := &crm.Candidate{ID: 6, Tags: candidateTags}
	position := &crm.Position{ID: 15, CreatedAt: time.Now().AddDate(0, 0, -60), Tags: positionTags}

	result := scorer.Score(candidate, position)
	if result.Breakdown.PartialTagOverlap != 10 {
		t.Fatalf("expected partial overlap capped at 10, got %d", result.Breakdown.PartialTagOverlap)
	}
}

func TestScoreExperienceTiers(t *testing.T) {
	scorer := NewScorer(DefaultWeights())
	position := &crm.Position{ID: 16, CreatedAt: time.Now().AddDate(0, 0, -60)}

	cases := []struct {
		name  string
		years *int
		want  int
	}{
		{name: "absent", years: nil, want: 0},
		{name: "zero", years: intPtr(0), want: 2},
		{name: "one", years: intPtr(1), want: 5},
		{name: "three", years: intPtr(3), want: 10},
		{name: "five", years: intPtr(5), want: 15},
		{name: "ten", years: intPtr(10), want: 15},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			candidate := &crm.Candidate{ID: 7, YearsOfExperience: tc.years}
			result := scorer.Score(candidate, position)
			if result.Breakdown.Experience != tc.want {
				t.Fatalf("expected experience %d, got %d", tc.want, result.Breakdown.Experience)
			}
		})
	}
}

func TestScoreFreshnessBoundaries(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	scorer := NewScorer(DefaultWeights(), fixedClock(now))
	candidate := &crm.Candidate{ID: 8}

	cases := []struct {
		days int
		want int
	}{
		{days: 0, want: 5},
		{days: 7, want: 5},
		{days: 8, want: 3},
		{days: 14, want: 3},
		{days: 15, want: 1},
		{days: 21, want: 1},
		{days: 22, want: 0},
	}

	for _, tc := range cases {
		position := &crm.Position{ID: 17, CreatedAt: now.AddDate(0, 0, -tc.days)}
		result := scorer.Score(candidate, position)
		if result.Breakdown.Freshness != tc.want {
			t.Fatalf("at %d days expected freshness %d, got %d", tc.days, tc.want, result.Breakdown.Freshness)
		}
	}
}

func TestScoreLocationRegionGroup(t *testing.T) {
	scorer := NewScorer(DefaultWeights())
	position := &crm.Position{ID: 18, CreatedAt: time.Now().AddDate(0, 0, -60), Location: "Ramat Gan"}

	candidate := &crm.Candidate{ID: 9, City: "Herzliya"}
	result := scorer.Score(candidate, position)
	if result.Breakdown.Location != 3 {
		t.Fatalf("expected region score 3, got %d", result.Breakdown.Location)
	}

	candidate.City = "Haifa"
	result = scorer.Score(candidate, position)
	if result.Breakdown.Location != 0 {
		t.Fatalf("expected no location score across regions, got %d", result.Breakdown.Location)
	}
}

func TestScoreComponentsWithinCaps(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	weights := DefaultWeights()
	scorer := NewScorer(weights, fixedClock(now))

	candidate := &crm.Candidate{
		ID:                10,
		Email:             "a@b.c",
		Phone:             "1",
		City:              "Tel Aviv",
		CurrentTitle:      "Go Backend Engineer Developer",
		ResumeURL:         "u",
		LinkedinURL:       "u",
		YearsOfExperience: intPtr(20),
		Rating:            floatPtr(5),
		Tags: crm.Tags{
			{ID: 1, Name: "Go"}, {ID: 2, Name: "Backend"}, {ID: 3, Name: "Engineer"},
			{ID: 4, Name: "Developer"}, {ID: 5, Name: "Golang"},
		},
	}
	position := &crm.Position{
		ID: 19, Title: "Go Backend Engineer Developer", Location: "Tel Aviv",
		CreatedAt: now,
		Tags: crm.Tags{
			{ID: 1, Name: "Go"}, {ID: 2, Name: "Backend"}, {ID: 3, Name: "Engineer"},
			{ID: 4, Name: "Developer"},
		},
	}

	result := scorer.Score(candidate, position)
	b := result.Breakdown

	caps := []struct {
		name  string
		value int
		max   int
	}{
		{"tag", b.TagOverlap, weights.TagOverlapMax},
		{"partial", b.PartialTagOverlap, weights.PartialTagMax},
		{"experience", b.Experience, weights.ExperienceSenior},
		{"rating", b.Rating, weights.RatingMax},
		{"location", b.Location, weights.LocationExact},
		{"title", b.TitleOverlap, weights.TitleMax},
		{"freshness", b.Freshness, weights.FreshnessWeek},
		{"contact", b.ContactCompleteness, weights.ContactFull},
		{"resume", b.ResumePresent, weights.ResumePresent},
		{"social", b.SocialPresent, weights.SocialPresent},
	}
	for _, c := range caps {
		if c.value < 0 || c.value > c.max {
			t.Fatalf("component %s = %d exceeds cap %d", c.name, c.value, c.max)
		}
	}

	if result.Total < 0 || result.Total > 100 {
		t.Fatalf("total %d out of range", result.Total)
	}
}

func TestScoreTotalClamped(t *testing.T) {
	// Inflated weights push the raw sum past 100; the total must clamp.
	weights := DefaultWeights()
	weights.TagOverlapMax = 90
	weights.ExperienceSenior = 50

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	scorer := NewScorer(weights, fixedClock(now))

	tags := crm.Tags{{ID: 1, Name: "Go"}}
	candidate := &crm.Candidate{ID: 11, Tags: tags, YearsOfExperience: intPtr(8)}
	position := &crm.Position{ID: 20, Tags: tags, CreatedAt: now}

	result := scorer.Score(candidate, position)
	if result.Total != 100 {
		t.Fatalf("expected clamped total 100, got %d", result.Total)
	}
	if result.Breakdown.Sum() <= 100 {
		t.Fatalf("expected raw sum above 100, got %d", result.Breakdown.Sum())
	}
}

func TestScoreRatingRounding(t *testing.T) {
	scorer := NewScorer(DefaultWeights())
	position := &crm.Position{ID: 21, CreatedAt: time.Now().AddDate(0, 0, -60)}

	candidate := &crm.Candidate{ID: 12, Rating: floatPtr(3.7)}
	result := scorer.Score(candidate, position)
	// 3.7/5*10 = 7.4 rounds to 7.
	if result.Breakdown.Rating != 7 {
		t.Fatalf("expected rating 7, got %d", result.Breakdown.Rating)
	}
}
