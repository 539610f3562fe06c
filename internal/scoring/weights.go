package scoring

// Weights is the explicit scoring configuration passed into NewScorer.
// Every factor cap and tier value is a knob; DefaultWeights returns the
// documented defaults that make the breakdown sum to at most 100.
type Weights struct {
	// Tag overlap: share of the position's tags the candidate carries,
	// scaled to TagOverlapMax and rounded.
	TagOverlapMax int `mapstructure:"tag-overlap-max"`

	// Partial tag overlap: substring pairs among tags not already counted.
	PartialTagMax     int `mapstructure:"partial-tag-max"`
	PartialTagPerPair int `mapstructure:"partial-tag-per-pair"`

	// Experience tiers: >=5 years, >=3, >=1, present but zero.
	ExperienceSenior int `mapstructure:"experience-senior"`
	ExperienceMid    int `mapstructure:"experience-mid"`
	ExperienceJunior int `mapstructure:"experience-junior"`
	ExperienceEntry  int `mapstructure:"experience-entry"`

	RatingMax int `mapstructure:"rating-max"`

	// Location: exact substring match, or same predefined region group.
	LocationExact  int `mapstructure:"location-exact"`
	LocationRegion int `mapstructure:"location-region"`

	TitleMax      int `mapstructure:"title-max"`
	TitlePerToken int `mapstructure:"title-per-token"`

	// Freshness tiers by days since the posting was created.
	FreshnessWeek       int `mapstructure:"freshness-week"`
	FreshnessFortnight  int `mapstructure:"freshness-fortnight"`
	FreshnessThreeWeeks int `mapstructure:"freshness-three-weeks"`

	ContactFull    int `mapstructure:"contact-full"`
	ContactPartial int `mapstructure:"contact-partial"`
	ResumePresent  int `mapstructure:"resume-present"`
	SocialPresent  int `mapstructure:"social-present"`
}

func DefaultWeights() Weights {
	return Weights{
		TagOverlapMax:       40,
		PartialTagMax:       10,
		PartialTagPerPair:   3,
		ExperienceSenior:    15,
		ExperienceMid:       10,
		ExperienceJunior:    5,
		ExperienceEntry:     2,
		RatingMax:           10,
		LocationExact:       5,
		LocationRegion:      3,
		TitleMax:            10,
		TitlePerToken:       3,
		FreshnessWeek:       5,
		FreshnessFortnight:  3,
		FreshnessThreeWeeks: 1,
		ContactFull:         2,
		ContactPartial:      1,
		ResumePresent:       2,
		SocialPresent:       1,
	}
}
