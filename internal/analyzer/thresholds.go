package analyzer

// Thresholds holds every tunable limit used by the checks.
type Thresholds struct {
	// TitleMin and TitleMax bound the optimal title length in characters.
	TitleMin int
	TitleMax int

	// DescriptionMin and DescriptionMax bound the optimal meta description length.
	DescriptionMin int
	DescriptionMax int

	// MaxH1 is the number of H1 tags above which a warning is raised.
	MaxH1 int

	// MaxHeadingLength and MaxHeadingWords limit H1-H3 texts.
	MaxHeadingLength int
	MaxHeadingWords  int

	// MinContentLength is the main content length, in characters, below
	// which the page counts as thin.
	MinContentLength int

	// MinTextHTMLRatio is the minimum text-to-markup percentage.
	MinTextHTMLRatio float64

	// ReadabilityMinChars is the content length that must be exceeded for
	// the readability score to be assessed.
	ReadabilityMinChars int

	// KeywordMinWordLength drops shorter tokens from keyword density.
	KeywordMinWordLength int

	// KeywordMinDensity is the minimum density percentage to report a term.
	KeywordMinDensity float64

	// KeywordTopN limits the number of reported terms.
	KeywordTopN int

	// TargetKeywordMin and TargetKeywordMax bound the healthy share of a
	// configured target keyword, in percent.
	TargetKeywordMin float64
	TargetKeywordMax float64

	// MaxAltTextLength is the alt text length above which a warning is raised.
	MaxAltTextLength int

	// ExternalLinkMinCount and ExternalLinkRatio together flag pages
	// dominated by external links.
	ExternalLinkMinCount int
	ExternalLinkRatio    float64

	// MaxPageSizeBytes is the response size above which a warning is raised.
	MaxPageSizeBytes int

	// SlowLoadMillis raises a warning; ModerateLoadMillis raises an info.
	SlowLoadMillis     float64
	ModerateLoadMillis float64

	// HSTSMinMaxAge is the minimum acceptable Strict-Transport-Security max-age.
	HSTSMinMaxAge int
}

// DefaultThresholds returns the standard limits.
func DefaultThresholds() Thresholds {
	return Thresholds{
		TitleMin:             30,
		TitleMax:             60,
		DescriptionMin:       70,
		DescriptionMax:       160,
		MaxH1:                1,
		MaxHeadingLength:     70,
		MaxHeadingWords:      12,
		MinContentLength:     300,
		MinTextHTMLRatio:     15.0,
		ReadabilityMinChars:  50,
		KeywordMinWordLength: 3,
		KeywordMinDensity:    1.0,
		KeywordTopN:          10,
		TargetKeywordMin:     0.5,
		TargetKeywordMax:     2.0,
		MaxAltTextLength:     125,
		ExternalLinkMinCount: 20,
		ExternalLinkRatio:    0.6,
		MaxPageSizeBytes:     300 * 1024,
		SlowLoadMillis:       3000,
		ModerateLoadMillis:   1000,
		HSTSMinMaxAge:        31536000,
	}
}
