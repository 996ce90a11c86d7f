package config

import (
	"fmt"

	"github.com/nao1215/seoscan/internal/analyzer"
)

// ThresholdOverrides holds the analyzer limits a configuration file may
// change. Nil fields keep the default.
type ThresholdOverrides struct {
	TitleMin             *int     `yaml:"titleMin,omitempty"`
	TitleMax             *int     `yaml:"titleMax,omitempty"`
	DescriptionMin       *int     `yaml:"descriptionMin,omitempty"`
	DescriptionMax       *int     `yaml:"descriptionMax,omitempty"`
	MaxH1                *int     `yaml:"maxH1,omitempty"`
	MinContentLength     *int     `yaml:"minContentLength,omitempty"`
	MinTextHTMLRatio     *float64 `yaml:"minTextHtmlRatio,omitempty"`
	KeywordMinDensity    *float64 `yaml:"keywordMinDensity,omitempty"`
	KeywordTopN          *int     `yaml:"keywordTopN,omitempty"`
	MaxAltTextLength     *int     `yaml:"maxAltTextLength,omitempty"`
	ExternalLinkMinCount *int     `yaml:"externalLinkMinCount,omitempty"`
	ExternalLinkRatio    *float64 `yaml:"externalLinkRatio,omitempty"`
	MaxPageSizeBytes     *int     `yaml:"maxPageSizeBytes,omitempty"`
}

// Apply returns base with the overrides applied, or ErrInvalidThreshold
// when a value is negative or a minimum exceeds its maximum.
func (o ThresholdOverrides) Apply(base analyzer.Thresholds) (analyzer.Thresholds, error) {
	t := base
	setInt(&t.TitleMin, o.TitleMin)
	setInt(&t.TitleMax, o.TitleMax)
	setInt(&t.DescriptionMin, o.DescriptionMin)
	setInt(&t.DescriptionMax, o.DescriptionMax)
	setInt(&t.MaxH1, o.MaxH1)
	setInt(&t.MinContentLength, o.MinContentLength)
	setFloat(&t.MinTextHTMLRatio, o.MinTextHTMLRatio)
	setFloat(&t.KeywordMinDensity, o.KeywordMinDensity)
	setInt(&t.KeywordTopN, o.KeywordTopN)
	setInt(&t.MaxAltTextLength, o.MaxAltTextLength)
	setInt(&t.ExternalLinkMinCount, o.ExternalLinkMinCount)
	setFloat(&t.ExternalLinkRatio, o.ExternalLinkRatio)
	setInt(&t.MaxPageSizeBytes, o.MaxPageSizeBytes)

	for name, v := range map[string]int{
		"titleMin":             t.TitleMin,
		"titleMax":             t.TitleMax,
		"descriptionMin":       t.DescriptionMin,
		"descriptionMax":       t.DescriptionMax,
		"maxH1":                t.MaxH1,
		"minContentLength":     t.MinContentLength,
		"keywordTopN":          t.KeywordTopN,
		"maxAltTextLength":     t.MaxAltTextLength,
		"externalLinkMinCount": t.ExternalLinkMinCount,
		"maxPageSizeBytes":     t.MaxPageSizeBytes,
	} {
		if v < 0 {
			return base, fmt.Errorf("%w: %s must be non-negative", ErrInvalidThreshold, name)
		}
	}
	if t.MinTextHTMLRatio < 0 || t.KeywordMinDensity < 0 {
		return base, fmt.Errorf("%w: percentages must be non-negative", ErrInvalidThreshold)
	}
	if t.ExternalLinkRatio < 0 || t.ExternalLinkRatio > 1 {
		return base, fmt.Errorf("%w: externalLinkRatio must be between 0 and 1", ErrInvalidThreshold)
	}
	if t.TitleMin > t.TitleMax {
		return base, fmt.Errorf("%w: titleMin %d exceeds titleMax %d", ErrInvalidThreshold, t.TitleMin, t.TitleMax)
	}
	if t.DescriptionMin > t.DescriptionMax {
		return base, fmt.Errorf("%w: descriptionMin %d exceeds descriptionMax %d", ErrInvalidThreshold, t.DescriptionMin, t.DescriptionMax)
	}
	return t, nil
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
