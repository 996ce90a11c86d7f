package analyzer

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/nao1215/seoscan/internal/model"
)

// missingSrc is shown in details when an image has no usable source attribute.
const missingSrc = "[Image source not found]"

// ImageAnalyzer checks the alt text of every <img>.
type ImageAnalyzer struct {
	thresholds Thresholds
}

// NewImageAnalyzer creates a new ImageAnalyzer.
func NewImageAnalyzer(t Thresholds) *ImageAnalyzer {
	return &ImageAnalyzer{thresholds: t}
}

// Name returns the analyzer name.
func (a *ImageAnalyzer) Name() string {
	return "images"
}

// Category returns the analyzer category.
func (a *ImageAnalyzer) Category() string {
	return CategoryOnPage
}

// Analyze checks image alt attributes and fills the images section.
func (a *ImageAnalyzer) Analyze(_ context.Context, data *AnalysisData) ([]model.Finding, error) {
	images := data.Document.Images()
	findings := make([]model.Finding, 0)
	stats := model.ImageStats{Total: len(images)}

	if len(images) == 0 {
		findings = append(findings, finding(model.SeverityInfo, "No Images Found on Page", ElementImageSEO,
			"No <img> tags were found in the HTML content. Images can enhance user engagement.",
			"If images are relevant to your content, consider adding them with appropriate alt text."))
	}

	for _, img := range images {
		src := img.Src
		if src == "" {
			src = missingSrc
		}
		src = truncate(src, 60)

		if !img.HasAlt {
			stats.MissingAlt++
			findings = append(findings, finding(model.SeverityError, "Missing Alt Attribute", ElementImageAlt,
				fmt.Sprintf("Image '%s...' is missing the 'alt' attribute entirely.", src),
				`Add a descriptive 'alt' attribute to all meaningful images. For purely decorative images, use an empty alt attribute (alt="").`))
			continue
		}

		stats.WithAlt++
		alt := strings.TrimSpace(img.Alt)
		switch {
		case alt == "":
			stats.EmptyAlt++
			if img.Decorative {
				stats.DecorativeMarked++
				findings = append(findings, finding(model.SeverityGood, "Decorative Image Correctly Marked", ElementImageAlt,
					fmt.Sprintf("Image '%s...' has an empty alt attribute and is marked as decorative.", src), ""))
			} else {
				findings = append(findings, finding(model.SeverityWarning, "Empty Alt Text for Potentially Non-Decorative Image", ElementImageAlt,
					fmt.Sprintf(`Image '%s...' has an empty alt attribute (alt=""). This implies it's decorative.`, src),
					"If the image is informative, provide descriptive alt text. If it's purely decorative, consider also adding role='presentation'."))
			}
		case utf8.RuneCountInString(alt) > a.thresholds.MaxAltTextLength:
			stats.LongAlt++
			findings = append(findings, finding(model.SeverityWarning, "Alt Text Too Long", ElementImageAlt,
				fmt.Sprintf("The alt text for image '%s...' is %d characters long (max recommended: %d).", src, utf8.RuneCountInString(alt), a.thresholds.MaxAltTextLength),
				fmt.Sprintf("Keep alt text concise yet descriptive, ideally under %d characters.", a.thresholds.MaxAltTextLength)))
		}
	}

	if stats.Total > 0 && stats.MissingAlt == 0 {
		if stats.EmptyAlt == stats.DecorativeMarked {
			findings = append(findings, finding(model.SeverityGood, "Good Image Alt Text Coverage", ElementImageAlt,
				"All detected images have alt text or are correctly marked as decorative.", ""))
		} else {
			findings = append(findings, finding(model.SeverityInfo, "Some Images Have Empty Alt Text", ElementImageAlt,
				fmt.Sprintf("%d image(s) have empty alt text and are not explicitly marked decorative. Review them.", stats.EmptyAlt-stats.DecorativeMarked), ""))
		}
	}

	data.Report.Images = stats
	return findings, nil
}

// Ensure ImageAnalyzer implements CheckAnalyzer.
var _ CheckAnalyzer = (*ImageAnalyzer)(nil)
