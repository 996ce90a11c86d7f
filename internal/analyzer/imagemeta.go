package analyzer

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"

	"github.com/nao1215/seoscan/internal/model"
)

// defaultMaxImageSize limits how much of an image is downloaded.
const defaultMaxImageSize = 5 * 1024 * 1024

// gpsTags are the EXIF tags that place a photo on a map.
var gpsTags = map[string]bool{
	"GPSLatitude":     true,
	"GPSLongitude":    true,
	"GPSLatitudeRef":  true,
	"GPSLongitudeRef": true,
	"GPSAltitude":     true,
}

// ImageMetadataAnalyzer downloads same-site images and reports the EXIF
// metadata they carry. Published photos often leak GPS coordinates, and
// metadata inflates file size.
//
// It needs an HTTP client set with SetHTTPClient before use.
type ImageMetadataAnalyzer struct {
	// httpClient fetches images.
	httpClient *http.Client

	// maxImageSize limits the size of images to download.
	maxImageSize int64

	// imageURLPattern matches addresses of formats that can carry EXIF.
	imageURLPattern *regexp.Regexp
}

// NewImageMetadataAnalyzer creates a new ImageMetadataAnalyzer.
func NewImageMetadataAnalyzer() *ImageMetadataAnalyzer {
	return &ImageMetadataAnalyzer{
		maxImageSize:    defaultMaxImageSize,
		imageURLPattern: regexp.MustCompile(`(?i)\.(jpe?g|tiff?|heic)(?:\?[^"'\s]*)?$`),
	}
}

// Name returns the analyzer name.
func (a *ImageMetadataAnalyzer) Name() string {
	return "image_metadata"
}

// Category returns the analyzer category.
func (a *ImageMetadataAnalyzer) Category() string {
	return CategoryTechnical
}

// SetHTTPClient sets the client used to download images.
func (a *ImageMetadataAnalyzer) SetHTTPClient(client *http.Client) {
	a.httpClient = client
}

// Analyze inspects each distinct same-site image once.
func (a *ImageMetadataAnalyzer) Analyze(ctx context.Context, data *AnalysisData) ([]model.Finding, error) {
	if a.httpClient == nil {
		return nil, ErrNoHTTPClient
	}

	doc := data.Document
	findings := make([]model.Finding, 0)
	processed := make(map[string]bool)

	for _, img := range doc.Images() {
		select {
		case <-ctx.Done():
			return findings, ctx.Err()
		default:
		}

		src := strings.TrimSpace(img.Src)
		if src == "" || processed[src] {
			continue
		}
		processed[src] = true

		var (
			imageData []byte
			label     = src
		)
		if strings.HasPrefix(src, "data:image/") {
			imageData = decodeDataURL(src)
			label = "data:URL"
		} else {
			abs, ok := doc.Resolver().Resolve(src)
			if !ok || !doc.Resolver().IsInternal(abs) || !a.imageURLPattern.MatchString(abs) {
				continue
			}
			if !strings.HasPrefix(abs, "http://") && !strings.HasPrefix(abs, "https://") {
				continue
			}
			imageData = a.download(ctx, abs)
			label = abs
		}
		if len(imageData) == 0 {
			continue
		}

		if f, ok := exifFinding(imageData, label); ok {
			findings = append(findings, f)
		}
	}

	return findings, nil
}

// download fetches an image, giving up on errors, non-2xx responses and
// images larger than the limit.
func (a *ImageMetadataAnalyzer) download(ctx context.Context, imageURL string) []byte {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil
	}
	if resp.ContentLength > a.maxImageSize {
		return nil
	}
	imageData, err := io.ReadAll(io.LimitReader(resp.Body, a.maxImageSize))
	if err != nil {
		return nil
	}
	return imageData
}

// decodeDataURL returns the bytes of a base64 data URL, or nil.
func decodeDataURL(dataURL string) []byte {
	_, payload, ok := strings.Cut(dataURL, ",")
	if !ok {
		return nil
	}
	imageData, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		imageData, err = base64.URLEncoding.DecodeString(payload)
		if err != nil {
			return nil
		}
	}
	return imageData
}

// exifFinding reads the EXIF block of an image and returns one finding for
// it. Images without EXIF produce nothing.
func exifFinding(imageData []byte, label string) (model.Finding, bool) {
	rawExif, err := exif.SearchAndExtractExif(imageData)
	if err != nil || rawExif == nil {
		return model.Finding{}, false
	}
	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil || len(entries) == 0 {
		return model.Finding{}, false
	}

	gps := make([]string, 0)
	for _, entry := range entries {
		if gpsTags[entry.TagName] {
			gps = append(gps, entry.TagName+": "+entry.Formatted)
		}
	}

	if len(gps) > 0 {
		return finding(model.SeverityWarning, "GPS Coordinates in Image Metadata", ElementImageMetadata,
			fmt.Sprintf("Image '%s' reveals where it was taken (%s).", truncate(label, 60), strings.Join(gps, ", ")),
			"Strip EXIF metadata from published images, especially GPS coordinates, before uploading them."), true
	}
	return finding(model.SeverityInfo, "Image Carries EXIF Metadata", ElementImageMetadata,
		fmt.Sprintf("Image '%s' carries %d EXIF tag(s). Metadata adds weight without helping search engines.", truncate(label, 60), len(entries)),
		"Strip EXIF metadata from published images to reduce file size."), true
}

// Ensure ImageMetadataAnalyzer implements CheckAnalyzer.
var _ CheckAnalyzer = (*ImageMetadataAnalyzer)(nil)
