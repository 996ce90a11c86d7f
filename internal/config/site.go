package config

import "strings"

// SiteConfig holds request settings for one host.
type SiteConfig struct {
	// Cookie is an HTTP cookie to send, e.g. "name=value; other=value".
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are extra HTTP headers to send.
	Headers map[string]string `yaml:"headers,omitempty"`

	// UserAgent overrides the User-Agent for this host.
	UserAgent string `yaml:"userAgent,omitempty"`
}

// File is the structure of the .seoscan.yaml configuration file.
type File struct {
	// Sites maps host names to their settings, e.g. "example.com".
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults apply to every host unless a site overrides them.
	Defaults SiteConfig `yaml:"defaults,omitempty"`

	// Thresholds override the analyzer limits.
	Thresholds ThresholdOverrides `yaml:"thresholds,omitempty"`

	// Keywords are target keywords tracked on every page.
	Keywords []string `yaml:"keywords,omitempty"`
}

// GetSiteConfig returns the settings for host, merged over the defaults.
// A leading "www." is ignored when looking the host up.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	result := cf.Defaults
	if len(cf.Defaults.Headers) > 0 {
		result.Headers = make(map[string]string, len(cf.Defaults.Headers))
		for k, v := range cf.Defaults.Headers {
			result.Headers[k] = v
		}
	}

	host = strings.ToLower(host)
	site, ok := cf.Sites[host]
	if !ok {
		site, ok = cf.Sites[strings.TrimPrefix(host, "www.")]
	}
	if !ok {
		return result
	}

	if site.Cookie != "" {
		result.Cookie = site.Cookie
	}
	if site.UserAgent != "" {
		result.UserAgent = site.UserAgent
	}
	if len(site.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string)
		}
		for k, v := range site.Headers {
			result.Headers[k] = v
		}
	}
	return result
}
