// Package meetlink extracts a joinable video-conference URL from the text
// fields of a calendar event.
package meetlink

import (
	"fmt"
	"net/url"
	"regexp"
)

// Extractor matches meeting links against an ordered provider pattern table.
type Extractor struct {
	patterns []compiledPattern
}

type compiledPattern struct {
	name string
	re   *regexp.Regexp
}

// NewExtractor compiles the pattern table. A pattern that fails to compile
// is a configuration defect and is rejected here, before any extraction runs.
func NewExtractor(patterns []Pattern) (*Extractor, error) {
	compiled := make([]compiledPattern, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p.Expr)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p.Name, err)
		}
		compiled = append(compiled, compiledPattern{name: p.Name, re: re})
	}
	return &Extractor{patterns: compiled}, nil
}

// NewDefaultExtractor builds an Extractor over DefaultPatterns.
func NewDefaultExtractor() *Extractor {
	ex, err := NewExtractor(DefaultPatterns)
	if err != nil {
		// DefaultPatterns is covered by tests; this cannot happen at runtime.
		panic(err)
	}
	return ex
}

// Extract scans the candidate texts in priority order and, within each text,
// the provider patterns in priority order. The first matched substring that
// parses as an http(s) URL wins. A matched substring that fails URL parsing
// is treated as a non-match and scanning continues.
func (e *Extractor) Extract(sources ...string) *url.URL {
	for _, text := range sources {
		if text == "" {
			continue
		}
		for _, p := range e.patterns {
			match := p.re.FindString(text)
			if match == "" {
				continue
			}
			if u := parseHTTPURL(match); u != nil {
				return u
			}
		}
	}
	return nil
}

// FromEvent extracts the best-guess meeting URL from an event's fields.
// The structured URL field outranks location text, which outranks notes.
// When no provider pattern matches anywhere, the structured URL is used
// verbatim as a fallback; nil means no joinable link was found.
func (e *Extractor) FromEvent(structuredURL, location, notes string) *url.URL {
	if u := e.Extract(structuredURL, location, notes); u != nil {
		return u
	}
	if structuredURL != "" {
		if u, err := url.Parse(structuredURL); err == nil {
			return u
		}
	}
	return nil
}

func parseHTTPURL(s string) *url.URL {
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return nil
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil
	}
	return u
}
