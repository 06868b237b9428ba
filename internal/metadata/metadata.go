package metadata

import (
	"regexp"
	"strings"
	"time"

	"github.com/JaimeStill/craftsync/internal/craft"
)

var reDate = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// Defaults supplies values for keys never observed in a document.
type Defaults struct {
	Slug       string
	Author     string
	Categories []string
}

// Metadata is the normalized header of a document.
type Metadata struct {
	Title          string
	Slug           string
	Author         string
	Categories     []string
	PublishedAt    time.Time
	Excerpt        string
	Featured       bool
	Tags           []string
	SEOTitle       string
	SEODescription string

	// Observed records which keys appeared in the document.
	Observed map[Key]bool
}

// Has reports whether key appeared in the document.
func (m Metadata) Has(key Key) bool {
	return m.Observed[key]
}

// Extractor turns marker lines into Metadata.
type Extractor struct {
	matcher  *Matcher
	defaults Defaults
	now      func() time.Time
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithClock overrides the clock used for the default publication time.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) {
		e.now = now
	}
}

// New creates an Extractor for the given markers and defaults.
func New(matcher *Matcher, defaults Defaults, opts ...Option) *Extractor {
	e := &Extractor{
		matcher:  matcher,
		defaults: defaults,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract scans text blocks for markers. A key seen twice keeps its last value.
func (e *Extractor) Extract(blocks []craft.Block, documentTitle string) Metadata {
	md := Metadata{
		Title:       documentTitle,
		Slug:        e.defaults.Slug,
		Author:      e.defaults.Author,
		Categories:  append([]string(nil), e.defaults.Categories...),
		PublishedAt: e.now().UTC(),
		Observed:    make(map[Key]bool),
	}

	for _, b := range blocks {
		if !b.IsText() {
			continue
		}
		key, raw, ok := e.matcher.Match(b.Markdown)
		if !ok {
			continue
		}
		e.apply(&md, key, raw)
	}

	return md
}

func (e *Extractor) apply(md *Metadata, key Key, raw string) {
	// A marker with no value leaves the default in place.
	if raw == "" {
		return
	}
	switch key {
	case KeyCategory, KeyTags:
		list := splitList(raw)
		if len(list) == 0 {
			return
		}
		if key == KeyCategory {
			md.Categories = list
		} else {
			md.Tags = list
		}
	case KeyDate:
		t, ok := parseDate(raw)
		if !ok {
			return
		}
		md.PublishedAt = t
	case KeyFeatured:
		md.Featured = strings.EqualFold(raw, "true")
	case KeyTitle:
		md.Title = raw
	case KeySlug:
		md.Slug = raw
	case KeyAuthor:
		md.Author = raw
	case KeyExcerpt:
		md.Excerpt = raw
	case KeySEOTitle:
		md.SEOTitle = raw
	case KeySEODescription:
		md.SEODescription = raw
	default:
		return
	}
	md.Observed[key] = true
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func parseDate(raw string) (time.Time, bool) {
	match := reDate.FindString(raw)
	if match == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.DateOnly, match)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}
