// Package posts writes blog posts to Sanity, keyed by slug, either as
// published documents or as draft shadows.
package posts

import (
	"time"

	"github.com/JaimeStill/craftsync/internal/references"
)

// Field is a logical post field mapped onto a destination path.
type Field string

// Logical post fields.
const (
	FieldTitle          Field = "title"
	FieldSlug           Field = "slug"
	FieldPublishedAt    Field = "publishedAt"
	FieldAuthor         Field = "author"
	FieldCategories     Field = "categories"
	FieldMainImage      Field = "mainImage"
	FieldBody           Field = "body"
	FieldExcerpt        Field = "excerpt"
	FieldTags           Field = "tags"
	FieldFeatured       Field = "featured"
	FieldSEOTitle       Field = "seoTitle"
	FieldSEODescription Field = "seoDescription"
)

// Omit marks a field that is never written.
const Omit = "-"

// Fields lists every logical field in payload order.
var Fields = []Field{
	FieldTitle, FieldSlug, FieldPublishedAt, FieldAuthor, FieldCategories,
	FieldMainImage, FieldBody, FieldExcerpt, FieldTags, FieldFeatured,
	FieldSEOTitle, FieldSEODescription,
}

// DefaultPaths maps each field onto the conventional Sanity blog schema.
func DefaultPaths() map[Field]string {
	paths := make(map[Field]string, len(Fields))
	for _, f := range Fields {
		paths[f] = string(f)
	}
	return paths
}

// Schema names the post document type and where each field is written.
type Schema struct {
	Type  string
	Paths map[Field]string
}

// Path returns the destination of f and whether it is written at all.
func (s Schema) Path(f Field) (string, bool) {
	p, ok := s.Paths[f]
	if !ok || p == "" || p == Omit {
		return "", false
	}
	return p, true
}

// Post is the content written for one document.
type Post struct {
	Title       string
	Slug        string
	PublishedAt time.Time
	Author      *references.Reference
	Categories  []references.Reference
	// MainImage is an image asset id.
	MainImage string
	// Body is a serialized Portable Text array.
	Body           []any
	Excerpt        string
	Tags           []string
	Featured       *bool
	SEOTitle       string
	SEODescription string
}

// Mode selects how a post is written.
type Mode string

// Write modes.
const (
	ModePublished Mode = "published"
	ModeDraft     Mode = "draft"
)

// Action reports what an upsert did.
type Action string

// Upsert actions.
const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDraft   Action = "draft"
)
