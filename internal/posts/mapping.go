package posts

import (
	"fmt"
	"time"

	"github.com/JaimeStill/craftsync/pkg/fieldpath"
)

// Payload maps post onto the schema's destination paths. Unmapped fields
// and empty values are left out.
func Payload(post Post, schema Schema) (map[string]any, error) {
	values := map[Field]any{
		FieldTitle:          nonEmpty(post.Title),
		FieldExcerpt:        nonEmpty(post.Excerpt),
		FieldSEOTitle:       nonEmpty(post.SEOTitle),
		FieldSEODescription: nonEmpty(post.SEODescription),
	}
	if post.Slug != "" {
		values[FieldSlug] = map[string]any{"_type": "slug", "current": post.Slug}
	}
	if !post.PublishedAt.IsZero() {
		values[FieldPublishedAt] = formatTime(post.PublishedAt)
	}
	if post.Author != nil {
		values[FieldAuthor] = post.Author.Value()
	}
	if len(post.Categories) > 0 {
		refs := make([]any, 0, len(post.Categories))
		for _, c := range post.Categories {
			refs = append(refs, c.Value())
		}
		values[FieldCategories] = refs
	}
	if post.MainImage != "" {
		values[FieldMainImage] = map[string]any{
			"_type": "image",
			"asset": map[string]any{"_type": "reference", "_ref": post.MainImage},
		}
	}
	if len(post.Body) > 0 {
		values[FieldBody] = post.Body
	}
	if len(post.Tags) > 0 {
		values[FieldTags] = append([]string(nil), post.Tags...)
	}
	if post.Featured != nil {
		values[FieldFeatured] = *post.Featured
	}

	payload := map[string]any{}
	for _, f := range Fields {
		v := values[f]
		if v == nil {
			continue
		}
		path, ok := schema.Path(f)
		if !ok {
			continue
		}
		if err := fieldpath.Set(payload, path, v); err != nil {
			return nil, fmt.Errorf("field %s: %w", f, err)
		}
	}
	return payload, nil
}

func nonEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
