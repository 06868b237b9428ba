package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/JaimeStill/craftsync/internal/posts"
	"github.com/JaimeStill/craftsync/internal/references"
)

var reIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ReferenceSchema names a referenced document type and its fields.
type ReferenceSchema struct {
	Type             string `toml:"type"`
	NameField        string `toml:"name_field"`
	SlugField        string `toml:"slug_field"`
	DescriptionField string `toml:"description_field"`
}

// Resolver returns the resolver schema.
func (s *ReferenceSchema) Resolver() references.Schema {
	return references.Schema{
		Type:             s.Type,
		NameField:        s.NameField,
		SlugField:        s.SlugField,
		DescriptionField: s.DescriptionField,
	}
}

func (s *ReferenceSchema) merge(overlay *ReferenceSchema) {
	if overlay.Type != "" {
		s.Type = overlay.Type
	}
	if overlay.NameField != "" {
		s.NameField = overlay.NameField
	}
	if overlay.SlugField != "" {
		s.SlugField = overlay.SlugField
	}
	if overlay.DescriptionField != "" {
		s.DescriptionField = overlay.DescriptionField
	}
}

func (s *ReferenceSchema) defaults(def ReferenceSchema) {
	if s.Type == "" {
		s.Type = def.Type
	}
	if s.NameField == "" {
		s.NameField = def.NameField
	}
	if s.SlugField == "" {
		s.SlugField = def.SlugField
	}
	if s.DescriptionField == "" {
		s.DescriptionField = def.DescriptionField
	}
}

func (s *ReferenceSchema) validate() error {
	if !reIdentifier.MatchString(s.Type) {
		return fmt.Errorf("invalid type %q", s.Type)
	}
	if err := validatePath(s.NameField, false); err != nil {
		return fmt.Errorf("name_field: %w", err)
	}
	for name, p := range map[string]string{"slug_field": s.SlugField, "description_field": s.DescriptionField} {
		if p == "" {
			continue
		}
		if err := validatePath(p, false); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// PostSchema names the post type and where each logical field is written.
type PostSchema struct {
	Type string `toml:"type"`
	// Fields maps a logical field to a dotted destination path, or "-" to omit it.
	Fields map[string]string `toml:"fields"`
}

// Upsert returns the post writer schema.
func (s *PostSchema) Upsert() posts.Schema {
	paths := make(map[posts.Field]string, len(s.Fields))
	for k, v := range s.Fields {
		paths[posts.Field(k)] = v
	}
	return posts.Schema{Type: s.Type, Paths: paths}
}

// SchemaConfig maps logical records onto the content model.
type SchemaConfig struct {
	Post     PostSchema      `toml:"post"`
	Author   ReferenceSchema `toml:"author"`
	Category ReferenceSchema `toml:"category"`
}

// Finalize applies defaults and validates type and field names.
func (c *SchemaConfig) Finalize() error {
	c.loadDefaults()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *SchemaConfig) Merge(overlay *SchemaConfig) {
	if overlay.Post.Type != "" {
		c.Post.Type = overlay.Post.Type
	}
	if len(overlay.Post.Fields) > 0 {
		if c.Post.Fields == nil {
			c.Post.Fields = map[string]string{}
		}
		for k, v := range overlay.Post.Fields {
			c.Post.Fields[k] = v
		}
	}
	c.Author.merge(&overlay.Author)
	c.Category.merge(&overlay.Category)
}

func (c *SchemaConfig) loadDefaults() {
	if c.Post.Type == "" {
		c.Post.Type = "post"
	}
	if c.Post.Fields == nil {
		c.Post.Fields = map[string]string{}
	}
	for f, p := range posts.DefaultPaths() {
		if _, ok := c.Post.Fields[string(f)]; !ok {
			c.Post.Fields[string(f)] = p
		}
	}

	c.Author.defaults(ReferenceSchema{Type: "author", NameField: "name", SlugField: "slug"})
	c.Category.defaults(ReferenceSchema{Type: "category", NameField: "title", SlugField: "slug", DescriptionField: "description"})
}

func (c *SchemaConfig) validate() error {
	if !reIdentifier.MatchString(c.Post.Type) {
		return fmt.Errorf("post: invalid type %q", c.Post.Type)
	}

	known := make(map[string]bool, len(posts.Fields))
	for _, f := range posts.Fields {
		known[string(f)] = true
	}
	for k, p := range c.Post.Fields {
		if !known[k] {
			return fmt.Errorf("post: unknown field %q", k)
		}
		if err := validatePath(p, true); err != nil {
			return fmt.Errorf("post.fields.%s: %w", k, err)
		}
	}
	if p := c.Post.Fields[string(posts.FieldSlug)]; p == posts.Omit {
		return fmt.Errorf("post: slug field cannot be omitted")
	}

	if err := c.Author.validate(); err != nil {
		return fmt.Errorf("author: %w", err)
	}
	if err := c.Category.validate(); err != nil {
		return fmt.Errorf("category: %w", err)
	}
	return nil
}

func validatePath(p string, allowOmit bool) error {
	if allowOmit && p == posts.Omit {
		return nil
	}
	if p == "" {
		return fmt.Errorf("empty path")
	}
	for _, seg := range strings.Split(p, ".") {
		if !reIdentifier.MatchString(seg) {
			return fmt.Errorf("invalid path %q", p)
		}
	}
	return nil
}
