package references

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/craftsync/internal/sanity"
	"github.com/JaimeStill/craftsync/pkg/fieldpath"
)

// Repository reads and creates referenced records.
type Repository interface {
	// List returns every published record of the schema's type.
	List(ctx context.Context, schema Schema) ([]Record, error)

	// FindExact returns the record whose name field equals name, or nil.
	FindExact(ctx context.Context, schema Schema, name string) (*Record, error)

	// Create inserts a new record.
	Create(ctx context.Context, schema Schema, cmd CreateCommand) (*Record, error)
}

type repository struct {
	store  sanity.Store
	logger *slog.Logger
}

// NewRepository creates a Repository backed by a Sanity store.
func NewRepository(store sanity.Store, logger *slog.Logger) Repository {
	return &repository{
		store:  store,
		logger: logger.With("system", "references"),
	}
}

func (r *repository) List(ctx context.Context, schema Schema) ([]Record, error) {
	q := fmt.Sprintf(
		`*[_type == $type && !(_id in path("drafts.**"))]%s`,
		projection(schema),
	)

	var records []Record
	if err := r.store.Fetch(ctx, q, map[string]any{"type": schema.Type}, &records); err != nil {
		return nil, fmt.Errorf("list %s: %w", schema.Type, err)
	}
	return records, nil
}

func (r *repository) FindExact(ctx context.Context, schema Schema, name string) (*Record, error) {
	q := fmt.Sprintf(
		`*[_type == $type && %s == $value && !(_id in path("drafts.**"))][0]%s`,
		schema.NameField, projection(schema),
	)

	var record *Record
	params := map[string]any{"type": schema.Type, "value": name}
	if err := r.store.Fetch(ctx, q, params, &record); err != nil {
		return nil, fmt.Errorf("find %s: %w", schema.Type, err)
	}
	return record, nil
}

func (r *repository) Create(ctx context.Context, schema Schema, cmd CreateCommand) (*Record, error) {
	doc := sanity.Document{"_type": schema.Type}
	if err := fieldpath.Set(doc, schema.NameField, cmd.Name); err != nil {
		return nil, fmt.Errorf("name field: %w", err)
	}
	if schema.SlugField != "" {
		slugValue := map[string]any{"_type": "slug", "current": cmd.Slug}
		if err := fieldpath.Set(doc, schema.SlugField, slugValue); err != nil {
			return nil, fmt.Errorf("slug field: %w", err)
		}
	}
	if schema.DescriptionField != "" && cmd.Description != "" {
		if err := fieldpath.Set(doc, schema.DescriptionField, cmd.Description); err != nil {
			return nil, fmt.Errorf("description field: %w", err)
		}
	}

	created, err := r.store.Create(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", schema.Type, err)
	}

	r.logger.Info("record created", "type", schema.Type, "id", created.ID(), "name", cmd.Name)
	return &Record{ID: created.ID(), Name: cmd.Name, Slug: cmd.Slug}, nil
}

func projection(schema Schema) string {
	slugExpr := `""`
	if schema.SlugField != "" {
		slugExpr = schema.SlugField + ".current"
	}
	return fmt.Sprintf(`{_id, "name": %s, "slug": %s}`, schema.NameField, slugExpr)
}
