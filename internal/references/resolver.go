package references

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JaimeStill/craftsync/pkg/keys"
	"github.com/JaimeStill/craftsync/pkg/slug"
	"github.com/JaimeStill/craftsync/pkg/textmatch"
)

// Config configures a Resolver.
type Config struct {
	Author   Schema
	Category Schema
	// Threshold is the largest edit distance accepted as a typo of an
	// existing name. Negative disables approximate matching.
	Threshold int
}

// Resolver maps names to references: exact match, then approximate match,
// then create.
type Resolver struct {
	repo      Repository
	schemas   map[Kind]Schema
	threshold int
	keys      keys.Generator
	logger    *slog.Logger
}

// New creates a Resolver.
func New(repo Repository, cfg Config, gen keys.Generator, logger *slog.Logger) *Resolver {
	return &Resolver{
		repo: repo,
		schemas: map[Kind]Schema{
			KindAuthor:   cfg.Author,
			KindCategory: cfg.Category,
		},
		threshold: cfg.Threshold,
		keys:      gen,
		logger:    logger.With("system", "resolver"),
	}
}

// ResolveAuthor resolves a single author name.
func (r *Resolver) ResolveAuthor(ctx context.Context, name string) (Reference, error) {
	return r.Resolve(ctx, KindAuthor, name)
}

// ResolveCategories resolves titles in order, skipping empty entries.
// Each returned reference carries a fresh array-item key.
func (r *Resolver) ResolveCategories(ctx context.Context, titles []string) ([]Reference, error) {
	refs := make([]Reference, 0, len(titles))
	for _, title := range titles {
		if strings.TrimSpace(title) == "" {
			continue
		}
		ref, err := r.Resolve(ctx, KindCategory, title)
		if err != nil {
			return nil, err
		}
		ref.Key = r.keys.Next()
		refs = append(refs, ref)
	}
	return refs, nil
}

// Resolve returns a reference to the record of kind named name, creating it
// when neither an exact nor an approximate match exists.
func (r *Resolver) Resolve(ctx context.Context, kind Kind, name string) (Reference, error) {
	schema, ok := r.schemas[kind]
	if !ok || schema.Type == "" {
		return Reference{}, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Reference{}, ErrEmptyName
	}

	records, err := r.repo.List(ctx, schema)
	if err != nil {
		return Reference{}, err
	}

	exact, err := r.repo.FindExact(ctx, schema, name)
	if err != nil {
		return Reference{}, err
	}
	if exact != nil {
		r.logger.Debug("exact match", "kind", kind, "name", name, "id", exact.ID)
		return Reference{Kind: kind, ID: exact.ID, Method: MethodExact}, nil
	}

	if record, distance, ok := r.closest(name, records); ok {
		r.logger.Info("approximate match",
			"kind", kind,
			"name", name,
			"matched", record.Name,
			"distance", distance,
			"id", record.ID,
		)
		return Reference{Kind: kind, ID: record.ID, Method: MethodApproximate}, nil
	}

	cmd := CreateCommand{Name: name, Slug: slug.Make(name)}
	if kind == KindCategory {
		cmd.Description = describe(name)
	}
	created, err := r.repo.Create(ctx, schema, cmd)
	if err != nil {
		return Reference{}, err
	}
	return Reference{Kind: kind, ID: created.ID, Method: MethodCreated}, nil
}

func (r *Resolver) closest(name string, records []Record) (Record, int, bool) {
	if r.threshold < 0 || len(records) == 0 {
		return Record{}, 0, false
	}
	names := make([]string, len(records))
	for i, rec := range records {
		names[i] = rec.Name
	}
	m, ok := textmatch.Closest(name, names, r.threshold)
	if !ok {
		return Record{}, 0, false
	}
	return records[m.Index], m.Distance, true
}

func describe(title string) string {
	return fmt.Sprintf("Posts about %s", title)
}
