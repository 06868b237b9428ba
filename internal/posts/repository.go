package posts

import (
	"context"
	"fmt"

	"github.com/JaimeStill/craftsync/internal/sanity"
)

// Record identifies an existing post.
type Record struct {
	ID string `json:"_id"`
}

// Repository is the post storage surface.
type Repository interface {
	// FindPublished returns the published post with slug, never a draft.
	FindPublished(ctx context.Context, schema Schema, slug string) (*Record, error)

	// FindDraft returns a draft post with slug, or nil.
	FindDraft(ctx context.Context, schema Schema, slug string) (*Record, error)

	Create(ctx context.Context, doc sanity.Document) (sanity.Document, error)
	Patch(ctx context.Context, id string, set map[string]any) (sanity.Document, error)
	CreateOrReplace(ctx context.Context, doc sanity.Document) (sanity.Document, error)
}

type repository struct {
	store sanity.Store
}

// NewRepository creates a Repository backed by a Sanity store.
func NewRepository(store sanity.Store) Repository {
	return &repository{store: store}
}

func (r *repository) FindPublished(ctx context.Context, schema Schema, slug string) (*Record, error) {
	return r.find(ctx, schema, slug, `!(_id in path("drafts.**"))`)
}

func (r *repository) FindDraft(ctx context.Context, schema Schema, slug string) (*Record, error) {
	return r.find(ctx, schema, slug, `_id in path("drafts.**")`)
}

func (r *repository) find(ctx context.Context, schema Schema, slug, scope string) (*Record, error) {
	path, ok := schema.Path(FieldSlug)
	if !ok {
		return nil, ErrNoSlugPath
	}
	q := fmt.Sprintf(`*[_type == $type && %s.current == $slug && %s][0]{_id}`, path, scope)

	var record *Record
	params := map[string]any{"type": schema.Type, "slug": slug}
	if err := r.store.Fetch(ctx, q, params, &record); err != nil {
		return nil, fmt.Errorf("find post %q: %w", slug, err)
	}
	return record, nil
}

func (r *repository) Create(ctx context.Context, doc sanity.Document) (sanity.Document, error) {
	return r.store.Create(ctx, doc)
}

func (r *repository) Patch(ctx context.Context, id string, set map[string]any) (sanity.Document, error) {
	return r.store.Patch(id).Set(set).Commit(ctx)
}

func (r *repository) CreateOrReplace(ctx context.Context, doc sanity.Document) (sanity.Document, error) {
	return r.store.CreateOrReplace(ctx, doc)
}
