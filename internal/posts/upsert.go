package posts

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/craftsync/internal/sanity"
	"github.com/JaimeStill/craftsync/pkg/fieldpath"
)

// Result is the outcome of an upsert.
type Result struct {
	Document sanity.Document
	Action   Action
}

// ID returns the written document's id.
func (r Result) ID() string { return r.Document.ID() }

// Upserter writes posts by slug.
type Upserter struct {
	repo   Repository
	schema Schema
	now    func() time.Time
	newID  func() string
	logger *slog.Logger
}

// Option configures an Upserter.
type Option func(*Upserter)

// WithClock overrides the clock used to fill a missing publication time.
func WithClock(now func() time.Time) Option {
	return func(u *Upserter) { u.now = now }
}

// WithIDSource overrides the source of new draft ids.
func WithIDSource(newID func() string) Option {
	return func(u *Upserter) { u.newID = newID }
}

// New creates an Upserter.
func New(repo Repository, schema Schema, logger *slog.Logger, opts ...Option) *Upserter {
	u := &Upserter{
		repo:   repo,
		schema: schema,
		now:    time.Now,
		newID:  uuid.NewString,
		logger: logger.With("system", "posts"),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Upsert writes post. Published mode patches the published document with
// the same slug or creates one; draft mode writes a draft shadow and never
// touches the published document.
func (u *Upserter) Upsert(ctx context.Context, post Post, mode Mode) (Result, error) {
	if post.Slug == "" {
		return Result{}, ErrMissingSlug
	}

	payload, err := Payload(post, u.schema)
	if err != nil {
		return Result{}, err
	}

	existing, err := u.repo.FindPublished(ctx, u.schema, post.Slug)
	if err != nil {
		return Result{}, err
	}

	switch mode {
	case ModePublished:
		return u.publish(ctx, post.Slug, existing, payload)
	case ModeDraft:
		return u.draft(ctx, post.Slug, existing, payload)
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
}

func (u *Upserter) publish(ctx context.Context, slug string, existing *Record, payload map[string]any) (Result, error) {
	if existing != nil {
		doc, err := u.repo.Patch(ctx, existing.ID, payload)
		if err != nil {
			return Result{}, fmt.Errorf("patch post %s: %w", existing.ID, err)
		}
		u.logger.Info("post updated", "id", existing.ID, "slug", slug)
		return Result{Document: doc, Action: ActionUpdated}, nil
	}

	if path, ok := u.schema.Path(FieldPublishedAt); ok {
		if _, present := fieldpath.Get(payload, path); !present {
			if err := fieldpath.Set(payload, path, formatTime(u.now())); err != nil {
				return Result{}, err
			}
		}
	}

	doc := sanity.Document{"_type": u.schema.Type}
	for k, v := range payload {
		doc[k] = v
	}

	created, err := u.repo.Create(ctx, doc)
	if err != nil {
		return Result{}, fmt.Errorf("create post: %w", err)
	}
	u.logger.Info("post created", "id", created.ID(), "slug", slug)
	return Result{Document: created, Action: ActionCreated}, nil
}

func (u *Upserter) draft(ctx context.Context, slug string, existing *Record, payload map[string]any) (Result, error) {
	var id string
	switch {
	case existing != nil:
		id = sanity.DraftID(existing.ID)
	default:
		found, err := u.repo.FindDraft(ctx, u.schema, slug)
		if err != nil {
			return Result{}, err
		}
		if found != nil {
			id = found.ID
		} else {
			id = sanity.DraftID(u.newID())
		}
	}

	doc := sanity.Document{"_id": id, "_type": u.schema.Type}
	for k, v := range payload {
		doc[k] = v
	}

	written, err := u.repo.CreateOrReplace(ctx, doc)
	if err != nil {
		return Result{}, fmt.Errorf("write draft %s: %w", id, err)
	}
	u.logger.Info("draft written", "id", id, "slug", slug)
	return Result{Document: written, Action: ActionDraft}, nil
}
