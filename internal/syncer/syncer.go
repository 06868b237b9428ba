// Package syncer runs one Craft to Sanity synchronization: locate the
// document, extract its metadata, resolve references, convert the body and
// write the post.
package syncer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/JaimeStill/craftsync/internal/content"
	"github.com/JaimeStill/craftsync/internal/craft"
	"github.com/JaimeStill/craftsync/internal/journal"
	"github.com/JaimeStill/craftsync/internal/metadata"
	"github.com/JaimeStill/craftsync/internal/posts"
	"github.com/JaimeStill/craftsync/internal/references"
	"github.com/JaimeStill/craftsync/pkg/keys"
	"github.com/JaimeStill/craftsync/pkg/storage"
)

// Resolver maps author and category names to references.
type Resolver interface {
	ResolveAuthor(ctx context.Context, name string) (references.Reference, error)
	ResolveCategories(ctx context.Context, titles []string) ([]references.Reference, error)
}

// Converter turns blocks into body nodes.
type Converter interface {
	Convert(ctx context.Context, blocks []craft.Block) content.Result
}

// Writer stores a post.
type Writer interface {
	Upsert(ctx context.Context, post posts.Post, mode posts.Mode) (posts.Result, error)
}

// Deps are the components a Syncer drives. Journal and Snapshots are optional.
type Deps struct {
	Source    craft.Source
	Extractor *metadata.Extractor
	Resolver  Resolver
	Converter Converter
	Writer    Writer
	Keys      keys.Generator
	Journal   journal.System
	Snapshots storage.System
}

// Request selects the document and write mode for a run.
type Request struct {
	// Title is matched case-insensitively as a substring of document titles.
	Title string
	Mode  posts.Mode
}

// Result describes a completed run.
type Result struct {
	Document      craft.Document
	Metadata      metadata.Metadata
	Post          posts.Result
	Nodes         int
	Categories    int
	DroppedImages int
	// Snapshot compares the written document with the previous run's
	// snapshot. It is empty when snapshots are disabled or failed.
	Snapshot SnapshotState
}

// SnapshotState reports how a written document compares with its stored
// snapshot.
type SnapshotState string

const (
	SnapshotCreated   SnapshotState = "created"
	SnapshotChanged   SnapshotState = "changed"
	SnapshotUnchanged SnapshotState = "unchanged"
)

// Summary is the one-line report printed after a successful run.
func (r *Result) Summary() string {
	return fmt.Sprintf("%s post %s (slug %q, title %q): %d body nodes, %d categories",
		r.Post.Action, r.Post.ID(), r.Metadata.Slug, r.Metadata.Title, r.Nodes, r.Categories)
}

// Syncer runs sync requests.
type Syncer struct {
	deps   Deps
	logger *slog.Logger
}

// New creates a Syncer. A nil Keys generator defaults to random keys.
func New(deps Deps, logger *slog.Logger) *Syncer {
	if deps.Keys == nil {
		deps.Keys = keys.Random()
	}
	return &Syncer{
		deps:   deps,
		logger: logger.With("system", "syncer"),
	}
}

// Run synchronizes the document matching req.Title. References created
// before a later failure are not rolled back.
func (s *Syncer) Run(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrEmptyTitle
	}

	doc, err := s.locate(ctx, req.Title)
	if err != nil {
		return nil, err
	}

	blocks, err := s.deps.Source.GetBlocks(ctx, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch blocks: %w", err)
	}
	doc.Blocks = blocks

	md := s.deps.Extractor.Extract(blocks, doc.Title)
	s.logger.Info("metadata extracted", "title", md.Title, "slug", md.Slug, "author", md.Author)

	author, err := s.deps.Resolver.ResolveAuthor(ctx, md.Author)
	if err != nil {
		return nil, fmt.Errorf("resolve author: %w", err)
	}
	categories, err := s.deps.Resolver.ResolveCategories(ctx, md.Categories)
	if err != nil {
		return nil, fmt.Errorf("resolve categories: %w", err)
	}

	body := s.deps.Converter.Convert(ctx, blocks)

	post := buildPost(md, author, categories, body, s.deps.Keys)
	written, err := s.deps.Writer.Upsert(ctx, post, req.Mode)
	if err != nil {
		return nil, fmt.Errorf("write post: %w", err)
	}

	result := &Result{
		Document:      doc,
		Metadata:      md,
		Post:          written,
		Nodes:         len(body.Nodes),
		Categories:    len(categories),
		DroppedImages: body.Dropped,
	}

	s.record(ctx, req, result)
	s.snapshot(ctx, req, result)

	return result, nil
}

func (s *Syncer) locate(ctx context.Context, title string) (craft.Document, error) {
	docs, err := s.deps.Source.ListDocuments(ctx)
	if err != nil {
		return craft.Document{}, fmt.Errorf("list documents: %w", err)
	}

	doc, ok := craft.FindByTitle(docs, title)
	if !ok {
		return craft.Document{}, fmt.Errorf("%w: no title contains %q; available: %s",
			ErrDocumentNotFound, title, strings.Join(craft.Titles(docs), ", "))
	}

	s.logger.Info("document located", "id", doc.ID, "title", doc.Title)
	return doc, nil
}

func buildPost(md metadata.Metadata, author references.Reference, categories []references.Reference, body content.Result, gen keys.Generator) posts.Post {
	post := posts.Post{
		Title:          md.Title,
		Slug:           md.Slug,
		PublishedAt:    md.PublishedAt,
		Author:         &author,
		Categories:     categories,
		MainImage:      body.MainImage,
		Body:           content.Serialize(body.Nodes, gen),
		Excerpt:        md.Excerpt,
		Tags:           md.Tags,
		SEOTitle:       md.SEOTitle,
		SEODescription: md.SEODescription,
	}
	if md.Has(metadata.KeyFeatured) {
		featured := md.Featured
		post.Featured = &featured
	}
	return post
}

// record and snapshot run after the post is written; their failures are
// logged only.
func (s *Syncer) record(ctx context.Context, req Request, r *Result) {
	if s.deps.Journal == nil {
		return
	}
	_, err := s.deps.Journal.Record(ctx, journal.Entry{
		DocumentID:    r.Document.ID,
		DocumentTitle: r.Document.Title,
		Slug:          r.Metadata.Slug,
		PostID:        r.Post.ID(),
		Mode:          string(req.Mode),
		Action:        string(r.Post.Action),
	})
	if err != nil {
		s.logger.Warn("journal entry not recorded", "slug", r.Metadata.Slug, "error", err)
	}
}

func (s *Syncer) snapshot(ctx context.Context, req Request, r *Result) {
	if s.deps.Snapshots == nil {
		return
	}
	key := SnapshotKey(req.Mode, r.Metadata.Slug)

	data, err := json.MarshalIndent(r.Post.Document, "", "  ")
	if err != nil {
		s.logger.Warn("snapshot not encoded", "key", key, "error", err)
		return
	}

	state := SnapshotCreated
	prev, err := s.deps.Snapshots.Retrieve(ctx, key)
	switch {
	case err == nil && bytes.Equal(prev, data):
		s.logger.Info("document unchanged since last snapshot", "key", key)
		r.Snapshot = SnapshotUnchanged
		return
	case err == nil:
		state = SnapshotChanged
	case !errors.Is(err, storage.ErrNotFound):
		s.logger.Warn("previous snapshot not read", "key", key, "error", err)
	}

	if err := s.deps.Snapshots.Store(ctx, key, data); err != nil {
		s.logger.Warn("snapshot not stored", "key", key, "error", err)
		return
	}
	r.Snapshot = state
	s.logger.Info("snapshot stored", "key", key, "state", state)
}

// SnapshotKey is the storage key of the snapshot for slug written in mode.
func SnapshotKey(mode posts.Mode, slug string) string {
	return path.Join(string(mode), slug+".json")
}
