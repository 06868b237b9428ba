package posts_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/craftsync/internal/posts"
	"github.com/JaimeStill/craftsync/internal/references"
	"github.com/JaimeStill/craftsync/internal/sanity"
	"github.com/JaimeStill/craftsync/pkg/logging"
)

var fixedNow = time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

// memoryRepository stores documents by id and looks them up by slug.current.
type memoryRepository struct {
	docs    map[string]sanity.Document
	created int
	patched []string
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{docs: map[string]sanity.Document{}}
}

func (m *memoryRepository) find(slug string, draft bool) *posts.Record {
	for id, doc := range m.docs {
		if sanity.IsDraftID(id) != draft {
			continue
		}
		if s, ok := doc["slug"].(map[string]any); ok && s["current"] == slug {
			return &posts.Record{ID: id}
		}
	}
	return nil
}

func (m *memoryRepository) FindPublished(_ context.Context, _ posts.Schema, slug string) (*posts.Record, error) {
	return m.find(slug, false), nil
}

func (m *memoryRepository) FindDraft(_ context.Context, _ posts.Schema, slug string) (*posts.Record, error) {
	return m.find(slug, true), nil
}

func (m *memoryRepository) Create(_ context.Context, doc sanity.Document) (sanity.Document, error) {
	m.created++
	id := "post-" + string(rune('0'+m.created))
	out := sanity.Document{"_id": id}
	for k, v := range doc {
		out[k] = v
	}
	m.docs[id] = out
	return out, nil
}

func (m *memoryRepository) Patch(_ context.Context, id string, set map[string]any) (sanity.Document, error) {
	doc, ok := m.docs[id]
	if !ok {
		return nil, errors.New("no such document")
	}
	for k, v := range set {
		doc[k] = v
	}
	m.patched = append(m.patched, id)
	return doc, nil
}

func (m *memoryRepository) CreateOrReplace(_ context.Context, doc sanity.Document) (sanity.Document, error) {
	m.docs[doc.ID()] = doc
	return doc, nil
}

func newUpserter(repo posts.Repository, ids ...string) *posts.Upserter {
	return posts.New(repo, posts.Schema{Type: "post", Paths: posts.DefaultPaths()}, logging.Discard(),
		posts.WithClock(func() time.Time { return fixedNow }),
		posts.WithIDSource(func() string {
			id := ids[0]
			ids = ids[1:]
			return id
		}),
	)
}

func TestUpsert_DraftOfPublished(t *testing.T) {
	repo := newMemoryRepository()
	repo.docs["p1"] = sanity.Document{"_id": "p1", "_type": "post", "title": "Old", "slug": map[string]any{"current": "hello"}}
	u := newUpserter(repo)

	for i := 0; i < 2; i++ {
		res, err := u.Upsert(context.Background(), posts.Post{Title: "New", Slug: "hello"}, posts.ModeDraft)
		if err != nil {
			t.Fatalf("Upsert() #%d failed: %v", i, err)
		}
		if res.ID() != "drafts.p1" || res.Action != posts.ActionDraft {
			t.Errorf("Upsert() #%d = %s %s, want drafts.p1 draft", i, res.ID(), res.Action)
		}
	}

	if repo.docs["p1"]["title"] != "Old" {
		t.Error("draft mode modified the published document")
	}
	if len(repo.docs) != 2 {
		t.Errorf("store holds %d documents, want 2", len(repo.docs))
	}
}

func TestUpsert_DraftIDStableWithoutPublished(t *testing.T) {
	repo := newMemoryRepository()
	u := newUpserter(repo, "u1", "u2")

	first, err := u.Upsert(context.Background(), posts.Post{Title: "A", Slug: "fresh"}, posts.ModeDraft)
	if err != nil {
		t.Fatalf("first Upsert() failed: %v", err)
	}
	second, err := u.Upsert(context.Background(), posts.Post{Title: "B", Slug: "fresh"}, posts.ModeDraft)
	if err != nil {
		t.Fatalf("second Upsert() failed: %v", err)
	}

	if first.ID() != "drafts.u1" || second.ID() != first.ID() {
		t.Errorf("draft ids = %s, %s; want drafts.u1 twice", first.ID(), second.ID())
	}
	if repo.docs["drafts.u1"]["title"] != "B" {
		t.Error("second draft did not replace the first")
	}
}

func TestUpsert_PublishedCreatesThenPatches(t *testing.T) {
	repo := newMemoryRepository()
	u := newUpserter(repo)
	post := posts.Post{Title: "Hello", Slug: "hello"}

	first, err := u.Upsert(context.Background(), post, posts.ModePublished)
	if err != nil {
		t.Fatalf("first Upsert() failed: %v", err)
	}
	if first.Action != posts.ActionCreated {
		t.Errorf("Action = %s, want created", first.Action)
	}
	if got := first.Document["publishedAt"]; got != "2025-03-04T05:06:07Z" {
		t.Errorf("publishedAt = %v, want the clock time", got)
	}
	if first.Document.Type() != "post" {
		t.Errorf("_type = %q, want post", first.Document.Type())
	}

	post.Title = "Hello again"
	second, err := u.Upsert(context.Background(), post, posts.ModePublished)
	if err != nil {
		t.Fatalf("second Upsert() failed: %v", err)
	}
	if second.Action != posts.ActionUpdated || second.ID() != first.ID() {
		t.Errorf("second = %s %s, want updated %s", second.ID(), second.Action, first.ID())
	}
	if repo.created != 1 {
		t.Errorf("created %d documents, want 1", repo.created)
	}
	if _, ok := repo.docs[first.ID()]["_type"]; !ok {
		t.Error("patch removed _type")
	}
}

func TestUpsert_PublishedIgnoresDraft(t *testing.T) {
	repo := newMemoryRepository()
	repo.docs["drafts.d1"] = sanity.Document{"_id": "drafts.d1", "slug": map[string]any{"current": "hello"}}

	res, err := newUpserter(repo).Upsert(context.Background(), posts.Post{Slug: "hello"}, posts.ModePublished)
	if err != nil {
		t.Fatalf("Upsert() failed: %v", err)
	}
	if res.Action != posts.ActionCreated || sanity.IsDraftID(res.ID()) {
		t.Errorf("Upsert() = %s %s, want a new published document", res.ID(), res.Action)
	}
}

func TestUpsert_Errors(t *testing.T) {
	u := newUpserter(newMemoryRepository())

	if _, err := u.Upsert(context.Background(), posts.Post{}, posts.ModePublished); !errors.Is(err, posts.ErrMissingSlug) {
		t.Errorf("missing slug error = %v", err)
	}
	if _, err := u.Upsert(context.Background(), posts.Post{Slug: "x"}, posts.Mode("scheduled")); !errors.Is(err, posts.ErrInvalidMode) {
		t.Errorf("invalid mode error = %v", err)
	}
}

func TestPayload(t *testing.T) {
	featured := true
	post := posts.Post{
		Title:       "Hello",
		Slug:        "hello",
		PublishedAt: fixedNow,
		Author:      &references.Reference{ID: "a1"},
		Categories: []references.Reference{
			{ID: "c1", Key: "k1"},
			{ID: "c2", Key: "k2"},
		},
		MainImage:      "image-1",
		Body:           []any{map[string]any{"_type": "block"}},
		Tags:           []string{"go"},
		Featured:       &featured,
		SEOTitle:       "Hello | Blog",
		SEODescription: "",
	}

	paths := posts.DefaultPaths()
	paths[posts.FieldSEOTitle] = "seo.metaTitle"
	paths[posts.FieldSEODescription] = "seo.metaDescription"
	paths[posts.FieldTags] = posts.Omit

	payload, err := posts.Payload(post, posts.Schema{Type: "post", Paths: paths})
	if err != nil {
		t.Fatalf("Payload() failed: %v", err)
	}

	want := map[string]any{
		"title":       "Hello",
		"slug":        map[string]any{"_type": "slug", "current": "hello"},
		"publishedAt": "2025-03-04T05:06:07Z",
		"author":      map[string]any{"_type": "reference", "_ref": "a1"},
		"categories": []any{
			map[string]any{"_type": "reference", "_ref": "c1", "_key": "k1"},
			map[string]any{"_type": "reference", "_ref": "c2", "_key": "k2"},
		},
		"mainImage": map[string]any{
			"_type": "image",
			"asset": map[string]any{"_type": "reference", "_ref": "image-1"},
		},
		"body":     []any{map[string]any{"_type": "block"}},
		"featured": true,
		"seo":      map[string]any{"metaTitle": "Hello | Blog"},
	}
	if !reflect.DeepEqual(payload, want) {
		t.Errorf("Payload() = %#v\nwant %#v", payload, want)
	}
}

func TestPayload_OmitsEmpty(t *testing.T) {
	payload, err := posts.Payload(posts.Post{Slug: "s"}, posts.Schema{Type: "post", Paths: posts.DefaultPaths()})
	if err != nil {
		t.Fatalf("Payload() failed: %v", err)
	}
	if len(payload) != 1 {
		t.Errorf("Payload() = %v, want only slug", payload)
	}
}

func TestRepository_FindQueries(t *testing.T) {
	store := &queryStore{}
	repo := posts.NewRepository(store)
	schema := posts.Schema{Type: "post", Paths: map[posts.Field]string{posts.FieldSlug: "meta.slug"}}

	if rec, err := repo.FindPublished(context.Background(), schema, "hello"); err != nil || rec != nil {
		t.Fatalf("FindPublished() = %v, %v", rec, err)
	}
	if _, err := repo.FindDraft(context.Background(), schema, "hello"); err != nil {
		t.Fatalf("FindDraft() failed: %v", err)
	}

	if !strings.Contains(store.queries[0], `meta.slug.current == $slug && !(_id in path("drafts.**"))`) {
		t.Errorf("published query = %q", store.queries[0])
	}
	if !strings.Contains(store.queries[1], `meta.slug.current == $slug && _id in path("drafts.**")`) {
		t.Errorf("draft query = %q", store.queries[1])
	}

	schema.Paths[posts.FieldSlug] = posts.Omit
	if _, err := repo.FindPublished(context.Background(), schema, "x"); !errors.Is(err, posts.ErrNoSlugPath) {
		t.Errorf("unmapped slug error = %v", err)
	}
}

type queryStore struct {
	sanity.Store
	queries []string
}

func (q *queryStore) Fetch(_ context.Context, query string, _ map[string]any, _ any) error {
	q.queries = append(q.queries, query)
	return nil
}
