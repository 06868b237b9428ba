// Package sanity is a small client for the Sanity content lake HTTP API:
// GROQ queries, document mutations, and asset uploads.
package sanity

import (
	"context"
	"strings"
)

// DraftPrefix namespaces draft-shadow document ids.
const DraftPrefix = "drafts."

// Document is a Sanity document as decoded from JSON.
type Document map[string]any

// ID returns the document's _id, or "" when absent.
func (d Document) ID() string {
	id, _ := d["_id"].(string)
	return id
}

// Type returns the document's _type, or "" when absent.
func (d Document) Type() string {
	t, _ := d["_type"].(string)
	return t
}

// IsDraftID reports whether id lives in the draft namespace.
func IsDraftID(id string) bool {
	return strings.HasPrefix(id, DraftPrefix)
}

// DraftID returns the draft-shadow id for a published id.
func DraftID(publishedID string) string {
	if IsDraftID(publishedID) {
		return publishedID
	}
	return DraftPrefix + publishedID
}

// AssetKind selects the asset endpoint.
type AssetKind string

// Asset kinds.
const (
	AssetImage AssetKind = "image"
	AssetFile  AssetKind = "file"
)

// UploadOptions describe an asset upload.
type UploadOptions struct {
	Filename    string
	ContentType string
}

// Asset is the document Sanity creates for an uploaded binary.
type Asset struct {
	ID               string `json:"_id"`
	URL              string `json:"url"`
	OriginalFilename string `json:"originalFilename"`
	MimeType         string `json:"mimeType"`
	Size             int64  `json:"size"`
}

// Store is the document-store surface the sync pipeline depends on.
type Store interface {
	// Fetch runs a GROQ query and decodes its result into out. A null result
	// decodes as the zero value (nil for pointers and maps).
	Fetch(ctx context.Context, query string, params map[string]any, out any) error

	// Create inserts doc and returns it with the server-assigned _id.
	Create(ctx context.Context, doc Document) (Document, error)

	// Patch starts a partial update of the document with the given id.
	Patch(id string) *Patch

	// CreateOrReplace writes doc under its explicit _id.
	CreateOrReplace(ctx context.Context, doc Document) (Document, error)

	// UploadAsset stores data as an asset and returns the asset document.
	UploadAsset(ctx context.Context, kind AssetKind, data []byte, opts UploadOptions) (*Asset, error)
}

// CommitFunc applies a set-patch to the document with the given id.
type CommitFunc func(ctx context.Context, id string, set map[string]any) (Document, error)

// Patch accumulates fields to set on one document.
type Patch struct {
	id     string
	set    map[string]any
	commit CommitFunc
}

// NewPatch creates a Patch that is applied through commit.
func NewPatch(id string, commit CommitFunc) *Patch {
	return &Patch{id: id, set: map[string]any{}, commit: commit}
}

// ID returns the target document id.
func (p *Patch) ID() string { return p.id }

// Set adds fields to the patch. Later calls overwrite earlier keys.
func (p *Patch) Set(fields map[string]any) *Patch {
	for k, v := range fields {
		p.set[k] = v
	}
	return p
}

// Commit applies the patch and returns the updated document.
func (p *Patch) Commit(ctx context.Context) (Document, error) {
	return p.commit(ctx, p.id, p.set)
}
