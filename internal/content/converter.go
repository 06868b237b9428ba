package content

import (
	"context"
	"log/slog"
	"strings"

	"github.com/JaimeStill/craftsync/internal/craft"
	"github.com/JaimeStill/craftsync/internal/images"
	"github.com/JaimeStill/craftsync/internal/metadata"
)

// ImageUploader copies a remote image into the asset store.
type ImageUploader interface {
	Upload(ctx context.Context, url, filename string) (string, bool)
}

// Result is the converted body.
type Result struct {
	Nodes []Node
	// MainImage is the asset id of the first uploaded image, if any.
	MainImage string
	// Dropped counts image blocks whose upload failed.
	Dropped int
}

// Converter turns document blocks into rich-text nodes.
type Converter struct {
	markers *metadata.Matcher
	images  ImageUploader
	logger  *slog.Logger
}

// New creates a Converter. Text blocks recognized by markers start a
// metadata run that is skipped until the next line block.
func New(markers *metadata.Matcher, uploader ImageUploader, logger *slog.Logger) *Converter {
	return &Converter{
		markers: markers,
		images:  uploader,
		logger:  logger.With("system", "content"),
	}
}

// Convert walks blocks in order and emits the body nodes.
func (c *Converter) Convert(ctx context.Context, blocks []craft.Block) Result {
	var (
		res      Result
		skipping bool
		imageN   int
	)

	for _, b := range blocks {
		switch {
		case b.IsText() && c.markers.IsMarker(b.Markdown):
			skipping = true
		case b.IsLine():
			skipping = false
		case skipping:
		case b.IsText():
			if strings.TrimSpace(b.Markdown) == "" {
				continue
			}
			res.Nodes = append(res.Nodes, Block{Style: StyleFor(b.TextStyle), Text: Clean(b.Markdown)})
		case b.IsImage() && b.URL != "":
			imageN++
			id, ok := c.images.Upload(ctx, b.URL, images.Filename(b.URL, imageN))
			if !ok {
				res.Dropped++
				continue
			}
			if res.MainImage == "" {
				res.MainImage = id
			}
			res.Nodes = append(res.Nodes, Image{AssetRef: id})
		}
	}

	c.logger.Info("body converted", "nodes", len(res.Nodes), "dropped_images", res.Dropped)
	return res
}

// Clean strips leading heading hashes and every emphasis asterisk.
func Clean(markdown string) string {
	text := strings.TrimSpace(markdown)
	text = strings.TrimLeft(text, "#")
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "*", "")
	return strings.TrimSpace(text)
}
