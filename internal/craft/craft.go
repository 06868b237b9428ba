// Package craft reads documents and their blocks from the Craft document API.
package craft

// Block types understood by the sync pipeline. Other types are carried
// through untouched and ignored downstream.
const (
	BlockText  = "text"
	BlockImage = "image"
	BlockLine  = "line"
	BlockPage  = "page"
)

// Document is a Craft document summary. Blocks is populated only by
// callers that fetched the document body.
type Document struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Blocks []Block `json:"-"`
}

// Block is one unit of document content.
type Block struct {
	ID        string  `json:"id,omitempty"`
	Type      string  `json:"type"`
	Markdown  string  `json:"markdown,omitempty"`
	TextStyle string  `json:"textStyle,omitempty"`
	URL       string  `json:"url,omitempty"`
	Content   []Block `json:"content,omitempty"`
}

// IsText reports whether the block carries markdown text.
func (b Block) IsText() bool { return b.Type == BlockText }

// IsImage reports whether the block is an image.
func (b Block) IsImage() bool { return b.Type == BlockImage }

// IsLine reports whether the block is a line-break separator.
func (b Block) IsLine() bool { return b.Type == BlockLine }
