// Package content converts Craft blocks into Portable Text nodes.
package content

import "github.com/JaimeStill/craftsync/pkg/keys"

// Style is a Portable Text block style.
type Style string

// Supported block styles.
const (
	StyleNormal Style = "normal"
	StyleH2     Style = "h2"
	StyleH3     Style = "h3"
)

// StyleFor maps a Craft text style onto a block style.
func StyleFor(textStyle string) Style {
	switch textStyle {
	case "h2":
		return StyleH2
	case "h3":
		return StyleH3
	default:
		return StyleNormal
	}
}

// Node is one element of a rich-text body.
type Node interface {
	// PortableText serializes the node, drawing item keys from gen.
	PortableText(gen keys.Generator) map[string]any
}

// Block is a paragraph or heading with a single plain span.
type Block struct {
	Style Style
	Text  string
}

func (b Block) PortableText(gen keys.Generator) map[string]any {
	return map[string]any{
		"_type":    "block",
		"_key":     gen.Next(),
		"style":    string(b.Style),
		"markDefs": []any{},
		"children": []any{
			map[string]any{
				"_type": "span",
				"_key":  gen.Next(),
				"text":  b.Text,
				"marks": []any{},
			},
		},
	}
}

// Image embeds an uploaded image asset.
type Image struct {
	AssetRef string
}

func (i Image) PortableText(gen keys.Generator) map[string]any {
	return map[string]any{
		"_type": "image",
		"_key":  gen.Next(),
		"asset": map[string]any{
			"_type": "reference",
			"_ref":  i.AssetRef,
		},
	}
}

// Serialize renders nodes in order as a Portable Text array.
func Serialize(nodes []Node, gen keys.Generator) []any {
	out := make([]any, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.PortableText(gen))
	}
	return out
}
