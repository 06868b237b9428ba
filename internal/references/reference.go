// Package references resolves free-text author and category names to
// Sanity document references, creating records that do not exist yet.
package references

// Kind names a referenced record kind.
type Kind string

// Record kinds resolved by the pipeline.
const (
	KindAuthor   Kind = "author"
	KindCategory Kind = "category"
)

// Schema describes how a record kind is stored in Sanity.
type Schema struct {
	// Type is the Sanity _type.
	Type string
	// NameField holds the display name ("name" for authors, "title" for categories).
	NameField string
	// SlugField holds a Sanity slug object; its value lives at <SlugField>.current.
	SlugField string
	// DescriptionField, when set, receives a generated description on create.
	DescriptionField string
}

// Record is the projection of an existing record used for matching.
type Record struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CreateCommand contains the data required to create a record.
type CreateCommand struct {
	Name        string
	Slug        string
	Description string
}

// Method records how a reference was resolved.
type Method string

// Resolution methods.
const (
	MethodExact       Method = "exact"
	MethodApproximate Method = "approximate"
	MethodCreated     Method = "created"
)

// Reference points at a Sanity record.
type Reference struct {
	Kind   Kind
	ID     string
	Key    string
	Method Method
}

// Value returns the Sanity reference object. The _key is included only
// when the reference is an array item.
func (r Reference) Value() map[string]any {
	v := map[string]any{
		"_type": "reference",
		"_ref":  r.ID,
	}
	if r.Key != "" {
		v["_key"] = r.Key
	}
	return v
}
