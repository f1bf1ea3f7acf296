// Package corpus defines the entity model of the Internacia data corpus:
// countries, international blocks and block types, plus the raw record
// envelope that carries a source document through the build pipeline.
package corpus

import "fmt"

// Kind identifies an entity kind within the corpus.
type Kind string

const (
	KindCountry   Kind = "country"
	KindBlock     Kind = "intblock"
	KindBlockType Kind = "blocktype"
)

// Kinds lists all entity kinds in canonical emission order.
var Kinds = []Kind{KindCountry, KindBlock, KindBlockType}

func (k Kind) Valid() bool {
	switch k {
	case KindCountry, KindBlock, KindBlockType:
		return true
	}
	return false
}

// Plural returns the collection name used for output artifacts
// ("countries", "intblocks", "blocktypes").
func (k Kind) Plural() string {
	switch k {
	case KindCountry:
		return "countries"
	case KindBlock:
		return "intblocks"
	case KindBlockType:
		return "blocktypes"
	}
	return string(k)
}

// IDField returns the name of the identifying field for the kind.
// Countries are keyed by ISO 3166-1 alpha-2 code, everything else by id.
func (k Kind) IDField() string {
	if k == KindCountry {
		return "code"
	}
	return "id"
}

// Record is a raw source document plus its provenance. Records travel
// through migration, validation and normalization before they become
// typed entities; Raw holds the decoded YAML mapping untouched.
type Record struct {
	Kind     Kind
	Category string
	Source   string
	Raw      map[string]any
}

// ID extracts the record identifier from the raw document. Returns an
// empty string when the field is absent or not scalar text.
func (r Record) ID() string {
	v, ok := r.Raw[r.Kind.IDField()]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}

// Ref names a record for diagnostics: "intblock eu (intblocks/regional/eu.yaml)".
func (r Record) Ref() string {
	id := r.ID()
	if id == "" {
		id = "?"
	}
	return fmt.Sprintf("%s %s (%s)", r.Kind, id, r.Source)
}
