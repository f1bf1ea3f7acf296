// Package normalize turns validated raw records into the typed tables
// the emitters consume. It repairs known corpus damage, fills the
// documented defaults, collapses duplicate name entries and resolves
// cross-record references. Everything it changes or cannot resolve
// comes back as a warning; normalization never drops a build.
package normalize

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/datenoio/internacia-db/pkg/corpus"
	"github.com/datenoio/internacia-db/pkg/dataset"
)

// Warning records a normalization decision on one record. Field is a
// JSON-pointer-ish path into the document; empty when the warning
// concerns the record as a whole.
type Warning struct {
	Ref     string `json:"ref"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	if w.Field == "" {
		return w.Ref + ": " + w.Message
	}
	return w.Ref + ": " + w.Field + ": " + w.Message
}

// Countries builds the country table from validated records. Records
// that cannot be decoded are dropped with a warning; the insertion
// order of the input is preserved.
func Countries(records []corpus.Record) (*dataset.Table[corpus.Country], []Warning) {
	tbl := dataset.NewTable[corpus.Country]()
	var warns []Warning
	for _, rec := range records {
		c, err := DecodeCountry(rec)
		if err != nil {
			warns = append(warns, Warning{Ref: rec.Ref(), Message: "record dropped: " + err.Error()})
			continue
		}
		warns = append(warns, tagged(rec, NormalizeCountry(&c))...)
		if err := tbl.Append(c.Code, c); err != nil {
			warns = append(warns, Warning{Ref: rec.Ref(), Message: "record dropped: " + err.Error()})
		}
	}
	return tbl, warns
}

// Blocks builds the block table. The category attached by the loader
// overrides whatever the document itself claims.
func Blocks(records []corpus.Record) (*dataset.Table[corpus.Block], []Warning) {
	tbl := dataset.NewTable[corpus.Block]()
	var warns []Warning
	for _, rec := range records {
		b, err := DecodeBlock(rec)
		if err != nil {
			warns = append(warns, Warning{Ref: rec.Ref(), Message: "record dropped: " + err.Error()})
			continue
		}
		if rec.Category != "" {
			b.Category = rec.Category
		}
		warns = append(warns, tagged(rec, NormalizeBlock(&b))...)
		if err := tbl.Append(b.ID, b); err != nil {
			warns = append(warns, Warning{Ref: rec.Ref(), Message: "record dropped: " + err.Error()})
		}
	}
	return tbl, warns
}

// BlockTypes builds the block type vocabulary table.
func BlockTypes(records []corpus.Record) (*dataset.Table[corpus.BlockType], []Warning) {
	tbl := dataset.NewTable[corpus.BlockType]()
	var warns []Warning
	for _, rec := range records {
		bt, err := DecodeBlockType(rec)
		if err != nil {
			warns = append(warns, Warning{Ref: rec.Ref(), Message: "record dropped: " + err.Error()})
			continue
		}
		warns = append(warns, tagged(rec, NormalizeBlockType(&bt))...)
		if err := tbl.Append(bt.ID, bt); err != nil {
			warns = append(warns, Warning{Ref: rec.Ref(), Message: "record dropped: " + err.Error()})
		}
	}
	return tbl, warns
}

// DecodeCountry converts a raw record into its typed form.
func DecodeCountry(rec corpus.Record) (corpus.Country, error) {
	var c corpus.Country
	if err := decode(rec.Raw, &c); err != nil {
		return corpus.Country{}, err
	}
	return c, nil
}

func DecodeBlock(rec corpus.Record) (corpus.Block, error) {
	var b corpus.Block
	if err := decode(rec.Raw, &b); err != nil {
		return corpus.Block{}, err
	}
	return b, nil
}

func DecodeBlockType(rec corpus.Record) (corpus.BlockType, error) {
	var bt corpus.BlockType
	if err := decode(rec.Raw, &bt); err != nil {
		return corpus.BlockType{}, err
	}
	return bt, nil
}

// decode goes through a YAML round trip so the struct tags do the
// field mapping and type coercion in one place.
func decode(raw map[string]any, out any) error {
	data, err := yaml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encode raw document: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

func tagged(rec corpus.Record, warns []Warning) []Warning {
	for i := range warns {
		warns[i].Ref = rec.Ref()
	}
	return warns
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
