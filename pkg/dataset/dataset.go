// Package dataset holds the normalized in-memory tables the emitters
// consume. Tables preserve insertion order so every emitter sees the
// same record sequence and artifacts come out deterministic.
package dataset

import (
	"errors"
	"fmt"

	"github.com/datenoio/internacia-db/pkg/corpus"
)

// ErrDuplicateID reports an Append with an identifier already present.
var ErrDuplicateID = errors.New("duplicate id")

// Table is an ordered collection of rows keyed by identifier.
type Table[T any] struct {
	ids  []string
	rows []T
	byID map[string]int
}

func NewTable[T any]() *Table[T] {
	return &Table[T]{byID: make(map[string]int)}
}

// Append adds a row under id. The first row wins: appending an id that
// is already present fails with ErrDuplicateID and leaves the table
// unchanged.
func (t *Table[T]) Append(id string, row T) error {
	if _, ok := t.byID[id]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateID, id)
	}
	t.byID[id] = len(t.rows)
	t.ids = append(t.ids, id)
	t.rows = append(t.rows, row)
	return nil
}

func (t *Table[T]) Get(id string) (T, bool) {
	if i, ok := t.byID[id]; ok {
		return t.rows[i], true
	}
	var zero T
	return zero, false
}

func (t *Table[T]) Has(id string) bool {
	_, ok := t.byID[id]
	return ok
}

func (t *Table[T]) Len() int { return len(t.rows) }

// Rows returns the rows in insertion order. The slice is the table's
// backing store; callers must not modify it.
func (t *Table[T]) Rows() []T { return t.rows }

// IDs returns the identifiers in insertion order.
func (t *Table[T]) IDs() []string {
	out := make([]string, len(t.ids))
	copy(out, t.ids)
	return out
}

// Dataset bundles the normalized tables of one build.
type Dataset struct {
	Countries  *Table[corpus.Country]
	Blocks     *Table[corpus.Block]
	BlockTypes *Table[corpus.BlockType]
}

func New() *Dataset {
	return &Dataset{
		Countries:  NewTable[corpus.Country](),
		Blocks:     NewTable[corpus.Block](),
		BlockTypes: NewTable[corpus.BlockType](),
	}
}

// Counts reports table sizes keyed by collection name.
func (d *Dataset) Counts() map[string]int {
	return map[string]int{
		corpus.KindCountry.Plural():   d.Countries.Len(),
		corpus.KindBlock.Plural():     d.Blocks.Len(),
		corpus.KindBlockType.Plural(): d.BlockTypes.Len(),
	}
}
