package schema

import (
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/datenoio/internacia-db/pkg/corpus"
)

// Violation is a single schema failure on a record. Field is a JSON
// pointer into the document ("/includes/3/id"); "/" means the root.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return v.Field + ": " + v.Message
}

// Validate checks rec.Raw against the registered schema for its kind.
// A nil result means the record is valid. Violations never stop the
// build; the caller decides what to do with the record.
func (r *Registry) Validate(rec corpus.Record) []Violation {
	ent := r.entities[rec.Kind]
	if ent == nil {
		return []Violation{{Field: "/", Message: fmt.Sprintf("no schema registered for kind %q", rec.Kind)}}
	}

	err := ent.schema.Validate(rec.Raw)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if errors.As(err, &ve) {
		return flatten(ve, nil)
	}
	return []Violation{{Field: "/", Message: err.Error()}}
}

// flatten walks the cause tree and keeps the leaves, which carry the
// specific failures. Intermediate nodes only restate their children.
func flatten(ve *jsonschema.ValidationError, out []Violation) []Violation {
	if len(ve.Causes) == 0 {
		field := ve.InstanceLocation
		if field == "" {
			field = "/"
		}
		return append(out, Violation{Field: field, Message: ve.Message})
	}
	for _, cause := range ve.Causes {
		out = flatten(cause, out)
	}
	return out
}
