// Package loader reads raw corpus records from source trees. It walks
// an fs.FS rather than the OS filesystem directly, so sources can come
// from a checkout, an archive or a test fixture alike.
//
// A file that fails to parse never aborts the walk. The loader returns
// every record it could decode plus one Error per file it could not,
// and leaves the decision about partial data to the caller.
package loader

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/datenoio/internacia-db/pkg/corpus"
)

// Error is a per-file load failure.
type Error struct {
	Path string
	Err  error
}

func (e Error) Error() string { return e.Path + ": " + e.Err.Error() }

func (e Error) Unwrap() error { return e.Err }

// Result carries the records of one source tree together with the
// files that failed to load.
type Result struct {
	Records []corpus.Record
	Errors  []Error
}

// Options adjust how records are attributed.
type Options struct {
	// DefaultCategory is assigned to records that sit directly in the
	// tree root instead of a category subdirectory. Leave empty for
	// flat trees whose kind has no category notion.
	DefaultCategory string
}

// LoadTree walks fsys and decodes every .yaml/.yml file into a record
// of the given kind. Files are visited in lexical order, so the record
// sequence is stable across runs. The first path segment of a nested
// file becomes its category.
func LoadTree(fsys fs.FS, kind corpus.Kind, opts Options) (Result, error) {
	var res Result
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == "." {
				return err
			}
			res.Errors = append(res.Errors, Error{Path: p, Err: err})
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !isYAML(name) {
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			res.Errors = append(res.Errors, Error{Path: p, Err: err})
			return nil
		}

		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			res.Errors = append(res.Errors, Error{Path: p, Err: err})
			return nil
		}
		if len(raw) == 0 {
			res.Errors = append(res.Errors, Error{Path: p, Err: fmt.Errorf("empty document")})
			return nil
		}

		res.Records = append(res.Records, corpus.Record{
			Kind:     kind,
			Category: categoryOf(p, opts.DefaultCategory),
			Source:   p,
			Raw:      raw,
		})
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("walk %s tree: %w", kind, err)
	}
	return res, nil
}

// LoadList reads a single YAML file holding a list of records, as the
// blocktypes vocabulary does. Entries are numbered in their source
// reference: "blocktypes.yaml#3".
func LoadList(fsys fs.FS, p string, kind corpus.Kind) (Result, error) {
	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		return Result{}, fmt.Errorf("read %s list: %w", kind, err)
	}

	var res Result
	var items []map[string]any
	if err := yaml.Unmarshal(data, &items); err != nil {
		res.Errors = append(res.Errors, Error{Path: p, Err: err})
		return res, nil
	}

	for i, raw := range items {
		source := fmt.Sprintf("%s#%d", p, i)
		if len(raw) == 0 {
			res.Errors = append(res.Errors, Error{Path: source, Err: fmt.Errorf("empty entry")})
			continue
		}
		res.Records = append(res.Records, corpus.Record{
			Kind:   kind,
			Source: source,
			Raw:    raw,
		})
	}
	return res, nil
}

func isYAML(name string) bool {
	ext := path.Ext(name)
	return ext == ".yaml" || ext == ".yml"
}

func categoryOf(p, fallback string) string {
	if i := strings.IndexByte(p, '/'); i > 0 {
		return p[:i]
	}
	return fallback
}
