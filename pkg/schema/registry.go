// Package schema is the registry of entity schemas for the corpus.
// Validation rules live in declarative JSON Schema documents, wired
// together by a registry.yaml manifest that also carries the schema
// version and the field migrations between versions. The compiled-in
// defaults can be replaced with an external directory, so tightening a
// rule or adding a field is a document edit, not a code change.
package schema

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"

	"github.com/Masterminds/semver/v3"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/datenoio/internacia-db/pkg/corpus"
)

//go:embed defs
var defaults embed.FS

const manifestName = "registry.yaml"

// Manifest mirrors registry.yaml.
type Manifest struct {
	Version  string                    `yaml:"version"`
	Entities map[string]EntityManifest `yaml:"entities"`
}

// EntityManifest declares one entity kind: its schema document and the
// migrations that bring older records up to the current version.
type EntityManifest struct {
	Schema     string      `yaml:"schema"`
	Migrations []Migration `yaml:"migrations"`
}

// Migration is a declarative field rewrite. When matches the declared
// schema_version of a record; Rename moves top-level fields; Remap
// renames keys inside the entries of a list field.
type Migration struct {
	When   string                       `yaml:"when"`
	Rename map[string]string            `yaml:"rename"`
	Remap  map[string]map[string]string `yaml:"remap"`
}

// Registry holds the compiled schemas and migrations for all entity kinds.
type Registry struct {
	version  *semver.Version
	entities map[corpus.Kind]*entity
}

type entity struct {
	schema     *jsonschema.Schema
	migrations []compiledMigration
}

type compiledMigration struct {
	when   *semver.Constraints
	rename map[string]string
	remap  map[string]map[string]string
}

// LoadDefault loads the registry compiled into the binary.
func LoadDefault() (*Registry, error) {
	sub, err := fs.Sub(defaults, "defs")
	if err != nil {
		return nil, err
	}
	return Load(sub)
}

// Load reads registry.yaml and the schema documents it names from fsys.
func Load(fsys fs.FS) (*Registry, error) {
	data, err := fs.ReadFile(fsys, manifestName)
	if err != nil {
		return nil, fmt.Errorf("read schema registry: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", manifestName, err)
	}
	if m.Version == "" {
		return nil, fmt.Errorf("%s: missing version", manifestName)
	}
	version, err := semver.NewVersion(m.Version)
	if err != nil {
		return nil, fmt.Errorf("%s: bad version %q: %w", manifestName, m.Version, err)
	}

	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020

	reg := &Registry{version: version, entities: make(map[corpus.Kind]*entity)}
	for name, em := range m.Entities {
		kind := corpus.Kind(name)
		if !kind.Valid() {
			return nil, fmt.Errorf("%s: unknown entity kind %q", manifestName, name)
		}
		if em.Schema == "" {
			return nil, fmt.Errorf("%s: entity %q has no schema document", manifestName, name)
		}

		raw, err := fs.ReadFile(fsys, em.Schema)
		if err != nil {
			return nil, fmt.Errorf("read schema for %s: %w", name, err)
		}
		url := "https://schemas.internacia.dev/" + em.Schema
		if err := c.AddResource(url, bytes.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("load schema for %s: %w", name, err)
		}
		compiled, err := c.Compile(url)
		if err != nil {
			return nil, fmt.Errorf("compile schema for %s: %w", name, err)
		}

		ent := &entity{schema: compiled}
		for _, mig := range em.Migrations {
			cm := compiledMigration{rename: mig.Rename, remap: mig.Remap}
			if mig.When != "" {
				when, err := semver.NewConstraint(mig.When)
				if err != nil {
					return nil, fmt.Errorf("%s: entity %q: bad migration constraint %q: %w", manifestName, name, mig.When, err)
				}
				cm.when = when
			}
			ent.migrations = append(ent.migrations, cm)
		}
		reg.entities[kind] = ent
	}

	if len(reg.entities) == 0 {
		return nil, fmt.Errorf("%s: no entities declared", manifestName)
	}
	return reg, nil
}

// Version reports the registry's current schema version.
func (r *Registry) Version() string { return r.version.String() }

// Kinds lists the registered entity kinds in canonical order.
func (r *Registry) Kinds() []corpus.Kind {
	var kinds []corpus.Kind
	for _, k := range corpus.Kinds {
		if _, ok := r.entities[k]; ok {
			kinds = append(kinds, k)
		}
	}
	return kinds
}
