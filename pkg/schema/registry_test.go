package schema

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datenoio/internacia-db/pkg/corpus"
)

func TestLoadDefault(t *testing.T) {
	reg, err := LoadDefault()
	require.NoError(t, err)

	assert.Equal(t, "2.1.0", reg.Version())
	assert.Equal(t, []corpus.Kind{corpus.KindCountry, corpus.KindBlock, corpus.KindBlockType}, reg.Kinds())
}

func TestLoadOverrideDirectory(t *testing.T) {
	fsys := fstest.MapFS{
		"registry.yaml": &fstest.MapFile{Data: []byte(`
version: "3.0.0"
entities:
  blocktype:
    schema: blocktype.schema.json
`)},
		"blocktype.schema.json": &fstest.MapFile{Data: []byte(`{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["id"],
  "properties": {"id": {"type": "string"}, "name": {"type": "string"}}
}`)},
	}

	reg, err := Load(fsys)
	require.NoError(t, err)
	assert.Equal(t, "3.0.0", reg.Version())
	assert.Equal(t, []corpus.Kind{corpus.KindBlockType}, reg.Kinds())

	rec := corpus.Record{Kind: corpus.KindBlockType, Raw: map[string]any{"name": "nameless"}}
	violations := reg.Validate(rec)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0].Message, "id")
}

func TestLoadRejectsBadManifests(t *testing.T) {
	cases := map[string]fstest.MapFS{
		"missing manifest": {},
		"missing version": {
			"registry.yaml": &fstest.MapFile{Data: []byte("entities: {}\n")},
		},
		"bad version": {
			"registry.yaml": &fstest.MapFile{Data: []byte("version: \"not-semver\"\nentities: {}\n")},
		},
		"no entities": {
			"registry.yaml": &fstest.MapFile{Data: []byte("version: \"1.0.0\"\nentities: {}\n")},
		},
		"unknown kind": {
			"registry.yaml": &fstest.MapFile{Data: []byte("version: \"1.0.0\"\nentities:\n  planet:\n    schema: planet.schema.json\n")},
		},
		"missing schema document": {
			"registry.yaml": &fstest.MapFile{Data: []byte("version: \"1.0.0\"\nentities:\n  country:\n    schema: country.schema.json\n")},
		},
		"bad migration constraint": {
			"registry.yaml": &fstest.MapFile{Data: []byte(`
version: "1.0.0"
entities:
  blocktype:
    schema: blocktype.schema.json
    migrations:
      - when: "not a constraint %%"
        rename: {a: b}
`)},
			"blocktype.schema.json": &fstest.MapFile{Data: []byte(`{"type": "object"}`)},
		},
	}

	for name, fsys := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(fsys)
			assert.Error(t, err)
		})
	}
}
