package schema

import (
	"sort"

	"github.com/Masterminds/semver/v3"

	"github.com/datenoio/internacia-db/pkg/corpus"
)

// Migrate rewrites rec.Raw in place to the current schema version and
// returns a description of each applied rename. A record may declare
// its version in a schema_version field; that field is consumed here
// and never reaches validation or the emitters.
//
// Records that declare a version are migrated when the version matches
// a migration constraint. Records without a declaration are migrated
// when one of the legacy fields named by a rename is still present.
func (r *Registry) Migrate(rec *corpus.Record) []string {
	ent := r.entities[rec.Kind]
	if ent == nil || rec.Raw == nil {
		return nil
	}

	declared := takeVersion(rec.Raw)

	var applied []string
	for _, m := range ent.migrations {
		if !m.applies(declared, rec.Raw) {
			continue
		}
		applied = append(applied, m.apply(rec.Raw)...)
	}
	return applied
}

// takeVersion removes schema_version from the document and parses it.
// Unparseable declarations count as undeclared.
func takeVersion(raw map[string]any) *semver.Version {
	v, ok := raw["schema_version"]
	if !ok {
		return nil
	}
	delete(raw, "schema_version")
	s, ok := v.(string)
	if !ok {
		return nil
	}
	ver, err := semver.NewVersion(s)
	if err != nil {
		return nil
	}
	return ver
}

func (m compiledMigration) applies(declared *semver.Version, raw map[string]any) bool {
	if declared != nil {
		return m.when == nil || m.when.Check(declared)
	}
	for from := range m.rename {
		if _, ok := raw[from]; ok {
			return true
		}
	}
	return false
}

func (m compiledMigration) apply(raw map[string]any) []string {
	var applied []string

	for _, from := range sortedKeys(m.rename) {
		to := m.rename[from]
		v, ok := raw[from]
		if !ok {
			continue
		}
		delete(raw, from)
		if existing, dup := raw[to]; dup {
			raw[to] = mergeLists(existing, v)
			applied = append(applied, from+" merged into "+to)
		} else {
			raw[to] = v
			applied = append(applied, from+" renamed to "+to)
		}
	}

	for _, field := range sortedKeys(m.remap) {
		list, ok := raw[field].([]any)
		if !ok {
			continue
		}
		keys := m.remap[field]
		for _, item := range list {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			for _, from := range sortedKeys(keys) {
				to := keys[from]
				v, ok := entry[from]
				if !ok {
					continue
				}
				delete(entry, from)
				if _, dup := entry[to]; !dup {
					entry[to] = v
				}
			}
		}
	}

	return applied
}

// mergeLists appends the entries of a renamed list onto an already
// present target list. Non-list collisions keep the target value.
func mergeLists(target, source any) any {
	ts, ok1 := target.([]any)
	ss, ok2 := source.([]any)
	if !ok1 || !ok2 {
		return target
	}
	return append(ts, ss...)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
