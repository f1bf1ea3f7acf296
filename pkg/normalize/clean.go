package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/datenoio/internacia-db/pkg/corpus"
)

// Clean repairs known damage in a raw document before validation.
//
// YAML 1.1 reads the bare scalars no, yes, on and off as booleans,
// which mangles the Norwegian language code and the NO country code
// wherever an editor forgot the quotes. Clean restores those scalars
// to strings, upper case in code positions and lower case in language
// positions. It also removes explicit nulls, coerces bare years to
// strings and flattens the historical shapes of the partof field.
func Clean(rec *corpus.Record) []Warning {
	if rec.Raw == nil {
		return nil
	}

	// Shape repairs first: partof mappings carry their ids as keys with
	// null values, which the null scrub below would otherwise eat.
	var warns []Warning
	switch rec.Kind {
	case corpus.KindCountry:
		warns = append(warns, cleanCountry(rec.Raw)...)
	case corpus.KindBlock:
		warns = append(warns, cleanBlock(rec.Raw)...)
	case corpus.KindBlockType:
		warns = append(warns, restoreBoolKey(rec.Raw, "other_names", "lang", false)...)
	}
	scrub("", rec.Raw, &warns)

	return tagged(*rec, warns)
}

func cleanCountry(raw map[string]any) []Warning {
	var warns []Warning
	if s, ok := restoreBool(raw["code"], true); ok {
		raw["code"] = s
		warns = append(warns, boolWarning("/code", s))
	}
	warns = append(warns, restoreBoolList(raw, "borders", true)...)
	warns = append(warns, restoreBoolKey(raw, "languages", "code", false)...)
	warns = append(warns, restoreBoolKey(raw, "other_names", "id", false)...)
	return warns
}

func cleanBlock(raw map[string]any) []Warning {
	var warns []Warning
	warns = append(warns, coerceYear(raw, "founded")...)
	warns = append(warns, coerceYear(raw, "dissolved")...)
	warns = append(warns, normalizePartOf(raw)...)
	warns = append(warns, restoreBoolList(raw, "languages", false)...)
	warns = append(warns, restoreBoolKey(raw, "other_names", "id", false)...)
	warns = append(warns, restoreBoolKey(raw, "acronyms", "lang", false)...)
	warns = append(warns, restoreBoolKey(raw, "includes", "id", true)...)
	warns = append(warns, coerceYearKey(raw, "includes", "joined")...)
	return warns
}

// scrub removes explicit nulls at every level. A null value means the
// field was never filled in; dropping it lets the defaults pass supply
// the documented empty value later.
func scrub(at string, v any, warns *[]Warning) any {
	switch x := v.(type) {
	case map[string]any:
		for _, k := range sortedKeys(x) {
			child := x[k]
			if child == nil {
				delete(x, k)
				*warns = append(*warns, Warning{Field: at + "/" + k, Message: "null value removed"})
				continue
			}
			x[k] = scrub(at+"/"+k, child, warns)
		}
		return x
	case []any:
		out := x[:0]
		for i, item := range x {
			if item == nil {
				*warns = append(*warns, Warning{Field: fmt.Sprintf("%s/%d", at, i), Message: "null entry removed"})
				continue
			}
			out = append(out, scrub(fmt.Sprintf("%s/%d", at, i), item, warns))
		}
		return out
	default:
		return v
	}
}

func restoreBool(v any, upper bool) (string, bool) {
	b, ok := v.(bool)
	if !ok {
		return "", false
	}
	s := "no"
	if b {
		s = "yes"
	}
	if upper {
		s = strings.ToUpper(s)
	}
	return s, true
}

func restoreBoolList(raw map[string]any, field string, upper bool) []Warning {
	list, ok := raw[field].([]any)
	if !ok {
		return nil
	}
	var warns []Warning
	for i, item := range list {
		if s, ok := restoreBool(item, upper); ok {
			list[i] = s
			warns = append(warns, boolWarning(fmt.Sprintf("/%s/%d", field, i), s))
		}
	}
	return warns
}

func restoreBoolKey(raw map[string]any, field, key string, upper bool) []Warning {
	list, ok := raw[field].([]any)
	if !ok {
		return nil
	}
	var warns []Warning
	for i, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if s, ok := restoreBool(entry[key], upper); ok {
			entry[key] = s
			warns = append(warns, boolWarning(fmt.Sprintf("/%s/%d/%s", field, i, key), s))
		}
	}
	return warns
}

func boolWarning(field, restored string) Warning {
	return Warning{Field: field, Message: fmt.Sprintf("boolean literal restored to %q", restored)}
}

func coerceYear(raw map[string]any, field string) []Warning {
	if n, ok := raw[field].(int); ok {
		raw[field] = strconv.Itoa(n)
		return []Warning{{Field: "/" + field, Message: "numeric date coerced to string"}}
	}
	return nil
}

func coerceYearKey(raw map[string]any, field, key string) []Warning {
	list, ok := raw[field].([]any)
	if !ok {
		return nil
	}
	var warns []Warning
	for i, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if n, ok := entry[key].(int); ok {
			entry[key] = strconv.Itoa(n)
			warns = append(warns, Warning{
				Field:   fmt.Sprintf("/%s/%d/%s", field, i, key),
				Message: "numeric date coerced to string",
			})
		}
	}
	return warns
}

// normalizePartOf accepts the three shapes partof has had over the
// corpus's history: a bare string, a mapping with block ids as keys,
// and the current list of ids.
func normalizePartOf(raw map[string]any) []Warning {
	v, ok := raw["partof"]
	if !ok {
		return nil
	}
	switch x := v.(type) {
	case string:
		raw["partof"] = []any{x}
		return []Warning{{Field: "/partof", Message: "scalar wrapped into a list"}}
	case map[string]any:
		keys := sortedKeys(x)
		list := make([]any, len(keys))
		for i, k := range keys {
			list[i] = k
		}
		raw["partof"] = list
		return []Warning{{Field: "/partof", Message: "mapping keys flattened into a list"}}
	case []any:
		var warns []Warning
		for i, item := range x {
			if s, ok := restoreBool(item, false); ok {
				x[i] = s
				warns = append(warns, boolWarning(fmt.Sprintf("/partof/%d", i), s))
			}
		}
		return warns
	default:
		return nil
	}
}
