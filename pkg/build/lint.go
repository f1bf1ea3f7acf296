package build

import (
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/language"

	"github.com/datenoio/internacia-db/pkg/corpus"
	"github.com/datenoio/internacia-db/pkg/normalize"
)

var (
	wikidataPattern = regexp.MustCompile(`^Q[0-9]+$`)
	wikidataEntity  = regexp.MustCompile(`Q[0-9]+`)
)

// lintRecord applies checks the schema cannot express: identifier
// shapes that are legal YAML but almost certainly editing mistakes.
// Lint findings are warnings, the record still builds.
func lintRecord(rec corpus.Record) []normalize.Warning {
	var warns []normalize.Warning
	add := func(field, msg string) {
		warns = append(warns, normalize.Warning{Ref: rec.Ref(), Field: field, Message: msg})
	}

	switch rec.Kind {
	case corpus.KindCountry:
		lintWikidata(rec.Raw, add)
		lintLangEntries(rec.Raw, "languages", "code", add)
		lintNativeNames(rec.Raw, add)
		lintLangEntries(rec.Raw, "other_names", "id", add)
	case corpus.KindBlock:
		lintWikidata(rec.Raw, add)
		lintLinks(rec.Raw, add)
		lintWikidataLinks(rec.Raw, add)
		lintLangList(rec.Raw, "languages", add)
		lintLangEntries(rec.Raw, "acronyms", "lang", add)
		lintLangEntries(rec.Raw, "other_names", "id", add)
	case corpus.KindBlockType:
		lintLangEntries(rec.Raw, "other_names", "lang", add)
	}
	return warns
}

func lintWikidata(raw map[string]any, add func(field, msg string)) {
	s, ok := raw["wikidata_id"].(string)
	if !ok || s == "" {
		return
	}
	if !wikidataPattern.MatchString(s) {
		add("/wikidata_id", fmt.Sprintf("%q does not look like a Wikidata item id", s))
	}
}

func lintLinks(raw map[string]any, add func(field, msg string)) {
	list, ok := raw["links"].([]any)
	if !ok {
		return
	}
	for i, entry := range list {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		s, ok := m["url"].(string)
		if !ok || s == "" {
			continue
		}
		u, err := url.Parse(s)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			add(fmt.Sprintf("/links/%d/url", i), fmt.Sprintf("%q is not an absolute http(s) url", s))
		}
	}
}

// lintWikidataLinks cross-checks links of type wikidata against the
// wikidata_id field: the Q-number in the url and the field must agree.
func lintWikidataLinks(raw map[string]any, add func(field, msg string)) {
	list, ok := raw["links"].([]any)
	if !ok {
		return
	}
	var found []string
	for i, entry := range list {
		m, ok := entry.(map[string]any)
		if !ok || m["type"] != "wikidata" {
			continue
		}
		s, ok := m["url"].(string)
		if !ok || s == "" {
			continue
		}
		qid := wikidataEntity.FindString(s)
		if qid == "" {
			add(fmt.Sprintf("/links/%d/url", i), fmt.Sprintf("no Q-number in wikidata link %q", s))
			continue
		}
		found = append(found, qid)
	}
	if len(found) == 0 {
		return
	}
	id, _ := raw["wikidata_id"].(string)
	if id == "" {
		add("/wikidata_id", fmt.Sprintf("wikidata link names %s but wikidata_id is unset", found[0]))
		return
	}
	if !wikidataPattern.MatchString(id) {
		return // malformed id already warned
	}
	if !slices.Contains(found, id) {
		add("/wikidata_id", fmt.Sprintf("%s does not match any wikidata link (%s)", id, strings.Join(found, ", ")))
	}
}

func checkLang(tag string) string {
	if _, err := language.Parse(tag); err != nil {
		return fmt.Sprintf("%q is not a valid BCP 47 language tag", tag)
	}
	return ""
}

func lintLangList(raw map[string]any, field string, add func(field, msg string)) {
	list, ok := raw[field].([]any)
	if !ok {
		return
	}
	for i, v := range list {
		s, ok := v.(string)
		if !ok {
			continue
		}
		if msg := checkLang(s); msg != "" {
			add(fmt.Sprintf("/%s/%d", field, i), msg)
		}
	}
}

func lintLangEntries(raw map[string]any, field, key string, add func(field, msg string)) {
	list, ok := raw[field].([]any)
	if !ok {
		return
	}
	for i, entry := range list {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		s, ok := m[key].(string)
		if !ok {
			continue
		}
		if msg := checkLang(s); msg != "" {
			add(fmt.Sprintf("/%s/%d/%s", field, i, key), msg)
		}
	}
}

func lintNativeNames(raw map[string]any, add func(field, msg string)) {
	m, ok := raw["native_names"].(map[string]any)
	if !ok {
		return
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if msg := checkLang(k); msg != "" {
			add("/native_names/"+k, msg)
		}
	}
}
