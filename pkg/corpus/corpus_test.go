package corpus

import "testing"

func TestKindValid(t *testing.T) {
	for _, k := range Kinds {
		if !k.Valid() {
			t.Errorf("kind %q should be valid", k)
		}
	}
	if Kind("planet").Valid() {
		t.Error("unknown kind should not be valid")
	}
}

func TestKindPlural(t *testing.T) {
	cases := map[Kind]string{
		KindCountry:   "countries",
		KindBlock:     "intblocks",
		KindBlockType: "blocktypes",
	}
	for k, want := range cases {
		if got := k.Plural(); got != want {
			t.Errorf("%s.Plural() = %q, want %q", k, got, want)
		}
	}
}

func TestRecordID(t *testing.T) {
	country := Record{Kind: KindCountry, Raw: map[string]any{"code": "NO", "name": "Norway"}}
	if got := country.ID(); got != "NO" {
		t.Errorf("country id = %q, want NO", got)
	}

	block := Record{Kind: KindBlock, Raw: map[string]any{"id": "eu"}}
	if got := block.ID(); got != "eu" {
		t.Errorf("block id = %q, want eu", got)
	}

	missing := Record{Kind: KindBlock, Raw: map[string]any{"name": "nameless"}}
	if got := missing.ID(); got != "" {
		t.Errorf("missing id = %q, want empty", got)
	}

	// A YAML bool in the id slot must not panic and must not pass as an id.
	damaged := Record{Kind: KindBlock, Raw: map[string]any{"id": false}}
	if got := damaged.ID(); got != "" {
		t.Errorf("non-string id = %q, want empty", got)
	}
}

func TestRecordRef(t *testing.T) {
	r := Record{Kind: KindBlock, Source: "intblocks/regional/eu.yaml", Raw: map[string]any{"id": "eu"}}
	want := "intblock eu (intblocks/regional/eu.yaml)"
	if got := r.Ref(); got != want {
		t.Errorf("Ref() = %q, want %q", got, want)
	}

	anon := Record{Kind: KindCountry, Source: "countries/xx.yaml", Raw: map[string]any{}}
	if got := anon.Ref(); got != "country ? (countries/xx.yaml)" {
		t.Errorf("Ref() without id = %q", got)
	}
}
