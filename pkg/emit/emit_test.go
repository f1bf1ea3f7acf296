package emit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datenoio/internacia-db/pkg/corpus"
	"github.com/datenoio/internacia-db/pkg/dataset"
	"github.com/datenoio/internacia-db/pkg/normalize"
)

// testDataset is a small normalized dataset with every nesting shape
// the emitters have to handle.
func testDataset(t testing.TB) *dataset.Dataset {
	t.Helper()
	ds := dataset.New()

	no := corpus.Country{
		Code:         "NO",
		Name:         "Norway",
		ISO3Code:     "NOR",
		OfficialName: "Kingdom of Norway",
		NumericCode:  "578",
		M49Code:      "578",
		WikidataID:   "Q20",
		CapitalCity:  &corpus.CapitalCity{Name: "Oslo", Lng: 10.74, Lat: 59.91},
		Region:       &corpus.CodedValue{ID: "ECS", Value: "Europe & Central Asia"},
		IncomeLevel:  &corpus.CodedValue{ID: "HIC", Value: "High income"},
		Languages:    []corpus.Language{{Code: "no", Name: "Norwegian", Official: true}},
		Currencies:   []corpus.Currency{{Code: "NOK", Name: "Norwegian krone", Symbol: "kr"}},
		UNMember:     true,
		Independent:  true,
		Subregion:    "Northern Europe",
		Continents:   []string{"Europe"},
		Borders:      []string{"SE", "FI", "RU"},
		TLD:          ".no",
		CallingCodes: []string{"+47"},
		FlagEmoji:    "🇳🇴",
		CarSide:      "right",
		StartOfWeek:  "monday",
		Demonyms:     &corpus.Demonyms{Female: "Norwegian", Male: "Norwegian"},
		Population:   5425270,
		Area:         323802,
		Gini:         &corpus.Gini{Year: 2019, Value: 27.7},
		Timezones:    []string{"UTC+01:00"},
		NativeNames: map[string]corpus.NativeName{
			"nno": {Official: "Kongeriket Noreg", Common: "Noreg"},
			"nob": {Official: "Kongeriket Norge", Common: "Norge"},
		},
		OtherNames: []corpus.OtherName{{ID: "eo", Name: "Norvegio"}},
	}
	normalize.NormalizeCountry(&no)

	se := corpus.Country{Code: "SE", Name: "Sweden", ISO3Code: "SWE", Borders: []string{"NO", "FI"}}
	normalize.NormalizeCountry(&se)

	require.NoError(t, ds.Countries.Append(no.Code, no))
	require.NoError(t, ds.Countries.Append(se.Code, se))

	nordic := corpus.Block{
		ID:        "nordic_council",
		Name:      "Nordic Council",
		Category:  "regional",
		BlockType: []string{"council"},
		Status:    "active",
		Founded:   "1952",
		Languages: []string{"da", "no", "sv"},
		Links:     []corpus.Link{{URL: "https://www.norden.org", Type: "official"}},
		Includes: []corpus.Membership{
			{ID: "NO", Type: "country", Status: "member", Joined: "1952"},
			{ID: "SE", Type: "country", Status: "member", Joined: "1952"},
		},
		Headquarters: &corpus.Headquarters{
			City: "Copenhagen", Country: "DK",
			Coordinates: &corpus.Coordinates{Lat: 55.68, Lng: 12.57},
		},
		Acronyms:   []corpus.Acronym{{Lang: "en", Value: "NC"}},
		OtherNames: []corpus.OtherName{{ID: "fi", Name: "Pohjoismaiden neuvosto"}},
	}
	normalize.NormalizeBlock(&nordic)
	require.NoError(t, ds.Blocks.Append(nordic.ID, nordic))

	council := corpus.BlockType{
		ID:         "council",
		Name:       "Council",
		OtherNames: []corpus.LocalizedName{{Lang: "eo", Name: "Konsilio"}},
	}
	normalize.NormalizeBlockType(&council)
	require.NoError(t, ds.BlockTypes.Append(council.ID, council))

	return ds
}

func TestFormats(t *testing.T) {
	assert.Equal(t, []string{"jsonl", "yaml", "parquet", "duckdb", "sqlite"}, Formats())
}

func TestByNames(t *testing.T) {
	t.Run("empty selects all", func(t *testing.T) {
		es, err := ByNames(nil)
		require.NoError(t, err)
		assert.Len(t, es, 5)
	})

	t.Run("keeps requested order", func(t *testing.T) {
		es, err := ByNames([]string{"parquet", "jsonl"})
		require.NoError(t, err)
		require.Len(t, es, 2)
		assert.Equal(t, "parquet", es[0].Format())
		assert.Equal(t, "jsonl", es[1].Format())
	})

	t.Run("case and whitespace folded, repeats dropped", func(t *testing.T) {
		es, err := ByNames([]string{" JSONL ", "jsonl", "yaml"})
		require.NoError(t, err)
		require.Len(t, es, 2)
		assert.Equal(t, "jsonl", es[0].Format())
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := ByNames([]string{"xml"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"xml"`)
		assert.Contains(t, err.Error(), "jsonl")
	})

	t.Run("only blanks", func(t *testing.T) {
		_, err := ByNames([]string{"", "  "})
		require.Error(t, err)
	})
}
