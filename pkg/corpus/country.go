package corpus

// Country is a normalized country record. Field names follow the source
// corpus; incomeLevel and lendingType keep the camelCase spelling of the
// World Bank API they were ingested from.
type Country struct {
	Code         string                `yaml:"code" json:"code" parquet:"code"`
	Name         string                `yaml:"name" json:"name" parquet:"name"`
	ISO3Code     string                `yaml:"iso3code" json:"iso3code" parquet:"iso3code"`
	OfficialName string                `yaml:"official_name" json:"official_name" parquet:"official_name"`
	NumericCode  string                `yaml:"numeric_code" json:"numeric_code" parquet:"numeric_code"`
	M49Code      string                `yaml:"m49_code" json:"m49_code" parquet:"m49_code"`
	WikidataID   string                `yaml:"wikidata_id" json:"wikidata_id" parquet:"wikidata_id"`
	CapitalCity  *CapitalCity          `yaml:"capital_city,omitempty" json:"capital_city,omitempty" parquet:"capital_city,optional"`
	Region       *CodedValue           `yaml:"region,omitempty" json:"region,omitempty" parquet:"region,optional"`
	AdminRegion  *CodedValue           `yaml:"adminregion,omitempty" json:"adminregion,omitempty" parquet:"adminregion,optional"`
	IncomeLevel  *CodedValue           `yaml:"incomeLevel,omitempty" json:"incomeLevel,omitempty" parquet:"incomeLevel,optional"`
	LendingType  *CodedValue           `yaml:"lendingType,omitempty" json:"lendingType,omitempty" parquet:"lendingType,optional"`
	Languages    []Language            `yaml:"languages" json:"languages" parquet:"languages,list"`
	Currencies   []Currency            `yaml:"currencies" json:"currencies" parquet:"currencies,list"`
	UNMember     bool                  `yaml:"un_member" json:"un_member" parquet:"un_member"`
	Independent  bool                  `yaml:"independent" json:"independent" parquet:"independent"`
	Landlocked   bool                  `yaml:"landlocked" json:"landlocked" parquet:"landlocked"`
	Subregion    string                `yaml:"subregion" json:"subregion" parquet:"subregion"`
	Continents   []string              `yaml:"continents" json:"continents" parquet:"continents,list"`
	Borders      []string              `yaml:"borders" json:"borders" parquet:"borders,list"`
	TLD          string                `yaml:"tld" json:"tld" parquet:"tld"`
	CallingCodes []string              `yaml:"calling_codes" json:"calling_codes" parquet:"calling_codes,list"`
	FlagEmoji    string                `yaml:"flag_emoji" json:"flag_emoji" parquet:"flag_emoji"`
	CarSide      string                `yaml:"car_side" json:"car_side" parquet:"car_side"`
	StartOfWeek  string                `yaml:"start_of_week" json:"start_of_week" parquet:"start_of_week"`
	Demonyms     *Demonyms             `yaml:"demonyms,omitempty" json:"demonyms,omitempty" parquet:"demonyms,optional"`
	Population   int64                 `yaml:"population" json:"population" parquet:"population"`
	Area         float64               `yaml:"area" json:"area" parquet:"area"`
	Gini         *Gini                 `yaml:"gini,omitempty" json:"gini,omitempty" parquet:"gini,optional"`
	Timezones    []string              `yaml:"timezones" json:"timezones" parquet:"timezones,list"`
	NativeNames  map[string]NativeName `yaml:"native_names" json:"native_names" parquet:"-"`
	OtherNames   []OtherName           `yaml:"other_names" json:"other_names" parquet:"other_names,list"`
	CommonNames  []string              `yaml:"common_names" json:"common_names" parquet:"common_names,list"`
}

// CapitalCity locates a capital by name and WGS84 coordinates.
type CapitalCity struct {
	Name string  `yaml:"name" json:"name" parquet:"name"`
	Lng  float64 `yaml:"lng" json:"lng" parquet:"lng"`
	Lat  float64 `yaml:"lat" json:"lat" parquet:"lat"`
}

// CodedValue is an id/value pair from a reference vocabulary
// (World Bank regions, income levels, lending types).
type CodedValue struct {
	ID    string `yaml:"id" json:"id" parquet:"id"`
	Value string `yaml:"value" json:"value" parquet:"value"`
}

// Language is a spoken language entry on a country record.
type Language struct {
	Code     string `yaml:"code" json:"code" parquet:"code"`
	Name     string `yaml:"name" json:"name" parquet:"name"`
	Official bool   `yaml:"official" json:"official" parquet:"official"`
}

// Currency is a circulating currency entry on a country record.
type Currency struct {
	Code   string `yaml:"code" json:"code" parquet:"code"`
	Name   string `yaml:"name" json:"name" parquet:"name"`
	Symbol string `yaml:"symbol" json:"symbol" parquet:"symbol"`
}

// Demonyms names the inhabitants by grammatical gender.
type Demonyms struct {
	Female string `yaml:"female" json:"female" parquet:"female"`
	Male   string `yaml:"male" json:"male" parquet:"male"`
}

// Gini is a World Bank Gini index observation.
type Gini struct {
	Year  int     `yaml:"year" json:"year" parquet:"year"`
	Value float64 `yaml:"value" json:"value" parquet:"value"`
}

// NativeName holds the official and common country name in one of the
// country's own languages, keyed by language code in Country.NativeNames.
type NativeName struct {
	Official string `yaml:"official" json:"official" parquet:"official"`
	Common   string `yaml:"common" json:"common" parquet:"common"`
}

// OtherName is an alternate name entry. The id is a language identifier
// ("eo", "zh-Hant") or a naming-scheme tag for historic names.
type OtherName struct {
	ID   string `yaml:"id" json:"id" parquet:"id"`
	Name string `yaml:"name" json:"name" parquet:"name"`
}
