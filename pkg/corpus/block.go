package corpus

// Block is a normalized international block record: an intergovernmental
// organization, union, alliance or treaty system. Category is derived from
// the source subdirectory at load time and travels with the record.
type Block struct {
	ID              string        `yaml:"id" json:"id" parquet:"id"`
	Name            string        `yaml:"name" json:"name" parquet:"name"`
	Category        string        `yaml:"category" json:"category" parquet:"category"`
	BlockType       []string      `yaml:"blocktype" json:"blocktype" parquet:"blocktype,list"`
	Status          string        `yaml:"status" json:"status" parquet:"status"`
	Founded         string        `yaml:"founded" json:"founded" parquet:"founded"`
	Dissolved       string        `yaml:"dissolved" json:"dissolved" parquet:"dissolved"`
	GeographicScope string        `yaml:"geographic_scope" json:"geographic_scope" parquet:"geographic_scope"`
	Regions         []string      `yaml:"regions" json:"regions" parquet:"regions,list"`
	Languages       []string      `yaml:"languages" json:"languages" parquet:"languages,list"`
	Links           []Link        `yaml:"links" json:"links" parquet:"links,list"`
	Includes        []Membership  `yaml:"includes" json:"includes" parquet:"includes,list"`
	MembershipCount int64         `yaml:"membership_count" json:"membership_count" parquet:"membership_count"`
	WikidataID      string        `yaml:"wikidata_id" json:"wikidata_id" parquet:"wikidata_id"`
	LegalStatus     string        `yaml:"legal_status" json:"legal_status" parquet:"legal_status"`
	Description     string        `yaml:"description" json:"description" parquet:"description"`
	Tags            []string      `yaml:"tags" json:"tags" parquet:"tags,list"`
	Topics          []Topic       `yaml:"topics" json:"topics" parquet:"topics,list"`
	Headquarters    *Headquarters `yaml:"headquarters,omitempty" json:"headquarters,omitempty" parquet:"headquarters,optional"`
	Acronyms        []Acronym     `yaml:"acronyms" json:"acronyms" parquet:"acronyms,list"`
	PartOf          []string      `yaml:"partof" json:"partof" parquet:"partof,list"`
	Predecessor     string        `yaml:"predecessor" json:"predecessor" parquet:"predecessor"`
	Successor       string        `yaml:"successor" json:"successor" parquet:"successor"`
	OtherNames      []OtherName   `yaml:"other_names" json:"other_names" parquet:"other_names,list"`
}

// Link is an external reference on a block record.
type Link struct {
	URL  string `yaml:"url" json:"url" parquet:"url"`
	Type string `yaml:"type" json:"type" parquet:"type"`
}

// Membership is one entry of a block's includes list. ID references a
// country code or another block id; Type distinguishes the two and is
// filled during reference resolution when the source omits it.
type Membership struct {
	ID     string `yaml:"id" json:"id" parquet:"id"`
	Name   string `yaml:"name" json:"name" parquet:"name"`
	Type   string `yaml:"type" json:"type" parquet:"type"`
	Status string `yaml:"status" json:"status" parquet:"status"`
	Joined string `yaml:"joined" json:"joined" parquet:"joined"`
	Role   string `yaml:"role" json:"role" parquet:"role"`
	Note   string `yaml:"note" json:"note" parquet:"note"`
}

// Topic is a thematic classification entry.
type Topic struct {
	Key  string `yaml:"key" json:"key" parquet:"key"`
	Name string `yaml:"name" json:"name" parquet:"name"`
}

// Headquarters locates a block's seat.
type Headquarters struct {
	City        string       `yaml:"city" json:"city" parquet:"city"`
	Country     string       `yaml:"country" json:"country" parquet:"country"`
	Coordinates *Coordinates `yaml:"coordinates,omitempty" json:"coordinates,omitempty" parquet:"coordinates,optional"`
}

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `yaml:"lat" json:"lat" parquet:"lat"`
	Lng float64 `yaml:"lng" json:"lng" parquet:"lng"`
}

// Acronym is a per-language abbreviation of a block name.
type Acronym struct {
	Lang  string `yaml:"lang" json:"lang" parquet:"lang"`
	Value string `yaml:"value" json:"value" parquet:"value"`
}
