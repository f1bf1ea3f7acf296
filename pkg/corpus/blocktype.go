package corpus

// BlockType is a vocabulary entry for Block.BlockType values
// ("union", "alliance", "specialized_agency", ...).
type BlockType struct {
	ID         string          `yaml:"id" json:"id" parquet:"id"`
	Name       string          `yaml:"name" json:"name" parquet:"name"`
	OtherNames []LocalizedName `yaml:"other_names" json:"other_names" parquet:"other_names,list"`
}

// LocalizedName is a translated label keyed by language code.
type LocalizedName struct {
	Lang string `yaml:"lang" json:"lang" parquet:"lang"`
	Name string `yaml:"name" json:"name" parquet:"name"`
}
