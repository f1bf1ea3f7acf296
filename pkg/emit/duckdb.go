package emit

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/duckdb/duckdb-go/v2"

	"github.com/datenoio/internacia-db/pkg/corpus"
	"github.com/datenoio/internacia-db/pkg/dataset"
)

// DuckDB writes all collections into one analytical database file.
// Nested values keep their shape as native LIST and STRUCT columns.
// The file is recreated from scratch on every build.
type DuckDB struct{}

func (DuckDB) Format() string { return "duckdb" }

const duckdbFile = "internacia.duckdb"

var duckdbDDL = []string{
	`CREATE TABLE countries (
		code VARCHAR PRIMARY KEY,
		name VARCHAR NOT NULL,
		iso3code VARCHAR,
		official_name VARCHAR,
		numeric_code VARCHAR,
		m49_code VARCHAR,
		wikidata_id VARCHAR,
		capital_city STRUCT(name VARCHAR, lng DOUBLE, lat DOUBLE),
		region STRUCT(id VARCHAR, "value" VARCHAR),
		adminregion STRUCT(id VARCHAR, "value" VARCHAR),
		incomeLevel STRUCT(id VARCHAR, "value" VARCHAR),
		lendingType STRUCT(id VARCHAR, "value" VARCHAR),
		languages STRUCT(code VARCHAR, name VARCHAR, official BOOLEAN)[],
		currencies STRUCT(code VARCHAR, name VARCHAR, symbol VARCHAR)[],
		un_member BOOLEAN,
		independent BOOLEAN,
		landlocked BOOLEAN,
		subregion VARCHAR,
		continents VARCHAR[],
		borders VARCHAR[],
		tld VARCHAR,
		calling_codes VARCHAR[],
		flag_emoji VARCHAR,
		car_side VARCHAR,
		start_of_week VARCHAR,
		demonyms STRUCT(female VARCHAR, male VARCHAR),
		population BIGINT,
		area DOUBLE,
		gini STRUCT("year" INTEGER, "value" DOUBLE),
		timezones VARCHAR[],
		native_names STRUCT(lang VARCHAR, official VARCHAR, common VARCHAR)[],
		other_names STRUCT(id VARCHAR, name VARCHAR)[],
		common_names VARCHAR[]
	)`,
	`CREATE TABLE intblocks (
		id VARCHAR PRIMARY KEY,
		name VARCHAR NOT NULL,
		category VARCHAR,
		blocktype VARCHAR[],
		status VARCHAR,
		founded VARCHAR,
		dissolved VARCHAR,
		geographic_scope VARCHAR,
		regions VARCHAR[],
		languages VARCHAR[],
		links STRUCT(url VARCHAR, "type" VARCHAR)[],
		includes STRUCT(id VARCHAR, name VARCHAR, "type" VARCHAR, status VARCHAR, joined VARCHAR, "role" VARCHAR, note VARCHAR)[],
		membership_count BIGINT,
		wikidata_id VARCHAR,
		legal_status VARCHAR,
		description VARCHAR,
		tags VARCHAR[],
		topics STRUCT("key" VARCHAR, name VARCHAR)[],
		headquarters STRUCT(city VARCHAR, country VARCHAR, coordinates STRUCT(lat DOUBLE, lng DOUBLE)),
		acronyms STRUCT(lang VARCHAR, "value" VARCHAR)[],
		partof VARCHAR[],
		predecessor VARCHAR,
		successor VARCHAR,
		other_names STRUCT(id VARCHAR, name VARCHAR)[]
	)`,
	`CREATE TABLE blocktypes (
		id VARCHAR PRIMARY KEY,
		name VARCHAR NOT NULL,
		other_names STRUCT(lang VARCHAR, name VARCHAR)[]
	)`,
}

func (e DuckDB) Emit(ctx context.Context, ds *dataset.Dataset, dir string) ([]Artifact, error) {
	path := filepath.Join(dir, duckdbFile)
	for _, stale := range []string{path, path + ".wal"} {
		if err := os.Remove(stale); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("remove %s: %w", stale, err)
		}
	}

	records, err := writeDuckDB(ctx, path, ds)
	if err != nil {
		return nil, err
	}

	a, err := fileArtifact(dir, duckdbFile, "duckdb", records)
	if err != nil {
		return nil, err
	}
	return []Artifact{a}, nil
}

func writeDuckDB(ctx context.Context, path string, ds *dataset.Dataset) (int, error) {
	connector, err := duckdb.NewConnector(path, nil)
	if err != nil {
		return 0, fmt.Errorf("open duckdb: %w", err)
	}
	defer connector.Close()

	db := sql.OpenDB(connector)
	defer db.Close()
	for _, ddl := range duckdbDDL {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return 0, fmt.Errorf("duckdb ddl: %w", err)
		}
	}

	conn, err := connector.Connect(ctx)
	if err != nil {
		return 0, fmt.Errorf("duckdb connect: %w", err)
	}
	defer conn.Close()
	duckConn, ok := conn.(*duckdb.Conn)
	if !ok {
		return 0, fmt.Errorf("unexpected duckdb connection type %T", conn)
	}

	if err := appendCountries(duckConn, ds.Countries.Rows()); err != nil {
		return 0, err
	}
	if err := appendBlocks(duckConn, ds.Blocks.Rows()); err != nil {
		return 0, err
	}
	if err := appendBlockTypes(duckConn, ds.BlockTypes.Rows()); err != nil {
		return 0, err
	}

	return ds.Countries.Len() + ds.Blocks.Len() + ds.BlockTypes.Len(), nil
}

func appendCountries(conn *duckdb.Conn, rows []corpus.Country) error {
	app, err := duckdb.NewAppenderFromConn(conn, "", "countries")
	if err != nil {
		return fmt.Errorf("countries appender: %w", err)
	}
	for _, c := range rows {
		err := app.AppendRow(
			c.Code, c.Name, c.ISO3Code, c.OfficialName, c.NumericCode, c.M49Code, c.WikidataID,
			duckCapital(c.CapitalCity),
			duckCoded(c.Region), duckCoded(c.AdminRegion), duckCoded(c.IncomeLevel), duckCoded(c.LendingType),
			duckLanguages(c.Languages), duckCurrencies(c.Currencies),
			c.UNMember, c.Independent, c.Landlocked, c.Subregion,
			c.Continents, c.Borders, c.TLD, c.CallingCodes, c.FlagEmoji, c.CarSide, c.StartOfWeek,
			duckDemonyms(c.Demonyms), c.Population, c.Area, duckGini(c.Gini), c.Timezones,
			duckNativeNames(c.NativeNames), duckOtherNames(c.OtherNames), c.CommonNames,
		)
		if err != nil {
			app.Close()
			return fmt.Errorf("append country %s: %w", c.Code, err)
		}
	}
	if err := app.Close(); err != nil {
		return fmt.Errorf("flush countries: %w", err)
	}
	return nil
}

func appendBlocks(conn *duckdb.Conn, rows []corpus.Block) error {
	app, err := duckdb.NewAppenderFromConn(conn, "", "intblocks")
	if err != nil {
		return fmt.Errorf("intblocks appender: %w", err)
	}
	for _, b := range rows {
		err := app.AppendRow(
			b.ID, b.Name, b.Category, b.BlockType, b.Status, b.Founded, b.Dissolved,
			b.GeographicScope, b.Regions, b.Languages,
			duckLinks(b.Links), duckMemberships(b.Includes), b.MembershipCount,
			b.WikidataID, b.LegalStatus, b.Description, b.Tags, duckTopics(b.Topics),
			duckHeadquarters(b.Headquarters), duckAcronyms(b.Acronyms),
			b.PartOf, b.Predecessor, b.Successor, duckOtherNames(b.OtherNames),
		)
		if err != nil {
			app.Close()
			return fmt.Errorf("append intblock %s: %w", b.ID, err)
		}
	}
	if err := app.Close(); err != nil {
		return fmt.Errorf("flush intblocks: %w", err)
	}
	return nil
}

func appendBlockTypes(conn *duckdb.Conn, rows []corpus.BlockType) error {
	app, err := duckdb.NewAppenderFromConn(conn, "", "blocktypes")
	if err != nil {
		return fmt.Errorf("blocktypes appender: %w", err)
	}
	for _, bt := range rows {
		if err := app.AppendRow(bt.ID, bt.Name, duckLocalizedNames(bt.OtherNames)); err != nil {
			app.Close()
			return fmt.Errorf("append blocktype %s: %w", bt.ID, err)
		}
	}
	if err := app.Close(); err != nil {
		return fmt.Errorf("flush blocktypes: %w", err)
	}
	return nil
}

// Conversion helpers. The appender takes map[string]any for STRUCT
// columns and plain slices for LIST columns; nil stands for NULL.

func duckCapital(v *corpus.CapitalCity) any {
	if v == nil {
		return nil
	}
	return map[string]any{"name": v.Name, "lng": v.Lng, "lat": v.Lat}
}

func duckCoded(v *corpus.CodedValue) any {
	if v == nil {
		return nil
	}
	return map[string]any{"id": v.ID, "value": v.Value}
}

func duckDemonyms(v *corpus.Demonyms) any {
	if v == nil {
		return nil
	}
	return map[string]any{"female": v.Female, "male": v.Male}
}

func duckGini(v *corpus.Gini) any {
	if v == nil {
		return nil
	}
	return map[string]any{"year": int32(v.Year), "value": v.Value}
}

func duckLanguages(in []corpus.Language) []any {
	out := make([]any, len(in))
	for i, l := range in {
		out[i] = map[string]any{"code": l.Code, "name": l.Name, "official": l.Official}
	}
	return out
}

func duckCurrencies(in []corpus.Currency) []any {
	out := make([]any, len(in))
	for i, c := range in {
		out[i] = map[string]any{"code": c.Code, "name": c.Name, "symbol": c.Symbol}
	}
	return out
}

func duckNativeNames(in map[string]corpus.NativeName) []any {
	out := make([]any, 0, len(in))
	for _, lang := range sortedLangs(in) {
		n := in[lang]
		out = append(out, map[string]any{"lang": lang, "official": n.Official, "common": n.Common})
	}
	return out
}

func duckOtherNames(in []corpus.OtherName) []any {
	out := make([]any, len(in))
	for i, n := range in {
		out[i] = map[string]any{"id": n.ID, "name": n.Name}
	}
	return out
}

func duckLocalizedNames(in []corpus.LocalizedName) []any {
	out := make([]any, len(in))
	for i, n := range in {
		out[i] = map[string]any{"lang": n.Lang, "name": n.Name}
	}
	return out
}

func duckLinks(in []corpus.Link) []any {
	out := make([]any, len(in))
	for i, l := range in {
		out[i] = map[string]any{"url": l.URL, "type": l.Type}
	}
	return out
}

func duckMemberships(in []corpus.Membership) []any {
	out := make([]any, len(in))
	for i, m := range in {
		out[i] = map[string]any{
			"id": m.ID, "name": m.Name, "type": m.Type,
			"status": m.Status, "joined": m.Joined, "role": m.Role, "note": m.Note,
		}
	}
	return out
}

func duckTopics(in []corpus.Topic) []any {
	out := make([]any, len(in))
	for i, t := range in {
		out[i] = map[string]any{"key": t.Key, "name": t.Name}
	}
	return out
}

func duckAcronyms(in []corpus.Acronym) []any {
	out := make([]any, len(in))
	for i, a := range in {
		out[i] = map[string]any{"lang": a.Lang, "value": a.Value}
	}
	return out
}

func duckHeadquarters(v *corpus.Headquarters) any {
	if v == nil {
		return nil
	}
	var coords any
	if v.Coordinates != nil {
		coords = map[string]any{"lat": v.Coordinates.Lat, "lng": v.Coordinates.Lng}
	}
	return map[string]any{"city": v.City, "country": v.Country, "coordinates": coords}
}
