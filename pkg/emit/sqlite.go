package emit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	_ "modernc.org/sqlite"

	"github.com/datenoio/internacia-db/pkg/corpus"
	"github.com/datenoio/internacia-db/pkg/dataset"
)

// SQLite writes all collections into one relational database file.
// SQLite has no nested column types, so list and struct values are
// stored as JSON text. The file is recreated from scratch on every
// build.
type SQLite struct{}

func (SQLite) Format() string { return "sqlite" }

const sqliteFile = "internacia.sqlite"

func (e SQLite) Emit(ctx context.Context, ds *dataset.Dataset, dir string) ([]Artifact, error) {
	path := filepath.Join(dir, sqliteFile)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("remove %s: %w", path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	records, err := writeSQLite(ctx, db, ds)
	if cerr := db.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, err
	}

	a, err := fileArtifact(dir, sqliteFile, "sqlite", records)
	if err != nil {
		return nil, err
	}
	return []Artifact{a}, nil
}

// writeSQLite creates the tables and loads every row in a single
// transaction. It takes the handle rather than a path so the SQL layer
// can be exercised against a mock.
func writeSQLite(ctx context.Context, db *sql.DB, ds *dataset.Dataset) (int, error) {
	if err := migrateSQLite(ctx, db); err != nil {
		return 0, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if err := insertCountries(ctx, tx, ds.Countries.Rows()); err != nil {
		return 0, err
	}
	if err := insertBlocks(ctx, tx, ds.Blocks.Rows()); err != nil {
		return 0, err
	}
	if err := insertBlockTypes(ctx, tx, ds.BlockTypes.Rows()); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return ds.Countries.Len() + ds.Blocks.Len() + ds.BlockTypes.Len(), nil
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS countries (
			code TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			iso3code TEXT,
			official_name TEXT,
			numeric_code TEXT,
			m49_code TEXT,
			wikidata_id TEXT,
			capital_city JSON,
			region JSON,
			adminregion JSON,
			incomeLevel JSON,
			lendingType JSON,
			languages JSON,
			currencies JSON,
			un_member INTEGER NOT NULL DEFAULT 0,
			independent INTEGER NOT NULL DEFAULT 0,
			landlocked INTEGER NOT NULL DEFAULT 0,
			subregion TEXT,
			continents JSON,
			borders JSON,
			tld TEXT,
			calling_codes JSON,
			flag_emoji TEXT,
			car_side TEXT,
			start_of_week TEXT,
			demonyms JSON,
			population INTEGER,
			area REAL,
			gini JSON,
			timezones JSON,
			native_names JSON,
			other_names JSON,
			common_names JSON
		)`,
		`CREATE TABLE IF NOT EXISTS intblocks (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT,
			blocktype JSON,
			status TEXT,
			founded TEXT,
			dissolved TEXT,
			geographic_scope TEXT,
			regions JSON,
			languages JSON,
			links JSON,
			includes JSON,
			membership_count INTEGER,
			wikidata_id TEXT,
			legal_status TEXT,
			description TEXT,
			tags JSON,
			topics JSON,
			headquarters JSON,
			acronyms JSON,
			partof JSON,
			predecessor TEXT,
			successor TEXT,
			other_names JSON
		)`,
		`CREATE TABLE IF NOT EXISTS blocktypes (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			other_names JSON
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite ddl: %w", err)
		}
	}
	return nil
}

func insertCountries(ctx context.Context, tx *sql.Tx, rows []corpus.Country) error {
	query := `INSERT INTO countries (
		code, name, iso3code, official_name, numeric_code, m49_code, wikidata_id,
		capital_city, region, adminregion, incomeLevel, lendingType,
		languages, currencies, un_member, independent, landlocked, subregion,
		continents, borders, tld, calling_codes, flag_emoji, car_side, start_of_week,
		demonyms, population, area, gini, timezones, native_names, other_names, common_names
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare countries: %w", err)
	}
	defer stmt.Close()

	for _, c := range rows {
		args, err := countryArgs(c)
		if err != nil {
			return fmt.Errorf("encode country %s: %w", c.Code, err)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert country %s: %w", c.Code, err)
		}
	}
	return nil
}

func countryArgs(c corpus.Country) ([]any, error) {
	nested, err := jsonCols(
		c.CapitalCity, c.Region, c.AdminRegion, c.IncomeLevel, c.LendingType,
		c.Languages, c.Currencies, c.Continents, c.Borders, c.CallingCodes,
		c.Demonyms, c.Gini, c.Timezones, c.NativeNames, c.OtherNames, c.CommonNames,
	)
	if err != nil {
		return nil, err
	}
	return []any{
		c.Code, c.Name, c.ISO3Code, c.OfficialName, c.NumericCode, c.M49Code, c.WikidataID,
		nested[0], nested[1], nested[2], nested[3], nested[4],
		nested[5], nested[6], c.UNMember, c.Independent, c.Landlocked, c.Subregion,
		nested[7], nested[8], c.TLD, nested[9], c.FlagEmoji, c.CarSide, c.StartOfWeek,
		nested[10], c.Population, c.Area, nested[11], nested[12], nested[13], nested[14], nested[15],
	}, nil
}

func insertBlocks(ctx context.Context, tx *sql.Tx, rows []corpus.Block) error {
	query := `INSERT INTO intblocks (
		id, name, category, blocktype, status, founded, dissolved, geographic_scope,
		regions, languages, links, includes, membership_count, wikidata_id, legal_status,
		description, tags, topics, headquarters, acronyms, partof, predecessor, successor, other_names
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare intblocks: %w", err)
	}
	defer stmt.Close()

	for _, b := range rows {
		nested, err := jsonCols(
			b.BlockType, b.Regions, b.Languages, b.Links, b.Includes,
			b.Tags, b.Topics, b.Headquarters, b.Acronyms, b.PartOf, b.OtherNames,
		)
		if err != nil {
			return fmt.Errorf("encode intblock %s: %w", b.ID, err)
		}
		_, err = stmt.ExecContext(ctx,
			b.ID, b.Name, b.Category, nested[0], b.Status, b.Founded, b.Dissolved, b.GeographicScope,
			nested[1], nested[2], nested[3], nested[4], b.MembershipCount, b.WikidataID, b.LegalStatus,
			b.Description, nested[5], nested[6], nested[7], nested[8], nested[9], b.Predecessor, b.Successor, nested[10],
		)
		if err != nil {
			return fmt.Errorf("insert intblock %s: %w", b.ID, err)
		}
	}
	return nil
}

func insertBlockTypes(ctx context.Context, tx *sql.Tx, rows []corpus.BlockType) error {
	query := `INSERT INTO blocktypes (id, name, other_names) VALUES (?, ?, ?)`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare blocktypes: %w", err)
	}
	defer stmt.Close()

	for _, bt := range rows {
		names, err := jsonCol(bt.OtherNames)
		if err != nil {
			return fmt.Errorf("encode blocktype %s: %w", bt.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, bt.ID, bt.Name, names); err != nil {
			return fmt.Errorf("insert blocktype %s: %w", bt.ID, err)
		}
	}
	return nil
}

// jsonCol serializes one nested value for a JSON text column. Nil
// pointers become NULL.
func jsonCol(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func jsonCols(vals ...any) ([]any, error) {
	out := make([]any, len(vals))
	for i, v := range vals {
		col, err := jsonCol(v)
		if err != nil {
			return nil, err
		}
		out[i] = col
	}
	return out, nil
}
