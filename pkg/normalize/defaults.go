package normalize

import (
	"fmt"

	"github.com/datenoio/internacia-db/pkg/corpus"
)

// NormalizeCountry fills absent optional fields with their documented
// defaults and collapses duplicate alternate-name entries.
func NormalizeCountry(c *corpus.Country) []Warning {
	if c.Languages == nil {
		c.Languages = []corpus.Language{}
	}
	if c.Currencies == nil {
		c.Currencies = []corpus.Currency{}
	}
	if c.Continents == nil {
		c.Continents = []string{}
	}
	if c.Borders == nil {
		c.Borders = []string{}
	}
	if c.CallingCodes == nil {
		c.CallingCodes = []string{}
	}
	if c.Timezones == nil {
		c.Timezones = []string{}
	}
	if c.NativeNames == nil {
		c.NativeNames = map[string]corpus.NativeName{}
	}
	if c.CommonNames == nil {
		c.CommonNames = []string{}
	}

	var warns []Warning
	c.OtherNames, warns = dedupeOtherNames(c.OtherNames)
	return warns
}

// NormalizeBlock fills defaults, collapses duplicate alternate names
// and reconciles membership_count against the includes list.
func NormalizeBlock(b *corpus.Block) []Warning {
	if b.BlockType == nil {
		b.BlockType = []string{}
	}
	if b.Regions == nil {
		b.Regions = []string{}
	}
	if b.Languages == nil {
		b.Languages = []string{}
	}
	if b.Links == nil {
		b.Links = []corpus.Link{}
	}
	if b.Includes == nil {
		b.Includes = []corpus.Membership{}
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}
	if b.Topics == nil {
		b.Topics = []corpus.Topic{}
	}
	if b.Acronyms == nil {
		b.Acronyms = []corpus.Acronym{}
	}
	if b.PartOf == nil {
		b.PartOf = []string{}
	}

	var warns []Warning
	b.OtherNames, warns = dedupeOtherNames(b.OtherNames)

	listed := int64(len(b.Includes))
	switch {
	case b.MembershipCount == 0 && listed > 0:
		b.MembershipCount = listed
	case b.MembershipCount > 0 && listed > 0 && b.MembershipCount != listed:
		warns = append(warns, Warning{
			Field:   "/membership_count",
			Message: fmt.Sprintf("declared %d members but includes lists %d", b.MembershipCount, listed),
		})
	}

	return warns
}

// NormalizeBlockType fills defaults and collapses duplicate labels by
// language.
func NormalizeBlockType(bt *corpus.BlockType) []Warning {
	if bt.OtherNames == nil {
		bt.OtherNames = []corpus.LocalizedName{}
	}

	var warns []Warning
	seen := make(map[string]bool, len(bt.OtherNames))
	out := bt.OtherNames[:0]
	for _, n := range bt.OtherNames {
		if seen[n.Lang] {
			warns = append(warns, Warning{
				Field:   "/other_names",
				Message: fmt.Sprintf("duplicate entry for %q dropped, first occurrence kept", n.Lang),
			})
			continue
		}
		seen[n.Lang] = true
		out = append(out, n)
	}
	bt.OtherNames = out
	return warns
}

// dedupeOtherNames keeps the first entry per id. Later duplicates are
// dropped with a warning, whatever their name says.
func dedupeOtherNames(names []corpus.OtherName) ([]corpus.OtherName, []Warning) {
	if names == nil {
		return []corpus.OtherName{}, nil
	}
	seen := make(map[string]bool, len(names))
	out := names[:0]
	var warns []Warning
	for _, n := range names {
		if seen[n.ID] {
			warns = append(warns, Warning{
				Field:   "/other_names",
				Message: fmt.Sprintf("duplicate entry for %q dropped, first occurrence kept", n.ID),
			})
			continue
		}
		seen[n.ID] = true
		out = append(out, n)
	}
	return out, warns
}
