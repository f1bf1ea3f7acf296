package normalize

import (
	"fmt"

	"github.com/datenoio/internacia-db/pkg/dataset"
)

// Resolution summarizes the cross-record reference pass.
type Resolution struct {
	Resolved int
	Warnings []Warning
}

// Resolve walks every reference between normalized records: country
// borders, block memberships, partof containment, succession links and
// blocktype tags. A reference either resolves against its table, or it
// is reported as an explicit warning. Memberships without a declared
// type get the type of the table their id resolved against.
//
// Resolve mutates the block rows in place and must run before the
// dataset is handed to the emitters.
func Resolve(ds *dataset.Dataset) Resolution {
	var res Resolution

	countries := ds.Countries.Rows()
	for i := range countries {
		c := &countries[i]
		ref := "country " + c.Code
		for _, border := range c.Borders {
			if ds.Countries.Has(border) {
				res.Resolved++
				continue
			}
			res.Warnings = append(res.Warnings, Warning{
				Ref:     ref,
				Field:   "/borders",
				Message: fmt.Sprintf("unresolved reference %q", border),
			})
		}
	}

	checkTags := ds.BlockTypes.Len() > 0
	blocks := ds.Blocks.Rows()
	for i := range blocks {
		b := &blocks[i]
		ref := "intblock " + b.ID

		for j := range b.Includes {
			m := &b.Includes[j]
			inCountries := ds.Countries.Has(m.ID)
			inBlocks := ds.Blocks.Has(m.ID)
			switch {
			case m.Type == "country" && inCountries,
				m.Type == "intblock" && inBlocks:
				res.Resolved++
			case m.Type == "" && inCountries:
				m.Type = "country"
				res.Resolved++
			case m.Type == "" && inBlocks:
				m.Type = "intblock"
				res.Resolved++
			case m.Type == "country" && inBlocks:
				res.Warnings = append(res.Warnings, Warning{
					Ref:     ref,
					Field:   fmt.Sprintf("/includes/%d", j),
					Message: fmt.Sprintf("%q is declared a country but resolves to an intblock", m.ID),
				})
			case m.Type == "intblock" && inCountries:
				res.Warnings = append(res.Warnings, Warning{
					Ref:     ref,
					Field:   fmt.Sprintf("/includes/%d", j),
					Message: fmt.Sprintf("%q is declared an intblock but resolves to a country", m.ID),
				})
			default:
				res.Warnings = append(res.Warnings, Warning{
					Ref:     ref,
					Field:   fmt.Sprintf("/includes/%d", j),
					Message: fmt.Sprintf("unresolved reference %q", m.ID),
				})
			}
		}

		for _, parent := range b.PartOf {
			if ds.Blocks.Has(parent) {
				res.Resolved++
				continue
			}
			res.Warnings = append(res.Warnings, Warning{
				Ref:     ref,
				Field:   "/partof",
				Message: fmt.Sprintf("unresolved reference %q", parent),
			})
		}

		for _, link := range []struct{ field, id string }{
			{"/predecessor", b.Predecessor},
			{"/successor", b.Successor},
		} {
			if link.id == "" {
				continue
			}
			if ds.Blocks.Has(link.id) {
				res.Resolved++
				continue
			}
			res.Warnings = append(res.Warnings, Warning{
				Ref:     ref,
				Field:   link.field,
				Message: fmt.Sprintf("unresolved reference %q", link.id),
			})
		}

		if checkTags {
			for _, tag := range b.BlockType {
				if ds.BlockTypes.Has(tag) {
					res.Resolved++
					continue
				}
				res.Warnings = append(res.Warnings, Warning{
					Ref:     ref,
					Field:   "/blocktype",
					Message: fmt.Sprintf("unknown blocktype tag %q", tag),
				})
			}
		}
	}

	return res
}
