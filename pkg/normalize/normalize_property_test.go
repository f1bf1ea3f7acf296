//go:build property
// +build property

// Package normalize_test contains property-based tests for the
// normalization pass.
package normalize_test

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/datenoio/internacia-db/pkg/corpus"
	"github.com/datenoio/internacia-db/pkg/normalize"
)

// TestNormalizeCountryIdempotent verifies a second normalization pass
// changes nothing.
// Property: Normalize(Normalize(c)) == Normalize(c)
func TestNormalizeCountryIdempotent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("Country normalization is idempotent", prop.ForAll(
		func(code, name string, ids []string) bool {
			c := corpus.Country{Code: code, Name: name}
			for _, id := range ids {
				c.OtherNames = append(c.OtherNames, corpus.OtherName{ID: id, Name: name})
			}

			normalize.NormalizeCountry(&c)
			once := c
			warns := normalize.NormalizeCountry(&c)

			return len(warns) == 0 && reflect.DeepEqual(once, c)
		},
		gen.AlphaString(),
		gen.AlphaString(),
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}

// TestNormalizeCountryDedupesOtherNames verifies normalized records
// never carry two alternate names under the same id.
func TestNormalizeCountryDedupesOtherNames(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("Alternate name ids are unique after normalization", prop.ForAll(
		func(ids []string) bool {
			c := corpus.Country{Code: "NO", Name: "Norway"}
			for _, id := range ids {
				c.OtherNames = append(c.OtherNames, corpus.OtherName{ID: id, Name: id})
			}

			normalize.NormalizeCountry(&c)

			seen := make(map[string]bool, len(c.OtherNames))
			for _, n := range c.OtherNames {
				if seen[n.ID] {
					return false
				}
				seen[n.ID] = true
			}
			return true
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}

// TestNormalizeBlockMembershipCount verifies the reconciled count
// always matches a non-empty includes list when none was declared.
func TestNormalizeBlockMembershipCount(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("Undeclared membership counts are backfilled", prop.ForAll(
		func(ids []string) bool {
			b := corpus.Block{ID: "bloc", Name: "Bloc"}
			for _, id := range ids {
				b.Includes = append(b.Includes, corpus.Membership{ID: id, Type: "country"})
			}

			normalize.NormalizeBlock(&b)

			return b.MembershipCount == int64(len(b.Includes))
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}
