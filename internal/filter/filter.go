// Package filter implements the list-view search over influencer and
// campaign snapshots. Everything here is pure: given the same snapshot and
// the same query state the output is identical, order-preserving and a
// subset of the input.
package filter

import (
	"sort"
	"strings"

	"github.com/nxthub/influencewise/internal/common"
)

// Facets are the multi-select dimensions of the influencer list. An empty
// set means the dimension is unconstrained.
type Facets struct {
	Category map[string]bool
	Language map[string]bool
}

// Influencers returns the subset of records matching the free-text query
// and the facet selection, preserving input order. The query matches the
// influencer name or any platform handle, case-insensitively.
func Influencers(records []*common.Influencer, query string, facets Facets) []*common.Influencer {
	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]*common.Influencer, 0, len(records))
	for _, inf := range records {
		if !matchesQuery(inf, query) {
			continue
		}
		if len(facets.Category) > 0 && !facets.Category[inf.Category] {
			continue
		}
		if len(facets.Language) > 0 && !facets.Language[inf.Language] {
			continue
		}
		out = append(out, inf)
	}
	return out
}

func matchesQuery(inf *common.Influencer, query string) bool {
	if query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(inf.Name), query) {
		return true
	}
	for i := range inf.Platforms {
		if strings.Contains(strings.ToLower(inf.Platforms[i].Handle), query) {
			return true
		}
	}
	return false
}

// Campaigns matches on the campaign name only.
func Campaigns(records []*common.Campaign, query string) []*common.Campaign {
	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]*common.Campaign, 0, len(records))
	for _, cmp := range records {
		if query != "" && !strings.Contains(strings.ToLower(cmp.Name), query) {
			continue
		}
		out = append(out, cmp)
	}
	return out
}

// FacetValues holds the distinct values available per dimension. They are
// always extracted from the FULL unfiltered snapshot so toggling one facet
// never removes options for another.
type FacetValues struct {
	Categories []string `json:"categories"`
	Languages  []string `json:"languages"`
}

func ExtractFacets(records []*common.Influencer) *FacetValues {
	cats, langs := map[string]bool{}, map[string]bool{}
	for _, inf := range records {
		if inf.Category != "" {
			cats[inf.Category] = true
		}
		if inf.Language != "" {
			langs[inf.Language] = true
		}
	}
	return &FacetValues{
		Categories: sortedKeys(cats),
		Languages:  sortedKeys(langs),
	}
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ParseFacet turns the comma separated query param form ("beauty,tech")
// into a set; empty input yields an unconstrained dimension.
func ParseFacet(raw string) map[string]bool {
	if raw = strings.TrimSpace(raw); raw == "" {
		return nil
	}
	set := make(map[string]bool)
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			set[v] = true
		}
	}
	return set
}
