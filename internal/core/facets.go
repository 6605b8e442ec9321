package core

import (
	"fmt"
	"sort"
)

// FacetDimensions are the document fields a search may filter on.
var FacetDimensions = []string{"entities", "author_name", "author_inst", "category", "type", "rel_date"}

func IsFacetDimension(name string) bool {
	for _, d := range FacetDimensions {
		if d == name {
			return true
		}
	}
	return false
}

// ValidateFacets rejects unknown dimensions and drops dimensions with no values.
func ValidateFacets(in map[string][]string) (map[string][]string, error) {
	out := make(map[string][]string, len(in))
	names := make([]string, 0, len(in))
	for name := range in {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !IsFacetDimension(name) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFacet, name)
		}
		var values []string
		for _, v := range in[name] {
			if v != "" {
				values = append(values, v)
			}
		}
		if len(values) > 0 {
			out[name] = values
		}
	}
	return out, nil
}
