package sources

import (
	"sort"

	"github.com/agentstation/modelscout/pkg/catalogs"
)

// computeFacets aggregates facet counts over the merged candidate set before
// the query's variant filters are applied, so a facet always shows what a
// different narrowing choice would yield. A variant excluded from the result
// page by the size ceiling or format filter still counts here.
func computeFacets(candidates []candidate) []catalogs.Facet {
	format := make(map[string]int)
	quant := make(map[string]int)
	size := make(map[string]int)
	family := make(map[string]int)
	source := make(map[string]int)

	for _, c := range candidates {
		countVariantFacet(format, c.model, func(v catalogs.Variant) string {
			return v.Format.String()
		})
		countVariantFacet(quant, c.model, func(v catalogs.Variant) string {
			return v.Quantization.String()
		})
		countVariantFacet(size, c.model, func(v catalogs.Variant) string {
			return catalogs.SizeBucket(v.SizeBytes)
		})

		if c.model.Family != "" {
			family[c.model.Family]++
		}
		source[c.model.Source.String()]++
	}

	var facets []catalogs.Facet
	for _, f := range []struct {
		name   string
		counts map[string]int
	}{
		{catalogs.FacetFormat, format},
		{catalogs.FacetQuantization, quant},
		{catalogs.FacetSize, size},
		{catalogs.FacetFamily, family},
		{catalogs.FacetSource, source},
	} {
		if len(f.counts) == 0 {
			continue
		}
		facets = append(facets, catalogs.Facet{Name: f.name, Values: sortedFacetValues(f.counts)})
	}
	return facets
}

// countVariantFacet counts each facet value at most once per model.
func countVariantFacet(counts map[string]int, model catalogs.RemoteModel, value func(catalogs.Variant) string) {
	seen := make(map[string]struct{})
	for _, v := range model.Variants {
		val := value(v)
		if val == "" {
			continue
		}
		if _, dup := seen[val]; dup {
			continue
		}
		seen[val] = struct{}{}
		counts[val]++
	}
}

func sortedFacetValues(counts map[string]int) []catalogs.FacetValue {
	values := make([]catalogs.FacetValue, 0, len(counts))
	for v, n := range counts {
		values = append(values, catalogs.FacetValue{Value: v, Count: n})
	}
	sort.Slice(values, func(i, j int) bool {
		if values[i].Count != values[j].Count {
			return values[i].Count > values[j].Count
		}
		return values[i].Value < values[j].Value
	})
	return values
}
