package sru

import (
	"github.com/beevik/etree"
	"go.uber.org/zap"
)

// parseFacets extracts the facetedResults block of an SRU 2.0 response.
// It returns nil when the block is absent or nothing usable is inside:
// facets without a name or without a single parseable value are dropped.
func parseFacets(root *etree.Element, log *zap.Logger) []Facet {
	faceted := firstDescendant(root, NamespaceSRW, "facetedResults")
	if faceted == nil {
		return nil
	}

	var facets []Facet
	for _, facetEl := range descendants(faceted, NamespaceSRW, "facet") {
		name := descendantText(facetEl, NamespaceSRW, "index")
		if name == "" {
			continue
		}

		var values []FacetValue
		for _, term := range descendants(facetEl, NamespaceSRW, "term") {
			value := descendantText(term, NamespaceSRW, "actualTerm")
			if value == "" {
				value = descendantText(term, NamespaceSRW, "value")
			}
			if value == "" {
				continue
			}
			values = append(values, FacetValue{
				Value: value,
				Count: intValue(firstDescendant(term, NamespaceSRW, "count"), 0, "count", log),
			})
		}
		if len(values) > 0 {
			facets = append(facets, Facet{Name: name, Values: values})
		}
	}

	log.Debug("Parsed facets from response", zap.Int("count", len(facets)))
	return facets
}
