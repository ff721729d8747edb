package sru

import (
	"testing"
)

const facetedResponse = `<searchRetrieveResponse xmlns="http://www.loc.gov/zing/srw/">
  <numberOfRecords>0</numberOfRecords>
  <facetedResults>
    <facet>
      <index>dc.language</index>
      <terms>
        <term>
          <actualTerm>ger</actualTerm>
          <count>1200</count>
        </term>
        <term>
          <value>eng</value>
          <count>340</count>
        </term>
        <term>
          <actualTerm>fre</actualTerm>
        </term>
        <term>
          <count>5</count>
        </term>
      </terms>
    </facet>
    <facet>
      <index>dc.date</index>
      <terms>
        <term><count>9</count></term>
      </terms>
    </facet>
    <facet>
      <terms>
        <term><actualTerm>orphan</actualTerm></term>
      </terms>
    </facet>
  </facetedResults>
</searchRetrieveResponse>`

func TestParseSearchResponseFacets(t *testing.T) {
	log := testLogger(t)

	resp, err := ParseSearchResponse([]byte(facetedResponse), "q", FormatMARCXML, log)
	if err != nil {
		t.Fatalf("ParseSearchResponse: %v", err)
	}

	// dc.date has no parseable values and the nameless facet is dropped.
	if len(resp.Facets) != 1 {
		t.Fatalf("expected exactly one surviving facet, got %d", len(resp.Facets))
	}

	facet := resp.Facets[0]
	if facet.Name != "dc.language" {
		t.Fatalf("facet name mismatch: %q", facet.Name)
	}
	if len(facet.Values) != 3 {
		t.Fatalf("expected 3 facet values, got %d", len(facet.Values))
	}

	tests := []struct {
		value string
		count int
	}{
		{"ger", 1200},
		{"eng", 340}, // value element serves when actualTerm is absent
		{"fre", 0},   // count defaults to zero
	}
	for i, tt := range tests {
		if facet.Values[i].Value != tt.value || facet.Values[i].Count != tt.count {
			t.Errorf("value %d: expected %s/%d, got %s/%d",
				i, tt.value, tt.count, facet.Values[i].Value, facet.Values[i].Count)
		}
	}
}

func TestParseSearchResponseFacetsAbsent(t *testing.T) {
	log := testLogger(t)

	xml := `<searchRetrieveResponse xmlns="http://www.loc.gov/zing/srw/">
  <numberOfRecords>1</numberOfRecords>
</searchRetrieveResponse>`

	resp, err := ParseSearchResponse([]byte(xml), "q", FormatMARCXML, log)
	if err != nil {
		t.Fatalf("ParseSearchResponse: %v", err)
	}
	if resp.Facets != nil {
		t.Fatalf("facets must be nil without a facetedResults block, got %#v", resp.Facets)
	}
}

func TestParseSearchResponseFacetsAllDropped(t *testing.T) {
	log := testLogger(t)

	xml := `<searchRetrieveResponse xmlns="http://www.loc.gov/zing/srw/">
  <numberOfRecords>0</numberOfRecords>
  <facetedResults>
    <facet><index>dc.creator</index><terms><term><count>3</count></term></terms></facet>
  </facetedResults>
</searchRetrieveResponse>`

	resp, err := ParseSearchResponse([]byte(xml), "q", FormatMARCXML, log)
	if err != nil {
		t.Fatalf("ParseSearchResponse: %v", err)
	}
	if resp.Facets != nil {
		t.Fatalf("a block with zero surviving facets must yield nil, got %#v", resp.Facets)
	}
}
