package sru

import (
	"errors"
	"strings"
	"testing"
)

const marcxmlResponse = `<?xml version="1.0" encoding="UTF-8"?>
<searchRetrieveResponse xmlns="http://www.loc.gov/zing/srw/">
  <numberOfRecords>42</numberOfRecords>
  <records>
    <record>
      <recordSchema>marcxml</recordSchema>
      <recordData>
        <record xmlns="http://www.loc.gov/MARC21/slim">
          <controlfield tag="001">1724825428</controlfield>
          <datafield tag="020" ind1=" " ind2=" ">
            <subfield code="a">978-3-96009-218-0</subfield>
          </datafield>
          <datafield tag="100" ind1="1" ind2=" ">
            <subfield code="a">Sch&#252;rmann, Tim</subfield>
          </datafield>
          <datafield tag="245" ind1="1" ind2="0">
            <subfield code="a">Einf&#252;hrung in GitHub Copilot</subfield>
          </datafield>
          <datafield tag="264" ind1=" " ind2="1">
            <subfield code="b">O'Reilly Verlag</subfield>
            <subfield code="c">2026</subfield>
          </datafield>
          <datafield tag="924" ind1="1" ind2=" ">
            <subfield code="b">DE-21</subfield>
            <subfield code="k">https://example.org/record/1724825428</subfield>
            <subfield code="l">Lesesaal</subfield>
            <subfield code="g">Hauptbestand</subfield>
          </datafield>
        </record>
      </recordData>
    </record>
  </records>
  <nextRecordPosition>11</nextRecordPosition>
</searchRetrieveResponse>`

func TestParseSearchResponseMARCXML(t *testing.T) {
	log := testLogger(t)

	resp, err := ParseSearchResponse([]byte(marcxmlResponse), `pica.all="copilot"`, FormatMARCXML, log)
	if err != nil {
		t.Fatalf("ParseSearchResponse: %v", err)
	}

	if resp.TotalResults != 42 {
		t.Fatalf("expected 42 total results, got %d", resp.TotalResults)
	}
	if resp.NextRecord == nil || *resp.NextRecord != 11 {
		t.Fatalf("expected next record 11, got %v", resp.NextRecord)
	}
	if resp.Query != `pica.all="copilot"` {
		t.Fatalf("query not echoed: %q", resp.Query)
	}
	if resp.Format != FormatMARCXML {
		t.Fatalf("format not echoed: %q", resp.Format)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("expected one result, got %d", len(resp.Results))
	}

	r := resp.Results[0]
	if r.RecordID != "1724825428" {
		t.Errorf("record id mismatch: %q", r.RecordID)
	}
	if r.Title != "Einführung in GitHub Copilot" {
		t.Errorf("title mismatch (umlauts must survive): %q", r.Title)
	}
	if r.Author != "Schürmann, Tim" {
		t.Errorf("author mismatch: %q", r.Author)
	}
	if r.Year != "2026" {
		t.Errorf("year mismatch: %q", r.Year)
	}
	if r.Publisher != "O'Reilly Verlag" {
		t.Errorf("publisher mismatch: %q", r.Publisher)
	}
	if r.ISBN != "978-3-96009-218-0" {
		t.Errorf("isbn mismatch: %q", r.ISBN)
	}
	if r.Format != FormatMARCXML {
		t.Errorf("result format mismatch: %q", r.Format)
	}
	if !strings.Contains(r.RawData, "controlfield") {
		t.Errorf("raw data should carry the serialized record, got %q", r.RawData)
	}
	if !strings.Contains(r.RawData, "http://www.loc.gov/MARC21/slim") {
		t.Errorf("raw data should stay namespace qualified, got %q", r.RawData)
	}

	if len(r.Holdings) != 1 {
		t.Fatalf("expected one holding, got %d", len(r.Holdings))
	}
	h := r.Holdings[0]
	if h.LibraryCode != "DE-21" {
		t.Errorf("library code mismatch: %q", h.LibraryCode)
	}
	if h.LibraryName != "Universität Stuttgart" {
		t.Errorf("library name mismatch: %q", h.LibraryName)
	}
	if h.AccessURL != "https://example.org/record/1724825428" {
		t.Errorf("access url mismatch: %q", h.AccessURL)
	}
	if h.AccessNote != "Lesesaal" {
		t.Errorf("access note mismatch: %q", h.AccessNote)
	}
	if h.Collection != "Hauptbestand" {
		t.Errorf("collection mismatch: %q", h.Collection)
	}
}

func TestParseSearchResponseLegacySharesMARCXMLParser(t *testing.T) {
	log := testLogger(t)

	resp, err := ParseSearchResponse([]byte(marcxmlResponse), "q", FormatMARCXMLLegacy, log)
	if err != nil {
		t.Fatalf("ParseSearchResponse: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("expected one result, got %d", len(resp.Results))
	}
	r := resp.Results[0]
	if r.Format != FormatMARCXMLLegacy {
		t.Fatalf("requested format must be stamped, got %q", r.Format)
	}
	if r.Title != "Einführung in GitHub Copilot" {
		t.Fatalf("legacy parse should reuse the MARCXML field map, got title %q", r.Title)
	}
}

func TestParseSearchResponseFieldFallbacks(t *testing.T) {
	log := testLogger(t)

	// Only the fallback sources are present: author 700, year/publisher 260.
	xml := `<searchRetrieveResponse xmlns="http://www.loc.gov/zing/srw/">
  <numberOfRecords>1</numberOfRecords>
  <records><record><recordData>
    <record xmlns="http://www.loc.gov/MARC21/slim">
      <datafield tag="700" ind1="1" ind2=" ">
        <subfield code="a">Meier, Anna</subfield>
      </datafield>
      <datafield tag="260" ind1=" " ind2=" ">
        <subfield code="b">Springer</subfield>
        <subfield code="c">1999</subfield>
      </datafield>
    </record>
  </recordData></record></records>
</searchRetrieveResponse>`

	resp, err := ParseSearchResponse([]byte(xml), "q", FormatMARCXML, log)
	if err != nil {
		t.Fatalf("ParseSearchResponse: %v", err)
	}
	r := resp.Results[0]
	if r.Author != "Meier, Anna" {
		t.Errorf("author should fall back to 700$a, got %q", r.Author)
	}
	if r.Year != "1999" {
		t.Errorf("year should fall back to 260$c, got %q", r.Year)
	}
	if r.Publisher != "Springer" {
		t.Errorf("publisher should fall back to 260$b, got %q", r.Publisher)
	}
	if r.RecordID != "" || r.Title != "" || r.ISBN != "" {
		t.Errorf("absent fields must stay unset: %+v", r)
	}
}

func TestParseSearchResponsePrimaryBeatsFallback(t *testing.T) {
	log := testLogger(t)

	xml := `<searchRetrieveResponse xmlns="http://www.loc.gov/zing/srw/">
  <numberOfRecords>1</numberOfRecords>
  <records><record><recordData>
    <record xmlns="http://www.loc.gov/MARC21/slim">
      <datafield tag="100" ind1="1" ind2=" ">
        <subfield code="a">Primary, Author</subfield>
      </datafield>
      <datafield tag="700" ind1="1" ind2=" ">
        <subfield code="a">Secondary, Author</subfield>
      </datafield>
      <datafield tag="264" ind1=" " ind2="1">
        <subfield code="c">2024</subfield>
      </datafield>
      <datafield tag="260" ind1=" " ind2=" ">
        <subfield code="c">1980</subfield>
      </datafield>
    </record>
  </recordData></record></records>
</searchRetrieveResponse>`

	resp, err := ParseSearchResponse([]byte(xml), "q", FormatMARCXML, log)
	if err != nil {
		t.Fatalf("ParseSearchResponse: %v", err)
	}
	r := resp.Results[0]
	if r.Author != "Primary, Author" {
		t.Errorf("100$a must win over 700$a, got %q", r.Author)
	}
	if r.Year != "2024" {
		t.Errorf("264$c must win over 260$c, got %q", r.Year)
	}
}

func TestParseSearchResponseSkipsRecordsWithoutRecordData(t *testing.T) {
	log := testLogger(t)

	xml := `<searchRetrieveResponse xmlns="http://www.loc.gov/zing/srw/">
  <numberOfRecords>3</numberOfRecords>
  <records>
    <record><recordData>
      <record xmlns="http://www.loc.gov/MARC21/slim">
        <controlfield tag="001">first</controlfield>
      </record>
    </recordData></record>
    <record><recordSchema>marcxml</recordSchema></record>
    <record><recordData>
      <record xmlns="http://www.loc.gov/MARC21/slim">
        <controlfield tag="001">third</controlfield>
      </record>
    </recordData></record>
  </records>
</searchRetrieveResponse>`

	resp, err := ParseSearchResponse([]byte(xml), "q", FormatMARCXML, log)
	if err != nil {
		t.Fatalf("a record without recordData must not fail the call: %v", err)
	}
	if resp.TotalResults != 3 {
		t.Fatalf("expected total 3, got %d", resp.TotalResults)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("expected 2 parsed results, got %d", len(resp.Results))
	}
	if resp.Results[0].RecordID != "first" || resp.Results[1].RecordID != "third" {
		t.Fatalf("surviving records out of order: %q, %q",
			resp.Results[0].RecordID, resp.Results[1].RecordID)
	}
}

func TestParseSearchResponseStringPacked(t *testing.T) {
	log := testLogger(t)

	xml := `<searchRetrieveResponse xmlns="http://www.loc.gov/zing/srw/">
  <numberOfRecords>1</numberOfRecords>
  <records><record>
    <recordData>&lt;record&gt;&lt;title&gt;Escaped&lt;/title&gt;&lt;/record&gt;</recordData>
  </record></records>
</searchRetrieveResponse>`

	resp, err := ParseSearchResponse([]byte(xml), "q", FormatMARCXML, log)
	if err != nil {
		t.Fatalf("ParseSearchResponse: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("expected one result, got %d", len(resp.Results))
	}
	r := resp.Results[0]
	if r.RawData != "<record><title>Escaped</title></record>" {
		t.Errorf("string-packed raw data mismatch: %q", r.RawData)
	}
	if r.Title != "" || r.RecordID != "" {
		t.Errorf("string-packed records must not be field-extracted: %+v", r)
	}
	if r.Format != FormatMARCXML {
		t.Errorf("requested format must be stamped: %q", r.Format)
	}
	if r.Holdings == nil || len(r.Holdings) != 0 {
		t.Errorf("holdings must be present and empty, got %#v", r.Holdings)
	}
}

func TestParseSearchResponseTurboMARC(t *testing.T) {
	log := testLogger(t)

	xml := `<?xml version="1.0" encoding="UTF-8"?>
<searchRetrieveResponse xmlns="http://www.loc.gov/zing/srw/">
  <numberOfRecords>1</numberOfRecords>
  <records><record><recordData>
    <r xmlns="http://www.indexdata.com/turbomarc">
      <c001>987654321</c001>
      <d245 i1="1" i2="0">
        <sa>Einführung in GitHub Copilot</sa>
      </d245>
      <d100 i1="1" i2=" ">
        <sa>Schürmann, Tim</sa>
      </d100>
      <d264 i1=" " i2="1">
        <sc>2026</sc>
        <sb>O'Reilly Verlag</sb>
      </d264>
      <d020 i1=" " i2=" ">
        <sa>978-1-234-56789-0</sa>
      </d020>
    </r>
  </recordData></record></records>
</searchRetrieveResponse>`

	resp, err := ParseSearchResponse([]byte(xml), "q", FormatTurboMARC, log)
	if err != nil {
		t.Fatalf("ParseSearchResponse: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("expected one result, got %d", len(resp.Results))
	}
	r := resp.Results[0]
	if r.RecordID != "987654321" {
		t.Errorf("record id mismatch: %q", r.RecordID)
	}
	if r.Title != "Einführung in GitHub Copilot" {
		t.Errorf("title mismatch: %q", r.Title)
	}
	if r.Author != "Schürmann, Tim" {
		t.Errorf("author mismatch: %q", r.Author)
	}
	if r.Year != "2026" {
		t.Errorf("year mismatch: %q", r.Year)
	}
	if r.Publisher != "O'Reilly Verlag" {
		t.Errorf("publisher mismatch: %q", r.Publisher)
	}
	if r.ISBN != "978-1-234-56789-0" {
		t.Errorf("isbn mismatch: %q", r.ISBN)
	}
	if r.Format != FormatTurboMARC {
		t.Errorf("format mismatch: %q", r.Format)
	}
	if len(r.Holdings) != 0 {
		t.Errorf("turbomarc records carry no holdings, got %d", len(r.Holdings))
	}
}

func TestParseSearchResponseMODS(t *testing.T) {
	log := testLogger(t)

	xml := `<searchRetrieveResponse xmlns="http://www.loc.gov/zing/srw/">
  <numberOfRecords>1</numberOfRecords>
  <records><record><recordData>
    <mods xmlns="http://www.loc.gov/mods/v3">
      <titleInfo>
        <title>Die Verwandlung</title>
      </titleInfo>
      <name type="personal">
        <namePart>Kafka, Franz</namePart>
      </name>
      <name type="corporate">
        <namePart>Ignored Corp</namePart>
      </name>
      <originInfo>
        <dateIssued>1915</dateIssued>
        <publisher>Kurt Wolff Verlag</publisher>
      </originInfo>
      <identifier type="isbn">978-3-15-009900-2</identifier>
      <identifier type="issn">1234-5678</identifier>
    </mods>
  </recordData></record></records>
</searchRetrieveResponse>`

	for _, format := range []RecordFormat{FormatMODS, FormatMODS36} {
		t.Run(string(format), func(t *testing.T) {
			resp, err := ParseSearchResponse([]byte(xml), "q", format, log)
			if err != nil {
				t.Fatalf("ParseSearchResponse: %v", err)
			}
			r := resp.Results[0]
			if r.Title != "Die Verwandlung" {
				t.Errorf("title mismatch: %q", r.Title)
			}
			if r.Author != "Kafka, Franz" {
				t.Errorf("author must come from the personal name only: %q", r.Author)
			}
			if r.Year != "1915" {
				t.Errorf("year mismatch: %q", r.Year)
			}
			if r.Publisher != "Kurt Wolff Verlag" {
				t.Errorf("publisher mismatch: %q", r.Publisher)
			}
			if r.ISBN != "978-3-15-009900-2" {
				t.Errorf("isbn must come from the isbn identifier only: %q", r.ISBN)
			}
			if r.RecordID != "" {
				t.Errorf("mods records have no record id, got %q", r.RecordID)
			}
			if r.Format != format {
				t.Errorf("requested format must be stamped: %q", r.Format)
			}
		})
	}
}

func TestParseSearchResponsePassthroughFormats(t *testing.T) {
	log := testLogger(t)

	xml := `<searchRetrieveResponse xmlns="http://www.loc.gov/zing/srw/">
  <numberOfRecords>1</numberOfRecords>
  <records><record><recordData>
    <mads xmlns="http://www.loc.gov/mads/v2">
      <authority><topic>Informatik</topic></authority>
    </mads>
  </recordData></record></records>
</searchRetrieveResponse>`

	for _, format := range []RecordFormat{FormatMADS, FormatPicaXML, FormatDC, FormatISBD} {
		t.Run(string(format), func(t *testing.T) {
			resp, err := ParseSearchResponse([]byte(xml), "q", format, log)
			if err != nil {
				t.Fatalf("ParseSearchResponse: %v", err)
			}
			r := resp.Results[0]
			if !strings.Contains(r.RawData, "Informatik") {
				t.Errorf("raw data must carry the payload, got %q", r.RawData)
			}
			if r.Title != "" || r.Author != "" || r.RecordID != "" {
				t.Errorf("passthrough formats must not extract fields: %+v", r)
			}
			if r.Format != format {
				t.Errorf("format mismatch: %q", r.Format)
			}
			if r.Holdings == nil || len(r.Holdings) != 0 {
				t.Errorf("holdings must be present and empty, got %#v", r.Holdings)
			}
		})
	}
}

func TestParseSearchResponseEmptyResultSet(t *testing.T) {
	log := testLogger(t)

	xml := `<searchRetrieveResponse xmlns="http://www.loc.gov/zing/srw/">
  <numberOfRecords>0</numberOfRecords>
</searchRetrieveResponse>`

	resp, err := ParseSearchResponse([]byte(xml), "q", FormatMARCXML, log)
	if err != nil {
		t.Fatalf("ParseSearchResponse: %v", err)
	}
	if resp.TotalResults != 0 {
		t.Errorf("expected 0 total results, got %d", resp.TotalResults)
	}
	if len(resp.Results) != 0 {
		t.Errorf("expected no results, got %d", len(resp.Results))
	}
	if resp.NextRecord != nil {
		t.Errorf("next record must be nil when absent, got %v", *resp.NextRecord)
	}
	if resp.HasMore() {
		t.Errorf("empty result set cannot have more pages")
	}
	if resp.Facets != nil {
		t.Errorf("facets must be nil when absent")
	}
}

func TestParseSearchResponseEnvelopeErrors(t *testing.T) {
	log := testLogger(t)

	tests := []struct {
		name string
		data string
	}{
		{"truncated markup", `<searchRetrieveResponse><records><record>`},
		{"mismatched tags", `<invalid>xml<structure>`},
		{"not xml", `This is not XML at all!`},
		{"empty input", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSearchResponse([]byte(tt.data), "q", FormatMARCXML, log)
			if err == nil {
				t.Fatalf("expected envelope error")
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError, got %T: %v", err, err)
			}
		})
	}
}

func TestHasMoreBoundary(t *testing.T) {
	log := testLogger(t)

	// The next position may equal the total and still means another page.
	build := func(total, next string) string {
		return `<searchRetrieveResponse xmlns="http://www.loc.gov/zing/srw/">
  <numberOfRecords>` + total + `</numberOfRecords>
  <nextRecordPosition>` + next + `</nextRecordPosition>
</searchRetrieveResponse>`
	}

	resp, err := ParseSearchResponse([]byte(build("10", "10")), "q", FormatMARCXML, log)
	if err != nil {
		t.Fatalf("ParseSearchResponse: %v", err)
	}
	if !resp.HasMore() {
		t.Errorf("next == total must report more pages")
	}

	resp, err = ParseSearchResponse([]byte(build("10", "11")), "q", FormatMARCXML, log)
	if err != nil {
		t.Fatalf("ParseSearchResponse: %v", err)
	}
	if resp.HasMore() {
		t.Errorf("next > total must not report more pages")
	}
}

func TestSearchResultHoldingsAlwaysPresent(t *testing.T) {
	log := testLogger(t)

	xml := `<searchRetrieveResponse xmlns="http://www.loc.gov/zing/srw/">
  <numberOfRecords>2</numberOfRecords>
  <records>
    <record><recordData>
      <record xmlns="http://www.loc.gov/MARC21/slim">
        <controlfield tag="001">a</controlfield>
      </record>
    </recordData></record>
    <record><recordData>
      <record xmlns="http://www.loc.gov/MARC21/slim">
        <controlfield tag="001">b</controlfield>
      </record>
    </recordData></record>
  </records>
</searchRetrieveResponse>`

	resp, err := ParseSearchResponse([]byte(xml), "q", FormatMARCXML, log)
	if err != nil {
		t.Fatalf("ParseSearchResponse: %v", err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(resp.Results))
	}
	for i := range resp.Results {
		if resp.Results[i].Holdings == nil {
			t.Fatalf("result %d has nil holdings", i)
		}
	}

	// Each result owns its holdings, growing one never leaks into another.
	resp.Results[0].Holdings = append(resp.Results[0].Holdings, LibraryHolding{LibraryCode: "DE-21"})
	if len(resp.Results[1].Holdings) != 0 {
		t.Fatalf("holdings must be independent per result")
	}
}
