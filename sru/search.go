package sru

import (
	"github.com/beevik/etree"
	"go.uber.org/zap"
)

// ParseSearchResponse maps a searchRetrieve response document onto a
// SearchResponse. query and format are echoed into the result and format
// selects the record parser. A broken envelope fails the whole call,
// missing record details never do.
func ParseSearchResponse(data []byte, query string, format RecordFormat, log *zap.Logger) (*SearchResponse, error) {
	doc, err := readResponse(data)
	if err != nil {
		return nil, err
	}
	root := doc.Root()

	resp := &SearchResponse{
		Query:        query,
		Format:       format,
		TotalResults: intValue(firstDescendant(root, NamespaceSRW, "numberOfRecords"), 0, "numberOfRecords", log),
	}
	if next := intOptional(firstDescendant(root, NamespaceSRW, "nextRecordPosition"), "nextRecordPosition", log); next != nil {
		resp.NextRecord = next
	}

	for _, record := range descendants(root, NamespaceSRW, "record") {
		result := parseRecord(record, format, log)
		if result != nil {
			resp.Results = append(resp.Results, *result)
		}
	}
	log.Debug("Parsed records from response", zap.Int("count", len(resp.Results)))

	resp.Facets = parseFacets(root, log)
	return resp, nil
}

// parseRecord locates the recordData container of one record element and
// dispatches it to the parser selected by the requested format. Records
// without usable record data are dropped. String-packed payloads, text
// with no child elements, skip field extraction entirely.
func parseRecord(record *etree.Element, format RecordFormat, log *zap.Logger) *SearchResult {
	recordData := firstDescendant(record, NamespaceSRW, "recordData")
	if recordData == nil {
		log.Warn("Record without recordData found")
		return nil
	}

	children := recordData.ChildElements()
	if len(children) == 0 {
		if recordData.Text() == "" {
			log.Warn("Record with empty recordData found")
			return nil
		}
		return &SearchResult{
			Format:   format,
			RawData:  recordData.Text(),
			Holdings: []LibraryHolding{},
		}
	}

	raw := serializeElement(children[0])

	switch format {
	case FormatMARCXML, FormatMARCXMLLegacy:
		return parseMARCXML(recordData, raw, format)
	case FormatTurboMARC:
		return parseTurboMARC(recordData, raw)
	case FormatMODS, FormatMODS36:
		return parseMODS(recordData, raw, format)
	default:
		// picaxml, dc, isbd, mads and anything the server invents pass
		// through with the serialized payload only.
		return &SearchResult{Format: format, RawData: raw, Holdings: []LibraryHolding{}}
	}
}

// parseMARCXML extracts bibliographic fields from a MARC21 slim record.
// Field text is taken verbatim so values survive round trips unchanged.
// This is the only format carrying holdings (MARC 924).
func parseMARCXML(rec *etree.Element, raw string, format RecordFormat) *SearchResult {
	result := &SearchResult{Format: format, RawData: raw, Holdings: parseHoldings(rec)}

	if el := marcControlfield(rec, "001"); el != nil {
		result.RecordID = el.Text()
	}
	if el := marcSubfield(rec, "245", "a"); el != nil {
		result.Title = el.Text()
	}

	el := marcSubfield(rec, "100", "a")
	if el == nil {
		el = marcSubfield(rec, "700", "a")
	}
	if el != nil {
		result.Author = el.Text()
	}

	el = marcSubfield(rec, "264", "c")
	if el == nil {
		el = marcSubfield(rec, "260", "c")
	}
	if el != nil {
		result.Year = el.Text()
	}

	el = marcSubfield(rec, "264", "b")
	if el == nil {
		el = marcSubfield(rec, "260", "b")
	}
	if el != nil {
		result.Publisher = el.Text()
	}

	if el := marcSubfield(rec, "020", "a"); el != nil {
		result.ISBN = el.Text()
	}
	return result
}

// parseTurboMARC extracts fields from a TurboMARC record, the XSLT-friendly
// MARC encoding where tags become element names (c001, d245/sa).
func parseTurboMARC(rec *etree.Element, raw string) *SearchResult {
	result := &SearchResult{Format: FormatTurboMARC, RawData: raw, Holdings: []LibraryHolding{}}

	if el := firstDescendant(rec, NamespaceTurboMARC, "c001"); el != nil && el.Text() != "" {
		result.RecordID = el.Text()
	}
	if el := pathFirst(rec, NamespaceTurboMARC, "d245", "sa"); el != nil && el.Text() != "" {
		result.Title = el.Text()
	}

	el := pathFirst(rec, NamespaceTurboMARC, "d100", "sa")
	if el == nil {
		el = pathFirst(rec, NamespaceTurboMARC, "d700", "sa")
	}
	if el != nil && el.Text() != "" {
		result.Author = el.Text()
	}

	el = pathFirst(rec, NamespaceTurboMARC, "d264", "sc")
	if el == nil {
		el = pathFirst(rec, NamespaceTurboMARC, "d260", "sc")
	}
	if el != nil && el.Text() != "" {
		result.Year = el.Text()
	}

	el = pathFirst(rec, NamespaceTurboMARC, "d264", "sb")
	if el == nil {
		el = pathFirst(rec, NamespaceTurboMARC, "d260", "sb")
	}
	if el != nil && el.Text() != "" {
		result.Publisher = el.Text()
	}

	if el := pathFirst(rec, NamespaceTurboMARC, "d020", "sa"); el != nil && el.Text() != "" {
		result.ISBN = el.Text()
	}
	return result
}

// parseMODS extracts fields from a MODS record. MODS carries no control
// number in the fields mapped here, so RecordID stays unset.
func parseMODS(rec *etree.Element, raw string, format RecordFormat) *SearchResult {
	result := &SearchResult{Format: format, RawData: raw, Holdings: []LibraryHolding{}}

	if el := pathFirst(rec, NamespaceMODS, "titleInfo", "title"); el != nil {
		result.Title = el.Text()
	}

	for _, name := range descendants(rec, NamespaceMODS, "name") {
		if name.SelectAttrValue("type", "") != "personal" {
			continue
		}
		if np := childElement(name, NamespaceMODS, "namePart"); np != nil {
			result.Author = np.Text()
			break
		}
	}

	if el := pathFirst(rec, NamespaceMODS, "originInfo", "dateIssued"); el != nil {
		result.Year = el.Text()
	}
	if el := pathFirst(rec, NamespaceMODS, "originInfo", "publisher"); el != nil {
		result.Publisher = el.Text()
	}

	for _, id := range descendants(rec, NamespaceMODS, "identifier") {
		if id.SelectAttrValue("type", "") == "isbn" {
			result.ISBN = id.Text()
			break
		}
	}
	return result
}

// marcControlfield finds the first MARC controlfield with the given tag.
func marcControlfield(el *etree.Element, tag string) *etree.Element {
	for _, field := range descendants(el, NamespaceMARC, "controlfield") {
		if field.SelectAttrValue("tag", "") == tag {
			return field
		}
	}
	return nil
}

// marcSubfield finds the first MARC datafield with the given tag that has a
// direct subfield child with the given code, in document order.
func marcSubfield(el *etree.Element, tag, code string) *etree.Element {
	for _, field := range descendants(el, NamespaceMARC, "datafield") {
		if field.SelectAttrValue("tag", "") != tag {
			continue
		}
		for _, sub := range childElements(field, NamespaceMARC, "subfield") {
			if sub.SelectAttrValue("code", "") == code {
				return sub
			}
		}
	}
	return nil
}
