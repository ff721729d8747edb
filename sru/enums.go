package sru

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// RecordFormat names a record schema understood by the catalogs. The value
// doubles as the recordSchema request parameter.
type RecordFormat string

const (
	FormatMARCXML       RecordFormat = "marcxml"
	FormatMARCXMLLegacy RecordFormat = "marcxml-legacy"
	FormatMODS          RecordFormat = "mods"
	FormatMODS36        RecordFormat = "mods36"
	FormatPicaXML       RecordFormat = "picaxml"
	FormatDC            RecordFormat = "dc"
	FormatISBD          RecordFormat = "isbd"
	FormatTurboMARC     RecordFormat = "turbomarc"
	FormatMADS          RecordFormat = "mads"
)

// KnownFormats returns all record formats in presentation order.
func KnownFormats() []RecordFormat {
	return []RecordFormat{
		FormatMARCXML, FormatMARCXMLLegacy, FormatMODS, FormatMODS36,
		FormatPicaXML, FormatDC, FormatISBD, FormatTurboMARC, FormatMADS,
	}
}

// ParseRecordFormat converts user input to a RecordFormat.
func ParseRecordFormat(s string) (RecordFormat, error) {
	for _, f := range KnownFormats() {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown record format %q (known: %s)", s, joinValues(KnownFormats()))
}

// SearchIndex is a CQL index recognized by the PICA-based catalogs.
type SearchIndex string

const (
	IndexTitle     SearchIndex = "pica.tit"
	IndexAuthor    SearchIndex = "pica.per"
	IndexSubject   SearchIndex = "pica.sub"
	IndexISBN      SearchIndex = "pica.isb"
	IndexISSN      SearchIndex = "pica.iss"
	IndexPublisher SearchIndex = "pica.vlg"
	IndexYear      SearchIndex = "pica.ejr"
	IndexAll       SearchIndex = "pica.all"
	IndexKeyword   SearchIndex = "pica.woe"
)

var indexNames = map[string]SearchIndex{
	"title":     IndexTitle,
	"author":    IndexAuthor,
	"subject":   IndexSubject,
	"isbn":      IndexISBN,
	"issn":      IndexISSN,
	"publisher": IndexPublisher,
	"year":      IndexYear,
	"all":       IndexAll,
	"keyword":   IndexKeyword,
}

// KnownIndexNames returns the friendly index names in alphabetical order.
func KnownIndexNames() []string {
	return slices.Sorted(maps.Keys(indexNames))
}

// IndexByName resolves a friendly index name ("title"). Use
// ParseSearchIndex when raw CQL names should be accepted too.
func IndexByName(name string) (SearchIndex, bool) {
	idx, ok := indexNames[strings.ToLower(name)]
	return idx, ok
}

// ParseSearchIndex accepts either a friendly name ("title") or a raw CQL
// index ("pica.tit").
func ParseSearchIndex(s string) (SearchIndex, error) {
	if idx, ok := indexNames[strings.ToLower(s)]; ok {
		return idx, nil
	}
	for _, idx := range indexNames {
		if string(idx) == s {
			return idx, nil
		}
	}
	return "", fmt.Errorf("unknown search index %q (known: %s)", s, strings.Join(KnownIndexNames(), ", "))
}

// SortBy names a server-side sort key.
type SortBy string

const (
	SortByRelevance SortBy = "relevance"
	SortByYear      SortBy = "year"
	SortByAuthor    SortBy = "author"
	SortByTitle     SortBy = "title"
)

// KnownSortFields returns all sort keys in presentation order.
func KnownSortFields() []SortBy {
	return []SortBy{SortByRelevance, SortByYear, SortByAuthor, SortByTitle}
}

// ParseSortBy converts user input to a SortBy.
func ParseSortBy(s string) (SortBy, error) {
	for _, f := range KnownSortFields() {
		if string(f) == strings.ToLower(s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown sort field %q (known: %s)", s, joinValues(KnownSortFields()))
}

// SortOrder selects the sort direction. The sortKeys wire encoding is a
// digit, 1 for ascending and 0 for descending.
type SortOrder string

const (
	SortAscending  SortOrder = "ascending"
	SortDescending SortOrder = "descending"
)

// Digit returns the sortKeys encoding of the order.
func (o SortOrder) Digit() string {
	if o == SortAscending {
		return "1"
	}
	return "0"
}

// ParseSortOrder converts user input to a SortOrder.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(s) {
	case "ascending", "asc":
		return SortAscending, nil
	case "descending", "desc":
		return SortDescending, nil
	}
	return "", fmt.Errorf("unknown sort order %q (known: ascending, descending)", s)
}

// RelationType selects the PICA relation walked by related-record queries.
type RelationType string

const (
	RelationFamily    RelationType = "fam"
	RelationParent    RelationType = "rel-bt"
	RelationChild     RelationType = "rel-nt"
	RelationRelated   RelationType = "rel-rt"
	RelationThesaurus RelationType = "rel-tt"
)

var relationNames = map[string]RelationType{
	"family":    RelationFamily,
	"parent":    RelationParent,
	"child":     RelationChild,
	"related":   RelationRelated,
	"thesaurus": RelationThesaurus,
}

// KnownRelationNames returns the friendly relation names in alphabetical
// order.
func KnownRelationNames() []string {
	return slices.Sorted(maps.Keys(relationNames))
}

// ParseRelationType accepts either a friendly name ("parent") or a raw
// relation code ("rel-bt").
func ParseRelationType(s string) (RelationType, error) {
	if rel, ok := relationNames[strings.ToLower(s)]; ok {
		return rel, nil
	}
	for _, rel := range relationNames {
		if string(rel) == s {
			return rel, nil
		}
	}
	return "", fmt.Errorf("unknown relation type %q (known: %s)", s, strings.Join(KnownRelationNames(), ", "))
}

// RecordType narrows related-record queries to bibliographic or authority
// records.
type RecordType string

const (
	RecordBibliographic RecordType = "b"
	RecordAuthority     RecordType = "n"
)

// ParseRecordType converts user input to a RecordType.
func ParseRecordType(s string) (RecordType, error) {
	switch strings.ToLower(s) {
	case "b", "bibliographic":
		return RecordBibliographic, nil
	case "n", "authority":
		return RecordAuthority, nil
	}
	return "", fmt.Errorf("unknown record type %q (known: bibliographic, authority)", s)
}

// RecordPacking selects between records embedded as XML and records packed
// into escaped strings.
type RecordPacking string

const (
	PackingXML    RecordPacking = "xml"
	PackingString RecordPacking = "string"
)

// Valid reports whether the packing is one of the protocol values.
func (p RecordPacking) Valid() bool {
	return p == PackingXML || p == PackingString
}

// ParseRecordPacking converts user input to a RecordPacking.
func ParseRecordPacking(s string) (RecordPacking, error) {
	switch s {
	case "xml":
		return PackingXML, nil
	case "string":
		return PackingString, nil
	}
	return "", fmt.Errorf("invalid record packing %q (valid: xml, string)", s)
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
