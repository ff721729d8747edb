package sru

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/jvanvinkenroye/swb/isil"
)

// parseHoldings extracts library holdings from MARC 924 fields, the local
// holdings field of the German union catalogs. Subfield b carries the ISIL
// of the holding library and is required, occurrences without it are
// dropped. All holdings values are whitespace-trimmed.
func parseHoldings(rec *etree.Element) []LibraryHolding {
	holdings := []LibraryHolding{}

	for _, field := range descendants(rec, NamespaceMARC, "datafield") {
		if field.SelectAttrValue("tag", "") != "924" {
			continue
		}

		code := strings.TrimSpace(subfieldText(field, "b"))
		if code == "" {
			continue
		}

		h := LibraryHolding{
			LibraryCode: code,
			LibraryName: isil.Name(code),
		}
		if url := strings.TrimSpace(subfieldText(field, "k")); url != "" {
			h.AccessURL = url
		}

		var notes []string
		for _, sub := range childElements(field, NamespaceMARC, "subfield") {
			if sub.SelectAttrValue("code", "") != "l" {
				continue
			}
			if note := strings.TrimSpace(sub.Text()); note != "" {
				notes = append(notes, note)
			}
		}
		if len(notes) > 0 {
			h.AccessNote = strings.Join(notes, " / ")
		}

		if col := strings.TrimSpace(subfieldText(field, "g")); col != "" {
			h.Collection = col
		}

		holdings = append(holdings, h)
	}
	return holdings
}

// subfieldText returns the text of the first direct subfield child with the
// given code, empty when absent.
func subfieldText(field *etree.Element, code string) string {
	for _, sub := range childElements(field, NamespaceMARC, "subfield") {
		if sub.SelectAttrValue("code", "") == code {
			return sub.Text()
		}
	}
	return ""
}
