// Package render turns parsed catalog responses into terminal text.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jvanvinkenroye/swb/profiles"
	"github.com/jvanvinkenroye/swb/sru"
	"github.com/jvanvinkenroye/swb/utils/display"
)

// JSON renders any response object as indented JSON with a trailing
// newline.
func JSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("unable to render result as json: %w", err)
	}
	return string(data) + "\n", nil
}

// SearchResponse renders a search result list as an indented tree: summary
// line, one block per record with holdings, facets when present and a
// pagination hint.
func SearchResponse(resp *sru.SearchResponse) string {
	tw := display.NewTreeWriter()

	if resp.TotalResults == 0 {
		tw.Line(0, "no results for %s", resp.Query)
		return tw.String()
	}
	tw.Line(0, "%d results for %s (showing %d, format %s)",
		resp.TotalResults, resp.Query, len(resp.Results), resp.Format)

	for i := range resp.Results {
		tw.Blank()
		searchResult(tw, &resp.Results[i], i+1)
	}

	if len(resp.Facets) > 0 {
		tw.Blank()
		tw.Line(0, "facets")
		for _, f := range resp.Facets {
			tw.Line(1, "%s", f.Name)
			for _, v := range f.Values {
				tw.Line(2, "%s (%d)", v.Value, v.Count)
			}
		}
	}

	if resp.HasMore() {
		tw.Blank()
		tw.Line(0, "more results available, next page starts at record %d", *resp.NextRecord)
	}
	return tw.String()
}

func searchResult(tw *display.TreeWriter, r *sru.SearchResult, position int) {
	tw.Line(0, "record %d", position)
	if r.RecordID != "" {
		tw.TextBlock(1, "ppn", r.RecordID)
	}
	if r.Title != "" {
		tw.TextBlock(1, "title", r.Title)
	}
	if r.Author != "" {
		tw.TextBlock(1, "author", r.Author)
	}
	if r.Year != "" {
		tw.TextBlock(1, "year", r.Year)
	}
	if r.Publisher != "" {
		tw.TextBlock(1, "publisher", r.Publisher)
	}
	if r.ISBN != "" {
		tw.TextBlock(1, "isbn", r.ISBN)
	}

	if len(r.Holdings) > 0 {
		tw.Line(1, "holdings (%d)", len(r.Holdings))
		for _, h := range r.Holdings {
			tw.Line(2, "%s: %s", h.LibraryCode, h.LibraryName)
			if h.AccessURL != "" {
				tw.TextBlock(3, "url", h.AccessURL)
			}
			if h.AccessNote != "" {
				tw.TextBlock(3, "note", h.AccessNote)
			}
			if h.Collection != "" {
				tw.TextBlock(3, "collection", h.Collection)
			}
		}
	}
}

// RawRecords concatenates the serialized source of every record, for piping
// into files or other XML tooling.
func RawRecords(resp *sru.SearchResponse) string {
	var b strings.Builder
	for i := range resp.Results {
		raw := resp.Results[i].RawData
		if raw == "" {
			continue
		}
		b.WriteString(raw)
		if !strings.HasSuffix(raw, "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// ScanResponse renders a term browsing result.
func ScanResponse(resp *sru.ScanResponse) string {
	tw := display.NewTreeWriter()

	if len(resp.Terms) == 0 {
		tw.Line(0, "no terms near %s", resp.ScanClause)
		return tw.String()
	}
	tw.Line(0, "%d terms near %s (position %d)", len(resp.Terms), resp.ScanClause, resp.ResponsePosition)

	for _, term := range resp.Terms {
		tw.Line(1, "%s (%d)", term.Value, term.NumberOfRecords)
		if term.DisplayTerm != "" && term.DisplayTerm != term.Value {
			tw.TextBlock(2, "display", term.DisplayTerm)
		}
	}
	return tw.String()
}

// ExplainResponse renders the server self-description.
func ExplainResponse(resp *sru.ExplainResponse) string {
	tw := display.NewTreeWriter()

	tw.Line(0, "server")
	tw.TextBlock(1, "host", resp.Server.Host)
	if resp.Server.Port != nil {
		tw.Line(1, "port: %d", *resp.Server.Port)
	}
	if resp.Server.Database != "" {
		tw.TextBlock(1, "database", resp.Server.Database)
	}

	tw.Blank()
	tw.Line(0, "database")
	tw.TextBlock(1, "title", resp.Database.Title)
	if resp.Database.Description != "" {
		tw.TextBlock(1, "description", resp.Database.Description)
	}
	if resp.Database.Contact != "" {
		tw.TextBlock(1, "contact", resp.Database.Contact)
	}

	tw.Blank()
	tw.Line(0, "record schemas (%d)", len(resp.Schemas))
	for _, s := range resp.Schemas {
		tw.Line(1, "%s", s.Name)
		if s.Title != "" {
			tw.TextBlock(2, "title", s.Title)
		}
		if s.Identifier != s.Name {
			tw.TextBlock(2, "identifier", s.Identifier)
		}
	}

	tw.Blank()
	tw.Line(0, "search indices (%d)", len(resp.Indices))
	for _, idx := range resp.Indices {
		tw.Line(1, "%s: %s", idx.Name, idx.Title)
	}
	return tw.String()
}

// Formats lists the record formats the client can request.
func Formats() string {
	tw := display.NewTreeWriter()
	tw.Line(0, "record formats")
	for _, f := range sru.KnownFormats() {
		tw.Line(1, "%s", f)
	}
	return tw.String()
}

// Indices lists the friendly index names and their CQL form, plus sort
// fields and relation types accepted by the related command.
func Indices() string {
	tw := display.NewTreeWriter()

	tw.Line(0, "search indices")
	for _, name := range sru.KnownIndexNames() {
		idx, _ := sru.IndexByName(name)
		tw.Line(1, "%s: %s", name, idx)
	}

	tw.Blank()
	tw.Line(0, "sort fields")
	for _, f := range sru.KnownSortFields() {
		tw.Line(1, "%s", f)
	}

	tw.Blank()
	tw.Line(0, "relation types")
	for _, name := range sru.KnownRelationNames() {
		rel, _ := sru.ParseRelationType(name)
		tw.Line(1, "%s: %s", name, rel)
	}
	return tw.String()
}

// Profiles lists the preconfigured catalog endpoints.
func Profiles(list []profiles.Profile, current string) string {
	tw := display.NewTreeWriter()
	tw.Line(0, "catalog profiles")
	for _, p := range list {
		marker := ""
		if p.Name == current {
			marker = " (configured)"
		}
		tw.Line(1, "%s: %s%s", p.Name, p.DisplayName, marker)
		tw.TextBlock(2, "url", p.URL)
		if p.Description != "" {
			tw.TextBlock(2, "description", p.Description)
		}
		if p.Region != "" {
			tw.TextBlock(2, "region", p.Region)
		}
	}
	return tw.String()
}
