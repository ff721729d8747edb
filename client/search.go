package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jvanvinkenroye/swb/isbn"
	"github.com/jvanvinkenroye/swb/sru"
)

type searchSettings struct {
	format         sru.RecordFormat
	index          sru.SearchIndex
	startRecord    int
	maximumRecords int
	sortBy         sru.SortBy
	sortOrder      sru.SortOrder
	packing        sru.RecordPacking
	facets         []string
	facetLimit     int
	version        string
	recordType     sru.RecordType
}

func defaultSearchSettings() searchSettings {
	return searchSettings{
		format:         sru.FormatMARCXML,
		startRecord:    1,
		maximumRecords: 10,
		sortOrder:      sru.SortDescending,
		packing:        sru.PackingXML,
		facetLimit:     10,
		recordType:     sru.RecordBibliographic,
	}
}

// SearchOption adjusts a single search request.
type SearchOption func(*searchSettings)

// WithFormat requests another record schema, the default is marcxml.
func WithFormat(f sru.RecordFormat) SearchOption {
	return func(s *searchSettings) { s.format = f }
}

// WithIndex scopes the query to one index. The query is then treated as a
// plain term and wrapped into index="term".
func WithIndex(idx sru.SearchIndex) SearchOption {
	return func(s *searchSettings) { s.index = idx }
}

// WithStartRecord sets the 1-based position of the first record returned.
func WithStartRecord(n int) SearchOption {
	return func(s *searchSettings) {
		if n > 0 {
			s.startRecord = n
		}
	}
}

// WithMaximumRecords sets the page size, the default is 10.
func WithMaximumRecords(n int) SearchOption {
	return func(s *searchSettings) {
		if n > 0 {
			s.maximumRecords = n
		}
	}
}

// WithSort requests server-side sorting.
func WithSort(by sru.SortBy, order sru.SortOrder) SearchOption {
	return func(s *searchSettings) {
		s.sortBy = by
		s.sortOrder = order
	}
}

// WithRecordPacking selects between embedded XML records and records packed
// into escaped strings.
func WithRecordPacking(p sru.RecordPacking) SearchOption {
	return func(s *searchSettings) { s.packing = p }
}

// WithFacets requests facet counts for the given fields. Facets need SRU
// 2.0, the request version switches automatically unless overridden.
func WithFacets(fields ...string) SearchOption {
	return func(s *searchSettings) { s.facets = fields }
}

// WithFacetLimit caps the number of values per facet, the default is 10.
func WithFacetLimit(n int) SearchOption {
	return func(s *searchSettings) {
		if n > 0 {
			s.facetLimit = n
		}
	}
}

// WithVersion forces a protocol version for this request.
func WithVersion(v string) SearchOption {
	return func(s *searchSettings) { s.version = v }
}

// WithRecordType narrows related-record searches to bibliographic or
// authority records. Plain searches ignore it.
func WithRecordType(rt sru.RecordType) SearchOption {
	return func(s *searchSettings) { s.recordType = rt }
}

// Search runs a searchRetrieve operation. The query is either complete CQL
// or, combined with WithIndex, a plain search term.
func (c *Client) Search(ctx context.Context, query string, opts ...SearchOption) (*sru.SearchResponse, error) {
	s := defaultSearchSettings()
	for _, opt := range opts {
		opt(&s)
	}
	return c.search(ctx, query, s)
}

// SearchByISBN looks a book up by ISBN, separators are stripped first.
func (c *Client) SearchByISBN(ctx context.Context, number string, opts ...SearchOption) (*sru.SearchResponse, error) {
	s := defaultSearchSettings()
	for _, opt := range opts {
		opt(&s)
	}
	s.index = sru.IndexISBN

	clean, err := isbn.Normalize(number)
	if err != nil {
		// Malformed numbers still go to the server verbatim so the user
		// sees the zero-hit response for what was actually sent.
		clean = stripSeparators(number)
		c.log.Warn("ISBN does not look valid, searching anyway", zap.String("isbn", clean), zap.Error(err))
	}
	return c.search(ctx, clean, s)
}

// SearchByISSN looks a periodical up by ISSN, separators are stripped
// first.
func (c *Client) SearchByISSN(ctx context.Context, number string, opts ...SearchOption) (*sru.SearchResponse, error) {
	s := defaultSearchSettings()
	for _, opt := range opts {
		opt(&s)
	}
	s.index = sru.IndexISSN
	return c.search(ctx, stripSeparators(number), s)
}

// SearchRelated finds records linked to the given PPN, volumes of a
// multi-volume work for example. It queries the K10plus linking attributes:
// pica.1049 carries the PPN, pica.1045 the relation and pica.1001 the
// record type.
func (c *Client) SearchRelated(ctx context.Context, ppn string, relation sru.RelationType, opts ...SearchOption) (*sru.SearchResponse, error) {
	s := defaultSearchSettings()
	for _, opt := range opts {
		opt(&s)
	}
	s.index = ""

	cql := fmt.Sprintf(`pica.1049="%s" and pica.1045="%s" and pica.1001="%s"`, ppn, relation, s.recordType)

	c.log.Info("Searching for related records",
		zap.String("ppn", ppn),
		zap.String("relation", string(relation)),
		zap.String("record_type", string(s.recordType)))

	return c.search(ctx, cql, s)
}

func (c *Client) search(ctx context.Context, query string, s searchSettings) (*sru.SearchResponse, error) {
	if !s.packing.Valid() {
		return nil, fmt.Errorf("invalid record packing %q (valid: xml, string)", s.packing)
	}

	cql := query
	if s.index != "" {
		cql = fmt.Sprintf(`%s="%s"`, s.index, query)
	}

	version := s.version
	if version == "" {
		version = c.version
		if len(s.facets) > 0 {
			version = "2.0"
		}
	}

	if s.maximumRecords > 100 {
		c.log.Warn("Endpoints commonly cap page size at 100 records", zap.Int("maximum_records", s.maximumRecords))
	}

	params := url.Values{}
	params.Set("version", version)
	params.Set("operation", "searchRetrieve")
	params.Set("query", cql)
	params.Set("recordSchema", string(s.format))
	params.Set("startRecord", strconv.Itoa(s.startRecord))
	params.Set("maximumRecords", strconv.Itoa(s.maximumRecords))
	params.Set("recordPacking", string(s.packing))

	// sortKeys wire format is <field>,,<order> with 1 ascending and 0
	// descending.
	if s.sortBy != "" {
		params.Set("sortKeys", fmt.Sprintf("%s,,%s", s.sortBy, s.sortOrder.Digit()))
	}
	if len(s.facets) > 0 {
		params.Set("facets", strings.Join(s.facets, ","))
		params.Set("facetLimit", strconv.Itoa(s.facetLimit))
	}

	c.log.Info("Searching catalog", zap.String("query", cql))

	body, err := c.fetch(ctx, "searchRetrieve", params)
	if err != nil {
		return nil, err
	}
	return sru.ParseSearchResponse(body, cql, s.format, c.log)
}

func stripSeparators(number string) string {
	return strings.NewReplacer("-", "", " ", "").Replace(number)
}
