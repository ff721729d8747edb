// Package sru parses SRU protocol responses (searchRetrieve, scan, explain)
// from library union catalogs into typed results. Parsing is tolerant below
// the envelope: missing or malformed record details never fail a call, only
// a broken envelope or a server diagnostic does.
package sru

// LibraryHolding is one holding location extracted from a MARC 924 field.
// LibraryCode is always set, everything else is best effort.
type LibraryHolding struct {
	LibraryCode string `json:"library_code"`
	LibraryName string `json:"library_name,omitempty"`
	AccessURL   string `json:"access_url,omitempty"`
	AccessNote  string `json:"access_note,omitempty"`
	Collection  string `json:"collection,omitempty"`
}

// SearchResult is a single bibliographic record. Field values are taken
// verbatim from the source document, an empty string means the source had
// nothing to offer. Format is the format that was requested, not detected.
// RawData carries the serialized record payload for reprocessing.
type SearchResult struct {
	RecordID  string           `json:"record_id,omitempty"`
	Title     string           `json:"title,omitempty"`
	Author    string           `json:"author,omitempty"`
	Year      string           `json:"year,omitempty"`
	Publisher string           `json:"publisher,omitempty"`
	ISBN      string           `json:"isbn,omitempty"`
	Format    RecordFormat     `json:"format"`
	RawData   string           `json:"raw_data,omitempty"`
	Holdings  []LibraryHolding `json:"holdings"`
}

// FacetValue is one term of a facet with its occurrence count.
type FacetValue struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Facet is a named group of facet values in server order.
type Facet struct {
	Name   string       `json:"name"`
	Values []FacetValue `json:"values"`
}

// SearchResponse is the parsed form of a searchRetrieve response.
// NextRecord is nil when the server sent no next record position, a zero
// value would be indistinguishable from a real position. Facets is nil
// unless the response carried at least one usable facet.
type SearchResponse struct {
	TotalResults int            `json:"total_results"`
	Results      []SearchResult `json:"results"`
	NextRecord   *int           `json:"next_record,omitempty"`
	Query        string         `json:"query"`
	Format       RecordFormat   `json:"format"`
	Facets       []Facet        `json:"facets,omitempty"`
}

// HasMore reports whether another result page can be requested. A next
// record position equal to the total still counts as another page.
func (r *SearchResponse) HasMore() bool {
	return r.NextRecord != nil && *r.NextRecord <= r.TotalResults
}

// ScanTerm is one term of a scan response.
type ScanTerm struct {
	Value           string `json:"value"`
	NumberOfRecords int    `json:"number_of_records"`
	DisplayTerm     string `json:"display_term,omitempty"`
	ExtraData       string `json:"extra_data,omitempty"`
}

// ScanResponse is the parsed form of a scan response. ScanClause and
// ResponsePosition echo the request.
type ScanResponse struct {
	Terms            []ScanTerm `json:"terms"`
	ScanClause       string     `json:"scan_clause"`
	ResponsePosition int        `json:"response_position"`
}

// ServerInfo describes the SRU endpoint as reported by explain. Host is
// the literal "unknown" when the server did not say.
type ServerInfo struct {
	Host     string `json:"host"`
	Port     *int   `json:"port,omitempty"`
	Database string `json:"database,omitempty"`
}

// DatabaseInfo describes the database behind the endpoint. Title is the
// literal "Unknown" when the server did not say.
type DatabaseInfo struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Contact     string `json:"contact,omitempty"`
}

// IndexInfo is one searchable index advertised by the server.
type IndexInfo struct {
	Title       string `json:"title"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// SchemaInfo is one record schema advertised by the server.
type SchemaInfo struct {
	Identifier string `json:"identifier"`
	Name       string `json:"name"`
	Title      string `json:"title,omitempty"`
}

// ExplainResponse is the parsed form of an explain response. Server and
// Database are always populated, falling back to their defaults when the
// corresponding blocks are absent.
type ExplainResponse struct {
	Server   ServerInfo   `json:"server_info"`
	Database DatabaseInfo `json:"database_info"`
	Indices  []IndexInfo  `json:"indices"`
	Schemas  []SchemaInfo `json:"schemas"`
}
