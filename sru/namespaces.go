package sru

// XML namespaces of the SRU envelope and the record schemas embedded in it.
// All lookups match on the resolved namespace URI plus local tag, so the
// prefix choices of a particular server never matter.
const (
	NamespaceSRW        = "http://www.loc.gov/zing/srw/"
	NamespaceDiagnostic = "http://www.loc.gov/zing/srw/diagnostic/"
	NamespaceMARC       = "http://www.loc.gov/MARC21/slim"
	NamespaceMODS       = "http://www.loc.gov/mods/v3"
	NamespaceDC         = "http://purl.org/dc/elements/1.1/"
	NamespacePica       = "info:srw/schema/5/picaXML-v1.0"
	NamespaceTurboMARC  = "http://www.indexdata.com/turbomarc"
)

// Explain documents appear in two namespace revisions in the wild.
const (
	NamespaceExplain20 = "http://explain.z3950.org/dtd/2.0/"
	NamespaceExplain21 = "http://explain.z3950.org/dtd/2.1/"
)

// DefaultExplainNamespaces returns the explain namespace probing order used
// when ParseExplainResponse is called without candidates.
func DefaultExplainNamespaces() []string {
	return []string{NamespaceExplain20, NamespaceExplain21}
}
