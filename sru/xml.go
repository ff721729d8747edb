package sru

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

// maxResponseSize caps the response document size accepted by the parsers.
// Catalog responses run a few megabytes at worst.
const maxResponseSize = 64 << 20

// readResponse builds a DOM from raw response bytes. Parsing is strict:
// undefined entities and unbalanced markup are rejected rather than
// repaired, and external entities or DTDs are never resolved or fetched.
// Non-UTF-8 encodings declared by the document are converted.
func readResponse(data []byte) (*etree.Document, error) {
	if len(data) > maxResponseSize {
		return nil, &ParseError{
			Msg:     fmt.Sprintf("response exceeds %d bytes", maxResponseSize),
			Snippet: snippet(data),
		}
	}

	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
	}
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, &ParseError{Msg: "malformed XML", Snippet: snippet(data), Err: err}
	}
	if doc.Root() == nil {
		return nil, &ParseError{Msg: "document has no root element", Snippet: snippet(data)}
	}
	return doc, nil
}

// snippet returns the head of the input for error context.
func snippet(data []byte) string {
	const max = 256
	data = bytes.TrimSpace(data)
	if len(data) > max {
		data = data[:max]
	}
	return string(data)
}

// matches reports whether el resolves to the given namespace URI and local
// tag.
func matches(el *etree.Element, space, tag string) bool {
	return el.Tag == tag && el.NamespaceURI() == space
}

// firstDescendant returns the first element below el, in document order,
// matching the namespace URI and local tag.
func firstDescendant(el *etree.Element, space, tag string) *etree.Element {
	for _, child := range el.ChildElements() {
		if matches(child, space, tag) {
			return child
		}
		if found := firstDescendant(child, space, tag); found != nil {
			return found
		}
	}
	return nil
}

// descendants returns all elements below el, in document order, matching
// the namespace URI and local tag.
func descendants(el *etree.Element, space, tag string) []*etree.Element {
	var out []*etree.Element
	for _, child := range el.ChildElements() {
		if matches(child, space, tag) {
			out = append(out, child)
		}
		out = append(out, descendants(child, space, tag)...)
	}
	return out
}

// childElement returns the first direct child of el matching the namespace
// URI and local tag.
func childElement(el *etree.Element, space, tag string) *etree.Element {
	for _, child := range el.ChildElements() {
		if matches(child, space, tag) {
			return child
		}
	}
	return nil
}

// childElements returns all direct children of el matching the namespace
// URI and local tag.
func childElements(el *etree.Element, space, tag string) []*etree.Element {
	var out []*etree.Element
	for _, child := range el.ChildElements() {
		if matches(child, space, tag) {
			out = append(out, child)
		}
	}
	return out
}

// pathFirst returns the first child element reached by descending to any
// parent-tagged element and taking its first child-tagged child, honoring
// document order over the parents.
func pathFirst(el *etree.Element, space, parent, child string) *etree.Element {
	for _, p := range descendants(el, space, parent) {
		if c := childElement(p, space, child); c != nil {
			return c
		}
	}
	return nil
}

// descendantText returns the text of the first matching descendant, empty
// when absent.
func descendantText(el *etree.Element, space, tag string) string {
	if found := firstDescendant(el, space, tag); found != nil {
		return found.Text()
	}
	return ""
}

// childText returns the text of the first matching direct child, empty when
// absent.
func childText(el *etree.Element, space, tag string) string {
	if found := childElement(el, space, tag); found != nil {
		return found.Text()
	}
	return ""
}

// intValue parses integer element text. It returns def when el is nil or
// its text is empty and logs when the text does not parse.
func intValue(el *etree.Element, def int, what string, log *zap.Logger) int {
	if el == nil {
		return def
	}
	text := strings.TrimSpace(el.Text())
	if text == "" {
		return def
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		log.Warn("Ignoring unparsable number in response",
			zap.String("element", what),
			zap.String("text", el.Text()))
		return def
	}
	return n
}

// intOptional parses integer element text where absence matters to the
// caller. It returns nil when el is nil, its text is empty, or the text
// does not parse.
func intOptional(el *etree.Element, what string, log *zap.Logger) *int {
	if el == nil {
		return nil
	}
	text := strings.TrimSpace(el.Text())
	if text == "" {
		return nil
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		log.Warn("Ignoring unparsable number in response",
			zap.String("element", what),
			zap.String("text", el.Text()))
		return nil
	}
	return &n
}

// serializeElement renders a detached copy of el as an indented standalone
// XML fragment.
func serializeElement(el *etree.Element) string {
	doc := etree.NewDocument()
	doc.SetRoot(detachElement(el))
	doc.Indent(2)
	out, err := doc.WriteToString()
	if err != nil {
		return ""
	}
	return out
}

// detachElement copies el into its own tree, pinning namespace declarations
// inherited from ancestors so the fragment stays well formed on its own.
func detachElement(el *etree.Element) *etree.Element {
	cp := el.Copy()

	decls := make(map[string]string)
	collectNamespaces(el, decls)
	for prefix, uri := range decls {
		if uri == "" {
			continue
		}
		attr := "xmlns"
		if prefix != "" {
			attr = "xmlns:" + prefix
		}
		if cp.SelectAttrValue(attr, "") == "" {
			cp.CreateAttr(attr, uri)
		}
	}
	return cp
}

// collectNamespaces records the first URI seen for every namespace prefix
// used by elements or attributes in the subtree.
func collectNamespaces(el *etree.Element, decls map[string]string) {
	if _, ok := decls[el.Space]; !ok {
		decls[el.Space] = el.NamespaceURI()
	}
	for _, attr := range el.Attr {
		if attr.Space == "" || attr.Space == "xmlns" || attr.Space == "xml" {
			continue
		}
		if _, ok := decls[attr.Space]; !ok {
			decls[attr.Space] = attr.NamespaceURI()
		}
	}
	for _, child := range el.ChildElements() {
		collectNamespaces(child, decls)
	}
}
