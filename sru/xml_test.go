package sru

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/beevik/etree"
)

func TestReadResponseRejectsEntityExpansion(t *testing.T) {
	bomb := `<?xml version="1.0"?>
<!DOCTYPE lolz [
  <!ENTITY lol "lol">
  <!ENTITY lol2 "&lol;&lol;&lol;&lol;&lol;&lol;&lol;&lol;&lol;&lol;">
  <!ENTITY lol3 "&lol2;&lol2;&lol2;&lol2;&lol2;&lol2;&lol2;&lol2;&lol2;&lol2;">
  <!ENTITY lol4 "&lol3;&lol3;&lol3;&lol3;&lol3;&lol3;&lol3;&lol3;&lol3;&lol3;">
]>
<lolz>&lol4;</lolz>`

	_, err := readResponse([]byte(bomb))
	if err == nil {
		t.Fatal("expected nested entity definitions to be rejected")
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
	if !strings.Contains(pe.Msg, "malformed XML") {
		t.Errorf("unexpected message: %q", pe.Msg)
	}
}

func TestReadResponseRejectsExternalEntities(t *testing.T) {
	xxe := `<?xml version="1.0"?>
<!DOCTYPE data [
  <!ENTITY xxe SYSTEM "file:///etc/passwd">
]>
<data>&xxe;</data>`

	_, err := readResponse([]byte(xxe))
	if err == nil {
		t.Fatal("expected external entity reference to be rejected")
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
	if strings.Contains(err.Error(), "root:") {
		t.Errorf("error must not carry resolved file content: %q", err.Error())
	}
}

func TestReadResponseIgnoresExternalDTD(t *testing.T) {
	// A DOCTYPE pointing at a remote DTD must not be fetched. The document
	// itself stays parsable as long as it references no custom entities.
	doc := `<?xml version="1.0"?>
<!DOCTYPE data SYSTEM "http://198.51.100.1/never-fetched.dtd">
<data>plain text</data>`

	parsed, err := readResponse([]byte(doc))
	if err != nil {
		t.Fatalf("readResponse: %v", err)
	}
	if got := parsed.Root().Text(); got != "plain text" {
		t.Errorf("unexpected root text: %q", got)
	}
}

func TestReadResponseSizeCap(t *testing.T) {
	data := bytes.Repeat([]byte{'x'}, maxResponseSize+1)

	_, err := readResponse(data)
	if err == nil {
		t.Fatal("expected oversized input to be rejected")
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
	if !strings.Contains(pe.Msg, "exceeds") {
		t.Errorf("unexpected message: %q", pe.Msg)
	}
	if len(pe.Snippet) > 256 {
		t.Errorf("snippet must stay bounded, got %d bytes", len(pe.Snippet))
	}
}

func TestReadResponseConvertsDeclaredCharset(t *testing.T) {
	latin1 := []byte(`<?xml version="1.0" encoding="ISO-8859-1"?><r>T` + "\xfc" + `bingen</r>`)

	doc, err := readResponse(latin1)
	if err != nil {
		t.Fatalf("readResponse: %v", err)
	}
	if got := doc.Root().Text(); got != "Tübingen" {
		t.Errorf("charset conversion failed: %q", got)
	}
}

func TestReadResponseRejectsEmptyDocument(t *testing.T) {
	_, err := readResponse([]byte("   \n  "))
	if err == nil {
		t.Fatal("expected whitespace-only input to be rejected")
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
}

func TestSerializeElementPinsInheritedNamespaces(t *testing.T) {
	envelope := mustElement(t, `<srw:searchRetrieveResponse
  xmlns:srw="http://www.loc.gov/zing/srw/"
  xmlns:marc="http://www.loc.gov/MARC21/slim"
  xmlns:xlink="http://www.w3.org/1999/xlink">
  <srw:records>
    <srw:record>
      <srw:recordData>
        <marc:record>
          <marc:datafield tag="856">
            <marc:subfield code="u" xlink:type="simple">http://example.org</marc:subfield>
          </marc:datafield>
        </marc:record>
      </srw:recordData>
    </srw:record>
  </srw:records>
</srw:searchRetrieveResponse>`)

	record := firstDescendant(envelope, NamespaceMARC, "record")
	if record == nil {
		t.Fatal("record element not found")
	}

	out := serializeElement(record)
	if !strings.Contains(out, `xmlns:marc="http://www.loc.gov/MARC21/slim"`) {
		t.Errorf("marc declaration missing from fragment:\n%s", out)
	}
	if !strings.Contains(out, `xmlns:xlink="http://www.w3.org/1999/xlink"`) {
		t.Errorf("attribute prefix declaration missing from fragment:\n%s", out)
	}

	// The fragment must stand on its own.
	reparsed := etree.NewDocument()
	if err := reparsed.ReadFromString(out); err != nil {
		t.Fatalf("fragment does not reparse: %v", err)
	}
	if got := reparsed.Root().NamespaceURI(); got != NamespaceMARC {
		t.Errorf("reparsed fragment lost its namespace: %q", got)
	}
}

func TestSerializeElementKeepsLocalDeclarations(t *testing.T) {
	envelope := mustElement(t, `<wrap xmlns:srw="http://www.loc.gov/zing/srw/">
  <record xmlns="http://www.loc.gov/MARC21/slim">
    <leader>00000nam</leader>
  </record>
</wrap>`)

	record := firstDescendant(envelope, NamespaceMARC, "record")
	if record == nil {
		t.Fatal("record element not found")
	}

	out := serializeElement(record)
	if strings.Count(out, "http://www.loc.gov/MARC21/slim") != 1 {
		t.Errorf("default namespace must be declared exactly once:\n%s", out)
	}
	if strings.Contains(out, "zing/srw") {
		t.Errorf("unused envelope namespace must not leak into fragment:\n%s", out)
	}
}

func TestPathFirstHonorsDocumentOrder(t *testing.T) {
	root := mustElement(t, `<root xmlns="urn:x">
  <a><other/></a>
  <a><b>first</b></a>
  <a><b>second</b></a>
</root>`)

	found := pathFirst(root, "urn:x", "a", "b")
	if found == nil {
		t.Fatal("expected a match")
	}
	if got := found.Text(); got != "first" {
		t.Errorf("expected the first parent owning a child to win, got %q", got)
	}
}

func TestFirstDescendantPreOrder(t *testing.T) {
	root := mustElement(t, `<root xmlns="urn:x">
  <wrap><hit>nested</hit></wrap>
  <hit>shallow</hit>
</root>`)

	found := firstDescendant(root, "urn:x", "hit")
	if found == nil {
		t.Fatal("expected a match")
	}
	if got := found.Text(); got != "nested" {
		t.Errorf("document order must beat depth, got %q", got)
	}
}
