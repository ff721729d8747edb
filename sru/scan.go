package sru

import (
	"github.com/beevik/etree"
	"go.uber.org/zap"
)

// ParseScanResponse maps a scan response document onto a ScanResponse.
// clause and position echo the request. A server diagnostic anywhere in
// the document beats any terms it may also carry.
func ParseScanResponse(data []byte, clause string, position int, log *zap.Logger) (*ScanResponse, error) {
	doc, err := readResponse(data)
	if err != nil {
		return nil, err
	}
	root := doc.Root()

	if diag := findDiagnostic(root); diag != nil {
		return nil, diag
	}

	resp := &ScanResponse{
		Terms:            []ScanTerm{},
		ScanClause:       clause,
		ResponsePosition: position,
	}

	for _, term := range descendants(root, NamespaceSRW, "term") {
		value := childText(term, NamespaceSRW, "value")
		if value == "" {
			continue
		}
		resp.Terms = append(resp.Terms, ScanTerm{
			Value:           value,
			NumberOfRecords: intValue(childElement(term, NamespaceSRW, "numberOfRecords"), 0, "numberOfRecords", log),
			DisplayTerm:     childText(term, NamespaceSRW, "displayTerm"),
			ExtraData:       childText(term, NamespaceSRW, "extraTermData"),
		})
	}

	log.Debug("Parsed terms from scan response", zap.Int("count", len(resp.Terms)))
	return resp, nil
}

// findDiagnostic returns the first server diagnostic in the document, nil
// when none is present.
func findDiagnostic(root *etree.Element) *DiagnosticError {
	for _, block := range descendants(root, NamespaceSRW, "diagnostics") {
		diag := childElement(block, NamespaceDiagnostic, "diagnostic")
		if diag == nil {
			continue
		}
		uri := childText(diag, NamespaceDiagnostic, "uri")
		if uri == "" {
			uri = "unknown"
		}
		message := childText(diag, NamespaceDiagnostic, "message")
		if message == "" {
			message = "Unknown error"
		}
		return &DiagnosticError{URI: uri, Message: message}
	}
	return nil
}
