package client

import (
	"context"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/jvanvinkenroye/swb/sru"
)

type scanSettings struct {
	responsePosition int
	maximumTerms     int
}

// ScanOption adjusts a single scan request.
type ScanOption func(*scanSettings)

// WithResponsePosition sets where in the term list the scanned term lands,
// the default is 1.
func WithResponsePosition(n int) ScanOption {
	return func(s *scanSettings) {
		if n > 0 {
			s.responsePosition = n
		}
	}
}

// WithMaximumTerms caps the number of terms returned, the default is 20.
func WithMaximumTerms(n int) ScanOption {
	return func(s *scanSettings) {
		if n > 0 {
			s.maximumTerms = n
		}
	}
}

// Scan browses index terms around a scan clause like pica.per=Goe. Useful
// for auto-completion and for finding the exact spelling to search for.
func (c *Client) Scan(ctx context.Context, clause string, opts ...ScanOption) (*sru.ScanResponse, error) {
	s := scanSettings{responsePosition: 1, maximumTerms: 20}
	for _, opt := range opts {
		opt(&s)
	}

	params := url.Values{}
	params.Set("version", c.version)
	params.Set("operation", "scan")
	params.Set("scanClause", clause)
	params.Set("responsePosition", strconv.Itoa(s.responsePosition))
	params.Set("maximumTerms", strconv.Itoa(s.maximumTerms))

	c.log.Info("Scanning index", zap.String("clause", clause))

	body, err := c.fetch(ctx, "scan", params)
	if err != nil {
		return nil, err
	}
	return sru.ParseScanResponse(body, clause, s.responsePosition, c.log)
}

// Explain fetches the server self-description: indices, schemas, server and
// database metadata.
func (c *Client) Explain(ctx context.Context) (*sru.ExplainResponse, error) {
	params := url.Values{}
	params.Set("version", c.version)
	params.Set("operation", "explain")

	c.log.Info("Fetching server explain record")

	body, err := c.fetch(ctx, "explain", params)
	if err != nil {
		return nil, err
	}
	return sru.ParseExplainResponse(body, c.log)
}
