package state

import (
	"fmt"
	"time"

	"github.com/jvanvinkenroye/swb/client"
	"github.com/jvanvinkenroye/swb/profiles"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start: time.Now(),
	}
}

// PrepareClient builds the SRU client from the active configuration.
// Requires Cfg and Log to be set. An explicit endpoint url in the
// configuration wins over the profile. When a debug report is being
// collected every raw response body the client fetches goes into it.
func (e *LocalEnv) PrepareClient() error {
	baseURL := e.Cfg.Client.URL
	if len(baseURL) == 0 {
		p, err := profiles.Get(e.Cfg.Client.Profile)
		if err != nil {
			return fmt.Errorf("unable to resolve catalog profile: %w", err)
		}
		baseURL = p.URL
	}

	opts := []client.Option{
		client.WithBaseURL(baseURL),
		client.WithTimeout(e.Cfg.Client.TimeoutDuration()),
		client.WithRetries(e.Cfg.Client.MaxRetries),
		client.WithRateLimit(e.Cfg.Client.RateLimit),
		client.WithAPIKey(e.Cfg.Client.APIKey.Reveal()),
		client.WithUserAgent(e.Cfg.Client.UserAgent),
		client.WithSRUVersion(e.Cfg.Client.SRUVersion),
		client.WithLogger(e.Log.Named("client")),
	}
	if e.Rpt != nil {
		opts = append(opts, client.WithResponseHook(func(operation, requestID string, data []byte) {
			e.Rpt.StoreData(fmt.Sprintf("responses/%s-%s.xml", operation, requestID), data)
		}))
	}

	e.Client = client.New(opts...)
	return nil
}
