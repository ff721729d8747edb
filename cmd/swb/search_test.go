package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	cli "github.com/urfave/cli/v3"

	"github.com/jvanvinkenroye/swb/client"
	"github.com/jvanvinkenroye/swb/config"
)

// parseSearchFlags runs a throwaway command so urfave/cli parses the shared
// search flags for us.
func parseSearchFlags(t *testing.T, args ...string) *cli.Command {
	t.Helper()

	var captured *cli.Command
	cmd := &cli.Command{
		Name:  "test",
		Flags: searchFlags(),
		Action: func(_ context.Context, c *cli.Command) error {
			captured = c
			return nil
		},
	}
	if err := cmd.Run(context.Background(), append([]string{"test"}, args...)); err != nil {
		t.Fatalf("unable to parse flags: %v", err)
	}
	return captured
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("unable to load default configuration: %v", err)
	}
	return cfg
}

func TestSearchOptions_Defaults(t *testing.T) {
	cmd := parseSearchFlags(t)

	opts, err := searchOptions(cmd, testConfig(t))
	if err != nil {
		t.Fatalf("searchOptions: %v", err)
	}
	// format, maximum records and packing always come from configuration
	if len(opts) != 3 {
		t.Errorf("expected 3 options from configured defaults, got %d", len(opts))
	}
}

func TestSearchOptions_AllFlags(t *testing.T) {
	cmd := parseSearchFlags(t,
		"--format", "mods", "--max", "25", "--start", "11", "--packing", "string",
		"--sort", "year", "--order", "ascending", "--facets", "year,language", "--facet-limit", "5")

	opts, err := searchOptions(cmd, testConfig(t))
	if err != nil {
		t.Fatalf("searchOptions: %v", err)
	}
	// format, max, start, packing, sort, facets, facet limit
	if len(opts) != 7 {
		t.Errorf("expected 7 options, got %d", len(opts))
	}
}

func TestSearchOptions_Errors(t *testing.T) {
	for _, tc := range []struct {
		name string
		args []string
	}{
		{"bad format", []string{"--format", "pdf"}},
		{"bad packing", []string{"--packing", "zip"}},
		{"bad sort field", []string{"--sort", "color"}},
		{"bad sort order", []string{"--sort", "year", "--order", "sideways"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cmd := parseSearchFlags(t, tc.args...)
			if _, err := searchOptions(cmd, testConfig(t)); err == nil {
				t.Error("expected error, got none")
			}
		})
	}
}

func TestFacetFields(t *testing.T) {
	got := facetFields([]string{"year,language", " format ", ""})
	want := []string{"year", "language", "format"}
	if len(got) != len(want) {
		t.Fatalf("facetFields = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("facetFields[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if got := facetFields(nil); got != nil {
		t.Errorf("facetFields(nil) = %v, want nil", got)
	}
}

func TestAPIHint(t *testing.T) {
	apiErr := &client.APIError{StatusCode: 401, Status: "401 Unauthorized", URL: "https://sru.example.org"}
	err := apiHint(apiErr)
	if !errors.Is(err, apiErr) {
		t.Error("hint wrapper lost the original error")
	}
	if !strings.Contains(err.Error(), apiErr.Hint()) {
		t.Errorf("expected hint in %q", err)
	}

	plain := errors.New("boom")
	if got := apiHint(plain); got != plain {
		t.Errorf("plain error was wrapped: %v", got)
	}
}
