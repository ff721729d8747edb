// Package profiles holds the preconfigured SRU endpoints of the German
// library union catalogs.
package profiles

import (
	"fmt"
	"sort"
	"strings"

	"github.com/maruel/natural"
)

// Profile describes one catalog endpoint.
type Profile struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
	Region      string `json:"region"`
}

// DefaultName is the profile used when nothing else is configured.
const DefaultName = "swb"

var profiles = map[string]Profile{
	"swb": {
		Name:        "swb",
		URL:         "https://sru.k10plus.de/swb",
		DisplayName: "SWB (Südwestdeutscher Bibliotheksverbund)",
		Description: "Library network covering Baden-Württemberg, Saarland, and Saxony",
		Region:      "Baden-Württemberg, Saarland, Sachsen",
	},
	"k10plus": {
		Name:        "k10plus",
		URL:         "https://sru.k10plus.de/opac-de-627",
		DisplayName: "K10plus Verbundkatalog",
		Description: "Union catalog covering northern and southwestern Germany",
		Region:      "Norddeutschland, Südwestdeutschland",
	},
	"gvk": {
		Name:        "gvk",
		URL:         "https://sru.gbv.de/gvk",
		DisplayName: "GBV (Gemeinsamer Verbundkatalog)",
		Description: "Common union catalog of the GBV library network",
		Region:      "Norddeutschland",
	},
	"dnb": {
		Name:        "dnb",
		URL:         "https://services.dnb.de/sru/dnb",
		DisplayName: "DNB (Deutsche Nationalbibliothek)",
		Description: "German National Library catalog",
		Region:      "Deutschland (National)",
	},
	"bvb": {
		Name:        "bvb",
		URL:         "https://sru.bib-bvb.de/bvb",
		DisplayName: "BVB (Bibliotheksverbund Bayern)",
		Description: "Bavarian Library Network",
		Region:      "Bayern",
	},
	"hebis": {
		Name:        "hebis",
		URL:         "https://sru.hebis.de/sru",
		DisplayName: "HeBIS (Hessisches BibliotheksInformationsSystem)",
		Description: "Library network for Hesse and parts of Rhineland-Palatinate",
		Region:      "Hessen, Rheinland-Pfalz (teilweise)",
	},
}

// Get resolves a profile by name, case insensitively.
func Get(name string) (Profile, error) {
	p, ok := profiles[strings.ToLower(name)]
	if !ok {
		return Profile{}, fmt.Errorf("unknown profile %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return p, nil
}

// Default returns the profile used when no other is selected.
func Default() Profile {
	return profiles[DefaultName]
}

// Names returns all profile names in natural order, matching how library
// codes are listed elsewhere.
func Names() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return natural.Less(names[i], names[j]) })
	return names
}

// List returns all profiles sorted by name.
func List() []Profile {
	out := make([]Profile, 0, len(profiles))
	for _, name := range Names() {
		out = append(out, profiles[name])
	}
	return out
}
