// Package export saves raw record payloads to disk under names built from
// the configured save name template.
package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"github.com/jvanvinkenroye/swb/config"
	"github.com/jvanvinkenroye/swb/sru"
)

// Values is a struct that holds variables we make available for template
// expansion.
type Values struct {
	RecordID  string
	Title     string
	Author    string
	Year      string
	Publisher string
	ISBN      string
	Format    string
	Position  int
}

// Saver writes record payloads into a single directory. Names are expanded
// per record from the save name template, slugified and cleaned, so titles
// with umlauts or path separators cannot escape the directory or produce
// unportable file names.
type Saver struct {
	dir  string
	tmpl *template.Template
	log  *zap.Logger
}

// NewSaver parses the name template and makes sure the destination
// directory exists.
func NewSaver(dir, nameTemplate string, log *zap.Logger) (*Saver, error) {
	tmpl, err := template.New(string(config.SaveNameTemplateFieldName)).Funcs(sprig.FuncMap()).Parse(nameTemplate)
	if err != nil {
		return nil, fmt.Errorf("unable to parse template field %s: %w", config.SaveNameTemplateFieldName, err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("unable to create save directory %q: %w", dir, err)
	}
	return &Saver{dir: dir, tmpl: tmpl, log: log}, nil
}

// Save writes the record's raw payload and returns the path written.
// position is the 1-based place of the record in the result list, available
// to the template and used for fallback names. Records without raw data are
// an error, there is nothing to write.
func (s *Saver) Save(result *sru.SearchResult, position int) (string, error) {
	if result.RawData == "" {
		return "", fmt.Errorf("record %d carries no raw data", position)
	}

	path := filepath.Join(s.dir, s.fileName(result, position)+".xml")
	path = uniquePath(path)

	if err := os.WriteFile(path, []byte(result.RawData), 0644); err != nil {
		return "", fmt.Errorf("unable to save record: %w", err)
	}
	s.log.Debug("Record saved", zap.String("path", path))
	return path, nil
}

// fileName expands the template for one record, falling back to the record
// id or position when expansion fails or produces nothing usable.
func (s *Saver) fileName(result *sru.SearchResult, position int) string {
	fallback := "record-" + strconv.Itoa(position)
	if result.RecordID != "" {
		fallback = result.RecordID
	}

	buf := new(bytes.Buffer)
	if err := s.tmpl.Execute(buf, Values{
		RecordID:  result.RecordID,
		Title:     result.Title,
		Author:    result.Author,
		Year:      result.Year,
		Publisher: result.Publisher,
		ISBN:      result.ISBN,
		Format:    string(result.Format),
		Position:  position,
	}); err != nil {
		s.log.Warn("Unable to prepare record file name", zap.Error(err))
		return config.CleanFileName(slugify(fallback))
	}

	name := slugify(buf.String())
	if name == "" {
		name = slugify(fallback)
	}
	return config.CleanFileName(name)
}

// slugify transliterates with German substitutions (ü becomes ue, not u),
// most of what these catalogs return is German.
func slugify(s string) string {
	return slug.MakeLang(s, "de")
}

// uniquePath suffixes the path with a counter while it collides with an
// existing file, so records with equal names do not overwrite each other.
func uniquePath(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}
	ext := filepath.Ext(path)
	base := path[:len(path)-len(ext)]
	for i := 2; ; i++ {
		next := fmt.Sprintf("%s-%d%s", base, i, ext)
		if _, err := os.Stat(next); os.IsNotExist(err) {
			return next
		}
	}
}
