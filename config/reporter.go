package config

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jvanvinkenroye/swb/misc"
)

type ReporterConfig struct {
	Destination string `yaml:"destination" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required,filepath"`
}

// Prepare creates an empty report. When the configured destination cannot be
// created the report goes to a temporary file instead.
func (conf *ReporterConfig) Prepare() (*Report, error) {
	r := &Report{entries: make(map[string]entry)}

	if f, err := os.Create(conf.Destination); err == nil {
		r.file = f
	} else if f, err = os.CreateTemp("", misc.GetAppName()+"-report.*.zip"); err == nil {
		r.file = f
	} else {
		return nil, fmt.Errorf("unable to create report: %w", err)
	}
	return r, nil
}

// entry is either a data snapshot taken when it was stored or a path read at
// close time.
type entry struct {
	path  string
	stamp time.Time
	data  []byte
}

// Report accumulates everything needed to troubleshoot a program run -
// fetched response bodies, the active configuration, the log - and writes it
// out as a single zip archive with a MANIFEST on Close. All methods accept a
// nil receiver, it means no report was requested.
// NOTE: not safe for concurrent use.
type Report struct {
	entries map[string]entry
	file    *os.File
}

// Close finalizes the report archive.
func (r *Report) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	defer r.file.Close()
	return r.finalize()
}

// Name returns the absolute location of the report archive.
func (r *Report) Name() string {
	if r == nil || r.file == nil {
		return ""
	}
	if n, err := filepath.Abs(r.file.Name()); err == nil {
		return n
	}
	return r.file.Name()
}

// Store schedules the file at path to be archived under name on Close, its
// content is picked up as it is at that moment. The log file is stored this
// way, it keeps growing until the very end of the run. Files missing at
// close time are skipped.
func (r *Report) Store(name, path string) {
	if r == nil {
		return
	}
	if old, exists := r.entries[name]; exists && old.path != path {
		panic(fmt.Sprintf("attempt to overwrite report entry [%s]: was %s, now %s", name, old.path, path))
	}

	e := entry{path: path}
	if p, err := filepath.Abs(path); err == nil {
		e.path = p
	}
	r.entries[name] = e
}

// StoreData schedules a snapshot of data to be archived under name on Close.
// Response bodies are stored this way, keyed by operation and request id, so
// names never repeat within a run.
func (r *Report) StoreData(name string, data []byte) {
	if r == nil {
		return
	}
	if _, exists := r.entries[name]; exists {
		panic(fmt.Sprintf("attempt to overwrite report entry [%s]", name))
	}
	r.entries[name] = entry{data: data, stamp: time.Now()}
}

// finalize writes the archive, MANIFEST first, then every entry in manifest
// order.
func (r *Report) finalize() error {
	arc := zip.NewWriter(r.file)
	defer arc.Close()

	names, manifest := prepareManifest(r.entries)
	if err := saveFile(arc, "MANIFEST", time.Now(), manifest); err != nil {
		return err
	}

	for _, name := range names {
		e := r.entries[name]
		if len(e.data) > 0 {
			if err := saveFile(arc, name, e.stamp, bytes.NewReader(e.data)); err != nil {
				return err
			}
			continue
		}

		// stored by path, skip whatever has disappeared since
		info, err := os.Stat(e.path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		f, err := os.Open(e.path)
		if err != nil {
			return err
		}
		if err := saveFile(arc, name, info.ModTime(), f); err != nil {
			f.Close()
			return err
		}
		f.Close()
	}
	return nil
}

func prepareManifest(entries map[string]entry) ([]string, *bytes.Buffer) {
	buf := new(bytes.Buffer)
	if len(entries) == 0 {
		return nil, buf
	}

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	now := time.Now()
	for _, name := range names {
		e := entries[name]
		if e.stamp.IsZero() {
			e.stamp = now
		}
		src := e.path
		if len(src) == 0 {
			src = "(data)"
		}
		fmt.Fprintf(buf, "%s\t%s\t%s\n", e.stamp.UTC().Format(time.UnixDate), name, src)
	}
	return names, buf
}

func saveFile(dst *zip.Writer, name string, t time.Time, src io.Reader) error {
	w, err := dst.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: t})
	if err != nil {
		return err
	}
	_, err = io.Copy(w, src)
	return err
}
