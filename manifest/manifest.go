// Copyright ©2025 The qiime-pipes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package manifest maintains the run accession list and assembles the
// tab-separated sample manifest consumed by the downstream analysis
// pipeline.
package manifest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/carbocation/pfx"
)

// Header is the manifest header line. The downstream pipeline matches
// it verbatim.
const Header = "sample-id\tabsolute-filepath-fwd\tabsolute-filepath-rev"

// ErrEmptyManifest reports that no paired samples were found, so no
// manifest was written.
var ErrEmptyManifest = errors.New("manifest: no paired samples found")

// Record maps a sample to the absolute paths of its forward and
// reverse read files.
type Record struct {
	SampleID string
	Forward  string
	Reverse  string
}

// WriteAccessions writes accs to path one per line, replacing any
// previous list. Order is preserved and duplicates are not removed.
func WriteAccessions(path string, accs []string) error {
	f, err := os.Create(path)
	if err != nil {
		return pfx.Err(err)
	}
	w := bufio.NewWriter(f)
	for _, acc := range accs {
		fmt.Fprintln(w, acc)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return pfx.Err(err)
	}
	if err := f.Close(); err != nil {
		return pfx.Err(err)
	}
	return nil
}

// ReadAccessions returns the accessions listed at path in file order,
// skipping blank lines.
func ReadAccessions(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	var accs []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		acc := strings.TrimSpace(sc.Text())
		if acc == "" {
			continue
		}
		accs = append(accs, acc)
	}
	if err := sc.Err(); err != nil {
		return nil, pfx.Err(err)
	}
	return accs, nil
}

// Scan pairs forward and reverse read files under dir. A forward read
// file is named <id>_1.<ext> or <id>_1.<ext>.gz and its mate differs
// only by _2. Records are returned in filename order with absolute
// paths; sample IDs whose mate is missing are returned in skipped and
// produce no record.
func Scan(dir, ext string) (records []Record, skipped []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, pfx.Err(err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		suffix, ok := forwardSuffix(name, ext)
		if !ok {
			continue
		}
		id := strings.TrimSuffix(name, suffix)
		mate := id + strings.Replace(suffix, "_1.", "_2.", 1)

		if _, err := os.Stat(filepath.Join(dir, mate)); err != nil {
			skipped = append(skipped, id)
			continue
		}

		fwd, err := filepath.Abs(filepath.Join(dir, name))
		if err != nil {
			return nil, nil, pfx.Err(err)
		}
		rev, err := filepath.Abs(filepath.Join(dir, mate))
		if err != nil {
			return nil, nil, pfx.Err(err)
		}
		records = append(records, Record{SampleID: id, Forward: fwd, Reverse: rev})
	}
	return records, skipped, nil
}

// forwardSuffix reports the forward-read suffix that name carries, if
// any.
func forwardSuffix(name, ext string) (string, bool) {
	for _, s := range []string{"_1." + ext, "_1." + ext + ".gz"} {
		if strings.HasSuffix(name, s) {
			return s, true
		}
	}
	return "", false
}

// Write writes the manifest header and records to w.
func Write(w io.Writer, records []Record) error {
	if _, err := fmt.Fprintln(w, Header); err != nil {
		return pfx.Err(err)
	}
	for _, r := range records {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", r.SampleID, r.Forward, r.Reverse); err != nil {
			return pfx.Err(err)
		}
	}
	return nil
}

// WriteFile writes the manifest to path, replacing any previous
// manifest. The data is staged in a temporary file in the target
// directory and renamed into place, so the final name never holds a
// partial manifest. A manifest with no records is not written and
// ErrEmptyManifest is returned.
func WriteFile(path string, records []Record) error {
	if len(records) == 0 {
		return ErrEmptyManifest
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp")
	if err != nil {
		return pfx.Err(err)
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, records); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return pfx.Err(err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return pfx.Err(err)
	}
	return nil
}
