// Copyright ©2025 The qiime-pipes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package reads provides FASTQ read file inspection used to sanity
// check converted run data before manifest assembly.
package reads

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fastq"
	"github.com/biogo/biogo/seq/linear"
	"github.com/biogo/hts/bgzf"
	"gonum.org/v1/gonum/stat"
)

// Stats summarises the reads in a single FASTQ file.
type Stats struct {
	Reads      int
	MeanLength float64
	MinLength  int
	MaxLength  int
}

// open returns a reader for the FASTQ file at path, decompressing
// gzip-family data (including BGZF) transparently.
func open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &gzFile{gz: gz, f: f}, nil
}

type gzFile struct {
	gz *gzip.Reader
	f  *os.File
}

func (g *gzFile) Read(p []byte) (int, error) { return g.gz.Read(p) }

func (g *gzFile) Close() error {
	err := g.gz.Close()
	if cerr := g.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// scan applies fn to the length of each read in the file at path.
func scan(path string, fn func(length int)) error {
	rc, err := open(path)
	if err != nil {
		return err
	}
	defer rc.Close()

	sc := seqio.NewScanner(fastq.NewReader(rc, linear.NewQSeq("", nil, alphabet.DNA, alphabet.Sanger)))
	for sc.Next() {
		fn(sc.Seq().Len())
	}
	if err := sc.Error(); err != nil {
		return fmt.Errorf("reads: %s: %w", path, err)
	}
	return nil
}

// Count returns the number of reads in the FASTQ file at path.
func Count(path string) (int, error) {
	var n int
	err := scan(path, func(int) { n++ })
	return n, err
}

// Lengths returns the length of every read in the FASTQ file at path.
func Lengths(path string) ([]float64, error) {
	var lengths []float64
	err := scan(path, func(l int) { lengths = append(lengths, float64(l)) })
	return lengths, err
}

// StatsFor summarises the FASTQ file at path.
func StatsFor(path string) (Stats, error) {
	lengths, err := Lengths(path)
	if err != nil {
		return Stats{}, err
	}
	s := Stats{Reads: len(lengths)}
	if s.Reads == 0 {
		return s, nil
	}
	s.MeanLength = stat.Mean(lengths, nil)
	s.MinLength = int(lengths[0])
	s.MaxLength = int(lengths[0])
	for _, l := range lengths[1:] {
		if int(l) < s.MinLength {
			s.MinLength = int(l)
		}
		if int(l) > s.MaxLength {
			s.MaxLength = int(l)
		}
	}
	return s, nil
}

// CheckPair returns the read counts of a forward/reverse mate pair.
// A count mismatch indicates truncated conversion output; the caller
// decides whether to warn or fail.
func CheckPair(fwd, rev string) (nfwd, nrev int, err error) {
	nfwd, err = Count(fwd)
	if err != nil {
		return 0, 0, err
	}
	nrev, err = Count(rev)
	if err != nil {
		return 0, 0, err
	}
	return nfwd, nrev, nil
}

// Compress rewrites the file at path as BGZF-compressed data under
// path.gz, removing the original. BGZF is a valid gzip encoding, so
// downstream consumers need no special handling. The new path is
// returned.
func Compress(path string) (string, error) {
	in, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer in.Close()

	dst := path + ".gz"
	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}

	w := bgzf.NewWriter(out, 1)
	if _, err := io.Copy(w, in); err != nil {
		w.Close()
		out.Close()
		os.Remove(dst)
		return "", err
	}
	if err := w.Close(); err != nil {
		out.Close()
		os.Remove(dst)
		return "", err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return "", err
	}

	if err := os.Remove(path); err != nil {
		return "", err
	}
	return dst, nil
}
