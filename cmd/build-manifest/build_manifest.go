// Copyright ©2025 The qiime-pipes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// build-manifest downloads the SRA runs listed for a project, converts
// them to paired FASTQ and assembles the sample manifest consumed by
// the downstream analysis pipeline.
//
// Runs are processed strictly in accession file order, one at a time.
// Any tool failure aborts the whole run; an unpaired sample only costs
// a warning.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/s-huebler/qiime-pipes/manifest"
	"github.com/s-huebler/qiime-pipes/reads"
	"github.com/s-huebler/qiime-pipes/sratools"
)

var (
	name         = flag.String("name", "", "project name used as the working directory label (required)")
	ext          = flag.String("ext", "fastq", "read file extension produced by conversion")
	maxSize      = flag.String("max-size", "20g", "prefetch download size cap")
	threads      = flag.Int("threads", 4, "number of fasterq-dump threads")
	prefetchPath = flag.String("prefetch", "", "path to prefetch if not in $PATH")
	fasterqPath  = flag.String("fasterq-dump", "", "path to fasterq-dump if not in $PATH")
	compress     = flag.Bool("gzip", false, "BGZF compress converted read files before manifest assembly")
	validate     = flag.Bool("validate", false, "check that mate read counts agree for each pair")
	run          = flag.Bool("run-tools", true, `actually run prefetch and fasterq-dump
    	false is useful to rebuild the manifest from an existing
    	raw-data directory`,
	)
	errFile = flag.String("err", "", "log file name (default to stderr)")
)

var errStream = os.Stderr

func main() {
	flag.Parse()
	if *name == "" {
		fmt.Fprintln(os.Stderr, "invalid argument: must have name set")
		flag.Usage()
		os.Exit(1)
	}

	var err error
	if *errFile != "" {
		errStream, err = os.Create(*errFile)
		if err != nil {
			// Oh, the irony.
			log.Fatalf("failed to create log file: %v", err)
		}
		defer errStream.Close()
		log.SetOutput(errStream)
	}

	rawDir := filepath.Join(*name, "raw-data")
	sraDir := filepath.Join(*name, "artifacts", "sra")

	accPath := filepath.Join(*name, "run_accessions.txt")
	accs, err := manifest.ReadAccessions(accPath)
	if err != nil {
		log.Fatalf("failed to read accession list: %v", err)
	}
	if len(accs) == 0 {
		log.Fatalf("accession list %q is empty", accPath)
	}

	if *run {
		if err := os.MkdirAll(sraDir, 0o755); err != nil {
			log.Fatalf("failed to create %q: %v", sraDir, err)
		}
		if err := os.MkdirAll(rawDir, 0o755); err != nil {
			log.Fatalf("failed to create %q: %v", rawDir, err)
		}
		for i, acc := range accs {
			log.Printf("run %d/%d: downloading %s", i+1, len(accs), acc)
			if err := download(acc, sraDir); err != nil {
				log.Fatalf("failed download of %s: %v", acc, err)
			}
			log.Printf("run %d/%d: converting %s", i+1, len(accs), acc)
			if err := convert(acc, sraDir, rawDir); err != nil {
				log.Fatalf("failed conversion of %s: %v", acc, err)
			}
		}
	}

	if *compress {
		if err := compressAll(rawDir, *ext); err != nil {
			log.Fatalf("failed read file compression: %v", err)
		}
	}

	records, skipped, err := manifest.Scan(rawDir, *ext)
	if err != nil {
		log.Fatalf("failed raw-data scan: %v", err)
	}
	for _, id := range skipped {
		log.Printf("warning: skipping sample %s: no reverse read file", id)
	}

	if *validate {
		for _, r := range records {
			nfwd, nrev, err := reads.CheckPair(r.Forward, r.Reverse)
			if err != nil {
				log.Fatalf("failed pair check for %s: %v", r.SampleID, err)
			}
			if nfwd != nrev {
				log.Printf("warning: sample %s mate counts differ: %d forward, %d reverse", r.SampleID, nfwd, nrev)
			}
		}
	}

	out := *name + "_manifest.tsv"
	switch err := manifest.WriteFile(out, records); err {
	case nil:
		log.Printf("wrote %d samples to %q", len(records), out)
	case manifest.ErrEmptyManifest:
		log.Fatalf("no paired samples found under %q", rawDir)
	default:
		log.Fatalf("failed to write manifest: %v", err)
	}
}

// download fetches the raw run data for acc into outDir.
func download(acc, outDir string) error {
	p := sratools.Prefetch{
		Cmd: *prefetchPath,

		Accession: acc,
		OutDir:    outDir,
		MaxSize:   *maxSize,
	}
	cmd, err := p.BuildCommand()
	if err != nil {
		return err
	}
	cmd.Stdout = errStream
	cmd.Stderr = errStream
	return cmd.Run()
}

// convert splits the prefetched run for acc into forward and reverse
// read files under outDir.
func convert(acc, sraDir, outDir string) error {
	fq := sratools.FasterqDump{
		Cmd: *fasterqPath,

		Accession:     filepath.Join(sraDir, acc),
		OutDir:        outDir,
		SplitFiles:    true,
		SkipTechnical: true,
		Threads:       *threads,
		Force:         true,
	}
	cmd, err := fq.BuildCommand()
	if err != nil {
		return err
	}
	cmd.Stdout = errStream
	cmd.Stderr = errStream
	return cmd.Run()
}

// compressAll rewrites every uncompressed read file under dir as BGZF.
func compressAll(dir, ext string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), "."+ext) {
			continue
		}
		gz, err := reads.Compress(filepath.Join(dir, e.Name()))
		if err != nil {
			return err
		}
		log.Printf("compressed %s", gz)
	}
	return nil
}
