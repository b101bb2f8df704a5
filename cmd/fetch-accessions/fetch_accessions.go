// Copyright ©2025 The qiime-pipes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// fetch-accessions enumerates the SRA run accessions of an NCBI
// BioProject and records them for the download stage. The project
// directory skeleton is created as a side effect.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/s-huebler/qiime-pipes/entrez"
	"github.com/s-huebler/qiime-pipes/manifest"
)

var (
	project = flag.String("project", "", "BioProject accession to enumerate, e.g. PRJNA605442 (required)")
	name    = flag.String("name", "", "project name used as the working directory label (required)")
	email   = flag.String("email", "", "contact address forwarded to the E-utilities service")
	errFile = flag.String("err", "", "log file name (default to stderr)")
)

func main() {
	flag.Parse()
	if *project == "" || *name == "" {
		fmt.Fprintln(os.Stderr, "invalid argument: must have project and name set")
		flag.Usage()
		os.Exit(1)
	}

	if *errFile != "" {
		w, err := os.Create(*errFile)
		if err != nil {
			// Oh, the irony.
			log.Fatalf("failed to create log file: %v", err)
		}
		defer w.Close()
		log.SetOutput(w)
	}

	for _, dir := range []string{
		filepath.Join(*name, "raw-data"),
		filepath.Join(*name, "artifacts"),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("failed to create %q: %v", dir, err)
		}
	}

	c := entrez.Client{
		Tool:   "qiime-pipes",
		Email:  *email,
		APIKey: os.Getenv("NCBI_API_KEY"),
	}

	log.Printf("querying SRA run accessions for %q", *project)
	accs, err := c.RunAccessions(context.Background(), *project)
	if err != nil {
		log.Fatalf("failed accession query: %v", err)
	}
	if len(accs) == 0 {
		log.Fatalf("no run accessions found for %q", *project)
	}

	path := filepath.Join(*name, "run_accessions.txt")
	if err := manifest.WriteAccessions(path, accs); err != nil {
		log.Fatalf("failed to write accession list: %v", err)
	}
	log.Printf("wrote %d run accessions to %q", len(accs), path)
}
