// Copyright ©2025 The qiime-pipes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sratools provides interaction with the NCBI SRA Toolkit
// download and conversion programs.
package sratools

import (
	"errors"
	"os/exec"

	"github.com/biogo/external"
)

var ErrMissingRequired = errors.New("sratools: missing required argument")

// Prefetch defines parameters for the prefetch download tool.
type Prefetch struct {
	// Usage: prefetch [options] <accession>
	//
	Cmd string `buildarg:"{{if .}}{{.}}{{else}}prefetch{{end}}"` // prefetch

	// Input:
	Accession string `buildarg:"{{.}}"` // "<accession>"

	// Output options:
	OutDir string `buildarg:"{{if .}}--output-directory{{split}}{{.}}{{end}}"` // -O: save files to directory

	// Transfer options:
	MaxSize   string `buildarg:"{{if .}}--max-size{{split}}{{.}}{{end}}"`  // -X: maximum file size to download
	Transport string `buildarg:"{{if .}}--transport{{split}}{{.}}{{end}}"` // -t: http or fasp

	Progress bool `buildarg:"{{if .}}--progress{{end}}"` // -p: show progress
}

// BuildCommand returns an exec.Cmd built from the parameters in p.
func (p Prefetch) BuildCommand() (*exec.Cmd, error) {
	if p.Accession == "" {
		return nil, ErrMissingRequired
	}
	cl := external.Must(external.Build(p))
	return exec.Command(cl[0], cl[1:]...), nil
}

// FasterqDump defines parameters for the fasterq-dump conversion tool.
type FasterqDump struct {
	// Usage: fasterq-dump [options] <path|accession>
	//
	Cmd string `buildarg:"{{if .}}{{.}}{{else}}fasterq-dump{{end}}"` // fasterq-dump

	// Input:
	Accession string `buildarg:"{{.}}"` // "<path|accession>"

	// Output options:
	OutDir  string `buildarg:"{{if .}}--outdir{{split}}{{.}}{{end}}"` // -O: output directory
	TempDir string `buildarg:"{{if .}}--temp{{split}}{{.}}{{end}}"`   // -t: scratch directory

	// Processing options:
	SplitFiles    bool `buildarg:"{{if .}}--split-files{{end}}"`           // -S: write reads into different files
	SkipTechnical bool `buildarg:"{{if .}}--skip-technical{{end}}"`        // skip technical reads
	Threads       int  `buildarg:"{{if .}}--threads{{split}}{{.}}{{end}}"` // -e: worker threads
	Force         bool `buildarg:"{{if .}}--force{{end}}"`                 // -f: overwrite existing files
}

// BuildCommand returns an exec.Cmd built from the parameters in fq.
func (fq FasterqDump) BuildCommand() (*exec.Cmd, error) {
	if fq.Accession == "" {
		return nil, ErrMissingRequired
	}
	cl := external.Must(external.Build(fq))
	return exec.Command(cl[0], cl[1:]...), nil
}
