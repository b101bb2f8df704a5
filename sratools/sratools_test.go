// Copyright ©2025 The qiime-pipes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sratools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefetchBuildCommand(t *testing.T) {
	p := Prefetch{
		Accession: "SRR1000001",
		OutDir:    "proj/artifacts/sra",
		MaxSize:   "20g",
	}
	cmd, err := p.BuildCommand()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"prefetch",
		"SRR1000001",
		"--output-directory", "proj/artifacts/sra",
		"--max-size", "20g",
	}, cmd.Args)
}

func TestPrefetchCustomPath(t *testing.T) {
	p := Prefetch{Cmd: "/opt/sratoolkit/bin/prefetch", Accession: "SRR1"}
	cmd, err := p.BuildCommand()
	require.NoError(t, err)
	assert.Equal(t, []string{"/opt/sratoolkit/bin/prefetch", "SRR1"}, cmd.Args)
}

func TestPrefetchMissingAccession(t *testing.T) {
	_, err := Prefetch{MaxSize: "20g"}.BuildCommand()
	assert.ErrorIs(t, err, ErrMissingRequired)
}

func TestFasterqDumpBuildCommand(t *testing.T) {
	fq := FasterqDump{
		Accession:     "proj/artifacts/sra/SRR1000001",
		OutDir:        "proj/raw-data",
		SplitFiles:    true,
		SkipTechnical: true,
		Threads:       4,
	}
	cmd, err := fq.BuildCommand()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"fasterq-dump",
		"proj/artifacts/sra/SRR1000001",
		"--outdir", "proj/raw-data",
		"--split-files",
		"--skip-technical",
		"--threads", "4",
	}, cmd.Args)
}

func TestFasterqDumpMissingAccession(t *testing.T) {
	_, err := FasterqDump{SplitFiles: true}.BuildCommand()
	assert.ErrorIs(t, err, ErrMissingRequired)
}
