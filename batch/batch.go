// Copyright ©2025 The qiime-pipes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package batch renders and submits SLURM job scripts for the
// download-and-manifest stage. Scheduler semantics (queuing, resource
// allocation, preemption retries) belong to the cluster; this package
// only hands the script off.
package batch

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"text/template"
)

// Config carries the scheduler settings for one submission. Account,
// Partition and MailUser are sbatch's own environment overrides, so
// values set here also hold when operators call sbatch by hand.
type Config struct {
	JobName   string
	Account   string // SBATCH_ACCOUNT
	Partition string // SBATCH_PARTITION
	MailUser  string // SBATCH_MAIL_USER

	CPUs   int
	Memory string // e.g. 16G
	Time   string // e.g. 24:00:00

	WorkDir string
	Output  string // combined stdout/stderr log path
}

// FromEnv returns a Config populated from the scheduler environment.
func FromEnv() Config {
	return Config{
		Account:   os.Getenv("SBATCH_ACCOUNT"),
		Partition: os.Getenv("SBATCH_PARTITION"),
		MailUser:  os.Getenv("SBATCH_MAIL_USER"),
	}
}

var scriptTemplate = template.Must(template.New("sbatch").Parse(`#!/bin/bash
#SBATCH --job-name {{.JobName}}
#SBATCH --ntasks 1
{{if .Account -}}
{{printf "#SBATCH --account %s" .Account}}
{{end -}}
{{if .Partition -}}
{{printf "#SBATCH --partition %s" .Partition}}
{{end -}}
{{if ne .CPUs 0 -}}
{{printf "#SBATCH --cpus-per-task %d" .CPUs}}
{{end -}}
{{if .Memory -}}
{{printf "#SBATCH --mem %s" .Memory}}
{{end -}}
{{if .Time -}}
{{printf "#SBATCH --time %s" .Time}}
{{end -}}
{{if .Output -}}
{{printf "#SBATCH --output %s" .Output}}
{{end -}}
{{if .MailUser -}}
{{printf "#SBATCH --mail-user %s" .MailUser}}
#SBATCH --mail-type END,FAIL
{{end}}
{{if .WorkDir -}}
cd {{.WorkDir}} || exit 1
{{end -}}
{{.Command}}
`))

type scriptData struct {
	Config
	Command string
}

// Script renders the sbatch script that runs command under cfg.
func Script(cfg Config, command string) (string, error) {
	if cfg.JobName == "" {
		return "", fmt.Errorf("batch: job name must be set")
	}
	if command == "" {
		return "", fmt.Errorf("batch: command must be set")
	}
	var buf bytes.Buffer
	if err := scriptTemplate.Execute(&buf, scriptData{Config: cfg, Command: command}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var jobIDPattern = regexp.MustCompile(`Submitted batch job ([0-9]+)`)

// Submit pipes script to the submission command (sbatch if sbatchPath
// is empty) and returns the scheduler job ID.
func Submit(sbatchPath, script string) (string, error) {
	if sbatchPath == "" {
		sbatchPath = "sbatch"
	}
	cmd := exec.Command(sbatchPath)
	cmd.Stdin = strings.NewReader(script)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("batch: %s failed: %v: %s", sbatchPath, err, bytes.TrimSpace(out))
	}
	m := jobIDPattern.FindSubmatch(out)
	if m == nil {
		return "", fmt.Errorf("batch: could not parse submission response %q", bytes.TrimSpace(out))
	}
	return string(m[1]), nil
}
