// Copyright ©2025 The qiime-pipes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// submit-build queues a cluster batch job that runs build-manifest for
// a project. Scheduler account, partition and notification address are
// taken from the SBATCH_ACCOUNT, SBATCH_PARTITION and SBATCH_MAIL_USER
// environment variables.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/s-huebler/qiime-pipes/batch"
)

var (
	name     = flag.String("name", "", "project name passed through to build-manifest (required)")
	cpus     = flag.Int("cpus", 4, "cpus requested for the job")
	mem      = flag.String("mem", "16G", "memory requested for the job")
	walltime = flag.String("time", "24:00:00", "wall time requested for the job")
	jobName  = flag.String("job-name", "", "job name (default build-manifest-<name>)")
	binary   = flag.String("build-manifest", "build-manifest", "path to the build-manifest binary")
	extra    = flag.String("args", "", "extra arguments passed through to build-manifest")
	sbatch   = flag.String("sbatch", "", "path to sbatch if not in $PATH")
	dryRun   = flag.Bool("dry-run", false, "print the job script instead of submitting it")
)

func main() {
	flag.Parse()
	if *name == "" {
		fmt.Fprintln(os.Stderr, "invalid argument: must have name set")
		flag.Usage()
		os.Exit(1)
	}

	wd, err := os.Getwd()
	if err != nil {
		log.Fatalf("failed to determine working directory: %v", err)
	}

	cfg := batch.FromEnv()
	cfg.JobName = *jobName
	if cfg.JobName == "" {
		cfg.JobName = "build-manifest-" + *name
	}
	cfg.CPUs = *cpus
	cfg.Memory = *mem
	cfg.Time = *walltime
	cfg.WorkDir = wd
	cfg.Output = filepath.Join(wd, cfg.JobName+".log")

	command := fmt.Sprintf("%s -name %s -threads %d", *binary, *name, *cpus)
	if *extra != "" {
		command += " " + *extra
	}

	script, err := batch.Script(cfg, command)
	if err != nil {
		log.Fatalf("failed to render job script: %v", err)
	}

	if *dryRun {
		fmt.Print(script)
		return
	}

	id, err := batch.Submit(*sbatch, script)
	if err != nil {
		log.Fatalf("failed submission: %v", err)
	}
	log.Printf("submitted batch job %s for %q", id, *name)
}
