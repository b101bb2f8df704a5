// Copyright ©2025 The qiime-pipes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package batch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv(t *testing.T) {
	t.Setenv("SBATCH_ACCOUNT", "lab-acct")
	t.Setenv("SBATCH_PARTITION", "long")
	t.Setenv("SBATCH_MAIL_USER", "user@example.edu")

	cfg := FromEnv()
	assert.Equal(t, "lab-acct", cfg.Account)
	assert.Equal(t, "long", cfg.Partition)
	assert.Equal(t, "user@example.edu", cfg.MailUser)
}

func TestScript(t *testing.T) {
	cfg := Config{
		JobName:   "build-manifest-gut16s",
		Account:   "lab-acct",
		Partition: "long",
		MailUser:  "user@example.edu",
		CPUs:      8,
		Memory:    "16G",
		Time:      "24:00:00",
		WorkDir:   "/scratch/gut16s",
		Output:    "/scratch/gut16s/build.log",
	}
	script, err := Script(cfg, "build-manifest -name gut16s")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(script, "#!/bin/bash\n"))
	for _, want := range []string{
		"#SBATCH --job-name build-manifest-gut16s",
		"#SBATCH --ntasks 1",
		"#SBATCH --account lab-acct",
		"#SBATCH --partition long",
		"#SBATCH --cpus-per-task 8",
		"#SBATCH --mem 16G",
		"#SBATCH --time 24:00:00",
		"#SBATCH --output /scratch/gut16s/build.log",
		"#SBATCH --mail-user user@example.edu",
		"#SBATCH --mail-type END,FAIL",
		"cd /scratch/gut16s || exit 1",
	} {
		assert.Contains(t, script, want+"\n")
	}
	assert.True(t, strings.HasSuffix(script, "build-manifest -name gut16s\n"))
}

// Unset scheduler values must not produce empty #SBATCH directives.
func TestScriptMinimal(t *testing.T) {
	script, err := Script(Config{JobName: "j"}, "true")
	require.NoError(t, err)

	assert.NotContains(t, script, "--account")
	assert.NotContains(t, script, "--partition")
	assert.NotContains(t, script, "--cpus-per-task")
	assert.NotContains(t, script, "--mem")
	assert.NotContains(t, script, "--time")
	assert.NotContains(t, script, "--mail-user")
	assert.NotContains(t, script, "cd ")
	assert.Contains(t, script, "#SBATCH --job-name j\n")
	assert.True(t, strings.HasSuffix(script, "true\n"))
}

func TestScriptValidation(t *testing.T) {
	_, err := Script(Config{}, "true")
	require.Error(t, err)

	_, err = Script(Config{JobName: "j"}, "")
	require.Error(t, err)
}
