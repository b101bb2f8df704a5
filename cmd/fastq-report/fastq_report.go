// Copyright ©2025 The qiime-pipes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// fastq-report summarises the converted read files of a project and
// renders a read length histogram for quick review before the
// downstream pipeline is started.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/s-huebler/qiime-pipes/reads"
)

var (
	dir  = flag.String("dir", "", "directory holding converted read files (required)")
	ext  = flag.String("ext", "fastq", "read file extension")
	out  = flag.String("out", "read_lengths.png", "histogram file name: eps, jpg, jpeg, pdf, png, svg, and tiff supported; empty suppresses the plot")
	bins = flag.Int("bins", 30, "number of histogram bins")
)

func init() {
	flag.Parse()
	if *dir == "" {
		flag.Usage()
		os.Exit(1)
	}
	if *out == "" {
		return
	}
	format := strings.TrimPrefix(filepath.Ext(*out), ".")
	for _, s := range []string{"eps", "jpg", "jpeg", "pdf", "png", "svg", "tiff"} {
		if format == s {
			return
		}
	}
	flag.Usage()
	os.Exit(1)
}

func main() {
	entries, err := os.ReadDir(*dir)
	if err != nil {
		log.Fatalf("failed to read %q: %v", *dir, err)
	}

	var all plotter.Values
	fmt.Println("file\treads\tmean_length\tmin_length\tmax_length")
	for _, e := range entries {
		if e.IsDir() || !isReadFile(e.Name(), *ext) {
			continue
		}
		path := filepath.Join(*dir, e.Name())
		s, err := reads.StatsFor(path)
		if err != nil {
			log.Fatalf("failed stats for %q: %v", path, err)
		}
		fmt.Printf("%s\t%d\t%.1f\t%d\t%d\n", e.Name(), s.Reads, s.MeanLength, s.MinLength, s.MaxLength)

		if *out != "" {
			lengths, err := reads.Lengths(path)
			if err != nil {
				log.Fatalf("failed to read %q: %v", path, err)
			}
			all = append(all, lengths...)
		}
	}

	if *out == "" {
		return
	}
	if len(all) == 0 {
		log.Fatalf("no read files matching %q under %q", "*_{1,2}."+*ext, *dir)
	}
	if err := plotLengths(all, *bins, *out); err != nil {
		log.Fatalf("failed to render histogram: %v", err)
	}
	log.Printf("wrote read length histogram to %q", *out)
}

// isReadFile reports whether name looks like a converted mate file.
func isReadFile(name, ext string) bool {
	for _, tag := range []string{"_1.", "_2."} {
		if strings.HasSuffix(name, tag+ext) || strings.HasSuffix(name, tag+ext+".gz") {
			return true
		}
	}
	return false
}

// plotLengths renders a histogram of read lengths to file.
func plotLengths(lengths plotter.Values, bins int, file string) error {
	p, err := plot.New()
	if err != nil {
		return err
	}
	p.Title.Text = "Read length distribution"
	p.X.Label.Text = "length (bp)"
	p.Y.Label.Text = "reads"

	h, err := plotter.NewHist(lengths, bins)
	if err != nil {
		return err
	}
	p.Add(h)

	return p.Save(6*vg.Inch, 4*vg.Inch, file)
}
