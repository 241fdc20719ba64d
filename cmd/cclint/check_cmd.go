// Copyright 2024 The Chromium OS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/google/subcommands"
	"go.uber.org/zap"

	"cclint/internal/check"
	"cclint/internal/lint"
	"cclint/internal/shutil"
)

// checkCmd implements subcommands.Command to run lint checks.
type checkCmd struct {
	commit   string // Git commit to check
	verbose  int    // minimum confidence of reported issues
	filter   string // comma-separated category filters
	macros   string // comma-separated disallow macro names
	noColor  bool   // disable colored output
	progress bool   // show a progress bar on stderr
	debug    bool   // enable debug logging
	stdout   io.Writer
}

var _ = subcommands.Command(&checkCmd{})

func newCheckCmd(stdout io.Writer) *checkCmd {
	return &checkCmd{stdout: stdout}
}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "check C++ files" }
func (*checkCmd) Usage() string {
	return `Usage: check [flag]... [path]...

Description:
    Check the structure of C++ class, struct and namespace blocks in the
    given files. With no paths, checks the files changed in -commit, or
    the whole checkout when -commit is not given either.

Flag:
`
}

func (cc *checkCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&cc.commit, "commit", "", "if set, checks files in the specified Git commit")
	f.IntVar(&cc.verbose, "verbose", 0, "minimum confidence of reported issues (1-5, 0 uses the configured value)")
	f.StringVar(&cc.filter, "filter", "", "comma-separated category filters, each prefixed with '+' or '-'")
	f.StringVar(&cc.macros, "macros", "", "comma-separated constructor suppression macro names")
	f.BoolVar(&cc.noColor, "nocolor", false, "disable colored output")
	f.BoolVar(&cc.progress, "progress", false, "show a progress bar on stderr")
	f.BoolVar(&cc.debug, "debug", false, "enable debug logging")
}

func (cc *checkCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if cc.noColor {
		color.NoColor = true
	}

	var filters []string
	if cc.filter != "" {
		filters = strings.Split(cc.filter, ",")
	}
	if err := check.ValidateFilters(filters); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return subcommands.ExitUsageError
	}
	if cc.verbose < 0 || cc.verbose > 5 {
		fmt.Fprintf(os.Stderr, "ERROR: -verbose must be between 0 and 5\n")
		return subcommands.ExitUsageError
	}

	logger := zap.NewNop()
	if cc.debug {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			return subcommands.ExitFailure
		}
		logger = l
		defer logger.Sync()
	}

	var macros []string
	if cc.macros != "" {
		macros = strings.Split(cc.macros, ",")
	}
	if err := check.ValidateMacros(macros); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return subcommands.ExitUsageError
	}

	opts := &lint.Options{
		Commit:         cc.commit,
		Paths:          f.Args(),
		Verbose:        cc.verbose,
		Filters:        filters,
		DisallowMacros: macros,
		Logger:         logger,
	}
	if cc.progress && !cc.debug {
		opts.Progress = os.Stderr
	}

	res, err := lint.Run(opts)
	if err == lint.ErrNoTarget {
		fmt.Fprintln(cc.stdout, "No C++ files to check.")
		return subcommands.ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return subcommands.ExitFailure
	}

	cc.report(f, res)
	if len(res.Issues) > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// report prints issues and pointers for fixing them.
func (cc *checkCmd) report(f *flag.FlagSet, res *lint.Results) {
	check.SortIssues(res.Issues)

	errColor := color.New(color.FgRed)
	warnColor := color.New(color.FgYellow)
	for _, i := range res.Issues {
		c := warnColor
		if i.Confidence >= 4 {
			c = errColor
		}
		fmt.Fprintln(cc.stdout, " ", c.Sprint(i))
	}

	linkSet := make(map[string]struct{})
	for _, i := range res.Issues {
		if i.Link != "" {
			linkSet[i.Link] = struct{}{}
		}
	}
	if len(linkSet) > 0 {
		var links []string
		for link := range linkSet {
			links = append(links, link)
		}
		sort.Strings(links)

		fmt.Fprintln(cc.stdout)
		fmt.Fprintln(cc.stdout, " ", "Refer to the following documents for details:")
		for _, link := range links {
			fmt.Fprintln(cc.stdout, "  ", link)
		}
	}

	if res.Hidden > 0 {
		cmd := append([]string{os.Args[0], cc.Name(), "-verbose", "1"}, f.Args()...)
		fmt.Fprintln(cc.stdout)
		fmt.Fprintf(cc.stdout, "  %d lower-confidence issues were not shown; run `%s` to see them\n",
			res.Hidden, shutil.EscapeSlice(cmd))
	}
}
