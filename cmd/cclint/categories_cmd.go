// Copyright 2024 The Chromium OS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/google/subcommands"

	"cclint/internal/check"
)

// categoriesCmd implements subcommands.Command to list issue categories.
type categoriesCmd struct {
	stdout io.Writer
}

var _ = subcommands.Command(&categoriesCmd{})

func newCategoriesCmd(stdout io.Writer) *categoriesCmd {
	return &categoriesCmd{stdout: stdout}
}

func (*categoriesCmd) Name() string     { return "categories" }
func (*categoriesCmd) Synopsis() string { return "list issue categories" }
func (*categoriesCmd) Usage() string {
	return `Usage: categories

Description:
    List the issue categories reported by the check command. Category
    names can be used with the -filter flag and in NOLINT comments.
`
}

func (*categoriesCmd) SetFlags(f *flag.FlagSet) {}

func (cc *categoriesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	for _, c := range check.Categories {
		fmt.Fprintln(cc.stdout, c)
	}
	return subcommands.ExitSuccess
}
