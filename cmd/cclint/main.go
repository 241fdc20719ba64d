// Copyright 2024 The Chromium OS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package main implements the cclint executable, used to check the
// structure of C++ class, struct and namespace blocks.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/subcommands"
)

const (
	signalChannelSize = 3 // capacity of channel used to intercept signals
)

// Version is the version info of this command. It is filled in during the
// build.
var Version = "<unknown>"

// installSignalHandler starts a goroutine that attempts to do some
// minimal cleanup when the process is being terminated by a signal (which
// prevents deferred functions from running).
func installSignalHandler() {
	sc := make(chan os.Signal, signalChannelSize)
	go func() {
		for sig := range sc {
			fmt.Fprintf(os.Stdout, "\nCaught %v signal; exiting\n", sig)
			os.Exit(1)
		}
	}()
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM)
}

// doMain implements the main body of the program. It's a separate
// function so that its deferred functions will run before os.Exit makes
// the program exit immediately.
func doMain() int {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(newCheckCmd(os.Stdout), "")
	subcommands.Register(newCategoriesCmd(os.Stdout), "")

	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Printf("cclint version %s\n", Version)
		return 0
	}

	installSignalHandler()

	return int(subcommands.Execute(context.Background()))
}

func main() {
	os.Exit(doMain())
}
