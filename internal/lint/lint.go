// Copyright 2024 The Chromium OS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package lint implements the core part of cclint.
package lint

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"code.cloudfoundry.org/clock"
	"github.com/schollz/progressbar/v3"
	"github.com/shirou/gopsutil/v3/cpu"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"cclint/internal/check"
	"cclint/internal/config"
	"cclint/internal/git"
)

// validExtensions are the file extensions checked by the linter.
var validExtensions = map[string]bool{
	".c":   true,
	".cc":  true,
	".cpp": true,
	".cxx": true,
	".c++": true,
	".cu":  true,
	".h":   true,
	".hh":  true,
	".hpp": true,
	".hxx": true,
	".h++": true,
	".cuh": true,
}

// Options configures a lint run.
type Options struct {
	// Commit is the hash of a Git commit to check. If empty, the working
	// tree is checked.
	Commit string

	// Paths are the files to check. If empty, the files changed in Commit
	// are checked, or the whole checkout when Commit is also empty.
	Paths []string

	// Verbose is the minimum confidence of issues to surface. If zero,
	// the per-directory configuration decides, defaulting to 1.
	Verbose int

	// Filters are category filters applied after the configured ones.
	Filters []string

	// DisallowMacros overrides the recognized constructor suppression
	// macro names.
	DisallowMacros []string

	// Progress, if non-nil, receives a progress bar during the run.
	Progress io.Writer

	// Logger receives debug logs. If nil, logs are discarded.
	Logger *zap.Logger

	// Clock is used to measure the run. If nil, the system clock is used.
	Clock clock.Clock
}

// Results holds the outcome of a lint run.
type Results struct {
	// Issues are the issues at or above the confidence threshold.
	Issues []*check.Issue

	// Hidden is the number of issues suppressed by the confidence
	// threshold.
	Hidden int
}

// ErrNoTarget is returned by Run when there was no file to check.
var ErrNoTarget = errors.New("no file to check")

// getTargetFiles returns the list of files to check according to opts.
func getTargetFiles(g *git.Git, deltaPath string, paths []string) ([]git.CommitFile, error) {
	if len(paths) == 0 {
		// If a commit is set, check the files it changed.
		if g.Commit != "" {
			return g.ChangedFiles()
		}

		// Otherwise, treat as if all files in the checkout were specified.
		if err := filepath.Walk(".", func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.Mode()&os.ModeType != 0 {
				// Skip non-regular files.
				return nil
			}
			paths = append(paths, path)
			return nil
		}); err != nil {
			return nil, err
		}
	}

	currAbs, err := filepath.Abs(".")
	if err != nil {
		return nil, err
	}
	var files []git.CommitFile
	for _, p := range paths {
		// Absolute arguments are made relative to the git root.
		if filepath.IsAbs(p) {
			p = filepath.Join(".", strings.TrimPrefix(p, currAbs))
		} else {
			p = filepath.Join(".", deltaPath, p)
		}
		files = append(files, git.CommitFile{Status: git.Modified, Path: p})
	}
	return files, nil
}

// navigateGitRoot changes the current directory to the git root directory
// and returns the path difference between the two directories.
func navigateGitRoot() (string, error) {
	// Relative path of the top-level directory relative to the current
	// directory (typically a sequence of "../", or an empty string).
	cmd := exec.Command("git", "rev-parse", "--show-cdup")
	cmd.Stderr = os.Stderr
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to locate git root: git rev-parse --show-cdup: %v", err)
	}

	gitRoot, err := filepath.Abs(strings.TrimRight(string(out), "\n"))
	if err != nil {
		return "", err
	}
	currDir, err := filepath.Abs(".")
	if err != nil {
		return "", err
	}
	deltaPath, err := filepath.Rel(gitRoot, currDir)
	if err != nil {
		return "", err
	}
	return deltaPath, os.Chdir(gitRoot)
}

// configCache loads per-directory configuration at most once per
// directory.
type configCache struct {
	mu   sync.Mutex
	cfgs map[string]*config.Config
}

func (c *configCache) forDir(dir string) (*config.Config, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cfg, ok := c.cfgs[dir]; ok {
		return cfg, nil
	}
	cfg, err := config.Find(dir)
	if err != nil {
		return nil, err
	}
	if c.cfgs == nil {
		c.cfgs = make(map[string]*config.Config)
	}
	c.cfgs[dir] = cfg
	return cfg, nil
}

// workerCount decides how many files to check concurrently.
func workerCount(logger *zap.Logger) int {
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		logger.Debug("Failed to query CPU count", zap.Error(err))
		return runtime.NumCPU()
	}
	return n
}

// checkFile checks a single file and splits the result by the confidence
// threshold.
func checkFile(path string, data []byte, cfg *config.Config, opts *Options) ([]*check.Issue, int) {
	macros := opts.DisallowMacros
	if len(macros) == 0 {
		macros = cfg.DisallowMacros
	}
	issues := check.ClassStructure(path, data, &check.Options{DisallowMacros: macros})
	sup, supIssues := check.ParseSuppressions(path, data)
	issues = append(issues, supIssues...)
	issues = check.DropSuppressedIssues(issues, sup)

	filters := append(append([]string(nil), cfg.Filters...), opts.Filters...)
	issues = check.FilterIssues(issues, 1, filters)

	verbose := opts.Verbose
	if verbose == 0 {
		verbose = cfg.Verbose
	}
	visible := check.FilterIssues(issues, verbose, nil)
	return visible, len(issues) - len(visible)
}

// checkAll runs the checks against paths in parallel.
func checkAll(g *git.Git, paths []git.CommitFile, opts *Options, logger *zap.Logger) (*Results, error) {
	var targets []git.CommitFile
	for _, path := range paths {
		if path.Status == git.Deleted || path.Status == git.TypeChanged ||
			path.Status == git.Unmerged || path.Status == git.Unknown {
			continue
		}
		if !validExtensions[strings.ToLower(filepath.Ext(path.Path))] {
			continue
		}
		if s, err := g.IsSymlink(path.Path); err != nil {
			return nil, err
		} else if s {
			continue
		}
		targets = append(targets, path)
	}
	if len(targets) == 0 {
		return nil, ErrNoTarget
	}

	var bar *progressbar.ProgressBar
	if opts.Progress != nil {
		bar = progressbar.NewOptions(len(targets),
			progressbar.OptionSetWriter(opts.Progress),
			progressbar.OptionSetDescription("cclint"),
			progressbar.OptionOnCompletion(func() { fmt.Fprintln(opts.Progress) }))
	}

	cache := &configCache{}

	// Check files in parallel. Results are collected per file to keep
	// the output order independent of scheduling.
	var mux sync.Mutex // guards fileIssues and hidden
	fileIssues := make([][]*check.Issue, len(targets))
	hidden := 0

	var eg errgroup.Group
	eg.SetLimit(workerCount(logger))
	for i, path := range targets {
		i, path := i, path
		eg.Go(func() error {
			if bar != nil {
				// Skipped files count too, or the bar never finishes.
				defer bar.Add(1)
			}
			cfg, err := cache.forDir(filepath.Dir(path.Path))
			if err != nil {
				return err
			}
			if cfg.Excluded(path.Path) {
				logger.Debug("Skipping excluded file", zap.String("path", path.Path))
				return nil
			}
			data, err := g.ReadFile(path.Path)
			if err != nil {
				return err
			}
			logger.Debug("Checking file", zap.String("path", path.Path))
			issues, h := checkFile(path.Path, data, cfg, opts)
			mux.Lock()
			fileIssues[i] = issues
			hidden += h
			mux.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	res := &Results{Hidden: hidden}
	for _, issues := range fileIssues {
		res.Issues = append(res.Issues, issues...)
	}
	return res, nil
}

// Run runs lint checks and returns found issues without printing them.
func Run(opts *Options) (*Results, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.NewClock()
	}
	start := clk.Now()

	// Change the current directory to the Git root directory to aid the
	// operations of the git package.
	deltaPath, err := navigateGitRoot()
	if err != nil {
		return nil, err
	}

	g := git.New(".", opts.Commit)

	files, err := getTargetFiles(g, deltaPath, opts.Paths)
	if err != nil {
		return nil, err
	}

	res, err := checkAll(g, files, opts, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("Finished lint run",
		zap.Int("files", len(files)),
		zap.Int("issues", len(res.Issues)),
		zap.Int("hidden", res.Hidden),
		zap.Duration("elapsed", clk.Since(start)))
	return res, nil
}
