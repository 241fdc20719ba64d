// Copyright 2024 The Chromium OS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package git reads files from a Git working tree or commit.
package git

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Git is a thin wrapper of the git command line tool allowing to access
// files in Git history.
type Git struct {
	// Dir is the root directory of a Git repository.
	Dir string

	// Commit is the hash of a commit to operate on. If empty, it operates
	// on the working tree.
	Commit string
}

// New creates a Git object operating on a commit identified by commit.
// If commit is empty, it operates on the working tree.
func New(dir, commit string) *Git {
	return &Git{
		Dir:    dir,
		Commit: commit,
	}
}

// CommitStatus represents the status of a changed file.
type CommitStatus int

// Statuses reported by git diff-tree --name-status.
const (
	Added CommitStatus = iota
	Copied
	Deleted
	Modified
	Renamed
	TypeChanged
	Unmerged
	Unknown
)

// CommitFile is a tuple of commit status and file path.
type CommitFile struct {
	Status CommitStatus
	Path   string
}

var statusLetters = map[string]CommitStatus{
	"A": Added,
	"C": Copied,
	"D": Deleted,
	"M": Modified,
	"R": Renamed,
	"T": TypeChanged,
	"U": Unmerged,
}

// ChangedFiles returns the files changed in the commit, with their
// commit statuses.
func (g *Git) ChangedFiles() ([]CommitFile, error) {
	if g.Commit == "" {
		return nil, errors.New("ChangedFiles needs explicit commit")
	}
	// TODO: this does not work for the first, no-parent commit.
	cmd := exec.Command("git", "diff-tree", "--no-commit-id", "-r", "--name-status", g.Commit)
	cmd.Dir = g.Dir
	out, err := cmd.Output()
	if err != nil {
		return nil, err
	}
	var files []CommitFile
	for _, s := range strings.Split(strings.TrimRight(string(out), "\n"), "\n") {
		parts := strings.Split(s, "\t")
		if len(parts) != 2 {
			continue
		}
		status, ok := statusLetters[parts[0]]
		if !ok {
			status = Unknown
		}
		files = append(files, CommitFile{status, parts[1]})
	}
	return files, nil
}

// IsSymlink returns whether the path is a symlink.
func (g *Git) IsSymlink(path string) (bool, error) {
	if g.Commit == "" {
		s, err := os.Lstat(filepath.Join(g.Dir, path))
		if err != nil {
			return false, err
		}
		return s.Mode()&os.ModeSymlink != 0, nil
	}
	cmd := exec.Command("git", "ls-tree", g.Commit, path)
	cmd.Dir = g.Dir

	b, err := cmd.Output()
	if err != nil {
		return false, err
	}
	es := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(es) != 1 {
		return false, fmt.Errorf("%s matches %d files; want exactly one match", path, len(es))
	}
	return strings.SplitN(es[0], " ", 2)[0] == "120000", nil
}

// ReadFile returns the content of a file at the commit.
func (g *Git) ReadFile(path string) ([]byte, error) {
	if g.Commit == "" {
		return os.ReadFile(filepath.Join(g.Dir, path))
	}

	// "--batch=" means an empty format: skip the object information and
	// return just the content.
	cmd := exec.Command("git", "cat-file", "--batch=", "--follow-symlinks")
	cmd.Dir = g.Dir
	cmd.Stdin = strings.NewReader(fmt.Sprintf("%s:%s", g.Commit, path))
	b, err := cmd.Output()
	if err != nil {
		return nil, err
	}

	lf := []byte{'\n'}
	if !bytes.HasPrefix(b, lf) {
		msg := strings.Split(string(b), "\n")[0]
		return nil, fmt.Errorf("git cat-file failed: %s", msg)
	}
	// The content is surrounded by LFs.
	return bytes.TrimSuffix(bytes.TrimPrefix(b, lf), lf), nil
}

// ListDir lists files under a directory at the commit.
func (g *Git) ListDir(dir string) ([]string, error) {
	if g.Commit == "" {
		es, err := os.ReadDir(filepath.Join(g.Dir, dir))
		if err != nil {
			return nil, err
		}
		var names []string
		for _, e := range es {
			names = append(names, e.Name())
		}
		return names, nil
	}

	cmd := exec.Command("git", "ls-tree", "--name-only", fmt.Sprintf("%s:%s", g.Commit, dir))
	cmd.Dir = g.Dir
	out, err := cmd.Output()
	if err != nil {
		return nil, err
	}
	return strings.Split(strings.TrimRight(string(out), "\n"), "\n"), nil
}
