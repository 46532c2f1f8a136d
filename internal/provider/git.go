package provider

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/huangsam/repoviz/internal/contract"
	"github.com/huangsam/repoviz/schema"
	"github.com/stretchr/testify/mock"
)

// GitRunner executes git commands against a repository on disk.
// This allows the mirror provider to be tested without a real git executable.
type GitRunner interface {
	// Run executes a git command and returns its stdout.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)
}

// LocalGitRunner implements GitRunner with the local 'git' binary.
type LocalGitRunner struct{}

var _ GitRunner = &LocalGitRunner{} // Compile-time check

// NewLocalGitRunner creates a new instance of the local git runner.
func NewLocalGitRunner() *LocalGitRunner {
	return &LocalGitRunner{}
}

// Run executes a git command and returns its stdout.
func (r *LocalGitRunner) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil, fmt.Errorf("git '%v' exit: %s", strings.Join(fullArgs, " "), strings.TrimSpace(string(exitErr.Stderr)))
	} else if err != nil {
		return nil, fmt.Errorf("git '%v' unknown: %w", strings.Join(fullArgs, " "), err)
	}
	return out, nil
}

// GitMirrorProvider reads repositories mirrored under a root directory laid
// out as <root>/<owner>/<repo> or <root>/<owner>/<repo>.git.
type GitMirrorProvider struct {
	root   string
	runner GitRunner
}

var _ contract.AccessProvider = &GitMirrorProvider{} // Compile-time check

// NewGitMirrorProvider creates a provider over the mirrors in root.
func NewGitMirrorProvider(root string, runner GitRunner) *GitMirrorProvider {
	return &GitMirrorProvider{root: root, runner: runner}
}

// ListEntries returns the blobs directly under loc.Path at the requested branch.
func (g *GitMirrorProvider) ListEntries(ctx context.Context, loc schema.RepositoryLocator) ([]string, error) {
	repoPath, err := g.repoPath(loc)
	if err != nil {
		return nil, contract.NewAccessError("list", loc.Path, err)
	}
	out, err := g.runner.Run(ctx, repoPath, "ls-tree", "-z", treeish(loc, loc.Path))
	if err != nil {
		return nil, contract.NewAccessError("list", loc.Path, err)
	}
	return parseLsTree(out, loc.Path), nil
}

// FetchContent returns the blob at path for the requested branch.
func (g *GitMirrorProvider) FetchContent(ctx context.Context, loc schema.RepositoryLocator, path string) (string, error) {
	repoPath, err := g.repoPath(loc)
	if err != nil {
		return "", contract.NewAccessError("fetch", path, err)
	}
	out, err := g.runner.Run(ctx, repoPath, "cat-file", "blob", treeish(loc, path))
	if err != nil {
		return "", contract.NewAccessError("fetch", path, err)
	}
	return string(out), nil
}

// ErrOutsideMirrorRoot is returned when a locator resolves outside the mirror root.
var ErrOutsideMirrorRoot = errors.New("repository is outside the mirror root")

// repoPath prefers a bare <repo>.git mirror when one exists.
// Owner and repo must each be a single path element below the root.
func (g *GitMirrorProvider) repoPath(loc schema.RepositoryLocator) (string, error) {
	for _, elem := range []string{loc.Owner, loc.Repo} {
		if elem == "" || elem == "." || elem == ".." || strings.ContainsAny(elem, `/\`) {
			return "", fmt.Errorf("%w: %q", ErrOutsideMirrorRoot, loc.Owner+"/"+loc.Repo)
		}
	}
	base := filepath.Join(g.root, loc.Owner, loc.Repo)
	rel, err := filepath.Rel(g.root, base)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrOutsideMirrorRoot, loc.Owner+"/"+loc.Repo)
	}
	if info, err := os.Stat(base + ".git"); err == nil && info.IsDir() {
		return base + ".git", nil
	}
	return base, nil
}

// treeish renders <ref>:<path>, using HEAD when no branch is given.
func treeish(loc schema.RepositoryLocator, path string) string {
	ref := "HEAD"
	if loc.HasBranch() {
		ref = loc.Branch
	}
	return ref + ":" + strings.Trim(path, "/")
}

// parseLsTree keeps blob entries from NUL-terminated ls-tree output.
// Each record is "<mode> <type> <object>\t<name>".
func parseLsTree(out []byte, dir string) []string {
	var paths []string
	for _, rec := range bytes.Split(out, []byte{0}) {
		if len(rec) == 0 {
			continue
		}
		meta, name, ok := strings.Cut(string(rec), "\t")
		if !ok {
			continue
		}
		fields := strings.Fields(meta)
		if len(fields) < 2 || fields[1] != "blob" {
			continue
		}
		paths = append(paths, joinPath(strings.Trim(dir, "/"), name))
	}
	if paths == nil {
		return []string{}
	}
	return paths
}

// MockGitRunner is a testify mock for GitRunner.
type MockGitRunner struct {
	mock.Mock
}

var _ GitRunner = &MockGitRunner{} // Compile-time check

// Run implements the GitRunner interface.
func (m *MockGitRunner) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	mockArgs := []any{ctx, repoPath}
	for _, arg := range args {
		mockArgs = append(mockArgs, arg)
	}
	ret := m.Called(mockArgs...)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}
