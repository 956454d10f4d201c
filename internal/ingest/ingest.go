package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"go.uber.org/zap"

	"github.com/sujikathir/gdev/pkg/types"
)

const (
	maxFileBytes = 100 * 1024
	maxFiles     = 200
)

// Ingester builds lightweight textual snapshots of repositories via a
// shallow clone. Snapshot is total: any failure or timeout yields the stub
// snapshot instead of an error, so the analyzer always has something to
// work with.
type Ingester struct {
	baseURL string
	token   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewIngester creates an ingester. token may be empty for public
// repositories.
func NewIngester(token string, timeout time.Duration, logger *zap.Logger) *Ingester {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Ingester{
		baseURL: "https://github.com",
		token:   token,
		timeout: timeout,
		logger:  logger,
	}
}

// Snapshot captures a summary, rendered file tree, and per-file content for
// a repository.
func (g *Ingester) Snapshot(ctx context.Context, owner, repo string) types.RepositorySnapshot {
	repoName := owner + "/" + repo

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	snap, err := g.ingest(ctx, owner, repo)
	if err != nil {
		g.logger.Warn("repository ingest failed, using stub snapshot",
			zap.String("repository", repoName),
			zap.Error(err),
		)
		return StubSnapshot(repoName)
	}
	return snap
}

func (g *Ingester) ingest(ctx context.Context, owner, repo string) (types.RepositorySnapshot, error) {
	repoName := owner + "/" + repo

	dir, err := os.MkdirTemp("", "gdev_ingest_")
	if err != nil {
		return types.RepositorySnapshot{}, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(dir)

	if _, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:          g.cloneURL(owner, repo),
		Depth:        1,
		SingleBranch: true,
	}); err != nil {
		return types.RepositorySnapshot{}, fmt.Errorf("failed to clone repository: %w", err)
	}

	content := map[string]string{}
	var tree []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if len(tree) >= maxFiles {
			return filepath.SkipAll
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		tree = append(tree, rel)

		info, err := d.Info()
		if err != nil || info.Size() > maxFileBytes {
			// oversize files stay in the tree but not in content
			return nil
		}
		b, err := os.ReadFile(path)
		if err != nil || bytes.IndexByte(b, 0) >= 0 {
			return nil
		}
		content[rel] = string(b)
		return nil
	})
	if err != nil {
		return types.RepositorySnapshot{}, fmt.Errorf("failed to walk clone: %w", err)
	}

	sort.Strings(tree)
	return types.RepositorySnapshot{
		RepositoryName: repoName,
		Summary:        fmt.Sprintf("Repository %s (%d files)", repoName, len(tree)),
		Tree:           strings.Join(tree, "\n"),
		Content:        content,
	}, nil
}

func (g *Ingester) cloneURL(owner, repo string) string {
	if g.token != "" {
		host := strings.TrimPrefix(g.baseURL, "https://")
		return fmt.Sprintf("https://%s@%s/%s/%s.git", g.token, host, owner, repo)
	}
	return fmt.Sprintf("%s/%s/%s.git", g.baseURL, owner, repo)
}

// StubSnapshot is the fixed fallback returned when live ingestion is
// unavailable.
func StubSnapshot(repoName string) types.RepositorySnapshot {
	return types.RepositorySnapshot{
		RepositoryName: repoName,
		Summary:        fmt.Sprintf("Repository %s (fallback mode)", repoName),
		Tree:           "README.md",
		Content: map[string]string{
			"README.md": fmt.Sprintf("# %s\n\nRepository content not available in fallback mode.", repoName),
		},
	}
}
