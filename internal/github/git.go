package github

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"go.uber.org/zap"
)

// Clone clones url into dir.
func (c *Client) Clone(ctx context.Context, dir, url string) error {
	_, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL: url,
	})
	if err != nil {
		return fmt.Errorf("failed to clone repository: %w", err)
	}
	c.logger.Info("cloned repository", zap.String("path", dir))
	return nil
}

// SetOrigin forces the origin remote of the clone at dir to url. The clone
// already points origin there; this guards against redirects.
func (c *Client) SetOrigin(dir, url string) error {
	r, err := git.PlainOpen(dir)
	if err != nil {
		return fmt.Errorf("failed to open repository: %w", err)
	}
	if err := r.DeleteRemote("origin"); err != nil && !errors.Is(err, git.ErrRemoteNotFound) {
		return fmt.Errorf("failed to remove origin remote: %w", err)
	}
	if _, err := r.CreateRemote(&gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{url},
	}); err != nil {
		return fmt.Errorf("failed to set origin remote: %w", err)
	}
	return nil
}
