package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/razzo04/rhasspy-skills/internal/logger"
)

// Resolver locates a skill folder inside a set of repositories cloned into a
// Cache.
type Resolver struct {
	cache  *Cache
	cloner Cloner
}

// NewResolver creates a Resolver cloning into cache.
func NewResolver(cache *Cache, cloner Cloner) *Resolver {
	return &Resolver{cache: cache, cloner: cloner}
}

// RepoName derives the local folder name of a repository reference: its last
// path segment without a ".git" suffix.
func RepoName(ref string) string {
	ref = strings.TrimRight(strings.TrimSpace(ref), "/")
	if i := strings.LastIndexAny(ref, "/:"); i >= 0 {
		ref = ref[i+1:]
	}
	ref = strings.TrimSuffix(ref, ".git")
	if ref == "" {
		return "repo"
	}
	return ref
}

// RepoDirNames derives folder names for refs in order. Repeated names get
// "-2", "-3", ... suffixes so that no two refs share a clone.
func RepoDirNames(refs []string) []string {
	seen := make(map[string]int, len(refs))
	names := make([]string, len(refs))
	for i, ref := range refs {
		name := RepoName(ref)
		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s-%d", name, n)
		}
		names[i] = name
	}
	return names
}

// Resolve clones every repository and returns the path of the first folder
// named skillName, scanning repositories in order. Clone failures do not stop
// resolution; they are returned only when no repository contains the skill.
// found is false with a nil error when every clone succeeded and none of them
// contains the skill.
func (r *Resolver) Resolve(ctx context.Context, skillName string, repositories []string) (path string, found bool, err error) {
	if skillName == "" || strings.ContainsAny(skillName, `/\`) || skillName == "." || skillName == ".." {
		return "", false, errors.Errorf("invalid skill name %q", skillName)
	}
	if len(repositories) == 0 {
		return "", false, errors.New("no repositories configured")
	}

	log := logger.G(ctx).WithField("skill", skillName)
	names := RepoDirNames(repositories)
	cloned := make([]bool, len(repositories))
	failures := &multierror.Error{ErrorFormat: formatFailures}

	for i, repo := range repositories {
		if err := ctx.Err(); err != nil {
			return "", false, err
		}
		dir := r.cache.Dir(names[i])
		if err := r.fetch(ctx, repo, dir); err != nil {
			if ctx.Err() != nil {
				return "", false, ctx.Err()
			}
			log.WithError(err).WithField("repo", repo).Warn("repository unavailable")
			failures = multierror.Append(failures, errors.Wrapf(err, "repository %s", repo))
			continue
		}
		cloned[i] = true
	}

	for i, repo := range repositories {
		if !cloned[i] {
			continue
		}
		dir := r.cache.Dir(names[i])
		entries, err := os.ReadDir(dir)
		if err != nil {
			return "", false, errors.Wrapf(err, "reading repository %s", repo)
		}
		for _, e := range entries {
			if e.IsDir() && e.Name() == skillName {
				skillPath := filepath.Join(dir, e.Name())
				log.WithField("repo", repo).WithField("path", skillPath).Debug("skill resolved")
				return skillPath, true, nil
			}
		}
		log.WithField("repo", repo).Debug("skill not in repository")
	}

	if err := failures.ErrorOrNil(); err != nil {
		return "", false, err
	}
	return "", false, nil
}

func formatFailures(errs []error) string {
	if len(errs) == 1 {
		return errs[0].Error()
	}
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d repositories failed: %s", len(errs), strings.Join(msgs, "; "))
}

func (r *Resolver) fetch(ctx context.Context, repo, dir string) error {
	if r.cache.Retained() && dirExists(filepath.Join(dir, ".git")) {
		logger.G(ctx).WithField("repo", repo).Debug("updating cached clone")
		return r.cloner.Update(ctx, dir)
	}
	if err := removeAllForce(dir); err != nil {
		return err
	}
	logger.G(ctx).WithField("repo", repo).WithField("dir", dir).Debug("cloning repository")
	return r.cloner.Clone(ctx, repo, dir)
}
