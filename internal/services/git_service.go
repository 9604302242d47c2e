package services

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"projectarchitect/internal/models"

	"github.com/go-git/go-git/v5"
	"github.com/rs/zerolog"
)

// MaxDiffChars caps the diff sent to the commit composer.
const MaxDiffChars = 10000

// CommandRunner runs an external command in dir and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) (string, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, msg)
		}
		return "", fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return string(out), nil
}

type GitService struct {
	runner CommandRunner
	logger zerolog.Logger
}

func NewGitService(logger zerolog.Logger) *GitService {
	return NewGitServiceWithRunner(execRunner{}, logger)
}

func NewGitServiceWithRunner(runner CommandRunner, logger zerolog.Logger) *GitService {
	return &GitService{runner: runner, logger: logger}
}

// Open finds the repository containing path, walking up parent directories.
func (g *GitService) Open(path string) (*git.Repository, error) {
	if path == "" {
		return nil, fmt.Errorf("repository path cannot be empty")
	}
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("not a valid git repository: %w", err)
	}
	return repo, nil
}

// RepositoryRoot returns the worktree root of the repository containing dir.
func (g *GitService) RepositoryRoot(dir string) (string, error) {
	repo, err := g.Open(dir)
	if err != nil {
		return "", err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to get worktree: %w", err)
	}
	return wt.Filesystem.Root(), nil
}

// HeadSummary describes HEAD as "<branch>@<short hash>". A repository
// without commits reports "(no commits)".
func (g *GitService) HeadSummary(dir string) (string, error) {
	repo, err := g.Open(dir)
	if err != nil {
		return "", err
	}
	ref, err := repo.Head()
	if err != nil {
		return "(no commits)", nil
	}
	name := ref.Name().Short()
	if !ref.Name().IsBranch() {
		name = "HEAD"
	}
	return fmt.Sprintf("%s@%s", name, ref.Hash().String()[:7]), nil
}

// CollectDiff returns the staged diff, or the diff against HEAD when
// nothing is staged. Either tier failing is treated as empty. The second
// return value is false when neither tier produced changes.
func (g *GitService) CollectDiff(ctx context.Context, dir string) (models.DiffPayload, bool) {
	tiers := []struct {
		source models.DiffSource
		args   []string
	}{
		{models.DiffStaged, []string{"diff", "--cached"}},
		{models.DiffWorking, []string{"diff", "HEAD"}},
	}

	for _, tier := range tiers {
		out, err := g.runner.Run(ctx, dir, "git", tier.args...)
		if err != nil {
			g.logger.Debug().Err(err).Str("tier", string(tier.source)).Msg("diff tier failed")
			continue
		}
		if strings.TrimSpace(out) == "" {
			continue
		}
		text, truncated := TruncateDiff(out)
		g.logger.Debug().
			Str("tier", string(tier.source)).
			Int("chars", len([]rune(out))).
			Bool("truncated", truncated).
			Msg("diff collected")
		return models.DiffPayload{Text: text, Source: tier.source, Truncated: truncated}, true
	}
	return models.DiffPayload{}, false
}

// TruncateDiff keeps the first MaxDiffChars characters and appends the
// truncation marker when anything was cut.
func TruncateDiff(diff string) (string, bool) {
	return Excerpt(diff, MaxDiffChars)
}

// Commit records the staged changes of the repository containing dir with
// message. Author and committer come from git config.
func (g *GitService) Commit(dir, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", fmt.Errorf("commit message cannot be empty")
	}
	repo, err := g.Open(dir)
	if err != nil {
		return "", err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to get worktree: %w", err)
	}
	hash, err := wt.Commit(message, &git.CommitOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to commit: %w", err)
	}
	return hash.String(), nil
}
