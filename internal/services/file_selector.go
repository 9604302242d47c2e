package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"projectarchitect/internal/events"
	"projectarchitect/internal/models"
	"projectarchitect/internal/utils"

	"github.com/rs/zerolog"
	ignore "github.com/sabhiram/go-gitignore"
	"github.com/yargevad/filepathx"
)

// IgnoreFileName holds extra exclusion rules read from each root.
const IgnoreFileName = ".architectignore"

var (
	// DefaultExtensions are the file types the selector admits.
	DefaultExtensions = []string{
		"ts", "tsx", "js", "jsx", "py", "java", "go", "rs",
		"json", "md", "yml", "yaml", "sql", "prisma",
	}
	// DefaultExcludedDirs are pruned wherever they appear in the tree.
	DefaultExcludedDirs = []string{
		".git", "node_modules", "dist", "build", ".next", "venv", "__pycache__",
	}
)

var configurationMarkers = []string{
	"package.json",
	"tsconfig",
	"docker",
	"readme",
	"prisma",
	".env.example",
	"requirements.txt",
	"go.mod",
	"cargo.toml",
}

var codeSampleMarkers = []string{
	"/controller",
	"/route",
	"/api/",
	"/service",
	"/usecase",
	"/handler",
	"/model",
	"/entity",
	"/schema",
	"/repository",
	"/dao",
}

var entryPointNames = map[string]bool{
	"index":  true,
	"main":   true,
	"app":    true,
	"server": true,
}

// FileSelectorOptions tunes discovery. Zero values fall back to the
// defaults above.
type FileSelectorOptions struct {
	Extensions   []string
	ExcludedDirs []string

	// ExtraPatterns are doublestar globs evaluated relative to each root.
	ExtraPatterns []string

	// IgnoreVCSRules disables .gitignore and .architectignore handling.
	IgnoreVCSRules bool
}

// FileSelector enumerates workspace files that are worth describing.
type FileSelector struct {
	opts   FileSelectorOptions
	logger zerolog.Logger
}

func NewFileSelector(opts FileSelectorOptions, logger zerolog.Logger) *FileSelector {
	if len(opts.Extensions) == 0 {
		opts.Extensions = DefaultExtensions
	}
	if len(opts.ExcludedDirs) == 0 {
		opts.ExcludedDirs = DefaultExcludedDirs
	}
	return &FileSelector{opts: opts, logger: logger}
}

// Select walks every root and returns the admitted files, classified and
// sorted by relative path.
func (s *FileSelector) Select(ctx context.Context, ws models.Workspace) ([]models.FileHandle, error) {
	if len(ws.Roots) == 0 {
		return nil, ErrNoWorkspace
	}

	include := s.includeMatcher()
	exclude := s.excludeMatcher()
	seen := make(map[string]bool)
	var files []models.FileHandle

	for _, root := range ws.Roots {
		prefix := ""
		if len(ws.Roots) > 1 {
			prefix = filepath.Base(root) + "/"
		}
		rules := s.rootRules(root)

		add := func(abs, rel string) {
			if seen[abs] {
				return
			}
			seen[abs] = true
			files = append(files, models.FileHandle{
				Path:         abs,
				RelativePath: prefix + rel,
				Bucket:       Classify(rel),
			})
		}

		err := filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if walkErr != nil {
				s.logger.Debug().Err(walkErr).Str("path", p).Msg("skipping unreadable path")
				if d != nil && d.IsDir() && p != root {
					return filepath.SkipDir
				}
				return nil
			}
			rel, err := filepath.Rel(root, p)
			if err != nil || rel == "." {
				return nil
			}
			rel = filepath.ToSlash(rel)

			if d.IsDir() {
				if exclude.MatchesPath(rel+"/") || (rules != nil && rules.MatchesPath(rel+"/")) {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			if exclude.MatchesPath(rel) || (rules != nil && rules.MatchesPath(rel)) {
				return nil
			}
			if include.MatchesPath(rel) {
				add(p, rel)
			}
			return nil
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			return nil, fmt.Errorf("failed to scan %s: %w", root, err)
		}

		for _, pattern := range s.opts.ExtraPatterns {
			matches, err := filepathx.Glob(filepath.Join(root, pattern))
			if err != nil {
				return nil, fmt.Errorf("invalid include pattern %q: %w", pattern, err)
			}
			for _, m := range matches {
				info, err := os.Stat(m)
				if err != nil || !info.Mode().IsRegular() {
					continue
				}
				rel, err := filepath.Rel(root, m)
				if err != nil || strings.HasPrefix(rel, "..") {
					continue
				}
				rel = filepath.ToSlash(rel)
				if exclude.MatchesPath(rel) {
					continue
				}
				add(m, rel)
			}
		}
	}

	sort.SliceStable(files, func(i, j int) bool {
		return files[i].RelativePath < files[j].RelativePath
	})

	s.logger.Debug().Int("files", len(files)).Strs("roots", ws.Roots).Msg("workspace scanned")
	events.Emit(ctx, events.FlowProgress, events.NewDebug(fmt.Sprintf("Selected %d files", len(files))))
	return files, nil
}

func (s *FileSelector) includeMatcher() *ignore.GitIgnore {
	lines := make([]string, 0, len(s.opts.Extensions))
	for _, ext := range s.opts.Extensions {
		lines = append(lines, "*."+strings.TrimPrefix(ext, "."))
	}
	return ignore.CompileIgnoreLines(lines...)
}

func (s *FileSelector) excludeMatcher() *ignore.GitIgnore {
	lines := make([]string, 0, len(s.opts.ExcludedDirs))
	for _, dir := range s.opts.ExcludedDirs {
		lines = append(lines, strings.TrimSuffix(dir, "/")+"/")
	}
	return ignore.CompileIgnoreLines(lines...)
}

// rootRules merges .gitignore and .architectignore at root. Missing files
// contribute nothing.
func (s *FileSelector) rootRules(root string) *ignore.GitIgnore {
	if s.opts.IgnoreVCSRules {
		return nil
	}
	lines, err := utils.ReadRuleFiles(filepath.Join(root, ".gitignore"), filepath.Join(root, IgnoreFileName))
	if err != nil {
		s.logger.Warn().Err(err).Str("root", root).Msg("failed to read ignore rules")
	}
	if len(lines) == 0 {
		return nil
	}
	return ignore.CompileIgnoreLines(lines...)
}

// Classify assigns rel to the configuration bucket, the code-sample bucket
// or the tree only. Configuration wins when both apply.
func Classify(rel string) models.FileBucket {
	lower := strings.ToLower(filepath.ToSlash(rel))
	for _, marker := range configurationMarkers {
		if strings.Contains(lower, marker) {
			return models.BucketConfiguration
		}
	}
	if strings.HasSuffix(lower, ".xml") || strings.HasSuffix(lower, ".gradle") {
		return models.BucketConfiguration
	}

	rooted := "/" + lower
	for _, marker := range codeSampleMarkers {
		if strings.Contains(rooted, marker) {
			return models.BucketCodeSample
		}
	}
	base := path.Base(lower)
	ext := path.Ext(base)
	if (ext == ".ts" || ext == ".js") && entryPointNames[strings.TrimSuffix(base, ext)] {
		return models.BucketCodeSample
	}
	return models.BucketTree
}

// Partition splits files into the configuration and code-sample buckets,
// preserving order.
func Partition(files []models.FileHandle) (configuration, code []models.FileHandle) {
	for _, f := range files {
		bucket := f.Bucket
		if bucket == "" {
			bucket = Classify(f.RelativePath)
		}
		switch bucket {
		case models.BucketConfiguration:
			configuration = append(configuration, f)
		case models.BucketCodeSample:
			code = append(code, f)
		}
	}
	return configuration, code
}
