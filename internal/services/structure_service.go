package services

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"projectarchitect/internal/events"
	"projectarchitect/internal/models"

	"github.com/rs/zerolog"
)

const (
	// TruncationMarker follows every cut excerpt and diff.
	TruncationMarker = "\n... (truncated)"

	MaxTreeFilesPerFolder = 10
	MaxConfigFiles        = 15
	MaxConfigChars        = 3000
	MaxCodeFiles          = 12
	MaxCodeChars          = 2000

	rootFolder = "."
)

// StructureService renders the bounded project structure document.
type StructureService struct {
	logger   zerolog.Logger
	readFile func(string) ([]byte, error)
}

func NewStructureService(logger zerolog.Logger) *StructureService {
	return &StructureService{logger: logger, readFile: os.ReadFile}
}

// Build renders the tree, configuration and code-sample sections for files.
// Files that cannot be read are listed in Skipped and left out of the
// excerpts; they still appear in the tree.
func (s *StructureService) Build(ctx context.Context, files []models.FileHandle) models.ProjectStructureDocument {
	doc := models.ProjectStructureDocument{TotalFiles: len(files)}
	doc.Tree = renderTree(files)

	configuration, code := Partition(files)

	var b strings.Builder
	b.WriteString("## Configuration Files\n\n")
	doc.ConfigFiles = s.writeExcerpts(ctx, &b, configuration, MaxConfigFiles, MaxConfigChars, &doc.Skipped)
	doc.Configuration = b.String()

	b.Reset()
	b.WriteString("## Code Samples (for deep analysis)\n\n")
	doc.CodeFiles = s.writeExcerpts(ctx, &b, code, MaxCodeFiles, MaxCodeChars, &doc.Skipped)
	doc.CodeSamples = b.String()

	s.logger.Debug().
		Int("files", doc.TotalFiles).
		Int("config_excerpts", len(doc.ConfigFiles)).
		Int("code_excerpts", len(doc.CodeFiles)).
		Int("skipped", len(doc.Skipped)).
		Msg("project structure built")
	return doc
}

func renderTree(files []models.FileHandle) string {
	var order []string
	byFolder := make(map[string][]string)
	for _, f := range files {
		folder := rootFolder
		if i := strings.Index(f.RelativePath, "/"); i > 0 {
			folder = f.RelativePath[:i]
		}
		if _, ok := byFolder[folder]; !ok {
			order = append(order, folder)
		}
		byFolder[folder] = append(byFolder[folder], path.Base(f.RelativePath))
	}

	var b strings.Builder
	b.WriteString("# Project Structure\n\n")
	b.WriteString("## Directory Tree\n```\n")
	for _, folder := range order {
		names := byFolder[folder]
		fmt.Fprintf(&b, "📁 %s/\n", folder)
		for i, name := range names {
			if i == MaxTreeFilesPerFolder {
				break
			}
			fmt.Fprintf(&b, "  └─ %s\n", name)
		}
		if len(names) > MaxTreeFilesPerFolder {
			fmt.Fprintf(&b, "  └─ ... (+%d files)\n", len(names)-MaxTreeFilesPerFolder)
		}
	}
	b.WriteString("```\n\n")
	return b.String()
}

// writeExcerpts takes the first maxFiles candidates; unreadable ones are
// recorded in skipped and do not free their slot.
func (s *StructureService) writeExcerpts(ctx context.Context, b *strings.Builder, files []models.FileHandle, maxFiles, maxChars int, skipped *[]string) []string {
	if len(files) > maxFiles {
		files = files[:maxFiles]
	}
	var written []string
	for _, f := range files {
		data, err := s.readFile(f.Path)
		if err != nil {
			s.logger.Warn().Err(err).Str("file", f.RelativePath).Msg("skipping unreadable file")
			events.Emit(ctx, events.FlowProgress, events.NewDebug("Skipped unreadable file "+f.RelativePath))
			*skipped = append(*skipped, f.RelativePath)
			continue
		}
		excerpt, _ := Excerpt(strings.ToValidUTF8(string(data), "�"), maxChars)
		fmt.Fprintf(b, "### %s\n```\n%s\n```\n\n", f.RelativePath, excerpt)
		written = append(written, f.RelativePath)
	}
	return written
}

// Excerpt keeps the first limit characters of content and appends the
// truncation marker when anything was cut.
func Excerpt(content string, limit int) (string, bool) {
	count := 0
	for i := range content {
		if count == limit {
			return content[:i] + TruncationMarker, true
		}
		count++
	}
	return content, false
}
