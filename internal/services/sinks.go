package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"projectarchitect/internal/events"
	"projectarchitect/internal/models"

	"github.com/atotto/clipboard"
)

// ReportSink receives a finished analysis report.
type ReportSink interface {
	WriteReport(ctx context.Context, report models.AnalysisReport) error
}

// CommitSink receives a generated commit message.
type CommitSink interface {
	WriteCommit(ctx context.Context, result models.CommitResult) error
}

// WriterReportSink prints the Markdown report to an io.Writer.
type WriterReportSink struct {
	W io.Writer
}

func (s WriterReportSink) WriteReport(_ context.Context, report models.AnalysisReport) error {
	_, err := io.WriteString(s.W, ensureTrailingNewline(report.Markdown))
	return err
}

// FileReportSink writes the Markdown report to Path, creating parent
// directories as needed.
type FileReportSink struct {
	Path string
}

func (s FileReportSink) WriteReport(ctx context.Context, report models.AnalysisReport) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := os.WriteFile(s.Path, []byte(ensureTrailingNewline(report.Markdown)), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	events.Emit(ctx, events.FlowProgress, events.NewInfo("Report written to "+s.Path))
	return nil
}

// WriterCommitSink prints the commit message to an io.Writer.
type WriterCommitSink struct {
	W io.Writer
}

func (s WriterCommitSink) WriteCommit(_ context.Context, result models.CommitResult) error {
	if result.Message == nil {
		return nil
	}
	_, err := io.WriteString(s.W, ensureTrailingNewline(result.Message.String()))
	return err
}

// ClipboardSink copies the commit message to the system clipboard.
type ClipboardSink struct {
	write func(string) error
}

func NewClipboardSink() *ClipboardSink {
	if clipboard.Unsupported {
		return &ClipboardSink{}
	}
	return &ClipboardSink{write: clipboard.WriteAll}
}

func (s *ClipboardSink) WriteCommit(ctx context.Context, result models.CommitResult) error {
	if result.Message == nil {
		return nil
	}
	if s.write == nil {
		return fmt.Errorf("clipboard is not available on this system")
	}
	if err := s.write(result.Message.String()); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	events.Emit(ctx, events.FlowProgress, events.NewInfo("Commit message copied to clipboard"))
	return nil
}

// SourceControlSink commits the staged changes with the generated message.
type SourceControlSink struct {
	Git *GitService
}

func (s SourceControlSink) WriteCommit(ctx context.Context, result models.CommitResult) error {
	if result.Message == nil {
		return nil
	}
	hash, err := s.Git.Commit(result.Dir, result.Message.String())
	if err != nil {
		return err
	}
	events.Emit(ctx, events.FlowProgress, events.NewSuccess("Created commit "+hash[:7]))
	return nil
}

func ensureTrailingNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
