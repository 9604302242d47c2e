package services

import (
	"context"
	"strings"

	"projectarchitect/internal/models"
	"projectarchitect/internal/repositories"

	"github.com/rs/zerolog"
)

// HistoryService records finished runs. It is both a ReportSink and a
// CommitSink.
type HistoryService struct {
	runs   repositories.GenerationRunRepository
	logger zerolog.Logger
}

func NewHistoryService(runs repositories.GenerationRunRepository, logger zerolog.Logger) *HistoryService {
	return &HistoryService{runs: runs, logger: logger}
}

func (h *HistoryService) WriteReport(ctx context.Context, report models.AnalysisReport) error {
	return h.runs.Create(ctx, &models.GenerationRun{
		RunID:       report.RunID,
		Flow:        models.FlowAnalysis,
		Mode:        string(report.Mode),
		Workspace:   strings.Join(report.Workspace, ";"),
		Provider:    report.Provider,
		Model:       report.Model,
		PromptChars: report.PromptChars,
		Output:      report.Markdown,
	})
}

func (h *HistoryService) WriteCommit(ctx context.Context, result models.CommitResult) error {
	if result.Message == nil {
		return nil
	}
	return h.runs.Create(ctx, &models.GenerationRun{
		RunID:       result.RunID,
		Flow:        models.FlowCommit,
		Mode:        string(result.Diff.Source),
		Workspace:   result.Dir,
		Provider:    result.Provider,
		Model:       result.Model,
		PromptChars: result.PromptChars,
		Output:      result.Message.String(),
	})
}

// Recent lists the newest runs of flow, or of every flow when flow is empty.
func (h *HistoryService) Recent(ctx context.Context, flow string, limit int) ([]models.GenerationRun, error) {
	return h.runs.List(ctx, flow, limit)
}

// Find returns nil when no run has runID.
func (h *HistoryService) Find(ctx context.Context, runID string) (*models.GenerationRun, error) {
	return h.runs.GetByRunID(ctx, runID)
}
