package services

import (
	"context"
	"fmt"

	"projectarchitect/internal/events"
	"projectarchitect/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var analysisTitles = map[models.AnalysisMode]string{
	models.ModeSummaryPT:   "Analisando resumo (PT)...",
	models.ModeSummaryEN:   "Analyzing summary (EN)...",
	models.ModeTechnicalPT: "Gerando análise técnica (PT)...",
	models.ModeTechnicalEN: "Generating technical analysis (EN)...",
}

// AnalysisService runs the scan, synthesize, prompt and generate pipeline.
type AnalysisService struct {
	selector    *FileSelector
	structure   *StructureService
	prompts     *PromptService
	newProvider ProviderFactory
	logger      zerolog.Logger
}

func NewAnalysisService(selector *FileSelector, structure *StructureService, prompts *PromptService, newProvider ProviderFactory, logger zerolog.Logger) *AnalysisService {
	if newProvider == nil {
		newProvider = defaultProviderFactory
	}
	return &AnalysisService{
		selector:    selector,
		structure:   structure,
		prompts:     prompts,
		newProvider: newProvider,
		logger:      logger,
	}
}

// Analyze produces a Markdown report for ws in the given mode and hands it
// to sinks. Cancellation is observed after discovery, after synthesis and
// after the model replies; a cancelled run returns a report with Cancelled
// set, a nil error and no sink writes. The model call itself is never
// interrupted.
func (s *AnalysisService) Analyze(ctx context.Context, settings models.Settings, ws models.Workspace, mode models.AnalysisMode, sinks ...ReportSink) (*models.AnalysisReport, error) {
	if len(ws.Roots) == 0 {
		return nil, ErrNoWorkspace
	}
	if settings.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if _, err := models.ParseAnalysisMode(string(mode)); err != nil {
		return nil, err
	}
	provider, err := s.newProvider(settings)
	if err != nil {
		return nil, err
	}

	runID := events.RunFromContext(ctx)
	if runID == "" {
		runID = uuid.NewString()
		ctx = events.WithRun(ctx, runID)
	}
	report := &models.AnalysisReport{
		RunID:     runID,
		Mode:      mode,
		Workspace: ws.Roots,
		Provider:  provider.Name(),
		Model:     provider.Model(),
	}
	en := mode.English()
	progress := func(pt, enMsg string) {
		msg := pt
		if en {
			msg = enMsg
		}
		events.Emit(ctx, events.FlowProgress, events.NewInfo(msg))
	}
	cancelled := func(stage string) bool {
		if ctx.Err() == nil {
			return false
		}
		s.logger.Info().Str("run", runID).Str("stage", stage).Msg("analysis cancelled")
		events.Emit(ctx, events.FlowDone, events.NewWarn("Cancelled"))
		report.Cancelled = true
		return true
	}

	events.Emit(ctx, events.FlowProgress, events.NewInfo(analysisTitles[mode]))
	progress("Escaneando arquivos...", "Scanning files...")
	files, err := s.selector.Select(ctx, ws)
	if err != nil {
		if ctx.Err() != nil && cancelled("discovery") {
			return report, nil
		}
		return nil, err
	}
	if cancelled("discovery") {
		return report, nil
	}

	progress(fmt.Sprintf("Lendo %d files...", len(files)), fmt.Sprintf("Reading %d files...", len(files)))
	doc := s.structure.Build(ctx, files)
	report.Document = doc
	if len(doc.Skipped) > 0 {
		s.logger.Warn().Int("skipped", len(doc.Skipped)).Str("run", runID).Msg("some files could not be read")
	}
	if cancelled("synthesis") {
		return report, nil
	}

	progress("Analisando com IA...", "Analyzing with AI...")
	prompt, err := s.prompts.Compose(mode, doc)
	if err != nil {
		return nil, err
	}
	report.PromptChars = len([]rune(prompt.Body))
	s.logger.Info().
		Str("run", runID).
		Str("mode", string(mode)).
		Str("provider", report.Provider).
		Int("files", len(files)).
		Int("prompt_chars", report.PromptChars).
		Msg("requesting analysis")

	reply, err := provider.Generate(context.WithoutCancel(ctx), prompt.SystemRole, prompt.Body)
	if err != nil {
		events.Emit(ctx, events.FlowDone, events.NewError(err.Error()))
		return nil, fmt.Errorf("failed to generate analysis: %w", err)
	}
	if cancelled("generation") {
		return report, nil
	}
	report.Markdown = reply

	for _, sink := range sinks {
		if err := sink.WriteReport(ctx, *report); err != nil {
			s.logger.Warn().Err(err).Str("run", runID).Msg("report sink failed")
			events.Emit(ctx, events.FlowProgress, events.NewError(err.Error()))
		}
	}

	done := "Análise concluída!"
	if en {
		done = "Analysis complete!"
	}
	events.Emit(ctx, events.FlowDone, events.NewSuccess(done))
	return report, nil
}
