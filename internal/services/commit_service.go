package services

import (
	"context"
	"fmt"
	"strings"

	"projectarchitect/internal/events"
	"projectarchitect/internal/llm/client"
	"projectarchitect/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ProviderFactory builds the LLM gateway for the resolved settings.
type ProviderFactory func(models.Settings) (client.Provider, error)

var defaultProviderFactory ProviderFactory = client.NewProvider

// DiffCollector is the part of GitService the commit flow needs.
type DiffCollector interface {
	CollectDiff(ctx context.Context, dir string) (models.DiffPayload, bool)
}

// CommitService turns the pending changes of a repository into a commit
// message.
type CommitService struct {
	diffs       DiffCollector
	prompts     *PromptService
	newProvider ProviderFactory
	logger      zerolog.Logger
}

func NewCommitService(diffs DiffCollector, prompts *PromptService, newProvider ProviderFactory, logger zerolog.Logger) *CommitService {
	if newProvider == nil {
		newProvider = defaultProviderFactory
	}
	return &CommitService{diffs: diffs, prompts: prompts, newProvider: newProvider, logger: logger}
}

// Generate collects the diff of dir, asks the model for a message and hands
// it to sinks. A nil Message with a nil error means there was nothing to
// describe; no model call is made in that case. The flow is not
// cancellable once started.
func (s *CommitService) Generate(ctx context.Context, settings models.Settings, dir string, sinks ...CommitSink) (*models.CommitResult, error) {
	ctx = context.WithoutCancel(ctx)
	if strings.TrimSpace(dir) == "" {
		return nil, ErrNoWorkspace
	}
	if settings.APIKey == "" {
		return nil, ErrMissingAPIKey
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
	result := &models.CommitResult{
		RunID:    runID,
		Dir:      dir,
		Provider: provider.Name(),
		Model:    provider.Model(),
	}

	msg := "Gerando commit..."
	if settings.Locale == "en" {
		msg = "Generating commit..."
	}
	events.Emit(ctx, events.FlowProgress, events.NewInfo(msg))

	diff, ok := s.diffs.CollectDiff(ctx, dir)
	if !ok {
		warn := "Nenhuma alteração detectada (staged ou unstaged) para gerar commit."
		if settings.Locale == "en" {
			warn = "No changes detected (staged or unstaged) to generate a commit."
		}
		events.Emit(ctx, events.FlowDone, events.NewWarn(warn))
		return result, nil
	}
	result.Diff = diff

	prompt, err := s.prompts.ComposeCommit(settings.Locale, diff)
	if err != nil {
		return nil, err
	}
	result.PromptChars = len([]rune(prompt.Body))

	s.logger.Info().
		Str("run", runID).
		Str("provider", result.Provider).
		Str("diff_source", string(diff.Source)).
		Bool("truncated", diff.Truncated).
		Msg("requesting commit message")

	reply, err := provider.Generate(ctx, prompt.SystemRole, prompt.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to generate commit message: %w", err)
	}
	parsed := ParseCommitMessage(reply)
	result.Message = &parsed
	if !parsed.Conventional {
		s.logger.Warn().Str("run", runID).Msg("reply does not follow Conventional Commits")
	}

	for _, sink := range sinks {
		if err := sink.WriteCommit(ctx, *result); err != nil {
			s.logger.Warn().Err(err).Str("run", runID).Msg("commit sink failed")
			events.Emit(ctx, events.FlowProgress, events.NewError(err.Error()))
		}
	}

	done := "Commit gerado e copiado!"
	if settings.Locale == "en" {
		done = "Commit message generated!"
	}
	events.Emit(ctx, events.FlowDone, events.NewSuccess(done))
	return result, nil
}
