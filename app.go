package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"projectarchitect/internal/database"
	"projectarchitect/internal/events"
	"projectarchitect/internal/logging"
	"projectarchitect/internal/models"
	"projectarchitect/internal/repositories"
	"projectarchitect/internal/services"
	"projectarchitect/internal/utils"

	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"
)

// StartupOptions configure the process-wide collaborators.
type StartupOptions struct {
	LogLevel  string
	LogFile   string
	DBPath    string
	ConfigDir string
}

// App holds the wired services. Each CLI command maps to one method.
type App struct {
	logger    zerolog.Logger
	logCloser io.Closer
	dbClose   func() error
	out       io.Writer

	settings  *services.SettingsService
	keys      *services.KeyringService
	catalog   *services.ModelCatalog
	history   *services.HistoryService
	git       *services.GitService
	prompts   *services.PromptService
	structure *services.StructureService
}

// NewApp creates an App that prints results to out.
func NewApp(out io.Writer) *App {
	return &App{out: out, logger: zerolog.Nop()}
}

// AnalyzeOptions are the per-invocation inputs of Analyze.
type AnalyzeOptions struct {
	Workspace []string
	Mode      string
	Output    string
	Include   []string
	NoIgnore  bool
}

// CommitOptions are the per-invocation inputs of Commit.
type CommitOptions struct {
	Dir         string
	Commit      bool
	NoClipboard bool
}

// startup opens the logger and the history database and wires services.
func (a *App) startup(ctx context.Context, opts StartupOptions) error {
	logger, closer, err := logging.NewLogger(logging.Config{Level: opts.LogLevel, File: opts.LogFile})
	if err != nil {
		return err
	}
	a.logger = logger
	a.logCloser = closer
	events.EnableRuntimeEmitter(logger, nil)

	dirs := []string{"."}
	if root, err := utils.FindProjectRoot("."); err == nil {
		dirs = append(dirs, root)
	}
	if err := utils.LoadEnv(dirs...); err != nil {
		a.logger.Warn().Err(err).Msg("failed to load .env")
	}

	level := gormlogger.Silent
	if a.logger.GetLevel() <= zerolog.DebugLevel {
		level = gormlogger.Info
	}
	db, err := database.Init(database.Config{Path: opts.DBPath, LogLevel: level, Logger: logger})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		a.dbClose = sqlDB.Close
	}

	a.keys = services.NewKeyringService(opts.ConfigDir)
	a.settings = services.NewSettingsService(repositories.NewAppSettingsRepository(db), a.keys, logger)
	if catalog, err := services.NewModelCatalog(); err != nil {
		a.logger.Warn().Err(err).Msg("model catalog unavailable")
	} else {
		a.catalog = catalog
		a.settings.UseCatalog(catalog)
	}
	a.history = services.NewHistoryService(repositories.NewGenerationRunRepository(db), logger)
	a.git = services.NewGitService(logger)
	a.prompts = services.NewPromptService()
	a.structure = services.NewStructureService(logger)

	a.logger.Debug().Str("db", opts.DBPath).Bool("dev", database.IsDevelopment()).Msg("startup complete")
	return nil
}

// shutdown releases the database and the log file.
func (a *App) shutdown() {
	events.SetCustomEmitter(nil)
	if a.dbClose != nil {
		if err := a.dbClose(); err != nil {
			a.logger.Error().Err(err).Msg("failed to close database")
		}
		a.dbClose = nil
	}
	if a.logCloser != nil {
		_ = a.logCloser.Close()
		a.logCloser = nil
	}
}

// Analyze runs the analysis flow over opts.Workspace. The report goes to
// opts.Output when set, otherwise to the App's writer.
func (a *App) Analyze(ctx context.Context, overrides models.Settings, opts AnalyzeOptions) (*models.AnalysisReport, error) {
	roots, err := resolveRoots(opts.Workspace)
	if err != nil {
		return nil, err
	}
	settings, err := a.settings.Resolve(ctx, overrides)
	if err != nil {
		return nil, err
	}

	selector := services.NewFileSelector(services.FileSelectorOptions{
		ExtraPatterns:  opts.Include,
		IgnoreVCSRules: opts.NoIgnore,
	}, a.logger)
	flow := services.NewAnalysisService(selector, a.structure, a.prompts, nil, a.logger)

	var out services.ReportSink = services.WriterReportSink{W: a.out}
	if opts.Output != "" {
		out = services.FileReportSink{Path: opts.Output}
	}
	mode := models.AnalysisMode(strings.ToLower(strings.TrimSpace(opts.Mode)))
	return flow.Analyze(ctx, settings, models.Workspace{Roots: roots}, mode, out, a.history)
}

// Commit generates a message for the pending changes of the repository
// containing opts.Dir. A directory outside any repository is passed through
// as-is and ends in the no-changes warning.
func (a *App) Commit(ctx context.Context, overrides models.Settings, opts CommitOptions) (*models.CommitResult, error) {
	settings, err := a.settings.Resolve(ctx, overrides)
	if err != nil {
		return nil, err
	}
	if settings.APIKey == "" {
		return nil, services.ErrMissingAPIKey
	}

	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	root, err := a.git.RepositoryRoot(dir)
	if err != nil {
		a.logger.Debug().Err(err).Str("dir", dir).Msg("no enclosing repository")
		if root, err = filepath.Abs(dir); err != nil {
			return nil, err
		}
	} else if head, err := a.git.HeadSummary(root); err == nil {
		a.logger.Info().Str("repo", root).Str("head", head).Msg("collecting changes")
	}

	sinks := []services.CommitSink{services.WriterCommitSink{W: a.out}, a.history}
	if !opts.NoClipboard {
		sinks = append(sinks, services.NewClipboardSink())
	}
	if opts.Commit {
		sinks = append(sinks, services.SourceControlSink{Git: a.git})
	}
	flow := services.NewCommitService(a.git, a.prompts, nil, a.logger)
	return flow.Generate(ctx, settings, root, sinks...)
}

// History lists recent runs, newest first.
func (a *App) History(ctx context.Context, flow string, limit int) ([]models.GenerationRun, error) {
	return a.history.Recent(ctx, flow, limit)
}

// ShowRun returns the stored output of one run.
func (a *App) ShowRun(ctx context.Context, runID string) (*models.GenerationRun, error) {
	run, err := a.history.Find(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, fmt.Errorf("run %q not found", runID)
	}
	return run, nil
}

// Settings returns the persisted settings and the providers with a stored key.
func (a *App) Settings(ctx context.Context) (*models.AppSettings, []services.StoredKey, error) {
	stored, err := a.settings.Get(ctx)
	if err != nil {
		return nil, nil, err
	}
	keys, err := a.keys.Keys()
	if err != nil {
		a.logger.Warn().Err(err).Msg("failed to list stored keys")
	}
	return stored, keys, nil
}

func (a *App) SetSetting(ctx context.Context, key, value string) (*models.AppSettings, error) {
	return a.settings.Update(ctx, key, value)
}

func (a *App) StoreKey(provider, key string) error {
	return a.settings.StoreAPIKey(provider, key)
}

func (a *App) DeleteKey(provider string) error {
	if provider == "" {
		provider = models.DefaultProvider
	}
	return a.keys.Delete(provider)
}

// Models lists the model catalog.
func (a *App) Models() []models.LLMModelGroup {
	if a.catalog == nil {
		return nil
	}
	return a.catalog.Groups()
}

// resolveRoots makes every root absolute and rejects missing directories.
// No roots selects the current directory.
func resolveRoots(roots []string) ([]string, error) {
	if len(roots) == 0 {
		roots = []string{"."}
	}
	out := make([]string, 0, len(roots))
	for _, r := range roots {
		abs, err := filepath.Abs(r)
		if err != nil {
			return nil, err
		}
		if !utils.DirectoryExists(abs) {
			return nil, fmt.Errorf("workspace root %s: %w", r, os.ErrNotExist)
		}
		out = append(out, abs)
	}
	return out, nil
}
