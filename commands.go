package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"projectarchitect/internal/database"
	"projectarchitect/internal/llm/client"
	"projectarchitect/internal/models"
	"projectarchitect/internal/services"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	workspace []string
	provider  string
	model     string
	apiKey    string
	baseURL   string
	locale    string
	logLevel  string
	logFile   string
	dbPath    string
	configDir string
}

func (o *rootOptions) overrides() models.Settings {
	return models.Settings{
		APIKey:   strings.TrimSpace(o.apiKey),
		Provider: strings.TrimSpace(o.provider),
		Model:    strings.TrimSpace(o.model),
		BaseURL:  strings.TrimSpace(o.baseURL),
		Locale:   strings.TrimSpace(o.locale),
	}
}

func newRootCmd(app *App) *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "architect",
		Short: "LLM project analyzer and commit message generator",
		Long: `architect condenses a workspace into a bounded project summary and asks an
LLM for an analysis report, or turns the pending git changes into a
Conventional Commit message.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.startup(cmd.Context(), StartupOptions{
				LogLevel:  opts.logLevel,
				LogFile:   opts.logFile,
				DBPath:    opts.dbPath,
				ConfigDir: opts.configDir,
			})
		},
	}

	flags := root.PersistentFlags()
	flags.StringArrayVarP(&opts.workspace, "workspace", "w", nil, "workspace root (repeatable, default current directory)")
	flags.StringVar(&opts.provider, "provider", "", "LLM provider")
	flags.StringVar(&opts.model, "model", "", "model name")
	flags.StringVar(&opts.apiKey, "api-key", "", "API key for the provider")
	flags.StringVar(&opts.baseURL, "base-url", "", "override the provider endpoint")
	flags.StringVar(&opts.locale, "locale", "", "commit message language (pt or en)")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level")
	flags.StringVar(&opts.logFile, "log-file", "", "also write JSON logs to this rotating file")
	flags.StringVar(&opts.dbPath, "db", database.GetDefaultDBPath(), "history database path")
	flags.StringVar(&opts.configDir, "config-dir", "", "directory of the stored-key index (default user config dir)")

	root.AddCommand(
		newAnalyzeCmd(app, opts),
		newCommitCmd(app, opts),
		newHistoryCmd(app),
		newConfigCmd(app, opts),
		newModelsCmd(app),
	)
	return root
}

func newAnalyzeCmd(app *App, opts *rootOptions) *cobra.Command {
	var (
		mode     string
		output   string
		include  []string
		noIgnore bool
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Generate a project analysis report",
		Long: `Scans the workspace, builds a bounded structure document and asks the model
for a report. Modes: summary-pt, summary-en, technical-pt, technical-en.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := app.Analyze(cmd.Context(), opts.overrides(), AnalyzeOptions{
				Workspace: opts.workspace,
				Mode:      mode,
				Output:    output,
				Include:   include,
				NoIgnore:  noIgnore,
			})
			if err != nil {
				return describeError(err)
			}
			if report.Cancelled {
				fmt.Fprintln(cmd.ErrOrStderr(), "Analysis cancelled.")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", string(models.ModeSummaryPT), "analysis mode")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the report to this Markdown file")
	cmd.Flags().StringArrayVar(&include, "include", nil, "extra glob to include, ** supported (repeatable)")
	cmd.Flags().BoolVar(&noIgnore, "no-ignore", false, "do not apply .gitignore and "+services.IgnoreFileName+" rules")
	return cmd
}

func newCommitCmd(app *App, opts *rootOptions) *cobra.Command {
	var (
		commit      bool
		noClipboard bool
	)
	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Generate a Conventional Commit message for pending changes",
		Long: `Uses the staged diff, or the diff against HEAD when nothing is staged. The
message is printed and copied to the clipboard; --commit also records it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(opts.workspace) > 0 {
				dir = opts.workspace[0]
			}
			_, err := app.Commit(cmd.Context(), opts.overrides(), CommitOptions{
				Dir:         dir,
				Commit:      commit,
				NoClipboard: noClipboard,
			})
			return describeError(err)
		},
	}
	cmd.Flags().BoolVar(&commit, "commit", false, "commit the staged changes with the generated message")
	cmd.Flags().BoolVar(&noClipboard, "no-clipboard", false, "do not copy the message to the clipboard")
	return cmd
}

func newHistoryCmd(app *App) *cobra.Command {
	var (
		flow  string
		limit int
		show  string
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List previous runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if show != "" {
				run, err := app.ShowRun(cmd.Context(), show)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, run.Output)
				return err
			}

			runs, err := app.History(cmd.Context(), flow, limit)
			if err != nil {
				return err
			}
			return printRuns(out, runs)
		},
	}
	cmd.Flags().StringVar(&flow, "flow", "", "only list analysis or commit runs")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to list")
	cmd.Flags().StringVar(&show, "show", "", "print the output of the run with this id")
	return cmd
}

func printRuns(w io.Writer, runs []models.GenerationRun) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tFLOW\tMODE\tMODEL\tWHEN\tWORKSPACE")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.RunID, r.Flow, r.Mode, r.Model, r.CreatedAt.Format("2006-01-02 15:04"), r.Workspace)
	}
	return tw.Flush()
}

func newConfigCmd(app *App, opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change persisted settings",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print persisted settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stored, keys, err := app.Settings(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "provider: %s\nmodel: %s\nbase-url: %s\nlocale: %s\n",
				stored.Provider, stored.Model, stored.BaseURL, stored.Locale)
			names := make([]string, 0, len(keys))
			for _, k := range keys {
				names = append(names, fmt.Sprintf("%s (%s)", k.Provider, k.StoredAt.Local().Format("2006-01-02")))
			}
			fmt.Fprintf(out, "stored keys: %s\n", strings.Join(names, ", "))
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Persist a setting (provider, model, base-url, locale)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.SetSetting(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s updated\n", args[0])
			return nil
		},
	}

	setKey := &cobra.Command{
		Use:   "set-key [KEY]",
		Short: "Store the API key of --provider in the OS keyring",
		Long:  "Stores KEY, or the first line of standard input when KEY is omitted.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var key string
			if len(args) == 1 {
				key = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && !errors.Is(err, io.EOF) {
					return err
				}
				key = line
			}
			if err := app.StoreKey(opts.provider, key); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "API key stored")
			return nil
		},
	}

	deleteKey := &cobra.Command{
		Use:   "delete-key",
		Short: "Remove the stored API key of --provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return describeError(app.DeleteKey(opts.provider))
		},
	}

	cmd.AddCommand(show, set, setKey, deleteKey)
	return cmd
}

func newModelsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List known providers and models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PROVIDER\tMODEL\tNAME\tCONTEXT")
			for _, group := range app.Models() {
				for _, m := range group.Models {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", group.ProviderID, m.APIName, m.DisplayName, m.ContextWindow)
				}
			}
			fmt.Fprintf(tw, "\nsupported providers: %s\n", strings.Join(client.SupportedProviders(), ", "))
			return tw.Flush()
		},
	}
}

// describeError keeps known failures as they are and marks the rest as
// unexpected.
func describeError(err error) error {
	if err == nil {
		return nil
	}
	var netErr *client.NetworkError
	switch {
	case errors.Is(err, services.ErrNoWorkspace),
		errors.Is(err, services.ErrMissingAPIKey),
		errors.Is(err, services.ErrNoStoredKey),
		errors.Is(err, client.ErrUnsupportedProvider),
		errors.Is(err, models.ErrUnknownMode),
		errors.As(err, &netErr):
		return err
	}
	return fmt.Errorf("unexpected error: %w", err)
}
