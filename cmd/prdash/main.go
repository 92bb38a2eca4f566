package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wahlandcase/prdash/internal/app"
	"github.com/wahlandcase/prdash/internal/auth"
	"github.com/wahlandcase/prdash/internal/config"
	"github.com/wahlandcase/prdash/internal/git"
	"github.com/wahlandcase/prdash/internal/github"
	"github.com/wahlandcase/prdash/internal/logger"
	"github.com/wahlandcase/prdash/internal/models"
	"github.com/wahlandcase/prdash/internal/termfix"
)

var (
	dryRun     bool
	noColor    bool
	queryText  string
	after      string
	before     string
	configPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "prdash",
		Short: "Terminal dashboard to search, bulk-approve and bulk-merge GitHub pull requests",
		Args:  cobra.NoArgs,
		RunE:  run,
	}

	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Use built-in demo data instead of GitHub")
	rootCmd.Flags().StringVarP(&queryText, "query", "q", "", "Search query (is:pr is always added)")
	rootCmd.Flags().StringVar(&after, "after", "", "Start after this result cursor")
	rootCmd.Flags().StringVar(&before, "before", "", "Start before this result cursor (wins over --after)")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colors")
	rootCmd.Flags().StringVar(&configPath, "config", "", "Config file (default: prdash.toml in the user config dir)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	termfix.Apply(noColor)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer log.Sync()

	query := initialQuery(cfg, log)
	log.Info("starting",
		zap.Bool("dry_run", dryRun),
		zap.String("query", query.SearchExpression()),
		zap.String("config", cfg.FilePath()),
	)

	opts := app.Options{
		Config: cfg,
		DryRun: dryRun,
		Query:  query,
		Logger: log,
	}

	if dryRun {
		demo := github.NewDemo(github.DemoPullRequests())
		demo.Latency = 400 * time.Millisecond
		opts.Auth = &auth.Static{Session: auth.Session{Token: "dry-run", Source: auth.SourceDryRun}}
		opts.Connect = func(auth.Session) (github.Remote, error) { return demo, nil }
	} else {
		opts.Auth = auth.NewResolver(cfg, log)
		opts.Connect = func(s auth.Session) (github.Remote, error) {
			client, err := github.NewClient(cfg.GitHub.Host, s.Token, cfg.Timeout(), log)
			if err != nil {
				return nil, err
			}
			return client, nil
		}
	}

	p := tea.NewProgram(app.New(opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}

	return nil
}

// initialQuery combines the flags with the configured default query,
// scoping it to the current repository when configured to
func initialQuery(cfg *config.Config, log *zap.Logger) models.Query {
	text := queryText
	if text == "" {
		text = cfg.Search.DefaultQuery
		if cfg.Search.ScopeToRepo {
			slug, err := git.CurrentRepoSlug()
			if err != nil {
				log.Debug("not scoping query to a repository", zap.Error(err))
			} else {
				text = git.ScopeQuery(text, slug)
			}
		}
	}

	q := models.Query{Text: text}
	if before != "" {
		q.Before = before
	} else {
		q.After = after
	}
	return q
}
