// Package main is the issues command line tool, a thin consumer of the
// github package and the platform config layer.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/jsamuelsen/go-github-issues/github"
	"github.com/jsamuelsen/go-github-issues/internal/platform/config"
	"github.com/jsamuelsen/go-github-issues/internal/platform/logging"
	"github.com/jsamuelsen/go-github-issues/internal/platform/telemetry"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD)"
var (
	// Version is the semantic version of the tool.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"
)

// errUsage marks errors caused by bad invocation; main exits 2 for them.
var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// globalFlags are accepted before the command name.
type globalFlags struct {
	profile   string
	configDir string
	repo      string
	baseURL   string
	logLevel  string
	logFormat string
	help      bool
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var g globalFlags

	flagSet := pflag.NewFlagSet("issues", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.SetInterspersed(false)
	flagSet.StringVar(&g.profile, "profile", envOr("GHI_PROFILE", "local"), "configuration profile to load")
	flagSet.StringVar(&g.configDir, "config-dir", "configs", "directory holding base.yaml and profile files")
	flagSet.StringVarP(&g.repo, "repo", "R", os.Getenv("GHI_REPO"), "repository as owner/name")
	flagSet.StringVar(&g.baseURL, "base-url", "", "API root, overrides github.base_url")
	flagSet.StringVar(&g.logLevel, "log-level", "", "log level, overrides log.level")
	flagSet.StringVar(&g.logFormat, "log-format", "", "log format, overrides log.format")
	flagSet.BoolVarP(&g.help, "help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(stderr, flagSet)
			return nil
		}
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	rest := flagSet.Args()
	if g.help || len(rest) == 0 {
		printHelp(stderr, flagSet)
		if g.help {
			return nil
		}
		return fmt.Errorf("%w: a command is required", errUsage)
	}

	if rest[0] == "version" {
		fmt.Fprintf(stdout, "issues %s (%s)\n", Version, Commit)
		return nil
	}

	cmd, ok := commands[rest[0]]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", errUsage, rest[0])
	}

	cfg, err := loadConfig(&g)
	if err != nil {
		return err
	}

	logger := logging.NewWithWriter(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	}, stderr)
	logging.SetDefault(logger)

	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		Insecure:     cfg.Telemetry.Insecure,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}

	owner, name, err := splitRepo(g.repo)
	if err != nil {
		return err
	}

	ctx = logging.WithContext(ctx, logger)
	ctx = logging.WithRepository(ctx, owner, name)

	logger.Debug("running command",
		slog.String("command", rest[0]),
		slog.String("profile", g.profile),
		slog.String("base_url", client.BaseURL()),
	)

	return cmd.run(ctx, &env{
		client: client,
		owner:  owner,
		repo:   name,
		stdout: stdout,
		stderr: stderr,
	}, rest[1:])
}

// loadConfig loads the profile, applies flag overrides and validates.
func loadConfig(g *globalFlags) (*config.Config, error) {
	cfg, err := config.LoadFrom(g.configDir, g.profile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if g.baseURL != "" {
		cfg.GitHub.BaseURL = g.baseURL
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if g.logFormat != "" {
		cfg.Log.Format = g.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// newClient turns configuration into a github client. A token wins over
// basic credentials.
func newClient(cfg *config.Config, logger *slog.Logger) (*github.Client, error) {
	opts := []github.Option{
		github.WithBaseURL(cfg.GitHub.BaseURL),
		github.WithUserAgent(cfg.GitHub.UserAgent),
		github.WithTimeout(cfg.GitHub.Timeout),
		github.WithConnectionPool(cfg.Transport.MaxIdleConns, cfg.Transport.MaxIdleConnsPerHost, cfg.Transport.IdleConnTimeout),
		github.WithLogger(logger),
	}

	switch {
	case cfg.GitHub.Token != "":
		opts = append(opts, github.WithToken(cfg.GitHub.Token))
	case cfg.GitHub.HasBasicAuth():
		opts = append(opts, github.WithBasicAuth(cfg.GitHub.Login, cfg.GitHub.Password))
	}

	return github.NewClient(opts...)
}

func splitRepo(s string) (string, string, error) {
	owner, name, ok := strings.Cut(s, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("%w: --repo must be owner/name, got %q", errUsage, s)
	}
	return owner, name, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprint(w, `issues manages GitHub issues from the command line.

Usage:
  issues [flags] <command> [command flags] [args]

Commands:
  list                      list issues of the repository
  get <number>...           show one or more issues
  create --title T          open an issue
  edit <number>             change title, body, state, labels or assignees
  close <number>            close an issue
  reopen <number>           reopen an issue
  comment <number> --body B add a comment
  comments <number>         list comments
  label <number> <name>...  add labels
  unlabel <number> <name>   remove a label
  version                   print the version

Flags:
`)
	fmt.Fprint(w, flagSet.FlagUsages())
	fmt.Fprint(w, `
Configuration is read from <config-dir>/base.yaml, <config-dir>/<profile>.yaml
and GHI_* environment variables. GITHUB_TOKEN is used when no token is set.
`)
}
