// Package main provides the CLI entrypoint for channelsim.
package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/channelsim/internal/backend"
	"github.com/verte-zerg/channelsim/internal/config"
	"github.com/verte-zerg/channelsim/internal/model"
	"github.com/verte-zerg/channelsim/internal/report"
	"github.com/verte-zerg/channelsim/internal/tui"
)

const (
	defaultBackendURL = "http://localhost:8000"
	defaultTimeout    = 10 * time.Minute
	defaultLogLevel   = "info"
)

var (
	backendURL string
	timeout    time.Duration
	logFile    string
	logLevel   string
)

type settings struct {
	backendURL string
	timeout    time.Duration
	logFile    string
	logLevel   logrus.Level
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "channelsim",
		Short:         "Configure, monitor and review pricing-game simulations",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runWorkflowCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&backendURL, "backend", defaultBackendURL, "simulation backend base URL")
	flags.DurationVar(&timeout, "timeout", defaultTimeout, "per-request timeout (0 disables)")
	flags.StringVar(&logFile, "log-file", "", "log file for the interactive UI (default $XDG_STATE_HOME/channelsim/channelsim.log)")
	flags.StringVar(&logLevel, "log-level", defaultLogLevel, "log level: debug, info, warn, error")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newModelsCmd())
	rootCmd.AddCommand(newRoundCmd())
	rootCmd.AddCommand(newResultsCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

func runWorkflowCmd(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("the interactive workflow needs a terminal; use the round or results commands for scripted output")
	}

	f, err := openLogFile(s.logFile)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close.
			_ = cerr
		}
	}()
	log := newLogger(s.logLevel, f)
	log.WithFields(logrus.Fields{
		"backend": s.backendURL,
		"timeout": s.timeout.String(),
	}).Info("starting workflow")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	client := backend.NewClient(s.backendURL, s.timeout, log)
	program := tea.NewProgram(tui.NewModel(ctx, client, log), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	log.Info("workflow closed")
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List selectable models",
		Args:  cobra.NoArgs,
		RunE:  runModelsCmd,
	}
}

func runModelsCmd(cmd *cobra.Command, _ []string) error {
	for _, opt := range model.ModelCatalog {
		if opt.ID == "" {
			continue
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", opt.ID, opt.Label); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newRoundCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "round",
		Short: "Print the current round once",
		Args:  cobra.NoArgs,
		RunE:  runRoundCmd,
	}
}

func runRoundCmd(cmd *cobra.Command, _ []string) error {
	client, err := newCLIClient(cmd)
	if err != nil {
		return err
	}
	snap, err := client.FetchCurrent(cmd.Context())
	if err != nil {
		return err
	}
	if err := report.WriteRound(cmd.OutOrStdout(), snap); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newResultsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "results",
		Short: "Print the aggregated results once",
		Args:  cobra.NoArgs,
		RunE:  runResultsCmd,
	}
}

func runResultsCmd(cmd *cobra.Command, _ []string) error {
	client, err := newCLIClient(cmd)
	if err != nil {
		return err
	}
	rows, err := client.FetchAll(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if err := report.WriteResultsWithin(out, rows, terminalWidth(out)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the backend is reachable",
		Args:  cobra.NoArgs,
		RunE:  runHealthCmd,
	}
}

func runHealthCmd(cmd *cobra.Command, _ []string) error {
	client, err := newCLIClient(cmd)
	if err != nil {
		return err
	}
	if err := client.Health(cmd.Context()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "backend at %s is reachable\n", client.BaseURL()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newCLIClient(cmd *cobra.Command) (*backend.Client, error) {
	s, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}
	log := newLogger(s.logLevel, cmd.ErrOrStderr())
	return backend.NewClient(s.backendURL, s.timeout, log), nil
}

func loadSettings(cmd *cobra.Command) (settings, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return settings{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "backend", &backendURL, fileCfg.Backend.URL)
	if err := applyDurationConfig(cmd, "timeout", &timeout, fileCfg.Backend.Timeout); err != nil {
		return settings{}, err
	}
	applyStringConfig(cmd, "log-file", &logFile, fileCfg.Log.File)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	return resolveSettings(backendURL, timeout, logFile, logLevel)
}

func resolveSettings(rawURL string, timeout time.Duration, file, level string) (settings, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return settings{}, fmt.Errorf("--backend is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return settings{}, fmt.Errorf("--backend must use http or https")
	}
	if u.Host == "" {
		return settings{}, fmt.Errorf("--backend must include a host")
	}
	if timeout < 0 {
		return settings{}, fmt.Errorf("--timeout must be >= 0")
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return settings{}, fmt.Errorf("--log-level: %w", err)
	}
	if strings.TrimSpace(file) == "" {
		file = config.DefaultLogPath()
	}
	return settings{
		backendURL: u.String(),
		timeout:    timeout,
		logFile:    config.ExpandHome(file),
		logLevel:   lvl,
	}, nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyDurationConfig(cmd *cobra.Command, name string, target *time.Duration, value *string) error {
	if value == nil {
		return nil
	}
	if cmd.Flags().Changed(name) {
		return nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(*value))
	if err != nil {
		return fmt.Errorf("invalid %s in config: %w", name, err)
	}
	*target = d
	return nil
}

func newLogger(level logrus.Level, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	return log
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# channelsim configuration
# Uncomment a value to enable it. CLI flags override config values.

[backend]
# url = %q    # Simulation backend base URL
# timeout = %q             # Per-request timeout; runs can take minutes

[log]
# file = %q   # Log file for the interactive UI
# level = %q               # debug, info, warn or error
`,
		defaultBackendURL,
		defaultTimeout.String(),
		"~/.local/state/channelsim/channelsim.log",
		defaultLogLevel,
	)
}
