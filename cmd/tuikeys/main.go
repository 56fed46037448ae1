// Package main provides the CLI entrypoint for tuikeys.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuikeys/internal/catalog"
	"github.com/verte-zerg/tuikeys/internal/config"
	"github.com/verte-zerg/tuikeys/internal/game"
	"github.com/verte-zerg/tuikeys/internal/logger"
	"github.com/verte-zerg/tuikeys/internal/model"
	"github.com/verte-zerg/tuikeys/internal/sampler"
	"github.com/verte-zerg/tuikeys/internal/stats"
	"github.com/verte-zerg/tuikeys/internal/statsui"
	"github.com/verte-zerg/tuikeys/internal/store"
	"github.com/verte-zerg/tuikeys/internal/tui"
)

const (
	defaultTool        = "vim"
	defaultDelayMs     = 1000
	defaultCurveWindow = 5
	defaultLogLevel    = "info"
)

var (
	practiceTool       string
	practiceDelayMs    int
	practiceSeed       int64
	practiceCatalogDir string

	statsTool        string
	statsPlain       bool
	statsColor       bool
	statsCurveWindow int

	removedRestore bool
	removedYes     bool

	resetYes bool
)

func main() {
	rootCmd := newRootCmd()
	err := rootCmd.Execute()
	logger.Close()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuikeys",
		Short:         "TUI keyboard shortcut trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceTool, "tool", defaultTool, "tool to practice")
	rootCmd.Flags().IntVar(&practiceDelayMs, "delay-ms", defaultDelayMs, "delay before the next shortcut (ms)")
	rootCmd.Flags().Int64Var(&practiceSeed, "seed", 0, "random seed (0 picks one from the clock)")
	rootCmd.PersistentFlags().StringVar(&practiceCatalogDir, "catalog-dir", config.DefaultCatalogDir(), "directory with user tool files")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newToolsCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newRemovedCmd())
	rootCmd.AddCommand(newResetCmd())

	return rootCmd
}

// env is the state shared by every command: config, catalog and store.
type env struct {
	file    config.FileConfig
	catalog *catalog.Catalog
	tools   map[string]model.Tool
	store   *store.Store
}

func openEnv(cmd *cobra.Command) (*env, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := initLogger(fileCfg.Log); err != nil {
		return nil, err
	}
	applyStringConfig(cmd, "catalog-dir", &practiceCatalogDir, fileCfg.Practice.CatalogDir)

	cat, err := catalog.Load(practiceCatalogDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load shortcuts: %w", err)
	}
	tools, err := cat.LoadAllTools()
	if err != nil {
		return nil, fmt.Errorf("failed to load tools: %w", err)
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	logger.Get().Info("environment ready", "tools", len(tools), "run", st.RunID())
	return &env{file: fileCfg, catalog: cat, tools: tools, store: st}, nil
}

func (e *env) close() {
	if cerr := e.store.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

func initLogger(cfg config.LogConfig) error {
	level := defaultLogLevel
	if cfg.Level != nil {
		level = *cfg.Level
	}
	path := config.DefaultLogPath()
	if cfg.Path != nil && strings.TrimSpace(*cfg.Path) != "" {
		path = *cfg.Path
	}
	if err := logger.Init(path, level); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	return nil
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	applyStringConfig(cmd, "tool", &practiceTool, e.file.Practice.Tool)
	applyIntConfig(cmd, "delay-ms", &practiceDelayMs, e.file.Practice.DelayMs)
	applyInt64Config(cmd, "seed", &practiceSeed, e.file.Practice.Seed)

	cfg := model.Config{
		Tool:            practiceTool,
		TransitionDelay: time.Duration(practiceDelayMs) * time.Millisecond,
		Seed:            practiceSeed,
		CatalogDir:      practiceCatalogDir,
	}
	if err := validateConfig(cfg, e.catalog.Names()); err != nil {
		return err
	}

	ctx := context.Background()
	scheduler := tui.NewScheduler()
	session, err := game.Load(ctx, cfg.Tool, game.Options{
		Catalog:   e.catalog,
		Store:     e.store,
		Scheduler: scheduler,
		Sampler:   sampler.New(cfg.Seed),
		Delay:     cfg.TransitionDelay,
		Logger:    logger.Component("game"),
	})
	if err != nil {
		return fmt.Errorf("failed to start practice: %w", err)
	}

	m := tui.NewModel(session, scheduler, e.tools, logger.Component("tui"))
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	run := m.Run()
	if run.Correct+run.Wrong == 0 {
		return nil
	}
	if err := e.store.InsertRun(ctx, run); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	logger.Get().Info("run saved", "tool", run.Tool, "correct", run.Correct, "wrong", run.Wrong)
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
		if err := os.WriteFile(path, []byte(config.DefaultConfigTemplate), 0o644); err != nil {
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

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List tools with their mastered rates",
		Args:  cobra.NoArgs,
		RunE:  runToolsCmd,
	}
}

func runToolsCmd(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	report, err := stats.BuildReport(context.Background(), e.store, e.tools, model.StatsConfig{CurveWindow: 1})
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	out := cmd.OutOrStdout()
	return stats.RenderToolRates(out, report.Rates, stats.TerminalWidth(), stats.ShouldUseColor(out, false))
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsTool, "tool", "", "tool filter")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a plain report instead of the dashboard")
	cmd.Flags().BoolVar(&statsColor, "color", false, "force colored plain output")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window over runs")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	applyIntConfig(cmd, "curve-window", &statsCurveWindow, e.file.Stats.CurveWindow)
	if statsCurveWindow < 1 {
		return fmt.Errorf("--curve-window must be >= 1")
	}
	if statsTool != "" {
		if _, ok := e.tools[statsTool]; !ok {
			return unknownToolError(statsTool, e.catalog.Names())
		}
	}
	cfg := model.StatsConfig{Tool: statsTool, CurveWindow: statsCurveWindow}

	if statsPlain {
		report, err := stats.BuildReport(context.Background(), e.store, e.tools, cfg)
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}
		out := cmd.OutOrStdout()
		return stats.RenderReport(out, report, stats.TerminalWidth(), stats.ShouldUseColor(out, statsColor))
	}

	m := statsui.NewModel(e.store, e.tools, cfg)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newRemovedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "removed",
		Short: "List or restore removed shortcuts",
		Args:  cobra.NoArgs,
		RunE:  runRemovedCmd,
	}
	cmd.Flags().BoolVar(&removedRestore, "restore", false, "put every removed shortcut back into practice")
	cmd.Flags().BoolVar(&removedYes, "yes", false, "skip the confirmation prompt")
	return cmd
}

func runRemovedCmd(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	ctx := context.Background()
	ids, err := e.store.LoadRemovedIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to load removed shortcuts: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(ids) == 0 {
		_, err := fmt.Fprintln(out, "No removed shortcuts.")
		return err
	}

	if !removedRestore {
		for _, id := range ids {
			line := id + "  (no longer in the catalog)"
			if sc, ok := e.catalog.ShortcutByID(id); ok {
				line = fmt.Sprintf("%s  %s", id, sc.Description)
			}
			if _, err := fmt.Fprintln(out, line); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
		return nil
	}

	names := e.catalog.Names()
	if len(names) == 0 {
		return fmt.Errorf("no tools available")
	}
	session, err := game.Load(ctx, names[0], game.Options{
		Catalog:   e.catalog,
		Store:     e.store,
		Scheduler: game.SchedulerFunc(func(time.Duration, func()) {}),
		Logger:    logger.Component("game"),
	})
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	confirm := game.ConfirmFunc(func(string) bool { return true })
	if !removedYes {
		confirm = promptConfirm(cmd.InOrStdin(), out)
	}
	if !session.RestoreRemovedShortcuts(confirm) {
		_, err := fmt.Fprintln(out, "Nothing restored.")
		return err
	}
	_, err = fmt.Fprintf(out, "Restored %d shortcuts.\n", len(ids))
	return err
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the answer history",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().BoolVar(&resetYes, "yes", false, "skip the confirmation prompt")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	out := cmd.OutOrStdout()
	if !resetYes && !promptConfirm(cmd.InOrStdin(), out)("Every recorded answer will be deleted.\nContinue?") {
		_, err := fmt.Fprintln(out, "Nothing deleted.")
		return err
	}
	if err := e.store.ResetHistory(context.Background()); err != nil {
		return fmt.Errorf("failed to reset history: %w", err)
	}
	logger.Get().Info("history reset")
	_, err = fmt.Fprintln(out, "History deleted.")
	return err
}

// promptConfirm asks on out and reads a y/yes answer from in.
func promptConfirm(in io.Reader, out io.Writer) game.ConfirmFunc {
	return func(prompt string) bool {
		if _, err := fmt.Fprintf(out, "%s [y/N] ", prompt); err != nil {
			return false
		}
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && line == "" {
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes"
	}
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

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func validateConfig(cfg model.Config, tools []string) error {
	if cfg.TransitionDelay < 0 {
		return fmt.Errorf("--delay-ms must be >= 0")
	}
	for _, name := range tools {
		if name == cfg.Tool {
			return nil
		}
	}
	return unknownToolError(cfg.Tool, tools)
}

func unknownToolError(tool string, names []string) error {
	lines := []string{
		fmt.Sprintf("unknown tool %q", tool),
		fmt.Sprintf("available: %s", strings.Join(names, ", ")),
		"Run: tuikeys tools",
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
