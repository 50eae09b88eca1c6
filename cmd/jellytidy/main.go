package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Nomadcxx/jellytidy/internal/cleaner"
	"github.com/Nomadcxx/jellytidy/internal/config"
	"github.com/Nomadcxx/jellytidy/internal/logging"
	"github.com/Nomadcxx/jellytidy/internal/reporter"
	"github.com/Nomadcxx/jellytidy/internal/scanner"
	"github.com/Nomadcxx/jellytidy/internal/ui"
)

var (
	cfgFile    string
	dryRun     bool
	assumeYes  bool
	verbose    bool
	logFile    string
	logFormat  string
	reportFile string

	// Version information (set via -ldflags during build)
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "jellytidy <path>",
	Short: "Normalize a folder of downloaded movies",
	Long:  getLongDescription(),
	Args:  cobra.ExactArgs(1),
	Run:   runTidy,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration file location and effective settings",
	Run:   runConfig,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("jellytidy %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/jellytidy/config.toml)")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would change without touching any file")
	rootCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "apply without the review screen")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every file and folder removed")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "append logs to this file instead of stderr")
	rootCmd.Flags().StringVar(&logFormat, "log-format", "", "log format: text or json")
	rootCmd.Flags().StringVar(&reportFile, "report", "", "also write the plan to this file")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTidy(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	applyFlags(cmd, cfg)

	logger, closer, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to setup logging: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	root, err := filepath.Abs(args[0])
	if err != nil {
		root = args[0]
	}

	cleanerCfg := cleaner.DefaultConfig()
	cleanerCfg.ProtectedPaths = append(cleanerCfg.ProtectedPaths, cfg.Safety.ProtectedPaths...)

	fs := afero.NewOsFs()
	c := cleaner.New(fs, logger, cleanerCfg)

	if err := c.ValidateRoot(root); err != nil {
		logger.Error("incorrect path", "path", args[0], "error", err)
		fmt.Fprintln(os.Stderr, ui.FormatStatusFail(err.Error()))
		os.Exit(1)
	}

	plan, err := scanner.BuildPlan(fs, root, scanner.DefaultSanitizer(), logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.FormatStatusFail(fmt.Sprintf("Scan failed: %v", err)))
		os.Exit(1)
	}

	content := reporter.BuildPlanContent(plan)
	if reportFile != "" {
		if err := reporter.WriteFile(reportFile, content); err != nil {
			fmt.Fprintln(os.Stderr, ui.FormatStatusWarn(err.Error()))
		}
	}

	if cfg.Run.DryRun {
		fmt.Print(content)
		fmt.Println(ui.FormatStatusInfo("Dry run, nothing was changed."))
		return
	}

	if cfg.Run.Confirm {
		confirmed, err := reviewPlan(content)
		if err != nil {
			fmt.Fprintln(os.Stderr, ui.FormatStatusFail(err.Error()))
			os.Exit(1)
		}
		if !confirmed {
			fmt.Println(ui.FormatStatusInfo("Cancelled, nothing was changed."))
			return
		}
	}

	result, err := c.Apply(plan)
	fmt.Print(reporter.BuildResultContent(result))
	if err != nil {
		logger.Error("run stopped", "error", err, "operations", len(result.Operations))
		fmt.Fprintln(os.Stderr, ui.FormatStatusFail(err.Error()))
		os.Exit(1)
	}

	fmt.Println(ui.FormatStatusOK("Library tidied."))
}

func runConfig(cmd *cobra.Command, args []string) {
	configPath := cfgFile
	if configPath == "" {
		var err error
		configPath, err = config.ConfigPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("Configuration file: %s\n", configPath)
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		fmt.Println("Config file does not exist, using defaults.")
	}

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nEffective configuration:")
	if err := toml.NewEncoder(os.Stdout).Encode(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.LoadFrom(cfgFile)
	}
	return config.Load()
}

// applyFlags lets explicitly set flags override the config file
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("dry-run") {
		cfg.Run.DryRun = dryRun
	}
	if assumeYes {
		cfg.Run.Confirm = false
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	if flags.Changed("log-file") {
		cfg.Log.File = logFile
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = logFormat
	}
}

// reviewPlan shows the plan in the TUI and returns the user's decision
func reviewPlan(content string) (bool, error) {
	if !isTerminal() {
		return false, fmt.Errorf("not a terminal; re-run with --yes to apply without review")
	}

	p := tea.NewProgram(ui.NewReviewModel("jellytidy plan", content), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("error running TUI: %w", err)
	}

	m, ok := finalModel.(ui.ReviewModel)
	return ok && m.Confirmed(), nil
}

func isTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func getLongDescription() string {
	return ui.FormatBanner() + "\n\n" +
		"jellytidy strips release-group noise from movie file and folder names,\n" +
		"keeps only the largest video per movie, deletes everything that is not a\n" +
		"video and reorganizes each movie as \"Title (Year) [Quality]\"."
}
